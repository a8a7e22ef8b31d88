package api

import (
	"context"
	"sync/atomic"
	"time"
)

// lane is one bounded class of work: a semaphore plus counters.
type lane struct {
	sem    chan struct{}
	queued int64
	active int64
	total  int64
}

func newLane(size int) *lane {
	return &lane{sem: make(chan struct{}, size)}
}

func (l *lane) acquire(ctx context.Context) error {
	atomic.AddInt64(&l.queued, 1)
	defer atomic.AddInt64(&l.queued, -1)

	select {
	case l.sem <- struct{}{}:
		atomic.AddInt64(&l.active, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lane) tryAcquire() bool {
	select {
	case l.sem <- struct{}{}:
		atomic.AddInt64(&l.active, 1)
		return true
	default:
		return false
	}
}

func (l *lane) release() {
	atomic.AddInt64(&l.active, -1)
	atomic.AddInt64(&l.total, 1)
	<-l.sem
}

// WorkerPool bounds concurrent request processing. Game operations (select,
// move, undo) are cheap and share a wide lane; solver runs get a narrow one
// so a few searches cannot starve play.
type WorkerPool struct {
	game  *lane
	solve *lane
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxGameWorkers  int // Max concurrent game operations (default: 100)
	MaxSolveWorkers int // Max concurrent solver runs (default: 4)
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxGameWorkers:  100,
		MaxSolveWorkers: 4,
	}
}

// NewWorkerPool creates a new worker pool with the given configuration.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	defaults := DefaultPoolConfig()
	if config.MaxGameWorkers <= 0 {
		config.MaxGameWorkers = defaults.MaxGameWorkers
	}
	if config.MaxSolveWorkers <= 0 {
		config.MaxSolveWorkers = defaults.MaxSolveWorkers
	}
	return &WorkerPool{
		game:  newLane(config.MaxGameWorkers),
		solve: newLane(config.MaxSolveWorkers),
	}
}

// AcquireGame waits for a game slot or for ctx to end.
func (p *WorkerPool) AcquireGame(ctx context.Context) error { return p.game.acquire(ctx) }

// ReleaseGame releases a game slot.
func (p *WorkerPool) ReleaseGame() { p.game.release() }

// TryAcquireGame takes a game slot if one is free.
func (p *WorkerPool) TryAcquireGame() bool { return p.game.tryAcquire() }

// AcquireSolve waits for a solver slot or for ctx to end.
func (p *WorkerPool) AcquireSolve(ctx context.Context) error { return p.solve.acquire(ctx) }

// ReleaseSolve releases a solver slot.
func (p *WorkerPool) ReleaseSolve() { p.solve.release() }

// TryAcquireSolve takes a solver slot if one is free.
func (p *WorkerPool) TryAcquireSolve() bool { return p.solve.tryAcquire() }

// AcquireSolveWithTimeout waits at most timeout for a solver slot.
func (p *WorkerPool) AcquireSolveWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.AcquireSolve(ctx)
}

// PoolStats is a point-in-time view of the pool.
type PoolStats struct {
	ActiveGame  int64 `json:"active_game"`
	ActiveSolve int64 `json:"active_solve"`
	QueuedGame  int64 `json:"queued_game"`
	QueuedSolve int64 `json:"queued_solve"`
	TotalGame   int64 `json:"total_game"`
	TotalSolve  int64 `json:"total_solve"`
	MaxGame     int   `json:"max_game"`
	MaxSolve    int   `json:"max_solve"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		ActiveGame:  atomic.LoadInt64(&p.game.active),
		ActiveSolve: atomic.LoadInt64(&p.solve.active),
		QueuedGame:  atomic.LoadInt64(&p.game.queued),
		QueuedSolve: atomic.LoadInt64(&p.solve.queued),
		TotalGame:   atomic.LoadInt64(&p.game.total),
		TotalSolve:  atomic.LoadInt64(&p.solve.total),
		MaxGame:     cap(p.game.sem),
		MaxSolve:    cap(p.solve.sem),
	}
}
