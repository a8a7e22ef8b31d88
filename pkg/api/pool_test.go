package api

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// laneOps exposes one lane of a pool to table tests.
type laneOps struct {
	name       string
	acquire    func(context.Context) error
	tryAcquire func() bool
	release    func()
	stats      func(PoolStats) (active, total int64, max int)
}

func poolLanes(p *WorkerPool) []laneOps {
	return []laneOps{
		{
			name: "game", acquire: p.AcquireGame, tryAcquire: p.TryAcquireGame, release: p.ReleaseGame,
			stats: func(s PoolStats) (int64, int64, int) { return s.ActiveGame, s.TotalGame, s.MaxGame },
		},
		{
			name: "solve", acquire: p.AcquireSolve, tryAcquire: p.TryAcquireSolve, release: p.ReleaseSolve,
			stats: func(s PoolStats) (int64, int64, int) { return s.ActiveSolve, s.TotalSolve, s.MaxSolve },
		},
	}
}

func TestWorkerPoolLanes(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxGameWorkers: 2, MaxSolveWorkers: 2})

	for _, l := range poolLanes(pool) {
		t.Run(l.name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 2; i++ {
				if err := l.acquire(ctx); err != nil {
					t.Fatalf("acquire %d: %v", i, err)
				}
			}
			if active, _, _ := l.stats(pool.Stats()); active != 2 {
				t.Errorf("active = %d, want 2", active)
			}
			if l.tryAcquire() {
				t.Error("tryAcquire on a full lane succeeded")
			}

			l.release()
			l.release()
			active, total, _ := l.stats(pool.Stats())
			if active != 0 || total != 2 {
				t.Errorf("after release active = %d, total = %d, want 0, 2", active, total)
			}
		})
	}
}

func TestWorkerPoolLanesIndependent(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxGameWorkers: 1, MaxSolveWorkers: 1})

	if !pool.TryAcquireSolve() {
		t.Fatal("TryAcquireSolve on an empty pool failed")
	}
	defer pool.ReleaseSolve()

	if !pool.TryAcquireGame() {
		t.Error("a busy solver lane blocked the game lane")
	}
	pool.ReleaseGame()
}

func TestWorkerPoolContextCancellation(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxGameWorkers: 1, MaxSolveWorkers: 1})
	if err := pool.AcquireGame(context.Background()); err != nil {
		t.Fatalf("AcquireGame: %v", err)
	}
	defer pool.ReleaseGame()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pool.AcquireGame(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("AcquireGame on cancelled ctx = %v, want context.Canceled", err)
	}
}

func TestWorkerPoolTimeout(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxGameWorkers: 1, MaxSolveWorkers: 1})
	if err := pool.AcquireSolve(context.Background()); err != nil {
		t.Fatalf("AcquireSolve: %v", err)
	}
	defer pool.ReleaseSolve()

	if err := pool.AcquireSolveWithTimeout(10 * time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("AcquireSolveWithTimeout = %v, want context.DeadlineExceeded", err)
	}
}

func TestWorkerPoolConcurrency(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxGameWorkers: 3, MaxSolveWorkers: 1})

	var wg sync.WaitGroup
	var running, peak int64
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pool.AcquireGame(context.Background()); err != nil {
				t.Errorf("AcquireGame: %v", err)
				return
			}
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&running, -1)
			pool.ReleaseGame()
		}()
	}
	wg.Wait()

	if peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
	if s := pool.Stats(); s.TotalGame != 12 {
		t.Errorf("TotalGame = %d, want 12", s.TotalGame)
	}
}

func TestWorkerPoolDefaults(t *testing.T) {
	s := NewWorkerPool(PoolConfig{}).Stats()
	want := DefaultPoolConfig()
	if s.MaxGame != want.MaxGameWorkers || s.MaxSolve != want.MaxSolveWorkers {
		t.Errorf("max = %d/%d, want %d/%d", s.MaxGame, s.MaxSolve, want.MaxGameWorkers, want.MaxSolveWorkers)
	}
}
