package engine

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/emirpasic/gods/sets/hashset"
	"gonum.org/v1/gonum/floats"
)

// ErrNodeLimit is returned by Solve when the node budget runs out before the
// search finishes.
var ErrNodeLimit = errors.New("solver node limit reached")

// SolveOptions controls a solver run
type SolveOptions struct {
	MaxNodes           int  // Positions to expand before giving up (default 1,000,000)
	RequireSingularity bool // The last peg must finish on the board's singularity
	ProgressEvery      int  // Nodes between progress callbacks (default 10,000)
}

// DefaultSolveOptions returns sensible defaults
func DefaultSolveOptions() SolveOptions {
	return SolveOptions{
		MaxNodes:      1_000_000,
		ProgressEvery: 10_000,
	}
}

// SolveProgress is reported periodically while the search runs
type SolveProgress struct {
	Nodes         int           `json:"nodes"`
	Depth         int           `json:"depth"`
	BestRemaining int           `json:"bestRemaining"`
	Elapsed       time.Duration `json:"elapsed"`
}

// SolveProgressCallback receives solver progress.
type SolveProgressCallback func(SolveProgress)

// SolveResult is the outcome of a solver run. Moves is the solution when
// Solved, otherwise the line that left the fewest pegs.
type SolveResult struct {
	Solved    bool          `json:"solved"`
	Moves     []Operation   `json:"moves"`
	Remaining int           `json:"remaining"`
	Nodes     int           `json:"nodes"`
	Elapsed   time.Duration `json:"elapsed"`
}

type solver struct {
	ctx      context.Context
	opts     SolveOptions
	progress SolveProgressCallback
	game     *Game
	target   Position
	weights  []float64
	pegs     []float64
	seen     *hashset.Set
	start    time.Time

	nodes     int
	best      []Operation
	bestCount int
	err       error
}

// candidate is one move under consideration at a node.
type candidate struct {
	from   Position
	n      Neighbor
	weight float64
}

// Solve searches forward moves from b for a line that leaves a single peg.
// Children are tried in order of how central they leave the pegs, and
// positions already shown to fail are skipped. Cancelling ctx or running
// out of nodes stops the search; the partial result is returned along with
// ctx.Err() or ErrNodeLimit.
func Solve(ctx context.Context, b *Board, opts SolveOptions, progress SolveProgressCallback) (*SolveResult, error) {
	defaults := DefaultSolveOptions()
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = defaults.MaxNodes
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = defaults.ProgressEvery
	}

	g := NewGame(b, false)
	s := &solver{
		ctx:       ctx,
		opts:      opts,
		progress:  progress,
		game:      g,
		target:    NoPosition,
		weights:   centralityWeights(g.holes),
		seen:      hashset.New(),
		start:     time.Now(),
		bestCount: g.remaining,
	}
	if opts.RequireSingularity {
		s.target = b.singularity
	}
	s.pegs = make([]float64, len(s.weights))

	solved := s.search(0)
	res := &SolveResult{
		Solved:    solved,
		Moves:     s.best,
		Remaining: s.bestCount,
		Nodes:     s.nodes,
		Elapsed:   time.Since(s.start),
	}
	if res.Moves == nil {
		res.Moves = []Operation{}
	}
	if solved {
		return res, nil
	}
	return res, s.err
}

func (s *solver) goal() bool {
	if s.game.remaining != 1 {
		return false
	}
	if !s.target.Valid() {
		return true
	}
	return s.game.HasPeg(s.target)
}

func (s *solver) search(depth int) bool {
	if s.goal() {
		s.record()
		return true
	}
	if s.err != nil {
		return false
	}
	if s.nodes >= s.opts.MaxNodes {
		s.err = ErrNodeLimit
		return false
	}
	if err := s.ctx.Err(); err != nil {
		s.err = err
		return false
	}

	s.nodes++
	if s.progress != nil && s.nodes%s.opts.ProgressEvery == 0 {
		s.progress(SolveProgress{
			Nodes:         s.nodes,
			Depth:         depth,
			BestRemaining: s.bestCount,
			Elapsed:       time.Since(s.start),
		})
	}

	key := s.key()
	if s.seen.Contains(key) {
		return false
	}

	for _, c := range s.candidates() {
		if !s.game.jump(c.from, c.n) {
			continue
		}
		if s.game.remaining < s.bestCount {
			s.record()
		}
		ok := s.search(depth + 1)
		s.game.Undo()
		if ok {
			return true
		}
		if s.err != nil {
			return false
		}
	}
	s.seen.Add(key)
	return false
}

// candidates lists every legal move, most central result first.
func (s *solver) candidates() []candidate {
	var out []candidate
	for r, row := range s.game.holes {
		for c, h := range row {
			if !h.Type.IsPeg() {
				continue
			}
			from := Pos(c, r)
			for _, n := range s.game.Neighbors(from) {
				out = append(out, candidate{from: from, n: n, weight: s.weigh(from, n)})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].weight > out[j].weight
	})
	return out
}

// weigh scores the peg layout a move would leave with the centrality
// weights.
func (s *solver) weigh(from Position, n Neighbor) float64 {
	i := 0
	for r, row := range s.game.holes {
		for c, h := range row {
			v := float64(h.Type.Pegs())
			switch p := Pos(c, r); {
			case p.Equal(from), p.Equal(n.Bypass):
				v--
			case p.Equal(n.Target):
				v++
			}
			s.pegs[i] = v
			i++
		}
	}
	return floats.Dot(s.pegs, s.weights)
}

func (s *solver) record() {
	s.bestCount = s.game.remaining
	s.best = s.game.Operations()
}

func (s *solver) key() string {
	buf := make([]byte, 0, len(s.pegs))
	for _, row := range s.game.holes {
		for _, h := range row {
			buf = append(buf, byte(h.Type))
		}
	}
	return string(buf)
}

// centralityWeights gives each cell the negated distance from the grid's
// centre, flattened row-major.
func centralityWeights(holes [][]Hole) []float64 {
	var w []float64
	cr := float64(len(holes)-1) / 2
	for r, row := range holes {
		cc := float64(len(row)-1) / 2
		for c := range row {
			dr, dc := float64(r)-cr, float64(c)-cc
			if dr < 0 {
				dr = -dr
			}
			if dc < 0 {
				dc = -dc
			}
			w = append(w, -(dr + dc))
		}
	}
	return w
}
