package engine

import (
	"context"
	"testing"
)

func TestSolveCacheLookup(t *testing.T) {
	c := NewSolveCache(16)
	b, _ := LookupBoard("triangle")
	opts := SolveOptions{}

	if _, ok := c.Lookup(b, opts); ok {
		t.Fatal("Lookup hit on an empty cache")
	}

	res, err := Solve(context.Background(), b, opts, nil)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	c.Add(b, opts, res)

	got, ok := c.Lookup(b, opts)
	if !ok {
		t.Fatal("Lookup missed after Add")
	}
	if got.Solved != res.Solved || len(got.Moves) != len(res.Moves) {
		t.Errorf("Lookup = %+v, want %+v", got, res)
	}

	// callers own the returned moves
	got.Moves[0] = Operation{}
	again, _ := c.Lookup(b, opts)
	if again.Moves[0] != res.Moves[0] {
		t.Error("Lookup returned a shared move slice")
	}

	if _, ok := c.Lookup(b, SolveOptions{RequireSingularity: true}); ok {
		t.Error("Lookup ignored RequireSingularity")
	}
	if _, ok := c.Lookup(b, SolveOptions{MaxNodes: res.Nodes - 1}); ok {
		t.Error("Lookup served a run larger than the node budget")
	}

	lookups, hits, adds := c.Stats()
	if lookups != 5 || hits != 2 || adds != 1 {
		t.Errorf("Stats = %d, %d, %d; want 5, 2, 1", lookups, hits, adds)
	}
	if rate := c.HitRate(); rate != 40 {
		t.Errorf("HitRate = %v, want 40", rate)
	}

	c.Flush()
	if _, ok := c.Lookup(b, opts); ok {
		t.Error("Lookup hit after Flush")
	}
}

func TestSolveCacheEviction(t *testing.T) {
	// a two-entry cache has a single slot holding two boards
	c := NewSolveCache(2)
	opts := SolveOptions{}
	boards := []*Board{
		layout(Rectangular, NoPosition, "11O"),
		layout(Rectangular, NoPosition, "O11"),
		layout(Rectangular, NoPosition, "11O1"),
	}
	for _, b := range boards {
		res, err := Solve(context.Background(), b, opts, nil)
		if err != nil {
			t.Fatalf("Solve(%q) error: %v", b.Serialize(), err)
		}
		c.Add(b, opts, res)
	}

	if _, ok := c.Lookup(boards[0], opts); ok {
		t.Error("oldest entry survived two newer adds")
	}
	for _, b := range boards[1:] {
		if _, ok := c.Lookup(b, opts); !ok {
			t.Errorf("Lookup(%q) missed", b.Serialize())
		}
	}
}

func TestSolveCached(t *testing.T) {
	b, _ := LookupBoard("triangle")

	res, cached, err := SolveCached(context.Background(), nil, b, SolveOptions{}, nil)
	if err != nil || cached || !res.Solved {
		t.Fatalf("SolveCached without cache = %v, %v, %v", res.Solved, cached, err)
	}

	c := NewSolveCache(DefaultSolveCacheSize)
	if _, cached, _ = SolveCached(context.Background(), c, b, SolveOptions{}, nil); cached {
		t.Error("first run reported cached")
	}
	if _, cached, _ = SolveCached(context.Background(), c, b, SolveOptions{}, nil); !cached {
		t.Error("second run not cached")
	}

	english, _ := LookupBoard("english")
	if _, _, err := SolveCached(context.Background(), c, english, SolveOptions{MaxNodes: 1}, nil); err == nil {
		t.Fatal("node-limited run returned no error")
	}
	if _, _, adds := c.Stats(); adds != 1 {
		t.Errorf("adds = %d, want 1; node-limited runs are not cached", adds)
	}
}
