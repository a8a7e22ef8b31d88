package engine

// rules holds the per-game legality switches, fixed for the life of a game.
type rules struct {
	reverse bool // build-up mode: jumps add pegs
	plural  bool // holes may carry more than one peg
}

// legalJump checks a jump from start over bypass onto target.
//
// Forward mode needs an empty target and a peg to capture (exactly one peg
// under singular rules). Reverse mode needs free bypass and target cells
// under singular rules, or merely on-board ones under plural rules; a hole
// that already holds MaxPegs cannot take another.
func (r rules) legalJump(start, bypass, target HoleType) bool {
	if !start.IsPeg() {
		return false
	}
	if r.reverse {
		if bypass.Pegs() >= MaxPegs || target.Pegs() >= MaxPegs {
			return false
		}
		if r.plural {
			return bypass.OnBoard() && target.OnBoard()
		}
		return bypass.IsOpen() && target.IsOpen()
	}
	if target != HoleEmpty {
		return false
	}
	if r.plural {
		return bypass.IsPeg()
	}
	return bypass == HoleOne
}

// applyJump returns the new start, bypass and target types. The caller has
// already checked legality.
func (r rules) applyJump(start, bypass, target HoleType) (HoleType, HoleType, HoleType) {
	if r.reverse {
		return start.add(-1), bypass.add(1), target.add(1)
	}
	return start.add(-1), bypass.add(-1), target.add(1)
}

// historyEntry is one logged move together with what it overwrote, so undo
// restores the three touched cells exactly.
type historyEntry struct {
	op     Operation
	bypass Position
	prev   [3]HoleType // start, bypass, target before the move
}

// jump applies n from start if legal and logs it.
func (g *Game) jump(start Position, n Neighbor) bool {
	s, b, t := g.hole(start), g.hole(n.Bypass), g.hole(n.Target)
	if s == nil || b == nil || t == nil {
		return false
	}
	if !g.rules.legalJump(s.Type, b.Type, t.Type) {
		return false
	}

	g.history = append(g.history, historyEntry{
		op:     Operation{Source: start, Target: n.Target},
		bypass: n.Bypass,
		prev:   [3]HoleType{s.Type, b.Type, t.Type},
	})
	s.Type, b.Type, t.Type = g.rules.applyJump(s.Type, b.Type, t.Type)

	g.selected = n.Target
	g.updateStatus()
	return true
}

// Click moves the peg at start (or the current selection when start is not
// valid) onto end, which must be the landing cell of a legal jump. Clicking
// the start cell itself only selects it. Illegal moves are rejected without
// changing the grid.
func (g *Game) Click(end, start Position) bool {
	from := start
	if !from.Valid() {
		from = g.selected
	}
	if from.Equal(end) {
		g.Select(end)
		return false
	}
	if !g.HasPeg(from) || g.hole(end) == nil {
		return false
	}
	for _, n := range g.Neighbors(from) {
		if n.Target.Equal(end) {
			return g.jump(from, n)
		}
	}
	return false
}

// Move jumps the selected peg in direction d.
func (g *Game) Move(d Direction) bool {
	n, ok := g.Neighbor(g.selected, d)
	if !ok {
		return false
	}
	return g.jump(g.selected, n)
}

// Drag decodes a pointer displacement and jumps the selected peg that way.
func (g *Game) Drag(dx, dy float64) bool {
	d, ok := g.geometry.Direction(dx, dy)
	if !ok {
		return false
	}
	return g.Move(d)
}

// Undo takes back the most recent move, replaying it from its target back to
// its source. The selection returns to the source. It reports false when the
// log is empty.
func (g *Game) Undo() bool {
	if len(g.history) == 0 {
		return false
	}
	e := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]

	g.hole(e.op.Source).Type = e.prev[0]
	g.hole(e.bypass).Type = e.prev[1]
	g.hole(e.op.Target).Type = e.prev[2]

	g.selected = e.op.Source
	g.updateStatus()
	return true
}
