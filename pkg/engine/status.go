package engine

// updateStatus recomputes every derived field from the hole types: hole
// statuses, the remaining and jumpable counts, and the last peg. It runs
// after every mutation and after a selection change.
func (g *Game) updateStatus() {
	g.remaining = 0
	g.jumpable = 0

	for r, row := range g.holes {
		for c := range row {
			h := &row[c]
			h.Status = StatusNormal
			if !h.Type.IsPeg() {
				continue
			}
			g.remaining += h.Type.Pegs()
			if len(g.Neighbors(Pos(c, r))) > 0 {
				h.Status = StatusJumpable
				g.jumpable++
			}
		}
	}

	if !g.HasPeg(g.selected) {
		g.selected = NoPosition
	}

	g.lastPeg = NoPosition
	if g.selected.Valid() {
		neighbors := g.Neighbors(g.selected)
		sel := g.hole(g.selected)
		if len(neighbors) > 0 {
			sel.Status = StatusSelectedJumpable
		} else {
			sel.Status = StatusSelectedUnjumpable
		}
		for _, n := range neighbors {
			g.hole(n.Target).Status = StatusTarget
		}
		if g.remaining == 1 {
			g.lastPeg = g.selected
		}
	}
}
