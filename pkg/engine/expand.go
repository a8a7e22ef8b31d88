package engine

// Expand grows a build-up game's grid with HoleTemp cells until every jump
// candidate of every peg lies inside it. Positions held by the game (the
// selection, the first and last peg and the operation log) are shifted with
// the grid. It reports whether the grid changed; forward games never expand.
func (g *Game) Expand() bool {
	if !g.rules.reverse {
		return false
	}

	var top, bottom, left, right int
	height := len(g.holes)
	for r, row := range g.holes {
		for c, h := range row {
			if !h.Type.IsPeg() {
				continue
			}
			for _, n := range g.geometry.Candidates(g, Pos(c, r)) {
				t := n.Target
				lo, hi := g.colRange(t.Row)
				top = max(top, -t.Row)
				bottom = max(bottom, t.Row-height+1)
				left = max(left, lo-t.Col)
				right = max(right, t.Col-hi)
			}
		}
	}
	if top == 0 && bottom == 0 && left == 0 && right == 0 {
		return false
	}

	staggered := g.boardType == Hexagon
	for i := 0; i < left; i++ {
		for r := range g.holes {
			g.holes[r] = padLeft(g.holes[r], staggered)
		}
	}
	for i := 0; i < right; i++ {
		for r := range g.holes {
			g.holes[r] = padRight(g.holes[r], staggered)
		}
	}
	for i := 0; i < top; i++ {
		g.holes = append([][]Hole{g.newRow(g.holes[0], staggered)}, g.holes...)
	}
	for i := 0; i < bottom; i++ {
		g.holes = append(g.holes, g.newRow(g.holes[len(g.holes)-1], staggered))
	}

	shift := func(p Position) Position {
		if !p.Valid() {
			return p
		}
		return p.offset(left, top)
	}
	g.selected = shift(g.selected)
	g.firstPeg = shift(g.firstPeg)
	g.lastPeg = shift(g.lastPeg)
	for i := range g.history {
		e := &g.history[i]
		e.op.Source = shift(e.op.Source)
		e.op.Target = shift(e.op.Target)
		e.bypass = shift(e.bypass)
	}

	g.updateStatus()
	return true
}

// colRange returns the first and last playable column of row r, which may
// lie outside the grid. Staggered rows beyond the edges continue the
// alternation, and their half markers are not playable.
func (g *Game) colRange(r int) (lo, hi int) {
	if g.boardType != Hexagon {
		edge := min(max(r, 0), len(g.holes)-1)
		return 0, len(g.holes[edge]) - 1
	}
	width := 0
	for _, row := range g.holes {
		width = max(width, len(row))
	}
	if g.halfRow(r) {
		return 1, width - 2
	}
	return 0, width - 2
}

// halfRow reports whether row r leads with a half marker.
func (g *Game) halfRow(r int) bool {
	last := len(g.holes) - 1
	switch {
	case r < 0:
		return g.halfRow(0) != ((-r)%2 == 1)
	case r > last:
		return g.halfRow(last) != ((r-last)%2 == 1)
	}
	row := g.holes[r]
	return len(row) > 0 && row[0].Type == HoleHalf
}

func tempHole() Hole {
	return Hole{Type: HoleTemp, Status: StatusNormal}
}

// padLeft adds one column on the left. A staggered row keeps its leading
// half marker and takes the new cell behind it.
func padLeft(row []Hole, staggered bool) []Hole {
	if staggered && len(row) > 0 && row[0].Type == HoleHalf {
		out := make([]Hole, 0, len(row)+1)
		out = append(out, row[0], tempHole())
		return append(out, row[1:]...)
	}
	return append([]Hole{tempHole()}, row...)
}

// padRight adds one column on the right, in front of a trailing half marker.
func padRight(row []Hole, staggered bool) []Hole {
	n := len(row)
	if staggered && n > 0 && row[n-1].Type == HoleHalf {
		out := make([]Hole, 0, n+1)
		out = append(out, row[:n-1]...)
		return append(out, tempHole(), row[n-1])
	}
	return append(row, tempHole())
}

// newRow builds a temp row to sit next to edge. Staggered grids alternate
// between half-led rows and plain rows one cell shorter.
func (g *Game) newRow(edge []Hole, staggered bool) []Hole {
	if !staggered {
		row := make([]Hole, len(edge))
		for i := range row {
			row[i] = tempHole()
		}
		return row
	}
	if len(edge) > 0 && edge[0].Type == HoleHalf {
		row := make([]Hole, len(edge)-1)
		for i := range row {
			row[i] = tempHole()
		}
		return row
	}
	row := make([]Hole, len(edge)+1)
	for i := range row {
		row[i] = tempHole()
	}
	row[0] = Hole{Type: HoleHalf, Status: StatusNormal}
	row[len(row)-1] = row[0]
	return row
}
