package engine

import "math"

// DragThreshold is the displacement (in pointer units) a gesture must exceed
// before it counts as a drag rather than a tap.
const DragThreshold = 10

// Ratio thresholds of |dx|/|dy| used by the diagonal topologies. Above
// axisRatio a gesture is horizontal, below 1/axisRatio vertical, and in
// between it is read as a diagonal. This is an angular heuristic, not exact
// geometry, and the constants are kept for compatibility with existing
// clients.
const (
	axisRatio    = 2
	axisRatioLow = 0.5
)

// Grid is the read-only cell lookup a geometry needs. ok is false for
// positions outside the grid.
type Grid interface {
	At(p Position) (t HoleType, ok bool)
}

// Geometry is the per-topology jump geometry.
type Geometry interface {
	// Candidates lists every jump a peg at p could make, before bounds or
	// legality filtering.
	Candidates(g Grid, p Position) []Neighbor

	// Direction decodes a drag displacement into a direction. ok is false
	// when the gesture is below DragThreshold.
	Direction(dx, dy float64) (d Direction, ok bool)
}

// GeometryFor returns the geometry of a topology tag. Unknown tags fall back
// to rectangular.
func GeometryFor(t BoardType) Geometry {
	switch t {
	case Octagon:
		return octagonGeometry{}
	case Hexagon:
		return hexagonGeometry{}
	default:
		return rectGeometry{}
	}
}

func isTap(dx, dy float64) bool {
	return math.Max(math.Abs(dx), math.Abs(dy)) <= DragThreshold
}

// axisDirection picks the dominant axis, ties going horizontal.
func axisDirection(dx, dy float64) Direction {
	if math.Abs(dx) >= math.Abs(dy) {
		if dx > 0 {
			return DirRight
		}
		return DirLeft
	}
	if dy > 0 {
		return DirDown
	}
	return DirUp
}

func diagonalDirection(dx, dy float64) Direction {
	switch {
	case dx > 0 && dy > 0:
		return DirDownRight
	case dx > 0:
		return DirUpRight
	case dy > 0:
		return DirDownLeft
	default:
		return DirUpLeft
	}
}

// rectGeometry jumps orthogonally over one cell.
type rectGeometry struct{}

func (rectGeometry) Candidates(_ Grid, p Position) []Neighbor {
	return orthogonal(p)
}

func (rectGeometry) Direction(dx, dy float64) (Direction, bool) {
	if isTap(dx, dy) {
		return DirNone, false
	}
	return axisDirection(dx, dy), true
}

func orthogonal(p Position) []Neighbor {
	return []Neighbor{
		{Bypass: p.offset(0, -1), Target: p.offset(0, -2), Direction: DirUp},
		{Bypass: p.offset(0, 1), Target: p.offset(0, 2), Direction: DirDown},
		{Bypass: p.offset(-1, 0), Target: p.offset(-2, 0), Direction: DirLeft},
		{Bypass: p.offset(1, 0), Target: p.offset(2, 0), Direction: DirRight},
	}
}

// octagonGeometry adds the four diagonals to the orthogonal jumps.
type octagonGeometry struct{}

func (octagonGeometry) Candidates(_ Grid, p Position) []Neighbor {
	return append(orthogonal(p),
		Neighbor{Bypass: p.offset(-1, -1), Target: p.offset(-2, -2), Direction: DirUpLeft},
		Neighbor{Bypass: p.offset(1, -1), Target: p.offset(2, -2), Direction: DirUpRight},
		Neighbor{Bypass: p.offset(-1, 1), Target: p.offset(-2, 2), Direction: DirDownLeft},
		Neighbor{Bypass: p.offset(1, 1), Target: p.offset(2, 2), Direction: DirDownRight},
	)
}

func (octagonGeometry) Direction(dx, dy float64) (Direction, bool) {
	if isTap(dx, dy) {
		return DirNone, false
	}
	ratio := math.Abs(dx) / math.Abs(dy)
	if ratio > axisRatio || ratio < axisRatioLow {
		return axisDirection(dx, dy), true
	}
	return diagonalDirection(dx, dy), true
}

// hexagonGeometry serves both triangular variants. Rows are staggered: a
// row that starts with a HoleHalf marker is shifted half a cell, so column c
// of that row sits between columns c-1 and c of the plain rows around it.
// The stagger is read from the row itself on every call.
type hexagonGeometry struct{}

func (hexagonGeometry) Candidates(g Grid, p Position) []Neighbor {
	c, r := p.Col, p.Row
	first, _ := g.At(Position{Col: 0, Row: r})
	neighbors := []Neighbor{
		{Bypass: p.offset(-1, 0), Target: p.offset(-2, 0), Direction: DirLeft},
		{Bypass: p.offset(1, 0), Target: p.offset(2, 0), Direction: DirRight},
	}
	if first == HoleHalf {
		return append(neighbors,
			Neighbor{Bypass: Pos(c-1, r-1), Target: Pos(c-1, r-2), Direction: DirUpLeft},
			Neighbor{Bypass: Pos(c, r-1), Target: Pos(c+1, r-2), Direction: DirUpRight},
			Neighbor{Bypass: Pos(c-1, r+1), Target: Pos(c-1, r+2), Direction: DirDownLeft},
			Neighbor{Bypass: Pos(c, r+1), Target: Pos(c+1, r+2), Direction: DirDownRight},
		)
	}
	return append(neighbors,
		Neighbor{Bypass: Pos(c, r-1), Target: Pos(c-1, r-2), Direction: DirUpLeft},
		Neighbor{Bypass: Pos(c+1, r-1), Target: Pos(c+1, r-2), Direction: DirUpRight},
		Neighbor{Bypass: Pos(c, r+1), Target: Pos(c-1, r+2), Direction: DirDownLeft},
		Neighbor{Bypass: Pos(c+1, r+1), Target: Pos(c+1, r+2), Direction: DirDownRight},
	)
}

func (hexagonGeometry) Direction(dx, dy float64) (Direction, bool) {
	if isTap(dx, dy) {
		return DirNone, false
	}
	if math.Abs(dx)/math.Abs(dy) > axisRatio {
		if dx > 0 {
			return DirRight, true
		}
		return DirLeft, true
	}
	return diagonalDirection(dx, dy), true
}
