package engine

// Game is the runtime state of one puzzle being played: the live holes, the
// selection, the operation log and the counters derived from them.
//
// A Game owns its holes exclusively and is not safe for concurrent use;
// callers that share one across goroutines must serialise access.
type Game struct {
	boardType BoardType
	geometry  Geometry
	rules     rules
	holes     [][]Hole

	selected Position
	firstPeg Position // singularity, fixed for the game
	lastPeg  Position // set while exactly one peg remains and it is selected

	remaining int
	jumpable  int

	history []historyEntry
}

// NewGame starts a game on board b. In reverse (build-up) mode off-board
// cells become HoleTemp so pegs can be built out into them. Plural rules
// follow b.Plural().
func NewGame(b *Board, reverse bool) *Game {
	holes := make([][]Hole, len(b.cells))
	for r, row := range b.cells {
		holes[r] = make([]Hole, len(row))
		for c, t := range row {
			if reverse && t == HoleNone {
				t = HoleTemp
			}
			holes[r][c] = Hole{Type: t, Status: StatusNormal}
		}
	}

	g := &Game{
		boardType: b.boardType,
		geometry:  GeometryFor(b.boardType),
		rules:     rules{reverse: reverse, plural: b.plural},
		holes:     holes,
		selected:  NoPosition,
		firstPeg:  b.singularity,
		lastPeg:   NoPosition,
	}
	g.updateStatus()
	return g
}

// At implements Grid.
func (g *Game) At(p Position) (HoleType, bool) {
	h := g.hole(p)
	if h == nil {
		return HoleNone, false
	}
	return h.Type, true
}

// hole returns the live cell at p, or nil when p is outside the grid.
func (g *Game) hole(p Position) *Hole {
	if p.Row < 0 || p.Row >= len(g.holes) {
		return nil
	}
	row := g.holes[p.Row]
	if p.Col < 0 || p.Col >= len(row) {
		return nil
	}
	return &row[p.Col]
}

// Hole returns a copy of the cell at p.
func (g *Game) Hole(p Position) (Hole, bool) {
	h := g.hole(p)
	if h == nil {
		return Hole{}, false
	}
	return *h, true
}

// HasPeg reports whether p holds at least one peg.
func (g *Game) HasPeg(p Position) bool {
	t, ok := g.At(p)
	return ok && t.IsPeg()
}

// Neighbors lists the legal jumps of the peg at p under the game's mode.
// Candidates whose bypass or target lies off the grid are dropped.
func (g *Game) Neighbors(p Position) []Neighbor {
	start, ok := g.At(p)
	if !ok || !start.IsPeg() {
		return nil
	}
	var result []Neighbor
	for _, n := range g.geometry.Candidates(g, p) {
		bypass, ok := g.At(n.Bypass)
		if !ok {
			continue
		}
		target, ok := g.At(n.Target)
		if !ok {
			continue
		}
		if g.rules.legalJump(start, bypass, target) {
			result = append(result, n)
		}
	}
	return result
}

// Neighbor returns the legal jump from p in direction d.
func (g *Game) Neighbor(p Position, d Direction) (Neighbor, bool) {
	for _, n := range g.Neighbors(p) {
		if n.Direction == d {
			return n, true
		}
	}
	return Neighbor{}, false
}

// Select makes p the selection if it holds a peg and refreshes the derived
// status either way.
func (g *Game) Select(p Position) Snapshot {
	if g.HasPeg(p) {
		g.selected = p
	}
	g.updateStatus()
	return g.Snapshot()
}

// Direction decodes a drag displacement with the game's geometry.
func (g *Game) Direction(dx, dy float64) (Direction, bool) {
	return g.geometry.Direction(dx, dy)
}

// Operations returns a copy of the operation log, oldest first.
func (g *Game) Operations() []Operation {
	ops := make([]Operation, len(g.history))
	for i, e := range g.history {
		ops[i] = e.op
	}
	return ops
}

func (g *Game) BoardType() BoardType { return g.boardType }
func (g *Game) Reverse() bool { return g.rules.reverse }
func (g *Game) Plural() bool { return g.rules.plural }
func (g *Game) Selected() Position { return g.selected }
func (g *Game) FirstPegPosition() Position { return g.firstPeg }
func (g *Game) LastPegPosition() Position { return g.lastPeg }
func (g *Game) RemainingPegCount() int { return g.remaining }
func (g *Game) JumpablePegCount() int { return g.jumpable }

// Topology reports the current topology variant. For hexagon boards it is
// read from row 0, which expansion can change.
func (g *Game) Topology() Topology {
	return topologyOf(g.boardType, g.holes[0][0].Type)
}

// Score scores the operation log and fills in the live peg counters.
func (g *Game) Score() ScoreStatus {
	s := Score(g.Operations(), g.firstPeg, g.lastPeg)
	s.RemainingPegCount = g.remaining
	s.JumpablePegCount = g.jumpable
	return s
}

// Clone returns an independent copy of the game, log included.
func (g *Game) Clone() *Game {
	c := *g
	c.holes = copyHoles(g.holes)
	c.history = append([]historyEntry(nil), g.history...)
	return &c
}

// Board exports the current position as a static board. HoleTemp cells
// become HoleNone again and the singularity is the game's first peg, so a
// finished build-up can be serialized and played forward.
func (g *Game) Board() *Board {
	cells := make([][]HoleType, len(g.holes))
	for r, row := range g.holes {
		cells[r] = make([]HoleType, len(row))
		for c, h := range row {
			if h.Type == HoleTemp {
				cells[r][c] = HoleNone
			} else {
				cells[r][c] = h.Type
			}
		}
	}
	return &Board{
		cells:       cells,
		boardType:   g.boardType,
		singularity: g.firstPeg,
		plural:      g.rules.plural || hasMultiPeg(cells),
	}
}

// Snapshot is a copy of everything a presentation layer needs to draw the
// game. It shares nothing with the live game.
type Snapshot struct {
	Holes             [][]Hole  `json:"holes"`
	BoardType         BoardType `json:"boardType"`
	Topology          string    `json:"topology"`
	JumpablePegCount  int       `json:"jumpablePegCount"`
	RemainingPegCount int       `json:"remainingPegCount"`
	FirstPegPosition  Position  `json:"firstPegPosition"`
	LastPegPosition   Position  `json:"lastPegPosition"`
	SelectedPosition  Position  `json:"selectedPosition"`
	IsRevert          bool      `json:"isRevert"`
	Plural            bool      `json:"plural"`
	Moves             int       `json:"moves"`
}

// Snapshot returns the current published status.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Holes:             copyHoles(g.holes),
		BoardType:         g.boardType,
		Topology:          g.Topology().String(),
		JumpablePegCount:  g.jumpable,
		RemainingPegCount: g.remaining,
		FirstPegPosition:  g.firstPeg,
		LastPegPosition:   g.lastPeg,
		SelectedPosition:  g.selected,
		IsRevert:          g.rules.reverse,
		Plural:            g.rules.plural,
		Moves:             len(g.history),
	}
}

func copyHoles(src [][]Hole) [][]Hole {
	dst := make([][]Hole, len(src))
	for i, row := range src {
		dst[i] = append([]Hole(nil), row...)
	}
	return dst
}
