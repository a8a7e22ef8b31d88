package engine

import "fmt"

// HoleType describes what occupies a cell. Values are stored in half units
// (twice the nominal value) so the half-integer markers keep their ordering:
//
//	half = -0.5, none = -1, empty = 0, temp = 0.5, one..nine = 1..9
//
// Everything >= HoleEmpty is on the board; everything >= HoleOne holds pegs.
type HoleType int8

const (
	HoleNone  HoleType = -2 // off-board
	HoleHalf  HoleType = -1 // structural half cell leading a staggered row
	HoleEmpty HoleType = 0
	HoleTemp  HoleType = 1 // empty cell that was off-board before a build-up game
	HoleOne   HoleType = 2
	HoleTwo   HoleType = 4
	HoleThree HoleType = 6
	HoleFour  HoleType = 8
	HoleFive  HoleType = 10
	HoleSix   HoleType = 12
	HoleSeven HoleType = 14
	HoleEight HoleType = 16
	HoleNine  HoleType = 18
)

// MaxPegs is the most pegs a single hole can hold.
const MaxPegs = 9

// PegHole returns the HoleType holding n pegs (0 <= n <= MaxPegs).
func PegHole(n int) HoleType {
	return HoleType(2 * n)
}

// Value returns the nominal half-integer value of the type.
func (t HoleType) Value() float64 {
	return float64(t) / 2
}

// Pegs returns the number of pegs in the hole.
func (t HoleType) Pegs() int {
	if t < HoleOne {
		return 0
	}
	return int(t) / 2
}

// IsPeg reports whether the hole holds at least one peg.
func (t HoleType) IsPeg() bool {
	return t >= HoleOne
}

// IsOpen reports whether the hole is a free landing cell (empty or temp).
func (t HoleType) IsOpen() bool {
	return t == HoleEmpty || t == HoleTemp
}

// OnBoard reports whether the hole is playable at all.
func (t HoleType) OnBoard() bool {
	return t >= HoleEmpty
}

// add returns floor(value)+n pegs. Flooring turns temp into a real hole.
func (t HoleType) add(n int) HoleType {
	return PegHole(int(t)/2 + n)
}

// Valid reports whether t is one of the defined hole types.
func (t HoleType) Valid() bool {
	switch {
	case t == HoleNone, t == HoleHalf, t == HoleEmpty, t == HoleTemp:
		return true
	case t >= HoleOne && t <= HoleNine:
		return t%2 == 0
	}
	return false
}

func (t HoleType) String() string {
	switch t {
	case HoleNone:
		return "none"
	case HoleHalf:
		return "half"
	case HoleEmpty:
		return "empty"
	case HoleTemp:
		return "temp"
	}
	if t.IsPeg() && t.Valid() {
		return fmt.Sprintf("%d", t.Pegs())
	}
	return fmt.Sprintf("HoleType(%d)", int8(t))
}

// HoleStatus classifies a hole for display. It is derived after every
// mutation and never affects legality.
type HoleStatus int

const (
	StatusTarget             HoleStatus = 1 // landing cell of a legal jump from the selection
	StatusJumpable           HoleStatus = 2 // unselected peg with a legal jump
	StatusNormal             HoleStatus = 3
	StatusSelectedUnjumpable HoleStatus = 4
	StatusSelectedJumpable   HoleStatus = 5
)

func (s HoleStatus) String() string {
	switch s {
	case StatusTarget:
		return "target"
	case StatusJumpable:
		return "jumpable"
	case StatusNormal:
		return "normal"
	case StatusSelectedUnjumpable:
		return "selectedUnjumpable"
	case StatusSelectedJumpable:
		return "selectedJumpable"
	}
	return fmt.Sprintf("HoleStatus(%d)", int(s))
}

// Hole is one live grid cell.
type Hole struct {
	Type   HoleType   `json:"type"`
	Status HoleStatus `json:"status"`
}

// Direction is one of the eight compass directions a peg can jump in.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
	DirUpLeft
	DirUpRight
	DirDownLeft
	DirDownRight
)

var directionNames = [...]string{
	DirNone:      "none",
	DirUp:        "up",
	DirDown:      "down",
	DirLeft:      "left",
	DirRight:     "right",
	DirUpLeft:    "upLeft",
	DirUpRight:   "upRight",
	DirDownLeft:  "downLeft",
	DirDownRight: "downRight",
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection returns the direction named s (as printed by String).
func ParseDirection(s string) (Direction, bool) {
	for d, name := range directionNames {
		if d != int(DirNone) && name == s {
			return Direction(d), true
		}
	}
	return DirNone, false
}

// BoardType is the topology tag used in serialized boards.
type BoardType int

const (
	Rectangular BoardType = 4
	Hexagon     BoardType = 6
	Octagon     BoardType = 8
)

func (t BoardType) String() string {
	switch t {
	case Rectangular:
		return "rectangular"
	case Hexagon:
		return "hexagon"
	case Octagon:
		return "octagon"
	}
	return fmt.Sprintf("BoardType(%d)", int(t))
}

// Valid reports whether t is a known topology tag.
func (t BoardType) Valid() bool {
	return t == Rectangular || t == Hexagon || t == Octagon
}

// Topology refines BoardType with the stagger parity of triangular boards.
type Topology int

const (
	TopologyRectangular Topology = iota
	TopologyOctagonal
	TopologyHexagonOdd  // row 0 is a plain row, odd rows lead with a half cell
	TopologyHexagonEven // row 0 leads with a half cell
)

func (t Topology) String() string {
	switch t {
	case TopologyRectangular:
		return "rectangular"
	case TopologyOctagonal:
		return "octagonal"
	case TopologyHexagonOdd:
		return "hexagon-odd"
	case TopologyHexagonEven:
		return "hexagon-even"
	}
	return fmt.Sprintf("Topology(%d)", int(t))
}

// Neighbor is one candidate jump from a cell.
type Neighbor struct {
	Bypass    Position  `json:"bypass"`
	Target    Position  `json:"target"`
	Direction Direction `json:"direction"`
}

// Operation is one committed move in the operation log.
type Operation struct {
	Source Position `json:"source"`
	Target Position `json:"target"`
}
