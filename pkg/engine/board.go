package engine

import (
	"errors"
	"fmt"

	"github.com/yourusername/pegengine/internal/boardid"
)

var (
	ErrEmptyBoard       = errors.New("board has no rows")
	ErrInvalidBoardType = errors.New("invalid board type")
	ErrInvalidHole      = errors.New("invalid hole type")
	ErrSingularity      = errors.New("singularity outside the board")
	ErrRowLength        = errors.New("row length does not match board width")
)

// Board is a static puzzle definition: a grid of hole types, a topology tag
// and an optional singularity. Boards are immutable; accessors return
// copies.
type Board struct {
	cells       [][]HoleType
	boardType   BoardType
	singularity Position
	plural      bool
}

// NewBoard validates and copies m into a new Board. A singularity with a
// negative coordinate is stored as NoPosition. Multi-peg cells switch the
// board to plural rules.
func NewBoard(m [][]HoleType, t BoardType, singularity Position) (*Board, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBoardType, int(t))
	}
	if len(m) == 0 || len(m[0]) == 0 {
		return nil, ErrEmptyBoard
	}
	cells := make([][]HoleType, len(m))
	for r, row := range m {
		for c, h := range row {
			if !h.Valid() || h == HoleTemp {
				return nil, fmt.Errorf("%w: %v at %v", ErrInvalidHole, h, Pos(c, r))
			}
		}
		cells[r] = append([]HoleType(nil), row...)
	}
	if err := checkRowLengths(cells, t); err != nil {
		return nil, err
	}

	if !singularity.Valid() {
		singularity = NoPosition
	} else if singularity.Row >= len(cells) || singularity.Col >= len(cells[singularity.Row]) {
		return nil, fmt.Errorf("%w: %v", ErrSingularity, singularity)
	}

	return &Board{
		cells:       cells,
		boardType:   t,
		singularity: singularity,
		plural:      hasMultiPeg(cells),
	}, nil
}

// MustBoard is like NewBoard but panics on error. It is meant for
// package-level board definitions.
func MustBoard(m [][]HoleType, t BoardType, singularity Position) *Board {
	b, err := NewBoard(m, t, singularity)
	if err != nil {
		panic(err)
	}
	return b
}

// WithPlural returns a copy of b with plural rules switched on or off.
// Boards with multi-peg cells stay plural.
func (b *Board) WithPlural(plural bool) *Board {
	c := *b
	c.cells = copyCells(b.cells)
	c.plural = plural || hasMultiPeg(b.cells)
	return &c
}

// Map returns a copy of the hole grid.
func (b *Board) Map() [][]HoleType { return copyCells(b.cells) }

func (b *Board) Type() BoardType       { return b.boardType }
func (b *Board) Singularity() Position { return b.singularity }
func (b *Board) Plural() bool          { return b.plural }
func (b *Board) Height() int           { return len(b.cells) }

// Width is the longest of the first two rows, which covers the staggered
// rows of hexagon boards.
func (b *Board) Width() int {
	w := len(b.cells[0])
	if len(b.cells) > 1 && len(b.cells[1]) > w {
		w = len(b.cells[1])
	}
	return w
}

// Topology derives the topology variant. Hexagon boards are even when row 0
// leads with a half cell.
func (b *Board) Topology() Topology {
	return topologyOf(b.boardType, b.cells[0][0])
}

// PegCount returns the total number of pegs on the board.
func (b *Board) PegCount() int {
	n := 0
	for _, row := range b.cells {
		for _, h := range row {
			n += h.Pegs()
		}
	}
	return n
}

// Equal reports whether b and o have the same cells, type and singularity.
func (b *Board) Equal(o *Board) bool {
	if b.boardType != o.boardType || !b.singularity.Equal(o.singularity) || len(b.cells) != len(o.cells) {
		return false
	}
	for r := range b.cells {
		if len(b.cells[r]) != len(o.cells[r]) {
			return false
		}
		for c := range b.cells[r] {
			if b.cells[r][c] != o.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// Serialize returns the board's single-line ID. HoleTemp is written as
// off-board.
func (b *Board) Serialize() string {
	rows := make([]string, len(b.cells))
	for r, row := range b.cells {
		buf := make([]byte, len(row))
		for c, h := range row {
			buf[c] = holeSymbol(h)
		}
		rows[r] = string(buf)
	}
	return boardid.Encode(boardid.Layout{
		Type:   int(b.boardType),
		Width:  b.Width(),
		Height: b.Height(),
		Col:    b.singularity.Col,
		Row:    b.singularity.Row,
		Rows:   rows,
	})
}

func (b *Board) String() string {
	return b.Serialize()
}

// ParseBoard decodes a board ID produced by Serialize.
func ParseBoard(s string) (*Board, error) {
	l, err := boardid.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	cells := make([][]HoleType, len(l.Rows))
	for r, row := range l.Rows {
		cells[r] = make([]HoleType, len(row))
		for c := 0; c < len(row); c++ {
			cells[r][c] = symbolHole(row[c])
		}
	}
	b, err := NewBoard(cells, BoardType(l.Type), Pos(l.Col, l.Row))
	if err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	return b, nil
}

func holeSymbol(h HoleType) byte {
	switch {
	case h == HoleHalf:
		return boardid.SymbolHalf
	case h == HoleEmpty:
		return boardid.SymbolEmpty
	case h.IsPeg():
		return byte('0' + h.Pegs())
	default:
		return boardid.SymbolNone
	}
}

// symbolHole maps a symbol already checked by boardid.Decode.
func symbolHole(s byte) HoleType {
	switch s {
	case boardid.SymbolHalf:
		return HoleHalf
	case boardid.SymbolEmpty:
		return HoleEmpty
	case boardid.SymbolNone:
		return HoleNone
	}
	return PegHole(int(s - '0'))
}

// checkRowLengths requires uniform rows, or for hexagon boards rows of width
// when they lead with a half cell and width-1 otherwise.
func checkRowLengths(cells [][]HoleType, t BoardType) error {
	width := len(cells[0])
	if len(cells) > 1 && len(cells[1]) > width {
		width = len(cells[1])
	}
	for r, row := range cells {
		want := width
		if t == Hexagon && (len(row) == 0 || row[0] != HoleHalf) {
			want = width - 1
		}
		if len(row) != want {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrRowLength, r, len(row), want)
		}
	}
	return nil
}

// topologyOf derives the variant from the tag and the first cell of row 0.
func topologyOf(t BoardType, first HoleType) Topology {
	switch t {
	case Octagon:
		return TopologyOctagonal
	case Hexagon:
		if first == HoleHalf {
			return TopologyHexagonEven
		}
		return TopologyHexagonOdd
	}
	return TopologyRectangular
}

func hasMultiPeg(cells [][]HoleType) bool {
	for _, row := range cells {
		for _, h := range row {
			if h > HoleOne {
				return true
			}
		}
	}
	return false
}

func copyCells(src [][]HoleType) [][]HoleType {
	dst := make([][]HoleType, len(src))
	for i, row := range src {
		dst[i] = append([]HoleType(nil), row...)
	}
	return dst
}
