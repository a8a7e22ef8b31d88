// Package boardid implements the compact text encoding of peg-solitaire
// board layouts.
//
// A board ID is a single line of six space separated fields:
//
//	<type> <width> <height> <col> <row> <cells>
//
// type is the topology tag, col/row the singularity (-1 -1 when unset) and
// cells the row-major concatenation of one symbol per hole drawn from
// Alphabet. Rectangular and octagonal boards have height rows of width
// symbols. Hexagon boards stagger their rows: a row whose first symbol is
// SymbolHalf carries width symbols, every other row width-1, so the decoder
// has to split the stream row by row.
package boardid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Cell symbols
const (
	SymbolHalf  = 'H' // structural half cell of a staggered row
	SymbolNone  = '_' // off-board
	SymbolEmpty = 'O' // empty hole
)

// Alphabet lists every valid cell symbol: half, none, empty and one to nine pegs.
const Alphabet = "H_O123456789"

// HexagonType is the topology tag whose rows alternate in length.
const HexagonType = 6

// fieldCount is the number of space separated fields in a board ID
const fieldCount = 6

var (
	ErrMalformed     = errors.New("malformed board id")
	ErrUnknownSymbol = errors.New("unknown cell symbol")
	ErrRowLength     = errors.New("cell stream does not match board size")
)

// Layout is the decoded form of a board ID. Rows hold the raw symbols of
// each row, so hexagon rows may differ in length.
type Layout struct {
	Type   int      // Topology tag (4, 6 or 8)
	Width  int      // Widest row length
	Height int      // Number of rows
	Col    int      // Singularity column (-1 if unset)
	Row    int      // Singularity row (-1 if unset)
	Rows   []string // One symbol string per row
}

// ValidSymbol reports whether c belongs to Alphabet.
func ValidSymbol(c byte) bool {
	return strings.IndexByte(Alphabet, c) >= 0
}

// Encode returns the board ID for a layout. The layout is not validated;
// Decode is the checking direction.
func Encode(l Layout) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %d %d %d %d ", l.Type, l.Width, l.Height, l.Col, l.Row)
	for _, row := range l.Rows {
		sb.WriteString(row)
	}
	return sb.String()
}

// Decode parses a board ID into a Layout.
func Decode(id string) (Layout, error) {
	fields := strings.Fields(id)
	if len(fields) != fieldCount {
		return Layout{}, errors.Wrapf(ErrMalformed, "expected %d fields, got %d", fieldCount, len(fields))
	}

	var header [fieldCount - 1]int
	names := [...]string{"type", "width", "height", "col", "row"}
	for i := range header {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return Layout{}, errors.Wrapf(ErrMalformed, "%s %q is not a number", names[i], fields[i])
		}
		header[i] = v
	}

	l := Layout{
		Type:   header[0],
		Width:  header[1],
		Height: header[2],
		Col:    header[3],
		Row:    header[4],
	}
	if l.Width <= 0 || l.Height <= 0 {
		return Layout{}, errors.Wrapf(ErrMalformed, "invalid size %dx%d", l.Width, l.Height)
	}

	cells := fields[5]
	for i := 0; i < len(cells); i++ {
		if !ValidSymbol(cells[i]) {
			return Layout{}, errors.Wrapf(ErrUnknownSymbol, "%q at offset %d", cells[i], i)
		}
	}

	var err error
	if l.Type == HexagonType {
		l.Rows, err = splitStaggered(cells, l.Width)
	} else {
		l.Rows, err = splitUniform(cells, l.Width, l.Height)
	}
	if err != nil {
		return Layout{}, err
	}
	if len(l.Rows) != l.Height {
		return Layout{}, errors.Wrapf(ErrRowLength, "decoded %d rows, header says %d", len(l.Rows), l.Height)
	}
	return l, nil
}

func splitUniform(cells string, width, height int) ([]string, error) {
	if len(cells) != width*height {
		return nil, errors.Wrapf(ErrRowLength, "%d cells for %dx%d", len(cells), width, height)
	}
	rows := make([]string, height)
	for i := range rows {
		rows[i] = cells[i*width : (i+1)*width]
	}
	return rows, nil
}

// splitStaggered consumes the stream row by row, choosing each row's length
// from its first symbol.
func splitStaggered(cells string, width int) ([]string, error) {
	if width < 2 {
		return nil, errors.Wrapf(ErrMalformed, "hexagon width %d too small", width)
	}
	var rows []string
	for index := 0; index < len(cells); {
		n := width - 1
		if cells[index] == SymbolHalf {
			n = width
		}
		if index+n > len(cells) {
			return nil, errors.Wrapf(ErrRowLength, "row %d needs %d cells, %d left", len(rows), n, len(cells)-index)
		}
		rows = append(rows, cells[index:index+n])
		index += n
	}
	return rows, nil
}
