package engine

import (
	"fmt"

	"github.com/yourusername/pegengine/internal/boardid"
)

// CatalogEntry is a named standard board.
type CatalogEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Board       *Board `json:"-"`
}

// catalog is kept in display order.
var catalog = []CatalogEntry{
	{
		Name:        "english",
		Description: "33-hole English cross, centre vacancy",
		Board: layout(Rectangular, Pos(3, 3),
			"__111__",
			"__111__",
			"1111111",
			"111O111",
			"1111111",
			"__111__",
			"__111__",
		),
	},
	{
		Name:        "english-diagonal",
		Description: "English cross with diagonal jumps",
		Board: layout(Octagon, Pos(3, 3),
			"__111__",
			"__111__",
			"1111111",
			"111O111",
			"1111111",
			"__111__",
			"__111__",
		),
	},
	{
		Name:        "english-diagonal-plural",
		Description: "English cross with diagonal jumps and stacked pegs",
		Board: layout(Octagon, Pos(3, 3),
			"__111__",
			"__111__",
			"1612111",
			"112O211",
			"1112111",
			"__181__",
			"__111__",
		),
	},
	{
		Name:        "triangle",
		Description: "15-hole triangle, apex vacancy",
		Board: layout(Hexagon, Pos(2, 0),
			"__O__",
			"H_11_H",
			"_111_",
			"H1111H",
			"11111",
		),
	},
	{
		Name:        "triangle-inverted",
		Description: "15-hole triangle pointing down, vacancy at the point",
		Board: layout(Hexagon, Pos(2, 4),
			"11111",
			"H1111H",
			"_111_",
			"H_11_H",
			"__O__",
		),
	},
	{
		Name:        "triangle-staggered",
		Description: "15-hole triangle on half-led rows, apex vacancy",
		Board: layout(Hexagon, Pos(3, 0),
			"H__O__H",
			"__11__",
			"H_111_H",
			"_1111_",
			"H11111H",
		),
	},
	{
		Name:        "triangle-sparse",
		Description: "Ten-peg triangle on an open field",
		Board: layout(Hexagon, Pos(4, 1),
			"_______",
			"H___O__H",
			"__11___",
			"H__111_H",
			"_1111__",
			"H_1111_H",
			"_______",
			"H______H",
			"_______",
			"H______H",
		),
	},
	{
		Name:        "seed",
		Description: "Single peg for build-up play",
		Board: layout(Rectangular, Pos(2, 2),
			"_____",
			"_____",
			"__1__",
			"_____",
			"_____",
		),
	},
}

// layout builds a catalog board from symbol rows.
func layout(t BoardType, singularity Position, rows ...string) *Board {
	m := make([][]HoleType, len(rows))
	for r, row := range rows {
		m[r] = make([]HoleType, len(row))
		for c := 0; c < len(row); c++ {
			if !boardid.ValidSymbol(row[c]) {
				panic(fmt.Sprintf("catalog: bad symbol %q in row %d", row[c], r))
			}
			m[r][c] = symbolHole(row[c])
		}
	}
	return MustBoard(m, t, singularity)
}

// Boards returns the standard boards in display order.
func Boards() []CatalogEntry {
	return append([]CatalogEntry(nil), catalog...)
}

// BoardNames returns the names of the standard boards.
func BoardNames() []string {
	names := make([]string, len(catalog))
	for i, e := range catalog {
		names[i] = e.Name
	}
	return names
}

// LookupBoard returns the standard board called name.
func LookupBoard(name string) (*Board, bool) {
	for _, e := range catalog {
		if e.Name == name {
			return e.Board, true
		}
	}
	return nil, false
}
