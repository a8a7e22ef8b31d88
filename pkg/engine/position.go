// Package engine implements the peg-solitaire board and move state machine:
// board layouts and their text encoding, per-topology jump geometry, forward
// and build-up move rules, derived hole status, scoring and a solver.
package engine

import "fmt"

// Position is a (col,row) grid coordinate. Positions are values; Clone
// exists for symmetry with callers that want an explicit copy.
type Position struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// NoPosition is the unset position.
var NoPosition = Position{Col: -1, Row: -1}

// Pos is shorthand for Position{Col: col, Row: row}.
func Pos(col, row int) Position {
	return Position{Col: col, Row: row}
}

// Valid reports whether both coordinates are non-negative.
func (p Position) Valid() bool {
	return p.Col >= 0 && p.Row >= 0
}

// Equal reports whether p and q name the same cell.
func (p Position) Equal(q Position) bool {
	return p.Col == q.Col && p.Row == q.Row
}

// Distance returns the Manhattan distance between p and q.
func (p Position) Distance(q Position) int {
	return abs(p.Col-q.Col) + abs(p.Row-q.Row)
}

// Clone returns a copy of p.
func (p Position) Clone() Position {
	return Position{Col: p.Col, Row: p.Row}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Col, p.Row)
}

func (p Position) offset(dc, dr int) Position {
	return Position{Col: p.Col + dc, Row: p.Row + dr}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
