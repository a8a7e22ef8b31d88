package engine

import (
	"fmt"
	"strings"
)

// FormatBoard renders a snapshot as text, one line per row prefixed with the
// row number. Cells are two characters wide and a leading half cell indents
// its row by one, so staggered rows line up.
//
//	o  peg          .  empty hole      x  landing target
//	@  selected     +  build-up cell   2-9 stacked pegs
func FormatBoard(s Snapshot) string {
	var sb strings.Builder
	for r, row := range s.Holes {
		fmt.Fprintf(&sb, "%2d ", r)
		for c, h := range row {
			selected := s.SelectedPosition.Equal(Pos(c, r))
			sb.WriteString(cellText(h, selected))
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "pegs: %d  jumpable: %d  moves: %d", s.RemainingPegCount, s.JumpablePegCount, s.Moves)
	if s.IsRevert {
		sb.WriteString("  (build-up)")
	}
	if s.LastPegPosition.Valid() {
		fmt.Fprintf(&sb, "  last peg %v", s.LastPegPosition)
	}
	sb.WriteString("\n")
	return sb.String()
}

func cellText(h Hole, selected bool) string {
	switch {
	case h.Type == HoleHalf:
		return " "
	case h.Type == HoleNone:
		return "  "
	case h.Status == StatusTarget:
		return "x "
	case h.Type == HoleEmpty:
		return ". "
	case h.Type == HoleTemp:
		return "+ "
	case selected && h.Type == HoleOne:
		return "@ "
	case h.Type == HoleOne:
		return "o "
	}
	return fmt.Sprintf("%d ", h.Type.Pegs())
}

// FormatOperation renders a move as "(c,r)->(c,r)".
func FormatOperation(op Operation) string {
	return op.Source.String() + "->" + op.Target.String()
}

// FormatOperations renders a move list, one move per line, numbered from 1.
func FormatOperations(ops []Operation) string {
	var sb strings.Builder
	for i, op := range ops {
		fmt.Fprintf(&sb, "%3d. %s\n", i+1, FormatOperation(op))
	}
	return sb.String()
}
