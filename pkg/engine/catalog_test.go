package engine

import "testing"

func TestCatalog(t *testing.T) {
	tests := []struct {
		name   string
		pegs   int
		plural bool
	}{
		{"english", 32, false},
		{"english-diagonal", 32, false},
		{"english-diagonal-plural", 48, true},
		{"triangle", 14, false},
		{"triangle-inverted", 14, false},
		{"triangle-staggered", 14, false},
		{"triangle-sparse", 10, false},
		{"seed", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := LookupBoard(tt.name)
			if !ok {
				t.Fatalf("LookupBoard(%q) not found", tt.name)
			}
			if b.PegCount() != tt.pegs {
				t.Errorf("PegCount = %d, want %d", b.PegCount(), tt.pegs)
			}
			if b.Plural() != tt.plural {
				t.Errorf("Plural = %v, want %v", b.Plural(), tt.plural)
			}
			s := b.Singularity()
			if s.Valid() {
				if h := b.cells[s.Row][s.Col]; h == HoleNone || h == HoleHalf {
					t.Errorf("singularity %v is %v", s, h)
				}
			}
		})
	}

	if len(BoardNames()) != len(tests) || len(Boards()) != len(tests) {
		t.Errorf("catalog has %d boards, want %d", len(BoardNames()), len(tests))
	}
	if _, ok := LookupBoard("nope"); ok {
		t.Error("LookupBoard(nope) found a board")
	}
}

func TestCatalogBoardsHaveMoves(t *testing.T) {
	for _, e := range Boards() {
		reverse := e.Name == "seed"
		g := NewGame(e.Board, reverse)
		if g.JumpablePegCount() == 0 {
			t.Errorf("%s has no jumpable pegs", e.Name)
		}
	}
}
