package engine

// Score bonuses
const (
	TakenBonus    = 4 // per captured or placed peg
	ComboBonus    = 3 // per chained move
	MaxComboBonus = 1 // per move in the longest chain
)

// ScoreStatus summarises an operation log.
type ScoreStatus struct {
	RemainingPegCount int `json:"remainingPegCount"`
	JumpablePegCount  int `json:"jumpablePegCount"`
	CurrentCombo      int `json:"currentCombo"`
	MaxCombo          int `json:"maxCombo"`
	ComboCount        int `json:"comboCount"`
	TakenCount        int `json:"takenCount"`
	Score             int `json:"score"`
	Steps             int `json:"steps"`
	Distance          int `json:"distance"`
}

// Score scores an operation log. A move whose source is the previous move's
// target continues a combo; any other move starts a new step. Distance is
// the Manhattan distance from first to last when both are set.
func Score(ops []Operation, first, last Position) ScoreStatus {
	var s ScoreStatus
	for i, op := range ops {
		s.TakenCount++
		if i > 0 && op.Source.Equal(ops[i-1].Target) {
			s.CurrentCombo++
			s.ComboCount++
			if s.CurrentCombo > s.MaxCombo {
				s.MaxCombo = s.CurrentCombo
			}
			continue
		}
		s.Steps++
		s.CurrentCombo = 0
	}
	s.Score = s.TakenCount*TakenBonus + s.ComboCount*ComboBonus + s.MaxCombo*MaxComboBonus
	if first.Valid() && last.Valid() {
		s.Distance = last.Distance(first)
	}
	return s
}
