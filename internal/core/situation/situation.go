package situation

// Situation is one game state seen from the offense's perspective.
// Bounded fields are clamped by New and never mutated afterward; build a
// fresh value for the before and after state of a play.
type Situation struct {
	Down             int    // 1-4
	YardsToGo        int    // >= 0
	YardLine         int    // distance to the opponent goal line, 0-100
	Quarter          int
	SecondsRemaining int // whole-game clock
	ScoreDiff        int // positive when the offense leads
	Timeouts         int
	PlayType         string
}

// New clamps the bounded fields and returns the situation.
func New(s Situation) Situation {
	s.Down = clamp(s.Down, 1, 4)
	if s.YardsToGo < 0 {
		s.YardsToGo = 0
	}
	s.YardLine = clamp(s.YardLine, 0, 100)
	if s.SecondsRemaining < 0 {
		s.SecondsRemaining = 0
	}
	return s
}

// Default is the situation assumed when a play row carries no state:
// 1st and 10 from midfield at the opening kickoff, tied game.
func Default() Situation {
	return Situation{
		Down:             1,
		YardsToGo:        10,
		YardLine:         50,
		Quarter:          1,
		SecondsRemaining: 3600,
		ScoreDiff:        0,
		Timeouts:         3,
		PlayType:         "pass",
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
