package estimator

import "github.com/rgalloway/gridiron/internal/core/situation"

// WinProbability maps a situation to the offense's chance of winning the
// game. Output is clamped to (0.01, 0.99) so log-odds style consumers
// never see 0 or 1.
type WinProbability struct{}

func NewWinProbability() *WinProbability {
	return &WinProbability{}
}

func (m *WinProbability) Estimate(s situation.Situation) float64 {
	scoreDiff := float64(s.ScoreDiff)

	base := 0.5 + scoreDiff*0.02

	// The same lead is worth more the less time remains to erase it.
	var timeFactor float64
	switch {
	case s.SecondsRemaining > 1800:
		timeFactor = 0.8
	case s.SecondsRemaining > 900:
		timeFactor = 1.0
	case s.SecondsRemaining > 120:
		timeFactor = 1.3
	default:
		timeFactor = 2.0
	}

	fieldPosBonus := float64(100-s.YardLine) * 0.002
	downBonus := (conversionProbability(s.Down, s.YardsToGo) - 0.5) * 0.1

	wp := base + scoreDiff*0.02*timeFactor + fieldPosBonus + downBonus

	if wp < 0.01 {
		return 0.01
	}
	if wp > 0.99 {
		return 0.99
	}
	return wp
}

// conversionProbability estimates the chance of converting the current
// down. Internal signal for the win-probability formula only.
func conversionProbability(down, yardsToGo int) float64 {
	y := float64(yardsToGo)
	switch down {
	case 1:
		return 0.75 - y*0.02
	case 2:
		return 0.65 - y*0.03
	case 3:
		return 0.45 - y*0.04
	default:
		return 0.25 - y*0.05
	}
}
