// Package estimator holds the fixed-coefficient expected-points and
// win-probability heuristics. The coefficients are deliberate
// approximations carried over from the reference tables; do not tune them
// without recalibrating the downstream aggregates.
package estimator

import (
	"math"

	"github.com/rgalloway/gridiron/internal/core/situation"
)

type epKey struct {
	down     int
	yardLine int
}

// downWeight discounts later downs: a 4th-and-goal is worth far less than
// a 1st-and-goal from the same spot.
var downWeight = map[int]float64{1: 1.00, 2: 0.85, 3: 0.60, 4: 0.30}

// ExpectedPoints maps a situation to an expected-points value for the
// offense via a (down, yard line) table with goal-line and red-zone bands.
type ExpectedPoints struct {
	table map[epKey]float64
}

func NewExpectedPoints() *ExpectedPoints {
	return &ExpectedPoints{table: buildTable()}
}

func buildTable() map[epKey]float64 {
	table := make(map[epKey]float64, 400)
	for yardLine := 1; yardLine <= 100; yardLine++ {
		base := math.Max(0, 7-float64(yardLine)*0.07)
		switch {
		case yardLine <= 5: // goal line
			base = 6.8 - float64(yardLine)*0.3
		case yardLine <= 20: // red zone
			base = 4.5 - float64(yardLine)*0.15
		}
		for down := 1; down <= 4; down++ {
			table[epKey{down, yardLine}] = base * downWeight[down]
		}
	}
	return table
}

// Estimate returns the expected points for the offense. Every situation
// resolves to a value; an out-of-table key falls back to 0.0.
func (m *ExpectedPoints) Estimate(s situation.Situation) float64 {
	base := m.table[epKey{s.Down, s.YardLine}]

	adjustment := 1.0
	if s.SecondsRemaining < 120 { // two-minute urgency
		adjustment = 1.15
	} else if s.SecondsRemaining > 3000 { // early game
		adjustment = 0.95
	}

	if abs(s.ScoreDiff) > 14 { // blowout dampener
		adjustment *= 0.8
	}

	return base * adjustment
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
