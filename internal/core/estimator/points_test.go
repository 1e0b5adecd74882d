package estimator

import (
	"testing"

	"github.com/rgalloway/gridiron/internal/core/situation"
)

func neutral(down, yardLine int) situation.Situation {
	return situation.New(situation.Situation{
		Down:             down,
		YardsToGo:        10,
		YardLine:         yardLine,
		Quarter:          2,
		SecondsRemaining: 1800,
		Timeouts:         3,
		PlayType:         "pass",
	})
}

func TestExpectedPointsDownMonotonicity(t *testing.T) {
	m := NewExpectedPoints()
	for yardLine := 1; yardLine <= 100; yardLine++ {
		first := m.Estimate(neutral(1, yardLine))
		fourth := m.Estimate(neutral(4, yardLine))
		if first < fourth {
			t.Fatalf("yard line %d: 1st down EP %.3f < 4th down EP %.3f", yardLine, first, fourth)
		}
	}
}

func TestExpectedPointsGoalLineProximity(t *testing.T) {
	m := NewExpectedPoints()
	for down := 1; down <= 4; down++ {
		near := m.Estimate(neutral(down, 5))
		far := m.Estimate(neutral(down, 50))
		if near <= far {
			t.Fatalf("down %d: EP at the 5 (%.3f) not above EP at midfield (%.3f)", down, near, far)
		}
	}
}

func TestExpectedPointsBands(t *testing.T) {
	m := NewExpectedPoints()

	tests := []struct {
		name     string
		yardLine int
		want     float64
	}{
		{"goal line 3", 3, 6.8 - 0.3*3},
		{"red zone 15", 15, 4.5 - 0.15*15},
		{"open field 50", 50, 7 - 0.07*50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Estimate(neutral(1, tt.yardLine))
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("EP(1st, %d) = %.4f, want %.4f", tt.yardLine, got, tt.want)
			}
		})
	}
}

func TestExpectedPointsTimeAndBlowoutAdjustments(t *testing.T) {
	m := NewExpectedPoints()

	base := neutral(1, 30)
	mid := m.Estimate(base)

	late := base
	late.SecondsRemaining = 100
	if got := m.Estimate(late); got <= mid {
		t.Errorf("final two minutes should raise EP: got %.3f, mid-game %.3f", got, mid)
	}

	early := base
	early.SecondsRemaining = 3400
	if got := m.Estimate(early); got >= mid {
		t.Errorf("early game should lower EP: got %.3f, mid-game %.3f", got, mid)
	}

	blowout := base
	blowout.ScoreDiff = 21
	if got := m.Estimate(blowout); got >= mid {
		t.Errorf("blowout should dampen EP: got %.3f, mid-game %.3f", got, mid)
	}
}

func TestExpectedPointsOutOfTableFallsBackToZero(t *testing.T) {
	m := NewExpectedPoints()
	s := situation.New(situation.Situation{Down: 1, YardsToGo: 0, YardLine: 0, SecondsRemaining: 1800})
	if got := m.Estimate(s); got != 0 {
		t.Errorf("EP at yard line 0 = %.3f, want 0", got)
	}
}
