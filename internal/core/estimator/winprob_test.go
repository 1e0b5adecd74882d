package estimator

import (
	"math"
	"testing"

	"github.com/rgalloway/gridiron/internal/core/situation"
)

func sit(scoreDiff, secondsRemaining int) situation.Situation {
	return situation.New(situation.Situation{
		Down:             1,
		YardsToGo:        10,
		YardLine:         50,
		Quarter:          2,
		SecondsRemaining: secondsRemaining,
		ScoreDiff:        scoreDiff,
		Timeouts:         3,
		PlayType:         "pass",
	})
}

func TestWinProbabilityBounds(t *testing.T) {
	m := NewWinProbability()
	for _, diff := range []int{-60, -30, -14, -7, 0, 7, 14, 30, 60} {
		for _, secs := range []int{3600, 3000, 1800, 900, 120, 30, 0} {
			wp := m.Estimate(sit(diff, secs))
			if wp < 0.01 || wp > 0.99 {
				t.Fatalf("WP(diff=%d, secs=%d) = %.4f outside (0.01, 0.99)", diff, secs, wp)
			}
		}
	}
}

func TestWinProbabilityScoreSign(t *testing.T) {
	m := NewWinProbability()

	if wp := m.Estimate(sit(7, 1800)); wp <= 0.5 {
		t.Errorf("leading offense WP = %.4f, want > 0.5", wp)
	}
	if wp := m.Estimate(sit(-7, 1800)); wp >= 0.5 {
		t.Errorf("trailing offense WP = %.4f, want < 0.5", wp)
	}
}

func TestWinProbabilityUrgencyAmplification(t *testing.T) {
	m := NewWinProbability()

	early := m.Estimate(sit(7, 3000))
	late := m.Estimate(sit(7, 100))

	if math.Abs(late-0.5) <= math.Abs(early-0.5) {
		t.Errorf("a +7 lead late (%.4f) must deviate from 0.5 more than early (%.4f)", late, early)
	}
}

func TestConversionProbabilityByDown(t *testing.T) {
	tests := []struct {
		down, yardsToGo int
		want            float64
	}{
		{1, 10, 0.75 - 0.20},
		{2, 5, 0.65 - 0.15},
		{3, 3, 0.45 - 0.12},
		{4, 1, 0.25 - 0.05},
	}

	for _, tt := range tests {
		got := conversionProbability(tt.down, tt.yardsToGo)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("conversionProbability(%d, %d) = %.4f, want %.4f", tt.down, tt.yardsToGo, got, tt.want)
		}
	}
}

func TestConversionProbabilityPenaltyGrowsWithDown(t *testing.T) {
	for y := 1; y <= 15; y++ {
		prev := conversionProbability(1, y)
		for down := 2; down <= 4; down++ {
			cur := conversionProbability(down, y)
			if cur >= prev {
				t.Fatalf("down %d at %d to go: %.4f not below down %d (%.4f)", down, y, cur, down-1, prev)
			}
			prev = cur
		}
	}
}
