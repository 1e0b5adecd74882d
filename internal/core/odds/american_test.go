package odds

import (
	"math"
	"testing"
)

func TestToProbability(t *testing.T) {
	tests := []struct {
		american int
		want     float64
	}{
		{100, 0.5},
		{-100, 0.5},
		{150, 0.4},
		{-150, 0.6},
		{200, 1.0 / 3.0},
		{-110, 110.0 / 210.0},
	}
	for _, tt := range tests {
		got, err := ToProbability(tt.american)
		if err != nil {
			t.Fatalf("ToProbability(%d): %v", tt.american, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ToProbability(%d) = %v, want %v", tt.american, got, tt.want)
		}
	}

	if _, err := ToProbability(0); err == nil {
		t.Error("ToProbability(0) should error")
	}
}

func TestFromProbabilityRoundTrip(t *testing.T) {
	for _, p := range []float64{0.3, 0.45, 0.5, 0.55, 0.7, 0.8} {
		american, err := FromProbability(p)
		if err != nil {
			t.Fatalf("FromProbability(%v): %v", p, err)
		}
		back, err := ToProbability(american)
		if err != nil {
			t.Fatalf("ToProbability(%d): %v", american, err)
		}
		if math.Abs(back-p) > 0.01 {
			t.Errorf("round trip %v -> %d -> %v drifted", p, american, back)
		}
	}

	for _, p := range []float64{0, 1, -0.2, 1.5} {
		if _, err := FromProbability(p); err == nil {
			t.Errorf("FromProbability(%v) should error", p)
		}
	}
}

func TestPayout(t *testing.T) {
	tests := []struct {
		stake    float64
		american int
		want     float64
	}{
		{100, 150, 150},
		{100, -150, 100.0 * 100.0 / 150.0},
		{50, 100, 50},
		{10, -200, 5},
	}
	for _, tt := range tests {
		if got := Payout(tt.stake, tt.american); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Payout(%v, %d) = %v, want %v", tt.stake, tt.american, got, tt.want)
		}
	}
}

func TestExpectedValue(t *testing.T) {
	// Fair coin at even odds is exactly break-even.
	if ev := ExpectedValue(0.5, 100); math.Abs(ev) > 1e-12 {
		t.Errorf("EV(0.5, +100) = %v, want 0", ev)
	}
	// Edge over the implied probability is positive EV.
	if ev := ExpectedValue(0.6, 100); ev <= 0 {
		t.Errorf("EV(0.6, +100) = %v, want > 0", ev)
	}
	if ev := ExpectedValue(0.4, 100); ev >= 0 {
		t.Errorf("EV(0.4, +100) = %v, want < 0", ev)
	}
}

func TestKelly(t *testing.T) {
	// No edge means no bet.
	if f := Kelly(0.5, 100); f != 0 {
		t.Errorf("Kelly(0.5, +100) = %v, want 0", f)
	}
	if f := Kelly(0.4, 100); f != 0 {
		t.Errorf("negative edge Kelly = %v, want 0", f)
	}

	// Classic case: p=0.6 at even odds gives f = 0.2.
	if f := Kelly(0.6, 100); math.Abs(f-0.2) > 1e-9 {
		t.Errorf("Kelly(0.6, +100) = %v, want 0.2", f)
	}

	// The cap binds for extreme edges.
	if f := Kelly(0.9, 100); f != 0.25 {
		t.Errorf("Kelly(0.9, +100) = %v, want cap 0.25", f)
	}
}

func TestRemoveVig(t *testing.T) {
	// Symmetric -110 juice recovers a fair coin.
	pa, pb, err := RemoveVig(-110, -110)
	if err != nil {
		t.Fatalf("RemoveVig: %v", err)
	}
	if math.Abs(pa-0.5) > 1e-9 || math.Abs(pb-0.5) > 1e-9 {
		t.Errorf("RemoveVig(-110, -110) = %v, %v, want 0.5 each", pa, pb)
	}
	if math.Abs(pa+pb-1.0) > 1e-12 {
		t.Errorf("fair probabilities sum to %v, want 1", pa+pb)
	}

	if _, _, err := RemoveVig(0, -110); err == nil {
		t.Error("RemoveVig with zero odds should error")
	}
}
