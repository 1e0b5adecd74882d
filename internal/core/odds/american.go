// Package odds converts between American odds, implied probabilities and
// bet sizing quantities.
package odds

import (
	"fmt"
	"math"
)

// ToProbability converts American odds to the implied win probability,
// vig included.
func ToProbability(american int) (float64, error) {
	switch {
	case american > 0:
		return 100.0 / (float64(american) + 100.0), nil
	case american < 0:
		a := math.Abs(float64(american))
		return a / (a + 100.0), nil
	default:
		return 0, fmt.Errorf("invalid american odds: 0")
	}
}

// FromProbability converts a win probability to the nearest American odds.
// Favorites (p >= 0.5) quote negative, underdogs positive.
func FromProbability(p float64) (int, error) {
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("probability %v out of range (0, 1)", p)
	}
	if p >= 0.5 {
		return int(-100.0 * p / (1.0 - p)), nil
	}
	return int(100.0 * (1.0 - p) / p), nil
}

// Payout returns the profit on a winning stake at the given odds,
// excluding the returned stake.
func Payout(stake float64, american int) float64 {
	if american > 0 {
		return stake * float64(american) / 100.0
	}
	if american < 0 {
		return stake * 100.0 / math.Abs(float64(american))
	}
	return 0
}

// ExpectedValue returns the expected profit of a one-unit bet given the
// bettor's own win probability.
func ExpectedValue(winProb float64, american int) float64 {
	return winProb*Payout(1.0, american) - (1.0 - winProb)
}

// Kelly returns the Kelly criterion stake fraction for a bet with the
// given edge. Negative-edge bets return 0, and the fraction is capped at
// a quarter of the bankroll.
func Kelly(winProb float64, american int) float64 {
	b := Payout(1.0, american)
	if b <= 0 {
		return 0
	}
	q := 1.0 - winProb
	f := (b*winProb - q) / b
	if f < 0 {
		return 0
	}
	return math.Min(f, 0.25)
}

// RemoveVig strips the overround from a two-way market, returning fair
// probabilities for each side.
func RemoveVig(a, b int) (float64, float64, error) {
	pa, err := ToProbability(a)
	if err != nil {
		return 0, 0, err
	}
	pb, err := ToProbability(b)
	if err != nil {
		return 0, 0, err
	}
	total := pa + pb
	return pa / total, pb / total, nil
}
