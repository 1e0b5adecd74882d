package betting

import (
	"fmt"
	"math"

	"github.com/rgalloway/gridiron/internal/core/odds"
	"github.com/rgalloway/gridiron/internal/core/predict"
)

// ValidatePredictions back-tests predictions against historical lines and
// known results. minEdge is the edge over the market required before the
// back-test simulates a Kelly-staked bet. predictions and results must
// align index-for-index; a length mismatch is a caller bug. Predictions
// with no posted line are skipped, and an empty evaluable window yields
// all-zero metrics.
func ValidatePredictions(predictions []predict.Prediction, lines []Line, results []Result, minEdge float64) (*ValidationMetrics, error) {
	if len(predictions) != len(results) {
		return nil, fmt.Errorf("predictions and results must have the same length: %d vs %d",
			len(predictions), len(results))
	}

	// First posted moneyline per game wins.
	lineByGame := make(map[string]Line)
	for _, line := range lines {
		if line.BetType != BetTypeMoneyline {
			continue
		}
		if _, ok := lineByGame[line.GameID]; !ok {
			lineByGame[line.GameID] = line
		}
	}

	var (
		evaluable    int
		agreements   int
		probDiffs    []float64
		modelCorrect []bool
		kellyReturns []float64
	)

	for i, prediction := range predictions {
		line, ok := lineByGame[prediction.GameID]
		if !ok {
			continue
		}
		evaluable++

		if line.HomeOdds == nil || line.AwayOdds == nil {
			continue
		}

		vegasHomeProb, err := odds.ToProbability(*line.HomeOdds)
		if err != nil {
			return nil, fmt.Errorf("line for %s: %w", prediction.GameID, err)
		}
		vegasAwayProb, err := odds.ToProbability(*line.AwayOdds)
		if err != nil {
			return nil, fmt.Errorf("line for %s: %w", prediction.GameID, err)
		}

		vegasFavorite := prediction.HomeTeam
		if vegasAwayProb > vegasHomeProb {
			vegasFavorite = prediction.AwayTeam
		}
		modelFavorite := prediction.PredictedWinner

		if vegasFavorite == modelFavorite {
			agreements++
		}

		modelProb := prediction.HomeWinProb
		marketProb := vegasHomeProb
		favoriteOdds := *line.HomeOdds
		if modelFavorite == prediction.AwayTeam {
			modelProb = prediction.AwayWinProb
			marketProb = vegasAwayProb
			favoriteOdds = *line.AwayOdds
		}

		probDiffs = append(probDiffs, math.Abs(modelProb-marketProb))
		won := results[i].Winner == modelFavorite
		modelCorrect = append(modelCorrect, won)

		if modelProb > marketProb+minEdge {
			f := odds.Kelly(modelProb, favoriteOdds)
			if won {
				kellyReturns = append(kellyReturns, odds.Payout(f, favoriteOdds))
			} else {
				kellyReturns = append(kellyReturns, -f)
			}
		}
	}

	if evaluable == 0 {
		return &ValidationMetrics{}, nil
	}

	accuracy := ratio(modelCorrect)

	var confidenceSum float64
	for _, p := range predictions {
		confidenceSum += p.WinProbability
	}
	avgConfidence := confidenceSum / float64(len(predictions))

	return &ValidationMetrics{
		TotalPredictions:         evaluable,
		AgreementRate:            float64(agreements) / float64(evaluable),
		AvgProbabilityDifference: mean(probDiffs),
		CalibrationError:         math.Abs(accuracy - avgConfidence),
		ValueBetAccuracy:         accuracy,
		KellyCriterionROI:        sum(kellyReturns),
		SharpeRatio:              sharpe(kellyReturns),
		MaxDrawdown:              maxDrawdown(kellyReturns),
	}, nil
}

func ratio(flags []bool) float64 {
	if len(flags) == 0 {
		return 0
	}
	var n int
	for _, f := range flags {
		if f {
			n++
		}
	}
	return float64(n) / float64(len(flags))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return sum(xs) / float64(len(xs))
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

// sharpe is mean over sample stdev of the per-bet return stream,
// risk-free rate zero.
func sharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	m := mean(returns)
	var variance float64
	for _, r := range returns {
		variance += (r - m) * (r - m)
	}
	stdev := math.Sqrt(variance / float64(len(returns)-1))
	if stdev == 0 {
		return 0
	}
	return m / stdev
}

// maxDrawdown is the largest decline of the running cumulative-return sum
// from its running peak.
func maxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	var cum, worst float64
	peak := math.Inf(-1)
	for i, r := range returns {
		cum += r
		if i == 0 || cum > peak {
			peak = cum
		}
		if dd := peak - cum; dd > worst {
			worst = dd
		}
	}
	return worst
}
