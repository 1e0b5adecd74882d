package betting

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/rgalloway/gridiron/internal/core/odds"
	"github.com/rgalloway/gridiron/internal/core/predict"
	"github.com/rgalloway/gridiron/internal/telemetry"
)

// FindValueBets scans predictions against posted moneylines. A bet is
// emitted when the model's edge over the best available price meets
// minEdge and the expected value is positive; results sort by expected
// value descending.
func FindValueBets(predictions []predict.Prediction, lines []Line, minEdge, minConfidence float64) ([]ValueBet, error) {
	linesByGame := make(map[string][]Line)
	for _, line := range lines {
		if line.BetType == BetTypeMoneyline {
			linesByGame[line.GameID] = append(linesByGame[line.GameID], line)
		}
	}

	var bets []ValueBet
	for _, prediction := range predictions {
		gameLines := linesByGame[prediction.GameID]
		if len(gameLines) == 0 {
			continue
		}

		for _, side := range []string{"home", "away"} {
			modelProb := prediction.HomeWinProb
			sideOdds := func(l Line) *int { return l.HomeOdds }
			if side == "away" {
				modelProb = prediction.AwayWinProb
				sideOdds = func(l Line) *int { return l.AwayOdds }
			}

			bestOdds, ok := bestPrice(gameLines, sideOdds)
			if !ok || modelProb < minConfidence {
				continue
			}

			vegasProb, err := odds.ToProbability(bestOdds)
			if err != nil {
				return nil, fmt.Errorf("line for %s: %w", prediction.GameID, err)
			}

			edge := modelProb - vegasProb
			if edge < minEdge {
				continue
			}

			ev := odds.ExpectedValue(modelProb, bestOdds)
			if ev <= 0 {
				continue
			}

			bets = append(bets, ValueBet{
				ID:               uuid.NewString(),
				GameID:           prediction.GameID,
				HomeTeam:         prediction.HomeTeam,
				AwayTeam:         prediction.AwayTeam,
				GameDate:         prediction.GameDate,
				BetType:          BetTypeMoneyline,
				Recommendation:   side,
				ModelProbability: modelProb,
				VegasProbability: vegasProb,
				Edge:             edge,
				ExpectedValue:    ev,
				KellyFraction:    odds.Kelly(modelProb, bestOdds),
				Confidence:       prediction.Confidence,
				Reasoning: fmt.Sprintf("Model: %.3f vs Vegas: %.3f (Edge: %.3f)",
					modelProb, vegasProb, edge),
			})
		}
	}

	sort.SliceStable(bets, func(i, j int) bool {
		return bets[i].ExpectedValue > bets[j].ExpectedValue
	})

	telemetry.Metrics.ValueBetsFound.Add(int64(len(bets)))
	return bets, nil
}

// SizeStakes fills in each bet's recommended stake as its Kelly fraction
// of the bankroll.
func SizeStakes(bets []ValueBet, bankrollUnits float64) {
	for i := range bets {
		bets[i].RecommendedStake = bets[i].KellyFraction * bankrollUnits
	}
}

// bestPrice is the highest posted odds for one side across books. Higher
// American odds always pay more.
func bestPrice(lines []Line, side func(Line) *int) (int, bool) {
	best := 0
	found := false
	for _, line := range lines {
		o := side(line)
		if o == nil {
			continue
		}
		if !found || *o > best {
			best = *o
			found = true
		}
	}
	return best, found
}
