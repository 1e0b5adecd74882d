// Package predict is the boundary to the game-winner classifier. The
// trained model lives outside this repo; RatingPredictor is the built-in
// baseline so the betting pipeline runs without it.
package predict

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rgalloway/gridiron/internal/core/insights"
)

// Prediction is one game-winner forecast.
type Prediction struct {
	GameID          string    `json:"game_id"`
	HomeTeam        string    `json:"home_team"`
	AwayTeam        string    `json:"away_team"`
	GameDate        time.Time `json:"game_date"`
	HomeWinProb     float64   `json:"home_win_prob"`
	AwayWinProb     float64   `json:"away_win_prob"`
	PredictedWinner string    `json:"predicted_winner"`
	// WinProbability is the favorite's stated probability.
	WinProbability float64 `json:"win_probability"`
	Confidence     float64 `json:"confidence"`
}

// GameKey builds the canonical game id used to join predictions with
// sportsbook lines.
func GameKey(date time.Time, awayTeam, homeTeam string) string {
	return fmt.Sprintf("%d_%02d_%s_%s", date.Year(), int(date.Month()), awayTeam, homeTeam)
}

// Predictor produces a game-winner forecast for a scheduled matchup.
type Predictor interface {
	Predict(ctx context.Context, homeTeam, awayTeam string, gameDate time.Time, season int) (*Prediction, error)
}

// homeFieldBonus is added to the home side's trend before the logistic
// transform.
const homeFieldBonus = 0.1

// logisticScale controls how fast trend gaps saturate toward certainty.
const logisticScale = 3.0

// RatingPredictor forecasts from team EPA trends: the gap between the
// teams' offense-minus-defense EPA figures feeds a logistic transform.
type RatingPredictor struct {
	gen *insights.Generator
}

func NewRatingPredictor(gen *insights.Generator) *RatingPredictor {
	return &RatingPredictor{gen: gen}
}

func (r *RatingPredictor) Predict(ctx context.Context, homeTeam, awayTeam string, gameDate time.Time, season int) (*Prediction, error) {
	home, err := r.gen.TeamInsights(ctx, homeTeam, season)
	if err != nil {
		return nil, fmt.Errorf("rate %s: %w", homeTeam, err)
	}
	away, err := r.gen.TeamInsights(ctx, awayTeam, season)
	if err != nil {
		return nil, fmt.Errorf("rate %s: %w", awayTeam, err)
	}
	if home == nil || away == nil {
		return nil, nil
	}

	diff := teamTrend(home) - teamTrend(away) + homeFieldBonus
	homeProb := clamp(logistic(logisticScale*diff), 0.05, 0.95)

	p := &Prediction{
		GameID:      GameKey(gameDate, awayTeam, homeTeam),
		HomeTeam:    homeTeam,
		AwayTeam:    awayTeam,
		GameDate:    gameDate,
		HomeWinProb: homeProb,
		AwayWinProb: 1 - homeProb,
	}
	if homeProb >= 0.5 {
		p.PredictedWinner = homeTeam
		p.WinProbability = homeProb
	} else {
		p.PredictedWinner = awayTeam
		p.WinProbability = 1 - homeProb
	}
	p.Confidence = p.WinProbability
	return p, nil
}

func teamTrend(t *insights.TeamInsights) float64 {
	return t.OffensiveEPAPerPlay + t.DefensiveEPAPerPlay
}

func logistic(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
