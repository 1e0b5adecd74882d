// Package betting compares model win probabilities against sportsbook
// moneylines to surface positive-expected-value wagers, and back-tests
// the model against historical lines and results.
package betting

import "time"

// Bet types quoted by the sportsbooks.
const (
	BetTypeMoneyline = "moneyline"
	BetTypeSpread    = "spread"
	BetTypeTotal     = "total"
)

// Line is one sportsbook quote. Nil fields are markets the book did not
// post.
type Line struct {
	GameID     string     `json:"game_id"`
	Sportsbook string     `json:"sportsbook"`
	BetType    string     `json:"bet_type"`
	HomeLine   *float64   `json:"home_line,omitempty"`
	AwayLine   *float64   `json:"away_line,omitempty"`
	HomeOdds   *int       `json:"home_odds,omitempty"`
	AwayOdds   *int       `json:"away_odds,omitempty"`
	Total      *float64   `json:"total,omitempty"`
	OverOdds   *int       `json:"over_odds,omitempty"`
	UnderOdds  *int       `json:"under_odds,omitempty"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

// Matchup identifies one scheduled game for the mock market.
type Matchup struct {
	GameID   string
	HomeTeam string
	AwayTeam string
	GameDate time.Time
}

// ValueBet is one recommended wager.
type ValueBet struct {
	ID               string    `json:"id"`
	GameID           string    `json:"game_id"`
	HomeTeam         string    `json:"home_team"`
	AwayTeam         string    `json:"away_team"`
	GameDate         time.Time `json:"game_date"`
	BetType          string    `json:"bet_type"`
	Recommendation   string    `json:"recommendation"` // "home" or "away"
	ModelProbability float64   `json:"model_probability"`
	VegasProbability float64   `json:"vegas_probability"`
	Edge             float64   `json:"edge"`
	ExpectedValue    float64   `json:"expected_value"`
	KellyFraction    float64   `json:"kelly_fraction"`
	RecommendedStake float64   `json:"recommended_stake"`
	Confidence       float64   `json:"confidence"`
	Reasoning        string    `json:"reasoning"`
}

// Result is one known game outcome.
type Result struct {
	Winner string
	Loser  string
}

// ValidationMetrics summarizes a back-test window.
type ValidationMetrics struct {
	TotalPredictions         int     `json:"total_predictions"`
	AgreementRate            float64 `json:"agreement_rate"`
	AvgProbabilityDifference float64 `json:"avg_probability_difference"`
	CalibrationError         float64 `json:"calibration_error"`
	ValueBetAccuracy         float64 `json:"value_bet_accuracy"`
	KellyCriterionROI        float64 `json:"kelly_criterion_roi"`
	SharpeRatio              float64 `json:"sharpe_ratio"`
	MaxDrawdown              float64 `json:"max_drawdown"`
}
