// Package playmetrics derives per-play advanced metrics (EPA, WPA,
// leverage, clutch index, success, explosiveness) from raw play rows.
package playmetrics

import (
	"math"

	"github.com/rgalloway/gridiron/internal/core/estimator"
	"github.com/rgalloway/gridiron/internal/core/situation"
	"github.com/rgalloway/gridiron/internal/telemetry"
)

// Play carries the raw attributes of one play. Nil pointers mark fields
// the ingestion pipeline could not populate; they default before
// processing and never fail the evaluation.
type Play struct {
	Down             *int
	YardsToGo        *int
	YardLine         *int
	Quarter          *int
	SecondsRemaining *int
	ScoreDiff        *int
	Timeouts         *int
	PlayType         *string
	YardsGained      *int
	Touchdown        bool
	Interception     bool
	FumbleLost       bool
}

// Bundle is the derived metric set for one play. It is produced once and
// never mutated afterward.
type Bundle struct {
	ExpectedPointsBefore float64 `json:"expected_points_before"`
	ExpectedPointsAfter  float64 `json:"expected_points_after"`
	EPA                  float64 `json:"epa"`
	WinProbBefore        float64 `json:"win_prob_before"`
	WinProbAfter         float64 `json:"win_prob_after"`
	WPA                  float64 `json:"wpa"`
	Leverage             float64 `json:"leverage"`
	ClutchIndex          float64 `json:"clutch_index"`
	SuccessRate          float64 `json:"success_rate"` // 1.0 or 0.0
	ExplosivePlay        bool    `json:"explosive_play"`
	Outcome              Outcome `json:"-"`
}

// Engine evaluates plays against the expected-points and win-probability
// estimators. Stateless; safe for concurrent use.
type Engine struct {
	ep *estimator.ExpectedPoints
	wp *estimator.WinProbability
}

func NewEngine() *Engine {
	return &Engine{
		ep: estimator.NewExpectedPoints(),
		wp: estimator.NewWinProbability(),
	}
}

// Evaluate derives the metric bundle for one play. It never fails:
// malformed input defaults rather than aborting an aggregation over one
// bad row.
func (e *Engine) Evaluate(p Play) Bundle {
	def := situation.Default()

	before := situation.New(situation.Situation{
		Down:             intOr(p.Down, def.Down),
		YardsToGo:        intOr(p.YardsToGo, def.YardsToGo),
		YardLine:         intOr(p.YardLine, def.YardLine),
		Quarter:          intOr(p.Quarter, def.Quarter),
		SecondsRemaining: intOr(p.SecondsRemaining, def.SecondsRemaining),
		ScoreDiff:        intOr(p.ScoreDiff, def.ScoreDiff),
		Timeouts:         intOr(p.Timeouts, def.Timeouts),
		PlayType:         strOr(p.PlayType, def.PlayType),
	})
	yardsGained := intOr(p.YardsGained, 0)

	epBefore := e.ep.Estimate(before)
	wpBefore := e.wp.Estimate(before)

	var (
		epAfter float64
		wpAfter float64
		outcome Outcome
	)

	switch {
	case p.Touchdown:
		outcome = OutcomeTouchdown
		epAfter = 7.0
		wpAfter = math.Min(0.95, wpBefore+0.15)

	case p.Interception || p.FumbleLost:
		// Evaluated in the original offense's frame, then negated for the
		// possession change.
		outcome = OutcomeTurnover
		epAfter = -epBefore
		wpAfter = 1 - wpBefore

	default:
		newDown := 1
		newYardsToGo := 10
		if yardsGained < before.YardsToGo {
			newDown = before.Down + 1
			newYardsToGo = before.YardsToGo - yardsGained
		}

		after := situation.New(situation.Situation{
			Down:             newDown,
			YardsToGo:        newYardsToGo,
			YardLine:         maxInt(0, before.YardLine-yardsGained),
			Quarter:          before.Quarter,
			SecondsRemaining: maxInt(0, before.SecondsRemaining-40),
			ScoreDiff:        before.ScoreDiff,
			Timeouts:         before.Timeouts,
			PlayType:         before.PlayType,
		})

		if newDown > 4 {
			outcome = OutcomeTurnoverOnDowns
			epAfter = -e.ep.Estimate(after)
			wpAfter = 1 - e.wp.Estimate(after)
		} else {
			outcome = OutcomeNormalGain
			epAfter = e.ep.Estimate(after)
			wpAfter = e.wp.Estimate(after)
		}
	}

	epa := epAfter - epBefore
	wpa := wpAfter - wpBefore
	leverage := math.Max(math.Abs(wpa), 0.02)

	var success bool
	if before.Down <= 2 {
		success = float64(yardsGained) >= math.Max(4, float64(before.YardsToGo)*0.5)
	} else {
		success = yardsGained >= before.YardsToGo
	}

	clutchMultiplier := 1.0
	if before.SecondsRemaining < 300 {
		clutchMultiplier = 1.5
	}
	if abs(before.ScoreDiff) <= 7 {
		clutchMultiplier *= 1.3
	}
	clutchIndex := epa * clutchMultiplier
	if !success {
		clutchIndex *= 0.5
	}

	successRate := 0.0
	if success {
		successRate = 1.0
	}

	telemetry.Metrics.PlaysScored.Inc()

	return Bundle{
		ExpectedPointsBefore: epBefore,
		ExpectedPointsAfter:  epAfter,
		EPA:                  epa,
		WinProbBefore:        wpBefore,
		WinProbAfter:         wpAfter,
		WPA:                  wpa,
		Leverage:             leverage,
		ClutchIndex:          clutchIndex,
		SuccessRate:          successRate,
		ExplosivePlay:        yardsGained >= 20 || p.Touchdown,
		Outcome:              outcome,
	}
}

func intOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

func strOr(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
