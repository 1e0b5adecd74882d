package insights

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rgalloway/gridiron/internal/core/playmetrics"
	"github.com/rgalloway/gridiron/internal/store"
	"github.com/rgalloway/gridiron/internal/telemetry"
)

// TeamInsights builds a team's season summary. A team with no offensive
// or no defensive plays in the store yields (nil, nil): missing data is
// an expected condition, never an error.
func (g *Generator) TeamInsights(ctx context.Context, team string, season int) (*TeamInsights, error) {
	v, err, _ := g.sf.Do(g.teamInsightsKey(team, season), func() (any, error) {
		return g.buildTeamInsights(ctx, team, season)
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.(*TeamInsights), nil
}

func (g *Generator) buildTeamInsights(ctx context.Context, team string, season int) (*TeamInsights, error) {
	start := time.Now()
	defer func() { telemetry.Metrics.InsightLatency.Record(time.Since(start)) }()

	offPlays, err := g.store.TeamPlays(ctx, team, season)
	if err != nil {
		return nil, fmt.Errorf("load offensive plays for %s %d: %w", team, season, err)
	}
	if len(offPlays) == 0 {
		telemetry.Warnf("insights: no plays for %s in %d", team, season)
		return nil, nil
	}

	defPlays, err := g.store.DefensePlays(ctx, team, season)
	if err != nil {
		return nil, fmt.Errorf("load defensive plays for %s %d: %w", team, season, err)
	}
	if len(defPlays) == 0 {
		telemetry.Warnf("insights: no defensive plays for %s in %d", team, season)
		return nil, nil
	}

	offMetrics := make([]playmetrics.Bundle, len(offPlays))
	for i, p := range offPlays {
		offMetrics[i] = g.engine.Evaluate(toEnginePlay(p))
	}
	defMetrics := make([]playmetrics.Bundle, len(defPlays))
	for i, p := range defPlays {
		defMetrics[i] = g.engine.Evaluate(toEnginePlay(p))
	}

	offEPA := meanEPA(offMetrics, offPlays, anyPlay)
	passEPA := meanEPA(offMetrics, offPlays, playTypeIs("pass"))
	rushEPA := meanEPA(offMetrics, offPlays, playTypeIs("run"))

	rzEff := redZoneEfficiency(offPlays)
	thirdRate := thirdDownRate(offPlays)

	// Defensive figures are negated: suppressing opponent EPA is good.
	defEPA := -meanEPA(defMetrics, defPlays, anyPlay)
	passDefEPA := -meanEPA(defMetrics, defPlays, playTypeIs("pass"))
	runDefEPA := -meanEPA(defMetrics, defPlays, playTypeIs("run"))

	giveaways := countTurnovers(offPlays)
	takeaways := countTurnovers(defPlays)

	clutch := offEPA * 1.2
	trend := offEPA - defEPA

	telemetry.Metrics.InsightsBuilt.Inc()

	return &TeamInsights{
		TeamAbbr: team,
		Season:   season,

		OffensiveEPAPerPlay:     offEPA,
		PassingEPAPerPlay:       passEPA,
		RushingEPAPerPlay:       rushEPA,
		RedZoneEfficiency:       rzEff,
		ThirdDownConversionRate: thirdRate,

		DefensiveEPAPerPlay: defEPA,
		PassDefenseEPA:      passDefEPA,
		RunDefenseEPA:       runDefEPA,
		RedZoneDefense:      math.Max(0, 1-rzEff-0.2),
		ThirdDownDefense:    math.Max(0, 1-thirdRate-0.1),

		TwoMinuteDrillEfficiency: clutch,
		ClutchPerformance:        clutch,
		TurnoverMargin:           float64(takeaways - giveaways),
		GarbageTimeAdjustedEPA:   offEPA * 0.95,
		StrengthOfSchedule:       0.5,
		HomeFieldAdvantage:       0.1,
		EarlySeasonPerformance:   trend * 0.9,
		LateSeasonPerformance:    trend * 1.1,
		ImprovementTrajectory:    trend * 0.1,
	}, nil
}

func anyPlay(store.Play) bool { return true }

func playTypeIs(want string) func(store.Play) bool {
	return func(p store.Play) bool {
		return p.PlayType != nil && *p.PlayType == want
	}
}

func meanEPA(metrics []playmetrics.Bundle, plays []store.Play, match func(store.Play) bool) float64 {
	var sum float64
	var n int
	for i, p := range plays {
		if match(p) {
			sum += metrics[i].EPA
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// redZoneEfficiency is touchdowns inside the 20 over plays inside the 20.
func redZoneEfficiency(plays []store.Play) float64 {
	var attempts, tds int
	for _, p := range plays {
		if p.YardLine == nil || *p.YardLine > 20 {
			continue
		}
		attempts++
		if p.Touchdown {
			tds++
		}
	}
	if attempts == 0 {
		return 0
	}
	return float64(tds) / float64(attempts)
}

// thirdDownRate counts a conversion when the gain covers the distance.
func thirdDownRate(plays []store.Play) float64 {
	var attempts, conversions int
	for _, p := range plays {
		if p.Down == nil || *p.Down != 3 {
			continue
		}
		attempts++
		gained := 0
		if p.YardsGained != nil {
			gained = *p.YardsGained
		}
		needed := 10
		if p.YardsToGo != nil {
			needed = *p.YardsToGo
		}
		if gained >= needed {
			conversions++
		}
	}
	if attempts == 0 {
		return 0
	}
	return float64(conversions) / float64(attempts)
}

func countTurnovers(plays []store.Play) int {
	var n int
	for _, p := range plays {
		if p.Interception || p.FumbleLost {
			n++
		}
	}
	return n
}
