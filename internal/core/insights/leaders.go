package insights

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
)

// metricAccessors maps leaderboard metric names to insight fields. The
// names match the serialized field names.
var metricAccessors = map[string]func(*TeamInsights) float64{
	"offensive_epa_per_play":      func(t *TeamInsights) float64 { return t.OffensiveEPAPerPlay },
	"passing_epa_per_play":        func(t *TeamInsights) float64 { return t.PassingEPAPerPlay },
	"rushing_epa_per_play":        func(t *TeamInsights) float64 { return t.RushingEPAPerPlay },
	"red_zone_efficiency":         func(t *TeamInsights) float64 { return t.RedZoneEfficiency },
	"third_down_conversion_rate":  func(t *TeamInsights) float64 { return t.ThirdDownConversionRate },
	"defensive_epa_per_play":      func(t *TeamInsights) float64 { return t.DefensiveEPAPerPlay },
	"pass_defense_epa":            func(t *TeamInsights) float64 { return t.PassDefenseEPA },
	"run_defense_epa":             func(t *TeamInsights) float64 { return t.RunDefenseEPA },
	"red_zone_defense":            func(t *TeamInsights) float64 { return t.RedZoneDefense },
	"third_down_defense":          func(t *TeamInsights) float64 { return t.ThirdDownDefense },
	"two_minute_drill_efficiency": func(t *TeamInsights) float64 { return t.TwoMinuteDrillEfficiency },
	"clutch_performance":          func(t *TeamInsights) float64 { return t.ClutchPerformance },
	"turnover_margin":             func(t *TeamInsights) float64 { return t.TurnoverMargin },
	"garbage_time_adjusted_epa":   func(t *TeamInsights) float64 { return t.GarbageTimeAdjustedEPA },
	"early_season_performance":    func(t *TeamInsights) float64 { return t.EarlySeasonPerformance },
	"late_season_performance":     func(t *TeamInsights) float64 { return t.LateSeasonPerformance },
	"improvement_trajectory":      func(t *TeamInsights) float64 { return t.ImprovementTrajectory },
}

// LeagueLeaders ranks all teams with data by one metric. Metrics whose
// names contain "defense" or "allowed" sort ascending since lower is
// better there. An unknown metric name is a caller error.
func (g *Generator) LeagueLeaders(ctx context.Context, season int, metric string, limit int) ([]LeaderEntry, error) {
	accessor, ok := metricAccessors[metric]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}

	teams, err := g.store.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}

	var entries []LeaderEntry
	for _, team := range teams {
		ti, err := g.TeamInsights(ctx, team.Abbr, season)
		if err != nil {
			return nil, err
		}
		if ti == nil {
			continue
		}
		name := team.Name
		if team.Nick != "" && !strings.HasSuffix(name, team.Nick) {
			name = name + " " + team.Nick
		}
		entries = append(entries, LeaderEntry{
			TeamAbbr: team.Abbr,
			TeamName: name,
			Metric:   metric,
			Value:    accessor(ti),
		})
	}

	ascending := strings.Contains(metric, "defense") || strings.Contains(metric, "allowed")
	sort.SliceStable(entries, func(i, j int) bool {
		if ascending {
			return entries[i].Value < entries[j].Value
		}
		return entries[i].Value > entries[j].Value
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// headlineMetrics is the fixed list used for pairwise comparison.
var headlineMetrics = []string{
	"offensive_epa_per_play",
	"defensive_epa_per_play",
	"red_zone_efficiency",
	"third_down_conversion_rate",
	"clutch_performance",
}

// advantageThreshold is the gap below which a lead is reported but not
// counted as a material advantage.
const advantageThreshold = 0.05

// CompareTeams compares two teams over the headline metrics. If either
// team has no insight the comparison is (nil, nil).
func (g *Generator) CompareTeams(ctx context.Context, team1, team2 string, season int) (*Comparison, error) {
	t1, err := g.TeamInsights(ctx, team1, season)
	if err != nil {
		return nil, err
	}
	t2, err := g.TeamInsights(ctx, team2, season)
	if err != nil {
		return nil, err
	}
	if t1 == nil || t2 == nil {
		return nil, nil
	}

	cmp := &Comparison{
		Team1:   team1,
		Team2:   team2,
		Season:  season,
		Metrics: make(map[string]MetricComparison, len(headlineMetrics)),
		Advantages: map[string][]string{
			team1: {},
			team2: {},
		},
	}

	for _, metric := range headlineMetrics {
		accessor := metricAccessors[metric]
		v1, v2 := accessor(t1), accessor(t2)

		leader := team1
		if v2 > v1 {
			leader = team2
		}
		diff := math.Abs(v1 - v2)

		mc := MetricComparison{
			Team1Value: v1,
			Team2Value: v2,
			Leader:     leader,
			Difference: diff,
		}
		if diff > advantageThreshold {
			mc.Advantage = true
			cmp.Advantages[leader] = append(cmp.Advantages[leader], metric)
		}
		cmp.Metrics[metric] = mc
	}

	return cmp, nil
}
