// Package insights folds per-play metric bundles into team-season and
// single-game summaries, and derives leaderboards and pairwise team
// comparisons from them.
package insights

import "time"

// TeamInsights is one team's season summary. Defensive figures carry a
// negated sign so that positive always means good for the team.
type TeamInsights struct {
	TeamAbbr string `json:"team_abbr"`
	Season   int    `json:"season"`

	OffensiveEPAPerPlay     float64 `json:"offensive_epa_per_play"`
	PassingEPAPerPlay       float64 `json:"passing_epa_per_play"`
	RushingEPAPerPlay       float64 `json:"rushing_epa_per_play"`
	RedZoneEfficiency       float64 `json:"red_zone_efficiency"`
	ThirdDownConversionRate float64 `json:"third_down_conversion_rate"`

	DefensiveEPAPerPlay float64 `json:"defensive_epa_per_play"`
	PassDefenseEPA      float64 `json:"pass_defense_epa"`
	RunDefenseEPA       float64 `json:"run_defense_epa"`
	RedZoneDefense      float64 `json:"red_zone_defense"`
	ThirdDownDefense    float64 `json:"third_down_defense"`

	TwoMinuteDrillEfficiency float64 `json:"two_minute_drill_efficiency"`
	ClutchPerformance        float64 `json:"clutch_performance"`
	TurnoverMargin           float64 `json:"turnover_margin"`
	GarbageTimeAdjustedEPA   float64 `json:"garbage_time_adjusted_epa"`
	StrengthOfSchedule       float64 `json:"strength_of_schedule"`
	HomeFieldAdvantage       float64 `json:"home_field_advantage"`
	EarlySeasonPerformance   float64 `json:"early_season_performance"`
	LateSeasonPerformance    float64 `json:"late_season_performance"`
	ImprovementTrajectory    float64 `json:"improvement_trajectory"`
}

// GameInsight is one game's summary. When no play-by-play rows exist the
// play-derived fields are zero and only the score-derived fields carry
// information.
type GameInsight struct {
	GameID   string    `json:"game_id"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	GameDate time.Time `json:"game_date"`

	ExcitementIndex float64 `json:"excitement_index"`
	Competitiveness float64 `json:"competitiveness"`
	MomentumSwings  int     `json:"momentum_swings"`

	HomeTeamEPA          float64 `json:"home_team_epa"`
	AwayTeamEPA          float64 `json:"away_team_epa"`
	PassingGameDominance float64 `json:"passing_game_dominance"`
	RushingGameDominance float64 `json:"rushing_game_dominance"`
	BiggestPlayEPA       float64 `json:"biggest_play_epa"`
	BiggestPlayWPA       float64 `json:"biggest_play_wpa"`
	TurningPointQuarter  int     `json:"turning_point_quarter"`

	RedZoneBattle   string `json:"red_zone_battle"`
	ThirdDownBattle string `json:"third_down_battle"`
	TurnoverBattle  string `json:"turnover_battle"`

	TotalPoints       int             `json:"total_points"`
	PointDifferential int             `json:"point_differential"`
	IsCloseGame       bool            `json:"is_close_game"`
	IsHighScoring     bool            `json:"is_high_scoring"`
	Conditions        *GameConditions `json:"game_conditions,omitempty"`
}

// GameConditions are venue and weather fields carried through from the
// game row.
type GameConditions struct {
	Surface     string `json:"surface,omitempty"`
	Roof        string `json:"roof,omitempty"`
	Temperature *int   `json:"temperature,omitempty"`
	Wind        *int   `json:"wind,omitempty"`
}

// LeaderEntry is one leaderboard row.
type LeaderEntry struct {
	TeamAbbr string  `json:"team_abbr"`
	TeamName string  `json:"team_name"`
	Metric   string  `json:"metric"`
	Value    float64 `json:"value"`
}

// MetricComparison holds both teams' values for one headline metric.
// Leader is always set; Advantage only when the gap is material.
type MetricComparison struct {
	Team1Value float64 `json:"team1_value"`
	Team2Value float64 `json:"team2_value"`
	Leader     string  `json:"leader"`
	Difference float64 `json:"difference"`
	Advantage  bool    `json:"advantage"`
}

// Comparison is a pairwise team comparison over the headline metrics.
type Comparison struct {
	Team1      string                      `json:"team1"`
	Team2      string                      `json:"team2"`
	Season     int                         `json:"season"`
	Metrics    map[string]MetricComparison `json:"metrics_comparison"`
	Advantages map[string][]string         `json:"advantages"`
}
