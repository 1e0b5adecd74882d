package insights

import (
	"context"
	"fmt"
	"math"

	"github.com/rgalloway/gridiron/internal/store"
	"github.com/rgalloway/gridiron/internal/telemetry"
)

// GameInsight builds a single game's summary. An unknown game id yields
// (nil, nil). A known game with no stored plays degrades to a basic
// insight built from the final score only.
func (g *Generator) GameInsight(ctx context.Context, gameID string) (*GameInsight, error) {
	game, err := g.store.Game(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	if game == nil {
		telemetry.Warnf("insights: game %s not found", gameID)
		return nil, nil
	}

	plays, err := g.store.GamePlays(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load plays for %s: %w", gameID, err)
	}
	if len(plays) == 0 {
		telemetry.Warnf("insights: no plays for game %s, degrading to score-only insight", gameID)
		return basicGameInsight(game), nil
	}

	var (
		homeEPA, awayEPA float64
		maxEPA, maxWPA   float64
		swings           int
		lastWP           = 0.5
	)

	for _, p := range plays {
		m := g.engine.Evaluate(toEnginePlay(p))

		switch p.Posteam {
		case game.HomeTeam:
			homeEPA += m.EPA
		case game.AwayTeam:
			awayEPA += m.EPA
		}

		if math.Abs(m.EPA) > math.Abs(maxEPA) {
			maxEPA = m.EPA
		}
		if math.Abs(m.WPA) > math.Abs(maxWPA) {
			maxWPA = m.WPA
		}

		// A swing is a jump beyond 0.15 from the previous play's after-WP.
		if math.Abs(m.WinProbAfter-lastWP) > 0.15 {
			swings++
		}
		lastWP = m.WinProbAfter
	}

	excitement := math.Min(10, math.Abs(homeEPA)+math.Abs(awayEPA)+float64(swings))

	competitiveness := 0.5
	if game.HomeScore != nil && game.AwayScore != nil {
		gap := math.Abs(float64(*game.HomeScore - *game.AwayScore))
		competitiveness = math.Max(0, 1-gap/35.0)
	}

	// Battle winners follow cumulative EPA, not per-category tallies.
	epaWinner := game.HomeTeam
	if awayEPA >= homeEPA {
		epaWinner = game.AwayTeam
	}

	insight := &GameInsight{
		GameID:   gameID,
		HomeTeam: game.HomeTeam,
		AwayTeam: game.AwayTeam,
		GameDate: game.GameDate,

		ExcitementIndex: excitement,
		Competitiveness: competitiveness,
		MomentumSwings:  swings,

		HomeTeamEPA:         homeEPA,
		AwayTeamEPA:         awayEPA,
		BiggestPlayEPA:      maxEPA,
		BiggestPlayWPA:      maxWPA,
		TurningPointQuarter: 2,

		RedZoneBattle:   epaWinner,
		ThirdDownBattle: epaWinner,
		TurnoverBattle:  "Even",

		Conditions: conditions(game),
	}
	fillScoreFields(insight, game)

	telemetry.Metrics.GameInsights.Inc()
	return insight, nil
}

// basicGameInsight is the score-only fallback. Play-derived fields stay
// zero.
func basicGameInsight(game *store.Game) *GameInsight {
	insight := &GameInsight{
		GameID:          game.GameID,
		HomeTeam:        game.HomeTeam,
		AwayTeam:        game.AwayTeam,
		GameDate:        game.GameDate,
		Competitiveness: 0.5,
		TurnoverBattle:  "Even",
		Conditions:      conditions(game),
	}
	fillScoreFields(insight, game)
	if game.HomeScore != nil && game.AwayScore != nil {
		gap := math.Abs(float64(*game.HomeScore - *game.AwayScore))
		insight.Competitiveness = math.Max(0, 1-gap/35.0)
	}
	telemetry.Metrics.GameInsights.Inc()
	return insight
}

func fillScoreFields(insight *GameInsight, game *store.Game) {
	if game.HomeScore == nil || game.AwayScore == nil {
		return
	}
	insight.TotalPoints = *game.HomeScore + *game.AwayScore
	diff := *game.HomeScore - *game.AwayScore
	if diff < 0 {
		diff = -diff
	}
	insight.PointDifferential = diff
	insight.IsCloseGame = diff <= 7
	insight.IsHighScoring = insight.TotalPoints > 50
}

func conditions(game *store.Game) *GameConditions {
	if game.Surface == "" && game.Roof == "" && game.Temp == nil && game.Wind == nil {
		return nil
	}
	return &GameConditions{
		Surface:     game.Surface,
		Roof:        game.Roof,
		Temperature: game.Temp,
		Wind:        game.Wind,
	}
}
