package insights

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/rgalloway/gridiron/internal/core/playmetrics"
	"github.com/rgalloway/gridiron/internal/store"
)

// RecordStore is the read surface the aggregation layer needs. The core
// never writes through it.
type RecordStore interface {
	TeamPlays(ctx context.Context, team string, season int) ([]store.Play, error)
	DefensePlays(ctx context.Context, team string, season int) ([]store.Play, error)
	GamePlays(ctx context.Context, gameID string) ([]store.Play, error)
	Game(ctx context.Context, gameID string) (*store.Game, error)
	Teams(ctx context.Context) ([]store.Team, error)
}

// Generator builds team and game insights on demand from the record
// store. Concurrent requests for the same team-season are collapsed into
// one computation.
type Generator struct {
	store  RecordStore
	engine *playmetrics.Engine
	sf     singleflight.Group
}

func NewGenerator(rs RecordStore) *Generator {
	return &Generator{
		store:  rs,
		engine: playmetrics.NewEngine(),
	}
}

func (g *Generator) teamInsightsKey(team string, season int) string {
	return fmt.Sprintf("%s|%d", team, season)
}

// toEnginePlay converts a stored play row into engine input. Game clock
// is approximated from the quarter since the store does not carry it.
func toEnginePlay(p store.Play) playmetrics.Play {
	qtr := 1
	if p.Quarter != nil {
		qtr = *p.Quarter
	}
	secs := 3600 - (qtr-1)*900
	return playmetrics.Play{
		Down:             p.Down,
		YardsToGo:        p.YardsToGo,
		YardLine:         p.YardLine,
		Quarter:          p.Quarter,
		SecondsRemaining: &secs,
		ScoreDiff:        p.ScoreDifferential,
		PlayType:         p.PlayType,
		YardsGained:      p.YardsGained,
		Touchdown:        p.Touchdown,
		Interception:     p.Interception,
		FumbleLost:       p.FumbleLost,
	}
}
