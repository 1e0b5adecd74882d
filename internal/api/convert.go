package api

import (
	"github.com/rgalloway/gridiron/internal/core/betting"
	"github.com/rgalloway/gridiron/internal/store"
)

func toBettingLine(l store.Line) betting.Line {
	ts := l.Timestamp
	return betting.Line{
		GameID:     l.GameID,
		Sportsbook: l.Sportsbook,
		BetType:    l.BetType,
		HomeOdds:   l.HomeOdds,
		AwayOdds:   l.AwayOdds,
		HomeLine:   l.HomeLine,
		AwayLine:   l.AwayLine,
		Total:      l.Total,
		OverOdds:   l.OverOdds,
		UnderOdds:  l.UnderOdds,
		Timestamp:  &ts,
	}
}
