// Package oddsfeed consumes sportsbook moneyline quotes over a websocket
// feed and writes them into the record store.
package oddsfeed

import (
	"encoding/json"
	"time"

	"github.com/rgalloway/gridiron/internal/store"
	"github.com/rgalloway/gridiron/internal/teams"
	"github.com/rgalloway/gridiron/internal/telemetry"
)

// wsMessage is a raw frame from the feed.
type wsMessage struct {
	Type string          `json:"type"`
	Msg  json.RawMessage `json:"msg"`
}

type lineMsg struct {
	GameID     string   `json:"game_id"`
	Sportsbook string   `json:"sportsbook"`
	BetType    string   `json:"bet_type"`
	HomeTeam   string   `json:"home_team"`
	AwayTeam   string   `json:"away_team"`
	HomeOdds   *int     `json:"home_odds"`
	AwayOdds   *int     `json:"away_odds"`
	HomeLine   *float64 `json:"home_line"`
	AwayLine   *float64 `json:"away_line"`
	Total      *float64 `json:"total"`
	OverOdds   *int     `json:"over_odds"`
	UnderOdds  *int     `json:"under_odds"`
	Timestamp  string   `json:"timestamp"`
}

// ParseMessage converts a raw feed frame into store lines. Malformed
// frames are counted and dropped, never fatal.
func ParseMessage(data []byte) []store.Line {
	telemetry.Metrics.FeedMessages.Inc()

	var msg wsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		telemetry.Metrics.FeedParseErrors.Inc()
		telemetry.Warnf("oddsfeed: parse error: %v", err)
		return nil
	}

	switch msg.Type {
	case "line":
		return parseLine(msg.Msg)
	case "subscribed", "ok":
		return nil
	case "error":
		telemetry.Warnf("oddsfeed: server error: %s", string(msg.Msg))
		return nil
	default:
		return nil
	}
}

func parseLine(raw json.RawMessage) []store.Line {
	var l lineMsg
	if err := json.Unmarshal(raw, &l); err != nil {
		telemetry.Metrics.FeedParseErrors.Inc()
		return nil
	}
	if l.GameID == "" || l.Sportsbook == "" {
		telemetry.Metrics.FeedParseErrors.Inc()
		return nil
	}

	// Team fields are informational; normalize them when present so the
	// game id components stay canonical.
	if l.HomeTeam != "" {
		if _, ok := teams.Abbreviation(l.HomeTeam); !ok {
			telemetry.Debugf("oddsfeed: unknown home team %q on %s", l.HomeTeam, l.GameID)
		}
	}

	betType := l.BetType
	if betType == "" {
		betType = "moneyline"
	}

	ts := time.Now().UTC()
	if l.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, l.Timestamp); err == nil {
			ts = parsed
		}
	}

	return []store.Line{{
		GameID:     l.GameID,
		Sportsbook: l.Sportsbook,
		BetType:    betType,
		HomeOdds:   l.HomeOdds,
		AwayOdds:   l.AwayOdds,
		HomeLine:   l.HomeLine,
		AwayLine:   l.AwayLine,
		Total:      l.Total,
		OverOdds:   l.OverOdds,
		UnderOdds:  l.UnderOdds,
		Timestamp:  ts,
	}}
}
