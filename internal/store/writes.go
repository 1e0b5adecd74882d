package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rgalloway/gridiron/internal/telemetry"
)

// UpsertTeam inserts or refreshes a team identity row.
func (s *Store) UpsertTeam(ctx context.Context, t Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO teams (abbr, name, nick) VALUES (?, ?, ?)
		 ON CONFLICT(abbr) DO UPDATE SET name = excluded.name, nick = excluded.nick`,
		t.Abbr, t.Name, t.Nick)
	if err != nil {
		return fmt.Errorf("upsert team %s: %w", t.Abbr, err)
	}
	return nil
}

// UpsertGame inserts or refreshes a game row. Re-importing a season updates
// scores in place.
func (s *Store) UpsertGame(ctx context.Context, g Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var gameDate any
	if !g.GameDate.IsZero() {
		gameDate = g.GameDate.Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (game_id, season, week, game_date, home_team, away_team,
			home_score, away_score, surface, roof, temp, wind)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(game_id) DO UPDATE SET
			home_score = excluded.home_score,
			away_score = excluded.away_score,
			game_date  = excluded.game_date`,
		g.GameID, g.Season, g.Week, gameDate, g.HomeTeam, g.AwayTeam,
		g.HomeScore, g.AwayScore, g.Surface, g.Roof, g.Temp, g.Wind)
	if err != nil {
		return fmt.Errorf("upsert game %s: %w", g.GameID, err)
	}
	return nil
}

// InsertPlays appends a batch of plays inside one transaction. Existing
// plays for the same games are replaced so re-imports stay idempotent.
func (s *Store) InsertPlays(ctx context.Context, plays []Play) error {
	if len(plays) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	seen := make(map[string]bool)
	for _, p := range plays {
		if !seen[p.GameID] {
			if _, err := tx.ExecContext(ctx, `DELETE FROM plays WHERE game_id = ?`, p.GameID); err != nil {
				return fmt.Errorf("clear plays for %s: %w", p.GameID, err)
			}
			seen[p.GameID] = true
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO plays (`+playColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range plays {
		if _, err := stmt.ExecContext(ctx,
			p.GameID, p.Season, p.Posteam, p.Defteam,
			p.Down, p.YardsToGo, p.YardLine, p.Quarter,
			p.ScoreDifferential, p.PlayType, p.YardsGained,
			boolInt(p.Touchdown), boolInt(p.Interception), boolInt(p.FumbleLost),
		); err != nil {
			return fmt.Errorf("insert play: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit plays: %w", err)
	}

	telemetry.Metrics.PlaysImported.Add(int64(len(plays)))
	return nil
}

// InsertLine appends one sportsbook quote.
func (s *Store) InsertLine(ctx context.Context, l Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := l.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO vegas_lines (game_id, sportsbook, bet_type, home_odds, away_odds,
			home_line, away_line, total, over_odds, under_odds, ts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.GameID, l.Sportsbook, l.BetType, l.HomeOdds, l.AwayOdds,
		l.HomeLine, l.AwayLine, l.Total, l.OverOdds, l.UnderOdds,
		ts.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert line for %s: %w", l.GameID, err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
