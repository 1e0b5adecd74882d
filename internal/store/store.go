// Package store is the play-by-play record store. The analytics core only
// reads from it; the importers and the odds feed write to it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rgalloway/gridiron/internal/telemetry"

	_ "modernc.org/sqlite"
)

// Team is one franchise identity row.
type Team struct {
	Abbr string
	Name string
	Nick string
}

// Game is one scheduled or completed game. Scores are nil until the game
// has been played.
type Game struct {
	GameID    string
	Season    int
	Week      int
	GameDate  time.Time
	HomeTeam  string
	AwayTeam  string
	HomeScore *int
	AwayScore *int
	Surface   string
	Roof      string
	Temp      *int
	Wind      *int
}

// Play is one play-by-play row. Nil pointers are columns the ingestion
// pipeline could not populate.
type Play struct {
	GameID            string
	Season            int
	Posteam           string
	Defteam           string
	Down              *int
	YardsToGo         *int
	YardLine          *int // distance to the opponent goal line
	Quarter           *int
	ScoreDifferential *int
	PlayType          *string
	YardsGained       *int
	Touchdown         bool
	Interception      bool
	FumbleLost        bool
}

// Line is one sportsbook quote for one game. Multiple rows may exist per
// game, one per book.
type Line struct {
	GameID     string
	Sportsbook string
	BetType    string
	HomeOdds   *int
	AwayOdds   *int
	HomeLine   *float64
	AwayLine   *float64
	Total      *float64
	OverOdds   *int
	UnderOdds  *int
	Timestamp  time.Time
}

// Store wraps a WAL-mode sqlite database holding teams, games, plays and
// sportsbook lines.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS teams (
			abbr TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			nick TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS games (
			game_id    TEXT PRIMARY KEY,
			season     INTEGER NOT NULL,
			week       INTEGER,
			game_date  TEXT,
			home_team  TEXT NOT NULL,
			away_team  TEXT NOT NULL,
			home_score INTEGER,
			away_score INTEGER,
			surface    TEXT,
			roof       TEXT,
			temp       INTEGER,
			wind       INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS plays (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id            TEXT NOT NULL,
			season             INTEGER NOT NULL,
			posteam            TEXT,
			defteam            TEXT,
			down               INTEGER,
			ydstogo            INTEGER,
			yardline_100       INTEGER,
			qtr                INTEGER,
			score_differential INTEGER,
			play_type          TEXT,
			yards_gained       INTEGER,
			touchdown          INTEGER NOT NULL DEFAULT 0,
			interception       INTEGER NOT NULL DEFAULT 0,
			fumble_lost        INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS vegas_lines (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id    TEXT NOT NULL,
			sportsbook TEXT NOT NULL,
			bet_type   TEXT NOT NULL,
			home_odds  INTEGER,
			away_odds  INTEGER,
			home_line  REAL,
			away_line  REAL,
			total      REAL,
			over_odds  INTEGER,
			under_odds INTEGER,
			ts         TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plays_pos ON plays(posteam, season)`,
		`CREATE INDEX IF NOT EXISTS idx_plays_def ON plays(defteam, season)`,
		`CREATE INDEX IF NOT EXISTS idx_plays_game ON plays(game_id)`,
		`CREATE INDEX IF NOT EXISTS idx_games_season ON games(season)`,
		`CREATE INDEX IF NOT EXISTS idx_lines_game ON vegas_lines(game_id)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}

	telemetry.Infof("store: opened %s", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const playColumns = `game_id, season, posteam, defteam, down, ydstogo, yardline_100, qtr,
	score_differential, play_type, yards_gained, touchdown, interception, fumble_lost`

// TeamPlays returns every offensive play for a team in a season.
func (s *Store) TeamPlays(ctx context.Context, team string, season int) ([]Play, error) {
	return s.queryPlays(ctx,
		`SELECT `+playColumns+` FROM plays WHERE posteam = ? AND season = ? ORDER BY id`,
		team, season)
}

// DefensePlays returns every play run against a team in a season.
func (s *Store) DefensePlays(ctx context.Context, team string, season int) ([]Play, error) {
	return s.queryPlays(ctx,
		`SELECT `+playColumns+` FROM plays WHERE defteam = ? AND season = ? ORDER BY id`,
		team, season)
}

// GamePlays returns all plays for a game in play order.
func (s *Store) GamePlays(ctx context.Context, gameID string) ([]Play, error) {
	return s.queryPlays(ctx,
		`SELECT `+playColumns+` FROM plays WHERE game_id = ? ORDER BY id`,
		gameID)
}

func (s *Store) queryPlays(ctx context.Context, query string, args ...any) ([]Play, error) {
	telemetry.Metrics.StoreQueries.Inc()
	start := time.Now()
	defer func() { telemetry.Metrics.StoreLatency.Record(time.Since(start)) }()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query plays: %w", err)
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var (
			p                                   Play
			posteam, defteam, playType          sql.NullString
			down, ydstogo, yardLine, qtr        sql.NullInt64
			scoreDiff, yardsGained              sql.NullInt64
			touchdown, interception, fumbleLost int
		)
		if err := rows.Scan(
			&p.GameID, &p.Season, &posteam, &defteam,
			&down, &ydstogo, &yardLine, &qtr,
			&scoreDiff, &playType, &yardsGained,
			&touchdown, &interception, &fumbleLost,
		); err != nil {
			return nil, fmt.Errorf("scan play: %w", err)
		}
		p.Posteam = posteam.String
		p.Defteam = defteam.String
		p.Down = nullInt(down)
		p.YardsToGo = nullInt(ydstogo)
		p.YardLine = nullInt(yardLine)
		p.Quarter = nullInt(qtr)
		p.ScoreDifferential = nullInt(scoreDiff)
		p.PlayType = nullStr(playType)
		p.YardsGained = nullInt(yardsGained)
		p.Touchdown = touchdown != 0
		p.Interception = interception != 0
		p.FumbleLost = fumbleLost != 0
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

// Game returns one game row, or nil when the game is unknown.
func (s *Store) Game(ctx context.Context, gameID string) (*Game, error) {
	telemetry.Metrics.StoreQueries.Inc()

	row := s.db.QueryRowContext(ctx,
		`SELECT game_id, season, week, game_date, home_team, away_team,
			home_score, away_score, surface, roof, temp, wind
		 FROM games WHERE game_id = ?`, gameID)

	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query game %s: %w", gameID, err)
	}
	return g, nil
}

// ScheduledGames returns games in a season that have not been played yet.
func (s *Store) ScheduledGames(ctx context.Context, season int) ([]Game, error) {
	telemetry.Metrics.StoreQueries.Inc()

	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, season, week, game_date, home_team, away_team,
			home_score, away_score, surface, roof, temp, wind
		 FROM games WHERE season = ? AND home_score IS NULL ORDER BY game_date`, season)
	if err != nil {
		return nil, fmt.Errorf("query scheduled games: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// Teams returns all team identity rows.
func (s *Store) Teams(ctx context.Context) ([]Team, error) {
	telemetry.Metrics.StoreQueries.Inc()

	rows, err := s.db.QueryContext(ctx, `SELECT abbr, name, nick FROM teams ORDER BY abbr`)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		var nick sql.NullString
		if err := rows.Scan(&t.Abbr, &t.Name, &nick); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		t.Nick = nick.String
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// LinesByGame returns every stored sportsbook line for a game.
func (s *Store) LinesByGame(ctx context.Context, gameID string) ([]Line, error) {
	telemetry.Metrics.StoreQueries.Inc()

	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, sportsbook, bet_type, home_odds, away_odds,
			home_line, away_line, total, over_odds, under_odds, ts
		 FROM vegas_lines WHERE game_id = ? ORDER BY ts`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query lines for %s: %w", gameID, err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var (
			l                                       Line
			homeOdds, awayOdds, overOdds, underOdds sql.NullInt64
			homeLine, awayLine, total               sql.NullFloat64
			ts                                      string
		)
		if err := rows.Scan(&l.GameID, &l.Sportsbook, &l.BetType,
			&homeOdds, &awayOdds, &homeLine, &awayLine, &total,
			&overOdds, &underOdds, &ts); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		l.HomeOdds = nullInt(homeOdds)
		l.AwayOdds = nullInt(awayOdds)
		l.HomeLine = nullFloat(homeLine)
		l.AwayLine = nullFloat(awayLine)
		l.Total = nullFloat(total)
		l.OverOdds = nullInt(overOdds)
		l.UnderOdds = nullInt(underOdds)
		l.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(r rowScanner) (*Game, error) {
	var (
		g                    Game
		week                 sql.NullInt64
		gameDate             sql.NullString
		homeScore, awayScore sql.NullInt64
		surface, roof        sql.NullString
		temp, wind           sql.NullInt64
	)
	if err := r.Scan(&g.GameID, &g.Season, &week, &gameDate, &g.HomeTeam, &g.AwayTeam,
		&homeScore, &awayScore, &surface, &roof, &temp, &wind); err != nil {
		return nil, err
	}
	g.Week = int(week.Int64)
	if gameDate.Valid {
		g.GameDate, _ = time.Parse(time.RFC3339, gameDate.String)
	}
	g.HomeScore = nullInt(homeScore)
	g.AwayScore = nullInt(awayScore)
	g.Surface = surface.String
	g.Roof = roof.String
	g.Temp = nullInt(temp)
	g.Wind = nullInt(wind)
	return &g, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
