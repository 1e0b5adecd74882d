// Package nflpbp fetches season play-by-play data over HTTP and loads it
// into the record store.
package nflpbp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/rgalloway/gridiron/internal/telemetry"
)

// Client is a rate-limited client for the play-by-play data service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a client capped at rps requests per second (5 when
// rps is not positive).
func NewClient(baseURL string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// GameRecord is one game row as served by the data service.
type GameRecord struct {
	GameID    string `json:"game_id"`
	Season    int    `json:"season"`
	Week      int    `json:"week"`
	GameDate  string `json:"game_date"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore *int   `json:"home_score"`
	AwayScore *int   `json:"away_score"`
	Surface   string `json:"surface"`
	Roof      string `json:"roof"`
	Temp      *int   `json:"temp"`
	Wind      *int   `json:"wind"`
}

// PlayRecord is one play row as served by the data service. Optional
// columns arrive as nulls.
type PlayRecord struct {
	GameID            string  `json:"game_id"`
	Season            int     `json:"season"`
	Posteam           string  `json:"posteam"`
	Defteam           string  `json:"defteam"`
	Down              *int    `json:"down"`
	YardsToGo         *int    `json:"ydstogo"`
	YardLine          *int    `json:"yardline_100"`
	Quarter           *int    `json:"qtr"`
	ScoreDifferential *int    `json:"score_differential"`
	PlayType          *string `json:"play_type"`
	YardsGained       *int    `json:"yards_gained"`
	Touchdown         bool    `json:"touchdown"`
	Interception      bool    `json:"interception"`
	FumbleLost        bool    `json:"fumble_lost"`
}

// SeasonGames fetches the game schedule for one season.
func (c *Client) SeasonGames(ctx context.Context, season int) ([]GameRecord, error) {
	var games []GameRecord
	if err := c.getJSON(ctx, fmt.Sprintf("/%d/games.json", season), &games); err != nil {
		return nil, fmt.Errorf("fetch %d games: %w", season, err)
	}
	return games, nil
}

// GamePlays fetches the play-by-play rows for one game.
func (c *Client) GamePlays(ctx context.Context, season int, gameID string) ([]PlayRecord, error) {
	var plays []PlayRecord
	if err := c.getJSON(ctx, fmt.Sprintf("/%d/%s/plays.json", season, gameID), &plays); err != nil {
		return nil, fmt.Errorf("fetch plays for %s: %w", gameID, err)
	}
	return plays, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	telemetry.Infof("nflpbp: GET %s -> %d (%s)", path, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
