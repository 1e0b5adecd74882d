package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rgalloway/gridiron/internal/config"
	"github.com/rgalloway/gridiron/internal/core/insights"
	"github.com/rgalloway/gridiron/internal/core/predict"
	"github.com/rgalloway/gridiron/internal/store"
)

type fakeStore struct {
	plays     []store.Play
	games     map[string]*store.Game
	teams     []store.Team
	scheduled []store.Game
	lines     map[string][]store.Line
}

func (f *fakeStore) TeamPlays(_ context.Context, team string, season int) ([]store.Play, error) {
	var out []store.Play
	for _, p := range f.plays {
		if p.Posteam == team && p.Season == season {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) DefensePlays(_ context.Context, team string, season int) ([]store.Play, error) {
	var out []store.Play
	for _, p := range f.plays {
		if p.Defteam == team && p.Season == season {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GamePlays(_ context.Context, gameID string) ([]store.Play, error) {
	var out []store.Play
	for _, p := range f.plays {
		if p.GameID == gameID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) Game(_ context.Context, gameID string) (*store.Game, error) {
	return f.games[gameID], nil
}

func (f *fakeStore) Teams(_ context.Context) ([]store.Team, error) { return f.teams, nil }

func (f *fakeStore) ScheduledGames(_ context.Context, season int) ([]store.Game, error) {
	return f.scheduled, nil
}

func (f *fakeStore) LinesByGame(_ context.Context, gameID string) ([]store.Line, error) {
	return f.lines[gameID], nil
}

type fixedPredictor struct {
	homeProb float64
}

func (p fixedPredictor) Predict(_ context.Context, home, away string, date time.Time, _ int) (*predict.Prediction, error) {
	pred := &predict.Prediction{
		GameID:      predict.GameKey(date, away, home),
		HomeTeam:    home,
		AwayTeam:    away,
		GameDate:    date,
		HomeWinProb: p.homeProb,
		AwayWinProb: 1 - p.homeProb,
	}
	pred.PredictedWinner = home
	pred.WinProbability = p.homeProb
	pred.Confidence = p.homeProb
	return pred, nil
}

func ip(v int) *int       { return &v }
func sp(v string) *string { return &v }

func testServer() *httptest.Server {
	fs := &fakeStore{
		games: map[string]*store.Game{},
		lines: map[string][]store.Line{},
		teams: []store.Team{
			{Abbr: "KC", Name: "Kansas City Chiefs", Nick: "Chiefs"},
			{Abbr: "BUF", Name: "Buffalo Bills", Nick: "Bills"},
		},
		scheduled: []store.Game{
			{GameID: "2024_12_BUF_KC", Season: 2024, HomeTeam: "KC", AwayTeam: "BUF",
				GameDate: time.Date(2024, 12, 8, 18, 0, 0, 0, time.UTC)},
		},
	}
	for i, gained := range []int{12, 3, 9, 15} {
		fs.plays = append(fs.plays, store.Play{
			GameID: "2024_09_BUF_KC", Season: 2024,
			Posteam: "KC", Defteam: "BUF",
			Down: ip(1 + i%3), YardsToGo: ip(10), YardLine: ip(70 - 10*i),
			Quarter: ip(1 + i), ScoreDifferential: ip(0),
			PlayType: sp("pass"), YardsGained: ip(gained),
		})
	}
	fs.plays = append(fs.plays, store.Play{
		GameID: "2024_09_BUF_KC", Season: 2024,
		Posteam: "BUF", Defteam: "KC",
		Down: ip(1), YardsToGo: ip(10), YardLine: ip(55),
		Quarter: ip(2), ScoreDifferential: ip(0),
		PlayType: sp("run"), YardsGained: ip(-2),
	})

	srv := NewServer(insights.NewGenerator(fs), fs, fixedPredictor{homeProb: 0.8}, config.DefaultBettingLimits())
	return httptest.NewServer(srv.Router())
}

func get(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp, body
}

func TestHealth(t *testing.T) {
	ts := testServer()
	defer ts.Close()

	resp, body := get(t, ts.URL+"/health")
	if resp.StatusCode != http.StatusOK || body["status"] != "healthy" {
		t.Errorf("health = %d %v", resp.StatusCode, body)
	}
}

func TestTeamInsightsEndpoint(t *testing.T) {
	ts := testServer()
	defer ts.Close()

	resp, body := get(t, ts.URL+"/api/v1/teams/KC/insights?season=2024")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	if body["team_abbr"] != "KC" {
		t.Errorf("team_abbr = %v, want KC", body["team_abbr"])
	}

	// Full names resolve through the alias map.
	resp, _ = get(t, ts.URL+"/api/v1/teams/Kansas%20City%20Chiefs/insights?season=2024")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("alias lookup status = %d, want 200", resp.StatusCode)
	}

	resp, _ = get(t, ts.URL+"/api/v1/teams/Isotopes/insights?season=2024")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown team status = %d, want 400", resp.StatusCode)
	}

	// Known team, no data.
	resp, _ = get(t, ts.URL+"/api/v1/teams/SEA/insights?season=2024")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing data status = %d, want 404", resp.StatusCode)
	}

	resp, _ = get(t, ts.URL+"/api/v1/teams/KC/insights?season=soon")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad season status = %d, want 400", resp.StatusCode)
	}
}

func TestLeadersEndpoint(t *testing.T) {
	ts := testServer()
	defer ts.Close()

	resp, body := get(t, ts.URL+"/api/v1/leaders?season=2024&metric=offensive_epa_per_play&limit=5")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	leaders, ok := body["leaders"].([]any)
	if !ok || len(leaders) == 0 {
		t.Fatalf("leaders = %v, want non-empty list", body["leaders"])
	}

	resp, _ = get(t, ts.URL+"/api/v1/leaders?season=2024&metric=yards_per_carry")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown metric status = %d, want 400", resp.StatusCode)
	}
}

func TestCompareEndpoint(t *testing.T) {
	ts := testServer()
	defer ts.Close()

	resp, body := get(t, ts.URL+"/api/v1/compare?team1=KC&team2=BUF&season=2024")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	if body["team1"] != "KC" || body["team2"] != "BUF" {
		t.Errorf("comparison identity = %v/%v", body["team1"], body["team2"])
	}

	resp, _ = get(t, ts.URL+"/api/v1/compare?team1=KC&season=2024")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing team2 status = %d, want 400", resp.StatusCode)
	}
}

func TestValueBetsEndpoint(t *testing.T) {
	ts := testServer()
	defer ts.Close()

	// The scheduled game has no stored lines, so the mock market covers it.
	resp, body := get(t, ts.URL+"/api/v1/value-bets?season=2024")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	bets, ok := body["value_bets"].([]any)
	if !ok || len(bets) == 0 {
		t.Fatalf("value_bets = %v, want a non-empty list", body["value_bets"])
	}

	// The 0.8 model probability dwarfs the mock market, so the top bet
	// carries a Kelly-sized stake against the configured bankroll.
	bet := bets[0].(map[string]any)
	stake, _ := bet["recommended_stake"].(float64)
	kelly, _ := bet["kelly_fraction"].(float64)
	if stake <= 0 || stake != kelly*config.DefaultBettingLimits().BankrollUnits {
		t.Errorf("recommended_stake = %v with kelly %v, want kelly scaled by the bankroll", stake, kelly)
	}
}

func TestValidateEndpoint(t *testing.T) {
	ts := testServer()
	defer ts.Close()

	payload := `{
		"predictions": [{
			"game_id": "2024_11_BUF_KC",
			"home_team": "KC", "away_team": "BUF",
			"home_win_prob": 0.7, "away_win_prob": 0.3,
			"predicted_winner": "KC", "win_probability": 0.7, "confidence": 0.7
		}],
		"lines": [{
			"game_id": "2024_11_BUF_KC", "sportsbook": "DraftKings",
			"bet_type": "moneyline", "home_odds": -150, "away_odds": 130
		}],
		"results": [{"Winner": "KC", "Loser": "BUF"}]
	}`

	resp, err := http.Post(ts.URL+"/api/v1/validate", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["total_predictions"].(float64) != 1 {
		t.Errorf("total_predictions = %v, want 1", body["total_predictions"])
	}

	// Mismatched lengths are a caller error.
	bad := `{"predictions": [], "lines": [], "results": [{"Winner": "KC", "Loser": "BUF"}]}`
	resp, err = http.Post(ts.URL+"/api/v1/validate", "application/json", strings.NewReader(bad))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("mismatch status = %d, want 400", resp.StatusCode)
	}
}
