package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rgalloway/gridiron/internal/core/betting"
	"github.com/rgalloway/gridiron/internal/core/predict"
	"github.com/rgalloway/gridiron/internal/teams"
	"github.com/rgalloway/gridiron/internal/telemetry"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "gridiron",
	})
}

func (s *Server) handleTeamInsights(w http.ResponseWriter, r *http.Request) {
	team, ok := teams.Abbreviation(chi.URLParam(r, "team"))
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown team")
		return
	}
	season, err := seasonParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ti, err := s.gen.TeamInsights(r.Context(), team, season)
	if err != nil {
		telemetry.Errorf("api: team insights %s/%d: %v", team, season, err)
		respondError(w, http.StatusInternalServerError, "insight generation failed")
		return
	}
	if ti == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("no data for %s in %d", team, season))
		return
	}
	respondJSON(w, http.StatusOK, ti)
}

func (s *Server) handleNarrative(w http.ResponseWriter, r *http.Request) {
	team, ok := teams.Abbreviation(chi.URLParam(r, "team"))
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown team")
		return
	}
	season, err := seasonParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	text, err := s.gen.SeasonNarrative(r.Context(), team, season)
	if err != nil {
		telemetry.Errorf("api: narrative %s/%d: %v", team, season, err)
		respondError(w, http.StatusInternalServerError, "narrative generation failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"team":      team,
		"season":    season,
		"narrative": text,
	})
}

func (s *Server) handleGameInsight(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	gi, err := s.gen.GameInsight(r.Context(), gameID)
	if err != nil {
		telemetry.Errorf("api: game insight %s: %v", gameID, err)
		respondError(w, http.StatusInternalServerError, "insight generation failed")
		return
	}
	if gi == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("game %s not found", gameID))
		return
	}
	respondJSON(w, http.StatusOK, gi)
}

func (s *Server) handleLeaders(w http.ResponseWriter, r *http.Request) {
	season, err := seasonParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = "offensive_epa_per_play"
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
	}

	leaders, err := s.gen.LeagueLeaders(r.Context(), season, metric, limit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"season":  season,
		"metric":  metric,
		"leaders": leaders,
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	team1, ok1 := teams.Abbreviation(q.Get("team1"))
	team2, ok2 := teams.Abbreviation(q.Get("team2"))
	if !ok1 || !ok2 {
		respondError(w, http.StatusBadRequest, "team1 and team2 must be known teams")
		return
	}
	season, err := seasonParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cmp, err := s.gen.CompareTeams(r.Context(), team1, team2, season)
	if err != nil {
		telemetry.Errorf("api: compare %s vs %s: %v", team1, team2, err)
		respondError(w, http.StatusInternalServerError, "comparison failed")
		return
	}
	if cmp == nil {
		respondError(w, http.StatusNotFound, "insufficient data for comparison")
		return
	}
	respondJSON(w, http.StatusOK, cmp)
}

func (s *Server) handleValueBets(w http.ResponseWriter, r *http.Request) {
	season, err := seasonParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()

	scheduled, err := s.games.ScheduledGames(ctx, season)
	if err != nil {
		telemetry.Errorf("api: scheduled games %d: %v", season, err)
		respondError(w, http.StatusInternalServerError, "schedule lookup failed")
		return
	}

	var predictions []predict.Prediction
	var lines []betting.Line
	var uncovered []betting.Matchup

	for _, g := range scheduled {
		pred, err := s.predictor.Predict(ctx, g.HomeTeam, g.AwayTeam, g.GameDate, season)
		if err != nil {
			telemetry.Errorf("api: predict %s: %v", g.GameID, err)
			respondError(w, http.StatusInternalServerError, "prediction failed")
			return
		}
		if pred == nil {
			continue
		}
		// Keep the stored schedule id authoritative over the derived key.
		pred.GameID = g.GameID
		predictions = append(predictions, *pred)

		stored, err := s.games.LinesByGame(ctx, g.GameID)
		if err != nil {
			telemetry.Errorf("api: lines for %s: %v", g.GameID, err)
			respondError(w, http.StatusInternalServerError, "line lookup failed")
			return
		}
		if len(stored) == 0 {
			uncovered = append(uncovered, betting.Matchup{
				GameID:   g.GameID,
				HomeTeam: g.HomeTeam,
				AwayTeam: g.AwayTeam,
				GameDate: g.GameDate,
			})
			continue
		}
		for _, l := range stored {
			lines = append(lines, toBettingLine(l))
		}
	}

	lines = append(lines, betting.MockLines(uncovered, s.limits.Sportsbooks)...)

	bets, err := betting.FindValueBets(predictions, lines, s.limits.MinEdge, s.limits.MinConfidence)
	if err != nil {
		telemetry.Errorf("api: value scan %d: %v", season, err)
		respondError(w, http.StatusInternalServerError, "value scan failed")
		return
	}
	if s.limits.MaxBetsPerScan > 0 && len(bets) > s.limits.MaxBetsPerScan {
		bets = bets[:s.limits.MaxBetsPerScan]
	}
	betting.SizeStakes(bets, s.limits.BankrollUnits)

	respondJSON(w, http.StatusOK, map[string]any{
		"season":     season,
		"value_bets": bets,
	})
}

type validateRequest struct {
	Predictions []predict.Prediction `json:"predictions"`
	Lines       []betting.Line       `json:"lines"`
	Results     []betting.Result     `json:"results"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	metrics, err := betting.ValidatePredictions(req.Predictions, req.Lines, req.Results, s.limits.BacktestEdge)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

func seasonParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("season")
	if v == "" {
		return time.Now().Year(), nil
	}
	season, err := strconv.Atoi(v)
	if err != nil || season < 1920 {
		return 0, fmt.Errorf("season must be a year, got %q", v)
	}
	return season, nil
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
