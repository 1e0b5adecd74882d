// Package api exposes the analytics and betting core over HTTP. Handlers
// stay thin; all logic lives in the core packages.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rgalloway/gridiron/internal/config"
	"github.com/rgalloway/gridiron/internal/core/insights"
	"github.com/rgalloway/gridiron/internal/core/predict"
	"github.com/rgalloway/gridiron/internal/store"
)

// GameSource is the store surface the betting endpoints need beyond what
// the insights generator reads.
type GameSource interface {
	ScheduledGames(ctx context.Context, season int) ([]store.Game, error)
	LinesByGame(ctx context.Context, gameID string) ([]store.Line, error)
}

type Server struct {
	gen       *insights.Generator
	games     GameSource
	predictor predict.Predictor
	limits    config.BettingLimits
}

func NewServer(gen *insights.Generator, games GameSource, predictor predict.Predictor, limits config.BettingLimits) *Server {
	return &Server{
		gen:       gen,
		games:     games,
		predictor: predictor,
		limits:    limits,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/teams/{team}/insights", s.handleTeamInsights)
		r.Get("/teams/{team}/narrative", s.handleNarrative)
		r.Get("/games/{gameID}/insights", s.handleGameInsight)
		r.Get("/leaders", s.handleLeaders)
		r.Get("/compare", s.handleCompare)
		r.Get("/value-bets", s.handleValueBets)
		r.Post("/validate", s.handleValidate)
	})

	return r
}
