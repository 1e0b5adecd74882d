package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgalloway/gridiron/internal/adapters/oddsfeed"
	"github.com/rgalloway/gridiron/internal/api"
	"github.com/rgalloway/gridiron/internal/config"
	"github.com/rgalloway/gridiron/internal/core/insights"
	"github.com/rgalloway/gridiron/internal/core/predict"
	"github.com/rgalloway/gridiron/internal/store"
	"github.com/rgalloway/gridiron/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	limits, err := config.LoadBettingLimits(cfg.BettingLimitsPath)
	if err != nil {
		telemetry.Warnf("betting limits: %v, using defaults", err)
		limits = config.DefaultBettingLimits()
	}

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		telemetry.Errorf("open store: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	gen := insights.NewGenerator(st)
	predictor := predict.NewRatingPredictor(gen)
	server := api.NewServer(gen, st, predictor, limits)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var feed *oddsfeed.Client
	if cfg.OddsFeedURL != "" {
		feed = oddsfeed.NewClient(cfg.OddsFeedURL, st)
		if err := feed.Connect(ctx); err != nil {
			telemetry.Warnf("odds feed connect: %v, continuing with mock lines only", err)
			feed = nil
		} else if scheduled, err := st.ScheduledGames(ctx, time.Now().Year()); err == nil {
			ids := make([]string, 0, len(scheduled))
			for _, g := range scheduled {
				ids = append(ids, g.GameID)
			}
			if err := feed.SubscribeGames(ids); err != nil {
				telemetry.Warnf("odds feed subscribe: %v", err)
			}
		}
	}

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		telemetry.Infof("gridiron-api listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Errorf("server: %v", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	telemetry.Infof("shutting down")
	cancel()
	if feed != nil {
		feed.Close()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		telemetry.Warnf("shutdown: %v", err)
	}
}
