package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgalloway/gridiron/internal/adapters/nflpbp"
	"github.com/rgalloway/gridiron/internal/config"
	"github.com/rgalloway/gridiron/internal/store"
	"github.com/rgalloway/gridiron/internal/telemetry"
)

func main() {
	season := flag.Int("season", time.Now().Year(), "season to import")
	flag.Parse()

	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		telemetry.Errorf("open store: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		telemetry.Warnf("interrupted, stopping import")
		cancel()
	}()

	importer := nflpbp.NewImporter(nflpbp.NewClient(cfg.PBPBaseURL, cfg.PBPRateLimit), st)
	if err := importer.ImportSeason(ctx, *season); err != nil {
		telemetry.Errorf("import: %v", err)
		os.Exit(1)
	}
}
