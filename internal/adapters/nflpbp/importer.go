package nflpbp

import (
	"context"
	"fmt"
	"time"

	"github.com/rgalloway/gridiron/internal/store"
	"github.com/rgalloway/gridiron/internal/teams"
	"github.com/rgalloway/gridiron/internal/telemetry"
)

// Fetcher is the data-service surface the importer needs. Satisfied by
// *Client.
type Fetcher interface {
	SeasonGames(ctx context.Context, season int) ([]GameRecord, error)
	GamePlays(ctx context.Context, season int, gameID string) ([]PlayRecord, error)
}

// Writer is the store surface the importer needs.
type Writer interface {
	UpsertTeam(ctx context.Context, t store.Team) error
	UpsertGame(ctx context.Context, g store.Game) error
	InsertPlays(ctx context.Context, plays []store.Play) error
}

// Importer loads one season of schedule and play-by-play data into the
// store.
type Importer struct {
	fetcher Fetcher
	writer  Writer
}

func NewImporter(f Fetcher, w Writer) *Importer {
	return &Importer{fetcher: f, writer: w}
}

// ImportSeason fetches and stores a season. Games whose play fetch fails
// are logged and skipped so one bad game does not abort the run.
func (i *Importer) ImportSeason(ctx context.Context, season int) error {
	games, err := i.fetcher.SeasonGames(ctx, season)
	if err != nil {
		return fmt.Errorf("import season %d: %w", season, err)
	}
	telemetry.Infof("nflpbp: importing %d games for %d", len(games), season)

	seenTeams := make(map[string]bool)
	var imported, skipped int

	for _, g := range games {
		home, ok := teams.Abbreviation(g.HomeTeam)
		if !ok {
			telemetry.Warnf("nflpbp: unknown home team %q in %s, skipping", g.HomeTeam, g.GameID)
			skipped++
			continue
		}
		away, ok := teams.Abbreviation(g.AwayTeam)
		if !ok {
			telemetry.Warnf("nflpbp: unknown away team %q in %s, skipping", g.AwayTeam, g.GameID)
			skipped++
			continue
		}

		for abbr, name := range map[string]string{home: g.HomeTeam, away: g.AwayTeam} {
			if seenTeams[abbr] {
				continue
			}
			seenTeams[abbr] = true
			if err := i.writer.UpsertTeam(ctx, store.Team{Abbr: abbr, Name: name}); err != nil {
				return fmt.Errorf("import season %d: %w", season, err)
			}
		}

		var gameDate time.Time
		if g.GameDate != "" {
			gameDate, err = time.Parse(time.RFC3339, g.GameDate)
			if err != nil {
				gameDate, err = time.Parse("2006-01-02", g.GameDate)
				if err != nil {
					telemetry.Warnf("nflpbp: bad game date %q for %s", g.GameDate, g.GameID)
					gameDate = time.Time{}
				}
			}
		}

		if err := i.writer.UpsertGame(ctx, store.Game{
			GameID:    g.GameID,
			Season:    g.Season,
			Week:      g.Week,
			GameDate:  gameDate,
			HomeTeam:  home,
			AwayTeam:  away,
			HomeScore: g.HomeScore,
			AwayScore: g.AwayScore,
			Surface:   g.Surface,
			Roof:      g.Roof,
			Temp:      g.Temp,
			Wind:      g.Wind,
		}); err != nil {
			return fmt.Errorf("import season %d: %w", season, err)
		}

		records, err := i.fetcher.GamePlays(ctx, season, g.GameID)
		if err != nil {
			telemetry.Warnf("nflpbp: plays for %s unavailable: %v", g.GameID, err)
			skipped++
			continue
		}

		plays := make([]store.Play, 0, len(records))
		for _, r := range records {
			plays = append(plays, store.Play{
				GameID:            g.GameID,
				Season:            r.Season,
				Posteam:           abbrOrRaw(r.Posteam),
				Defteam:           abbrOrRaw(r.Defteam),
				Down:              r.Down,
				YardsToGo:         r.YardsToGo,
				YardLine:          r.YardLine,
				Quarter:           r.Quarter,
				ScoreDifferential: r.ScoreDifferential,
				PlayType:          r.PlayType,
				YardsGained:       r.YardsGained,
				Touchdown:         r.Touchdown,
				Interception:      r.Interception,
				FumbleLost:        r.FumbleLost,
			})
		}
		if err := i.writer.InsertPlays(ctx, plays); err != nil {
			return fmt.Errorf("import season %d: %w", season, err)
		}
		imported++
	}

	telemetry.Infof("nflpbp: season %d done, %d games imported, %d skipped", season, imported, skipped)
	return nil
}

func abbrOrRaw(name string) string {
	if abbr, ok := teams.Abbreviation(name); ok {
		return abbr
	}
	return name
}
