// Command backtest replays a CSV of historical predictions, closing
// moneylines and results through the validation metrics, then sweeps
// minimum-edge thresholds over the value-bet scanner.
//
// Expected columns: game_id, home_team, away_team, game_date,
// home_win_prob, home_odds, away_odds, winner.
package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/rgalloway/gridiron/internal/config"
	"github.com/rgalloway/gridiron/internal/core/betting"
	"github.com/rgalloway/gridiron/internal/core/odds"
	"github.com/rgalloway/gridiron/internal/core/predict"
)

type window struct {
	predictions []predict.Prediction
	lines       []betting.Line
	results     []betting.Result
}

func parseCSV(path string) (*window, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	for _, col := range []string{"game_id", "home_team", "away_team", "home_win_prob", "home_odds", "away_odds", "winner"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	w := &window{}
	for _, row := range records {
		gameID := row[idx["game_id"]]
		home := row[idx["home_team"]]
		away := row[idx["away_team"]]
		winner := row[idx["winner"]]
		if gameID == "" || winner == "" {
			continue
		}

		homeProb, err := strconv.ParseFloat(row[idx["home_win_prob"]], 64)
		if err != nil || homeProb <= 0 || homeProb >= 1 {
			continue
		}
		homeOdds, err := strconv.Atoi(row[idx["home_odds"]])
		if err != nil || homeOdds == 0 {
			continue
		}
		awayOdds, err := strconv.Atoi(row[idx["away_odds"]])
		if err != nil || awayOdds == 0 {
			continue
		}

		var gameDate time.Time
		if di, ok := idx["game_date"]; ok && row[di] != "" {
			gameDate, _ = time.Parse("2006-01-02", row[di])
		}

		pred := predict.Prediction{
			GameID:      gameID,
			HomeTeam:    home,
			AwayTeam:    away,
			GameDate:    gameDate,
			HomeWinProb: homeProb,
			AwayWinProb: 1 - homeProb,
		}
		if homeProb >= 0.5 {
			pred.PredictedWinner = home
			pred.WinProbability = homeProb
		} else {
			pred.PredictedWinner = away
			pred.WinProbability = 1 - homeProb
		}
		pred.Confidence = pred.WinProbability

		loser := away
		if winner == away {
			loser = home
		}

		w.predictions = append(w.predictions, pred)
		w.lines = append(w.lines, betting.Line{
			GameID:     gameID,
			Sportsbook: "closing",
			BetType:    betting.BetTypeMoneyline,
			HomeOdds:   &homeOdds,
			AwayOdds:   &awayOdds,
		})
		w.results = append(w.results, betting.Result{Winner: winner, Loser: loser})
	}
	return w, nil
}

func printMetrics(m *betting.ValidationMetrics, bankroll float64) {
	fmt.Println("\n=== Validation ===")
	fmt.Printf("Evaluable predictions:  %d\n", m.TotalPredictions)
	fmt.Printf("Market agreement:       %.1f%%\n", m.AgreementRate*100)
	fmt.Printf("Avg probability gap:    %.3f\n", m.AvgProbabilityDifference)
	fmt.Printf("Calibration error:      %.3f\n", m.CalibrationError)
	fmt.Printf("Pick accuracy:          %.1f%%\n", m.ValueBetAccuracy*100)
	fmt.Printf("Kelly-staked ROI:       %+.3f (%+.1f on a %.0f-unit bankroll)\n",
		m.KellyCriterionROI, m.KellyCriterionROI*bankroll, bankroll)
	fmt.Printf("Sharpe ratio:           %.2f\n", m.SharpeRatio)
	fmt.Printf("Max drawdown:           %.3f\n", m.MaxDrawdown)
}

// sweepEdges re-runs the value scan at rising edge floors, settling each
// recommended bet flat-stake against the known result.
func sweepEdges(w *window) {
	resultByGame := make(map[string]string, len(w.results))
	for i, r := range w.results {
		resultByGame[w.predictions[i].GameID] = r.Winner
	}

	fmt.Println("\n=== Edge sweep (flat 1-unit stakes) ===")
	fmt.Printf("  %-8s  %6s  %6s  %8s  %9s\n", "MinEdge", "Bets", "Wins", "Win%", "P&L")
	fmt.Printf("  %-8s  %6s  %6s  %8s  %9s\n", "--------", "------", "------", "--------", "---------")

	for _, minEdge := range []float64{0.01, 0.02, 0.03, 0.05, 0.07, 0.10} {
		bets, err := betting.FindValueBets(w.predictions, w.lines, minEdge, 0.5)
		if err != nil {
			log.Fatalf("value scan: %v", err)
		}

		var wins int
		var pnl float64
		for _, bet := range bets {
			winner, ok := resultByGame[bet.GameID]
			if !ok {
				continue
			}
			pick := bet.HomeTeam
			if bet.Recommendation == "away" {
				pick = bet.AwayTeam
			}

			american, err := odds.FromProbability(bet.VegasProbability)
			if err != nil {
				continue
			}
			if winner == pick {
				wins++
				pnl += odds.Payout(1.0, american)
			} else {
				pnl -= 1.0
			}
		}

		if len(bets) == 0 {
			fmt.Printf("  %7.0f%%  %6d  %6s  %8s  %9s\n", minEdge*100, 0, "-", "-", "-")
			continue
		}
		fmt.Printf("  %7.0f%%  %6d  %6d  %7.1f%%  %+8.2f\n",
			minEdge*100, len(bets), wins, 100*float64(wins)/float64(len(bets)), pnl)
	}
}

func main() {
	csvPath := "data/backtest.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	cfg := config.Load()
	limits, err := config.LoadBettingLimits(cfg.BettingLimitsPath)
	if err != nil {
		limits = config.DefaultBettingLimits()
	}

	w, err := parseCSV(csvPath)
	if err != nil {
		log.Fatalf("parse CSV: %v", err)
	}
	fmt.Printf("Loaded %d predictions with closing lines\n", len(w.predictions))

	metrics, err := betting.ValidatePredictions(w.predictions, w.lines, w.results, limits.BacktestEdge)
	if err != nil {
		log.Fatalf("validate: %v", err)
	}
	printMetrics(metrics, limits.BankrollUnits)
	sweepEdges(w)
}
