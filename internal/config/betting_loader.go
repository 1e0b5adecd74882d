package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type BettingLimits struct {
	BankrollUnits  float64  `yaml:"bankroll_units"`
	MinEdge        float64  `yaml:"min_edge"`
	MinConfidence  float64  `yaml:"min_confidence"`
	BacktestEdge   float64  `yaml:"backtest_edge"`
	Sportsbooks    []string `yaml:"sportsbooks"`
	MaxBetsPerScan int      `yaml:"max_bets_per_scan"`
}

// DefaultBettingLimits mirrors the thresholds the value scan documents:
// a 5% minimum edge and a 60% model-confidence floor.
func DefaultBettingLimits() BettingLimits {
	return BettingLimits{
		BankrollUnits:  100,
		MinEdge:        0.05,
		MinConfidence:  0.60,
		BacktestEdge:   0.05,
		Sportsbooks:    []string{"DraftKings", "FanDuel", "BetMGM", "Caesars"},
		MaxBetsPerScan: 25,
	}
}

func LoadBettingLimits(path string) (BettingLimits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BettingLimits{}, fmt.Errorf("read betting limits: %w", err)
	}

	limits := DefaultBettingLimits()
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return BettingLimits{}, fmt.Errorf("parse betting limits: %w", err)
	}

	if limits.MinEdge < 0 || limits.MinEdge >= 1 {
		return BettingLimits{}, fmt.Errorf("betting limits: min_edge %.3f out of range", limits.MinEdge)
	}
	if limits.MinConfidence < 0 || limits.MinConfidence >= 1 {
		return BettingLimits{}, fmt.Errorf("betting limits: min_confidence %.3f out of range", limits.MinConfidence)
	}

	return limits, nil
}
