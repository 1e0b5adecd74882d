package betting

import (
	"math"
	"testing"
	"time"

	"github.com/rgalloway/gridiron/internal/core/predict"
)

func ip(v int) *int { return &v }

func TestMockLinesDeterministic(t *testing.T) {
	games := []Matchup{
		{GameID: "2024_11_BUF_KC", HomeTeam: "KC", AwayTeam: "BUF",
			GameDate: time.Date(2024, 11, 17, 18, 0, 0, 0, time.UTC)},
		{GameID: "2024_11_SF_DAL", HomeTeam: "DAL", AwayTeam: "SF",
			GameDate: time.Date(2024, 11, 18, 1, 0, 0, 0, time.UTC)},
	}

	first := MockLines(games, nil)
	second := MockLines(games, nil)

	if len(first) != len(games)*4 {
		t.Fatalf("lines = %d, want %d (four books per game)", len(first), len(games)*4)
	}
	if len(first) != len(second) {
		t.Fatalf("repeat call produced %d lines, first produced %d", len(second), len(first))
	}
	for i := range first {
		if first[i].GameID != second[i].GameID ||
			first[i].Sportsbook != second[i].Sportsbook ||
			*first[i].HomeOdds != *second[i].HomeOdds ||
			*first[i].AwayOdds != *second[i].AwayOdds {
			t.Errorf("line %d not deterministic: %+v vs %+v", i, first[i], second[i])
		}
	}

	books := map[string]bool{}
	for _, line := range first[:4] {
		books[line.Sportsbook] = true
		if line.BetType != BetTypeMoneyline {
			t.Errorf("BetType = %s, want moneyline", line.BetType)
		}
		if line.HomeOdds == nil || line.AwayOdds == nil || *line.HomeOdds == 0 || *line.AwayOdds == 0 {
			t.Errorf("odds missing or zero: %+v", line)
		}
		if line.Timestamp == nil || !line.Timestamp.Before(games[0].GameDate) {
			t.Errorf("timestamp should precede kickoff: %+v", line.Timestamp)
		}
	}
	if len(books) != 4 {
		t.Errorf("books quoted = %v, want 4 distinct", books)
	}
}

func TestMockLinesConfiguredBooks(t *testing.T) {
	games := []Matchup{
		{GameID: "2024_11_BUF_KC", HomeTeam: "KC", AwayTeam: "BUF",
			GameDate: time.Date(2024, 11, 17, 18, 0, 0, 0, time.UTC)},
	}

	lines := MockLines(games, []string{"Pinnacle", "Circa"})
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2 (one per configured book)", len(lines))
	}
	if lines[0].Sportsbook != "Pinnacle" || lines[1].Sportsbook != "Circa" {
		t.Errorf("books = %s/%s, want Pinnacle/Circa", lines[0].Sportsbook, lines[1].Sportsbook)
	}
}

func valuePrediction(gameID string, homeProb float64) predict.Prediction {
	winner := "KC"
	winProb := homeProb
	if homeProb < 0.5 {
		winner = "BUF"
		winProb = 1 - homeProb
	}
	return predict.Prediction{
		GameID:          gameID,
		HomeTeam:        "KC",
		AwayTeam:        "BUF",
		GameDate:        time.Date(2024, 11, 17, 18, 0, 0, 0, time.UTC),
		HomeWinProb:     homeProb,
		AwayWinProb:     1 - homeProb,
		PredictedWinner: winner,
		WinProbability:  winProb,
		Confidence:      winProb,
	}
}

func TestFindValueBetsUsesBestPrice(t *testing.T) {
	pred := valuePrediction("2024_11_BUF_KC", 0.65)
	lines := []Line{
		{GameID: "2024_11_BUF_KC", Sportsbook: "DraftKings", BetType: BetTypeMoneyline,
			HomeOdds: ip(110), AwayOdds: ip(-130)},
		{GameID: "2024_11_BUF_KC", Sportsbook: "FanDuel", BetType: BetTypeMoneyline,
			HomeOdds: ip(120), AwayOdds: ip(-140)},
	}

	bets, err := FindValueBets([]predict.Prediction{pred}, lines, 0.05, 0.6)
	if err != nil {
		t.Fatalf("FindValueBets: %v", err)
	}
	if len(bets) != 1 {
		t.Fatalf("bets = %d, want 1", len(bets))
	}

	bet := bets[0]
	if bet.Recommendation != "home" {
		t.Errorf("Recommendation = %s, want home", bet.Recommendation)
	}
	// Best price is +120, implied 100/220.
	wantVegas := 100.0 / 220.0
	if math.Abs(bet.VegasProbability-wantVegas) > 1e-9 {
		t.Errorf("VegasProbability = %v, want %v (the +120 price)", bet.VegasProbability, wantVegas)
	}
	if math.Abs(bet.Edge-(0.65-wantVegas)) > 1e-9 {
		t.Errorf("Edge = %v, want %v", bet.Edge, 0.65-wantVegas)
	}
	if bet.ExpectedValue <= 0 {
		t.Errorf("ExpectedValue = %v, want > 0", bet.ExpectedValue)
	}
	if bet.KellyFraction <= 0 || bet.KellyFraction > 0.25 {
		t.Errorf("KellyFraction = %v, want in (0, 0.25]", bet.KellyFraction)
	}
	if bet.ID == "" {
		t.Error("bet should carry an id")
	}
}

func TestFindValueBetsFilters(t *testing.T) {
	lines := []Line{
		{GameID: "2024_11_BUF_KC", Sportsbook: "DraftKings", BetType: BetTypeMoneyline,
			HomeOdds: ip(-200), AwayOdds: ip(170)},
	}

	// Model agrees with a heavy favorite: implied 2/3, model 0.65, no edge.
	bets, err := FindValueBets([]predict.Prediction{valuePrediction("2024_11_BUF_KC", 0.65)}, lines, 0.05, 0.6)
	if err != nil {
		t.Fatalf("FindValueBets: %v", err)
	}
	if len(bets) != 0 {
		t.Errorf("no-edge scan produced %d bets, want 0", len(bets))
	}

	// Strong away edge but below the confidence floor.
	bets, err = FindValueBets([]predict.Prediction{valuePrediction("2024_11_BUF_KC", 0.45)}, lines, 0.05, 0.6)
	if err != nil {
		t.Fatalf("FindValueBets: %v", err)
	}
	for _, b := range bets {
		if b.ModelProbability < 0.6 {
			t.Errorf("bet below confidence floor emitted: %+v", b)
		}
	}

	// No lines for the game at all.
	bets, err = FindValueBets([]predict.Prediction{valuePrediction("2024_12_SF_SEA", 0.8)}, lines, 0.05, 0.6)
	if err != nil {
		t.Fatalf("FindValueBets: %v", err)
	}
	if len(bets) != 0 {
		t.Errorf("scan without lines produced %d bets, want 0", len(bets))
	}

	// A zero-odds quote is a caller error.
	bad := []Line{{GameID: "2024_11_BUF_KC", Sportsbook: "X", BetType: BetTypeMoneyline,
		HomeOdds: ip(0), AwayOdds: ip(100)}}
	if _, err := FindValueBets([]predict.Prediction{valuePrediction("2024_11_BUF_KC", 0.9)}, bad, 0.05, 0.6); err == nil {
		t.Error("zero odds should error")
	}
}

func TestFindValueBetsSortsByEV(t *testing.T) {
	p1 := valuePrediction("2024_11_BUF_KC", 0.62)
	p2 := valuePrediction("2024_12_BUF_KC", 0.80)
	p2.GameDate = p2.GameDate.AddDate(0, 1, 0)

	lines := []Line{
		{GameID: "2024_11_BUF_KC", Sportsbook: "DraftKings", BetType: BetTypeMoneyline,
			HomeOdds: ip(100), AwayOdds: ip(-120)},
		{GameID: "2024_12_BUF_KC", Sportsbook: "DraftKings", BetType: BetTypeMoneyline,
			HomeOdds: ip(100), AwayOdds: ip(-120)},
	}

	bets, err := FindValueBets([]predict.Prediction{p1, p2}, lines, 0.05, 0.6)
	if err != nil {
		t.Fatalf("FindValueBets: %v", err)
	}
	if len(bets) != 2 {
		t.Fatalf("bets = %d, want 2", len(bets))
	}
	if bets[0].GameID != "2024_12_BUF_KC" {
		t.Errorf("first bet = %s, want the higher-EV game first", bets[0].GameID)
	}
	if bets[0].ExpectedValue < bets[1].ExpectedValue {
		t.Errorf("bets not sorted by EV: %v then %v", bets[0].ExpectedValue, bets[1].ExpectedValue)
	}
}

func TestValidatePredictions(t *testing.T) {
	kcGame := valuePrediction("2024_11_BUF_KC", 0.70)
	dalGame := predict.Prediction{
		GameID: "2024_11_SF_DAL", HomeTeam: "DAL", AwayTeam: "SF",
		HomeWinProb: 0.55, AwayWinProb: 0.45,
		PredictedWinner: "DAL", WinProbability: 0.55, Confidence: 0.55,
	}

	lines := []Line{
		{GameID: "2024_11_BUF_KC", Sportsbook: "DraftKings", BetType: BetTypeMoneyline,
			HomeOdds: ip(-150), AwayOdds: ip(130)},
		{GameID: "2024_11_SF_DAL", Sportsbook: "DraftKings", BetType: BetTypeMoneyline,
			HomeOdds: ip(-110), AwayOdds: ip(-110)},
	}
	results := []Result{
		{Winner: "KC", Loser: "BUF"},
		{Winner: "SF", Loser: "DAL"},
	}

	m, err := ValidatePredictions([]predict.Prediction{kcGame, dalGame}, lines, results, 0.05)
	if err != nil {
		t.Fatalf("ValidatePredictions: %v", err)
	}

	if m.TotalPredictions != 2 {
		t.Errorf("TotalPredictions = %d, want 2", m.TotalPredictions)
	}
	// Model and market favored the home side in both games.
	if m.AgreementRate != 1.0 {
		t.Errorf("AgreementRate = %v, want 1.0", m.AgreementRate)
	}
	// One of two picks landed.
	if m.ValueBetAccuracy != 0.5 {
		t.Errorf("ValueBetAccuracy = %v, want 0.5", m.ValueBetAccuracy)
	}
	// |0.5 accuracy - 0.625 mean stated confidence|.
	if math.Abs(m.CalibrationError-0.125) > 1e-9 {
		t.Errorf("CalibrationError = %v, want 0.125", m.CalibrationError)
	}

	// Only the KC game cleared the 5% back-test edge: -150 implies 0.6,
	// model said 0.70. Kelly = 0.25 exactly, and the pick won at -150.
	wantROI := 0.25 * (100.0 / 150.0)
	if math.Abs(m.KellyCriterionROI-wantROI) > 1e-9 {
		t.Errorf("KellyCriterionROI = %v, want %v", m.KellyCriterionROI, wantROI)
	}
	// A single bet has no return spread and never dipped below its peak.
	if m.SharpeRatio != 0 || m.MaxDrawdown != 0 {
		t.Errorf("Sharpe/MaxDrawdown = %v/%v, want 0/0", m.SharpeRatio, m.MaxDrawdown)
	}

	// A stricter edge floor excludes the KC bet: 0.70 model vs 0.6 implied
	// does not clear 15%, so nothing is staked.
	strict, err := ValidatePredictions([]predict.Prediction{kcGame, dalGame}, lines, results, 0.15)
	if err != nil {
		t.Fatalf("ValidatePredictions (strict): %v", err)
	}
	if strict.KellyCriterionROI != 0 {
		t.Errorf("strict-edge ROI = %v, want 0", strict.KellyCriterionROI)
	}
}

func TestValidatePredictionsContract(t *testing.T) {
	if _, err := ValidatePredictions(
		[]predict.Prediction{valuePrediction("2024_11_BUF_KC", 0.7)},
		nil, nil, 0.05); err == nil {
		t.Error("length mismatch should error")
	}
}

func TestValidatePredictionsEmptyWindow(t *testing.T) {
	// Predictions exist but no lines cover them.
	m, err := ValidatePredictions(
		[]predict.Prediction{valuePrediction("2024_11_BUF_KC", 0.7)},
		nil,
		[]Result{{Winner: "KC", Loser: "BUF"}},
		0.05)
	if err != nil {
		t.Fatalf("ValidatePredictions: %v", err)
	}
	if *m != (ValidationMetrics{}) {
		t.Errorf("empty window metrics = %+v, want all-zero", m)
	}
}

func TestSizeStakes(t *testing.T) {
	bets := []ValueBet{{KellyFraction: 0.25}, {KellyFraction: 0.1}}
	SizeStakes(bets, 100)
	if bets[0].RecommendedStake != 25 || bets[1].RecommendedStake != 10 {
		t.Errorf("stakes = %v/%v, want 25/10",
			bets[0].RecommendedStake, bets[1].RecommendedStake)
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
		want    float64
	}{
		{"empty", nil, 0},
		{"monotonic gains", []float64{0.1, 0.2, 0.1}, 0},
		// The peak starts at the first cumulative value, so an opening
		// loss is not a decline from anything.
		{"single loss", []float64{-0.2}, 0},
		{"losses after the opening bet", []float64{-0.2, -0.3}, 0.3},
		{"peak then trough", []float64{0.3, -0.1, -0.3, 0.5}, 0.4},
	}
	for _, tt := range tests {
		if got := maxDrawdown(tt.returns); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: maxDrawdown = %v, want %v", tt.name, got, tt.want)
		}
	}
}
