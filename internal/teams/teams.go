// Package teams resolves free-form NFL team names to canonical
// abbreviations.
package teams

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Aliases maps normalized team names, cities and nicknames to the
// canonical abbreviation. Feed payloads spell teams every which way.
var Aliases = map[string]string{
	"arizona cardinals": "ARI", "arizona": "ARI", "cardinals": "ARI",
	"atlanta falcons": "ATL", "atlanta": "ATL", "falcons": "ATL",
	"baltimore ravens": "BAL", "baltimore": "BAL", "ravens": "BAL",
	"buffalo bills": "BUF", "buffalo": "BUF", "bills": "BUF",
	"carolina panthers": "CAR", "carolina": "CAR", "panthers": "CAR",
	"chicago bears": "CHI", "chicago": "CHI", "bears": "CHI",
	"cincinnati bengals": "CIN", "cincinnati": "CIN", "bengals": "CIN",
	"cleveland browns": "CLE", "cleveland": "CLE", "browns": "CLE",
	"dallas cowboys": "DAL", "dallas": "DAL", "cowboys": "DAL",
	"denver broncos": "DEN", "denver": "DEN", "broncos": "DEN",
	"detroit lions": "DET", "detroit": "DET", "lions": "DET",
	"green bay packers": "GB", "green bay": "GB", "packers": "GB",
	"houston texans": "HOU", "houston": "HOU", "texans": "HOU",
	"indianapolis colts": "IND", "indianapolis": "IND", "colts": "IND",
	"jacksonville jaguars": "JAX", "jacksonville": "JAX", "jaguars": "JAX", "jags": "JAX",
	"kansas city chiefs": "KC", "kansas city": "KC", "chiefs": "KC",
	"las vegas raiders": "LV", "las vegas": "LV", "raiders": "LV", "oakland raiders": "LV",
	"los angeles chargers": "LAC", "la chargers": "LAC", "chargers": "LAC", "san diego chargers": "LAC",
	"los angeles rams": "LA", "la rams": "LA", "rams": "LA", "st louis rams": "LA", "st. louis rams": "LA",
	"miami dolphins": "MIA", "miami": "MIA", "dolphins": "MIA",
	"minnesota vikings": "MIN", "minnesota": "MIN", "vikings": "MIN",
	"new england patriots": "NE", "new england": "NE", "patriots": "NE", "pats": "NE",
	"new orleans saints": "NO", "new orleans": "NO", "saints": "NO",
	"new york giants": "NYG", "ny giants": "NYG", "giants": "NYG",
	"new york jets": "NYJ", "ny jets": "NYJ", "jets": "NYJ",
	"philadelphia eagles": "PHI", "philadelphia": "PHI", "eagles": "PHI", "philly": "PHI",
	"pittsburgh steelers": "PIT", "pittsburgh": "PIT", "steelers": "PIT",
	"san francisco 49ers": "SF", "san francisco": "SF", "49ers": "SF", "niners": "SF",
	"seattle seahawks": "SEA", "seattle": "SEA", "seahawks": "SEA",
	"tampa bay buccaneers": "TB", "tampa bay": "TB", "buccaneers": "TB", "bucs": "TB",
	"tennessee titans": "TEN", "tennessee": "TEN", "titans": "TEN",
	"washington commanders": "WAS", "washington": "WAS", "commanders": "WAS",
	"washington football team": "WAS", "washington redskins": "WAS",
}

// Abbreviation resolves a team name to its canonical abbreviation.
// Inputs that already look like abbreviations pass through uppercased.
func Abbreviation(name string) (string, bool) {
	n := Normalize(name)
	if n == "" {
		return "", false
	}
	if abbr, ok := Aliases[n]; ok {
		return abbr, true
	}
	upper := strings.ToUpper(strings.TrimSpace(name))
	if len(upper) >= 2 && len(upper) <= 3 && isKnownAbbr(upper) {
		return upper, true
	}
	return "", false
}

// Normalize lowercases, strips diacritics, and collapses whitespace.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = stripDiacritics(s)
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

var knownAbbrs = func() map[string]bool {
	m := make(map[string]bool)
	for _, abbr := range Aliases {
		m[abbr] = true
	}
	return m
}()

func isKnownAbbr(s string) bool {
	return knownAbbrs[s]
}

func stripDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if !unicode.Is(unicode.Mn, r) { // Mn = Mark, Nonspacing (combining accents)
			b.WriteRune(r)
		}
	}
	return b.String()
}
