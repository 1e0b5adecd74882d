package teams

import "testing"

func TestAbbreviation(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Kansas City Chiefs", "KC", true},
		{"chiefs", "KC", true},
		{"  San  Francisco 49ers ", "SF", true},
		{"Niners", "SF", true},
		{"San Diego Chargers", "LAC", true},
		{"KC", "KC", true},
		{"buf", "BUF", true},
		{"Sán Fráncisco", "SF", true}, // diacritics stripped before lookup
		{"Springfield Isotopes", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Abbreviation(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Abbreviation(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Green   Bay  ", "green bay"},
		{"MONTRÉAL", "montreal"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
