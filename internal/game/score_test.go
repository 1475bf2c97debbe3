package game

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		secret, guess string
		want          Feedback
	}{
		{"1234", "1243", Feedback{Bulls: 2, Cows: 2}},
		{"1234", "5678", Feedback{}},
		{"1234", "1234", Feedback{Bulls: 4}},
		{"1234", "4321", Feedback{Cows: 4}},
		{"1234", "1567", Feedback{Bulls: 1}},
		{"1234", "5167", Feedback{Cows: 1}},
		{"0912", "9012", Feedback{Bulls: 2, Cows: 2}},
	}
	for _, tt := range tests {
		got := Score(MustParseCode(tt.secret), MustParseCode(tt.guess))
		if got != tt.want {
			t.Errorf("Score(%s, %s) = %+v, want %+v", tt.secret, tt.guess, got, tt.want)
		}
	}
}

func TestScoreProperties(t *testing.T) {
	all := AllCodes()
	secrets := []Code{all[0], all[777], all[2500], all[len(all)-1]}
	for _, s := range secrets {
		if fb := Score(s, s); fb != (Feedback{Bulls: 4}) {
			t.Fatalf("Score(%v, %v) = %+v", s, s, fb)
		}
		for _, g := range all {
			fb := Score(s, g)
			if fb.Bulls+fb.Cows > CodeLen || fb.Bulls < 0 || fb.Cows < 0 {
				t.Fatalf("Score(%v, %v) = %+v out of range", s, g, fb)
			}
			if rev := Score(g, s); rev.Bulls != fb.Bulls {
				t.Fatalf("bulls not symmetric for %v, %v", s, g)
			}
		}
	}
}
