package similarity

import (
	"math"
	"testing"
)

const epsilon = 1e-3

func approx(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"kitten", "sitting", 1 - 3.0/7.0},
		{"", "", 1.0},
		{"abc", "", 0.0},
		{"", "abc", 0.0},
		{"Hello", "hello", 1.0},
		{"日本語", "日本", 1 - 1.0/3.0},
	}

	for _, tt := range tests {
		if got := Levenshtein(tt.a, tt.b); !approx(got, tt.want) {
			t.Errorf("Levenshtein(%q, %q) = %.4f, want %.4f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestJaroWinkler(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"MARTHA", "MARHTA", 0.9611},
		{"DIXON", "DICKSONX", 0.8133},
		{"same", "same", 1.0},
		{"", "", 0.0},
		{"abc", "", 0.0},
		{"abc", "xyz", 0.0},
	}

	for _, tt := range tests {
		if got := JaroWinkler(tt.a, tt.b); !approx(got, tt.want) {
			t.Errorf("JaroWinkler(%q, %q) = %.4f, want %.4f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestToken(t *testing.T) {
	if got := Token("heavy cavalry charge", "Heavy infantry charge"); !approx(got, 0.5) {
		t.Errorf("Expected 0.5, got %.4f", got)
	}
	if got := Token("", "something"); got != 0.0 {
		t.Errorf("Expected 0.0 for empty token set, got %.4f", got)
	}
}

func TestMetrics_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"MARTHA", "MARHTA"},
		{"abcdef", "badcfe"},
		{"The heavy cavalry", "heavy cavalry, the"},
		{"Приказ", "приказы"},
		{"", "text"},
	}

	for _, p := range pairs {
		a, b := p[0], p[1]
		if Levenshtein(a, b) != Levenshtein(b, a) {
			t.Errorf("Levenshtein not symmetric for %q/%q", a, b)
		}
		if JaroWinkler(a, b) != JaroWinkler(b, a) {
			t.Errorf("JaroWinkler not symmetric for %q/%q", a, b)
		}
		if Token(a, b) != Token(b, a) {
			t.Errorf("Token not symmetric for %q/%q", a, b)
		}
	}
}

func TestCalculate(t *testing.T) {
	bd := Calculate("<b>Recruit</b> heavy cavalry", "recruit Heavy Cavalry", DefaultWeights(), "", "")

	if bd.Levenshtein != 1.0 || bd.JaroWinkler != 1.0 || bd.Token != 1.0 {
		t.Errorf("Expected perfect scores after normalization, got %+v", bd)
	}
	if !approx(bd.Combined(), 1.0) {
		t.Errorf("Expected combined 1.0, got %.4f", bd.Combined())
	}

	boosted := Calculate("Recruit", "recruit", DefaultWeights(), "units", "units")
	if boosted.ContextBoost != ContextBoost {
		t.Errorf("Expected context boost %.2f, got %.2f", ContextBoost, boosted.ContextBoost)
	}
	if !approx(boosted.Combined(), 1.03) {
		t.Errorf("Combined score should not be clamped, got %.4f", boosted.Combined())
	}

	other := Calculate("Recruit", "recruit", DefaultWeights(), "units", "buildings")
	if other.ContextBoost != 0 {
		t.Errorf("Different categories should not boost, got %.2f", other.ContextBoost)
	}

	oneSided := Calculate("Recruit", "recruit", DefaultWeights(), "units", "")
	if oneSided.ContextBoost != 0 {
		t.Errorf("A missing category should not boost, got %.2f", oneSided.ContextBoost)
	}
}

func TestCalculate_Dissimilar(t *testing.T) {
	bd := Calculate("abc", "xyz", DefaultWeights(), "", "")
	if bd.Combined() != 0.0 {
		t.Errorf("Expected 0.0 for unrelated texts, got %+v", bd)
	}
}

func TestAreSimilar_ContextBoostCrossesThreshold(t *testing.T) {
	a, b := "Recruit heavy cavalry", "Recruit light cavalry"
	threshold := Calculate(a, b, DefaultWeights(), "", "").Combined() + 0.01

	if AreSimilar(a, b, threshold, "", "") {
		t.Error("Expected texts below threshold without context")
	}
	if !AreSimilar(a, b, threshold, "units", "units") {
		t.Error("Expected context boost to lift texts over threshold")
	}
}

func TestWeights_Valid(t *testing.T) {
	tests := []struct {
		name string
		w    Weights
		want bool
	}{
		{"default", DefaultWeights(), true},
		{"single metric", Weights{Levenshtein: 1}, true},
		{"under", Weights{0.4, 0.3, 0.2}, false},
		{"negative", Weights{1.2, -0.1, -0.1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculator_Options(t *testing.T) {
	c := New(
		WithWeights(Weights{Levenshtein: 1}),
		WithThreshold(0.5),
		WithContextBoost(0.1),
	)

	bd := c.Calculate("abcd", "abce", "x", "x")
	if !approx(bd.Combined(), 0.75+0.1) {
		t.Errorf("Expected 0.85, got %.4f", bd.Combined())
	}
	if !c.AreSimilar("abcd", "abce", "", "") {
		t.Error("Expected similar with threshold 0.5")
	}
	if c.Threshold() != 0.5 {
		t.Errorf("Expected threshold 0.5, got %.2f", c.Threshold())
	}
}

func TestNGram(t *testing.T) {
	if got := NGram("night", "nacht", 2); !approx(got, 1.0/7.0) {
		t.Errorf("Expected 1/7, got %.4f", got)
	}
	if got := NGram("same", "same", 2); got != 1.0 {
		t.Errorf("Expected 1.0 for identical texts, got %.4f", got)
	}
	if got := NGram("", "", 2); got != 1.0 {
		t.Errorf("Expected 1.0 for two empty texts, got %.4f", got)
	}
}

func BenchmarkCalculate(b *testing.B) {
	a := "The heavy cavalry charged across the <b>northern</b> plains at dawn."
	c := "Heavy cavalry charges across the northern plain at dawn!"
	for i := 0; i < b.N; i++ {
		Calculate(a, c, DefaultWeights(), "units", "units")
	}
}
