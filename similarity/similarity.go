// Package similarity scores how alike two strings are by combining an
// edit-distance ratio, Jaro-Winkler and token-set overlap into one weighted
// score.
package similarity

import (
	"math"

	"github.com/ZaguanLabs/gotlqa/normalize"
)

// Tunable constants. Calculator copies them so callers can override each one.
const (
	// DefaultThreshold is the combined score at which two texts count as similar.
	DefaultThreshold = 0.85

	// ContextBoost is added when both texts share the same category.
	ContextBoost = 0.03

	// PrefixScale is the Jaro-Winkler common-prefix scaling factor.
	PrefixScale = 0.1

	// maxPrefix caps the common prefix Jaro-Winkler rewards.
	maxPrefix = 4

	weightTolerance = 1e-9
)

// Weights sets the share of each metric in the combined score.
type Weights struct {
	Levenshtein float64 `json:"levenshtein" yaml:"levenshtein" toml:"levenshtein"`
	JaroWinkler float64 `json:"jaro_winkler" yaml:"jaro_winkler" toml:"jaro_winkler"`
	Token       float64 `json:"token" yaml:"token" toml:"token"`
}

// DefaultWeights returns 0.4 edit distance, 0.3 Jaro-Winkler, 0.3 tokens.
func DefaultWeights() Weights {
	return Weights{Levenshtein: 0.4, JaroWinkler: 0.3, Token: 0.3}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Levenshtein + w.JaroWinkler + w.Token
}

// Valid reports whether no weight is negative and the weights sum to 1.0.
func (w Weights) Valid() bool {
	if w.Levenshtein < 0 || w.JaroWinkler < 0 || w.Token < 0 {
		return false
	}
	return math.Abs(w.Sum()-1.0) <= weightTolerance
}

// Breakdown holds the individual metric scores behind a combined score.
type Breakdown struct {
	Levenshtein  float64 `json:"levenshtein"`
	JaroWinkler  float64 `json:"jaro_winkler"`
	Token        float64 `json:"token"`
	ContextBoost float64 `json:"context_boost"`
	Weights      Weights `json:"weights"`
}

// Combined returns the weighted sum of the metrics plus the context boost.
// It is not clamped: a boosted perfect match scores above 1.0.
func (b Breakdown) Combined() float64 {
	return b.Levenshtein*b.Weights.Levenshtein +
		b.JaroWinkler*b.Weights.JaroWinkler +
		b.Token*b.Weights.Token +
		b.ContextBoost
}

// Calculator scores text pairs with a fixed configuration. The zero value is
// not usable; build one with New. A Calculator is safe for concurrent use.
type Calculator struct {
	weights      Weights
	threshold    float64
	contextBoost float64
	prefixScale  float64
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithWeights sets the metric weights.
func WithWeights(w Weights) Option {
	return func(c *Calculator) {
		c.weights = w
	}
}

// WithThreshold sets the score AreSimilar compares against.
func WithThreshold(threshold float64) Option {
	return func(c *Calculator) {
		c.threshold = threshold
	}
}

// WithContextBoost sets the bonus for matching categories.
func WithContextBoost(boost float64) Option {
	return func(c *Calculator) {
		c.contextBoost = boost
	}
}

// WithPrefixScale sets the Jaro-Winkler prefix scaling factor.
func WithPrefixScale(scale float64) Option {
	return func(c *Calculator) {
		c.prefixScale = scale
	}
}

// New creates a Calculator with the package defaults, then applies opts.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		weights:      DefaultWeights(),
		threshold:    DefaultThreshold,
		contextBoost: ContextBoost,
		prefixScale:  PrefixScale,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCalculator = New()

// Weights returns the calculator's weights.
func (c *Calculator) Weights() Weights {
	return c.weights
}

// Threshold returns the calculator's similarity threshold.
func (c *Calculator) Threshold() float64 {
	return c.threshold
}

// Calculate normalizes both texts with normalize.DefaultOptions and scores
// them. Categories are optional; the context boost applies only when both
// are non-empty and equal.
func (c *Calculator) Calculate(text1, text2, category1, category2 string) Breakdown {
	opts := normalize.DefaultOptions()
	a := normalize.Normalize(text1, opts)
	b := normalize.Normalize(text2, opts)

	bd := Breakdown{
		Levenshtein: levenshteinRatio([]rune(a), []rune(b)),
		JaroWinkler: jaroWinkler(a, b, c.prefixScale),
		Token:       jaccard(normalize.Tokenize(a), normalize.Tokenize(b)),
		Weights:     c.weights,
	}
	if category1 != "" && category1 == category2 {
		bd.ContextBoost = c.contextBoost
	}
	return bd
}

// AreSimilar reports whether the combined score, context boost included,
// reaches the calculator's threshold.
func (c *Calculator) AreSimilar(text1, text2, category1, category2 string) bool {
	return c.Calculate(text1, text2, category1, category2).Combined() >= c.threshold
}

// JaroWinkler is the case-insensitive Jaro-Winkler similarity using the
// calculator's prefix scale.
func (c *Calculator) JaroWinkler(a, b string) float64 {
	return jaroWinkler(normalize.Lower(a), normalize.Lower(b), c.prefixScale)
}

// Calculate scores two texts with DefaultWeights and optional categories.
func Calculate(text1, text2 string, w Weights, category1, category2 string) Breakdown {
	bd := defaultCalculator.Calculate(text1, text2, category1, category2)
	bd.Weights = w
	return bd
}

// AreSimilar reports whether the default combined score of the two texts,
// context boost included, reaches threshold.
func AreSimilar(text1, text2 string, threshold float64, category1, category2 string) bool {
	return defaultCalculator.Calculate(text1, text2, category1, category2).Combined() >= threshold
}

// Levenshtein returns 1 - distance/maxLen over the lower-cased texts. Two
// empty texts score 1.0, a single empty text 0.0.
func Levenshtein(a, b string) float64 {
	return levenshteinRatio([]rune(normalize.Lower(a)), []rune(normalize.Lower(b)))
}

// JaroWinkler returns the case-insensitive Jaro-Winkler similarity with the
// default prefix scale. Either text empty scores 0.0, identical texts 1.0.
func JaroWinkler(a, b string) float64 {
	return defaultCalculator.JaroWinkler(a, b)
}

// Token returns the Jaccard index of the two texts' token sets. Either set
// empty scores 0.0.
func Token(a, b string) float64 {
	return jaccard(normalize.Tokenize(a), normalize.Tokenize(b))
}

// NGram returns the Jaccard index of the character n-gram sets of the two
// texts. It works on the raw texts and is independent of the weighted score.
func NGram(a, b string, n int) float64 {
	return jaccard(normalize.NGrams(a, n), normalize.NGrams(b, n))
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
