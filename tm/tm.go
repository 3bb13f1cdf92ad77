// Package tm ranks translation-memory entries against a source segment.
package tm

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ZaguanLabs/gotlqa/cache"
	"github.com/ZaguanLabs/gotlqa/similarity"
)

// Entry is a stored source/target pair.
type Entry struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Category string `json:"category,omitempty"`
}

// Suggestion is an entry scored against a lookup source. Suggestions served
// from the cache have Cached set and carry only the target text.
type Suggestion struct {
	Entry     Entry                `json:"entry"`
	Score     float64              `json:"score"`
	Breakdown similarity.Breakdown `json:"breakdown"`
	Cached    bool                 `json:"cached,omitempty"`
}

// checkEvery is how many candidates are scored between context checks.
const checkEvery = 64

// Searcher scores candidates with a similarity.Calculator.
type Searcher struct {
	calc   *similarity.Calculator
	cache  cache.TranslationCache
	logger zerolog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithCalculator sets the calculator, and with it weights and threshold.
func WithCalculator(c *similarity.Calculator) Option {
	return func(s *Searcher) {
		s.calc = c
	}
}

// WithCache enables caching of Best results.
func WithCache(c cache.TranslationCache) Option {
	return func(s *Searcher) {
		s.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Searcher) {
		s.logger = l
	}
}

// NewSearcher creates a Searcher with a default calculator and no cache.
func NewSearcher(opts ...Option) *Searcher {
	s := &Searcher{
		calc:   similarity.New(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup scores every candidate against source and returns those reaching
// the threshold, best first. Equal scores keep candidate order. A limit of
// zero or less returns all of them.
func (s *Searcher) Lookup(ctx context.Context, source, category string, candidates []Entry, limit int) ([]Suggestion, error) {
	var out []Suggestion
	for i, c := range candidates {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		bd := s.calc.Calculate(source, c.Source, category, c.Category)
		score := bd.Combined()
		if score < s.calc.Threshold() {
			continue
		}
		out = append(out, Suggestion{Entry: c, Score: score, Breakdown: bd})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	s.logger.Debug().
		Int("candidates", len(candidates)).
		Int("suggestions", len(out)).
		Msg("tm lookup")
	return out, nil
}

// CacheKey returns the cache key Best uses. The category is part of the key
// because it changes scores through the context boost.
func CacheKey(source, category, targetLang string) string {
	key := cache.Key(cache.HashText(source), targetLang)
	if category != "" {
		key += ":" + category
	}
	return key
}

// Best returns the top suggestion for source in targetLang. With a cache
// configured, a cached target is returned without scoring, and a fresh best
// target is stored. Cache write failures are logged.
func (s *Searcher) Best(ctx context.Context, source, category, targetLang string, candidates []Entry) (Suggestion, bool, error) {
	key := CacheKey(source, category, targetLang)

	if s.cache != nil {
		if target, ok := s.cache.Get(ctx, key); ok {
			s.logger.Debug().Str("key", key).Msg("tm cache hit")
			return Suggestion{Entry: Entry{Source: source, Target: target}, Cached: true}, true, nil
		}
	}

	found, err := s.Lookup(ctx, source, category, candidates, 1)
	if err != nil || len(found) == 0 {
		return Suggestion{}, false, err
	}

	best := found[0]
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, best.Entry.Target); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("tm cache write failed")
		}
	}
	return best, true, nil
}
