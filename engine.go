package gotlqa

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ZaguanLabs/gotlqa/cache"
	"github.com/ZaguanLabs/gotlqa/diff"
	"github.com/ZaguanLabs/gotlqa/glossary"
	"github.com/ZaguanLabs/gotlqa/similarity"
	"github.com/ZaguanLabs/gotlqa/tm"
	"github.com/ZaguanLabs/gotlqa/validate"
)

// Engine reviews translation units. It is safe for concurrent use once
// built.
type Engine struct {
	simOpts          []similarity.Option
	calc             *similarity.Calculator
	validator        *validate.Service
	lengthRatioLimit float64

	glossary      []glossary.Entry
	wholeWordOnly bool
	usage         glossary.UsageRecorder

	memory   []tm.Entry
	cache    cache.TranslationCache
	searcher *tm.Searcher

	workers int
	logger  zerolog.Logger
	newID   func() string
}

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithWeights sets the similarity metric weights. They must sum to 1.0.
func WithWeights(w similarity.Weights) Option {
	return func(e *Engine) {
		e.simOpts = append(e.simOpts, similarity.WithWeights(w))
	}
}

// WithThreshold sets the similarity threshold for memory lookups.
func WithThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.simOpts = append(e.simOpts, similarity.WithThreshold(threshold))
	}
}

// WithCalculator replaces the similarity calculator. It takes precedence
// over WithWeights and WithThreshold.
func WithCalculator(c *similarity.Calculator) Option {
	return func(e *Engine) {
		e.calc = c
	}
}

// WithGlossary sets the glossary entries matched against every source.
func WithGlossary(entries []glossary.Entry) Option {
	return func(e *Engine) {
		e.glossary = entries
	}
}

// WithWholeWordOnly controls whether glossary terms must match whole words.
// The default is true.
func WithWholeWordOnly(wholeWord bool) Option {
	return func(e *Engine) {
		e.wholeWordOnly = wholeWord
	}
}

// WithUsageRecorder records the glossary entries each review matched.
func WithUsageRecorder(u glossary.UsageRecorder) Option {
	return func(e *Engine) {
		e.usage = u
	}
}

// WithMemory sets the translation-memory entries searched for every unit.
func WithMemory(entries []tm.Entry) Option {
	return func(e *Engine) {
		e.memory = entries
	}
}

// WithCache sets the suggestion cache used for memory lookups.
func WithCache(c cache.TranslationCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithValidator replaces the validation service.
func WithValidator(v *validate.Service) Option {
	return func(e *Engine) {
		e.validator = v
	}
}

// WithLengthRatioLimit overrides validate.DefaultLengthRatioLimit.
func WithLengthRatioLimit(limit float64) Option {
	return func(e *Engine) {
		e.lengthRatioLimit = limit
	}
}

// WithWorkers sets the number of units ReviewBatch reviews concurrently.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine. It fails with a *ConfigError when the options are
// inconsistent.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		wholeWordOnly:    true,
		lengthRatioLimit: validate.DefaultLengthRatioLimit,
		workers:          4,
		logger:           zerolog.Nop(),
		newID:            uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.calc == nil {
		e.calc = similarity.New(e.simOpts...)
	}
	if !e.calc.Weights().Valid() {
		return nil, &ConfigError{Field: "weights", Message: "must be non-negative and sum to 1.0"}
	}
	if t := e.calc.Threshold(); t < 0 || t > 1 {
		return nil, &ConfigError{Field: "threshold", Message: "must be within [0, 1]"}
	}
	if e.lengthRatioLimit <= 0 {
		return nil, &ConfigError{Field: "length_ratio_limit", Message: "must be positive"}
	}
	if e.workers < 1 {
		return nil, &ConfigError{Field: "workers", Message: "must be at least 1"}
	}
	if e.validator == nil {
		e.validator = validate.NewService()
	}

	searchOpts := []tm.Option{tm.WithCalculator(e.calc), tm.WithLogger(e.logger)}
	if e.cache != nil {
		searchOpts = append(searchOpts, tm.WithCache(e.cache))
	}
	e.searcher = tm.NewSearcher(searchOpts...)

	return e, nil
}

// Review checks one unit: glossary matches over the source, a
// glossary-substituted suggestion, validation issues and their auto-fixed
// text, a word diff against the previous revision, and the best memory
// match. Glossary usage recording is best effort; its failures are logged.
func (e *Engine) Review(ctx context.Context, u Unit) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if u.ID == "" {
		u.ID = e.newID()
	}
	log := e.logger.With().Str("unit", u.ID).Logger()

	res := &Result{
		UnitID:    u.ID,
		Direction: GetDirection(u.TargetLang),
	}

	entries := glossary.FilterEntries(e.glossary, u.GlossaryID, u.TargetLang)
	res.Matches = glossary.FindMatches(u.Source, entries, e.wholeWordOnly)
	res.GlossaryStats = glossary.Statistics(u.Source, res.Matches)
	if len(res.Matches) > 0 {
		e.recordUsage(ctx, log, res.Matches)
		if s := glossary.ApplySubstitutions(u.Translation, res.Matches); s != u.Translation {
			res.Suggested = s
		}
	}

	res.Issues = e.validator.Validate(u.Source, u.Translation, &validate.Context{
		Category:         u.Category,
		TargetLang:       u.TargetLang,
		LengthRatioLimit: e.lengthRatioLimit,
	})
	if fixed := e.validator.ApplyAllAutoFixes(u.Source, u.Translation, res.Issues); fixed != u.Translation {
		res.Fixed = fixed
	}
	res.NeedsReview = validate.HasBlocking(res.Issues)

	if u.Previous != "" {
		res.Diff = diff.Words(u.Previous, u.Translation)
		st := diff.StatsFromSegments(res.Diff)
		res.DiffStats = &st
	}

	if len(e.memory) > 0 {
		best, ok, err := e.searcher.Best(ctx, u.Source, u.Category, u.TargetLang, e.memory)
		if err != nil {
			return nil, err
		}
		if ok {
			res.Memory = &best
			log.Debug().Float64("score", best.Score).Bool("cached", best.Cached).Msg("memory match")
		}
	}

	log.Debug().
		Int("matches", len(res.Matches)).
		Int("issues", len(res.Issues)).
		Bool("needs_review", res.NeedsReview).
		Msg("unit reviewed")
	return res, nil
}

func (e *Engine) recordUsage(ctx context.Context, log zerolog.Logger, matches []glossary.Match) {
	if e.usage == nil {
		return
	}
	if err := e.usage.Record(ctx, glossary.EntryIDs(matches)); err != nil {
		log.Warn().Err(err).Msg("glossary usage not recorded")
	}
}

// Calculator returns the engine's similarity calculator.
func (e *Engine) Calculator() *similarity.Calculator {
	return e.calc
}

// ExportCache writes the suggestion cache as JSON.
func (e *Engine) ExportCache(ctx context.Context, w io.Writer, metadata map[string]string) error {
	c, ok := e.cache.(cache.Enumerable)
	if !ok {
		return &CacheError{Message: "cache does not support export"}
	}
	if err := cache.Export(ctx, c, w, metadata); err != nil {
		return &CacheError{Message: "export failed", Cause: err}
	}
	return nil
}

// ImportCache loads a JSON export into the suggestion cache.
func (e *Engine) ImportCache(ctx context.Context, r io.Reader) (*cache.ImportResult, error) {
	if e.cache == nil {
		return nil, &CacheError{Message: "no cache configured"}
	}
	res, err := cache.Import(ctx, e.cache, r)
	if err != nil {
		return res, &CacheError{Message: "import failed", Cause: err}
	}
	return res, nil
}
