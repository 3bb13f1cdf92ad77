package gotlqa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ZaguanLabs/gotlqa/cache"
	"github.com/ZaguanLabs/gotlqa/glossary"
	"github.com/ZaguanLabs/gotlqa/similarity"
	"github.com/ZaguanLabs/gotlqa/tm"
	"github.com/ZaguanLabs/gotlqa/validate"
)

var testGlossary = []glossary.Entry{
	{ID: "g1", SourceTerm: "heavy cavalry", TargetTerm: "cavalerie lourde", TargetLanguageCode: "fr"},
	{ID: "g2", SourceTerm: "cavalry", TargetTerm: "caballería", TargetLanguageCode: "es"},
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	e.newID = func() string { return "fixed-id" }
	return e
}

func TestEngine_Review(t *testing.T) {
	usage := glossary.NewMemoryUsage()
	e := newTestEngine(t, WithGlossary(testGlossary), WithUsageRecorder(usage))

	res, err := e.Review(context.Background(), Unit{
		Source:      "Recruit {0} heavy cavalry.",
		Translation: "Recrutez de la heavy cavalry.",
		TargetLang:  "fr_FR",
	})
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	if res.UnitID != "fixed-id" {
		t.Errorf("Expected generated unit id, got %q", res.UnitID)
	}
	if len(res.Matches) != 1 || res.Matches[0].Entry.ID != "g1" {
		t.Fatalf("Expected one match of g1, got %+v", res.Matches)
	}
	if res.Suggested != "Recrutez de la cavalerie lourde." {
		t.Errorf("Unexpected suggestion %q", res.Suggested)
	}
	if len(res.Issues) != 1 || res.Issues[0].Type != validate.MissingVariables {
		t.Errorf("Expected a single missing_variables issue, got %+v", res.Issues)
	}
	if !res.NeedsReview {
		t.Error("Expected NeedsReview for a missing placeholder")
	}
	if res.Fixed != "" {
		t.Errorf("Missing placeholders cannot be auto-fixed, got %q", res.Fixed)
	}
	if res.Diff != nil || res.DiffStats != nil {
		t.Error("Expected no diff without a previous revision")
	}
	if res.Direction != "ltr" {
		t.Errorf("Expected ltr, got %s", res.Direction)
	}
	if got := usage.Count("g1"); got != 1 {
		t.Errorf("Expected usage 1 for g1, got %d", got)
	}
}

func TestEngine_ReviewClean(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Review(context.Background(), Unit{
		ID:          "u1",
		Source:      "Recruit 5 archers.",
		Translation: "Recrutez 5 archers.",
	})
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if res.UnitID != "u1" {
		t.Errorf("Expected caller id to be kept, got %q", res.UnitID)
	}
	if res.NeedsReview || len(res.Issues) != 0 {
		t.Errorf("Expected a clean result, got %+v", res.Issues)
	}
	if res.Suggested != "" || res.Fixed != "" {
		t.Errorf("Expected no suggestion or fix, got %q / %q", res.Suggested, res.Fixed)
	}
}

func TestEngine_ReviewAutoFix(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Review(context.Background(), Unit{Source: "Earn 13140 gold", Translation: "Gagnez 13 140 or"})
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if res.Fixed != "Gagnez 13140 or" {
		t.Errorf("Expected fixed number, got %q", res.Fixed)
	}
}

func TestEngine_ReviewDiff(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Review(context.Background(), Unit{
		Source:      "Recruit heavy cavalry",
		Translation: "Recrutez la cavalerie lourde",
		Previous:    "Recrutez la cavalerie",
	})
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if res.DiffStats == nil || res.DiffStats.WordsAdded != 1 || res.DiffStats.WordsRemoved != 0 {
		t.Errorf("Expected one added word, got %+v", res.DiffStats)
	}
}

func TestEngine_GlossaryFiltering(t *testing.T) {
	e := newTestEngine(t, WithGlossary(testGlossary))

	res, err := e.Review(context.Background(), Unit{
		Source:      "Recruit heavy cavalry",
		Translation: "Reclutar caballería pesada",
		TargetLang:  "es-ES",
	})
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if len(res.Matches) != 1 || res.Matches[0].Entry.ID != "g2" {
		t.Errorf("Expected only the Spanish entry to match, got %+v", res.Matches)
	}
}

type failingUsage struct{}

func (failingUsage) Record(context.Context, []string) error {
	return errors.New("redis down")
}

func TestEngine_UsageFailureIgnored(t *testing.T) {
	e := newTestEngine(t, WithGlossary(testGlossary), WithUsageRecorder(failingUsage{}))

	res, err := e.Review(context.Background(), Unit{Source: "heavy cavalry", Translation: "cavalerie lourde", TargetLang: "fr"})
	if err != nil {
		t.Fatalf("Usage failures must not fail the review: %v", err)
	}
	if len(res.Matches) != 1 {
		t.Errorf("Expected matches despite usage failure, got %d", len(res.Matches))
	}
}

func TestEngine_Memory(t *testing.T) {
	c := cache.NewMemory(time.Hour)
	e := newTestEngine(t,
		WithMemory([]tm.Entry{
			{ID: "m1", Source: "Recruit heavy cavalry", Target: "Recrutez de la cavalerie lourde"},
			{ID: "m2", Source: "Dismiss the archers", Target: "Renvoyez les archers"},
		}),
		WithCache(c),
	)

	u := Unit{Source: "Recruit heavy cavalry", Translation: "Recrutez la cavalerie lourde", TargetLang: "fr_FR"}

	res, err := e.Review(context.Background(), u)
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if res.Memory == nil || res.Memory.Entry.ID != "m1" || res.Memory.Cached {
		t.Fatalf("Expected fresh memory match m1, got %+v", res.Memory)
	}

	res, err = e.Review(context.Background(), u)
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if res.Memory == nil || !res.Memory.Cached || res.Memory.Entry.Target != "Recrutez de la cavalerie lourde" {
		t.Errorf("Expected cached memory match, got %+v", res.Memory)
	}

	var buf bytes.Buffer
	if err := e.ExportCache(context.Background(), &buf, nil); err != nil {
		t.Fatalf("ExportCache failed: %v", err)
	}
	var doc cache.ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Invalid export: %v", err)
	}
	if len(doc.Entries) != 1 {
		t.Errorf("Expected 1 exported suggestion, got %d", len(doc.Entries))
	}
}

func TestEngine_CacheErrors(t *testing.T) {
	e := newTestEngine(t)

	var cerr *CacheError
	if err := e.ExportCache(context.Background(), &bytes.Buffer{}, nil); !errors.As(err, &cerr) {
		t.Errorf("Expected CacheError without a cache, got %v", err)
	}
	if _, err := e.ImportCache(context.Background(), &bytes.Buffer{}); !errors.As(err, &cerr) {
		t.Errorf("Expected CacheError without a cache, got %v", err)
	}
}

func TestEngine_Cancelled(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Review(ctx, Unit{Source: "a", Translation: "b"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		field string
	}{
		{"weights", WithWeights(similarity.Weights{Levenshtein: 0.5, JaroWinkler: 0.5, Token: 0.5}), "weights"},
		{"threshold", WithThreshold(1.5), "threshold"},
		{"length ratio", WithLengthRatioLimit(-1), "length_ratio_limit"},
		{"workers", WithWorkers(0), "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Expected ConfigError, got %v", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, cerr.Field)
			}
		})
	}
}

func TestEngine_LengthRatioLimit(t *testing.T) {
	e := newTestEngine(t, WithLengthRatioLimit(0.5))

	res, err := e.Review(context.Background(), Unit{Source: "Hello", Translation: "Bonjour!"})
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	found := false
	for _, i := range res.Issues {
		if i.Type == validate.LengthDifference {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected length_difference with a 0.5 limit, got %+v", res.Issues)
	}
}
