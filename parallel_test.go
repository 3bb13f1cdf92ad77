package gotlqa

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ZaguanLabs/gotlqa/glossary"
)

func TestReviewBatch_PreservesOrder(t *testing.T) {
	e := newTestEngine(t, WithWorkers(4))

	units := make([]Unit, 50)
	for i := range units {
		units[i] = Unit{
			ID:          fmt.Sprintf("u%d", i),
			Source:      fmt.Sprintf("Recruit %d archers.", i),
			Translation: fmt.Sprintf("Recrutez %d archers.", i),
		}
	}

	results, err := e.ReviewBatch(context.Background(), units)
	if err != nil {
		t.Fatalf("ReviewBatch failed: %v", err)
	}
	if len(results) != len(units) {
		t.Fatalf("Expected %d results, got %d", len(units), len(results))
	}
	for i, r := range results {
		if r == nil || r.UnitID != units[i].ID {
			t.Fatalf("Result %d out of order: %+v", i, r)
		}
		if r.NeedsReview {
			t.Errorf("Unit %s should be clean, got %+v", r.UnitID, r.Issues)
		}
	}
}

func TestReviewBatch_Empty(t *testing.T) {
	e := newTestEngine(t)

	results, err := e.ReviewBatch(context.Background(), nil)
	if err != nil || len(results) != 0 {
		t.Errorf("Expected no results and no error, got %d / %v", len(results), err)
	}
}

func TestReviewBatch_Cancelled(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	units := []Unit{{Source: "a", Translation: "b"}, {Source: "c", Translation: "d"}}
	results, err := e.ReviewBatch(ctx, units)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(results) != len(units) {
		t.Errorf("Expected a result slot per unit, got %d", len(results))
	}
}

// countingUsage counts concurrent Record calls.
type countingUsage struct {
	mu    sync.Mutex
	ids   map[string]int
	calls int64
}

func (u *countingUsage) Record(_ context.Context, ids []string) error {
	atomic.AddInt64(&u.calls, 1)
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, id := range ids {
		u.ids[id]++
	}
	return nil
}

func TestReviewBatch_ConcurrentUsage(t *testing.T) {
	usage := &countingUsage{ids: make(map[string]int)}
	e := newTestEngine(t,
		WithWorkers(8),
		WithGlossary([]glossary.Entry{{ID: "g1", SourceTerm: "archers", TargetTerm: "archers"}}),
		WithUsageRecorder(usage),
	)

	units := make([]Unit, 40)
	for i := range units {
		units[i] = Unit{Source: "Recruit archers", Translation: "Recrutez des archers"}
	}

	if _, err := e.ReviewBatch(context.Background(), units); err != nil {
		t.Fatalf("ReviewBatch failed: %v", err)
	}
	if usage.ids["g1"] != 40 || atomic.LoadInt64(&usage.calls) != 40 {
		t.Errorf("Expected 40 recorded uses, got %d in %d calls", usage.ids["g1"], usage.calls)
	}
}
