package gotlqa

import (
	"context"
	"errors"
	"testing"
)

func TestReviewHTML(t *testing.T) {
	e := newTestEngine(t)

	src := `<div><p>Hello {0}</p><p>Welcome!</p><script>track()</script></div>`
	dst := `<div><p>Bonjour</p><p>Bienvenue !</p><script>track()</script></div>`

	results, err := e.ReviewHTML(context.Background(), src, dst, "fr_FR")
	if err != nil {
		t.Fatalf("ReviewHTML failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 reviewed nodes, got %d", len(results))
	}

	if results[0].UnitID != "node-0" || !results[0].NeedsReview {
		t.Errorf("Expected node-0 to need review, got %+v", results[0])
	}
	if results[1].UnitID != "node-1" || results[1].NeedsReview {
		t.Errorf("Expected node-1 to be clean, got %+v", results[1])
	}
}

func TestReviewHTML_CountMismatch(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.ReviewHTML(context.Background(), `<p>One</p><p>Two</p>`, `<p>Un</p>`, "fr_FR")

	var mismatch *CountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Expected CountMismatchError, got %v", err)
	}
	if mismatch.Expected != 2 || mismatch.Got != 1 {
		t.Errorf("Expected 2 vs 1, got %d vs %d", mismatch.Expected, mismatch.Got)
	}
}

func TestReviewHTML_RTLDirection(t *testing.T) {
	e := newTestEngine(t)

	results, err := e.ReviewHTML(context.Background(), `<p>Hello</p>`, `<p>مرحبا</p>`, "ar_SA")
	if err != nil {
		t.Fatalf("ReviewHTML failed: %v", err)
	}
	if len(results) != 1 || results[0].Direction != "rtl" {
		t.Errorf("Expected one rtl result, got %+v", results)
	}
}
