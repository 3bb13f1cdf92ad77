package gotlqa

import (
	"errors"
	"testing"
)

func TestCacheError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &CacheError{Message: "export failed", Cause: cause}

	if err.Error() != "cache error: export failed: connection refused" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("CacheError should unwrap to its cause")
	}

	if got := (&CacheError{Message: "no cache"}).Error(); got != "cache error: no cache" {
		t.Errorf("unexpected error message: %s", got)
	}
}

func TestProcessorError(t *testing.T) {
	err := &ProcessorError{Message: "parse failed", ContentType: "html"}

	if err.Error() != "processor error (html): parse failed" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestCountMismatchError(t *testing.T) {
	err := &CountMismatchError{Expected: 5, Got: 3}

	expected := "text node count mismatch: expected 5, got 3"
	if err.Error() != expected {
		t.Errorf("unexpected error message: %s, want %s", err.Error(), expected)
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Field: "weights", Message: "must sum to 1.0"}

	if err.Error() != "config error: weights: must sum to 1.0" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}
