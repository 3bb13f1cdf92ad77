// Package cache stores translation suggestions keyed by source text hash and
// target language.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// TranslationCache is the interface for suggestion caches.
type TranslationCache interface {
	// Get returns the cached suggestion. Misses, expired entries and backend
	// failures all report false.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a suggestion.
	Set(ctx context.Context, key, value string) error
}

// Enumerable is a cache whose live entries can be listed for export.
type Enumerable interface {
	TranslationCache
	Entries(ctx context.Context) (map[string]string, error)
}

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(hash[:])
}

// Key builds a cache key from a text hash and target language.
func Key(hash, targetLang string) string {
	return hash + ":" + targetLang
}
