package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// FormatVersion is written to every export.
const FormatVersion = "1.0"

// ExportFormat is the JSON document produced by Export.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry is one cached suggestion.
type ExportEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ImportResult reports what Import loaded.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}

// Export writes the live entries of c as indented JSON, sorted by key.
func Export(ctx context.Context, c Enumerable, w io.Writer, metadata map[string]string) error {
	data, err := c.Entries(ctx)
	if err != nil {
		return fmt.Errorf("getting cache entries: %w", err)
	}

	entries := make([]ExportEntry, 0, len(data))
	for k, v := range data {
		entries = append(entries, ExportEntry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	doc := ExportFormat{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ExportToFile exports c to path.
func ExportToFile(ctx context.Context, c Enumerable, path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := Export(ctx, c, f, metadata); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Import loads the entries of an export document into c. Entries that fail
// to store are counted, not fatal.
func Import(ctx context.Context, c TranslationCache, r io.Reader) (*ImportResult, error) {
	var doc ExportFormat
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	res := &ImportResult{Version: doc.Version, Metadata: doc.Metadata}
	for _, e := range doc.Entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := c.Set(ctx, e.Key, e.Value); err != nil {
			res.Failed++
			continue
		}
		res.Imported++
	}
	return res, nil
}

// ImportFromFile imports an export document from path.
func ImportFromFile(ctx context.Context, c TranslationCache, path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Import(ctx, c, f)
}
