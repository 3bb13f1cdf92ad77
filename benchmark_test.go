package gotlqa_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ZaguanLabs/gotlqa"
	"github.com/ZaguanLabs/gotlqa/cache"
	"github.com/ZaguanLabs/gotlqa/glossary"
	"github.com/ZaguanLabs/gotlqa/tm"
)

func benchEngine(b *testing.B, opts ...gotlqa.Option) *gotlqa.Engine {
	b.Helper()
	e, err := gotlqa.New(opts...)
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	return e
}

func benchGlossary(n int) []glossary.Entry {
	entries := make([]glossary.Entry, n)
	for i := range entries {
		entries[i] = glossary.Entry{
			ID:         fmt.Sprintf("g%d", i),
			SourceTerm: fmt.Sprintf("term%d", i),
			TargetTerm: fmt.Sprintf("terme%d", i),
		}
	}
	entries[0] = glossary.Entry{ID: "cav", SourceTerm: "heavy cavalry", TargetTerm: "cavalerie lourde"}
	return entries
}

func BenchmarkEngine_Review(b *testing.B) {
	e := benchEngine(b, gotlqa.WithGlossary(benchGlossary(200)))
	u := gotlqa.Unit{
		ID:          "bench",
		Source:      "Recruit {0} heavy cavalry for 13140 gold before the siege begins.",
		Translation: "Recrutez {0} heavy cavalry pour 13 140 or  avant le début du siège.",
		Previous:    "Recrutez {0} cavalerie pour 13140 or avant le siège.",
		TargetLang:  "fr_FR",
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Review(ctx, u); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEngine_ReviewBatch(b *testing.B) {
	e := benchEngine(b, gotlqa.WithGlossary(benchGlossary(50)), gotlqa.WithWorkers(8))
	units := make([]gotlqa.Unit, 200)
	for i := range units {
		units[i] = gotlqa.Unit{
			ID:          fmt.Sprintf("u%d", i),
			Source:      fmt.Sprintf("Recruit %d heavy cavalry.", i),
			Translation: fmt.Sprintf("Recrutez %d cavalerie lourde.", i),
		}
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.ReviewBatch(ctx, units); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEngine_ReviewWithMemory(b *testing.B) {
	memory := make([]tm.Entry, 500)
	for i := range memory {
		memory[i] = tm.Entry{
			ID:     fmt.Sprintf("m%d", i),
			Source: fmt.Sprintf("Recruit %d units of heavy cavalry", i),
			Target: fmt.Sprintf("Recrutez %d unités de cavalerie lourde", i),
		}
	}
	e := benchEngine(b, gotlqa.WithMemory(memory), gotlqa.WithCache(cache.NewMemory(time.Hour)))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u := gotlqa.Unit{
			Source:      fmt.Sprintf("Recruit %d units of heavy cavalry", i%1000),
			Translation: "Recrutez des unités",
			TargetLang:  "fr_FR",
		}
		if _, err := e.Review(ctx, u); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEngine_ReviewHTML(b *testing.B) {
	e := benchEngine(b)
	src := `<html><body><h1>Patch notes</h1><p>Heavy cavalry costs 120 gold.</p><ul><li>Archers: +5 range</li><li>Walls repair faster</li></ul></body></html>`
	dst := `<html><body><h1>Notes de version</h1><p>La cavalerie lourde coûte 120 or.</p><ul><li>Archers : +5 de portée</li><li>Les murs se réparent plus vite</li></ul></body></html>`
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.ReviewHTML(ctx, src, dst, "fr_FR"); err != nil {
			b.Fatal(err)
		}
	}
}
