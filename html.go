package gotlqa

import (
	"context"
	"fmt"

	"github.com/ZaguanLabs/gotlqa/markup"
)

// ReviewHTML pairs the text nodes of a source document and its translation
// by position and reviews each pair. Script, style, code and similar
// elements are skipped. Text nodes carry their enclosing element path as
// the unit category. Documents with different text-node counts fail with a
// *CountMismatchError.
func (e *Engine) ReviewHTML(ctx context.Context, sourceHTML, translatedHTML, targetLang string) ([]*Result, error) {
	pairs, srcCount, dstCount, err := markup.PairText(sourceHTML, translatedHTML)
	if err != nil {
		return nil, &ProcessorError{Message: "extracting text nodes", Cause: err, ContentType: "html"}
	}
	if srcCount != dstCount {
		return nil, &CountMismatchError{Expected: srcCount, Got: dstCount}
	}

	units := make([]Unit, len(pairs))
	for i, p := range pairs {
		units[i] = Unit{
			ID:          fmt.Sprintf("node-%d", p.Source.Index),
			Source:      p.Source.Text,
			Translation: p.Translation.Text,
			TargetLang:  targetLang,
			Category:    p.Source.Path,
		}
	}
	return e.ReviewBatch(ctx, units)
}
