// Package diff computes merged, typed differences between two revisions of
// a text at character or word granularity.
package diff

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op tags a segment.
type Op string

const (
	Unchanged Op = "unchanged"
	Added     Op = "added"
	Removed   Op = "removed"
)

// Segment is a maximal run of text with a single Op.
type Segment struct {
	Text string `json:"text"`
	Op   Op     `json:"type"`
}

// Chars diffs oldText and newText character by character. Invalid UTF-8
// bytes are compared as single characters and kept as they are.
func Chars(oldText, newText string) []Segment {
	if segs, ok := trivial(oldText, newText); ok {
		return segs
	}
	return tokenDiff(splitChars(oldText), splitChars(newText))
}

// splitChars splits s into one substring per rune, an invalid byte counting
// as a rune of its own.
func splitChars(s string) []string {
	parts := make([]string, 0, len(s))
	for len(s) > 0 {
		_, size := utf8.DecodeRuneInString(s)
		parts = append(parts, s[:size])
		s = s[size:]
	}
	return parts
}

var reWordToken = regexp.MustCompile(`\s+|\S+`)

// Words diffs oldText and newText treating each word and each whitespace run
// as one unit, so a changed word is reported whole.
func Words(oldText, newText string) []Segment {
	if segs, ok := trivial(oldText, newText); ok {
		return segs
	}

	return tokenDiff(reWordToken.FindAllString(oldText, -1), reWordToken.FindAllString(newText, -1))
}

// tokenDiff diffs two token sequences. Each distinct token maps to one rune
// so the character diff runs over tokens, as diff-match-patch does for
// lines, and the original bytes of every token are restored afterwards.
func tokenDiff(oldTokens, newTokens []string) []Segment {
	var tokens []string
	index := make(map[string]rune)
	encode := func(parts []string) []rune {
		out := make([]rune, len(parts))
		for i, p := range parts {
			r, ok := index[p]
			if !ok {
				r = tokenRune(len(tokens))
				index[p] = r
				tokens = append(tokens, p)
			}
			out[i] = r
		}
		return out
	}

	a, b := encode(oldTokens), encode(newTokens)
	diffs := newMatcher().DiffMainRunes(a, b, false)
	return Merge(fromDiffs(diffs, tokens))
}

// tokenRune returns the rune standing for token i, stepping over the
// surrogate block, which cannot be carried in a Go string.
func tokenRune(i int) rune {
	r := rune(i + 1)
	if r >= 0xD800 {
		r += 0x800
	}
	return r
}

func tokenIndex(r rune) int {
	if r >= 0xE000 {
		r -= 0x800
	}
	return int(r) - 1
}

func newMatcher() *diffmatchpatch.DiffMatchPatch {
	dmp := diffmatchpatch.New()
	// No deadline: the result must depend only on the input.
	dmp.DiffTimeout = 0
	return dmp
}

// trivial handles identical and empty inputs without running the diff.
func trivial(oldText, newText string) ([]Segment, bool) {
	switch {
	case oldText == newText:
		return []Segment{{Text: oldText, Op: Unchanged}}, true
	case oldText == "":
		return []Segment{{Text: newText, Op: Added}}, true
	case newText == "":
		return []Segment{{Text: oldText, Op: Removed}}, true
	}
	return nil, false
}

// fromDiffs converts diff-match-patch output to segments. With tokens set,
// each rune of a diff is decoded back to its token.
func fromDiffs(diffs []diffmatchpatch.Diff, tokens []string) []Segment {
	segs := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		text := d.Text
		if tokens != nil {
			var b strings.Builder
			for _, r := range d.Text {
				b.WriteString(tokens[tokenIndex(r)])
			}
			text = b.String()
		}

		var op Op
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = Added
		case diffmatchpatch.DiffDelete:
			op = Removed
		default:
			op = Unchanged
		}
		segs = append(segs, Segment{Text: text, Op: op})
	}
	return segs
}

// Merge joins adjacent segments of the same type and drops empty ones. A
// result with no segments left keeps a single empty unchanged segment.
func Merge(segs []Segment) []Segment {
	merged := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if s.Text == "" {
			continue
		}
		if n := len(merged); n > 0 && merged[n-1].Op == s.Op {
			merged[n-1].Text += s.Text
			continue
		}
		merged = append(merged, s)
	}
	if len(merged) == 0 {
		return []Segment{{Op: Unchanged}}
	}
	return merged
}

// Texts rebuilds both revisions from segments: unchanged and removed text
// form the old revision, unchanged and added text the new one.
func Texts(segs []Segment) (oldText, newText string) {
	var o, n strings.Builder
	for _, s := range segs {
		switch s.Op {
		case Unchanged:
			o.WriteString(s.Text)
			n.WriteString(s.Text)
		case Removed:
			o.WriteString(s.Text)
		case Added:
			n.WriteString(s.Text)
		}
	}
	return o.String(), n.String()
}

// Stats aggregates the changes in a diff.
type Stats struct {
	CharsAdded   int `json:"chars_added"`
	CharsRemoved int `json:"chars_removed"`
	CharsChanged int `json:"chars_changed"`
	WordsAdded   int `json:"words_added"`
	WordsRemoved int `json:"words_removed"`
}

// StatsFromSegments counts the characters and whitespace-separated words of
// the added and removed segments.
func StatsFromSegments(segs []Segment) Stats {
	var st Stats
	for _, s := range segs {
		switch s.Op {
		case Added:
			st.CharsAdded += utf8.RuneCountInString(s.Text)
			st.WordsAdded += len(strings.Fields(s.Text))
		case Removed:
			st.CharsRemoved += utf8.RuneCountInString(s.Text)
			st.WordsRemoved += len(strings.Fields(s.Text))
		}
	}
	st.CharsChanged = st.CharsAdded + st.CharsRemoved
	return st
}

// HasChanges reports whether any segment was added or removed.
func HasChanges(segs []Segment) bool {
	for _, s := range segs {
		if s.Op != Unchanged {
			return true
		}
	}
	return false
}
