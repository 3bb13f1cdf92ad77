// Package glossary finds glossary terms in source text, substitutes their
// preferred translations and reports how much of a text the terms cover.
package glossary

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Entry is a source to target vocabulary mapping. Entries are owned by the
// glossary store; the matcher only reads them.
type Entry struct {
	ID                 string `json:"id"`
	GlossaryID         string `json:"glossary_id"`
	SourceTerm         string `json:"source_term"`
	TargetTerm         string `json:"target_term"`
	TargetLanguageCode string `json:"target_language_code"`
	CaseSensitive      bool   `json:"case_sensitive"`
}

// Match is an occurrence of an entry's source term. Start and End are byte
// offsets into the scanned text, End exclusive.
type Match struct {
	Entry Entry  `json:"entry"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Len returns the match length in characters.
func (m Match) Len() int {
	return utf8.RuneCountInString(m.Text)
}

// FindMatches returns the non-overlapping occurrences of the entries' source
// terms in text, ordered by start offset. With wholeWordOnly a candidate
// must not be preceded or followed by a letter or digit.
//
// Overlaps resolve longest first, earlier start breaking ties, so
// "heavy cavalry" wins over "heavy" and "cavalry" in the same span.
func FindMatches(text string, entries []Entry, wholeWordOnly bool) []Match {
	if text == "" || len(entries) == 0 {
		return nil
	}

	var candidates []Match
	for _, entry := range entries {
		if entry.SourceTerm == "" {
			continue
		}
		for _, span := range findAll(text, entry.SourceTerm, entry.CaseSensitive) {
			if wholeWordOnly && !atWordBoundary(text, span[0], span[1]) {
				continue
			}
			candidates = append(candidates, Match{
				Entry: entry,
				Start: span[0],
				End:   span[1],
				Text:  text[span[0]:span[1]],
			})
		}
	}

	return resolveOverlaps(candidates)
}

// resolveOverlaps keeps the longest candidates that do not intersect an
// already kept one.
func resolveOverlaps(candidates []Match) []Match {
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		li, lj := candidates[i].Len(), candidates[j].Len()
		if li != lj {
			return li > lj
		}
		return candidates[i].Start < candidates[j].Start
	})

	var kept []Match
	for _, c := range candidates {
		overlaps := false
		for _, k := range kept {
			if c.Start < k.End && k.Start < c.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].Start < kept[j].Start
	})
	return kept
}

// findAll returns the [start, end) byte spans of every occurrence of term in
// text, overlapping occurrences included.
func findAll(text, term string, caseSensitive bool) [][2]int {
	var spans [][2]int
	for offset := 0; offset < len(text); {
		start, end := index(text[offset:], term, caseSensitive)
		if start < 0 {
			break
		}
		spans = append(spans, [2]int{offset + start, offset + end})

		_, size := utf8.DecodeRuneInString(text[offset+start:])
		offset += start + size
	}
	return spans
}

// index returns the byte span of the first occurrence of term in s, or
// -1, -1. Case-insensitive search compares rune by rune with simple case
// folding so spans stay valid in s even when cases differ in byte length.
func index(s, term string, caseSensitive bool) (int, int) {
	if caseSensitive {
		i := strings.Index(s, term)
		if i < 0 {
			return -1, -1
		}
		return i, i + len(term)
	}

	termLen := utf8.RuneCountInString(term)
	for i := 0; i < len(s); {
		if end, ok := prefixFold(s[i:], term, termLen); ok {
			return i, i + end
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, -1
}

// prefixFold reports whether s starts with termLen runes equal to term under
// case folding, returning the byte length of that prefix.
func prefixFold(s, term string, termLen int) (int, bool) {
	end := 0
	for n := 0; n < termLen; n++ {
		if end >= len(s) {
			return 0, false
		}
		_, size := utf8.DecodeRuneInString(s[end:])
		end += size
	}
	return end, strings.EqualFold(s[:end], term)
}

func atWordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ApplySubstitutions replaces, for each match, the first occurrence of the
// matched source text in target with the entry's target term. The search is
// case-insensitive unless the entry is case-sensitive. Matches are located
// by searching target, not by source offsets, since the two texts diverge.
// Matched text absent from target is left alone.
func ApplySubstitutions(target string, matches []Match) string {
	for _, m := range matches {
		start, end := index(target, m.Text, m.Entry.CaseSensitive)
		if start < 0 {
			continue
		}
		target = target[:start] + m.Entry.TargetTerm + target[end:]
	}
	return target
}

// Highlight wraps each match in text with "**".
func Highlight(text string, matches []Match) string {
	return HighlightMatches(text, matches, "**", "**")
}

// HighlightMatches wraps each matched span of text in prefix and suffix.
// Matches are applied back to front so earlier offsets stay valid; matches
// outside text are skipped.
func HighlightMatches(text string, matches []Match, prefix, suffix string) string {
	ordered := make([]Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start > ordered[j].Start
	})

	for _, m := range ordered {
		if m.Start < 0 || m.End > len(text) || m.Start > m.End {
			continue
		}
		text = text[:m.Start] + prefix + text[m.Start:m.End] + suffix + text[m.End:]
	}
	return text
}

// Stats summarizes the matches found in a text.
type Stats struct {
	TotalMatches    int     `json:"total_matches"`
	UniqueTerms     int     `json:"unique_terms"`
	CoveragePercent float64 `json:"coverage_percent"`
}

// Statistics counts matches and distinct entries and computes the share of
// text characters covered by matches, in percent. Empty text has 0 coverage.
func Statistics(text string, matches []Match) Stats {
	stats := Stats{TotalMatches: len(matches)}

	seen := make(map[string]struct{}, len(matches))
	covered := 0
	for _, m := range matches {
		seen[m.Entry.ID] = struct{}{}
		covered += m.Len()
	}
	stats.UniqueTerms = len(seen)

	if total := utf8.RuneCountInString(text); total > 0 {
		stats.CoveragePercent = 100 * float64(covered) / float64(total)
	}
	return stats
}

// EntryIDs returns the distinct entry ids of matches in match order.
func EntryIDs(matches []Match) []string {
	seen := make(map[string]bool, len(matches))
	var ids []string
	for _, m := range matches {
		if m.Entry.ID == "" || seen[m.Entry.ID] {
			continue
		}
		seen[m.Entry.ID] = true
		ids = append(ids, m.Entry.ID)
	}
	return ids
}

// FilterEntries returns the entries of glossaryID targeting targetLang.
// Languages compare by base code, so "es_ES" selects entries for "es" and
// "es-MX". Empty filters match everything.
func FilterEntries(entries []Entry, glossaryID, targetLang string) []Entry {
	want := baseLang(targetLang)

	var out []Entry
	for _, e := range entries {
		if glossaryID != "" && e.GlossaryID != glossaryID {
			continue
		}
		if want != "" && e.TargetLanguageCode != "" && baseLang(e.TargetLanguageCode) != want {
			continue
		}
		out = append(out, e)
	}
	return out
}

func baseLang(code string) string {
	if i := strings.IndexAny(code, "_-"); i >= 0 {
		code = code[:i]
	}
	return strings.ToLower(code)
}
