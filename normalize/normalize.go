// Package normalize canonicalizes source and target strings so they can be
// compared: markup is stripped, typographic punctuation is mapped to ASCII,
// case is folded and whitespace is collapsed.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/ZaguanLabs/gotlqa/markup"
)

// Options selects the normalization stages. The zero value only collapses
// whitespace.
type Options struct {
	RemoveMarkup         bool
	Lowercase            bool
	NormalizePunctuation bool
	RemoveNumbers        bool
}

// DefaultOptions enables every stage except number removal.
func DefaultOptions() Options {
	return Options{
		RemoveMarkup:         true,
		Lowercase:            true,
		NormalizePunctuation: true,
	}
}

// StrictOptions enables every stage.
func StrictOptions() Options {
	return Options{
		RemoveMarkup:         true,
		Lowercase:            true,
		NormalizePunctuation: true,
		RemoveNumbers:        true,
	}
}

// LenientOptions only removes markup.
func LenientOptions() Options {
	return Options{RemoveMarkup: true}
}

var (
	punctuationReplacer = strings.NewReplacer(
		"\u201C", `"`, // left double quote
		"\u201D", `"`, // right double quote
		"\u201E", `"`, // low double quote
		"\u2018", "'", // left single quote
		"\u2019", "'", // right single quote
		"\u201A", "'", // low single quote
		"\u2013", "-", // en dash
		"\u2014", "-", // em dash
		"\u2026", "...",
	)

	reRepeatedBang     = regexp.MustCompile(`!{2,}`)
	reRepeatedQuestion = regexp.MustCompile(`\?{2,}`)
)

// Normalize applies the stages selected by opts to text in a fixed order:
// markup, punctuation, numbers, case, whitespace. Text is NFC composed
// first, and whitespace is always collapsed to single spaces and trimmed.
//
// Composition and case folding can turn non-ASCII input into markup
// ("<İ>" lowercases to "<i̇>"), so the pipeline repeats until its output
// no longer changes and Normalize(Normalize(t, o), o) == Normalize(t, o).
func Normalize(text string, opts Options) string {
	for {
		next := normalizeOnce(text, opts)
		if next == text {
			return next
		}
		text = next
	}
}

func normalizeOnce(text string, opts Options) string {
	if text == "" {
		return ""
	}

	text = norm.NFC.String(text)
	if opts.RemoveMarkup {
		text = markup.Strip(text)
	}
	if opts.NormalizePunctuation {
		text = normalizePunctuation(text)
	}
	if opts.RemoveNumbers {
		text = removeNumbers(text)
	}
	if opts.Lowercase {
		text = Lower(text)
	}

	return collapseWhitespace(norm.NFC.String(text))
}

// Lower folds text to lower case using Unicode rules. A Caser carries state,
// so one is built per call.
func Lower(text string) string {
	return cases.Lower(language.Und).String(text)
}

func normalizePunctuation(text string) string {
	text = punctuationReplacer.Replace(text)
	text = reRepeatedBang.ReplaceAllString(text, "!")
	text = reRepeatedQuestion.ReplaceAllString(text, "?")
	return text
}

func removeNumbers(text string) string {
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, f := range fields {
		if !isNumeric(f) {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

func isNumeric(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Tokenize normalizes text with DefaultOptions and returns the distinct
// whitespace-separated tokens. Empty text yields an empty set.
func Tokenize(text string) map[string]struct{} {
	fields := strings.Fields(Normalize(text, DefaultOptions()))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// NGrams returns the distinct character n-grams of text. Text shorter than n
// characters, including the empty string, yields a set holding text itself.
// n below 1 is treated as 1.
func NGrams(text string, n int) map[string]struct{} {
	if n < 1 {
		n = 1
	}
	if utf8.RuneCountInString(text) < n {
		return map[string]struct{}{text: {}}
	}

	runes := []rune(text)
	set := make(map[string]struct{}, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		set[string(runes[i:i+n])] = struct{}{}
	}
	return set
}
