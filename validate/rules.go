package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ZaguanLabs/gotlqa/markup"
)

// DefaultLengthRatioLimit is the relative growth, (len(translation) -
// len(source)) / len(source), above which a translation is flagged as too
// long. 1.0 means more than double the source length.
const DefaultLengthRatioLimit = 1.0

// Rule checks one property of a translation and reports at most one issue.
type Rule struct {
	Type  IssueType
	Check func(source, translated string, c Context) *Issue
}

// DefaultRules returns the built-in rules in the order their issues are
// reported.
func DefaultRules() []Rule {
	return []Rule{
		{EmptyTranslation, checkEmpty},
		{LengthDifference, checkLength},
		{MissingVariables, checkPlaceholders},
		{WhitespaceIssue, checkWhitespace},
		{PunctuationMismatch, checkPunctuation},
		{CaseMismatch, checkCase},
		{MissingNumbers, checkMissingNumbers},
		{ModifiedNumbers, checkModifiedNumbers},
		{MarkupMismatch, checkMarkup},
	}
}

func checkEmpty(source, translated string, _ Context) *Issue {
	if strings.TrimSpace(translated) != "" || strings.TrimSpace(source) == "" {
		return nil
	}
	return &Issue{
		Type:        EmptyTranslation,
		Severity:    SeverityError,
		Description: "Translation is empty",
	}
}

func checkLength(source, translated string, c Context) *Issue {
	ls := utf8.RuneCountInString(source)
	if ls == 0 {
		return nil
	}
	lt := utf8.RuneCountInString(translated)

	growth := float64(lt-ls) / float64(ls)
	if growth <= c.lengthRatioLimit() {
		return nil
	}
	return &Issue{
		Type:     LengthDifference,
		Severity: SeverityWarning,
		Description: fmt.Sprintf("Translation is %.0f%% longer than the source (%d vs %d characters)",
			growth*100, lt, ls),
	}
}

// {0}, ${name}, [%s] and printf verbs such as %s, %d, %1$s or %.2f.
var rePlaceholder = regexp.MustCompile(`\[%[A-Za-z]\]|\$\{[^{}\s]+\}|\{\d+\}|%(?:\d+\$)?[-+#0]?\d*(?:\.\d+)?[sdfi]`)

// placeholders returns the distinct placeholders of text in order of first
// appearance. A printf verb directly followed by a letter is prose
// ("50%save"), not a placeholder.
func placeholders(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, loc := range rePlaceholder.FindAllStringIndex(text, -1) {
		ph := text[loc[0]:loc[1]]
		if ph[0] == '%' && loc[1] < len(text) {
			if r, _ := utf8.DecodeRuneInString(text[loc[1]:]); unicode.IsLetter(r) {
				continue
			}
		}
		if !seen[ph] {
			seen[ph] = true
			out = append(out, ph)
		}
	}
	return out
}

func stripPlaceholders(text string) string {
	return rePlaceholder.ReplaceAllString(text, " ")
}

func checkPlaceholders(source, translated string, _ Context) *Issue {
	var missing []string
	for _, ph := range placeholders(source) {
		if !strings.Contains(translated, ph) {
			missing = append(missing, ph)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &Issue{
		Type:        MissingVariables,
		Severity:    SeverityError,
		Description: "Missing placeholders: " + strings.Join(missing, ", "),
		AutoFixable: true,
	}
}

var reMultiSpace = regexp.MustCompile(` {2,}`)

func splitSpace(s string) (lead, core, trail string) {
	core = strings.TrimLeftFunc(s, unicode.IsSpace)
	lead = s[:len(s)-len(core)]
	trimmed := strings.TrimRightFunc(core, unicode.IsSpace)
	trail = core[len(trimmed):]
	return lead, trimmed, trail
}

// checkWhitespace compares the whitespace around the text, so a blank
// translation, which has no text, is left to checkEmpty.
func checkWhitespace(source, translated string, _ Context) *Issue {
	srcLead, _, srcTrail := splitSpace(source)
	lead, core, trail := splitSpace(translated)
	if core == "" {
		return nil
	}

	var problems []string
	if (srcLead == "") != (lead == "") {
		problems = append(problems, "leading whitespace differs from source")
		lead = srcLead
	}
	if (srcTrail == "") != (trail == "") {
		problems = append(problems, "trailing whitespace differs from source")
		trail = srcTrail
	}
	if reMultiSpace.MatchString(core) {
		problems = append(problems, "contains doubled spaces")
		core = reMultiSpace.ReplaceAllString(core, " ")
	}
	if len(problems) == 0 {
		return nil
	}

	return &Issue{
		Type:         WhitespaceIssue,
		Severity:     SeverityWarning,
		Description:  "Translation " + strings.Join(problems, ", "),
		AutoFixable:  true,
		AutoFixValue: stringPtr(lead + core + trail),
	}
}

// terminalClass returns '.', '!', '?' or 0 for the sentence-final
// punctuation of s, looking past trailing quotes and brackets. Full-width
// and ellipsis forms count as their ASCII class.
func terminalClass(s string) rune {
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(`"')]»”’」』`, r)
	})
	r, _ := utf8.DecodeLastRuneInString(s)
	switch r {
	case '.', '…', '。', '．':
		return '.'
	case '!', '！':
		return '!'
	case '?', '？':
		return '?'
	}
	return 0
}

func describeClass(r rune) string {
	if r == 0 {
		return "no punctuation"
	}
	return fmt.Sprintf("%q", r)
}

func checkPunctuation(source, translated string, _ Context) *Issue {
	src, dst := terminalClass(source), terminalClass(translated)
	if src == dst {
		return nil
	}
	return &Issue{
		Type:     PunctuationMismatch,
		Severity: SeverityInfo,
		Description: fmt.Sprintf("Source ends with %s but translation ends with %s",
			describeClass(src), describeClass(dst)),
	}
}

// firstLetter returns the first letter of the visible text, ignoring markup
// and placeholders.
func firstLetter(s string) (rune, bool) {
	for _, r := range markup.Strip(stripPlaceholders(s)) {
		if unicode.IsLetter(r) {
			return r, true
		}
	}
	return 0, false
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

func checkCase(source, translated string, _ Context) *Issue {
	a, okA := firstLetter(source)
	b, okB := firstLetter(translated)
	// Scripts without case (CJK, Arabic, ...) have nothing to compare.
	if !okA || !okB || !isCased(a) || !isCased(b) {
		return nil
	}

	upperA := unicode.IsUpper(a) || unicode.IsTitle(a)
	upperB := unicode.IsUpper(b) || unicode.IsTitle(b)
	if upperA == upperB {
		return nil
	}

	caseName := func(upper bool) string {
		if upper {
			return "uppercase"
		}
		return "lowercase"
	}
	return &Issue{
		Type:     CaseMismatch,
		Severity: SeverityInfo,
		Description: fmt.Sprintf("Source starts with an %s letter but translation starts with a %s letter",
			caseName(upperA), caseName(upperB)),
	}
}

var (
	reNumber = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

	// A digit run with grouping separators: 13 140, 13.140, 13'140.
	reGroupedNumber = regexp.MustCompile(`\d+(?:[ \x{00A0}\x{202F},.'’]\d+)*`)
)

func numbers(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, n := range reNumber.FindAllString(stripPlaceholders(text), -1) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// regrouped maps each separator-grouped number of translated to the plain
// source number it spells, for source numbers that are plain digit runs
// absent verbatim from the translation.
func regrouped(source, translated string) map[string]string {
	var plain []string
	for _, n := range numbers(source) {
		if !strings.Contains(translated, n) && digitsOnly(n) == n {
			plain = append(plain, n)
		}
	}
	if len(plain) == 0 {
		return nil
	}

	found := make(map[string]string)
	for _, g := range reGroupedNumber.FindAllString(stripPlaceholders(translated), -1) {
		d := digitsOnly(g)
		if g == d || !strings.Contains(translated, g) {
			continue
		}
		for _, n := range plain {
			if d == n {
				found[g] = n
			}
		}
	}
	return found
}

func checkMissingNumbers(source, translated string, _ Context) *Issue {
	modified := make(map[string]bool)
	for _, n := range regrouped(source, translated) {
		modified[n] = true
	}

	var missing []string
	for _, n := range numbers(source) {
		if !strings.Contains(translated, n) && !modified[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &Issue{
		Type:        MissingNumbers,
		Severity:    SeverityWarning,
		Description: "Numbers missing from translation: " + strings.Join(missing, ", "),
	}
}

func checkModifiedNumbers(source, translated string, _ Context) *Issue {
	found := regrouped(source, translated)
	if len(found) == 0 {
		return nil
	}

	grouped := make([]string, 0, len(found))
	for g := range found {
		grouped = append(grouped, g)
	}
	sort.Strings(grouped)

	// Only whole grouped tokens are replaced; "41 000" stays when the source
	// number was 1000.
	fixed := reGroupedNumber.ReplaceAllStringFunc(translated, func(tok string) string {
		if plain, ok := found[tok]; ok {
			return plain
		}
		return tok
	})

	pairs := make([]string, 0, len(grouped))
	for _, g := range grouped {
		pairs = append(pairs, fmt.Sprintf("%q should be %q", g, found[g]))
	}

	return &Issue{
		Type:         ModifiedNumbers,
		Severity:     SeverityError,
		Description:  "Numbers were reformatted: " + strings.Join(pairs, ", "),
		AutoFixable:  true,
		AutoFixValue: stringPtr(fixed),
	}
}

func checkMarkup(source, translated string, _ Context) *Issue {
	src, dst := markup.TagSignature(source), markup.TagSignature(translated)
	if markup.SameTags(source, translated) {
		return nil
	}
	return &Issue{
		Type:     MarkupMismatch,
		Severity: SeverityWarning,
		Description: fmt.Sprintf("Markup differs: source has [%s], translation has [%s]",
			strings.Join(src, " "), strings.Join(dst, " ")),
	}
}
