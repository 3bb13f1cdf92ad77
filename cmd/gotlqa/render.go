package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ZaguanLabs/gotlqa"
	"github.com/ZaguanLabs/gotlqa/diff"
	"github.com/ZaguanLabs/gotlqa/glossary"
	"github.com/ZaguanLabs/gotlqa/validate"
)

// Color palette
var (
	colorAdded   = lipgloss.Color("#10B981") // Emerald
	colorRemoved = lipgloss.Color("#EF4444") // Red
	colorWarning = lipgloss.Color("#F59E0B") // Amber
	colorInfo    = lipgloss.Color("#06B6D4") // Cyan
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorAccent  = lipgloss.Color("#8B5CF6") // Violet
)

// styles renders terminal output. The renderer is bound to the output
// writer, so anything that is not a terminal gets plain text.
type styles struct {
	plain bool

	added   lipgloss.Style
	removed lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	info    lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
	term    lipgloss.Style
}

func newStyles(w io.Writer, plain bool) *styles {
	r := lipgloss.NewRenderer(w)
	return &styles{
		plain:   plain,
		added:   r.NewStyle().Foreground(colorAdded),
		removed: r.NewStyle().Foreground(colorRemoved).Strikethrough(true),
		err:     r.NewStyle().Foreground(colorRemoved).Bold(true),
		warn:    r.NewStyle().Foreground(colorWarning),
		info:    r.NewStyle().Foreground(colorInfo),
		muted:   r.NewStyle().Foreground(colorMuted),
		header:  r.NewStyle().Foreground(colorAccent).Bold(true),
		term:    r.NewStyle().Underline(true),
	}
}

func (s *styles) render(st lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return st.Render(text)
}

func (a *app) styles() *styles {
	if a.styleSet == nil {
		a.styleSet = newStyles(a.stdout, a.noColor)
	}
	return a.styleSet
}

// renderDiff prints segments inline. Removed runs are wrapped in [- -] and
// added runs in {+ +} so the output reads without color too.
func (s *styles) renderDiff(segs []diff.Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		switch seg.Op {
		case diff.Added:
			b.WriteString(s.render(s.added, "{+"+seg.Text+"+}"))
		case diff.Removed:
			b.WriteString(s.render(s.removed, "[-"+seg.Text+"-]"))
		default:
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

func (s *styles) renderDiffStats(st diff.Stats) string {
	return s.render(s.muted, fmt.Sprintf("+%d -%d chars, +%d -%d words",
		st.CharsAdded, st.CharsRemoved, st.WordsAdded, st.WordsRemoved))
}

func (s *styles) severity(sev validate.Severity) string {
	label := fmt.Sprintf("%-7s", sev)
	switch sev {
	case validate.SeverityError:
		return s.render(s.err, label)
	case validate.SeverityWarning:
		return s.render(s.warn, label)
	default:
		return s.render(s.info, label)
	}
}

func (s *styles) renderIssues(w io.Writer, issues []validate.Issue) {
	if len(issues) == 0 {
		fmt.Fprintln(w, s.render(s.added, "no issues"))
		return
	}
	for _, i := range issues {
		fix := ""
		if _, ok := i.Fix(); ok {
			fix = s.render(s.muted, " (fixable)")
		}
		fmt.Fprintf(w, "%s %s: %s%s\n", s.severity(i.Severity), i.Type, i.Description, fix)
	}
}

func (s *styles) renderMatches(w io.Writer, text string, matches []glossary.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(w, s.render(s.muted, "no glossary terms"))
		return
	}
	fmt.Fprintln(w, glossary.Highlight(text, matches))
	for _, m := range matches {
		fmt.Fprintf(w, "  %s -> %s %s\n",
			s.render(s.term, m.Text), m.Entry.TargetTerm,
			s.render(s.muted, fmt.Sprintf("[%d:%d]", m.Start, m.End)))
	}
}

func (s *styles) renderResult(w io.Writer, r *gotlqa.Result) {
	status := s.render(s.added, "ok")
	if r.NeedsReview {
		status = s.render(s.err, "needs review")
	}
	fmt.Fprintf(w, "%s %s\n", s.render(s.header, r.UnitID), status)

	for _, i := range r.Issues {
		fmt.Fprintf(w, "  %s %s: %s\n", s.severity(i.Severity), i.Type, i.Description)
	}
	if len(r.Matches) > 0 {
		fmt.Fprintf(w, "  glossary: %d matches, %.1f%% coverage\n",
			r.GlossaryStats.TotalMatches, r.GlossaryStats.CoveragePercent)
	}
	if r.Suggested != "" {
		fmt.Fprintf(w, "  suggested: %s\n", r.Suggested)
	}
	if r.Fixed != "" {
		fmt.Fprintf(w, "  fixed: %s\n", r.Fixed)
	}
	if r.DiffStats != nil {
		fmt.Fprintf(w, "  diff: %s\n", s.renderDiff(r.Diff))
	}
	if r.Memory != nil {
		score := fmt.Sprintf("%.2f", r.Memory.Score)
		if r.Memory.Cached {
			score = "cached"
		}
		fmt.Fprintf(w, "  memory: %s %s\n", r.Memory.Entry.Target, s.render(s.muted, "("+score+")"))
	}
}
