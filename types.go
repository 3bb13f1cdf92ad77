package gotlqa

import (
	"github.com/ZaguanLabs/gotlqa/diff"
	"github.com/ZaguanLabs/gotlqa/glossary"
	"github.com/ZaguanLabs/gotlqa/tm"
	"github.com/ZaguanLabs/gotlqa/validate"
)

// Unit is one source string and its translation.
type Unit struct {
	ID          string `json:"id,omitempty"`          // assigned when empty
	Source      string `json:"source"`                // source text
	Translation string `json:"translation"`           // text under review
	Previous    string `json:"previous,omitempty"`    // earlier revision to diff against
	TargetLang  string `json:"target_lang,omitempty"` // e.g. "fr_FR"
	Category    string `json:"category,omitempty"`    // context for memory lookups
	GlossaryID  string `json:"glossary_id,omitempty"` // restricts glossary entries
}

// Result is the review of a Unit.
type Result struct {
	UnitID        string           `json:"unit_id"`
	Matches       []glossary.Match `json:"matches,omitempty"`
	GlossaryStats glossary.Stats   `json:"glossary_stats"`

	// Suggested is the translation with untranslated glossary terms
	// substituted; empty when nothing changed.
	Suggested string `json:"suggested,omitempty"`

	Issues []validate.Issue `json:"issues,omitempty"`

	// Fixed is the translation with every applicable auto-fix applied;
	// empty when nothing changed.
	Fixed string `json:"fixed,omitempty"`

	Diff      []diff.Segment `json:"diff,omitempty"`
	DiffStats *diff.Stats    `json:"diff_stats,omitempty"`

	Memory *tm.Suggestion `json:"memory,omitempty"`

	Direction   string `json:"direction"`
	NeedsReview bool   `json:"needs_review"`
}
