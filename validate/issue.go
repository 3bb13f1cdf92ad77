// Package validate detects translation defects in a source/translation pair
// and computes automatic fixes where one can be derived.
package validate

import (
	"errors"
	"fmt"
)

// IssueType names the rule that produced an issue.
type IssueType string

const (
	EmptyTranslation    IssueType = "empty_translation"
	LengthDifference    IssueType = "length_difference"
	MissingVariables    IssueType = "missing_variables"
	WhitespaceIssue     IssueType = "whitespace_issue"
	PunctuationMismatch IssueType = "punctuation_mismatch"
	CaseMismatch        IssueType = "case_mismatch"
	MissingNumbers      IssueType = "missing_numbers"
	ModifiedNumbers     IssueType = "modified_numbers"
	MarkupMismatch      IssueType = "markup_mismatch"
)

// Severity ranks an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a defect found in a translation. AutoFixValue, when set, is the
// complete corrected translation.
type Issue struct {
	Type         IssueType `json:"type"`
	Severity     Severity  `json:"severity"`
	Description  string    `json:"description"`
	AutoFixable  bool      `json:"auto_fixable"`
	AutoFixValue *string   `json:"auto_fix_value,omitempty"`
}

// Fix returns the auto-fix value and whether one can be applied.
func (i Issue) Fix() (string, bool) {
	if !i.AutoFixable || i.AutoFixValue == nil {
		return "", false
	}
	return *i.AutoFixValue, true
}

// ErrNotAutoFixable is returned when a fix is requested for an issue that
// has none.
var ErrNotAutoFixable = errors.New("issue is not auto-fixable")

// AutoFixError describes a rejected fix request. It matches
// ErrNotAutoFixable with errors.Is.
type AutoFixError struct {
	Type   IssueType
	Reason string
}

func (e *AutoFixError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrNotAutoFixable, e.Type, e.Reason)
}

func (e *AutoFixError) Is(target error) bool {
	return target == ErrNotAutoFixable
}

// ApplyAutoFix returns the issue's fix value. It fails with an error
// matching ErrNotAutoFixable when the issue is not fixable or carries no
// value.
func ApplyAutoFix(translated string, issue Issue) (string, error) {
	if !issue.AutoFixable {
		return translated, &AutoFixError{Type: issue.Type, Reason: "not auto-fixable"}
	}
	if issue.AutoFixValue == nil {
		return translated, &AutoFixError{Type: issue.Type, Reason: "requires a manual edit"}
	}
	return *issue.AutoFixValue, nil
}

// HasBlocking reports whether any issue is an error or a warning.
func HasBlocking(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError || i.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

func stringPtr(s string) *string {
	return &s
}
