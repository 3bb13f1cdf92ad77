package validate

// Context carries optional per-call settings.
type Context struct {
	Category   string
	TargetLang string

	// LengthRatioLimit overrides DefaultLengthRatioLimit when positive.
	LengthRatioLimit float64

	// Disabled rules are skipped.
	Disabled []IssueType
}

func (c Context) lengthRatioLimit() float64 {
	if c.LengthRatioLimit > 0 {
		return c.LengthRatioLimit
	}
	return DefaultLengthRatioLimit
}

func (c Context) disabled(t IssueType) bool {
	for _, d := range c.Disabled {
		if d == t {
			return true
		}
	}
	return false
}

// Service runs an ordered set of rules. It holds no mutable state and is
// safe for concurrent use.
type Service struct {
	rules []Rule
}

// NewService returns a service running rules, or DefaultRules when none are
// given.
func NewService(rules ...Rule) *Service {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Service{rules: rules}
}

var defaultService = NewService()

// Validate checks translated against source with the default rules.
func Validate(source, translated string, c *Context) []Issue {
	return defaultService.Validate(source, translated, c)
}

// ApplyAllAutoFixes applies the fixes of issues with the default rules.
func ApplyAllAutoFixes(source, translated string, issues []Issue) string {
	return defaultService.ApplyAllAutoFixes(source, translated, issues)
}

// Validate runs every enabled rule and returns the issues in rule order.
func (s *Service) Validate(source, translated string, c *Context) []Issue {
	var ctx Context
	if c != nil {
		ctx = *c
	}

	var issues []Issue
	for _, r := range s.rules {
		if ctx.disabled(r.Type) {
			continue
		}
		if issue := r.Check(source, translated, ctx); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues
}

// ApplyAllAutoFixes applies the fixable issues in list order and returns the
// resulting text. Issues without a fix value are skipped. Each fix value
// replaces the whole translation, so once an earlier fix has changed the
// text the rule that raised the next issue is re-run on the current text
// and its fresh fix applied instead; if the rule no longer fires the issue
// is skipped.
func (s *Service) ApplyAllAutoFixes(source, translated string, issues []Issue) string {
	current := translated
	for _, issue := range issues {
		if _, ok := issue.Fix(); !ok {
			continue
		}
		if current != translated {
			fresh, ok := s.recheck(issue.Type, source, current)
			if !ok {
				continue
			}
			issue = fresh
		}
		if fixed, err := ApplyAutoFix(current, issue); err == nil {
			current = fixed
		}
	}
	return current
}

func (s *Service) recheck(t IssueType, source, translated string) (Issue, bool) {
	for _, r := range s.rules {
		if r.Type != t {
			continue
		}
		if issue := r.Check(source, translated, Context{}); issue != nil {
			return *issue, true
		}
		return Issue{}, false
	}
	return Issue{}, false
}
