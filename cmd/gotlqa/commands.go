package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gotlqa"
	"github.com/ZaguanLabs/gotlqa/diff"
	"github.com/ZaguanLabs/gotlqa/glossary"
	"github.com/ZaguanLabs/gotlqa/normalize"
	"github.com/ZaguanLabs/gotlqa/similarity"
	"github.com/ZaguanLabs/gotlqa/tm"
	"github.com/ZaguanLabs/gotlqa/validate"
)

// errNeedsReview is returned by review --strict when any unit has a blocking
// issue.
var errNeedsReview = errors.New("translations need review")

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (a *app) normalizeCmd() *cobra.Command {
	var (
		preset string
		ngram  int
	)
	cmd := &cobra.Command{
		Use:   "normalize TEXT",
		Short: "Canonicalize a string for comparison",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args[0])
			if err != nil {
				return err
			}

			var opts normalize.Options
			switch preset {
			case "default":
				opts = normalize.DefaultOptions()
			case "strict":
				opts = normalize.StrictOptions()
			case "lenient":
				opts = normalize.LenientOptions()
			default:
				return fmt.Errorf("unknown preset %q (want default, strict or lenient)", preset)
			}

			out := struct {
				Normalized string   `json:"normalized"`
				Tokens     []string `json:"tokens"`
				NGrams     []string `json:"ngrams,omitempty"`
			}{
				Normalized: normalize.Normalize(text, opts),
				Tokens:     sortedKeys(normalize.Tokenize(text)),
			}
			if ngram > 0 {
				out.NGrams = sortedKeys(normalize.NGrams(out.Normalized, ngram))
			}

			if a.jsonOut {
				return a.writeJSON(out)
			}
			fmt.Fprintln(a.stdout, out.Normalized)
			if len(out.NGrams) > 0 {
				fmt.Fprintln(a.stdout, a.styles().render(a.styles().muted, strings.Join(out.NGrams, " | ")))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "default", "default, strict or lenient")
	cmd.Flags().IntVar(&ngram, "ngram", 0, "also print character n-grams of this size")
	return cmd
}

func (a *app) similarityCmd() *cobra.Command {
	var (
		category1, category2 string
		ngram                int
	)
	cmd := &cobra.Command{
		Use:   "similarity TEXT1 TEXT2",
		Short: "Score how alike two strings are",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t1, err := readText(cmd, args[0])
			if err != nil {
				return err
			}
			t2, err := readText(cmd, args[1])
			if err != nil {
				return err
			}

			calc := a.cfg.Calculator()
			b := calc.Calculate(t1, t2, category1, category2)
			out := struct {
				Score     float64              `json:"score"`
				Similar   bool                 `json:"similar"`
				Threshold float64              `json:"threshold"`
				Breakdown similarity.Breakdown `json:"breakdown"`
				NGram     *float64             `json:"ngram,omitempty"`
			}{
				Score:     b.Combined(),
				Similar:   calc.AreSimilar(t1, t2, category1, category2),
				Threshold: calc.Threshold(),
				Breakdown: b,
			}
			if ngram > 0 {
				n := similarity.NGram(t1, t2, ngram)
				out.NGram = &n
			}

			if a.jsonOut {
				return a.writeJSON(out)
			}
			s := a.styles()
			verdict := s.render(s.warn, "not similar")
			if out.Similar {
				verdict = s.render(s.added, "similar")
			}
			fmt.Fprintf(a.stdout, "%.4f %s (threshold %.2f)\n", out.Score, verdict, out.Threshold)
			fmt.Fprintf(a.stdout, "  levenshtein   %.4f\n", b.Levenshtein)
			fmt.Fprintf(a.stdout, "  jaro_winkler  %.4f\n", b.JaroWinkler)
			fmt.Fprintf(a.stdout, "  token         %.4f\n", b.Token)
			if b.ContextBoost > 0 {
				fmt.Fprintf(a.stdout, "  context_boost %.4f\n", b.ContextBoost)
			}
			if out.NGram != nil {
				fmt.Fprintf(a.stdout, "  ngram(%d)      %.4f\n", ngram, *out.NGram)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category1, "category1", "", "category of TEXT1")
	cmd.Flags().StringVar(&category2, "category2", "", "category of TEXT2")
	cmd.Flags().IntVar(&ngram, "ngram", 0, "also report character n-gram similarity of this size")
	return cmd
}

func (a *app) loadGlossary(cmd *cobra.Command, path string) ([]glossary.Entry, error) {
	if path == "" {
		return nil, nil
	}
	var entries []glossary.Entry
	if err := readJSON(cmd, path, &entries); err != nil {
		return nil, err
	}
	a.logger.Debug().Int("entries", len(entries)).Str("file", path).Msg("glossary loaded")
	return entries, nil
}

func (a *app) loadMemory(cmd *cobra.Command, path string) ([]tm.Entry, error) {
	if path == "" {
		return nil, nil
	}
	var entries []tm.Entry
	if err := readJSON(cmd, path, &entries); err != nil {
		return nil, err
	}
	a.logger.Debug().Int("entries", len(entries)).Str("file", path).Msg("memory loaded")
	return entries, nil
}

func (a *app) matchCmd() *cobra.Command {
	var (
		glossaryFile string
		glossaryID   string
		lang         string
		partial      bool
		translation  string
	)
	cmd := &cobra.Command{
		Use:   "match TEXT",
		Short: "Find glossary terms in a string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if glossaryFile == "" {
				return errors.New("--glossary is required")
			}
			text, err := readText(cmd, args[0])
			if err != nil {
				return err
			}
			entries, err := a.loadGlossary(cmd, glossaryFile)
			if err != nil {
				return err
			}

			wholeWord := a.cfg.WholeWordOnly && !partial
			matches := glossary.FindMatches(text, glossary.FilterEntries(entries, glossaryID, lang), wholeWord)
			out := struct {
				Matches     []glossary.Match `json:"matches"`
				Stats       glossary.Stats   `json:"stats"`
				Highlighted string           `json:"highlighted"`
				Substituted string           `json:"substituted,omitempty"`
			}{
				Matches:     matches,
				Stats:       glossary.Statistics(text, matches),
				Highlighted: glossary.Highlight(text, matches),
			}
			if out.Matches == nil {
				out.Matches = []glossary.Match{}
			}
			if translation != "" {
				out.Substituted = glossary.ApplySubstitutions(translation, matches)
			}

			if a.jsonOut {
				return a.writeJSON(out)
			}
			a.styles().renderMatches(a.stdout, text, matches)
			if out.Substituted != "" {
				fmt.Fprintf(a.stdout, "substituted: %s\n", out.Substituted)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&glossaryFile, "glossary", "", "glossary entries (JSON)")
	cmd.Flags().StringVar(&glossaryID, "glossary-id", "", "only use entries of this glossary")
	cmd.Flags().StringVar(&lang, "lang", "", "only use entries for this target language")
	cmd.Flags().BoolVar(&partial, "partial", false, "match terms inside words")
	cmd.Flags().StringVar(&translation, "translation", "", "substitute target terms into this translation")
	return cmd
}

func (a *app) diffCmd() *cobra.Command {
	var chars bool
	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Show changes between two revisions of a string",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldText, err := readText(cmd, args[0])
			if err != nil {
				return err
			}
			newText, err := readText(cmd, args[1])
			if err != nil {
				return err
			}

			var segs []diff.Segment
			if chars {
				segs = diff.Chars(oldText, newText)
			} else {
				segs = diff.Words(oldText, newText)
			}
			stats := diff.StatsFromSegments(segs)

			if a.jsonOut {
				return a.writeJSON(struct {
					Segments []diff.Segment `json:"segments"`
					Stats    diff.Stats     `json:"stats"`
					Changed  bool           `json:"changed"`
				}{segs, stats, diff.HasChanges(segs)})
			}
			s := a.styles()
			fmt.Fprintln(a.stdout, s.renderDiff(segs))
			fmt.Fprintln(a.stdout, s.renderDiffStats(stats))
			return nil
		},
	}
	cmd.Flags().BoolVar(&chars, "chars", false, "diff characters instead of words")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	var (
		lang     string
		category string
		fix      bool
		disabled []string
	)
	cmd := &cobra.Command{
		Use:   "validate SOURCE TRANSLATION",
		Short: "Check a translation for defects",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readText(cmd, args[0])
			if err != nil {
				return err
			}
			translated, err := readText(cmd, args[1])
			if err != nil {
				return err
			}

			vc := &validate.Context{
				Category:         category,
				TargetLang:       lang,
				LengthRatioLimit: a.cfg.LengthRatioLimit,
			}
			for _, d := range disabled {
				vc.Disabled = append(vc.Disabled, validate.IssueType(d))
			}

			svc := validate.NewService()
			issues := svc.Validate(source, translated, vc)
			out := struct {
				Issues      []validate.Issue `json:"issues"`
				NeedsReview bool             `json:"needs_review"`
				Fixed       string           `json:"fixed,omitempty"`
			}{
				Issues:      issues,
				NeedsReview: validate.HasBlocking(issues),
			}
			if out.Issues == nil {
				out.Issues = []validate.Issue{}
			}
			if fix {
				out.Fixed = svc.ApplyAllAutoFixes(source, translated, issues)
			}

			if a.jsonOut {
				return a.writeJSON(out)
			}
			a.styles().renderIssues(a.stdout, issues)
			if fix {
				fmt.Fprintf(a.stdout, "fixed: %s\n", out.Fixed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "target language")
	cmd.Flags().StringVar(&category, "category", "", "string category")
	cmd.Flags().BoolVar(&fix, "fix", false, "print the translation with auto-fixes applied")
	cmd.Flags().StringSliceVar(&disabled, "disable", nil, "issue types to skip (e.g. case_mismatch)")
	return cmd
}

func (a *app) reviewCmd() *cobra.Command {
	var (
		unitsFile    string
		htmlFiles    []string
		glossaryFile string
		memoryFile   string
		lang         string
		strict       bool
	)
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Run every check over translation units or paired HTML documents",
		Long: `Review units read from a JSON array (--units), or the text nodes of a
source HTML document and its translation (--html SOURCE TRANSLATED).

Each unit is checked for validation issues, glossary terms, changes against
its previous revision and the closest translation-memory entry.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (unitsFile == "") == (len(htmlFiles) == 0) {
				return errors.New("exactly one of --units or --html is required")
			}
			if len(htmlFiles) > 0 && len(htmlFiles) != 2 {
				return errors.New("--html takes SOURCE,TRANSLATED")
			}

			entries, err := a.loadGlossary(cmd, glossaryFile)
			if err != nil {
				return err
			}
			memory, err := a.loadMemory(cmd, memoryFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			engine, err := a.engine(ctx, gotlqa.WithGlossary(entries), gotlqa.WithMemory(memory))
			if err != nil {
				return err
			}

			start := time.Now()
			var results []*gotlqa.Result
			if unitsFile != "" {
				var units []gotlqa.Unit
				if err := readJSON(cmd, unitsFile, &units); err != nil {
					return err
				}
				if lang != "" {
					for i := range units {
						if units[i].TargetLang == "" {
							units[i].TargetLang = lang
						}
					}
				}
				results, err = engine.ReviewBatch(ctx, units)
			} else {
				var src, dst string
				if src, err = readText(cmd, "@"+htmlFiles[0]); err != nil {
					return err
				}
				if dst, err = readText(cmd, "@"+htmlFiles[1]); err != nil {
					return err
				}
				results, err = engine.ReviewHTML(ctx, src, dst, lang)
			}
			if err != nil {
				return err
			}

			flagged := 0
			for _, r := range results {
				if r.NeedsReview {
					flagged++
				}
			}
			a.logger.Info().
				Int("units", len(results)).
				Int("needs_review", flagged).
				Dur("elapsed", time.Since(start)).
				Msg("review complete")

			if a.jsonOut {
				if err := a.writeJSON(results); err != nil {
					return err
				}
			} else {
				s := a.styles()
				for _, r := range results {
					s.renderResult(a.stdout, r)
				}
				fmt.Fprintln(a.stdout, s.render(s.muted, fmt.Sprintf("%d units, %d need review", len(results), flagged)))
			}

			if strict && flagged > 0 {
				return errNeedsReview
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&unitsFile, "units", "", "units to review (JSON array, - for stdin)")
	cmd.Flags().StringSliceVar(&htmlFiles, "html", nil, "SOURCE,TRANSLATED HTML documents")
	cmd.Flags().StringVar(&glossaryFile, "glossary", "", "glossary entries (JSON)")
	cmd.Flags().StringVar(&memoryFile, "memory", "", "translation-memory entries (JSON)")
	cmd.Flags().StringVar(&lang, "lang", "", "target language for units that set none")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when any unit needs review")
	return cmd
}

func (a *app) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Export or import cached memory suggestions",
		Long: `Export or import the suggestion cache. Only a Redis-backed cache
(cache.redis_url) outlives a single command.`,
	}

	export := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the cache as JSON (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine, err := a.engine(ctx)
			if err != nil {
				return err
			}
			meta := map[string]string{"tool": gotlqa.Name, "version": gotlqa.Version}

			if args[0] == "-" {
				return engine.ExportCache(ctx, a.stdout, meta)
			}
			f, err := os.Create(args[0]) // #nosec G304 - CLI tool writes user-specified files
			if err != nil {
				return fmt.Errorf("creating %s: %w", args[0], err)
			}
			if err := engine.ExportCache(ctx, f, meta); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}

	imp := &cobra.Command{
		Use:   "import FILE",
		Short: "Load a JSON export into the cache (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine, err := a.engine(ctx)
			if err != nil {
				return err
			}

			r := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0]) // #nosec G304 - CLI tool reads user-specified files
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			res, err := engine.ImportCache(ctx, r)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.writeJSON(res)
			}
			fmt.Fprintf(a.stdout, "imported %d entries (%d failed)\n", res.Imported, res.Failed)
			return nil
		},
	}

	cmd.AddCommand(export, imp)
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.jsonOut {
				return a.writeJSON(map[string]string{
					"name":       gotlqa.Name,
					"version":    gotlqa.Version,
					"commit":     gotlqa.GitCommit,
					"build_date": gotlqa.BuildDate,
				})
			}
			fmt.Fprintf(a.stdout, "%s %s\n", gotlqa.Name, gotlqa.FullVersion())
			return nil
		},
	}
}
