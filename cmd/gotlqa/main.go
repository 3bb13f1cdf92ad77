// Command gotlqa checks translated strings from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gotlqa"
	"github.com/ZaguanLabs/gotlqa/cache"
	"github.com/ZaguanLabs/gotlqa/glossary"
	"github.com/ZaguanLabs/gotlqa/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

// app holds the state of one invocation.
type app struct {
	stdout, stderr io.Writer

	cfgFile  string
	verbose  bool
	jsonOut  bool
	noColor  bool
	cfg      *config.Config
	logger   zerolog.Logger
	closers  []io.Closer
	styleSet *styles
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   gotlqa.Name,
		Short: "Translation QA checks",
		Long: `gotlqa reviews translated strings against their source.

Commands:
  normalize   - canonicalize a string for comparison
  similarity  - score how alike two strings are
  match       - find glossary terms in a string
  diff        - show word or character changes between two revisions
  validate    - check a translation for placeholder, number and format defects
  review      - run every check over units or paired HTML documents
  cache       - export or import cached memory suggestions

Text arguments are read literally, from a file when prefixed with @,
or from stdin when given as -.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (.yaml or .toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colors")

	root.AddCommand(
		a.normalizeCmd(),
		a.similarityCmd(),
		a.matchCmd(),
		a.diffCmd(),
		a.validateCmd(),
		a.reviewCmd(),
		a.cacheCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
	}
	if a.verbose {
		level = zerolog.DebugLevel
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: a.stderr, TimeFormat: time.TimeOnly, NoColor: a.noColor}).
		Level(level).
		With().
		Timestamp().
		Logger()
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

// engine builds an Engine from the configuration plus opts. A configured
// Redis URL backs the suggestion cache and glossary usage counters;
// otherwise both live in memory for the duration of the command.
func (a *app) engine(ctx context.Context, opts ...gotlqa.Option) (*gotlqa.Engine, error) {
	ttl := time.Duration(a.cfg.Cache.TTLSeconds) * time.Second

	base := []gotlqa.Option{
		gotlqa.WithCalculator(a.cfg.Calculator()),
		gotlqa.WithLengthRatioLimit(a.cfg.LengthRatioLimit),
		gotlqa.WithWholeWordOnly(a.cfg.WholeWordOnly),
		gotlqa.WithWorkers(a.cfg.Workers),
		gotlqa.WithLogger(a.logger),
	}

	if a.cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cache.RedisConfig{
			URL:       a.cfg.Cache.RedisURL,
			TTL:       ttl,
			KeyPrefix: a.cfg.Cache.KeyPrefix,
		})
		if err != nil {
			return nil, &gotlqa.CacheError{Message: "connecting to suggestion cache", Cause: err}
		}
		a.closers = append(a.closers, rc)
		base = append(base,
			gotlqa.WithCache(rc),
			gotlqa.WithUsageRecorder(glossary.NewRedisUsage(rc.Client(), "")),
		)
		a.logger.Debug().Str("url", a.cfg.Cache.RedisURL).Msg("using redis")
	} else {
		base = append(base,
			gotlqa.WithCache(cache.NewMemory(ttl)),
			gotlqa.WithUsageRecorder(glossary.NewMemoryUsage()),
		)
	}

	return gotlqa.New(append(base, opts...)...)
}

// readText resolves a text argument: "-" reads stdin, "@path" reads a file,
// anything else is the text itself.
func readText(cmd *cobra.Command, arg string) (string, error) {
	switch {
	case arg == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	case strings.HasPrefix(arg, "@"):
		data, err := os.ReadFile(arg[1:]) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		return string(data), nil
	}
	return arg, nil
}

// readJSON decodes a JSON file, or stdin for "-", into v.
func readJSON(cmd *cobra.Command, path string, v any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
