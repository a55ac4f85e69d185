package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/rs/zerolog"

	"github.com/tonimelisma/phototransfer/internal/locale"
	"github.com/tonimelisma/phototransfer/internal/organizer"
	"github.com/tonimelisma/phototransfer/internal/prefs"
	"github.com/tonimelisma/phototransfer/internal/session"
)

// args holds the command-line arguments
type args struct {
	Source     string `arg:"positional" help:"Folder containing your photos (searched recursively)"`
	Dest       string `arg:"positional" help:"Folder where sorted photos are stored"`
	Flat       bool   `arg:"--flat" help:"Put all photos directly in the destination folder"`
	SortByDate bool   `arg:"--sort-by-date" help:"Create Year/Month folders in the destination"`
	Move       bool   `arg:"--move" help:"Move photos instead of copying them"`
	Copy       bool   `arg:"--copy" help:"Keep the original photos (default)"`
	Lang       string `arg:"--lang" help:"Language for messages and month folders (en, fr, es, de)"`
	Prefs      string `arg:"--prefs" help:"Path to the preferences file"`
	Save       bool   `arg:"--save" help:"Only store the given folders and options, do not organize"`
	DryRun     bool   `arg:"--dry-run" help:"Show what would happen without changing any file"`
	Verbose    bool   `arg:"-v,--verbose" help:"Enable verbose output"`
	LogJSON    bool   `arg:"--log-json" help:"Log in JSON instead of pretty printing"`
	NoProgress bool   `arg:"--no-progress" help:"Do not draw a progress bar"`
}

func (args) Description() string {
	return "Sorts photos into Year/Month folders by the date they were taken."
}

// applyArgs overrides stored preferences with what was given on the
// command line. It reports whether any stored value changed.
func applyArgs(p *prefs.Preferences, a args) (bool, error) {
	before := *p

	if a.Flat && a.SortByDate {
		return false, fmt.Errorf("--flat and --sort-by-date cannot be combined")
	}
	if a.Move && a.Copy {
		return false, fmt.Errorf("--move and --copy cannot be combined")
	}

	if a.Source != "" {
		abs, err := filepath.Abs(a.Source)
		if err != nil {
			return false, fmt.Errorf("resolving source directory: %w", err)
		}
		p.SourceFolder = abs
	}
	if a.Dest != "" {
		abs, err := filepath.Abs(a.Dest)
		if err != nil {
			return false, fmt.Errorf("resolving destination directory: %w", err)
		}
		p.DestFolder = abs
	}
	if a.Flat {
		p.SortByDate = false
	}
	if a.SortByDate {
		p.SortByDate = true
	}
	if a.Move {
		p.CopyMode = false
	}
	if a.Copy {
		p.CopyMode = true
	}
	if a.Lang != "" {
		code, ok := locale.Parse(a.Lang)
		if !ok {
			return false, fmt.Errorf("unsupported language %q (supported: %s)", a.Lang, supportedLanguages())
		}
		p.Language = code
	}

	return *p != before, nil
}

// supportedLanguages lists the languages as "Name (code)".
func supportedLanguages() string {
	var names []string
	for _, code := range locale.Supported() {
		names = append(names, fmt.Sprintf("%s (%s)", locale.Name(code), code))
	}
	return strings.Join(names, ", ")
}

// runOptions turns preferences into the immutable record the engine runs on.
func runOptions(p prefs.Preferences, dryRun bool) organizer.Options {
	return organizer.Options{
		SourceRoot:   p.SourceFolder,
		DestRoot:     p.DestFolder,
		SortByDate:   p.SortByDate,
		CopyMode:     p.CopyMode,
		DryRun:       dryRun,
		Months:       locale.Months(p.Language),
		UnknownMonth: locale.Unknown(p.Language),
	}
}

func run(argv []string, stdout, stderr io.Writer) error {
	var a args
	parser, err := arg.NewParser(arg.Config{Program: "phototransfer"}, &a)
	if err != nil {
		return fmt.Errorf("building argument parser: %w", err)
	}
	if err := parser.Parse(argv); err != nil {
		if errors.Is(err, arg.ErrHelp) {
			parser.WriteHelp(stdout)
			return nil
		}
		parser.WriteUsage(stderr)
		return err
	}

	logger := newLogger(stderr, a.Verbose, a.LogJSON)

	prefsPath := a.Prefs
	if prefsPath == "" {
		if prefsPath, err = prefs.DefaultPath(); err != nil {
			return err
		}
	}
	p := prefs.Load(prefsPath, logger)

	changed, err := applyArgs(&p, a)
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	msgs := locale.For(p.Language)

	if a.Save {
		if err := prefs.Save(prefsPath, p); err != nil {
			return fmt.Errorf("saving preferences: %w", err)
		}
		logger.Info().Str("path", prefsPath).Bool("changed", changed).Msg("preferences saved")
		return nil
	}

	// Preferences are stored before every run, like the original start button.
	if err := prefs.Save(prefsPath, p); err != nil {
		logger.Warn().Err(err).Str("path", prefsPath).Msg("failed to save preferences")
	}

	logger.Debug().
		Str("source", p.SourceFolder).
		Str("destination", p.DestFolder).
		Bool("sort_by_date", p.SortByDate).
		Bool("copy", p.CopyMode).
		Str("language", string(p.Language)).
		Msg("configuration")

	fmt.Fprintln(stdout, msgs.Scanning)

	engine := organizer.NewEngine(nil, logger)
	events, err := session.New().Start(engine, runOptions(p, a.DryRun))
	if err != nil {
		return errors.New(msgs.RunInProgress)
	}

	start := time.Now()
	result, err := render(events, stdout, stderr, msgs, !a.NoProgress)
	if err != nil {
		if errors.Is(err, organizer.ErrNoPhotos) {
			fmt.Fprintln(stdout, msgs.NoPhotos)
			return nil
		}
		return errors.New(preconditionMessage(err, msgs))
	}

	elapsed := time.Since(start)
	logger.Info().
		Str("size", formatBytes(result.BytesTransferred)).
		Str("elapsed", formatElapsed(elapsed)).
		Str("rate", formatRate(result.BytesTransferred, elapsed)).
		Msg("transfer summary")

	fmt.Fprintln(stdout, summary(result, msgs))
	if a.DryRun {
		fmt.Fprintln(stdout, msgs.DryRun)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose, jsonOutput bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := w
	if !jsonOutput {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
