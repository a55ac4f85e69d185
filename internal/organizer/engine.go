// Package organizer sorts photos from a source tree into a destination tree
// laid out by capture year and month.
package organizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Precondition failures. Run returns these before touching any file.
var (
	ErrMissingSource      = errors.New("source directory is not specified")
	ErrMissingDestination = errors.New("destination directory is not specified")
	ErrSourceNotFound     = errors.New("source directory does not exist")
	ErrNoPhotos           = errors.New("no photos found in source directory")
)

// Options is the immutable configuration of a single run.
type Options struct {
	SourceRoot string
	DestRoot   string
	SortByDate bool
	// CopyMode keeps the originals; false moves them.
	CopyMode bool
	DryRun   bool

	Months       MonthNames
	UnknownMonth string
}

type Outcome string

const (
	OutcomeTransferred Outcome = "transferred"
	OutcomeDuplicate   Outcome = "duplicate"
	OutcomeFailed      Outcome = "failed"
)

// PhotoRecord describes one file for the duration of its processing.
type PhotoRecord struct {
	SourcePath              string
	ResolvedDate            time.Time
	DestinationRelativePath string
	FinalPath               string
}

type RunStatistics struct {
	Processed         int
	SkippedDuplicates int
	Errors            int
}

// Progress is emitted after every file.
type Progress struct {
	RunStatistics
	Done        int
	Total       int
	Current     string
	Destination string
	Outcome     Outcome
}

type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }

type Result struct {
	RunStatistics
	Total            int
	BytesTransferred int64
	DestinationRoot  string
	Records          []PhotoRecord
	Failures         []FileError
}

// Engine runs transfers. It holds no per-run state and may be reused.
type Engine struct {
	fs         afero.Fs
	log        zerolog.Logger
	resolver   *DateResolver
	duplicates *DuplicateClassifier
}

func NewEngine(fs afero.Fs, logger zerolog.Logger) *Engine {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Engine{
		fs:         fs,
		log:        logger,
		resolver:   NewDateResolver(fs, logger),
		duplicates: NewDuplicateClassifier(fs),
	}
}

func (e *Engine) validate(opts *Options) error {
	if opts.SourceRoot == "" {
		return ErrMissingSource
	}
	if opts.DestRoot == "" {
		return ErrMissingDestination
	}

	info, err := e.fs.Stat(opts.SourceRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, opts.SourceRoot)
		}
		return fmt.Errorf("error accessing source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrSourceNotFound, opts.SourceRoot)
	}
	return nil
}

// Run transfers every photo under opts.SourceRoot into opts.DestRoot, one
// file at a time. Only precondition failures are returned as errors; a
// failing file is counted in Result.Errors and the run continues.
// onProgress may be nil.
func (e *Engine) Run(opts Options, onProgress func(Progress)) (Result, error) {
	if err := e.validate(&opts); err != nil {
		return Result{}, err
	}

	sourceRoot, err := filepath.Abs(opts.SourceRoot)
	if err != nil {
		return Result{}, fmt.Errorf("resolving source directory: %w", err)
	}
	destRoot, err := filepath.Abs(opts.DestRoot)
	if err != nil {
		return Result{}, fmt.Errorf("resolving destination directory: %w", err)
	}
	sourceRoot = e.resolveSymlinks(sourceRoot)
	destRoot = e.resolveSymlinks(destRoot)

	var skipDir string
	if destRoot != sourceRoot && strings.HasPrefix(destRoot, sourceRoot+string(filepath.Separator)) {
		skipDir = destRoot
	}

	e.log.Debug().
		Str("source", sourceRoot).
		Str("destination", destRoot).
		Bool("sort_by_date", opts.SortByDate).
		Bool("copy", opts.CopyMode).
		Bool("dry_run", opts.DryRun).
		Msg("starting run")

	files, err := e.enumerateFiles(sourceRoot, skipDir)
	if err != nil {
		return Result{}, fmt.Errorf("failed to enumerate files: %w", err)
	}
	if len(files) == 0 {
		return Result{}, ErrNoPhotos
	}
	e.log.Info().Int("count", len(files)).Msg("photos found")

	result := Result{Total: len(files), DestinationRoot: destRoot}
	notify := func(p Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}
	notify(Progress{Total: len(files)})

	// In a dry run nothing is written, so planned paths are tracked here
	// to keep collision handling accurate.
	planned := make(map[string]string)
	taken := func(path string) (string, bool, error) {
		if src, ok := planned[path]; ok {
			return src, true, nil
		}
		ok, err := e.exists(path)
		return path, ok, err
	}

	for i, sourcePath := range files {
		p := Progress{Done: i + 1, Total: len(files), Current: sourcePath}

		record, outcome, size, err := e.processFile(opts, destRoot, sourcePath, taken)
		switch {
		case err != nil:
			result.Errors++
			result.Failures = append(result.Failures, FileError{Path: sourcePath, Err: err})
			e.log.Error().Err(err).Str("path", sourcePath).Msg("transfer failed")
			outcome = OutcomeFailed
		case outcome == OutcomeDuplicate:
			result.SkippedDuplicates++
			e.log.Debug().Str("path", sourcePath).Str("existing", record.FinalPath).Msg("skipping duplicate")
		default:
			result.Processed++
			result.BytesTransferred += size
			result.Records = append(result.Records, record)
			if opts.DryRun {
				planned[record.FinalPath] = sourcePath
			}
			e.log.Debug().Str("path", sourcePath).Str("dest", record.FinalPath).Msg("transferred")
		}

		p.RunStatistics = result.RunStatistics
		p.Destination = record.DestinationRelativePath
		p.Outcome = outcome
		notify(p)
	}

	e.log.Info().
		Int("processed", result.Processed).
		Int("duplicates", result.SkippedDuplicates).
		Int("errors", result.Errors).
		Msg("run complete")

	return result, nil
}

func (e *Engine) processFile(opts Options, destRoot, sourcePath string, taken func(string) (string, bool, error)) (PhotoRecord, Outcome, int64, error) {
	record := PhotoRecord{
		SourcePath:   sourcePath,
		ResolvedDate: e.resolver.Resolve(sourcePath),
	}
	record.DestinationRelativePath = Plan(record.ResolvedDate, opts.SortByDate, opts.Months, opts.UnknownMonth)
	destDir := filepath.Join(destRoot, filepath.FromSlash(record.DestinationRelativePath))

	if !opts.DryRun {
		if err := e.fs.MkdirAll(destDir, 0755); err != nil {
			return record, OutcomeFailed, 0, fmt.Errorf("failed to create directory %s: %w", destDir, err)
		}
	}

	destPath, duplicate, err := e.destinationFor(sourcePath, destDir, taken)
	if err != nil {
		return record, OutcomeFailed, 0, err
	}
	record.FinalPath = destPath
	if duplicate {
		return record, OutcomeDuplicate, 0, nil
	}

	if opts.DryRun {
		info, err := e.fs.Stat(sourcePath)
		if err != nil {
			return record, OutcomeFailed, 0, err
		}
		return record, OutcomeTransferred, info.Size(), nil
	}

	var n int64
	if opts.CopyMode {
		n, err = e.copyFile(sourcePath, destPath)
	} else {
		n, err = e.moveFile(sourcePath, destPath)
	}
	if err != nil {
		return record, OutcomeFailed, 0, fmt.Errorf("transferring to %s: %w", destPath, err)
	}
	return record, OutcomeTransferred, n, nil
}
