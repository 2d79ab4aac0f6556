package walker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"rawpack/internal/config"
	"rawpack/internal/failures"
	"rawpack/internal/logging"
	"rawpack/internal/packager"
)

// Packer packages one file. *packager.Packager satisfies it.
type Packer interface {
	PackageFile(ctx context.Context, sourceFile, targetFile string) (packager.Output, error)
}

// Options configures a Walker.
type Options struct {
	Suffix   string
	Filter   FilterOptions
	Reporter Reporter
	Logger   *slog.Logger
}

// OptionsFromConfig reads suffix and filter behaviour from the pack section.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Suffix: cfg.Pack.Suffix,
		Filter: FilterOptions{
			CaseInsensitive: cfg.Pack.CaseInsensitiveFilter,
			IncludeHidden:   cfg.Pack.IncludeHidden,
		},
	}
}

// Walker drives a Packer over folder trees.
type Walker struct {
	packer   Packer
	suffix   string
	filter   FilterOptions
	reporter Reporter
	logger   *slog.Logger
}

// New constructs a walker. A nil reporter only logs.
func New(packer Packer, opts Options) *Walker {
	logger := logging.NewComponentLogger(opts.Logger, "walker")
	reporter := opts.Reporter
	if reporter == nil {
		reporter = NewLogReporter(logger)
	}
	suffix := opts.Suffix
	if suffix == "" {
		suffix = config.DefaultSuffix
	}
	return &Walker{
		packer:   packer,
		suffix:   suffix,
		filter:   opts.Filter,
		reporter: reporter,
		logger:   logger,
	}
}

// TargetFor returns the packaged path of name inside outputFolder.
func (w *Walker) TargetFor(outputFolder, name string) string {
	return filepath.Join(outputFolder, name+w.suffix)
}

type walk struct {
	*Walker
	matcher    matcher
	recursive  bool
	outputRoot string
	summary    *Summary
}

// PackageFolder packages every regular file in sourceFolder whose name
// matches filter into outputFolder. Files whose target already exists are
// reported as existing and left alone. When recursive is set, subfolders are
// visited depth-first after the files, each into the same-named subfolder of
// outputFolder. Cancellation is honoured between files.
func (w *Walker) PackageFolder(ctx context.Context, sourceFolder, filter string, recursive bool, outputFolder string) Summary {
	summary := Summary{Started: time.Now()}
	run := &walk{
		Walker:    w,
		matcher:   newMatcher(filter, w.filter),
		recursive: recursive,
		summary:   &summary,
	}
	if abs, err := filepath.Abs(outputFolder); err == nil {
		run.outputRoot = abs
	}

	w.logger.Debug("folder walk started",
		logging.String("source_folder", sourceFolder),
		logging.String("output_folder", outputFolder),
		logging.String("filter", filter),
		logging.Bool("recursive", recursive),
	)
	run.folder(ctx, sourceFolder, outputFolder)
	summary.Duration = time.Since(summary.Started)

	w.logger.Info("folder walk summary",
		logging.String(logging.FieldEventType, "walk_complete"),
		logging.Int("created", summary.Count(OutcomeCreated)),
		logging.Int("exists", summary.Count(OutcomeExists)),
		logging.Int("failed", summary.Count(OutcomeFailed)),
		logging.Bool("interrupted", summary.Interrupted),
		logging.Duration("walk_duration", summary.Duration),
	)
	return summary
}

func (r *walk) folder(ctx context.Context, sourceFolder, outputFolder string) {
	files, dirs, err := r.list(sourceFolder)
	if err != nil {
		r.record(Result{
			Source:  sourceFolder,
			Outcome: OutcomeFailed,
			Err:     failures.Wrap(failures.ErrIO, "walk", "list folder", sourceFolder, err),
		})
		return
	}

	for _, f := range files {
		if r.stopped(ctx) {
			return
		}
		path := filepath.Join(sourceFolder, f.name)
		if f.packagedOf != "" {
			r.record(Result{
				Source:  path,
				Target:  path,
				Outcome: OutcomeExists,
				Err:     fmt.Errorf("%w: %s is the packaged form of %s", failures.ErrAlreadyExists, f.name, f.packagedOf),
			})
			continue
		}
		r.file(ctx, path, r.TargetFor(outputFolder, f.name))
	}

	if !r.recursive {
		return
	}
	for _, name := range dirs {
		if r.stopped(ctx) {
			return
		}
		sub := filepath.Join(sourceFolder, name)
		if r.isOutputRoot(sub) {
			r.logger.Debug("skipping output folder nested in source", logging.String("path", sub))
			continue
		}
		r.folder(ctx, sub, filepath.Join(outputFolder, name))
	}
}

func (r *walk) file(ctx context.Context, source, target string) {
	started := time.Now()
	res := Result{Source: source, Target: target}

	_, err := os.Lstat(target)
	switch {
	case err == nil:
		res.Outcome = OutcomeExists
		res.Err = fmt.Errorf("%w: %s", failures.ErrAlreadyExists, target)
	case !errors.Is(err, os.ErrNotExist):
		res.Outcome = OutcomeFailed
		res.Err = failures.Wrap(failures.ErrIO, "walk", "check target", target, err)
	default:
		out, perr := r.packer.PackageFile(ctx, source, target)
		if perr != nil {
			res.Outcome = OutcomeFailed
			res.Err = perr
		} else {
			res.Outcome = OutcomeCreated
			res.Output = out
			res.Target = out.Path
		}
	}
	res.Duration = time.Since(started)
	r.record(res)
}

func (r *walk) record(res Result) {
	r.summary.Results = append(r.summary.Results, res)
	r.reporter.Report(res)
}

func (r *walk) stopped(ctx context.Context) bool {
	if ctx.Err() == nil {
		return false
	}
	if !r.summary.Interrupted {
		r.summary.Interrupted = true
		r.logger.Warn("folder walk interrupted; remaining files skipped",
			logging.Error(ctx.Err()),
			logging.String(logging.FieldEventType, "walk_interrupted"),
			logging.String(logging.FieldImpact, "rerun to package the remaining files"),
		)
	}
	return true
}

func (r *walk) isOutputRoot(dir string) bool {
	if r.outputRoot == "" {
		return false
	}
	abs, err := filepath.Abs(dir)
	return err == nil && abs == r.outputRoot
}

// listedFile is one matching file of a folder listing. packagedOf names the
// sibling it is the packaged form of, if any.
type listedFile struct {
	name       string
	packagedOf string
}

// list snapshots a folder before any of it is processed, so outputs written
// into the same folder are never picked up as sources during the walk.
func (r *walk) list(folder string) ([]listedFile, []string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, nil, err
	}
	var regular, dirs []string
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case entry.IsDir():
			if !r.matcher.hidden(name) {
				dirs = append(dirs, name)
			}
		case entry.Type().IsRegular():
			regular = append(regular, name)
		case entry.Type()&os.ModeSymlink != 0:
			info, err := os.Stat(filepath.Join(folder, name))
			if err == nil && info.Mode().IsRegular() {
				regular = append(regular, name)
			}
		}
	}

	present := make(map[string]struct{}, len(regular))
	for _, name := range regular {
		present[name] = struct{}{}
	}
	sort.Strings(regular)
	var files []listedFile
	for _, name := range regular {
		if r.matcher.matches(name) {
			files = append(files, listedFile{name: name, packagedOf: r.outputOf(name, present)})
		}
	}
	sort.Strings(dirs)
	return files, dirs, nil
}

// outputOf returns the sibling that name is the packaged form of, such as
// a.cr2 for a.cr2.jpg, so a folder that is its own output never has its
// outputs packaged on a later run.
func (r *walk) outputOf(name string, present map[string]struct{}) string {
	base, ok := strings.CutSuffix(name, r.suffix)
	if !ok || base == "" {
		return ""
	}
	if _, sibling := present[base]; sibling {
		return base
	}
	return ""
}
