package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rawpack/internal/config"
	"rawpack/internal/failures"
	"rawpack/internal/ledger"
	"rawpack/internal/logging"
	"rawpack/internal/packager"
	"rawpack/internal/preflight"
	"rawpack/internal/runlock"
	"rawpack/internal/walker"
)

const (
	modePack   = "pack"
	modeUnpack = "unpack"
)

type packFlags struct {
	mode      string
	path      string
	filter    string
	recursive bool
	out       string
	summary   bool
}

// packRequest is a fully resolved pack invocation.
type packRequest struct {
	source    string
	output    string
	filter    string
	recursive bool
}

func runPack(cmd *cobra.Command, ctx *commandContext, flags *packFlags, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	req, err := resolvePackRequest(cmd, cfg, flags, args)
	if err != nil {
		if failures.KindOf(err) == failures.KindArgument {
			fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		}
		return err
	}

	checks := preflight.RunAll(cfg, preflight.Targets{
		SourceFolder: req.source,
		OutputFolder: req.output,
	})
	if blocking := preflight.Blocking(checks); len(blocking) > 0 {
		lines := make([]string, 0, len(blocking))
		for _, r := range blocking {
			lines = append(lines, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
		return fmt.Errorf("preflight failed:\n  %s", strings.Join(lines, "\n  "))
	}

	lock, err := runlock.Acquire(cfg.LockDir(), req.output)
	if err != nil {
		return err
	}
	defer lock.Release()

	baseLogger, err := ctx.logger(cmd)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	runID := uuid.NewString()
	logger := baseLogger.With(logging.String(logging.FieldRunID, runID))
	logger.Debug("run lock acquired", logging.String("lock_path", lock.Path()))
	for _, r := range preflight.Warnings(checks) {
		fmt.Fprintln(cmd.ErrOrStderr(), warnLine(fmt.Sprintf("warning: %s: %s", r.Name, r.Detail), shouldColorize(cmd.ErrOrStderr())))
		logger.Warn("preflight check failed; continuing",
			logging.String(logging.FieldEventType, "preflight_warning"),
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldImpact, "files that do not fit fail individually"),
		)
	}

	p, err := packager.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reporters := walker.MultiReporter{
		walker.NewLogReporter(logger),
		newConsoleReporter(out, shouldColorize(out)),
	}
	var store *ledger.Store
	if cfg.Ledger.Enabled {
		opened, err := ledger.Open(cfg.LedgerPath())
		if err != nil {
			logger.Warn("packaging ledger unavailable; history will not be recorded",
				logging.Error(err),
				logging.String(logging.FieldEventType, "ledger_open_failed"),
				logging.String(logging.FieldErrorHint, "check ledger.path or set ledger.enabled = false"),
			)
		} else {
			store = opened
			defer store.Close()
			reporters = append(reporters, ledger.NewReporter(cmd.Context(), store, runID, logger))
		}
	}

	opts := walker.OptionsFromConfig(cfg)
	opts.Logger = logger
	opts.Reporter = reporters
	w := walker.New(p, opts)

	logger.Info("pack run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("source_folder", req.source),
		logging.String("output_folder", req.output),
		logging.String("filter", req.filter),
		logging.Bool("recursive", req.recursive),
	)
	summary := w.PackageFolder(cmd.Context(), req.source, req.filter, req.recursive, req.output)
	if store != nil {
		logLedgerCoverage(context.WithoutCancel(cmd.Context()), store, runID, summary.Count(walker.OutcomeCreated), logger)
	}

	if flags.summary {
		fmt.Fprintln(out, renderSummary(summary))
	}
	if summary.Interrupted {
		return context.Canceled
	}
	return nil
}

func resolvePackRequest(cmd *cobra.Command, cfg *config.Config, flags *packFlags, args []string) (packRequest, error) {
	switch strings.ToLower(strings.TrimSpace(flags.mode)) {
	case modePack:
	case modeUnpack:
		return packRequest{}, failures.Argumentf("unpack mode is not implemented")
	default:
		return packRequest{}, failures.Argumentf("unknown mode %q (expected pack or unpack)", flags.mode)
	}

	source := strings.TrimSpace(flags.path)
	if source == "" {
		source = firstDirectoryArg(args)
	}
	if source == "" {
		return packRequest{}, failures.Argumentf("a folder to package is required (--path or a folder argument)")
	}
	source, err := config.ExpandPath(source)
	if err != nil {
		return packRequest{}, failures.Argumentf("resolve path: %v", err)
	}
	info, err := os.Stat(source)
	if err != nil {
		return packRequest{}, failures.PathNotFoundf("source folder %s: %v", source, err)
	}
	if !info.IsDir() {
		return packRequest{}, failures.PathNotFoundf("source folder %s is not a directory", source)
	}

	filter := cfg.Pack.Filter
	if cmd.Flags().Changed("filter") {
		filter = strings.TrimSpace(flags.filter)
	}
	if err := walker.ValidateFilter(filter); err != nil {
		return packRequest{}, err
	}

	recursive := cfg.Pack.Recursive
	if cmd.Flags().Changed("recursive") {
		recursive = flags.recursive
	}

	output := source
	if strings.TrimSpace(flags.out) != "" {
		if output, err = config.ExpandPath(strings.TrimSpace(flags.out)); err != nil {
			return packRequest{}, failures.Argumentf("resolve output: %v", err)
		}
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		return packRequest{}, failures.PathNotFoundf("output folder %s: %v", output, err)
	}

	return packRequest{source: source, output: output, filter: filter, recursive: recursive}, nil
}

// logLedgerCoverage compares the rows recorded for runID with the number of
// files the walk created.
func logLedgerCoverage(ctx context.Context, store *ledger.Store, runID string, created int, logger *slog.Logger) {
	recorded, err := store.CountByRun(ctx, runID)
	if err != nil {
		logger.Warn("ledger count failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "ledger_count_failed"),
		)
		return
	}
	if recorded != created {
		logger.Warn("ledger is missing entries for this run",
			logging.Int("recorded", recorded),
			logging.Int("created", created),
			logging.String(logging.FieldEventType, "ledger_incomplete"),
			logging.String(logging.FieldImpact, "history omits some packaged files"),
		)
		return
	}
	logger.Debug("ledger updated", logging.Int("recorded", recorded), logging.String("ledger_path", store.Path()))
}

// firstDirectoryArg returns the first argument naming an existing directory.
func firstDirectoryArg(args []string) string {
	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			return arg
		}
	}
	return ""
}
