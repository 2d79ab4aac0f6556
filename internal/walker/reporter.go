package walker

import (
	"log/slog"

	"rawpack/internal/failures"
	"rawpack/internal/logging"
	"rawpack/internal/packager"
)

// Reporter receives each per-file result as soon as it is known.
type Reporter interface {
	Report(Result)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Result)

func (f ReporterFunc) Report(r Result) { f(r) }

// MultiReporter fans a result out to every reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(r Result) {
	for _, rep := range m {
		if rep != nil {
			rep.Report(r)
		}
	}
}

type logReporter struct {
	logger *slog.Logger
}

// NewLogReporter writes one structured log line per result.
func NewLogReporter(logger *slog.Logger) Reporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return logReporter{logger: logger}
}

func (l logReporter) Report(r Result) {
	switch r.Outcome {
	case OutcomeCreated:
		l.logger.Info("packaged file created",
			logging.String(logging.FieldOutcome, string(r.Outcome)),
			logging.String(logging.FieldSource, r.Source),
			logging.String(logging.FieldTarget, r.Target),
			logging.Int64("bytes", r.Output.TotalBytes()),
			logging.Duration("duration", r.Duration),
		)
	case OutcomeExists:
		l.logger.Info("packaged file already exists",
			logging.String(logging.FieldOutcome, string(r.Outcome)),
			logging.String(logging.FieldSource, r.Source),
			logging.String(logging.FieldTarget, r.Target),
		)
	default:
		l.logger.Warn("packaging failed; continuing with next file",
			logging.String(logging.FieldOutcome, string(r.Outcome)),
			logging.String(logging.FieldSource, r.Source),
			logging.String(logging.FieldStage, packager.StageOf(r.Err)),
			logging.String(logging.FieldErrorKind, string(failures.KindOf(r.Err))),
			logging.Error(r.Err),
			logging.String(logging.FieldEventType, "file_failed"),
			logging.String(logging.FieldErrorHint, hintFor(r.Err)),
		)
	}
}

func hintFor(err error) string {
	switch failures.KindOf(err) {
	case failures.KindDecode:
		return "file is not a supported RAW or image format"
	case failures.KindIO:
		return "check permissions and free space for source and output folders"
	default:
		return "rerun with --log-level=debug for details"
	}
}
