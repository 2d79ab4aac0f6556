package ledger

import (
	"context"
	"log/slog"

	"rawpack/internal/logging"
	"rawpack/internal/walker"
)

type reporter struct {
	ctx    context.Context
	store  *Store
	runID  string
	logger *slog.Logger
}

// NewReporter records every created output of a walk under runID. Write
// failures are logged and otherwise ignored.
func NewReporter(ctx context.Context, store *Store, runID string, logger *slog.Logger) walker.Reporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &reporter{ctx: context.WithoutCancel(ctx), store: store, runID: runID, logger: logger}
}

func (r *reporter) Report(res walker.Result) {
	if res.Outcome != walker.OutcomeCreated || r.store == nil {
		return
	}
	if _, err := r.store.Record(r.ctx, EntryFromOutput(r.runID, res.Output)); err != nil {
		r.logger.Warn("failed to record packaged file in ledger",
			logging.String(logging.FieldTarget, res.Target),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ledger_write_failed"),
			logging.String(logging.FieldImpact, "history will not list this file"),
			logging.String(logging.FieldErrorHint, "check ledger.path or disable the ledger"),
		)
	}
}
