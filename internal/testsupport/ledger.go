package testsupport

import (
	"testing"

	"rawpack/internal/config"
	"rawpack/internal/ledger"
)

// MustOpenLedger opens the ledger configured on cfg and closes it when the
// test finishes.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
