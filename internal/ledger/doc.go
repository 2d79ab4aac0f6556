// Package ledger records every packaged file in a SQLite database so past
// runs can be listed and an output can be traced back to its source.
//
// The database lives at ledger.path (default <state_dir>/ledger.db). Writes
// retry briefly on SQLITE_BUSY; callers treat any ledger error as a warning
// and never fail a file because of it.
package ledger
