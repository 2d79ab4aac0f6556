package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes. Older ledgers are not
// migrated; the error tells the user to delete them.
const schemaVersion = 1

// ledgerPurpose marks a database as a rawpack ledger so an unrelated SQLite
// file configured as ledger.path is refused instead of written to.
const ledgerPurpose = "rawpack packaging ledger"

var (
	// ErrSchemaMismatch reports a ledger written by another schema version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrForeignDatabase reports a SQLite file that is not a rawpack ledger.
	ErrForeignDatabase = errors.New("not a rawpack ledger")
)

// initSchema creates the tables in an empty database and otherwise checks
// that the file is a ledger of the current version.
func (s *Store) initSchema(ctx context.Context) error {
	var tables int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table'",
	).Scan(&tables); err != nil {
		return fmt.Errorf("inspect ledger tables: %w", err)
	}
	if tables == 0 {
		return s.createSchema(ctx)
	}

	var version int
	var purpose string
	err := s.db.QueryRowContext(ctx, "SELECT version, purpose FROM schema_version LIMIT 1").Scan(&version, &purpose)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %s has an empty schema_version table", ErrForeignDatabase, s.path)
	case err != nil:
		return fmt.Errorf("%w: %s: %v", ErrForeignDatabase, s.path, err)
	case purpose != ledgerPurpose:
		return fmt.Errorf("%w: %s belongs to %q", ErrForeignDatabase, s.path, purpose)
	case version != schemaVersion:
		return fmt.Errorf("%w: ledger has version %d, expected %d (delete %s to start a new ledger)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create ledger schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_version (version, purpose) VALUES (?, ?)", schemaVersion, ledgerPurpose,
	); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}
