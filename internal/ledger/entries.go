package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rawpack/internal/packager"
)

// Entry is one packaged file as recorded in the ledger.
type Entry struct {
	ID              int64
	RunID           string
	SourcePath      string
	TargetPath      string
	EntryName       string
	SourceSize      int64
	SourceModTime   time.Time
	CRC32           uint32
	ThumbnailBytes  int64
	ArchiveBytes    int64
	ThumbnailWidth  int
	ThumbnailHeight int
	CreatedAt       time.Time
}

// EntryFromOutput converts a packager result into a ledger row.
func EntryFromOutput(runID string, out packager.Output) Entry {
	return Entry{
		RunID:           runID,
		SourcePath:      out.Source,
		TargetPath:      out.Path,
		EntryName:       out.EntryName,
		SourceSize:      out.SourceSize,
		SourceModTime:   out.SourceModTime,
		CRC32:           out.CRC32,
		ThumbnailBytes:  out.ThumbnailBytes,
		ArchiveBytes:    out.ArchiveBytes,
		ThumbnailWidth:  out.ThumbnailWidth,
		ThumbnailHeight: out.ThumbnailHeight,
	}
}

const entryColumns = `id, run_id, source_path, target_path, entry_name, source_size, source_mtime,
    crc32, thumbnail_bytes, archive_bytes, thumbnail_width, thumbnail_height, created_at`

// Record inserts e and returns it with ID and CreatedAt populated.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx,
			`INSERT INTO packaged_files (
                run_id, source_path, target_path, entry_name, source_size, source_mtime,
                crc32, thumbnail_bytes, archive_bytes, thumbnail_width, thumbnail_height, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.RunID,
			e.SourcePath,
			e.TargetPath,
			e.EntryName,
			e.SourceSize,
			e.SourceModTime.UTC().Format(time.RFC3339Nano),
			int64(e.CRC32),
			e.ThumbnailBytes,
			e.ArchiveBytes,
			e.ThumbnailWidth,
			e.ThumbnailHeight,
			e.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		return execErr
	})
	if err != nil {
		return Entry{}, fmt.Errorf("insert packaged file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("last insert id: %w", err)
	}
	e.ID = id
	return e, nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := "SELECT " + entryColumns + " FROM packaged_files ORDER BY created_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// FindByTarget returns the newest entry written to targetPath, or nil when
// the ledger has no record of it.
func (s *Store) FindByTarget(ctx context.Context, targetPath string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM packaged_files WHERE target_path = ? ORDER BY id DESC LIMIT 1",
		targetPath,
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CountByRun returns how many files a run recorded.
func (s *Store) CountByRun(ctx context.Context, runID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM packaged_files WHERE run_id = ?", runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count run entries: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e         Entry
		crc       int64
		mtime     string
		createdAt string
	)
	if err := row.Scan(
		&e.ID,
		&e.RunID,
		&e.SourcePath,
		&e.TargetPath,
		&e.EntryName,
		&e.SourceSize,
		&mtime,
		&crc,
		&e.ThumbnailBytes,
		&e.ArchiveBytes,
		&e.ThumbnailWidth,
		&e.ThumbnailHeight,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scan packaged file: %w", err)
	}
	e.CRC32 = uint32(crc)
	e.SourceModTime = parseTime(mtime)
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
