package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"rawpack/internal/ledger"
	"rawpack/internal/logging"
	"rawpack/internal/packager"
	"rawpack/internal/testsupport"
	"rawpack/internal/walker"
)

func sampleOutput(name string) packager.Output {
	return packager.Output{
		Source:          "/photos/" + name,
		Path:            "/packed/" + name + ".jpg",
		EntryName:       name,
		SourceSize:      25_000_000,
		SourceModTime:   time.Date(2024, time.March, 3, 9, 15, 0, 0, time.UTC),
		CRC32:           0xDEADBEEF,
		ThumbnailBytes:  48_000,
		ArchiveBytes:    25_000_120,
		ThumbnailWidth:  640,
		ThumbnailHeight: 427,
	}
}

func TestRecordAndFind(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	recorded, err := store.Record(ctx, ledger.EntryFromOutput("run-1", sampleOutput("a.cr2")))
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if recorded.ID == 0 || recorded.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", recorded)
	}

	found, err := store.FindByTarget(ctx, "/packed/a.cr2.jpg")
	if err != nil {
		t.Fatalf("FindByTarget returned error: %v", err)
	}
	if found == nil {
		t.Fatal("expected entry for target")
	}
	if found.CRC32 != 0xDEADBEEF {
		t.Fatalf("crc did not round-trip: %08x", found.CRC32)
	}
	if !found.SourceModTime.Equal(sampleOutput("a.cr2").SourceModTime) {
		t.Fatalf("unexpected source mtime %v", found.SourceModTime)
	}
	if found.RunID != "run-1" || found.ThumbnailWidth != 640 || found.ArchiveBytes != 25_000_120 {
		t.Fatalf("unexpected entry %+v", found)
	}

	missing, err := store.FindByTarget(ctx, "/packed/none.jpg")
	if err != nil || missing != nil {
		t.Fatalf("expected no entry, got %+v (err %v)", missing, err)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	base := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.cr2", "b.cr2", "c.cr2"} {
		entry := ledger.EntryFromOutput("run-1", sampleOutput(name))
		entry.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record %s: %v", name, err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(recent) != 2 || recent[0].EntryName != "c.cr2" || recent[1].EntryName != "b.cr2" {
		t.Fatalf("unexpected recent entries %+v", recent)
	}

	all, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent(0) returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all entries, got %d", len(all))
	}
}

func TestOpenReusesExistingLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	store, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, err := store.Record(context.Background(), ledger.EntryFromOutput("run-1", sampleOutput("a.cr2"))); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()
	n, err := reopened.CountByRun(context.Background(), "run-1")
	if err != nil || n != 1 {
		t.Fatalf("expected one entry after reopen, got %d (err %v)", n, err)
	}
}

func TestOpenRefusesOtherDatabases(t *testing.T) {
	cases := []struct {
		name  string
		setup []string
		want  error
	}{
		{
			name:  "unrelated tables",
			setup: []string{"CREATE TABLE photos (id INTEGER)"},
			want:  ledger.ErrForeignDatabase,
		},
		{
			name: "other application",
			setup: []string{
				"CREATE TABLE schema_version (version INTEGER NOT NULL, purpose TEXT NOT NULL)",
				"INSERT INTO schema_version VALUES (1, 'photo catalogue')",
			},
			want: ledger.ErrForeignDatabase,
		},
		{
			name: "future version",
			setup: []string{
				"CREATE TABLE schema_version (version INTEGER NOT NULL, purpose TEXT NOT NULL)",
				"INSERT INTO schema_version VALUES (99, 'rawpack packaging ledger')",
			},
			want: ledger.ErrSchemaMismatch,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "other.db")
			db, err := sql.Open("sqlite", path)
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			for _, stmt := range tc.setup {
				if _, err := db.Exec(stmt); err != nil {
					t.Fatalf("exec %q: %v", stmt, err)
				}
			}
			if err := db.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}

			store, err := ledger.Open(path)
			if err == nil {
				store.Close()
				t.Fatal("expected Open to refuse the database")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := ledger.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestReporterRecordsCreatedOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	rep := ledger.NewReporter(t.Context(), store, "run-9", logging.NewNop())

	rep.Report(walker.Result{Outcome: walker.OutcomeCreated, Target: "/packed/a.cr2.jpg", Output: sampleOutput("a.cr2")})
	rep.Report(walker.Result{Outcome: walker.OutcomeExists, Target: "/packed/b.cr2.jpg"})
	rep.Report(walker.Result{Outcome: walker.OutcomeFailed, Source: "/photos/c.cr2", Err: errors.New("boom")})

	n, err := store.CountByRun(context.Background(), "run-9")
	if err != nil {
		t.Fatalf("CountByRun: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one recorded entry, got %d", n)
	}
}
