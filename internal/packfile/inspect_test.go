package packfile_test

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rawpack/internal/failures"
	"rawpack/internal/logging"
	"rawpack/internal/packager"
	"rawpack/internal/packfile"
	"rawpack/internal/testsupport"
)

func packageFixture(t *testing.T) (packager.Output, []byte) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	source := filepath.Join(testsupport.BaseDir(cfg), "IMG_7.CR2")
	original := testsupport.WriteRAW(t, source, 400, 300)
	p, err := packager.NewFromConfig(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	out, err := p.PackageFile(t.Context(), source, "")
	if err != nil {
		t.Fatalf("PackageFile: %v", err)
	}
	return out, original
}

func TestVerifyPackagedFile(t *testing.T) {
	out, original := packageFixture(t)

	report, err := packfile.Verify(out.Path)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !report.OK() {
		t.Fatalf("expected report to verify, got %+v", report.Entries)
	}
	if report.ImageFormat != "jpeg" || report.ImageWidth != out.ThumbnailWidth || report.ImageHeight != out.ThumbnailHeight {
		t.Fatalf("unexpected leading image %s %dx%d", report.ImageFormat, report.ImageWidth, report.ImageHeight)
	}
	if report.ImageBytes != out.ThumbnailBytes {
		t.Fatalf("expected archive to start at %d, got %d", out.ThumbnailBytes, report.ImageBytes)
	}
	if report.Size != out.TotalBytes() {
		t.Fatalf("expected size %d, got %d", out.TotalBytes(), report.Size)
	}
	if len(report.Entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(report.Entries))
	}
	entry := report.Entries[0]
	if entry.Name != "IMG_7.CR2" || !entry.Stored() || entry.Size != uint64(len(original)) {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestInspectDoesNotReadPayload(t *testing.T) {
	out, _ := packageFixture(t)

	report, err := packfile.Inspect(out.Path)
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if report.Entries[0].Verified {
		t.Fatal("Inspect should not verify entries")
	}
	if report.OK() {
		t.Fatal("unverified report should not be OK")
	}
}

func TestVerifyDetectsCorruptPayload(t *testing.T) {
	out, _ := packageFixture(t)

	data, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	report, err := packfile.Inspect(out.Path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	data[report.Entries[0].DataOffset+10] ^= 0xFF
	if err := os.WriteFile(out.Path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	report, err = packfile.Verify(out.Path)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if report.OK() {
		t.Fatal("expected corrupt payload to fail verification")
	}
	if !errors.Is(report.Entries[0].Err, zip.ErrChecksum) {
		t.Fatalf("expected checksum error, got %v", report.Entries[0].Err)
	}
}

func TestInspectRejectsNonPackagedFiles(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.jpg")
	testsupport.WriteBytes(t, plain, testsupport.JPEG(t, 32, 32))
	garbage := filepath.Join(dir, "garbage.bin")
	testsupport.WriteFile(t, garbage, 1024)

	cases := []struct {
		name string
		path string
		kind failures.Kind
	}{
		{"plain jpeg", plain, failures.KindDecode},
		{"garbage", garbage, failures.KindDecode},
		{"missing", filepath.Join(dir, "missing.jpg"), failures.KindIO},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := packfile.Inspect(tc.path)
			if kind := failures.KindOf(err); kind != tc.kind {
				t.Fatalf("expected %s error, got %s (%v)", tc.kind, kind, err)
			}
		})
	}
}
