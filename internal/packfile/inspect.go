package packfile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"io"
	"os"
	"time"

	"rawpack/internal/failures"
)

var localHeaderSig = []byte("PK\x03\x04")

// Entry describes one archive member.
type Entry struct {
	Name           string
	Method         uint16
	Size           uint64
	CompressedSize uint64
	Modified       time.Time
	CRC32          uint32
	DataOffset     int64
	Verified       bool
	Err            error
}

// Stored reports whether the entry is kept without compression.
func (e Entry) Stored() bool {
	return e.Method == zip.Store
}

// Report is the result of inspecting a packaged file.
type Report struct {
	Path        string
	Size        int64
	ImageFormat string
	ImageWidth  int
	ImageHeight int
	// ImageBytes is the offset of the first archive header, which is the
	// length of the leading image.
	ImageBytes int64
	Entries    []Entry
}

// OK reports whether every entry was verified without error.
func (r Report) OK() bool {
	if len(r.Entries) == 0 {
		return false
	}
	for _, e := range r.Entries {
		if e.Err != nil || !e.Verified {
			return false
		}
	}
	return true
}

// Inspect reads the leading image header and the archive directory of path.
func Inspect(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, failures.Wrap(failures.ErrIO, "inspect", "open", path, err)
	}
	defer f.Close()
	return inspect(f, path, false)
}

// Verify inspects path and reads every entry through to check its CRC-32.
// Nothing is written to disk.
func Verify(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, failures.Wrap(failures.ErrIO, "verify", "open", path, err)
	}
	defer f.Close()
	return inspect(f, path, true)
}

func inspect(f *os.File, path string, verify bool) (Report, error) {
	info, err := f.Stat()
	if err != nil {
		return Report{}, failures.Wrap(failures.ErrIO, "inspect", "stat", path, err)
	}
	report := Report{Path: path, Size: info.Size()}

	cfg, format, err := image.DecodeConfig(io.NewSectionReader(f, 0, info.Size()))
	if err != nil {
		return report, failures.Wrap(failures.ErrDecode, "inspect", "leading image", path, err)
	}
	report.ImageFormat = format
	report.ImageWidth = cfg.Width
	report.ImageHeight = cfg.Height

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return report, failures.Wrap(failures.ErrDecode, "inspect", "archive", path, err)
	}

	for i, zf := range zr.File {
		entry := Entry{
			Name:           zf.Name,
			Method:         zf.Method,
			Size:           zf.UncompressedSize64,
			CompressedSize: zf.CompressedSize64,
			Modified:       zf.Modified,
			CRC32:          zf.CRC32,
		}
		if entry.DataOffset, err = zf.DataOffset(); err != nil {
			entry.Err = err
		}
		if i == 0 && entry.Err == nil {
			report.ImageBytes = headerStart(f, entry.DataOffset, len(zf.Name))
		}
		if verify && entry.Err == nil {
			entry.Err = checkEntry(zf)
			entry.Verified = entry.Err == nil
		}
		report.Entries = append(report.Entries, entry)
	}
	return report, nil
}

func checkEntry(zf *zip.File) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	n, err := io.Copy(io.Discard, rc)
	if err != nil {
		return err
	}
	if uint64(n) != zf.UncompressedSize64 {
		return fmt.Errorf("%s: read %d of %d bytes", zf.Name, n, zf.UncompressedSize64)
	}
	return nil
}

// headerStart finds the local file header that precedes dataOffset. The
// header is 30 bytes plus the name and a variable extra field, so search
// backwards for its signature.
func headerStart(r io.ReaderAt, dataOffset int64, nameLen int) int64 {
	const fixed = 30
	end := dataOffset - int64(fixed+nameLen) + int64(len(localHeaderSig))
	start := max(0, end-0xFFFF-int64(len(localHeaderSig)))
	if end <= start {
		return -1
	}
	buf := make([]byte, end-start)
	if _, err := r.ReadAt(buf, start); err != nil && err != io.EOF {
		return -1
	}
	idx := bytes.LastIndex(buf, localHeaderSig)
	if idx < 0 {
		return -1
	}
	return start + int64(idx)
}
