package packager

import (
	"archive/zip"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"os"

	"rawpack/internal/failures"
)

type frameResult struct {
	entryName string
	crc       uint32
	payload   int64
	size      int64
}

// writeFrame writes a single-entry stored ZIP holding sourceFile to
// framePath. offset is the number of bytes that will precede the frame in the
// packaged file; every offset in the central directory includes it.
func writeFrame(sourceFile string, info fs.FileInfo, framePath string, offset int64) (frameResult, error) {
	src, err := os.Open(sourceFile)
	if err != nil {
		return frameResult{}, failures.Wrap(failures.ErrIO, stageArchive, "open source", sourceFile, err)
	}
	defer src.Close()

	// The local header must carry the CRC before the payload, so checksum
	// in a first pass and stream the payload in a second.
	sum := crc32.NewIEEE()
	n, err := io.Copy(sum, src)
	if err != nil {
		return frameResult{}, failures.Wrap(failures.ErrIO, stageArchive, "read source", sourceFile, err)
	}
	if n != info.Size() {
		return frameResult{}, failures.Wrap(failures.ErrIO, stageArchive, "read source",
			fmt.Sprintf("size changed from %d to %d bytes", info.Size(), n), nil)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return frameResult{}, failures.Wrap(failures.ErrIO, stageArchive, "rewind source", sourceFile, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return frameResult{}, failures.Wrap(failures.ErrIO, stageArchive, "build header", sourceFile, err)
	}
	header.Name = info.Name()
	header.Method = zip.Store
	header.Modified = info.ModTime()
	header.Extra = append(header.Extra, extendedTimestamp(info.ModTime().Unix())...)
	header.CRC32 = sum.Sum32()
	header.CompressedSize64 = uint64(n)
	header.UncompressedSize64 = uint64(n)

	out, err := os.Create(framePath)
	if err != nil {
		return frameResult{}, failures.Wrap(failures.ErrIO, stageArchive, "create frame", framePath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	zw.SetOffset(offset)
	entry, err := zw.CreateRaw(header)
	if err != nil {
		return frameResult{}, failures.Wrap(failures.ErrIO, stageArchive, "write header", "", err)
	}

	check := crc32.NewIEEE()
	copied, err := io.Copy(io.MultiWriter(entry, check), io.LimitReader(src, n+1))
	if err != nil {
		return frameResult{}, failures.Wrap(failures.ErrIO, stageArchive, "copy payload", sourceFile, err)
	}
	if copied != n {
		return frameResult{}, failures.Wrap(failures.ErrIO, stageArchive, "copy payload",
			fmt.Sprintf("source changed while archiving: expected %d bytes, copied %d", n, copied), nil)
	}
	if check.Sum32() != header.CRC32 {
		return frameResult{}, failures.Wrap(failures.ErrIO, stageArchive, "copy payload", "source changed while archiving: checksum mismatch", nil)
	}

	if err := zw.Close(); err != nil {
		return frameResult{}, failures.Wrap(failures.ErrIO, stageArchive, "finish archive", "", err)
	}
	if err := out.Close(); err != nil {
		return frameResult{}, failures.Wrap(failures.ErrIO, stageArchive, "close frame", framePath, err)
	}

	stat, err := os.Stat(framePath)
	if err != nil {
		return frameResult{}, failures.Wrap(failures.ErrIO, stageArchive, "stat frame", framePath, err)
	}
	return frameResult{
		entryName: header.Name,
		crc:       header.CRC32,
		payload:   n,
		size:      stat.Size(),
	}, nil
}

// extTimeExtraID is the "UT" extended timestamp extra field. CreateRaw does
// not add it on its own, and without it readers only see the two-second,
// zone-less MS-DOS time.
const extTimeExtraID = 0x5455

func extendedTimestamp(unix int64) []byte {
	buf := make([]byte, 9)
	binary.LittleEndian.PutUint16(buf[0:], extTimeExtraID)
	binary.LittleEndian.PutUint16(buf[2:], 5)
	buf[4] = 1
	binary.LittleEndian.PutUint32(buf[5:], uint32(unix))
	return buf
}
