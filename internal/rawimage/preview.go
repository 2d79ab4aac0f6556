package rawimage

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"
)

const (
	rafMagic        = "FUJIFILMCCD-RAW"
	rafJPEGOffsetAt = 84
	scanChunkSize   = 1 << 20
	maxScanMatches  = 16
)

var soiMarker = []byte{0xFF, 0xD8, 0xFF}

// rafPreview returns the JPEG segment referenced by a Fujifilm RAF header.
func rafPreview(r io.ReaderAt, size int64) (segment, bool) {
	var header [rafJPEGOffsetAt + 8]byte
	if _, err := r.ReadAt(header[:], 0); err != nil {
		return segment{}, false
	}
	if !bytes.HasPrefix(header[:], []byte(rafMagic)) {
		return segment{}, false
	}
	offset := int64(binary.BigEndian.Uint32(header[rafJPEGOffsetAt:]))
	length := int64(binary.BigEndian.Uint32(header[rafJPEGOffsetAt+4:]))
	if offset <= 0 || length <= 0 || offset+length > size {
		return segment{}, false
	}
	return segment{offset: offset, length: length, origin: "raf_preview"}, true
}

// scanMarkers finds up to limit offsets where a JPEG start-of-image marker
// sequence begins. Matches are reported in file order.
func scanMarkers(r io.ReaderAt, size int64, limit int) []int64 {
	var (
		found []int64
		carry []byte
		base  int64
	)
	buf := make([]byte, scanChunkSize)
	for base < size && len(found) < limit {
		n, err := r.ReadAt(buf, base)
		if n == 0 {
			break
		}
		window := append(carry, buf[:n]...)
		windowStart := base - int64(len(carry))
		searchFrom := 0
		for len(found) < limit {
			idx := bytes.Index(window[searchFrom:], soiMarker)
			if idx < 0 {
				break
			}
			found = append(found, windowStart+int64(searchFrom+idx))
			searchFrom += idx + 1
		}
		keep := len(soiMarker) - 1
		if len(window) < keep {
			keep = len(window)
		}
		carry = append([]byte(nil), window[len(window)-keep:]...)
		base += int64(n)
		if err != nil {
			break
		}
	}
	return found
}

// scannedSegments converts marker offsets into candidate segments that run
// to the end of the file; the JPEG decoder stops at its own end marker.
func scannedSegments(offsets []int64, size int64) []segment {
	out := make([]segment, 0, len(offsets))
	for _, off := range offsets {
		out = append(out, segment{offset: off, length: size - off, origin: "marker_scan"})
	}
	return out
}

func sortLargestFirst(segments []segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].length > segments[j].length
	})
}
