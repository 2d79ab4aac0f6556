package testsupport

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
)

// JPEG encodes a w×h gradient as a baseline JPEG.
func JPEG(t testing.TB, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / max(w, 1)), G: uint8(y * 255 / max(h, 1)), B: 0x80, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// WithOrientation inserts an EXIF APP1 segment carrying orientation right
// after the start-of-image marker of jpegData.
func WithOrientation(jpegData []byte, orientation int) []byte {
	tiffBlock := make([]byte, 8+2+12+4)
	copy(tiffBlock, "II")
	binary.LittleEndian.PutUint16(tiffBlock[2:], 42)
	binary.LittleEndian.PutUint32(tiffBlock[4:], 8)
	binary.LittleEndian.PutUint16(tiffBlock[8:], 1)
	binary.LittleEndian.PutUint16(tiffBlock[10:], 0x0112)
	binary.LittleEndian.PutUint16(tiffBlock[12:], 3)
	binary.LittleEndian.PutUint32(tiffBlock[14:], 1)
	binary.LittleEndian.PutUint16(tiffBlock[18:], uint16(orientation))

	payload := append([]byte("Exif\x00\x00"), tiffBlock...)
	segment := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(segment[2:], uint16(len(payload)+2))
	segment = append(segment, payload...)

	out := make([]byte, 0, len(jpegData)+len(segment))
	out = append(out, jpegData[:2]...)
	out = append(out, segment...)
	return append(out, jpegData[2:]...)
}

type tiffEntry struct {
	tag   uint16
	typ   uint16
	value uint32
}

// TIFF builds a TIFF-structured RAW container. Each preview lives in its own
// IFD of the main chain: even IFDs reference theirs through the JPEG
// interchange tags, odd IFDs through a single old-JPEG strip, the way CR2 and
// NEF files do. Orientation 0 omits the tag.
func TIFF(order binary.ByteOrder, orientation int, previews ...[]byte) []byte {
	ifds := make([][]tiffEntry, len(previews))
	for i := range previews {
		var entries []tiffEntry
		if i == 0 && orientation > 0 {
			entries = append(entries, tiffEntry{tag: 0x0112, typ: 3, value: uint32(orientation)})
		}
		if i%2 == 0 {
			entries = append(entries, tiffEntry{tag: 0x0201, typ: 4}, tiffEntry{tag: 0x0202, typ: 4})
		} else {
			entries = append(entries, tiffEntry{tag: 0x0103, typ: 3, value: 6}, tiffEntry{tag: 0x0111, typ: 4}, tiffEntry{tag: 0x0117, typ: 4})
		}
		ifds[i] = entries
	}

	pos := 8
	ifdStart := make([]int, len(ifds))
	for i, entries := range ifds {
		ifdStart[i] = pos
		pos += 2 + 12*len(entries) + 4
	}
	dataStart := make([]int, len(previews))
	for i, p := range previews {
		dataStart[i] = pos
		pos += len(p)
	}

	buf := make([]byte, pos)
	if order == binary.BigEndian {
		copy(buf, "MM")
	} else {
		copy(buf, "II")
	}
	order.PutUint16(buf[2:], 42)
	if len(ifds) > 0 {
		order.PutUint32(buf[4:], uint32(ifdStart[0]))
	}

	for i, entries := range ifds {
		off := ifdStart[i]
		order.PutUint16(buf[off:], uint16(len(entries)))
		for j, e := range entries {
			switch e.tag {
			case 0x0201, 0x0111:
				e.value = uint32(dataStart[i])
			case 0x0202, 0x0117:
				e.value = uint32(len(previews[i]))
			}
			eo := off + 2 + 12*j
			order.PutUint16(buf[eo:], e.tag)
			order.PutUint16(buf[eo+2:], e.typ)
			order.PutUint32(buf[eo+4:], 1)
			if e.typ == 3 {
				order.PutUint16(buf[eo+8:], uint16(e.value))
			} else {
				order.PutUint32(buf[eo+8:], e.value)
			}
		}
		next := 0
		if i+1 < len(ifds) {
			next = ifdStart[i+1]
		}
		order.PutUint32(buf[off+2+12*len(entries):], uint32(next))
		copy(buf[dataStart[i]:], previews[i])
	}
	return buf
}

// RAF builds a Fujifilm RAF header pointing at preview.
func RAF(preview []byte) []byte {
	const headerSize = 100
	buf := make([]byte, headerSize+len(preview)+64)
	copy(buf, "FUJIFILMCCD-RAW 0201FF383501")
	binary.BigEndian.PutUint32(buf[84:], headerSize)
	binary.BigEndian.PutUint32(buf[88:], uint32(len(preview)))
	copy(buf[headerSize:], preview)
	return buf
}

// SensorNoise returns n deterministic pseudo-random bytes standing in for
// undecodable sensor data.
func SensorNoise(n int) []byte {
	rng := rand.New(rand.NewPCG(1, 2))
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(rng.UintN(256))
	}
	return out
}

// WriteRAW writes a little-endian TIFF-structured RAW file with a 160×120
// thumbnail, a w×h preview, and trailing sensor noise. It returns the bytes
// written.
func WriteRAW(t testing.TB, path string, w, h int) []byte {
	t.Helper()

	data := TIFF(binary.LittleEndian, 1, JPEG(t, 160, 120), JPEG(t, w, h))
	data = append(data, SensorNoise(8*1024)...)
	WriteBytes(t, path, data)
	return data
}

// WriteBytes writes data to path, creating parent directories.
func WriteBytes(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
