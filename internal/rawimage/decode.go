package rawimage

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNoImage is returned when no embedded preview or recognised image format
// could be decoded.
var ErrNoImage = errors.New("no decodable image found")

// Info describes where a decoded picture came from.
type Info struct {
	// Origin is jpeg_interchange, jpeg_strip, raf_preview, marker_scan, or the
	// format name reported by image.Decode.
	Origin      string
	Orientation int
	Offset      int64
	Length      int64
	Width       int
	Height      int
}

// DecodeFile opens path and decodes it with Decode.
func DecodeFile(path string) (image.Image, Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Info{}, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, Info{}, err
	}
	return Decode(f, stat.Size())
}

// Decode returns the best picture available in r. Embedded previews are
// preferred, largest first; the whole stream is then offered to the
// registered image decoders, and finally a marker scan looks for JPEG
// streams in containers this package does not parse.
func Decode(r io.ReaderAt, size int64) (image.Image, Info, error) {
	if size <= 0 {
		return nil, Info{}, fmt.Errorf("%w: empty file", ErrNoImage)
	}

	var (
		candidates  []segment
		orientation int
	)
	if layout, ok := parseTIFF(r, size); ok {
		candidates = append(candidates, layout.segments...)
		orientation = layout.orientation
	}
	if seg, ok := rafPreview(r, size); ok {
		candidates = append(candidates, seg)
	}
	sortLargestFirst(candidates)

	if img, info, ok := decodeFirst(r, candidates); ok {
		info.Orientation = pickOrientation(orientation, r, info)
		return img, info, nil
	}

	if img, format, err := image.Decode(io.NewSectionReader(r, 0, size)); err == nil {
		b := img.Bounds()
		info := Info{Origin: format, Length: size, Width: b.Dx(), Height: b.Dy(), Orientation: orientation}
		if format == "jpeg" {
			info.Orientation = pickOrientation(orientation, r, info)
		}
		return img, info, nil
	}

	scanned := scannedSegments(scanMarkers(r, size, maxScanMatches), size)
	if img, info, ok := decodeLargest(r, scanned); ok {
		info.Orientation = pickOrientation(orientation, r, info)
		return img, info, nil
	}

	return nil, Info{}, ErrNoImage
}

func decodeFirst(r io.ReaderAt, candidates []segment) (image.Image, Info, bool) {
	for _, seg := range candidates {
		if img, ok := decodeSegment(r, seg); ok {
			return img, segmentInfo(seg, img), true
		}
	}
	return nil, Info{}, false
}

// decodeLargest decodes every candidate and keeps the one with the most
// pixels. Marker scans find embedded thumbnails as well as full previews, and
// segment lengths say nothing about which is which.
func decodeLargest(r io.ReaderAt, candidates []segment) (image.Image, Info, bool) {
	var (
		best     image.Image
		bestSeg  segment
		bestArea int
	)
	for _, seg := range candidates {
		img, ok := decodeSegment(r, seg)
		if !ok {
			continue
		}
		b := img.Bounds()
		if area := b.Dx() * b.Dy(); area > bestArea {
			best, bestSeg, bestArea = img, seg, area
		}
	}
	if best == nil {
		return nil, Info{}, false
	}
	return best, segmentInfo(bestSeg, best), true
}

func decodeSegment(r io.ReaderAt, seg segment) (image.Image, bool) {
	var soi [2]byte
	if _, err := r.ReadAt(soi[:], seg.offset); err != nil || soi[0] != 0xFF || soi[1] != 0xD8 {
		return nil, false
	}
	img, err := jpeg.Decode(io.NewSectionReader(r, seg.offset, seg.length))
	if err != nil {
		return nil, false
	}
	return img, true
}

func segmentInfo(seg segment, img image.Image) Info {
	b := img.Bounds()
	return Info{
		Origin: seg.origin,
		Offset: seg.offset,
		Length: seg.length,
		Width:  b.Dx(),
		Height: b.Dy(),
	}
}

// pickOrientation prefers the container's orientation and falls back to the
// EXIF block inside the decoded JPEG stream.
func pickOrientation(container int, r io.ReaderAt, info Info) int {
	if container >= 1 && container <= 8 {
		return container
	}
	if o := jpegOrientation(r, info.Offset, info.Length); o >= 1 && o <= 8 {
		return o
	}
	return 1
}
