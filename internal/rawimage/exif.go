package rawimage

import (
	"io"

	"github.com/rwcarlsen/goexif/exif"
)

// jpegOrientation returns the orientation stored in the EXIF APP1 block of
// the JPEG stream at offset, or 0.
func jpegOrientation(r io.ReaderAt, offset, length int64) int {
	if length <= 0 {
		return 0
	}
	// A failing sub-IFD still leaves the fields parsed before it, so only a
	// nil result is fatal here.
	x, _ := exif.Decode(io.NewSectionReader(r, offset, length))
	if x == nil {
		return 0
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0
	}
	o, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return o
}
