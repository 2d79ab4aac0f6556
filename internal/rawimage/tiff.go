package rawimage

import (
	"encoding/binary"
	"io"

	"github.com/rwcarlsen/goexif/tiff"
)

const (
	tagCompression     = 0x0103
	tagStripOffsets    = 0x0111
	tagOrientation     = 0x0112
	tagStripByteCounts = 0x0117
	tagSubIFDs         = 0x014A
	tagJPEGOffset      = 0x0201
	tagJPEGLength      = 0x0202
	tagExifIFD         = 0x8769
	maxIFDs            = 64
	compressionOldJPEG = 6
	compressionJPEG    = 7
)

// segment is a byte range inside the file that may hold a JPEG stream.
type segment struct {
	offset int64
	length int64
	origin string
}

type tiffLayout struct {
	segments    []segment
	orientation int
}

// tiffOrder reads the 8-byte TIFF header. Besides the standard magic 42 it
// accepts the Olympus (IIRO, IIRS) and Panasonic (IIU) variants, whose IFDs
// are plain TIFF.
func tiffOrder(r io.ReaderAt) (binary.ByteOrder, int64, bool) {
	var header [8]byte
	if _, err := r.ReadAt(header[:], 0); err != nil {
		return nil, 0, false
	}
	var order binary.ByteOrder
	switch string(header[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return nil, 0, false
	}
	switch order.Uint16(header[2:4]) {
	case 42, 0x4F52, 0x5352, 0x0055:
		return order, int64(order.Uint32(header[4:8])), true
	default:
		return nil, 0, false
	}
}

// parseTIFF walks the IFD tree of a TIFF-structured RAW file and collects
// embedded JPEG candidates and the IFD0 orientation. ok is false when r does
// not start with a TIFF header.
func parseTIFF(r io.ReaderAt, size int64) (tiffLayout, bool) {
	order, first, ok := tiffOrder(r)
	if !ok {
		return tiffLayout{}, false
	}
	w := &ifdWalker{
		src:     io.NewSectionReader(r, 0, size),
		size:    size,
		order:   order,
		visited: map[int64]bool{},
	}
	w.chain(first, true)
	return w.layout, true
}

type ifdWalker struct {
	src     *io.SectionReader
	size    int64
	order   binary.ByteOrder
	visited map[int64]bool
	layout  tiffLayout
}

func (w *ifdWalker) chain(offset int64, ifd0 bool) {
	for offset > 0 && offset < w.size && !w.visited[offset] && len(w.visited) < maxIFDs {
		w.visited[offset] = true
		if _, err := w.src.Seek(offset, io.SeekStart); err != nil {
			return
		}
		dir, next, err := tiff.DecodeDir(w.src, w.order)
		if err != nil {
			return
		}
		w.dir(dir, ifd0)
		ifd0 = false
		offset = int64(next)
	}
}

func (w *ifdWalker) dir(dir *tiff.Dir, ifd0 bool) {
	tags := make(map[uint16]*tiff.Tag, len(dir.Tags))
	for _, t := range dir.Tags {
		tags[t.Id] = t
	}

	if ifd0 {
		if o, ok := firstInt(tags[tagOrientation]); ok {
			w.layout.orientation = int(o)
		}
	}

	offset, okOffset := firstInt(tags[tagJPEGOffset])
	length, okLength := firstInt(tags[tagJPEGLength])
	if okOffset && okLength {
		w.add(offset, length, "jpeg_interchange")
	}

	strips, lengths := tags[tagStripOffsets], tags[tagStripByteCounts]
	if compression, ok := firstInt(tags[tagCompression]); ok &&
		(compression == compressionOldJPEG || compression == compressionJPEG) &&
		strips != nil && lengths != nil && strips.Count == 1 && lengths.Count == 1 {
		offset, _ := firstInt(strips)
		length, _ := firstInt(lengths)
		w.add(offset, length, "jpeg_strip")
	}

	var children []int64
	if sub := tags[tagSubIFDs]; sub != nil && sub.Count <= maxIFDs {
		for i := 0; i < int(sub.Count); i++ {
			if v, err := sub.Int64(i); err == nil {
				children = append(children, v)
			}
		}
	}
	if exifIFD, ok := firstInt(tags[tagExifIFD]); ok {
		children = append(children, exifIFD)
	}
	for _, child := range children {
		w.chain(child, false)
	}
}

func (w *ifdWalker) add(offset, length int64, origin string) {
	if offset <= 0 || length <= 0 || offset+length > w.size {
		return
	}
	w.layout.segments = append(w.layout.segments, segment{offset: offset, length: length, origin: origin})
}

// firstInt returns the first integer value of t.
func firstInt(t *tiff.Tag) (int64, bool) {
	if t == nil || t.Count == 0 {
		return 0, false
	}
	v, err := t.Int64(0)
	if err != nil {
		return 0, false
	}
	return v, true
}
