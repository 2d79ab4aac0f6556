// Package rawimage decodes a displayable picture out of camera RAW files.
//
// Sensor data itself is never demosaiced. Instead the package locates the
// JPEG previews cameras embed in their RAW containers (TIFF-structured
// formats such as CR2, NEF, ARW, DNG, ORF, RW2 and PEF; Fujifilm RAF; and, by
// marker scan, ISO-BMFF formats such as CR3) and decodes the largest one.
// Files that are already ordinary images decode through the registered
// image decoders.
package rawimage
