// Package packager turns one RAW file into a packaged file: a JPEG thumbnail
// immediately followed by a stored single-entry ZIP holding the original
// bytes.
//
// Image viewers read the thumbnail from the front of the file while archive
// tools find the central directory from the end. The archive is written with
// its offsets biased by the thumbnail length so the central directory of the
// final file is absolute, and the local header carries the CRC-32 and sizes so
// streaming readers need no data descriptor.
//
// Each call works in its own temporary directory, which is removed on every
// exit path, and moves the result into place last.
package packager
