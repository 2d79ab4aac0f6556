// Package thumbnail renders the small JPEG that fronts every packaged file.
//
// Two renderers exist. The builtin renderer decodes the camera's embedded
// preview through rawimage, applies the stored orientation, and scales the
// result into the configured bounding box. The ffmpeg renderer delegates
// decoding and scaling to an external ffmpeg binary for formats whose
// previews the builtin decoder cannot reach.
package thumbnail
