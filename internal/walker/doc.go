// Package walker packages every matching file of a folder, optionally
// descending into subfolders and mirroring them in the output tree.
//
// The walk is strictly sequential. Existing outputs are never overwritten,
// so re-running a walk only fills in what is missing, and a failure on one
// file is reported and then left behind.
package walker
