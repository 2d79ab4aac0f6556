// Package failures defines the error taxonomy shared by the packaging
// pipeline.
//
// Every error that crosses a package boundary is tagged with one of the
// sentinel markers below so the walker and the CLI can classify it without
// string matching. Argument and path errors end a run before any file is
// touched; decode and I/O errors are confined to the file that raised them.
package failures
