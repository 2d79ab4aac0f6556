// Package main hosts the rawpack CLI entrypoint and command graph.
//
// The root command packages a folder of RAW files: each file becomes a JPEG
// thumbnail followed by a stored ZIP of the original. Subcommands scaffold and
// validate configuration, verify packaged files, list the packaging history,
// and run the preflight checks on their own.
//
// Keep this package lean: behaviour lives in the internal packages and the
// commands here only resolve flags, wire components together, and render
// output.
package main
