// Package preflight provides readiness checks for the folders and programs
// a pack run depends on.
//
// These checks run in two contexts:
//   - The pack command calls RunAll before touching any file. A failed check
//     stops the run before the first file is packaged.
//   - The CLI "rawpack check" command prints every result as a table.
//
// Checks for optional features are skipped when the feature is disabled.
package preflight
