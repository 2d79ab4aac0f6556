package preflight

import (
	"rawpack/internal/config"
	"rawpack/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Advisory results are reported but never stop a pack run.
	Advisory bool
}

// Targets names the folders of one pack run. Empty fields are not checked.
type Targets struct {
	SourceFolder string
	OutputFolder string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config, targets Targets) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if targets.SourceFolder != "" {
		results = append(results, CheckReadableDirectory("Source folder", targets.SourceFolder))
	}
	if targets.OutputFolder != "" {
		results = append(results, CheckDirectoryAccess("Output folder", targets.OutputFolder))
		if cfg.Preflight.MinFreeMiB > 0 {
			space := CheckFreeSpace("Output free space", targets.OutputFolder, uint64(cfg.Preflight.MinFreeMiB))
			space.Advisory = true
			results = append(results, space)
		}
	}
	if cfg.Paths.TempDir != "" {
		results = append(results, CheckDirectoryAccess("Temp directory", cfg.Paths.TempDir))
	}
	if cfg.Ledger.Enabled {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}
	for _, status := range deps.CheckBinaries(deps.RendererRequirements(cfg)) {
		results = append(results, fromStatus(status))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// Blocking returns the failed results that must stop a pack run. A full disk
// is left to fail the individual files that no longer fit.
func Blocking(results []Result) []Result {
	var out []Result
	for _, r := range Failed(results) {
		if !r.Advisory {
			out = append(out, r)
		}
	}
	return out
}

// Warnings returns the failed advisory results.
func Warnings(results []Result) []Result {
	var out []Result
	for _, r := range Failed(results) {
		if r.Advisory {
			out = append(out, r)
		}
	}
	return out
}

func fromStatus(s deps.Status) Result {
	if s.Available {
		return Result{Name: s.Name, Passed: true, Detail: s.Resolved}
	}
	return Result{Name: s.Name, Passed: !s.Blocking(), Detail: s.Detail}
}
