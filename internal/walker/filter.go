package walker

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"rawpack/internal/failures"
)

// FilterOptions controls which directory entries a walk considers.
type FilterOptions struct {
	// CaseInsensitive matches names and pattern after Unicode case folding.
	CaseInsensitive bool
	// IncludeHidden admits names that start with a dot.
	IncludeHidden bool
}

type matcher struct {
	pattern string
	opts    FilterOptions
	fold    cases.Caser
}

// ValidateFilter reports whether pattern is a usable glob.
func ValidateFilter(pattern string) error {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return failures.Argumentf("invalid filter %q: %v", pattern, err)
	}
	return nil
}

func newMatcher(pattern string, opts FilterOptions) matcher {
	m := matcher{pattern: pattern, opts: opts}
	if opts.CaseInsensitive {
		m.fold = cases.Fold()
		m.pattern = m.fold.String(pattern)
	}
	return m
}

func (m matcher) hidden(name string) bool {
	return !m.opts.IncludeHidden && strings.HasPrefix(name, ".")
}

// matches applies the glob to a file name. An empty pattern admits all files.
func (m matcher) matches(name string) bool {
	if m.hidden(name) {
		return false
	}
	if m.pattern == "" {
		return true
	}
	if m.opts.CaseInsensitive {
		name = m.fold.String(name)
	}
	ok, err := filepath.Match(m.pattern, name)
	return err == nil && ok
}
