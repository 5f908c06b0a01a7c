package workspace

import (
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Exclusions decides whether a file is excluded from analysis using
// gitignore-style patterns relative to a root directory.
type Exclusions struct {
	root    string
	matcher *ignore.GitIgnore
}

// NewExclusions compiles patterns relative to root
func NewExclusions(root string, patterns []string) *Exclusions {
	lines := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		lines = append(lines, p)
	}
	return &Exclusions{
		root:    root,
		matcher: ignore.CompileIgnoreLines(lines...),
	}
}

// IsExcluded reports whether path matches an exclusion pattern.
// Paths outside the root are never excluded.
func (e *Exclusions) IsExcluded(path string) bool {
	if e == nil || e.matcher == nil {
		return false
	}
	rel, err := filepath.Rel(e.root, filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return e.matcher.MatchesPath(filepath.ToSlash(rel))
}
