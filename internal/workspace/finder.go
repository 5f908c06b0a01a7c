package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// skipDirs are never descended into while matching patterns
var skipDirs = map[string]bool{
	".git": true,
	".vs":  true,
	"bin":  true,
	"obj":  true,
}

// FindFiles returns the files matching pattern, sorted and without duplicates.
//
// Relative patterns are tried against the project directory first (when
// project is non-nil) and then against the solution directory. Patterns may
// use *, ?, [..], {a,b} and ** (which crosses directory boundaries).
func (s *Solution) FindFiles(project *Project, pattern string) ([]string, error) {
	pattern = strings.TrimSpace(strings.ReplaceAll(pattern, `\`, "/"))
	if pattern == "" {
		return nil, nil
	}

	var bases []string
	if filepath.IsAbs(filepath.FromSlash(pattern)) {
		bases = []string{""}
	} else {
		if project != nil && project.Dir != "" {
			bases = append(bases, project.Dir)
		}
		bases = append(bases, s.Dir)
	}

	seen := make(map[string]bool)
	var found []string
	for _, base := range bases {
		matches, err := findInBase(base, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				found = append(found, m)
			}
		}
		if len(found) > 0 {
			break
		}
	}

	sort.Strings(found)
	return found, nil
}

func findInBase(base, pattern string) ([]string, error) {
	if !isGlobPattern(pattern) {
		path := filepath.FromSlash(pattern)
		if base != "" {
			path = filepath.Join(base, path)
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return []string{filepath.Clean(path)}, nil
		}
		return nil, nil
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}

	root := base
	if root == "" {
		root = filepath.FromSlash(staticPrefix(pattern))
	}
	if _, err := os.Stat(root); err != nil {
		return nil, nil
	}

	var matches []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		candidate := filepath.ToSlash(path)
		if base != "" {
			rel, err := filepath.Rel(base, path)
			if err != nil {
				return nil
			}
			candidate = filepath.ToSlash(rel)
		}
		if g.Match(candidate) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func isGlobPattern(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// staticPrefix returns the directory part of pattern before its first wildcard
func staticPrefix(pattern string) string {
	i := strings.IndexAny(pattern, "*?[{")
	if i < 0 {
		return filepath.Dir(pattern)
	}
	prefix := pattern[:i]
	slash := strings.LastIndex(prefix, "/")
	if slash <= 0 {
		return "/"
	}
	return prefix[:slash]
}
