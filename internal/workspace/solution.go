// Package workspace models the solution a report refers to and answers the
// path questions the violation resolver asks: where a report-relative file
// lives, which project it belongs to, and whether it can be represented as
// an analyzable unit at all.
package workspace

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNotRepresentable is returned when a file lies outside the solution tree
var ErrNotRepresentable = errors.New("file is outside the solution source tree")

// solutionFolderType is the project type GUID Visual Studio uses for solution folders
const solutionFolderType = "2150E333-8FDC-42A3-9474-1A3956D46DE8"

// Project("{type}") = "Name", "relative\path.csproj", "{guid}"
var projectLine = regexp.MustCompile(`^Project\("\{([0-9A-Fa-f-]+)\}"\)\s*=\s*"([^"]+)",\s*"([^"]+)",\s*"\{[0-9A-Fa-f-]+\}"`)

// Project is one project of a solution
type Project struct {
	Name string
	File string // absolute path of the project file, empty when unknown
	Dir  string // absolute directory holding the project sources
}

// Contains reports whether path lies inside the project directory
func (p Project) Contains(path string) bool {
	if p.Dir == "" {
		return false
	}
	rel, err := filepath.Rel(p.Dir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// Solution is a set of projects sharing a root directory
type Solution struct {
	File     string
	Dir      string
	Projects []Project
}

// NewSolution creates a solution rooted at dir with the given projects
func NewSolution(dir string, projects ...Project) *Solution {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = filepath.Clean(dir)
	}
	return &Solution{Dir: abs, Projects: projects}
}

// LoadSolution reads a .sln file and discovers its projects
func LoadSolution(path string) (*Solution, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve solution path %s: %w", path, err)
	}

	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open solution %s: %w", abs, err)
	}
	defer file.Close()

	sln := &Solution{File: abs, Dir: filepath.Dir(abs)}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		m := projectLine.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m == nil {
			continue
		}
		if strings.EqualFold(m[1], solutionFolderType) {
			continue
		}
		projectFile := sln.Resolve(m[3])
		sln.Projects = append(sln.Projects, Project{
			Name: m[2],
			File: projectFile,
			Dir:  filepath.Dir(projectFile),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read solution %s: %w", abs, err)
	}

	return sln, nil
}

// Resolve turns a solution-relative path (either separator style) into an absolute path
func (s *Solution) Resolve(rel string) string {
	normalized := filepath.FromSlash(strings.ReplaceAll(rel, `\`, "/"))
	if filepath.IsAbs(normalized) {
		return filepath.Clean(normalized)
	}
	return filepath.Join(s.Dir, normalized)
}

// FileUnit returns the solution-relative, slash-separated path of an absolute
// file path, or ErrNotRepresentable when the file escapes the solution tree.
func (s *Solution) FileUnit(path string) (string, error) {
	rel, err := filepath.Rel(s.Dir, filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotRepresentable, path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrNotRepresentable, path)
	}
	return filepath.ToSlash(rel), nil
}

// Project returns the project with the given name (exact match)
func (s *Solution) Project(name string) (Project, bool) {
	for _, p := range s.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return Project{}, false
}

// ProjectNames returns the names of every project in solution order
func (s *Solution) ProjectNames() []string {
	names := make([]string, 0, len(s.Projects))
	for _, p := range s.Projects {
		names = append(names, p.Name)
	}
	return names
}
