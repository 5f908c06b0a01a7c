package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ludo-technologies/rsbridge/domain"
)

// FileHelper provides file operation utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// IsSolutionFile checks the .sln extension
func (h *FileHelper) IsSolutionFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".sln")
}

// FileExists checks if a regular file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// FindSolutions lists the .sln files directly inside dir, sorted
func (h *FileHelper) FindSolutions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var solutions []string
	for _, e := range entries {
		if !e.IsDir() && h.IsSolutionFile(e.Name()) {
			solutions = append(solutions, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(solutions)
	return solutions, nil
}

// ResolveSolutionPath turns path into an absolute solution file. A directory
// is accepted when it holds exactly one solution.
func ResolveSolutionPath(fileHelper *FileHelper, path string) (string, error) {
	if path == "" {
		return "", domain.NewInvalidInputError("a solution file is required (analysis.solution or the solution argument)", nil)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", domain.NewInvalidInputError(fmt.Sprintf("invalid solution path %s", path), err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", domain.NewNotFoundError(fmt.Sprintf("solution %s not found", path), err)
	}

	if !info.IsDir() {
		if !fileHelper.IsSolutionFile(abs) {
			return "", domain.NewInvalidInputError(fmt.Sprintf("not a solution file: %s", path), nil)
		}
		return abs, nil
	}

	solutions, err := fileHelper.FindSolutions(abs)
	if err != nil {
		return "", domain.NewNotFoundError(fmt.Sprintf("unable to list %s", path), err)
	}
	switch len(solutions) {
	case 0:
		return "", domain.NewNotFoundError(fmt.Sprintf("no solution file in %s", path), nil)
	case 1:
		return solutions[0], nil
	default:
		names := make([]string, len(solutions))
		for i, s := range solutions {
			names[i] = filepath.Base(s)
		}
		return "", domain.NewInvalidInputError(
			fmt.Sprintf("%s holds several solutions (%s); pass one explicitly", path, strings.Join(names, ", ")), nil)
	}
}
