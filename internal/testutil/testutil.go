// Package testutil provides helper functions for testing rsbridge components
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to dir/rel, creating parent directories, and returns the full path
func WriteFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", rel, err)
	}
	return path
}

// SolutionFile renders a minimal .sln document declaring the given projects.
// Each project is a name and a solution-relative project file path.
func SolutionFile(projects ...[2]string) string {
	content := "\nMicrosoft Visual Studio Solution File, Format Version 12.00\n"
	for i, p := range projects {
		content += `Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "` + p[0] + `", "` + p[1] +
			`", "{00000000-0000-0000-0000-00000000000` + string(rune('0'+i%10)) + `}"` + "\nEndProject\n"
	}
	return content + "Global\nEndGlobal\n"
}

// Chdir changes the working directory to dir and restores it when the test ends
func Chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("Failed to restore working directory: %v", err)
		}
	})
}
