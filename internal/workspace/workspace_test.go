package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleSolution = `
Microsoft Visual Studio Solution File, Format Version 12.00
# Visual Studio 14
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Core", "src\Core\Core.csproj", "{11111111-1111-1111-1111-111111111111}"
EndProject
Project("{2150E333-8FDC-42A3-9474-1A3956D46DE8}") = "Solution Items", "Solution Items", "{22222222-2222-2222-2222-222222222222}"
EndProject
Project("{F184B08F-C81C-45F6-A57F-5ABD9991F28F}") = "Web", "src\Web\Web.vbproj", "{33333333-3333-3333-3333-333333333333}"
EndProject
Global
EndGlobal
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestLoadSolution(t *testing.T) {
	dir := t.TempDir()
	slnPath := filepath.Join(dir, "App.sln")
	writeFile(t, slnPath, sampleSolution)

	sln, err := LoadSolution(slnPath)
	if err != nil {
		t.Fatalf("LoadSolution failed: %v", err)
	}

	if sln.Dir != dir {
		t.Errorf("Expected dir %s, got %s", dir, sln.Dir)
	}
	if len(sln.Projects) != 2 {
		t.Fatalf("Expected 2 projects (solution folder skipped), got %d: %+v", len(sln.Projects), sln.Projects)
	}

	core, ok := sln.Project("Core")
	if !ok {
		t.Fatal("Core project not found")
	}
	if core.Dir != filepath.Join(dir, "src", "Core") {
		t.Errorf("Unexpected Core dir: %s", core.Dir)
	}
	if _, ok := sln.Project("core"); ok {
		t.Error("Project lookup must be case-sensitive")
	}

	names := sln.ProjectNames()
	if len(names) != 2 || names[0] != "Core" || names[1] != "Web" {
		t.Errorf("Unexpected project names: %v", names)
	}
}

func TestLoadSolution_NotFound(t *testing.T) {
	if _, err := LoadSolution("/nonexistent/App.sln"); err == nil {
		t.Error("Expected error for missing solution")
	}
}

func TestSolution_Resolve(t *testing.T) {
	sln := NewSolution("/work/app")

	tests := []struct {
		input    string
		expected string
	}{
		{`src\Core\A.cs`, filepath.FromSlash("/work/app/src/Core/A.cs")},
		{"src/Core/A.cs", filepath.FromSlash("/work/app/src/Core/A.cs")},
		{"../other/B.cs", filepath.FromSlash("/work/other/B.cs")},
		{"/abs/C.cs", filepath.FromSlash("/abs/C.cs")},
	}

	for _, tt := range tests {
		if got := sln.Resolve(tt.input); got != tt.expected {
			t.Errorf("Resolve(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestSolution_FileUnit(t *testing.T) {
	sln := NewSolution("/work/app")

	unit, err := sln.FileUnit(filepath.FromSlash("/work/app/src/Core/A.cs"))
	if err != nil {
		t.Fatalf("FileUnit failed: %v", err)
	}
	if unit != "src/Core/A.cs" {
		t.Errorf("Expected 'src/Core/A.cs', got %q", unit)
	}

	_, err = sln.FileUnit(filepath.FromSlash("/work/other/B.cs"))
	if !errors.Is(err, ErrNotRepresentable) {
		t.Errorf("Expected ErrNotRepresentable, got %v", err)
	}
}

func TestProject_Contains(t *testing.T) {
	p := Project{Name: "Core", Dir: filepath.FromSlash("/work/app/src/Core")}

	tests := []struct {
		path     string
		expected bool
	}{
		{"/work/app/src/Core/A.cs", true},
		{"/work/app/src/Core/sub/B.cs", true},
		{"/work/app/src/CoreExtra/C.cs", false},
		{"/work/app/src/Web/D.cs", false},
		{"/work/app/src/Core/../Web/E.cs", false},
	}

	for _, tt := range tests {
		if got := p.Contains(filepath.FromSlash(tt.path)); got != tt.expected {
			t.Errorf("Contains(%q) = %v, expected %v", tt.path, got, tt.expected)
		}
	}

	if (Project{Name: "NoDir"}).Contains("/a/b.cs") {
		t.Error("Project without dir should contain nothing")
	}
}

func TestExclusions_IsExcluded(t *testing.T) {
	root := filepath.FromSlash("/work/app")
	ex := NewExclusions(root, []string{"*.Designer.cs", "generated/", "", "  "})

	tests := []struct {
		path     string
		expected bool
	}{
		{"/work/app/src/Form1.Designer.cs", true},
		{"/work/app/generated/Proxy.cs", true},
		{"/work/app/src/Program.cs", false},
		{"/elsewhere/Form1.Designer.cs", false},
	}

	for _, tt := range tests {
		if got := ex.IsExcluded(filepath.FromSlash(tt.path)); got != tt.expected {
			t.Errorf("IsExcluded(%q) = %v, expected %v", tt.path, got, tt.expected)
		}
	}

	var none *Exclusions
	if none.IsExcluded("/work/app/x.cs") {
		t.Error("nil Exclusions should exclude nothing")
	}
}

func TestSolution_FindFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "App.sln.DotSettings"), "<root/>")
	writeFile(t, filepath.Join(dir, "src", "Core", "Core.DotSettings"), "<root/>")
	writeFile(t, filepath.Join(dir, "src", "Web", "Web.DotSettings"), "<root/>")
	writeFile(t, filepath.Join(dir, "src", "Core", "bin", "Ignored.DotSettings"), "<root/>")

	sln := NewSolution(dir, Project{Name: "Core", Dir: filepath.Join(dir, "src", "Core")})
	core := sln.Projects[0]

	t.Run("literal relative to solution", func(t *testing.T) {
		files, err := sln.FindFiles(nil, "App.sln.DotSettings")
		if err != nil {
			t.Fatalf("FindFiles failed: %v", err)
		}
		if len(files) != 1 || files[0] != filepath.Join(dir, "App.sln.DotSettings") {
			t.Errorf("Unexpected files: %v", files)
		}
	})

	t.Run("project directory wins", func(t *testing.T) {
		files, err := sln.FindFiles(&core, "*.DotSettings")
		if err != nil {
			t.Fatalf("FindFiles failed: %v", err)
		}
		if len(files) != 1 || files[0] != filepath.Join(dir, "src", "Core", "Core.DotSettings") {
			t.Errorf("Unexpected files: %v", files)
		}
	})

	t.Run("double star crosses directories", func(t *testing.T) {
		files, err := sln.FindFiles(nil, "src/**.DotSettings")
		if err != nil {
			t.Fatalf("FindFiles failed: %v", err)
		}
		if len(files) != 2 {
			t.Errorf("Expected 2 files (bin skipped), got %v", files)
		}
	})

	t.Run("absolute glob", func(t *testing.T) {
		pattern := filepath.ToSlash(filepath.Join(dir, "src", "*", "*.DotSettings"))
		files, err := sln.FindFiles(nil, pattern)
		if err != nil {
			t.Fatalf("FindFiles failed: %v", err)
		}
		if len(files) != 2 {
			t.Errorf("Expected 2 files, got %v", files)
		}
	})

	t.Run("empty pattern", func(t *testing.T) {
		files, err := sln.FindFiles(nil, "")
		if err != nil || files != nil {
			t.Errorf("Expected no files and no error, got %v, %v", files, err)
		}
	})

	t.Run("no match", func(t *testing.T) {
		files, err := sln.FindFiles(nil, "missing.xml")
		if err != nil || len(files) != 0 {
			t.Errorf("Expected no files, got %v, %v", files, err)
		}
	})
}
