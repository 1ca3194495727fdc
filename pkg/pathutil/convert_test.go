package pathutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/standardbeagle/entangled-go/internal/engine"
)

func TestToRelative(t *testing.T) {
	tests := []struct {
		name     string
		absPath  string
		rootDir  string
		expected string
	}{
		{
			name:     "simple relative path",
			absPath:  "/home/user/project/src/main.go",
			rootDir:  "/home/user/project",
			expected: "src/main.go",
		},
		{
			name:     "nested relative path",
			absPath:  "/home/user/project/internal/core/search.go",
			rootDir:  "/home/user/project",
			expected: "internal/core/search.go",
		},
		{
			name:     "root level file",
			absPath:  "/home/user/project/README.md",
			rootDir:  "/home/user/project",
			expected: "README.md",
		},
		{
			name:     "same directory",
			absPath:  "/home/user/project",
			rootDir:  "/home/user/project",
			expected: ".",
		},
		{
			name:     "already relative path",
			absPath:  "src/main.go",
			rootDir:  "/home/user/project",
			expected: "src/main.go",
		},
		{
			name:     "path outside root - fallback to absolute",
			absPath:  "/other/location/file.go",
			rootDir:  "/home/user/project",
			expected: "/other/location/file.go",
		},
		{
			name:     "empty root directory",
			absPath:  "/home/user/project/file.go",
			rootDir:  "",
			expected: "/home/user/project/file.go",
		},
		{
			name:     "empty absolute path",
			absPath:  "",
			rootDir:  "/home/user/project",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToRelative(tt.absPath, tt.rootDir)

			if runtime.GOOS == "windows" {
				result = filepath.ToSlash(result)
				expected := filepath.ToSlash(tt.expected)
				if result != expected {
					t.Errorf("ToRelative() = %v, want %v", result, expected)
				}
			} else {
				if result != tt.expected {
					t.Errorf("ToRelative() = %v, want %v", result, tt.expected)
				}
			}
		})
	}
}

func TestToRelativeStatusEntries(t *testing.T) {
	rootDir := "/home/user/project"

	input := []engine.StatusEntry{
		{Target: "/home/user/project/src/main.go", State: engine.StatusUnchanged},
		{Target: "/home/user/project/internal/core/search.go", State: engine.StatusWouldWrite},
		{Target: "/home/user/project/README.md", State: engine.StatusConflict},
	}

	results := ToRelativeStatusEntries(input, rootDir)

	expected := []string{
		"src/main.go",
		"internal/core/search.go",
		"README.md",
	}

	if len(results) != len(expected) {
		t.Fatalf("Expected %d results, got %d", len(expected), len(results))
	}

	for i, result := range results {
		gotPath := result.Target
		wantPath := expected[i]
		if runtime.GOOS == "windows" {
			gotPath = filepath.ToSlash(gotPath)
			wantPath = filepath.ToSlash(wantPath)
		}

		if gotPath != wantPath {
			t.Errorf("Result %d: Target = %v, want %v", i, gotPath, wantPath)
		}
		if result.State != input[i].State {
			t.Errorf("Result %d: State changed", i)
		}
	}

	// original input is untouched
	if input[0].Target != "/home/user/project/src/main.go" {
		t.Errorf("input was mutated: %v", input[0].Target)
	}
}

func TestToRelativeStatusEntriesEmpty(t *testing.T) {
	empty := []engine.StatusEntry{}
	result := ToRelativeStatusEntries(empty, "/home/user/project")
	if len(result) != 0 {
		t.Errorf("Expected empty slice, got %d elements", len(result))
	}
}

func TestToRelativeLocateResult(t *testing.T) {
	input := engine.LocateResult{DocPath: "/home/user/project/doc.md", Line: 42}

	result := ToRelativeLocateResult(input, "/home/user/project")

	if result.DocPath != "doc.md" {
		t.Errorf("DocPath = %v, want doc.md", result.DocPath)
	}
	if result.Line != 42 {
		t.Errorf("Line changed: got %d, want 42", result.Line)
	}
	if input.DocPath != "/home/user/project/doc.md" {
		t.Errorf("input was mutated: %v", input.DocPath)
	}
}
