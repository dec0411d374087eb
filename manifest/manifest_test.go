package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[run]
source = "programs/hello.xml"
input = "/tmp/input.txt"
format = "xml"
max-depth = 500

[cache]
enabled = true
path = "build/cache.db"

[log]
verbosity = 2
file = "sol25.log"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Run.Format != "xml" {
		t.Errorf("format = %q, want xml", m.Run.Format)
	}
	if m.Run.MaxDepth != 500 {
		t.Errorf("max-depth = %d, want 500", m.Run.MaxDepth)
	}
	if !m.Cache.Enabled {
		t.Error("cache enabled = false, want true")
	}
	if m.Log.Verbosity != 2 {
		t.Errorf("verbosity = %d, want 2", m.Log.Verbosity)
	}

	abs, _ := filepath.Abs(dir)
	if m.Dir != abs {
		t.Errorf("Dir = %q, want %q", m.Dir, abs)
	}
	if got := m.SourcePath(); got != filepath.Join(abs, "programs", "hello.xml") {
		t.Errorf("SourcePath = %q", got)
	}
	if got := m.InputPath(); got != "/tmp/input.txt" {
		t.Errorf("InputPath = %q", got)
	}
	if got := m.CachePath(); got != filepath.Join(abs, "build", "cache.db") {
		t.Errorf("CachePath = %q", got)
	}
	if got := m.LogPath(); got != filepath.Join(abs, "sol25.log") {
		t.Errorf("LogPath = %q", got)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[run]
source = "main.xml"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Run.Format != DefaultFormat {
		t.Errorf("format = %q, want %q", m.Run.Format, DefaultFormat)
	}
	if m.Run.MaxDepth != DefaultMaxDepth {
		t.Errorf("max-depth = %d, want %d", m.Run.MaxDepth, DefaultMaxDepth)
	}
	if m.Cache.Enabled {
		t.Error("cache should be disabled by default")
	}
	if m.Cache.Path != DefaultCachePath {
		t.Errorf("cache path = %q", m.Cache.Path)
	}
	if m.InputPath() != "" || m.LogPath() != "" {
		t.Error("unset paths should stay empty")
	}
}

func TestDefault(t *testing.T) {
	m := Default()
	if m.Run.Format != DefaultFormat || m.Run.MaxDepth != DefaultMaxDepth {
		t.Errorf("Default() = %+v", m.Run)
	}
	if m.CachePath() != DefaultCachePath {
		t.Errorf("CachePath = %q", m.CachePath())
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad toml", "[run\nsource = 1", "parse error"},
		{"bad format", "[run]\nformat = \"json\"", "run.format"},
		{"negative depth", "[run]\nmax-depth = -1", "max-depth"},
		{"wrong type", "[run]\nmax-depth = \"deep\"", "parse error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, tc.content)
			_, err := Load(dir)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load of a directory without sol25.toml should fail")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[log]\nverbosity = 1\n")

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if m.Log.Verbosity != 1 {
		t.Errorf("verbosity = %d, want 1", m.Log.Verbosity)
	}
}

func TestFindAndLoadNone(t *testing.T) {
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	// A sol25.toml higher up the real filesystem would be found; only
	// assert the common case.
	if m != nil && m.Dir == "" {
		t.Error("found manifest without a directory")
	}
}
