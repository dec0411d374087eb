// Package manifest handles sol25.toml run configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file searched for by FindAndLoad.
const FileName = "sol25.toml"

// Default values applied by Load.
const (
	DefaultFormat    = "auto"
	DefaultCachePath = ".sol25/cache.db"
	DefaultMaxDepth  = 10000
)

// Manifest represents a sol25.toml configuration.
type Manifest struct {
	Run   RunConfig   `toml:"run"`
	Cache CacheConfig `toml:"cache"`
	Log   LogConfig   `toml:"log"`

	// Dir is the directory containing the sol25.toml file (set at load time).
	Dir string `toml:"-"`
}

// RunConfig selects the program and its input.
type RunConfig struct {
	Source   string `toml:"source"`
	Input    string `toml:"input"`
	Format   string `toml:"format"` // auto, xml or cbor
	MaxDepth int    `toml:"max-depth"`
}

// CacheConfig configures the program tree cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no sol25.toml exists.
func Default() *Manifest {
	m := &Manifest{}
	m.applyDefaults()
	return m
}

// Load parses the sol25.toml file in dir.
func Load(dir string) (*Manifest, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses a configuration file at an explicit path.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	m.applyDefaults()
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a sol25.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

func (m *Manifest) applyDefaults() {
	if m.Run.Format == "" {
		m.Run.Format = DefaultFormat
	}
	if m.Run.MaxDepth == 0 {
		m.Run.MaxDepth = DefaultMaxDepth
	}
	if m.Cache.Path == "" {
		m.Cache.Path = DefaultCachePath
	}
}

func (m *Manifest) validate() error {
	switch m.Run.Format {
	case "auto", "xml", "cbor":
	default:
		return fmt.Errorf("run.format must be auto, xml or cbor, not %q", m.Run.Format)
	}
	if m.Run.MaxDepth < 0 {
		return fmt.Errorf("run.max-depth must not be negative")
	}
	return nil
}

// resolve makes a configured path absolute relative to the manifest directory.
func (m *Manifest) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || m.Dir == "" {
		return p
	}
	return filepath.Join(m.Dir, p)
}

// SourcePath returns the program path, or "" when none is configured.
func (m *Manifest) SourcePath() string { return m.resolve(m.Run.Source) }

// InputPath returns the input path, or "" for standard input.
func (m *Manifest) InputPath() string { return m.resolve(m.Run.Input) }

// CachePath returns the cache database path.
func (m *Manifest) CachePath() string { return m.resolve(m.Cache.Path) }

// LogPath returns the log file path, or "" for standard error.
func (m *Manifest) LogPath() string { return m.resolve(m.Log.File) }
