package config

import (
	"os"
	"path/filepath"
)

// Store resolves the configuration that applies to a file or directory.
// Discovered file paths are cached per directory and loaded configurations
// per file path, so every file is read at most once per run.
// A Store is not safe for concurrent use.
type Store struct {
	loader *Loader

	optionsConfig *Config
	defaults      *Config

	pathCache   map[string]string
	objectCache map[string]*Config
}

// NewStore creates a store backed by loader
func NewStore(loader *Loader) *Store {
	return &Store{
		loader:      loader,
		pathCache:   make(map[string]string),
		objectCache: make(map[string]*Config),
	}
}

// SetOptionsConfig loads an explicitly requested configuration file that
// overrides discovery for every target
func (s *Store) SetOptionsConfig(path string) error {
	cfg, err := s.loader.LoadFile(path)
	if err != nil {
		return err
	}
	s.optionsConfig = cfg
	return nil
}

// For returns the configuration governing fileOrDir
func (s *Store) For(fileOrDir string) (*Config, error) {
	if s.optionsConfig != nil {
		return s.optionsConfig, nil
	}

	dir, err := filepath.Abs(fileOrDir)
	if err != nil {
		return nil, err
	}
	if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	path, ok := s.pathCache[dir]
	if !ok {
		path = s.loader.FindConfigFile(dir)
		s.pathCache[dir] = path
	}

	if path == "" {
		return s.defaultConfig()
	}

	if cfg, ok := s.objectCache[path]; ok {
		return cfg, nil
	}

	s.loader.Logger.Debug("resolving configuration", "dir", dir, "path", path)
	cfg, err := s.loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	s.objectCache[path] = cfg
	return cfg, nil
}

func (s *Store) defaultConfig() (*Config, error) {
	if s.defaults != nil {
		return s.defaults, nil
	}
	cfg, err := s.loader.Defaults()
	if err != nil {
		return nil, err
	}
	s.defaults = cfg
	return cfg, nil
}
