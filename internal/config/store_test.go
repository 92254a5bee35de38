package config

import (
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/kuma/internal/constants"
)

func TestStore_For_DifferentDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dir1", constants.ConfigFileName), "extended_rules: true\n")
	writeFile(t, filepath.Join(root, "dir1", "a.rb"), "# a\n")
	writeFile(t, filepath.Join(root, "dir2", constants.ConfigFileName), "extended_rules: false\n")
	writeFile(t, filepath.Join(root, "dir2", "b.rb"), "# b\n")

	loader, _ := newTestLoader(t)
	store := NewStore(loader)

	cfg1, err := store.For(filepath.Join(root, "dir1", "a.rb"))
	if err != nil {
		t.Fatalf("For failed: %v", err)
	}
	cfg2, err := store.For(filepath.Join(root, "dir2"))
	if err != nil {
		t.Fatalf("For failed: %v", err)
	}

	if !cfg1.ExtendedRules {
		t.Error("dir1 should enable extended rules")
	}
	if cfg2.ExtendedRules {
		t.Error("dir2 should not enable extended rules")
	}
}

func TestStore_For_CachesObjects(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, constants.ConfigFileName)
	writeFile(t, path, "extended_rules: true\n")
	writeFile(t, filepath.Join(root, "lib", "a.rb"), "# a\n")

	loader, _ := newTestLoader(t)
	store := NewStore(loader)

	first, err := store.For(filepath.Join(root, "lib", "a.rb"))
	if err != nil {
		t.Fatalf("For failed: %v", err)
	}

	// Changing the file after the first load must not be observed
	writeFile(t, path, "extended_rules: false\n")

	second, err := store.For(root)
	if err != nil {
		t.Fatalf("For failed: %v", err)
	}
	if first != second {
		t.Error("Directories sharing a config file should share the loaded object")
	}
	if !second.ExtendedRules {
		t.Error("Cached configuration should be reused")
	}
}

func TestStore_For_DefaultsWhenNoFile(t *testing.T) {
	dir := t.TempDir()
	loader, _ := newTestLoader(t)
	store := NewStore(loader)

	cfg, err := store.For(dir)
	if err != nil {
		t.Fatalf("For failed: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Expected default configuration, got one from %s", cfg.Path)
	}

	again, err := store.For(t.TempDir())
	if err != nil {
		t.Fatalf("For failed: %v", err)
	}
	if cfg != again {
		t.Error("Default configuration should be built once")
	}
}

func TestStore_SetOptionsConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "project", constants.ConfigFileName), "extended_rules: false\n")
	explicit := filepath.Join(root, "explicit.yml")
	writeFile(t, explicit, "extended_rules: true\n")

	loader, _ := newTestLoader(t)
	store := NewStore(loader)
	if err := store.SetOptionsConfig(explicit); err != nil {
		t.Fatalf("SetOptionsConfig failed: %v", err)
	}

	cfg, err := store.For(filepath.Join(root, "project"))
	if err != nil {
		t.Fatalf("For failed: %v", err)
	}
	if !cfg.ExtendedRules || cfg.Path != explicit {
		t.Errorf("Explicit configuration should override discovery, got %s", cfg.Path)
	}
}

func TestStore_SetOptionsConfig_Missing(t *testing.T) {
	loader, _ := newTestLoader(t)
	store := NewStore(loader)
	if err := store.SetOptionsConfig(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("Expected error for missing explicit configuration")
	}
}

func TestStore_For_InvalidFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, constants.ConfigFileName), "tools: [not, a, map\n")

	loader, _ := newTestLoader(t)
	store := NewStore(loader)
	if _, err := store.For(root); err == nil {
		t.Error("Expected error for malformed configuration")
	}
}
