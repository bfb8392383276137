package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DefaultDataset != "" {
		t.Errorf("fresh config has default_dataset %q", cfg.DefaultDataset)
	}
	if _, err := os.Stat(GetConfigFilePath()); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestSetDefaultDatasetPersists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := SetDefaultDataset("allCards.json"); err != nil {
		t.Fatalf("SetDefaultDataset: %v", err)
	}
	name, err := GetDefaultDataset()
	if err != nil {
		t.Fatalf("GetDefaultDataset: %v", err)
	}
	if name != "allCards.json" {
		t.Errorf("default dataset = %q, want allCards.json", name)
	}
}

func TestGetDatasetPathResolvesLibraryThenDirect(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	library := GetDatasetLibraryPath()
	if err := os.MkdirAll(library, 0755); err != nil {
		t.Fatal(err)
	}
	inLibrary := filepath.Join(library, "cards.json")
	if err := os.WriteFile(inLibrary, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	path, err := GetDatasetPath("cards.json")
	if err != nil || path != inLibrary {
		t.Errorf("GetDatasetPath(library name) = %q, %v", path, err)
	}

	direct := filepath.Join(t.TempDir(), "other.json")
	if err := os.WriteFile(direct, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	path, err = GetDatasetPath(direct)
	if err != nil || path != direct {
		t.Errorf("GetDatasetPath(direct path) = %q, %v", path, err)
	}

	if _, err := GetDatasetPath("missing.json"); err == nil {
		t.Error("GetDatasetPath(missing) succeeded")
	}
}
