package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TM.MaxResults != 20 {
		t.Errorf("MaxResults = %d, want default 20", cfg.TM.MaxResults)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Languages.Source = "en"
	cfg.Languages.Targets = []string{"es", "de"}
	cfg.TM.MaxResults = 10

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.TM.MaxResults != 10 {
		t.Errorf("MaxResults = %d, want 10", loaded.TM.MaxResults)
	}
	if len(loaded.Languages.Targets) != 2 || loaded.Languages.Targets[1] != "de" {
		t.Errorf("Targets = %v, want [es de]", loaded.Languages.Targets)
	}
}

func TestProjectPaths(t *testing.T) {
	cfg := Default()
	cfg.Storage.ProjectRoot = "/data/projects"
	if got, want := cfg.ProjectIndexPath("proj1"), "/data/projects/proj1/tm_index.sqlite"; got != want {
		t.Errorf("ProjectIndexPath = %q, want %q", got, want)
	}
	if got, want := cfg.ProjectArchiveDir("proj1"), "/data/projects/proj1/archive"; got != want {
		t.Errorf("ProjectArchiveDir = %q, want %q", got, want)
	}
}
