// Package config loads and persists the workstation's TOML configuration:
// storage paths, the TM engine's tuning knobs, the performance optimiser's
// memory budget, and the set of language pairs a project works in.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tradocflow/tradocflow/internal/lock"
	"github.com/tradocflow/tradocflow/internal/util"
)

// Config is the root of config.toml.
type Config struct {
	Storage     Storage     `toml:"storage"`
	TM          TM          `toml:"tm"`
	Performance Performance `toml:"performance"`
	Languages   Languages   `toml:"languages"`
}

// Storage locates the project's on-disk data.
type Storage struct {
	// ProjectRoot is the directory holding one subdirectory per project.
	ProjectRoot string `toml:"project_root"`
	// IndexDBName is the SQLite file name inside each project directory.
	IndexDBName string `toml:"index_db_name"`
	// ArchiveDirName is the Parquet archive subdirectory inside each
	// project directory.
	ArchiveDirName string `toml:"archive_dir_name"`
}

// TM tunes the translation memory engine.
type TM struct {
	MaxResults         int     `toml:"max_results"`
	FuzzyThreshold     float64 `toml:"fuzzy_threshold"`
	NgramThreshold     float64 `toml:"ngram_threshold"`
	CacheTTLSeconds    int     `toml:"cache_ttl_seconds"`
}

// Performance tunes the memory optimiser.
type Performance struct {
	BudgetBytes       uint64 `toml:"budget_bytes"`
	TextBufferInitCap int    `toml:"text_buffer_init_cap"`
	TempBufferInitCap int    `toml:"temp_buffer_init_cap"`
}

// Languages names the language pairs a project is configured for.
type Languages struct {
	Source  string   `toml:"source"`
	Targets []string `toml:"targets"`
}

// Default returns the configuration new projects start from.
func Default() *Config {
	return &Config{
		Storage: Storage{
			ProjectRoot:    "projects",
			IndexDBName:    "tm_index.sqlite",
			ArchiveDirName: "archive",
		},
		TM: TM{
			MaxResults:      20,
			FuzzyThreshold:  0.5,
			NgramThreshold:  0.3,
			CacheTTLSeconds: 300,
		},
		Performance: Performance{
			BudgetBytes:       512 << 20,
			TextBufferInitCap: 4096,
			TempBufferInitCap: 512,
		},
		Languages: Languages{Source: "en"},
	}
}

// Load reads path as TOML, falling back to Default if the file doesn't
// exist yet.
func Load(path string) (*Config, error) {
	path = util.ExpandHome(path)
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Storage.ProjectRoot = util.ExpandHome(cfg.Storage.ProjectRoot)
	return cfg, nil
}

// Save writes cfg to path atomically, holding an exclusive file lock for
// the duration so concurrent Save calls from separate processes can't
// interleave writes.
func Save(path string, cfg *Config) error {
	path = util.ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	unlock, err := lock.FlockAcquire(path + ".lock")
	if err != nil {
		return fmt.Errorf("acquiring config lock: %w", err)
	}
	defer unlock()

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating temp config file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing temp config file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("installing config: %w", err)
	}
	return nil
}

// ProjectIndexPath returns the SQLite index path for a project under
// cfg.Storage.ProjectRoot.
func (c *Config) ProjectIndexPath(projectID string) string {
	return filepath.Join(c.Storage.ProjectRoot, projectID, c.Storage.IndexDBName)
}

// ProjectArchiveDir returns the Parquet archive directory for a project.
func (c *Config) ProjectArchiveDir(projectID string) string {
	return filepath.Join(c.Storage.ProjectRoot, projectID, c.Storage.ArchiveDirName)
}
