package content

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
)

// ReadChapter loads and validates a ChapterData from its TOML blob at path.
func ReadChapter(path string) (*ChapterData, error) {
	var c ChapterData
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrInvalidSchema, path, err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Decode parses a TOML blob already in memory (e.g. read from a Git blob)
// into a validated ChapterData, without touching the filesystem.
func Decode(data []byte) (*ChapterData, error) {
	var c ChapterData
	if _, err := toml.Decode(string(data), &c); err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrInvalidSchema, err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// WriteChapter serialises c to path as TOML, replacing any existing file
// atomically: it writes to a sibling temp file under a flock-guarded lock
// and renames into place, so a reader never observes a partial write.
func WriteChapter(path string, c *ChapterData) error {
	if err := Validate(c); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating content directory %s: %w", dir, err)
	}

	lockPath := path + ".lock"
	fl := flock.New(lockPath)
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", lockPath, err)
	}
	defer fl.Unlock()

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	enc := toml.NewEncoder(tmp)
	if err := enc.Encode(c); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: encoding %s: %v", ErrInvalidSchema, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
