package vcts

import (
	"time"

	"github.com/tradocflow/tradocflow/internal/content"
	"github.com/tradocflow/tradocflow/internal/langcode"
)

// HistoryEntry is one commit's view of a single (unit, language) pair.
type HistoryEntry struct {
	CommitHash string
	Author     string
	Timestamp  time.Time
	Text       string
	Status     content.Status
	QualityScore *float32
}

// History walks the commits touching chapter's TOML blob (newest first, up
// to limit; limit <= 0 means unbounded) and extracts unitID's translation
// in lang at each commit where it existed, skipping commits where it did
// not (e.g. before the unit was introduced).
func (s *Store) History(chapter, unitID string, lang langcode.Code, limit int) ([]HistoryEntry, error) {
	path := "content/chapters/" + chapter + ".toml"
	entries, err := s.repo.log("HEAD", path, 0) // walk unbounded, filter below
	if err != nil {
		return nil, err
	}

	var out []HistoryEntry
	for _, e := range entries {
		data, ok, err := s.repo.showFile(e.Hash, path)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		c, err := content.Decode([]byte(data))
		if err != nil {
			continue // tombstoned or transiently invalid blob; skip rather than fail history
		}
		u := c.Unit(unitID)
		if u == nil {
			continue
		}
		v, ok := u.Translations[lang]
		if !ok {
			continue
		}
		out = append(out, HistoryEntry{
			CommitHash:   e.Hash,
			Author:       e.Author,
			Timestamp:    time.Unix(e.Timestamp, 0).UTC(),
			Text:         v.Text,
			Status:       v.Status,
			QualityScore: v.QualityScore,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
