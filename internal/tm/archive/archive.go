// Package archive is the TM engine's columnar cold-storage tier: one
// append-only Parquet file per project, written with
// github.com/segmentio/parquet-go. No repo in the retrieval pack touches a
// columnar format, so this package is new. The engine reaches it only
// through its archiveTier interface (WriteBatch), so the rest of the engine
// never imports segmentio/parquet-go directly. Every insert is written to
// both tiers, but searches read the index tier only: the engine never calls
// ReadProject, so archived units are not consulted when the index misses.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/segmentio/parquet-go"

	"github.com/tradocflow/tradocflow/internal/langcode"
	"github.com/tradocflow/tradocflow/internal/tm/tmtypes"
)

// unitRecord is the on-disk row shape for translation_units.parquet, per
// spec.md §6.2.
type unitRecord struct {
	ID              string  `parquet:"id"`
	ProjectID       string  `parquet:"project_id"`
	ChapterID       string  `parquet:"chapter_id"`
	ChunkID         string  `parquet:"chunk_id"`
	SourceLanguage  string  `parquet:"source_language"`
	SourceText      string  `parquet:"source_text"`
	TargetLanguage  string  `parquet:"target_language"`
	TargetText      string  `parquet:"target_text"`
	ConfidenceScore float32 `parquet:"confidence_score"`
	Context         string  `parquet:"context,optional"`
	TranslatorID    string  `parquet:"translator_id,optional"`
	ReviewerID      string  `parquet:"reviewer_id,optional"`
	QualityScore    float32 `parquet:"quality_score,optional"`
	CreatedAt       int64   `parquet:"created_at"`
	UpdatedAt       int64   `parquet:"updated_at"`
}

func toRecord(u tmtypes.Unit) unitRecord {
	return unitRecord{
		ID: u.ID, ProjectID: u.ProjectID, ChapterID: u.ChapterID, ChunkID: u.ChunkID,
		SourceLanguage: string(u.SourceLanguage), SourceText: u.SourceText,
		TargetLanguage: string(u.TargetLanguage), TargetText: u.TargetText,
		ConfidenceScore: u.Confidence, Context: u.Context,
		TranslatorID: u.TranslatorID, ReviewerID: u.ReviewerID,
		QualityScore: u.QualityScore, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func fromRecord(r unitRecord) tmtypes.Unit {
	return tmtypes.Unit{
		ID: r.ID, ProjectID: r.ProjectID, ChapterID: r.ChapterID, ChunkID: r.ChunkID,
		SourceLanguage: langcode.Code(r.SourceLanguage), SourceText: r.SourceText,
		TargetLanguage: langcode.Code(r.TargetLanguage), TargetText: r.TargetText,
		Confidence: r.ConfidenceScore, Context: r.Context,
		TranslatorID: r.TranslatorID, ReviewerID: r.ReviewerID,
		QualityScore: r.QualityScore, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// Store manages one Parquet file per project under dir, appending row
// groups on each WriteBatch call. Parquet files are not truly appendable in
// place, so "append-only" here means: every batch becomes a new row group
// written to the same still-open file handle, and the file is only ever
// finalized (footer written) at Close.
type Store struct {
	dir string

	mu      sync.Mutex
	writers map[string]*projectWriter
}

type projectWriter struct {
	f *os.File
	w *parquet.GenericWriter[unitRecord]
}

// Open returns a Store rooted at dir, creating it if absent.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tm/archive: mkdir: %w", err)
	}
	return &Store{dir: dir, writers: make(map[string]*projectWriter)}, nil
}

// WriteBatch appends units (which must share projectID) as one row group.
func (s *Store) WriteBatch(projectID string, units []tmtypes.Unit) error {
	if len(units) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	pw, err := s.writerFor(projectID)
	if err != nil {
		return err
	}
	records := make([]unitRecord, len(units))
	for i, u := range units {
		records[i] = toRecord(u)
	}
	if _, err := pw.w.Write(records); err != nil {
		return fmt.Errorf("tm/archive: write batch: %w", err)
	}
	return nil
}

func (s *Store) writerFor(projectID string) (*projectWriter, error) {
	if pw, ok := s.writers[projectID]; ok {
		return pw, nil
	}
	f, err := os.Create(s.path(projectID))
	if err != nil {
		return nil, fmt.Errorf("tm/archive: create: %w", err)
	}
	w := parquet.NewGenericWriter[unitRecord](f)
	pw := &projectWriter{f: f, w: w}
	s.writers[projectID] = pw
	return pw, nil
}

func (s *Store) path(projectID string) string {
	return filepath.Join(s.dir, projectID+".translation_units.parquet")
}

// ReadProject reads every unit archived for projectID. The file must have
// been closed (via Close or CloseProject) so its footer is written.
func (s *Store) ReadProject(projectID string) ([]tmtypes.Unit, error) {
	f, err := os.Open(s.path(projectID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tm/archive: open: %w", err)
	}
	defer f.Close()

	r := parquet.NewGenericReader[unitRecord](f)
	defer r.Close()

	var out []tmtypes.Unit
	buf := make([]unitRecord, 128)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			out = append(out, fromRecord(buf[i]))
		}
		if err != nil {
			break
		}
	}
	return out, nil
}

// CloseProject finalizes and closes the writer for one project, flushing
// its footer so it becomes readable via ReadProject.
func (s *Store) CloseProject(projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pw, ok := s.writers[projectID]
	if !ok {
		return nil
	}
	delete(s.writers, projectID)
	if err := pw.w.Close(); err != nil {
		pw.f.Close()
		return fmt.Errorf("tm/archive: close writer: %w", err)
	}
	return pw.f.Close()
}

// Close finalizes every open project writer.
func (s *Store) Close() error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.writers))
	for id := range s.writers {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		if err := s.CloseProject(id); err != nil {
			return err
		}
	}
	return nil
}
