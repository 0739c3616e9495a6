// Package index is the TM engine's row-oriented analytic tier: a
// modernc.org/sqlite-backed table keyed on (project_id, chunk_id,
// source_language, target_language) with ancillary indexes on
// source_language×target_language, confidence DESC, and a full-text index
// on source_text, grounded on the retrieval pack's own
// database/sql-over-modernc.org/sqlite translation_memory table.
package index

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tradocflow/tradocflow/internal/tm/tmtypes"
)

// Store is the index tier. It is safe for concurrent use; the underlying
// *sql.DB pools its own connections.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the sqlite database at path and runs
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("tm/index: open: %w", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite serializes writers; avoid SQLITE_BUSY races
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

const schema = `
CREATE TABLE IF NOT EXISTS translation_units (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	chapter_id TEXT NOT NULL,
	chunk_id TEXT NOT NULL,
	source_language TEXT NOT NULL,
	source_text TEXT NOT NULL,
	target_language TEXT NOT NULL,
	target_text TEXT NOT NULL,
	confidence_score REAL NOT NULL,
	context TEXT,
	translator_id TEXT,
	reviewer_id TEXT,
	quality_score REAL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tu_project_chunk_pair
	ON translation_units(project_id, chunk_id, source_language, target_language);
CREATE INDEX IF NOT EXISTS idx_tu_pair
	ON translation_units(source_language, target_language);
CREATE INDEX IF NOT EXISTS idx_tu_confidence
	ON translation_units(confidence_score DESC);

CREATE VIRTUAL TABLE IF NOT EXISTS translation_units_fts USING fts5(
	id UNINDEXED, source_text, content='translation_units', content_rowid='rowid'
);

CREATE TRIGGER IF NOT EXISTS tu_ai AFTER INSERT ON translation_units BEGIN
	INSERT INTO translation_units_fts(rowid, id, source_text) VALUES (new.rowid, new.id, new.source_text);
END;
CREATE TRIGGER IF NOT EXISTS tu_ad AFTER DELETE ON translation_units BEGIN
	INSERT INTO translation_units_fts(translation_units_fts, rowid, id, source_text)
		VALUES ('delete', old.rowid, old.id, old.source_text);
END;
CREATE TRIGGER IF NOT EXISTS tu_au AFTER UPDATE ON translation_units BEGIN
	INSERT INTO translation_units_fts(translation_units_fts, rowid, id, source_text)
		VALUES ('delete', old.rowid, old.id, old.source_text);
	INSERT INTO translation_units_fts(rowid, id, source_text) VALUES (new.rowid, new.id, new.source_text);
END;
`

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("tm/index: migrate: %w", err)
	}
	return nil
}

// Insert upserts a single unit (by id).
func (s *Store) Insert(ctx context.Context, u tmtypes.Unit) error {
	return s.InsertBatch(ctx, []tmtypes.Unit{u})
}

// InsertBatch upserts units inside a single transaction using a prepared
// statement, per spec.md §4.D's "batched inserts use prepared statements".
func (s *Store) InsertBatch(ctx context.Context, units []tmtypes.Unit) error {
	if len(units) == 0 {
		return nil
	}
	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("tm/index: begin: %w", err)
	}
	defer txn.Rollback()

	stmt, err := txn.PrepareContext(ctx, `
		INSERT INTO translation_units (
			id, project_id, chapter_id, chunk_id, source_language, source_text,
			target_language, target_text, confidence_score, context,
			translator_id, reviewer_id, quality_score, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_text=excluded.source_text, target_text=excluded.target_text,
			confidence_score=excluded.confidence_score, context=excluded.context,
			translator_id=excluded.translator_id, reviewer_id=excluded.reviewer_id,
			quality_score=excluded.quality_score, updated_at=excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("tm/index: prepare: %w", err)
	}
	defer stmt.Close()

	for _, u := range units {
		if _, err := stmt.ExecContext(ctx,
			u.ID, u.ProjectID, u.ChapterID, u.ChunkID,
			string(u.SourceLanguage.Normalize()), u.SourceText,
			string(u.TargetLanguage.Normalize()), u.TargetText,
			u.Confidence, u.Context, u.TranslatorID, u.ReviewerID,
			u.QualityScore, u.CreatedAt, u.UpdatedAt,
		); err != nil {
			return fmt.Errorf("tm/index: insert %s: %w", u.ID, err)
		}
	}
	return txn.Commit()
}

// ExactMatch finds units whose source_text equals text exactly for pair.
func (s *Store) ExactMatch(ctx context.Context, text string, source, target string) ([]tmtypes.Unit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, chapter_id, chunk_id, source_language, source_text,
		       target_language, target_text, confidence_score, context,
		       translator_id, reviewer_id, quality_score, created_at, updated_at
		FROM translation_units
		WHERE source_text = ? AND source_language = ? AND target_language = ?
	`, text, source, target)
	if err != nil {
		return nil, fmt.Errorf("tm/index: exact match query: %w", err)
	}
	defer rows.Close()
	return scanUnits(rows)
}

// CandidatesForPair returns every unit for a language pair, for the fuzzy
// strategy's in-process edit-distance pass (spec.md has no requirement that
// fuzzy matching run as SQL; it only requires a "pluggable edit-distance
// function", which this package leaves to the caller).
func (s *Store) CandidatesForPair(ctx context.Context, source, target string) ([]tmtypes.Unit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, chapter_id, chunk_id, source_language, source_text,
		       target_language, target_text, confidence_score, context,
		       translator_id, reviewer_id, quality_score, created_at, updated_at
		FROM translation_units
		WHERE source_language = ? AND target_language = ?
		ORDER BY confidence_score DESC
	`, source, target)
	if err != nil {
		return nil, fmt.Errorf("tm/index: candidates query: %w", err)
	}
	defer rows.Close()
	return scanUnits(rows)
}

// NgramMatch runs the full-text LIKE %word% search of spec.md §4.D's
// n-gram strategy for a single content word.
func (s *Store) NgramMatch(ctx context.Context, word, source, target string) ([]tmtypes.Unit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tu.id, tu.project_id, tu.chapter_id, tu.chunk_id, tu.source_language, tu.source_text,
		       tu.target_language, tu.target_text, tu.confidence_score, tu.context,
		       tu.translator_id, tu.reviewer_id, tu.quality_score, tu.created_at, tu.updated_at
		FROM translation_units_fts
		JOIN translation_units tu ON tu.id = translation_units_fts.id
		WHERE translation_units_fts.source_text LIKE ('%' || ? || '%')
		  AND tu.source_language = ? AND tu.target_language = ?
	`, word, source, target)
	if err != nil {
		return nil, fmt.Errorf("tm/index: ngram query: %w", err)
	}
	defer rows.Close()
	return scanUnits(rows)
}

// RowCount returns the live row count, for Stats.
func (s *Store) RowCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM translation_units`).Scan(&n)
	return n, err
}

func scanUnits(rows *sql.Rows) ([]tmtypes.Unit, error) {
	var out []tmtypes.Unit
	for rows.Next() {
		var u tmtypes.Unit
		var context, translator, reviewer sql.NullString
		var quality sql.NullFloat64
		if err := rows.Scan(
			&u.ID, &u.ProjectID, &u.ChapterID, &u.ChunkID, &u.SourceLanguage, &u.SourceText,
			&u.TargetLanguage, &u.TargetText, &u.Confidence, &context,
			&translator, &reviewer, &quality, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("tm/index: scan: %w", err)
		}
		u.Context = context.String
		u.TranslatorID = translator.String
		u.ReviewerID = reviewer.String
		u.QualityScore = float32(quality.Float64)
		out = append(out, u)
	}
	return out, rows.Err()
}
