package content

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tradocflow/tradocflow/internal/langcode"
)

// Builder constructs a ChapterData incrementally, rejecting invalid state as
// early as possible rather than deferring every check to Validate.
type Builder struct {
	data     ChapterData
	declared langcode.Set
}

// NewBuilder starts a chapter builder for slug in sourceLang, with the
// given set of languages the project allows translations in (sourceLang is
// added automatically).
func NewBuilder(chapterNumber uint32, slug string, sourceLang langcode.Code, sourceTitle string, allowed ...langcode.Code) *Builder {
	now := time.Now().UTC()
	b := &Builder{
		data: ChapterData{
			ChapterNumber:  chapterNumber,
			Slug:           slug,
			Titles:         map[langcode.Code]string{sourceLang: sourceTitle},
			SourceLanguage: sourceLang,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		declared: langcode.NewSet(append(allowed, sourceLang)...),
	}
	return b
}

// Title declares a title for lang. Returns an error if lang is not among
// the languages allowed when the builder was created.
func (b *Builder) Title(lang langcode.Code, title string) error {
	if !b.declared.Contains(lang) {
		return fmt.Errorf("%w: language %q", ErrUndeclaredLanguage, lang)
	}
	b.data.Titles[lang] = title
	return nil
}

// AddUnit appends a translation unit with the chapter's source text. The
// unit's position is assigned as the next strictly-increasing value.
func (b *Builder) AddUnit(sourceText string, complexity Complexity) (*TranslationUnit, error) {
	pos := uint32(len(b.data.Units))
	if len(b.data.Units) > 0 {
		pos = b.data.Units[len(b.data.Units)-1].Position + 1
	}
	now := time.Now().UTC()
	u := TranslationUnit{
		ID:             uuid.NewString(),
		Position:       pos,
		SourceLanguage: b.data.SourceLanguage,
		SourceText:     sourceText,
		Complexity:     complexity,
		Translations: map[langcode.Code]TranslationVersion{
			b.data.SourceLanguage: {
				Text:      sourceText,
				Status:    StatusDraft,
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
	}
	b.data.Units = append(b.data.Units, u)
	return &b.data.Units[len(b.data.Units)-1], nil
}

// Translate attaches or replaces lang's TranslationVersion on the unit
// identified by unitID. Fails if lang was not declared to the builder.
func (b *Builder) Translate(unitID string, lang langcode.Code, v TranslationVersion) error {
	if !b.declared.Contains(lang) {
		return fmt.Errorf("%w: language %q", ErrUndeclaredLanguage, lang)
	}
	u := b.data.Unit(unitID)
	if u == nil {
		return fmt.Errorf("%w: unit %q not found", ErrInvalidSchema, unitID)
	}
	if u.Translations == nil {
		u.Translations = map[langcode.Code]TranslationVersion{}
	}
	u.Translations[lang] = v
	b.data.UpdatedAt = time.Now().UTC()
	return nil
}

// AddTodo appends a todo in Open status.
func (b *Builder) AddTodo(title, createdBy string) *Todo {
	t := Todo{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    TodoOpen,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	b.data.Todos = append(b.data.Todos, t)
	return &b.data.Todos[len(b.data.Todos)-1]
}

// Build validates the accumulated chapter and returns it, or the first
// invariant violation found.
func (b *Builder) Build() (*ChapterData, error) {
	if err := Validate(&b.data); err != nil {
		return nil, err
	}
	out := b.data
	return &out, nil
}
