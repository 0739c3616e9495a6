package content

import (
	"fmt"

	"github.com/tradocflow/tradocflow/internal/langcode"
)

// Validate enforces the invariants of spec.md §3.1:
//   - titles[source_language] is present
//   - units are ordered by position, strictly increasing and unique
//   - translations[source_language].text == source_text for every unit
//
// Translation languages are not checked here; the Builder rejects languages
// it was not created with.
func Validate(c *ChapterData) error {
	if c.Slug == "" {
		return fmt.Errorf("%w: slug is empty", ErrInvalidSchema)
	}
	if c.SourceLanguage == "" {
		return fmt.Errorf("%w: source_language is empty", ErrInvalidSchema)
	}
	if _, ok := c.Titles[c.SourceLanguage]; !ok {
		return fmt.Errorf("%w: chapter %q", ErrMissingSourceLanguage, c.Slug)
	}

	var lastPos int64 = -1
	for i := range c.Units {
		u := &c.Units[i]
		pos := int64(u.Position)
		if pos <= lastPos {
			return fmt.Errorf("%w: unit %q position %d does not strictly increase past %d",
				ErrPositionConflict, u.ID, u.Position, lastPos)
		}
		lastPos = pos

		src, ok := u.Translations[u.SourceLanguage]
		if !ok {
			return fmt.Errorf("%w: unit %q missing source-language translation", ErrInvalidSchema, u.ID)
		}
		if src.Text != u.SourceText {
			return fmt.Errorf("%w: unit %q source_text mismatch with translations[%s].text",
				ErrInvalidSchema, u.ID, u.SourceLanguage)
		}
	}
	return nil
}

// declaredLanguages returns the set of languages a chapter has declared:
// its source language plus every language with a title.
func declaredLanguages(c *ChapterData) langcode.Set {
	codes := make([]langcode.Code, 0, len(c.Titles)+1)
	codes = append(codes, c.SourceLanguage)
	for lang := range c.Titles {
		codes = append(codes, lang)
	}
	return langcode.NewSet(codes...)
}
