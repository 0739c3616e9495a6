package vcts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tradocflow/tradocflow/internal/content"
	"github.com/tradocflow/tradocflow/internal/langcode"
)

const placeholderSourceText = "(untranslated)"

// survivingLines implements the line-survival rule of spec.md §4.B.1:
// strip blank lines, heading lines, and HTML-comment lines; every line
// that survives becomes one translation unit, in order.
func survivingLines(markdown string) []string {
	var out []string
	inComment := false
	for _, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case inComment:
			if strings.Contains(line, "-->") {
				inComment = false
			}
			continue
		case line == "":
			continue
		case strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "<!--"):
			if !strings.Contains(line, "-->") {
				inComment = true
			}
			continue
		default:
			out = append(out, line)
		}
	}
	return out
}

// ApplyMarkdown parses markdown per §4.B.1 and updates chapter in place:
// existing units are updated at their position index; extra lines become
// new units with a placeholder source text and the chapter's source
// language; every surviving line is written as lang's translation (if lang
// is the source language, SourceText is updated too, preserving the §3.1
// invariant).
func ApplyMarkdown(chapter *content.ChapterData, lang langcode.Code, markdown string) {
	lines := survivingLines(markdown)
	now := time.Now().UTC()

	for i, line := range lines {
		if i < len(chapter.Units) {
			u := &chapter.Units[i]
			setTranslation(u, lang, line, now)
			if lang == u.SourceLanguage {
				u.SourceText = line
			}
			continue
		}

		pos := uint32(i)
		u := content.TranslationUnit{
			ID:             uuid.NewString(),
			Position:       pos,
			SourceLanguage: chapter.SourceLanguage,
			SourceText:     placeholderSourceText,
			Complexity:     content.ComplexityLow,
			Translations:   map[langcode.Code]content.TranslationVersion{},
		}
		if lang == chapter.SourceLanguage {
			u.SourceText = line
		} else {
			setTranslation(&u, chapter.SourceLanguage, placeholderSourceText, now)
		}
		setTranslation(&u, lang, line, now)
		chapter.Units = append(chapter.Units, u)
	}
}

func setTranslation(u *content.TranslationUnit, lang langcode.Code, text string, now time.Time) {
	if u.Translations == nil {
		u.Translations = map[langcode.Code]content.TranslationVersion{}
	}
	v := u.Translations[lang]
	v.Text = text
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
		v.Status = content.StatusDraft
	}
	v.UpdatedAt = now
	u.Translations[lang] = v
}

// RenderMarkdown is the inverse of ApplyMarkdown: one line per unit, in
// position order, for lang's translation text (or the source text if lang
// has no translation yet).
func RenderMarkdown(chapter *content.ChapterData, lang langcode.Code) string {
	var b strings.Builder
	for _, u := range chapter.Units {
		text := u.SourceText
		if v, ok := u.Translations[lang]; ok {
			text = v.Text
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

// writeMirror regenerates the mirror markdown file at path, matching the
// on-disk layout of spec.md §6.1 (generated/markdown/<lang>/<slug>.md).
func writeMirror(path, markdown string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating mirror directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("writing mirror markdown %s: %w", path, err)
	}
	return nil
}
