package textproc

import (
	"fmt"
	"sort"
)

// ApplyFormatting implements apply_formatting(format): every cursor's
// selection is wrapped or prefixed according to format, applied in reverse
// selection order so earlier offsets stay valid. Transformations are
// textual only (no Markdown AST mutation), so re-applying the same format
// to the already-wrapped selection removes it again (spec.md's S3
// bold apply/unapply round-trip).
func (b *Buffer) ApplyFormatting(format Format) error {
	type sel struct {
		cursorIdx  int
		start, end int
	}
	var sels []sel
	for i, c := range b.cursors {
		if start, end, ok := c.Selection(); ok {
			sels = append(sels, sel{i, start, end})
		} else {
			sels = append(sels, sel{i, c.Head.Offset, c.Head.Offset})
		}
	}

	// Reverse order: apply to the rightmost selection first so left
	// selections' offsets remain valid.
	sort.Slice(sels, func(i, j int) bool { return sels[i].start < sels[j].start })
	for i := len(sels) - 1; i >= 0; i-- {
		s := sels[i]
		before := b.text[s.start:s.end]
		after, wrapped := transform(format, before)
		op := TextOperation{Kind: OpReplace, Pos: s.start, Old: before, New: after}
		b.apply(op, true)
		_ = wrapped
	}
	return nil
}

// transform applies (or, if already applied, removes) format's wrapping to
// selected.
func transform(format Format, selected string) (string, bool) {
	switch format.Kind {
	case FormatBold:
		return toggleWrap(selected, "**", "**")
	case FormatItalic:
		return toggleWrap(selected, "*", "*")
	case FormatStrikethrough:
		return toggleWrap(selected, "~~", "~~")
	case FormatUnderline:
		return toggleWrap(selected, "<u>", "</u>")
	case FormatCode:
		return toggleWrap(selected, "`", "`")
	case FormatCodeBlock:
		fence := "```" + format.Lang
		return toggleBlock(selected, fence, "```")
	case FormatHeading:
		level := format.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		prefix := repeat("#", level) + " "
		return togglePrefix(selected, prefix)
	case FormatBlockQuote:
		return togglePrefix(selected, "> ")
	case FormatUnorderedList:
		return togglePrefix(selected, "- ")
	case FormatOrderedList:
		return togglePrefix(selected, "1. ")
	case FormatLink:
		wrapped := fmt.Sprintf("[%s](%s)", selected, format.URL)
		if format.Title != "" {
			wrapped = fmt.Sprintf("[%s](%s %q)", selected, format.URL, format.Title)
		}
		return wrapped, true
	case FormatImage:
		wrapped := fmt.Sprintf("![%s](%s)", format.Alt, format.URL)
		if format.Title != "" {
			wrapped = fmt.Sprintf("![%s](%s %q)", format.Alt, format.URL, format.Title)
		}
		return wrapped, true
	case FormatTable:
		return selected + "\n| --- | --- |\n| | |", true
	case FormatHorizontalRule:
		return selected + "\n\n---\n", true
	default:
		return selected, false
	}
}

// toggleWrap implements the S3 apply/unapply round-trip: if selected is
// already wrapped in prefix/suffix, strip them; otherwise add them.
func toggleWrap(selected, prefix, suffix string) (string, bool) {
	if hasWrap(selected, prefix, suffix) {
		return selected[len(prefix) : len(selected)-len(suffix)], false
	}
	return prefix + selected + suffix, true
}

func hasWrap(s, prefix, suffix string) bool {
	return len(s) >= len(prefix)+len(suffix) &&
		s[:len(prefix)] == prefix && s[len(s)-len(suffix):] == suffix
}

func toggleBlock(selected, openFence, closeFence string) (string, bool) {
	if hasWrap(selected, openFence+"\n", "\n"+closeFence) {
		return selected[len(openFence)+1 : len(selected)-len(closeFence)-1], false
	}
	return openFence + "\n" + selected + "\n" + closeFence, true
}

func togglePrefix(selected, prefix string) (string, bool) {
	if len(selected) >= len(prefix) && selected[:len(prefix)] == prefix {
		return selected[len(prefix):], false
	}
	return prefix + selected, true
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
