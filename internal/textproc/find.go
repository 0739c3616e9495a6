package textproc

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrRegex wraps invalid find_text/replace_all patterns, matching spec.md
// §4.I's RegexError.
var ErrRegex = errors.New("textproc: invalid pattern")

// FindText implements find_text(pattern, options).
func (b *Buffer) FindText(pattern string, opts FindOptions) ([]FindMatch, error) {
	re, manualWholeWord, err := buildPattern(pattern, opts)
	if err != nil {
		return nil, err
	}

	scopeStart, scopeEnd := b.scopeRange(opts.Scope)
	haystack := b.text[scopeStart:scopeEnd]

	var matches []FindMatch
	for _, loc := range re.FindAllStringIndex(haystack, -1) {
		start, end := scopeStart+loc[0], scopeStart+loc[1]
		if manualWholeWord && !wholeWordBoundary(b.text, start, end) {
			continue
		}
		matches = append(matches, FindMatch{Start: start, End: end, Text: b.text[start:end]})
	}
	return matches, nil
}

// ReplaceAll implements replace_all(pattern, replacement, options),
// processing matches in reverse order so earlier offsets stay valid as
// later ones are rewritten.
func (b *Buffer) ReplaceAll(pattern, replacement string, opts FindOptions) (int, error) {
	matches, err := b.FindText(pattern, opts)
	if err != nil {
		return 0, err
	}
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if err := b.ReplaceRange(m.Start, m.End, replacement); err != nil {
			return i + 1, err
		}
	}
	return len(matches), nil
}

func buildPattern(pattern string, opts FindOptions) (*regexp.Regexp, bool, error) {
	base := pattern
	manualWholeWord := false

	if !opts.UseRegex {
		base = regexp.QuoteMeta(pattern)
		if opts.WholeWord {
			manualWholeWord = true
		}
	} else if opts.WholeWord {
		base = `\b(?:` + base + `)\b`
	}

	var flags string
	if !opts.CaseSensitive {
		flags += "i"
	}
	if opts.Multiline {
		flags += "m"
	}
	if flags != "" {
		base = "(?" + flags + ")" + base
	}

	re, err := regexp.Compile(base)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrRegex, err)
	}
	return re, manualWholeWord, nil
}

// wholeWordBoundary checks the non-regex whole-word rule: the characters
// immediately surrounding [start,end) in text must not be alphanumeric.
func wholeWordBoundary(text string, start, end int) bool {
	if start > 0 && isWordRune(runeBefore(text, start)) {
		return false
	}
	if end < len(text) && isWordRune(runeAt(text, end)) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func runeBefore(text string, idx int) rune {
	r, _ := utf8.DecodeLastRuneInString(text[:idx])
	return r
}

func runeAt(text string, idx int) rune {
	r, _ := utf8.DecodeRuneInString(text[idx:])
	return r
}

// scopeRange resolves a FindScope to an absolute [start,end) byte range
// using the buffer's first cursor as the reference point.
func (b *Buffer) scopeRange(scope FindScope) (int, int) {
	if len(b.cursors) == 0 {
		return 0, len(b.text)
	}
	c := b.cursors[0]
	switch scope {
	case ScopeSelection:
		if start, end, ok := c.Selection(); ok {
			return start, end
		}
		return c.Head.Offset, c.Head.Offset
	case ScopeLine:
		lineStart := strings.LastIndexByte(b.text[:c.Head.Offset], '\n') + 1
		lineEnd := strings.IndexByte(b.text[c.Head.Offset:], '\n')
		if lineEnd < 0 {
			return lineStart, len(b.text)
		}
		return lineStart, c.Head.Offset + lineEnd
	case ScopeFromCursor:
		return c.Head.Offset, len(b.text)
	default: // ScopeDocument
		return 0, len(b.text)
	}
}
