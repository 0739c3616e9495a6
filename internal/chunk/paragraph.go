package chunk

import (
	"regexp"
	"strings"
)

var (
	headingRe = regexp.MustCompile(`^#{1,6}\s`)
	fenceRe   = regexp.MustCompile("^```")
	tableRe   = regexp.MustCompile(`^\|.*\|\s*$`)
	listRe    = regexp.MustCompile(`^\s*[-*+]\s`)
)

// paragraphs splits text on blank-line boundaries (one or more consecutive
// empty lines), trimming surrounding whitespace from each paragraph.
func paragraphs(text string) []string {
	raw := regexp.MustCompile(`\n\s*\n`).Split(text, -1)
	var out []string
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// classify determines a paragraph's chunk type per spec.md §4.C step 2.
func classify(p string) Type {
	first := firstLine(p)
	switch {
	case headingRe.MatchString(first):
		return TypeHeading
	case fenceRe.MatchString(first):
		return TypeCode
	case isTable(p):
		return TypeTable
	case isListBlock(p):
		return TypeList
	default:
		return TypeParagraph
	}
}

func firstLine(p string) string {
	if i := strings.IndexByte(p, '\n'); i >= 0 {
		return p[:i]
	}
	return p
}

func isTable(p string) bool {
	lines := strings.Split(p, "\n")
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		return tableRe.MatchString(strings.TrimSpace(l))
	}
	return false
}

func isListBlock(p string) bool {
	lines := strings.Split(p, "\n")
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		return listRe.MatchString(l)
	}
	return false
}

// isLinkable reports whether two chunk types may be merged together when
// one of them is shorter than MinChunkLength (§4.C step 4): only
// consecutive chunks of the same "prose" family link, never special types
// merging across a different special type.
func isLinkable(a, b Type) bool {
	if a == b {
		return true
	}
	prose := map[Type]bool{TypeSentence: true, TypeParagraph: true}
	return prose[a] && prose[b]
}
