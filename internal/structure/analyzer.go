package structure

import (
	"github.com/tradocflow/tradocflow/internal/langcode"
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Analyze parses text as Markdown and produces the structure + per-language
// features of spec.md §4.E. lang may be empty, in which case Features is
// zero-valued.
func Analyze(src string, lang langcode.Code) Result {
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))

	var structures []TextStructure
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering || n.Parent() != doc {
			return gast.WalkContinue, nil
		}
		if ts, ok := classify(n, source); ok {
			structures = append(structures, ts)
		}
		return gast.WalkSkipChildren, nil
	})

	result := Result{Structures: structures}
	if lang != "" {
		result.Features = analyzeLanguageFeatures(src, lang)
	}
	return result
}

func classify(n gast.Node, source []byte) (TextStructure, bool) {
	start, end, ok := byteRange(n, source)
	if !ok {
		return TextStructure{}, false
	}
	switch node := n.(type) {
	case *gast.Heading:
		return TextStructure{Kind: KindHeading, Start: start, End: end, Level: node.Level}, true
	case *gast.Paragraph:
		return TextStructure{Kind: KindParagraph, Start: start, End: end}, true
	case *gast.List:
		return TextStructure{Kind: KindListItem, Start: start, End: end}, true
	case *gast.CodeBlock:
		return TextStructure{Kind: KindCodeBlock, Start: start, End: end}, true
	case *gast.FencedCodeBlock:
		return TextStructure{Kind: KindCodeBlock, Start: start, End: end}, true
	case *gast.Blockquote:
		return TextStructure{Kind: KindQuote, Start: start, End: end}, true
	case *gast.ThematicBreak:
		return TextStructure{Kind: KindHR, Start: start, End: end}, true
	case *extast.Table:
		return TextStructure{Kind: KindTable, Start: start, End: end}, true
	default:
		return TextStructure{}, false
	}
}

// byteRange walks a block node's line segments to find the widest byte
// range it covers in source; container nodes with no own lines (List,
// Blockquote, Table) fall back to the union of their descendants' lines.
func byteRange(n gast.Node, source []byte) (int, int, bool) {
	start, end := -1, -1
	var walk func(gast.Node)
	walk = func(node gast.Node) {
		if lines := linesOf(node); lines != nil {
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				if start == -1 || seg.Start < start {
					start = seg.Start
				}
				if seg.Stop > end {
					end = seg.Stop
				}
			}
		}
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(n)
	if start == -1 {
		return 0, 0, false
	}
	return start, end, true
}

func linesOf(n gast.Node) *text.Segments {
	type linerNode interface {
		Lines() *text.Segments
	}
	if ln, ok := n.(linerNode); ok {
		return ln.Lines()
	}
	return nil
}
