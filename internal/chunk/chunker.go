package chunk

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Chunk splits text into typed chunks for chapterID according to cfg's
// strategy (spec.md §4.C). Only StrategySentence is fully specified by
// spec.md; StrategyHybrid currently splits exactly as StrategySentence
// does, StrategyParagraph reuses its paragraph classification step without
// the sentence split, and StrategyCustom
// splits plain paragraphs on cfg.Custom.Delimiters instead of sentence
// punctuation, capping each piece at cfg.Custom.MaxLen runes.
func Chunk(chapterID string, text string, cfg Config) []Chunk {
	paras := paragraphs(text)
	var chunks []Chunk
	var pos uint64

	for _, p := range paras {
		typ := classify(p)
		if typ != TypeParagraph {
			chunks = append(chunks, newChunk(chapterID, pos, typ, p))
			pos++
			continue
		}

		pieces := splitParagraphByStrategy(p, cfg)
		for _, piece := range pieces {
			pt := TypeSentence
			if cfg.Strategy == StrategyParagraph {
				pt = TypeParagraph
			}
			chunks = append(chunks, newChunk(chapterID, pos, pt, piece))
			pos++
		}
	}

	chunks = mergeShortChunks(chunks, minChunkLen(cfg))
	chunks = linkAdjacent(chunks)
	return chunks
}

func splitParagraphByStrategy(p string, cfg Config) []string {
	switch cfg.Strategy {
	case StrategyParagraph:
		return []string{p}
	case StrategyCustom:
		return splitCustom(p, cfg.Custom)
	default: // StrategySentence, StrategyHybrid
		return splitSentences(p)
	}
}

func splitCustom(p string, cc CustomConfig) []string {
	pieces := []string{p}
	for _, d := range cc.Delimiters {
		if d == "" {
			continue
		}
		var next []string
		for _, piece := range pieces {
			next = append(next, strings.Split(piece, d)...)
		}
		pieces = next
	}
	var out []string
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		out = append(out, capLength(piece, cc.MaxLen)...)
	}
	return out
}

func capLength(s string, maxLen int) []string {
	if maxLen <= 0 || len(s) <= maxLen {
		return []string{s}
	}
	var out []string
	r := []rune(s)
	for i := 0; i < len(r); i += maxLen {
		end := i + maxLen
		if end > len(r) {
			end = len(r)
		}
		out = append(out, string(r[i:end]))
	}
	return out
}

func minChunkLen(cfg Config) int {
	if cfg.MinChunkLength > 0 {
		return cfg.MinChunkLength
	}
	return DefaultConfig().MinChunkLength
}

func newChunk(chapterID string, pos uint64, typ Type, text string) Chunk {
	now := time.Now().UTC()
	return Chunk{
		ID:                 uuid.NewString(),
		ChapterID:          chapterID,
		Position:           pos,
		Type:               typ,
		Text:               text,
		SentenceBoundaries: boundariesFor(typ, text),
		LinkedChunks:       map[string]bool{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// boundariesFor computes the sentence_boundaries sequence for a chunk:
// byte offsets of each sentence start within Text, strictly increasing and
// beginning at 0 (spec.md §3.2). Chunk types other than sentence and
// paragraph have a single boundary at 0 (the whole chunk is one "sentence"
// for alignment purposes).
func boundariesFor(typ Type, text string) []int {
	if typ != TypeSentence && typ != TypeParagraph {
		return []int{0}
	}
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return []int{0}
	}
	bounds := make([]int, 0, len(sentences))
	offset := 0
	for _, s := range sentences {
		idx := strings.Index(text[offset:], s)
		if idx < 0 {
			break
		}
		bounds = append(bounds, offset+idx)
		offset += idx + len(s)
	}
	if len(bounds) == 0 || bounds[0] != 0 {
		bounds = append([]int{0}, bounds...)
	}
	return bounds
}

// mergeShortChunks merges chunks shorter than minLen forward into the next
// chunk when the two types are linkable (§4.C step 4).
func mergeShortChunks(chunks []Chunk, minLen int) []Chunk {
	if len(chunks) == 0 {
		return chunks
	}
	var out []Chunk
	i := 0
	for i < len(chunks) {
		cur := chunks[i]
		for len(cur.Text) < minLen && i+1 < len(chunks) && isLinkable(cur.Type, chunks[i+1].Type) {
			next := chunks[i+1]
			cur.Text = joinWithSeparator(cur.Type, cur.Text, next.Text)
			cur.SentenceBoundaries = boundariesFor(cur.Type, cur.Text)
			cur.UpdatedAt = next.UpdatedAt
			i++
		}
		out = append(out, cur)
		i++
	}
	// renumber positions after merges
	for idx := range out {
		out[idx].Position = uint64(idx)
	}
	return out
}

func joinWithSeparator(typ Type, a, b string) string {
	switch typ {
	case TypeList:
		return a + "\n" + b
	default:
		return a + " " + b
	}
}

// linkAdjacent symmetrically links consecutive chunks of a linkable type,
// forming the transitive link-groups required by spec.md §3.2.
func linkAdjacent(chunks []Chunk) []Chunk {
	for i := 0; i+1 < len(chunks); i++ {
		if isLinkable(chunks[i].Type, chunks[i+1].Type) {
			chunks[i].LinkedChunks[chunks[i+1].ID] = true
			chunks[i+1].LinkedChunks[chunks[i].ID] = true
		}
	}
	return chunks
}

// Reconstruct reassembles chunks in position order, interleaving
// type-specific separators (§4.C): paragraph and heading separate with a
// blank line, sentences get a period (if missing) and a space, list items
// join with a newline.
func Reconstruct(chunks []Chunk) string {
	sorted := make([]Chunk, len(chunks))
	copy(sorted, chunks)
	sortByPosition(sorted)

	var b strings.Builder
	for i, c := range sorted {
		text := c.Text
		switch c.Type {
		case TypeSentence:
			if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") {
				text += "."
			}
		}
		b.WriteString(text)
		if i == len(sorted)-1 {
			continue
		}
		switch c.Type {
		case TypeParagraph, TypeHeading, TypeCode, TypeTable:
			b.WriteString("\n\n")
		case TypeList:
			b.WriteString("\n")
		case TypeSentence:
			b.WriteString(" ")
		}
	}
	return b.String()
}

func sortByPosition(chunks []Chunk) {
	for i := 1; i < len(chunks); i++ {
		for j := i; j > 0 && chunks[j-1].Position > chunks[j].Position; j-- {
			chunks[j-1], chunks[j] = chunks[j], chunks[j-1]
		}
	}
}
