package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/banglaqa/GoPDFQA/internal/config"
	"github.com/banglaqa/GoPDFQA/internal/domain/commonModels"
)

// Separators ordered coarse to fine: paragraph break, Bangla danda
// (sentence end), newline, space, then a hard character cut.
var defaultSeparators = []string{"\n\n", "।", "\n", " ", ""}

type Chunker struct {
	maxRunes     int
	overlapRunes int
	separators   []string
}

func New(maxRunes, overlapRunes int) *Chunker {
	if maxRunes <= 0 {
		maxRunes = config.ChunkMaxRunes
	}
	if overlapRunes < 0 || overlapRunes >= maxRunes {
		overlapRunes = config.ChunkOverlapRunes
	}
	return &Chunker{
		maxRunes:     maxRunes,
		overlapRunes: overlapRunes,
		separators:   defaultSeparators,
	}
}

// Split turns raw text into ordered chunks. Each chunk is at most maxRunes
// long and, except for the first, starts with the last overlapRunes runes of
// its predecessor. Splitting is purely positional so the same text always
// yields the same chunks.
func (c *Chunker) Split(text string) []commonModels.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= c.maxRunes {
		return []commonModels.Chunk{{Text: text, Index: 0}}
	}

	// Segments concatenate back to the original text. Their budget leaves
	// room for the overlap prefix so assembled chunks stay under maxRunes.
	budget := c.maxRunes - c.overlapRunes
	segments := c.segment(text, budget, 0)

	chunks := make([]commonModels.Chunk, 0, len(segments))
	carry := ""
	for i, seg := range segments {
		chunkText := seg
		if i > 0 {
			chunkText = carry + seg
		}
		chunks = append(chunks, commonModels.Chunk{Text: chunkText, Index: i})
		carry = tailRunes(chunkText, c.overlapRunes)
	}
	return chunks
}

// segment splits text into pieces of at most budget runes, trying the
// coarsest separator first and recursing with finer ones only for pieces
// that are still too long. Concatenating the result reproduces text exactly.
func (c *Chunker) segment(text string, budget int, sepIdx int) []string {
	if utf8.RuneCountInString(text) <= budget {
		return []string{text}
	}
	if sepIdx >= len(c.separators) || c.separators[sepIdx] == "" {
		return hardCut(text, budget)
	}

	sep := c.separators[sepIdx]
	if !strings.Contains(text, sep) {
		return c.segment(text, budget, sepIdx+1)
	}

	// SplitAfter keeps the separator glued to the preceding piece, so no
	// characters are lost when pieces are merged back together.
	parts := strings.SplitAfter(text, sep)

	var out []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			out = append(out, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, part := range parts {
		partLen := utf8.RuneCountInString(part)
		if partLen > budget {
			// This piece alone busts the budget: recurse with a finer
			// separator.
			flush()
			out = append(out, c.segment(part, budget, sepIdx+1)...)
			continue
		}
		if currentLen+partLen > budget {
			flush()
		}
		current.WriteString(part)
		currentLen += partLen
	}
	flush()
	return out
}

func hardCut(text string, budget int) []string {
	var out []string
	runes := []rune(text)
	for start := 0; start < len(runes); start += budget {
		end := start + budget
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

func tailRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
