package chunker

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/banglaqa/GoPDFQA/internal/domain/commonModels"
)

func TestSplit_EmptyAndShortInput(t *testing.T) {
	c := New(500, 100)

	if got := c.Split(""); got != nil {
		t.Errorf("Empty text should yield no chunks, got %d", len(got))
	}
	if got := c.Split("   \n\n  "); got != nil {
		t.Errorf("Whitespace-only text should yield no chunks, got %d", len(got))
	}

	short := "প্রথম পৃষ্ঠা।\n\nদ্বিতীয় পৃষ্ঠা।"
	got := c.Split(short)
	if len(got) != 1 {
		t.Fatalf("Short text should yield exactly 1 chunk, got %d", len(got))
	}
	if got[0].Text != short || got[0].Index != 0 {
		t.Errorf("Single chunk should carry the whole text unchanged: %+v", got[0])
	}
}

func TestSplit_Deterministic(t *testing.T) {
	c := New(60, 10)
	text := strings.Repeat("একটি বাক্য এখানে আছে। ", 25)

	first := c.Split(text)
	second := c.Split(text)

	if !reflect.DeepEqual(first, second) {
		t.Error("Repeated splits of the same text differ")
	}
}

func TestSplit_MaxLengthAndOverlap(t *testing.T) {
	maxRunes, overlap := 80, 20
	c := New(maxRunes, overlap)
	text := strings.Repeat("বাংলা ভাষার একটি দীর্ঘ অনুচ্ছেদ। ", 30)

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}

	for i, ch := range chunks {
		if n := utf8.RuneCountInString(ch.Text); n > maxRunes {
			t.Errorf("Chunk %d has %d runes, max is %d", i, n, maxRunes)
		}
		if ch.Index != i {
			t.Errorf("Chunk at position %d carries index %d", i, ch.Index)
		}
	}

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		if len(prev) < overlap {
			continue
		}
		tail := string(prev[len(prev)-overlap:])
		if !strings.HasPrefix(chunks[i].Text, tail) {
			t.Errorf("Chunk %d does not start with the %d-rune tail of its predecessor", i, overlap)
		}
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		overlap int
		text    string
	}{
		{"paragraphs", 50, 10, strings.Repeat("অনুচ্ছেদ এক।\n\n", 20)},
		{"sentences", 60, 15, strings.Repeat("এটি একটি বাক্য। ", 30)},
		{"no separators", 40, 8, strings.Repeat("ক", 200)},
		{"mixed", 70, 10, "শিরোনাম\n\n" + strings.Repeat("কিছু কথা এখানে লেখা আছে। ", 15) + "\nশেষ লাইন"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.max, tt.overlap)
			chunks := c.Split(tt.text)

			if got := reconstruct(chunks, tt.overlap); got != tt.text {
				t.Errorf("Overlap-stripped concatenation does not reproduce the input.\n got: %q\nwant: %q", got, tt.text)
			}
		})
	}
}

func TestSplit_PrefersCoarseSeparators(t *testing.T) {
	c := New(30, 5)
	text := "প্রথম অংশ এখানে আছে\n\nদ্বিতীয় অংশ এখানে আছে\n\nতৃতীয় অংশ এখানে আছে"

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("Expected a paragraph-level split, got %d chunks", len(chunks))
	}
	// The first chunk should end at a paragraph boundary, not mid-word.
	if !strings.HasSuffix(chunks[0].Text, "\n\n") {
		t.Errorf("First chunk should end on the paragraph separator, got %q", chunks[0].Text)
	}
}

// reconstruct drops each chunk's overlap prefix and concatenates the rest.
func reconstruct(chunks []commonModels.Chunk, overlap int) string {
	var b strings.Builder
	prevLen := 0
	for i, ch := range chunks {
		runes := []rune(ch.Text)
		if i == 0 {
			b.WriteString(ch.Text)
			prevLen = len(runes)
			continue
		}
		drop := overlap
		if prevLen < overlap {
			drop = prevLen
		}
		b.WriteString(string(runes[drop:]))
		prevLen = len(runes)
	}
	return b.String()
}
