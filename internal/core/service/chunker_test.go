package service

import (
	"strings"
	"testing"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinChunks(t *testing.T, c *Chunker, text string) []string {
	t.Helper()

	chunks := c.Split(text)
	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		assert.Equal(t, i+1, chunk.Index)
		assert.Equal(t, len(chunks), chunk.Total)
		assert.LessOrEqual(t, c.length(chunk.Text), c.maxUnits)
		assert.True(t, utf8.ValidString(chunk.Text))
		parts[i] = chunk.Text
	}

	require.Equal(t, text, strings.Join(parts, ""))

	return parts
}

func TestChunker_Split(t *testing.T) {
	tests := []struct {
		name     string
		maxUnits int
		text     string
		want     []string
	}{
		{
			name:     "short text is one part",
			maxUnits: 4096,
			text:     "0123456789",
			want:     []string{"0123456789"},
		},
		{
			name:     "empty text is one empty part",
			maxUnits: 10,
			text:     "",
			want:     []string{""},
		},
		{
			name:     "exact fit",
			maxUnits: 5,
			text:     "abcde",
			want:     []string{"abcde"},
		},
		{
			name:     "prefers paragraph break",
			maxUnits: 20,
			text:     "first para\n\nsecond para",
			want:     []string{"first para\n\n", "second para"},
		},
		{
			name:     "prefers list start over later line break",
			maxUnits: 30,
			text:     "intro paragraph\n- item\nbbbb\ncccccccccc",
			want:     []string{"intro paragraph\n", "- item\nbbbb\ncccccccccc"},
		},
		{
			name:     "falls back to words",
			maxUnits: 10,
			text:     "aaaa bbbb cccc",
			want:     []string{"aaaa bbbb ", "cccc"},
		},
		{
			name:     "hard cut without boundaries",
			maxUnits: 4,
			text:     "abcdefghij",
			want:     []string{"abcd", "efgh", "ij"},
		},
		{
			name:     "does not split a bold marker",
			maxUnits: 5,
			text:     "aaaa**bb**",
			want:     []string{"aaaa", "**bb", "**"},
		},
		{
			name:     "never splits a code point",
			maxUnits: 3,
			text:     "😤😤😤😤",
			want:     []string{"😤😤😤", "😤"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := joinChunks(t, NewChunker(tc.maxUnits), tc.text)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestChunker_SplitRoundTripsMarkdown(t *testing.T) {
	sb := &strings.Builder{}
	for i := range 200 {
		sb.WriteString("## Heading ")
		sb.WriteString(strings.Repeat("é", i%7))
		sb.WriteString("\n\nSome **bold** text. And `code` here! Another sentence?\n")
		sb.WriteString("1. first\n2. second\n\n```go\nfmt.Println(\"hi\")\n```\n\n")
	}
	text := sb.String()

	for _, size := range []int{16, 64, 300, 2000, 4096} {
		parts := joinChunks(t, NewChunker(size), text)
		assert.Greater(t, len(parts), 1)
	}
}

func TestChunker_SplitIsDeterministic(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet. ", 500)
	c := NewChunker(100)

	assert.Equal(t, c.Split(text), c.Split(text))
}

func TestNewChunkerDefaultsSize(t *testing.T) {
	assert.Equal(t, DefaultChunkSize, NewChunker(0).maxUnits)
}

func TestUTF16Chunker_Split(t *testing.T) {
	tests := []struct {
		name     string
		maxUnits int
		text     string
		want     []string
	}{
		{
			name:     "emoji count as two units",
			maxUnits: 4,
			text:     "😤😤😤",
			want:     []string{"😤😤", "😤"},
		},
		{
			name:     "basic plane counts once",
			maxUnits: 4,
			text:     "ééééé",
			want:     []string{"éééé", "é"},
		},
		{
			name:     "emoji never straddles the limit",
			maxUnits: 3,
			text:     "a😤b",
			want:     []string{"a😤", "b"},
		},
		{
			name:     "limit below one emoji still progresses",
			maxUnits: 1,
			text:     "😤😤",
			want:     []string{"😤", "😤"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewUTF16Chunker(tc.maxUnits)

			chunks := c.Split(tc.text)
			parts := make([]string, len(chunks))
			for i, chunk := range chunks {
				parts[i] = chunk.Text
			}

			assert.Equal(t, tc.want, parts)
		})
	}
}

func TestUTF16Chunker_SplitStaysWithinLimit(t *testing.T) {
	text := strings.Repeat("🎱 The answer is yes. ", 400)

	c := NewUTF16Chunker(4096)
	parts := joinChunks(t, c, text)

	require.Greater(t, len(parts), 1)
	for _, p := range parts {
		assert.LessOrEqual(t, len(utf16.Encode([]rune(p))), 4096)
	}
}
