package service

import (
	"slowpoke/internal/core/domain"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const DefaultChunkSize = 4096

type boundary int

const (
	paragraphBoundary boundary = iota
	blockBoundary
	lineBoundary
	sentenceBoundary
	wordBoundary
)

var boundaries = []boundary{paragraphBoundary, blockBoundary, lineBoundary, sentenceBoundary, wordBoundary}

// Chunker splits text into parts of at most maxUnits units, preferring structural boundaries so that every part
// stays valid markdown on its own. Units are code points unless the chunker was built by NewUTF16Chunker.
type Chunker struct {
	maxUnits int
	// runeUnits is the size of one code point in the unit the limit is measured in.
	runeUnits func(r rune) int
}

func NewChunker(maxUnits int) *Chunker {
	if maxUnits < 1 {
		maxUnits = DefaultChunkSize
	}

	return &Chunker{maxUnits: maxUnits, runeUnits: func(rune) int { return 1 }}
}

// NewUTF16Chunker measures parts in UTF-16 code units, the unit Telegram counts its message limit in. Code points
// outside the Basic Multilingual Plane, such as most emoji, count twice.
func NewUTF16Chunker(maxUnits int) *Chunker {
	c := NewChunker(maxUnits)
	c.runeUnits = func(r rune) int {
		if n := utf16.RuneLen(r); n > 0 {
			return n
		}
		return 1
	}

	return c
}

// Split returns the ordered parts of text. Concatenating the parts yields text again; the boundary characters stay at
// the end of the part before the cut. Empty text yields a single empty part.
func (c *Chunker) Split(text string) []domain.Chunk {
	parts := c.split(text)

	chunks := make([]domain.Chunk, len(parts))
	for i, part := range parts {
		chunks[i] = domain.Chunk{Index: i + 1, Total: len(parts), Text: part}
	}

	return chunks
}

func (c *Chunker) split(text string) []string {
	var parts []string

	rest := text
	for c.length(rest) > c.maxUnits {
		cut := cutPoint(rest, c.byteOffset(rest, c.maxUnits))
		parts = append(parts, rest[:cut])
		rest = rest[cut:]
	}

	if rest != "" || len(parts) == 0 {
		parts = append(parts, rest)
	}

	return parts
}

// cutPoint picks where to end the next part of s, given that s[:limit] is the largest allowed part.
// Boundaries in the second half of the window win over stronger boundaries earlier on, to avoid tiny parts.
func cutPoint(s string, limit int) int {
	for _, minCut := range []int{max(limit/2, 1), 1} {
		for _, b := range boundaries {
			if p := lastBoundary(s, limit, minCut, b); p > 0 {
				return p
			}
		}
	}

	return hardCut(s, limit)
}

func lastBoundary(s string, limit, minCut int, b boundary) int {
	for p := limit; p >= minCut; p-- {
		if isBoundary(s, p, b) {
			return p
		}
	}

	return -1
}

// isBoundary reports whether s can be cut before index p at the given strength. All checks look at ASCII bytes,
// so p is always on a rune boundary when it matches.
func isBoundary(s string, p int, b boundary) bool {
	prev := s[p-1]

	switch b {
	case paragraphBoundary:
		return p >= 2 && s[p-2:p] == "\n\n"
	case blockBoundary:
		return prev == '\n' && startsBlock(s[p:])
	case lineBoundary:
		return prev == '\n'
	case sentenceBoundary:
		return p >= 2 && (prev == ' ' || prev == '\n') && strings.IndexByte(".!?", s[p-2]) >= 0
	case wordBoundary:
		return prev == ' ' || prev == '\t'
	}

	return false
}

func startsBlock(line string) bool {
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "```") || strings.HasPrefix(line, "> ") {
		return true
	}

	for _, marker := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}

	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}

	return i > 0 && strings.HasPrefix(line[i:], ". ")
}

// hardCut cuts at limit but moves back before a run of identical markdown markers straddling the cut.
func hardCut(s string, limit int) int {
	p := limit
	if p < len(s) && isMarker(s[p]) {
		for p > 0 && s[p-1] == s[limit] {
			p--
		}
	}

	if p == 0 {
		return limit
	}

	return p
}

func isMarker(c byte) bool {
	return c == '*' || c == '_' || c == '~' || c == '`'
}

func (c *Chunker) length(s string) int {
	n := 0
	for _, r := range s {
		n += c.runeUnits(r)
	}

	return n
}

// byteOffset returns the byte index just after the longest prefix of s that fits into n units. The prefix holds at
// least one code point, so splitting always makes progress.
func (c *Chunker) byteOffset(s string, n int) int {
	i, used := 0, 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		used += c.runeUnits(r)
		if used > n && i > 0 {
			break
		}
		i += size
	}

	return i
}
