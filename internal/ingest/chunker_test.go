package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkerEmptyInput(t *testing.T) {
	c := NewChunker(512, 50)

	assert.Nil(t, c.Split(""))
	assert.Nil(t, c.Split("   \n\t  "))
}

func TestChunkerShortInput(t *testing.T) {
	c := NewChunker(512, 50)

	chunks := c.Split("a short document")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short document", chunks[0])
}

func TestChunkerSizeLimit(t *testing.T) {
	c := NewChunker(20, 0)

	text := strings.Repeat("word ", 40)
	chunks := c.Split(text)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 20, "chunk %q exceeds size", chunk)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestChunkerParagraphsFirst(t *testing.T) {
	c := NewChunker(30, 0)

	text := "first paragraph here\n\nsecond paragraph here\n\nthird one"
	chunks := c.Split(text)
	require.Len(t, chunks, 3)
	assert.Equal(t, "first paragraph here", chunks[0])
	assert.Equal(t, "second paragraph here", chunks[1])
	assert.Equal(t, "third one", chunks[2])
}

func TestChunkerOverlap(t *testing.T) {
	c := NewChunker(25, 10)

	text := "alpha beta gamma delta epsilon zeta eta theta"
	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)

	// Consecutive chunks share trailing words with the next chunk's head.
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1])
		last := prevWords[len(prevWords)-1]
		assert.True(t, strings.Contains(chunks[i], last),
			"chunk %d %q should carry overlap from %q", i, chunks[i], chunks[i-1])
	}
}

func TestChunkerDeterministic(t *testing.T) {
	c := NewChunker(50, 10)
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 10)

	first := c.Split(text)
	second := c.Split(text)
	assert.Equal(t, first, second)
}

func TestChunkerUnbreakableRun(t *testing.T) {
	c := NewChunker(10, 0)

	// No separators at all: falls through to rune-level splitting.
	text := strings.Repeat("x", 35)
	chunks := c.Split(text)
	require.NotEmpty(t, chunks)
	total := 0
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 10)
		total += len(chunk)
	}
	assert.Equal(t, 35, total)
}

func TestChunkerRuneSizes(t *testing.T) {
	c := NewChunker(10, 0)

	// Multi-byte runes count as one each.
	text := strings.Repeat("ü", 8)
	chunks := c.Split(text)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}
