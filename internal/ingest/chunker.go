package ingest

import "strings"

// separators are tried in order when splitting text. The final empty
// separator splits into individual runes so no chunk can exceed the limit.
var separators = []string{"\n\n", "\n", " ", ""}

// Chunker splits extracted text into overlapping chunks. Sizes are measured
// in runes. Splitting is deterministic: the same input always yields the
// same chunks.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker producing chunks of at most size runes with
// the given overlap between consecutive chunks. Overlap must be smaller
// than size.
func NewChunker(size, overlap int) *Chunker {
	return &Chunker{size: size, overlap: overlap}
}

// Split breaks text into chunks. Whitespace-only input yields no chunks.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string
	for _, chunk := range c.splitRecursive(text, separators) {
		trimmed := strings.TrimSpace(chunk)
		if trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}
	return chunks
}

// splitRecursive splits text on the first separator it contains, merges
// small pieces back up to the size limit, and recurses with the remaining
// separators for pieces that are still too large.
func (c *Chunker) splitRecursive(text string, seps []string) []string {
	sep := seps[len(seps)-1]
	rest := seps
	for i, s := range seps {
		if s == "" || strings.Contains(text, s) {
			sep = s
			rest = seps[i+1:]
			break
		}
	}

	splits := splitOn(text, sep)

	var final []string
	var good []string
	for _, split := range splits {
		if runeLen(split) < c.size {
			good = append(good, split)
			continue
		}
		if len(good) > 0 {
			final = append(final, c.mergeSplits(good, sep)...)
			good = nil
		}
		if len(rest) == 0 {
			final = append(final, split)
		} else {
			final = append(final, c.splitRecursive(split, rest)...)
		}
	}
	if len(good) > 0 {
		final = append(final, c.mergeSplits(good, sep)...)
	}
	return final
}

// mergeSplits packs consecutive small splits into chunks up to the size
// limit, carrying overlap runes worth of trailing splits into the next
// chunk.
func (c *Chunker) mergeSplits(splits []string, sep string) []string {
	sepLen := runeLen(sep)

	var chunks []string
	var window []string
	total := 0

	flush := func() {
		if len(window) == 0 {
			return
		}
		joined := strings.TrimSpace(strings.Join(window, sep))
		if joined != "" {
			chunks = append(chunks, joined)
		}
	}

	for _, split := range splits {
		length := runeLen(split)
		if total+length+joinLen(len(window), sepLen) > c.size && len(window) > 0 {
			flush()
			for total > c.overlap || (total+length+joinLen(len(window), sepLen) > c.size && total > 0) {
				total -= runeLen(window[0])
				window = window[1:]
			}
		}
		window = append(window, split)
		total += length
	}
	flush()
	return chunks
}

// joinLen is the rune count contributed by separators when joining n pieces
// with one more appended.
func joinLen(n, sepLen int) int {
	if n == 0 {
		return 0
	}
	return n * sepLen
}

// splitOn splits on sep, keeping behaviour consistent for the rune-level
// empty separator.
func splitOn(text, sep string) []string {
	if sep == "" {
		runes := []rune(text)
		out := make([]string, 0, len(runes))
		for _, r := range runes {
			out = append(out, string(r))
		}
		return out
	}
	return strings.Split(text, sep)
}

func runeLen(s string) int {
	return len([]rune(s))
}
