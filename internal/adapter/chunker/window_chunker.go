package chunker

import "strings"

// WindowChunker splits text into overlapping character windows, breaking
// only on whitespace so words stay intact.
type WindowChunker struct {
	size    int
	overlap int
}

// NewWindowChunker creates a chunker with the given window size and overlap,
// both in characters. Overlap is clamped below size.
func NewWindowChunker(size, overlap int) *WindowChunker {
	if size <= 0 {
		size = 600
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 4
	}
	return &WindowChunker{size: size, overlap: overlap}
}

// Split returns the overlapping windows of text. Words longer than the
// window size become their own chunk rather than being cut mid-word.
func (c *WindowChunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	start := 0

	for start < len(words) {
		end := start
		length := 0
		var b strings.Builder

		for end < len(words) {
			wordLen := len([]rune(words[end]))
			if length > 0 && length+1+wordLen > c.size {
				break
			}

			if b.Len() > 0 {
				b.WriteString(" ")
				length++
			}
			b.WriteString(words[end])
			length += wordLen
			end++
		}

		chunks = append(chunks, b.String())
		if end == len(words) {
			break
		}

		overlapWords := c.overlapWords(words, start, end)
		newStart := end - overlapWords
		if newStart <= start {
			newStart = start + 1
		}
		start = newStart
	}

	return chunks
}

// overlapWords counts how many trailing words of the finished window make up
// roughly the configured character overlap.
func (c *WindowChunker) overlapWords(words []string, start, end int) int {
	if c.overlap == 0 {
		return 0
	}

	count := 0
	length := 0
	for i := end - 1; i >= start && length < c.overlap; i-- {
		length += len([]rune(words[i])) + 1
		count++
	}
	// Never overlap the whole window, or the walk would stall.
	if count >= end-start {
		count = end - start - 1
	}
	if count < 0 {
		count = 0
	}
	return count
}
