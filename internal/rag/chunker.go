package rag

import "strings"

const DefaultChunkSize = 500

// SplitText splits text into word-boundary chunks of at most chunkSize
// characters. A single word longer than chunkSize is kept whole, so a
// chunk can overshoot the target by one word. Empty input yields no
// chunks.
func SplitText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var chunks []string
	var buf strings.Builder
	for _, word := range words {
		if buf.Len() > 0 && buf.Len()+1+len(word) > chunkSize {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(word)
	}
	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks
}
