package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitTextReconstructsWords(t *testing.T) {
	text := "Experienced backend engineer skilled in Go and PostgreSQL with a focus on distributed systems"
	chunks := SplitText(text, 30)
	require.NotEmpty(t, chunks)

	var words []string
	for _, chunk := range chunks {
		require.NotEmpty(t, chunk)
		words = append(words, strings.Fields(chunk)...)
	}
	require.Equal(t, strings.Fields(text), words)
}

func TestSplitTextRespectsSizeLimit(t *testing.T) {
	text := strings.Repeat("word ", 200)
	chunks := SplitText(text, 50)
	for _, chunk := range chunks {
		require.LessOrEqual(t, len(chunk), 50)
		require.False(t, strings.HasPrefix(chunk, " "))
		require.False(t, strings.HasSuffix(chunk, " "))
	}
}

func TestSplitTextEmptyInput(t *testing.T) {
	require.Nil(t, SplitText("", 100))
	require.Nil(t, SplitText("   \n\t  ", 100))
}

func TestSplitTextOversizedWordKeptWhole(t *testing.T) {
	chunks := SplitText("supercalifragilistic", 1)
	require.Equal(t, []string{"supercalifragilistic"}, chunks)

	chunks = SplitText("a supercalifragilistic b", 1)
	require.Equal(t, []string{"a", "supercalifragilistic", "b"}, chunks)
}

func TestSplitTextNormalizesWhitespace(t *testing.T) {
	chunks := SplitText("alpha\n\nbeta\t gamma", 100)
	require.Equal(t, []string{"alpha beta gamma"}, chunks)
}

func TestSplitTextDefaultChunkSize(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 100)
	chunks := SplitText(text, 0)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		require.LessOrEqual(t, len(chunk), DefaultChunkSize)
	}
}
