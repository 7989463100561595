package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_WindowCoverage(t *testing.T) {
	text := strings.Repeat("a", 7000)

	chunks := Split(text, 3000, 300)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 3000)
	assert.Len(t, chunks[1], 3000)
	assert.Len(t, chunks[2], 1600)
}

func TestSplit_ReconstructsOriginal(t *testing.T) {
	var b strings.Builder
	for i := 0; b.Len() < 7500; i++ {
		b.WriteString("the quick brown fox ")
	}
	text := b.String()
	size, overlap := 3000, 300

	chunks := Split(text, size, overlap)
	require.NotEmpty(t, chunks)

	// De-overlap: keep the first chunk whole, then drop the leading
	// overlap runes from every later chunk.
	var rebuilt strings.Builder
	for i, c := range chunks {
		runes := []rune(c)
		if i > 0 {
			runes = runes[overlap:]
		}
		rebuilt.WriteString(string(runes))
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	chunks := Split("short text", 3000, 300)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestSplit_ExactWindowSingleChunk(t *testing.T) {
	text := strings.Repeat("x", 3000)
	chunks := Split(text, 3000, 300)
	require.Len(t, chunks, 1)
}

func TestSplit_EmptyTextNoChunks(t *testing.T) {
	assert.Empty(t, Split("", 3000, 300))
}

func TestSplit_MultibyteRunes(t *testing.T) {
	text := strings.Repeat("日", 10)
	chunks := Split(text, 4, 1)
	require.Len(t, chunks, 3)
	assert.Equal(t, "日日日日", chunks[0])
	assert.Equal(t, string([]rune(text)[3:7]), chunks[1])
	assert.Equal(t, string([]rune(text)[6:]), chunks[2])
}
