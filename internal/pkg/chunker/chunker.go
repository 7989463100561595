package chunker

const (
	DefaultSize    = 3000
	DefaultOverlap = 300
)

// Split cuts text into overlapping windows by rune count. Chunk i covers
// [i*(size-overlap), i*(size-overlap)+size), clamped to the text length.
// Splitting stops once a chunk reaches the end of the text, so input no
// longer than size yields exactly one chunk. Empty input yields no chunks.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 10
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
