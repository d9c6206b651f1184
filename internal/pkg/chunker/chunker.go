// Package chunker splits extracted document text into fixed-size
// overlapping windows. Sizes are counted in runes.
package chunker

const (
	DefaultSize    = 1000
	DefaultOverlap = 100
)

// Split walks text from offset 0 and emits text[i:min(i+size, n)] until a
// window reaches the end. The next window starts size-overlap runes later.
// An overlap that is not smaller than size would stall the walk, so the
// advance falls back to size and the windows stop overlapping.
func Split(text string, size, overlap int) []string {
	if size < 1 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = 0
	}
	step := size - overlap
	if step <= 0 {
		step = size
	}

	runes := []rune(text)
	n := len(runes)
	var chunks []string
	for i := 0; i < n; i += step {
		end := i + size
		if end > n {
			end = n
		}
		chunks = append(chunks, string(runes[i:end]))
		if end == n {
			break
		}
	}
	return chunks
}
