package textsplit

// snapRatio is the fraction of a window after which a sentence or paragraph
// boundary is preferred over a hard cut.
const snapRatio = 0.7

// Split cuts text into windows of at most chunkSize runes. Consecutive chunks
// share exactly overlap runes. A window end is moved back to just after the
// last '.' or '\n' when that boundary falls past 70% of the window.
func Split(text string, chunkSize, overlap int) []string {
	if text == "" {
		return nil
	}
	r := []rune(text)
	if chunkSize <= 0 || len(r) <= chunkSize {
		return []string{text}
	}
	overlap = clampOverlap(chunkSize, overlap)
	minBreak := int(float64(chunkSize) * snapRatio)

	var chunks []string
	start := 0
	for start < len(r) {
		end := start + chunkSize
		if end >= len(r) {
			chunks = append(chunks, string(r[start:]))
			break
		}
		if bp := lastBoundary(r[start:end]); bp > minBreak {
			end = start + bp + 1
		}
		chunks = append(chunks, string(r[start:end]))

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// Count is the number of chunks Split yields for n runes when no boundary snapping occurs.
func Count(n, chunkSize, overlap int) int {
	if n <= 0 {
		return 0
	}
	if chunkSize <= 0 || n <= chunkSize {
		return 1
	}
	overlap = clampOverlap(chunkSize, overlap)
	step := chunkSize - overlap
	return (n - overlap + step - 1) / step
}

func clampOverlap(chunkSize, overlap int) int {
	if overlap < 0 {
		return 0
	}
	if overlap > chunkSize/2 {
		return chunkSize / 2
	}
	return overlap
}

func lastBoundary(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '.' || window[i] == '\n' {
			return i
		}
	}
	return -1
}
