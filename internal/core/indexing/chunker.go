package indexing

import (
	"strings"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/core"
)

// pageChunk is one bounded slice of page text, pre-embedding.
type pageChunk struct {
	Page int
	Text string
}

// chunkPages splits each page into bounded, overlapping, boundary-aware
// units, preserving page provenance.
func chunkPages(pages []core.Page, maxChars, overlap int) []pageChunk {
	var out []pageChunk
	for _, p := range pages {
		for _, text := range splitPage(p.Text, maxChars, overlap) {
			out = append(out, pageChunk{Page: p.Number, Text: text})
		}
	}
	return out
}

// splitPage slices one page's text into chunks of at most maxChars
// characters. A page that fits becomes a single chunk. Otherwise each window
// ends at the best boundary found working backward from start+maxChars
// (paragraph break, then sentence break, then word boundary, each accepted
// only past the halfway point of the window), and the next window starts
// overlap characters before the previous end.
func splitPage(text string, maxChars, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return []string{text}
	}

	var out []string
	start := 0
	for start < len(runes) {
		end := start + maxChars
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = splitPoint(runes, start, end)
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			out = append(out, chunk)
		}
		if end == len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			// Overlap would stall the loop; give up the overlap for
			// this boundary and keep moving forward.
			next = end
		}
		start = next
	}
	return out
}

// splitPoint finds where to end the window runes[start:end), preferring a
// paragraph break, then a sentence break, then a word boundary. A candidate
// is only accepted past the window's halfway point, to avoid pathologically
// short chunks. With no acceptable boundary the window ends at end.
func splitPoint(runes []rune, start, end int) int {
	half := start + (end-start)/2

	for i := end - 2; i > half; i-- {
		if runes[i] == '\n' && runes[i+1] == '\n' {
			return i
		}
	}
	for i := end - 2; i > half; i-- {
		if runes[i] == '.' && runes[i+1] == ' ' {
			return i + 1
		}
	}
	for i := end - 1; i > half; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return end
}
