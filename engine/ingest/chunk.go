package ingest

import (
	"strings"
	"unicode"
)

// Chunker splits a source document into embeddable chunks. The minimal
// policy is one chunk per document; long transcripts benefit from windowed
// chunking because a single vector over an hour of speech retrieves poorly.
type Chunker interface {
	Chunk(text string) []string
}

// WholeDoc embeds the entire document as one chunk.
type WholeDoc struct{}

// Chunk implements Chunker.
func (WholeDoc) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []string{text}
}

const (
	// DefaultChunkSize is the target number of tokens per window.
	DefaultChunkSize = 512
	// DefaultOverlap is the number of overlapping tokens between windows.
	DefaultOverlap = 50
)

// SentenceWindow groups sentences into overlapping windows of roughly
// Size tokens. Token count is approximated as word count.
type SentenceWindow struct {
	Size    int
	Overlap int
}

// Chunk implements Chunker.
func (w SentenceWindow) Chunk(text string) []string {
	size := w.Size
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlap := w.Overlap
	if overlap < 0 {
		overlap = 0
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(sentences) {
		var buf strings.Builder
		tokens := 0
		end := start

		for end < len(sentences) {
			words := wordCount(sentences[end])
			if tokens+words > size && tokens > 0 {
				break
			}
			if buf.Len() > 0 {
				buf.WriteRune(' ')
			}
			buf.WriteString(sentences[end])
			tokens += words
			end++
		}

		chunks = append(chunks, buf.String())

		// Move start back by the overlap amount.
		overlapTokens := 0
		newStart := end
		for newStart > start && overlapTokens < overlap {
			newStart--
			overlapTokens += wordCount(sentences[newStart])
		}
		if newStart == start {
			// Ensure forward progress.
			start = end
		} else {
			start = newStart
		}
	}
	return chunks
}

// splitSentences splits text into sentences using punctuation and newlines.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if r == '\n' || i == len(text)-1 || (i+1 < len(text) && unicode.IsSpace(rune(text[i+1]))) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
