// Package chunker splits raw document text into overlapping paragraph
// windows suitable for embedding. Consecutive chunks share a paragraph of
// overlap so ideas are not cut at chunk boundaries.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// minParagraphRunes filters out headings, page numbers and other
	// fragments with no standalone meaning.
	minParagraphRunes = 20

	// paragraphsPerChunk and paragraphOverlap control the sliding window.
	paragraphsPerChunk = 3
	paragraphOverlap   = 1
)

var (
	paragraphRe  = regexp.MustCompile(`\n\s*\n`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Split breaks content into chunks of normalized text. Very short content
// comes back as a single chunk; longer content as overlapping windows of
// paragraphs. Every returned chunk is non-empty.
func Split(content string) []string {
	paragraphs := paragraphRe.Split(content, -1)

	normalized := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if utf8.RuneCountInString(strings.TrimSpace(p)) <= minParagraphRunes {
			continue
		}
		normalized = append(normalized, normalize(p))
	}

	if len(normalized) == 0 {
		whole := normalize(content)
		if whole == "" {
			return nil
		}
		return []string{whole}
	}

	if len(normalized) <= paragraphsPerChunk {
		return []string{strings.Join(normalized, "\n\n")}
	}

	step := paragraphsPerChunk - paragraphOverlap
	var chunks []string
	for i := 0; i < len(normalized)-paragraphOverlap; i += step {
		end := i + paragraphsPerChunk
		if end > len(normalized) {
			end = len(normalized)
		}
		chunks = append(chunks, strings.Join(normalized[i:end], "\n\n"))
		if end == len(normalized) {
			break
		}
	}
	return chunks
}

func normalize(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
