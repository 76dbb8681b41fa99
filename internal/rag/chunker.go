package rag

import (
	"regexp"
	"strings"
)

var sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)

// ChunkSentences splits plain text into segments of at most maxSize
// characters, preferring sentence boundaries. Sentences are accumulated
// greedily; a single sentence longer than maxSize is hard-split. The split
// is fully deterministic so re-indexing unchanged content regenerates the
// same chunks.
func ChunkSentences(text string, maxSize int) []string {
	text = strings.TrimSpace(text)
	if text == "" || maxSize <= 0 {
		return nil
	}

	sentences := splitSentences(text)

	var chunks []string
	current := new(strings.Builder)
	currentRunes := 0 // builder length is bytes, the cap is in runes

	flush := func() {
		if currentRunes > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
			currentRunes = 0
		}
	}

	for _, sentence := range sentences {
		runes := []rune(sentence)

		// Oversized sentence: close the running chunk and hard-split
		if len(runes) > maxSize {
			flush()
			for start := 0; start < len(runes); start += maxSize {
				end := start + maxSize
				if end > len(runes) {
					end = len(runes)
				}
				piece := strings.TrimSpace(string(runes[start:end]))
				if piece != "" {
					chunks = append(chunks, piece)
				}
			}
			continue
		}

		if currentRunes > 0 && currentRunes+1+len(runes) > maxSize {
			flush()
		}
		if currentRunes > 0 {
			current.WriteString(" ")
			currentRunes++
		}
		current.WriteString(sentence)
		currentRunes += len(runes)
	}
	flush()

	return chunks
}

// splitSentences splits after ., ! or ? followed by whitespace, keeping the
// terminator with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	last := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		// loc[0] is the terminator, the whitespace run ends at loc[1]
		sentence := strings.TrimSpace(text[last : loc[0]+1])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}
