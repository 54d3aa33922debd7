package audio

import (
	"strings"
	"unicode/utf8"
)

// Split packs sentences greedily into chunks of at most maxChars runes.
// Sentences end at '.', with '!' and '?' treated the same. A sentence longer
// than maxChars on its own becomes a single oversized chunk.
func Split(text string, maxChars int) []string {
	text = strings.NewReplacer("!", ".", "?", ".").Replace(text)

	var chunks []string
	var cur strings.Builder
	curLen := 0

	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		piece := sentence + ". "
		n := utf8.RuneCountInString(piece)

		if curLen+n > maxChars {
			if curLen > 0 {
				chunks = append(chunks, strings.TrimSpace(cur.String()))
			}
			cur.Reset()
			curLen = 0
		}
		cur.WriteString(piece)
		curLen += n
	}
	if curLen > 0 {
		chunks = append(chunks, strings.TrimSpace(cur.String()))
	}
	return chunks
}
