package worker

import (
	"unicode"
	"unicode/utf8"
)

// DefaultChunkSize is both the size above which input is chunked and the
// target size of each chunk, in characters.
const DefaultChunkSize = 20000

// SplitChunks cuts text into pieces of roughly size characters for progress
// reporting. A cut is only made before a space that follows a non-whitespace
// character. The pre-tokenizer patterns of every supported encoding end a
// piece at such a position, so encoding the chunks one after another yields
// the same ids as encoding text in one call.
//
// When no such position exists after size characters the chunk grows until
// one is found, so text without spaces stays in a single chunk. Text of at
// most size characters is returned as is.
func SplitChunks(text string, size int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 || utf8.RuneCountInString(text) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	count := 0
	prev := rune(-1)
	for i, r := range text {
		if count >= size && r == ' ' && prev != -1 && !unicode.IsSpace(prev) && i > start {
			chunks = append(chunks, text[start:i])
			start = i
			count = 0
		}
		count++
		prev = r
	}
	return append(chunks, text[start:])
}
