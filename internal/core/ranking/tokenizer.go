package ranking

import (
	"iter"
	"strings"
	"unicode/utf8"
)

// minTokenLen is the shortest run, in characters, emitted as a token.
const minTokenLen = 2

// isWordChar reports whether r belongs to a token: ASCII letters and digits,
// Hangul syllables and Hangul compatibility jamo.
func isWordChar(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= 0xAC00 && r <= 0xD7A3: // 가..힣
		return true
	case r >= 0x3131 && r <= 0x314E: // ㄱ..ㅎ
		return true
	case r >= 0x314F && r <= 0x3163: // ㅏ..ㅣ
		return true
	default:
		return false
	}
}

// Tokens yields the lowercased word runs of text that are at least two
// characters long. The sequence can be ranged over any number of times.
func Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := -1
		for i, r := range text {
			if isWordChar(r) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				if !emit(text[start:i], yield) {
					return
				}
				start = -1
			}
		}
		if start >= 0 {
			emit(text[start:], yield)
		}
	}
}

// emit yields run if it is long enough. It returns false when the consumer stopped.
func emit(run string, yield func(string) bool) bool {
	if utf8.RuneCountInString(run) < minTokenLen {
		return true
	}
	return yield(strings.ToLower(run))
}

// Tokenize collects Tokens into a slice.
func Tokenize(text string) []string {
	var out []string
	for tok := range Tokens(text) {
		out = append(out, tok)
	}
	return out
}
