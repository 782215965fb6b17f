package textfit

import (
	"strings"
	"unicode"
)

// honorifics lists short abbreviations whose trailing period never ends a
// sentence.
var honorifics = map[string]bool{
	"Mr":  true,
	"Mrs": true,
	"Mme": true,
	"M":   true,
}

// SplitSentences splits text at sentence boundaries: a '.', '!' or '?'
// followed by whitespace and a capital letter, or an explicit line break. A
// period directly after an honorific abbreviation is not a boundary. The
// whitespace between sentences is dropped; each returned sentence keeps its
// closing punctuation.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0
	for i := 0; i < len(runes); {
		c := runes[i]
		if c == '\n' {
			if i > start {
				sentences = append(sentences, strings.TrimRight(string(runes[start:i]), " \t"))
			}
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
			start = i
			continue
		}
		if c != '.' && c != '!' && c != '?' {
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		boundary := j > i+1 && j < len(runes) && unicode.IsUpper(runes[j])
		if boundary && c == '.' && endsWithHonorific(runes[start:i]) {
			boundary = false
		}
		if !boundary {
			i++
			continue
		}
		sentences = append(sentences, string(runes[start:i+1]))
		start, i = j, j
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// endsWithHonorific reports whether the last word of the text before a period
// is one of the known abbreviations.
func endsWithHonorific(before []rune) bool {
	end := len(before)
	start := end
	for start > 0 && unicode.IsLetter(before[start-1]) {
		start--
	}
	if start == end {
		return false
	}
	return honorifics[string(before[start:end])]
}
