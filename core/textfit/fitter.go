// Package textfit splits free text into segments whose rendered height stays
// within a fixed budget, cutting at sentence boundaries. Measurement is
// delegated to the rendering engine through an injected oracle, so the
// package itself performs no layout.
package textfit

import "strings"

// HeightFunc reports the rendered height of text for a fixed style and
// region width. Implementations are expected to be side-effect free.
type HeightFunc func(text string) float64

// Fit returns text as ordered segments, each measuring at most maxHeight.
// Text that already fits comes back as a single segment. Otherwise the text
// is split into sentences and sentences are moved off the end of the current
// segment until it fits; the overflow tail is then fitted the same way, so
// long inputs yield as many segments as needed.
//
// A single sentence taller than maxHeight cannot be cut at a boundary; it is
// hard-split at the largest rune count that still fits, which inserts a break
// mid-sentence. Apart from that degenerate case, joining the segments with
// single spaces reconstructs the original sentence sequence.
func Fit(text string, maxHeight float64, measure HeightFunc) []string {
	if measure(text) <= maxHeight {
		return []string{text}
	}
	return fitSentences(SplitSentences(text), maxHeight, measure)
}

func fitSentences(sentences []string, maxHeight float64, measure HeightFunc) []string {
	if len(sentences) == 0 {
		return nil
	}
	head := strings.Join(sentences, " ")
	if measure(head) <= maxHeight {
		return []string{head}
	}

	part1 := sentences
	var part2 []string
	for len(part1) > 1 && measure(strings.Join(part1, " ")) > maxHeight {
		part2 = append([]string{part1[len(part1)-1]}, part2...)
		part1 = part1[:len(part1)-1]
	}

	first := strings.Join(part1, " ")
	if measure(first) > maxHeight {
		// Irreducible overflow: one sentence alone exceeds the budget.
		fits, rest := hardSplit(first, maxHeight, measure)
		if rest != "" {
			part2 = append([]string{rest}, part2...)
		}
		first = fits
	}

	return append([]string{first}, fitSentences(part2, maxHeight, measure)...)
}

// hardSplit cuts s at the largest rune count whose prefix still fits. At
// least one rune is always consumed so fitting terminates even when the
// budget is smaller than a single line.
func hardSplit(s string, maxHeight float64, measure HeightFunc) (fits, rest string) {
	runes := []rune(s)
	lo, hi := 1, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if measure(string(runes[:mid])) <= maxHeight {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo]), strings.TrimSpace(string(runes[lo:]))
}
