package main

import (
	"strings"
)

const (
	ellipsisGlyph = "…"
	ellipsisASCII = "..."
)

// Wrap breaks text into lines no wider than maxWidth. Words are separated by
// single spaces; a run of spaces yields empty words that still take a
// separator. A word wider than maxWidth on its own is broken per rune. The
// result always has at least one line, so blank text still reserves a row.
func Wrap(m *TextMetrics, text string, f *Font, maxWidth float64) []string {
	if text == "" {
		return []string{""}
	}

	words := strings.Split(text, " ")
	lines := make([]string, 0, 2)
	current := ""

	for _, word := range words {
		if m.Measure(word, f) > maxWidth {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, hardBreak(m, word, f, maxWidth)...)
			continue
		}

		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if m.Measure(candidate, f) <= maxWidth {
			current = candidate
		} else {
			lines = append(lines, current)
			current = word
		}
	}

	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// hardBreak splits word per rune. A single rune wider than maxWidth still gets
// a line of its own.
func hardBreak(m *TextMetrics, word string, f *Font, maxWidth float64) []string {
	var lines []string
	buf := ""
	for _, r := range word {
		candidate := buf + string(r)
		if m.Measure(candidate, f) > maxWidth {
			if buf != "" {
				lines = append(lines, buf)
			}
			buf = string(r)
		} else {
			buf = candidate
		}
	}
	if buf != "" {
		lines = append(lines, buf)
	}
	return lines
}

// Ellipsize returns text unchanged when it fits, otherwise the longest prefix
// that fits with an ellipsis appended. Fonts without "…" get "...".
func Ellipsize(m *TextMetrics, text string, f *Font, maxWidth float64) string {
	if m.Measure(text, f) <= maxWidth {
		return text
	}

	ellipsis := ellipsisGlyph
	if m.Measure(ellipsis, f) == 0 {
		ellipsis = ellipsisASCII
	}

	runes := []rune(text)
	for end := len(runes); end > 0; end-- {
		candidate := string(runes[:end]) + ellipsis
		if m.Measure(candidate, f) <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}
