package main

import (
	"strings"
	"testing"

	"github.com/fogleman/gg"
)

func newTestMetrics(t *testing.T, bold bool, size float64) (*TextMetrics, *Font) {
	t.Helper()
	fonts := NewBuiltinFontCache()
	return NewTextMetrics(gg.NewContext(800, 100)), fonts.Get(bold, size)
}

func TestWrapNoLineExceedsMaxWidth(t *testing.T) {
	m, f := newTestMetrics(t, true, 20)

	tests := []struct {
		name     string
		text     string
		maxWidth float64
	}{
		{"sentence", "The quick brown fox jumps over the lazy dog and keeps on running", 200},
		{"single letters", "a b c d e f g h i j k l", 100},
		{"mixed long word", "buy Supercalifragilisticexpialidocious soon", 120},
		{"note", "whole milk (not ultra-pasteurized please get the good kind)", 214},
		{"narrow", "onions yellow", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Wrap(m, tt.text, f, tt.maxWidth)
			for _, line := range lines {
				w := m.Measure(line, f)
				if w > tt.maxWidth && len([]rune(line)) != 1 {
					t.Errorf("line %q is %.1fpx, max %.1f", line, w, tt.maxWidth)
				}
			}
		})
	}
}

func TestWrapHardBreaksLongWord(t *testing.T) {
	m, f := newTestMetrics(t, true, 20)
	word := "Supercalifragilisticexpialidocious"

	lines := Wrap(m, word, f, 80)
	if len(lines) < 2 {
		t.Fatalf("expected hard break into several lines, got %q", lines)
	}
	for _, line := range lines {
		if w := m.Measure(line, f); w > 80 {
			t.Errorf("line %q is %.1fpx wide", line, w)
		}
	}
	if got := strings.Join(lines, ""); got != word {
		t.Errorf("hard break lost characters: %q", got)
	}
}

func TestWrapFlushesBeforeHardBreak(t *testing.T) {
	m, f := newTestMetrics(t, true, 20)

	lines := Wrap(m, "ab Supercalifragilisticexpialidocious cd", f, 80)
	if lines[0] != "ab" {
		t.Fatalf("first line = %q, want %q", lines[0], "ab")
	}
	if last := lines[len(lines)-1]; !strings.HasSuffix(last, "cd") {
		t.Errorf("last line = %q, want it to end with %q", last, "cd")
	}
}

func TestWrapShortTextStaysOnOneLine(t *testing.T) {
	m, f := newTestMetrics(t, true, 20)

	lines := Wrap(m, "Milk", f, 400)
	if len(lines) != 1 || lines[0] != "Milk" {
		t.Fatalf("Wrap(Milk) = %q", lines)
	}
}

func TestWrapEmptyString(t *testing.T) {
	m, f := newTestMetrics(t, true, 20)

	for _, width := range []float64{0, 1, 200} {
		lines := Wrap(m, "", f, width)
		if len(lines) != 1 || lines[0] != "" {
			t.Errorf("Wrap(\"\", %.0f) = %q, want one empty line", width, lines)
		}
	}
}

func TestWrapConsecutiveSpaces(t *testing.T) {
	m, f := newTestMetrics(t, false, 20)

	lines := Wrap(m, "a  b", f, 1000)
	if len(lines) != 1 || lines[0] != "a  b" {
		t.Errorf("Wrap(a  b) = %q", lines)
	}

	lines = Wrap(m, "   ", f, 1000)
	if len(lines) != 1 {
		t.Errorf("Wrap of spaces should reserve one line, got %q", lines)
	}
}

func TestWrapRuneWiderThanMax(t *testing.T) {
	m, f := newTestMetrics(t, false, 20)

	lines := Wrap(m, "abc", f, 1)
	want := []string{"a", "b", "c"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("Wrap(abc, 1) = %q, want %q", lines, want)
	}
}

func TestEllipsizeShortTextUnchanged(t *testing.T) {
	m, f := newTestMetrics(t, true, 20)

	if got := Ellipsize(m, "Hi", f, 400); got != "Hi" {
		t.Errorf("Ellipsize(Hi) = %q", got)
	}
}

func TestEllipsizeLongText(t *testing.T) {
	m, f := newTestMetrics(t, true, 20)

	tests := []struct {
		text     string
		maxWidth float64
	}{
		{"This is a very long piece of text that should be truncated", 150},
		{"Something rather lengthy indeed", 100},
	}

	for _, tt := range tests {
		got := Ellipsize(m, tt.text, f, tt.maxWidth)
		if w := m.Measure(got, f); w > tt.maxWidth {
			t.Errorf("Ellipsize(%q) = %q is %.1fpx, max %.1f", tt.text, got, w, tt.maxWidth)
		}
		if !strings.HasSuffix(got, ellipsisGlyph) {
			t.Errorf("Ellipsize(%q) = %q does not end in %q", tt.text, got, ellipsisGlyph)
		}
		if len([]rune(got)) >= len([]rune(tt.text)) {
			t.Errorf("Ellipsize(%q) = %q is not shorter", tt.text, got)
		}
	}
}

func TestEllipsizeNothingFits(t *testing.T) {
	m, f := newTestMetrics(t, true, 20)

	got := Ellipsize(m, "Groceries", f, 1)
	if got != ellipsisGlyph && got != ellipsisASCII {
		t.Errorf("Ellipsize with no room = %q, want the bare ellipsis", got)
	}
}

func TestEllipsizeFallsBackToDots(t *testing.T) {
	m := NewTextMetrics(gg.NewContext(800, 100))
	f := fixtureFont(t, noEllipsisFontFile, 20)
	if w := m.Measure(ellipsisGlyph, f); w != 0 {
		t.Fatalf("%s measures %v in the fixture font", ellipsisGlyph, w)
	}

	text := "Something rather lengthy indeed"
	for _, maxWidth := range []float64{60, 100, 150} {
		got := Ellipsize(m, text, f, maxWidth)
		if !strings.HasSuffix(got, ellipsisASCII) {
			t.Errorf("max %.0f: Ellipsize = %q, want a %q suffix", maxWidth, got, ellipsisASCII)
		}
		if strings.Contains(got, ellipsisGlyph) {
			t.Errorf("max %.0f: Ellipsize = %q kept the unsupported glyph", maxWidth, got)
		}
		if w := m.Measure(got, f); w > maxWidth {
			t.Errorf("max %.0f: %q is %.1fpx", maxWidth, got, w)
		}
		if !strings.HasPrefix(text, strings.TrimSuffix(got, ellipsisASCII)) {
			t.Errorf("max %.0f: %q is not a prefix of the text", maxWidth, got)
		}
	}

	if got := Ellipsize(m, "Groceries", f, 1); got != ellipsisASCII {
		t.Errorf("Ellipsize with no room = %q, want %q", got, ellipsisASCII)
	}
}

func TestMeasure(t *testing.T) {
	m, f := newTestMetrics(t, false, 20)

	if w := m.Measure("", f); w != 0 {
		t.Errorf("Measure(\"\") = %v", w)
	}
	if m.Measure("milk", f) <= 0 {
		t.Error("Measure(milk) should be positive")
	}
	if a, b := m.Measure("milk", f), m.Measure("milk", f); a != b {
		t.Errorf("Measure not deterministic: %v != %v", a, b)
	}
	if m.Measure("whole milk", f) <= m.Measure("milk", f) {
		t.Error("longer text should measure wider")
	}
}

func TestMeasureUnsupportedGlyphIsZero(t *testing.T) {
	m, f := newTestMetrics(t, false, 20)

	if f.HasGlyph('一') {
		t.Skip("builtin font unexpectedly covers CJK")
	}
	if w := m.Measure("一", f); w != 0 {
		t.Errorf("Measure of unsupported rune = %v, want 0", w)
	}
	if a, b := m.Measure("a一b", f), m.Measure("ab", f); a != b {
		t.Errorf("unsupported runes should not add width: %v != %v", a, b)
	}
}
