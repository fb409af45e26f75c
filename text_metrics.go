package main

import (
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// TextMetrics measures strings against the face state of a drawing context.
// A scratch context and the real draw context give identical results for the
// same font, which is what lets layout run once to measure and once to paint.
type TextMetrics struct {
	dc *gg.Context
}

func NewTextMetrics(dc *gg.Context) *TextMetrics {
	return &TextMetrics{dc: dc}
}

// Measure returns the pixel width of text in f. Runes without a glyph measure
// zero, so a zero result for a symbol means the font cannot draw it. This is an
// approximation: fonts with real zero-advance marks look unsupported too.
//
// The width is the larger of the advance and the right edge of the ink, so
// nothing drawn at x spills past x+Measure.
func (m *TextMetrics) Measure(text string, f *Font) float64 {
	if text == "" {
		return 0
	}
	text = f.Printable(text)
	if text == "" {
		return 0
	}

	m.dc.SetFontFace(f.Face)
	w, _ := m.dc.MeasureString(text)

	bounds, _ := font.BoundString(f.Face, text)
	if ink := float64(bounds.Max.X.Ceil()); ink > w {
		w = ink
	}
	return w
}
