package main

const (
	checkboxGlyphEmpty   = "☐"
	checkboxGlyphChecked = "☑"
)

// drawCheckbox draws the ballot box glyph when f has it and returns the width
// used. Fonts without the glyph get an outlined square, crossed when checked.
func drawCheckbox(sink layoutSink, x, y float64, size int, checked bool, f *Font) int {
	glyph := checkboxGlyphEmpty
	if checked {
		glyph = checkboxGlyphChecked
	}

	if glyphWidth := sink.Metrics().Measure(glyph, f); glyphWidth > 0 {
		sink.Text(glyph, f, x, y, false)
		return int(glyphWidth) + 4
	}

	boxSize := size - 4
	x0, y0 := x+2, y+2
	x1, y1 := x0+float64(boxSize), y0+float64(boxSize)
	sink.StrokeRect(x0, y0, float64(boxSize), float64(boxSize))
	if checked {
		sink.Line(x0, y0, x1, y1)
		sink.Line(x0, y1, x1, y0)
	}
	return boxSize + 6
}
