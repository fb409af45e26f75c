package main

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// layoutSink receives every drawing operation of a layout run. The measuring
// sink discards them; the painting sink puts ink on a gg context. Both expose
// metrics so wrap decisions come out the same in either pass.
type layoutSink interface {
	Metrics() *TextMetrics
	// Text draws s with its ink box top at y.
	Text(s string, f *Font, x, y float64, white bool)
	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	Line(x1, y1, x2, y2 float64)
}

type measureSink struct {
	metrics *TextMetrics
}

// newMeasureSink measures on a width x 1 scratch context.
func newMeasureSink(width int) *measureSink {
	return &measureSink{metrics: NewTextMetrics(gg.NewContext(width, 1))}
}

func (s *measureSink) Metrics() *TextMetrics { return s.metrics }
func (s *measureSink) Text(string, *Font, float64, float64, bool) {}
func (s *measureSink) FillRect(float64, float64, float64, float64) {}
func (s *measureSink) StrokeRect(float64, float64, float64, float64) {}
func (s *measureSink) Line(float64, float64, float64, float64) {}

type paintSink struct {
	dc      *gg.Context
	metrics *TextMetrics
}

// newPaintSink allocates a white width x height surface.
func newPaintSink(width, height int) *paintSink {
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	return &paintSink{dc: dc, metrics: NewTextMetrics(dc)}
}

func (s *paintSink) Metrics() *TextMetrics { return s.metrics }

func (s *paintSink) Text(text string, f *Font, x, y float64, white bool) {
	text = f.Printable(text)
	if text == "" {
		return
	}
	s.dc.SetFontFace(f.Face)
	if white {
		s.dc.SetColor(color.White)
	} else {
		s.dc.SetColor(color.Black)
	}
	s.dc.DrawString(text, x, y+float64(f.Ascent()))
}

func (s *paintSink) FillRect(x, y, w, h float64) {
	s.dc.SetColor(color.Black)
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Fill()
}

// StrokeRect outlines the pixels from (x, y) to (x+w, y+h) inclusive with a
// one pixel line.
func (s *paintSink) StrokeRect(x, y, w, h float64) {
	s.dc.SetColor(color.Black)
	s.dc.SetLineWidth(1)
	s.dc.DrawRectangle(x+0.5, y+0.5, w, h)
	s.dc.Stroke()
}

func (s *paintSink) Line(x1, y1, x2, y2 float64) {
	s.dc.SetColor(color.Black)
	s.dc.SetLineWidth(1)
	s.dc.DrawLine(x1+0.5, y1+0.5, x2+0.5, y2+0.5)
	s.dc.Stroke()
}

// Image crops the surface to height rows and thresholds it to 1 bit.
func (s *paintSink) Image(height int) *Monochrome {
	img := s.dc.Image()
	bounds := img.Bounds()
	if height < bounds.Dy() {
		if sub, ok := img.(interface {
			SubImage(r image.Rectangle) image.Image
		}); ok {
			img = sub.SubImage(image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Min.Y+height))
		}
	}
	return NewMonochromeImage(img)
}
