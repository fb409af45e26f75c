package main

import (
	"image"
	"image/color"
)

// Monochrome is a packed 1-bit image. Bits are MSB-first within a byte; 1 is
// white paper, 0 is ink. Padding bits at the end of a row stay white.
type Monochrome struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

var monochromePalette = color.Palette{color.Black, color.White}

func NewMonochrome(r image.Rectangle) *Monochrome {
	stride := (r.Dx() + 7) / 8
	pix := make([]uint8, stride*r.Dy())
	for i := range pix {
		pix[i] = 0xff
	}
	return &Monochrome{Pix: pix, Stride: stride, Rect: r}
}

func (p *Monochrome) ColorModel() color.Model { return color.GrayModel }
func (p *Monochrome) Bounds() image.Rectangle { return p.Rect }

func (p *Monochrome) At(x, y int) color.Color {
	if p.Ink(x, y) {
		return color.Gray{Y: 0}
	}
	return color.Gray{Y: 0xff}
}

func (p *Monochrome) bitOffset(x, y int) (int, uint8) {
	x -= p.Rect.Min.X
	i := (y-p.Rect.Min.Y)*p.Stride + x/8
	return i, 0x80 >> uint(x%8)
}

// Ink reports whether (x, y) is black. Points outside the image are paper.
func (p *Monochrome) Ink(x, y int) bool {
	if !(image.Point{x, y}.In(p.Rect)) {
		return false
	}
	i, mask := p.bitOffset(x, y)
	return p.Pix[i]&mask == 0
}

func (p *Monochrome) SetInk(x, y int, ink bool) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i, mask := p.bitOffset(x, y)
	if ink {
		p.Pix[i] &^= mask
	} else {
		p.Pix[i] |= mask
	}
}

func (p *Monochrome) Set(x, y int, c color.Color) {
	p.SetInk(x, y, isInk(c))
}

// InkCount counts black pixels inside r.
func (p *Monochrome) InkCount(r image.Rectangle) int {
	r = r.Intersect(p.Rect)
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if p.Ink(x, y) {
				n++
			}
		}
	}
	return n
}

// Paletted converts to a two-colour paletted image; image/png writes that at
// bit depth 1.
func (p *Monochrome) Paletted() *image.Paletted {
	out := image.NewPaletted(p.Rect, monochromePalette)
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		for x := p.Rect.Min.X; x < p.Rect.Max.X; x++ {
			if !p.Ink(x, y) {
				out.SetColorIndex(x, y, 1)
			}
		}
	}
	return out
}

func isInk(c color.Color) bool {
	g := color.GrayModel.Convert(c).(color.Gray)
	return g.Y < 0x80
}

// NewMonochromeImage thresholds src at mid-grey. The result starts at the
// origin whatever src's bounds are.
func NewMonochromeImage(src image.Image) *Monochrome {
	bounds := src.Bounds()
	img := NewMonochrome(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	if rgba, ok := src.(*image.RGBA); ok {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				i := rgba.PixOffset(x, y)
				r, g, b := uint32(rgba.Pix[i]), uint32(rgba.Pix[i+1]), uint32(rgba.Pix[i+2])
				if (299*r+587*g+114*b)/1000 < 0x80 {
					img.SetInk(x-bounds.Min.X, y-bounds.Min.Y, true)
				}
			}
		}
		return img
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if isInk(src.At(x, y)) {
				img.SetInk(x-bounds.Min.X, y-bounds.Min.Y, true)
			}
		}
	}
	return img
}
