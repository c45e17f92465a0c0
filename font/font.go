// Package font renders single characters into panel-encoded pixel buffers.
//
// It adapts any [font.Face], such as the built-in fixed-size face or a
// parsed TrueType font, to the glyph source contract of the display driver: a
// rasterized cell of width×height pixels in the panel's wire encoding.
package font

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/BeatGlow/ili9341/pixel"
)

// Renderer rasterizes characters from a face into pre-encoded pixel cells.
type Renderer struct {
	face   font.Face
	format pixel.Format
	fg     color.Color
	bg     color.Color
	height int
	ascent int
}

// NewRenderer returns a renderer producing cells in the given pixel format
// with fg glyphs on a bg background.
func NewRenderer(face font.Face, format pixel.Format, fg, bg color.Color) *Renderer {
	metrics := face.Metrics()
	return &Renderer{
		face:   face,
		format: format,
		fg:     fg,
		bg:     bg,
		height: (metrics.Ascent + metrics.Descent).Ceil(),
		ascent: metrics.Ascent.Ceil(),
	}
}

// Glyph rasterizes r and returns its pixel cell in panel byte order along
// with the cell dimensions. ok is false when the face has no glyph for r.
func (t *Renderer) Glyph(r rune) (pix []byte, w, h int, ok bool) {
	advance, ok := t.face.GlyphAdvance(r)
	if !ok {
		return nil, 0, 0, false
	}
	w, h = advance.Ceil(), t.height

	cell := pixel.NewImage(t.format, w, h)
	cell.Fill(t.bg)

	drawer := font.Drawer{
		Dst:  cell,
		Src:  image.NewUniform(t.fg),
		Face: t.face,
		Dot:  fixed.P(0, t.ascent),
	}
	drawer.DrawString(string(r))

	return cell.(interface{ Bytes() []byte }).Bytes(), w, h, true
}

// Basic returns the built-in fixed 7x13 face.
func Basic() font.Face {
	return basicfont.Face7x13
}

// ParseTTF parses TrueType font data into a face at the given point size.
func ParseTTF(data []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}
