package pixel

import (
	"image"
	"image/color"
	"image/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container used by the image
// formats in this package. Pix holds pixels in the panel's wire encoding,
// so the buffer can be streamed to the display without conversion.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

// Bytes exposes the raw pixel buffer in wire encoding.
func (p *Buffer) Bytes() []byte {
	return p.Pix
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

func makeBuffer(w, h, stride int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, stride*h),
		Stride: stride,
	}
}

// RGB565Image is a 16-bits per pixel 5-6-5-bit RGB image.
type RGB565Image struct {
	Buffer
}

func NewRGB565Image(w, h int) *RGB565Image {
	return &RGB565Image{
		Buffer: makeBuffer(w, h, w*2),
	}
}

func (p *RGB565Image) ColorModel() color.Model {
	return RGB565Model
}

func (p *RGB565Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	return DecodeRGB565(p.Pix[x*2+y*p.Stride:])
}

func (p *RGB565Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	rgb565Model(c).(RGB565).Encode(p.Pix[x*2+y*p.Stride:])
}

func (p *RGB565Image) Fill(c color.Color) {
	var bytes [2]byte
	rgb565Model(c).(RGB565).Encode(bytes[:])
	for i, l := 0, len(p.Pix); i < l; i += 2 {
		copy(p.Pix[i:], bytes[:])
	}
}

// RGB888Image is a 24-bits per pixel 8-8-8-bit RGB image.
type RGB888Image struct {
	Buffer
}

func NewRGB888Image(w, h int) *RGB888Image {
	return &RGB888Image{
		Buffer: makeBuffer(w, h, w*3),
	}
}

func (p *RGB888Image) ColorModel() color.Model {
	return RGB888Model
}

func (p *RGB888Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	return DecodeRGB888(p.Pix[x*3+y*p.Stride:])
}

func (p *RGB888Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	rgb888Model(c).(RGB888).Encode(p.Pix[x*3+y*p.Stride:])
}

func (p *RGB888Image) Fill(c color.Color) {
	var bytes [3]byte
	rgb888Model(c).(RGB888).Encode(bytes[:])
	for i, l := 0, len(p.Pix); i < l; i += 3 {
		copy(p.Pix[i:], bytes[:])
	}
}

// NewImage returns an empty image of the format's native type.
func NewImage(f Format, w, h int) Image {
	if f == RGB888Format {
		return NewRGB888Image(w, h)
	}
	return NewRGB565Image(w, h)
}

// Interface checks.
var (
	_ Image = (*RGB565Image)(nil)
	_ Image = (*RGB888Image)(nil)
)
