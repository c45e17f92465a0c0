package pixel

import "image/color"

// Models for the panel color types.
var (
	RGB565Model color.Model = color.ModelFunc(rgb565Model)
	RGB888Model color.Model = color.ModelFunc(rgb888Model)
)

// RGB565 represents a 16-bit 5-6-5 RGB color.
type RGB565 struct {
	// CRed, 5, CGreen, 6, CBlue, 5
	V uint16
}

// NewRGB565 packs 8-bit channel values into a 5-6-5 color.
func NewRGB565(r, g, b uint8) RGB565 {
	return RGB565{uint16(r&0xf8)<<8 | uint16(g&0xfc)<<3 | uint16(b)>>3}
}

func (c RGB565) RGBA() (r, g, b, a uint32) {
	// Build a 5- or 6-bit value at the top of the low byte of each component.
	red := (c.V & 0xF800) >> 8
	grn := (c.V & 0x07E0) >> 3
	blu := (c.V & 0x001F) << 3
	// Duplicate the high bits in the low bits.
	red |= red >> 5
	grn |= grn >> 6
	blu |= blu >> 5
	// Duplicate the whole value in the high byte.
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return uint32(red), uint32(grn), uint32(blu), 0xffff
}

// Encode writes the big-endian wire encoding to the first 2 bytes of dst.
func (c RGB565) Encode(dst []byte) {
	dst[0] = byte(c.V >> 8)
	dst[1] = byte(c.V)
}

// DecodeRGB565 is the inverse of [RGB565.Encode].
func DecodeRGB565(p []byte) RGB565 {
	return RGB565{uint16(p[0])<<8 | uint16(p[1])}
}

func rgb565Model(c color.Color) color.Color {
	if _, ok := c.(RGB565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	r = (r & 0xF800)
	g = (g & 0xFC00) >> 5
	b = (b & 0xF800) >> 11
	return RGB565{uint16(r | g | b)}
}

// RGB888 represents a 24-bit 8-8-8 RGB color.
type RGB888 struct {
	// CRed, 8, CGreen, 8, CBlue, 8
	V uint32
}

// NewRGB888 packs 8-bit channel values into a 8-8-8 color.
func NewRGB888(r, g, b uint8) RGB888 {
	return RGB888{uint32(r)<<16 | uint32(g)<<8 | uint32(b)}
}

func (c RGB888) RGBA() (r, g, b, a uint32) {
	red := (c.V >> 16) & 0xff
	grn := (c.V >> 8) & 0xff
	blu := c.V & 0xff
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return red, grn, blu, 0xffff
}

// Encode writes the big-endian wire encoding to the first 3 bytes of dst.
func (c RGB888) Encode(dst []byte) {
	dst[0] = byte(c.V >> 16)
	dst[1] = byte(c.V >> 8)
	dst[2] = byte(c.V)
}

// DecodeRGB888 is the inverse of [RGB888.Encode].
func DecodeRGB888(p []byte) RGB888 {
	return RGB888{uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])}
}

func rgb888Model(c color.Color) color.Color {
	if _, ok := c.(RGB888); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB888{(r & 0xFF00) << 8 | (g & 0xFF00) | b>>8}
}

// Format selects the interface pixel format of the panel.
type Format uint8

// Supported pixel formats.
const (
	RGB565Format Format = iota // 16 bits per pixel
	RGB888Format               // 18 bits per pixel on the wire, 24 in memory
)

func (f Format) String() string {
	if f == RGB888Format {
		return "RGB888"
	}
	return "RGB565"
}

// Size is the wire encoding width in bytes.
func (f Format) Size() int {
	if f == RGB888Format {
		return 3
	}
	return 2
}

// Model is the color model encoded by this format.
func (f Format) Model() color.Model {
	if f == RGB888Format {
		return RGB888Model
	}
	return RGB565Model
}

// Encode converts c to this format and writes its wire encoding to the
// first Size bytes of dst.
func (f Format) Encode(dst []byte, c color.Color) {
	if f == RGB888Format {
		f.Model().Convert(c).(RGB888).Encode(dst)
		return
	}
	f.Model().Convert(c).(RGB565).Encode(dst)
}

// Decode is the inverse of Encode.
func (f Format) Decode(p []byte) color.Color {
	if f == RGB888Format {
		return DecodeRGB888(p)
	}
	return DecodeRGB565(p)
}
