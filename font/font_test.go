package font

import (
	"image/color"
	"testing"

	"github.com/BeatGlow/ili9341/pixel"
)

func TestGlyphDimensions(t *testing.T) {
	r := NewRenderer(Basic(), pixel.RGB565Format, color.White, color.Black)

	pix, w, h, ok := r.Glyph('A')
	if !ok {
		t.Fatal("expected a glyph for 'A'")
	}
	if w != 7 || h != 13 {
		t.Errorf("expected a 7x13 cell, got %dx%d", w, h)
	}
	if want := w * h * 2; len(pix) != want {
		t.Errorf("expected %d cell bytes, got %d", want, len(pix))
	}
}

func TestGlyphColors(t *testing.T) {
	tests := []struct {
		name   string
		format pixel.Format
	}{
		{"RGB565", pixel.RGB565Format},
		{"RGB888", pixel.RGB888Format},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(Basic(), tt.format, color.White, color.Black)

			pix, _, _, ok := r.Glyph('#')
			if !ok {
				t.Fatal("expected a glyph for '#'")
			}
			var fg, bg int
			bpp := tt.format.Size()
			for i := 0; i < len(pix); i += bpp {
				set := false
				for j := 0; j < bpp; j++ {
					set = set || pix[i+j] != 0
				}
				if set {
					fg++
				} else {
					bg++
				}
			}
			if fg == 0 {
				t.Error("expected foreground pixels in the cell")
			}
			if bg == 0 {
				t.Error("expected background pixels in the cell")
			}
		})
	}
}

func TestGlyphSpaceIsBackground(t *testing.T) {
	r := NewRenderer(Basic(), pixel.RGB565Format, color.White, color.Black)

	pix, _, _, ok := r.Glyph(' ')
	if !ok {
		t.Fatal("expected a glyph for space")
	}
	for i, b := range pix {
		if b != 0 {
			t.Fatalf("expected an empty cell, got %#02x at %d", b, i)
		}
	}
}

func TestGlyphMissing(t *testing.T) {
	r := NewRenderer(Basic(), pixel.RGB565Format, color.White, color.Black)

	if _, _, _, ok := r.Glyph('€'); ok {
		t.Error("expected no glyph for a rune outside the face range")
	}
}
