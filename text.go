package ili9341

import (
	"fmt"
	"image/color"
)

// GlyphSource renders single characters into panel-encoded pixel cells.
// The font package provides implementations for TrueType fonts and the
// built-in fixed-size face.
type GlyphSource interface {
	// Glyph returns the pixel cell for r in panel byte order along with
	// its dimensions; ok is false when no glyph exists for r.
	Glyph(r rune) (pix []byte, w, h int, ok bool)
}

// DrawChar blits a single character with its top-left corner at (x,y) and
// returns the cell size. A missing glyph draws nothing and returns a zero
// size.
func (d *Display) DrawChar(x, y int, r rune, src GlyphSource) (w, h int, err error) {
	pix, w, h, ok := src.Glyph(r)
	if !ok || w == 0 {
		return 0, 0, nil
	}
	if d.offGrid(x, y, x+w-1, y+h-1) {
		return 0, 0, fmt.Errorf("%w: glyph %q at (%d,%d) size %dx%d", ErrGeometry, r, x, y, w, h)
	}
	if err = d.writeBuffer(x, y, x+w-1, y+h-1, pix, d.maxTransfer); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// DrawText draws s left to right starting at (x,y), filling spacing pixels
// between letters with the background color.
func (d *Display) DrawText(x, y int, s string, src GlyphSource, spacing int, background color.Color) error {
	for _, r := range s {
		w, h, err := d.DrawChar(x, y, r, src)
		if err != nil {
			return err
		}
		if w == 0 || h == 0 {
			return fmt.Errorf("ili9341: no glyph for %q", r)
		}
		if spacing > 0 {
			if err = d.FillRect(x+w, y, spacing, h, background); err != nil {
				return err
			}
		}
		x += w + spacing
	}
	return nil
}
