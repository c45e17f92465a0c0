package ili9341

import (
	"fmt"
	"image/color"
)

// repeatFill fills dst with repetitions of pattern. len(dst) must be a
// multiple of len(pattern).
func repeatFill(dst, pattern []byte) {
	n := copy(dst, pattern)
	for n < len(dst) {
		n += copy(dst[n:], dst[:n])
	}
}

// fill streams a solid color through the window (x0,y0)-(x1,y1), splitting
// the pixel stream into chunks of whole rows so that no single bus write
// exceeds budget bytes. The cumulative bytes written equal exactly
// width*height*Format.Size().
func (d *Display) fill(x0, y0, x1, y1 int, c color.Color, budget int) (err error) {
	var (
		w        = x1 - x0 + 1
		h        = y1 - y0 + 1
		bpp      = d.format.Size()
		rowBytes = w * bpp
	)

	chunkRows := budget / rowBytes
	if chunkRows == 0 {
		return fmt.Errorf("%w: budget %d, row is %d bytes", ErrConfig, budget, rowBytes)
	}
	if chunkRows > h {
		chunkRows = h
	}

	var enc [3]byte
	d.format.Encode(enc[:], c)
	chunk := make([]byte, chunkRows*rowBytes)
	repeatFill(chunk, enc[:bpp])

	if err = d.SetWindow(x0, y0, x1, y1); err != nil {
		return
	}
	defer func() {
		if rerr := d.c.Release(); err == nil {
			err = rerr
		}
	}()

	full, remainder := h/chunkRows, h%chunkRows
	for i := 0; i < full; i++ {
		if err = d.c.Data(chunk...); err != nil {
			return
		}
	}
	if remainder > 0 {
		if err = d.c.Data(chunk[:remainder*rowBytes]...); err != nil {
			return
		}
	}
	return
}

// writeBuffer streams an already encoded pixel buffer into the window
// (x0,y0)-(x1,y1). The buffer is split on row boundaries, never mid-pixel,
// and no single bus write exceeds budget bytes.
func (d *Display) writeBuffer(x0, y0, x1, y1 int, data []byte, budget int) (err error) {
	var (
		w        = x1 - x0 + 1
		h        = y1 - y0 + 1
		bpp      = d.format.Size()
		rowBytes = w * bpp
	)

	if len(data) != h*rowBytes {
		return fmt.Errorf("%w: pixel buffer is %d bytes, window needs %d", ErrGeometry, len(data), h*rowBytes)
	}
	if len(data) <= budget {
		return d.block(x0, y0, x1, y1, data)
	}

	chunkRows := budget / rowBytes
	if chunkRows == 0 {
		return fmt.Errorf("%w: budget %d, row is %d bytes", ErrConfig, budget, rowBytes)
	}

	if err = d.c.Hold(); err != nil {
		return
	}
	defer func() {
		if rerr := d.c.Release(); err == nil {
			err = rerr
		}
	}()

	for row := 0; row < h; row += chunkRows {
		rows := chunkRows
		if rows > h-row {
			rows = h - row
		}
		if err = d.block(x0, y0+row, x1, y0+row+rows-1, data[row*rowBytes:(row+rows)*rowBytes]); err != nil {
			return
		}
	}
	return
}

// Clear fills the entire display with a single color.
func (d *Display) Clear(c color.Color) error {
	return d.fill(0, 0, d.width-1, d.height-1, c, d.maxTransfer)
}
