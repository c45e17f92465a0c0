package ili9341

import (
	"fmt"
	"io"

	"github.com/BeatGlow/ili9341/bmp"
)

// DrawImage streams a bitmap file onto the panel with its corner at (x,y),
// one window write per pixel row. Memory use is bounded by a single row
// regardless of the image size, at the cost of one window command pair per
// row. The file's signature and color depth are validated before anything
// is sent to the panel.
func (d *Display) DrawImage(r io.ReadSeeker, x, y int) (err error) {
	br, err := bmp.NewReader(r, d.format.Size())
	if err != nil {
		return err
	}

	info := br.Info()
	if d.offGrid(x, y, x+info.Width-1, y+info.Height-1) {
		return fmt.Errorf("%w: image at (%d,%d) size %dx%d", ErrGeometry, x, y, info.Width, info.Height)
	}

	if err = d.c.Hold(); err != nil {
		return
	}
	defer func() {
		if rerr := d.c.Release(); err == nil {
			err = rerr
		}
	}()

	row := make([]byte, info.RowBytes())
	for i := 0; i < info.Height; i++ {
		if err = br.ReadRow(row); err != nil {
			return
		}
		if err = d.block(x, y+i, x+info.Width-1, y+i, row); err != nil {
			return
		}
	}
	return
}

// LoadSprite decodes a bitmap file into a reusable sprite in panel byte
// order. Images larger than the panel are rejected before the decode
// buffer is allocated.
func (d *Display) LoadSprite(r io.ReadSeeker) (*Sprite, error) {
	br, err := bmp.NewReader(r, d.format.Size())
	if err != nil {
		return nil, err
	}

	info := br.Info()
	if info.Width > d.width || info.Height > d.height {
		return nil, fmt.Errorf("%w: image %dx%d, panel %dx%d", ErrBounds, info.Width, info.Height, d.width, d.height)
	}

	pix, err := br.ReadAll()
	if err != nil {
		return nil, err
	}
	return &Sprite{
		Pix:    pix,
		Width:  info.Width,
		Height: info.Height,
	}, nil
}
