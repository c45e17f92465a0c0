package ili9341

import (
	"fmt"
	"image/color"
	"math"
)

// rectPoolBytes is the per-operation buffer ceiling for FillRect, sized for
// small fills such as glyph backgrounds. Large area fills go through Clear
// or fill with the display's transfer budget.
const rectPoolBytes = 2048

// DrawPixel draws a single pixel.
func (d *Display) DrawPixel(x, y int, c color.Color) error {
	if d.offGrid(x, y, x, y) {
		return fmt.Errorf("%w: pixel (%d,%d)", ErrGeometry, x, y)
	}
	var enc [3]byte
	d.format.Encode(enc[:], c)
	return d.block(x, y, x, y, enc[:d.format.Size()])
}

// DrawHLine draws a horizontal line of l pixels starting at (x,y) in a
// single window write.
func (d *Display) DrawHLine(x, y, l int, c color.Color) error {
	if l <= 0 || d.offGrid(x, y, x+l-1, y) {
		return fmt.Errorf("%w: hline at (%d,%d) length %d", ErrGeometry, x, y, l)
	}
	return d.fill(x, y, x+l-1, y, c, d.maxTransfer)
}

// DrawVLine draws a vertical line of l pixels starting at (x,y) in a
// single window write.
func (d *Display) DrawVLine(x, y, l int, c color.Color) error {
	if l <= 0 || d.offGrid(x, y, x, y+l-1) {
		return fmt.Errorf("%w: vline at (%d,%d) length %d", ErrGeometry, x, y, l)
	}
	return d.fill(x, y, x, y+l-1, c, d.maxTransfer)
}

// FillRect draws a filled w×h rectangle with its top-left corner at (x,y).
// Off-grid rectangles are rejected before anything is sent to the panel.
func (d *Display) FillRect(x, y, w, h int, c color.Color) error {
	if w <= 0 || h <= 0 || d.offGrid(x, y, x+w-1, y+h-1) {
		return fmt.Errorf("%w: rectangle at (%d,%d) size %dx%d", ErrGeometry, x, y, w, h)
	}
	return d.fill(x, y, x+w-1, y+h-1, c, rectPoolBytes)
}

// DrawLine draws a line between two in-bounds points.
//
// Axis-aligned lines collapse to a single window write. General lines walk
// the major axis with a sign-test variant of Bresenham's algorithm and
// batch pixels sharing a minor-axis coordinate into runs, one window write
// per run, all chained under a single chip select.
func (d *Display) DrawLine(x0, y0, x1, y1 int, c color.Color) (err error) {
	if d.offGrid(min(x0, x1), min(y0, y1), max(x0, x1), max(y0, y1)) {
		return fmt.Errorf("%w: line (%d,%d)-(%d,%d)", ErrGeometry, x0, y0, x1, y1)
	}

	// Axis-aligned fast path: one window, one contiguous run.
	if x0 == x1 {
		return d.DrawVLine(x0, min(y0, y1), abs(y1-y0)+1, c)
	}
	if y0 == y1 {
		return d.DrawHLine(min(x0, x1), y0, abs(x1-x0)+1, c)
	}

	// When the slope exceeds ±1, walk Y as the major axis so every step
	// advances at most one run.
	swapped := abs(y1-y0) > abs(x1-x0)
	if swapped {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	var (
		dx = x1 - x0 // positive
		dy = y1 - y0 // nonzero
		// The implicit line function D(x,y) = m*x - y + b scaled by dx to
		// stay in integers: E(x,y) = dy*x - dx*y + bnum, bnum = y0*dx - x0*dy.
		bnum  = y0*dx - x0*dy
		ystep = 1
		// The sign of D at the probe point flips meaning with the slope
		// direction.
		reverse = 1
	)
	if dy > 0 {
		reverse = -1
	} else {
		ystep = -1
	}

	var enc [3]byte
	d.format.Encode(enc[:], c)
	bpp := d.format.Size()
	runBuf := make([]byte, (dx+1)*bpp) // fits the longest possible run
	repeatFill(runBuf, enc[:bpp])

	drawRun := func(end, minor, n int) error {
		buf := runBuf[:n*bpp]
		if swapped {
			return d.block(minor, end-n+1, minor, end, buf)
		}
		return d.block(end-n+1, minor, end, minor, buf)
	}

	if err = d.c.Hold(); err != nil {
		return err
	}
	defer func() {
		if rerr := d.c.Release(); err == nil {
			err = rerr
		}
	}()

	// Probe the line function at the next column, half a step into the
	// minor axis; a sign change means the minor coordinate advances.
	yi := y0
	run := 1
	for xi := x0; xi <= x1; xi++ {
		e := 2*dy*(xi+1) - dx*(2*yi+ystep) + 2*bnum
		if e*reverse < 0 {
			if err = drawRun(xi, yi, run); err != nil {
				return err
			}
			yi += ystep
			run = 1
			continue
		}
		run++
	}
	// Flush the trailing partial run.
	if run--; run > 0 {
		return drawRun(x1, yi, run)
	}
	return nil
}

// DrawClippedLine clips the line (x0,y0)-(x1,y1) against the panel
// rectangle and draws the surviving segment. Lines entirely outside the
// panel draw nothing.
func (d *Display) DrawClippedLine(x0, y0, x1, y1 int, c color.Color) error {
	cx0, cy0, cx1, cy1, ok := clipLine(float64(x0), float64(y0), float64(x1), float64(y1), float64(d.width-1), float64(d.height-1))
	if !ok {
		return nil
	}
	return d.DrawLine(cx0, cy0, cx1, cy1, c)
}

// clipLine is a Liang-Barsky clip of the segment (x0,y0)-(x1,y1) against
// [0,xmax]×[0,ymax]. A segment that degenerates to a point is kept.
func clipLine(x0, y0, x1, y1, xmax, ymax float64) (cx0, cy0, cx1, cy1 int, ok bool) {
	var (
		dx, dy = x1 - x0, y1 - y0
		t0, t1 = 0.0, 1.0
		p      = [4]float64{-dx, dx, -dy, dy}
		q      = [4]float64{x0, xmax - x0, y0, ymax - y0}
	)
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}

	round := func(v, limit float64) int {
		n := int(math.Round(v))
		if n < 0 {
			n = 0
		}
		if n > int(limit) {
			n = int(limit)
		}
		return n
	}
	cx0 = round(x0+t0*dx, xmax)
	cy0 = round(y0+t0*dy, ymax)
	cx1 = round(x0+t1*dx, xmax)
	cy1 = round(y0+t1*dy, ymax)
	return cx0, cy0, cx1, cy1, true
}

// Sprite is a decoded image held in panel wire encoding.
type Sprite struct {
	// Pix holds width*height pixels in the panel's byte order.
	Pix []byte

	// Width and Height in pixels.
	Width  int
	Height int
}

// DrawSprite blits a sprite with its top-left corner at (x,y), splitting
// the transfer to respect the display's byte budget.
func (d *Display) DrawSprite(s *Sprite, x, y int) error {
	if d.offGrid(x, y, x+s.Width-1, y+s.Height-1) {
		return fmt.Errorf("%w: sprite at (%d,%d) size %dx%d", ErrGeometry, x, y, s.Width, s.Height)
	}
	return d.writeBuffer(x, y, x+s.Width-1, y+s.Height-1, s.Pix, d.maxTransfer)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
