package ili9341

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/BeatGlow/ili9341/bmp"
	"github.com/BeatGlow/ili9341/pixel"
)

func TestDrawPixel(t *testing.T) {
	d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)

	if err := d.DrawPixel(12, 34, pixel.RGB565{V: 0xABCD}); err != nil {
		t.Fatal(err)
	}
	windows := c.windows()
	if len(windows) != 1 || windows[0] != image.Rect(12, 34, 13, 35) {
		t.Errorf("expected a 1x1 window at (12,34), got %v", windows)
	}
	writes := c.dataWrites()
	if len(writes) != 1 || !bytes.Equal(writes[0], []byte{0xAB, 0xCD}) {
		t.Errorf("expected a single 0xABCD write, got %v", writes)
	}
}

func TestFillRect(t *testing.T) {
	d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)

	if err := d.FillRect(5, 5, 10, 10, color.White); err != nil {
		t.Fatal(err)
	}
	windows := c.windows()
	if len(windows) != 1 || windows[0] != image.Rect(5, 5, 15, 15) {
		t.Errorf("expected one 10x10 window at (5,5), got %v", windows)
	}
	if want := 10 * 10 * 2; c.dataBytes() != want {
		t.Errorf("expected %d bytes, got %d", want, c.dataBytes())
	}
}

func TestFillRectChunking(t *testing.T) {
	d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)

	// A full-width row is 480 bytes, so the 2048 byte rectangle pool
	// holds 4 rows: 20 rows fill in 5 chunk writes.
	if err := d.FillRect(0, 0, 240, 20, color.White); err != nil {
		t.Fatal(err)
	}
	writes := c.dataWrites()
	if len(writes) != 5 {
		t.Fatalf("expected 5 chunk writes, got %d", len(writes))
	}
	for i, w := range writes {
		if len(w) != 4*480 {
			t.Errorf("chunk %d: expected %d bytes, got %d", i, 4*480, len(w))
		}
	}
	if want := 240 * 20 * 2; c.dataBytes() != want {
		t.Errorf("expected %d bytes total, got %d", want, c.dataBytes())
	}
}

func TestFillRectRejects(t *testing.T) {
	d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)

	tests := []struct {
		name       string
		x, y, w, h int
	}{
		{"negative origin", -1, 0, 10, 10},
		{"x overflow", 235, 0, 10, 5},
		{"y overflow", 0, 318, 5, 10},
		{"zero width", 0, 0, 0, 10},
		{"zero height", 0, 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.FillRect(tt.x, tt.y, tt.w, tt.h, color.White); !errors.Is(err, ErrGeometry) {
				t.Errorf("expected ErrGeometry, got %v", err)
			}
			if len(c.writes) != 0 {
				t.Errorf("expected nothing transmitted, got %d writes", len(c.writes))
			}
		})
	}
}

func TestDrawLineAxisAligned(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		window         image.Rectangle
		pixels         int
	}{
		{"horizontal", 3, 7, 13, 7, image.Rect(3, 7, 14, 8), 11},
		{"horizontal reversed", 13, 7, 3, 7, image.Rect(3, 7, 14, 8), 11},
		{"vertical", 5, 10, 5, 30, image.Rect(5, 10, 6, 31), 21},
		{"vertical reversed", 5, 30, 5, 10, image.Rect(5, 10, 6, 31), 21},
		{"point", 9, 9, 9, 9, image.Rect(9, 9, 10, 10), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)
			if err := d.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1, color.White); err != nil {
				t.Fatal(err)
			}
			windows := c.windows()
			if len(windows) != 1 {
				t.Fatalf("expected exactly one window+write pair, got %d", len(windows))
			}
			if windows[0] != tt.window {
				t.Errorf("expected window %s, got %s", tt.window, windows[0])
			}
			if want := tt.pixels * 2; c.dataBytes() != want {
				t.Errorf("expected %d bytes, got %d", want, c.dataBytes())
			}
		})
	}
}

func TestDrawLineRuns(t *testing.T) {
	d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)

	// Reference trace for (0,0)-(4,2) at slope 0.5: the sign test keeps
	// ties in the current run, giving runs of 2, 2 and 1 pixels.
	if err := d.DrawLine(0, 0, 4, 2, color.White); err != nil {
		t.Fatal(err)
	}

	want := []image.Rectangle{
		image.Rect(0, 0, 2, 1),
		image.Rect(2, 1, 4, 2),
		image.Rect(4, 2, 5, 3),
	}
	windows := c.windows()
	if len(windows) != len(want) {
		t.Fatalf("expected %d window+write pairs, got %d", len(want), len(windows))
	}
	for i, w := range want {
		if windows[i] != w {
			t.Errorf("run %d: expected window %s, got %s", i, w, windows[i])
		}
	}
	for i, n := range []int{4, 4, 2} {
		if writes := c.dataWrites(); len(writes[i]) != n {
			t.Errorf("run %d: expected %d bytes, got %d", i, n, len(writes[i]))
		}
	}
	if c.held != 0 {
		t.Errorf("expected chip deselected after line, got hold depth %d", c.held)
	}
}

func TestDrawLineRunBatching(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		minorChanges   int
	}{
		{"shallow", 0, 0, 10, 3, 3},
		{"steep", 0, 0, 2, 9, 2},
		{"negative slope", 0, 5, 5, 0, 5},
		{"steep negative", 3, 20, 6, 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)
			if err := d.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1, color.White); err != nil {
				t.Fatal(err)
			}

			// One window+write pair per minor-axis run.
			windows := c.windows()
			if want := tt.minorChanges + 1; len(windows) != want {
				t.Errorf("expected %d window+write pairs, got %d", want, len(windows))
			}

			// Full coverage: runs are disjoint and cover |major|+1 pixels.
			major := abs(tt.x1 - tt.x0)
			if v := abs(tt.y1 - tt.y0); v > major {
				major = v
			}
			seen := make(map[image.Point]bool)
			for _, w := range windows {
				for y := w.Min.Y; y < w.Max.Y; y++ {
					for x := w.Min.X; x < w.Max.X; x++ {
						if seen[image.Pt(x, y)] {
							t.Fatalf("pixel (%d,%d) drawn more than once", x, y)
						}
						seen[image.Pt(x, y)] = true
					}
				}
			}
			if want := major + 1; len(seen) != want {
				t.Errorf("expected %d pixels drawn, got %d", want, len(seen))
			}
			if want := (major + 1) * 2; c.dataBytes() != want {
				t.Errorf("expected %d bytes, got %d", want, c.dataBytes())
			}
		})
	}
}

// deselectFailConn fails the Release that drops the hold depth to zero,
// the final chip deselect of a chained operation.
type deselectFailConn struct {
	*testConn
	err error
}

func (c *deselectFailConn) Release() error {
	if err := c.testConn.Release(); err != nil {
		return err
	}
	if c.held == 0 {
		return c.err
	}
	return nil
}

func TestDrawLineDeselectError(t *testing.T) {
	c := &deselectFailConn{testConn: &testConn{}, err: errors.New("deselect failed")}
	d := &Display{
		c:           c,
		width:       240,
		height:      320,
		format:      pixel.RGB565Format,
		maxTransfer: 50_000,
	}

	if err := d.DrawLine(0, 0, 4, 2, color.White); !errors.Is(err, c.err) {
		t.Errorf("expected the deselect error surfaced, got %v", err)
	}
}

func TestDrawLineRejects(t *testing.T) {
	d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)

	if err := d.DrawLine(-1, 0, 10, 10, color.White); !errors.Is(err, ErrGeometry) {
		t.Errorf("expected ErrGeometry, got %v", err)
	}
	if err := d.DrawLine(0, 0, 240, 10, color.White); !errors.Is(err, ErrGeometry) {
		t.Errorf("expected ErrGeometry, got %v", err)
	}
	if len(c.writes) != 0 {
		t.Errorf("expected nothing transmitted, got %d writes", len(c.writes))
	}
}

func TestDrawClippedLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		pixels         int
	}{
		{"inside", 0, 0, 4, 2, 5},
		{"crosses left edge", -5, 5, 5, 5, 6},
		{"crosses top edge", 0, -5, 0, 5, 6},
		{"diagonal through corner", -2, -2, 4, 4, 5},
		{"single surviving pixel", 239, 319, 250, 330, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)
			if err := d.DrawClippedLine(tt.x0, tt.y0, tt.x1, tt.y1, color.White); err != nil {
				t.Fatal(err)
			}
			if want := tt.pixels * 2; c.dataBytes() != want {
				t.Errorf("expected %d bytes, got %d", want, c.dataBytes())
			}
		})
	}
}

func TestDrawClippedLineOutside(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
	}{
		{"left of panel", -10, 5, -1, 50},
		{"above panel", 5, -10, 50, -1},
		{"beyond corner", 300, 400, 500, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)
			if err := d.DrawClippedLine(tt.x0, tt.y0, tt.x1, tt.y1, color.White); err != nil {
				t.Fatal(err)
			}
			if len(c.writes) != 0 {
				t.Errorf("expected nothing transmitted, got %d writes", len(c.writes))
			}
		})
	}
}

func TestDrawSprite(t *testing.T) {
	d, c := newTestDisplay(240, 320, pixel.RGB565Format, 64)

	s := &Sprite{Pix: make([]byte, 10*8*2), Width: 10, Height: 8}
	if err := d.DrawSprite(s, 20, 30); err != nil {
		t.Fatal(err)
	}

	// 20 byte rows against a 64 byte budget: 3+3+2 rows.
	windows := c.windows()
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	if windows[0] != image.Rect(20, 30, 30, 33) {
		t.Errorf("expected first window at (20,30), got %s", windows[0])
	}
	if c.dataBytes() != len(s.Pix) {
		t.Errorf("expected %d bytes, got %d", len(s.Pix), c.dataBytes())
	}
}

func TestDrawSpriteRejects(t *testing.T) {
	d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)

	s := &Sprite{Pix: make([]byte, 10*8*2), Width: 10, Height: 8}
	if err := d.DrawSprite(s, 235, 0); !errors.Is(err, ErrGeometry) {
		t.Errorf("expected ErrGeometry, got %v", err)
	}
	if len(c.writes) != 0 {
		t.Errorf("expected nothing transmitted, got %d writes", len(c.writes))
	}
}

// makeTestBMP builds a 16-bit bitmap file with sequential pixel bytes.
func makeTestBMP(w, h int) []byte {
	var (
		rowBytes = w * 2
		padding  = rowBytes % 4
		header   = make([]byte, 0x36)
	)
	header[0], header[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(header[0x0A:], 0x36)
	binary.LittleEndian.PutUint32(header[0x12:], uint32(w))
	binary.LittleEndian.PutUint32(header[0x16:], uint32(h))
	binary.LittleEndian.PutUint16(header[0x1C:], 16)
	binary.LittleEndian.PutUint32(header[0x22:], uint32((rowBytes+padding)*h))

	buf := bytes.NewBuffer(header)
	for y := 0; y < h; y++ {
		for i := 0; i < rowBytes; i++ {
			buf.WriteByte(byte(y*rowBytes + i))
		}
		buf.Write(make([]byte, padding))
	}
	return buf.Bytes()
}

func TestDrawImage(t *testing.T) {
	d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)

	file := makeTestBMP(8, 4)
	if err := d.DrawImage(bytes.NewReader(file), 10, 20); err != nil {
		t.Fatal(err)
	}

	// One window+write pair per image row.
	windows := c.windows()
	if len(windows) != 4 {
		t.Fatalf("expected 4 row windows, got %d", len(windows))
	}
	for i, w := range windows {
		if want := image.Rect(10, 20+i, 18, 21+i); w != want {
			t.Errorf("row %d: expected window %s, got %s", i, want, w)
		}
	}
	if want := 8 * 4 * 2; c.dataBytes() != want {
		t.Errorf("expected %d bytes, got %d", want, c.dataBytes())
	}

	// Rows arrive with their byte order reversed.
	first := c.dataWrites()[0]
	for i := range first {
		if want := byte(15 - i); first[i] != want {
			t.Fatalf("expected reversed row byte %#02x at %d, got %#02x", want, i, first[i])
		}
	}
}

func TestDrawImageRejects(t *testing.T) {
	tests := []struct {
		name string
		file []byte
		x, y int
		want error
	}{
		{"bad signature", append([]byte{'P', 'N'}, makeTestBMP(4, 4)[2:]...), 0, 0, bmp.ErrFormat},
		{"off-grid placement", makeTestBMP(8, 4), 236, 0, ErrGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)
			if err := d.DrawImage(bytes.NewReader(tt.file), tt.x, tt.y); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if len(c.writes) != 0 {
				t.Errorf("expected nothing transmitted, got %d writes", len(c.writes))
			}
		})
	}
}

func TestDrawImageDepthMismatch(t *testing.T) {
	d, c := newTestDisplay(240, 320, pixel.RGB888Format, 50_000)

	if err := d.DrawImage(bytes.NewReader(makeTestBMP(4, 4)), 0, 0); !errors.Is(err, bmp.ErrDepth) {
		t.Errorf("expected ErrDepth, got %v", err)
	}
	if len(c.writes) != 0 {
		t.Errorf("expected nothing transmitted, got %d writes", len(c.writes))
	}
}

func TestLoadSprite(t *testing.T) {
	d, _ := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)

	s, err := d.LoadSprite(bytes.NewReader(makeTestBMP(8, 4)))
	if err != nil {
		t.Fatal(err)
	}
	if s.Width != 8 || s.Height != 4 {
		t.Errorf("expected an 8x4 sprite, got %dx%d", s.Width, s.Height)
	}
	if want := 8 * 4 * 2; len(s.Pix) != want {
		t.Errorf("expected %d sprite bytes, got %d", want, len(s.Pix))
	}
}

func TestLoadSpriteTooBig(t *testing.T) {
	d, _ := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)

	if _, err := d.LoadSprite(bytes.NewReader(makeTestBMP(241, 4))); !errors.Is(err, ErrBounds) {
		t.Errorf("expected ErrBounds, got %v", err)
	}
}

type testGlyphs struct {
	w, h int
}

func (g testGlyphs) Glyph(r rune) ([]byte, int, int, bool) {
	if r == '?' {
		return nil, 0, 0, false
	}
	return make([]byte, g.w*g.h*2), g.w, g.h, true
}

func TestDrawText(t *testing.T) {
	d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)

	if err := d.DrawText(0, 0, "ab", testGlyphs{w: 4, h: 6}, 1, color.Black); err != nil {
		t.Fatal(err)
	}

	want := []image.Rectangle{
		image.Rect(0, 0, 4, 6), // 'a'
		image.Rect(4, 0, 5, 6), // spacing
		image.Rect(5, 0, 9, 6), // 'b'
		image.Rect(9, 0, 10, 6),
	}
	windows := c.windows()
	if len(windows) != len(want) {
		t.Fatalf("expected %d windows, got %d", len(want), len(windows))
	}
	for i, w := range want {
		if windows[i] != w {
			t.Errorf("window %d: expected %s, got %s", i, w, windows[i])
		}
	}
}

func TestDrawTextMissingGlyph(t *testing.T) {
	d, _ := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)

	if err := d.DrawText(0, 0, "a?b", testGlyphs{w: 4, h: 6}, 0, color.Black); err == nil {
		t.Error("expected an error for a missing glyph")
	}
}

func TestDrawCharOffGrid(t *testing.T) {
	d, c := newTestDisplay(240, 320, pixel.RGB565Format, 50_000)

	if _, _, err := d.DrawChar(238, 0, 'a', testGlyphs{w: 4, h: 6}); !errors.Is(err, ErrGeometry) {
		t.Errorf("expected ErrGeometry, got %v", err)
	}
	if len(c.writes) != 0 {
		t.Errorf("expected nothing transmitted, got %d writes", len(c.writes))
	}
}
