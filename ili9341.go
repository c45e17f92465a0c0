// Package ili9341 contains a driver for ILI9341 TFT panels on a serial bus.
//
// The driver is unbuffered: every drawing operation addresses a rectangular
// window on the panel and streams pixel data straight to the bus, split into
// chunks that respect a configurable transfer budget. This keeps the host
// memory footprint independent of the panel size.
//
// The driver is not safe for concurrent use; the chip select and
// data/command lines are shared state owned by a single logical caller.
package ili9341

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/ili9341/pixel"
)

var debug bool

func init() {
	debug = os.Getenv("DISPLAY_DEBUG") != ""
}

// Errors
var (
	ErrGeometry = errors.New("ili9341: coordinates out of display bounds")
	ErrConfig   = errors.New("ili9341: transfer budget too small for one row")
	ErrBounds   = errors.New("ili9341: image exceeds display bounds")
)

const (
	defaultWidth  = 240
	defaultHeight = 320

	// defaultMaxTransfer bounds a single bus write.
	defaultMaxTransfer = 50_000
)

// Config is the display configuration.
type Config struct {
	// Width of the panel in pixels, before rotation.
	Width int

	// Height of the panel in pixels, before rotation.
	Height int

	// Format is the interface pixel format.
	Format pixel.Format

	// Rotate90 rotates the addressing by 90° clockwise and exchanges the
	// width and height.
	Rotate90 bool

	// FlipHorizontal mirrors the X axis.
	FlipHorizontal bool

	// FlipVertical mirrors the Y axis.
	FlipVertical bool

	// BGR swaps the panel's channel read order.
	BGR bool

	// NoGamma skips the custom gamma correction tables.
	NoGamma bool

	// MaxTransfer bounds the bytes of a single bus write.
	MaxTransfer int

	// Backlight pin
	Backlight gpio.PinOut
}

// Display is an ILI9341 TFT display.
type Display struct {
	c           Conn
	width       int
	height      int
	format      pixel.Format
	madctl      byte
	maxTransfer int
	backlight   gpio.PinOut
}

// New initializes an ILI9341 display on the given connection.
func New(c Conn, config *Config) (*Display, error) {
	if config == nil {
		config = &Config{}
	}
	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.Height == 0 {
		config.Height = defaultHeight
	}
	if config.MaxTransfer == 0 {
		config.MaxTransfer = defaultMaxTransfer
	}

	d := &Display{
		c:           c,
		format:      config.Format,
		maxTransfer: config.MaxTransfer,
		backlight:   config.Backlight,
	}

	if config.Rotate90 {
		d.madctl = ili9341RowColumnExchange
		d.width = config.Height
		d.height = config.Width
	} else {
		d.madctl = ili9341RowAddressOrder
		d.width = config.Width
		d.height = config.Height
	}
	if config.FlipHorizontal {
		d.madctl ^= ili9341RowAddressOrder
	}
	if config.FlipVertical {
		d.madctl ^= ili9341ColumnAddressOrder
	}
	if config.BGR {
		d.madctl ^= ili9341BGROrder
	}

	if d.width > 320 || d.height > 320 || d.width*d.height > 240*320 {
		return nil, fmt.Errorf("ili9341: invalid size %dx%d, panel RAM is 240x320", d.width, d.height)
	}

	if err := d.initPanel(config); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Display) String() string {
	return fmt.Sprintf("ILI9341 %dx%d %s", d.width, d.height, d.format)
}

// Bounds is the display bounding box (dimensions).
func (d *Display) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// ColorModel used by the display.
func (d *Display) ColorModel() color.Model {
	return d.format.Model()
}

// Format is the interface pixel format used by the display.
func (d *Display) Format() pixel.Format {
	return d.format
}

func (d *Display) command(command byte, data ...byte) error {
	return d.c.Command(command, data...)
}

func (d *Display) commands(commands [][]byte) (err error) {
	for _, command := range commands {
		if err = d.c.Command(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

// reset performs a hardware reset: Low=initialization, High=normal operation.
func (d *Display) reset() (err error) {
	if err = d.c.Reset(gpio.Low); err != nil {
		return
	}
	time.Sleep(50 * time.Millisecond)
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}
	time.Sleep(50 * time.Millisecond)
	return
}

func (d *Display) initPanel(config *Config) (err error) {
	if err = d.reset(); err != nil {
		return
	}

	if err = d.command(ili9341SWRESET); err != nil {
		return
	}
	time.Sleep(50 * time.Millisecond)

	pixset := byte(0x55) // 16 bits per pixel
	if d.format == pixel.RGB888Format {
		pixset = 0x66 // 18 bits per pixel
	}

	if err = d.commands([][]byte{
		{ili9341PWCTRB, 0x00, 0xC1, 0x30},          // Power control B
		{ili9341PONSEQCT, 0x64, 0x03, 0x12, 0x81},  // Power on sequence control
		{ili9341DTIMCTA, 0x85, 0x00, 0x78},         // Driver timing control A
		{ili9341PWCTRA, 0x39, 0x2C, 0x00, 0x34, 0x02}, // Power control A
		{ili9341PUMPRC, 0x20},                      // Pump ratio control
		{ili9341DTIMCTB, 0x00, 0x00},               // Driver timing control B
		{ili9341PWCTRL1, 0x23},                     // Power control 1
		{ili9341PWCTRL2, 0x10},                     // Power control 2
		{ili9341VMCTRL1, 0x3E, 0x28},               // VCOM control 1
		{ili9341VMCTRL2, 0x86},                     // VCOM control 2
		{ili9341MADCTL, d.madctl},                  // Memory access control
		{ili9341VSCRSADD, 0x00},                    // Vertical scrolling start address
		{ili9341PIXSET, pixset},                    // Pixel format set
		{ili9341FRMCTR1, 0x00, 0x18},               // Frame rate control
		{ili9341DISCTRL, 0x08, 0x82, 0x27},         // Display function control
		{ili9341ENABLE3G, 0x00},                    // Enable 3 gamma control
		{ili9341GAMSET, 0x01},                      // Gamma curve selected
	}); err != nil {
		return
	}

	if !config.NoGamma {
		if err = d.commands([][]byte{
			{ili9341PGAMCTRL, 0x0F, 0x31, 0x2B, 0x0C, 0x0E, 0x08, 0x4E, 0xF1, 0x37, 0x07, 0x10, 0x03, 0x0E, 0x09, 0x00},
			{ili9341NGAMCTRL, 0x00, 0x0E, 0x14, 0x03, 0x11, 0x07, 0x31, 0xC1, 0x48, 0x08, 0x0F, 0x0C, 0x31, 0x36, 0x0F},
		}); err != nil {
			return
		}
	}

	if err = d.command(ili9341SLPOUT); err != nil {
		return
	}
	time.Sleep(50 * time.Millisecond)
	if err = d.command(ili9341DISPON); err != nil {
		return
	}
	time.Sleep(50 * time.Millisecond)

	if d.backlight != nil {
		if err = d.backlight.Out(gpio.High); err != nil {
			return
		}
	}

	return d.Clear(color.Black)
}

// SetWindow establishes the rectangular write window for the pixel stream
// that follows and leaves the chip selected. The caller must stream exactly
// the window's pixel data and then release the connection.
func (d *Display) SetWindow(x0, y0, x1, y1 int) error {
	if x0 > x1 || y0 > y1 {
		return fmt.Errorf("%w: malformed window (%d,%d)-(%d,%d)", ErrGeometry, x0, y0, x1, y1)
	}
	if d.offGrid(x0, y0, x1, y1) {
		return fmt.Errorf("%w: window (%d,%d)-(%d,%d) on %dx%d panel", ErrGeometry, x0, y0, x1, y1, d.width, d.height)
	}
	if err := d.c.Hold(); err != nil {
		return err
	}
	return d.commands([][]byte{
		{ili9341CASET, byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)}, // Column address
		{ili9341PASET, byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)}, // Page address
		{ili9341RAMWR}, // Write to RAM
	})
}

// block writes a fully encoded pixel buffer to a window in one transaction.
func (d *Display) block(x0, y0, x1, y1 int, data []byte) (err error) {
	if err = d.SetWindow(x0, y0, x1, y1); err != nil {
		return
	}
	defer func() {
		if rerr := d.c.Release(); err == nil {
			err = rerr
		}
	}()
	return d.c.Data(data...)
}

// offGrid reports whether the rectangle extends past the display boundaries.
func (d *Display) offGrid(xmin, ymin, xmax, ymax int) bool {
	if xmin < 0 || ymin < 0 || xmax >= d.width || ymax >= d.height {
		if debug {
			log.Printf("ili9341: rectangle (%d,%d)-(%d,%d) is off the %dx%d grid", xmin, ymin, xmax, ymax, d.width, d.height)
		}
		return true
	}
	return false
}

// Show toggles the display on or off.
func (d *Display) Show(show bool) error {
	command := byte(ili9341DISPOFF)
	if show {
		command = ili9341DISPON
	}
	return d.command(command)
}

// Sleep enters or exits sleep mode.
func (d *Display) Sleep(enter bool) error {
	command := byte(ili9341SLPOUT)
	if enter {
		command = ili9341SLPIN
	}
	return d.command(command)
}

// Invert toggles display color inversion.
func (d *Display) Invert(invert bool) error {
	command := byte(ili9341DINVOFF)
	if invert {
		command = ili9341DINVON
	}
	return d.command(command)
}

// Scroll shifts the display contents vertically by y pixels.
func (d *Display) Scroll(y int) error {
	return d.command(ili9341VSCRSADD, byte(y>>8), byte(y))
}

// SetScroll sets the height of the top and bottom scroll margins.
func (d *Display) SetScroll(top, bottom int) error {
	if top+bottom > d.height {
		return fmt.Errorf("%w: scroll margins %d+%d exceed height %d", ErrGeometry, top, bottom, d.height)
	}
	middle := d.height - (top + bottom)
	return d.command(ili9341VSCRDEF,
		byte(top>>8), byte(top),
		byte(middle>>8), byte(middle),
		byte(bottom>>8), byte(bottom))
}

// SetBacklight switches the backlight pin, if one is configured.
func (d *Display) SetBacklight(on bool) error {
	if d.backlight == nil {
		return nil
	}
	return d.backlight.Out(gpio.Level(on))
}

// Close blanks the display and closes the connection.
func (d *Display) Close() error {
	if err := d.Clear(color.Black); err != nil {
		_ = d.c.Close()
		return err
	}
	if err := d.Show(false); err != nil {
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}
