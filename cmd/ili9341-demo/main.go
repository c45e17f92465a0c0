package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/ili9341"
	"github.com/BeatGlow/ili9341/font"
	"github.com/BeatGlow/ili9341/pixel"
)

func main() {
	widthFlag := flag.Int("width", 0, "Display width")
	heightFlag := flag.Int("height", 0, "Display height")
	spiPortFlag := flag.String("spi", "", "SPI port name (default: use first available)")
	spiSpeedFlag := flag.Int("speed", 40, "SPI clock speed in MHz")
	resetPinFlag := flag.String("reset", "GPIO25", "Reset GPIO pin")
	dcPinFlag := flag.String("dc", "GPIO24", "Data/Command GPIO pin (DC)")
	csPinFlag := flag.String("cs", "", "Chip select GPIO pin (default: kernel driven)")
	blPinFlag := flag.String("bl", "", "Backlight GPIO pin")
	rotateFlag := flag.Bool("rotate", false, "Rotate the display 90° clockwise")
	bgrFlag := flag.Bool("bgr", false, "Panel uses BGR channel order")
	deepFlag := flag.Bool("deep", false, "Use 18-bit color")
	imageFlag := flag.String("image", "", "Bitmap file to display")
	flag.Parse()

	if _, err := host.Init(); err != nil {
		fatal(err)
	}

	spiConfig := &ili9341.SPIConfig{
		Port:  *spiPortFlag,
		Speed: physic.Frequency(*spiSpeedFlag) * physic.MegaHertz,
		Reset: gpioreg.ByName(*resetPinFlag),
		DC:    gpioreg.ByName(*dcPinFlag),
	}
	if *csPinFlag != "" {
		spiConfig.CS = gpioreg.ByName(*csPinFlag)
	}
	conn, err := ili9341.OpenSPI(spiConfig)
	if err != nil {
		fatal(err)
	}
	defer conn.Close()
	fmt.Printf("using connection: %s\n", conn)

	format := pixel.RGB565Format
	if *deepFlag {
		format = pixel.RGB888Format
	}
	config := &ili9341.Config{
		Width:    *widthFlag,
		Height:   *heightFlag,
		Format:   format,
		Rotate90: *rotateFlag,
		BGR:      *bgrFlag,
	}
	if *blPinFlag != "" {
		config.Backlight = gpioreg.ByName(*blPinFlag)
	}
	output, err := ili9341.New(conn, config)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("using display: %s\n", output)

	size := output.Bounds().Size()

	// Border box.
	white := color.White
	if err = output.DrawHLine(0, 0, size.X, white); err != nil {
		fatal(err)
	}
	if err = output.DrawHLine(0, size.Y-1, size.X, white); err != nil {
		fatal(err)
	}
	if err = output.DrawVLine(0, 0, size.Y, white); err != nil {
		fatal(err)
	}
	if err = output.DrawVLine(size.X-1, 0, size.Y, white); err != nil {
		fatal(err)
	}

	// Line fan from the top left corner.
	for i := 0; i < 8; i++ {
		c := color.RGBA{R: uint8(i * 32), G: 0xff - uint8(i*32), B: 0x80, A: 0xff}
		if err = output.DrawLine(1, 1, size.X-2, 1+(size.Y-2)*i/7, c); err != nil {
			fatal(err)
		}
	}

	// Color bars.
	barWidth := (size.X - 20) / 3
	for i, c := range []color.Color{
		color.RGBA{R: 0xff, A: 0xff},
		color.RGBA{G: 0xff, A: 0xff},
		color.RGBA{B: 0xff, A: 0xff},
	} {
		if err = output.FillRect(10+i*barWidth, size.Y-60, barWidth, 40, c); err != nil {
			fatal(err)
		}
	}

	if *imageFlag != "" {
		f, err := os.Open(*imageFlag)
		if err != nil {
			fatal(err)
		}
		err = output.DrawImage(f, 10, 10)
		_ = f.Close()
		if err != nil {
			fatal(err)
		}
	}

	text := font.NewRenderer(font.Basic(), output.Format(), white, color.Black)
	if err = output.DrawText(10, size.Y-16, "ILI9341", text, 1, color.Black); err != nil {
		fatal(err)
	}

	fmt.Println("hit control-c to stop...")
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for invert := false; ; invert = !invert {
		<-ticker.C
		if err = output.Invert(invert); err != nil {
			fatal(err)
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
