package ili9341

import (
	"errors"
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// Conn errors.
var (
	ErrResetPin = errors.New("ili9341: reset GPIO pin is invalid")
	ErrDCPin    = errors.New("ili9341: data/command (DC) GPIO pin is invalid")
)

// Conn is the connection interface for communicating with the panel.
//
// Command and Data are single bus transactions: they assert the chip select
// line, transfer, and release it again. A caller that needs to chain several
// transfers under one select/deselect pair (such as the line rasterizer)
// brackets them with Hold and Release.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Reset sets the reset pin to the provided level.
	Reset(gpio.Level) error

	// Command sends a command byte with optional data bytes.
	Command(byte, ...byte) error

	// Data sends data bytes.
	Data(...byte) error

	// Read sends a command byte and reads n bytes back.
	Read(cmd byte, n int) ([]byte, error)

	// Hold keeps the chip selected across subsequent transactions.
	// Holds nest; the chip is deselected when every Hold has been
	// matched by a Release.
	Hold() error

	// Release undoes one Hold.
	Release() error
}

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	// Port is the SPI port name as understood by spireg, e.g. "SPI0.0".
	// Empty selects the first available port.
	Port string

	// Speed is the bus clock frequency.
	Speed physic.Frequency

	// BatchSize bounds the size of a single kernel SPI transfer.
	BatchSize int

	// Reset pin.
	Reset gpio.PinOut

	// DC is the data/command pin.
	DC gpio.PinOut

	// CS is the chip select pin. When set the port is opened with spi.NoCS
	// and the line is driven by this driver, which is required for chained
	// window writes. When nil the kernel toggles chip select per transfer.
	CS gpio.PinOut
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	Speed:     40 * physic.MegaHertz,
	BatchSize: 4096,
}

type spiConn struct {
	port      spi.PortCloser
	bus       spi.Conn
	dc        gpio.PinOut
	dcLevel   gpio.Level
	cs        gpio.PinOut
	rst       gpio.PinOut
	held      int
	batchSize int
}

// OpenSPI opens an SPI connection to the panel.
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}

	if config.Reset == nil || config.Reset == gpio.INVALID {
		return nil, ErrResetPin
	}
	if config.DC == nil || config.DC == gpio.INVALID {
		return nil, ErrDCPin
	}
	if config.Speed == 0 {
		config.Speed = DefaultSPIConfig.Speed
	}
	if config.BatchSize == 0 {
		config.BatchSize = DefaultSPIConfig.BatchSize
	}

	port, err := spireg.Open(config.Port)
	if err != nil {
		return nil, err
	}

	mode := spi.Mode0
	if config.CS != nil {
		mode |= spi.NoCS
	}
	bus, err := port.Connect(config.Speed, mode, 8)
	if err != nil {
		_ = port.Close()
		return nil, err
	}

	c := &spiConn{
		port:      port,
		bus:       bus,
		dc:        config.DC,
		dcLevel:   gpio.Low,
		cs:        config.CS,
		rst:       config.Reset,
		batchSize: config.BatchSize,
	}
	if err = c.dc.Out(gpio.Low); err != nil {
		_ = port.Close()
		return nil, err
	}
	if c.cs != nil {
		if err = c.cs.Out(gpio.High); err != nil {
			_ = port.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *spiConn) String() string {
	return fmt.Sprintf("SPI bus %s", c.bus)
}

func (c *spiConn) Close() error {
	if c.held > 0 {
		c.held = 1
		_ = c.Release()
	}
	return c.port.Close()
}

func (c *spiConn) Reset(level gpio.Level) error {
	return c.rst.Out(level)
}

func (c *spiConn) updateDC(level gpio.Level) error {
	if c.dcLevel != level {
		if err := c.dc.Out(level); err != nil {
			return err
		}
		c.dcLevel = level
	}
	return nil
}

func (c *spiConn) selectChip() error {
	if c.cs == nil || c.held > 0 {
		return nil
	}
	return c.cs.Out(gpio.Low)
}

func (c *spiConn) deselectChip() error {
	if c.cs == nil || c.held > 0 {
		return nil
	}
	return c.cs.Out(gpio.High)
}

func (c *spiConn) Hold() error {
	if c.cs != nil && c.held == 0 {
		if err := c.cs.Out(gpio.Low); err != nil {
			return err
		}
	}
	c.held++
	return nil
}

func (c *spiConn) Release() error {
	if c.held == 0 {
		return nil
	}
	c.held--
	if c.held > 0 || c.cs == nil {
		return nil
	}
	return c.cs.Out(gpio.High)
}

func (c *spiConn) Command(cmd byte, data ...byte) (err error) {
	if err = c.selectChip(); err != nil {
		return
	}
	if err = c.updateDC(gpio.Low); err != nil {
		return
	}
	if err = c.bus.Tx([]byte{cmd}, nil); err != nil {
		return
	}
	if len(data) > 0 {
		if err = c.updateDC(gpio.High); err != nil {
			return
		}
		if err = c.writeBatched(data); err != nil {
			return
		}
	}
	return c.deselectChip()
}

func (c *spiConn) Data(data ...byte) (err error) {
	if len(data) == 0 {
		return
	}
	if err = c.selectChip(); err != nil {
		return
	}
	if err = c.updateDC(gpio.High); err != nil {
		return
	}
	if err = c.writeBatched(data); err != nil {
		return
	}
	return c.deselectChip()
}

func (c *spiConn) Read(cmd byte, n int) (data []byte, err error) {
	if err = c.selectChip(); err != nil {
		return
	}
	if err = c.updateDC(gpio.Low); err != nil {
		return
	}
	if err = c.bus.Tx([]byte{cmd}, nil); err != nil {
		return
	}
	if err = c.updateDC(gpio.High); err != nil {
		return
	}
	data = make([]byte, n)
	if err = c.bus.Tx(make([]byte, n), data); err != nil {
		return nil, err
	}
	return data, c.deselectChip()
}

func (c *spiConn) writeBatched(data []byte) (err error) {
	if len(data) <= c.batchSize {
		return c.bus.Tx(data, nil)
	}

	if debug {
		log.Printf("write %d bytes of data in %d batches", len(data), (len(data)+c.batchSize-1)/c.batchSize)
	}
	buffer := data
	for len(buffer) > 0 {
		if len(buffer) > c.batchSize {
			if err = c.bus.Tx(buffer[:c.batchSize], nil); err != nil {
				return
			}
			buffer = buffer[c.batchSize:]
		} else {
			if err = c.bus.Tx(buffer, nil); err != nil {
				return
			}
			buffer = nil
		}
	}
	return
}
