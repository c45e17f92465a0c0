// Package bmp reads uncompressed Windows bitmap files in the fixed header
// layout used for panel sprites, streaming pixel rows without materializing
// the whole image.
//
// Bitmap rows are stored bottom-up and padded to a 4-byte boundary; each
// row is delivered with its byte order reversed, which converts the file's
// native channel order to the byte order the panel expects.
package bmp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Errors
var (
	ErrFormat    = errors.New("bmp: file format is not supported")
	ErrDepth     = errors.New("bmp: color depth does not match the panel format")
	ErrTruncated = errors.New("bmp: truncated pixel data")
)

// Header field offsets.
const (
	offsetContent      = 0x0A
	offsetWidth        = 0x12
	offsetHeight       = 0x16
	offsetBitsPerPixel = 0x1C
	offsetBitmapSize   = 0x22

	headerSize = 0x36
)

// Info describes a bitmap file.
type Info struct {
	// ContentOffset is the byte offset of the pixel data.
	ContentOffset int64

	// Width and Height in pixels.
	Width  int
	Height int

	// BitsPerPixel of the stored pixel data.
	BitsPerPixel int

	// BitmapSize is the pixel data size in bytes, padding included.
	BitmapSize int

	// RowPadding is the number of padding bytes after each row.
	RowPadding int
}

// RowBytes is the unpadded byte width of one pixel row.
func (i Info) RowBytes() int {
	return i.Width * i.BitsPerPixel / 8
}

// ReadInfo parses the bitmap header at the start of r.
func ReadInfo(r io.Reader) (Info, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Info{}, fmt.Errorf("%w: short header", ErrFormat)
	}
	if header[0] != 'B' || header[1] != 'M' {
		return Info{}, fmt.Errorf("%w: bad signature %#02x %#02x", ErrFormat, header[0], header[1])
	}

	info := Info{
		ContentOffset: int64(binary.LittleEndian.Uint32(header[offsetContent:])),
		Width:         int(binary.LittleEndian.Uint32(header[offsetWidth:])),
		Height:        int(binary.LittleEndian.Uint32(header[offsetHeight:])),
		BitsPerPixel:  int(binary.LittleEndian.Uint16(header[offsetBitsPerPixel:])),
		BitmapSize:    int(binary.LittleEndian.Uint32(header[offsetBitmapSize:])),
	}
	if info.Width <= 0 || info.Height <= 0 {
		return Info{}, fmt.Errorf("%w: invalid dimensions %dx%d", ErrFormat, info.Width, info.Height)
	}
	if info.BitsPerPixel != 16 && info.BitsPerPixel != 24 {
		return Info{}, fmt.Errorf("%w: %d bits per pixel", ErrFormat, info.BitsPerPixel)
	}
	info.RowPadding = info.RowBytes() % 4
	return info, nil
}

// Reader streams the pixel rows of a bitmap file.
type Reader struct {
	r    io.ReadSeeker
	info Info
	row  int
}

// NewReader parses the header of a bitmap file and positions r at the first
// pixel row. The file's color depth must match bytesPerPixel, the panel's
// configured depth; this is checked before any pixel data is read.
func NewReader(r io.ReadSeeker, bytesPerPixel int) (*Reader, error) {
	info, err := ReadInfo(r)
	if err != nil {
		return nil, err
	}
	if info.BitsPerPixel/8 != bytesPerPixel {
		return nil, fmt.Errorf("%w: file is %d-bit, panel wants %d-bit", ErrDepth, info.BitsPerPixel, bytesPerPixel*8)
	}
	if _, err = r.Seek(info.ContentOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return &Reader{r: r, info: info}, nil
}

// Info returns the parsed bitmap descriptor.
func (b *Reader) Info() Info {
	return b.info
}

// ReadRow reads the next pixel row into dst with its byte order reversed,
// skipping the row padding. dst must be Info.RowBytes() long. Rows are
// delivered in file order, which is bottom-to-top on the panel.
func (b *Reader) ReadRow(dst []byte) error {
	if b.row >= b.info.Height {
		return io.EOF
	}
	if len(dst) != b.info.RowBytes() {
		return fmt.Errorf("bmp: row buffer is %d bytes, want %d", len(dst), b.info.RowBytes())
	}
	if _, err := io.ReadFull(b.r, dst); err != nil {
		return fmt.Errorf("%w: row %d: %v", ErrTruncated, b.row, err)
	}
	reverse(dst)
	b.row++
	if b.info.RowPadding > 0 && b.row < b.info.Height {
		if _, err := b.r.Seek(int64(b.info.RowPadding), io.SeekCurrent); err != nil {
			return fmt.Errorf("%w: row %d: %v", ErrTruncated, b.row, err)
		}
	}
	return nil
}

// ReadAll reads every remaining row into one contiguous buffer and
// validates that the decoded size divides evenly by both dimensions, which
// guards against corrupt files producing a jagged buffer.
func (b *Reader) ReadAll() ([]byte, error) {
	var (
		rowBytes = b.info.RowBytes()
		pix      = make([]byte, (b.info.Height-b.row)*rowBytes)
	)
	for i := 0; b.row < b.info.Height; i++ {
		if err := b.ReadRow(pix[i*rowBytes : (i+1)*rowBytes]); err != nil {
			return nil, err
		}
	}
	if len(pix)%b.info.Width != 0 || len(pix)%b.info.Height != 0 {
		return nil, fmt.Errorf("%w: %d bytes does not fit %dx%d", ErrTruncated, len(pix), b.info.Width, b.info.Height)
	}
	return pix, nil
}

// Decode reads a whole bitmap file into a contiguous pixel buffer in panel
// byte order.
func Decode(r io.ReadSeeker, bytesPerPixel int) ([]byte, Info, error) {
	b, err := NewReader(r, bytesPerPixel)
	if err != nil {
		return nil, Info{}, err
	}
	pix, err := b.ReadAll()
	if err != nil {
		return nil, Info{}, err
	}
	return pix, b.info, nil
}

func reverse(p []byte) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}
