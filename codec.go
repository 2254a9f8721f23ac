package mosaic

import (
	"io"

	"github.com/gogpu/mosaic/pngio"
)

// RowReader streams the decoded scanlines of one tile, top to bottom.
// The merger keeps one open reader per tile column and never more.
type RowReader interface {
	// Width and Height report the tile size in pixels.
	Width() int
	Height() int

	// Channels reports the number of interleaved samples per pixel.
	// The merger requires 4 (RGBA).
	Channels() int

	// ReadRow decodes the next scanline into dst, which must hold
	// Width()*Channels() bytes.
	ReadRow(dst []byte) error

	Close() error
}

// RowWriter appends scanlines to the output image, top to bottom.
// Close finalizes the stream; rows cannot be rewritten or reordered.
type RowWriter interface {
	WriteRow(row []byte) error
	Close() error
}

// Codec encodes rendered tiles and reopens them for row-streamed
// decoding. The zero value of the library uses the pngio implementation;
// WithCodec swaps in another one (mainly for tests and benchmarks).
type Codec interface {
	// EncodeRGBA encodes a width x height RGBA buffer at the given
	// compression level (0..9).
	EncodeRGBA(pix []byte, width, height, level int) ([]byte, error)

	// NewReader opens encoded tile bytes for sequential row decoding.
	NewReader(data []byte) (RowReader, error)

	// NewWriter opens a sequential row encoder writing to w.
	NewWriter(w io.Writer, width, height, level int) (RowWriter, error)
}

// pngCodec adapts pngio to the Codec interface.
type pngCodec struct{}

func (pngCodec) EncodeRGBA(pix []byte, width, height, level int) ([]byte, error) {
	return pngio.EncodeRGBA(pix, width, height, pngio.CompressionLevel(level))
}

func (pngCodec) NewReader(data []byte) (RowReader, error) {
	r, err := pngio.NewReader(data)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (pngCodec) NewWriter(w io.Writer, width, height, level int) (RowWriter, error) {
	pw, err := pngio.NewWriter(w, width, height, pngio.CompressionLevel(level))
	if err != nil {
		return nil, err
	}
	return pw, nil
}
