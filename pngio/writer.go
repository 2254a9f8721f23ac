package pngio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
)

// CompressionLevel is a zlib compression level for the PNG IDAT stream.
// Valid values are 0 (store) through 9 (best compression).
type CompressionLevel int

// Standard compression levels.
const (
	CompressionLevelNone      CompressionLevel = 0
	CompressionLevelBestSpeed CompressionLevel = 1
	CompressionLevelDefault   CompressionLevel = 6
	CompressionLevelBestSize  CompressionLevel = 9
)

// Writer errors.
var (
	ErrBadLevel     = errors.New("pngio: compression level out of range")
	ErrRowCount     = errors.New("pngio: wrong number of rows written")
	ErrWriterClosed = errors.New("pngio: writer is closed")
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// idatChunkSize is the flush threshold for compressed output. Compressed
// bytes accumulate until this size, then leave as one IDAT chunk.
const idatChunkSize = 1 << 16

const channels = 4 // writer output is always RGBA

// writeChunk writes one PNG chunk: length, type, data, CRC.
func writeChunk(w io.Writer, typ string, data []byte) error {
	var head [8]byte
	binary.BigEndian.PutUint32(head[0:4], uint32(len(data)))
	copy(head[4:8], typ)
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	crc := crc32.NewIEEE()
	crc.Write(head[4:8])
	crc.Write(data)
	var tail [4]byte
	binary.BigEndian.PutUint32(tail[:], crc.Sum32())
	_, err := w.Write(tail[:])
	return err
}

// idatWriter buffers compressed bytes and emits them as IDAT chunks.
// It sits between the zlib compressor and the destination stream.
type idatWriter struct {
	dst io.Writer
	buf bytes.Buffer
}

func (iw *idatWriter) Write(p []byte) (int, error) {
	iw.buf.Write(p)
	for iw.buf.Len() >= idatChunkSize {
		if err := writeChunk(iw.dst, "IDAT", iw.buf.Next(idatChunkSize)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// flush emits whatever compressed bytes remain as a final IDAT chunk.
func (iw *idatWriter) flush() error {
	if iw.buf.Len() == 0 {
		return nil
	}
	return writeChunk(iw.dst, "IDAT", iw.buf.Next(iw.buf.Len()))
}

// Writer encodes an 8-bit RGBA PNG from sequentially appended scanlines.
// Rows are filtered, compressed and flushed as they arrive; the image is
// never held in memory as a whole.
type Writer struct {
	dst    *idatWriter
	z      *zlib.Writer
	width  int
	height int

	prev     []byte // previous raw row, for Up/Average/Paeth filters
	filtered []byte // scratch: filter byte + filtered row
	trial    []byte // scratch for filter selection

	rowsWritten int
	closed      bool
}

// NewWriter starts a width x height RGBA PNG on w: it validates the
// parameters and writes the signature and IHDR immediately.
func NewWriter(w io.Writer, width, height int, level CompressionLevel) (*Writer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("pngio: invalid image size %dx%d", width, height)
	}
	if level < 0 || level > 9 {
		return nil, fmt.Errorf("%w: %d", ErrBadLevel, level)
	}

	if _, err := w.Write(pngSignature); err != nil {
		return nil, err
	}
	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(height))
	ihdr[8] = 8  // bit depth
	ihdr[9] = 6  // color type: truecolor with alpha
	ihdr[10] = 0 // compression: deflate
	ihdr[11] = 0 // filter method 0
	ihdr[12] = 0 // no interlace
	if err := writeChunk(w, "IHDR", ihdr[:]); err != nil {
		return nil, err
	}

	dst := &idatWriter{dst: w}
	z, err := zlib.NewWriterLevel(dst, int(level))
	if err != nil {
		return nil, err
	}
	rowLen := width * channels
	return &Writer{
		dst:      dst,
		z:        z,
		width:    width,
		height:   height,
		prev:     make([]byte, rowLen),
		filtered: make([]byte, 1+rowLen),
		trial:    make([]byte, 1+rowLen),
	}, nil
}

// Width returns the image width in pixels.
func (w *Writer) Width() int { return w.width }

// Height returns the image height in pixels.
func (w *Writer) Height() int { return w.height }

// WriteRow appends the next scanline, which must hold width*4 RGBA bytes.
func (w *Writer) WriteRow(row []byte) error {
	if w.closed {
		return ErrWriterClosed
	}
	if len(row) != w.width*channels {
		return fmt.Errorf("pngio: row length %d, want %d", len(row), w.width*channels)
	}
	if w.rowsWritten >= w.height {
		return fmt.Errorf("%w: image is %d rows", ErrRowCount, w.height)
	}

	w.selectFilter(row)
	if _, err := w.z.Write(w.filtered); err != nil {
		return fmt.Errorf("pngio: compress row %d: %w", w.rowsWritten, err)
	}
	copy(w.prev, row)
	w.rowsWritten++
	return nil
}

// Close flushes the compressor, emits the final IDAT and IEND chunks, and
// verifies the full row count was written.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.rowsWritten != w.height {
		return fmt.Errorf("%w: wrote %d of %d", ErrRowCount, w.rowsWritten, w.height)
	}
	if err := w.z.Close(); err != nil {
		return err
	}
	if err := w.dst.flush(); err != nil {
		return err
	}
	return writeChunk(w.dst.dst, "IEND", nil)
}

// selectFilter applies the standard minimum-sum-of-absolute-differences
// heuristic across the five filter types and leaves the winner in
// w.filtered (filter byte followed by the filtered row).
func (w *Writer) selectFilter(row []byte) {
	best := -1
	for ft := 0; ft <= 4; ft++ {
		applyFilter(w.trial, row, w.prev, byte(ft))
		score := 0
		for _, b := range w.trial[1:] {
			// Sum of absolute values, treating bytes as signed.
			v := int(int8(b))
			if v < 0 {
				v = -v
			}
			score += v
		}
		if best < 0 || score < best {
			best = score
			w.filtered, w.trial = w.trial, w.filtered
		}
	}
}

// applyFilter writes filter type ft of row (with previous row prev) into
// dst, which must hold len(row)+1 bytes.
func applyFilter(dst, row, prev []byte, ft byte) {
	dst[0] = ft
	out := dst[1:]
	switch ft {
	case 0: // None
		copy(out, row)
	case 1: // Sub
		for i := range row {
			var left byte
			if i >= channels {
				left = row[i-channels]
			}
			out[i] = row[i] - left
		}
	case 2: // Up
		for i := range row {
			out[i] = row[i] - prev[i]
		}
	case 3: // Average
		for i := range row {
			var left int
			if i >= channels {
				left = int(row[i-channels])
			}
			out[i] = row[i] - byte((left+int(prev[i]))/2)
		}
	case 4: // Paeth
		for i := range row {
			var left, upLeft byte
			if i >= channels {
				left = row[i-channels]
				upLeft = prev[i-channels]
			}
			out[i] = row[i] - paeth(left, prev[i], upLeft)
		}
	}
}

// paeth is the Paeth predictor from the PNG specification.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := p-int(a), p-int(b), p-int(c)
	if pa < 0 {
		pa = -pa
	}
	if pb < 0 {
		pb = -pb
	}
	if pc < 0 {
		pc = -pc
	}
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

// EncodeRGBA encodes a width x height RGBA buffer into a complete PNG.
func EncodeRGBA(pix []byte, width, height int, level CompressionLevel) ([]byte, error) {
	if len(pix) != width*height*channels {
		return nil, fmt.Errorf("pngio: buffer length %d, want %d for %dx%d RGBA",
			len(pix), width*height*channels, width, height)
	}
	var buf bytes.Buffer
	w, err := NewWriter(&buf, width, height, level)
	if err != nil {
		return nil, err
	}
	stride := width * channels
	for y := 0; y < height; y++ {
		if err := w.WriteRow(pix[y*stride : (y+1)*stride]); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
