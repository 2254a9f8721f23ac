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

// Reader errors.
var (
	ErrNotPNG      = errors.New("pngio: not a PNG stream")
	ErrCorrupt     = errors.New("pngio: corrupt PNG data")
	ErrUnsupported = errors.New("pngio: unsupported PNG layout")
)

// Reader decodes an in-memory PNG one scanline at a time. After
// NewReader, call ReadRow exactly Height() times, then Close.
//
// Only non-interlaced 8-bit truecolor images are supported: color type 6
// (RGBA, 4 channels) and color type 2 (RGB, 3 channels). That covers
// every tile this library produces plus enough of foreign input to
// diagnose channel-layout mismatches precisely.
type Reader struct {
	width    int
	height   int
	channels int

	z    io.ReadCloser
	prev []byte // previous raw row, for unfiltering
	cur  []byte // filter byte + current raw row

	rowsRead int
}

// NewReader parses the chunk structure of data (verifying chunk CRCs) and
// prepares sequential scanline decoding. No pixel data is decompressed
// until ReadRow.
func NewReader(data []byte) (*Reader, error) {
	if len(data) < len(pngSignature) || !bytes.Equal(data[:len(pngSignature)], pngSignature) {
		return nil, ErrNotPNG
	}

	r := &Reader{}
	var idat [][]byte
	rest := data[len(pngSignature):]
	sawIHDR := false

	for len(rest) > 0 {
		if len(rest) < 12 {
			return nil, fmt.Errorf("%w: truncated chunk header", ErrCorrupt)
		}
		length := int(binary.BigEndian.Uint32(rest[0:4]))
		if length < 0 || len(rest) < 12+length {
			return nil, fmt.Errorf("%w: truncated chunk body", ErrCorrupt)
		}
		typ := string(rest[4:8])
		body := rest[8 : 8+length]

		crc := crc32.NewIEEE()
		crc.Write(rest[4 : 8+length])
		if crc.Sum32() != binary.BigEndian.Uint32(rest[8+length:12+length]) {
			return nil, fmt.Errorf("%w: bad CRC on %s chunk", ErrCorrupt, typ)
		}
		rest = rest[12+length:]

		switch typ {
		case "IHDR":
			if err := r.parseIHDR(body); err != nil {
				return nil, err
			}
			sawIHDR = true
		case "IDAT":
			idat = append(idat, body)
		case "IEND":
			rest = nil
		default:
			// Ancillary chunks carry no sample data; skip them.
		}
	}

	if !sawIHDR {
		return nil, fmt.Errorf("%w: missing IHDR", ErrCorrupt)
	}
	if len(idat) == 0 {
		return nil, fmt.Errorf("%w: missing IDAT", ErrCorrupt)
	}

	// Chain the IDAT payloads without copying: the deflate stream is
	// their concatenation.
	readers := make([]io.Reader, len(idat))
	for i, seg := range idat {
		readers[i] = bytes.NewReader(seg)
	}
	z, err := zlib.NewReader(io.MultiReader(readers...))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	rowLen := r.width * r.channels
	r.z = z
	r.prev = make([]byte, rowLen)
	r.cur = make([]byte, 1+rowLen)
	return r, nil
}

func (r *Reader) parseIHDR(body []byte) error {
	if len(body) != 13 {
		return fmt.Errorf("%w: IHDR length %d", ErrCorrupt, len(body))
	}
	r.width = int(binary.BigEndian.Uint32(body[0:4]))
	r.height = int(binary.BigEndian.Uint32(body[4:8]))
	if r.width <= 0 || r.height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrCorrupt, r.width, r.height)
	}
	if body[8] != 8 {
		return fmt.Errorf("%w: bit depth %d", ErrUnsupported, body[8])
	}
	switch body[9] {
	case 2:
		r.channels = 3
	case 6:
		r.channels = 4
	default:
		return fmt.Errorf("%w: color type %d", ErrUnsupported, body[9])
	}
	if body[12] != 0 {
		return fmt.Errorf("%w: interlaced image", ErrUnsupported)
	}
	return nil
}

// Width returns the image width in pixels.
func (r *Reader) Width() int { return r.width }

// Height returns the image height in pixels.
func (r *Reader) Height() int { return r.height }

// Channels returns the number of interleaved samples per pixel: 4 for
// RGBA, 3 for RGB.
func (r *Reader) Channels() int { return r.channels }

// ReadRow decodes the next scanline into dst, which must hold
// Width()*Channels() bytes.
func (r *Reader) ReadRow(dst []byte) error {
	rowLen := r.width * r.channels
	if len(dst) != rowLen {
		return fmt.Errorf("pngio: row buffer length %d, want %d", len(dst), rowLen)
	}
	if r.rowsRead >= r.height {
		return io.EOF
	}
	if _, err := io.ReadFull(r.z, r.cur); err != nil {
		return fmt.Errorf("%w: row %d: %v", ErrCorrupt, r.rowsRead, err)
	}
	if err := r.unfilter(); err != nil {
		return err
	}
	copy(dst, r.cur[1:])
	copy(r.prev, r.cur[1:])
	r.rowsRead++
	return nil
}

// SkipRows discards n scanlines. They still have to be decompressed and
// unfiltered (later rows reference them), just never surfaced.
func (r *Reader) SkipRows(n int) error {
	scratch := make([]byte, r.width*r.channels)
	for i := 0; i < n; i++ {
		if err := r.ReadRow(scratch); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the decompressor. Remaining rows are abandoned.
func (r *Reader) Close() error {
	return r.z.Close()
}

// unfilter reverses the row's filter in place: r.cur[0] is the filter
// type, r.cur[1:] the filtered bytes, r.prev the reconstructed previous
// row.
func (r *Reader) unfilter() error {
	bpp := r.channels
	row := r.cur[1:]
	switch r.cur[0] {
	case 0: // None
	case 1: // Sub
		for i := bpp; i < len(row); i++ {
			row[i] += row[i-bpp]
		}
	case 2: // Up
		for i := range row {
			row[i] += r.prev[i]
		}
	case 3: // Average
		for i := 0; i < bpp; i++ {
			row[i] += r.prev[i] / 2
		}
		for i := bpp; i < len(row); i++ {
			row[i] += byte((int(row[i-bpp]) + int(r.prev[i])) / 2)
		}
	case 4: // Paeth
		for i := 0; i < bpp; i++ {
			row[i] += paeth(0, r.prev[i], 0)
		}
		for i := bpp; i < len(row); i++ {
			row[i] += paeth(row[i-bpp], r.prev[i], r.prev[i-bpp])
		}
	default:
		return fmt.Errorf("%w: filter type %d", ErrCorrupt, r.cur[0])
	}
	return nil
}
