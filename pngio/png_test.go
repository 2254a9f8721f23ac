package pngio

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"math/rand"
	"testing"
)

// testPattern fills a width x height RGBA buffer. The mix of flat areas,
// gradients and seeded noise makes every filter type useful somewhere.
func testPattern(width, height int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	pix := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			switch {
			case y < height/4: // flat
				pix[i], pix[i+1], pix[i+2], pix[i+3] = 40, 80, 120, 255
			case y < height/2: // horizontal gradient
				pix[i], pix[i+1], pix[i+2], pix[i+3] = byte(x), byte(x/2), byte(255-x), 255
			case y < 3*height/4: // vertical gradient, translucent
				pix[i], pix[i+1], pix[i+2], pix[i+3] = byte(y), byte(y), byte(y/3), byte(128+y%128)
			default: // noise
				pix[i], pix[i+1], pix[i+2], pix[i+3] = byte(rng.Intn(256)), byte(rng.Intn(256)), byte(rng.Intn(256)), byte(rng.Intn(256))
			}
		}
	}
	return pix
}

// TestEncode_StdlibDecodes cross-checks the writer against the standard
// library: image/png must decode our output back to the exact samples.
// The 300x300 case compresses past one IDAT chunk, exercising chunked
// emission.
func TestEncode_StdlibDecodes(t *testing.T) {
	cases := []struct {
		name          string
		width, height int
		level         CompressionLevel
	}{
		{"small default", 17, 9, CompressionLevelDefault},
		{"store", 33, 21, CompressionLevelNone},
		{"best", 64, 48, CompressionLevelBestSize},
		{"multi idat", 300, 300, CompressionLevelBestSpeed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pix := testPattern(tc.width, tc.height, 1)
			data, err := EncodeRGBA(pix, tc.width, tc.height, tc.level)
			if err != nil {
				t.Fatalf("EncodeRGBA: %v", err)
			}

			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("stdlib decode: %v", err)
			}
			nrgba, ok := img.(*image.NRGBA)
			if !ok {
				t.Fatalf("stdlib decoded %T, want *image.NRGBA", img)
			}
			if nrgba.Rect.Dx() != tc.width || nrgba.Rect.Dy() != tc.height {
				t.Fatalf("decoded size %v, want %dx%d", nrgba.Rect, tc.width, tc.height)
			}
			if !bytes.Equal(nrgba.Pix, pix) {
				t.Error("decoded samples differ from input")
			}
		})
	}
}

// TestReader_StdlibEncoded decodes a PNG produced by the standard
// library, scanline by scanline.
func TestReader_StdlibEncoded(t *testing.T) {
	const w, h = 43, 27
	pix := testPattern(w, h, 2)
	src := &image.NRGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("stdlib encode: %v", err)
	}

	r, err := NewReader(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()
	if r.Width() != w || r.Height() != h {
		t.Fatalf("size = %dx%d, want %dx%d", r.Width(), r.Height(), w, h)
	}
	if r.Channels() != 4 {
		t.Fatalf("channels = %d, want 4", r.Channels())
	}

	row := make([]byte, w*4)
	for y := 0; y < h; y++ {
		if err := r.ReadRow(row); err != nil {
			t.Fatalf("ReadRow(%d): %v", y, err)
		}
		if !bytes.Equal(row, pix[y*w*4:(y+1)*w*4]) {
			t.Fatalf("row %d differs", y)
		}
	}
	if err := r.ReadRow(row); err != io.EOF {
		t.Errorf("read past end = %v, want io.EOF", err)
	}
}

// TestReader_RGB decodes a 3-channel image: the standard library encodes
// fully opaque truecolor as color type 2.
func TestReader_RGB(t *testing.T) {
	const w, h = 16, 8
	src := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x, y)
			src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = byte(x*16), byte(y*32), 200, 255
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("stdlib encode: %v", err)
	}

	r, err := NewReader(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()
	if r.Channels() != 3 {
		t.Fatalf("channels = %d, want 3", r.Channels())
	}
	row := make([]byte, w*3)
	if err := r.ReadRow(row); err != nil {
		t.Fatalf("ReadRow: %v", err)
	}
	if row[0] != 0 || row[3] != 16 || row[4] != 0 || row[5] != 200 {
		t.Errorf("unexpected RGB row prefix % d", row[:6])
	}
}

// TestRoundTrip_OwnReader pairs the writer with its own reader.
func TestRoundTrip_OwnReader(t *testing.T) {
	const w, h = 57, 31
	pix := testPattern(w, h, 3)
	data, err := EncodeRGBA(pix, w, h, CompressionLevelDefault)
	if err != nil {
		t.Fatalf("EncodeRGBA: %v", err)
	}
	r, err := NewReader(data)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	row := make([]byte, w*4)
	for y := 0; y < h; y++ {
		if err := r.ReadRow(row); err != nil {
			t.Fatalf("ReadRow(%d): %v", y, err)
		}
		if !bytes.Equal(row, pix[y*w*4:(y+1)*w*4]) {
			t.Fatalf("row %d differs", y)
		}
	}
}

// TestReader_SkipRows lands on the right scanline.
func TestReader_SkipRows(t *testing.T) {
	const w, h = 20, 12
	pix := testPattern(w, h, 4)
	data, err := EncodeRGBA(pix, w, h, CompressionLevelDefault)
	if err != nil {
		t.Fatalf("EncodeRGBA: %v", err)
	}
	r, err := NewReader(data)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	if err := r.SkipRows(7); err != nil {
		t.Fatalf("SkipRows: %v", err)
	}
	row := make([]byte, w*4)
	if err := r.ReadRow(row); err != nil {
		t.Fatalf("ReadRow: %v", err)
	}
	if !bytes.Equal(row, pix[7*w*4:8*w*4]) {
		t.Error("row after skip is not row 7")
	}
}

// TestWriter_RowErrors covers length, overflow and short-close errors.
func TestWriter_RowErrors(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 4, 2, CompressionLevelDefault)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	if err := w.WriteRow(make([]byte, 15)); err == nil {
		t.Error("short row accepted")
	}

	row := make([]byte, 16)
	if err := w.WriteRow(row); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := w.Close(); !errors.Is(err, ErrRowCount) {
		t.Errorf("short Close error = %v, want ErrRowCount", err)
	}
	if err := w.WriteRow(row); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("write after Close = %v, want ErrWriterClosed", err)
	}

	var buf2 bytes.Buffer
	w2, _ := NewWriter(&buf2, 4, 1, CompressionLevelDefault)
	w2.WriteRow(row)
	if err := w2.WriteRow(row); !errors.Is(err, ErrRowCount) {
		t.Errorf("overflow row error = %v, want ErrRowCount", err)
	}
}

// TestNewWriter_Validation rejects bad sizes and levels.
func TestNewWriter_Validation(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewWriter(&buf, 0, 4, CompressionLevelDefault); err == nil {
		t.Error("zero width accepted")
	}
	if _, err := NewWriter(&buf, 4, 4, 10); !errors.Is(err, ErrBadLevel) {
		t.Error("level 10 accepted")
	}
	if _, err := NewWriter(&buf, 4, 4, -1); !errors.Is(err, ErrBadLevel) {
		t.Error("level -1 accepted")
	}
}

// TestNewReader_Corrupt covers signature, CRC and truncation failures.
func TestNewReader_Corrupt(t *testing.T) {
	pix := testPattern(8, 8, 5)
	good, err := EncodeRGBA(pix, 8, 8, CompressionLevelDefault)
	if err != nil {
		t.Fatalf("EncodeRGBA: %v", err)
	}

	if _, err := NewReader([]byte("not a png at all")); !errors.Is(err, ErrNotPNG) {
		t.Errorf("bad signature error = %v, want ErrNotPNG", err)
	}

	flipped := append([]byte(nil), good...)
	flipped[20] ^= 0xff // inside IHDR data; breaks the chunk CRC
	if _, err := NewReader(flipped); !errors.Is(err, ErrCorrupt) {
		t.Errorf("bad CRC error = %v, want ErrCorrupt", err)
	}

	if _, err := NewReader(good[:len(good)-6]); !errors.Is(err, ErrCorrupt) {
		t.Errorf("truncated error = %v, want ErrCorrupt", err)
	}
}

// TestNewReader_Unsupported rejects layouts the merger cannot consume,
// here a 16-bit image produced by the standard library.
func TestNewReader_Unsupported(t *testing.T) {
	deep := image.NewNRGBA64(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, deep); err != nil {
		t.Fatalf("stdlib encode: %v", err)
	}
	if _, err := NewReader(buf.Bytes()); !errors.Is(err, ErrUnsupported) {
		t.Errorf("16-bit error = %v, want ErrUnsupported", err)
	}
}
