// Package pngio implements a scanline-streaming PNG codec for 8-bit
// images.
//
// The standard library's image/png decodes and encodes whole images,
// which would put an entire gigapixel frame in memory during a merge.
// pngio instead exposes sequential per-row access in both directions: a
// [Reader] decodes one scanline at a time on demand, and a [Writer]
// accepts appended scanlines and emits IDAT chunks incrementally. Peak
// memory for either direction is two scanlines (current and previous, for
// filtering) plus the compressor's window.
//
// The writer always produces 8-bit RGBA (color type 6) with per-row
// adaptive filtering. The reader accepts 8-bit RGBA and RGB images;
// everything else (palettes, 16-bit depth, interlacing) is rejected with
// [ErrUnsupported].
//
// Deflate is provided by github.com/klauspost/compress/zlib.
package pngio
