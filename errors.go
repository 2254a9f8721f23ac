package mosaic

import "errors"

// Errors reported by planning, capture and merge. All of them abort the
// whole operation: no partial PNG is ever delivered.
var (
	// ErrInvalidDimensions indicates a requested output width or height
	// that is not a positive integer.
	ErrInvalidDimensions = errors.New("mosaic: output dimensions must be positive")

	// ErrGeometryMismatch indicates that the tiles handed to the merger do
	// not tile the final image: tile widths in some row do not sum to the
	// grid's FinalWidth, or heights in a column fall short of FinalHeight.
	// This means the tiles were produced for a different output size.
	ErrGeometryMismatch = errors.New("mosaic: tile geometry does not match final image size")

	// ErrChannelMismatch indicates a tile whose sample layout is not
	// 8-bit RGBA.
	ErrChannelMismatch = errors.New("mosaic: tile is not 8-bit RGBA")

	// ErrBusy is returned when Capture is called on a Capturer that
	// already has an operation in flight.
	ErrBusy = errors.New("mosaic: capture already in progress")

	// ErrCanceled is returned when the context was canceled at one of the
	// suspension points (between tiles, or between merge row batches).
	// The context's own error is attached; use errors.Is to test for it.
	ErrCanceled = errors.New("mosaic: capture canceled")

	// ErrGridIncomplete indicates a TileGrid with unset cells handed to
	// the merger.
	ErrGridIncomplete = errors.New("mosaic: tile grid has empty cells")
)
