// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render provides a deterministic software reference
// implementation of the mosaic Renderer interface.
//
// A real deployment plugs a GPU engine in behind mosaic.Renderer. This
// package exists for everything that should not depend on one: tests,
// examples, and validating a planned grid end to end. Its renderer does
// not rasterize a scene; it decodes the sub-rectangle a projection matrix
// stands for and paints each pixel from a pure function of its full-image
// coordinates, which makes tiled capture results exactly predictable.
package render
