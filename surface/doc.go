// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the CPU canvas the compositor draws quads into.
//
// A Surface owns a total matrix and a device-space clip rectangle, both
// saved and restored together. Drawing calls take a Paint describing the
// color or bitmap shader, the blend mode (replace or source-over), edge
// antialiasing, bitmap filtering, an optional coverage mask and an
// optional image filter.
//
// # Coordinate spaces
//
// Rectangles passed to DrawRect and ClipRect are mapped through the total
// matrix. To clip in device space, reset the matrix first:
//
//	saved := s.Matrix()
//	s.ResetMatrix()
//	s.ClipRect(scissor, surface.ClipReplace)
//	s.SetMatrix(saved)
//
// # Usage
//
//	s := surface.NewImageSurface(256, 256)
//	defer s.Close()
//
//	p := surface.NewPaint()
//	p.Color = color.NRGBA{R: 255, A: 255}
//	p.BlendMode = surface.BlendModeSource
//	s.DrawRect(compositor.RectF{X: 10, Y: 10, W: 50, H: 50}, p)
package surface
