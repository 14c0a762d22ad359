// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package picture records drawing commands for content that is rasterized
// when its quad is drawn rather than ahead of time.
//
// A Recorder captures commands as typed structs; FinishRecording returns
// an immutable Picture that can be played back onto any surface any
// number of times.
//
//	rec := picture.NewRecorder(compositor.RectF{W: 256, H: 256})
//	rec.FillRect(compositor.RectF{W: 128, H: 128}, color.NRGBA{R: 255, A: 255})
//	pic := rec.FinishRecording()
//	pic.Playback(canvas)
package picture

import (
	"image"
	"image/color"

	"github.com/gogpu/compositor"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// State commands
	CmdSave     CommandType = iota // Save matrix and clip
	CmdRestore                     // Restore matrix and clip
	CmdConcat                      // Concatenate a matrix
	CmdClipRect                    // Intersect the clip with a rect

	// Drawing commands
	CmdDrawColor     // Fill the clip
	CmdFillRect      // Fill a rectangle
	CmdStrokePolygon // Stroke a closed polygon
	CmdDrawImage     // Draw an image into a rectangle
)

var commandTypeNames = [...]string{
	CmdSave:          "Save",
	CmdRestore:       "Restore",
	CmdConcat:        "Concat",
	CmdClipRect:      "ClipRect",
	CmdDrawColor:     "DrawColor",
	CmdFillRect:      "FillRect",
	CmdStrokePolygon: "StrokePolygon",
	CmdDrawImage:     "DrawImage",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// SaveCommand saves the matrix and clip.
type SaveCommand struct{}

// Type implements Command.
func (SaveCommand) Type() CommandType { return CmdSave }

// RestoreCommand restores the matrix and clip.
type RestoreCommand struct{}

// Type implements Command.
func (RestoreCommand) Type() CommandType { return CmdRestore }

// ConcatCommand pre-multiplies the matrix.
type ConcatCommand struct {
	Matrix compositor.Matrix
}

// Type implements Command.
func (ConcatCommand) Type() CommandType { return CmdConcat }

// ClipRectCommand intersects the clip with Rect.
type ClipRectCommand struct {
	Rect compositor.RectF
}

// Type implements Command.
func (ClipRectCommand) Type() CommandType { return CmdClipRect }

// DrawColorCommand fills the clip.
type DrawColorCommand struct {
	Color color.NRGBA
}

// Type implements Command.
func (DrawColorCommand) Type() CommandType { return CmdDrawColor }

// FillRectCommand fills Rect with Color.
type FillRectCommand struct {
	Rect      compositor.RectF
	Color     color.NRGBA
	AntiAlias bool
}

// Type implements Command.
func (FillRectCommand) Type() CommandType { return CmdFillRect }

// StrokePolygonCommand strokes the closed polygon through Points. Width
// is in device pixels.
type StrokePolygonCommand struct {
	Points []compositor.Point
	Color  color.NRGBA
	Width  float64
}

// Type implements Command.
func (StrokePolygonCommand) Type() CommandType { return CmdStrokePolygon }

// DrawImageCommand draws Image into Dst with bilinear filtering.
type DrawImageCommand struct {
	Image *image.RGBA
	Dst   compositor.RectF
}

// Type implements Command.
func (DrawImageCommand) Type() CommandType { return CmdDrawImage }
