// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package output is the presentation side of the compositor: the output
// surface contract the frame driver paints into, the frame payloads it
// hands off, and copy output requests.
//
// A frame goes through the surface like this:
//
//	canvas, err := out.BeginPaint(damage)
//	// ... draw quads onto canvas ...
//	var data output.FrameData
//	err = out.EndPaint(&data)
//	err = out.SwapBuffers(&output.CompositorFrame{Metadata: md, Software: &data})
//	// later, when the consumer is done with the frame:
//	err = out.ReclaimFrame(data.ID)
//
// [SoftwareDevice] implements the contract on CPU memory and forwards
// swapped frames to a [Presenter]. [TexturePresenter] mirrors frames into
// a gpucontext texture and GPUPresenter uploads them to a wgpu HAL
// texture.
package output
