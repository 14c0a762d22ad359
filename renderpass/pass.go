// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package renderpass describes render passes and where their rendered
// output can be found.
//
// A render pass is an intermediate target that quads of later passes may
// sample. The renderer only reads pass outputs through [Lookup]; passes
// are resolved into a [Store] before any quad references them.
package renderpass

import (
	"image"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/output"
	"github.com/gogpu/compositor/quad"
	"github.com/gogpu/compositor/resource"
)

// Pass is one render pass of a frame.
type Pass struct {
	ID quad.PassID

	// OutputRect is the pass target in its own space. For the root pass it
	// is the viewport.
	OutputRect image.Rectangle

	// DamageRect is the part of OutputRect that changed this frame.
	DamageRect compositor.RectF

	// TransformToRootTarget maps the pass into the root target.
	TransformToRootTarget compositor.Transform

	// HasTransparentBackground clears the damage to transparent before
	// quads are drawn.
	HasTransparentBackground bool

	// Quads are drawn in order, later quads over earlier ones.
	Quads []quad.Quad

	// CopyRequests receive the pass pixels once it is drawn.
	CopyRequests []*output.CopyRequest
}

// Lookup resolves a pass to the resource holding its rendered output.
type Lookup interface {
	Lookup(id quad.PassID) (resource.ID, bool)
}

// Store is a Lookup the renderer can also record pass outputs in.
type Store interface {
	Lookup

	// Store records res as the output of pass id.
	Store(id quad.PassID, res resource.ID)
}

// Map is a Lookup backed by a plain map.
type Map map[quad.PassID]resource.ID

// Lookup implements Lookup.
func (m Map) Lookup(id quad.PassID) (resource.ID, bool) {
	res, ok := m[id]
	return res, ok && res != 0
}

// Store implements Store.
func (m Map) Store(id quad.PassID, res resource.ID) {
	m[id] = res
}

// Deleter frees resources evicted from a Cache. A *resource.Provider
// satisfies it.
type Deleter interface {
	Delete(id resource.ID) error
}
