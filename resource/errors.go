// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import "errors"

// Resource errors.
var (
	// ErrResourceNotFound is returned when no resource exists for an ID.
	ErrResourceNotFound = errors.New("resource: not found")

	// ErrResourceWrongKind is returned when a CPU draw path needs a bitmap
	// but the resource lives on the GPU.
	ErrResourceWrongKind = errors.New("resource: wrong kind")

	// ErrResourceBusy is returned when a lock conflicts with an outstanding
	// lock, or when a locked resource is deleted.
	ErrResourceBusy = errors.New("resource: busy")

	// ErrInvalidSize is returned for empty or oversized resources.
	ErrInvalidSize = errors.New("resource: invalid size")

	// ErrNoAllocator is returned by CreateGPUTexture when the provider has
	// no texture allocator.
	ErrNoAllocator = errors.New("resource: no texture allocator")
)
