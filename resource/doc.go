// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package resource provides ID-addressed pixel buffers and the scoped read
// and write locks that guard them while they are drawn.
//
// A [Provider] owns CPU bitmaps and GPU textures. Draw code never touches
// pixels directly; it acquires a lock first and releases it when the draw
// call is done:
//
//	lock, err := provider.AcquireRead(id)
//	if err != nil {
//	    return err
//	}
//	defer lock.Release()
//	canvas.DrawImageRect(lock.Bitmap(), src, dst, paint)
//
// A resource may have any number of outstanding read locks or exactly one
// write lock, never both. The rule is enforced by counting, so nested
// acquisitions of the same ID within one call stack are rejected too.
//
// Releasing a write lock mirrors the bitmap into an attached GPU texture
// (see [Provider.AttachUploader]), uploading only the dirty region when
// partial texture updates are allowed.
package resource
