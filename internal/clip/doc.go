// Package clip tracks the axis-aligned, device-space clip rectangle of a
// drawing surface.
package clip
