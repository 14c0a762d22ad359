package clip

import "image"

// Op selects how a new clip rectangle combines with the current one.
type Op uint8

const (
	// Intersect narrows the current clip to its overlap with the rectangle.
	Intersect Op = iota
	// Replace discards the current clip. The result is still bounded by the
	// device.
	Replace
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case Intersect:
		return "Intersect"
	case Replace:
		return "Replace"
	default:
		return "Unknown"
	}
}

// Stack tracks the device-space clip rectangle of a canvas together with
// the values saved by nested Save calls.
type Stack struct {
	saved  []image.Rectangle
	bounds image.Rectangle
	device image.Rectangle
}

// NewStack creates a stack whose clip starts as the full device rectangle.
func NewStack(device image.Rectangle) *Stack {
	return &Stack{
		saved:  make([]image.Rectangle, 0, 8),
		bounds: device,
		device: device,
	}
}

// Apply combines r with the current clip.
func (s *Stack) Apply(r image.Rectangle, op Op) {
	switch op {
	case Replace:
		s.bounds = r.Intersect(s.device)
	default:
		s.bounds = s.bounds.Intersect(r)
	}
}

// Save pushes the current clip.
func (s *Stack) Save() {
	s.saved = append(s.saved, s.bounds)
}

// Restore pops the clip pushed by the matching Save. Unbalanced calls are
// ignored.
func (s *Stack) Restore() {
	if len(s.saved) == 0 {
		return
	}
	last := len(s.saved) - 1
	s.bounds = s.saved[last]
	s.saved = s.saved[:last]
}

// Bounds returns the current clip.
func (s *Stack) Bounds() image.Rectangle {
	return s.bounds
}

// Device returns the rectangle the clip can never exceed.
func (s *Stack) Device() image.Rectangle {
	return s.device
}

// Contains reports whether the pixel (x, y) may be modified.
func (s *Stack) Contains(x, y int) bool {
	return image.Pt(x, y).In(s.bounds)
}

// Depth returns the number of outstanding saves.
func (s *Stack) Depth() int {
	return len(s.saved)
}

// Reset drops every saved clip and restores the device bounds.
func (s *Stack) Reset(device image.Rectangle) {
	s.saved = s.saved[:0]
	s.device = device
	s.bounds = device
}
