// Package blend composites premultiplied 8-bit RGBA pixels.
//
// Only the two operators a compositor draws with are provided: Src, which
// replaces the destination, and SrcOver, which alpha-blends on top of it.
// Both take a coverage value so that antialiased edges and masks blend
// towards the destination.
package blend

import "fmt"

// Mode selects the compositing operator.
type Mode uint8

const (
	// SrcOver blends the source over the destination: S + D*(1-Sa).
	SrcOver Mode = iota
	// Src replaces the destination with the source: S.
	Src
)

// String returns the operator name.
func (m Mode) String() string {
	switch m {
	case SrcOver:
		return "SrcOver"
	case Src:
		return "Src"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Pixel composites the premultiplied source color s onto the four bytes at
// dst using coverage cov (0-255). With full coverage, Src stores s exactly.
func Pixel(dst []byte, s [4]byte, cov byte, mode Mode) {
	if cov == 0 {
		return
	}
	_ = dst[3]

	if mode == Src {
		if cov == 255 {
			dst[0], dst[1], dst[2], dst[3] = s[0], s[1], s[2], s[3]
			return
		}
		dst[0] = lerp255(s[0], dst[0], cov)
		dst[1] = lerp255(s[1], dst[1], cov)
		dst[2] = lerp255(s[2], dst[2], cov)
		dst[3] = lerp255(s[3], dst[3], cov)
		return
	}

	if cov != 255 {
		s = [4]byte{mulDiv255(s[0], cov), mulDiv255(s[1], cov), mulDiv255(s[2], cov), mulDiv255(s[3], cov)}
	}
	if s[3] == 255 {
		dst[0], dst[1], dst[2], dst[3] = s[0], s[1], s[2], s[3]
		return
	}
	inv := 255 - s[3]
	dst[0] = s[0] + mulDiv255(dst[0], inv)
	dst[1] = s[1] + mulDiv255(dst[1], inv)
	dst[2] = s[2] + mulDiv255(dst[2], inv)
	dst[3] = s[3] + mulDiv255(dst[3], inv)
}

// Span composites a solid color over n consecutive pixels starting at dst,
// reading per-pixel coverage from cov. A nil cov means full coverage.
func Span(dst []byte, s [4]byte, cov []byte, n int, mode Mode) {
	for i := range n {
		c := byte(255)
		if cov != nil {
			c = cov[i]
		}
		Pixel(dst[i*4:i*4+4], s, c, mode)
	}
}

// ScaleAlpha multiplies every channel of the premultiplied color by a/255.
func ScaleAlpha(s [4]byte, a byte) [4]byte {
	if a == 255 {
		return s
	}
	return [4]byte{mulDiv255(s[0], a), mulDiv255(s[1], a), mulDiv255(s[2], a), mulDiv255(s[3], a)}
}
