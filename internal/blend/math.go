package blend

// div255 divides x by 255 exactly without using division.
//
// Formula: ((x + 1) + ((x + 1) >> 8)) >> 8
//
// This is Alvy Ray Smith's formula and is exact for all products of two
// bytes.
func div255(x uint32) uint32 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// mulDiv255 multiplies two bytes and divides by 255.
func mulDiv255(a, b byte) byte {
	return byte(div255(uint32(a) * uint32(b))) //nolint:gosec // result <= 255
}

// lerp255 returns a*t + b*(255-t), divided by 255.
func lerp255(a, b, t byte) byte {
	return byte(div255(uint32(a)*uint32(t) + uint32(b)*uint32(255-t))) //nolint:gosec // result <= 255
}
