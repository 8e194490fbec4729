// Package hash implements the fast modular hash used to derive reproducible
// weight initializations and dropout masks.
package hash

// Hash maps n salted with s into the range 0 to max-1.
func Hash(n uint32, s uint32, max uint32) uint32 {
	// mixing stage, mix input with salt using subtraction
	var m = uint32(n) - uint32(s)

	// hashing stage, use xor shift with prime coefficients
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	// mixing stage 2, mix input with salt using addition
	m += s

	// multiply shift instead of modulo, see
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(m) * uint64(max)) >> 32)
}

const unit = 1 << 24

// Uniform returns a value in [0, 1) determined by n and seed.
func Uniform(n uint32, seed uint32) float64 {
	return float64(Hash(n, seed, unit)) / unit
}

// Keep reports whether position n survives a dropout of the given rate.
func Keep(n uint32, seed uint32, rate float64) bool {
	return Uniform(n, seed) >= rate
}

// Mix combines several values into one salt.
func Mix(values ...uint32) (s uint32) {
	for i, v := range values {
		s = Hash(v^s, uint32(i)+0x9e3779b9, 0xffffffff) + s
	}
	return
}
