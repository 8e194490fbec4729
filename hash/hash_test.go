package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// performance benchmark
func BenchmarkHash(b *testing.B) {
	n := uint32(0)
	s := uint32(0)
	for i := 0; i < b.N; i++ {
		n = Hash(n, s, 1<<20)
		s++
	}
}

func TestHashRange(t *testing.T) {
	for max := uint32(1); max <= 1<<20; max <<= 1 {
		for n := uint32(0); n < 1000; n++ {
			assert.Less(t, Hash(n, 7, max), max)
		}
	}
	assert.Equal(t, uint32(0), Hash(12345, 678, 0))
}

func TestUniform(t *testing.T) {
	var sum float64
	const count = 1 << 17
	for n := uint32(0); n < count; n++ {
		u := Uniform(n, 42)
		assert.GreaterOrEqual(t, u, 0.0)
		assert.Less(t, u, 1.0)
		sum += u
	}
	assert.InDelta(t, 0.5, sum/count, 0.02)
	assert.Equal(t, Uniform(3, 9), Uniform(3, 9))
}

func TestKeep(t *testing.T) {
	var kept int
	const count = 1 << 17
	for n := uint32(0); n < count; n++ {
		if Keep(n, 5, 0.25) {
			kept++
		}
	}
	assert.InDelta(t, 0.75, float64(kept)/count, 0.02)
	assert.True(t, Keep(1, 1, 0))
}

func TestMix(t *testing.T) {
	assert.Equal(t, Mix(1, 2, 3), Mix(1, 2, 3))
	assert.NotEqual(t, Mix(1, 2, 3), Mix(3, 2, 1))
}
