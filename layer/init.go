package layer

import "math"

import "github.com/neurlang/textclf/hash"

// GlorotUniform fills w with values drawn uniformly from
// [-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))], reproducibly for seed.
func GlorotUniform(w []float64, fanIn, fanOut int, seed uint32) {
	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	for i := range w {
		w[i] = (2*hash.Uniform(uint32(i), seed) - 1) * limit
	}
}
