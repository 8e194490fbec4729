// Package layertest checks layer gradients against finite differences.
package layertest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurlang/textclf/hash"
	"github.com/neurlang/textclf/layer"
)

// Options tunes CheckGradients.
type Options struct {

	// Input generates the i-th input value. Defaults to uniform values in [-1, 1).
	Input func(i int) float64

	// SkipInput disables the input gradient check, e.g. for token indices.
	SkipInput bool

	// Tolerance is the allowed absolute difference. Defaults to 1e-5.
	Tolerance float64
}

const eps = 1e-6

// CheckGradients builds l against in and compares its analytic gradients with
// central finite differences of the loss sum(out * r) for a fixed random r.
func CheckGradients(t *testing.T, l layer.Layer, in layer.Shape, o Options) {
	t.Helper()
	if o.Input == nil {
		o.Input = func(i int) float64 {
			return 2*hash.Uniform(uint32(i), 11) - 1
		}
	}
	if o.Tolerance == 0 {
		o.Tolerance = 1e-5
	}

	outShape, err := l.Build(in, 5)
	require.NoError(t, err)

	x := layer.NewTensor(in.Steps, in.Width)
	for i := range x.Data {
		x.Data[i] = o.Input(i)
	}

	r := layer.NewTensor(outShape.Steps, outShape.Width)
	for i := range r.Data {
		r.Data[i] = 2*hash.Uniform(uint32(i), 23) - 1
	}

	loss := func() float64 {
		out, _ := l.Forward(x, layer.Mode{})
		require.Equal(t, outShape.Size(), len(out.Data))
		var sum float64
		for i, v := range out.Data {
			sum += v * r.Data[i]
		}
		return sum
	}

	params := l.Params()
	grads := make([][]float64, len(params))
	for i, p := range params {
		grads[i] = make([]float64, len(p.Value))
	}
	_, cache := l.Forward(x, layer.Mode{})
	gin := l.Backward(r, cache, grads)

	for i, p := range params {
		if !p.Trainable {
			continue
		}
		for j := range p.Value {
			orig := p.Value[j]
			p.Value[j] = orig + eps
			plus := loss()
			p.Value[j] = orig - eps
			minus := loss()
			p.Value[j] = orig
			numeric := (plus - minus) / (2 * eps)
			require.InDelta(t, numeric, grads[i][j], o.Tolerance, "%s %s[%d]", l.Kind(), p.Name, j)
		}
	}

	if o.SkipInput {
		return
	}
	require.NotNil(t, gin)
	for j := range x.Data {
		orig := x.Data[j]
		x.Data[j] = orig + eps
		plus := loss()
		x.Data[j] = orig - eps
		minus := loss()
		x.Data[j] = orig
		numeric := (plus - minus) / (2 * eps)
		require.False(t, math.IsNaN(gin.Data[j]))
		require.InDelta(t, numeric, gin.Data[j], o.Tolerance, "%s input[%d]", l.Kind(), j)
	}
}
