package full

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/textclf/layer"
	"github.com/neurlang/textclf/layer/layertest"
)

func TestNew(t *testing.T) {
	_, err := New(0, layer.ReLU)
	assert.Error(t, err)
	_, err = New(3, layer.Activation("swish"))
	assert.Error(t, err)
	assert.Panics(t, func() { MustNew(-1, layer.ReLU) })
}

func TestDenseShape(t *testing.T) {
	d := MustNew(4, layer.ReLU)
	out, err := d.Build(layer.Shape{Steps: 3, Width: 5}, 1)
	require.NoError(t, err)
	assert.Equal(t, layer.Shape{Steps: 3, Width: 4}, out)
	assert.Len(t, d.Params()[0].Value, 20)
	assert.Len(t, d.Params()[1].Value, 4)
}

func TestDenseForward(t *testing.T) {
	d := MustNew(1, layer.Linear)
	_, err := d.Build(layer.Shape{Steps: 1, Width: 2}, 1)
	require.NoError(t, err)
	copy(d.kernel.Value, []float64{2, -1})
	d.bias.Value[0] = 0.5

	x := layer.NewTensor(1, 2)
	copy(x.Data, []float64{3, 4})
	out, _ := d.Forward(x, layer.Mode{})
	assert.InDelta(t, 2.5, out.Data[0], 1e-12)
}

func TestDenseGradients(t *testing.T) {
	for _, act := range []layer.Activation{layer.Linear, layer.Sigmoid, layer.Tanh} {
		layertest.CheckGradients(t, MustNew(3, act), layer.Shape{Steps: 2, Width: 4}, layertest.Options{})
	}
}
