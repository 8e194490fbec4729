package conv1d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/textclf/layer"
	"github.com/neurlang/textclf/layer/layertest"
)

func TestBuild(t *testing.T) {
	c := MustNew(4, 3, layer.ReLU)
	out, err := c.Build(layer.Shape{Steps: 10, Width: 2}, 1)
	require.NoError(t, err)
	assert.Equal(t, layer.Shape{Steps: 8, Width: 4}, out)

	_, err = MustNew(4, 3, layer.ReLU).Build(layer.Shape{Steps: 2, Width: 2}, 1)
	assert.Error(t, err)

	_, err = New(0, 3, layer.ReLU)
	assert.Error(t, err)
}

func TestForward(t *testing.T) {
	c := MustNew(1, 2, layer.Linear)
	_, err := c.Build(layer.Shape{Steps: 3, Width: 1}, 1)
	require.NoError(t, err)
	copy(c.kernel.Value, []float64{1, 10})
	x := layer.NewTensor(3, 1)
	copy(x.Data, []float64{1, 2, 3})
	out, _ := c.Forward(x, layer.Mode{})
	assert.Equal(t, []float64{21, 32}, out.Data)
}

func TestGradients(t *testing.T) {
	layertest.CheckGradients(t, MustNew(3, 2, layer.Tanh), layer.Shape{Steps: 5, Width: 3}, layertest.Options{})
}
