package reshape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/textclf/layer"
)

func TestFlatten(t *testing.T) {
	var f Flatten
	out, err := f.Build(layer.Shape{Steps: 3, Width: 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, layer.Shape{Steps: 1, Width: 6}, out)

	x := layer.NewTensor(3, 2)
	copy(x.Data, []float64{1, 2, 3, 4, 5, 6})
	y, cache := f.Forward(x, layer.Mode{})
	assert.Equal(t, layer.Shape{Steps: 1, Width: 6}, y.Shape())
	g := f.Backward(y, cache, nil)
	assert.Equal(t, layer.Shape{Steps: 3, Width: 2}, g.Shape())
	assert.Equal(t, x.Data, g.Data)
}
