package dropout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/textclf/layer"
)

func TestIdentityOutsideTraining(t *testing.T) {
	d := MustNew(0.5)
	x := layer.NewTensor(1, 4)
	copy(x.Data, []float64{1, 2, 3, 4})
	y, cache := d.Forward(x, layer.Mode{})
	assert.Equal(t, x.Data, y.Data)
	assert.Equal(t, x, d.Backward(x, cache, nil))
}

func TestTrainingMask(t *testing.T) {
	d := MustNew(0.25)
	_, err := d.Build(layer.Shape{Steps: 1, Width: 4096}, 0)
	require.NoError(t, err)
	x := layer.NewTensor(1, 4096)
	for i := range x.Data {
		x.Data[i] = 1
	}
	y, cache := d.Forward(x, layer.Mode{Train: true, Seed: 7})
	var kept int
	for _, v := range y.Data {
		if v != 0 {
			kept++
			assert.InDelta(t, 1/0.75, v, 1e-12)
		}
	}
	assert.InDelta(t, 0.75, float64(kept)/4096, 0.05)

	again, _ := d.Forward(x, layer.Mode{Train: true, Seed: 7})
	assert.Equal(t, y.Data, again.Data)

	g := d.Backward(x, cache, nil)
	assert.Equal(t, y.Data, g.Data)
}

func TestNewRate(t *testing.T) {
	_, err := New(1)
	assert.Error(t, err)
	_, err = New(-0.1)
	assert.Error(t, err)
	_, err = New(0)
	assert.NoError(t, err)
}
