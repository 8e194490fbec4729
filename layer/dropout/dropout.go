// Package dropout implements inverted dropout
package dropout

import "fmt"

import "github.com/neurlang/textclf/hash"
import "github.com/neurlang/textclf/layer"

// Dropout zeroes each value with probability Rate while training and scales
// the kept ones by 1/(1-Rate). Outside training it is the identity.
type Dropout struct {
	Rate float64 `json:"rate"`
}

// MustNew creates a new dropout layer
func MustNew(rate float64) *Dropout {
	o, err := New(rate)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new dropout layer with rate in [0, 1)
func New(rate float64) (*Dropout, error) {
	if rate < 0 || rate >= 1 {
		return nil, fmt.Errorf("New Dropout: Rate %v must be in [0, 1)", rate)
	}
	return &Dropout{Rate: rate}, nil
}

// Kind names the layer
func (d *Dropout) Kind() string {
	return "dropout"
}

// Build keeps the shape
func (d *Dropout) Build(in layer.Shape, seed uint32) (layer.Shape, error) {
	return in, nil
}

// Params is empty
func (d *Dropout) Params() []*layer.Param {
	return nil
}

// Forward applies the mask derived from m.Seed
func (d *Dropout) Forward(in *layer.Tensor, m layer.Mode) (*layer.Tensor, interface{}) {
	if !m.Train || d.Rate == 0 {
		return in, nil
	}
	scale := 1 / (1 - d.Rate)
	out := layer.NewTensor(in.Steps, in.Width)
	mask := make([]float64, len(in.Data))
	for i, v := range in.Data {
		if hash.Keep(uint32(i), m.Seed, d.Rate) {
			mask[i] = scale
			out.Data[i] = v * scale
		}
	}
	return out, mask
}

// Backward masks the gradient the same way
func (d *Dropout) Backward(grad *layer.Tensor, cache interface{}, grads [][]float64) *layer.Tensor {
	mask, ok := cache.([]float64)
	if !ok {
		return grad
	}
	out := layer.NewTensor(grad.Steps, grad.Width)
	for i, v := range grad.Data {
		out.Data[i] = v * mask[i]
	}
	return out
}
