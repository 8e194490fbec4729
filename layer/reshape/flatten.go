// Package reshape implements shape-only layers
package reshape

import "github.com/neurlang/textclf/layer"

// Flatten collapses the steps into a single row.
type Flatten struct{}

// Kind names the layer
func (Flatten) Kind() string {
	return "flatten"
}

// Build returns one step of Steps*Width values
func (Flatten) Build(in layer.Shape, seed uint32) (layer.Shape, error) {
	return layer.Shape{Steps: 1, Width: in.Size()}, nil
}

// Params is empty
func (Flatten) Params() []*layer.Param {
	return nil
}

// Forward views the data with the flat shape
func (Flatten) Forward(in *layer.Tensor, m layer.Mode) (*layer.Tensor, interface{}) {
	return &layer.Tensor{Steps: 1, Width: len(in.Data), Data: in.Data}, in.Shape()
}

// Backward restores the input shape
func (Flatten) Backward(grad *layer.Tensor, cache interface{}, grads [][]float64) *layer.Tensor {
	return layer.Wrap(cache.(layer.Shape), grad.Data)
}
