// Package full implements a fully connected layer
package full

import "fmt"

import "github.com/neurlang/textclf/layer"

// Dense connects every input of a step to every unit. Sequences are handled
// step by step with shared weights.
type Dense struct {
	Units      int              `json:"units"`
	Activation layer.Activation `json:"activation"`

	in     int
	kernel *layer.Param
	bias   *layer.Param
}

// MustNew creates a new dense layer with units and activation
func MustNew(units int, activation layer.Activation) *Dense {
	o, err := New(units, activation)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new dense layer with units and activation
func New(units int, activation layer.Activation) (*Dense, error) {
	if units <= 0 {
		return nil, fmt.Errorf("New Dense: Units %d must be positive", units)
	}
	if !activation.Valid() {
		return nil, fmt.Errorf("New Dense: unknown activation %q", activation)
	}
	return &Dense{Units: units, Activation: activation}, nil
}

// Kind names the layer
func (d *Dense) Kind() string {
	return "dense"
}

// Build allocates the kernel (units x input width) and bias
func (d *Dense) Build(in layer.Shape, seed uint32) (layer.Shape, error) {
	if in.Width <= 0 {
		return layer.Shape{}, fmt.Errorf("Dense: input width %d must be positive", in.Width)
	}
	d.in = in.Width
	d.kernel = &layer.Param{Name: "kernel", Value: make([]float64, d.Units*d.in), Trainable: true}
	d.bias = &layer.Param{Name: "bias", Value: make([]float64, d.Units), Trainable: true}
	layer.GlorotUniform(d.kernel.Value, d.in, d.Units, seed)
	return layer.Shape{Steps: in.Steps, Width: d.Units}, nil
}

// Params returns kernel and bias
func (d *Dense) Params() []*layer.Param {
	return []*layer.Param{d.kernel, d.bias}
}

func (d *Dense) row(u int) []float64 {
	return d.kernel.Value[u*d.in : (u+1)*d.in]
}
