// Package conv1d implements a 1D convolution over sequence steps
package conv1d

import "fmt"
import "github.com/neurlang/textclf/layer"

// Conv1D slides Filters windows of Kernel steps over the sequence (valid padding, stride 1).
type Conv1D struct {
	Filters    int              `json:"filters"`
	Kernel     int              `json:"kernel"`
	Activation layer.Activation `json:"activation"`

	in     layer.Shape
	kernel *layer.Param
	bias   *layer.Param
}

// MustNew creates a new Conv1D layer with filters, kernel size and activation
func MustNew(filters, kernel int, activation layer.Activation) *Conv1D {
	o, err := New(filters, kernel, activation)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new Conv1D layer with filters, kernel size and activation
func New(filters, kernel int, activation layer.Activation) (*Conv1D, error) {
	if filters <= 0 {
		return nil, fmt.Errorf("New Conv1D: Filters %d must be positive", filters)
	}
	if kernel <= 0 {
		return nil, fmt.Errorf("New Conv1D: Kernel %d must be positive", kernel)
	}
	if !activation.Valid() {
		return nil, fmt.Errorf("New Conv1D: unknown activation %q", activation)
	}
	return &Conv1D{Filters: filters, Kernel: kernel, Activation: activation}, nil
}

// Kind names the layer
func (c *Conv1D) Kind() string {
	return "conv1d"
}

// Build allocates filters x (kernel * input width) weights
func (c *Conv1D) Build(in layer.Shape, seed uint32) (layer.Shape, error) {
	if in.Steps < c.Kernel {
		return layer.Shape{}, fmt.Errorf("Conv1D: Steps %d is lower than Kernel %d", in.Steps, c.Kernel)
	}
	c.in = in
	window := c.Kernel * in.Width
	c.kernel = &layer.Param{Name: "kernel", Value: make([]float64, c.Filters*window), Trainable: true}
	c.bias = &layer.Param{Name: "bias", Value: make([]float64, c.Filters), Trainable: true}
	layer.GlorotUniform(c.kernel.Value, window, c.Filters, seed)
	return layer.Shape{Steps: in.Steps - c.Kernel + 1, Width: c.Filters}, nil
}

// Params returns kernel and bias
func (c *Conv1D) Params() []*layer.Param {
	return []*layer.Param{c.kernel, c.bias}
}

func (c *Conv1D) filter(f int) []float64 {
	window := c.Kernel * c.in.Width
	return c.kernel.Value[f*window : (f+1)*window]
}
