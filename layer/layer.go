// Package layer defines the layer interface shared by all network layers,
// the tensor passed between them and the activation functions.
package layer

// Param is a named block of weights owned by a layer.
type Param struct {
	Name      string    `json:"name"`
	Value     []float64 `json:"value"`
	Trainable bool      `json:"trainable"`
}

// Mode tells a layer how a forward pass is used.
type Mode struct {

	// Train is set while fitting; dropout is only active then.
	Train bool

	// Seed is unique per example and epoch.
	Seed uint32
}

// Layer is one stage of a network. Layers are built once against their input
// shape, then run forward and backward on single examples. Forward and
// Backward must be safe for concurrent use on different examples.
type Layer interface {

	// Kind names the layer type in saved models.
	Kind() string

	// Build allocates the parameters for the input shape and returns the output shape.
	Build(in Shape, seed uint32) (Shape, error)

	// Params returns the parameters in a stable order.
	Params() []*Param

	// Forward computes the output for in. The returned cache is handed back to Backward.
	Forward(in *Tensor, m Mode) (out *Tensor, cache interface{})

	// Backward accumulates parameter gradients into grads (aligned with Params)
	// and returns the gradient with respect to the input.
	Backward(grad *Tensor, cache interface{}, grads [][]float64) *Tensor
}

// RowSparse is implemented by layers whose gradient for one example only
// writes a few rows of one parameter, like an embedding table.
type RowSparse interface {

	// SparseParam returns the index of the parameter in Params and its row width.
	SparseParam() (param, width int)

	// Rows lists the rows Backward writes for the cache of a forward pass.
	Rows(cache interface{}) []int
}
