package recurrent

import "github.com/neurlang/textclf/layer"

// Bidirectional runs one SimpleRNN forward and one in reverse and concatenates their last states.
type Bidirectional struct {
	Units int `json:"units"`

	forward, backward *SimpleRNN
}

// NewBidirectional creates a bidirectional recurrent layer with units per direction
func NewBidirectional(units int) (*Bidirectional, error) {
	f, err := New(units)
	if err != nil {
		return nil, err
	}
	b, _ := New(units)
	b.Reverse = true
	return &Bidirectional{Units: units, forward: f, backward: b}, nil
}

// Kind names the layer
func (b *Bidirectional) Kind() string {
	return "bidirectional"
}

// Build builds both directions
func (b *Bidirectional) Build(in layer.Shape, seed uint32) (layer.Shape, error) {
	if _, err := b.forward.Build(in, seed); err != nil {
		return layer.Shape{}, err
	}
	if _, err := b.backward.Build(in, seed+1); err != nil {
		return layer.Shape{}, err
	}
	return layer.Shape{Steps: 1, Width: 2 * b.Units}, nil
}

// Params returns the forward parameters followed by the backward ones
func (b *Bidirectional) Params() []*layer.Param {
	return append(b.forward.Params(), b.backward.Params()...)
}

type pair struct {
	forward, backward interface{}
}

// Forward concatenates [forward state, backward state]
func (b *Bidirectional) Forward(in *layer.Tensor, m layer.Mode) (*layer.Tensor, interface{}) {
	f, fc := b.forward.Forward(in, m)
	r, rc := b.backward.Forward(in, m)
	out := layer.NewTensor(1, 2*b.Units)
	copy(out.Data, f.Data)
	copy(out.Data[b.Units:], r.Data)
	return out, pair{forward: fc, backward: rc}
}

// Backward splits the gradient between the directions and sums their input gradients
func (b *Bidirectional) Backward(grad *layer.Tensor, c interface{}, grads [][]float64) *layer.Tensor {
	p := c.(pair)
	n := len(b.forward.Params())
	gf := &layer.Tensor{Steps: 1, Width: b.Units, Data: grad.Data[:b.Units]}
	gr := &layer.Tensor{Steps: 1, Width: b.Units, Data: grad.Data[b.Units:]}
	gin := b.forward.Backward(gf, p.forward, grads[:n])
	back := b.backward.Backward(gr, p.backward, grads[n:])
	for i, v := range back.Data {
		gin.Data[i] += v
	}
	return gin
}
