// Package maxpool1d implements max pooling over sequence steps
package maxpool1d

import "fmt"

import "github.com/neurlang/textclf/layer"

// MaxPool1D keeps the maximum of every Pool consecutive steps, per channel.
// Trailing steps that do not fill a pool are dropped.
type MaxPool1D struct {
	Pool int `json:"pool"`

	in layer.Shape
}

// GlobalMaxPool1D keeps the maximum over all steps, per channel.
type GlobalMaxPool1D struct {
	in layer.Shape
}

// MustNew creates a new max pooling layer with pool size
func MustNew(pool int) *MaxPool1D {
	o, err := New(pool)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new max pooling layer with pool size
func New(pool int) (*MaxPool1D, error) {
	if pool <= 0 {
		return nil, fmt.Errorf("New MaxPool1D: Pool %d must be positive", pool)
	}
	return &MaxPool1D{Pool: pool}, nil
}

// NewGlobal creates a new global max pooling layer
func NewGlobal() *GlobalMaxPool1D {
	return new(GlobalMaxPool1D)
}

func (p *MaxPool1D) Kind() string       { return "maxpool1d" }
func (p *GlobalMaxPool1D) Kind() string { return "globalmaxpool1d" }

func (p *MaxPool1D) Params() []*layer.Param       { return nil }
func (p *GlobalMaxPool1D) Params() []*layer.Param { return nil }

// Build checks that at least one pool fits
func (p *MaxPool1D) Build(in layer.Shape, seed uint32) (layer.Shape, error) {
	if in.Steps < p.Pool {
		return layer.Shape{}, fmt.Errorf("MaxPool1D: Steps %d is lower than Pool %d", in.Steps, p.Pool)
	}
	p.in = in
	return layer.Shape{Steps: in.Steps / p.Pool, Width: in.Width}, nil
}

// Build collapses the steps
func (p *GlobalMaxPool1D) Build(in layer.Shape, seed uint32) (layer.Shape, error) {
	if in.Steps <= 0 {
		return layer.Shape{}, fmt.Errorf("GlobalMaxPool1D: no steps to pool")
	}
	p.in = in
	return layer.Shape{Steps: 1, Width: in.Width}, nil
}
