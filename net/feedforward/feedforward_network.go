// Package feedforward implements a feedforward network type
package feedforward

import "runtime"

import "github.com/klauspost/cpuid/v2"

import "github.com/neurlang/textclf/errors"
import "github.com/neurlang/textclf/hash"
import "github.com/neurlang/textclf/layer"
import "github.com/neurlang/textclf/learning"
import "github.com/neurlang/textclf/model"

// FeedforwardNetwork is the feedforward network. Layers run in the order they
// were added; the last one must produce a single probability.
type FeedforwardNetwork struct {

	// Threads is the number of workers computing gradients. Zero uses every logical core.
	Threads int

	input  layer.Shape
	seed   uint32
	layers []layer.Layer
	shapes []layer.Shape

	opt  learning.Optimizer
	loss model.Loss
}

var _ model.Model = (*FeedforwardNetwork)(nil)

// New creates an empty network for examples of the input shape. The seed
// fixes weight initialization and dropout masks.
func New(input layer.Shape, seed uint32) *FeedforwardNetwork {
	return &FeedforwardNetwork{input: input, seed: seed}
}

// Len returns the number of trainable values inside the network.
func (f *FeedforwardNetwork) Len() (o int) {
	for _, p := range f.params() {
		if p.Trainable {
			o += len(p.Value)
		}
	}
	return
}

// LenLayers returns the number of layers.
func (f *FeedforwardNetwork) LenLayers() int {
	return len(f.layers)
}

// GetLayer gets the n-th layer, or nil.
func (f *FeedforwardNetwork) GetLayer(n int) layer.Layer {
	if n < 0 || n >= len(f.layers) {
		return nil
	}
	return f.layers[n]
}

// Output is the output shape of the last layer, or the input shape of an empty network.
func (f *FeedforwardNetwork) Output() layer.Shape {
	if len(f.shapes) == 0 {
		return f.input
	}
	return f.shapes[len(f.shapes)-1]
}

// Add builds l against the current output shape and appends it.
func (f *FeedforwardNetwork) Add(l layer.Layer) error {
	if f.opt != nil {
		return errors.New("feedforward: add after compile")
	}
	out, err := l.Build(f.Output(), hash.Mix(f.seed, uint32(len(f.layers))))
	if err != nil {
		return errors.Wrapf(err, "layer %d (%s)", len(f.layers), l.Kind())
	}
	f.layers = append(f.layers, l)
	f.shapes = append(f.shapes, out)
	return nil
}

// Compile fixes the optimizer and loss. Only binary cross-entropy with accuracy is supported.
func (f *FeedforwardNetwork) Compile(opt learning.Optimizer, loss model.Loss, metrics ...model.Metric) error {
	if opt == nil {
		return errors.New("feedforward: nil optimizer")
	}
	if loss != model.BinaryCrossEntropy {
		return errors.Errorf("feedforward: unsupported loss %q", loss)
	}
	for _, m := range metrics {
		if m != model.Accuracy {
			return errors.Errorf("feedforward: unsupported metric %q", m)
		}
	}
	if len(f.layers) == 0 {
		return errors.New("feedforward: no layers")
	}
	if out := f.Output(); out.Size() != 1 {
		return errors.Errorf("feedforward: output shape %s, want a single unit", out)
	}
	f.opt, f.loss = opt, loss
	return nil
}

func (f *FeedforwardNetwork) threads() int {
	if f.Threads > 0 {
		return f.Threads
	}
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

func (f *FeedforwardNetwork) params() (o []*layer.Param) {
	for _, l := range f.layers {
		o = append(o, l.Params()...)
	}
	return
}

func (f *FeedforwardNetwork) checkRows(x [][]float64) error {
	for i, row := range x {
		if len(row) != f.input.Size() {
			return errors.Errorf("feedforward: row %d has %d values, want %d", i, len(row), f.input.Size())
		}
	}
	return nil
}

// forward runs one example. Caches are stored when caches is not nil.
func (f *FeedforwardNetwork) forward(row []float64, m layer.Mode, caches []interface{}) float64 {
	t := layer.Wrap(f.input, row)
	for i, l := range f.layers {
		lm := m
		lm.Seed = hash.Mix(m.Seed, uint32(i))
		var c interface{}
		t, c = l.Forward(t, lm)
		if caches != nil {
			caches[i] = c
		}
	}
	return t.Data[0]
}

// backward propagates the loss gradient with respect to the output probability.
func (f *FeedforwardNetwork) backward(dp float64, caches []interface{}, g *gradients) {
	grad := &layer.Tensor{Steps: 1, Width: 1, Data: []float64{dp}}
	for i := len(f.layers) - 1; i >= 0 && grad != nil; i-- {
		grad = f.layers[i].Backward(grad, caches[i], g.values[i])
	}
}

// Predict returns the probability of the positive class for every row.
func (f *FeedforwardNetwork) Predict(x [][]float64) ([]float64, error) {
	if len(f.layers) == 0 {
		return nil, errors.New("feedforward: no layers")
	}
	if err := f.checkRows(x); err != nil {
		return nil, err
	}
	rows := make([]int, len(x))
	for i := range rows {
		rows[i] = i
	}
	return f.predictRows(x, rows), nil
}
