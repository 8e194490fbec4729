// Package recurrent implements a simple recurrent layer and its bidirectional wrapper
package recurrent

import "fmt"
import "math"

import "gonum.org/v1/gonum/floats"

import "github.com/neurlang/textclf/layer"

// SimpleRNN runs h = tanh(Wx x + Wh h + b) over the steps and outputs the last state.
type SimpleRNN struct {
	Units   int  `json:"units"`
	Reverse bool `json:"reverse"`

	in        layer.Shape
	kernel    *layer.Param
	recurrent *layer.Param
	bias      *layer.Param
}

// MustNew creates a new recurrent layer with units
func MustNew(units int) *SimpleRNN {
	o, err := New(units)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new recurrent layer with units
func New(units int) (*SimpleRNN, error) {
	if units <= 0 {
		return nil, fmt.Errorf("New SimpleRNN: Units %d must be positive", units)
	}
	return &SimpleRNN{Units: units}, nil
}

// Kind names the layer
func (r *SimpleRNN) Kind() string {
	return "simple_rnn"
}

// Build allocates input, recurrent and bias weights
func (r *SimpleRNN) Build(in layer.Shape, seed uint32) (layer.Shape, error) {
	if in.Steps <= 0 || in.Width <= 0 {
		return layer.Shape{}, fmt.Errorf("SimpleRNN: empty input %s", in)
	}
	r.in = in
	r.kernel = &layer.Param{Name: "kernel", Value: make([]float64, r.Units*in.Width), Trainable: true}
	r.recurrent = &layer.Param{Name: "recurrent_kernel", Value: make([]float64, r.Units*r.Units), Trainable: true}
	r.bias = &layer.Param{Name: "bias", Value: make([]float64, r.Units), Trainable: true}
	layer.GlorotUniform(r.kernel.Value, in.Width, r.Units, seed)
	layer.GlorotUniform(r.recurrent.Value, r.Units, r.Units, seed^0x5bd1e995)
	return layer.Shape{Steps: 1, Width: r.Units}, nil
}

// Params returns kernel, recurrent kernel and bias
func (r *SimpleRNN) Params() []*layer.Param {
	return []*layer.Param{r.kernel, r.recurrent, r.bias}
}

// step maps the k-th processed step to the input step
func (r *SimpleRNN) step(k, steps int) int {
	if r.Reverse {
		return steps - 1 - k
	}
	return k
}

type cache struct {
	in *layer.Tensor

	// states holds h_0 (zeros) followed by the state after each processed step
	states []float64
}

// Forward unrolls the recurrence
func (r *SimpleRNN) Forward(in *layer.Tensor, m layer.Mode) (*layer.Tensor, interface{}) {
	u, d := r.Units, in.Width
	states := make([]float64, (in.Steps+1)*u)
	for k := 0; k < in.Steps; k++ {
		x := in.Row(r.step(k, in.Steps))
		prev, h := states[k*u:(k+1)*u], states[(k+1)*u:(k+2)*u]
		for j := range h {
			a := floats.Dot(r.kernel.Value[j*d:(j+1)*d], x) + floats.Dot(r.recurrent.Value[j*u:(j+1)*u], prev) + r.bias.Value[j]
			h[j] = math.Tanh(a)
		}
	}
	out := layer.NewTensor(1, u)
	copy(out.Data, states[in.Steps*u:])
	return out, cache{in: in, states: states}
}

// Backward propagates through time
func (r *SimpleRNN) Backward(grad *layer.Tensor, c interface{}, grads [][]float64) *layer.Tensor {
	cc := c.(cache)
	u, d, steps := r.Units, cc.in.Width, cc.in.Steps
	gkernel, grecurrent, gbias := grads[0], grads[1], grads[2]
	gin := layer.NewTensor(steps, d)

	dh := append([]float64(nil), grad.Data...)
	dprev := make([]float64, u)
	for k := steps - 1; k >= 0; k-- {
		t := r.step(k, steps)
		x, gx := cc.in.Row(t), gin.Row(t)
		prev, h := cc.states[k*u:(k+1)*u], cc.states[(k+1)*u:(k+2)*u]
		for j := range dprev {
			dprev[j] = 0
		}
		for j := 0; j < u; j++ {
			da := dh[j] * (1 - h[j]*h[j])
			if da == 0 {
				continue
			}
			gbias[j] += da
			floats.AddScaled(gkernel[j*d:(j+1)*d], da, x)
			floats.AddScaled(grecurrent[j*u:(j+1)*u], da, prev)
			floats.AddScaled(gx, da, r.kernel.Value[j*d:(j+1)*d])
			floats.AddScaled(dprev, da, r.recurrent.Value[j*u:(j+1)*u])
		}
		dh, dprev = dprev, dh
	}
	return gin
}
