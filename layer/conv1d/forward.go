package conv1d

import "gonum.org/v1/gonum/floats"
import "github.com/neurlang/textclf/layer"

type cache struct {
	in, out *layer.Tensor
}

// window returns the Kernel consecutive steps starting at step t, which are contiguous in row-major order
func (c *Conv1D) window(in *layer.Tensor, t int) []float64 {
	return in.Data[t*in.Width : (t+c.Kernel)*in.Width]
}

// Forward convolves every filter over every window
func (c *Conv1D) Forward(in *layer.Tensor, m layer.Mode) (*layer.Tensor, interface{}) {
	steps := in.Steps - c.Kernel + 1
	out := layer.NewTensor(steps, c.Filters)
	for t := 0; t < steps; t++ {
		x, y := c.window(in, t), out.Row(t)
		for f := range y {
			y[f] = c.Activation.Apply(floats.Dot(c.filter(f), x) + c.bias.Value[f])
		}
	}
	return out, cache{in: in, out: out}
}

// Backward accumulates filter gradients and scatters the input gradient back over the windows
func (c *Conv1D) Backward(grad *layer.Tensor, ca interface{}, grads [][]float64) *layer.Tensor {
	cc := ca.(cache)
	gin := layer.NewTensor(cc.in.Steps, cc.in.Width)
	window := c.Kernel * cc.in.Width
	gkernel, gbias := grads[0], grads[1]
	for t := 0; t < grad.Steps; t++ {
		x, y, g := c.window(cc.in, t), cc.out.Row(t), grad.Row(t)
		gx := c.window(gin, t)
		for f := range g {
			delta := g[f] * c.Activation.Derivative(y[f])
			if delta == 0 {
				continue
			}
			gbias[f] += delta
			floats.AddScaled(gkernel[f*window:(f+1)*window], delta, x)
			floats.AddScaled(gx, delta, c.filter(f))
		}
	}
	return gin
}
