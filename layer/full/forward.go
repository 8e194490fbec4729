package full

import "gonum.org/v1/gonum/floats"

import "github.com/neurlang/textclf/layer"

type cache struct {
	in, out *layer.Tensor
}

// Forward computes activation(kernel * x + bias) for every step
func (d *Dense) Forward(in *layer.Tensor, m layer.Mode) (*layer.Tensor, interface{}) {
	out := layer.NewTensor(in.Steps, d.Units)
	for s := 0; s < in.Steps; s++ {
		x, y := in.Row(s), out.Row(s)
		for u := range y {
			y[u] = d.Activation.Apply(floats.Dot(d.row(u), x) + d.bias.Value[u])
		}
	}
	return out, cache{in: in, out: out}
}

// Backward accumulates kernel and bias gradients and returns the input gradient
func (d *Dense) Backward(grad *layer.Tensor, c interface{}, grads [][]float64) *layer.Tensor {
	cc := c.(cache)
	gin := layer.NewTensor(cc.in.Steps, d.in)
	gkernel, gbias := grads[0], grads[1]
	for s := 0; s < grad.Steps; s++ {
		x, y, g, gx := cc.in.Row(s), cc.out.Row(s), grad.Row(s), gin.Row(s)
		for u := range g {
			delta := g[u] * d.Activation.Derivative(y[u])
			if delta == 0 {
				continue
			}
			gbias[u] += delta
			floats.AddScaled(gkernel[u*d.in:(u+1)*d.in], delta, x)
			floats.AddScaled(gx, delta, d.row(u))
		}
	}
	return gin
}
