package maxpool1d

import "github.com/neurlang/textclf/layer"

// pool writes the maximum of steps [from, from+count) into out and the winning
// flat indices into arg
func pool(in *layer.Tensor, from, count int, out []float64, arg []int) {
	for d := range out {
		best := from*in.Width + d
		for s := from + 1; s < from+count; s++ {
			if i := s*in.Width + d; in.Data[i] > in.Data[best] {
				best = i
			}
		}
		out[d] = in.Data[best]
		arg[d] = best
	}
}

func scatter(grad *layer.Tensor, arg []int, in layer.Shape) *layer.Tensor {
	gin := layer.NewTensor(in.Steps, in.Width)
	for i, g := range grad.Data {
		gin.Data[arg[i]] += g
	}
	return gin
}

// Forward pools every window
func (p *MaxPool1D) Forward(in *layer.Tensor, m layer.Mode) (*layer.Tensor, interface{}) {
	out := layer.NewTensor(in.Steps/p.Pool, in.Width)
	arg := make([]int, len(out.Data))
	for o := 0; o < out.Steps; o++ {
		pool(in, o*p.Pool, p.Pool, out.Row(o), arg[o*in.Width:(o+1)*in.Width])
	}
	return out, arg
}

// Backward routes each gradient to the step that won the pool
func (p *MaxPool1D) Backward(grad *layer.Tensor, cache interface{}, grads [][]float64) *layer.Tensor {
	return scatter(grad, cache.([]int), p.in)
}

// Forward pools all steps
func (p *GlobalMaxPool1D) Forward(in *layer.Tensor, m layer.Mode) (*layer.Tensor, interface{}) {
	out := layer.NewTensor(1, in.Width)
	arg := make([]int, in.Width)
	pool(in, 0, in.Steps, out.Data, arg)
	return out, arg
}

// Backward routes each gradient to the step that won the pool
func (p *GlobalMaxPool1D) Backward(grad *layer.Tensor, cache interface{}, grads [][]float64) *layer.Tensor {
	return scatter(grad, cache.([]int), p.in)
}
