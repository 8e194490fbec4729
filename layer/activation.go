package layer

import "math"

// Activation is an element-wise nonlinearity.
type Activation string

const (
	Linear  Activation = "linear"
	ReLU    Activation = "relu"
	Sigmoid Activation = "sigmoid"
	Tanh    Activation = "tanh"
)

// Valid reports whether the activation is known.
func (a Activation) Valid() bool {
	switch a {
	case Linear, ReLU, Sigmoid, Tanh:
		return true
	}
	return false
}

// Apply applies the activation to x.
func (a Activation) Apply(x float64) float64 {
	switch a {
	case ReLU:
		if x > 0 {
			return x
		}
		return 0
	case Sigmoid:
		if x >= 0 {
			return 1 / (1 + math.Exp(-x))
		}
		e := math.Exp(x)
		return e / (1 + e)
	case Tanh:
		return math.Tanh(x)
	}
	return x
}

// Derivative returns the derivative expressed through the activated output y.
func (a Activation) Derivative(y float64) float64 {
	switch a {
	case ReLU:
		if y > 0 {
			return 1
		}
		return 0
	case Sigmoid:
		return y * (1 - y)
	case Tanh:
		return 1 - y*y
	}
	return 1
}
