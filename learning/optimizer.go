package learning

import "math"

import "github.com/neurlang/textclf/errors"
import "github.com/neurlang/textclf/layer"

// Optimizer updates parameters from their averaged gradients.
// Params and grads are aligned; a nil gradient marks a frozen parameter.
type Optimizer interface {
	Name() string
	Step(params []*layer.Param, grads [][]float64)
}

// NewOptimizer creates the optimizer named kind ("adam" or "sgd").
func NewOptimizer(kind string, rate float64) (Optimizer, error) {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, errors.InvalidConfigf("learning rate %v must be positive", rate)
	}
	switch kind {
	case "adam":
		return NewAdam(rate), nil
	case "sgd":
		return &SGD{Rate: rate}, nil
	}
	return nil, errors.InvalidConfigf("unknown optimizer %q", kind)
}

// SGD is plain gradient descent
type SGD struct {
	Rate float64
}

func (s *SGD) Name() string {
	return "sgd"
}

func (s *SGD) Step(params []*layer.Param, grads [][]float64) {
	for i, p := range params {
		if grads[i] == nil || !p.Trainable {
			continue
		}
		for j, g := range grads[i] {
			p.Value[j] -= s.Rate * g
		}
	}
}

// Adam keeps bias corrected first and second moment estimates per parameter.
type Adam struct {
	Rate, Beta1, Beta2, Epsilon float64

	t    int
	m, v [][]float64
}

// NewAdam returns Adam with the usual betas and epsilon 1e-7
func NewAdam(rate float64) *Adam {
	return &Adam{Rate: rate, Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-7}
}

func (a *Adam) Name() string {
	return "adam"
}

func (a *Adam) Step(params []*layer.Param, grads [][]float64) {
	if a.m == nil {
		a.m = make([][]float64, len(params))
		a.v = make([][]float64, len(params))
		for i, p := range params {
			a.m[i] = make([]float64, len(p.Value))
			a.v[i] = make([]float64, len(p.Value))
		}
	}
	a.t++
	c1 := 1 - math.Pow(a.Beta1, float64(a.t))
	c2 := 1 - math.Pow(a.Beta2, float64(a.t))
	for i, p := range params {
		if grads[i] == nil || !p.Trainable {
			continue
		}
		m, v := a.m[i], a.v[i]
		for j, g := range grads[i] {
			m[j] = a.Beta1*m[j] + (1-a.Beta1)*g
			v[j] = a.Beta2*v[j] + (1-a.Beta2)*g*g
			p.Value[j] -= a.Rate * (m[j] / c1) / (math.Sqrt(v[j]/c2) + a.Epsilon)
		}
	}
}
