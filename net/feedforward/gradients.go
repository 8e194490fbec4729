package feedforward

import "github.com/neurlang/textclf/layer"

// sparseRows tracks the rows of a row-sparse parameter written since the last zero.
type sparseRows struct {
	layer   layer.RowSparse
	param   int
	width   int
	touched map[int]struct{}
}

// gradients holds one slice per parameter, per layer. Frozen parameters have
// nil slices. Row-sparse parameters are only zeroed, summed and scaled on the
// rows a backward pass wrote.
type gradients struct {
	values [][][]float64
	sparse []*sparseRows
}

func (f *FeedforwardNetwork) newGradients() *gradients {
	g := &gradients{
		values: make([][][]float64, len(f.layers)),
		sparse: make([]*sparseRows, len(f.layers)),
	}
	for i, l := range f.layers {
		params := l.Params()
		g.values[i] = make([][]float64, len(params))
		for j, p := range params {
			if p.Trainable {
				g.values[i][j] = make([]float64, len(p.Value))
			}
		}
		if rs, ok := l.(layer.RowSparse); ok {
			param, width := rs.SparseParam()
			if g.values[i][param] != nil {
				g.sparse[i] = &sparseRows{layer: rs, param: param, width: width, touched: map[int]struct{}{}}
			}
		}
	}
	return g
}

// touch records the rows the caches of one example wrote.
func (g *gradients) touch(caches []interface{}) {
	for i, s := range g.sparse {
		if s == nil {
			continue
		}
		for _, r := range s.layer.Rows(caches[i]) {
			s.touched[r] = struct{}{}
		}
	}
}

func (s *sparseRows) row(v []float64, r int) []float64 {
	return v[r*s.width : (r+1)*s.width]
}

// each calls fn on every live gradient block: whole dense parameters and the
// touched rows of sparse ones.
func (g *gradients) each(fn func(i, j int, v []float64)) {
	for i := range g.values {
		for j, v := range g.values[i] {
			if v == nil {
				continue
			}
			if s := g.sparse[i]; s != nil && s.param == j {
				for r := range s.touched {
					fn(i, j, s.row(v, r))
				}
				continue
			}
			fn(i, j, v)
		}
	}
}

func (g *gradients) zero() {
	g.each(func(_, _ int, v []float64) {
		for k := range v {
			v[k] = 0
		}
	})
	for _, s := range g.sparse {
		if s != nil {
			for r := range s.touched {
				delete(s.touched, r)
			}
		}
	}
}

// add sums other into g.
func (g *gradients) add(other *gradients) {
	for i := range g.values {
		for j, v := range g.values[i] {
			if v == nil {
				continue
			}
			o := other.values[i][j]
			if s := g.sparse[i]; s != nil && s.param == j {
				theirs := other.sparse[i]
				for r := range theirs.touched {
					dst, src := s.row(v, r), theirs.row(o, r)
					for k := range dst {
						dst[k] += src[k]
					}
					s.touched[r] = struct{}{}
				}
				continue
			}
			for k := range v {
				v[k] += o[k]
			}
		}
	}
}

func (g *gradients) scale(by float64) {
	g.each(func(_, _ int, v []float64) {
		for k := range v {
			v[k] *= by
		}
	})
}

func (g *gradients) flat() (o [][]float64) {
	for i := range g.values {
		o = append(o, g.values[i]...)
	}
	return
}
