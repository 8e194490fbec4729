// Package embedding implements a token embedding table
package embedding

import "fmt"

import "gonum.org/v1/gonum/floats"

import "github.com/neurlang/textclf/hash"
import "github.com/neurlang/textclf/layer"

var _ layer.RowSparse = (*Embedding)(nil)

// Embedding maps each step holding a token index to a row of the table.
// Indices outside the table map to a zero vector.
type Embedding struct {
	Vocab     int  `json:"vocab"`
	Dim       int  `json:"dim"`
	Trainable bool `json:"trainable"`

	initial []float64
	table   *layer.Param
}

// New creates a trainable embedding of vocab rows of dim columns
func New(vocab, dim int) (*Embedding, error) {
	if vocab <= 0 || dim <= 0 {
		return nil, fmt.Errorf("New Embedding: Vocab %d and Dim %d must be positive", vocab, dim)
	}
	return &Embedding{Vocab: vocab, Dim: dim, Trainable: true}, nil
}

// Pretrained creates an embedding initialized from matrix, one row per token.
func Pretrained(matrix [][]float64, trainable bool) (*Embedding, error) {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return nil, fmt.Errorf("Pretrained Embedding: empty matrix")
	}
	dim := len(matrix[0])
	initial := make([]float64, 0, len(matrix)*dim)
	for i, row := range matrix {
		if len(row) != dim {
			return nil, fmt.Errorf("Pretrained Embedding: row %d has %d columns, want %d", i, len(row), dim)
		}
		initial = append(initial, row...)
	}
	return &Embedding{Vocab: len(matrix), Dim: dim, Trainable: trainable, initial: initial}, nil
}

// Kind names the layer
func (e *Embedding) Kind() string {
	return "embedding"
}

// Build expects one token index per step
func (e *Embedding) Build(in layer.Shape, seed uint32) (layer.Shape, error) {
	if in.Width != 1 {
		return layer.Shape{}, fmt.Errorf("Embedding: input width %d, want one token per step", in.Width)
	}
	e.table = &layer.Param{Name: "table", Value: make([]float64, e.Vocab*e.Dim), Trainable: e.Trainable}
	if e.initial != nil {
		copy(e.table.Value, e.initial)
	} else {
		for i := range e.table.Value {
			e.table.Value[i] = (2*hash.Uniform(uint32(i), seed) - 1) * 0.05
		}
	}
	return layer.Shape{Steps: in.Steps, Width: e.Dim}, nil
}

// Params returns the table
func (e *Embedding) Params() []*layer.Param {
	return []*layer.Param{e.table}
}

func (e *Embedding) index(v float64) int {
	i := int(v)
	if i < 0 || i >= e.Vocab {
		return -1
	}
	return i
}

// Forward looks up every step
func (e *Embedding) Forward(in *layer.Tensor, m layer.Mode) (*layer.Tensor, interface{}) {
	out := layer.NewTensor(in.Steps, e.Dim)
	for s := 0; s < in.Steps; s++ {
		if i := e.index(in.Data[s]); i >= 0 {
			copy(out.Row(s), e.table.Value[i*e.Dim:(i+1)*e.Dim])
		}
	}
	return out, in
}

// Backward accumulates into the looked up rows. Token indices have no gradient, so it returns nil.
func (e *Embedding) Backward(grad *layer.Tensor, cache interface{}, grads [][]float64) *layer.Tensor {
	if !e.Trainable || grads[0] == nil {
		return nil
	}
	in := cache.(*layer.Tensor)
	for s := 0; s < in.Steps; s++ {
		if i := e.index(in.Data[s]); i >= 0 {
			floats.Add(grads[0][i*e.Dim:(i+1)*e.Dim], grad.Row(s))
		}
	}
	return nil
}

// SparseParam reports the table, one row per token
func (e *Embedding) SparseParam() (param, width int) {
	return 0, e.Dim
}

// Rows returns the table rows looked up by a forward pass
func (e *Embedding) Rows(cache interface{}) []int {
	in := cache.(*layer.Tensor)
	rows := make([]int, 0, in.Steps)
	for s := 0; s < in.Steps; s++ {
		if i := e.index(in.Data[s]); i >= 0 {
			rows = append(rows, i)
		}
	}
	return rows
}
