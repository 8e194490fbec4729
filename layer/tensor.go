package layer

import "fmt"

// Shape is the per-example shape of a tensor: a sequence of Steps rows, each Width wide.
// Plain feature vectors have one step.
type Shape struct {
	Steps int `json:"steps"`
	Width int `json:"width"`
}

// Size is the number of values in the shape.
func (s Shape) Size() int {
	return s.Steps * s.Width
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d)", s.Steps, s.Width)
}

// Tensor holds one example, row-major over steps.
type Tensor struct {
	Steps, Width int
	Data         []float64
}

// NewTensor allocates a zeroed tensor.
func NewTensor(steps, width int) *Tensor {
	return &Tensor{Steps: steps, Width: width, Data: make([]float64, steps*width)}
}

// Wrap views data as a tensor of the shape without copying.
func Wrap(s Shape, data []float64) *Tensor {
	return &Tensor{Steps: s.Steps, Width: s.Width, Data: data}
}

// Row returns step i.
func (t *Tensor) Row(i int) []float64 {
	return t.Data[i*t.Width : (i+1)*t.Width]
}

// Shape returns the tensor shape.
func (t *Tensor) Shape() Shape {
	return Shape{Steps: t.Steps, Width: t.Width}
}
