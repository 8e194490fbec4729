// Package model defines the trainable model capability used by the pipeline.
package model

import (
	"context"
	"io"

	"github.com/neurlang/textclf/layer"
	"github.com/neurlang/textclf/learning"
)

// Loss names a training loss.
type Loss string

// Metric names a tracked metric.
type Metric string

const (
	BinaryCrossEntropy Loss   = "binary_crossentropy"
	Accuracy           Metric = "accuracy"
)

// Model is a layered binary classifier: layers are added, the model is
// compiled with an optimizer, fitted on rows of features and used to predict
// probabilities.
type Model interface {
	Add(l layer.Layer) error
	Compile(opt learning.Optimizer, loss Loss, metrics ...Metric) error

	// Fit trains on x and y. Cancelling ctx stops fitting early; the
	// completed epochs are returned with a nil error.
	Fit(ctx context.Context, x [][]float64, y []float64, o FitOptions) (*History, error)

	Predict(x [][]float64) ([]float64, error)
	Save(w io.Writer) error
}

// FitOptions control one Fit call.
type FitOptions struct {
	Epochs    int
	BatchSize int

	// ValidationSplit is the fraction of rows, taken from the end, held out
	// for the validation metrics. Zero reports the training metrics instead.
	ValidationSplit float64

	Shuffle   bool
	Seed      uint32
	Callbacks []Callback
}

// Callback observes the end of every epoch. Returning true stops fitting.
type Callback interface {
	OnEpochEnd(epoch int, e Epoch, h *History) (stop bool)
}

// CallbackFunc adapts a function to Callback.
type CallbackFunc func(epoch int, e Epoch, h *History) bool

func (f CallbackFunc) OnEpochEnd(epoch int, e Epoch, h *History) bool {
	return f(epoch, e, h)
}
