package topology

import (
	"github.com/neurlang/textclf/layer"
	"github.com/neurlang/textclf/layer/conv1d"
	"github.com/neurlang/textclf/layer/dropout"
	"github.com/neurlang/textclf/layer/full"
	"github.com/neurlang/textclf/layer/maxpool1d"
	"github.com/neurlang/textclf/layer/recurrent"
	"github.com/neurlang/textclf/layer/reshape"
	"github.com/neurlang/textclf/learning"
	"github.com/neurlang/textclf/model"
)

// add adds the layers in order, stopping at the first constructor or build error.
func add(m model.Model, layers ...func() (layer.Layer, error)) error {
	for _, mk := range layers {
		l, err := mk()
		if err != nil {
			return err
		}
		if err := m.Add(l); err != nil {
			return err
		}
	}
	return nil
}

func denseLayer(units int) func() (layer.Layer, error) {
	return func() (layer.Layer, error) { return full.New(units, layer.ReLU) }
}

func dropoutLayer(rate float64) func() (layer.Layer, error) {
	return func() (layer.Layer, error) { return dropout.New(rate) }
}

func convLayer(hp learning.HyperParameters) func() (layer.Layer, error) {
	return func() (layer.Layer, error) { return conv1d.New(hp.Filters, hp.KernelSize, layer.ReLU) }
}

func poolLayer(size int) func() (layer.Layer, error) {
	return func() (layer.Layer, error) { return maxpool1d.New(size) }
}

func rnnLayer(units int, bidirectional bool) func() (layer.Layer, error) {
	return func() (layer.Layer, error) {
		if bidirectional {
			return recurrent.NewBidirectional(units)
		}
		return recurrent.New(units)
	}
}

// dense is a Dense(relu) and Dropout pair per entry of dense_units.
func dense(m model.Model, hp learning.HyperParameters) error {
	for _, units := range hp.DenseUnits {
		if err := add(m, denseLayer(units), dropoutLayer(hp.Dropout)); err != nil {
			return err
		}
	}
	return nil
}

// flattened flattens an embedded sequence before b.
func flattened(b Builder) Builder {
	return func(m model.Model, hp learning.HyperParameters) error {
		if err := m.Add(reshape.Flatten{}); err != nil {
			return err
		}
		return b(m, hp)
	}
}

func convolutional(m model.Model, hp learning.HyperParameters) error {
	err := add(m, convLayer(hp), func() (layer.Layer, error) { return maxpool1d.NewGlobal(), nil })
	if err != nil {
		return err
	}
	return dense(m, hp)
}

func recurrentTrunk(bidirectional bool) Builder {
	return func(m model.Model, hp learning.HyperParameters) error {
		return add(m, rnnLayer(hp.RecurrentUnits, bidirectional), dropoutLayer(hp.Dropout))
	}
}

func convolutionalRecurrent(bidirectional bool) Builder {
	return func(m model.Model, hp learning.HyperParameters) error {
		return add(m,
			convLayer(hp),
			poolLayer(hp.PoolSize),
			rnnLayer(hp.RecurrentUnits, bidirectional),
			dropoutLayer(hp.Dropout))
	}
}
