// Package topology assembles the network for a representation family and an architecture.
package topology

import (
	"log/slog"

	"github.com/neurlang/textclf/config"
	"github.com/neurlang/textclf/datasets"
	"github.com/neurlang/textclf/errors"
	"github.com/neurlang/textclf/layer"
	"github.com/neurlang/textclf/layer/embedding"
	"github.com/neurlang/textclf/layer/full"
	"github.com/neurlang/textclf/learning"
	"github.com/neurlang/textclf/model"
	"github.com/neurlang/textclf/net/feedforward"
)

// Key selects a trunk builder.
type Key struct {
	Family       config.Family
	Architecture config.Architecture
}

// KeyOf is the key of an experiment.
func KeyOf(cfg config.Experiment) Key {
	return Key{Family: cfg.Family, Architecture: cfg.Architecture}
}

// Builder adds a trunk to m, after the feature extractor and before the head.
type Builder func(m model.Model, hp learning.HyperParameters) error

var builders = map[Key]Builder{
	{config.FamilySparse, config.FFNN}:   dense,
	{config.FamilyDiscrete, config.FFNN}: dense,
}

func init() {
	sequence := map[config.Architecture]Builder{
		config.FFNN:  flattened(dense),
		config.CNN:   convolutional,
		config.BCNN:  convolutional,
		config.RNN:   recurrentTrunk(false),
		config.BRNN:  recurrentTrunk(true),
		config.RCNN:  convolutionalRecurrent(false),
		config.BRCNN: convolutionalRecurrent(true),
	}
	for _, f := range []config.Family{config.FamilyLearned, config.FamilyPretrained} {
		for a, b := range sequence {
			builders[Key{f, a}] = b
		}
	}
}

// Lookup returns the builder registered for k.
func Lookup(k Key) (Builder, error) {
	b, ok := builders[k]
	if !ok {
		return nil, errors.UnsupportedArchitecturef("%s has no %s representation builder", k.Architecture, k.Family)
	}
	return b, nil
}

// Assemble builds the network for cfg over the loaded dataset: feature
// extractor, trunk and a single sigmoid unit.
func Assemble(cfg config.Experiment, d *datasets.Dataset, logger *slog.Logger) (*feedforward.FeedforwardNetwork, error) {
	if logger == nil {
		logger = slog.Default()
	}
	build, err := Lookup(KeyOf(cfg))
	if err != nil {
		return nil, err
	}
	if cfg.Architecture == config.BCNN {
		logger.Warn("bcnn builds the cnn trunk; no bidirectional convolution is implemented",
			"architecture", cfg.Architecture)
	}

	width := d.Train.Width()
	input := layer.Shape{Steps: 1, Width: width}
	if cfg.Family.Tokens() {
		input = layer.Shape{Steps: width, Width: 1}
	}
	net := feedforward.New(input, cfg.Seed)
	net.Threads = cfg.Threads

	invalid := func(err error) error {
		return errors.InvalidConfigf("assemble %s %s: %v", cfg.Representation, cfg.Architecture, err)
	}
	switch cfg.Family {
	case config.FamilyLearned:
		e, err := embedding.New(d.MaxToken+1, cfg.EmbeddingDim)
		if err != nil {
			return nil, invalid(err)
		}
		if err := net.Add(e); err != nil {
			return nil, invalid(err)
		}
	case config.FamilyPretrained:
		e, err := embedding.Pretrained(d.Embedding, cfg.EmbeddingTrainable)
		if err != nil {
			return nil, invalid(err)
		}
		if err := net.Add(e); err != nil {
			return nil, invalid(err)
		}
	}
	if err := build(net, cfg.HyperParameters); err != nil {
		return nil, invalid(err)
	}
	if err := net.Add(full.MustNew(1, layer.Sigmoid)); err != nil {
		return nil, invalid(err)
	}
	logger.Info("model assembled",
		"input", input.String(),
		"layers", net.LenLayers(),
		"trainable", net.Len())
	return net, nil
}
