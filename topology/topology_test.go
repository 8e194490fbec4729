package topology

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/textclf/config"
	"github.com/neurlang/textclf/datasets"
	"github.com/neurlang/textclf/errors"
	"github.com/neurlang/textclf/learning"
	"github.com/neurlang/textclf/net/feedforward"
)

func hyperParameters() learning.HyperParameters {
	hp := learning.DefaultHyperParameters()
	hp.DenseUnits = []int{4}
	hp.Filters = 3
	hp.KernelSize = 2
	hp.RecurrentUnits = 2
	return hp
}

func dataset(width int) *datasets.Dataset {
	d := &datasets.Dataset{MaxToken: 9}
	for i := 0; i < 4; i++ {
		row := make([]float64, width)
		for j := range row {
			row[j] = float64((i + j) % 10)
		}
		d.Train.X = append(d.Train.X, row)
		d.Train.Y = append(d.Train.Y, float64(i%2))
	}
	for i := 0; i < 10; i++ {
		d.Embedding = append(d.Embedding, []float64{float64(i), 1})
	}
	return d
}

func experiment(rep config.Representation, arch config.Architecture) config.Experiment {
	return config.Experiment{
		Representation:  rep,
		Family:          rep.Family(),
		Architecture:    arch,
		EmbeddingDim:    2,
		HyperParameters: hyperParameters(),
		Seed:            3,
		Threads:         1,
	}
}

func kinds(n *feedforward.FeedforwardNetwork) (o []string) {
	for i := 0; i < n.LenLayers(); i++ {
		o = append(o, n.GetLayer(i).Kind())
	}
	return
}

func TestDispatchTableIsExhaustive(t *testing.T) {
	for _, f := range config.Families {
		for _, a := range config.Architectures {
			_, err := Lookup(Key{f, a})
			if f.Tokens() || a == config.FFNN {
				assert.NoError(t, err, "%s %s", f, a)
			} else {
				assert.True(t, errors.Is(err, errors.ErrUnsupportedArchitecture), "%s %s", f, a)
			}
		}
	}
}

func TestAssembleEveryPair(t *testing.T) {
	for _, rep := range config.Representations {
		for _, arch := range config.Architectures {
			cfg := experiment(rep, arch)
			if _, err := Lookup(KeyOf(cfg)); err != nil {
				continue
			}
			d := dataset(8)
			net, err := Assemble(cfg, d, nil)
			require.NoError(t, err, "%s %s", rep, arch)
			k := kinds(net)
			assert.Equal(t, "dense", k[len(k)-1])
			p, err := net.Predict(d.Train.X)
			require.NoError(t, err)
			assert.Len(t, p, 4)
		}
	}
}

func TestTrunks(t *testing.T) {
	cases := map[config.Architecture][]string{
		config.FFNN:  {"embedding", "flatten", "dense", "dropout", "dense"},
		config.CNN:   {"embedding", "conv1d", "globalmaxpool1d", "dense", "dropout", "dense"},
		config.RNN:   {"embedding", "simple_rnn", "dropout", "dense"},
		config.BRNN:  {"embedding", "bidirectional", "dropout", "dense"},
		config.RCNN:  {"embedding", "conv1d", "maxpool1d", "simple_rnn", "dropout", "dense"},
		config.BRCNN: {"embedding", "conv1d", "maxpool1d", "bidirectional", "dropout", "dense"},
	}
	for arch, want := range cases {
		net, err := Assemble(experiment(config.Embedding, arch), dataset(8), nil)
		require.NoError(t, err)
		assert.Equal(t, want, kinds(net), "%s", arch)
	}

	net, err := Assemble(experiment(config.TFIDF, config.FFNN), dataset(8), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"dense", "dropout", "dense"}, kinds(net))
}

func TestBCNNBuildsCNN(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cnn, err := Assemble(experiment(config.Pretrained, config.CNN), dataset(8), logger)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "level=WARN")
	bcnn, err := Assemble(experiment(config.Pretrained, config.BCNN), dataset(8), logger)
	require.NoError(t, err)
	assert.Equal(t, kinds(cnn), kinds(bcnn))
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestAssembleErrors(t *testing.T) {
	_, err := Assemble(experiment(config.Count, config.RNN), dataset(8), nil)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedArchitecture))

	// a two step sequence cannot be pooled by 2 after a kernel of 2
	_, err = Assemble(experiment(config.Embedding, config.RCNN), dataset(2), nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	cfg := experiment(config.Word, config.FFNN)
	cfg.HyperParameters.Dropout = 1
	_, err = Assemble(cfg, dataset(8), nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestFrozenPretrained(t *testing.T) {
	net, err := Assemble(experiment(config.Pretrained, config.RNN), dataset(8), nil)
	require.NoError(t, err)
	assert.False(t, net.GetLayer(0).Params()[0].Trainable)

	cfg := experiment(config.Pretrained, config.RNN)
	cfg.EmbeddingTrainable = true
	net, err = Assemble(cfg, dataset(8), nil)
	require.NoError(t, err)
	assert.True(t, net.GetLayer(0).Params()[0].Trainable)
}
