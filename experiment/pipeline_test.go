package experiment

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/textclf/config"
	"github.com/neurlang/textclf/datasets"
	"github.com/neurlang/textclf/errors"
	"github.com/neurlang/textclf/ledger"
	"github.com/neurlang/textclf/learning"
	"github.com/neurlang/textclf/model"
	"github.com/neurlang/textclf/storage/storagetest"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func experiment(t *testing.T, heldOut bool) config.Experiment {
	dir := t.TempDir()
	hp := learning.DefaultHyperParameters()
	hp.DenseUnits = []int{8}
	hp.Dropout = 0
	return config.Experiment{
		Representation:    config.Count,
		Family:            config.FamilySparse,
		Architecture:      config.FFNN,
		OutputPrefix:      filepath.Join(dir, "out"),
		Epochs:            4,
		HyperParametersID: "small",
		HyperParameters:   hp,
		Optimizer:         config.Adam,
		LearningRate:      0.05,
		BatchSize:         16,
		VocabSize:         5000,
		EmbeddingDim:      50,
		NgramMin:          1,
		NgramMax:          1,
		HeldOut:           heldOut,
		DataRoot:          "data",
		LedgerPath:        filepath.Join(dir, "results.csv"),
		Seed:              7,
		Threads:           2,
	}
}

func separable(n int) ([][]float64, []float64) {
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		label := float64(i % 2)
		x[i] = []float64{2*label - 1, float64(i%5) / 5, 1 - 2*label, 0.5}
		y[i] = label
	}
	return x, y
}

func store(cfg config.Experiment) *storagetest.Memory {
	s := storagetest.NewMemory()
	src := datasets.Locate(cfg.DataRoot, cfg)
	s.Sparse[src.Train], s.Vectors[src.TrainLabels] = separable(200)
	s.Sparse[src.Test], s.Vectors[src.TestLabels] = separable(60)
	return s
}

func pipeline(s *storagetest.Memory) Pipeline {
	return Pipeline{
		Store:  s,
		Logger: quiet(),
		Now:    func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func assertArtifacts(t *testing.T, prefix string, heldOut bool) {
	t.Helper()
	a := ledger.Artifacts{Prefix: prefix}
	for _, p := range []string{a.HistoryPath(), a.LossPlot(), a.AccuracyPlot(), a.AUCPlot(), a.ModelPath()} {
		assert.FileExists(t, p)
	}
	if heldOut {
		assert.FileExists(t, a.ROCPath())
	} else {
		assert.NoFileExists(t, a.ROCPath())
	}
}

func TestHeldOutRunAppendsLedger(t *testing.T) {
	cfg := experiment(t, true)
	cfg.MetricsTextfile = true
	out, err := pipeline(store(cfg)).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, 200, out.TrainRows)
	assert.Equal(t, 60, out.EvalRows)
	assert.False(t, out.Interrupted)
	assert.True(t, out.LedgerAppended)
	assert.Equal(t, cfg.Epochs, out.History.Len())
	assert.Greater(t, out.Evaluation.Accuracy, 0.9)
	assertArtifacts(t, out.Prefix, true)
	assert.FileExists(t, ledger.Artifacts{Prefix: out.Prefix}.MetricsPath())

	records, err := ledger.Ledger{Path: cfg.LedgerPath}.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, out.RunID, r.RunID)
	assert.Equal(t, "2024-03-01T12:00:00Z", r.Timestamp)
	assert.Equal(t, "ffnn", r.Architecture)
	assert.Equal(t, "small", r.HyperParameters)
	assert.Equal(t, "count", r.Representation)
	assert.InDelta(t, out.Evaluation.ROC.AUC, r.AUC, 1e-9)

	_, err = pipeline(store(cfg)).Run(context.Background(), cfg)
	require.NoError(t, err)
	records, err = ledger.Ledger{Path: cfg.LedgerPath}.Records()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestValidationRunSkipsLedger(t *testing.T) {
	cfg := experiment(t, false)
	out, err := pipeline(store(cfg)).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 180, out.TrainRows)
	assert.Equal(t, 20, out.EvalRows)
	assert.False(t, out.LedgerAppended)
	assert.NoFileExists(t, cfg.LedgerPath)
	assert.NoFileExists(t, ledger.Artifacts{Prefix: out.Prefix}.MetricsPath())
	assertArtifacts(t, out.Prefix, false)
}

func TestInterruptedRunPersists(t *testing.T) {
	cfg := experiment(t, true)
	cfg.Epochs = 10
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := pipeline(store(cfg))
	p.Observer = model.CallbackFunc(func(epoch int, e model.Epoch, h *model.History) bool {
		if epoch == 2 {
			cancel()
		}
		return false
	})
	out, err := p.Run(ctx, cfg)
	require.NoError(t, err)

	assert.True(t, out.Interrupted)
	assert.Equal(t, 2, out.History.Len())
	assert.True(t, out.History.Frozen())
	assert.True(t, out.LedgerAppended)
	assertArtifacts(t, out.Prefix, true)
}

func TestSingleClassTestSetPersists(t *testing.T) {
	cfg := experiment(t, true)
	s := store(cfg)
	src := datasets.Locate(cfg.DataRoot, cfg)
	for i := range s.Vectors[src.TestLabels] {
		s.Vectors[src.TestLabels][i] = 1
	}

	out, err := pipeline(s).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, out.Evaluation.ROC.Defined())
	assert.True(t, math.IsNaN(out.Evaluation.ROC.AUC))
	assert.True(t, out.LedgerAppended)
	assertArtifacts(t, out.Prefix, true)

	records, err := ledger.Ledger{Path: cfg.LedgerPath}.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, math.IsNaN(records[0].AUC))
}

func TestUnsupportedArchitectureReadsNothing(t *testing.T) {
	cfg := experiment(t, true)
	cfg.Representation, cfg.Family = config.Word, config.FamilyDiscrete
	cfg.Architecture = config.RNN
	s := store(cfg)

	_, err := pipeline(s).Run(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedArchitecture))
	assert.Zero(t, s.Calls())
}

func TestMissingDataWritesNothing(t *testing.T) {
	cfg := experiment(t, true)
	s := storagetest.NewMemory()

	_, err := pipeline(s).Run(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDataNotFound))

	entries, err := os.ReadDir(filepath.Dir(cfg.OutputPrefix))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBadOptimizer(t *testing.T) {
	cfg := experiment(t, true)
	cfg.LearningRate = 0
	_, err := pipeline(store(cfg)).Run(context.Background(), cfg)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}
