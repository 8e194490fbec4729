package trainer

import (
	"context"
	"log/slog"

	"github.com/neurlang/textclf/datasets"
	"github.com/neurlang/textclf/errors"
	"github.com/neurlang/textclf/learning"
	"github.com/neurlang/textclf/model"
)

// Runner fits a model on a training split.
type Runner struct {
	Epochs    int
	BatchSize int

	// ValidationSplit defaults to 0.1.
	ValidationSplit float64

	// Patience defaults to 3.
	Patience int
	MinDelta float64

	Shuffle   bool
	Seed      uint32
	Callbacks []model.Callback
	Logger    *slog.Logger
}

// Result is the outcome of a training run.
type Result struct {
	History      *model.History
	Interrupted  bool
	StoppedEarly bool

	// BestEpoch is the 1-based epoch with the lowest val_loss, 0 without epochs.
	BestEpoch   int
	BestValLoss float64
}

func (r Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Run compiles m with opt and fits it. Cancelling ctx interrupts fitting; the
// epochs completed so far are kept and Run still succeeds.
func (r Runner) Run(ctx context.Context, m model.Model, opt learning.Optimizer, train datasets.Split) (*Result, error) {
	if err := m.Compile(opt, model.BinaryCrossEntropy, model.Accuracy); err != nil {
		return nil, err
	}
	split := r.ValidationSplit
	if split == 0 {
		split = 0.1
	}
	patience := r.Patience
	if patience <= 0 {
		patience = 3
	}
	stopping := &EarlyStopping{Patience: patience, MinDelta: r.MinDelta}
	callbacks := append([]model.Callback{stopping, logEpochs(r.logger(), r.Epochs)}, r.Callbacks...)

	h, err := m.Fit(ctx, train.X, train.Y, model.FitOptions{
		Epochs:          r.Epochs,
		BatchSize:       r.BatchSize,
		ValidationSplit: split,
		Shuffle:         r.Shuffle,
		Seed:            r.Seed,
		Callbacks:       callbacks,
	})
	if err != nil {
		return nil, err
	}
	h.Freeze()

	res := &Result{History: h, StoppedEarly: stopping.Stopped()}
	res.BestValLoss, res.BestEpoch = stopping.Best()
	if ctx.Err() != nil && !res.StoppedEarly && h.Len() < r.Epochs {
		res.Interrupted = true
		r.logger().Warn("training stopped before the last epoch",
			"error", errors.ErrTrainingInterrupted,
			"completed", h.Len(),
			"epochs", r.Epochs)
	} else if res.StoppedEarly {
		r.logger().Info("early stopping", "epoch", h.Len(), "best_epoch", res.BestEpoch, "best_val_loss", res.BestValLoss)
	}
	return res, nil
}

func logEpochs(logger *slog.Logger, epochs int) model.Callback {
	return model.CallbackFunc(func(epoch int, e model.Epoch, h *model.History) bool {
		logger.Info("epoch",
			"epoch", epoch,
			"of", epochs,
			"loss", e.Loss,
			"accuracy", e.Accuracy,
			"val_loss", e.ValLoss,
			"val_accuracy", e.ValAccuracy)
		return false
	})
}
