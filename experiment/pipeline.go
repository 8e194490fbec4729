// Package experiment runs one configured experiment end to end: load the
// dataset, assemble and train the network, evaluate it and persist the results.
package experiment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neurlang/textclf/config"
	"github.com/neurlang/textclf/datasets"
	"github.com/neurlang/textclf/evaluate"
	"github.com/neurlang/textclf/ledger"
	"github.com/neurlang/textclf/learning"
	"github.com/neurlang/textclf/model"
	"github.com/neurlang/textclf/storage"
	"github.com/neurlang/textclf/topology"
	"github.com/neurlang/textclf/trainer"
)

var tracer = otel.Tracer("textclf.experiment")

// Pipeline runs experiments against a Store.
type Pipeline struct {
	Store  storage.Store
	Logger *slog.Logger

	// Observer is called after every training epoch.
	Observer model.Callback

	// Trained, when set, is called once training has returned.
	Trained func()

	// Now stamps ledger records. Defaults to time.Now.
	Now func() time.Time
}

// Outcome summarizes a finished run.
type Outcome struct {
	RunID     string
	Prefix    string
	TrainRows int
	EvalRows  int

	History       *model.History
	TrainAccuracy float64
	Evaluation    *evaluate.Result

	Interrupted    bool
	StoppedEarly   bool
	LedgerAppended bool
}

func (p Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Run executes the stages in order and stops at the first failure. An
// interrupted training is not a failure: evaluation and persistence still run.
func (p Pipeline) Run(ctx context.Context, cfg config.Experiment) (*Outcome, error) {
	out := &Outcome{
		RunID:  uuid.NewString(),
		Prefix: ledger.Prefix(cfg.OutputPrefix, string(cfg.Representation), string(cfg.Architecture)),
	}
	logger := p.logger().With("run", out.RunID)
	ctx, span := tracer.Start(ctx, "experiment.Run",
		trace.WithAttributes(
			attribute.String("experiment.run_id", out.RunID),
			attribute.String("experiment.representation", string(cfg.Representation)),
			attribute.String("experiment.architecture", string(cfg.Architecture)),
			attribute.Bool("experiment.held_out", cfg.HeldOut),
		))
	defer span.End()
	logger.Info("experiment started",
		"representation", cfg.Representation,
		"architecture", cfg.Architecture,
		"hyperparameters", cfg.HyperParametersID,
		"epochs", cfg.Epochs,
		"held_out", cfg.HeldOut)

	stage := func(ctx context.Context, name string, fn func(ctx context.Context) error) error {
		ctx, s := tracer.Start(ctx, "experiment."+name)
		defer s.End()
		start := time.Now()
		if err := fn(ctx); err != nil {
			s.RecordError(err)
			s.SetStatus(codes.Error, err.Error())
			logger.Error("stage failed", "stage", name, "error", err)
			return err
		}
		logger.Debug("stage done", "stage", name, "elapsed", time.Since(start))
		return nil
	}
	fail := func(err error) (*Outcome, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	err := stage(ctx, "preflight", func(context.Context) error {
		_, err := topology.Lookup(topology.KeyOf(cfg))
		return err
	})
	if err != nil {
		return fail(err)
	}

	var data *datasets.Dataset
	err = stage(ctx, "load", func(context.Context) (err error) {
		data, err = datasets.Loader{Store: p.Store, Logger: logger}.Load(cfg)
		return err
	})
	if err != nil {
		return fail(err)
	}
	out.TrainRows, out.EvalRows = data.Train.Len(), data.Eval.Len()

	var m model.Model
	var opt learning.Optimizer
	err = stage(ctx, "assemble", func(context.Context) (err error) {
		if opt, err = learning.NewOptimizer(string(cfg.Optimizer), cfg.LearningRate); err != nil {
			return err
		}
		net, err := topology.Assemble(cfg, data, logger)
		if err != nil {
			return err
		}
		m = net
		if cfg.ResumeFrom != "" {
			return trainer.Resume(m, cfg.ResumeFrom)
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}

	err = stage(ctx, "train", func(ctx context.Context) error {
		hp := cfg.HyperParameters
		r := trainer.Runner{
			Epochs:          cfg.Epochs,
			BatchSize:       cfg.BatchSize,
			ValidationSplit: hp.ValidationSplit,
			Patience:        hp.Patience,
			MinDelta:        hp.MinDelta,
			Shuffle:         hp.Shuffle,
			Seed:            cfg.Seed,
			Logger:          logger,
		}
		if p.Observer != nil {
			r.Callbacks = append(r.Callbacks, p.Observer)
		}
		res, err := r.Run(ctx, m, opt, data.Train)
		if err != nil {
			return err
		}
		out.History, out.Interrupted, out.StoppedEarly = res.History, res.Interrupted, res.StoppedEarly
		return nil
	})
	if err != nil {
		return fail(err)
	}

	if p.Trained != nil {
		p.Trained()
	}
	// the remaining stages finish even after an interruption
	ctx = context.WithoutCancel(ctx)

	err = stage(ctx, "evaluate", func(context.Context) error {
		probs, err := m.Predict(data.Train.X)
		if err != nil {
			return err
		}
		if out.TrainAccuracy, err = evaluate.Accuracy(data.Train.Y, probs); err != nil {
			return err
		}
		if probs, err = m.Predict(data.Eval.X); err != nil {
			return err
		}
		if out.Evaluation, err = evaluate.Evaluate(data.Eval.Y, probs); err != nil {
			return err
		}
		if !out.Evaluation.ROC.Defined() {
			neg, pos := data.Eval.Classes()
			logger.Warn("roc is undefined, evaluation rows hold one class", "negative", neg, "positive", pos)
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}

	err = stage(ctx, "persist", func(context.Context) error {
		return p.persist(cfg, m, out, logger)
	})
	if err != nil {
		return fail(err)
	}
	logger.Info("experiment finished",
		"epochs", out.History.Len(),
		"interrupted", out.Interrupted,
		"train_accuracy", out.TrainAccuracy,
		"eval_accuracy", out.Evaluation.Accuracy,
		"auc", out.Evaluation.ROC.AUC)
	return out, nil
}

func (p Pipeline) persist(cfg config.Experiment, m model.Model, out *Outcome, logger *slog.Logger) error {
	a := ledger.Artifacts{Prefix: out.Prefix}
	err := a.Write(ledger.Run{History: out.History, Model: m, Evaluation: out.Evaluation, HeldOut: cfg.HeldOut})
	if cfg.MetricsTextfile {
		merr := a.WriteMetrics(ledger.Metrics{
			Representation: string(cfg.Representation),
			Architecture:   string(cfg.Architecture),
			Epochs:         out.History.Len(),
			Interrupted:    out.Interrupted,
			TrainAccuracy:  out.TrainAccuracy,
			EvalAccuracy:   out.Evaluation.Accuracy,
			AUC:            out.Evaluation.ROC.AUC,
			TPR:            out.Evaluation.TPR,
			FPR:            out.Evaluation.FPR,
			HeldOut:        cfg.HeldOut,
		})
		if err == nil {
			err = merr
		}
	}
	if !cfg.HeldOut {
		return err
	}
	lerr := ledger.Ledger{Path: cfg.LedgerPath}.Append(ledger.Record{
		RunID:           out.RunID,
		Timestamp:       p.now().UTC().Format(time.RFC3339),
		Architecture:    string(cfg.Architecture),
		HyperParameters: cfg.HyperParametersID,
		Representation:  string(cfg.Representation),
		TrainAccuracy:   out.TrainAccuracy,
		TestAccuracy:    out.Evaluation.Accuracy,
		AUC:             out.Evaluation.ROC.AUC,
		TPR:             out.Evaluation.TPR,
		FPR:             out.Evaluation.FPR,
	})
	if lerr == nil {
		out.LedgerAppended = true
		logger.Info("ledger appended", "path", cfg.LedgerPath)
	} else if err == nil {
		err = lerr
	}
	return err
}
