// Package config resolves the command line arguments and the hyperparameter
// file of one experiment into a validated Experiment.
package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/neurlang/textclf/errors"
	"github.com/neurlang/textclf/learning"
)

// Args are the experiment arguments as given on the command line.
type Args struct {
	Representation     string  `arg:"--representation,required" help:"feature representation: count, tfidf, word, embedding or pretrained" validate:"required"`
	Output             string  `arg:"--output" help:"prefix of the output artifacts"`
	Epochs             int     `arg:"--epochs,required" help:"number of training epochs" validate:"gt=0"`
	Architecture       string  `arg:"--architecture,required" help:"ffnn, cnn, bcnn, rnn, rcnn, brnn or brcnn" validate:"required"`
	HyperParameters    string  `arg:"--hyperparameters,required" help:"YAML or JSON hyperparameter file" validate:"required"`
	Optimizer          string  `arg:"--optimizer" default:"adam" help:"adam or sgd"`
	LearningRate       float64 `arg:"--learning-rate" default:"0.01" validate:"gt=0"`
	Test               bool    `arg:"--test" help:"train on all rows and evaluate on the held-out test set"`
	VocabSize          int     `arg:"--vocab-size" default:"5000" validate:"gte=0"`
	EmbeddingDim       int     `arg:"--embedding-dim" default:"50" validate:"gte=0"`
	NgramMin           int     `arg:"--ngram-min" default:"1" validate:"gte=0"`
	NgramMax           int     `arg:"--ngram-max" default:"1" validate:"gte=0"`
	EmbeddingTrainable bool    `arg:"--embedding-trainable" default:"true" help:"keep training a pretrained embedding"`
	Subset             int     `arg:"--subset" default:"20000" help:"cap on training rows, 0 for none" validate:"gte=0"`
	BatchSize          int     `arg:"--batch-size" default:"32" validate:"gt=0"`
	DataRoot           string  `arg:"--data-root" default:"data" help:"dataset root directory"`
	Ledger             string  `arg:"--ledger" default:"results.csv" help:"results ledger appended by held-out runs"`
	Seed               uint32  `arg:"--seed" default:"1"`
	Threads            int     `arg:"--threads" help:"training workers, 0 for every logical core" validate:"gte=0"`
	MetricsTextfile    bool    `arg:"--metrics-textfile" help:"also write <prefix>.prom"`
	Resume             string  `arg:"--resume" help:"load the weights of a saved model before training"`
	CPUProfile         string  `arg:"--cpuprofile" help:"write a CPU profile to this file"`
	LogFormat          string  `arg:"--log-format" default:"text" help:"text or json" validate:"omitempty,oneof=text json"`
	Verbose            bool    `arg:"-v,--verbose" help:"debug logging"`
}

// DefaultArgs returns the command line defaults.
func DefaultArgs() Args {
	return Args{
		Optimizer:          string(Adam),
		LearningRate:       0.01,
		VocabSize:          5000,
		EmbeddingDim:       50,
		NgramMin:           1,
		NgramMax:           1,
		EmbeddingTrainable: true,
		Subset:             20000,
		BatchSize:          32,
		DataRoot:           "data",
		Ledger:             "results.csv",
		Seed:               1,
		LogFormat:          "text",
	}
}

// Experiment is the resolved configuration of one run.
type Experiment struct {
	Representation Representation
	Family         Family
	Architecture   Architecture
	OutputPrefix   string
	Epochs         int

	HyperParametersPath string
	HyperParametersID   string
	HyperParameters     learning.HyperParameters

	Optimizer    OptimizerKind
	LearningRate float64
	BatchSize    int

	VocabSize          int
	EmbeddingDim       int
	NgramMin           int
	NgramMax           int
	EmbeddingTrainable bool

	// Subset caps the training rows when positive.
	Subset int

	// HeldOut trains on every loaded row and evaluates on the test pair.
	HeldOut bool

	// ResumeFrom is a saved model whose weights are loaded before training.
	ResumeFrom string

	DataRoot        string
	LedgerPath      string
	Seed            uint32
	Threads         int
	MetricsTextfile bool
}

var validate = validator.New()

// withDefaults fills the paths a caller may leave empty. Every other field is
// taken as given, so an explicit zero is validated rather than replaced.
func withDefaults(a Args) Args {
	d := DefaultArgs()
	if a.DataRoot == "" {
		a.DataRoot = d.DataRoot
	}
	if a.Ledger == "" {
		a.Ledger = d.Ledger
	}
	return a
}

// Resolve validates the arguments, reads the hyperparameter file and returns
// the experiment. Every failure is an ErrInvalidConfig.
func Resolve(a Args) (Experiment, error) {
	a = withDefaults(a)
	if err := validate.Struct(a); err != nil {
		return Experiment{}, errors.InvalidConfigf("arguments: %v", err)
	}

	e := Experiment{
		Representation:      Representation(a.Representation),
		Family:              Representation(a.Representation).Family(),
		Architecture:        Architecture(a.Architecture),
		OutputPrefix:        a.Output,
		Epochs:              a.Epochs,
		HyperParametersPath: a.HyperParameters,
		HyperParametersID:   learning.FileID(a.HyperParameters),
		Optimizer:           OptimizerKind(a.Optimizer),
		LearningRate:        a.LearningRate,
		BatchSize:           a.BatchSize,
		VocabSize:           a.VocabSize,
		EmbeddingDim:        a.EmbeddingDim,
		NgramMin:            a.NgramMin,
		NgramMax:            a.NgramMax,
		EmbeddingTrainable:  a.EmbeddingTrainable,
		Subset:              a.Subset,
		HeldOut:             a.Test,
		ResumeFrom:          a.Resume,
		DataRoot:            a.DataRoot,
		LedgerPath:          a.Ledger,
		Seed:                a.Seed,
		Threads:             a.Threads,
		MetricsTextfile:     a.MetricsTextfile,
	}
	if err := e.checkEnums(); err != nil {
		return Experiment{}, err
	}
	if err := CheckAllowLists(e); err != nil {
		return Experiment{}, err
	}

	hp, err := learning.ReadHyperParameters(a.HyperParameters)
	if err != nil {
		return Experiment{}, err
	}
	e.HyperParameters = hp
	if hp.BatchSize > 0 {
		e.BatchSize = hp.BatchSize
	}
	return e, nil
}

func (e Experiment) checkEnums() error {
	switch e.Optimizer {
	case Adam, SGD:
	default:
		return errors.InvalidConfigf("optimizer %q is not adam or sgd", e.Optimizer)
	}
	if e.Family == "" {
		return errors.InvalidConfigf("unknown representation %q", e.Representation)
	}
	for _, a := range Architectures {
		if a == e.Architecture {
			return nil
		}
	}
	return errors.InvalidConfigf("unknown architecture %q", e.Architecture)
}

// CheckAllowLists checks the vocabulary size, embedding dimension and n-gram
// range against what the representation supports.
func CheckAllowLists(e Experiment) error {
	list, ok := allowLists[e.Representation]
	if !ok {
		return errors.InvalidConfigf("unknown representation %q", e.Representation)
	}
	if !contains(list.vocab, e.VocabSize) {
		return errors.InvalidConfigf("vocabulary size %d is not supported by %s, want one of %v",
			e.VocabSize, e.Representation, list.vocab)
	}
	if list.embeddingDim != nil && !contains(list.embeddingDim, e.EmbeddingDim) {
		return errors.InvalidConfigf("embedding dimension %d is not supported by %s, want one of %v",
			e.EmbeddingDim, e.Representation, list.embeddingDim)
	}
	if e.Family == FamilySparse && (e.NgramMin < 1 || e.NgramMax < e.NgramMin || e.NgramMax > 3) {
		return errors.InvalidConfigf("n-gram range %d..%d must satisfy 1 <= min <= max <= 3", e.NgramMin, e.NgramMax)
	}
	return nil
}
