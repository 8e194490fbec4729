package datasets

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/neurlang/textclf/config"
	"github.com/neurlang/textclf/errors"
	"github.com/neurlang/textclf/storage"
)

// ValidationFraction is the share of rows held out when no test set is used.
const ValidationFraction = 0.1

// Source is the resolved location of a dataset.
type Source struct {
	Dir             string
	Sparse          bool
	Train           string
	TrainLabels     string
	Test            string
	TestLabels      string
	EmbeddingMatrix string
}

// Locate resolves where the representation of cfg is stored under root.
func Locate(root string, cfg config.Experiment) Source {
	var dir string
	ext := ".npy"
	switch cfg.Family {
	case config.FamilySparse:
		ext = ".npz"
		dir = filepath.Join(root, string(cfg.Representation),
			fmt.Sprintf("ngram_%d_%d_vocab_%d", cfg.NgramMin, cfg.NgramMax, cfg.VocabSize))
	case config.FamilyPretrained:
		dir = filepath.Join(root, string(cfg.Representation),
			fmt.Sprintf("vocab_%d_dim_%d", cfg.VocabSize, cfg.EmbeddingDim))
	default:
		dir = filepath.Join(root, string(cfg.Representation), fmt.Sprintf("vocab_%d", cfg.VocabSize))
	}
	s := Source{
		Dir:         dir,
		Sparse:      cfg.Family == config.FamilySparse,
		Train:       filepath.Join(dir, "x_train"+ext),
		TrainLabels: filepath.Join(dir, "y_train.npy"),
		Test:        filepath.Join(dir, "x_test"+ext),
		TestLabels:  filepath.Join(dir, "y_test.npy"),
	}
	if cfg.Family == config.FamilyPretrained {
		s.EmbeddingMatrix = filepath.Join(dir, "embedding_matrix.npy")
	}
	return s
}

// Required lists the artifacts a run needs, in the order they are checked.
func (s Source) Required(heldOut bool) []string {
	paths := []string{s.Train, s.TrainLabels}
	if heldOut {
		paths = append(paths, s.Test, s.TestLabels)
	}
	if s.EmbeddingMatrix != "" {
		paths = append(paths, s.EmbeddingMatrix)
	}
	return paths
}

// Loader loads datasets through a Store.
type Loader struct {
	Store storage.Store

	// Root overrides the data root of the experiment when set.
	Root string

	Logger *slog.Logger
}

func (l Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// Load checks the allow-lists, resolves the source, reads it, splits it and
// applies the training subset cap.
func (l Loader) Load(cfg config.Experiment) (*Dataset, error) {
	if err := config.CheckAllowLists(cfg); err != nil {
		return nil, err
	}
	root := l.Root
	if root == "" {
		root = cfg.DataRoot
	}
	src := Locate(root, cfg)
	for _, p := range src.Required(cfg.HeldOut) {
		if !l.Store.Exists(p) {
			return nil, errors.DataNotFoundf("%s", p)
		}
	}

	all, err := l.read(src, src.Train, src.TrainLabels)
	if err != nil {
		return nil, err
	}
	d := &Dataset{Source: src, HeldOut: cfg.HeldOut}
	if cfg.HeldOut {
		test, err := l.read(src, src.Test, src.TestLabels)
		if err != nil {
			return nil, err
		}
		if test.Width() != all.Width() {
			return nil, errors.Errorf("%s has %d columns, %s has %d", src.Test, test.Width(), src.Train, all.Width())
		}
		d.Train, d.Eval = all, test
	} else {
		d.Train, d.Eval = SplitValidation(all, ValidationFraction, cfg.Seed)
	}

	if cfg.Family.Tokens() {
		if d.MaxToken, err = maxToken(d.Train.X, d.Eval.X); err != nil {
			return nil, err
		}
	}
	if src.EmbeddingMatrix != "" {
		if d.Embedding, err = l.embedding(src.EmbeddingMatrix, cfg.EmbeddingDim, d.MaxToken); err != nil {
			return nil, err
		}
	}

	loaded := d.Train.Len()
	if cfg.Subset > 0 {
		d.Train = d.Train.Head(cfg.Subset)
	}
	neg, pos := d.Train.Classes()
	l.logger().Info("dataset loaded",
		"source", src.Dir,
		"rows", loaded,
		"train", d.Train.Len(),
		"eval", d.Eval.Len(),
		"width", d.Train.Width(),
		"negative", neg,
		"positive", pos,
		"held_out", cfg.HeldOut)
	return d, nil
}

func (l Loader) read(src Source, features, labels string) (Split, error) {
	var x [][]float64
	var err error
	if src.Sparse {
		x, err = l.Store.ReadSparse(features)
	} else {
		x, err = l.Store.ReadMatrix(features)
	}
	if err != nil {
		return Split{}, errors.Wrapf(err, "read %s", features)
	}
	y, err := l.Store.ReadVector(labels)
	if err != nil {
		return Split{}, errors.Wrapf(err, "read %s", labels)
	}
	if len(x) != len(y) {
		return Split{}, errors.Errorf("%s has %d rows but %s has %d labels", features, len(x), labels, len(y))
	}
	if len(x) == 0 {
		return Split{}, errors.Errorf("%s is empty", features)
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return Split{}, errors.Errorf("%s: label %d is %v, want 0 or 1", labels, i, v)
		}
	}
	return Split{X: x, Y: y}, nil
}

func maxToken(splits ...[][]float64) (int, error) {
	max := 0
	for _, rows := range splits {
		for i, row := range rows {
			for _, v := range row {
				if v < 0 || v != math.Trunc(v) {
					return 0, errors.Errorf("row %d holds %v, want a token index", i, v)
				}
				if int(v) > max {
					max = int(v)
				}
			}
		}
	}
	return max, nil
}

func (l Loader) embedding(path string, dim, maxToken int) ([][]float64, error) {
	m, err := l.Store.ReadMatrix(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if len(m) == 0 || len(m[0]) != dim {
		width := 0
		if len(m) > 0 {
			width = len(m[0])
		}
		return nil, errors.InvalidConfigf("%s has %d columns, embedding dimension is %d", path, width, dim)
	}
	if maxToken >= len(m) {
		return nil, errors.InvalidConfigf("token index %d is outside the %d rows of %s", maxToken, len(m), path)
	}
	return m, nil
}
