// Package datasets loads the feature matrices and labels of an experiment.
package datasets

import "math"
import "math/rand"

// Split is a set of feature rows and their binary labels.
type Split struct {
	X [][]float64
	Y []float64
}

// Len is the number of rows.
func (s Split) Len() int {
	return len(s.Y)
}

// Width is the number of columns, zero for an empty split.
func (s Split) Width() int {
	if len(s.X) == 0 {
		return 0
	}
	return len(s.X[0])
}

// Head returns the first n rows. It returns s when it has no more than n rows.
func (s Split) Head(n int) Split {
	if n >= s.Len() {
		return s
	}
	return Split{X: s.X[:n:n], Y: s.Y[:n:n]}
}

// Classes counts the negative and positive labels.
func (s Split) Classes() (negative, positive int) {
	for _, y := range s.Y {
		if y == 1 {
			positive++
		} else {
			negative++
		}
	}
	return
}

func (s Split) pick(rows []int) Split {
	out := Split{X: make([][]float64, len(rows)), Y: make([]float64, len(rows))}
	for i, r := range rows {
		out.X[i], out.Y[i] = s.X[r], s.Y[r]
	}
	return out
}

// SplitValidation shuffles s with the seed and holds out the last round(fraction * n) rows.
func SplitValidation(s Split, fraction float64, seed uint32) (train, validation Split) {
	n := s.Len()
	held := int(math.Round(fraction * float64(n)))
	order := rand.New(rand.NewSource(int64(seed))).Perm(n)
	return s.pick(order[:n-held]), s.pick(order[n-held:])
}

// Dataset is everything one run trains and evaluates on.
type Dataset struct {
	Train Split

	// Eval is the validation split, or the test split for held-out runs.
	Eval Split

	// Embedding is the pretrained embedding matrix, one row per token.
	Embedding [][]float64

	Source Source

	// MaxToken is the largest token index in the loaded rows of token families.
	MaxToken int

	HeldOut bool
}
