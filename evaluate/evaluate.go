// Package evaluate scores predicted probabilities against binary labels.
package evaluate

import (
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/neurlang/textclf/errors"
)

// Threshold is the probability at which a prediction counts as positive.
const Threshold = 0.5

// ErrUndefinedROC is returned by ROCCurve when the labels hold one class only.
var ErrUndefinedROC = errors.New("roc needs both classes")

// ROC is a receiver operating characteristic curve. FPR and TPR are
// non-decreasing from 0 to 1; Thresholds[i] produced point i.
type ROC struct {
	FPR        []float64 `json:"fpr"`
	TPR        []float64 `json:"tpr"`
	Thresholds []float64 `json:"thresholds"`
	AUC        float64   `json:"auc"`
}

// Defined reports whether the curve has points. An undefined curve has a NaN AUC.
func (r ROC) Defined() bool {
	return len(r.FPR) > 0
}

// Confusion counts predictions at Threshold.
type Confusion struct {
	TP, FP, TN, FN int
}

// TPR is the true positive rate, 0 without positive labels.
func (c Confusion) TPR() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

// FPR is the false positive rate, 0 without negative labels.
func (c Confusion) FPR() float64 {
	if c.FP+c.TN == 0 {
		return 0
	}
	return float64(c.FP) / float64(c.FP+c.TN)
}

// Result bundles the evaluation of one prediction set.
type Result struct {
	Accuracy  float64
	ROC       ROC
	Confusion Confusion

	// TPR and FPR are taken at Threshold.
	TPR float64
	FPR float64
}

func check(labels, probs []float64) error {
	if len(labels) != len(probs) {
		return errors.Errorf("evaluate: %d labels but %d predictions", len(labels), len(probs))
	}
	if len(labels) == 0 {
		return errors.New("evaluate: no predictions")
	}
	return nil
}

// Accuracy is the share of predictions on the side of Threshold their label is on.
func Accuracy(labels, probs []float64) (float64, error) {
	c, err := ConfusionAt(labels, probs, Threshold)
	if err != nil {
		return 0, err
	}
	return float64(c.TP+c.TN) / float64(len(labels)), nil
}

// ConfusionAt counts predictions with p >= threshold as positive.
func ConfusionAt(labels, probs []float64, threshold float64) (c Confusion, err error) {
	if err := check(labels, probs); err != nil {
		return c, err
	}
	for i, p := range probs {
		positive := p >= threshold
		switch {
		case labels[i] == 1 && positive:
			c.TP++
		case labels[i] == 1:
			c.FN++
		case positive:
			c.FP++
		default:
			c.TN++
		}
	}
	return c, nil
}

// ROCCurve computes the curve over every distinct probability and its area by
// the trapezoidal rule. Both classes must be present.
func ROCCurve(labels, probs []float64) (ROC, error) {
	if err := check(labels, probs); err != nil {
		return ROC{}, err
	}
	y := append([]float64(nil), probs...)
	classes := make([]bool, len(labels))
	var positives int
	for i, l := range labels {
		classes[i] = l == 1
		if classes[i] {
			positives++
		}
	}
	if positives == 0 || positives == len(labels) {
		return ROC{}, errors.Wrapf(ErrUndefinedROC, "evaluate: %d positive of %d", positives, len(labels))
	}
	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, thresholds := stat.ROC(nil, y, classes, nil)
	for i, t := range thresholds {
		if math.IsInf(t, 1) {
			thresholds[i] = math.Nextafter(1, 2)
		}
	}
	return ROC{
		FPR:        fpr,
		TPR:        tpr,
		Thresholds: thresholds,
		AUC:        integrate.Trapezoidal(fpr, tpr),
	}, nil
}

// Evaluate computes accuracy, the ROC curve and the rates at Threshold.
// Labels of a single class leave the ROC undefined rather than failing.
func Evaluate(labels, probs []float64) (*Result, error) {
	c, err := ConfusionAt(labels, probs, Threshold)
	if err != nil {
		return nil, err
	}
	roc, err := ROCCurve(labels, probs)
	if errors.Is(err, ErrUndefinedROC) {
		roc = ROC{AUC: math.NaN()}
	} else if err != nil {
		return nil, err
	}
	return &Result{
		Accuracy:  float64(c.TP+c.TN) / float64(len(labels)),
		ROC:       roc,
		Confusion: c,
		TPR:       c.TPR(),
		FPR:       c.FPR(),
	}, nil
}
