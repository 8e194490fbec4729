package ledger

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/neurlang/textclf/errors"
	"github.com/neurlang/textclf/evaluate"
	"github.com/neurlang/textclf/model"
	"github.com/neurlang/textclf/visualize"
)

// Prefix names the artifacts of a run.
func Prefix(output, representation, architecture string) string {
	return output + representation + "_" + architecture
}

// Artifacts writes the files of one run next to Prefix.
type Artifacts struct {
	Prefix string

	// PlotExt defaults to "png".
	PlotExt string
}

func (a Artifacts) ext() string {
	if a.PlotExt == "" {
		return "png"
	}
	return a.PlotExt
}

func (a Artifacts) HistoryPath() string  { return a.Prefix + "_history.json" }
func (a Artifacts) LossPlot() string     { return a.Prefix + "_loss." + a.ext() }
func (a Artifacts) AccuracyPlot() string { return a.Prefix + "_acc." + a.ext() }
func (a Artifacts) AUCPlot() string      { return a.Prefix + "_auc." + a.ext() }
func (a Artifacts) ModelPath() string    { return a.Prefix + "_model" }
func (a Artifacts) ROCPath() string      { return a.Prefix + ".auc.json" }
func (a Artifacts) MetricsPath() string  { return a.Prefix + ".prom" }

// Run is what a finished run persists.
type Run struct {
	History    *model.History
	Model      model.Model
	Evaluation *evaluate.Result

	// HeldOut adds the ROC snapshot.
	HeldOut bool
}

// Snapshot is the ROC file of a held-out run. AUC is null when the test
// labels hold one class.
type Snapshot struct {
	AUC        *float64  `json:"auc"`
	TPR        []float64 `json:"tpr"`
	FPR        []float64 `json:"fpr"`
	Thresholds []float64 `json:"thresholds"`
}

// Write writes every artifact of r. Artifacts are independent: each is
// attempted and the first error is returned.
func (a Artifacts) Write(r Run) error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	keep(WriteFile(a.HistoryPath(), func(w io.Writer) error {
		return json.NewEncoder(w).Encode(r.History)
	}))
	keep(WriteFile(a.LossPlot(), func(w io.Writer) error {
		return visualize.Curves(w, "loss", "loss", evaluate.LossCurves(r.History))
	}))
	keep(WriteFile(a.AccuracyPlot(), func(w io.Writer) error {
		return visualize.Curves(w, "accuracy", "accuracy", evaluate.AccuracyCurves(r.History))
	}))
	keep(WriteFile(a.AUCPlot(), func(w io.Writer) error {
		var roc evaluate.ROC
		if r.Evaluation != nil {
			roc = r.Evaluation.ROC
		}
		return visualize.ROC(w, roc)
	}))
	keep(WriteFile(a.ModelPath(), r.Model.Save))
	if r.HeldOut && r.Evaluation != nil {
		roc := r.Evaluation.ROC
		s := Snapshot{TPR: roc.TPR, FPR: roc.FPR, Thresholds: roc.Thresholds}
		if roc.Defined() {
			s.AUC = &roc.AUC
		}
		keep(WriteFile(a.ROCPath(), func(w io.Writer) error {
			return json.NewEncoder(w).Encode(s)
		}))
	}
	return first
}

// WriteFile writes path through a temporary file in the same directory and
// renames it into place, so path is either absent, the old file or complete.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			err = errors.Wrapf(err, "write %s", path)
		}
	}()
	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
