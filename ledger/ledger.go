// Package ledger persists the artifacts of a run and appends held-out runs to
// a results ledger shared between runs.
package ledger

import (
	"bytes"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/neurlang/textclf/errors"
)

// Record is one ledger row. TPR and FPR are taken at the 0.5 threshold.
type Record struct {
	RunID           string  `csv:"run_id"`
	Timestamp       string  `csv:"timestamp"`
	Architecture    string  `csv:"architecture"`
	HyperParameters string  `csv:"hyperparameters"`
	Representation  string  `csv:"representation"`
	TrainAccuracy   float64 `csv:"train_accuracy"`
	TestAccuracy    float64 `csv:"test_accuracy"`
	AUC             float64 `csv:"auc"`
	TPR             float64 `csv:"tpr"`
	FPR             float64 `csv:"fpr"`
}

// Ledger is an append-only CSV file.
type Ledger struct {
	Path string
}

// Append adds one row. The file is created with a header when missing or
// empty. The row is written with a single write under an exclusive lock.
func (l Ledger) Append(r Record) error {
	f, err := os.OpenFile(l.Path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := lock(f); err != nil {
		return errors.Wrapf(err, "lock %s", l.Path)
	}
	defer unlock(f)

	st, err := f.Stat()
	if err != nil {
		return err
	}
	rows := []*Record{&r}
	var buf bytes.Buffer
	if st.Size() == 0 {
		err = gocsv.Marshal(rows, &buf)
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, &buf)
	}
	if err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		return errors.Wrapf(err, "append %s", l.Path)
	}
	return nil
}

// Records reads every row. A missing ledger has none.
func (l Ledger) Records() ([]*Record, error) {
	f, err := os.Open(l.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rows []*Record
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read %s", l.Path)
	}
	return rows, nil
}
