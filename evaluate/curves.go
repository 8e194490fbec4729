package evaluate

import "github.com/neurlang/textclf/model"

// Series is one named curve.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

func curves(h *model.History, names [2]string, pick func(model.Epoch) (float64, float64)) []Series {
	out := []Series{{Name: names[0]}, {Name: names[1]}}
	for i, e := range h.Epochs() {
		a, b := pick(e)
		x := float64(i + 1)
		out[0].X, out[0].Y = append(out[0].X, x), append(out[0].Y, a)
		out[1].X, out[1].Y = append(out[1].X, x), append(out[1].Y, b)
	}
	return out
}

// LossCurves returns the training and validation loss by epoch.
func LossCurves(h *model.History) []Series {
	return curves(h, [2]string{"loss", "val_loss"}, func(e model.Epoch) (float64, float64) {
		return e.Loss, e.ValLoss
	})
}

// AccuracyCurves returns the training and validation accuracy by epoch.
func AccuracyCurves(h *model.History) []Series {
	return curves(h, [2]string{"accuracy", "val_accuracy"}, func(e model.Epoch) (float64, float64) {
		return e.Accuracy, e.ValAccuracy
	})
}

// ROCSeries returns the curve as TPR over FPR.
func ROCSeries(r ROC) Series {
	return Series{Name: "roc", X: r.FPR, Y: r.TPR}
}
