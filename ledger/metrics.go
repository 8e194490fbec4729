package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the final gauges of a run.
type Metrics struct {
	Representation string
	Architecture   string
	Epochs         int
	Interrupted    bool
	TrainAccuracy  float64
	EvalAccuracy   float64
	AUC            float64
	TPR            float64
	FPR            float64
	HeldOut        bool
}

// WriteMetrics writes m in the Prometheus text format for the node exporter textfile collector.
func (a Artifacts) WriteMetrics(m Metrics) error {
	reg := prometheus.NewRegistry()
	labels := []string{"representation", "architecture"}
	gauge := func(name, help string) *prometheus.GaugeVec {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "textclf", Name: name, Help: help}, labels)
		reg.MustRegister(g)
		return g
	}
	values := []string{m.Representation, m.Architecture}

	accuracy := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "textclf",
		Name:      "accuracy",
		Help:      "Accuracy at the 0.5 threshold by split.",
	}, append(labels, "split"))
	reg.MustRegister(accuracy)
	eval := "validation"
	if m.HeldOut {
		eval = "test"
	}
	accuracy.WithLabelValues(append(values, "train")...).Set(m.TrainAccuracy)
	accuracy.WithLabelValues(append(values, eval)...).Set(m.EvalAccuracy)

	gauge("auc", "Area under the ROC curve of the evaluation split.").WithLabelValues(values...).Set(m.AUC)
	gauge("tpr", "True positive rate at the 0.5 threshold.").WithLabelValues(values...).Set(m.TPR)
	gauge("fpr", "False positive rate at the 0.5 threshold.").WithLabelValues(values...).Set(m.FPR)
	gauge("epochs", "Completed training epochs.").WithLabelValues(values...).Set(float64(m.Epochs))
	interrupted := 0.0
	if m.Interrupted {
		interrupted = 1
	}
	gauge("interrupted", "1 when training was interrupted.").WithLabelValues(values...).Set(interrupted)

	return prometheus.WriteToTextfile(a.MetricsPath(), reg)
}
