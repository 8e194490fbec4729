package trainer

import "math"

import "github.com/neurlang/textclf/model"

// EarlyStopping stops fitting after Patience consecutive epochs in which
// val_loss did not drop below best - MinDelta*|best|.
type EarlyStopping struct {
	Patience int
	MinDelta float64

	best      float64
	bestEpoch int
	wait      int
	stopped   bool
}

func (e *EarlyStopping) OnEpochEnd(epoch int, ep model.Epoch, h *model.History) bool {
	if e.bestEpoch == 0 || ep.ValLoss < e.best-e.MinDelta*math.Abs(e.best) {
		e.best, e.bestEpoch, e.wait = ep.ValLoss, epoch, 0
		return false
	}
	e.wait++
	if e.wait >= e.Patience {
		e.stopped = true
	}
	return e.stopped
}

// Stopped reports whether the callback ended fitting.
func (e *EarlyStopping) Stopped() bool {
	return e.stopped
}

// Best returns the lowest monitored val_loss and its 1-based epoch, or 0 before any epoch.
func (e *EarlyStopping) Best() (float64, int) {
	return e.best, e.bestEpoch
}
