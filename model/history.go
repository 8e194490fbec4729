package model

import "encoding/json"

// Epoch holds the metrics of one completed epoch.
type Epoch struct {
	Loss        float64
	Accuracy    float64
	ValLoss     float64
	ValAccuracy float64
}

// History is the append-only record of completed epochs. Once frozen it can no longer grow.
type History struct {
	epochs []Epoch
	frozen bool
}

// Append records an epoch. It panics on a frozen history.
func (h *History) Append(e Epoch) {
	if h.frozen {
		panic("model: append to frozen history")
	}
	h.epochs = append(h.epochs, e)
}

// Freeze ends the history.
func (h *History) Freeze() {
	h.frozen = true
}

func (h *History) Frozen() bool {
	return h.frozen
}

func (h *History) Len() int {
	return len(h.epochs)
}

// Epochs returns a copy of the recorded epochs.
func (h *History) Epochs() []Epoch {
	return append([]Epoch(nil), h.epochs...)
}

// Last returns the most recent epoch, or false when there is none.
func (h *History) Last() (Epoch, bool) {
	if len(h.epochs) == 0 {
		return Epoch{}, false
	}
	return h.epochs[len(h.epochs)-1], true
}

type historyJSON struct {
	Epochs      int       `json:"epochs"`
	Loss        []float64 `json:"loss"`
	Accuracy    []float64 `json:"accuracy"`
	ValLoss     []float64 `json:"val_loss"`
	ValAccuracy []float64 `json:"val_accuracy"`
}

// MarshalJSON writes one array per metric.
func (h *History) MarshalJSON() ([]byte, error) {
	out := historyJSON{
		Epochs:      len(h.epochs),
		Loss:        make([]float64, 0, len(h.epochs)),
		Accuracy:    make([]float64, 0, len(h.epochs)),
		ValLoss:     make([]float64, 0, len(h.epochs)),
		ValAccuracy: make([]float64, 0, len(h.epochs)),
	}
	for _, e := range h.epochs {
		out.Loss = append(out.Loss, e.Loss)
		out.Accuracy = append(out.Accuracy, e.Accuracy)
		out.ValLoss = append(out.ValLoss, e.ValLoss)
		out.ValAccuracy = append(out.ValAccuracy, e.ValAccuracy)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a history written by MarshalJSON. The result is frozen.
func (h *History) UnmarshalJSON(data []byte) error {
	var in historyJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	h.epochs = h.epochs[:0]
	for i := range in.Loss {
		e := Epoch{Loss: in.Loss[i]}
		if i < len(in.Accuracy) {
			e.Accuracy = in.Accuracy[i]
		}
		if i < len(in.ValLoss) {
			e.ValLoss = in.ValLoss[i]
		}
		if i < len(in.ValAccuracy) {
			e.ValAccuracy = in.ValAccuracy[i]
		}
		h.epochs = append(h.epochs, e)
	}
	h.frozen = true
	return nil
}
