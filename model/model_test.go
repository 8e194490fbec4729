package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryAppendFreeze(t *testing.T) {
	var h History
	_, ok := h.Last()
	assert.False(t, ok)
	h.Append(Epoch{Loss: 0.7})
	h.Append(Epoch{Loss: 0.5})
	assert.Equal(t, 2, h.Len())
	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, 0.5, last.Loss)

	h.Freeze()
	assert.True(t, h.Frozen())
	assert.Panics(t, func() { h.Append(Epoch{}) })
	assert.Equal(t, 2, h.Len())
}

func TestHistoryJSONKeys(t *testing.T) {
	var h History
	h.Append(Epoch{Loss: 0.6, Accuracy: 0.7, ValLoss: 0.65, ValAccuracy: 0.6})
	data, err := json.Marshal(&h)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"epochs", "loss", "accuracy", "val_loss", "val_accuracy"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, []interface{}{0.65}, raw["val_loss"])

	var back History
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, h.Epochs(), back.Epochs())
	assert.True(t, back.Frozen())
}

func TestEmptyHistoryJSON(t *testing.T) {
	data, err := json.Marshal(&History{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"epochs":0,"loss":[],"accuracy":[],"val_loss":[],"val_accuracy":[]}`, string(data))
}

func TestCallbackFunc(t *testing.T) {
	var seen int
	var c Callback = CallbackFunc(func(epoch int, e Epoch, h *History) bool {
		seen = epoch
		return epoch >= 2
	})
	assert.False(t, c.OnEpochEnd(1, Epoch{}, nil))
	assert.True(t, c.OnEpochEnd(2, Epoch{}, nil))
	assert.Equal(t, 2, seen)
}
