package visualize

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/textclf/evaluate"
	"github.com/neurlang/textclf/model"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestCurves(t *testing.T) {
	for _, epochs := range []int{0, 1, 4} {
		var h model.History
		for i := 0; i < epochs; i++ {
			h.Append(model.Epoch{Loss: 1 / float64(i+1), ValLoss: 1.1 / float64(i+1), Accuracy: 0.5, ValAccuracy: 0.5})
		}
		var buf bytes.Buffer
		require.NoError(t, Curves(&buf, "loss", "loss", evaluate.LossCurves(&h)), "%d epochs", epochs)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

		buf.Reset()
		require.NoError(t, Curves(&buf, "accuracy", "accuracy", evaluate.AccuracyCurves(&h)), "%d epochs", epochs)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
	}
}

func TestROC(t *testing.T) {
	roc, err := evaluate.ROCCurve([]float64{0, 1, 0, 1}, []float64{0.2, 0.9, 0.1, 0.8})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, ROC(&buf, roc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	buf.Reset()
	require.NoError(t, ROC(&buf, evaluate.ROC{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}
