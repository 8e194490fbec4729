package storage

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sbinet/npyio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// rawNpy builds a version 1.0 .npy file around little endian data.
func rawNpy(descr string, fortran bool, shape string, data []byte) []byte {
	order := "False"
	if fortran {
		order = "True"
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': %s, }", descr, order, shape)
	if pad := 64 - (10+len(header)+1)%64; pad != 64 {
		header += strings.Repeat(" ", pad)
	}
	header += "\n"
	buf := []byte("\x93NUMPY\x01\x00")
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
	buf = append(buf, header...)
	return append(buf, data...)
}

func float64s(v ...float64) []byte {
	var b []byte
	for _, x := range v {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(x))
	}
	return b
}

func encode(t *testing.T, v interface{}) []byte {
	var buf bytes.Buffer
	require.NoError(t, npyio.Write(&buf, v))
	return buf.Bytes()
}

func TestDecodeMatrix(t *testing.T) {
	a, err := Decode(bytes.NewReader(encode(t, mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}))))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, a.Shape)
	rows, err := a.Rows()
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, rows)
}

func TestDecodeFortranOrder(t *testing.T) {
	raw := rawNpy("<f8", true, "(2, 3)", float64s(1, 4, 2, 5, 3, 6))
	a, err := Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, a.Data)
}

func TestDecodeIntegerTypes(t *testing.T) {
	a, err := Decode(bytes.NewReader(encode(t, []int32{3, -1, 7})))
	require.NoError(t, err)
	assert.Equal(t, []int{3}, a.Shape)
	assert.Equal(t, []float64{3, -1, 7}, a.Data)

	a, err = Decode(bytes.NewReader(encode(t, []int64{1 << 40})))
	require.NoError(t, err)
	assert.Equal(t, []float64{1 << 40}, a.Data)

	a, err = Decode(bytes.NewReader(rawNpy("|u1", false, "(4,)", []byte{0, 1, 2, 255})))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 255}, a.Data)

	a, err = Decode(bytes.NewReader(rawNpy("|b1", false, "(3,)", []byte{1, 0, 1})))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 1}, a.Data)

	a, err = Decode(bytes.NewReader(encode(t, []float32{0.5, 2})))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 2}, a.Data)
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode(bytes.NewReader(rawNpy("<c16", false, "(1,)", make([]byte, 16))))
	assert.Error(t, err)
	_, err = Decode(strings.NewReader("not numpy"))
	assert.Error(t, err)
}

func TestNumpyFiles(t *testing.T) {
	dir := t.TempDir()
	matrix := filepath.Join(dir, "x.npy")
	column := filepath.Join(dir, "y.npy")
	require.NoError(t, os.WriteFile(matrix, encode(t, mat.NewDense(2, 2, []float64{1, 0, 0, 1})), 0644))
	require.NoError(t, os.WriteFile(column, encode(t, mat.NewDense(3, 1, []float64{0, 1, 1})), 0644))

	var s Store = Numpy{}
	assert.True(t, s.Exists(matrix))
	assert.False(t, s.Exists(filepath.Join(dir, "missing.npy")))
	assert.False(t, s.Exists(dir))

	m, err := s.ReadMatrix(matrix)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, m)

	v, err := s.ReadVector(column)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 1}, v)

	_, err = s.ReadVector(matrix)
	assert.Error(t, err)
	_, err = s.ReadMatrix(filepath.Join(dir, "missing.npy"))
	assert.Error(t, err)
}

func writeNpz(t *testing.T, path string, members map[string][]byte) {
	f, err := os.Create(path)
	require.NoError(t, err)
	z := zip.NewWriter(f)
	for name, data := range members {
		w, err := z.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, z.Close())
	require.NoError(t, f.Close())
}

func TestReadSparse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x_train.npz")
	// [[0 2 0], [0 0 0], [1 0 3]]
	writeNpz(t, path, map[string][]byte{
		"data.npy":    encode(t, []float64{2, 1, 3}),
		"indices.npy": encode(t, []int32{1, 0, 2}),
		"indptr.npy":  encode(t, []int32{0, 1, 1, 3}),
		"shape.npy":   encode(t, []int64{3, 3}),
		"format.npy":  rawNpy("|S3", false, "()", []byte("csr")),
	})
	m, err := Numpy{}.ReadSparse(path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 2, 0}, {0, 0, 0}, {1, 0, 3}}, m)
}

func TestReadSparseInvalid(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.npz")
	writeNpz(t, missing, map[string][]byte{"data.npy": encode(t, []float64{1})})
	_, err := Numpy{}.ReadSparse(missing)
	assert.Error(t, err)

	outOfRange := filepath.Join(dir, "range.npz")
	writeNpz(t, outOfRange, map[string][]byte{
		"data.npy":    encode(t, []float64{1}),
		"indices.npy": encode(t, []int32{5}),
		"indptr.npy":  encode(t, []int32{0, 1}),
		"shape.npy":   encode(t, []int64{1, 2}),
	})
	_, err = Numpy{}.ReadSparse(outOfRange)
	assert.Error(t, err)
}
