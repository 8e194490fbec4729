package storage

import (
	"archive/zip"
	"io"
	"os"
	"strings"

	"github.com/sbinet/npyio"

	"github.com/neurlang/textclf/errors"
)

// Numpy reads .npy arrays and scipy .npz CSR archives from the file system.
type Numpy struct{}

var _ Store = Numpy{}

// Array is a decoded array in C order.
type Array struct {
	Shape []int
	Data  []float64
}

func (Numpy) Exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func (Numpy) ReadMatrix(path string) ([][]float64, error) {
	a, err := readFile(path)
	if err != nil {
		return nil, err
	}
	m, err := a.Rows()
	return m, errors.Wrapf(err, "%s", path)
}

func (Numpy) ReadVector(path string) ([]float64, error) {
	a, err := readFile(path)
	if err != nil {
		return nil, err
	}
	switch {
	case len(a.Shape) == 1:
	case len(a.Shape) == 2 && a.Shape[1] == 1:
	default:
		return nil, errors.Errorf("%s: shape %v is not a vector", path, a.Shape)
	}
	return a.Data, nil
}

func (Numpy) ReadSparse(path string) ([][]float64, error) {
	z, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer z.Close()
	m, err := DecodeCSR(&z.Reader)
	return m, errors.Wrapf(err, "%s", path)
}

func readFile(path string) (*Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	a, err := Decode(f)
	return a, errors.Wrapf(err, "%s", path)
}

// Rows splits a two dimensional array into rows.
func (a *Array) Rows() ([][]float64, error) {
	if len(a.Shape) != 2 {
		return nil, errors.Errorf("shape %v is not a matrix", a.Shape)
	}
	rows, cols := a.Shape[0], a.Shape[1]
	out := make([][]float64, rows)
	for i := range out {
		out[i] = a.Data[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return out, nil
}

// Decode reads one .npy array and converts it to float64.
func Decode(r io.Reader) (*Array, error) {
	npy, err := npyio.NewReader(r)
	if err != nil {
		return nil, err
	}
	shape := append([]int(nil), npy.Header.Descr.Shape...)
	n := 1
	for _, d := range shape {
		n *= d
	}
	data, err := read(npy, strings.TrimLeft(npy.Header.Descr.Type, "<>|="), n)
	if err != nil {
		return nil, err
	}
	if npy.Header.Descr.Fortran && len(shape) == 2 {
		data = transpose(data, shape[0], shape[1])
	} else if npy.Header.Descr.Fortran && len(shape) > 2 {
		return nil, errors.Errorf("fortran order with %d dimensions", len(shape))
	}
	return &Array{Shape: shape, Data: data}, nil
}

// transpose turns column major rows x cols data into row major.
func transpose(data []float64, rows, cols int) []float64 {
	out := make([]float64, len(data))
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			out[r*cols+c] = data[c*rows+r]
		}
	}
	return out
}

func read(npy *npyio.Reader, dtype string, n int) ([]float64, error) {
	out := make([]float64, n)
	switch dtype {
	case "f8":
		if err := npy.Read(&out); err != nil {
			return nil, err
		}
		return out, nil
	case "f4":
		v := make([]float32, n)
		if err := npy.Read(&v); err != nil {
			return nil, err
		}
		for i, x := range v {
			out[i] = float64(x)
		}
	case "i8":
		v := make([]int64, n)
		if err := npy.Read(&v); err != nil {
			return nil, err
		}
		for i, x := range v {
			out[i] = float64(x)
		}
	case "i4":
		v := make([]int32, n)
		if err := npy.Read(&v); err != nil {
			return nil, err
		}
		for i, x := range v {
			out[i] = float64(x)
		}
	case "i2":
		v := make([]int16, n)
		if err := npy.Read(&v); err != nil {
			return nil, err
		}
		for i, x := range v {
			out[i] = float64(x)
		}
	case "i1":
		v := make([]int8, n)
		if err := npy.Read(&v); err != nil {
			return nil, err
		}
		for i, x := range v {
			out[i] = float64(x)
		}
	case "u1":
		v := make([]uint8, n)
		if err := npy.Read(&v); err != nil {
			return nil, err
		}
		for i, x := range v {
			out[i] = float64(x)
		}
	case "b1":
		v := make([]bool, n)
		if err := npy.Read(&v); err != nil {
			return nil, err
		}
		for i, x := range v {
			if x {
				out[i] = 1
			}
		}
	default:
		return nil, errors.Errorf("unsupported dtype %q", npy.Header.Descr.Type)
	}
	return out, nil
}
