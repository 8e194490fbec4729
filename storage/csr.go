package storage

import (
	"archive/zip"

	"github.com/neurlang/textclf/errors"
)

// DecodeCSR densifies a matrix saved by scipy.sparse.save_npz in CSR format.
func DecodeCSR(z *zip.Reader) ([][]float64, error) {
	arrays := map[string]*Array{}
	for _, f := range z.File {
		name := f.Name
		switch name {
		case "data.npy", "indices.npy", "indptr.npy", "shape.npy":
		default:
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		a, err := Decode(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "member %s", name)
		}
		arrays[name] = a
	}
	for _, name := range []string{"data.npy", "indices.npy", "indptr.npy", "shape.npy"} {
		if arrays[name] == nil {
			return nil, errors.Errorf("missing member %s", name)
		}
	}
	data := arrays["data.npy"].Data
	indices := arrays["indices.npy"].Data
	indptr := arrays["indptr.npy"].Data
	shape := arrays["shape.npy"].Data
	if len(shape) != 2 {
		return nil, errors.Errorf("shape %v is not a matrix", shape)
	}
	rows, cols := int(shape[0]), int(shape[1])
	if len(indptr) != rows+1 || len(indices) != len(data) || int(indptr[rows]) != len(data) {
		return nil, errors.Errorf("inconsistent csr arrays: %d rows, %d indptr, %d indices, %d values",
			rows, len(indptr), len(indices), len(data))
	}

	dense := make([]float64, rows*cols)
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		row := dense[r*cols : (r+1)*cols : (r+1)*cols]
		lo, hi := int(indptr[r]), int(indptr[r+1])
		if lo > hi || hi > len(data) {
			return nil, errors.Errorf("row %d has pointers %d..%d", r, lo, hi)
		}
		for k := lo; k < hi; k++ {
			c := int(indices[k])
			if c < 0 || c >= cols {
				return nil, errors.Errorf("row %d column %d out of range %d", r, c, cols)
			}
			row[c] += data[k]
		}
		out[r] = row
	}
	return out, nil
}
