// Package storage decodes the numeric arrays a dataset is stored as.
package storage

// Store reads dataset arrays by path.
type Store interface {

	// Exists reports whether path names a readable artifact.
	Exists(path string) bool

	// ReadMatrix reads a two dimensional array as rows.
	ReadMatrix(path string) ([][]float64, error)

	// ReadVector reads a one dimensional array, or a single column.
	ReadVector(path string) ([]float64, error)

	// ReadSparse reads a CSR sparse matrix archive as dense rows.
	ReadSparse(path string) ([][]float64, error)
}
