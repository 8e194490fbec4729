// Package storagetest provides an in-memory storage.Store for tests.
package storagetest

import (
	"sync"

	"github.com/neurlang/textclf/errors"
	"github.com/neurlang/textclf/storage"
)

// Memory serves arrays from maps and counts every call.
type Memory struct {
	Matrices map[string][][]float64
	Vectors  map[string][]float64
	Sparse   map[string][][]float64

	mu    sync.Mutex
	calls int
}

var _ storage.Store = (*Memory)(nil)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		Matrices: map[string][][]float64{},
		Vectors:  map[string][]float64{},
		Sparse:   map[string][][]float64{},
	}
}

// Calls is the number of Store calls made so far.
func (m *Memory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *Memory) called() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

func (m *Memory) Exists(path string) bool {
	m.called()
	_, a := m.Matrices[path]
	_, b := m.Vectors[path]
	_, c := m.Sparse[path]
	return a || b || c
}

func (m *Memory) ReadMatrix(path string) ([][]float64, error) {
	m.called()
	if v, ok := m.Matrices[path]; ok {
		return v, nil
	}
	return nil, errors.Errorf("%s: no such matrix", path)
}

func (m *Memory) ReadVector(path string) ([]float64, error) {
	m.called()
	if v, ok := m.Vectors[path]; ok {
		return v, nil
	}
	return nil, errors.Errorf("%s: no such vector", path)
}

func (m *Memory) ReadSparse(path string) ([][]float64, error) {
	m.called()
	if v, ok := m.Sparse[path]; ok {
		return v, nil
	}
	return nil, errors.Errorf("%s: no such archive", path)
}
