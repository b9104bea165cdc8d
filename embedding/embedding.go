// SPDX-License-Identifier: MIT
// Package embedding stores the entity → vector mapping produced by the
// hypergraph encoder and consumed by every downstream stage.
//
// An Embedding is immutable: New copies the matrix, accessors return copies.
// Row i always belongs to IDs()[i], so stages may address entities by index.
package embedding

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/numeric"
)

// ErrUnknownEntity indicates a lookup of an id that is not embedded.
var ErrUnknownEntity = errors.New("embedding: unknown entity")

// Embedding maps entity ids to fixed-dimension vectors.
type Embedding struct {
	ids   []string
	index map[string]int
	data  *mat.Dense // nil when empty
	dim   int
}

// New builds an embedding from ids and a len(ids)×d matrix.
// Zero ids with a nil matrix is the empty embedding.
//
// Errors: duplicate/empty ids or a row count mismatch wrap
// pce.ErrInvalidConfiguration; non-finite values wrap pce.ErrNumericalInstability.
func New(ids []string, m *mat.Dense) (*Embedding, error) {
	const method = "embedding.New"
	e := &Embedding{ids: append([]string(nil), ids...), index: make(map[string]int, len(ids))}
	for i, id := range ids {
		if _, dup := e.index[id]; dup || id == "" {
			return nil, fmt.Errorf("%s: id %q duplicated or empty: %w", method, id, pce.ErrInvalidConfiguration)
		}
		e.index[id] = i
	}
	if m == nil || m.IsEmpty() {
		if len(ids) != 0 {
			return nil, fmt.Errorf("%s: %d ids but no matrix: %w", method, len(ids), pce.ErrInvalidConfiguration)
		}

		return e, nil
	}
	r, c := m.Dims()
	if r != len(ids) {
		return nil, fmt.Errorf("%s: %d rows for %d ids: %w", method, r, len(ids), pce.ErrInvalidConfiguration)
	}
	if err := numeric.ValidateFinite(method, m); err != nil {
		return nil, err
	}
	e.data = mat.DenseCopyOf(m)
	e.dim = c

	return e, nil
}

// Len returns the number of entities.
func (e *Embedding) Len() int { return len(e.ids) }

// Dim returns the vector dimension (0 for the empty embedding).
func (e *Embedding) Dim() int { return e.dim }

// IDs returns the entity ids in row order.
func (e *Embedding) IDs() []string { return append([]string(nil), e.ids...) }

// Index returns the row of id.
func (e *Embedding) Index(id string) (int, bool) {
	i, ok := e.index[id]

	return i, ok
}

// Vector returns a copy of the vector of id.
func (e *Embedding) Vector(id string) ([]float64, error) {
	i, ok := e.index[id]
	if !ok {
		return nil, fmt.Errorf("embedding.Vector: %q: %w", id, ErrUnknownEntity)
	}

	return e.Row(i), nil
}

// Row returns a copy of row i. Callers stay within [0, Len()).
func (e *Embedding) Row(i int) []float64 {
	return append([]float64(nil), e.data.RawRowView(i)...)
}

// Matrix returns a copy of the full matrix, or nil when empty.
func (e *Embedding) Matrix() *mat.Dense {
	if e.data == nil {
		return nil
	}

	return mat.DenseCopyOf(e.data)
}

// Equal reports whether both embeddings hold the same ids and bit-identical values.
func (e *Embedding) Equal(o *Embedding) bool {
	if e == nil || o == nil {
		return e == o
	}
	if len(e.ids) != len(o.ids) || e.dim != o.dim {
		return false
	}
	for i := range e.ids {
		if e.ids[i] != o.ids[i] {
			return false
		}
	}
	if e.data == nil || o.data == nil {
		return e.data == nil && o.data == nil
	}

	return mat.Equal(e.data, o.data)
}
