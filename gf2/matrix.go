package gf2

import "fmt"

// Matrix is a dense, row-major matrix over GF(2); each row is a Vector of
// the same logical length (the column count).
type Matrix struct {
	Rows []Vector
	Cols int
}

// NewMatrix returns a zeroed r x c matrix.
func NewMatrix(r, c int) Matrix {
	rows := make([]Vector, r)
	for i := range rows {
		rows[i] = NewVector(c)
	}
	return Matrix{Rows: rows, Cols: c}
}

// MatrixFromRows builds a Matrix from already-constructed row vectors, all
// of which must share the same length.
func MatrixFromRows(rows []Vector) Matrix {
	cols := 0
	if len(rows) > 0 {
		cols = rows[0].Len
	}
	return Matrix{Rows: rows, Cols: cols}
}

// NumRows returns the row count.
func (m Matrix) NumRows() int { return len(m.Rows) }

// NumCols returns the column count.
func (m Matrix) NumCols() int { return m.Cols }

// Clone returns an independent deep copy of m.
func (m Matrix) Clone() Matrix {
	rows := make([]Vector, len(m.Rows))
	for i, r := range m.Rows {
		rows[i] = r.Clone()
	}
	return Matrix{Rows: rows, Cols: m.Cols}
}

// Transpose returns the transpose of m.
func (m Matrix) Transpose() Matrix {
	t := NewMatrix(m.Cols, len(m.Rows))
	for i, row := range m.Rows {
		for j := 0; j < m.Cols; j++ {
			if row.Get(j) != 0 {
				t.Rows[j].Set(i)
			}
		}
	}
	return t
}

// MulVec computes m*v (v interpreted as a column vector of length m.Cols)
// and returns a vector of length len(m.Rows).
func (m Matrix) MulVec(v Vector) Vector {
	out := NewVector(len(m.Rows))
	for i, row := range m.Rows {
		if Dot(row, v) != 0 {
			out.Set(i)
		}
	}
	return out
}

// Rank computes the GF(2) rank of m via Gaussian elimination on a working
// copy; m itself is left untouched.
func (m Matrix) Rank() int {
	work := m.Clone()
	return work.echelonize(nil)
}

// echelonize row-reduces the receiver in place to reduced row echelon form
// (each pivot column is cleared in every other row, above and below) and,
// if aux is non-nil, applies every row operation to aux in lock-step (used
// to turn an augmented [A | I] into [I | A^-1] for inversion). It returns
// the resulting rank.
func (m *Matrix) echelonize(aux *Matrix) int {
	rank := 0
	nr := len(m.Rows)
	for col := 0; col < m.Cols && rank < nr; col++ {
		pivot := -1
		for r := rank; r < nr; r++ {
			if m.Rows[r].Get(col) != 0 {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			continue
		}
		m.Rows[rank], m.Rows[pivot] = m.Rows[pivot], m.Rows[rank]
		if aux != nil {
			aux.Rows[rank], aux.Rows[pivot] = aux.Rows[pivot], aux.Rows[rank]
		}
		for r := 0; r < nr; r++ {
			if r != rank && m.Rows[r].Get(col) != 0 {
				m.Rows[r].XorInto(m.Rows[rank])
				if aux != nil {
					aux.Rows[r].XorInto(aux.Rows[rank])
				}
			}
		}
		rank++
	}
	return rank
}

// IsFullRank reports whether a square matrix has rank equal to its
// dimension. A non-square matrix is never full rank.
func (m Matrix) IsFullRank() bool {
	if len(m.Rows) != m.Cols {
		return false
	}
	return m.Rank() == m.Cols
}

// Inverse computes the inverse of a square, full-rank matrix over GF(2) by
// Gauss-Jordan elimination of the augmented matrix [A | I]. Returns an
// error if m is not square or not full rank.
func (m Matrix) Inverse() (Matrix, error) {
	n := len(m.Rows)
	if n != m.Cols {
		return Matrix{}, fmt.Errorf("gf2: Inverse requires a square matrix, got %dx%d", n, m.Cols)
	}
	work := m.Clone()
	id := Identity(n)
	rank := work.echelonize(&id)
	if rank != n {
		return Matrix{}, fmt.Errorf("gf2: matrix is not invertible (rank %d of %d)", rank, n)
	}
	return id, nil
}

// Identity returns the n x n identity matrix.
func Identity(n int) Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.Rows[i].Set(i)
	}
	return m
}

// PLUQResult holds the row/column permutations and rank produced by a PLUQ
// decomposition pass, enough to test rows for linear independence without
// materializing L and U.
type PLUQResult struct {
	RowPerm []int
	ColPerm []int
	Rank    int
}

// PLUQ computes a row/column permutation pair and the rank of m via the
// same pivoting elimination as Rank, recording which original rows and
// columns ended up acting as pivots: RowPerm[:Rank] and ColPerm[:Rank]
// name them in pivot order. The L and U factors themselves are not
// constructed.
func (m Matrix) PLUQ() PLUQResult {
	work := m.Clone()
	nr := len(work.Rows)
	rowPerm := make([]int, nr)
	for i := range rowPerm {
		rowPerm[i] = i
	}
	colPerm := make([]int, work.Cols)
	for i := range colPerm {
		colPerm[i] = i
	}

	rank := 0
	for col := 0; col < work.Cols && rank < nr; col++ {
		pivot := -1
		for r := rank; r < nr; r++ {
			if work.Rows[r].Get(col) != 0 {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			continue
		}
		work.Rows[rank], work.Rows[pivot] = work.Rows[pivot], work.Rows[rank]
		rowPerm[rank], rowPerm[pivot] = rowPerm[pivot], rowPerm[rank]
		colPerm[rank], colPerm[col] = colPerm[col], colPerm[rank]
		for r := 0; r < nr; r++ {
			if r != rank && work.Rows[r].Get(col) != 0 {
				work.Rows[r].XorInto(work.Rows[rank])
			}
		}
		rank++
	}
	return PLUQResult{RowPerm: rowPerm, ColPerm: colPerm, Rank: rank}
}

// MarshalBinary encodes the target matrix: row count, column count, then
// every row's own MarshalBinary encoding concatenated in order.
func (m Matrix) MarshalBinary() ([]byte, error) {
	header := make([]byte, 16)
	putUint64(header[0:8], uint64(len(m.Rows)))
	putUint64(header[8:16], uint64(m.Cols))
	out := header
	for _, row := range m.Rows {
		b, err := row.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// UnmarshalBinary decodes a slice of bytes produced by MarshalBinary into
// the target matrix.
func (m *Matrix) UnmarshalBinary(data []byte) error {
	if len(data) < 16 {
		return fmt.Errorf("gf2: insufficient data length for Matrix")
	}
	nr := int(getUint64(data[0:8]))
	cols := int(getUint64(data[8:16]))
	rows := make([]Vector, nr)
	ptr := 16
	for i := 0; i < nr; i++ {
		if ptr+8 > len(data) {
			return fmt.Errorf("gf2: truncated Matrix row header at row %d", i)
		}
		n := int(getUint64(data[ptr : ptr+8]))
		nw := wordsFor(n)
		end := ptr + 8 + 8*nw
		if end > len(data) {
			return fmt.Errorf("gf2: truncated Matrix row body at row %d", i)
		}
		var v Vector
		if err := v.UnmarshalBinary(data[ptr:end]); err != nil {
			return err
		}
		rows[i] = v
		ptr = end
	}
	m.Rows = rows
	m.Cols = cols
	return nil
}
