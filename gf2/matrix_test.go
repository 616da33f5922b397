package gf2

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityRankAndInverse(t *testing.T) {
	id := Identity(5)
	require.Equal(t, 5, id.Rank())
	require.True(t, id.IsFullRank())

	inv, err := id.Inverse()
	require.NoError(t, err)
	require.True(t, matricesEqual(id, inv))
}

func TestRankOfDependentRows(t *testing.T) {
	m := MatrixFromRows([]Vector{
		VectorFromBits([]int{1, 0, 1}),
		VectorFromBits([]int{0, 1, 1}),
		VectorFromBits([]int{1, 1, 0}), // = row0 xor row1
	})
	require.Equal(t, 2, m.Rank())
	require.False(t, m.IsFullRank())
}

func TestInverseRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		m := randomFullRankMatrix(rng, 8)
		inv, err := m.Inverse()
		require.NoError(t, err)

		prod := matMul(m, inv)
		require.True(t, matricesEqual(prod, Identity(8)))
	}
}

func TestMulVec(t *testing.T) {
	m := MatrixFromRows([]Vector{
		VectorFromBits([]int{1, 1, 0}),
		VectorFromBits([]int{0, 1, 1}),
	})
	v := VectorFromBits([]int{1, 0, 1})
	out := m.MulVec(v)
	require.Equal(t, []int{1, 1}, toBits(out))
}

func TestPLUQRankMatchesRank(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := randomFullRankMatrix(rng, 6)
	res := m.PLUQ()
	require.Equal(t, 6, res.Rank)
	require.Equal(t, m.Rank(), res.Rank)
}

func TestMatrixMarshalRoundTrip(t *testing.T) {
	m := MatrixFromRows([]Vector{
		VectorFromBits([]int{1, 0, 1}),
		VectorFromBits([]int{0, 1, 1}),
	})
	data, err := m.MarshalBinary()
	require.NoError(t, err)

	var out Matrix
	require.NoError(t, out.UnmarshalBinary(data))
	require.True(t, matricesEqual(m, out))
}

// randomFullRankMatrix draws an n x n matrix uniformly at random until it is
// full rank; used only by tests, mirroring the rejection-sampling the
// sparse-secret and pooled-Gauss reductions perform in production.
func randomFullRankMatrix(rng *rand.Rand, n int) Matrix {
	for {
		m := NewMatrix(n, n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if rng.Intn(2) == 1 {
					m.Rows[i].Set(j)
				}
			}
		}
		if m.IsFullRank() {
			return m
		}
	}
}

func matMul(a, b Matrix) Matrix {
	bt := b.Transpose()
	out := NewMatrix(len(a.Rows), b.Cols)
	for i, row := range a.Rows {
		for j := 0; j < b.Cols; j++ {
			if Dot(row, bt.Rows[j]) != 0 {
				out.Rows[i].Set(j)
			}
		}
	}
	return out
}

func matricesEqual(a, b Matrix) bool {
	if len(a.Rows) != len(b.Rows) || a.Cols != b.Cols {
		return false
	}
	for i := range a.Rows {
		if !Equal(a.Rows[i], b.Rows[i]) {
			return false
		}
	}
	return true
}
