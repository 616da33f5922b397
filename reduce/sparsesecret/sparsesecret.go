// Package sparsesecret implements the sparse-secret reduction: a
// change of basis, driven by k linearly independent sample rows, after
// which the secret is expected to be low Hamming weight.
package sparsesecret

import (
	"fmt"
	"sync"

	"github.com/tuneinsight/lpn"
	"github.com/tuneinsight/lpn/gf2"
	"github.com/tuneinsight/lpn/oracle"
	"github.com/tuneinsight/lpn/sample"
)

// Transform records the basis change a reduction applied, so a caller
// can map between the original and transformed coordinate systems if
// needed beyond the oracle's own rewritten secret and samples.
type Transform struct {
	Basis        gf2.Matrix // A: the k independent sample rows used as the new basis.
	BasisInverse gf2.Matrix // A^-1
}

// Reduce collects k linearly independent sample rows from the pool
// (testing each candidate's rank contribution before accepting it),
// computes the secret in that basis (the selected samples' noise vector,
// derived from their labels and the oracle's held secret), rewrites every
// remaining sample
// into the new basis, and leaves k unchanged. The pool shrinks by the k
// samples consumed to build the basis.
func Reduce(o *oracle.Oracle, cfg lpn.Config) (Transform, error) {
	k := o.K

	rows := make([]gf2.Vector, 0, k)
	labels := make([]int, 0, k)
	used := make([]int, 0, k)
	for idx := 0; idx < o.Pool.Len() && len(rows) < k; idx++ {
		candidate := o.Pool.Samples[idx].A.Slice(0, k)
		trial := append(append([]gf2.Vector{}, rows...), candidate)
		if gf2.MatrixFromRows(trial).Rank() == len(trial) {
			rows = append(rows, candidate)
			labels = append(labels, o.Pool.Samples[idx].Product())
			used = append(used, idx)
		}
	}
	if len(rows) < k {
		return Transform{}, fmt.Errorf("%w: sparse-secret found only %d of %d needed independent rows in a pool of %d",
			lpn.ErrInsufficientSamples, len(rows), k, o.Pool.Len())
	}

	basis := gf2.MatrixFromRows(rows)
	basisInv, err := basis.Inverse()
	if err != nil {
		return Transform{}, fmt.Errorf("%w: sparse-secret basis matrix is not invertible", lpn.ErrConfiguration)
	}

	y := gf2.NewVector(k)
	for i, p := range labels {
		if p != 0 {
			y.Set(i)
		}
	}

	// The new secret is the selected samples' own noise vector, not
	// A^-1.y: y = A.s_true XOR e_sel, so A^-1.y = s_true XOR A^-1.e_sel,
	// which is as dense as s_true itself. e_sel = y XOR A.s_true is the
	// low-weight (~k.tau) target this reduction is meant to produce.
	sTrue := o.Secret.Slice(0, k)
	eSel := y.Clone()
	eSel.XorInto(basis.MulVec(sTrue))

	o.Pool.RemoveIndices(used)

	basisInvT := basisInv.Transpose()
	samples := o.Pool.Samples
	chunks := cfg.Chunks(len(samples))
	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for _, c := range chunks {
		go func(c lpn.Chunk) {
			defer wg.Done()
			for i := c.Start; i < c.End; i++ {
				rewrite(&samples[i], basisInvT, y, k, o.KMax)
			}
		}(c)
	}
	wg.Wait()

	o.Secret = padToCapacity(eSel, o.KMax)
	return Transform{Basis: basis, BasisInverse: basisInv}, nil
}

// rewrite applies a <- basisInvT . a (restricted to the low k bits) and
// p <- p XOR <a_new, y>, to s. <a_new, y> = <a, A^-1.y> = <a, s_true>
// XOR <a_new, e_sel>, so this XOR cancels the sample's old <a,s_true>
// term, leaving p consistent with the new secret e_sel and the
// sample's original noise bit untouched.
func rewrite(s *sample.Sample, basisInvT gf2.Matrix, y gf2.Vector, k, kMax int) {
	low := s.A.Slice(0, k)
	newLow := basisInvT.MulVec(low)
	s.P ^= gf2.Dot(newLow, y)
	s.A = padToCapacity(newLow, kMax)
}

// padToCapacity returns a kMax-bit vector whose low v.Len bits equal v
// and whose remaining bits are zero.
func padToCapacity(v gf2.Vector, kMax int) gf2.Vector {
	out := gf2.NewVector(kMax)
	for i := 0; i < v.Len; i++ {
		if v.Get(i) != 0 {
			out.Set(i)
		}
	}
	return out
}
