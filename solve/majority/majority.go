// Package majority implements the majority solver: recovering a
// low-dimension (k <= 20) secret from weight-1 samples by taking the
// majority-vote sign of each bit's observed bias.
package majority

import (
	"fmt"

	"github.com/tuneinsight/lpn"
	"github.com/tuneinsight/lpn/gf2"
	"github.com/tuneinsight/lpn/oracle"
)

// Solve recovers the k-bit secret from o's samples by keeping only the
// weight-1 samples, bucketing them by which bit position is set, and
// emitting s_i = 1 iff strictly more than half of bucket i's samples
// have product bit 1. An empty bucket is fatal: there is no way to
// recover that bit.
func Solve(o *oracle.Oracle) (gf2.Vector, error) {
	k := o.K
	if k > 20 {
		return gf2.Vector{}, fmt.Errorf("%w: majority solver requires k<=20, got %d", lpn.ErrConfiguration, k)
	}

	counts := make([]int, k)
	sums := make([]int, k)
	for _, s := range o.Pool.Samples {
		if s.CountOnes() != 1 {
			continue
		}
		pos := onlySetBit(s.A, k)
		counts[pos]++
		if s.Product() != 0 {
			sums[pos]++
		}
	}

	result := gf2.NewVector(k)
	for i := 0; i < k; i++ {
		if counts[i] == 0 {
			return gf2.Vector{}, fmt.Errorf("%w: majority solver found no weight-1 samples for bit %d", lpn.ErrInsufficientSamples, i)
		}
		if 2*sums[i] > counts[i] {
			result.Set(i)
		}
	}
	return result, nil
}

// onlySetBit returns the index of the single set bit of a within [0,k).
// Precondition: a has Hamming weight exactly 1 within that range.
func onlySetBit(a gf2.Vector, k int) int {
	for i := 0; i < k; i++ {
		if a.Get(i) != 0 {
			return i
		}
	}
	panic("majority: onlySetBit called on a zero-weight vector")
}
