// Package bkw implements the BKW partition reduction: repeated
// windowed-XOR elimination that trades sample count for a smaller
// effective dimension.
package bkw

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tuneinsight/lpn"
	"github.com/tuneinsight/lpn/oracle"
	"github.com/tuneinsight/lpn/sample"
)

// pair is one non-pivot sample paired with the pivot that must be XORed
// into it; both variants below reduce to building a list of these and
// dispatching the XOR pass across the configured worker count.
type pair struct {
	idx, pivotIdx int
}

// Reduce applies a-1 rounds of windowed-XOR elimination to o, each round
// eliminating a b-bit window starting just below the current top of k
// and working down. a*b must not exceed o.K. k is decremented only once,
// after the last round, and tau is updated exactly once via the
// sum-of-2^(a-1)-samples law, per the authoritative bookkeeping this
// package follows.
func Reduce(o *oracle.Oracle, cfg lpn.Config, a, b int) error {
	k := o.K
	if a*b > k {
		return fmt.Errorf("%w: bkw a*b=%d exceeds k=%d", lpn.ErrConfiguration, a*b, k)
	}

	for i := 1; i < a; i++ {
		lo := k - i*b
		hi := k - (i-1)*b
		if b < 22 {
			reduceIndexing(o, cfg, lo, hi, b)
		} else {
			reduceSorting(o, cfg, lo, hi)
		}
	}

	o.Truncate(k - (a-1)*b)
	o.UpdateTauSumOfSamples(1 << uint(a-1))
	return nil
}

// reduceIndexing implements the b<22 variant: a single sequential pass
// picks the first sample seen in each of the 2^b window buckets as that
// bucket's pivot, then a parallel pass XORs the pivot into every other
// member of its bucket.
func reduceIndexing(o *oracle.Oracle, cfg lpn.Config, lo, hi, b int) {
	samples := o.Pool.Samples
	maxj := 1 << uint(b)
	firstIdx := make([]int, maxj)
	for j := range firstIdx {
		firstIdx[j] = -1
	}

	pivotIndices := make([]int, 0, maxj)
	pairs := make([]pair, 0, len(samples))
	for idx := range samples {
		key := int(samples[idx].A.BitsRange(lo, hi))
		if firstIdx[key] == -1 {
			firstIdx[key] = idx
			pivotIndices = append(pivotIndices, idx)
		} else {
			pairs = append(pairs, pair{idx: idx, pivotIdx: firstIdx[key]})
		}
	}

	xorPairs(samples, cfg, pairs)
	o.Pool.RemoveIndices(pivotIndices)
}

// reduceSorting implements the b>=22 variant: sort sample indices by
// their window key, so each partition becomes a contiguous run, then
// treat every run's first element as its pivot the same way the
// indexing variant does.
func reduceSorting(o *oracle.Oracle, cfg lpn.Config, lo, hi int) {
	samples := o.Pool.Samples
	keys := make([]uint64, len(samples))
	for idx := range samples {
		keys[idx] = samples[idx].A.BitsRange(lo, hi)
	}

	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}
	// Stable: within a run of equal keys, the lowest original index must
	// stay first so its pivot choice matches reduceIndexing's firstIdx
	// scan (both variants must yield identical post-conditions).
	sort.SliceStable(order, func(i, j int) bool { return keys[order[i]] < keys[order[j]] })

	pivotIndices := make([]int, 0)
	pairs := make([]pair, 0, len(samples))
	i := 0
	for i < len(order) {
		j := i + 1
		for j < len(order) && keys[order[j]] == keys[order[i]] {
			j++
		}
		pivotIdx := order[i]
		for t := i + 1; t < j; t++ {
			pairs = append(pairs, pair{idx: order[t], pivotIdx: pivotIdx})
		}
		pivotIndices = append(pivotIndices, pivotIdx)
		i = j
	}

	sort.Ints(pivotIndices)
	xorPairs(samples, cfg, pairs)
	o.Pool.RemoveIndices(pivotIndices)
}

// xorPairs XORs each pair's pivot into its sample, split across the
// configured worker count the way ring.ring_automorphism splits its
// coefficient range: disjoint index ranges into pairs, no shared writes,
// a single WaitGroup barrier.
func xorPairs(samples []sample.Sample, cfg lpn.Config, pairs []pair) {
	chunks := cfg.Chunks(len(pairs))
	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for _, c := range chunks {
		go func(c lpn.Chunk) {
			defer wg.Done()
			for t := c.Start; t < c.End; t++ {
				p := pairs[t]
				samples[p.idx].XorInto(samples[p.pivotIdx])
			}
		}(c)
	}
	wg.Wait()
}
