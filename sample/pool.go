package sample

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// Pool is the mutable population of samples under reduction. It is a
// single-owner growable array: reducers take exclusive mutable access to
// it for the duration of a reduction call and never retain references
// past that call, matching the lifecycle described for the oracle.
type Pool struct {
	Samples []Sample
}

// NewPool returns an empty pool with capacity reserved for n samples.
func NewPool(n int) *Pool {
	return &Pool{Samples: make([]Sample, 0, n)}
}

// Len returns the number of samples currently in the pool.
func (p *Pool) Len() int {
	return len(p.Samples)
}

// Append adds s to the pool.
func (p *Pool) Append(s Sample) {
	p.Samples = append(p.Samples, s)
}

// SwapRemove removes and returns the sample at index i in O(1) by moving
// the last element into its place. Sample order is not preserved across
// reductions, so this is the only removal primitive the reducers need.
func (p *Pool) SwapRemove(i int) Sample {
	last := len(p.Samples) - 1
	removed := p.Samples[i]
	p.Samples[i] = p.Samples[last]
	p.Samples = p.Samples[:last]
	return removed
}

// RemoveIndices removes the samples at the given indices (which must be
// distinct and in range) via repeated swap-remove. Indices are consumed in
// descending order internally so earlier swap-removes never invalidate a
// later index.
func (p *Pool) RemoveIndices(indices []int) {
	sorted := append([]int(nil), indices...)
	// insertion sort descending: reducers pass at most a few thousand
	// pivot indices per BKW iteration, not worth pulling in sort.Ints here
	// given the ascending-order input they already arrive in.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] < sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	for _, idx := range sorted {
		p.SwapRemove(idx)
	}
}

// Equal reports whether p and other hold the same samples in the same
// order, the way rlwe.Parameters.Equal compares its own fields.
func (p *Pool) Equal(other *Pool) bool {
	return cmp.Equal(p.Samples, other.Samples)
}

// Truncate calls Sample.Truncate(k) on every sample in the pool.
func (p *Pool) Truncate(k int) {
	for i := range p.Samples {
		p.Samples[i].Truncate(k)
	}
}

// MarshalBinary encodes the pool as a sample count followed by each
// sample's own MarshalBinary encoding concatenated in order.
func (p *Pool) MarshalBinary() ([]byte, error) {
	header := make([]byte, 8)
	n := uint64(len(p.Samples))
	for i := 0; i < 8; i++ {
		header[i] = byte(n >> uint(56-8*i))
	}
	out := header
	for _, s := range p.Samples {
		b, err := s.MarshalBinary()
		if err != nil {
			return nil, err
		}
		lenBuf := make([]byte, 8)
		ln := uint64(len(b))
		for i := 0; i < 8; i++ {
			lenBuf[i] = byte(ln >> uint(56-8*i))
		}
		out = append(out, lenBuf...)
		out = append(out, b...)
	}
	return out, nil
}

// UnmarshalBinary decodes a slice of bytes produced by MarshalBinary.
func (p *Pool) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("sample: insufficient data length for Pool")
	}
	n := beUint64(data[0:8])
	ptr := 8
	samples := make([]Sample, 0, n)
	for i := uint64(0); i < n; i++ {
		if ptr+8 > len(data) {
			return fmt.Errorf("sample: truncated Pool entry header at index %d", i)
		}
		ln := int(beUint64(data[ptr : ptr+8]))
		ptr += 8
		if ptr+ln > len(data) {
			return fmt.Errorf("sample: truncated Pool entry body at index %d", i)
		}
		var s Sample
		if err := s.UnmarshalBinary(data[ptr : ptr+ln]); err != nil {
			return err
		}
		samples = append(samples, s)
		ptr += ln
	}
	p.Samples = samples
	return nil
}

func beUint64(b []byte) uint64 {
	var x uint64
	for i := 0; i < 8; i++ {
		x = x<<8 | uint64(b[i])
	}
	return x
}
