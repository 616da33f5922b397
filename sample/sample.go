// Package sample implements the LPN sample record and the mutable pool of
// samples that the reductions in package reduce and the solvers in package
// solve operate on.
package sample

import (
	"fmt"

	"github.com/tuneinsight/lpn/gf2"
)

// Sample is a single labeled LPN query: a vector a and a product bit p,
// intended to equal <a,s> XOR e for the oracle's secret s and noise bit e.
// All bits of A at position >= the oracle's current k must be zero; every
// reducer that shrinks k calls Truncate to preserve that invariant.
type Sample struct {
	A gf2.Vector
	P int
}

// New returns a zeroed sample whose A vector has capacity for kMax bits.
func New(kMax int) Sample {
	return Sample{A: gf2.NewVector(kMax)}
}

// XorInto XORs other into the receiver: both the vector and the product
// bit. Because p = <a,s> XOR e is linear in a, XOR of two samples is
// itself a valid sample for the same secret with XOR-combined noise bit.
func (s *Sample) XorInto(other Sample) {
	s.A.XorInto(other.A)
	s.P ^= other.P
}

// CountOnes returns the Hamming weight of the sample's a vector.
func (s Sample) CountOnes() int {
	return s.A.CountOnes()
}

// Block returns the i-th 64-bit word of the sample's a vector.
func (s Sample) Block(i int) uint64 {
	return s.A.Block(i)
}

// Product returns the sample's product bit p.
func (s Sample) Product() int {
	return s.P
}

// Truncate zeroes every bit of a at position >= k.
func (s *Sample) Truncate(k int) {
	s.A.Truncate(k)
}

// Clone returns an independent copy of the sample.
func (s Sample) Clone() Sample {
	return Sample{A: s.A.Clone(), P: s.P}
}

// MarshalBinary encodes the sample as the marshaled vector followed by one
// byte carrying the product bit.
func (s Sample) MarshalBinary() ([]byte, error) {
	data, err := s.A.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(data, byte(s.P)), nil
}

// UnmarshalBinary decodes a slice of bytes produced by MarshalBinary.
func (s *Sample) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("sample: insufficient data length")
	}
	if err := s.A.UnmarshalBinary(data[:len(data)-1]); err != nil {
		return err
	}
	s.P = int(data[len(data)-1])
	return nil
}
