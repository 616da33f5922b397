// Package oracle implements the LPN sample oracle: it holds the secret,
// the current effective dimension k and noise rate tau, and generates
// fresh samples against them. Every reducer in package reduce takes an
// *Oracle and either consumes or mutates it in place.
package oracle

import (
	"encoding/binary"
	"math"
	"math/rand"

	"github.com/tuneinsight/lpn/gf2"
	"github.com/tuneinsight/lpn/sample"
	"github.com/zeebo/blake3"
)

// Oracle holds the secret, the current dimension k (monotonically
// non-increasing), the current noise rate tau, and the live sample pool.
// KMax is the bit width every sample's a vector is allocated at; it never
// changes, so a shrinking k only ever zeroes a vector's tail, never
// reallocates it.
type Oracle struct {
	KMax   int
	K      int
	Tau    float64
	Secret gf2.Vector
	Pool   *sample.Pool

	rng *rand.Rand
}

// NewOracle builds an oracle with a uniform random secret of k bits,
// seeded deterministically from seed: the same seed always yields the
// same secret and, given the same sequence of calls, the same samples.
func NewOracle(k int, tau float64, seed []byte) *Oracle {
	rng := rand.New(rand.NewSource(seedFromBytes(seed)))
	secret := gf2.NewVector(k)
	for i := 0; i < k; i++ {
		if rng.Intn(2) == 1 {
			secret.Set(i)
		}
	}
	return &Oracle{
		KMax:   k,
		K:      k,
		Tau:    tau,
		Secret: secret,
		Pool:   sample.NewPool(0),
		rng:    rng,
	}
}

// seedFromBytes derives a 64-bit math/rand seed from an arbitrary-length
// seed by taking the leading 8 bytes of its blake3 digest, rather than
// hashing the caller-supplied bytes by hand.
func seedFromBytes(seed []byte) int64 {
	digest := blake3.Sum256(seed)
	return int64(binary.BigEndian.Uint64(digest[:8]))
}

// GetSamples appends n fresh samples to the pool: a uniform on GF(2)^k
// (zero above k, preserving the oracle's truncation invariant), p = <a,s>
// XOR e with e ~ Bernoulli(Tau).
func (o *Oracle) GetSamples(n int) {
	for i := 0; i < n; i++ {
		a := gf2.NewVector(o.KMax)
		for b := 0; b < o.K; b++ {
			if o.rng.Intn(2) == 1 {
				a.Set(b)
			}
		}
		p := gf2.Dot(a, o.Secret)
		if o.rng.Float64() < o.Tau {
			p ^= 1
		}
		o.Pool.Append(sample.Sample{A: a, P: p})
	}
}

// Truncate sets k to kPrime and zeroes every sample's bits at position
// >= kPrime, preserving the oracle's truncation invariant. Reducers call
// this exactly once, after their last iteration, never mid-loop.
func (o *Oracle) Truncate(kPrime int) {
	o.K = kPrime
	o.Pool.Truncate(kPrime)
}

// UpdateTauCoveringCode applies the covering-code reduction's tau update
// given the code's bias: the noise of the rewritten samples depends on
// whether the decoded codeword's low secret bits happened to be zero.
func (o *Oracle) UpdateTauCoveringCode(bias float64) {
	o.Tau = (1 - bias*(1-2*o.Tau)) / 2
}

// UpdateTauSumOfSamples applies the sum-of-samples tau update for a
// reduction that XORs m independent samples together (BKW's per-call
// update, after a-1 pivot XORs per surviving path): bias is
// multiplicative under XOR of independent noise bits.
func (o *Oracle) UpdateTauSumOfSamples(m int) {
	bias := math.Pow(1-2*o.Tau, float64(m))
	o.Tau = (1 - bias) / 2
}

// Stats is a point-in-time snapshot of the oracle's bookkeeping state,
// cheap to copy and log at a reducer boundary.
type Stats struct {
	K       int
	Tau     float64
	PoolLen int
}

// Stats returns the oracle's current (k, tau, pool size).
func (o *Oracle) Stats() Stats {
	return Stats{K: o.K, Tau: o.Tau, PoolLen: o.Pool.Len()}
}

// Rand returns the oracle's internal PRNG, so a solver that needs its
// own randomness (the pooled-Gauss solver's repeated sub-system draws)
// stays deterministic under the oracle's seed rather than reaching for
// an unseeded global source.
func (o *Oracle) Rand() *rand.Rand {
	return o.rng
}
