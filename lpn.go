/*
Package lpn implements a cryptanalytic solver for the Learning Parity with
Noise (LPN) problem over GF(2). Given black-box access to a noisy oracle
that emits labeled samples (a, <a,s> XOR e), the package reduces the
problem's dimension through a pipeline of reductions — BKW partitioning,
covering-code decoding, and a sparse-secret basis change — then recovers
the secret with a final solver (majority vote or pooled Gaussian
elimination).

The package is organized the way the reductions and solvers are described:
gf2 holds the bit-packed linear-algebra primitives everything else builds
on; sample holds the Sample record and Pool; codes holds the BinaryCode
contract and its catalogue; oracle ties samples, k and tau together; and
reduce/solve hold the reductions and solvers themselves.
*/
package lpn

import (
	"errors"
	"runtime"
)

// Error taxonomy. ErrConfiguration and ErrCode are returned for
// programmer-detectable preconditions. ErrInsufficientSamples is fatal and
// aborts a solver. None of these represent a noisy-sample condition; a
// reduced instance whose tau is too high to succeed reliably is instead
// surfaced via Advisory, not an error.
var (
	// ErrConfiguration signals a parameter combination that can never
	// produce a valid reduction, e.g. a*b > k, or k > 20 for the
	// majority solver.
	ErrConfiguration = errors.New("lpn: invalid configuration")

	// ErrCode signals a programming bug in a BinaryCode implementation
	// (e.g. a length mismatch on decode input), never a property of the
	// noisy samples being decoded.
	ErrCode = errors.New("lpn: code error")

	// ErrInsufficientSamples is fatal: a solver could not find enough
	// samples to fill a required bucket (majority) or exhausted its
	// rank-failure retry budget (pooled Gauss).
	ErrInsufficientSamples = errors.New("lpn: insufficient samples")
)

// SuccessProbabilityExhaustedThreshold is the tau value at or above which
// a reduced instance is considered too noisy for the solver to reliably
// succeed. Solvers run anyway — the condition is advisory, not fatal.
const SuccessProbabilityExhaustedThreshold = 0.49

// Advisory reports on the quality of a solved instance without aborting
// it: SuccessProbabilityExhausted is set when the reduced instance's tau
// met or exceeded SuccessProbabilityExhaustedThreshold, meaning the
// returned secret may be wrong even though the solver completed normally.
type Advisory struct {
	Tau                         float64
	SuccessProbabilityExhausted bool
}

// NewAdvisory builds the Advisory for a reduced instance's current tau.
func NewAdvisory(tau float64) Advisory {
	return Advisory{
		Tau:                         tau,
		SuccessProbabilityExhausted: tau >= SuccessProbabilityExhaustedThreshold,
	}
}

// Config carries the resource knobs shared by every reducer and solver:
// how many goroutines a data-parallel pass may use, and how many times a
// rejection-sampling loop (a dependent sparse-secret basis row, a
// rank-deficient pooled-Gauss draw) may retry before giving up. A zero
// Workers means "use runtime.GOMAXPROCS(0)", following the common pattern
// of an explicit NbGoRoutines-style field rather than a hidden global.
type Config struct {
	Workers     int
	RetryBudget int
}

// DefaultConfig returns the Config used when none is supplied: all
// available hardware threads, and a retry budget generous enough that
// rejection sampling on well-conditioned instances essentially never
// exhausts it.
func DefaultConfig() Config {
	return Config{Workers: 0, RetryBudget: 10000}
}

// workers resolves the effective worker count for a pass over n
// independent tasks: never more workers than tasks, and GOMAXPROCS(0) if
// Workers is unset.
func (c Config) workers(n int) int {
	w := c.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Chunk is a half-open [Start, End) range of task indices assigned to one
// worker.
type Chunk struct {
	Start, End int
}

// Chunks splits n tasks into the receiver's worker count as evenly as
// possible, in the balanced-partition style of ring.ringAutomorphism's
// worker split: each worker gets floor or ceil of n/workers tasks,
// computed by repeatedly taking the ceiling of the remaining tasks over
// the remaining workers so the split is exact.
func (c Config) Chunks(n int) []Chunk {
	if n <= 0 {
		return nil
	}
	workers := c.workers(n)
	chunks := make([]Chunk, 0, workers)
	tasks, end := n, 0
	for i := 0; i < workers; i++ {
		size := (tasks + workers - i - 1) / (workers - i)
		start := end
		end = start + size
		tasks -= size
		chunks = append(chunks, Chunk{Start: start, End: end})
	}
	return chunks
}
