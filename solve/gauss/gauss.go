// Package gauss implements the pooled Gaussian elimination solver:
// repeated random full-rank k x k sub-systems are drawn from the sample
// pool and solved exactly (ignoring noise), and the resulting candidate
// secrets are combined bit by bit via majority vote.
package gauss

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/montanaflynn/stats"
	"github.com/tuneinsight/lpn"
	"github.com/tuneinsight/lpn/gf2"
	"github.com/tuneinsight/lpn/oracle"
)

// Result bundles the solver's recovered secret with the oracle's
// tau-derived advisory and an empirical per-bit agreement summary,
// so a caller gets both the theoretical and the observed confidence
// signal for the same run.
type Result struct {
	Secret        gf2.Vector
	Advisory      lpn.Advisory
	MeanAgreement float64
}

// Solve draws repeated full-rank k x k sub-systems from o's pool,
// solves each exactly, and combines the candidates by per-bit majority
// vote. The repetition count follows the closed form
// T = ceil(ln(2k) / (2*(1/2-tau)^2)). Draws are parallelized across the
// configured worker count; if an entire parallel batch fails to find a
// single full-rank sub-system, the retry budget is considered
// exhausted and ErrInsufficientSamples is returned.
func Solve(o *oracle.Oracle, cfg lpn.Config) (Result, error) {
	k := o.K
	tau := o.Tau
	target := repetitionCount(k, tau)
	mainRng := o.Rand()

	candidates := make([]gf2.Vector, 0, target)
	for len(candidates) < target {
		need := target - len(candidates)
		batch := workerCount(cfg, need)

		workerRngs := make([]*rand.Rand, batch)
		for i := range workerRngs {
			workerRngs[i] = rand.New(rand.NewSource(mainRng.Int63()))
		}

		results := make([]*gf2.Vector, batch)
		var wg sync.WaitGroup
		wg.Add(batch)
		for w := 0; w < batch; w++ {
			go func(w int) {
				defer wg.Done()
				for tries := 0; tries < cfg.RetryBudget; tries++ {
					if cand, ok := drawAndSolve(o, workerRngs[w], k); ok {
						v := cand
						results[w] = &v
						return
					}
				}
			}(w)
		}
		wg.Wait()

		progressed := false
		for _, r := range results {
			if r != nil {
				candidates = append(candidates, *r)
				progressed = true
			}
		}
		if !progressed {
			return Result{}, fmt.Errorf("%w: pooled gauss exhausted its retry budget without finding a full-rank sub-system", lpn.ErrInsufficientSamples)
		}
	}

	secret := majorityCombine(candidates, k)
	fracs, err := agreementFractions(candidates, secret, k)
	if err != nil {
		return Result{}, err
	}
	mean, err := stats.Mean(fracs)
	if err != nil {
		return Result{}, fmt.Errorf("%w: could not summarize agreement fractions", lpn.ErrCode)
	}

	return Result{
		Secret:        secret,
		Advisory:      lpn.NewAdvisory(tau),
		MeanAgreement: mean,
	}, nil
}

// drawAndSolve picks k distinct random sample indices, builds the k x k
// system they describe, and solves it exactly if it is full rank.
func drawAndSolve(o *oracle.Oracle, rng *rand.Rand, k int) (gf2.Vector, bool) {
	n := o.Pool.Len()
	if n < k {
		return gf2.Vector{}, false
	}
	idx := rng.Perm(n)[:k]

	rows := make([]gf2.Vector, k)
	y := gf2.NewVector(k)
	for i, id := range idx {
		rows[i] = o.Pool.Samples[id].A.Slice(0, k)
		if o.Pool.Samples[id].Product() != 0 {
			y.Set(i)
		}
	}

	a := gf2.MatrixFromRows(rows)
	inv, err := a.Inverse()
	if err != nil {
		return gf2.Vector{}, false
	}
	return inv.MulVec(y), true
}

// majorityCombine returns, bit by bit, the value a strict majority of
// candidates agree on.
func majorityCombine(candidates []gf2.Vector, k int) gf2.Vector {
	result := gf2.NewVector(k)
	for bit := 0; bit < k; bit++ {
		ones := 0
		for _, c := range candidates {
			if c.Get(bit) != 0 {
				ones++
			}
		}
		if 2*ones > len(candidates) {
			result.Set(bit)
		}
	}
	return result
}

// agreementFractions returns, per bit, the fraction of candidates that
// agreed with the combined majority result.
func agreementFractions(candidates []gf2.Vector, result gf2.Vector, k int) ([]float64, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates to summarize", lpn.ErrCode)
	}
	fracs := make([]float64, k)
	for bit := 0; bit < k; bit++ {
		agree := 0
		for _, c := range candidates {
			if c.Get(bit) == result.Get(bit) {
				agree++
			}
		}
		fracs[bit] = float64(agree) / float64(len(candidates))
	}
	return fracs, nil
}

// repetitionCount is the closed-form T = ceil(ln(2k) / (2*(1/2-tau)^2)).
func repetitionCount(k int, tau float64) int {
	denom := 2 * math.Pow(0.5-tau, 2)
	t := math.Ceil(math.Log(2*float64(k)) / denom)
	if t < 1 {
		t = 1
	}
	return int(t)
}

// workerCount resolves the effective worker count for a batch of n
// independent draw attempts, mirroring lpn.Config's own (unexported)
// resolution logic.
func workerCount(cfg lpn.Config, n int) int {
	w := cfg.Workers
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
