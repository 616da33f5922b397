package sparsesecret

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lpn"
	"github.com/tuneinsight/lpn/oracle"
)

func TestReduceFailsWithTooFewSamples(t *testing.T) {
	o := oracle.NewOracle(20, 0.1, []byte("short-pool"))
	o.GetSamples(3)
	_, err := Reduce(o, lpn.DefaultConfig())
	require.ErrorIs(t, err, lpn.ErrInsufficientSamples)
}

func TestReducePreservesKAndShrinksPoolByK(t *testing.T) {
	k := 16
	o := oracle.NewOracle(k, 0.05, []byte("basis-change"))
	o.GetSamples(2000)
	before := o.Pool.Len()

	_, err := Reduce(o, lpn.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, k, o.K)
	require.Equal(t, before-k, o.Pool.Len())

	for _, s := range o.Pool.Samples {
		for b := k; b < o.KMax; b++ {
			require.Equal(t, 0, s.A.Get(b))
		}
	}
}

// TestTransformedSecretWeightIsConcentrated checks the Hamming weight of
// the transformed secret lands within a tight band around k*tau across
// repeated runs with independent seeds.
func TestTransformedSecretWeightIsConcentrated(t *testing.T) {
	k := 24
	tau := 0.1
	mean := float64(k) * tau
	spread := 4 * math.Sqrt(float64(k)*tau*(1-tau))
	lo, hi := mean-spread, mean+spread

	trials := 200
	within := 0
	for i := 0; i < trials; i++ {
		o := oracle.NewOracle(k, tau, []byte{byte(i), byte(i >> 8)})
		o.GetSamples(4000)
		_, err := Reduce(o, lpn.DefaultConfig())
		require.NoError(t, err)

		w := float64(o.Secret.CountOnes())
		if w >= lo && w <= hi {
			within++
		}
	}
	require.GreaterOrEqual(t, float64(within)/float64(trials), 0.95)
}
