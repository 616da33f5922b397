package oracle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOracleDeterministicForFixedSeed(t *testing.T) {
	o1 := NewOracle(32, 1.0/32, []byte("fixed-seed"))
	o2 := NewOracle(32, 1.0/32, []byte("fixed-seed"))
	require.Equal(t, o1.Secret.Buff, o2.Secret.Buff)

	o1.GetSamples(100)
	o2.GetSamples(100)
	for i := 0; i < 100; i++ {
		require.Equal(t, o1.Pool.Samples[i].A.Buff, o2.Pool.Samples[i].A.Buff)
		require.Equal(t, o1.Pool.Samples[i].P, o2.Pool.Samples[i].P)
	}
}

func TestNewOracleDifferentSeedsDifferentSecrets(t *testing.T) {
	o1 := NewOracle(64, 1.0/32, []byte("seed-a"))
	o2 := NewOracle(64, 1.0/32, []byte("seed-b"))
	require.NotEqual(t, o1.Secret.Buff, o2.Secret.Buff)
}

func TestTruncateZeroesTailBits(t *testing.T) {
	o := NewOracle(40, 0.1, []byte("truncate"))
	o.GetSamples(500)
	o.Truncate(16)

	require.Equal(t, 16, o.K)
	for _, s := range o.Pool.Samples {
		for b := 16; b < o.KMax; b++ {
			require.Equal(t, 0, s.A.Get(b))
		}
	}
}

func TestGetSamplesProductMatchesSecretUpToNoise(t *testing.T) {
	o := NewOracle(24, 0.0, []byte("noiseless"))
	o.GetSamples(2000)
	for _, s := range o.Pool.Samples {
		want := 0
		for b := 0; b < o.K; b++ {
			if s.A.Get(b) != 0 && o.Secret.Get(b) != 0 {
				want ^= 1
			}
		}
		require.Equal(t, want, s.P)
	}
}

func TestUpdateTauCoveringCodeMatchesClosedForm(t *testing.T) {
	o := NewOracle(10, 0.2, []byte("cc-tau"))
	bias := 0.5
	want := (1 - bias*(1-2*0.2)) / 2
	o.UpdateTauCoveringCode(bias)
	require.InDelta(t, want, o.Tau, 1e-12)
}

func TestUpdateTauSumOfSamplesMatchesClosedForm(t *testing.T) {
	o := NewOracle(10, 0.1, []byte("sum-tau"))
	want := (1 - math.Pow(1-2*0.1, 4)) / 2
	o.UpdateTauSumOfSamples(4)
	require.InDelta(t, want, o.Tau, 1e-12)
}

func TestStatsSnapshot(t *testing.T) {
	o := NewOracle(20, 0.3, []byte("stats"))
	o.GetSamples(7)
	st := o.Stats()
	require.Equal(t, 20, st.K)
	require.Equal(t, 0.3, st.Tau)
	require.Equal(t, 7, st.PoolLen)
}
