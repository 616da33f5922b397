package majority

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lpn"
	"github.com/tuneinsight/lpn/oracle"
)

func TestSolveRejectsLargeK(t *testing.T) {
	o := oracle.NewOracle(21, 0.05, []byte("too-big"))
	o.GetSamples(10)
	_, err := Solve(o)
	require.ErrorIs(t, err, lpn.ErrConfiguration)
}

func TestSolveFailsOnEmptyBucket(t *testing.T) {
	o := oracle.NewOracle(8, 0.1, []byte("empty-bucket"))
	o.GetSamples(5)
	_, err := Solve(o)
	require.ErrorIs(t, err, lpn.ErrInsufficientSamples)
}

func TestSolveRecoversSecretWithLowNoise(t *testing.T) {
	o := oracle.NewOracle(12, 0.01, []byte("majority-recovery"))
	o.GetSamples(200000)

	got, err := Solve(o)
	require.NoError(t, err)
	require.True(t, secretsEqual(got, o.Secret, 12))
}

func secretsEqual(a, b interface {
	Get(int) int
}, k int) bool {
	for i := 0; i < k; i++ {
		if a.Get(i) != b.Get(i) {
			return false
		}
	}
	return true
}

func TestSolveIsDeterministicGivenSameSamples(t *testing.T) {
	o1 := oracle.NewOracle(10, 0.05, []byte("deterministic"))
	o1.GetSamples(50000)
	o2 := oracle.NewOracle(10, 0.05, []byte("deterministic"))
	o2.GetSamples(50000)

	r1, err1 := Solve(o1)
	r2, err2 := Solve(o2)
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.Equal(t, r1.Buff, r2.Buff)
}
