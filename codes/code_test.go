package codes

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lpn/gf2"
)

func allCatalogueCodes() []BinaryCode {
	return []BinaryCode{Hamming3_1, Hamming7_4, Hamming15_11, Code10_6}
}

func TestCodeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, code := range allCatalogueCodes() {
		lc := code.(*linearCode)
		for trial := 0; trial < 200; trial++ {
			msg := randomVector(rng, lc.dim)
			codeword, err := lc.Encode(msg)
			require.NoError(t, err)

			decodedMsg, err := code.DecodeToMessage(codeword)
			require.NoError(t, err)
			require.True(t, gf2.Equal(msg, decodedMsg), "code %s", code.Name())

			decodedCode, err := code.DecodeToCode(codeword)
			require.NoError(t, err)
			require.True(t, gf2.Equal(codeword, decodedCode), "code %s", code.Name())
		}
	}
}

func TestParityInvariantPostDecode(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, code := range allCatalogueCodes() {
		H := code.ParityCheckMatrix()
		for trial := 0; trial < 200; trial++ {
			r := randomVector(rng, code.Length())
			decoded, err := code.DecodeToCode(r)
			require.NoError(t, err)
			syn := H.MulVec(decoded)
			require.Equal(t, 0, syn.CountOnes(), "code %s", code.Name())
		}
	}
}

func TestNearestCodewordBound(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, code := range allCatalogueCodes() {
		lc := code.(*linearCode)
		t_ := (minDistance(lc) - 1) / 2
		for trial := 0; trial < 200; trial++ {
			msg := randomVector(rng, lc.dim)
			codeword, err := lc.Encode(msg)
			require.NoError(t, err)

			errVec, weight := randomErrorOfWeightAtMost(rng, lc.n, t_)
			received := codeword.Clone()
			received.XorInto(errVec)

			decoded, err := code.DecodeToCode(received)
			require.NoError(t, err)
			if weight <= t_ {
				require.True(t, gf2.Equal(codeword, decoded), "code %s weight %d", code.Name(), weight)
			}
		}
	}
}

func TestConcatenatedHammingCode(t *testing.T) {
	cc := NewConcatenatedCode(Hamming15_11, Hamming7_4, Hamming3_1)
	require.Equal(t, 25, cc.Length())
	require.Equal(t, 16, cc.Dimension())

	rng := rand.New(rand.NewSource(4))
	for trial := 0; trial < 200; trial++ {
		r := randomVector(rng, cc.Length())
		decoded, err := cc.DecodeToCode(r)
		require.NoError(t, err)

		H := cc.ParityCheckMatrix()
		syn := H.MulVec(decoded)
		require.Equal(t, 0, syn.CountOnes())

		msg, err := cc.DecodeToMessage(r)
		require.NoError(t, err)
		require.Equal(t, 16, msg.Len)
	}
}

func TestConcatenatedDecodeSliceMatchesDecodeToCode(t *testing.T) {
	cc := NewConcatenatedCode(Hamming7_4, Hamming3_1)
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 50; trial++ {
		r := randomVector(rng, cc.Length())
		want, err := cc.DecodeToCode(r)
		require.NoError(t, err)

		got := r.Clone()
		cc.DecodeSlice(got.Buff)
		got.Len = cc.Length()
		require.True(t, gf2.Equal(want, got))
	}
}

func randomVector(rng *rand.Rand, n int) gf2.Vector {
	v := gf2.NewVector(n)
	for i := 0; i < n; i++ {
		if rng.Intn(2) == 1 {
			v.Set(i)
		}
	}
	return v
}

func randomErrorOfWeightAtMost(rng *rand.Rand, n, maxWeight int) (gf2.Vector, int) {
	w := 0
	if maxWeight > 0 {
		w = rng.Intn(maxWeight + 1)
	}
	positions := rng.Perm(n)[:w]
	v := gf2.NewVector(n)
	for _, p := range positions {
		v.Set(p)
	}
	return v, w
}

// minDistance brute-forces the minimum Hamming weight among nonzero
// codewords, used only to derive the correction radius these tests check
// against.
func minDistance(lc *linearCode) int {
	min := lc.n + 1
	total := 1 << uint(lc.dim)
	for i := 1; i < total; i++ {
		msg := gf2.NewVector(lc.dim)
		for bit := 0; bit < lc.dim; bit++ {
			if (i>>uint(bit))&1 == 1 {
				msg.Set(bit)
			}
		}
		cw, err := lc.Encode(msg)
		if err != nil {
			panic(err)
		}
		if w := cw.CountOnes(); w < min {
			min = w
		}
	}
	return min
}
