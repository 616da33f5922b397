// Package coveringcode implements the covering-code reduction: decoding
// each sample's low bits to the nearest codeword of a small BinaryCode
// and replacing them with the codeword's message, shrinking k by
// code.Length() - code.Dimension().
package coveringcode

import (
	"fmt"
	"sync"

	"github.com/tuneinsight/lpn"
	"github.com/tuneinsight/lpn/codes"
	"github.com/tuneinsight/lpn/gf2"
	"github.com/tuneinsight/lpn/oracle"
	"github.com/tuneinsight/lpn/sample"
)

// Reduce decodes the low code.Length() bits of every sample's a against
// code, replaces those bits with the decoded codeword's message, and
// slides the untouched high bits down to close the gap. It then shrinks
// the oracle's k by code.Length()-code.Dimension() and updates tau by
// the code's bias. No samples are dropped.
func Reduce(o *oracle.Oracle, cfg lpn.Config, code codes.BinaryCode) error {
	n := code.Length()
	m := code.Dimension()
	k := o.K
	if n > k {
		return fmt.Errorf("%w: covering code length %d exceeds k=%d", lpn.ErrConfiguration, n, k)
	}

	samples := o.Pool.Samples
	chunks := cfg.Chunks(len(samples))
	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for _, c := range chunks {
		go func(c lpn.Chunk) {
			defer wg.Done()
			for i := c.Start; i < c.End; i++ {
				decodeSample(code, &samples[i], n, m, k, o.KMax)
			}
		}(c)
	}
	wg.Wait()

	o.Truncate(k - n + m)
	o.UpdateTauCoveringCode(code.Bias())
	return nil
}

// decodeSample decodes s.A's low n bits to the nearest codeword in
// place via DecodeSlice, keeps only the m systematic message bits, and
// concatenates the untouched bits at [n,k) immediately after them,
// closing the (n-m)-bit gap the decode step just eliminated.
func decodeSample(code codes.BinaryCode, s *sample.Sample, n, m, k, kMax int) {
	low := s.A.Slice(0, n)
	code.DecodeSlice(low.Buff)
	message := low.Slice(0, m)
	high := s.A.Slice(n, k)

	rewritten := gf2.Concat(message, high)
	newA := gf2.NewVector(kMax)
	for i := 0; i < rewritten.Len; i++ {
		if rewritten.Get(i) != 0 {
			newA.Set(i)
		}
	}
	s.A = newA
}
