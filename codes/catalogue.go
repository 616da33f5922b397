package codes

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/tuneinsight/lpn/gf2"
)

var (
	catalogueOnce sync.Once
	catalogue     map[string]BinaryCode

	// Hamming3_1, Hamming7_4 and Hamming15_11 are the three codes the
	// covering-code end-to-end scenario concatenates (length 25,
	// dimension 16): Hamming[15,11] ⊕ Hamming[7,4] ⊕ Hamming[3,1].
	Hamming3_1   BinaryCode
	Hamming7_4   BinaryCode
	Hamming15_11 BinaryCode

	// Code10_6 is a hand-built [10,6] shortened-Hamming code carried
	// alongside the Hamming family to exercise the BinaryCode contract
	// against a non-perfect-Hamming shape (length below the perfect
	// bound 2^r-1 for its redundancy).
	Code10_6 BinaryCode
)

func init() {
	catalogueOnce.Do(buildCatalogue)
}

func buildCatalogue() {
	catalogue = make(map[string]BinaryCode, 8)

	register("Hamming[3,1]", &Hamming3_1, mustHamming(2))
	register("Hamming[7,4]", &Hamming7_4, mustHamming(3))
	register("Hamming[15,11]", &Hamming15_11, mustHamming(4))
	register("Code[10,6]", &Code10_6, mustCode10_6())
}

func register(name string, slot *BinaryCode, code BinaryCode) {
	catalogue[name] = code
	*slot = code
}

// Lookup returns the catalogued code registered under name, or false if
// no code is registered under that name.
func Lookup(name string) (BinaryCode, bool) {
	catalogueOnce.Do(buildCatalogue)
	c, ok := catalogue[name]
	return c, ok
}

// mustHamming panics on construction failure; it is only ever called from
// this package's own init with parity-check matrices this package itself
// builds, so a failure here is a bug in this package, not caller error.
func mustHamming(r int) BinaryCode {
	c, err := newHammingCode(r)
	if err != nil {
		panic(err)
	}
	return c
}

// newHammingCode builds the systematic-form [2^r - 1, 2^r - 1 - r]
// Hamming code: the parity-check matrix's columns are every nonzero
// vector of GF(2)^r, with the r weight-1 columns (the identity block)
// placed last so the code is systematic per the BinaryCode contract.
// This is the standard Hamming-code construction; for r=2 it degenerates
// to the [3,1] triple-repetition code used by the covering-code scenario.
func newHammingCode(r int) (BinaryCode, error) {
	n := (1 << uint(r)) - 1
	k := n - r

	var messageCols []uint64
	for v := uint64(1); v <= uint64(n); v++ {
		if bits.OnesCount64(v) >= 2 {
			messageCols = append(messageCols, v)
		}
	}
	if len(messageCols) != k {
		return nil, fmt.Errorf("codes: internal: expected %d message columns for Hamming(%d), got %d", k, r, len(messageCols))
	}

	H := gf2.NewMatrix(r, n)
	for col, val := range messageCols {
		for row := 0; row < r; row++ {
			if (val>>uint(row))&1 == 1 {
				H.Rows[row].Set(col)
			}
		}
	}
	for i := 0; i < r; i++ {
		H.Rows[i].Set(k + i)
	}

	return newFromParityCheck(fmt.Sprintf("Hamming[%d,%d]", n, k), H)
}

// mustCode10_6 builds the [10,6] catalogue code from a fixed
// parity-check matrix with minimum distance 3 (single-error-correcting):
// a linear code corrects every single-bit error iff its parity-check
// columns are all nonzero and pairwise distinct, so any 6 distinct
// weight->=2 vectors of GF(2)^4 make valid message columns once the
// remaining 4 columns carry the identity block. 10 is below the perfect
// Hamming length 2^4-1=15 for this redundancy, so the code is a
// shortened (non-perfect) Hamming code of the same target distance a
// Guava search aims for; see DESIGN.md for why this table is hand-built
// rather than transliterated from a published catalogue.
func mustCode10_6() BinaryCode {
	cols := []uint64{0b0011, 0b0101, 0b0110, 0b0111, 0b1011, 0b1101}
	H := gf2.NewMatrix(4, 10)
	for col, val := range cols {
		for row := 0; row < 4; row++ {
			if (val>>uint(row))&1 == 1 {
				H.Rows[row].Set(col)
			}
		}
	}
	for i := 0; i < 4; i++ {
		H.Rows[i].Set(6 + i)
	}
	c, err := newFromParityCheck("Code[10,6]", H)
	if err != nil {
		panic(err)
	}
	return c
}
