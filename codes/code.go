// Package codes implements the BinaryCode contract (small [n,dim] linear
// codes over GF(2) with syndrome decoding) and the concatenation
// combinator the covering-code reduction uses to shrink an LPN instance's
// dimension.
package codes

import (
	"fmt"

	"github.com/tuneinsight/lpn"
	"github.com/tuneinsight/lpn/gf2"
)

// BinaryCode is the capability set every small code and the composite
// concatenated code must satisfy. Implementations MUST be in systematic
// form: the leading Dimension() positions of a codeword are its message,
// so DecodeToMessage can simply truncate the decoded codeword.
type BinaryCode interface {
	Name() string
	Length() int
	Dimension() int
	GeneratorMatrix() gf2.Matrix
	ParityCheckMatrix() gf2.Matrix
	ParityCheckMatrixTransposed() gf2.Matrix

	// DecodeToCode returns the nearest codeword to c. Precondition:
	// len(c) == Length(). Postcondition: H . result = 0.
	DecodeToCode(c gf2.Vector) (gf2.Vector, error)

	// DecodeToMessage decodes c and returns the leading Dimension() bits
	// of the resulting codeword.
	DecodeToMessage(c gf2.Vector) (gf2.Vector, error)

	// DecodeSlice decodes the word-packed codeword in place, XORing in
	// the correction directly, for the covering-code reducer's bulk
	// rewrite of a sample pool.
	DecodeSlice(words []uint64)

	// Bias returns the expected <x, decode(x)> bias over a uniformly
	// random x in GF(2)^Length(), used by the oracle's covering-code tau
	// update.
	Bias() float64
}

// linearCode is the concrete implementation backing every catalogued
// code: a fixed generator/parity-check pair plus a syndrome -> coset
// leader table built once at registration time.
type linearCode struct {
	name        string
	n, dim      int
	generator   gf2.Matrix
	parity      gf2.Matrix
	parityT     gf2.Matrix
	syndromeMap map[uint64]gf2.Vector
	bias        float64
}

// newFromParityCheck builds a linearCode from a parity-check matrix H in
// systematic form: H = [A | I_r], so the generator is G = [I_k | A^T].
// The syndrome table is derived from H directly (never hand-copied) via
// deriveSyndromeTable, and the systematic-form precondition is asserted
// here rather than merely assumed, per §9's design note.
func newFromParityCheck(name string, H gf2.Matrix) (*linearCode, error) {
	r := H.NumRows()
	n := H.NumCols()
	k := n - r
	if k <= 0 {
		return nil, fmt.Errorf("%w: parity-check matrix for %q has no message bits (n=%d, r=%d)", lpn.ErrConfiguration, name, n, r)
	}
	for row := 0; row < r; row++ {
		for col := 0; col < r; col++ {
			want := 0
			if row == col {
				want = 1
			}
			if H.Rows[row].Get(k+col) != want {
				return nil, fmt.Errorf("%w: parity-check matrix for %q is not in systematic form [A | I]", lpn.ErrConfiguration, name)
			}
		}
	}

	generator := gf2.NewMatrix(k, n)
	for i := 0; i < k; i++ {
		generator.Rows[i].Set(i)
		for row := 0; row < r; row++ {
			if H.Rows[row].Get(i) != 0 {
				generator.Rows[i].Set(k + row)
			}
		}
	}

	lc := &linearCode{
		name:        name,
		n:           n,
		dim:         k,
		generator:   generator,
		parity:      H,
		parityT:     H.Transpose(),
		syndromeMap: deriveSyndromeTable(H),
	}
	lc.bias = computeBias(lc)
	return lc, nil
}

func (lc *linearCode) Name() string                            { return lc.name }
func (lc *linearCode) Length() int                             { return lc.n }
func (lc *linearCode) Dimension() int                          { return lc.dim }
func (lc *linearCode) GeneratorMatrix() gf2.Matrix             { return lc.generator }
func (lc *linearCode) ParityCheckMatrix() gf2.Matrix           { return lc.parity }
func (lc *linearCode) ParityCheckMatrixTransposed() gf2.Matrix { return lc.parityT }
func (lc *linearCode) Bias() float64                           { return lc.bias }

// Encode returns the codeword for the given message (length Dimension()).
func (lc *linearCode) Encode(msg gf2.Vector) (gf2.Vector, error) {
	if msg.Len != lc.dim {
		return gf2.Vector{}, fmt.Errorf("%w: message length %d != dimension %d of %q", lpn.ErrCode, msg.Len, lc.dim, lc.name)
	}
	out := gf2.NewVector(lc.n)
	for i := 0; i < lc.dim; i++ {
		if msg.Get(i) != 0 {
			out.XorInto(lc.generator.Rows[i])
		}
	}
	return out, nil
}

func (lc *linearCode) syndromeOf(c gf2.Vector) uint64 {
	syn := lc.parity.MulVec(c)
	return syn.BitsRange(0, syn.Len)
}

func (lc *linearCode) DecodeToCode(c gf2.Vector) (gf2.Vector, error) {
	if c.Len != lc.n {
		return gf2.Vector{}, fmt.Errorf("%w: decode input length %d != code length %d for %q", lpn.ErrCode, c.Len, lc.n, lc.name)
	}
	key := lc.syndromeOf(c)
	errPattern, ok := lc.syndromeMap[key]
	if !ok {
		return gf2.Vector{}, fmt.Errorf("%w: syndrome %d not found in table for %q", lpn.ErrCode, key, lc.name)
	}
	result := c.Clone()
	result.XorInto(errPattern)
	return result, nil
}

func (lc *linearCode) DecodeToMessage(c gf2.Vector) (gf2.Vector, error) {
	codeword, err := lc.DecodeToCode(c)
	if err != nil {
		return gf2.Vector{}, err
	}
	return codeword.Slice(0, lc.dim), nil
}

// DecodeSlice reinterprets words as the backing storage of a Length()-bit
// vector and XORs the correction directly into it, without allocating a
// fresh result vector; this is the path the covering-code reducer uses
// against the live sample pool.
func (lc *linearCode) DecodeSlice(words []uint64) {
	v := gf2.Vector{Buff: words, Len: lc.n}
	key := lc.syndromeOf(v)
	errPattern, ok := lc.syndromeMap[key]
	if !ok {
		panic(fmt.Sprintf("codes: syndrome %d not found in table for %q", key, lc.name))
	}
	v.XorInto(errPattern)
}

// deriveSyndromeTable brute-forces, from the parity-check matrix alone,
// the minimum-weight error pattern for every syndrome reachable from
// H.GF(2)^n: it enumerates error patterns in increasing Hamming weight
// and records the first (hence lightest) pattern seen for each syndrome,
// stopping once every one of the 2^r syndromes has a representative.
func deriveSyndromeTable(H gf2.Matrix) map[uint64]gf2.Vector {
	r := H.NumRows()
	n := H.NumCols()
	total := 1 << uint(r)
	table := make(map[uint64]gf2.Vector, total)

	zero := gf2.NewVector(n)
	table[0] = zero

	for w := 1; w <= n && len(table) < total; w++ {
		forEachCombination(n, w, func(positions []int) bool {
			e := gf2.NewVector(n)
			for _, p := range positions {
				e.Set(p)
			}
			syn := H.MulVec(e)
			key := syn.BitsRange(0, syn.Len)
			if _, seen := table[key]; !seen {
				table[key] = e
			}
			return len(table) < total
		})
	}
	return table
}

// forEachCombination calls fn once for every w-element subset of
// {0, ..., n-1}, in ascending order, stopping early if fn returns false.
func forEachCombination(n, w int, fn func(positions []int) bool) bool {
	combo := make([]int, w)
	var recurse func(start, depth int) bool
	recurse = func(start, depth int) bool {
		if depth == w {
			return fn(combo)
		}
		for i := start; i <= n-(w-depth); i++ {
			combo[depth] = i
			if !recurse(i+1, depth+1) {
				return false
			}
		}
		return true
	}
	return recurse(0, 0)
}

// computeBias computes E_x[(-1)^<x, decode_to_code(x)>] exhaustively over
// GF(2)^n. Every catalogued code in this package has n small enough
// (<= 15) for this to be cheap; it is not meant to scale beyond the
// small-code regime this package is restricted to.
//
// The raw expectation lies in [-1,1]; the BinaryCode.Bias contract
// promises [0,1] (the oracle's tau update assumes a nonnegative bias),
// so the result is clamped at zero. Every catalogued code here is a
// minimum-distance decoder and is positively biased in practice, but
// the clamp keeps the contract honest for any future code that isn't.
func computeBias(code BinaryCode) float64 {
	n := code.Length()
	total := 1 << uint(n)
	sum := 0
	x := gf2.NewVector(n)
	for i := 0; i < total; i++ {
		setVectorFromInt(&x, i)
		c, err := code.DecodeToCode(x)
		if err != nil {
			panic(err)
		}
		if gf2.Dot(x, c) == 0 {
			sum++
		} else {
			sum--
		}
	}
	bias := float64(sum) / float64(total)
	if bias < 0 {
		bias = 0
	}
	return bias
}

func setVectorFromInt(v *gf2.Vector, i int) {
	for w := range v.Buff {
		v.Buff[w] = 0
	}
	for bit := 0; bit < v.Len; bit++ {
		if (i>>uint(bit))&1 == 1 {
			v.Set(bit)
		}
	}
}
