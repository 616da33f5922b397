package codes

import (
	"fmt"

	"github.com/tuneinsight/lpn"
	"github.com/tuneinsight/lpn/gf2"
)

// ConcatenatedCode is an ordered sequence of BinaryCode values treated as
// a single composite code: its length and dimension are the sums of the
// components', and every operation forwards blockwise in order.
type ConcatenatedCode struct {
	Components []BinaryCode
	n, dim     int
}

// NewConcatenatedCode builds the composite of the given component codes,
// in order.
func NewConcatenatedCode(components ...BinaryCode) *ConcatenatedCode {
	n, dim := 0, 0
	for _, c := range components {
		n += c.Length()
		dim += c.Dimension()
	}
	return &ConcatenatedCode{Components: components, n: n, dim: dim}
}

func (cc *ConcatenatedCode) Name() string {
	name := ""
	for i, c := range cc.Components {
		if i > 0 {
			name += " + "
		}
		name += c.Name()
	}
	return name
}

func (cc *ConcatenatedCode) Length() int    { return cc.n }
func (cc *ConcatenatedCode) Dimension() int { return cc.dim }

// GeneratorMatrix builds the block-diagonal generator for the composite,
// constructed on demand rather than cached: the concatenated codes this
// reducer is expected to see are small enough (<=25 combined length) that
// building it per call costs nothing compared to a single decode pass
// over a sample pool of hundreds of thousands of entries.
func (cc *ConcatenatedCode) GeneratorMatrix() gf2.Matrix {
	g := gf2.NewMatrix(cc.dim, cc.n)
	rowOff, colOff := 0, 0
	for _, c := range cc.Components {
		sub := c.GeneratorMatrix()
		for i := 0; i < sub.NumRows(); i++ {
			for j := 0; j < sub.NumCols(); j++ {
				if sub.Rows[i].Get(j) != 0 {
					g.Rows[rowOff+i].Set(colOff + j)
				}
			}
		}
		rowOff += sub.NumRows()
		colOff += sub.NumCols()
	}
	return g
}

// ParityCheckMatrix builds the block-diagonal parity-check matrix for the
// composite; see GeneratorMatrix for why this is built on demand.
func (cc *ConcatenatedCode) ParityCheckMatrix() gf2.Matrix {
	rows, cols := 0, 0
	for _, c := range cc.Components {
		rows += c.Length() - c.Dimension()
		cols += c.Length()
	}
	h := gf2.NewMatrix(rows, cols)
	rowOff, colOff := 0, 0
	for _, c := range cc.Components {
		sub := c.ParityCheckMatrix()
		for i := 0; i < sub.NumRows(); i++ {
			for j := 0; j < sub.NumCols(); j++ {
				if sub.Rows[i].Get(j) != 0 {
					h.Rows[rowOff+i].Set(colOff + j)
				}
			}
		}
		rowOff += sub.NumRows()
		colOff += sub.NumCols()
	}
	return h
}

func (cc *ConcatenatedCode) ParityCheckMatrixTransposed() gf2.Matrix {
	return cc.ParityCheckMatrix().Transpose()
}

// DecodeToCode splits c across the component lengths in order and decodes
// each block independently, concatenating the corrected blocks.
func (cc *ConcatenatedCode) DecodeToCode(c gf2.Vector) (gf2.Vector, error) {
	if c.Len != cc.n {
		return gf2.Vector{}, fmt.Errorf("%w: concatenated decode input length %d != code length %d", lpn.ErrCode, c.Len, cc.n)
	}
	blocks := make([]gf2.Vector, len(cc.Components))
	off := 0
	for i, comp := range cc.Components {
		block := c.Slice(off, off+comp.Length())
		decoded, err := comp.DecodeToCode(block)
		if err != nil {
			return gf2.Vector{}, err
		}
		blocks[i] = decoded
		off += comp.Length()
	}
	return gf2.Concat(blocks...), nil
}

// DecodeToMessage decodes c blockwise and concatenates each component's
// message, in order — the composite is systematic precisely because each
// component is.
func (cc *ConcatenatedCode) DecodeToMessage(c gf2.Vector) (gf2.Vector, error) {
	if c.Len != cc.n {
		return gf2.Vector{}, fmt.Errorf("%w: concatenated decode input length %d != code length %d", lpn.ErrCode, c.Len, cc.n)
	}
	messages := make([]gf2.Vector, len(cc.Components))
	off := 0
	for i, comp := range cc.Components {
		block := c.Slice(off, off+comp.Length())
		msg, err := comp.DecodeToMessage(block)
		if err != nil {
			return gf2.Vector{}, err
		}
		messages[i] = msg
		off += comp.Length()
	}
	return gf2.Concat(messages...), nil
}

// DecodeSlice decodes the word-packed codeword in place, dispatching each
// component to its own word range. Component boundaries are not generally
// word-aligned, so this materializes each block, decodes it, and writes
// the corrected bits back — still a single XOR-in-place per component,
// just via a temporary block vector rather than raw sub-slices of words.
func (cc *ConcatenatedCode) DecodeSlice(words []uint64) {
	v := gf2.Vector{Buff: words, Len: cc.n}
	off := 0
	for _, comp := range cc.Components {
		block := v.Slice(off, off+comp.Length())
		comp.DecodeSlice(block.Buff)
		for i := 0; i < comp.Length(); i++ {
			v.SetBit(off+i, block.Get(i))
		}
		off += comp.Length()
	}
}

// Bias returns the product of the component biases: the composite's
// induced noise term is the product of independent per-block terms under
// the same model the oracle's covering-code tau update assumes.
func (cc *ConcatenatedCode) Bias() float64 {
	b := 1.0
	for _, c := range cc.Components {
		b *= c.Bias()
	}
	return b
}

var _ BinaryCode = (*ConcatenatedCode)(nil)
