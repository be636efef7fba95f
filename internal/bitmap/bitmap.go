// Package bitmap implements the packed validity bitmap owned by each column:
// one bit per row, set means the value at that row is present.
package bitmap

import (
	"github.com/apache/arrow-go/v18/arrow/bitutil"
)

// Bitmap is a fixed-length packed bitset. It is mutable during construction
// and treated as immutable once its owning column is built.
type Bitmap struct {
	bits   []byte
	length int
}

// New creates a bitmap of n bits, all unset (all rows absent).
func New(n int) *Bitmap {
	return &Bitmap{
		bits:   make([]byte, bitutil.BytesForBits(int64(n))),
		length: n,
	}
}

// NewAllSet creates a bitmap of n bits, all set (all rows present).
func NewAllSet(n int) *Bitmap {
	b := New(n)
	for i := range b.bits {
		b.bits[i] = 0xFF
	}
	// Clear the trailing padding bits so CountSet stays exact.
	for i := n; i < len(b.bits)*8; i++ {
		bitutil.ClearBit(b.bits, i)
	}
	return b
}

// FromBools creates a bitmap from a per-row presence slice.
func FromBools(valid []bool) *Bitmap {
	b := New(len(valid))
	for i, v := range valid {
		if v {
			bitutil.SetBit(b.bits, i)
		}
	}
	return b
}

// Len returns the number of rows covered by the bitmap.
func (b *Bitmap) Len() int { return b.length }

// Get reports whether row i is present. Callers are responsible for bounds.
func (b *Bitmap) Get(i int) bool { return bitutil.BitIsSet(b.bits, i) }

// Set marks row i present.
func (b *Bitmap) Set(i int) { bitutil.SetBit(b.bits, i) }

// Clear marks row i absent.
func (b *Bitmap) Clear(i int) { bitutil.ClearBit(b.bits, i) }

// CountSet returns the number of present rows.
func (b *Bitmap) CountSet() int {
	return bitutil.CountSetBits(b.bits, 0, b.length)
}

// All reports whether every row is present.
func (b *Bitmap) All() bool { return b.CountSet() == b.length }

// Clone returns an independent copy.
func (b *Bitmap) Clone() *Bitmap {
	out := &Bitmap{bits: make([]byte, len(b.bits)), length: b.length}
	copy(out.bits, b.bits)
	return out
}

// Append returns a new bitmap holding b's rows followed by other's rows.
func (b *Bitmap) Append(other *Bitmap) *Bitmap {
	out := New(b.length + other.length)
	for i := 0; i < b.length; i++ {
		if b.Get(i) {
			out.Set(i)
		}
	}
	for i := 0; i < other.length; i++ {
		if other.Get(i) {
			out.Set(b.length + i)
		}
	}
	return out
}

// Gather returns a new bitmap whose row j is b's row indices[j].
func (b *Bitmap) Gather(indices []int) *Bitmap {
	out := New(len(indices))
	for j, i := range indices {
		if b.Get(i) {
			out.Set(j)
		}
	}
	return out
}

// ToBools expands the bitmap into a per-row presence slice.
func (b *Bitmap) ToBools() []bool {
	out := make([]bool, b.length)
	for i := range out {
		out[i] = b.Get(i)
	}
	return out
}
