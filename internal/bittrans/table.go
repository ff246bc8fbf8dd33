package bittrans

import (
	"errors"
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
)

// MaxWidth is the largest width a Table can address.
const MaxWidth = math.MaxUint32

var (
	// ErrWidthTooLarge is returned by New when width exceeds MaxWidth.
	ErrWidthTooLarge = errors.New("bittrans: width too large")

	// ErrAlreadyMapped is returned when a source index is assigned twice.
	ErrAlreadyMapped = errors.New("bittrans: source index already mapped")

	// ErrFreed is returned when a freed table is modified.
	ErrFreed = errors.New("bittrans: table freed")
)

// ErrOutOfRange indicates a source or destination index outside [0, width).
type ErrOutOfRange struct {
	Index uint
	Width uint
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("bittrans: index %d out of range [0, %d)", e.Index, e.Width)
}

// Table is a partial function from source bit index to destination bit index.
type Table struct {
	width uint

	// dst holds the destination per source index. Only entries whose bit is
	// set in mapped are meaningful.
	dst []uint32

	// mapped marks the source indices that carry a destination.
	mapped *bitset.BitSet

	freed bool
}

// New creates an empty table of the given width.
func New(width uint) (*Table, error) {
	if width > MaxWidth {
		return nil, ErrWidthTooLarge
	}
	return &Table{
		width:  width,
		dst:    make([]uint32, width),
		mapped: bitset.New(width),
	}, nil
}

// Width returns the number of addressable indices.
func (t *Table) Width() uint {
	return t.width
}

// Len returns the number of recorded mappings.
func (t *Table) Len() uint {
	if t.freed {
		return 0
	}
	return t.mapped.Count()
}

// Freed reports whether Free has been called.
func (t *Table) Freed() bool {
	return t.freed
}

// Add records src -> dst. Each source index may be mapped at most once.
func (t *Table) Add(src, dst uint) error {
	if t.freed {
		return ErrFreed
	}
	if src >= t.width {
		return &ErrOutOfRange{Index: src, Width: t.width}
	}
	if dst >= t.width {
		return &ErrOutOfRange{Index: dst, Width: t.width}
	}
	if t.mapped.Test(src) {
		return ErrAlreadyMapped
	}
	t.dst[src] = uint32(dst)
	t.mapped.Set(src)
	return nil
}

// Lookup returns the destination recorded for src.
func (t *Table) Lookup(src uint) (uint, bool) {
	if t.freed || src >= t.width || !t.mapped.Test(src) {
		return 0, false
	}
	return uint(t.dst[src]), true
}

// Apply remaps every set bit of in through the table into a newly allocated
// bit-vector of the table's width. in is not modified. Bits at or beyond the
// table width and bits without a mapping are dropped.
//
// A freed table yields an empty vector.
func (t *Table) Apply(in *bitset.BitSet) *bitset.BitSet {
	out := bitset.New(t.width)
	if t.freed || in == nil {
		return out
	}

	// Restrict to mapped sources first so the scan below only visits bits
	// that produce output.
	active := in.Intersection(t.mapped)

	buf := make([]uint, 256)
	for i, batch := active.NextSetMany(0, buf); len(batch) > 0; i, batch = active.NextSetMany(i+1, buf) {
		for _, src := range batch {
			out.Set(uint(t.dst[src]))
		}
	}
	return out
}

// Clone returns an independent copy of t.
func (t *Table) Clone() (*Table, error) {
	if t.freed {
		return nil, ErrFreed
	}
	dst := make([]uint32, len(t.dst))
	copy(dst, t.dst)
	return &Table{
		width:  t.width,
		dst:    dst,
		mapped: t.mapped.Clone(),
	}, nil
}

// Free releases the table storage. Calling Free more than once is a no-op.
func (t *Table) Free() {
	if t.freed {
		return
	}
	t.freed = true
	t.dst = nil
	t.mapped = nil
}
