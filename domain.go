package fastsets

import (
	"fmt"
	"iter"
	"math"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
)

// Unassigned is the index of a member that is not registered in its domain.
const Unassigned = -1

// MaxCount is the largest number of indices a domain can hand out.
const MaxCount int64 = math.MaxUint32

// Domain is an ordered registry of members. Each registered member holds a
// unique index in [0, Count()). Removing a member leaves a hole at its index;
// indices are never reused.
//
// Domain performs no internal locking. Registration and removal must be
// serialized by the caller and must not run while a Transform over the same
// domain is being built.
type Domain[T any] struct {
	id    uuid.UUID
	name  string
	slots []*Member[T]
	holes *roaring.Bitmap
	live  int

	// refs counts outstanding transform handles.
	refs   atomic.Int64
	closed atomic.Bool
}

// NewDomain creates an empty domain.
func NewDomain[T any](name string) *Domain[T] {
	return &Domain[T]{
		id:    uuid.New(),
		name:  name,
		holes: roaring.New(),
	}
}

// Name returns the domain name.
func (d *Domain[T]) Name() string { return d.name }

// ID returns the instance identifier. Two domains with equal names and
// contents still have distinct IDs.
func (d *Domain[T]) ID() uuid.UUID { return d.id }

// Count returns the width of the index space, holes included.
func (d *Domain[T]) Count() int { return len(d.slots) }

// Len returns the number of live members.
func (d *Domain[T]) Len() int { return d.live }

// NewMember creates an unregistered member of d.
func (d *Domain[T]) NewMember(value T) *Member[T] {
	return &Member[T]{
		domain: d,
		index:  Unassigned,
		value:  value,
	}
}

// Register assigns the next free index to m.
func (d *Domain[T]) Register(m *Member[T]) error {
	if d.closed.Load() {
		return ErrDomainClosed
	}
	if m == nil || m.domain != d {
		return &MismatchError{Op: "register", Index: -1}
	}
	if m.retired {
		return ErrRetiredMember
	}
	if m.index >= 0 {
		return ErrAlreadyRegistered
	}
	if int64(len(d.slots)) >= MaxCount {
		return ErrDomainFull
	}

	m.index = len(d.slots)
	d.slots = append(d.slots, m)
	d.live++
	return nil
}

// Add creates and registers a member holding value.
func (d *Domain[T]) Add(value T) (*Member[T], error) {
	m := d.NewMember(value)
	if err := d.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// MustAdd is like Add but panics on error.
func (d *Domain[T]) MustAdd(value T) *Member[T] {
	m, err := d.Add(value)
	if err != nil {
		panic(err)
	}
	return m
}

// Remove unregisters m, leaving a hole at its index. The member becomes
// unassigned and cannot be registered again.
func (d *Domain[T]) Remove(m *Member[T]) error {
	if d.closed.Load() {
		return ErrDomainClosed
	}
	if m == nil || m.domain != d {
		return &MismatchError{Op: "remove", Index: -1}
	}
	if m.index < 0 {
		return &UninitializedError{Op: "remove", Index: -1}
	}

	d.slots[m.index] = nil
	d.holes.Add(uint32(m.index))
	d.live--

	m.index = Unassigned
	m.retired = true
	return nil
}

// At returns the member at index i. It reports false for holes and for
// indices outside [0, Count()).
func (d *Domain[T]) At(i int) (*Member[T], bool) {
	if i < 0 || i >= len(d.slots) {
		return nil, false
	}
	m := d.slots[i]
	return m, m != nil
}

// Contains reports whether m belongs to this domain instance. It does not
// check whether m is registered.
func (d *Domain[T]) Contains(m *Member[T]) bool {
	return m != nil && m.domain == d
}

// IsHole reports whether i lies in the index space but holds no member.
func (d *Domain[T]) IsHole(i int) bool {
	if i < 0 || i >= len(d.slots) {
		return false
	}
	return d.holes.Contains(uint32(i))
}

// Holes returns the hole indices in increasing order.
func (d *Domain[T]) Holes() []int {
	out := make([]int, 0, d.holes.GetCardinality())
	it := d.holes.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Members iterates over the live members in index order.
func (d *Domain[T]) Members() iter.Seq[*Member[T]] {
	return func(yield func(*Member[T]) bool) {
		for _, m := range d.slots {
			if m == nil {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}

// Close releases the registry. It fails with ErrDomainInUse while any
// transform still references the domain. Closing twice is a no-op.
func (d *Domain[T]) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	if d.refs.Load() > 0 {
		d.closed.Store(false)
		return ErrDomainInUse
	}
	d.slots = nil
	d.holes.Clear()
	d.live = 0
	return nil
}

// Closed reports whether Close succeeded.
func (d *Domain[T]) Closed() bool { return d.closed.Load() }

func (d *Domain[T]) String() string {
	return fmt.Sprintf("domain %q", d.name)
}

// acquire takes a handle that keeps the domain open until release.
func (d *Domain[T]) acquire() error {
	if d.closed.Load() {
		return ErrDomainClosed
	}
	d.refs.Add(1)
	if d.closed.Load() {
		d.refs.Add(-1)
		return ErrDomainClosed
	}
	return nil
}

func (d *Domain[T]) release() {
	if d.refs.Add(-1) < 0 {
		panic("fastsets: domain handle released more than once")
	}
}

// Member is an element of exactly one domain.
type Member[T any] struct {
	domain  *Domain[T]
	index   int
	value   T
	retired bool
}

// Domain returns the owning domain.
func (m *Member[T]) Domain() *Domain[T] {
	if m == nil {
		return nil
	}
	return m.domain
}

// Index returns the assigned index, or Unassigned.
func (m *Member[T]) Index() int { return m.index }

// Registered reports whether m holds an index.
func (m *Member[T]) Registered() bool { return m.index >= 0 }

// Value returns the payload the member was created with.
func (m *Member[T]) Value() T { return m.value }

func (m *Member[T]) String() string {
	return fmt.Sprint(m.value)
}
