package fastsets

import (
	"fmt"
	"iter"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/fastsets/internal/bittrans"
)

// Bearer is implemented by values that belong to a domain: members, sets and
// transforms.
type Bearer[T any] interface {
	Domain() *Domain[T]
}

// Set is a subset of a domain represented as a bit-vector indexed by member
// index.
//
// A Set is not safe for concurrent mutation. Read-only use from multiple
// goroutines is safe.
type Set[T any] struct {
	domain *Domain[T]
	bits   *bitset.BitSet
}

func newSet[T any](d *Domain[T], bits *bitset.BitSet) *Set[T] {
	return &Set[T]{domain: d, bits: bits}
}

// NewSet creates a set holding the given members.
func (d *Domain[T]) NewSet(members ...*Member[T]) (*Set[T], error) {
	s := newSet(d, bitset.New(uint(len(d.slots))))
	for _, m := range members {
		if err := s.Add(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// FullSet returns the set of all live members.
func (d *Domain[T]) FullSet() *Set[T] {
	b := bitset.New(uint(len(d.slots)))
	for i, m := range d.slots {
		if m != nil {
			b.Set(uint(i))
		}
	}
	return newSet(d, b)
}

// SetFromBitmap builds a set from member indices. Every index must refer to a
// live member.
func (d *Domain[T]) SetFromBitmap(rb *roaring.Bitmap) (*Set[T], error) {
	b := bitset.New(uint(len(d.slots)))
	it := rb.Iterator()
	for it.HasNext() {
		i := it.Next()
		if _, ok := d.At(int(i)); !ok {
			return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
		}
		b.Set(uint(i))
	}
	return newSet(d, b), nil
}

// Domain returns the domain the set belongs to.
func (s *Set[T]) Domain() *Domain[T] {
	if s == nil {
		return nil
	}
	return s.domain
}

// Add inserts m.
func (s *Set[T]) Add(m *Member[T]) error {
	if !s.domain.Contains(m) {
		return &MismatchError{Op: "add", Index: -1}
	}
	if m.index < 0 {
		return &UninitializedError{Op: "add", Index: -1}
	}
	s.bits.Set(uint(m.index))
	return nil
}

// Remove deletes m. Removing an absent or unregistered member is a no-op.
func (s *Set[T]) Remove(m *Member[T]) error {
	if !s.domain.Contains(m) {
		return &MismatchError{Op: "remove", Index: -1}
	}
	if m.index >= 0 {
		s.bits.Clear(uint(m.index))
	}
	return nil
}

// Contains reports whether m is in the set.
func (s *Set[T]) Contains(m *Member[T]) bool {
	if !s.domain.Contains(m) || m.index < 0 {
		return false
	}
	return s.bits.Test(uint(m.index))
}

// Len returns the number of live members in the set.
func (s *Set[T]) Len() int {
	return int(s.liveBits().Count())
}

// IsEmpty reports whether the set has no live members.
func (s *Set[T]) IsEmpty() bool {
	return s.Len() == 0
}

// Indices returns the indices of the live members in increasing order.
func (s *Set[T]) Indices() []int {
	live := s.liveBits()
	out := make([]int, 0, live.Count())
	for i, ok := live.NextSet(0); ok; i, ok = live.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// Members iterates over the live members in index order.
func (s *Set[T]) Members() iter.Seq[*Member[T]] {
	return func(yield func(*Member[T]) bool) {
		for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
			m, live := s.domain.At(int(i))
			if !live {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}

// Union returns s ∪ o.
func (s *Set[T]) Union(o *Set[T]) (*Set[T], error) {
	if err := s.sameDomain("union", o); err != nil {
		return nil, err
	}
	return newSet(s.domain, s.bits.Union(o.bits)), nil
}

// Intersection returns s ∩ o.
func (s *Set[T]) Intersection(o *Set[T]) (*Set[T], error) {
	if err := s.sameDomain("intersection", o); err != nil {
		return nil, err
	}
	return newSet(s.domain, s.bits.Intersection(o.bits)), nil
}

// Difference returns s \ o.
func (s *Set[T]) Difference(o *Set[T]) (*Set[T], error) {
	if err := s.sameDomain("difference", o); err != nil {
		return nil, err
	}
	return newSet(s.domain, s.bits.Difference(o.bits)), nil
}

// Equal reports whether both sets belong to the same domain and hold the same
// live members.
func (s *Set[T]) Equal(o *Set[T]) bool {
	if o == nil || s.domain != o.domain {
		return false
	}
	return s.liveBits().SymmetricDifferenceCardinality(o.liveBits()) == 0
}

// Clone returns an independent copy of s.
func (s *Set[T]) Clone() *Set[T] {
	return newSet(s.domain, s.bits.Clone())
}

// Bitmap exports the live member indices as a roaring bitmap.
func (s *Set[T]) Bitmap() *roaring.Bitmap {
	rb := roaring.New()
	live := s.liveBits()
	for i, ok := live.NextSet(0); ok; i, ok = live.NextSet(i + 1) {
		rb.Add(uint32(i))
	}
	return rb
}

func (s *Set[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for m := range s.Members() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(m.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// transform remaps the live bits of s through each stage in turn into a new
// set of the same domain. Destinations that have become holes are cleared
// after every stage.
func (s *Set[T]) transform(stages []*bittrans.Table) *Set[T] {
	out := s.liveBits()
	for _, table := range stages {
		out = table.Apply(out)
		s.domain.clearHoles(out)
	}
	return newSet(s.domain, out)
}

func (s *Set[T]) sameDomain(op string, o *Set[T]) error {
	if o == nil || o.domain != s.domain {
		return &MismatchError{Op: op, Index: -1}
	}
	return nil
}

// liveBits returns the bits of s with hole indices cleared. It returns the
// backing vector itself when the domain has no holes.
func (s *Set[T]) liveBits() *bitset.BitSet {
	if s.domain.holes.IsEmpty() {
		return s.bits
	}
	live := s.bits.Clone()
	s.domain.clearHoles(live)
	return live
}

func (d *Domain[T]) clearHoles(b *bitset.BitSet) {
	it := d.holes.Iterator()
	for it.HasNext() {
		b.Clear(uint(it.Next()))
	}
}
