package fastsets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// letters builds a domain holding the given names at indices 0..n-1.
func letters(t *testing.T, names ...string) (*Domain[string], []*Member[string]) {
	t.Helper()
	d := NewDomain[string]("letters")
	members := make([]*Member[string], len(names))
	for i, n := range names {
		m, err := d.Add(n)
		require.NoError(t, err)
		members[i] = m
	}
	return d, members
}

func TestDomain(t *testing.T) {
	t.Run("Register", func(t *testing.T) {
		d, ms := letters(t, "a", "b", "c")

		assert.Equal(t, 3, d.Count())
		assert.Equal(t, 3, d.Len())
		for i, m := range ms {
			assert.Equal(t, i, m.Index())
			assert.True(t, m.Registered())
			assert.Same(t, d, m.Domain())

			got, ok := d.At(i)
			require.True(t, ok)
			assert.Same(t, m, got)
		}
		assert.Equal(t, "letters", d.Name())
		assert.Equal(t, `domain "letters"`, d.String())
		assert.Equal(t, "b", ms[1].String())
	})

	t.Run("Unassigned", func(t *testing.T) {
		d := NewDomain[int]("numbers")
		m := d.NewMember(7)

		assert.Equal(t, Unassigned, m.Index())
		assert.False(t, m.Registered())
		assert.True(t, d.Contains(m))
		assert.Equal(t, 7, m.Value())
		assert.Equal(t, 0, d.Count())

		require.NoError(t, d.Register(m))
		assert.Equal(t, 0, m.Index())
		assert.ErrorIs(t, d.Register(m), ErrAlreadyRegistered)
	})

	t.Run("ForeignMember", func(t *testing.T) {
		d1 := NewDomain[int]("one")
		d2 := NewDomain[int]("two")
		m := d2.NewMember(1)

		assert.False(t, d1.Contains(m))
		assert.False(t, d1.Contains(nil))
		assert.ErrorIs(t, d1.Register(m), ErrDomainMismatch)
		assert.ErrorIs(t, d1.Register(nil), ErrDomainMismatch)
		assert.NotEqual(t, d1.ID(), d2.ID())
	})

	t.Run("RemoveLeavesHole", func(t *testing.T) {
		d, ms := letters(t, "a", "b", "c", "d")

		require.NoError(t, d.Remove(ms[1]))

		assert.Equal(t, 4, d.Count())
		assert.Equal(t, 3, d.Len())
		assert.True(t, d.IsHole(1))
		assert.False(t, d.IsHole(0))
		assert.False(t, d.IsHole(42))
		assert.Equal(t, []int{1}, d.Holes())

		_, ok := d.At(1)
		assert.False(t, ok)
		_, ok = d.At(-1)
		assert.False(t, ok)
		_, ok = d.At(4)
		assert.False(t, ok)

		assert.Equal(t, Unassigned, ms[1].Index())
		assert.ErrorIs(t, d.Register(ms[1]), ErrRetiredMember)
		assert.ErrorIs(t, d.Remove(ms[1]), ErrUninitializedMember)

		// New members never reuse hole indices.
		e, err := d.Add("e")
		require.NoError(t, err)
		assert.Equal(t, 4, e.Index())
	})

	t.Run("Members", func(t *testing.T) {
		d, ms := letters(t, "a", "b", "c")
		require.NoError(t, d.Remove(ms[0]))

		var got []string
		for m := range d.Members() {
			got = append(got, m.Value())
		}
		assert.Equal(t, []string{"b", "c"}, got)

		n := 0
		for range d.Members() {
			n++
			break
		}
		assert.Equal(t, 1, n)
	})

	t.Run("MustAdd", func(t *testing.T) {
		d := NewDomain[string]("x")
		assert.Equal(t, 0, d.MustAdd("a").Index())

		require.NoError(t, d.Close())
		assert.Panics(t, func() { d.MustAdd("b") })
	})
}

func TestDomain_Close(t *testing.T) {
	t.Run("Unreferenced", func(t *testing.T) {
		d, ms := letters(t, "a", "b")

		require.NoError(t, d.Close())
		require.NoError(t, d.Close())
		assert.True(t, d.Closed())

		_, err := d.Add("c")
		assert.ErrorIs(t, err, ErrDomainClosed)
		assert.ErrorIs(t, d.Remove(ms[0]), ErrDomainClosed)
	})

	t.Run("Referenced", func(t *testing.T) {
		d, _ := letters(t, "a", "b")

		require.NoError(t, d.acquire())
		assert.ErrorIs(t, d.Close(), ErrDomainInUse)
		assert.False(t, d.Closed())

		d.release()
		require.NoError(t, d.Close())
		assert.ErrorIs(t, d.acquire(), ErrDomainClosed)
		assert.Equal(t, int64(0), d.refs.Load())
	})

	t.Run("DoubleRelease", func(t *testing.T) {
		d := NewDomain[int]("n")
		require.NoError(t, d.acquire())
		d.release()
		assert.Panics(t, func() { d.release() })
	})
}
