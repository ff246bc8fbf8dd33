package fastsets

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	t.Run("AddContains", func(t *testing.T) {
		d, ms := letters(t, "a", "b", "c", "d")

		s, err := d.NewSet(ms[0], ms[2])
		require.NoError(t, err)

		assert.True(t, s.Contains(ms[0]))
		assert.False(t, s.Contains(ms[1]))
		assert.True(t, s.Contains(ms[2]))
		assert.Equal(t, 2, s.Len())
		assert.Equal(t, []int{0, 2}, s.Indices())
		assert.Equal(t, "{a, c}", s.String())
		assert.Same(t, d, s.Domain())

		require.NoError(t, s.Remove(ms[0]))
		require.NoError(t, s.Remove(ms[1]))
		assert.Equal(t, []int{2}, s.Indices())
	})

	t.Run("Empty", func(t *testing.T) {
		d, _ := letters(t, "a")
		s, err := d.NewSet()
		require.NoError(t, err)
		assert.True(t, s.IsEmpty())
		assert.Equal(t, "{}", s.String())
	})

	t.Run("RejectsForeignAndUnassigned", func(t *testing.T) {
		d, _ := letters(t, "a", "b")
		other, oms := letters(t, "a", "b")

		s, err := d.NewSet()
		require.NoError(t, err)

		assert.ErrorIs(t, s.Add(oms[0]), ErrDomainMismatch)
		assert.ErrorIs(t, s.Remove(oms[0]), ErrDomainMismatch)
		assert.False(t, s.Contains(oms[0]))

		assert.ErrorIs(t, s.Add(d.NewMember("z")), ErrUninitializedMember)
		assert.False(t, s.Contains(d.NewMember("z")))

		_, err = d.NewSet(oms[1])
		assert.ErrorIs(t, err, ErrDomainMismatch)

		foreign, err := other.NewSet()
		require.NoError(t, err)
		_, err = s.Union(foreign)
		assert.ErrorIs(t, err, ErrDomainMismatch)
		assert.False(t, s.Equal(foreign))
	})

	t.Run("Algebra", func(t *testing.T) {
		d, ms := letters(t, "a", "b", "c", "d")
		x, err := d.NewSet(ms[0], ms[1])
		require.NoError(t, err)
		y, err := d.NewSet(ms[1], ms[2])
		require.NoError(t, err)

		u, err := x.Union(y)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, u.Indices())

		i, err := x.Intersection(y)
		require.NoError(t, err)
		assert.Equal(t, []int{1}, i.Indices())

		diff, err := x.Difference(y)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, diff.Indices())

		_, err = x.Intersection(nil)
		assert.ErrorIs(t, err, ErrDomainMismatch)
		_, err = x.Difference(nil)
		assert.ErrorIs(t, err, ErrDomainMismatch)

		// Operands are untouched.
		assert.Equal(t, []int{0, 1}, x.Indices())
		assert.Equal(t, []int{1, 2}, y.Indices())
	})

	t.Run("EqualAndClone", func(t *testing.T) {
		d, ms := letters(t, "a", "b", "c")
		x, err := d.NewSet(ms[0])
		require.NoError(t, err)

		c := x.Clone()
		assert.True(t, x.Equal(c))
		require.NoError(t, c.Add(ms[2]))
		assert.False(t, x.Equal(c))
		assert.False(t, x.Equal(nil))
	})

	t.Run("GrowsWithDomain", func(t *testing.T) {
		d, ms := letters(t, "a")
		s, err := d.NewSet(ms[0])
		require.NoError(t, err)

		late, err := d.Add("late")
		require.NoError(t, err)
		require.NoError(t, s.Add(late))
		assert.Equal(t, []int{0, 1}, s.Indices())
	})

	t.Run("FullSetSkipsHoles", func(t *testing.T) {
		d, ms := letters(t, "a", "b", "c")
		require.NoError(t, d.Remove(ms[1]))

		assert.Equal(t, []int{0, 2}, d.FullSet().Indices())
	})

	t.Run("StaleHoleBits", func(t *testing.T) {
		d, ms := letters(t, "a", "b", "c")
		s := d.FullSet()
		require.NoError(t, d.Remove(ms[1]))

		assert.Equal(t, 2, s.Len())
		assert.Equal(t, []int{0, 2}, s.Indices())
		assert.Equal(t, "{a, c}", s.String())
		assert.True(t, s.Equal(d.FullSet()))
	})
}

func TestSet_Bitmap(t *testing.T) {
	d, ms := letters(t, "a", "b", "c", "d")
	s, err := d.NewSet(ms[1], ms[3])
	require.NoError(t, err)

	rb := s.Bitmap()
	assert.Equal(t, []uint32{1, 3}, rb.ToArray())

	back, err := d.SetFromBitmap(rb)
	require.NoError(t, err)
	assert.True(t, s.Equal(back))

	_, err = d.SetFromBitmap(roaring.BitmapOf(9))
	assert.ErrorIs(t, err, ErrInvalidIndex)

	require.NoError(t, d.Remove(ms[3]))
	assert.Equal(t, []uint32{1}, s.Bitmap().ToArray())

	_, err = d.SetFromBitmap(roaring.BitmapOf(3))
	assert.ErrorIs(t, err, ErrInvalidIndex)
}
