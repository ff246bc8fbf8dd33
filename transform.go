package fastsets

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/fastsets/internal/bittrans"
)

// Func maps a member to its image in the same domain.
type Func[T any] interface {
	Map(m *Member[T]) (*Member[T], error)
}

// MapFunc adapts an ordinary function to the Func interface.
type MapFunc[T any] func(m *Member[T]) (*Member[T], error)

// Map implements Func.
func (f MapFunc[T]) Map(m *Member[T]) (*Member[T], error) {
	return f(m)
}

// Transform is a function over a domain precompiled into bit mapping tables,
// one per stage. A transform built by NewTransform has a single stage; Then
// chains the stages of two transforms. Applying it to a set computes the image
// of the set in time proportional to the domain width, without calling the
// original function again.
//
// A Transform is immutable after construction; Apply, Lookup and ApplyAll
// are safe for concurrent use. Close must not race with them.
type Transform[T any] struct {
	domain *Domain[T]
	stages []*bittrans.Table
	mapped int
	opts   options
	closed atomic.Bool
}

// NewTransform evaluates fn once per live member of d, in increasing index
// order, and records each image. Every image must be a registered member of
// d itself.
//
// Holes are skipped: set bits at hole indices have no image.
//
// On failure no Transform is returned, and the domain handle and any
// partially built table are released.
func NewTransform[T any](d *Domain[T], fn Func[T], optFns ...Option) (*Transform[T], error) {
	o := applyOptions(optFns)

	start := time.Now()
	table, err := build(d, fn)
	elapsed := time.Since(start)

	width, mapped := 0, 0
	logger := o.logger
	if d != nil {
		width = d.Count()
		logger = logger.WithDomain(d.name, d.id.String())
	}
	if table != nil {
		mapped = int(table.Len())
	}
	o.metricsCollector.RecordBuild(width, mapped, elapsed, err)
	logger.LogBuild(width, mapped, elapsed, err)

	if err != nil {
		return nil, err
	}
	o.logger = logger
	return &Transform[T]{
		domain: d,
		stages: []*bittrans.Table{table},
		mapped: mapped,
		opts:   o,
	}, nil
}

// MustTransform is like NewTransform but panics on error.
func MustTransform[T any](d *Domain[T], fn Func[T], optFns ...Option) *Transform[T] {
	t, err := NewTransform(d, fn, optFns...)
	if err != nil {
		panic(err)
	}
	return t
}

func build[T any](d *Domain[T], fn Func[T]) (*bittrans.Table, error) {
	if d == nil {
		return nil, ErrNotADomain
	}
	if fn == nil {
		return nil, ErrNilFunction
	}
	if err := d.acquire(); err != nil {
		return nil, err
	}

	width := len(d.slots)
	table, err := bittrans.New(uint(width))
	if err != nil {
		d.release()
		return nil, err
	}

	// Released on every early return, including a panicking fn.
	ok := false
	defer func() {
		if !ok {
			table.Free()
			d.release()
		}
	}()

	for i := 0; i < width; i++ {
		src := d.slots[i]
		if src == nil {
			continue
		}

		r, err := fn.Map(src)
		if err != nil {
			return nil, &FunctionError{Index: i, cause: err}
		}
		if !d.Contains(r) {
			return nil, &MismatchError{Op: "transform", Index: i}
		}
		if r.index < 0 {
			return nil, &UninitializedError{Op: "transform", Index: i}
		}
		if err := table.Add(uint(i), uint(r.index)); err != nil {
			// The image was registered after construction started.
			return nil, fmt.Errorf("transform: image of index %d: %w", i, err)
		}
	}

	ok = true
	return table, nil
}

// Domain returns the domain the transform was built over.
func (t *Transform[T]) Domain() *Domain[T] {
	if t == nil {
		return nil
	}
	return t.domain
}

// Width returns the domain width captured at construction.
func (t *Transform[T]) Width() int {
	return maxWidth(t.stages)
}

// Mapped returns the number of source indices that had an image when the
// transform was built.
func (t *Transform[T]) Mapped() int {
	return t.mapped
}

// Apply returns the image of arg under the transform. arg must be a Set of the
// very domain instance the transform was built over. Neither arg nor t is
// modified.
func (t *Transform[T]) Apply(arg Bearer[T]) (*Set[T], error) {
	start := time.Now()
	out, in, err := t.apply(arg)

	n := 0
	if out != nil {
		n = out.Len()
	}
	t.opts.metricsCollector.RecordApply(in, n, time.Since(start), err)
	t.opts.logger.LogApply(in, n, err)
	return out, err
}

func (t *Transform[T]) apply(arg Bearer[T]) (*Set[T], int, error) {
	if t.closed.Load() {
		return nil, 0, ErrTransformClosed
	}
	if arg == nil || arg.Domain() == nil {
		return nil, 0, ErrUnsupportedArgument
	}
	if arg.Domain() != t.domain {
		return nil, 0, &MismatchError{Op: "apply", Index: -1}
	}
	s, ok := arg.(*Set[T])
	if !ok || s == nil {
		return nil, 0, ErrUnsupportedArgument
	}
	return s.transform(t.stages), s.Len(), nil
}

// ApplyAll applies the transform to each set concurrently, bounded by
// WithParallelism. Results are returned in input order. The first failure
// cancels the remaining work.
func (t *Transform[T]) ApplyAll(ctx context.Context, sets []*Set[T]) ([]*Set[T], error) {
	start := time.Now()
	out := make([]*Set[T], len(sets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.opts.parallelism)
	for i, s := range sets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := t.Apply(s)
			if err != nil {
				return fmt.Errorf("set %d: %w", i, err)
			}
			out[i] = r
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		// errgroup does not report a parent cancellation that raced with
		// the last item.
		err = ctx.Err()
	}
	t.opts.logger.LogApplyAll(ctx, len(sets), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Lookup returns the image of a single member. It reports false for members
// of other domains, unregistered members, members registered after the
// transform was built and images that have since been removed.
func (t *Transform[T]) Lookup(m *Member[T]) (*Member[T], bool) {
	if t.closed.Load() || !t.domain.Contains(m) || m.index < 0 {
		return nil, false
	}
	i := uint(m.index)
	for _, table := range t.stages {
		dst, ok := table.Lookup(i)
		if !ok || t.domain.IsHole(int(dst)) {
			return nil, false
		}
		i = dst
	}
	return t.domain.At(int(i))
}

// Then returns a transform equivalent to applying t and then next. No mapping
// function is called. The result owns copies of the stages of both
// transforms, so either may be closed independently.
func (t *Transform[T]) Then(next *Transform[T]) (*Transform[T], error) {
	start := time.Now()
	stages, err := t.chain(next)
	elapsed := time.Since(start)

	width, mapped := t.Width(), 0
	if err == nil {
		width = maxWidth(stages)
		mapped = chainMapped(stages)
	}
	t.opts.metricsCollector.RecordBuild(width, mapped, elapsed, err)
	t.opts.logger.LogBuild(width, mapped, elapsed, err)

	if err != nil {
		return nil, err
	}
	return &Transform[T]{
		domain: t.domain,
		stages: stages,
		mapped: mapped,
		opts:   t.opts,
	}, nil
}

func (t *Transform[T]) chain(next *Transform[T]) ([]*bittrans.Table, error) {
	if next == nil {
		return nil, ErrUnsupportedArgument
	}
	if t.closed.Load() || next.closed.Load() {
		return nil, ErrTransformClosed
	}
	if next.domain != t.domain {
		return nil, &MismatchError{Op: "compose", Index: -1}
	}
	if err := t.domain.acquire(); err != nil {
		return nil, err
	}

	stages := make([]*bittrans.Table, 0, len(t.stages)+len(next.stages))
	for _, table := range slices.Concat(t.stages, next.stages) {
		cp, err := table.Clone()
		if err != nil {
			for _, s := range stages {
				s.Free()
			}
			t.domain.release()
			return nil, err
		}
		stages = append(stages, cp)
	}
	return stages, nil
}

// Close frees the mapping tables and releases the domain. Closing twice is a
// no-op.
func (t *Transform[T]) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	for _, table := range t.stages {
		table.Free()
	}
	t.domain.release()
	return nil
}

func maxWidth(stages []*bittrans.Table) int {
	var w uint
	for _, table := range stages {
		w = max(w, table.Width())
	}
	return int(w)
}

// chainMapped counts the sources that reach a destination through every
// stage, ignoring holes.
func chainMapped(stages []*bittrans.Table) int {
	first := stages[0]
	n := 0
	for src := uint(0); src < first.Width(); src++ {
		i, ok := src, true
		for _, table := range stages {
			if i, ok = table.Lookup(i); !ok {
				break
			}
		}
		if ok {
			n++
		}
	}
	return n
}
