// Package fastsets provides set algebra over finite, enumerable domains.
//
// Every element of a Domain is assigned a stable integer index, and a Set is a
// bit-vector over that index space. A Transform precompiles a function from a
// domain to itself into a bit mapping table, so that the image of any set can
// be computed in time proportional to the domain width instead of calling the
// function once per element.
//
// # Quick Start
//
//	labels := fastsets.NewDomain[string]("labels")
//	a := labels.MustAdd("a")
//	b := labels.MustAdd("b")
//
//	swap, _ := fastsets.NewTransform[string](labels, fastsets.MapFunc[string](
//	    func(m *fastsets.Member[string]) (*fastsets.Member[string], error) {
//	        if m == a {
//	            return b, nil
//	        }
//	        return a, nil
//	    }))
//	defer swap.Close()
//
//	in, _ := labels.NewSet(a)
//	out, _ := swap.Apply(in) // {b}
//
// # Holes
//
// Removing a member leaves a hole at its index. Indices are never reused, so
// existing sets keep their meaning. Hole bits never contribute to an image.
//
// # Lifetime
//
// A Transform holds a handle on its Domain until Close. Domain.Close fails
// with ErrDomainInUse while handles are outstanding.
//
// # Concurrency
//
// Domains and Sets perform no internal locking. A built Transform is
// immutable and may be applied from multiple goroutines; ApplyAll does so
// with bounded parallelism.
package fastsets
