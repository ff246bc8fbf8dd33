// Package testutil provides testing utilities for fastsets.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source for generating index
// subsets and mappings used in property tests.
//
// # Random Subsets
//
//	rng := testutil.NewRNG(seed)
//	idx := rng.Subset(1000, 0.1)   // ~10% of [0, 1000), increasing
//	perm := rng.Perm(1000)         // a permutation of [0, 1000)
//	fn := rng.Mapping(1000)        // an arbitrary function [0,1000) -> [0,1000)
package testutil
