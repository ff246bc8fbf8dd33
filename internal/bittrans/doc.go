// Package bittrans provides the precompiled index-to-index mapping table used by
// transforms.
//
// A Table is sized once, filled by single-pair insertions and then applied to
// whole bit-vectors:
//
//	t, _ := bittrans.New(4)
//	_ = t.Add(0, 1)
//	_ = t.Add(2, 3)
//
//	out := t.Apply(bitset.New(4).Set(0).Set(2)) // bits 1 and 3
//
// Source bits without a recorded destination contribute nothing to the output.
// A Table is not safe for concurrent mutation, but Apply and Lookup on a fully
// built Table may run concurrently.
package bittrans
