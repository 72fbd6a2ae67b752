// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package hbt

// Materialize walks lazy in ascending key order and inserts every
// yielded (key, value) pair into a fresh Tree, forcing full evaluation
// of an otherwise-lazy set operation.
func Materialize[V any](lazy *LazyOp[V]) *Tree[V] {
	out := NewTree[V]()
	lazy.All()(func(key uint32, val V) bool {
		out.Insert(key, val)
		return true
	})
	return out
}
