// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package hbt

import "github.com/hbtree/hbt/internal/bitblock"

// All returns a range-over-func iterator yielding every (key, value)
// pair in strictly ascending key order.
//
// It maintains a stack of treeDepth frames; each frame holds a node
// and a "remaining" bitmask copy of that node's occupied slots. To
// advance, the lowest set bit is popped off the top frame's remaining
// mask: at the deepest level that bit identifies a value to yield; at
// any shallower level it identifies the child to push a new frame for.
// A frame whose remaining mask has gone to zero is popped and its
// parent resumes. This is the bit-scan/stack technique the design
// calls for explicitly, as opposed to Unordered's plain recursive
// walk.
//
// All is forward-only and is invalidated by any mutation of the tree
// while in progress.
func (t *Tree[V]) All() func(yield func(key uint32, val V) bool) {
	return func(yield func(key uint32, val V) bool) {
		type frame struct {
			n         *node[V]
			remaining bitblock.BitBlock
			lvl       int
		}

		path := make([]uint, 0, treeDepth)
		stack := []frame{{t.root, maskOf(t.root, 0), 0}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			i, ok := top.remaining.FirstSet()
			if !ok {
				if len(stack) > 1 {
					path = path[:len(path)-1]
				}
				stack = stack[:len(stack)-1]
				continue
			}
			top.remaining.Clear(i)

			if top.lvl == treeDepth-1 {
				valIdx := top.n.payload.MustGet(i)
				key := keyFromPath(append(path, i))
				if !yield(key, t.values[valIdx]) {
					return
				}
				continue
			}

			child := top.n.children.MustGet(i)
			path = append(path, i)
			stack = append(stack, frame{child, maskOf(child, top.lvl+1), top.lvl + 1})
		}
	}
}

// Unordered returns a range-over-func iterator yielding every
// (key, value) pair in an implementation-defined but stable-per-
// structure order: a recursive, front-to-back walk of each node's
// dense arrays. No random access into sparse structure is needed, so
// this is as cheap as iterating a flat slice.
func (t *Tree[V]) Unordered() func(yield func(key uint32, val V) bool) {
	return func(yield func(key uint32, val V) bool) {
		t.root.allRec(make([]uint, 0, treeDepth), 0, func(key, valIdx uint32) bool {
			return yield(key, t.values[valIdx])
		})
	}
}

// maskOf returns a bit-scan cursor over n's occupied slots at lvl
// (children mask for inner levels, payload mask for the terminal
// level). Returned by value so popping bits while iterating never
// mutates the node itself.
func maskOf[V any](n *node[V], lvl int) bitblock.BitBlock {
	if lvl == treeDepth-1 {
		return n.payload.Mask
	}
	return n.children.Mask
}
