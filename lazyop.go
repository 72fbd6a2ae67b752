// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package hbt

import "github.com/hbtree/hbt/internal/bitblock"

// Source is the small, stable capability every object composable into
// a set operation must provide: a root view onto a fixed-depth,
// fixed-fan-out tree-shaped structure. Both *Tree[V] and *LazyOp[V]
// implement it, which is what makes a LazyOp a valid input to another
// LazyOp (spec: "Composability").
type Source[V any] interface {
	rootView() sourceView[V]
}

// sourceView is a cursor positioned at one node (real or virtual) of a
// Source, at a known depth. It exposes exactly what the descent
// contract needs: the occupied-slot mask at this node, a way to
// descend into the child at a set sparse index, and a way to read the
// (possibly combined) value at a set terminal index.
type sourceView[V any] interface {
	mask() bitblock.BitBlock
	level() int
	child(i uint) sourceView[V]
	value(i uint) V
}

// rootView lets *Tree[V] act as a Source.
func (t *Tree[V]) rootView() sourceView[V] {
	return &treeView[V]{t, t.root, 0}
}

// treeView is the concrete sourceView over a real Tree node.
type treeView[V any] struct {
	t   *Tree[V]
	n   *node[V]
	lvl int
}

func (v *treeView[V]) mask() bitblock.BitBlock {
	if v.lvl == treeDepth-1 {
		return v.n.payload.Mask
	}
	return v.n.children.Mask
}

func (v *treeView[V]) level() int { return v.lvl }

func (v *treeView[V]) child(i uint) sourceView[V] {
	return &treeView[V]{v.t, v.n.children.MustGet(i), v.lvl + 1}
}

func (v *treeView[V]) value(i uint) V {
	return v.t.values[v.n.payload.MustGet(i)]
}

// Combiner folds the values contributed by each source at a yielded
// key into a single result value. present[k] is false where sources[k]
// did not contribute at this key (always all-true for Intersection,
// possibly a strict subset for Union and user Reduce operators).
type Combiner[V any] func(vals []V, present []bool) V

// LazyOp is a composable, read-only view over one or more sources,
// whose node masks are derived on demand by reducing the sources'
// masks with maskOp. Nothing is materialized until Materialize walks
// it. See Intersection, Union, Reduce.
type LazyOp[V any] struct {
	sources []Source[V]
	maskOp  func(a, b bitblock.BitBlock) bitblock.BitBlock
	combine Combiner[V]
}

// Intersection returns a LazyOp yielding exactly the keys present in
// every source, with combine folding each source's value at that key.
func Intersection[V any](combine Combiner[V], sources ...Source[V]) (*LazyOp[V], error) {
	return Reduce(andMask, combine, sources...)
}

// Union returns a LazyOp yielding every key present in any source,
// with combine folding whichever sources contributed at that key.
// combine must tolerate a subset of sources being present.
func Union[V any](combine Combiner[V], sources ...Source[V]) (*LazyOp[V], error) {
	return Reduce(orMask, combine, sources...)
}

// Reduce returns a LazyOp generalizing Intersection/Union to an
// arbitrary associative bitmask reduction maskOp over node masks, with
// combine folding per-source leaf values at each yielded key.
func Reduce[V any](maskOp func(a, b bitblock.BitBlock) bitblock.BitBlock, combine Combiner[V], sources ...Source[V]) (*LazyOp[V], error) {
	if len(sources) == 0 {
		return nil, ErrSourceMismatch
	}
	return &LazyOp[V]{sources: sources, maskOp: maskOp, combine: combine}, nil
}

func andMask(a, b bitblock.BitBlock) bitblock.BitBlock { return a.Intersection(&b) }
func orMask(a, b bitblock.BitBlock) bitblock.BitBlock  { return a.Union(&b) }

// rootView lets *LazyOp[V] act as a Source, so a LazyOp can itself
// feed another LazyOp.
func (op *LazyOp[V]) rootView() sourceView[V] {
	entries := make([]lazyEntry[V], len(op.sources))
	for i, src := range op.sources {
		entries[i] = lazyEntry[V]{idx: i, view: src.rootView()}
	}
	return &lazyView[V]{op: op, entries: entries, lvl: 0}
}

// lazyEntry pairs a contributing source's view with its original
// index among op.sources, so Combiner can report presence positionally.
type lazyEntry[V any] struct {
	idx  int
	view sourceView[V]
}

// lazyView is the virtual node of a LazyOp: its mask is op.maskOp
// folded across all currently-contributing entries' own masks.
type lazyView[V any] struct {
	op      *LazyOp[V]
	entries []lazyEntry[V]
	lvl     int
}

func (v *lazyView[V]) mask() bitblock.BitBlock {
	acc := v.entries[0].view.mask()
	for _, e := range v.entries[1:] {
		acc = v.op.maskOp(acc, e.view.mask())
	}
	return acc
}

func (v *lazyView[V]) level() int { return v.lvl }

// child descends into sparse index i, retaining exactly the entries
// whose own mask has bit i set (spec: "the sources contributing to
// that bit are exactly those whose mask has bit i set"). For an AND
// reduction this is always every current entry, since the combined
// mask only has bit i set when all of them do; for OR and general
// reductions it may be a strict subset.
func (v *lazyView[V]) child(i uint) sourceView[V] {
	next := make([]lazyEntry[V], 0, len(v.entries))
	for _, e := range v.entries {
		m := e.view.mask()
		if m.IsSet(i) {
			next = append(next, lazyEntry[V]{e.idx, e.view.child(i)})
		}
	}
	return &lazyView[V]{op: v.op, entries: next, lvl: v.lvl + 1}
}

func (v *lazyView[V]) value(i uint) V {
	vals := make([]V, len(v.op.sources))
	present := make([]bool, len(v.op.sources))
	for _, e := range v.entries {
		m := e.view.mask()
		if m.IsSet(i) {
			vals[e.idx] = e.view.value(i)
			present[e.idx] = true
		}
	}
	return v.op.combine(vals, present)
}

// All returns a range-over-func iterator over the LazyOp's yielded
// (key, combined value) pairs, in ascending key order. Same bit-scan/
// stack technique as Tree.All, generalized over sourceView instead of
// a concrete node.
func (op *LazyOp[V]) All() func(yield func(key uint32, val V) bool) {
	return func(yield func(key uint32, val V) bool) {
		type frame struct {
			v         sourceView[V]
			remaining bitblock.BitBlock
		}

		root := op.rootView()
		path := make([]uint, 0, treeDepth)
		stack := []frame{{root, root.mask()}}

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

			if top.v.level() == treeDepth-1 {
				key := keyFromPath(append(path, i))
				if !yield(key, top.v.value(i)) {
					return
				}
				continue
			}

			child := top.v.child(i)
			path = append(path, i)
			stack = append(stack, frame{child, child.mask()})
		}
	}
}

// Overlaps reports whether sources share at least one common key,
// without yielding or materializing anything. It short-circuits as
// soon as any branch on which every source has a set bit is found to
// lead to a shared terminal key.
func Overlaps[V any](sources ...Source[V]) (bool, error) {
	if len(sources) == 0 {
		return false, ErrSourceMismatch
	}

	views := make([]sourceView[V], len(sources))
	for i, s := range sources {
		views[i] = s.rootView()
	}
	return overlapsRec(views), nil
}

func overlapsRec[V any](views []sourceView[V]) bool {
	combined := views[0].mask()
	for _, v := range views[1:] {
		combined = combined.Intersection(ref(v.mask()))
	}
	if combined.IsZero() {
		return false
	}

	if views[0].level() == treeDepth-1 {
		return true
	}

	idxs := combined.AsSlice(make([]uint, 0, combined.Popcount()))
	for _, i := range idxs {
		children := make([]sourceView[V], len(views))
		for k, v := range views {
			children[k] = v.child(i)
		}
		if overlapsRec(children) {
			return true
		}
	}
	return false
}

func ref(b bitblock.BitBlock) *bitblock.BitBlock { return &b }
