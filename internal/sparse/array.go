// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package sparse implements a generic sparse array with popcount
// compression: a fixed 256-bit mask paired with a dense, rank-indexed
// payload slice.
package sparse

import (
	"github.com/hbtree/hbt/internal/bitblock"
)

// Array is a generic popcount-compressed sparse array over payload T.
//
//	 example:
//	                    |
//	                    v
//		Mask:  [0|0|1|0|0|1|0|...] <- two bits set
//		Items: [*|*]               <- two slots populated
//		          ^
//		          |
//
//		Mask.IsSet(5): true
//		Mask.Rank(5):  1, count of set bits strictly below 5
type Array[T any] struct {
	Mask  bitblock.BitBlock
	Items []T
}

// Len returns the number of items in the sparse array.
func (s *Array[T]) Len() int {
	return len(s.Items)
}

// Copy returns a shallow copy of the Array. Elements are copied by
// assignment; this is not a deep clone.
func (s *Array[T]) Copy() *Array[T] {
	if s == nil {
		return nil
	}

	var items []T
	if s.Items != nil {
		items = make([]T, len(s.Items), cap(s.Items))
		copy(items, s.Items)
	}

	return &Array[T]{
		Mask:  s.Mask,
		Items: items,
	}
}

// InsertAt inserts val at sparse index i. If a value already exists at
// i, it is overwritten and exists is true. A new item reuses spare
// capacity when there is some and otherwise grows Items with append,
// so capacity may exceed length.
func (s *Array[T]) InsertAt(i uint, val T) (exists bool) {
	if s.Mask.IsSet(i) {
		s.Items[s.Mask.Rank(i)] = val
		return true
	}

	s.insertItem(val, s.Mask.Rank(i))
	s.Mask.Set(i)

	return false
}

// DeleteAt removes the value at sparse index i, if present.
func (s *Array[T]) DeleteAt(i uint) (val T, exists bool) {
	if !s.Mask.IsSet(i) {
		return val, false
	}

	idx := s.Mask.Rank(i)
	val = s.Items[idx]

	s.deleteItem(idx)
	s.Mask.Clear(i)

	return val, true
}

// Get returns the value at sparse index i, if present.
func (s *Array[T]) Get(i uint) (val T, ok bool) {
	if s.Mask.IsSet(i) {
		return s.Items[s.Mask.Rank(i)], true
	}
	return val, false
}

// MustGet returns the value at sparse index i. Use only after a
// successful Mask.IsSet(i), or behavior is undefined.
func (s *Array[T]) MustGet(i uint) T {
	return s.Items[s.Mask.Rank(i)]
}

// AsSlice appends all set sparse indices, ascending, to buf.
func (s *Array[T]) AsSlice(buf []uint) []uint {
	return s.Mask.AsSlice(buf)
}

// insertItem inserts item at dense index i, shifting the tail right.
func (s *Array[T]) insertItem(item T, i int) {
	if len(s.Items) < cap(s.Items) {
		s.Items = s.Items[:len(s.Items)+1]
	} else {
		var zero T
		s.Items = append(s.Items, zero)
	}
	copy(s.Items[i+1:], s.Items[i:])
	s.Items[i] = item
}

// deleteItem removes the item at dense index i, shifting the tail left
// and clearing the vacated tail slot.
func (s *Array[T]) deleteItem(i int) {
	var zero T
	l := len(s.Items) - 1
	copy(s.Items[i:], s.Items[i+1:])
	s.Items[l] = zero
	s.Items = s.Items[:l]
}
