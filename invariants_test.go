// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package hbt

import (
	"testing"

	"pgregory.net/rapid"
)

// TestTreeInvariants runs random sequences of Insert/Remove/Get/Clone
// against a Tree and a map[uint32]int oracle kept in lockstep, checking
// the core invariants the design calls for:
//
//   - Len always equals the oracle's size (after every step).
//   - Get/Contains agree with the oracle at every key touched.
//   - No key ever reports present after being removed.
//   - Insert on an existing key returns the exact prior value.
//   - All() yields exactly the oracle's key set, in ascending order
//     (checked once, at the end of the sequence).
//   - Inserting into a Clone does not leak into the original.
func TestTreeInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tr := NewTree[int]()
		oracle := map[uint32]int{}

		keyGen := rapid.Uint32Range(0, 1<<16)
		valGen := rapid.Int()

		steps := rapid.IntRange(1, 200).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0: // insert
				key := keyGen.Draw(rt, "key")
				val := valGen.Draw(rt, "val")

				wantOld, wantExisted := oracle[key]
				gotOld, gotExisted := tr.Insert(key, val)
				if gotExisted != wantExisted || (gotExisted && gotOld != wantOld) {
					rt.Fatalf("Insert(%d,%d): got (%d,%v), want (%d,%v)\n%s", key, val, gotOld, gotExisted, wantOld, wantExisted, tr.dumpString())
				}
				oracle[key] = val

			case 1: // remove
				key := keyGen.Draw(rt, "key")
				wantVal, wantExisted := oracle[key]
				gotVal, gotExisted := tr.Remove(key)
				if gotExisted != wantExisted || (gotExisted && gotVal != wantVal) {
					rt.Fatalf("Remove(%d): got (%d,%v), want (%d,%v)\n%s", key, gotVal, gotExisted, wantVal, wantExisted, tr.dumpString())
				}
				delete(oracle, key)

			case 2: // get/contains
				key := keyGen.Draw(rt, "key")
				wantVal, wantExisted := oracle[key]
				gotVal, gotExisted := tr.Get(key)
				if gotExisted != wantExisted || (gotExisted && gotVal != wantVal) {
					rt.Fatalf("Get(%d): got (%d,%v), want (%d,%v)\n%s", key, gotVal, gotExisted, wantVal, wantExisted, tr.dumpString())
				}
				if tr.Contains(key) != wantExisted {
					rt.Fatalf("Contains(%d) disagreed with Get\n%s", key, tr.dumpString())
				}

			case 3: // clone independence
				clone := tr.Clone()
				key := keyGen.Draw(rt, "key")
				clone.Insert(key, -1)
				if _, ok := oracle[key]; !ok {
					if _, ok := tr.Get(key); ok {
						rt.Fatalf("mutating a clone leaked into the original at key %d\n%s", key, tr.dumpString())
					}
				}
			}

			if tr.Len() != len(oracle) {
				rt.Fatalf("Len()=%d, want %d\n%s", tr.Len(), len(oracle), tr.dumpString())
			}
		}

		var gotKeys []uint32
		tr.All()(func(k uint32, _ int) bool {
			gotKeys = append(gotKeys, k)
			return true
		})
		if len(gotKeys) != len(oracle) {
			rt.Fatalf("All() yielded %d keys, want %d\n%s", len(gotKeys), len(oracle), tr.dumpString())
		}
		for i := 1; i < len(gotKeys); i++ {
			if gotKeys[i-1] >= gotKeys[i] {
				rt.Fatalf("All() not strictly ascending at index %d: %d >= %d\n%s", i, gotKeys[i-1], gotKeys[i], tr.dumpString())
			}
		}
		for _, k := range gotKeys {
			if _, ok := oracle[k]; !ok {
				rt.Fatalf("All() yielded key %d absent from oracle\n%s", k, tr.dumpString())
			}
		}
	})
}

// TestIntersectionInvariant checks that Intersection's yielded key set
// is exactly the set intersection of its sources' key sets, for random
// pairs of trees.
func TestIntersectionInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a, b := NewTree[int](), NewTree[int]()
		wantA, wantB := map[uint32]bool{}, map[uint32]bool{}

		n := rapid.IntRange(0, 50).Draw(rt, "n")
		keyGen := rapid.Uint32Range(0, 1<<12)
		for i := 0; i < n; i++ {
			k := keyGen.Draw(rt, "ka")
			a.Insert(k, int(k))
			wantA[k] = true
		}
		for i := 0; i < n; i++ {
			k := keyGen.Draw(rt, "kb")
			b.Insert(k, int(k))
			wantB[k] = true
		}

		op, err := Intersection[int](firstPresent, a, b)
		if err != nil {
			rt.Fatal(err)
		}

		got := map[uint32]bool{}
		op.All()(func(k uint32, _ int) bool {
			got[k] = true
			return true
		})

		for k := range got {
			if !wantA[k] || !wantB[k] {
				rt.Fatalf("key %d yielded but not in both sources", k)
			}
		}
		for k := range wantA {
			if wantB[k] && !got[k] {
				rt.Fatalf("key %d in both sources but not yielded", k)
			}
		}

		overlaps, err := Overlaps[int](a, b)
		if err != nil {
			rt.Fatal(err)
		}
		if overlaps != (len(got) > 0) {
			rt.Fatalf("Overlaps()=%v disagreed with intersection non-emptiness (%d keys)", overlaps, len(got))
		}
	})
}
