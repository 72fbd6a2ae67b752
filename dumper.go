// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package hbt

import (
	"fmt"
	"io"
	"strings"
)

// nodeKind classifies a node by what it holds, useful when eyeballing
// a dump: whether a level actually branches further or is effectively
// a dead end worth pruning by hand during debugging.
type nodeKind byte

const (
	nullNode     nodeKind = iota // no children, no payload
	fullNode                     // both children and payload (never produced in this fixed-depth design: see hasKind)
	branchNode                   // children only
	terminalNode                 // payload only (always true of every non-empty node at treeDepth-1)
)

func (k nodeKind) String() string {
	switch k {
	case nullNode:
		return "NULL"
	case fullNode:
		return "FULL"
	case branchNode:
		return "BRANCH"
	case terminalNode:
		return "TERM"
	default:
		return "unreachable"
	}
}

// hasKind classifies n. A node is never both a branch and a terminal
// at once: inner nodes (lvl < treeDepth-1) only ever populate
// children, terminal nodes (lvl == treeDepth-1) only ever populate
// payload, so fullNode is unreachable in this fixed-depth design and
// is kept only for symmetry with dumpString's output shape.
func (n *node[V]) hasKind() nodeKind {
	switch {
	case n.children.Len() == 0 && n.payload.Len() == 0:
		return nullNode
	case n.children.Len() != 0 && n.payload.Len() != 0:
		return fullNode
	case n.payload.Len() != 0:
		return terminalNode
	default:
		return branchNode
	}
}

// dumpString renders the tree structure to a string; useful during
// development and in test failure messages.
func (t *Tree[V]) dumpString() string {
	w := new(strings.Builder)
	t.dump(w)
	return w.String()
}

// dump writes the full tree structure to w: one block per node, most
// significant stride first.
func (t *Tree[V]) dump(w io.Writer) {
	if t == nil {
		return
	}
	fmt.Fprintf(w, "### size(%d)", t.size)
	t.root.dumpRec(w, make([]uint, 0, treeDepth), 0)
}

func (n *node[V]) dumpRec(w io.Writer, path []uint, lvl int) {
	n.dumpNode(w, path, lvl)

	addrs := n.children.AsSlice(make([]uint, 0, n.children.Len()))
	for i, addr := range addrs {
		child := n.children.Items[i]
		child.dumpRec(w, append(path, addr), lvl+1)
	}
}

func (n *node[V]) dumpNode(w io.Writer, path []uint, lvl int) {
	indent := strings.Repeat(".", lvl)
	bits := lvl * strideLen

	fmt.Fprintf(w, "\n%s[%s] depth: %d path: %v / %d bits\n",
		indent, n.hasKind(), lvl, path, bits)

	if n.payload.Len() != 0 {
		idxs := n.payload.AsSlice(make([]uint, 0, n.payload.Len()))
		fmt.Fprintf(w, "%sslots(#%d):", indent, len(idxs))
		for _, i := range idxs {
			fmt.Fprintf(w, " %d", i)
		}
		fmt.Fprintln(w)
	}

	if n.children.Len() != 0 {
		addrs := n.children.AsSlice(make([]uint, 0, n.children.Len()))
		fmt.Fprintf(w, "%schilds(#%d):", indent, len(addrs))
		for _, addr := range addrs {
			fmt.Fprintf(w, " %d", addr)
		}
		fmt.Fprintln(w)
	}
}
