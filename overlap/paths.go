// kmerge: merging k-mer count tables into contigs.
// Copyright (c) 2026 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/exascience/kmerge/blob/master/LICENSE.txt>.

package overlap

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/exascience/pargo/parallel"
	psort "github.com/exascience/pargo/sort"
)

// Path is a walk through the overlap graph, as a sequence of row
// identifiers.
type Path []uint32

// WalkerState is the state of a Walker.
type WalkerState int

// The states of a Walker.
const (
	// Idle means the work list is exhausted.
	Idle WalkerState = iota
	// Running means the walker is extending walks.
	Running
	// Emitting means the walker has just returned a complete path.
	Emitting
)

func (s WalkerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Emitting:
		return "emitting"
	default:
		return "unknown"
	}
}

const noParent = ^uint32(0)

type walkItem struct {
	node, parent uint32
}

// A Walker enumerates maximal walks through a graph, depth first,
// starting from a given set of roots.
//
// The work list records each node together with the node it was
// reached from, so the current walk is restored exactly whenever the
// walker backtracks. A walk ends at a node without successors, or at a
// node whose successors all lie on the current walk already. Nodes
// that are only reachable through cycles without a root are never
// visited.
type Walker struct {
	graph  Graph
	work   []walkItem
	walk   Path
	onWalk *bitset.BitSet
	state  WalkerState
}

// NewWalker creates a walker for the given roots. Roots are walked in
// the given order.
func NewWalker(g Graph, roots []uint32) *Walker {
	w := &Walker{
		graph:  g,
		work:   make([]walkItem, 0, len(roots)),
		onWalk: bitset.New(uint(len(g))),
	}
	for i := len(roots) - 1; i >= 0; i-- {
		w.work = append(w.work, walkItem{roots[i], noParent})
	}
	if len(w.work) > 0 {
		w.state = Running
	}
	return w
}

// State returns the current state of the walker.
func (w *Walker) State() WalkerState {
	return w.state
}

func (w *Walker) backtrack(parent uint32) {
	for last := len(w.walk) - 1; last >= 0 && w.walk[last] != parent; last-- {
		w.onWalk.Clear(uint(w.walk[last]))
		w.walk = w.walk[:last]
	}
}

// Next returns the next maximal walk, or false when there are no
// more walks. The returned path is not modified by subsequent calls.
func (w *Walker) Next() (Path, bool) {
	for len(w.work) > 0 {
		w.state = Running
		last := len(w.work) - 1
		item := w.work[last]
		w.work = w.work[:last]
		w.backtrack(item.parent)
		w.walk = append(w.walk, item.node)
		w.onWalk.Set(uint(item.node))
		extended := false
		successors := w.graph[item.node]
		for i := len(successors) - 1; i >= 0; i-- {
			if next := successors[i]; !w.onWalk.Test(uint(next)) {
				w.work = append(w.work, walkItem{next, item.node})
				extended = true
			}
		}
		if !extended {
			w.state = Emitting
			return append(Path(nil), w.walk...), true
		}
	}
	w.backtrack(noParent)
	w.state = Idle
	return nil, false
}

// PathLess orders paths lexicographically by row identifiers. A path
// that is a prefix of another path comes first.
func PathLess(p1, p2 Path) bool {
	for i := 0; i < len(p1) && i < len(p2); i++ {
		if p1[i] != p2[i] {
			return p1[i] < p2[i]
		}
	}
	return len(p1) < len(p2)
}

type pathSorter []Path

func (s pathSorter) SequentialSort(i, j int) {
	sort.Sort(s[i:j])
}

func (s pathSorter) Len() int {
	return len(s)
}

func (s pathSorter) Less(i, j int) bool {
	return PathLess(s[i], s[j])
}

func (s pathSorter) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// SortPaths sorts paths in place according to PathLess, using a
// parallel sort.
func SortPaths(paths []Path) {
	psort.Sort(pathSorter(paths))
}

// Walk enumerates the maximal walks of the graph from all its roots,
// and returns them sorted according to PathLess. Roots are distributed
// over parallel walkers.
func Walk(g Graph) []Path {
	roots := g.Roots()
	if len(roots) == 0 {
		return nil
	}
	paths := parallel.RangeReduce(0, len(roots), 0, func(low, high int) interface{} {
		var paths []Path
		w := NewWalker(g, roots[low:high])
		for path, ok := w.Next(); ok; path, ok = w.Next() {
			paths = append(paths, path)
		}
		return paths
	}, func(x, y interface{}) interface{} {
		return append(x.([]Path), y.([]Path)...)
	}).([]Path)
	SortPaths(paths)
	return paths
}
