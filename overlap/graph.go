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
	"github.com/exascience/kmerge/kmer"
	"github.com/exascience/kmerge/table"
	"github.com/exascience/pargo/parallel"
)

// Graph holds the adjacency lists of the overlap graph, indexed by
// row identifier. Every row has an entry, possibly empty. If b is in
// g[a], then row b extends row a by one base.
type Graph [][]uint32

// NewGraph creates a graph for the given number of rows, without edges.
func NewGraph(size int) Graph {
	return make(Graph, size)
}

// AddEdge adds an edge from one row to another.
func (g Graph) AddEdge(from, to uint32) {
	g[from] = append(g[from], to)
}

// NofEdges returns the total number of edges.
func (g Graph) NofEdges() (n int) {
	for _, successors := range g {
		n += len(successors)
	}
	return n
}

// InDegrees returns the number of incoming edges for every row.
func (g Graph) InDegrees() []uint32 {
	indegrees := make([]uint32, len(g))
	for _, successors := range g {
		for _, to := range successors {
			indegrees[to]++
		}
	}
	return indegrees
}

// Roots returns the rows without incoming edges, in ascending order.
func (g Graph) Roots() (roots []uint32) {
	for id, indegree := range g.InDegrees() {
		if indegree == 0 {
			roots = append(roots, uint32(id))
		}
	}
	return roots
}

// validEdge checks a candidate pair that shares a hash.
// Rows never extend themselves.
func validEdge(t *table.Table, from, to uint32) bool {
	return from != to && kmer.IsEdge(t.Rows[from].Kmer, t.Rows[to].Kmer)
}

// BuildGraph validates all suffix/prefix pairs of each bucket and
// returns the resulting graph. Pairs whose hashes collide without an
// actual overlap are dropped.
//
// Every row has exactly one suffix entry, so each adjacency list is
// written by a single bucket, and buckets are processed in parallel.
// Successors are listed in bucket order.
func BuildGraph(t *table.Table, buckets []Bucket) Graph {
	g := NewGraph(t.Len())
	if len(buckets) == 0 {
		return g
	}
	parallel.Range(0, len(buckets), 0, func(low, high int) {
		for _, bucket := range buckets[low:high] {
			for _, l := range bucket.Left {
				for _, r := range bucket.Right {
					if validEdge(t, l.ID, r.ID) {
						g.AddEdge(l.ID, r.ID)
					}
				}
			}
		}
	})
	return g
}

// Make runs the complete graph construction for the given table:
// entries, equivalence classes, and edge validation.
func Make(t *table.Table, hash Hasher) (Graph, []Bucket) {
	buckets := EquivalenceClasses(MakeEntries(t, hash))
	return BuildGraph(t, buckets), buckets
}
