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
	"github.com/pkg/errors"
)

// ErrInternalInvariant is the cause of errors reported by the Verify
// functions. It indicates a bug rather than bad input.
var ErrInternalInvariant = errors.New("internal invariant violated")

// VerifyEntries checks that there is exactly one prefix and one suffix
// entry for every row of the table.
func VerifyEntries(t *table.Table, entries []Entry) error {
	if len(entries) != 2*t.Len() {
		return errors.Wrapf(ErrInternalInvariant, "%v entries for %v rows", len(entries), t.Len())
	}
	prefixes := make([]bool, t.Len())
	suffixes := make([]bool, t.Len())
	for _, entry := range entries {
		if int(entry.ID) >= t.Len() {
			return errors.Wrapf(ErrInternalInvariant, "entry for unknown row %v", entry.ID)
		}
		seen := suffixes
		if entry.IsPrefix {
			seen = prefixes
		}
		if seen[entry.ID] {
			return errors.Wrapf(ErrInternalInvariant, "duplicate entry for row %v", entry.ID)
		}
		seen[entry.ID] = true
	}
	return nil
}

// VerifyBuckets checks that all entries of a bucket share one hash,
// that suffixes are on the left and prefixes on the right, and that
// every bucket is fit.
func VerifyBuckets(buckets []Bucket) error {
	for i, bucket := range buckets {
		if !bucket.IsFit() {
			return errors.Wrapf(ErrInternalInvariant, "bucket %v is not fit", i)
		}
		hash := bucket.Hash()
		for _, entry := range bucket.Left {
			if entry.Hash != hash || entry.IsPrefix {
				return errors.Wrapf(ErrInternalInvariant, "bucket %v has a wrong suffix entry for row %v", i, entry.ID)
			}
		}
		for _, entry := range bucket.Right {
			if entry.Hash != hash || !entry.IsPrefix {
				return errors.Wrapf(ErrInternalInvariant, "bucket %v has a wrong prefix entry for row %v", i, entry.ID)
			}
		}
	}
	return nil
}

// VerifyGraph checks that the graph has an adjacency list for every
// row, that every edge is an actual overlap, and that the suffix of
// the source and the prefix of the target of every edge have the same
// hash.
func VerifyGraph(t *table.Table, g Graph, hash Hasher) error {
	if len(g) != t.Len() {
		return errors.Wrapf(ErrInternalInvariant, "graph has %v rows instead of %v", len(g), t.Len())
	}
	var from, to []byte
	for u, successors := range g {
		from = t.Rows[u].Kmer.AppendTo(from[:0])
		for _, v := range successors {
			if int(v) >= len(g) {
				return errors.Wrapf(ErrInternalInvariant, "edge %v->%v to unknown row", u, v)
			}
			if !kmer.IsEdge(t.Rows[u].Kmer, t.Rows[v].Kmer) {
				return errors.Wrapf(ErrInternalInvariant, "edge %v->%v is not an overlap", u, v)
			}
			to = t.Rows[v].Kmer.AppendTo(to[:0])
			if hash(from[1:]) != hash(to[:len(to)-1]) {
				return errors.Wrapf(ErrInternalInvariant, "edge %v->%v without a shared hash", u, v)
			}
		}
	}
	return nil
}

// VerifyPaths checks that every path is non-empty, starts at a root,
// and is a walk through the graph.
func VerifyPaths(g Graph, paths []Path) error {
	indegrees := g.InDegrees()
	for i, path := range paths {
		if len(path) == 0 {
			return errors.Wrapf(ErrInternalInvariant, "path %v is empty", i)
		}
		if indegrees[path[0]] != 0 {
			return errors.Wrapf(ErrInternalInvariant, "path %v does not start at a root", i)
		}
	walk:
		for j := 1; j < len(path); j++ {
			for _, next := range g[path[j-1]] {
				if next == path[j] {
					continue walk
				}
			}
			return errors.Wrapf(ErrInternalInvariant, "path %v has no edge %v->%v", i, path[j-1], path[j])
		}
	}
	return nil
}
