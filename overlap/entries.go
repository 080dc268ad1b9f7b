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

// Package overlap discovers which rows of a k-mer table extend each
// other by one base, and enumerates the maximal walks through the
// resulting overlap graph.
//
// The k-1 long prefix and suffix of every row are hashed into
// Entries. Sorting the entries groups equal hashes into Buckets, and
// only pairs within a bucket are validated as edges, so no all-pairs
// comparison is ever performed.
package overlap

import (
	"sort"

	"github.com/exascience/kmerge/internal"
	"github.com/exascience/kmerge/table"
	"github.com/exascience/pargo/parallel"
	psort "github.com/exascience/pargo/sort"
)

// Entry refers to either the prefix or the suffix of a row by its hash.
type Entry struct {
	Hash     uint64
	ID       uint32
	IsPrefix bool
}

// Hasher computes the hash of a prefix or suffix of a k-mer.
type Hasher func(fragment []byte) uint64

// DefaultHasher is the Hasher used by the kmerge command.
var DefaultHasher Hasher = internal.BytesHash

// MakeEntries creates two entries for every row of the table, one for
// the prefix without the last base, and one for the suffix without the
// first base. The entries of row i are stored at indices 2i (prefix)
// and 2i+1 (suffix).
func MakeEntries(t *table.Table, hash Hasher) []Entry {
	entries := make([]Entry, 2*t.Len())
	if len(entries) == 0 {
		return entries
	}
	parallel.Range(0, t.Len(), 0, func(low, high int) {
		buf := make([]byte, 0, t.KmerLength)
		for id := low; id < high; id++ {
			buf = t.Rows[id].Kmer.AppendTo(buf[:0])
			entries[2*id] = Entry{Hash: hash(buf[:len(buf)-1]), ID: uint32(id), IsPrefix: true}
			entries[2*id+1] = Entry{Hash: hash(buf[1:]), ID: uint32(id), IsPrefix: false}
		}
	})
	return entries
}

// EntryLess orders entries by hash, then suffixes before prefixes, then
// by row identifier.
func EntryLess(e1, e2 Entry) bool {
	if e1.Hash != e2.Hash {
		return e1.Hash < e2.Hash
	}
	if e1.IsPrefix != e2.IsPrefix {
		return e2.IsPrefix
	}
	return e1.ID < e2.ID
}

type entrySorter []Entry

func (s entrySorter) SequentialSort(i, j int) {
	sort.Sort(s[i:j])
}

func (s entrySorter) Len() int {
	return len(s)
}

func (s entrySorter) Less(i, j int) bool {
	return EntryLess(s[i], s[j])
}

func (s entrySorter) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// SortEntries sorts entries in place according to EntryLess, using a
// parallel unstable sort. Since no two entries are equal, the result
// does not depend on the initial order.
func SortEntries(entries []Entry) {
	psort.Sort(entrySorter(entries))
}
