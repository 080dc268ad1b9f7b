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

// Package contigs turns the paths through an overlap graph into merged
// sequences, and writes them as CSV or FASTA files.
package contigs

import (
	"strconv"

	"github.com/exascience/kmerge/kmer"
	"github.com/exascience/kmerge/overlap"
	"github.com/exascience/kmerge/table"
)

// Header is the first line of every merged k-mer table.
const Header = "sequence,lo,hi,pre45cnt,count,path"

// MergedKmer returns the k-mer of the first row of the path, followed
// by the last base of each subsequent row.
func MergedKmer(t *table.Table, path overlap.Path) kmer.Kmer {
	merged := t.Rows[path[0]].Kmer.Clone()
	for _, id := range path[1:] {
		next := t.Rows[id].Kmer
		merged = merged.Append(next.Base(next.Len() - 1))
	}
	return merged
}

// AppendPath appends the dash-separated row identifiers of the path.
func AppendPath(buf []byte, path overlap.Path) []byte {
	for i, id := range path {
		if i > 0 {
			buf = append(buf, '-')
		}
		buf = strconv.AppendUint(buf, uint64(id), 10)
	}
	return buf
}

// PathString returns the dash-separated row identifiers of the path.
func PathString(path overlap.Path) string {
	return string(AppendPath(nil, path))
}

// AppendRecord appends the CSV line for the given path, including the
// line terminator. The counts are the counts of the first row of the
// path.
func AppendRecord(buf []byte, t *table.Table, path overlap.Path) []byte {
	first := &t.Rows[path[0]]
	buf = MergedKmer(t, path).AppendTo(buf)
	for _, count := range [4]int64{first.PreFcnt, first.PreRcnt, first.Fcnt, first.Rcnt} {
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, count, 10)
	}
	buf = append(buf, ',')
	buf = AppendPath(buf, path)
	return append(buf, '\n')
}
