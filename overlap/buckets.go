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

// Bucket is an equivalence class of entries with the same hash.
// Left holds the suffix entries, Right the prefix entries. Both are
// subslices of the sorted entry list.
type Bucket struct {
	Left, Right []Entry
}

// Hash returns the hash shared by all entries of the bucket.
func (b Bucket) Hash() uint64 {
	if len(b.Left) > 0 {
		return b.Left[0].Hash
	}
	return b.Right[0].Hash
}

// IsFit returns true if the bucket has both suffix and prefix entries,
// so that it may produce edges.
func (b Bucket) IsFit() bool {
	return len(b.Left) > 0 && len(b.Right) > 0
}

// ScanBuckets groups entries that are sorted according to EntryLess
// into buckets, in a single linear pass. Only fit buckets are
// returned.
func ScanBuckets(sorted []Entry) (buckets []Bucket) {
	for start, n := 0, len(sorted); start < n; {
		hash := sorted[start].Hash
		split := start
		for split < n && sorted[split].Hash == hash && !sorted[split].IsPrefix {
			split++
		}
		end := split
		for end < n && sorted[end].Hash == hash {
			end++
		}
		if bucket := (Bucket{
			Left:  sorted[start:split:split],
			Right: sorted[split:end:end],
		}); bucket.IsFit() {
			buckets = append(buckets, bucket)
		}
		start = end
	}
	return buckets
}

// EquivalenceClasses sorts the entries in place and returns the fit
// buckets they form.
func EquivalenceClasses(entries []Entry) []Bucket {
	SortEntries(entries)
	return ScanBuckets(entries)
}
