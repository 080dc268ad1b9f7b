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
	"log"

	"github.com/exascience/pargo/parallel"
)

// Summary describes the result of merging a k-mer table.
type Summary struct {
	Rows, Buckets, Edges, Roots     int
	Paths, PathNodes, MaxPathLength int
}

// Summarize computes a Summary.
func Summarize(nofRows int, buckets []Bucket, g Graph, paths []Path) Summary {
	s := Summary{
		Rows:    nofRows,
		Buckets: len(buckets),
		Edges:   g.NofEdges(),
		Roots:   len(g.Roots()),
		Paths:   len(paths),
	}
	if len(paths) == 0 {
		return s
	}
	parallel.Do(
		func() {
			s.PathNodes = parallel.RangeReduceInt(0, len(paths), 0, func(low, high int) (n int) {
				for _, path := range paths[low:high] {
					n += len(path)
				}
				return n
			}, func(x, y int) int {
				return x + y
			})
		},
		func() {
			s.MaxPathLength = parallel.RangeReduceInt(0, len(paths), 0, func(low, high int) (max int) {
				for _, path := range paths[low:high] {
					if len(path) > max {
						max = len(path)
					}
				}
				return max
			}, func(x, y int) int {
				if x > y {
					return x
				}
				return y
			})
		},
	)
	return s
}

// Ratio returns the number of paths relative to the number of rows.
func (s Summary) Ratio() float64 {
	if s.Rows == 0 {
		return 0
	}
	return float64(s.Paths) / float64(s.Rows)
}

// Log writes the summary to the standard logger.
func (s Summary) Log() {
	log.Println("Number of rows before merging:", s.Rows)
	log.Println("Number of fit buckets:", s.Buckets)
	log.Println("Number of edges:", s.Edges)
	log.Println("Number of roots:", s.Roots)
	log.Println("Number of rows after merging:", s.Paths)
	log.Println("Rows after / rows before:", s.Ratio())
	log.Println("Total number of rows on all paths:", s.PathNodes)
	log.Println("Maximum path length:", s.MaxPathLength)
}
