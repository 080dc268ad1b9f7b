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

// Package table holds the rows of a k-mer count table and reads them
// from comma-separated files.
package table

import (
	"github.com/exascience/kmerge/kmer"
	"github.com/pkg/errors"
)

// DefaultKmerLength is the length of the k-mers in the first column of
// a k-mer count table.
const DefaultKmerLength = 75

// ErrMalformedRow is the cause of errors for rows that have too few
// fields, counts that are not 64-bit integers, or k-mers of the wrong
// length.
var ErrMalformedRow = errors.New("malformed row")

type (
	// Row is one line of a k-mer count table.
	Row struct {
		Kmer    kmer.Kmer
		PreFcnt int64
		PreRcnt int64
		Fcnt    int64
		Rcnt    int64
	}

	// Table is a k-mer count table. Rows are identified by their
	// position, starting from 0 for the first line after the header.
	Table struct {
		KmerLength int
		Rows       []Row
	}
)

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
