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

package table

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/exascience/kmerge/internal"
	"github.com/exascience/kmerge/kmer"
	"github.com/exascience/kmerge/utils"
	"github.com/exascience/pargo/pipeline"
	"github.com/pkg/errors"
)

const nofFields = 5

// ParseRow parses one data line of a k-mer count table. Fields beyond
// the fifth are ignored.
func ParseRow(line string, kmerLength int) (row Row, err error) {
	var fields [nofFields]string
	rest := line
	for i := 0; i < nofFields; i++ {
		j := strings.IndexByte(rest, ',')
		if j < 0 {
			if i < nofFields-1 {
				return row, errors.Wrapf(ErrMalformedRow, "%v fields instead of at least %v", i+1, nofFields)
			}
			fields[i] = rest
			break
		}
		fields[i] = rest[:j]
		rest = rest[j+1:]
	}
	if len(fields[0]) != kmerLength {
		return row, errors.Wrapf(ErrMalformedRow, "k-mer of length %v instead of %v", len(fields[0]), kmerLength)
	}
	if row.Kmer, err = kmer.FromString(fields[0]); err != nil {
		return row, err
	}
	counts := [4]*int64{&row.PreFcnt, &row.PreRcnt, &row.Fcnt, &row.Rcnt}
	for i, count := range counts {
		if *count, err = strconv.ParseInt(fields[i+1], 10, 64); err != nil {
			return row, errors.Wrapf(ErrMalformedRow, "count %q in field %v", fields[i+1], i+2)
		}
	}
	return row, nil
}

type rowBatch struct {
	rows     []Row
	nofLines int
	errLine  int
	err      error
}

// Read parses a k-mer count table. The first line is a header and is
// skipped. Lines are parsed in parallel, but rows are stored in input
// order. Errors report the 1-based line number of the first offending
// line.
func Read(r io.Reader, kmerLength int) (*Table, error) {
	input := bufio.NewReader(r)
	if _, err := input.ReadString('\n'); err != nil {
		if err != io.EOF {
			return nil, err
		}
		// header only, or empty input
		return &Table{KmerLength: kmerLength}, nil
	}
	table := &Table{KmerLength: kmerLength}
	line := 1
	var p pipeline.Pipeline
	p.Source(pipeline.NewScanner(input))
	p.Add(
		pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
			lines := data.([]string)
			batch := rowBatch{rows: make([]Row, 0, len(lines)), nofLines: len(lines)}
			for i, str := range lines {
				row, err := ParseRow(str, kmerLength)
				if err != nil {
					batch.err, batch.errLine = err, i
					break
				}
				batch.rows = append(batch.rows, row)
			}
			return batch
		})),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			batch := data.(rowBatch)
			if batch.err != nil {
				p.SetErr(errors.Wrapf(batch.err, "line %v", line+batch.errLine+1))
				return data
			}
			if uint64(len(table.Rows)+len(batch.rows)) > math.MaxUint32 {
				p.SetErr(errors.Wrapf(ErrMalformedRow, "line %v: more than %v rows", line+1, uint64(math.MaxUint32)))
				return data
			}
			table.Rows = append(table.Rows, batch.rows...)
			line += batch.nofLines
			return data
		})),
	)
	if err := internal.RunPipeline(&p, "while parsing k-mer table"); err != nil {
		return nil, err
	}
	return table, nil
}

// ReadFile parses a k-mer count table from the given file. Files that
// are gzip or zstd compressed are decompressed transparently. The file
// is closed before ReadFile returns.
func ReadFile(filename string, kmerLength int) (table *Table, err error) {
	f, err := internal.FileOpen(filename)
	if err != nil {
		return nil, err
	}
	defer internal.Close(f, &err)
	input, err := utils.HandleCompression(bufio.NewReader(f))
	if err != nil {
		return nil, errors.WithMessagef(err, "reading %v", filename)
	}
	defer internal.Close(input, &err)
	if table, err = Read(input, kmerLength); err != nil {
		return nil, errors.WithMessagef(err, "reading %v", filename)
	}
	return table, nil
}
