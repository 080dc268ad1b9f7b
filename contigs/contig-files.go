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

package contigs

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/exascience/kmerge/internal"
	"github.com/exascience/kmerge/overlap"
	"github.com/exascience/kmerge/table"
	"github.com/exascience/pargo/pipeline"
	"github.com/pkg/errors"
)

// pathSource feeds a slice of paths into a pargo pipeline.
type pathSource struct {
	paths, data []overlap.Path
}

// Err implements the method of the pipeline.Source interface.
func (*pathSource) Err() error {
	return nil
}

// Prepare implements the method of the pipeline.Source interface.
func (src *pathSource) Prepare(_ context.Context) (size int) {
	return len(src.paths)
}

// Fetch implements the method of the pipeline.Source interface.
func (src *pathSource) Fetch(size int) (fetched int) {
	if size > len(src.paths) {
		size = len(src.paths)
	}
	src.data, src.paths = src.paths[:size], src.paths[size:]
	return size
}

// Data implements the method of the pipeline.Source interface.
func (src *pathSource) Data() interface{} {
	return src.data
}

// WriteCSV writes the header and one line per path. Lines are
// formatted in parallel and written in the order of the paths.
func WriteCSV(w io.Writer, t *table.Table, paths []overlap.Path) error {
	output := bufio.NewWriter(w)
	if _, err := output.WriteString(Header + "\n"); err != nil {
		return err
	}
	var p pipeline.Pipeline
	p.Source(&pathSource{paths: paths})
	p.Add(
		pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
			var buf []byte
			for _, path := range data.([]overlap.Path) {
				buf = AppendRecord(buf, t, path)
			}
			return buf
		})),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			if _, err := output.Write(data.([]byte)); err != nil {
				p.SetErr(err)
			}
			return data
		})),
	)
	if err := internal.RunPipeline(&p, "while writing merged k-mers"); err != nil {
		return err
	}
	return output.Flush()
}

// WriteCSVFile writes the merged k-mer table to the given file.
func WriteCSVFile(filename string, t *table.Table, paths []overlap.Path) (err error) {
	f, err := internal.FileCreate(filename)
	if err != nil {
		return err
	}
	defer internal.Close(f, &err)
	if err = WriteCSV(f, t, paths); err != nil {
		return errors.WithMessagef(err, "writing %v", filename)
	}
	return nil
}

// FastaLineWidth is the number of bases per line in FASTA output.
const FastaLineWidth = 80

// WriteFasta writes one FASTA record per path. The record identifier
// is the dash-separated path, and the description holds the counts of
// the first row.
func WriteFasta(w io.Writer, t *table.Table, paths []overlap.Path) error {
	output := bufio.NewWriter(w)
	writer := fasta.NewWriter(output, FastaLineWidth)
	for _, path := range paths {
		first := &t.Rows[path[0]]
		seq := linear.NewSeq(PathString(path), alphabet.BytesToLetters(MergedKmer(t, path).AppendTo(nil)), alphabet.DNA)
		seq.Annotation.SetDescription(fmt.Sprintf("lo=%v hi=%v pre45cnt=%v count=%v", first.PreFcnt, first.PreRcnt, first.Fcnt, first.Rcnt))
		if _, err := writer.Write(seq); err != nil {
			return err
		}
	}
	return output.Flush()
}

// WriteFastaFile writes the merged k-mers to the given FASTA file.
func WriteFastaFile(filename string, t *table.Table, paths []overlap.Path) (err error) {
	f, err := internal.FileCreate(filename)
	if err != nil {
		return err
	}
	defer internal.Close(f, &err)
	if err = WriteFasta(f, t, paths); err != nil {
		return errors.WithMessagef(err, "writing %v", filename)
	}
	return nil
}
