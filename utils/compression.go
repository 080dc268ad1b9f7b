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

package utils

import (
	"bufio"
	"bytes"
	"io"
	"io/ioutil"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// HandleCompression checks if the given reader produces a gzip or a
// zstd stream by looking at the initial bytes. It then either returns
// a decompressing reader, or returns the given reader unchanged.
// HandleCompression uses Peek, so no input is consumed.
func HandleCompression(buf *bufio.Reader) (io.ReadCloser, error) {
	magic, err := buf.Peek(len(zstdMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		r, err := gzip.NewReader(buf)
		if err != nil {
			return nil, errors.Wrap(err, "invalid gzip stream")
		}
		return r, nil
	case bytes.HasPrefix(magic, zstdMagic):
		r, err := zstd.NewReader(buf)
		if err != nil {
			return nil, errors.Wrap(err, "invalid zstd stream")
		}
		return r.IOReadCloser(), nil
	default:
		return ioutil.NopCloser(buf), nil
	}
}
