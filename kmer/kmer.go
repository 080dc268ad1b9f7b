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

// Package kmer implements nucleotide sequences packed at two bits per
// base, as used for the rows of a k-mer count table and for the contigs
// that are assembled from them.
package kmer

import (
	"log"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// Base is a nucleotide in its two-bit encoding. Base i of a Kmer is
// stored in bits 2i (high) and 2i+1 (low).
type Base uint8

// The four bases.
const (
	A Base = 0 // (0, 0)
	T Base = 1 // (0, 1)
	C Base = 2 // (1, 0)
	G Base = 3 // (1, 1)
)

// ErrInvalidBase is the cause of errors for characters outside of {A, T, C, G}.
var ErrInvalidBase = errors.New("invalid base")

const baseChars = "ATCG"

var charBases = func() (table [256]int8) {
	for i := range table {
		table[i] = -1
	}
	for b, c := range []byte(baseChars) {
		table[c] = int8(b)
	}
	return
}()

// Encode returns the two-bit encoding of the given character.
func Encode(c byte) (Base, error) {
	if b := charBases[c]; b >= 0 {
		return Base(b), nil
	}
	return 0, errors.Wrapf(ErrInvalidBase, "character %q", c)
}

// Decode returns the character for the given base.
func Decode(b Base) byte {
	return baseChars[b&3]
}

// Kmer is a slice-like sequence of bases.
//
// Like slices, a Kmer returned by Append may share storage with the
// Kmer it was appended to. Use Clone before appending to a Kmer that
// is also referenced elsewhere.
type Kmer struct {
	n    int
	bits *bitset.BitSet
}

// Make creates an empty Kmer with room for the given number of bases.
func Make(capacity int) Kmer {
	return Kmer{bits: bitset.New(uint(capacity) << 1)}
}

// FromString encodes the given characters.
func FromString(s string) (Kmer, error) {
	k := Make(len(s))
	for i := 0; i < len(s); i++ {
		b, err := Encode(s[i])
		if err != nil {
			return Kmer{}, errors.Wrapf(err, "at position %v", i)
		}
		k = k.Append(b)
	}
	return k, nil
}

// FromBytes encodes the given characters.
func FromBytes(s []byte) (Kmer, error) {
	k := Make(len(s))
	for i, c := range s {
		b, err := Encode(c)
		if err != nil {
			return Kmer{}, errors.Wrapf(err, "at position %v", i)
		}
		k = k.Append(b)
	}
	return k, nil
}

// Len returns the number of bases.
func (k Kmer) Len() int {
	return k.n
}

// Base returns the base at the given index.
func (k Kmer) Base(i int) Base {
	if i < 0 || i >= k.n {
		log.Panic("index out of range")
	}
	bit := uint(i) << 1
	var b Base
	if k.bits.Test(bit) {
		b = 2
	}
	if k.bits.Test(bit + 1) {
		b |= 1
	}
	return b
}

// At returns the character of the base at the given index.
func (k Kmer) At(i int) byte {
	return Decode(k.Base(i))
}

// Append appends the given base.
func (k Kmer) Append(b Base) Kmer {
	if k.bits == nil {
		k.bits = bitset.New(2)
	}
	bit := uint(k.n) << 1
	k.bits.SetTo(bit, b&2 != 0)
	k.bits.SetTo(bit+1, b&1 != 0)
	k.n++
	return k
}

// AppendTo appends the characters of k to buf.
func (k Kmer) AppendTo(buf []byte) []byte {
	for i := 0; i < k.n; i++ {
		buf = append(buf, k.At(i))
	}
	return buf
}

// String returns the characters of k.
func (k Kmer) String() string {
	return string(k.AppendTo(make([]byte, 0, k.n)))
}

// Clone returns a Kmer with the same bases that does not share storage with k.
func (k Kmer) Clone() Kmer {
	if k.bits == nil {
		return Kmer{}
	}
	return Kmer{n: k.n, bits: k.bits.Clone()}
}

// Equal returns true if both Kmers have the same bases.
func (k Kmer) Equal(other Kmer) bool {
	if k.n != other.n {
		return false
	}
	for i := 0; i < k.n; i++ {
		if k.Base(i) != other.Base(i) {
			return false
		}
	}
	return true
}

// IsEdge returns true if b extends a by one base, that is if both have
// the same length and a[1:] equals b[:len-1]. All overlapping positions
// are compared.
func IsEdge(a, b Kmer) bool {
	if a.n != b.n || a.n == 0 {
		return false
	}
	for i := 1; i < a.n; i++ {
		ai, bi := uint(i)<<1, uint(i-1)<<1
		if a.bits.Test(ai) != b.bits.Test(bi) || a.bits.Test(ai+1) != b.bits.Test(bi+1) {
			return false
		}
	}
	return true
}
