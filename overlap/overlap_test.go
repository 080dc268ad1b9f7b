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
	"math/rand"
	"strings"
	"testing"

	"github.com/exascience/kmerge/kmer"
	"github.com/exascience/kmerge/table"
	"github.com/pkg/errors"
)

const k = table.DefaultKmerLength

func makeTable(t testing.TB, kmers ...string) *table.Table {
	tbl := &table.Table{KmerLength: k}
	for i, s := range kmers {
		km, err := kmer.FromString(s)
		if err != nil {
			t.Fatal(err)
		}
		tbl.Rows = append(tbl.Rows, table.Row{Kmer: km, PreFcnt: int64(i)})
	}
	return tbl
}

func randomBases(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = "ATCG"[rand.Intn(4)]
	}
	return string(b)
}

func alternating(first, second byte, n int) string {
	b := make([]byte, n)
	for i := range b {
		if i%2 == 0 {
			b[i] = first
		} else {
			b[i] = second
		}
	}
	return string(b)
}

func pathsEqual(paths1, paths2 []Path) bool {
	if len(paths1) != len(paths2) {
		return false
	}
	for i, path := range paths1 {
		if len(path) != len(paths2[i]) {
			return false
		}
		for j, id := range path {
			if id != paths2[i][j] {
				return false
			}
		}
	}
	return true
}

func verifyAll(t *testing.T, tbl *table.Table, hash Hasher) (Graph, []Path) {
	entries := MakeEntries(tbl, hash)
	if err := VerifyEntries(tbl, entries); err != nil {
		t.Error(err)
	}
	buckets := EquivalenceClasses(entries)
	if err := VerifyBuckets(buckets); err != nil {
		t.Error(err)
	}
	g := BuildGraph(tbl, buckets)
	if err := VerifyGraph(tbl, g, hash); err != nil {
		t.Error(err)
	}
	paths := Walk(g)
	if err := VerifyPaths(g, paths); err != nil {
		t.Error(err)
	}
	return g, paths
}

func TestMakeEntries(t *testing.T) {
	s := randomBases(k)
	tbl := makeTable(t, s, randomBases(k), randomBases(k))
	entries := MakeEntries(tbl, DefaultHasher)
	if len(entries) != 2*tbl.Len() {
		t.Fatal("MakeEntries count failed")
	}
	if e := entries[0]; !e.IsPrefix || e.ID != 0 || e.Hash != DefaultHasher([]byte(s[:k-1])) {
		t.Error("MakeEntries prefix failed")
	}
	if e := entries[1]; e.IsPrefix || e.ID != 0 || e.Hash != DefaultHasher([]byte(s[1:])) {
		t.Error("MakeEntries suffix failed")
	}
	if err := VerifyEntries(tbl, entries); err != nil {
		t.Error(err)
	}
	if err := VerifyEntries(tbl, entries[1:]); errors.Cause(err) != ErrInternalInvariant {
		t.Error("VerifyEntries should fail on missing entries")
	}
	if len(MakeEntries(&table.Table{KmerLength: k}, DefaultHasher)) != 0 {
		t.Error("MakeEntries on empty table failed")
	}
}

func TestSortEntries(t *testing.T) {
	entries := make([]Entry, 100000)
	for i := range entries {
		entries[i] = Entry{Hash: uint64(rand.Intn(1000)), ID: uint32(i / 2), IsPrefix: i%2 == 0}
	}
	SortEntries(entries)
	for i := 1; i < len(entries); i++ {
		if !EntryLess(entries[i-1], entries[i]) {
			t.Fatalf("SortEntries failed at %v", i)
		}
	}
}

func TestScanBuckets(t *testing.T) {
	entries := []Entry{
		{Hash: 9, ID: 3},
		{Hash: 5, ID: 0},
		{Hash: 7, ID: 2, IsPrefix: true},
		{Hash: 5, ID: 1, IsPrefix: true},
		{Hash: 6, ID: 4},
		{Hash: 9, ID: 4, IsPrefix: true},
		{Hash: 5, ID: 5, IsPrefix: true},
	}
	buckets := EquivalenceClasses(entries)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 fit buckets, got %v", len(buckets))
	}
	if b := buckets[0]; b.Hash() != 5 || len(b.Left) != 1 || len(b.Right) != 2 || b.Left[0].ID != 0 || b.Right[0].ID != 1 || b.Right[1].ID != 5 {
		t.Errorf("bucket 5 failed: %+v", b)
	}
	if b := buckets[1]; b.Hash() != 9 || len(b.Left) != 1 || len(b.Right) != 1 || b.Left[0].ID != 3 || b.Right[0].ID != 4 {
		t.Errorf("trailing bucket failed: %+v", b)
	}
	if err := VerifyBuckets(buckets); err != nil {
		t.Error(err)
	}
	if len(ScanBuckets(nil)) != 0 {
		t.Error("ScanBuckets on empty input failed")
	}
	if len(ScanBuckets([]Entry{{Hash: 1}, {Hash: 1}})) != 0 {
		t.Error("ScanBuckets should drop suffix-only buckets")
	}
	if err := VerifyBuckets([]Bucket{{Left: entries[:1]}}); errors.Cause(err) != ErrInternalInvariant {
		t.Error("VerifyBuckets should fail on unfit bucket")
	}
}

func TestSingleRow(t *testing.T) {
	tbl := makeTable(t, strings.Repeat("A", k))
	g, paths := verifyAll(t, tbl, DefaultHasher)
	if g.NofEdges() != 0 {
		t.Error("a row must not extend itself")
	}
	if !pathsEqual(paths, []Path{{0}}) {
		t.Errorf("single row failed: %v", paths)
	}
}

func TestTwoRowChain(t *testing.T) {
	tbl := makeTable(t, strings.Repeat("A", k), strings.Repeat("A", k-1)+"T")
	g, paths := verifyAll(t, tbl, DefaultHasher)
	if len(g[0]) != 1 || g[0][0] != 1 || len(g[1]) != 0 {
		t.Errorf("two-row chain graph failed: %v", g)
	}
	if !pathsEqual(paths, []Path{{0, 1}}) {
		t.Errorf("two-row chain failed: %v", paths)
	}
}

func TestBranch(t *testing.T) {
	tbl := makeTable(t, strings.Repeat("A", k), strings.Repeat("A", k-1)+"T", strings.Repeat("A", k-1)+"C")
	_, paths := verifyAll(t, tbl, DefaultHasher)
	if !pathsEqual(paths, []Path{{0, 1}, {0, 2}}) {
		t.Errorf("branch failed: %v", paths)
	}
}

func TestIsolatedRow(t *testing.T) {
	tbl := makeTable(t, strings.Repeat("A", k), strings.Repeat("A", k-1)+"T", strings.Repeat("G", k))
	_, paths := verifyAll(t, tbl, DefaultHasher)
	if !pathsEqual(paths, []Path{{0, 1}, {2}}) {
		t.Errorf("isolated row failed: %v", paths)
	}
}

func TestHashCollision(t *testing.T) {
	collide := func([]byte) uint64 { return 42 }
	kmers := []string{strings.Repeat("A", k), strings.Repeat("A", k-1) + "T", strings.Repeat("C", k), strings.Repeat("G", k)}
	for i := 0; i < 20; i++ {
		kmers = append(kmers, randomBases(k))
	}
	tbl := makeTable(t, kmers...)
	entries := MakeEntries(tbl, collide)
	buckets := EquivalenceClasses(entries)
	if len(buckets) != 1 || len(buckets[0].Left) != tbl.Len() || len(buckets[0].Right) != tbl.Len() {
		t.Fatal("colliding hashes should form a single bucket")
	}
	g := BuildGraph(tbl, buckets)
	if err := VerifyGraph(tbl, g, collide); err != nil {
		t.Error(err)
	}
	reference, _ := Make(tbl, DefaultHasher)
	if g.NofEdges() != reference.NofEdges() || len(g[0]) != 1 || g[0][0] != 1 {
		t.Errorf("hash collisions produced false edges: %v", g)
	}
	if !pathsEqual(Walk(g), Walk(reference)) {
		t.Error("hash collisions changed the paths")
	}
}

func TestCycleWithoutRoot(t *testing.T) {
	a := alternating('A', 'T', k)
	b := alternating('T', 'A', k)
	tbl := makeTable(t, a, b, strings.Repeat("C", k))
	g, paths := verifyAll(t, tbl, DefaultHasher)
	if len(g[0]) != 1 || g[0][0] != 1 || len(g[1]) != 1 || g[1][0] != 0 {
		t.Fatalf("2-cycle graph failed: %v", g)
	}
	// rows 0 and 1 only reach each other, so they are not on any path
	if !pathsEqual(paths, []Path{{2}}) {
		t.Errorf("cycle without root failed: %v", paths)
	}
}

func TestCycleWithRoot(t *testing.T) {
	a := alternating('A', 'T', k)
	b := alternating('T', 'A', k)
	root := "G" + a[:k-1]
	tbl := makeTable(t, a, b, root)
	g, paths := verifyAll(t, tbl, DefaultHasher)
	if len(g[2]) != 1 || g[2][0] != 0 {
		t.Fatalf("root edge failed: %v", g)
	}
	if !pathsEqual(paths, []Path{{2, 0, 1}}) {
		t.Errorf("cycle with root failed: %v", paths)
	}
}

func TestDiamond(t *testing.T) {
	s := randomBases(k + 2)
	tbl := makeTable(t, s[:k], s[1:k+1], s[1:k+1], s[2:])
	_, paths := verifyAll(t, tbl, DefaultHasher)
	if !pathsEqual(paths, []Path{{0, 1, 3}, {0, 2, 3}}) {
		t.Errorf("diamond failed: %v", paths)
	}
}

// Random sequences are assumed to produce disjoint chains without
// accidental overlaps, which is the expected shape of real data.
func TestDisjointChains(t *testing.T) {
	const nofChains, chainLength = 500, 8
	var kmers []string
	var sequences []string
	for i := 0; i < nofChains; i++ {
		s := randomBases(k + chainLength - 1)
		sequences = append(sequences, s)
		for j := 0; j < chainLength; j++ {
			kmers = append(kmers, s[j:j+k])
		}
	}
	perm := rand.Perm(len(kmers))
	shuffled := make([]string, len(kmers))
	for i, j := range perm {
		shuffled[j] = kmers[i]
	}
	tbl := makeTable(t, shuffled...)
	_, paths := verifyAll(t, tbl, DefaultHasher)
	if len(paths) != nofChains {
		t.Fatalf("expected %v paths, got %v", nofChains, len(paths))
	}
	seen := make([]bool, tbl.Len())
	for _, path := range paths {
		if len(path) != chainLength {
			t.Errorf("path of length %v instead of %v", len(path), chainLength)
		}
		for _, id := range path {
			if seen[id] {
				t.Errorf("row %v on more than one path", id)
			}
			seen[id] = true
		}
		// rows of one chain are consecutive in kmers before shuffling
		first := -1
		for i, j := range perm {
			if uint32(j) == path[0] {
				first = i
			}
		}
		if first%chainLength != 0 {
			t.Errorf("path does not start at the beginning of a chain")
		}
	}
	for id, ok := range seen {
		if !ok {
			t.Errorf("row %v not on any path", id)
		}
	}
	for i := 1; i < len(paths); i++ {
		if !PathLess(paths[i-1], paths[i]) {
			t.Error("paths not sorted")
		}
	}
}

func TestDeterminism(t *testing.T) {
	var kmers []string
	for i := 0; i < 200; i++ {
		s := randomBases(k + 5)
		for j := 0; j < 6; j++ {
			kmers = append(kmers, s[j:j+k])
		}
		kmers = append(kmers, s[1:k]+"A", s[2:k+1]+"C")
	}
	tbl := makeTable(t, kmers...)
	g1, _ := Make(tbl, DefaultHasher)
	g2, _ := Make(tbl, DefaultHasher)
	for id := range g1 {
		if len(g1[id]) != len(g2[id]) {
			t.Fatal("graph construction is not deterministic")
		}
		for i := range g1[id] {
			if g1[id][i] != g2[id][i] {
				t.Fatal("edge order is not deterministic")
			}
		}
	}
	if !pathsEqual(Walk(g1), Walk(g2)) {
		t.Error("walk is not deterministic")
	}
}

func TestPathLess(t *testing.T) {
	if !PathLess(Path{0, 1}, Path{0, 2}) || PathLess(Path{0, 2}, Path{0, 1}) {
		t.Error("PathLess 1 failed")
	}
	if !PathLess(Path{0}, Path{0, 1}) || PathLess(Path{0, 1}, Path{0}) {
		t.Error("PathLess 2 failed")
	}
	if !PathLess(Path{1, 5, 7}, Path{2}) {
		t.Error("PathLess 3 failed")
	}
	if PathLess(Path{3, 4}, Path{3, 4}) {
		t.Error("PathLess 4 failed")
	}
	paths := []Path{{2}, {0, 2}, {0}, {1, 0}, {0, 1, 2}}
	SortPaths(paths)
	if !pathsEqual(paths, []Path{{0}, {0, 1, 2}, {0, 2}, {1, 0}, {2}}) {
		t.Errorf("SortPaths failed: %v", paths)
	}
}

func TestWalkerStates(t *testing.T) {
	g := Graph{{1, 2}, {}, {}}
	w := NewWalker(g, []uint32{0})
	if w.State() != Running {
		t.Error("initial state failed")
	}
	path, ok := w.Next()
	if !ok || w.State() != Emitting || !pathsEqual([]Path{path}, []Path{{0, 1}}) {
		t.Errorf("first walk failed: %v %v", path, w.State())
	}
	path, ok = w.Next()
	if !ok || w.State() != Emitting || !pathsEqual([]Path{path}, []Path{{0, 2}}) {
		t.Errorf("second walk failed: %v %v", path, w.State())
	}
	if _, ok = w.Next(); ok || w.State() != Idle {
		t.Error("final state failed")
	}
	if NewWalker(g, nil).State() != Idle {
		t.Error("walker without roots should be idle")
	}
}

func TestVerifyPaths(t *testing.T) {
	g := Graph{{1}, {2}, {}, {}}
	if err := VerifyPaths(g, []Path{{0, 1, 2}, {3}}); err != nil {
		t.Error(err)
	}
	if err := VerifyPaths(g, []Path{{0, 2}}); errors.Cause(err) != ErrInternalInvariant {
		t.Error("VerifyPaths should fail on missing edge")
	}
	if err := VerifyPaths(g, []Path{{1, 2}}); errors.Cause(err) != ErrInternalInvariant {
		t.Error("VerifyPaths should fail on path without root")
	}
}

func TestSummarize(t *testing.T) {
	tbl := makeTable(t, strings.Repeat("A", k), strings.Repeat("A", k-1)+"T", strings.Repeat("A", k-1)+"C", strings.Repeat("G", k))
	g, buckets := Make(tbl, DefaultHasher)
	paths := Walk(g)
	s := Summarize(tbl.Len(), buckets, g, paths)
	if s.Rows != 4 || s.Edges != 2 || s.Roots != 2 || s.Paths != 3 || s.PathNodes != 5 || s.MaxPathLength != 2 {
		t.Errorf("Summarize failed: %+v", s)
	}
	if s.Ratio() != 0.75 {
		t.Error("Ratio failed")
	}
}

func BenchmarkMake(b *testing.B) {
	var kmers []string
	for i := 0; i < 10000; i++ {
		s := randomBases(k + 9)
		for j := 0; j < 10; j++ {
			kmers = append(kmers, s[j:j+k])
		}
	}
	tbl := makeTable(b, kmers...)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g, _ := Make(tbl, DefaultHasher)
		Walk(g)
	}
}
