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

package cmd

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/exascience/kmerge/contigs"
	"github.com/exascience/kmerge/internal"
	"github.com/exascience/kmerge/overlap"
	"github.com/exascience/kmerge/table"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MergeHelp is the help string for this command.
const MergeHelp = "\nmerge parameters:\n" +
	"kmerge [merge] dataset\n" +
	"[--kmer-length n]\n" +
	"[--fasta fasta-output-file]\n" +
	"[--nr-of-threads n]\n" +
	"[--timed]\n" +
	"[--profile file]\n" +
	"[--log-path path]\n" +
	"[--stats]\n"

const (
	// InputExt is appended to the dataset name to get the input file.
	InputExt = ".csv"
	// OutputExt is appended to the dataset name to get the output file.
	OutputExt = ".merged.csv"
)

// MergeOptions configures a merge run.
type MergeOptions struct {
	KmerLength   int
	FastaOutput  string
	Timed, Stats bool
	Profile      string
}

// Merge implements the kmerge merge command. The arguments are the
// command line parameters after the command name, starting with the
// dataset.
func Merge(args []string) error {
	dataset, err := getFilename(args, MergeHelp)
	if err != nil {
		return err
	}

	var (
		kmerLength, nrOfThreads int
		fasta, profile, logPath string
		timed, stats            bool
	)

	var flags flag.FlagSet

	flags.IntVar(&kmerLength, "kmer-length", table.DefaultKmerLength, "length of the k-mers in the input table")
	flags.StringVar(&fasta, "fasta", "", "also write the merged k-mers to a FASTA file")
	flags.IntVar(&nrOfThreads, "nr-of-threads", 0, "number of worker threads")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&profile, "profile", "", "write a runtime profile to the specified file(s)")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")
	flags.BoolVar(&stats, "stats", true, "log summary statistics")

	if err := parseFlags(&flags, args[1:], MergeHelp); err != nil {
		return err
	}

	if dataset, err = internal.FullPathname(dataset); err != nil {
		return err
	}

	runID := uuid.New()

	if logPath != "" {
		if err := setLogOutput(logPath, runID); err != nil {
			return err
		}
	}

	input := dataset + InputExt
	output := dataset + OutputExt

	// sanity checks

	var sanityChecksFailed bool

	if !checkExist("", input) {
		sanityChecksFailed = true
	}
	if !checkCreate("", output) {
		sanityChecksFailed = true
	}
	if fasta != "" && !checkCreate("--fasta", fasta) {
		sanityChecksFailed = true
	}
	if profile != "" && !checkCreate("--profile", profile) {
		sanityChecksFailed = true
	}
	if kmerLength < 2 {
		sanityChecksFailed = true
		log.Println("Error: Invalid kmer-length: ", kmerLength)
	}
	if nrOfThreads < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid nr-of-threads: ", nrOfThreads)
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, MergeHelp)
		return errSanityChecks
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " merge ", dataset)
	if kmerLength != table.DefaultKmerLength {
		fmt.Fprint(&command, " --kmer-length ", kmerLength)
	}
	if fasta != "" {
		fmt.Fprint(&command, " --fasta ", fasta)
	}
	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
		fmt.Fprint(&command, " --nr-of-threads ", nrOfThreads)
	}
	if timed {
		fmt.Fprint(&command, " --timed")
	}
	if profile != "" {
		fmt.Fprint(&command, " --profile ", profile)
	}
	if logPath != "" {
		fmt.Fprint(&command, " --log-path ", logPath)
	}
	if !stats {
		fmt.Fprint(&command, " --stats=false")
	}

	// executing command

	log.Println("Run id:", runID)
	log.Println("Executing command:\n", command.String())

	return RunMerge(dataset, MergeOptions{
		KmerLength:  kmerLength,
		FastaOutput: fasta,
		Timed:       timed,
		Stats:       stats,
		Profile:     profile,
	})
}

func verify(err error) error {
	if err != nil {
		return errors.WithMessage(err, "pedantic check")
	}
	return nil
}

// RunMerge reads dataset.csv, merges its k-mers into contigs, and
// writes dataset.merged.csv.
func RunMerge(dataset string, options MergeOptions) error {
	if options.KmerLength == 0 {
		options.KmerLength = table.DefaultKmerLength
	}
	input := dataset + InputExt
	output := dataset + OutputExt

	var (
		tbl     *table.Table
		entries []overlap.Entry
		buckets []overlap.Bucket
		graph   overlap.Graph
		paths   []overlap.Path
	)

	phase := func(phase int64, msg string, f func() error) error {
		return timedRun(options.Timed, options.Profile, msg, phase, f)
	}

	if err := phase(1, "Reading k-mer table.", func() (err error) {
		tbl, err = table.ReadFile(input, options.KmerLength)
		return err
	}); err != nil {
		return err
	}

	if err := phase(2, "Hashing prefixes and suffixes.", func() error {
		entries = overlap.MakeEntries(tbl, overlap.DefaultHasher)
		if internal.PedanticMode {
			return verify(overlap.VerifyEntries(tbl, entries))
		}
		return nil
	}); err != nil {
		return err
	}

	if err := phase(3, "Building equivalence classes.", func() error {
		buckets = overlap.EquivalenceClasses(entries)
		if internal.PedanticMode {
			return verify(overlap.VerifyBuckets(buckets))
		}
		return nil
	}); err != nil {
		return err
	}

	if err := phase(4, "Validating edges.", func() error {
		graph = overlap.BuildGraph(tbl, buckets)
		if internal.PedanticMode {
			return verify(overlap.VerifyGraph(tbl, graph, overlap.DefaultHasher))
		}
		return nil
	}); err != nil {
		return err
	}

	if err := phase(5, "Walking paths.", func() error {
		paths = overlap.Walk(graph)
		if internal.PedanticMode {
			return verify(overlap.VerifyPaths(graph, paths))
		}
		return nil
	}); err != nil {
		return err
	}

	if err := phase(6, "Writing merged k-mers.", func() error {
		if err := contigs.WriteCSVFile(output, tbl, paths); err != nil {
			return err
		}
		if options.FastaOutput != "" {
			return contigs.WriteFastaFile(options.FastaOutput, tbl, paths)
		}
		return nil
	}); err != nil {
		return err
	}

	if options.Stats {
		overlap.Summarize(tbl.Len(), buckets, graph, paths).Log()
	}
	return nil
}
