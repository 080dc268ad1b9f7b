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

// kmerge merges a table of overlapping k-mers and their counts into
// longer contigs.
//
// The input is a CSV file with a header line, a k-mer in the first
// column, and four integer counts in the next columns. Rows whose
// k-mers overlap in all but one base are linked in a graph, and every
// maximal walk through that graph becomes one row of the output.
//
// Please see https://github.com/exascience/kmerge for a documentation
// of the tool.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/exascience/kmerge/cmd"
)

func printHelp() {
	fmt.Fprintln(os.Stderr, "Available commands: merge (default)")
	fmt.Fprint(os.Stderr, "\n", cmd.MergeHelp)
}

func main() {
	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)
	if len(os.Args) < 2 {
		log.Println("Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, cmd.HelpMessage)
		printHelp()
		log.Fatal(cmd.ErrArgumentMissing)
	}

	var err error
	switch os.Args[1] {
	case "merge":
		err = cmd.Merge(os.Args[2:])
	case "help", "-help", "--help", "-h", "--h":
		printHelp()
	default:
		err = cmd.Merge(os.Args[1:])
	}
	if err != nil {
		log.Fatal(err)
	}
}
