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

package internal

import (
	"github.com/exascience/pargo/pipeline"
	"github.com/pkg/errors"
)

// RunPipeline is p.Run() followed by p.Err(), with the given context
// added to the error.
func RunPipeline(p *pipeline.Pipeline, context string) error {
	p.Run()
	if err := p.Err(); err != nil {
		return errors.WithMessage(err, context)
	}
	return nil
}
