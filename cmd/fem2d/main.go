// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command fem2d loads a project file and runs a single analysis or a full
// combination sweep, writing the ISolverResult payload of spec §6 to
// stdout or a file. It is the CLI entrypoint of Open-FEM2D-Studio, grounded
// on the teacher's flag-based main.go driver (load an input file, run,
// report).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/assemble"
	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/project"
	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/solve"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

var analysisNames = map[string]assemble.AnalysisType{
	"frame":        assemble.Frame,
	"plane_stress": assemble.PlaneStress,
	"plane_strain": assemble.PlaneStrain,
	"plate":        assemble.PlateBending,
	"mixed":        assemble.Mixed,
}

func main() {
	analysis := flag.String("analysis", "frame", "frame | plane_stress | plane_strain | plate | mixed")
	outPath := flag.String("out", "", "result JSON output path; empty writes to stdout")
	combinations := flag.Bool("combinations", false, "solve every load combination in the project and emit an envelope instead of a single case")
	workers := flag.Int("workers", 4, "worker pool size for -combinations")
	timeoutSeconds := flag.Int("timeout", 0, "cancel the solve after this many seconds; 0 disables the timeout")
	flag.Parse()

	if len(flag.Args()) == 0 {
		chk.Panic("Please provide a project file. Ex.: fem2d project.json")
	}
	fnamepath := flag.Arg(0)

	at, ok := analysisNames[*analysis]
	if !ok {
		chk.Panic("unknown -analysis %q", *analysis)
	}

	io.Pf("\nOpen-FEM2D-Studio\n\n")

	raw, err := io.ReadFile(fnamepath)
	if err != nil {
		chk.Panic("cannot read project file %q: %v", fnamepath, err)
	}

	m, combos, err := project.Decode(raw)
	if err != nil {
		chk.Panic("cannot decode project file %q: %v", fnamepath, err)
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if *timeoutSeconds > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*timeoutSeconds)*time.Second)
		defer cancel()
	}

	var payload interface{}
	if *combinations {
		if len(combos) == 0 {
			chk.Panic("project file has no load combinations; pass -combinations=false for a plain analysis")
		}
		results, errs := solve.SolveCombinations(ctx, m, at, combos, *workers)
		for i, e := range errs {
			if e != nil {
				io.Pfred("combination %d (%s) failed: %v\n", combos[i].Id, combos[i].Name, e)
			}
		}
		env := solve.ReduceEnvelope(results)
		var idx *project.NodeResultIndex
		for _, r := range results {
			if r != nil {
				idx = project.NewNodeResultIndex(r)
				break
			}
		}
		if idx == nil {
			chk.Panic("every combination solve failed")
		}
		payload = project.BuildEnvelopePayload(env, idx)
	} else {
		res, err := solve.Solve(ctx, m, at)
		if err != nil {
			chk.Panic("solve failed: %v", err)
		}
		for _, w := range res.Warnings {
			io.Pfyel("warning: %s\n", w)
		}
		payload = project.BuildResultPayload(res)
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		chk.Panic("cannot marshal result: %v", err)
	}

	if *outPath == "" {
		io.Pf("%s\n", string(out))
		return
	}
	if err := os.WriteFile(*outPath, out, 0644); err != nil {
		chk.Panic("cannot write result to %q: %v", *outPath, err)
	}
	io.Pfgreen("result written to %s\n", *outPath)
}
