// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solve reduces an assembled linear system, solves it, recovers
// reactions and per-element results, and reduces per-combination results
// into an envelope (spec §4.E, §4.F, §5). The single-combination solve
// mirrors the teacher's fem/solver.go reduce-solve-expand shape; the
// worker-pool envelope driver generalises gofem's Nproc-bounded parallel
// assembly loop (inp/sim.go) to this spec's embarrassingly-parallel
// per-combination solves.
package solve

import (
	"context"
	"strings"
	"sync"

	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/assemble"
	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/kernel"
	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/linalg"
	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/loadcase"
	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/model"
)

// BeamForces is a beam's recovered end actions, internal-force diagram and
// per-component maxima (spec §4.F).
type BeamForces struct {
	N1, V1, M1 float64
	N2, V2, M2 float64
	Stations   []kernel.BeamStation
	MaxN       float64
	MaxV       float64
	MaxM       float64
}

// PlateMoment is a DKT element's recovered centroidal bending moments.
type PlateMoment struct{ Mx, My, Mxy float64 }

// StressRange is the [min,max] of one stress component across every
// continuum element in a result (spec §4.F, for UI contour colour-scaling).
type StressRange struct{ Min, Max float64 }

// StressRanges collects the per-component ranges across all triangles and
// quads in a result.
type StressRanges struct {
	Sx, Sy, Txy, VonMises StressRange
}

// Result is the ISolverResult of spec §4.E: the reduced/expanded
// displacement and reaction vectors plus every post-processed per-element
// quantity. TriangleStress and QuadStress are kept separate rather than
// merged into one id-keyed map because the Model allocates triangle and
// quad ids from independent sequences, so the two spaces can collide.
type Result struct {
	Nodes          *assemble.NodeIndex
	DOFsPerNode    int
	Displacements  []float64
	Reactions      []float64
	BeamForces     map[int]*BeamForces
	TriangleStress map[int]kernel.Stress
	QuadStress     map[int]kernel.Stress
	PlateMoments   map[int]PlateMoment
	Ranges         StressRanges
	Warnings       []string
}

// Solve assembles m for analysis type at, solves the reduced linear system,
// and post-processes every element (spec §4.E). ctx is checked between the
// assembly, reduction, factorisation and post-processing phases so a caller
// can cancel a long combination sweep cooperatively (spec §5).
func Solve(ctx context.Context, m *model.Model, at assemble.AnalysisType) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.CancelledErrorf("cancelled before assembly")
	}
	asm := assemble.Assemble(m, at)

	if err := ctx.Err(); err != nil {
		return nil, model.CancelledErrorf("cancelled before reduction")
	}
	ndof := len(asm.F)
	constrained := make(map[int]bool, len(asm.Constrained))
	for _, c := range asm.Constrained {
		constrained[c] = true
	}
	free := make([]int, 0, ndof)
	for i := 0; i < ndof; i++ {
		if !constrained[i] {
			free = append(free, i)
		}
	}

	kff := linalg.Alloc(len(free), len(free))
	ff := make([]float64, len(free))
	for i, gi := range free {
		ff[i] = asm.F[gi]
		for j, gj := range free {
			kff[i][j] = asm.K[gi][gj]
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, model.CancelledErrorf("cancelled before factorisation")
	}
	xf, err := linalg.Solve(kff, ff)
	if err != nil {
		if diag := m.ConnectivityDiagnostic(); len(diag) > 0 {
			return nil, model.SolverErrorf("singular reduced stiffness over %d free dofs: %v (%s)", len(free), err, strings.Join(diag, "; "))
		}
		return nil, model.SolverErrorf("singular reduced stiffness over %d free dofs: %v", len(free), err)
	}

	u := make([]float64, ndof)
	for i, gi := range free {
		u[gi] = xf[i]
	}

	reactions := make([]float64, ndof)
	for _, gi := range asm.Constrained {
		s := 0.0
		for j := 0; j < ndof; j++ {
			s += asm.K[gi][j] * u[j]
		}
		reactions[gi] = s - asm.F[gi]
	}

	if err := ctx.Err(); err != nil {
		return nil, model.CancelledErrorf("cancelled before post-processing")
	}

	res := &Result{
		Nodes:          asm.Nodes,
		DOFsPerNode:    asm.DOFsPerNode,
		Displacements:  u,
		Reactions:      reactions,
		BeamForces:     make(map[int]*BeamForces),
		TriangleStress: make(map[int]kernel.Stress),
		QuadStress:     make(map[int]kernel.Stress),
		PlateMoments:   make(map[int]PlateMoment),
		Warnings:       asm.Warnings,
	}
	postProcessBeams(asm, u, res)
	postProcessTriangles(asm, u, res)
	postProcessQuads(asm, u, res)
	postProcessDKT(asm, u, res)
	res.Ranges = computeStressRanges(res)
	return res, nil
}

func postProcessBeams(asm *assemble.Result, u []float64, res *Result) {
	dpn := asm.DOFsPerNode
	for id, br := range asm.Beams {
		n1, n2 := br.Beam.NodeIds[0], br.Beam.NodeIds[1]
		uglobal := []float64{
			u[asm.Nodes.DOF(n1, 0, dpn)], u[asm.Nodes.DOF(n1, 1, dpn)], u[asm.Nodes.DOF(n1, 2, dpn)],
			u[asm.Nodes.DOF(n2, 0, dpn)], u[asm.Nodes.DOF(n2, 1, dpn)], u[asm.Nodes.DOF(n2, 2, dpn)],
		}
		ulocal := br.T.MultiplyVector(uglobal)
		fend := br.Klocal.MultiplyVector(ulocal)
		for i := range fend {
			fend[i] -= br.Flocal[i]
		}
		n1f, v1f, m1f := fend[0], fend[1], -fend[2]
		stations := kernel.InternalForceStations(br.Geom.L, n1f, v1f, m1f, br.Profile)
		maxN, maxV, maxM := kernel.StationExtremes(stations)
		last := stations[len(stations)-1]
		res.BeamForces[id] = &BeamForces{
			N1: n1f, V1: v1f, M1: m1f,
			N2: last.N, V2: last.V, M2: last.M,
			Stations: stations, MaxN: maxN, MaxV: maxV, MaxM: maxM,
		}
	}
}

func postProcessTriangles(asm *assemble.Result, u []float64, res *Result) {
	dpn := asm.DOFsPerNode
	for id, tr := range asm.Tris {
		ue := make([]float64, 6)
		for i, nid := range tr.Tri.NodeIds {
			ue[2*i] = u[asm.Nodes.DOF(nid, 0, dpn)]
			ue[2*i+1] = u[asm.Nodes.DOF(nid, 1, dpn)]
		}
		res.TriangleStress[id] = kernel.RecoverStress(tr.D, tr.B, ue)
	}
}

func postProcessQuads(asm *assemble.Result, u []float64, res *Result) {
	dpn := asm.DOFsPerNode
	for id, qr := range asm.Quads {
		ue := make([]float64, 8)
		for i, nid := range qr.Quad.NodeIds {
			ue[2*i] = u[asm.Nodes.DOF(nid, 0, dpn)]
			ue[2*i+1] = u[asm.Nodes.DOF(nid, 1, dpn)]
		}
		res.QuadStress[id] = kernel.QuadStress(qr.X, qr.Y, qr.D, ue)
	}
}

func postProcessDKT(asm *assemble.Result, u []float64, res *Result) {
	dpn := asm.DOFsPerNode
	for id, dr := range asm.DKTs {
		ue := make([]float64, 9)
		for i, nid := range dr.Tri.NodeIds {
			ue[3*i] = u[asm.Nodes.DOF(nid, 0, dpn)]
			ue[3*i+1] = u[asm.Nodes.DOF(nid, 1, dpn)]
			ue[3*i+2] = u[asm.Nodes.DOF(nid, 2, dpn)]
		}
		mx, my, mxy := kernel.DKTMoments(dr.Geom, dr.Db, ue)
		res.PlateMoments[id] = PlateMoment{Mx: mx, My: my, Mxy: mxy}
	}
}

func computeStressRanges(res *Result) StressRanges {
	var rr StressRanges
	first := true
	accumulate := func(s kernel.Stress) {
		if first {
			rr.Sx = StressRange{s.Sx, s.Sx}
			rr.Sy = StressRange{s.Sy, s.Sy}
			rr.Txy = StressRange{s.Txy, s.Txy}
			rr.VonMises = StressRange{s.VonMises, s.VonMises}
			first = false
			return
		}
		rr.Sx = extend(rr.Sx, s.Sx)
		rr.Sy = extend(rr.Sy, s.Sy)
		rr.Txy = extend(rr.Txy, s.Txy)
		rr.VonMises = extend(rr.VonMises, s.VonMises)
	}
	for _, s := range res.TriangleStress {
		accumulate(s)
	}
	for _, s := range res.QuadStress {
		accumulate(s)
	}
	return rr
}

func extend(r StressRange, v float64) StressRange {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
	return r
}

// SolveLoadCase clones m, applies lc to the clone, and solves the clone
// (spec §4.E "single-load-case path"). The authoritative model passed in is
// never mutated.
func SolveLoadCase(ctx context.Context, m *model.Model, at assemble.AnalysisType, lc *model.LoadCase) (*Result, error) {
	snap := m.Clone()
	if err := loadcase.ApplyToMesh(snap, lc); err != nil {
		return nil, err
	}
	return Solve(ctx, snap, at)
}

// SolveCombination clones m, applies the factored superposition of combo's
// member load cases to the clone, and solves it (spec §4.E "combination
// path").
func SolveCombination(ctx context.Context, m *model.Model, at assemble.AnalysisType, combo *model.LoadCombination) (*Result, error) {
	snap := m.Clone()
	cases := make(map[int]*model.LoadCase, len(combo.Factors))
	for caseId := range combo.Factors {
		lc, err := m.LoadCase(caseId)
		if err != nil {
			return nil, err
		}
		cases[caseId] = lc
	}
	if err := loadcase.ApplyCombinationToMesh(snap, combo, cases); err != nil {
		return nil, err
	}
	return Solve(ctx, snap, at)
}

// SolveCombinations runs SolveCombination for every combination in combos on
// a bounded worker pool, since the solves are independent pure functions of
// read-only snapshots (spec §5). Results are returned in the same order as
// combos; a combination whose solve fails is reported via the returned
// error slice at the same index, with a nil Result.
func SolveCombinations(ctx context.Context, m *model.Model, at assemble.AnalysisType, combos []*model.LoadCombination, workers int) ([]*Result, []error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]*Result, len(combos))
	errs := make([]error, len(combos))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = SolveCombination(ctx, m, at, combos[i])
			}
		}()
	}
	for i := range combos {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results, errs
}

// Envelope is the componentwise min/max reduction across a set of
// same-analysis-type results (spec §4.F). BeamEnvelope stations are
// reduced by ordinal position; a beam absent from some result contributes
// zero at its stations rather than being excluded (spec §4.F).
type Envelope struct {
	MinDisplacements []float64
	MaxDisplacements []float64
	Beams            map[int]*BeamEnvelope
}

// BeamEnvelope is the per-beam componentwise min/max across a result set.
type BeamEnvelope struct {
	MinN, MaxN float64
	MinV, MaxV float64
	MinM, MaxM float64
	Stations   []StationEnvelope
}

// StationEnvelope is the componentwise min/max at one ordinal station
// position across a result set.
type StationEnvelope struct {
	X                          float64
	MinN, MaxN, MinV, MaxV, MinM, MaxM float64
}

// ReduceEnvelope computes the componentwise min/max across results, all of
// which must share the same DOF mapping (same NodeIndex, same beam set) per
// spec §4.F. Nil entries (a failed combination solve) are skipped.
func ReduceEnvelope(results []*Result) *Envelope {
	var ndof int
	for _, r := range results {
		if r != nil {
			ndof = len(r.Displacements)
			break
		}
	}
	env := &Envelope{
		MinDisplacements: make([]float64, ndof),
		MaxDisplacements: make([]float64, ndof),
		Beams:            make(map[int]*BeamEnvelope),
	}
	first := true
	for _, r := range results {
		if r == nil {
			continue
		}
		for i, v := range r.Displacements {
			if first {
				env.MinDisplacements[i] = v
				env.MaxDisplacements[i] = v
			} else {
				if v < env.MinDisplacements[i] {
					env.MinDisplacements[i] = v
				}
				if v > env.MaxDisplacements[i] {
					env.MaxDisplacements[i] = v
				}
			}
		}
		first = false
	}

	beamIds := make(map[int]bool)
	for _, r := range results {
		if r == nil {
			continue
		}
		for id := range r.BeamForces {
			beamIds[id] = true
		}
	}
	for id := range beamIds {
		be := &BeamEnvelope{}
		var nsta int
		for _, r := range results {
			if r == nil {
				continue
			}
			if bf, ok := r.BeamForces[id]; ok {
				nsta = len(bf.Stations)
				break
			}
		}
		be.Stations = make([]StationEnvelope, nsta)
		firstBeam := true
		for _, r := range results {
			if r == nil {
				continue
			}
			var stations []kernel.BeamStation
			if bf, ok := r.BeamForces[id]; ok {
				stations = bf.Stations
			}
			if stations == nil {
				// beam absent from this result: contributes 0 at every station
				stations = make([]kernel.BeamStation, nsta)
			}
			for i, s := range stations {
				be.Stations[i].X = s.X
				if firstBeam {
					be.Stations[i].MinN, be.Stations[i].MaxN = s.N, s.N
					be.Stations[i].MinV, be.Stations[i].MaxV = s.V, s.V
					be.Stations[i].MinM, be.Stations[i].MaxM = s.M, s.M
				} else {
					be.Stations[i].MinN = minF(be.Stations[i].MinN, s.N)
					be.Stations[i].MaxN = maxF(be.Stations[i].MaxN, s.N)
					be.Stations[i].MinV = minF(be.Stations[i].MinV, s.V)
					be.Stations[i].MaxV = maxF(be.Stations[i].MaxV, s.V)
					be.Stations[i].MinM = minF(be.Stations[i].MinM, s.M)
					be.Stations[i].MaxM = maxF(be.Stations[i].MaxM, s.M)
				}
			}
			firstBeam = false
		}
		for i, s := range be.Stations {
			if i == 0 {
				be.MinN, be.MaxN = s.MinN, s.MaxN
				be.MinV, be.MaxV = s.MinV, s.MaxV
				be.MinM, be.MaxM = s.MinM, s.MaxM
				continue
			}
			be.MinN = minF(be.MinN, s.MinN)
			be.MaxN = maxF(be.MaxN, s.MaxN)
			be.MinV = minF(be.MinV, s.MinV)
			be.MaxV = maxF(be.MaxV, s.MaxV)
			be.MinM = minF(be.MinM, s.MinM)
			be.MaxM = maxF(be.MaxM, s.MaxM)
		}
		env.Beams[id] = be
	}
	return env
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
