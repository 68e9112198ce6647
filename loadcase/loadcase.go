// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loadcase applies a LoadCase or a factored LoadCombination onto a
// Model snapshot (spec §4.G): a pure mutation of the mesh's load fields,
// never of the case/combination records themselves, mirroring the
// teacher's inp package pattern of mutating a resolved domain from a
// declarative input record.
package loadcase

import "github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/model"

// ApplyToMesh overwrites node.Loads, beam.DistributedLoad and
// beam.ThermalLoad from lc onto m. Call this on a Model snapshot dedicated
// to one solve — never on the authoritative Model (spec §4.G, §5).
func ApplyToMesh(m *model.Model, lc *model.LoadCase) error {
	for _, pl := range lc.PointLoads {
		n, err := m.Node(pl.NodeId)
		if err != nil {
			return err
		}
		n.Loads.Fx, n.Loads.Fy, n.Loads.Moment = pl.Fx, pl.Fy, pl.Moment
	}
	for _, dl := range lc.DistributedLoads {
		b, err := m.Beam(dl.BeamId)
		if err != nil {
			return err
		}
		spec := dl.Spec
		b.DistributedLoad = &spec
	}
	for _, tl := range lc.ThermalLoads {
		b, err := m.Beam(tl.BeamId)
		if err != nil {
			return err
		}
		load := tl.Load
		b.ThermalLoad = &load
	}
	return nil
}

// ApplyCombinationToMesh computes the factored superposition of every load
// case referenced by combo's Factors and writes the combined values onto m
// (spec §4.G: "a combination application variant computes superposed
// values before writing"). Node loads accumulate by simple factored sum;
// a beam's distributed/thermal load is the factored sum of every case that
// specifies one for that beam (a beam absent from a case contributes 0).
func ApplyCombinationToMesh(m *model.Model, combo *model.LoadCombination, cases map[int]*model.LoadCase) error {
	nodeLoads := make(map[int]*model.NodeLoads)
	distLoads := make(map[int]*model.DistributedLoadSpec)
	thermalLoads := make(map[int]*model.ThermalLoad)

	for caseId, factor := range combo.Factors {
		lc, ok := cases[caseId]
		if !ok {
			return model.ReferenceErrorf("combination %d references missing load case %d", combo.Id, caseId)
		}
		for _, pl := range lc.PointLoads {
			acc, ok := nodeLoads[pl.NodeId]
			if !ok {
				acc = &model.NodeLoads{}
				nodeLoads[pl.NodeId] = acc
			}
			acc.Fx += factor * pl.Fx
			acc.Fy += factor * pl.Fy
			acc.Moment += factor * pl.Moment
		}
		for _, dl := range lc.DistributedLoads {
			acc, ok := distLoads[dl.BeamId]
			if !ok {
				acc = &model.DistributedLoadSpec{StartT: dl.Spec.StartT, EndT: dl.Spec.EndT, Global: dl.Spec.Global}
				distLoads[dl.BeamId] = acc
			}
			acc.QxStart += factor * dl.Spec.QxStart
			acc.QyStart += factor * dl.Spec.QyStart
			acc.QxEnd += factor * dl.Spec.QxEnd
			acc.QyEnd += factor * dl.Spec.QyEnd
		}
		for _, tl := range lc.ThermalLoads {
			acc, ok := thermalLoads[tl.BeamId]
			if !ok {
				acc = &model.ThermalLoad{IsGradient: tl.Load.IsGradient}
				thermalLoads[tl.BeamId] = acc
			}
			acc.DeltaT += factor * tl.Load.DeltaT
			acc.DeltaTTop += factor * tl.Load.DeltaTTop
			acc.DeltaTBot += factor * tl.Load.DeltaTBot
		}
	}

	for nodeId, loads := range nodeLoads {
		n, err := m.Node(nodeId)
		if err != nil {
			return err
		}
		n.Loads = *loads
	}
	for beamId, spec := range distLoads {
		b, err := m.Beam(beamId)
		if err != nil {
			return err
		}
		b.DistributedLoad = spec
	}
	for beamId, load := range thermalLoads {
		b, err := m.Beam(beamId)
		if err != nil {
			return err
		}
		b.ThermalLoad = load
	}
	return nil
}
