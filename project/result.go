// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

import (
	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/kernel"
	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/solve"
)

// NodeResultDTO is one active node's recovered displacement/reaction vector,
// keyed by node id in the enclosing map.
type NodeResultDTO struct {
	Displacements []float64 `json:"displacements"`
	Reactions     []float64 `json:"reactions"`
}

// BeamForcesDTO is the wire form of solve.BeamForces.
type BeamForcesDTO struct {
	N1         float64              `json:"n1"`
	V1         float64              `json:"v1"`
	M1         float64              `json:"m1"`
	N2         float64              `json:"n2"`
	V2         float64              `json:"v2"`
	M2         float64              `json:"m2"`
	Stations   []kernel.BeamStation `json:"stations"`
	MaxN       float64              `json:"maxN"`
	MaxV       float64              `json:"maxV"`
	MaxM       float64              `json:"maxM"`
}

// ResultPayload is the UI-facing result shape: exactly ISolverResult (spec
// §4.E) keyed by node/element id rather than internal DOF index.
type ResultPayload struct {
	Nodes          map[int]NodeResultDTO  `json:"nodes"`
	BeamForces     map[int]BeamForcesDTO  `json:"beam_forces"`
	TriangleStress map[int]kernel.Stress  `json:"triangle_stress"`
	QuadStress     map[int]kernel.Stress  `json:"quad_stress"`
	PlateMoments   map[int]solve.PlateMoment `json:"plate_moments"`
	Ranges         solve.StressRanges     `json:"ranges"`
	Warnings       []string               `json:"warnings,omitempty"`
}

// BuildResultPayload converts a solve.Result into the node-id-keyed UI
// payload (spec §6: "Exactly the ISolverResult shape in §4.E").
func BuildResultPayload(r *solve.Result) *ResultPayload {
	p := &ResultPayload{
		Nodes:          make(map[int]NodeResultDTO, r.Nodes.N()),
		BeamForces:     make(map[int]BeamForcesDTO, len(r.BeamForces)),
		TriangleStress: r.TriangleStress,
		QuadStress:     r.QuadStress,
		PlateMoments:   r.PlateMoments,
		Ranges:         r.Ranges,
		Warnings:       r.Warnings,
	}
	for _, nodeId := range r.Nodes.Order {
		d := make([]float64, r.DOFsPerNode)
		rx := make([]float64, r.DOFsPerNode)
		for dof := 0; dof < r.DOFsPerNode; dof++ {
			gi := r.Nodes.DOF(nodeId, dof, r.DOFsPerNode)
			d[dof] = r.Displacements[gi]
			rx[dof] = r.Reactions[gi]
		}
		p.Nodes[nodeId] = NodeResultDTO{Displacements: d, Reactions: rx}
	}
	for id, bf := range r.BeamForces {
		p.BeamForces[id] = BeamForcesDTO{
			N1: bf.N1, V1: bf.V1, M1: bf.M1,
			N2: bf.N2, V2: bf.V2, M2: bf.M2,
			Stations: bf.Stations, MaxN: bf.MaxN, MaxV: bf.MaxV, MaxM: bf.MaxM,
		}
	}
	return p
}

// EnvelopePayload is the UI-facing envelope shape (spec §6: "plus derived
// envelope objects when a combination set is supplied").
type EnvelopePayload struct {
	MinDisplacements map[int][]float64       `json:"min_displacements"`
	MaxDisplacements map[int][]float64       `json:"max_displacements"`
	Beams            map[int]solve.BeamEnvelope `json:"beams"`
}

// BuildEnvelopePayload converts a solve.Envelope into the node-id-keyed UI
// payload, using nodes to recover which DOF index belongs to which node.
func BuildEnvelopePayload(env *solve.Envelope, nodes *NodeResultIndex) *EnvelopePayload {
	p := &EnvelopePayload{
		MinDisplacements: make(map[int][]float64, nodes.N()),
		MaxDisplacements: make(map[int][]float64, nodes.N()),
		Beams:            make(map[int]solve.BeamEnvelope, len(env.Beams)),
	}
	for _, nodeId := range nodes.Order {
		dmin := make([]float64, nodes.DOFsPerNode)
		dmax := make([]float64, nodes.DOFsPerNode)
		for dof := 0; dof < nodes.DOFsPerNode; dof++ {
			gi := nodes.DOF(nodeId, dof)
			dmin[dof] = env.MinDisplacements[gi]
			dmax[dof] = env.MaxDisplacements[gi]
		}
		p.MinDisplacements[nodeId] = dmin
		p.MaxDisplacements[nodeId] = dmax
	}
	for id, be := range env.Beams {
		p.Beams[id] = *be
	}
	return p
}

// NodeResultIndex is the minimal (node id -> DOF index) view BuildEnvelopePayload
// needs; solve.Result's own *assemble.NodeIndex satisfies the same shape,
// wrapped here to avoid project depending on package assemble directly for a
// single field's worth of behaviour.
type NodeResultIndex struct {
	Order       []int
	DOFsPerNode int
	dof         func(nodeId, localDof int) int
}

// DOF returns the global DOF index for (nodeId, localDof).
func (n *NodeResultIndex) DOF(nodeId, localDof int) int { return n.dof(nodeId, localDof) }

// N is the number of active nodes.
func (n *NodeResultIndex) N() int { return len(n.Order) }

// NewNodeResultIndex adapts a solve.Result's node index into a NodeResultIndex.
func NewNodeResultIndex(r *solve.Result) *NodeResultIndex {
	return &NodeResultIndex{
		Order:       r.Nodes.Order,
		DOFsPerNode: r.DOFsPerNode,
		dof:         func(nodeId, localDof int) int { return r.Nodes.DOF(nodeId, localDof, r.DOFsPerNode) },
	}
}
