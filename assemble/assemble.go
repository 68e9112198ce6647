// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assemble builds the global stiffness matrix and load vector for
// one of the spec's analysis types out of the per-element kernels in
// package kernel, following the teacher's fem/domain.go assembly loop
// (iterate elements in id order, scatter each local matrix into the global
// one by DOF index) generalised from gofem's many-physics dispatch to this
// spec's frame/plane/plate/mixed dispatch (spec §4.D).
package assemble

import (
	"math"
	"strconv"

	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/kernel"
	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/linalg"
	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/model"
)

// AnalysisType selects which element families participate in the assembly
// and how many DOFs each active node carries (spec §4.D).
type AnalysisType int

const (
	Frame AnalysisType = iota
	PlaneStress
	PlaneStrain
	PlateBending
	Mixed
)

// DOFsPerNode returns 3 for Frame/PlateBending/Mixed (u,v,θ or w,θx,θy) and
// 2 for the pure plane-stress/plane-strain analyses.
func DOFsPerNode(at AnalysisType) int {
	switch at {
	case PlaneStress, PlaneStrain:
		return 2
	default:
		return 3
	}
}

// NodeIndex is the insertion-ordered map from node id to its 0-based
// position among the nodes active in one analysis (spec §4.D: "a node not
// referenced by any element of the current analysis type is excluded from
// the system").
type NodeIndex struct {
	idToIndex map[int]int
	Order     []int
}

// Index returns the active position of nodeId, or ok=false if the node is
// not active in this analysis.
func (ni *NodeIndex) Index(nodeId int) (int, bool) {
	i, ok := ni.idToIndex[nodeId]
	return i, ok
}

// N is the number of active nodes.
func (ni *NodeIndex) N() int { return len(ni.Order) }

// DOF returns the global DOF index for (nodeId, localDof), or -1 if nodeId
// is not active.
func (ni *NodeIndex) DOF(nodeId, localDof, dofsPerNode int) int {
	i, ok := ni.idToIndex[nodeId]
	if !ok {
		return -1
	}
	return i*dofsPerNode + localDof
}

func newNodeIndex() *NodeIndex {
	return &NodeIndex{idToIndex: make(map[int]int)}
}

func (ni *NodeIndex) add(id int) {
	if _, ok := ni.idToIndex[id]; ok {
		return
	}
	ni.idToIndex[id] = len(ni.Order)
	ni.Order = append(ni.Order, id)
}

// BuildNodeIndex walks the model's elements in id order and records every
// node referenced by an element relevant to at, pruning unreferenced nodes
// out of the system (spec §4.D active-DOF pruning).
func BuildNodeIndex(m *model.Model, at AnalysisType) *NodeIndex {
	ni := newNodeIndex()
	dktIds := m.DKTTriangleIDs()
	switch at {
	case Frame:
		for _, b := range m.Beams() {
			ni.add(b.NodeIds[0])
			ni.add(b.NodeIds[1])
		}
	case PlaneStress, PlaneStrain:
		for _, t := range m.Triangles() {
			if dktIds[t.Id] {
				continue
			}
			for _, id := range t.NodeIds {
				ni.add(id)
			}
		}
		for _, q := range m.Quads() {
			for _, id := range q.NodeIds {
				ni.add(id)
			}
		}
	case PlateBending:
		for _, t := range m.Triangles() {
			if !dktIds[t.Id] {
				continue
			}
			for _, id := range t.NodeIds {
				ni.add(id)
			}
		}
	case Mixed:
		for _, b := range m.Beams() {
			ni.add(b.NodeIds[0])
			ni.add(b.NodeIds[1])
		}
		for _, t := range m.Triangles() {
			if dktIds[t.Id] {
				continue
			}
			for _, id := range t.NodeIds {
				ni.add(id)
			}
		}
		for _, q := range m.Quads() {
			for _, id := range q.NodeIds {
				ni.add(id)
			}
		}
	}
	return ni
}

// BeamRecord carries everything the solve package needs to recover a beam's
// internal-force diagram after the global displacement vector is known:
// the condensed local stiffness/load (condensation must happen before the
// global solve, but the resulting end forces are only recoverable by
// re-entering local coordinates afterwards).
type BeamRecord struct {
	Beam     *model.BeamElement
	Geom     kernel.BeamGeometry
	Klocal   linalg.Matrix
	Flocal   []float64
	T        linalg.Matrix
	Released []int
	Profile  *kernel.LoadProfile
}

// TriRecord carries a CST triangle's B/D matrices and area for post-solve
// stress recovery.
type TriRecord struct {
	Tri  *model.TriangleElement
	B, D linalg.Matrix
	Area float64
}

// QuadRecord carries a Q4's corner coordinates and D matrix for post-solve
// stress recovery.
type QuadRecord struct {
	Quad *model.QuadElement
	X, Y [4]float64
	D    linalg.Matrix
}

// DKTRecord carries a DKT plate triangle's geometry and bending D matrix for
// post-solve moment recovery.
type DKTRecord struct {
	Tri  *model.TriangleElement
	Geom kernel.DKTGeometry
	Db   linalg.Matrix
}

// Result is the assembled linear system plus the per-element bookkeeping
// the solve package needs for post-processing.
type Result struct {
	Nodes       *NodeIndex
	DOFsPerNode int
	K           linalg.Matrix
	F           []float64
	Constrained []int // global DOF indices that are kinematically restrained
	Warnings    []string

	Beams  map[int]*BeamRecord
	Tris   map[int]*TriRecord
	Quads  map[int]*QuadRecord
	DKTs   map[int]*DKTRecord
}

func (r *Result) warn(msg string) { r.Warnings = append(r.Warnings, msg) }

// Assemble builds the global K, F and constraint list for analysis type at
// (spec §4.D). Degenerate or under-specified elements are skipped with a
// warning rather than aborting the whole assembly (spec §7).
func Assemble(m *model.Model, at AnalysisType) *Result {
	ni := BuildNodeIndex(m, at)
	dpn := DOFsPerNode(at)
	ndof := ni.N() * dpn

	res := &Result{
		Nodes:       ni,
		DOFsPerNode: dpn,
		K:           linalg.Alloc(ndof, ndof),
		F:           make([]float64, ndof),
		Beams:       make(map[int]*BeamRecord),
		Tris:        make(map[int]*TriRecord),
		Quads:       make(map[int]*QuadRecord),
		DKTs:        make(map[int]*DKTRecord),
	}

	beamNodes := make(map[int]bool)

	if at == Frame || at == Mixed {
		assembleBeams(m, res, beamNodes)
	}
	if at == PlaneStress || at == PlaneStrain || at == Mixed {
		mode := kernel.PlaneStress
		if at == PlaneStrain {
			mode = kernel.PlaneStrain
		}
		assembleTriangles(m, res, mode, at == Mixed)
		assembleQuads(m, res, mode, at == Mixed)
	}
	if at == PlateBending {
		assembleDKT(m, res)
	}

	assembleNodeLoadsAndSprings(m, res, at)

	if at == Mixed {
		stabilizeRotationOnly(res, beamNodes)
	}

	assembleConstraints(m, res, at, beamNodes)

	return res
}

func assembleBeams(m *model.Model, res *Result, beamNodes map[int]bool) {
	dpn := res.DOFsPerNode
	for _, b := range m.Beams() {
		n1, err := m.Node(b.NodeIds[0])
		if err != nil {
			res.warn("beam " + strconv.Itoa(b.Id) + ": " + err.Error())
			continue
		}
		n2, err := m.Node(b.NodeIds[1])
		if err != nil {
			res.warn("beam " + strconv.Itoa(b.Id) + ": " + err.Error())
			continue
		}
		geom, err := kernel.NewBeamGeometry(n1.X, n1.Y, n2.X, n2.Y)
		if err != nil {
			res.warn("beam " + strconv.Itoa(b.Id) + ": " + err.Error())
			continue
		}
		mat, err := m.Material(b.MaterialId)
		if err != nil {
			res.warn("beam " + strconv.Itoa(b.Id) + ": " + err.Error())
			continue
		}
		if !b.Section.Valid() {
			res.warn("beam " + strconv.Itoa(b.Id) + ": invalid section, skipped")
			continue
		}
		beamNodes[b.NodeIds[0]] = true
		beamNodes[b.NodeIds[1]] = true

		klocal := kernel.LocalStiffness(mat.E, b.Section.A, b.Section.I, geom.L)
		flocal := make([]float64, 6)
		var profile *kernel.LoadProfile

		if b.DistributedLoad != nil {
			d := b.DistributedLoad
			qxs, qys, qxe, qye := d.QxStart, d.QyStart, d.QxEnd, d.QyEnd
			if d.Global {
				qxs, qys = kernel.ProjectGlobalLoadToLocal(d.QxStart, d.QyStart, geom.Alpha)
				qxe, qye = kernel.ProjectGlobalLoadToLocal(d.QxEnd, d.QyEnd, geom.Alpha)
			}
			var fe []float64
			if d.Trapezoidal() && !d.FullSpan() {
				fe = kernel.EquivLocalLoadsSimpson(qxs, qys, qxe, qye, d.StartT, d.EndT, geom.L)
			} else {
				fe = kernel.EquivLocalLoads(qxs, qys, qxe, qye, d.StartT, d.EndT, geom.L)
			}
			for i := range flocal {
				flocal[i] += fe[i]
			}
			profile = &kernel.LoadProfile{QxStart: qxs, QyStart: qys, QxEnd: qxe, QyEnd: qye, StartT: d.StartT, EndT: d.EndT, L: geom.L}
		}

		for _, pl := range b.PointLoads {
			fxl, fyl := pl.Fx, pl.Fy
			if !pl.LocalAxes {
				fxl, fyl = kernel.ProjectGlobalLoadToLocal(pl.Fx, pl.Fy, geom.Alpha)
			}
			fe := kernel.EquivLocalPointLoad(fxl, fyl, pl.T*geom.L, geom.L)
			for i := range flocal {
				flocal[i] += fe[i]
			}
		}

		if b.ThermalLoad != nil {
			t := b.ThermalLoad
			var fe []float64
			if t.IsGradient {
				fe = kernel.EquivLocalThermalGradient(mat.E, b.Section.A, b.Section.I, mat.Alpha, b.Section.H, t.DeltaTTop, t.DeltaTBot)
			} else {
				fe = kernel.EquivLocalThermalUniform(mat.E, b.Section.A, mat.Alpha, t.DeltaT)
			}
			for i := range flocal {
				flocal[i] += fe[i]
			}
		}

		released := kernel.ReleasedDOFIndices(b.EndReleases)
		if len(released) > 0 {
			kernel.CondenseReleases(klocal, flocal, released)
		}

		tmat := kernel.TransformationMatrix(geom.Alpha)
		kglobal := kernel.GlobalStiffness(klocal, tmat)
		fglobal := tmat.Transpose().MultiplyVector(flocal)

		dofMap := []int{
			res.Nodes.DOF(b.NodeIds[0], 0, dpn), res.Nodes.DOF(b.NodeIds[0], 1, dpn), res.Nodes.DOF(b.NodeIds[0], 2, dpn),
			res.Nodes.DOF(b.NodeIds[1], 0, dpn), res.Nodes.DOF(b.NodeIds[1], 1, dpn), res.Nodes.DOF(b.NodeIds[1], 2, dpn),
		}
		scatter(res.K, res.F, dofMap, kglobal, fglobal)

		res.Beams[b.Id] = &BeamRecord{Beam: b, Geom: geom, Klocal: klocal, Flocal: flocal, T: tmat, Released: released, Profile: profile}
	}
}

func assembleTriangles(m *model.Model, res *Result, mode kernel.PlaneMode, mixed bool) {
	dpn := res.DOFsPerNode
	dktIds := m.DKTTriangleIDs()
	for _, t := range m.Triangles() {
		if dktIds[t.Id] {
			continue
		}
		pts := make([]*model.Node, 3)
		ok := true
		for i, id := range t.NodeIds {
			n, err := m.Node(id)
			if err != nil {
				res.warn("triangle " + strconv.Itoa(t.Id) + ": " + err.Error())
				ok = false
				break
			}
			pts[i] = n
		}
		if !ok {
			continue
		}
		mat, err := m.Material(t.MaterialId)
		if err != nil {
			res.warn("triangle " + strconv.Itoa(t.Id) + ": " + err.Error())
			continue
		}
		b, area := kernel.TriangleB(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		if area < 1e-12 {
			res.warn("triangle " + strconv.Itoa(t.Id) + ": zero area, skipped")
			continue
		}
		d := kernel.PlaneDMatrix(mat.E, mat.Nu, mode)
		ke := kernel.TriangleStiffness(b, d, area, t.Thickness)

		dofMap := make([]int, 0, 9)
		if mixed {
			ke = kernel.ExpandPlaneToMixed(ke, 3)
			for _, id := range t.NodeIds {
				dofMap = append(dofMap, res.Nodes.DOF(id, 0, dpn), res.Nodes.DOF(id, 1, dpn), res.Nodes.DOF(id, 2, dpn))
			}
		} else {
			for _, id := range t.NodeIds {
				dofMap = append(dofMap, res.Nodes.DOF(id, 0, dpn), res.Nodes.DOF(id, 1, dpn))
			}
		}
		fe := make([]float64, len(dofMap))
		scatter(res.K, res.F, dofMap, ke, fe)

		res.Tris[t.Id] = &TriRecord{Tri: t, B: b, D: d, Area: area}
	}
}

func assembleQuads(m *model.Model, res *Result, mode kernel.PlaneMode, mixed bool) {
	dpn := res.DOFsPerNode
	for _, q := range m.Quads() {
		var x, y [4]float64
		ok := true
		for i, id := range q.NodeIds {
			n, err := m.Node(id)
			if err != nil {
				res.warn("quad " + strconv.Itoa(q.Id) + ": " + err.Error())
				ok = false
				break
			}
			x[i], y[i] = n.X, n.Y
		}
		if !ok {
			continue
		}
		mat, err := m.Material(q.MaterialId)
		if err != nil {
			res.warn("quad " + strconv.Itoa(q.Id) + ": " + err.Error())
			continue
		}
		d := kernel.PlaneDMatrix(mat.E, mat.Nu, mode)
		ke := kernel.QuadStiffness(x, y, d, q.Thickness)

		dofMap := make([]int, 0, 12)
		if mixed {
			ke = kernel.Expand8To12(ke)
			for _, id := range q.NodeIds {
				dofMap = append(dofMap, res.Nodes.DOF(id, 0, dpn), res.Nodes.DOF(id, 1, dpn), res.Nodes.DOF(id, 2, dpn))
			}
		} else {
			for _, id := range q.NodeIds {
				dofMap = append(dofMap, res.Nodes.DOF(id, 0, dpn), res.Nodes.DOF(id, 1, dpn))
			}
		}
		fe := make([]float64, len(dofMap))
		scatter(res.K, res.F, dofMap, ke, fe)

		res.Quads[q.Id] = &QuadRecord{Quad: q, X: x, Y: y, D: d}
	}
}

func assembleDKT(m *model.Model, res *Result) {
	dpn := res.DOFsPerNode
	dktIds := m.DKTTriangleIDs()
	// thickness/material per DKT triangle are recorded on the owning
	// PlateRegion, not the TriangleElement itself; build a lookup.
	thickness := make(map[int]float64)
	matId := make(map[int]int)
	for _, p := range m.PlateRegions() {
		if p.ElementType != "dkt" {
			continue
		}
		for _, eid := range p.ElementIds {
			thickness[eid] = p.Thickness
			matId[eid] = p.MaterialId
		}
	}
	for _, t := range m.Triangles() {
		if !dktIds[t.Id] {
			continue
		}
		pts := make([]*model.Node, 3)
		ok := true
		for i, id := range t.NodeIds {
			n, err := m.Node(id)
			if err != nil {
				res.warn("plate triangle " + strconv.Itoa(t.Id) + ": " + err.Error())
				ok = false
				break
			}
			pts[i] = n
		}
		if !ok {
			continue
		}
		mid, hasMat := matId[t.Id]
		if !hasMat {
			mid = t.MaterialId
		}
		mat, err := m.Material(mid)
		if err != nil {
			res.warn("plate triangle " + strconv.Itoa(t.Id) + ": " + err.Error())
			continue
		}
		th := thickness[t.Id]
		if th <= 0 {
			th = t.Thickness
		}
		if th <= 0 {
			res.warn("plate triangle " + strconv.Itoa(t.Id) + ": missing thickness, skipped")
			continue
		}
		geom := kernel.NewDKTGeometry(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		if geom.Area < 1e-12 {
			res.warn("plate triangle " + strconv.Itoa(t.Id) + ": zero area, skipped")
			continue
		}
		db := kernel.DKTBendingD(mat.E, mat.Nu, th)
		ke := kernel.DKTStiffness(geom, db)

		dofMap := make([]int, 0, 9)
		for _, id := range t.NodeIds {
			dofMap = append(dofMap, res.Nodes.DOF(id, 0, dpn), res.Nodes.DOF(id, 1, dpn), res.Nodes.DOF(id, 2, dpn))
		}
		fe := make([]float64, 9)
		scatter(res.K, res.F, dofMap, ke, fe)

		res.DKTs[t.Id] = &DKTRecord{Tri: t, Geom: geom, Db: db}
	}
}

// assembleNodeLoadsAndSprings adds nodal point loads and spring stiffnesses
// at every active node, using the physical-DOF convention named in spec
// §4.D: Frame/Mixed use (Fx,Fy,Moment)->(u,v,θ); plane analyses use
// (Fx,Fy)->(u,v); plate_bending uses Fz (or Fy if Fz is zero) -> w, with no
// nodal-load DOF for θx/θy.
func assembleNodeLoadsAndSprings(m *model.Model, res *Result, at AnalysisType) {
	dpn := res.DOFsPerNode
	for _, id := range res.Nodes.Order {
		n, err := m.Node(id)
		if err != nil {
			continue
		}
		switch at {
		case Frame, Mixed:
			addSpringOrNothing(res, id, 0, n.Loads.Fx, n.Constraints.SpringX, dpn)
			addSpringOrNothing(res, id, 1, n.Loads.Fy, n.Constraints.SpringY, dpn)
			addSpringOrNothing(res, id, 2, n.Loads.Moment, n.Constraints.SpringRot, dpn)
		case PlaneStress, PlaneStrain:
			addSpringOrNothing(res, id, 0, n.Loads.Fx, n.Constraints.SpringX, dpn)
			addSpringOrNothing(res, id, 1, n.Loads.Fy, n.Constraints.SpringY, dpn)
		case PlateBending:
			fz := n.Loads.Fz
			if fz == 0 {
				fz = n.Loads.Fy
			}
			addSpringOrNothing(res, id, 0, fz, n.Constraints.SpringY, dpn)
			addSpringOnly(res, id, 1, n.Constraints.SpringRot, dpn)
			addSpringOnly(res, id, 2, n.Constraints.SpringRot, dpn)
		}
	}
}

func addSpringOrNothing(res *Result, nodeId, localDof int, load float64, spring *float64, dpn int) {
	gi := res.Nodes.DOF(nodeId, localDof, dpn)
	if gi < 0 {
		return
	}
	res.F[gi] += load
	if spring != nil {
		res.K[gi][gi] += *spring
	}
}

func addSpringOnly(res *Result, nodeId, localDof int, spring *float64, dpn int) {
	if spring == nil {
		return
	}
	gi := res.Nodes.DOF(nodeId, localDof, dpn)
	if gi < 0 {
		return
	}
	res.K[gi][gi] += *spring
}

// stabilizeRotationOnly adds a small rotational stiffness (1e-6 * the
// system's largest diagonal entry) on the θ DOF of every active node not
// referenced by a beam, so plate-only nodes in a mixed analysis do not leave
// a structurally zero row/column in K (spec §4.D).
func stabilizeRotationOnly(res *Result, beamNodes map[int]bool) {
	maxDiag := 0.0
	for i := 0; i < res.K.Rows(); i++ {
		maxDiag = math.Max(maxDiag, math.Abs(res.K[i][i]))
	}
	stab := 1e-6 * maxDiag
	if stab == 0 {
		return
	}
	for _, id := range res.Nodes.Order {
		if beamNodes[id] {
			continue
		}
		gi := res.Nodes.DOF(id, 2, res.DOFsPerNode)
		if gi >= 0 {
			res.K[gi][gi] += stab
		}
	}
}

// assembleConstraints collects the restrained global DOF indices, honouring
// the spring-disables-constraint rule: a DOF with a spring assigned is
// treated as elastically supported, not rigidly restrained, even if its
// constraint flag is also set (spec §4.D, §7).
func assembleConstraints(m *model.Model, res *Result, at AnalysisType, beamNodes map[int]bool) {
	dpn := res.DOFsPerNode
	for _, id := range res.Nodes.Order {
		n, err := m.Node(id)
		if err != nil {
			continue
		}
		c := n.Constraints
		switch at {
		case Frame, Mixed:
			addConstraint(res, id, 0, c.X, c.SpringX, dpn)
			addConstraint(res, id, 1, c.Y, c.SpringY, dpn)
			addConstraint(res, id, 2, c.Rotation, c.SpringRot, dpn)
		case PlaneStress, PlaneStrain:
			addConstraint(res, id, 0, c.X, c.SpringX, dpn)
			addConstraint(res, id, 1, c.Y, c.SpringY, dpn)
		case PlateBending:
			addConstraint(res, id, 0, c.Y, c.SpringY, dpn)
			addConstraint(res, id, 1, c.Rotation, c.SpringRot, dpn)
			addConstraint(res, id, 2, c.Rotation, c.SpringRot, dpn)
		}
	}
}

func addConstraint(res *Result, nodeId, localDof int, flag bool, spring *float64, dpn int) {
	if !flag || spring != nil {
		return
	}
	gi := res.Nodes.DOF(nodeId, localDof, dpn)
	if gi >= 0 {
		res.Constrained = append(res.Constrained, gi)
	}
}

func scatter(K linalg.Matrix, F []float64, dofMap []int, klocal linalg.Matrix, flocal []float64) {
	for i, gi := range dofMap {
		if gi < 0 {
			continue
		}
		F[gi] += flocal[i]
		for j, gj := range dofMap {
			if gj < 0 {
				continue
			}
			K[gi][gj] += klocal[i][j]
		}
	}
}
