// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/lvlath/graph/core"
)

// Model owns every entity by id (spec §3 Ownership & lifecycle, §9 "identity
// via arena + ids"). Foreign references between entities are ids, never
// pointers; cross-entity reachability (for cascading deletion and the
// orphan-sweep) is mirrored into an lvlath reference graph so that walk is a
// graph traversal rather than a hand-rolled reverse index, grounded on the
// katalvlaran/lvlath pack member's core.Graph.
type Model struct {
	nodes     map[int]*Node
	materials map[int]*Material
	beams     map[int]*BeamElement
	triangles map[int]*TriangleElement
	quads     map[int]*QuadElement
	plates    map[int]*PlateRegion
	subNodes  map[int]*SubNode
	loadCases map[int]*LoadCase
	combos    map[int]*LoadCombination

	nextNodeId      int
	nextPlateNodeId int
	nextMaterialId  int
	nextBeamId      int
	nextTriId       int
	nextQuadId      int
	nextPlateId     int
	nextSubNodeId   int
	nextLoadCaseId  int
	nextComboId     int

	refs *core.Graph // reference graph: node/beam/triangle/quad/plate vertices
}

// vertex key prefixes for the reference graph
const (
	vkNode  = "n"
	vkBeam  = "b"
	vkTri   = "t"
	vkQuad  = "q"
	vkPlate = "p"
)

func vkey(prefix string, id int) string { return fmt.Sprintf("%s%d", prefix, id) }

// NewModel returns an empty Model with the default material set seeded
// (spec §3: "Default materials seeded at load; ids start at 10 for user
// materials").
func NewModel() *Model {
	m := &Model{
		nodes:           make(map[int]*Node),
		materials:       make(map[int]*Material),
		beams:           make(map[int]*BeamElement),
		triangles:       make(map[int]*TriangleElement),
		quads:           make(map[int]*QuadElement),
		plates:          make(map[int]*PlateRegion),
		subNodes:        make(map[int]*SubNode),
		loadCases:       make(map[int]*LoadCase),
		combos:          make(map[int]*LoadCombination),
		nextNodeId:      1,
		nextPlateNodeId: PlateNodeBase,
		nextMaterialId:  FirstUserMaterialId,
		nextBeamId:      1,
		nextTriId:       1,
		nextQuadId:      1,
		nextPlateId:     1,
		nextSubNodeId:   1,
		nextLoadCaseId:  1,
		nextComboId:     1,
		refs:            core.NewGraph(false, false),
	}
	m.materials[1] = &Material{Id: 1, E: 210e9, Nu: 0.3, Rho: 7850} // structural steel S235-ish
	m.materials[2] = &Material{Id: 2, E: 33e9, Nu: 0.2, Rho: 2500, Alpha: 1.0e-5} // C30/37 concrete
	return m
}

// ---- nodes ----

// AddNode creates a new node at (x,y). isPlateNode selects the plate-node id
// sequence (ids >= PlateNodeBase) used by PlateRegion meshing.
func (m *Model) AddNode(x, y float64, isPlateNode bool) *Node {
	var id int
	if isPlateNode {
		id = m.nextPlateNodeId
		m.nextPlateNodeId++
	} else {
		id = m.nextNodeId
		m.nextNodeId++
	}
	n := &Node{Id: id, X: x, Y: y}
	m.nodes[id] = n
	m.refs.AddVertex(&core.Vertex{ID: vkey(vkNode, id)})
	return n
}

// Node retrieves a node by id.
func (m *Model) Node(id int) (*Node, error) {
	n, ok := m.nodes[id]
	if !ok {
		return nil, ReferenceErrorf("node %d not found", id)
	}
	return n, nil
}

// Nodes returns all nodes ordered by id.
func (m *Model) Nodes() []*Node {
	out := make([]*Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// FindNodeAt returns the first node within Euclidean distance tol of (x,y),
// in id order (spec §4.B).
func (m *Model) FindNodeAt(x, y, tol float64) *Node {
	for _, n := range m.Nodes() {
		if math.Hypot(n.X-x, n.Y-y) <= tol {
			return n
		}
	}
	return nil
}

// DeleteNode removes a node and cascades: any beam, 2D element or plate
// region referencing it is deleted, and any sub-node whose NodeId or
// original endpoints equal id is deleted too (spec §3).
func (m *Model) DeleteNode(id int) error {
	if _, ok := m.nodes[id]; !ok {
		return ReferenceErrorf("node %d not found", id)
	}
	for _, b := range m.beamsReferencing(id) {
		m.removeBeamOnly(b.Id)
	}
	for _, t := range m.trianglesReferencing(id) {
		m.removeTriangleOnly(t.Id)
	}
	for _, q := range m.quadsReferencing(id) {
		m.removeQuadOnly(q.Id)
	}
	for _, p := range m.platesReferencing(id) {
		m.DeletePlateRegion(p.Id)
	}
	for sid, sn := range m.subNodes {
		if sn.NodeId == id || sn.OriginalBeamStart == id || sn.OriginalBeamEnd == id {
			delete(m.subNodes, sid)
		}
	}
	delete(m.nodes, id)
	m.refs.RemoveVertex(vkey(vkNode, id))
	return nil
}

func (m *Model) beamsReferencing(nodeId int) []*BeamElement {
	var out []*BeamElement
	for _, b := range m.beams {
		if b.NodeIds[0] == nodeId || b.NodeIds[1] == nodeId {
			out = append(out, b)
		}
	}
	return out
}

func (m *Model) trianglesReferencing(nodeId int) []*TriangleElement {
	var out []*TriangleElement
	for _, t := range m.triangles {
		for _, id := range t.NodeIds {
			if id == nodeId {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

func (m *Model) quadsReferencing(nodeId int) []*QuadElement {
	var out []*QuadElement
	for _, q := range m.quads {
		for _, id := range q.NodeIds {
			if id == nodeId {
				out = append(out, q)
				break
			}
		}
	}
	return out
}

func (m *Model) platesReferencing(nodeId int) []*PlateRegion {
	var out []*PlateRegion
	for _, p := range m.plates {
		for _, id := range p.NodeIds {
			if id == nodeId {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// ---- materials ----

// AddMaterial creates a user material (id >= FirstUserMaterialId).
func (m *Model) AddMaterial(e, nu, rho, alpha float64) (*Material, error) {
	if e <= 0 {
		return nil, ValidationErrorf("material E must be > 0, got %g", e)
	}
	if nu <= -1 || nu >= 0.5 {
		return nil, ValidationErrorf("material Nu must be in (-1, 0.5), got %g", nu)
	}
	id := m.nextMaterialId
	m.nextMaterialId++
	mat := &Material{Id: id, E: e, Nu: nu, Rho: rho, Alpha: alpha}
	m.materials[id] = mat
	return mat, nil
}

// Material retrieves a material by id.
func (m *Model) Material(id int) (*Material, error) {
	mat, ok := m.materials[id]
	if !ok {
		return nil, ReferenceErrorf("material %d not found", id)
	}
	return mat, nil
}

// ---- beams ----

// AddBeam creates a beam element between two distinct nodes, validating the
// invariants in spec §3 (distinct endpoints, minimum length).
func (m *Model) AddBeam(n1, n2 int, materialId int, sec BeamSection) (*BeamElement, error) {
	if n1 == n2 {
		return nil, ValidationErrorf("beam endpoints must be distinct")
	}
	a, err := m.Node(n1)
	if err != nil {
		return nil, err
	}
	b, err := m.Node(n2)
	if err != nil {
		return nil, err
	}
	if math.Hypot(b.X-a.X, b.Y-a.Y) <= 1e-10 {
		return nil, ValidationErrorf("beam length must exceed 1e-10")
	}
	if _, err := m.Material(materialId); err != nil {
		return nil, err
	}
	if !sec.Valid() {
		return nil, ValidationErrorf("beam section requires A>0, I>0, h>0")
	}
	id := m.nextBeamId
	m.nextBeamId++
	el := &BeamElement{Id: id, NodeIds: [2]int{n1, n2}, MaterialId: materialId, Section: sec, ProfileName: sec.ProfileName}
	m.beams[id] = el
	m.refs.AddVertex(&core.Vertex{ID: vkey(vkBeam, id)})
	m.refs.AddEdge(vkey(vkBeam, id), vkey(vkNode, n1), 0)
	m.refs.AddEdge(vkey(vkBeam, id), vkey(vkNode, n2), 0)
	return el, nil
}

// Beam retrieves a beam by id.
func (m *Model) Beam(id int) (*BeamElement, error) {
	b, ok := m.beams[id]
	if !ok {
		return nil, ReferenceErrorf("beam %d not found", id)
	}
	return b, nil
}

// Beams returns all beams ordered by id.
func (m *Model) Beams() []*BeamElement {
	out := make([]*BeamElement, 0, len(m.beams))
	for _, b := range m.beams {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// DeleteBeam removes a beam element (never its nodes) then runs the
// orphan-sweep (spec §3).
func (m *Model) DeleteBeam(id int) error {
	if _, ok := m.beams[id]; !ok {
		return ReferenceErrorf("beam %d not found", id)
	}
	m.removeBeamOnly(id)
	m.orphanSweep()
	return nil
}

func (m *Model) removeBeamOnly(id int) {
	delete(m.beams, id)
	m.refs.RemoveVertex(vkey(vkBeam, id))
}

// ---- triangles ----

func nonCollinear(ax, ay, bx, by, cx, cy float64) bool {
	area2 := (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
	return math.Abs(area2) > 1e-12
}

// AddTriangle creates a CST element; vertices must be non-collinear.
func (m *Model) AddTriangle(nodeIds [3]int, materialId int, thickness float64) (*TriangleElement, error) {
	if thickness <= 0 {
		return nil, ValidationErrorf("thickness must be > 0")
	}
	pts := make([][2]float64, 3)
	for i, id := range nodeIds {
		n, err := m.Node(id)
		if err != nil {
			return nil, err
		}
		pts[i] = [2]float64{n.X, n.Y}
	}
	if !nonCollinear(pts[0][0], pts[0][1], pts[1][0], pts[1][1], pts[2][0], pts[2][1]) {
		return nil, ValidationErrorf("triangle vertices are collinear")
	}
	if _, err := m.Material(materialId); err != nil {
		return nil, err
	}
	id := m.nextTriId
	m.nextTriId++
	el := &TriangleElement{Id: id, NodeIds: nodeIds, MaterialId: materialId, Thickness: thickness}
	m.triangles[id] = el
	m.refs.AddVertex(&core.Vertex{ID: vkey(vkTri, id)})
	for _, nid := range nodeIds {
		m.refs.AddEdge(vkey(vkTri, id), vkey(vkNode, nid), 0)
	}
	return el, nil
}

// Triangle retrieves a triangle by id.
func (m *Model) Triangle(id int) (*TriangleElement, error) {
	t, ok := m.triangles[id]
	if !ok {
		return nil, ReferenceErrorf("triangle %d not found", id)
	}
	return t, nil
}

// Triangles returns all triangles ordered by id.
func (m *Model) Triangles() []*TriangleElement {
	out := make([]*TriangleElement, 0, len(m.triangles))
	for _, t := range m.triangles {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// DeleteTriangle removes a triangle element then runs the orphan-sweep.
func (m *Model) DeleteTriangle(id int) error {
	if _, ok := m.triangles[id]; !ok {
		return ReferenceErrorf("triangle %d not found", id)
	}
	m.removeTriangleOnly(id)
	m.orphanSweep()
	return nil
}

func (m *Model) removeTriangleOnly(id int) {
	delete(m.triangles, id)
	m.refs.RemoveVertex(vkey(vkTri, id))
}

// ---- quads ----

func isConvexCCW(pts [][2]float64) bool {
	n := len(pts)
	signSum := 0.0
	for i := 0; i < n; i++ {
		a, b, c := pts[i], pts[(i+1)%n], pts[(i+2)%n]
		cross := (b[0]-a[0])*(c[1]-b[1]) - (b[1]-a[1])*(c[0]-b[0])
		if cross < -1e-12 {
			return false
		}
		signSum += cross
	}
	return signSum > 0
}

// AddQuad creates a Q4 element; NodeIds must describe a convex,
// anti-clockwise polygon (spec §3).
func (m *Model) AddQuad(nodeIds [4]int, materialId int, thickness float64) (*QuadElement, error) {
	if thickness <= 0 {
		return nil, ValidationErrorf("thickness must be > 0")
	}
	pts := make([][2]float64, 4)
	for i, id := range nodeIds {
		n, err := m.Node(id)
		if err != nil {
			return nil, err
		}
		pts[i] = [2]float64{n.X, n.Y}
	}
	if !isConvexCCW(pts) {
		return nil, ValidationErrorf("quad must be convex and anti-clockwise")
	}
	if _, err := m.Material(materialId); err != nil {
		return nil, err
	}
	id := m.nextQuadId
	m.nextQuadId++
	el := &QuadElement{Id: id, NodeIds: nodeIds, MaterialId: materialId, Thickness: thickness}
	m.quads[id] = el
	m.refs.AddVertex(&core.Vertex{ID: vkey(vkQuad, id)})
	for _, nid := range nodeIds {
		m.refs.AddEdge(vkey(vkQuad, id), vkey(vkNode, nid), 0)
	}
	return el, nil
}

// Quad retrieves a quad by id.
func (m *Model) Quad(id int) (*QuadElement, error) {
	q, ok := m.quads[id]
	if !ok {
		return nil, ReferenceErrorf("quad %d not found", id)
	}
	return q, nil
}

// Quads returns all quads ordered by id.
func (m *Model) Quads() []*QuadElement {
	out := make([]*QuadElement, 0, len(m.quads))
	for _, q := range m.quads {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// DeleteQuad removes a quad element then runs the orphan-sweep.
func (m *Model) DeleteQuad(id int) error {
	if _, ok := m.quads[id]; !ok {
		return ReferenceErrorf("quad %d not found", id)
	}
	m.removeQuadOnly(id)
	m.orphanSweep()
	return nil
}

func (m *Model) removeQuadOnly(id int) {
	delete(m.quads, id)
	m.refs.RemoveVertex(vkey(vkQuad, id))
}

// orphanSweep removes any node not referenced by any element or plate
// region (spec §3: runs after each element deletion).
func (m *Model) orphanSweep() {
	for id := range m.nodes {
		key := vkey(vkNode, id)
		if len(m.refs.Neighbors(key)) == 0 {
			delete(m.nodes, id)
			m.refs.RemoveVertex(key)
		}
	}
}

// Clone returns a deep copy of the model, safe to mutate (e.g. via
// loadcase.ApplyToMesh) without affecting the original (spec §5: "a solve is
// a pure function of a snapshot of that Model"). The reference graph is
// rebuilt from the copied entities rather than copied vertex-by-vertex,
// since it is fully derivable from them.
func (m *Model) Clone() *Model {
	c := &Model{
		nodes:           make(map[int]*Node, len(m.nodes)),
		materials:       make(map[int]*Material, len(m.materials)),
		beams:           make(map[int]*BeamElement, len(m.beams)),
		triangles:       make(map[int]*TriangleElement, len(m.triangles)),
		quads:           make(map[int]*QuadElement, len(m.quads)),
		plates:          make(map[int]*PlateRegion, len(m.plates)),
		subNodes:        make(map[int]*SubNode, len(m.subNodes)),
		loadCases:       make(map[int]*LoadCase, len(m.loadCases)),
		combos:          make(map[int]*LoadCombination, len(m.combos)),
		nextNodeId:      m.nextNodeId,
		nextPlateNodeId: m.nextPlateNodeId,
		nextMaterialId:  m.nextMaterialId,
		nextBeamId:      m.nextBeamId,
		nextTriId:       m.nextTriId,
		nextQuadId:      m.nextQuadId,
		nextPlateId:     m.nextPlateId,
		nextSubNodeId:   m.nextSubNodeId,
		nextLoadCaseId:  m.nextLoadCaseId,
		nextComboId:     m.nextComboId,
		refs:            core.NewGraph(false, false),
	}
	for id, n := range m.nodes {
		cp := *n
		c.nodes[id] = &cp
		c.refs.AddVertex(&core.Vertex{ID: vkey(vkNode, id)})
	}
	for id, mat := range m.materials {
		cp := *mat
		c.materials[id] = &cp
	}
	for id, b := range m.beams {
		cp := *b
		if b.DistributedLoad != nil {
			dl := *b.DistributedLoad
			cp.DistributedLoad = &dl
		}
		if b.EndReleases != nil {
			er := *b.EndReleases
			cp.EndReleases = &er
		}
		if b.ThermalLoad != nil {
			tl := *b.ThermalLoad
			cp.ThermalLoad = &tl
		}
		cp.PointLoads = append([]PointLoadOnBeam(nil), b.PointLoads...)
		c.beams[id] = &cp
		c.refs.AddVertex(&core.Vertex{ID: vkey(vkBeam, id)})
		c.refs.AddEdge(vkey(vkBeam, id), vkey(vkNode, b.NodeIds[0]), 0)
		c.refs.AddEdge(vkey(vkBeam, id), vkey(vkNode, b.NodeIds[1]), 0)
	}
	for id, t := range m.triangles {
		cp := *t
		c.triangles[id] = &cp
		c.refs.AddVertex(&core.Vertex{ID: vkey(vkTri, id)})
		for _, nid := range t.NodeIds {
			c.refs.AddEdge(vkey(vkTri, id), vkey(vkNode, nid), 0)
		}
	}
	for id, q := range m.quads {
		cp := *q
		c.quads[id] = &cp
		c.refs.AddVertex(&core.Vertex{ID: vkey(vkQuad, id)})
		for _, nid := range q.NodeIds {
			c.refs.AddEdge(vkey(vkQuad, id), vkey(vkNode, nid), 0)
		}
	}
	for id, p := range m.plates {
		cp := *p
		cp.NodeIds = append([]int(nil), p.NodeIds...)
		cp.ElementIds = append([]int(nil), p.ElementIds...)
		c.plates[id] = &cp
		c.refs.AddVertex(&core.Vertex{ID: vkey(vkPlate, id)})
		for _, nid := range p.NodeIds {
			c.refs.AddEdge(vkey(vkPlate, id), vkey(vkNode, nid), 0)
		}
	}
	for id, s := range m.subNodes {
		cp := *s
		c.subNodes[id] = &cp
	}
	for id, lc := range m.loadCases {
		cp := *lc
		cp.PointLoads = append([]NodePointLoadEntry(nil), lc.PointLoads...)
		cp.DistributedLoads = append([]BeamDistributedLoadEntry(nil), lc.DistributedLoads...)
		cp.ThermalLoads = append([]BeamThermalLoadEntry(nil), lc.ThermalLoads...)
		c.loadCases[id] = &cp
	}
	for id, combo := range m.combos {
		cp := *combo
		cp.Factors = make(map[int]float64, len(combo.Factors))
		for k, v := range combo.Factors {
			cp.Factors[k] = v
		}
		c.combos[id] = &cp
	}
	return c
}

// ---- plate regions ----

// AddPlateRegion registers meshing metadata for a plate region whose
// elements/nodes have already been generated by the caller's mesher.
func (m *Model) AddPlateRegion(pr *PlateRegion) (*PlateRegion, error) {
	for _, id := range pr.NodeIds {
		if _, ok := m.nodes[id]; !ok {
			return nil, ReferenceErrorf("plate region references missing node %d", id)
		}
	}
	for _, id := range pr.ElementIds {
		switch pr.ElementType {
		case "quad":
			if _, ok := m.quads[id]; !ok {
				return nil, ReferenceErrorf("plate region references missing quad %d", id)
			}
		default:
			if _, ok := m.triangles[id]; !ok {
				return nil, ReferenceErrorf("plate region references missing triangle %d", id)
			}
		}
	}
	pr.Id = m.nextPlateId
	m.nextPlateId++
	m.plates[pr.Id] = pr
	m.refs.AddVertex(&core.Vertex{ID: vkey(vkPlate, pr.Id)})
	for _, id := range pr.NodeIds {
		m.refs.AddEdge(vkey(vkPlate, pr.Id), vkey(vkNode, id), 0)
	}
	return pr, nil
}

// PlateRegionByID retrieves a plate region by id.
func (m *Model) PlateRegionByID(id int) (*PlateRegion, error) {
	p, ok := m.plates[id]
	if !ok {
		return nil, ReferenceErrorf("plate region %d not found", id)
	}
	return p, nil
}

// DeletePlateRegion removes all of a plate region's generated elements and
// any of its generated nodes not used elsewhere (spec §3).
func (m *Model) DeletePlateRegion(id int) error {
	pr, ok := m.plates[id]
	if !ok {
		return ReferenceErrorf("plate region %d not found", id)
	}
	for _, eid := range pr.ElementIds {
		if pr.ElementType == "quad" {
			if _, ok := m.quads[eid]; ok {
				m.removeQuadOnly(eid)
			}
		} else {
			if _, ok := m.triangles[eid]; ok {
				m.removeTriangleOnly(eid)
			}
		}
	}
	delete(m.plates, id)
	m.refs.RemoveVertex(vkey(vkPlate, id))
	m.orphanSweep()
	return nil
}
