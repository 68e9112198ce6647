// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "github.com/katalvlaran/lvlath/graph/core"

// RestoreNode inserts a node with an explicit id, bypassing the allocation
// sequence. Used by the project-file loader (spec §6), which must accept ids
// exactly as serialised and then fix the sequence counters afterwards.
func (m *Model) RestoreNode(n *Node) {
	m.nodes[n.Id] = n
	m.refs.AddVertex(&core.Vertex{ID: vkey(vkNode, n.Id)})
}

// RestoreMaterial inserts a material with an explicit id.
func (m *Model) RestoreMaterial(mat *Material) {
	m.materials[mat.Id] = mat
}

// RestoreBeam inserts a beam element with an explicit id, wiring it into the
// reference graph. Endpoints must already have been restored.
func (m *Model) RestoreBeam(b *BeamElement) {
	m.beams[b.Id] = b
	m.refs.AddVertex(&core.Vertex{ID: vkey(vkBeam, b.Id)})
	m.refs.AddEdge(vkey(vkBeam, b.Id), vkey(vkNode, b.NodeIds[0]), 0)
	m.refs.AddEdge(vkey(vkBeam, b.Id), vkey(vkNode, b.NodeIds[1]), 0)
}

// RestoreTriangle inserts a triangle element with an explicit id.
func (m *Model) RestoreTriangle(t *TriangleElement) {
	m.triangles[t.Id] = t
	m.refs.AddVertex(&core.Vertex{ID: vkey(vkTri, t.Id)})
	for _, nid := range t.NodeIds {
		m.refs.AddEdge(vkey(vkTri, t.Id), vkey(vkNode, nid), 0)
	}
}

// RestoreQuad inserts a quad element with an explicit id.
func (m *Model) RestoreQuad(q *QuadElement) {
	m.quads[q.Id] = q
	m.refs.AddVertex(&core.Vertex{ID: vkey(vkQuad, q.Id)})
	for _, nid := range q.NodeIds {
		m.refs.AddEdge(vkey(vkQuad, q.Id), vkey(vkNode, nid), 0)
	}
}

// RestorePlateRegion inserts a plate region with an explicit id.
func (m *Model) RestorePlateRegion(pr *PlateRegion) {
	m.plates[pr.Id] = pr
	m.refs.AddVertex(&core.Vertex{ID: vkey(vkPlate, pr.Id)})
	for _, nid := range pr.NodeIds {
		m.refs.AddEdge(vkey(vkPlate, pr.Id), vkey(vkNode, nid), 0)
	}
}

// RestoreSubNode inserts a sub-node record with an explicit id.
func (m *Model) RestoreSubNode(s *SubNode) {
	m.subNodes[s.Id] = s
}

// RestoreLoadCase inserts a load case with an explicit id.
func (m *Model) RestoreLoadCase(lc *LoadCase) {
	m.loadCases[lc.Id] = lc
}

// RestoreLoadCombination inserts a load combination with an explicit id.
func (m *Model) RestoreLoadCombination(c *LoadCombination) {
	m.combos[c.Id] = c
}

// FixSequences resets every id-allocation sequence to max(existing id)+1 for
// its entity kind, and the plate-node sequence to max(node id >= PlateNodeBase)+1
// falling back to PlateNodeBase (spec §6: "restore id sequences ... after
// deserialisation"). Call once after every Restore* call has run.
func (m *Model) FixSequences() {
	m.nextNodeId = maxIdPlus1(keysBelow(m.nodes, PlateNodeBase), 1)
	m.nextPlateNodeId = maxIdPlus1(keysAtOrAbove(m.nodes, PlateNodeBase), PlateNodeBase)
	m.nextMaterialId = maxIdPlus1(userMaterialKeys(m.materials), FirstUserMaterialId)
	m.nextBeamId = maxIdPlus1(beamKeys(m.beams), 1)
	m.nextTriId = maxIdPlus1(triKeys(m.triangles), 1)
	m.nextQuadId = maxIdPlus1(quadKeys(m.quads), 1)
	m.nextPlateId = maxIdPlus1(plateKeys(m.plates), 1)
	m.nextSubNodeId = maxIdPlus1(subNodeKeys(m.subNodes), 1)
	m.nextLoadCaseId = maxIdPlus1(loadCaseKeys(m.loadCases), 1)
	m.nextComboId = maxIdPlus1(comboKeys(m.combos), 1)
}

func maxIdPlus1(ids []int, fallback int) int {
	max := -1
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	if max < 0 {
		return fallback
	}
	return max + 1
}

func keysBelow(m map[int]*Node, bound int) []int {
	var out []int
	for id := range m {
		if id < bound {
			out = append(out, id)
		}
	}
	return out
}

func keysAtOrAbove(m map[int]*Node, bound int) []int {
	var out []int
	for id := range m {
		if id >= bound {
			out = append(out, id)
		}
	}
	return out
}

// userMaterialKeys excludes the default materials seeded below
// FirstUserMaterialId, so a project with no user materials gets
// nextMaterialId back to FirstUserMaterialId rather than 3.
func userMaterialKeys(m map[int]*Material) []int {
	out := make([]int, 0, len(m))
	for id := range m {
		if id >= FirstUserMaterialId {
			out = append(out, id)
		}
	}
	return out
}

func beamKeys(m map[int]*BeamElement) []int {
	out := make([]int, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

func triKeys(m map[int]*TriangleElement) []int {
	out := make([]int, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

func quadKeys(m map[int]*QuadElement) []int {
	out := make([]int, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

func plateKeys(m map[int]*PlateRegion) []int {
	out := make([]int, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

func subNodeKeys(m map[int]*SubNode) []int {
	out := make([]int, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

func loadCaseKeys(m map[int]*LoadCase) []int {
	out := make([]int, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

func comboKeys(m map[int]*LoadCombination) []int {
	out := make([]int, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}
