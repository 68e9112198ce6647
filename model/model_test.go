// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rectSection() BeamSection {
	return BeamSection{A: 5.38e-3, I: 8.36e-5, H: 0.2}
}

func Test_newModelSeedsDefaultMaterials(tst *testing.T) {
	m := NewModel()
	assert.Len(tst, m.Materials(), 2)
	steel, err := m.Material(1)
	assert.NoError(tst, err)
	assert.InDelta(tst, 210e9, steel.E, 1)
}

func Test_addBeamRejectsCoincidentNodes(tst *testing.T) {
	m := NewModel()
	n1 := m.AddNode(0, 0, false)
	_, err := m.AddBeam(n1.Id, n1.Id, 1, rectSection())
	assert.Error(tst, err)
	assert.True(tst, IsKind(err, KindValidation))
}

func Test_addBeamRejectsZeroLength(tst *testing.T) {
	m := NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(1e-12, 0, false)
	_, err := m.AddBeam(n1.Id, n2.Id, 1, rectSection())
	assert.Error(tst, err)
}

func Test_addBeamRejectsMissingMaterial(tst *testing.T) {
	m := NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(1, 0, false)
	_, err := m.AddBeam(n1.Id, n2.Id, 999, rectSection())
	assert.Error(tst, err)
	assert.True(tst, IsKind(err, KindReference))
}

// Test_deleteNodeCascadesNoDanglingRefs checks spec §8 property 7 through
// the public API: after deleting a node, the node can no longer be looked
// up and no beam that referenced it survives.
func Test_deleteNodeCascadesNoDanglingRefs(tst *testing.T) {
	m := NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(4, 0, false)
	n3 := m.AddNode(4, 3, false)
	b1, err := m.AddBeam(n1.Id, n2.Id, 1, rectSection())
	assert.NoError(tst, err)
	_, err = m.AddBeam(n2.Id, n3.Id, 1, rectSection())
	assert.NoError(tst, err)

	assert.NoError(tst, m.DeleteNode(n2.Id))

	_, err = m.Node(n2.Id)
	assert.Error(tst, err)
	for _, b := range m.Beams() {
		assert.NotEqual(tst, n2.Id, b.NodeIds[0])
		assert.NotEqual(tst, n2.Id, b.NodeIds[1])
	}
	assert.Len(tst, m.Beams(), 0)
	_, err = m.Beam(b1.Id)
	assert.Error(tst, err)
}

// Test_deleteBeamOrphanSweep checks that deleting a beam removes any node
// left with no remaining references, but keeps nodes still used elsewhere.
func Test_deleteBeamOrphanSweep(tst *testing.T) {
	m := NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(4, 0, false)
	n3 := m.AddNode(8, 0, false)
	b1, _ := m.AddBeam(n1.Id, n2.Id, 1, rectSection())
	_, err := m.AddBeam(n2.Id, n3.Id, 1, rectSection())
	assert.NoError(tst, err)

	assert.NoError(tst, m.DeleteBeam(b1.Id))

	_, err = m.Node(n1.Id)
	assert.Error(tst, err, "n1 is only referenced by the deleted beam, should be swept")
	_, err = m.Node(n2.Id)
	assert.NoError(tst, err, "n2 is still used by the surviving beam")
}

// Test_subNodeRoundTrip checks spec §8 property 8:
// remove_sub_node(add_sub_node(b, t)) restores the original beam.
func Test_subNodeRoundTrip(tst *testing.T) {
	m := NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(6, 0, false)
	orig, err := m.AddBeam(n1.Id, n2.Id, 1, rectSection())
	assert.NoError(tst, err)
	origMaterial, origSection := orig.MaterialId, orig.Section

	sn, err := m.AddSubNode(orig.Id, 0.5)
	assert.NoError(tst, err)
	assert.Len(tst, m.Beams(), 2)

	restored, err := m.RemoveSubNode(sn.Id)
	assert.NoError(tst, err)
	assert.Len(tst, m.Beams(), 1)
	assert.Equal(tst, n1.Id, restored.NodeIds[0])
	assert.Equal(tst, n2.Id, restored.NodeIds[1])
	assert.Equal(tst, origMaterial, restored.MaterialId)
	assert.Equal(tst, origSection, restored.Section)
}

func Test_cloneIsIndependent(tst *testing.T) {
	m := NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(1, 0, false)
	_, err := m.AddBeam(n1.Id, n2.Id, 1, rectSection())
	assert.NoError(tst, err)

	c := m.Clone()
	assert.NoError(tst, c.DeleteBeam(1))
	assert.Len(tst, c.Beams(), 0)
	assert.Len(tst, m.Beams(), 1, "cloning must not share the original's storage")
}

func Test_addCombinationValidatesLoadCaseRefs(tst *testing.T) {
	m := NewModel()
	_, err := m.AddCombination(&LoadCombination{Name: "bad", Factors: map[int]float64{42: 1.0}})
	assert.Error(tst, err)
	assert.True(tst, IsKind(err, KindReference))

	lc := m.AddLoadCase(&LoadCase{Name: "dead", Type: LoadCaseDead})
	combo, err := m.AddCombination(&LoadCombination{Name: "1.0D", Factors: map[int]float64{lc.Id: 1.0}})
	assert.NoError(tst, err)
	assert.Equal(tst, 1, combo.Id)
}
