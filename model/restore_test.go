// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_fixSequencesAfterRestore(tst *testing.T) {
	m := NewModel()
	m.RestoreNode(&Node{Id: 5, X: 0, Y: 0})
	m.RestoreNode(&Node{Id: 7, X: 1, Y: 0})
	m.RestoreNode(&Node{Id: PlateNodeBase + 3, X: 2, Y: 2})
	m.RestoreBeam(&BeamElement{Id: 12, NodeIds: [2]int{5, 7}, MaterialId: 1, Section: rectSection()})
	m.RestoreLoadCase(&LoadCase{Id: 4, Name: "dead"})
	m.RestoreLoadCombination(&LoadCombination{Id: 2, Name: "1.0D", Factors: map[int]float64{4: 1.0}})

	m.FixSequences()

	n := m.AddNode(9, 9, false)
	assert.Equal(tst, 8, n.Id)

	pn := m.AddNode(0, 0, true)
	assert.Equal(tst, PlateNodeBase+4, pn.Id)

	b, err := m.AddBeam(5, 7, 1, rectSection())
	assert.NoError(tst, err)
	assert.Equal(tst, 13, b.Id)

	lc := m.AddLoadCase(&LoadCase{Name: "live"})
	assert.Equal(tst, 5, lc.Id)

	combo, err := m.AddCombination(&LoadCombination{Name: "1.0D+1.0L", Factors: map[int]float64{4: 1.0, 5: 1.0}})
	assert.NoError(tst, err)
	assert.Equal(tst, 3, combo.Id)
}

// Test_fixSequencesMaterialFallback checks that restoring only the seeded
// default materials resets nextMaterialId to FirstUserMaterialId, not to
// one past the seeded ids.
func Test_fixSequencesMaterialFallback(tst *testing.T) {
	m := NewModel()
	m.FixSequences()
	mat, err := m.AddMaterial(200e9, 0.3, 7800, 1.2e-5)
	assert.NoError(tst, err)
	assert.Equal(tst, FirstUserMaterialId, mat.Id)
}

func Test_fixSequencesMaterialAfterUserMaterial(tst *testing.T) {
	m := NewModel()
	m.RestoreMaterial(&Material{Id: FirstUserMaterialId, E: 1, Nu: 0.2})
	m.RestoreMaterial(&Material{Id: FirstUserMaterialId + 3, E: 1, Nu: 0.2})
	m.FixSequences()
	mat, err := m.AddMaterial(1, 0.2, 1, 0)
	assert.NoError(tst, err)
	assert.Equal(tst, FirstUserMaterialId+4, mat.Id)
}
