// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assemble

import (
	"math"
	"testing"

	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/model"
	"github.com/stretchr/testify/assert"
)

func rectSection() model.BeamSection {
	return model.BeamSection{A: 5.38e-3, I: 8.36e-5, H: 0.2}
}

func threeBeamFrame() *model.Model {
	m := model.NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(0, 3, false)
	n3 := m.AddNode(4, 3, false)
	n4 := m.AddNode(4, 0, false)
	n1.Constraints = model.NodeConstraints{X: true, Y: true, Rotation: true}
	n4.Constraints = model.NodeConstraints{X: true, Y: true, Rotation: true}
	n2.Loads.Fx = 10000
	m.AddBeam(n1.Id, n2.Id, 1, rectSection())
	m.AddBeam(n2.Id, n3.Id, 1, rectSection())
	m.AddBeam(n3.Id, n4.Id, 1, rectSection())
	return m
}

// Test_globalStiffnessSymmetric checks spec §8 property 9: the assembled
// stiffness matrix is symmetric to within 1e-9 * max|K|.
func Test_globalStiffnessSymmetric(tst *testing.T) {
	m := threeBeamFrame()
	res := Assemble(m, Frame)
	n := res.K.Rows()

	maxAbs := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			maxAbs = math.Max(maxAbs, math.Abs(res.K[i][j]))
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.LessOrEqual(tst, math.Abs(res.K[i][j]-res.K[j][i]), 1e-9*maxAbs)
		}
	}
}

func Test_activeNodePruning(tst *testing.T) {
	m := model.NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(4, 0, false)
	m.AddNode(99, 99, false) // unreferenced, must be pruned
	m.AddBeam(n1.Id, n2.Id, 1, rectSection())

	res := Assemble(m, Frame)
	assert.Equal(tst, 2, res.Nodes.N())
	_, ok := res.Nodes.Index(n1.Id)
	assert.True(tst, ok)
}

func Test_springDisablesRigidConstraint(tst *testing.T) {
	m := model.NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(4, 0, false)
	spring := 1.0e6
	n1.Constraints = model.NodeConstraints{X: true, Y: true, Rotation: true, SpringY: &spring}
	n2.Constraints = model.NodeConstraints{X: true, Y: true, Rotation: true}
	m.AddBeam(n1.Id, n2.Id, 1, rectSection())

	res := Assemble(m, Frame)
	gi := res.Nodes.DOF(n1.Id, 1, res.DOFsPerNode)
	for _, c := range res.Constrained {
		assert.NotEqual(tst, gi, c, "a DOF with a spring must not also appear as rigidly constrained")
	}
	assert.Greater(tst, res.K[gi][gi], 0.0)
}

func Test_assembleSkipsInvalidBeamWithWarning(tst *testing.T) {
	m := model.NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(4, 0, false)
	b, err := m.AddBeam(n1.Id, n2.Id, 1, rectSection())
	assert.NoError(tst, err)
	b.MaterialId = 777 // now invalid post-construction

	res := Assemble(m, Frame)
	assert.NotEmpty(tst, res.Warnings)
	assert.Len(tst, res.Beams, 0)
}

func Test_dofsPerNode(tst *testing.T) {
	assert.Equal(tst, 3, DOFsPerNode(Frame))
	assert.Equal(tst, 2, DOFsPerNode(PlaneStress))
	assert.Equal(tst, 2, DOFsPerNode(PlaneStrain))
	assert.Equal(tst, 3, DOFsPerNode(PlateBending))
	assert.Equal(tst, 3, DOFsPerNode(Mixed))
}

func unitRightTriangleModel() (*model.Model, *model.Node, *model.Node, *model.Node) {
	m := model.NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(1, 0, false)
	n3 := m.AddNode(0, 1, false)
	n1.Constraints = model.NodeConstraints{X: true, Y: true}
	n2.Constraints = model.NodeConstraints{Y: true}
	return m, n1, n2, n3
}

// Test_assembleTrianglesPlaneStress checks that a single CST triangle is
// assembled with 2 DOFs/node and that its record is kept for post-solve
// stress recovery.
func Test_assembleTrianglesPlaneStress(tst *testing.T) {
	m, _, _, _ := unitRightTriangleModel()
	tri, err := m.AddTriangle([3]int{1, 2, 3}, 1, 0.01)
	assert.NoError(tst, err)

	res := Assemble(m, PlaneStress)
	assert.Equal(tst, 2, res.DOFsPerNode)
	assert.Equal(tst, 6, res.K.Rows())
	assert.Contains(tst, res.Tris, tri.Id)
	assert.InDelta(tst, 0.5, res.Tris[tri.Id].Area, 1e-12)
}

// Test_assembleQuadsPlaneStrain checks that a single Q4 quad is assembled
// with 2 DOFs/node under plane-strain and that its record survives.
func Test_assembleQuadsPlaneStrain(tst *testing.T) {
	m := model.NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(1, 0, false)
	n3 := m.AddNode(1, 1, false)
	n4 := m.AddNode(0, 1, false)
	n1.Constraints = model.NodeConstraints{X: true, Y: true}
	n2.Constraints = model.NodeConstraints{Y: true}
	quad, err := m.AddQuad([4]int{n1.Id, n2.Id, n3.Id, n4.Id}, 1, 0.01)
	assert.NoError(tst, err)

	res := Assemble(m, PlaneStrain)
	assert.Equal(tst, 2, res.DOFsPerNode)
	assert.Equal(tst, 8, res.K.Rows())
	assert.Contains(tst, res.Quads, quad.Id)
}

// Test_assembleDKTPlateBending checks that a triangle tagged "dkt" by its
// owning PlateRegion is routed to assembleDKT rather than the CST plane
// path, giving 3 DOFs/node (w, θx, θy) and a DKTRecord.
func Test_assembleDKTPlateBending(tst *testing.T) {
	m, _, _, _ := unitRightTriangleModel()
	tri, err := m.AddTriangle([3]int{1, 2, 3}, 1, 0.01)
	assert.NoError(tst, err)
	_, err = m.AddPlateRegion(&model.PlateRegion{
		BBoxX1: 1, BBoxY1: 1,
		DivisionsX: 1, DivisionsY: 1,
		MaterialId:  1,
		Thickness:   0.2,
		ElementType: "dkt",
		NodeIds:     []int{1, 2, 3},
		ElementIds:  []int{tri.Id},
	})
	assert.NoError(tst, err)

	res := Assemble(m, PlateBending)
	assert.Equal(tst, 3, res.DOFsPerNode)
	assert.Equal(tst, 9, res.K.Rows())
	assert.Contains(tst, res.DKTs, tri.Id)
	assert.Empty(tst, res.Tris, "a dkt-tagged triangle must not also be assembled as a CST")
}

// Test_assembleMixedStabilizesPlateOnlyRotation checks the Mixed analysis
// path: a beam and a plane triangle sharing nodes 1 and 2 land in one 3
// DOF/node system, and stabilizeRotationOnly gives the triangle-only nodes
// (not touched by any beam) a small but non-zero θ stiffness so they don't
// leave a structurally singular row/column.
func Test_assembleMixedStabilizesPlateOnlyRotation(tst *testing.T) {
	m := model.NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(1, 0, false)
	n3 := m.AddNode(0, 1, false)
	n1.Constraints = model.NodeConstraints{X: true, Y: true, Rotation: true}
	_, err := m.AddBeam(n1.Id, n2.Id, 1, rectSection())
	assert.NoError(tst, err)
	_, err = m.AddTriangle([3]int{n1.Id, n2.Id, n3.Id}, 1, 0.01)
	assert.NoError(tst, err)

	res := Assemble(m, Mixed)
	assert.Equal(tst, 3, res.DOFsPerNode)

	rotN3 := res.Nodes.DOF(n3.Id, 2, res.DOFsPerNode)
	assert.Greater(tst, rotN3, -1)
	assert.Greater(tst, res.K[rotN3][rotN3], 0.0, "plate-only node's rotation DOF must be stabilized, not left at zero")

	rotN1 := res.Nodes.DOF(n1.Id, 2, res.DOFsPerNode)
	assert.Contains(tst, res.Constrained, rotN1)
}
