// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math"
	"testing"

	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/linalg"
	"github.com/stretchr/testify/assert"
)

func Test_planeDMatrixStressVsStrain(tst *testing.T) {
	E, nu := 200e9, 0.3
	stress := PlaneDMatrix(E, nu, PlaneStress)
	f := E / (1 - nu*nu)
	assert.InDelta(tst, f, stress[0][0], f*1e-9)
	assert.InDelta(tst, f*nu, stress[0][1], f*1e-9)
	assert.InDelta(tst, f*(1-nu)/2, stress[2][2], f*1e-9)

	strain := PlaneDMatrix(E, nu, PlaneStrain)
	g := E / ((1 + nu) * (1 - 2*nu))
	assert.InDelta(tst, g*(1-nu), strain[0][0], g*1e-9)
	assert.InDelta(tst, g*nu, strain[0][1], g*1e-9)
}

// Test_triangleBMatrixUnitRightTriangle checks TriangleB and TriangleArea
// against a hand-computed B-matrix for the (0,0)-(1,0)-(0,1) right triangle.
func Test_triangleBMatrixUnitRightTriangle(tst *testing.T) {
	b, area := TriangleB(0, 0, 1, 0, 0, 1)
	assert.InDelta(tst, 0.5, area, 1e-12)

	expected := linalg.Matrix{
		{-1, 0, 1, 0, 0, 0},
		{0, -1, 0, 0, 0, 1},
		{-1, -1, 0, 1, 1, 0},
	}
	for i := range expected {
		for j := range expected[i] {
			assert.InDelta(tst, expected[i][j], b[i][j], 1e-12)
		}
	}
}

// Test_triangleStiffnessRigidTranslation checks a CST property: a rigid-body
// translation carries zero strain energy, so Ke times a translation mode
// must be (numerically) zero.
func Test_triangleStiffnessRigidTranslation(tst *testing.T) {
	b, area := TriangleB(0, 0, 1, 0, 0, 1)
	d := PlaneDMatrix(200e9, 0.3, PlaneStress)
	ke := TriangleStiffness(b, d, area, 0.01)
	assert.Equal(tst, 6, ke.Rows())
	assert.Equal(tst, 6, ke.Cols())

	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			assert.InDelta(tst, ke[i][j], ke[j][i], 1e-3, "Ke must be symmetric")
		}
	}

	transX := []float64{1, 0, 1, 0, 1, 0}
	transY := []float64{0, 1, 0, 1, 0, 1}
	fx := ke.MultiplyVector(transX)
	fy := ke.MultiplyVector(transY)
	for i := 0; i < 6; i++ {
		assert.InDelta(tst, 0.0, fx[i], 1e-3)
		assert.InDelta(tst, 0.0, fy[i], 1e-3)
	}
}

// Test_recoverStressUniformStrainField checks RecoverStress by feeding it
// the exact nodal displacements of a uniform exx strain field, for which the
// CST (a constant-strain element) must recover the closed-form stress.
func Test_recoverStressUniformStrainField(tst *testing.T) {
	b, _ := TriangleB(0, 0, 1, 0, 0, 1)
	E, nu := 200e9, 0.3
	d := PlaneDMatrix(E, nu, PlaneStress)

	exx := 0.001
	ue := []float64{0, 0, exx, 0, 0, 0} // u = exx*x, v = 0
	s := RecoverStress(d, b, ue)

	f := E / (1 - nu*nu)
	expectedSx := f * exx
	expectedSy := f * nu * exx
	assert.InDelta(tst, expectedSx, s.Sx, expectedSx*1e-9)
	assert.InDelta(tst, expectedSy, s.Sy, math.Abs(expectedSy)*1e-9+1e-6)
	assert.InDelta(tst, 0.0, s.Txy, 1e-6)

	expectedVM := math.Sqrt(expectedSx*expectedSx - expectedSx*expectedSy + expectedSy*expectedSy)
	assert.InDelta(tst, expectedVM, s.VonMises, expectedVM*1e-9)
}

func Test_thermalNodalForcesZeroWithoutDeltaT(tst *testing.T) {
	b, area := TriangleB(0, 0, 1, 0, 0, 1)
	d := PlaneDMatrix(200e9, 0.3, PlaneStress)
	f := ThermalNodalForces(b, d, area, 0.01, 1.2e-5, 0)
	for _, v := range f {
		assert.InDelta(tst, 0.0, v, 1e-12)
	}
}
