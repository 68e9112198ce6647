// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test_newDKTGeometryArea checks NewDKTGeometry's area against the
// elementary triangle-area formula for a 2x2 right triangle.
func Test_newDKTGeometryArea(tst *testing.T) {
	g := NewDKTGeometry(0, 0, 2, 0, 0, 2)
	assert.InDelta(tst, 2.0, g.Area, 1e-12)
	assert.InDelta(tst, 4.0, g.TwoArea, 1e-12)
}

func Test_dktBendingDMatrix(tst *testing.T) {
	E, nu, t := 30e9, 0.2, 0.2
	d := DKTBendingD(E, nu, t)
	f := E * t * t * t / (12 * (1 - nu*nu))
	assert.InDelta(tst, f, d[0][0], f*1e-9)
	assert.InDelta(tst, f*nu, d[0][1], f*1e-9)
	assert.InDelta(tst, f*(1-nu)/2, d[2][2], f*1e-9)
}

// Test_dktStiffnessSymmetricAndRigidTranslation checks that DKTStiffness is
// symmetric and that a uniform transverse (w-only) rigid translation, with
// zero rotations at every node, carries zero bending strain energy.
func Test_dktStiffnessSymmetricAndRigidTranslation(tst *testing.T) {
	g := NewDKTGeometry(0, 0, 2, 0, 0, 2)
	db := DKTBendingD(30e9, 0.2, 0.2)
	ke := DKTStiffness(g, db)
	assert.Equal(tst, 9, ke.Rows())

	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			assert.InDelta(tst, ke[i][j], ke[j][i], 1e-3)
		}
	}

	rigidW := []float64{1, 0, 0, 1, 0, 0, 1, 0, 0}
	f := ke.MultiplyVector(rigidW)
	for i := 0; i < 9; i++ {
		assert.InDelta(tst, 0.0, f[i], 1e-3)
	}
}

func Test_dktMomentsZeroForRigidTranslation(tst *testing.T) {
	g := NewDKTGeometry(0, 0, 2, 0, 0, 2)
	db := DKTBendingD(30e9, 0.2, 0.2)
	mx, my, mxy := DKTMoments(g, db, []float64{1, 0, 0, 1, 0, 0, 1, 0, 0})
	assert.InDelta(tst, 0.0, mx, 1e-3)
	assert.InDelta(tst, 0.0, my, 1e-3)
	assert.InDelta(tst, 0.0, mxy, 1e-3)
}
