// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import "github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/linalg"

// DKTGaussPoint is one of the three-point Gauss rule samples in area
// coordinates used by the DKT plate triangle (spec §4.C.3).
type DKTGaussPoint struct{ L1, L2, L3, W float64 }

// DKTGaussPoints is the standard 3-point rule: (2/3,1/6,1/6) and
// permutations, weight 1/3 each.
var DKTGaussPoints = [3]DKTGaussPoint{
	{2.0 / 3, 1.0 / 6, 1.0 / 6, 1.0 / 3},
	{1.0 / 6, 2.0 / 3, 1.0 / 6, 1.0 / 3},
	{1.0 / 6, 1.0 / 6, 2.0 / 3, 1.0 / 3},
}

// DKTSideCoeffs holds the (a,b,c,d,e) side parameters for one of the
// triangle's three sides (spec §4.C.3).
type DKTSideCoeffs struct{ A, B, C, D, E float64 }

func dktSide(xi, yi, xj, yj float64) DKTSideCoeffs {
	x, y := xi-xj, yi-yj
	l2 := x*x + y*y
	return DKTSideCoeffs{
		A: -x / l2,
		B: 0.75 * x * y / l2,
		C: (0.25*x*x - 0.5*y*y) / l2,
		D: -y / l2,
		E: (0.25*y*y - 0.5*x*x) / l2,
	}
}

// DKTGeometry precomputes the side coefficients and the CST b_i/c_i/area
// constants shared by every Gauss point of a DKT triangle.
type DKTGeometry struct {
	S4, S5, S6 DKTSideCoeffs // sides (2,3), (3,1), (1,2)
	B1, B2, B3 float64       // = y2-y3, y3-y1, y1-y2
	C1, C2, C3 float64       // = x3-x2, x1-x3, x2-x1
	Area       float64       // unsigned triangle area
	TwoArea    float64       // signed 2*area
}

// NewDKTGeometry builds the geometry record for vertices 1,2,3.
func NewDKTGeometry(x1, y1, x2, y2, x3, y3 float64) DKTGeometry {
	b1, b2, b3 := y2-y3, y3-y1, y1-y2
	c1, c2, c3 := x3-x2, x1-x3, x2-x1
	twoArea := b1*x1 + b2*x2 + b3*x3
	return DKTGeometry{
		S4: dktSide(x2, y2, x3, y3),
		S5: dktSide(x3, y3, x1, y1),
		S6: dktSide(x1, y1, x2, y2),
		B1: b1, B2: b2, B3: b3,
		C1: c1, C2: c2, C3: c3,
		TwoArea: twoArea,
		Area:    absF(0.5 * twoArea),
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// quadShapeAreaDerivs returns dN_i/dL1, dN_i/dL2, dN_i/dL3 for the six
// LST-style shape functions N1..N6 that parametrise the DKT rotation
// fields (N1=L1(2L1-1), ..., N4=4L2L3, N5=4L3L1, N6=4L1L2).
func quadShapeAreaDerivs(l1, l2, l3 float64) (dN [6][3]float64) {
	dN[0] = [3]float64{4*l1 - 1, 0, 0}
	dN[1] = [3]float64{0, 4*l2 - 1, 0}
	dN[2] = [3]float64{0, 0, 4*l3 - 1}
	dN[3] = [3]float64{0, 4 * l3, 4 * l2}
	dN[4] = [3]float64{4 * l3, 0, 4 * l1}
	dN[5] = [3]float64{4 * l2, 4 * l1, 0}
	return
}

// DKTBMatrix returns the 3x9 curvature-displacement matrix at area
// coordinates (l1,l2,l3), for DOF ordering {w1,θx1,θy1,w2,θx2,θy2,w3,θx3,θy3}
// (spec §4.C.3: "the B-matrix (3x9) assembled from derivatives of Hx,Hy").
func DKTBMatrix(g DKTGeometry, l1, l2, l3 float64) linalg.Matrix {
	dN := quadShapeAreaDerivs(l1, l2, l3)
	a4, a5, a6 := g.S4.A, g.S5.A, g.S6.A
	b4, b5, b6 := g.S4.B, g.S5.B, g.S6.B
	c4, c5, c6 := g.S4.C, g.S5.C, g.S6.C
	d4, d5, d6 := g.S4.D, g.S5.D, g.S6.D
	e4, e5, e6 := g.S4.E, g.S5.E, g.S6.E

	// dHx/dL_m, dHy/dL_m for m=0,1,2 (L1,L2,L3)
	var dHx, dHy [9][3]float64
	for m := 0; m < 3; m++ {
		dN1, dN2, dN3 := dN[0][m], dN[1][m], dN[2][m]
		dN4, dN5, dN6 := dN[3][m], dN[4][m], dN[5][m]

		dHx[0][m] = 1.5 * (a6*dN6 - a5*dN5)
		dHx[1][m] = b5*dN5 + b6*dN6
		dHx[2][m] = dN1 - c5*dN5 - c6*dN6
		dHx[3][m] = 1.5 * (a4*dN4 - a6*dN6)
		dHx[4][m] = b6*dN6 + b4*dN4
		dHx[5][m] = dN2 - c6*dN6 - c4*dN4
		dHx[6][m] = 1.5 * (a5*dN5 - a4*dN4)
		dHx[7][m] = b4*dN4 + b5*dN5
		dHx[8][m] = dN3 - c4*dN4 - c5*dN5

		dHy[0][m] = 1.5 * (d6*dN6 - d5*dN5)
		dHy[1][m] = -dN1 + e5*dN5 + e6*dN6
		dHy[2][m] = -b5*dN5 - b6*dN6
		dHy[3][m] = 1.5 * (d4*dN4 - d6*dN6)
		dHy[4][m] = -dN2 + e6*dN6 + e4*dN4
		dHy[5][m] = -b6*dN6 - b4*dN4
		dHy[6][m] = 1.5 * (d5*dN5 - d4*dN4)
		dHy[7][m] = -dN3 + e4*dN4 + e5*dN5
		dHy[8][m] = -b4*dN4 - b5*dN5
	}

	bi := [3]float64{g.B1, g.B2, g.B3}
	ci := [3]float64{g.C1, g.C2, g.C3}
	inv2A := 1 / g.TwoArea

	b := linalg.Alloc(3, 9)
	for k := 0; k < 9; k++ {
		var dHxDx, dHxDy, dHyDx, dHyDy float64
		for m := 0; m < 3; m++ {
			dLdx := bi[m] * inv2A
			dLdy := ci[m] * inv2A
			dHxDx += dHx[k][m] * dLdx
			dHxDy += dHx[k][m] * dLdy
			dHyDx += dHy[k][m] * dLdx
			dHyDy += dHy[k][m] * dLdy
		}
		b[0][k] = dHxDx
		b[1][k] = dHyDy
		b[2][k] = dHxDy + dHyDx
	}
	return b
}

// DKTBendingD returns the 3x3 bending constitutive matrix for thickness t
// (spec §4.C.3).
func DKTBendingD(E, nu, t float64) linalg.Matrix {
	d := linalg.Alloc(3, 3)
	f := E * t * t * t / (12 * (1 - nu*nu))
	d[0][0], d[0][1] = f, f*nu
	d[1][0], d[1][1] = f*nu, f
	d[2][2] = f * (1 - nu) / 2
	return d
}

// DKTStiffness integrates Ke = A * Σ w_gp * Bb^T Db Bb over the 3-point
// Gauss rule (spec §4.C.3).
func DKTStiffness(g DKTGeometry, db linalg.Matrix) linalg.Matrix {
	ke := linalg.Alloc(9, 9)
	for _, gp := range DKTGaussPoints {
		b := DKTBMatrix(g, gp.L1, gp.L2, gp.L3)
		kb := b.Transpose().Multiply(db).Multiply(b)
		kb.Scale(g.Area * gp.W)
		for i := 0; i < 9; i++ {
			for j := 0; j < 9; j++ {
				ke[i][j] += kb[i][j]
			}
		}
	}
	return ke
}

// DKTMoments recovers {mx, my, mxy} at the centroid: m = Db * Bb(1/3,1/3,1/3) * ue
// (spec §4.C.3).
func DKTMoments(g DKTGeometry, db linalg.Matrix, ue []float64) (mx, my, mxy float64) {
	b := DKTBMatrix(g, 1.0/3, 1.0/3, 1.0/3)
	m := db.Multiply(b).MultiplyVector(ue)
	return m[0], m[1], m[2]
}
