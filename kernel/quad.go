// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math"

	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/linalg"
)

var quadGaussPts = [4][2]float64{
	{-1 / math.Sqrt(3), -1 / math.Sqrt(3)},
	{1 / math.Sqrt(3), -1 / math.Sqrt(3)},
	{1 / math.Sqrt(3), 1 / math.Sqrt(3)},
	{-1 / math.Sqrt(3), 1 / math.Sqrt(3)},
}

var quadCornerSigns = [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

// quadShapeDerivs returns dN/dr, dN/ds for the 4 bilinear shape functions
// at natural coordinates (r,s) (spec §4.C.2: "standard isoparametric
// 4-node element").
func quadShapeDerivs(r, s float64) (dNdr, dNds [4]float64) {
	for i, sgn := range quadCornerSigns {
		ri, si := sgn[0], sgn[1]
		dNdr[i] = 0.25 * ri * (1 + s*si)
		dNds[i] = 0.25 * si * (1 + r*ri)
	}
	return
}

func quadShape(r, s float64) (n [4]float64) {
	for i, sgn := range quadCornerSigns {
		ri, si := sgn[0], sgn[1]
		n[i] = 0.25 * (1 + r*ri) * (1 + s*si)
	}
	return
}

// QuadStiffness assembles the 8x8 (u,v per node) stiffness of a Q4 element
// by 2x2 Gauss integration (spec §4.C.2).
func QuadStiffness(x, y [4]float64, d linalg.Matrix, thickness float64) linalg.Matrix {
	ke := linalg.Alloc(8, 8)
	for _, gp := range quadGaussPts {
		r, s := gp[0], gp[1]
		dNdr, dNds := quadShapeDerivs(r, s)

		var j00, j01, j10, j11 float64
		for i := 0; i < 4; i++ {
			j00 += dNdr[i] * x[i]
			j01 += dNdr[i] * y[i]
			j10 += dNds[i] * x[i]
			j11 += dNds[i] * y[i]
		}
		detJ := j00*j11 - j01*j10
		invJ00, invJ01 := j11/detJ, -j01/detJ
		invJ10, invJ11 := -j10/detJ, j00/detJ

		b := linalg.Alloc(3, 8)
		for i := 0; i < 4; i++ {
			dNdx := invJ00*dNdr[i] + invJ01*dNds[i]
			dNdy := invJ10*dNdr[i] + invJ11*dNds[i]
			b[0][2*i] = dNdx
			b[1][2*i+1] = dNdy
			b[2][2*i] = dNdy
			b[2][2*i+1] = dNdx
		}
		kb := b.Transpose().Multiply(d).Multiply(b)
		kb.Scale(thickness * math.Abs(detJ))
		for i := 0; i < 8; i++ {
			for j := 0; j < 8; j++ {
				ke[i][j] += kb[i][j]
			}
		}
	}
	return ke
}

// QuadStress recovers stress at the element centroid (r=s=0).
func QuadStress(x, y [4]float64, d linalg.Matrix, ue []float64) Stress {
	dNdr, dNds := quadShapeDerivs(0, 0)
	var j00, j01, j10, j11 float64
	for i := 0; i < 4; i++ {
		j00 += dNdr[i] * x[i]
		j01 += dNdr[i] * y[i]
		j10 += dNds[i] * x[i]
		j11 += dNds[i] * y[i]
	}
	detJ := j00*j11 - j01*j10
	invJ00, invJ01 := j11/detJ, -j01/detJ
	invJ10, invJ11 := -j10/detJ, j00/detJ
	b := linalg.Alloc(3, 8)
	for i := 0; i < 4; i++ {
		dNdx := invJ00*dNdr[i] + invJ01*dNds[i]
		dNdy := invJ10*dNdr[i] + invJ11*dNds[i]
		b[0][2*i] = dNdx
		b[1][2*i+1] = dNdy
		b[2][2*i] = dNdy
		b[2][2*i+1] = dNdx
	}
	return RecoverStress(d, b, ue)
}

// Expand8To12 pads a Q4's 8x8 (u,v-per-node) stiffness into a 12x12 (u,v,θ
// per node) matrix with zero rows/columns on every θ DOF, for mixed
// beam+plate assembly (spec §4.C.2, §4.D).
func Expand8To12(k8 linalg.Matrix) linalg.Matrix {
	k12 := linalg.Alloc(12, 12)
	idx := func(nodeLocal, dof int) int { return nodeLocal*3 + dof } // dof: 0=u,1=v (θ=2 left zero)
	src := func(nodeLocal, dof int) int { return nodeLocal*2 + dof }
	for ni := 0; ni < 4; ni++ {
		for di := 0; di < 2; di++ {
			for nj := 0; nj < 4; nj++ {
				for dj := 0; dj < 2; dj++ {
					k12[idx(ni, di)][idx(nj, dj)] = k8[src(ni, di)][src(nj, dj)]
				}
			}
		}
	}
	return k12
}
