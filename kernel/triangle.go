// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math"

	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/linalg"
)

// PlaneMode selects plane stress or plane strain constitutive behaviour.
type PlaneMode int

const (
	PlaneStress PlaneMode = iota
	PlaneStrain
)

// PlaneDMatrix returns the 3x3 isotropic plane-stress or plane-strain
// constitutive matrix (spec §4.C.2).
func PlaneDMatrix(E, nu float64, mode PlaneMode) linalg.Matrix {
	d := linalg.Alloc(3, 3)
	if mode == PlaneStrain {
		f := E / ((1 + nu) * (1 - 2*nu))
		d[0][0], d[0][1] = f*(1-nu), f*nu
		d[1][0], d[1][1] = f*nu, f*(1-nu)
		d[2][2] = f * (1 - 2*nu) / 2
		return d
	}
	f := E / (1 - nu*nu)
	d[0][0], d[0][1] = f, f*nu
	d[1][0], d[1][1] = f*nu, f
	d[2][2] = f * (1 - nu) / 2
	return d
}

// TriangleArea returns the signed area of the triangle (x1,y1)-(x2,y2)-(x3,y3).
func TriangleArea(x1, y1, x2, y2, x3, y3 float64) float64 {
	return 0.5 * ((x2-x1)*(y3-y1) - (x3-x1)*(y2-y1))
}

// TriangleB returns the constant 3x6 strain-displacement matrix of a CST
// element and its (unsigned) area (spec §4.C.2).
func TriangleB(x1, y1, x2, y2, x3, y3 float64) (linalg.Matrix, float64) {
	area := TriangleArea(x1, y1, x2, y2, x3, y3)
	a2 := 2 * area
	b1, b2, b3 := y2-y3, y3-y1, y1-y2
	c1, c2, c3 := x3-x2, x1-x3, x2-x1
	b := linalg.Alloc(3, 6)
	b[0][0], b[0][2], b[0][4] = b1/a2, b2/a2, b3/a2
	b[1][1], b[1][3], b[1][5] = c1/a2, c2/a2, c3/a2
	b[2][0], b[2][1] = c1/a2, b1/a2
	b[2][2], b[2][3] = c2/a2, b2/a2
	b[2][4], b[2][5] = c3/a2, b3/a2
	return b, math.Abs(area)
}

// TriangleStiffness returns Ke = t*A*B^T*D*B for a CST element.
func TriangleStiffness(b linalg.Matrix, d linalg.Matrix, area, thickness float64) linalg.Matrix {
	ke := b.Transpose().Multiply(d).Multiply(b)
	ke.Scale(thickness * area)
	return ke
}

// Stress is a plane-stress/strain state: direct and shear components plus
// derived Von Mises and principal values (spec §4.C.2).
type Stress struct {
	Sx, Sy, Txy       float64
	VonMises          float64
	S1, S2            float64 // principal stresses
	PrincipalAngleRad float64 // angle of S1 from x-axis
}

// RecoverStress computes sigma = D*B*ue and the derived quantities.
func RecoverStress(d, b linalg.Matrix, ue []float64) Stress {
	s := d.Multiply(b).MultiplyVector(ue)
	sx, sy, txy := s[0], s[1], s[2]
	vm := math.Sqrt(sx*sx - sx*sy + sy*sy + 3*txy*txy)
	avg := 0.5 * (sx + sy)
	r := math.Sqrt(math.Pow(0.5*(sx-sy), 2) + txy*txy)
	angle := 0.5 * math.Atan2(2*txy, sx-sy)
	return Stress{Sx: sx, Sy: sy, Txy: txy, VonMises: vm, S1: avg + r, S2: avg - r, PrincipalAngleRad: angle}
}

// ThermalNodalForces returns the CST element's equivalent nodal forces from
// a uniform thermal strain eps_th = [alpha*deltaT, alpha*deltaT, 0] (spec
// §4.C.2).
func ThermalNodalForces(b, d linalg.Matrix, area, thickness, alpha, deltaT float64) []float64 {
	epsTh := []float64{alpha * deltaT, alpha * deltaT, 0}
	dEps := d.MultiplyVector(epsTh)
	f := b.Transpose().MultiplyVector(dEps)
	scaled := make([]float64, len(f))
	for i, v := range f {
		scaled[i] = v * thickness * area
	}
	return scaled
}
