// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel implements the element-local kernels of spec §4.C: the
// Euler-Bernoulli 2D frame beam, the constant-strain triangle and 4-node
// quad for plane stress/strain, and the DKT plate-bending triangle. Each
// kernel follows the teacher's ele/solid/beam.go shape (local stiffness,
// rotation to global, consistent load vectors) generalised from gofem's
// nonlinear material-point integration to this spec's closed-form linear
// elastic forms.
package kernel

import (
	"math"

	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/linalg"
	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/model"
)

// BeamGeometry carries the resolved endpoint coordinates and derived length
// and angle of a beam element.
type BeamGeometry struct {
	X1, Y1, X2, Y2 float64
	L              float64
	Alpha          float64 // atan2(dy,dx)
}

// NewBeamGeometry computes length and orientation; returns a ValidationError
// if the endpoints coincide (degenerate element, spec §7).
func NewBeamGeometry(x1, y1, x2, y2 float64) (BeamGeometry, error) {
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l <= 1e-10 {
		return BeamGeometry{}, model.ValidationErrorf("zero-length beam")
	}
	return BeamGeometry{X1: x1, Y1: y1, X2: x2, Y2: y2, L: l, Alpha: math.Atan2(dy, dx)}, nil
}

// LocalStiffness returns the 6x6 Euler-Bernoulli local stiffness for axial
// stiffness EA/L and bending stiffness EI (spec §4.C.1).
func LocalStiffness(E, A, I, L float64) linalg.Matrix {
	k := linalg.Alloc(6, 6)
	ea := E * A / L
	ei := E * I
	l2, l3 := L*L, L*L*L

	k[0][0], k[3][3] = ea, ea
	k[0][3], k[3][0] = -ea, -ea

	k[1][1] = 12 * ei / l3
	k[1][2] = 6 * ei / l2
	k[1][4] = -12 * ei / l3
	k[1][5] = 6 * ei / l2

	k[2][1] = 6 * ei / l2
	k[2][2] = 4 * ei / L
	k[2][4] = -6 * ei / l2
	k[2][5] = 2 * ei / L

	k[4][1] = -12 * ei / l3
	k[4][2] = -6 * ei / l2
	k[4][4] = 12 * ei / l3
	k[4][5] = -6 * ei / l2

	k[5][1] = 6 * ei / l2
	k[5][2] = 2 * ei / L
	k[5][4] = -6 * ei / l2
	k[5][5] = 4 * ei / L
	return k
}

// TransformationMatrix builds the 6x6 rotation that maps global DOFs
// (u,v,θ per node) to local ones, using angle alpha = atan2(dy,dx); the
// rotation DOF is unaffected (spec §4.C.1).
func TransformationMatrix(alpha float64) linalg.Matrix {
	c, s := math.Cos(alpha), math.Sin(alpha)
	t := linalg.Alloc(6, 6)
	t[0][0], t[0][1] = c, s
	t[1][0], t[1][1] = -s, c
	t[2][2] = 1
	t[3][3], t[3][4] = c, s
	t[4][3], t[4][4] = -s, c
	t[5][5] = 1
	return t
}

// GlobalStiffness returns T^T * Klocal * T.
func GlobalStiffness(klocal linalg.Matrix, t linalg.Matrix) linalg.Matrix {
	return t.Transpose().Multiply(klocal).Multiply(t)
}

// ProjectGlobalLoadToLocal rotates a distributed load's (qx,qy) components
// from global to local axes using the beam angle (spec §4.C.1: "Global-axis
// distributed loads are projected to local axes using the beam angle before
// applying the above").
func ProjectGlobalLoadToLocal(qx, qy, alpha float64) (qxl, qyl float64) {
	c, s := math.Cos(alpha), math.Sin(alpha)
	qxl = c*qx + s*qy
	qyl = -s*qx + c*qy
	return
}

// Hermite transverse shape functions, ξ = x/L in [0,1]: N1 is the
// transverse-displacement shape at node 1, N2 the rotation shape at node 1
// in dimensionless form (the physical rotation shape is L·N2), N3/N4 the
// node-2 counterparts.
func N1(xi float64) float64 { return 1 - 3*xi*xi + 2*xi*xi*xi }
func N2(xi float64) float64 { return xi - 2*xi*xi + xi*xi*xi }
func N3(xi float64) float64 { return 3*xi*xi - 2*xi*xi*xi }
func N4(xi float64) float64 { return -xi*xi + xi*xi*xi }

// linear axial shape functions
func Na1(xi float64) float64 { return 1 - xi }
func Na2(xi float64) float64 { return xi }

// antiderivatives of the shape functions above, in closed form, used for
// the exact (non-Simpson) evaluation of uniform and full/partial-uniform
// loads (spec §4.C.1: "Partial uniform ... integrate Hermite shape
// functions analytically").
func hN1(xi float64) float64 { return xi - math.Pow(xi, 3) + 0.5*math.Pow(xi, 4) }
func hN2(xi float64) float64 { return 0.5*xi*xi - (2.0/3.0)*math.Pow(xi, 3) + 0.25*math.Pow(xi, 4) }
func hN3(xi float64) float64 { return math.Pow(xi, 3) - 0.5*math.Pow(xi, 4) }
func hN4(xi float64) float64 { return -(1.0/3.0)*math.Pow(xi, 3) + 0.25*math.Pow(xi, 4) }
func hNa1(xi float64) float64 { return xi - 0.5*xi*xi }
func hNa2(xi float64) float64 { return 0.5 * xi * xi }

// EquivLocalLoads returns the 6-vector of equivalent nodal loads, local
// axes, for a distributed load linear from qxStart/qyStart at x=startT*L to
// qxEnd/qyEnd at x=endT*L (zero outside that span). The constant part
// (qxStart/qyStart over the span) is evaluated with the closed-form
// Hermite/linear antiderivatives, so a uniform load is exact. The ramp part
// (qEnd-qStart) goes through rampIntegral's 20-interval Simpson's rule, so a
// trapezoidal load, full-span or partial, matches the closed-form
// coefficients only to quadrature error (of order 1e-5 relative), not
// exactly. EquivLocalLoadsSimpson below is a direct Simpson's-rule
// evaluation of the same integrals.
func EquivLocalLoads(qxStart, qyStart, qxEnd, qyEnd, startT, endT, L float64) []float64 {
	a, b := startT, endT
	dqx, dqy := qxEnd-qxStart, qyEnd-qyStart
	f := make([]float64, 6)

	// superpose the constant part (qyStart over [a,b]) with the ramp part
	// (0 at a, dqy at b): the constant part uses the tabulated closed-form
	// antiderivatives, the ramp part the rampIntegral Simpson evaluator.
	f[1] = qyStart*L*(hN1(b)-hN1(a)) + rampIntegral(dqy, a, b, N1)*L
	f[2] = qyStart*L*L*(hN2(b)-hN2(a)) + rampIntegral(dqy, a, b, N2)*L*L
	f[4] = qyStart*L*(hN3(b)-hN3(a)) + rampIntegral(dqy, a, b, N3)*L
	f[5] = qyStart*L*L*(hN4(b)-hN4(a)) + rampIntegral(dqy, a, b, N4)*L*L

	f[0] = qxStart*L*(hNa1(b)-hNa1(a)) + rampIntegral(dqx, a, b, Na1)*L
	f[3] = qxStart*L*(hNa2(b)-hNa2(a)) + rampIntegral(dqx, a, b, Na2)*L
	return f
}

// rampIntegral integrates shape(ξ)·[(ξ-a)/(b-a)]·delta over [a,b] using
// Simpson's rule with 20 sub-intervals (spec §4.C.1, "partial trapezoidal:
// Simpson's rule with 20 intervals"). It is also the ramp contribution used
// by EquivLocalLoads for full-span trapezoidal and partial-uniform spans
// (delta=0 there degenerates cleanly to zero).
func rampIntegral(delta, a, b float64, shape func(float64) float64) float64 {
	if delta == 0 || b <= a {
		return 0
	}
	const n = 20
	h := (b - a) / n
	integrand := func(xi float64) float64 {
		frac := (xi - a) / (b - a)
		return delta * frac * shape(xi)
	}
	sum := integrand(a) + integrand(b)
	for i := 1; i < n; i++ {
		xi := a + float64(i)*h
		if i%2 == 0 {
			sum += 2 * integrand(xi)
		} else {
			sum += 4 * integrand(xi)
		}
	}
	return sum * h / 3
}

// EquivLocalLoadsSimpson is a direct Simpson's-rule evaluation (20
// sub-intervals) of the partial trapezoidal case named in spec §4.C.1,
// integrating q(x)·N_i(x) rather than using the closed-form antiderivatives.
// It agrees with EquivLocalLoads to floating-point round-off: Simpson's rule
// is exact for the cubic constant-load part, and both apply the same Simpson
// sums to the quartic ramp part, which neither integrates exactly.
func EquivLocalLoadsSimpson(qxStart, qyStart, qxEnd, qyEnd, startT, endT, L float64) []float64 {
	a, b := startT, endT
	const n = 20
	h := (b - a) / n
	qyAt := func(xi float64) float64 {
		if b <= a {
			return qyStart
		}
		return qyStart + (xi-a)/(b-a)*(qyEnd-qyStart)
	}
	qxAt := func(xi float64) float64 {
		if b <= a {
			return qxStart
		}
		return qxStart + (xi-a)/(b-a)*(qxEnd-qxStart)
	}
	simpson := func(shape func(float64) float64, q func(float64) float64) float64 {
		integrand := func(xi float64) float64 { return q(xi) * shape(xi) }
		sum := integrand(a) + integrand(b)
		for i := 1; i < n; i++ {
			xi := a + float64(i)*h
			if i%2 == 0 {
				sum += 2 * integrand(xi)
			} else {
				sum += 4 * integrand(xi)
			}
		}
		return sum * h / 3
	}
	f := make([]float64, 6)
	f[1] = simpson(N1, qyAt) * L
	f[2] = simpson(N2, qyAt) * L * L
	f[4] = simpson(N3, qyAt) * L
	f[5] = simpson(N4, qyAt) * L * L
	f[0] = simpson(Na1, qxAt) * L
	f[3] = simpson(Na2, qxAt) * L
	return f
}

// EquivLocalPointLoad returns the local 6-vector fixed-end force/moment for
// a point load (px,py) applied at distance a from node 1 on a span of
// length L, using the standard Euler-Bernoulli fixed-end-force formulas.
func EquivLocalPointLoad(px, py, a, L float64) []float64 {
	b := L - a
	f := make([]float64, 6)
	f[0] = px * b / L
	f[3] = px * a / L
	f[1] = py * b * b * (3*a + b) / (L * L * L)
	f[2] = py * a * b * b / (L * L)
	f[4] = py * a * a * (3*b + a) / (L * L * L)
	f[5] = -py * a * a * b / (L * L)
	return f
}

// EquivLocalThermalUniform returns the local 6-vector fixed-end force from a
// uniform temperature change deltaT: an axial force N_th = E*A*alpha*deltaT
// applied equal-and-opposite at the two ends, no moments (spec §4.C.1).
func EquivLocalThermalUniform(E, A, alpha, deltaT float64) []float64 {
	n := E * A * alpha * deltaT
	return []float64{n, 0, 0, -n, 0, 0}
}

// EquivLocalThermalGradient returns the local 6-vector fixed-end force/moment
// from a through-depth gradient (deltaTtop, deltaTbot): the axial component
// uses the average, the bending component is a fixed-end moment
// ±E*I*alpha*(deltaTtop-deltaTbot)/h (spec §4.C.1).
func EquivLocalThermalGradient(E, A, I, alpha, h, deltaTtop, deltaTbot float64) []float64 {
	avg := 0.5 * (deltaTtop + deltaTbot)
	out := EquivLocalThermalUniform(E, A, alpha, avg)
	mth := E * I * alpha * (deltaTtop - deltaTbot) / h
	out[2] += mth
	out[5] -= mth
	return out
}

// ReleasedDOFIndices maps an EndReleases record to the local-DOF indices to
// condense: 0=u1(axial start),1=v1(shear start),2=θ1(moment start),
// 3=u2,4=v2,5=θ2 (spec §4.C.1).
func ReleasedDOFIndices(r *model.EndReleases) []int {
	if r == nil {
		return nil
	}
	var out []int
	if r.StartAxial {
		out = append(out, 0)
	}
	if r.StartShear {
		out = append(out, 1)
	}
	if r.StartMoment {
		out = append(out, 2)
	}
	if r.EndAxial {
		out = append(out, 3)
	}
	if r.EndShear {
		out = append(out, 4)
	}
	if r.EndMoment {
		out = append(out, 5)
	}
	return out
}

// CondenseReleases performs static condensation of K and F for each
// released local DOF: the force vector is condensed using the K entries
// from *before* that DOF's row/column are zeroed (spec §4.C.1, §9
// "Condensation for loads" — omitting force condensation silently gives
// wrong internal forces at hinged ends).
func CondenseReleases(k linalg.Matrix, f []float64, released []int) {
	n := k.Rows()
	for _, c := range released {
		kcc := k[c][c]
		if math.Abs(kcc) < 1e-14 {
			continue // already condensed away or numerically degenerate; nothing left to eliminate
		}
		fc := f[c]
		for i := 0; i < n; i++ {
			if i == c {
				continue
			}
			f[i] -= k[i][c] / kcc * fc
		}
		f[c] = 0
		for i := 0; i < n; i++ {
			if i == c {
				continue
			}
			for j := 0; j < n; j++ {
				if j == c {
					continue
				}
				k[i][j] -= k[i][c] * k[c][j] / kcc
			}
		}
		for i := 0; i < n; i++ {
			k[c][i] = 0
			k[i][c] = 0
		}
	}
}

// BeamStation is one of the 21 equispaced sample points along a beam's
// internal-force diagram.
type BeamStation struct {
	X          float64 // distance from node 1
	N, V, M    float64
}

// LoadProfile evaluates the local qx(x), qy(x) at distance x from node 1,
// for a single linear-ramp distributed load spanning [startT*L, endT*L].
type LoadProfile struct {
	QxStart, QyStart, QxEnd, QyEnd float64
	StartT, EndT                   float64
	L                              float64
}

func (p *LoadProfile) at(x float64) (qx, qy float64) {
	if p == nil {
		return 0, 0
	}
	a, b := p.StartT*p.L, p.EndT*p.L
	if x < a-1e-12 || x > b+1e-12 {
		return 0, 0
	}
	if b <= a {
		return p.QxStart, p.QyStart
	}
	frac := (x - a) / (b - a)
	qx = p.QxStart + frac*(p.QxEnd-p.QxStart)
	qy = p.QyStart + frac*(p.QyEnd-p.QyStart)
	return
}

// integrateToX computes ∫0^x f(s) ds by Simpson's rule with 10
// sub-intervals. It is used for the N/V running integrals and for M(x),
// whose load term is the single integral of the load profile times (x-s).
// For a full-span linear load these integrands are polynomials of degree
// at most two and Simpson's rule is exact; for a partial span the profile
// jumps at the span ends and the result is approximate.
func integrateToX(x float64, f func(float64) float64) float64 {
	if x <= 0 {
		return 0
	}
	const n = 10
	h := x / n
	sum := f(0) + f(x)
	for i := 1; i < n; i++ {
		xi := float64(i) * h
		if i%2 == 0 {
			sum += 2 * f(xi)
		} else {
			sum += 4 * f(xi)
		}
	}
	return sum * h / 3
}

// InternalForceStations samples N(x), V(x), M(x) at 21 equispaced stations
// along the beam (spec §4.C.1). N1,V1,M1 are the condensed local end
// forces already corrected for the M1 sign convention (M1 = -f_local[2]);
// profiles may be nil when the beam carries no distributed load.
func InternalForceStations(L, N1, V1, M1 float64, profile *LoadProfile) []BeamStation {
	const nsta = 21
	stations := make([]BeamStation, nsta)
	qx := func(s float64) float64 { qx, _ := profile.at(s); return qx }
	qy := func(s float64) float64 { _, qy := profile.at(s); return qy }
	momentIntegrand := func(x float64) func(float64) float64 {
		return func(s float64) float64 { return qy(s) * (x - s) }
	}
	for i := 0; i < nsta; i++ {
		x := L * float64(i) / float64(nsta-1)
		n := N1 + integrateToX(x, qx)
		v := V1 + integrateToX(x, qy)
		m := M1 + V1*x + integrateToX(x, momentIntegrand(x))
		stations[i] = BeamStation{X: x, N: n, V: v, M: m}
	}
	return stations
}

// StationExtremes returns max(|N|), max(|V|), max(|M|), floored at 1e-10
// (spec §4.F).
func StationExtremes(stations []BeamStation) (maxN, maxV, maxM float64) {
	for _, s := range stations {
		maxN = math.Max(maxN, math.Abs(s.N))
		maxV = math.Max(maxV, math.Abs(s.V))
		maxM = math.Max(maxM, math.Abs(s.M))
	}
	maxN = math.Max(maxN, 1e-10)
	maxV = math.Max(maxV, 1e-10)
	maxM = math.Max(maxM, 1e-10)
	return
}
