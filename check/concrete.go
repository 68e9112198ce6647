// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

import (
	"math"

	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/model"
)

// ConcreteGrade is a concrete strength class (spec §4.H.2 IConcreteGrade).
type ConcreteGrade struct {
	Fck  float64 // characteristic cylinder strength, Pa
	Fcd  float64 // design compressive strength, Pa
	Fctm float64 // mean tensile strength, Pa
	Ecm  float64 // secant modulus, Pa
}

// ReinforcementGrade is a reinforcing steel grade (spec §4.H.2
// IReinforcementGrade).
type ReinforcementGrade struct {
	Fyk float64 // characteristic yield strength, Pa
	Fyd float64 // design yield strength, Pa
	Es  float64 // elastic modulus, Pa
}

// ConcreteSection is the rectangular beam section geometry the concrete
// checks operate on (spec §4.H.2: "{b, h, d, cover}").
type ConcreteSection struct {
	B, H, D, Cover float64
}

// barDiameters are the tabulated bar diameters (mm) used to suggest a
// reinforcement arrangement once As is known.
var barDiameters = []float64{0.008, 0.010, 0.012, 0.016, 0.020, 0.025, 0.032}

// ConcreteCheckInput gathers everything the concrete checks need for one
// member.
type ConcreteCheckInput struct {
	Section ConcreteSection
	Grade   ConcreteGrade
	Rebar   ReinforcementGrade
	Forces  SteelSectionForces // reuses the N/V/M envelope shape
	Phi     float64            // assumed bar diameter, m (0 defaults to 0.016)
	AlphaE  float64            // Es/Ecm modular ratio; 0 computed from grades
	Mcr     float64            // cracking moment, Nm; 0 = cracked-stiffness check skipped
	LongTerm bool              // selects beta=0.5 (long-term) vs 1.0 (short-term)
}

// ConcreteCheckResult is the bending-reinforcement, shear, crack-width and
// cracked-section-stiffness output (spec §4.H.2).
type ConcreteCheckResult struct {
	Mu              float64 // relative moment
	DuctilityFailed bool
	Omega           float64
	AsReq, AsMin    float64
	AsDesign        float64
	SuggestedBarDia float64
	SuggestedCount  int

	VRdc float64
	UCShear float64

	SigmaS     float64
	SrMax      float64
	StrainDiff float64
	Wk         float64
	WkLimit    float64
	CrackOK    bool

	Zeta   float64
	IEff   float64
	EIeff  float64

	Status string
}

// CheckConcrete runs the EN 1992-1-1 checks of spec §4.H.2 for one member.
func CheckConcrete(in ConcreteCheckInput) (*ConcreteCheckResult, error) {
	s := in.Section
	if s.B <= 0 || s.D <= 0 {
		return nil, model.CheckErrorf("concrete check: section b/d not available")
	}
	g, rb := in.Grade, in.Rebar
	if g.Fcd == 0 || rb.Fyd == 0 {
		return nil, model.CheckErrorf("concrete check: design strengths not available")
	}

	r := &ConcreteCheckResult{}
	med := max3(math.Abs(in.Forces.M1), math.Abs(in.Forces.M2), math.Abs(in.Forces.MaxM))
	ved := max3(math.Abs(in.Forces.V1), math.Abs(in.Forces.V2), math.Abs(in.Forces.MaxV))

	// --- bending reinforcement ---
	mu := med / (s.B * s.D * s.D * g.Fcd)
	r.Mu = mu
	if mu > 0.295 {
		r.DuctilityFailed = true
		r.Omega = 0.295
	} else {
		r.Omega = 1 - math.Sqrt(1-2*mu)
	}
	r.AsReq = r.Omega * s.B * s.D * g.Fcd / rb.Fyd
	r.AsMin = math.Max(0.26*g.Fctm/rb.Fyk*s.B*s.D, 0.0013*s.B*s.D)
	r.AsDesign = math.Max(r.AsReq, r.AsMin)
	r.SuggestedBarDia, r.SuggestedCount = suggestBars(r.AsDesign)

	// --- shear resistance, no stirrups (6.2.2) ---
	k := math.Min(1+math.Sqrt(0.2/s.D), 2)
	rhoL := math.Min(r.AsDesign/(s.B*s.D), 0.02)
	cRdc := 0.18 / 1.5
	vmin := 0.035 * math.Pow(k, 1.5) * math.Sqrt(g.Fck)
	vRdc := math.Max(cRdc*k*math.Pow(100*rhoL*g.Fck, 1.0/3), vmin) * s.B * s.D
	r.VRdc = vRdc
	r.UCShear = safeDiv(ved, vRdc)

	// --- crack width (7.3.4) ---
	phi := in.Phi
	if phi == 0 {
		phi = 0.016
	}
	const k1, k2, kt = 0.8, 0.5, 0.4
	acEff := s.B * math.Min(2.5*(s.H-s.D), s.H/2)
	rhoPEff := r.AsDesign / acEff
	z := 0.9 * s.D
	sigmaS := med / (r.AsDesign * z)
	r.SigmaS = sigmaS
	srMax := 3.4*s.Cover + 0.425*k1*k2*phi/rhoPEff
	r.SrMax = srMax
	alphaE := in.AlphaE
	if alphaE == 0 && g.Ecm > 0 {
		alphaE = rb.Es / g.Ecm
	}
	strainDiff := math.Max(sigmaS-kt*g.Fctm/rhoPEff*(1+alphaE*rhoPEff), 0.6*sigmaS) / rb.Es
	r.StrainDiff = strainDiff
	r.Wk = srMax * strainDiff
	r.WkLimit = 0.0003
	r.CrackOK = r.Wk <= r.WkLimit

	// --- cracked-section stiffness (tension stiffening) ---
	if in.Mcr > 0 && med > 0 {
		beta := 1.0
		if in.LongTerm {
			beta = 0.5
		}
		zeta := 1 - beta*math.Pow(in.Mcr/med, 2)
		zeta = math.Max(0, math.Min(1, zeta))
		r.Zeta = zeta
		iUnc := s.B * math.Pow(s.H, 3) / 12
		iCr := crackedMomentOfInertia(s, r.AsDesign, alphaE)
		iEff := 1 / (zeta/iCr + (1-zeta)/iUnc)
		if iEff > iUnc {
			iEff = iUnc
		}
		r.IEff = iEff
		r.EIeff = g.Ecm * iEff
	}

	r.Status = "OK"
	if r.DuctilityFailed || r.UCShear > 1.0 || !r.CrackOK {
		r.Status = "FAIL"
	}
	return r, nil
}

// crackedMomentOfInertia approximates I_cr for a singly reinforced
// rectangular section via the transformed-section neutral axis.
func crackedMomentOfInertia(s ConcreteSection, as, alphaE float64) float64 {
	if alphaE == 0 {
		alphaE = 6
	}
	// c solves 0.5*b*c^2 = alphaE*as*(d-c)
	aCoef, bCoef, cCoef := 0.5*s.B, alphaE*as, -alphaE*as*s.D
	c := (-bCoef + math.Sqrt(bCoef*bCoef-4*aCoef*cCoef)) / (2 * aCoef)
	return s.B*math.Pow(c, 3)/3 + alphaE*as*math.Pow(s.D-c, 2)
}

func suggestBars(as float64) (float64, int) {
	for _, dia := range barDiameters {
		area := math.Pi / 4 * dia * dia
		n := math.Ceil(as / area)
		if n <= 8 {
			return dia, int(n)
		}
	}
	last := barDiameters[len(barDiameters)-1]
	area := math.Pi / 4 * last * last
	return last, int(math.Ceil(as / area))
}
