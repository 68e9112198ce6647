// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package check implements the EN 1993-1-1 steel and EN 1992-1-1 concrete
// member checks of spec §4.H, structured the way the pack's alexiusacademia
// gorcb reinforced-concrete-beam checker is structured: an input struct
// carrying section/material/force data, a Check method, and a result struct
// of intermediate ratios plus a final unity check and status message.
package check

import (
	"math"

	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/model"
)

// SteelGrade is a structural steel grade (spec §4.H.1 ISteelGrade).
type SteelGrade struct {
	Fy      float64 // yield strength, Pa
	GammaM0 float64
	GammaM1 float64
}

// SteelSectionForces are the design forces a beam hands to the steel check:
// the end values at both member ends plus the governing envelope extremes
// from the internal-force diagram (spec §4.H.1: "design forces taken as
// max(|N1|,|N2|,|maxN|) etc.").
type SteelSectionForces struct {
	N1, N2, MaxN float64
	V1, V2, MaxV float64
	M1, M2, MaxM float64
}

func (f SteelSectionForces) designN() float64 { return max3(math.Abs(f.N1), math.Abs(f.N2), math.Abs(f.MaxN)) }
func (f SteelSectionForces) designV() float64 { return max3(math.Abs(f.V1), math.Abs(f.V2), math.Abs(f.MaxV)) }
func (f SteelSectionForces) designM() float64 { return max3(math.Abs(f.M1), math.Abs(f.M2), math.Abs(f.MaxM)) }

func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }

// bucklingCurveAlpha: imperfection factors of EN 1993-1-1 Table 6.1.
var bucklingCurveAlpha = map[string]float64{"a0": 0.13, "a": 0.21, "b": 0.34, "c": 0.49, "d": 0.76}

// SteelCheckInput gathers everything the steel check needs for one member.
type SteelCheckInput struct {
	Section       model.BeamSection
	Grade         SteelGrade
	E             float64 // elastic modulus, Pa
	Forces        SteelSectionForces
	L             float64 // member length, m
	MaxDeflection float64 // optional: |δ_max| over the member, m; 0 = not checked
	LimitDivisor  float64 // deflection limit L/LimitDivisor; 0 defaults to 250
}

// SteelCheckResult is the full set of cross-section/stability/SLS unity
// checks plus the governing one (spec §4.H.1).
type SteelCheckResult struct {
	NtRd, NcRd, McRd, VcRd float64

	UCN, UCV, UCM, UCMN, UCMV float64

	BucklingApplicable bool
	NcrBuckling        float64
	LambdaBarBuckling  float64
	ChiBuckling        float64
	NbRd               float64
	UCBuckling         float64

	LTBApplicable bool
	McrLTB        float64
	LambdaBarLTB  float64
	ChiLTB        float64
	MbRd          float64
	UCLTB         float64

	DeflectionApplicable bool
	UCDeflection         float64

	GoverningName  string
	GoverningValue float64
	Status         string // "OK" or "FAIL"
}

// CheckSteel runs the full EN 1993-1-1 unity-check suite for one member
// (spec §4.H.1). Section data insufficient for LTB/buckling yields
// "not applicable" for that check rather than failing the whole suite
// (spec §7, KindCheck semantics).
func CheckSteel(in SteelCheckInput) (*SteelCheckResult, error) {
	sec := in.Section
	sec.DeriveSecondary()
	if sec.A <= 0 || sec.I <= 0 {
		return nil, model.CheckErrorf("steel check: section A/I not available")
	}
	fy, gm0, gm1 := in.Grade.Fy, in.Grade.GammaM0, in.Grade.GammaM1
	if gm0 == 0 {
		gm0 = 1.0
	}
	if gm1 == 0 {
		gm1 = 1.0
	}

	r := &SteelCheckResult{}

	wel := sec.Wy
	if wel == 0 && sec.H > 0 {
		wel = sec.I / (sec.H / 2)
	}
	av := 0.6 * sec.A
	if sec.ShapeType == "I" || sec.ShapeType == "i" || sec.ShapeType == "ipe" || sec.ShapeType == "IPE" {
		hw := sec.H - 2*sec.Tf
		av = math.Max(hw*sec.Tw, 0.5*sec.A)
	}

	r.NtRd = sec.A * fy / gm0
	r.NcRd = sec.A * fy / gm0
	r.McRd = wel * fy / gm0
	r.VcRd = av * (fy / math.Sqrt(3)) / gm0

	ned, ved, med := in.Forces.designN(), in.Forces.designV(), in.Forces.designM()

	r.UCN = safeDiv(ned, r.NcRd)
	r.UCV = safeDiv(ved, r.VcRd)
	r.UCM = safeDiv(med, r.McRd)
	r.UCMN = r.UCN + r.UCM

	if ved > 0.5*r.VcRd {
		rho := math.Pow(2*ved/r.VcRd-1, 2)
		mvRd := r.McRd * (1 - rho)
		r.UCMV = safeDiv(med, mvRd)
	} else {
		r.UCMV = r.UCM
	}

	checks := []namedCheck{
		{"Axial (6.2.3/6.2.4)", r.UCN},
		{"Shear (6.2.6)", r.UCV},
		{"Bending (6.2.5)", r.UCM},
		{"N-M interaction (6.2.8)", r.UCMN},
		{"M-V interaction (6.2.10)", r.UCMV},
	}

	E := in.E
	if E == 0 {
		E = 210e9
	}

	if ned > 0 && in.L > 0 {
		r.BucklingApplicable = true
		Ncr := math.Pi * math.Pi * E * sec.I / (in.L * in.L)
		r.NcrBuckling = Ncr
		lambdaBar := math.Sqrt(sec.A * fy / Ncr)
		r.LambdaBarBuckling = lambdaBar
		curve := bucklingCurve(sec)
		alpha := bucklingCurveAlpha[curve]
		phi := 0.5 * (1 + alpha*(lambdaBar-0.2) + lambdaBar*lambdaBar)
		chi := 1 / (phi + math.Sqrt(math.Max(phi*phi-lambdaBar*lambdaBar, 0)))
		if chi > 1 {
			chi = 1
		}
		r.ChiBuckling = chi
		r.NbRd = chi * sec.A * fy / gm1
		r.UCBuckling = safeDiv(ned, r.NbRd)
		checks = append(checks, namedCheck{"Flexural buckling (6.3.1)", r.UCBuckling})
	}

	if med > 0 && in.L > 0 && sec.Iz > 0 && sec.It > 0 && sec.Iw > 0 {
		r.LTBApplicable = true
		const G = 81e9
		kL := in.L
		Mcr := math.Pi * math.Pi * E * sec.Iz / (kL * kL) *
			math.Sqrt(sec.Iw/sec.Iz+(kL*kL*G*sec.It)/(math.Pi*math.Pi*E*sec.Iz))
		r.McrLTB = Mcr
		lambdaBar := math.Sqrt(wel * fy / Mcr)
		r.LambdaBarLTB = lambdaBar
		curve := "a"
		if sec.H > 0 && sec.B > 0 && sec.H/sec.B <= 2 {
			curve = "b"
		}
		alpha := bucklingCurveAlpha[curve]
		phi := 0.5 * (1 + alpha*(lambdaBar-0.2) + lambdaBar*lambdaBar)
		chi := 1 / (phi + math.Sqrt(math.Max(phi*phi-lambdaBar*lambdaBar, 0)))
		if chi > 1 {
			chi = 1
		}
		r.ChiLTB = chi
		r.MbRd = chi * wel * fy / gm1
		r.UCLTB = safeDiv(med, r.MbRd)
		checks = append(checks, namedCheck{"Lateral-torsional buckling (6.3.2)", r.UCLTB})
	}

	if in.MaxDeflection != 0 && in.L > 0 {
		r.DeflectionApplicable = true
		divisor := in.LimitDivisor
		if divisor == 0 {
			divisor = 250
		}
		r.UCDeflection = math.Abs(in.MaxDeflection) / (in.L / divisor)
		checks = append(checks, namedCheck{"Deflection (SLS)", r.UCDeflection})
	}

	r.GoverningName, r.GoverningValue = governing(checks)
	r.Status = "OK"
	if r.GoverningValue > 1.0 {
		r.Status = "FAIL"
	}
	return r, nil
}

// bucklingCurve picks the EN 1993-1-1 Table 6.2 buckling curve from the
// section's h/b ratio and flange thickness, approximated for I-sections:
// for h/b>1.2, curve a when tf<=40mm and curve b otherwise; for h/b<=1.2,
// curve b when tf<=100mm and curve c otherwise; curve b when b is unknown.
func bucklingCurve(sec model.BeamSection) string {
	if sec.B <= 0 {
		return "b"
	}
	ratio := sec.H / sec.B
	if ratio > 1.2 {
		if sec.Tf <= 0.04 {
			return "a"
		}
		return "b"
	}
	if sec.Tf <= 0.1 {
		return "b"
	}
	return "c"
}

// namedCheck pairs a clause label with its unity-check value; checks are
// kept in a fixed, clause-ordered slice (rather than a map) so that ties
// resolve deterministically to the earlier-listed clause.
type namedCheck struct {
	name  string
	value float64
}

func governing(checks []namedCheck) (string, float64) {
	name, value := "", 0.0
	for i, c := range checks {
		if i == 0 || c.value > value {
			name, value = c.name, c.value
		}
	}
	return name, value
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
