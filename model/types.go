// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model holds the entity store for a 2D framed/planar structure:
// nodes, materials, sections, beam and continuum elements, plate-meshing
// regions and reversible mid-span sub-nodes. It is the analogue of gofem's
// inp+domain arena, narrowed to linear-static 2D frame/plate analysis.
package model

import "math"

// NodeConstraints flags which DOFs of a Node are restrained, and carries the
// optional spring stiffness that replaces a rigid restraint on that DOF.
type NodeConstraints struct {
	X, Y, Rotation bool

	SpringX   *float64
	SpringY   *float64
	SpringRot *float64
}

// NodeLoads are the nodal point actions applied directly at a Node.
type NodeLoads struct {
	Fx, Fy, Moment float64
	Fz             float64 // out-of-plane, used by plate-bending analyses
}

// Node is a point in the model. Ids are allocated densely within a sequence;
// "plate" nodes (created by PlateRegion meshing) reserve ids >= PlateNodeBase
// as a second, independent sequence (spec §3).
type Node struct {
	Id          int
	X, Y        float64
	Constraints NodeConstraints
	Loads       NodeLoads
}

// PlateNodeBase is the first id reserved for the plate-node id sequence.
const PlateNodeBase = 1000

// Material is an isotropic elastic material. E > 0, -1 < Nu < 0.5.
type Material struct {
	Id    int
	E     float64
	Nu    float64
	Rho   float64
	Alpha float64 // thermal expansion coefficient, optional (zero if unused)
}

// FirstUserMaterialId is where user-defined material ids start; ids below it
// are reserved for materials seeded at Model construction.
const FirstUserMaterialId = 10

// BeamSection holds the cross-section properties used by the Euler-Bernoulli
// beam kernel and by the steel code checks. Secondary properties that are
// left zero are derived lazily from ShapeType when a kernel or check needs
// them (see DeriveSecondary).
type BeamSection struct {
	A  float64 // area
	I  float64 // Iy, strong-axis second moment (bending in the model plane)
	H  float64 // section depth
	B  float64 // section width, optional
	Tw float64 // web thickness, optional
	Tf float64 // flange thickness, optional

	Iz   float64 // weak-axis second moment, optional
	Wy   float64 // elastic section modulus about y, optional
	Wz   float64 // elastic section modulus about z, optional
	Wply float64 // plastic section modulus about y, optional
	Wplz float64 // plastic section modulus about z, optional
	It   float64 // torsion constant, optional
	Iw   float64 // warping constant, optional

	ShapeType   string // "I", "rect", "circular", ... used for lazy derivation
	ProfileName string
}

// Valid reports whether the mandatory section properties are physically
// admissible (spec §3: A>0, I>0, H>0).
func (s *BeamSection) Valid() bool {
	return s.A > 0 && s.I > 0 && s.H > 0
}

// DeriveSecondary fills in Wy, Iz, It, Iw from geometry when missing and
// ShapeType gives enough information; unknown shapes are left untouched so
// callers can treat the quantity as "not applicable" (spec §9).
func (s *BeamSection) DeriveSecondary() {
	if s.Wy == 0 && s.H > 0 {
		s.Wy = s.I / (s.H / 2)
	}
	switch s.ShapeType {
	case "I", "i", "ipe", "IPE":
		if s.Iz == 0 && s.B > 0 && s.Tf > 0 {
			s.Iz = 2 * (s.Tf * math.Pow(s.B, 3) / 12)
		}
		if s.It == 0 && s.B > 0 && s.Tf > 0 && s.Tw > 0 {
			hw := s.H - 2*s.Tf
			s.It = (2*s.B*math.Pow(s.Tf, 3) + hw*math.Pow(s.Tw, 3)) / 3
		}
		if s.Iw == 0 && s.Iz > 0 && s.H > 0 {
			s.Iw = s.Iz * math.Pow(s.H-s.Tf, 2) / 4
		}
	}
}

// DistributedLoadSpec describes a uniform, trapezoidal or partial-span
// distributed load on a beam, in either the local or global axis system.
type DistributedLoadSpec struct {
	QxStart, QyStart float64
	QxEnd, QyEnd     float64 // used as given: zero end values make the load ramp down to zero at EndT
	StartT, EndT     float64 // fractional positions in [0,1], EndT > StartT
	Global           bool    // true: qx/qy given in global axes; false: local axes
}

// FullSpan reports whether the load spans the whole element.
func (d *DistributedLoadSpec) FullSpan() bool { return d.StartT <= 1e-12 && d.EndT >= 1-1e-12 }

// Trapezoidal reports whether the end intensities differ from the start ones.
func (d *DistributedLoadSpec) Trapezoidal() bool {
	return d.QxEnd != d.QxStart || d.QyEnd != d.QyStart
}

// PointLoadOnBeam is a point load applied at a fractional position along a beam.
type PointLoadOnBeam struct {
	T          float64 // fraction in (0,1)
	Fx, Fy     float64
	LocalAxes  bool
}

// EndReleases marks which local DOFs at each end of a beam are released
// (hinged). Axial releases model tension/compression-only behaviour as a
// full release of the axial DOF (spec §4.C.1).
type EndReleases struct {
	StartMoment, EndMoment bool
	StartAxial, EndAxial   bool
	StartShear, EndShear   bool
}

// Any reports whether at least one DOF is released.
func (r *EndReleases) Any() bool {
	if r == nil {
		return false
	}
	return r.StartMoment || r.EndMoment || r.StartAxial || r.EndAxial || r.StartShear || r.EndShear
}

// ThermalLoad is a uniform or through-depth-gradient temperature load on a beam.
type ThermalLoad struct {
	DeltaT     float64 // uniform temperature change
	DeltaTTop  float64 // gradient: top-fibre change
	DeltaTBot  float64 // gradient: bottom-fibre change
	IsGradient bool
}

// BeamElement is a 2-node Euler-Bernoulli frame element.
type BeamElement struct {
	Id              int
	NodeIds         [2]int
	MaterialId      int
	Section         BeamSection
	ProfileName     string
	DistributedLoad *DistributedLoadSpec
	PointLoads      []PointLoadOnBeam
	EndReleases     *EndReleases
	ThermalLoad     *ThermalLoad
}

// TriangleElement is a 3-node constant-strain-triangle plane element.
type TriangleElement struct {
	Id         int
	NodeIds    [3]int
	MaterialId int
	Thickness  float64
}

// QuadElement is a 4-node isoparametric plane element; NodeIds must be
// convex and wound anti-clockwise.
type QuadElement struct {
	Id         int
	NodeIds    [4]int
	MaterialId int
	Thickness  float64
}

// PlateEdges names the four generated-element edges of a rectangular
// PlateRegion mesh, for load application / boundary tagging by the UI layer.
type PlateEdges struct {
	Bottom, Top, Left, Right []int
}

// PlateRegion is meshing metadata: it records the rectangular (or polygonal)
// region, the division counts, and the generated node/element ids so the
// region can be edited or deleted as a unit.
type PlateRegion struct {
	Id            int
	BBoxX0, BBoxY0 float64
	BBoxX1, BBoxY1 float64
	DivisionsX    int
	DivisionsY    int
	MaterialId    int
	Thickness     float64
	ElementType   string // "triangle", "quad", "dkt"
	NodeIds       []int
	CornerNodeIds [4]int
	ElementIds    []int
	Edges         PlateEdges
	IsPolygon     bool
	Polygon       [][2]float64
	Voids         [][][2]float64
}

// SubNode records a reversible mid-span split of a beam: the original beam
// (now deleted) is replaced by two child beams meeting at NodeId.
type SubNode struct {
	Id                int
	BeamId            int // original beam id, kept for identity/history
	T                 float64
	NodeId            int
	OriginalBeamStart int
	OriginalBeamEnd   int
	ChildBeamIds      [2]int
}

// LoadCaseType classifies a LoadCase for UI grouping and combination typing.
type LoadCaseType string

const (
	LoadCaseDead    LoadCaseType = "dead"
	LoadCaseLive    LoadCaseType = "live"
	LoadCaseWind    LoadCaseType = "wind"
	LoadCaseSnow    LoadCaseType = "snow"
	LoadCaseThermal LoadCaseType = "thermal"
	LoadCaseUser    LoadCaseType = "user"
)

// NodePointLoadEntry is one nodal-load record inside a LoadCase.
type NodePointLoadEntry struct {
	NodeId         int
	Fx, Fy, Moment float64
}

// BeamDistributedLoadEntry is one distributed-load record inside a LoadCase.
type BeamDistributedLoadEntry struct {
	BeamId int
	Spec   DistributedLoadSpec
}

// BeamThermalLoadEntry is one thermal-load record inside a LoadCase.
type BeamThermalLoadEntry struct {
	BeamId int
	Load   ThermalLoad
}

// LoadCase is a named group of load records that can be applied to the mesh
// or combined with factors into a LoadCombination (spec §3, §4.G).
type LoadCase struct {
	Id                int
	Name              string
	Type              LoadCaseType
	Color             string
	PointLoads        []NodePointLoadEntry
	DistributedLoads  []BeamDistributedLoadEntry
	ThermalLoads      []BeamThermalLoadEntry
}

// CombinationType distinguishes ultimate from serviceability combinations.
type CombinationType string

const (
	CombinationULS CombinationType = "ULS"
	CombinationSLS CombinationType = "SLS"
)

// LoadCombination is a factored sum of LoadCases.
type LoadCombination struct {
	Id      int
	Name    string
	Type    CombinationType
	Factors map[int]float64 // load case id -> factor
}
