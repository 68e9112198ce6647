// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package project is the JSON project-file codec and UI result-payload
// builder (spec §6). No JSON library appears anywhere in the retrieved
// pack, so this is the one ambient concern built directly on
// encoding/json; every other concern keeps a pack library (see
// DESIGN.md).
package project

import "github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/model"

// SupportedVersion is the only project-file version this codec accepts
// (spec §6: "deserialisation must accept version 1.0.0").
const SupportedVersion = "1.0.0"

// Document is the top-level project file (spec §6).
type Document struct {
	Version          string            `json:"version"`
	ProjectInfo      ProjectInfo       `json:"projectInfo"`
	Mesh             Mesh              `json:"mesh"`
	LoadCases        []LoadCaseDTO     `json:"loadCases"`
	LoadCombinations []CombinationDTO  `json:"loadCombinations"`
	StructuralGrid   *StructuralGrid   `json:"structuralGrid,omitempty"`
}

// ProjectInfo is free-form metadata about the project, opaque to the solver.
type ProjectInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	Units       string `json:"units,omitempty"`
}

// StructuralGrid is UI snapping metadata, passed through untouched.
type StructuralGrid struct {
	OriginX          float64   `json:"originX"`
	OriginY          float64   `json:"originY"`
	SpacingX         []float64 `json:"spacingX,omitempty"`
	SpacingY         []float64 `json:"spacingY,omitempty"`
}

// Mesh is the serialised form of the Model's entity arenas (spec §6).
type Mesh struct {
	Nodes        []NodeDTO         `json:"nodes"`
	Elements     []ElementDTO      `json:"elements"`
	BeamElements []BeamElementDTO  `json:"beamElements"`
	Materials    []MaterialDTO     `json:"materials"`
	Sections     []SectionDTO      `json:"sections"`
	PlateRegions []PlateRegionDTO  `json:"plateRegions"`
	SubNodes     []SubNodeDTO      `json:"subNodes"`
	Edges        []EdgeDTO         `json:"edges,omitempty"`
}

// NodeDTO is the wire form of model.Node.
type NodeDTO struct {
	Id          int            `json:"id"`
	X           float64        `json:"x"`
	Y           float64        `json:"y"`
	Constraints ConstraintsDTO `json:"constraints"`
	Loads       NodeLoadsDTO   `json:"loads"`
}

// ConstraintsDTO is the wire form of model.NodeConstraints.
type ConstraintsDTO struct {
	X         bool     `json:"x"`
	Y         bool     `json:"y"`
	Rotation  bool     `json:"rotation"`
	SpringX   *float64 `json:"spring_x,omitempty"`
	SpringY   *float64 `json:"spring_y,omitempty"`
	SpringRot *float64 `json:"spring_rot,omitempty"`
}

// NodeLoadsDTO is the wire form of model.NodeLoads.
type NodeLoadsDTO struct {
	Fx     float64  `json:"fx"`
	Fy     float64  `json:"fy"`
	Moment float64  `json:"moment"`
	Fz     *float64 `json:"fz,omitempty"`
}

// MaterialDTO is the wire form of model.Material.
type MaterialDTO struct {
	Id    int     `json:"id"`
	E     float64 `json:"E"`
	Nu    float64 `json:"nu"`
	Rho   float64 `json:"rho"`
	Alpha float64 `json:"alpha,omitempty"`
}

// SectionDTO names a reusable BeamSection (spec §6: "sections[{name, section}]").
type SectionDTO struct {
	Name    string            `json:"name"`
	Section BeamSectionDTO    `json:"section"`
}

// BeamSectionDTO is the wire form of model.BeamSection.
type BeamSectionDTO struct {
	A                      float64 `json:"A"`
	I                      float64 `json:"I"`
	H                      float64 `json:"h"`
	B                      float64 `json:"b,omitempty"`
	Tw                     float64 `json:"tw,omitempty"`
	Tf                     float64 `json:"tf,omitempty"`
	Iz                     float64 `json:"Iz,omitempty"`
	Wy                     float64 `json:"Wy,omitempty"`
	Wz                     float64 `json:"Wz,omitempty"`
	Wply                   float64 `json:"Wply,omitempty"`
	Wplz                   float64 `json:"Wplz,omitempty"`
	It                     float64 `json:"It,omitempty"`
	Iw                     float64 `json:"Iw,omitempty"`
	ShapeType              string  `json:"shapeType,omitempty"`
	ProfileName            string  `json:"profileName,omitempty"`
}

// BeamElementDTO is the wire form of model.BeamElement.
type BeamElementDTO struct {
	Id              int                    `json:"id"`
	NodeIds         [2]int                 `json:"node_ids"`
	MaterialId      int                    `json:"material_id"`
	Section         BeamSectionDTO         `json:"section"`
	ProfileName     string                 `json:"profile_name,omitempty"`
	DistributedLoad *DistributedLoadDTO    `json:"distributed_load,omitempty"`
	PointLoads      []PointLoadOnBeamDTO   `json:"point_loads,omitempty"`
	EndReleases     *EndReleasesDTO        `json:"end_releases,omitempty"`
	ThermalLoad     *ThermalLoadDTO        `json:"thermal_load,omitempty"`
}

// DistributedLoadDTO is the wire form of model.DistributedLoadSpec.
type DistributedLoadDTO struct {
	QxStart          float64 `json:"qx_start"`
	QyStart          float64 `json:"qy_start"`
	QxEnd            float64 `json:"qx_end,omitempty"`
	QyEnd            float64 `json:"qy_end,omitempty"`
	StartT           float64 `json:"start_t"`
	EndT             float64 `json:"end_t"`
	CoordSystem      string  `json:"coord_system"` // "local" or "global"
}

// PointLoadOnBeamDTO is the wire form of model.PointLoadOnBeam.
type PointLoadOnBeamDTO struct {
	T         float64 `json:"t"`
	Fx        float64 `json:"fx"`
	Fy        float64 `json:"fy"`
	LocalAxes bool    `json:"local_axes,omitempty"`
}

// EndReleasesDTO is the wire form of model.EndReleases.
type EndReleasesDTO struct {
	StartMoment bool `json:"start_moment,omitempty"`
	EndMoment   bool `json:"end_moment,omitempty"`
	StartAxial  bool `json:"start_axial,omitempty"`
	EndAxial    bool `json:"end_axial,omitempty"`
	StartShear  bool `json:"start_shear,omitempty"`
	EndShear    bool `json:"end_shear,omitempty"`
}

// ThermalLoadDTO is the wire form of model.ThermalLoad.
type ThermalLoadDTO struct {
	DeltaT     float64 `json:"delta_t,omitempty"`
	DeltaTTop  float64 `json:"delta_t_top,omitempty"`
	DeltaTBot  float64 `json:"delta_t_bot,omitempty"`
	IsGradient bool    `json:"is_gradient,omitempty"`
}

// ElementDTO is the wire form of a triangle or quad (discriminated by
// len(NodeIds)).
type ElementDTO struct {
	Id         int     `json:"id"`
	NodeIds    []int   `json:"node_ids"`
	MaterialId int     `json:"material_id"`
	Thickness  float64 `json:"thickness"`
}

// PlateRegionDTO is the wire form of model.PlateRegion.
type PlateRegionDTO struct {
	Id            int            `json:"id"`
	Bbox          [4]float64     `json:"bbox"` // x0,y0,x1,y1
	DivisionsX    int            `json:"divisions_x"`
	DivisionsY    int            `json:"divisions_y"`
	MaterialId    int            `json:"material_id"`
	Thickness     float64        `json:"thickness"`
	ElementType   string         `json:"element_type"`
	NodeIds       []int          `json:"node_ids"`
	CornerNodeIds [4]int         `json:"corner_node_ids"`
	ElementIds    []int          `json:"element_ids"`
	Edges         PlateEdgesDTO  `json:"edges"`
	IsPolygon     bool           `json:"is_polygon,omitempty"`
	Polygon       [][2]float64   `json:"polygon,omitempty"`
	Voids         [][][2]float64 `json:"voids,omitempty"`
}

// PlateEdgesDTO is the wire form of model.PlateEdges.
type PlateEdgesDTO struct {
	Bottom []int `json:"bottom"`
	Top    []int `json:"top"`
	Left   []int `json:"left"`
	Right  []int `json:"right"`
}

// SubNodeDTO is the wire form of model.SubNode.
type SubNodeDTO struct {
	Id                int     `json:"id"`
	BeamId            int     `json:"beam_id"`
	T                 float64 `json:"t"`
	NodeId            int     `json:"node_id"`
	OriginalBeamStart int     `json:"original_beam_start"`
	OriginalBeamEnd   int     `json:"original_beam_end"`
	ChildBeamIds      [2]int  `json:"child_beam_ids"`
}

// EdgeDTO is pass-through UI wireframe/snap metadata, not consumed by the solver.
type EdgeDTO struct {
	NodeIds [2]int `json:"node_ids"`
}

// NodePointLoadEntryDTO is the wire form of model.NodePointLoadEntry.
type NodePointLoadEntryDTO struct {
	NodeId         int     `json:"node_id"`
	Fx             float64 `json:"fx"`
	Fy             float64 `json:"fy"`
	Moment         float64 `json:"moment"`
}

// BeamDistributedLoadEntryDTO is the wire form of model.BeamDistributedLoadEntry.
type BeamDistributedLoadEntryDTO struct {
	BeamId int                 `json:"beam_id"`
	Spec   DistributedLoadDTO  `json:"spec"`
}

// BeamThermalLoadEntryDTO is the wire form of model.BeamThermalLoadEntry.
type BeamThermalLoadEntryDTO struct {
	BeamId int             `json:"beam_id"`
	Load   ThermalLoadDTO  `json:"load"`
}

// LoadCaseDTO is the wire form of model.LoadCase.
type LoadCaseDTO struct {
	Id               int                            `json:"id"`
	Name             string                         `json:"name"`
	Type             string                         `json:"type"`
	Color            string                         `json:"color,omitempty"`
	PointLoads       []NodePointLoadEntryDTO        `json:"point_loads,omitempty"`
	DistributedLoads []BeamDistributedLoadEntryDTO  `json:"distributed_loads,omitempty"`
	ThermalLoads     []BeamThermalLoadEntryDTO      `json:"thermal_loads,omitempty"`
}

// CombinationDTO is the wire form of model.LoadCombination. Factors
// serialise as an array of [load_case_id, factor] pairs rather than a JSON
// object, since JSON object keys are strings and the model keys by int
// (spec §6: "loadCombinations serialise factors as an array of
// [load_case_id, factor] pairs").
type CombinationDTO struct {
	Id      int         `json:"id"`
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	Factors [][2]float64 `json:"factors"`
}
