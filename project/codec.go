// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

import (
	"encoding/json"

	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/model"
)

// versionLoaders maps a project file's declared version to the loader that
// understands it. Only "1.0.0" exists today; a future format bump adds a
// sibling LoadVersionN plus an entry here, rather than growing a branch
// inside Decode.
var versionLoaders = map[string]func(Document) (*model.Model, []*model.LoadCombination, error){
	SupportedVersion: LoadVersion1,
}

// Decode parses a project file and dispatches to the loader registered for
// its declared version (spec §6).
func Decode(data []byte) (*model.Model, []*model.LoadCombination, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, model.ValidationErrorf("project file: invalid JSON: %v", err)
	}
	load, ok := versionLoaders[doc.Version]
	if !ok {
		return nil, nil, model.ValidationErrorf("project file: unsupported version %q, expected %q", doc.Version, SupportedVersion)
	}
	return load(doc)
}

// LoadVersion1 builds a Model plus its load cases and combinations from a
// version "1.0.0" Document (spec §6). Entity ids are restored exactly as
// serialised, then every allocation sequence is reset to max(id)+1 per kind
// (and the plate-node sequence to max(node id >= 1000)+1, falling back to
// 1000).
func LoadVersion1(doc Document) (*model.Model, []*model.LoadCombination, error) {
	m := model.NewModel()

	sections := make(map[string]model.BeamSection, len(doc.Mesh.Sections))
	for _, s := range doc.Mesh.Sections {
		sections[s.Name] = toBeamSection(s.Section)
	}

	for _, n := range doc.Mesh.Nodes {
		m.RestoreNode(toNode(n))
	}
	for _, mat := range doc.Mesh.Materials {
		m.RestoreMaterial(&model.Material{Id: mat.Id, E: mat.E, Nu: mat.Nu, Rho: mat.Rho, Alpha: mat.Alpha})
	}
	for _, b := range doc.Mesh.BeamElements {
		m.RestoreBeam(toBeamElement(b))
	}
	for _, e := range doc.Mesh.Elements {
		switch len(e.NodeIds) {
		case 3:
			var ids [3]int
			copy(ids[:], e.NodeIds)
			m.RestoreTriangle(&model.TriangleElement{Id: e.Id, NodeIds: ids, MaterialId: e.MaterialId, Thickness: e.Thickness})
		case 4:
			var ids [4]int
			copy(ids[:], e.NodeIds)
			m.RestoreQuad(&model.QuadElement{Id: e.Id, NodeIds: ids, MaterialId: e.MaterialId, Thickness: e.Thickness})
		default:
			return nil, nil, model.ValidationErrorf("project file: element %d has %d node ids, expected 3 or 4", e.Id, len(e.NodeIds))
		}
	}
	for _, p := range doc.Mesh.PlateRegions {
		m.RestorePlateRegion(toPlateRegion(p))
	}
	for _, s := range doc.Mesh.SubNodes {
		m.RestoreSubNode(&model.SubNode{
			Id: s.Id, BeamId: s.BeamId, T: s.T, NodeId: s.NodeId,
			OriginalBeamStart: s.OriginalBeamStart, OriginalBeamEnd: s.OriginalBeamEnd,
			ChildBeamIds: s.ChildBeamIds,
		})
	}

	for _, lc := range doc.LoadCases {
		m.RestoreLoadCase(toLoadCase(lc))
	}

	combos := make([]*model.LoadCombination, 0, len(doc.LoadCombinations))
	for _, c := range doc.LoadCombinations {
		factors := make(map[int]float64, len(c.Factors))
		for _, pair := range c.Factors {
			factors[int(pair[0])] = pair[1]
		}
		combo := &model.LoadCombination{Id: c.Id, Name: c.Name, Type: model.CombinationType(c.Type), Factors: factors}
		m.RestoreLoadCombination(combo)
		combos = append(combos, combo)
	}

	m.FixSequences()
	return m, combos, nil
}

// Encode serialises a Model, its load cases and combinations into a project
// file (spec §6).
func Encode(m *model.Model, info ProjectInfo) ([]byte, error) {
	doc := Document{
		Version:     SupportedVersion,
		ProjectInfo: info,
		Mesh:        buildMesh(m),
	}
	for _, lc := range m.LoadCases() {
		doc.LoadCases = append(doc.LoadCases, fromLoadCase(lc))
	}
	for _, c := range m.Combinations() {
		doc.LoadCombinations = append(doc.LoadCombinations, fromCombination(c))
	}
	return json.MarshalIndent(doc, "", "  ")
}

func buildMesh(m *model.Model) Mesh {
	var mesh Mesh
	for _, n := range m.Nodes() {
		mesh.Nodes = append(mesh.Nodes, fromNode(n))
	}
	for _, mat := range m.Materials() {
		mesh.Materials = append(mesh.Materials, MaterialDTO{Id: mat.Id, E: mat.E, Nu: mat.Nu, Rho: mat.Rho, Alpha: mat.Alpha})
	}
	for _, b := range m.Beams() {
		mesh.BeamElements = append(mesh.BeamElements, fromBeamElement(b))
	}
	for _, t := range m.Triangles() {
		mesh.Elements = append(mesh.Elements, ElementDTO{Id: t.Id, NodeIds: t.NodeIds[:], MaterialId: t.MaterialId, Thickness: t.Thickness})
	}
	for _, q := range m.Quads() {
		mesh.Elements = append(mesh.Elements, ElementDTO{Id: q.Id, NodeIds: q.NodeIds[:], MaterialId: q.MaterialId, Thickness: q.Thickness})
	}
	for _, p := range m.PlateRegions() {
		mesh.PlateRegions = append(mesh.PlateRegions, fromPlateRegion(p))
	}
	for _, s := range m.SubNodes() {
		mesh.SubNodes = append(mesh.SubNodes, SubNodeDTO{
			Id: s.Id, BeamId: s.BeamId, T: s.T, NodeId: s.NodeId,
			OriginalBeamStart: s.OriginalBeamStart, OriginalBeamEnd: s.OriginalBeamEnd,
			ChildBeamIds: s.ChildBeamIds,
		})
	}
	return mesh
}

func toNode(n NodeDTO) *model.Node {
	return &model.Node{
		Id: n.Id, X: n.X, Y: n.Y,
		Constraints: model.NodeConstraints{
			X: n.Constraints.X, Y: n.Constraints.Y, Rotation: n.Constraints.Rotation,
			SpringX: n.Constraints.SpringX, SpringY: n.Constraints.SpringY, SpringRot: n.Constraints.SpringRot,
		},
		Loads: model.NodeLoads{Fx: n.Loads.Fx, Fy: n.Loads.Fy, Moment: n.Loads.Moment, Fz: derefOr(n.Loads.Fz, 0)},
	}
}

func fromNode(n *model.Node) NodeDTO {
	var fz *float64
	if n.Loads.Fz != 0 {
		v := n.Loads.Fz
		fz = &v
	}
	return NodeDTO{
		Id: n.Id, X: n.X, Y: n.Y,
		Constraints: ConstraintsDTO{
			X: n.Constraints.X, Y: n.Constraints.Y, Rotation: n.Constraints.Rotation,
			SpringX: n.Constraints.SpringX, SpringY: n.Constraints.SpringY, SpringRot: n.Constraints.SpringRot,
		},
		Loads: NodeLoadsDTO{Fx: n.Loads.Fx, Fy: n.Loads.Fy, Moment: n.Loads.Moment, Fz: fz},
	}
}

func toBeamSection(s BeamSectionDTO) model.BeamSection {
	return model.BeamSection{
		A: s.A, I: s.I, H: s.H, B: s.B, Tw: s.Tw, Tf: s.Tf,
		Iz: s.Iz, Wy: s.Wy, Wz: s.Wz, Wply: s.Wply, Wplz: s.Wplz, It: s.It, Iw: s.Iw,
		ShapeType: s.ShapeType, ProfileName: s.ProfileName,
	}
}

func fromBeamSection(s model.BeamSection) BeamSectionDTO {
	return BeamSectionDTO{
		A: s.A, I: s.I, H: s.H, B: s.B, Tw: s.Tw, Tf: s.Tf,
		Iz: s.Iz, Wy: s.Wy, Wz: s.Wz, Wply: s.Wply, Wplz: s.Wplz, It: s.It, Iw: s.Iw,
		ShapeType: s.ShapeType, ProfileName: s.ProfileName,
	}
}

func toBeamElement(b BeamElementDTO) *model.BeamElement {
	el := &model.BeamElement{
		Id: b.Id, NodeIds: b.NodeIds, MaterialId: b.MaterialId,
		Section: toBeamSection(b.Section), ProfileName: b.ProfileName,
	}
	if b.DistributedLoad != nil {
		spec := model.DistributedLoadSpec{
			QxStart: b.DistributedLoad.QxStart, QyStart: b.DistributedLoad.QyStart,
			QxEnd: b.DistributedLoad.QxEnd, QyEnd: b.DistributedLoad.QyEnd,
			StartT: b.DistributedLoad.StartT, EndT: b.DistributedLoad.EndT,
			Global: b.DistributedLoad.CoordSystem == "global",
		}
		el.DistributedLoad = &spec
	}
	for _, pl := range b.PointLoads {
		el.PointLoads = append(el.PointLoads, model.PointLoadOnBeam{T: pl.T, Fx: pl.Fx, Fy: pl.Fy, LocalAxes: pl.LocalAxes})
	}
	if b.EndReleases != nil {
		er := model.EndReleases{
			StartMoment: b.EndReleases.StartMoment, EndMoment: b.EndReleases.EndMoment,
			StartAxial: b.EndReleases.StartAxial, EndAxial: b.EndReleases.EndAxial,
			StartShear: b.EndReleases.StartShear, EndShear: b.EndReleases.EndShear,
		}
		el.EndReleases = &er
	}
	if b.ThermalLoad != nil {
		tl := model.ThermalLoad{
			DeltaT: b.ThermalLoad.DeltaT, DeltaTTop: b.ThermalLoad.DeltaTTop,
			DeltaTBot: b.ThermalLoad.DeltaTBot, IsGradient: b.ThermalLoad.IsGradient,
		}
		el.ThermalLoad = &tl
	}
	return el
}

func fromBeamElement(b *model.BeamElement) BeamElementDTO {
	dto := BeamElementDTO{
		Id: b.Id, NodeIds: b.NodeIds, MaterialId: b.MaterialId,
		Section: fromBeamSection(b.Section), ProfileName: b.ProfileName,
	}
	if b.DistributedLoad != nil {
		coord := "local"
		if b.DistributedLoad.Global {
			coord = "global"
		}
		dto.DistributedLoad = &DistributedLoadDTO{
			QxStart: b.DistributedLoad.QxStart, QyStart: b.DistributedLoad.QyStart,
			QxEnd: b.DistributedLoad.QxEnd, QyEnd: b.DistributedLoad.QyEnd,
			StartT: b.DistributedLoad.StartT, EndT: b.DistributedLoad.EndT,
			CoordSystem: coord,
		}
	}
	for _, pl := range b.PointLoads {
		dto.PointLoads = append(dto.PointLoads, PointLoadOnBeamDTO{T: pl.T, Fx: pl.Fx, Fy: pl.Fy, LocalAxes: pl.LocalAxes})
	}
	if b.EndReleases != nil {
		dto.EndReleases = &EndReleasesDTO{
			StartMoment: b.EndReleases.StartMoment, EndMoment: b.EndReleases.EndMoment,
			StartAxial: b.EndReleases.StartAxial, EndAxial: b.EndReleases.EndAxial,
			StartShear: b.EndReleases.StartShear, EndShear: b.EndReleases.EndShear,
		}
	}
	if b.ThermalLoad != nil {
		dto.ThermalLoad = &ThermalLoadDTO{
			DeltaT: b.ThermalLoad.DeltaT, DeltaTTop: b.ThermalLoad.DeltaTTop,
			DeltaTBot: b.ThermalLoad.DeltaTBot, IsGradient: b.ThermalLoad.IsGradient,
		}
	}
	return dto
}

func toPlateRegion(p PlateRegionDTO) *model.PlateRegion {
	return &model.PlateRegion{
		Id: p.Id, BBoxX0: p.Bbox[0], BBoxY0: p.Bbox[1], BBoxX1: p.Bbox[2], BBoxY1: p.Bbox[3],
		DivisionsX: p.DivisionsX, DivisionsY: p.DivisionsY, MaterialId: p.MaterialId, Thickness: p.Thickness,
		ElementType: p.ElementType, NodeIds: p.NodeIds, CornerNodeIds: p.CornerNodeIds, ElementIds: p.ElementIds,
		Edges:     model.PlateEdges{Bottom: p.Edges.Bottom, Top: p.Edges.Top, Left: p.Edges.Left, Right: p.Edges.Right},
		IsPolygon: p.IsPolygon, Polygon: p.Polygon, Voids: p.Voids,
	}
}

func fromPlateRegion(p *model.PlateRegion) PlateRegionDTO {
	return PlateRegionDTO{
		Id:            p.Id,
		Bbox:          [4]float64{p.BBoxX0, p.BBoxY0, p.BBoxX1, p.BBoxY1},
		DivisionsX:    p.DivisionsX,
		DivisionsY:    p.DivisionsY,
		MaterialId:    p.MaterialId,
		Thickness:     p.Thickness,
		ElementType:   p.ElementType,
		NodeIds:       p.NodeIds,
		CornerNodeIds: p.CornerNodeIds,
		ElementIds:    p.ElementIds,
		Edges:         PlateEdgesDTO{Bottom: p.Edges.Bottom, Top: p.Edges.Top, Left: p.Edges.Left, Right: p.Edges.Right},
		IsPolygon:     p.IsPolygon,
		Polygon:       p.Polygon,
		Voids:         p.Voids,
	}
}

func toLoadCase(lc LoadCaseDTO) *model.LoadCase {
	out := &model.LoadCase{Id: lc.Id, Name: lc.Name, Type: model.LoadCaseType(lc.Type), Color: lc.Color}
	for _, pl := range lc.PointLoads {
		out.PointLoads = append(out.PointLoads, model.NodePointLoadEntry{NodeId: pl.NodeId, Fx: pl.Fx, Fy: pl.Fy, Moment: pl.Moment})
	}
	for _, dl := range lc.DistributedLoads {
		out.DistributedLoads = append(out.DistributedLoads, model.BeamDistributedLoadEntry{
			BeamId: dl.BeamId,
			Spec: model.DistributedLoadSpec{
				QxStart: dl.Spec.QxStart, QyStart: dl.Spec.QyStart, QxEnd: dl.Spec.QxEnd, QyEnd: dl.Spec.QyEnd,
				StartT: dl.Spec.StartT, EndT: dl.Spec.EndT, Global: dl.Spec.CoordSystem == "global",
			},
		})
	}
	for _, tl := range lc.ThermalLoads {
		out.ThermalLoads = append(out.ThermalLoads, model.BeamThermalLoadEntry{
			BeamId: tl.BeamId,
			Load: model.ThermalLoad{
				DeltaT: tl.Load.DeltaT, DeltaTTop: tl.Load.DeltaTTop, DeltaTBot: tl.Load.DeltaTBot, IsGradient: tl.Load.IsGradient,
			},
		})
	}
	return out
}

func fromLoadCase(lc *model.LoadCase) LoadCaseDTO {
	dto := LoadCaseDTO{Id: lc.Id, Name: lc.Name, Type: string(lc.Type), Color: lc.Color}
	for _, pl := range lc.PointLoads {
		dto.PointLoads = append(dto.PointLoads, NodePointLoadEntryDTO{NodeId: pl.NodeId, Fx: pl.Fx, Fy: pl.Fy, Moment: pl.Moment})
	}
	for _, dl := range lc.DistributedLoads {
		coord := "local"
		if dl.Spec.Global {
			coord = "global"
		}
		dto.DistributedLoads = append(dto.DistributedLoads, BeamDistributedLoadEntryDTO{
			BeamId: dl.BeamId,
			Spec: DistributedLoadDTO{
				QxStart: dl.Spec.QxStart, QyStart: dl.Spec.QyStart, QxEnd: dl.Spec.QxEnd, QyEnd: dl.Spec.QyEnd,
				StartT: dl.Spec.StartT, EndT: dl.Spec.EndT, CoordSystem: coord,
			},
		})
	}
	for _, tl := range lc.ThermalLoads {
		dto.ThermalLoads = append(dto.ThermalLoads, BeamThermalLoadEntryDTO{
			BeamId: tl.BeamId,
			Load: ThermalLoadDTO{
				DeltaT: tl.Load.DeltaT, DeltaTTop: tl.Load.DeltaTTop, DeltaTBot: tl.Load.DeltaTBot, IsGradient: tl.Load.IsGradient,
			},
		})
	}
	return dto
}

func fromCombination(c *model.LoadCombination) CombinationDTO {
	dto := CombinationDTO{Id: c.Id, Name: c.Name, Type: string(c.Type)}
	for caseId, f := range c.Factors {
		dto.Factors = append(dto.Factors, [2]float64{float64(caseId), f})
	}
	return dto
}

func derefOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}
