// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

// DKTTriangleIDs returns the set of TriangleElement ids that belong to a
// PlateRegion meshed with ElementType "dkt" — those triangles are analysed
// with the DKT plate-bending kernel rather than the CST plane kernel (spec
// §9: "What the source handles via shared base properties maps to a tagged
// sum {Beam | Triangle | Quad | DKT}"; a region's ElementType is how that
// tag is recorded for its generated triangles).
func (m *Model) DKTTriangleIDs() map[int]bool {
	out := make(map[int]bool)
	for _, p := range m.plates {
		if p.ElementType != "dkt" {
			continue
		}
		for _, id := range p.ElementIds {
			out[id] = true
		}
	}
	return out
}
