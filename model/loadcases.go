// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "sort"

// AddLoadCase registers a new LoadCase and returns it with an allocated id.
func (m *Model) AddLoadCase(lc *LoadCase) *LoadCase {
	lc.Id = m.nextLoadCaseId
	m.nextLoadCaseId++
	m.loadCases[lc.Id] = lc
	return lc
}

// LoadCase retrieves a load case by id.
func (m *Model) LoadCase(id int) (*LoadCase, error) {
	lc, ok := m.loadCases[id]
	if !ok {
		return nil, ReferenceErrorf("load case %d not found", id)
	}
	return lc, nil
}

// LoadCases returns all load cases ordered by id.
func (m *Model) LoadCases() []*LoadCase {
	out := make([]*LoadCase, 0, len(m.loadCases))
	for _, lc := range m.loadCases {
		out = append(out, lc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// AddCombination registers a new LoadCombination, validating that every
// referenced load case exists.
func (m *Model) AddCombination(c *LoadCombination) (*LoadCombination, error) {
	for lcId := range c.Factors {
		if _, ok := m.loadCases[lcId]; !ok {
			return nil, ReferenceErrorf("combination references missing load case %d", lcId)
		}
	}
	c.Id = m.nextComboId
	m.nextComboId++
	m.combos[c.Id] = c
	return c, nil
}

// Combination retrieves a load combination by id.
func (m *Model) Combination(id int) (*LoadCombination, error) {
	c, ok := m.combos[id]
	if !ok {
		return nil, ReferenceErrorf("load combination %d not found", id)
	}
	return c, nil
}

// Combinations returns all combinations ordered by id.
func (m *Model) Combinations() []*LoadCombination {
	out := make([]*LoadCombination, 0, len(m.combos))
	for _, c := range m.combos {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// PlateRegions returns all plate regions ordered by id.
func (m *Model) PlateRegions() []*PlateRegion {
	out := make([]*PlateRegion, 0, len(m.plates))
	for _, p := range m.plates {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// SubNodes returns all sub-nodes ordered by id.
func (m *Model) SubNodes() []*SubNode {
	out := make([]*SubNode, 0, len(m.subNodes))
	for _, s := range m.subNodes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// Materials returns all materials ordered by id.
func (m *Model) Materials() []*Material {
	out := make([]*Material, 0, len(m.materials))
	for _, mm := range m.materials {
		out = append(out, mm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}
