// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

const splitClampMin = 0.01
const splitClampMax = 0.99
const splitSnapTol = 0.01

func clampT(t float64) float64 {
	if t < splitClampMin {
		return splitClampMin
	}
	if t > splitClampMax {
		return splitClampMax
	}
	return t
}

// distributeReleasesForSplit builds the two child EndReleases so that the
// new inner ends (at the split node) are continuous (no release) and the
// original outer ends keep whatever release they had (spec §4.B).
func distributeReleasesForSplit(orig *EndReleases) (left, right *EndReleases) {
	if orig == nil {
		return nil, nil
	}
	left = &EndReleases{StartMoment: orig.StartMoment, StartAxial: orig.StartAxial, StartShear: orig.StartShear}
	right = &EndReleases{EndMoment: orig.EndMoment, EndAxial: orig.EndAxial, EndShear: orig.EndShear}
	if !left.Any() {
		left = nil
	}
	if !right.Any() {
		right = nil
	}
	return
}

func copyDistributedLoadForChild(d *DistributedLoadSpec) *DistributedLoadSpec {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// SplitBeamAt clamps t to [0.01, 0.99] and either superposes optionalLoad
// onto a pre-existing node within 0.01 m of the interpolated point, or
// destructively splits the beam into two child beams meeting at a new node
// (spec §4.B). Returns the node id at the split point.
func (m *Model) SplitBeamAt(beamId int, t float64, optionalLoad *NodeLoads) (int, error) {
	t = clampT(t)
	b, err := m.Beam(beamId)
	if err != nil {
		return 0, err
	}
	n1, err := m.Node(b.NodeIds[0])
	if err != nil {
		return 0, err
	}
	n2, err := m.Node(b.NodeIds[1])
	if err != nil {
		return 0, err
	}
	px := n1.X + t*(n2.X-n1.X)
	py := n1.Y + t*(n2.Y-n1.Y)

	if existing := m.FindNodeAt(px, py, splitSnapTol); existing != nil {
		if optionalLoad != nil {
			existing.Loads.Fx += optionalLoad.Fx
			existing.Loads.Fy += optionalLoad.Fy
			existing.Loads.Fz += optionalLoad.Fz
			existing.Loads.Moment += optionalLoad.Moment
		}
		return existing.Id, nil
	}

	mid := m.AddNode(px, py, false)
	leftRel, rightRel := distributeReleasesForSplit(b.EndReleases)

	left, err := m.AddBeam(n1.Id, mid.Id, b.MaterialId, b.Section)
	if err != nil {
		m.DeleteNode(mid.Id)
		return 0, err
	}
	left.ProfileName = b.ProfileName
	left.DistributedLoad = copyDistributedLoadForChild(b.DistributedLoad)
	left.EndReleases = leftRel

	right, err := m.AddBeam(mid.Id, n2.Id, b.MaterialId, b.Section)
	if err != nil {
		m.removeBeamOnly(left.Id)
		m.DeleteNode(mid.Id)
		return 0, err
	}
	right.ProfileName = b.ProfileName
	right.DistributedLoad = copyDistributedLoadForChild(b.DistributedLoad)
	right.EndReleases = rightRel

	if optionalLoad != nil {
		mid.Loads.Fx += optionalLoad.Fx
		mid.Loads.Fy += optionalLoad.Fy
		mid.Loads.Fz += optionalLoad.Fz
		mid.Loads.Moment += optionalLoad.Moment
	}

	m.removeBeamOnly(beamId)
	return mid.Id, nil
}

// AddSubNode is the reversible variant of SplitBeamAt: it performs the same
// split but records a SubNode so RemoveSubNode can reconstruct the original
// beam later (spec §4.B).
func (m *Model) AddSubNode(beamId int, t float64) (*SubNode, error) {
	b, err := m.Beam(beamId)
	if err != nil {
		return nil, err
	}
	startId, endId := b.NodeIds[0], b.NodeIds[1]
	midId, err := m.SplitBeamAt(beamId, t, nil)
	if err != nil {
		return nil, err
	}
	mid, _ := m.Node(midId)
	var childIds [2]int
	for _, c := range m.Beams() {
		if c.NodeIds[0] == startId && c.NodeIds[1] == midId {
			childIds[0] = c.Id
		}
		if c.NodeIds[0] == midId && c.NodeIds[1] == endId {
			childIds[1] = c.Id
		}
	}
	id := m.nextSubNodeId
	m.nextSubNodeId++
	sn := &SubNode{
		Id:                id,
		BeamId:            beamId,
		T:                 clampT(t),
		NodeId:            mid.Id,
		OriginalBeamStart: startId,
		OriginalBeamEnd:   endId,
		ChildBeamIds:      childIds,
	}
	m.subNodes[id] = sn
	return sn, nil
}

// RemoveSubNode recreates the original beam by aggregating properties from
// one surviving child beam, then deletes both children and the sub-node's
// mesh node (spec §4.B, tested by property 8).
func (m *Model) RemoveSubNode(subNodeId int) (*BeamElement, error) {
	sn, ok := m.subNodes[subNodeId]
	if !ok {
		return nil, ReferenceErrorf("sub-node %d not found", subNodeId)
	}
	leftId, rightId := sn.ChildBeamIds[0], sn.ChildBeamIds[1]
	left, lok := m.beams[leftId]
	right, rok := m.beams[rightId]
	if !lok && !rok {
		return nil, ReferenceErrorf("sub-node %d: both child beams are gone", subNodeId)
	}
	survivor := left
	if !lok {
		survivor = right
	}
	combined := &EndReleases{}
	if lok && left.EndReleases != nil {
		combined.StartMoment = left.EndReleases.StartMoment
		combined.StartAxial = left.EndReleases.StartAxial
		combined.StartShear = left.EndReleases.StartShear
	}
	if rok && right.EndReleases != nil {
		combined.EndMoment = right.EndReleases.EndMoment
		combined.EndAxial = right.EndReleases.EndAxial
		combined.EndShear = right.EndReleases.EndShear
	}
	var releases *EndReleases
	if combined.Any() {
		releases = combined
	}

	if lok {
		m.removeBeamOnly(leftId)
	}
	if rok {
		m.removeBeamOnly(rightId)
	}
	delete(m.subNodes, subNodeId)
	m.orphanSweep()

	restored, err := m.AddBeam(sn.OriginalBeamStart, sn.OriginalBeamEnd, survivor.MaterialId, survivor.Section)
	if err != nil {
		return nil, err
	}
	restored.ProfileName = survivor.ProfileName
	restored.DistributedLoad = copyDistributedLoadForChild(survivor.DistributedLoad)
	restored.EndReleases = releases
	return restored, nil
}

// UpdateSubNodePositions linearly re-interpolates every sub-node mesh-node
// position whose original beam endpoint is movedNodeId, after that endpoint
// has moved (spec §4.B).
func (m *Model) UpdateSubNodePositions(movedNodeId int) error {
	for _, sn := range m.subNodes {
		if sn.OriginalBeamStart != movedNodeId && sn.OriginalBeamEnd != movedNodeId {
			continue
		}
		start, err := m.Node(sn.OriginalBeamStart)
		if err != nil {
			continue // original endpoint gone; position cannot be recomputed
		}
		end, err := m.Node(sn.OriginalBeamEnd)
		if err != nil {
			continue
		}
		mid, err := m.Node(sn.NodeId)
		if err != nil {
			continue
		}
		mid.X = start.X + sn.T*(end.X-start.X)
		mid.Y = start.Y + sn.T*(end.Y-start.Y)
	}
	return nil
}

// MoveNode relocates a node and refreshes any dependent sub-node positions.
func (m *Model) MoveNode(id int, x, y float64) error {
	n, err := m.Node(id)
	if err != nil {
		return err
	}
	n.X, n.Y = x, y
	return m.UpdateSubNodePositions(id)
}
