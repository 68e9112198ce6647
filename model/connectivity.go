// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvlath/graph/algorithms"
)

// ConnectedNodeGroups partitions every node that participates in at least
// one element or plate region into connected components, using the
// reference graph's adjacency (nodes linked through a shared beam,
// continuum element or plate region belong to the same group). It powers
// the "disconnected vs. under-constrained" diagnostic that the solver adds
// to its Singular error after the factorisation fails (spec §9, SPEC_FULL §2).
func (m *Model) ConnectedNodeGroups() [][]int {
	visited := make(map[string]bool)
	var groups [][]int
	for _, n := range m.Nodes() {
		key := vkey(vkNode, n.Id)
		if visited[key] || len(m.refs.Neighbors(key)) == 0 {
			continue
		}
		res, err := algorithms.BFS(m.refs, key, nil)
		if err != nil {
			continue
		}
		var group []int
		for _, v := range res.Order {
			visited[v.ID] = true
			if strings.HasPrefix(v.ID, vkNode) {
				if id, err := strconv.Atoi(v.ID[len(vkNode):]); err == nil {
					group = append(group, id)
				}
			}
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

// restrained reports whether a node carries any rigid constraint or spring
// support on any DOF.
func restrained(n *Node) bool {
	c := n.Constraints
	return c.X || c.Y || c.Rotation || c.SpringX != nil || c.SpringY != nil || c.SpringRot != nil
}

// ConnectivityDiagnostic distinguishes the two ways a mesh can fail to
// produce a non-singular reduced stiffness matrix (spec §9, SPEC_FULL §2):
// the element/plate graph splitting into more than one connected component
// ("disconnected"), and a connected component that reaches no restrained or
// spring-supported node at all ("under-constrained", e.g. a floating
// sub-structure). Returns one warning string per issue found, nil if the
// mesh looks solvable; it is meant to be consulted once the solver itself
// has already hit a singular factorisation, to turn a bare "Singular" into
// a pointer at which part of the mesh is at fault.
func (m *Model) ConnectivityDiagnostic() []string {
	groups := m.ConnectedNodeGroups()
	var warnings []string
	if len(groups) > 1 {
		warnings = append(warnings, fmt.Sprintf("mesh splits into %d disconnected groups of connected nodes", len(groups)))
	}
	for _, group := range groups {
		anchored := false
		for _, id := range group {
			n, err := m.Node(id)
			if err == nil && restrained(n) {
				anchored = true
				break
			}
		}
		if !anchored {
			warnings = append(warnings, fmt.Sprintf("group of %d connected nodes (including node %d) has no restrained or spring-supported node: under-constrained", len(group), group[0]))
		}
	}
	return warnings
}
