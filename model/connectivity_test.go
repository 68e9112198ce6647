// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_connectedNodeGroupsSingleBeam(tst *testing.T) {
	m := NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(4, 0, false)
	_, err := m.AddBeam(n1.Id, n2.Id, 1, rectSection())
	assert.NoError(tst, err)

	groups := m.ConnectedNodeGroups()
	assert.Len(tst, groups, 1)
	assert.ElementsMatch(tst, []int{n1.Id, n2.Id}, groups[0])
}

func Test_connectedNodeGroupsTwoDisjointBeams(tst *testing.T) {
	m := NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(4, 0, false)
	n3 := m.AddNode(10, 0, false)
	n4 := m.AddNode(14, 0, false)
	_, err := m.AddBeam(n1.Id, n2.Id, 1, rectSection())
	assert.NoError(tst, err)
	_, err = m.AddBeam(n3.Id, n4.Id, 1, rectSection())
	assert.NoError(tst, err)

	groups := m.ConnectedNodeGroups()
	assert.Len(tst, groups, 2)
}

// Test_connectivityDiagnosticUnderConstrained checks the "connected but no
// restrained node" case: a single beam with neither end fixed.
func Test_connectivityDiagnosticUnderConstrained(tst *testing.T) {
	m := NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(4, 0, false)
	_, err := m.AddBeam(n1.Id, n2.Id, 1, rectSection())
	assert.NoError(tst, err)

	diag := m.ConnectivityDiagnostic()
	assert.Len(tst, diag, 1)
	assert.Contains(tst, diag[0], "under-constrained")
}

// Test_connectivityDiagnosticDisconnected checks the "more than one
// component" case, with one component also left unrestrained.
func Test_connectivityDiagnosticDisconnected(tst *testing.T) {
	m := NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(4, 0, false)
	n3 := m.AddNode(10, 0, false)
	n4 := m.AddNode(14, 0, false)
	n1.Constraints = NodeConstraints{X: true, Y: true, Rotation: true}
	_, err := m.AddBeam(n1.Id, n2.Id, 1, rectSection())
	assert.NoError(tst, err)
	_, err = m.AddBeam(n3.Id, n4.Id, 1, rectSection())
	assert.NoError(tst, err)

	diag := m.ConnectivityDiagnostic()
	assert.Contains(tst, diag[0], "disconnected")
	found := false
	for _, w := range diag {
		if strings.Contains(w, "under-constrained") {
			found = true
		}
	}
	assert.True(tst, found, "the unrestrained n3-n4 group must also be flagged")
}

// Test_connectivityDiagnosticClean checks the well-posed case: one
// component, restrained, no warnings.
func Test_connectivityDiagnosticClean(tst *testing.T) {
	m := NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(4, 0, false)
	n1.Constraints = NodeConstraints{X: true, Y: true, Rotation: true}
	_, err := m.AddBeam(n1.Id, n2.Id, 1, rectSection())
	assert.NoError(tst, err)

	assert.Empty(tst, m.ConnectivityDiagnostic())
}
