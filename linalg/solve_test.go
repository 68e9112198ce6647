// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_solveSPD(tst *testing.T) {
	k := Alloc(3, 3)
	k.Set(0, 0, 4)
	k.Set(0, 1, 1)
	k.Set(1, 0, 1)
	k.Set(1, 1, 3)
	k.Set(1, 2, 1)
	k.Set(2, 1, 1)
	k.Set(2, 2, 2)
	f := []float64{1, 2, 3}

	x, err := Solve(k, f)
	assert.NoError(tst, err)

	// verify K*x reproduces f
	check := k.MultiplyVector(x)
	for i := range f {
		assert.InDelta(tst, f[i], check[i], 1e-6)
	}
}

func Test_solveSingular(tst *testing.T) {
	k := Alloc(2, 2)
	// all-zero matrix: no usable pivot at all
	f := []float64{1, 1}
	_, err := Solve(k, f)
	assert.ErrorIs(tst, err, ErrSingular)
}

func Test_solveShapeMismatch(tst *testing.T) {
	k := Alloc(2, 2)
	k.Set(0, 0, 1)
	k.Set(1, 1, 1)
	_, err := Solve(k, []float64{1, 2, 3})
	assert.Error(tst, err)
}

func Test_solveEmpty(tst *testing.T) {
	k := Matrix{}
	x, err := Solve(k, nil)
	assert.NoError(tst, err)
	assert.Nil(tst, x)
}
