// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linalg provides the dense row-major matrix primitives used by the
// element kernels (local stiffness, transformation, condensation) and the
// symmetric reduced-system solve used by the global solver (spec §4.A).
// Allocation follows gosl/la's MatAlloc idiom, observed directly in the
// teacher's ele/solid/beam.go ("o.T = la.MatAlloc(o.Nu, o.Nu)"); the
// element-local operators below are this repository's own thin layer over
// that allocation convention, kept dependency-free because gosl/la does not
// expose a stable public API for these particular operators across
// versions — only MatAlloc's shape is relied upon from gosl directly, via
// linalg.Alloc.
package linalg

import "github.com/cpmech/gosl/la"

// Matrix is a dense row-major matrix of shape [nrows][ncols].
type Matrix [][]float64

// Alloc returns a new, zeroed Matrix of the given shape, using gosl/la's
// allocator (the same one the teacher's element kernels call directly).
func Alloc(nrows, ncols int) Matrix {
	return Matrix(la.MatAlloc(nrows, ncols))
}

// Rows and Cols report the matrix shape.
func (m Matrix) Rows() int { return len(m) }
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Get returns m[i][j].
func (m Matrix) Get(i, j int) float64 { return m[i][j] }

// Set assigns m[i][j] = v.
func (m Matrix) Set(i, j int, v float64) { m[i][j] = v }

// AddAt accumulates v into m[i][j].
func (m Matrix) AddAt(i, j int, v float64) { m[i][j] += v }

// Scale multiplies every entry by s, in place.
func (m Matrix) Scale(s float64) {
	for i := range m {
		for j := range m[i] {
			m[i][j] *= s
		}
	}
}

// Transpose returns a new matrix equal to m^T.
func (m Matrix) Transpose() Matrix {
	t := Alloc(m.Cols(), m.Rows())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			t[j][i] = m[i][j]
		}
	}
	return t
}

// Multiply returns m * other.
func (m Matrix) Multiply(other Matrix) Matrix {
	if m.Cols() != other.Rows() {
		panic("linalg: incompatible shapes for Multiply")
	}
	out := Alloc(m.Rows(), other.Cols())
	for i := 0; i < m.Rows(); i++ {
		for k := 0; k < m.Cols(); k++ {
			mik := m[i][k]
			if mik == 0 {
				continue
			}
			for j := 0; j < other.Cols(); j++ {
				out[i][j] += mik * other[k][j]
			}
		}
	}
	return out
}

// MultiplyVector returns m * v.
func (m Matrix) MultiplyVector(v []float64) []float64 {
	if m.Cols() != len(v) {
		panic("linalg: incompatible shapes for MultiplyVector")
	}
	out := make([]float64, m.Rows())
	for i := 0; i < m.Rows(); i++ {
		s := 0.0
		for j := 0; j < m.Cols(); j++ {
			s += m[i][j] * v[j]
		}
		out[i] = s
	}
	return out
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := Alloc(m.Rows(), m.Cols())
	for i := range m {
		copy(out[i], m[i])
	}
	return out
}
