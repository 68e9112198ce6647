// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linalg

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when the matrix diagonal is all zero, or when the
// Cholesky path fails and the LU fallback either fails or has a
// condition-number estimate above 1/pivotEps.
var ErrSingular = errors.New("linalg: singular matrix")

// pivotEps sets the LU fallback's condition-number limit (1/pivotEps).
// Individual pivots are not compared against pivotEps·max_diag, and a
// Cholesky solve that succeeds is returned without this check.
const pivotEps = 1e-12

// Solve solves the symmetric system K*x = f. It tries a Cholesky
// factorisation first (the reduced stiffness of a stable, fully-restrained
// structure is SPD) and falls back to a pivoted LU for symmetric-indefinite
// systems (e.g. when prescribed springs make some diagonal entries small but
// the system is not singular). Any direct dense factorisation that meets
// the documented tolerance is an acceptable substitute for the reference
// solver (spec §4.A); this one is gonum/mat's, since gosl/la's solver
// interface wraps cgo-bound UMFPACK/MUMPS unavailable in this environment
// (see SPEC_FULL §0).
func Solve(k Matrix, f []float64) ([]float64, error) {
	n := k.Rows()
	if n == 0 {
		return nil, nil
	}
	if n != k.Cols() || len(f) != n {
		return nil, errors.New("linalg: Solve: shape mismatch")
	}

	maxDiag := 0.0
	for i := 0; i < n; i++ {
		if math.Abs(k[i][i]) > maxDiag {
			maxDiag = math.Abs(k[i][i])
		}
	}
	if maxDiag == 0 {
		return nil, ErrSingular
	}

	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		copy(data[i*n:(i+1)*n], k[i])
	}
	sym := mat.NewSymDense(n, symmetrize(data, n))
	b := mat.NewVecDense(n, append([]float64(nil), f...))

	var chol mat.Cholesky
	if chol.Factorize(sym) {
		var x mat.VecDense
		if err := chol.SolveVecTo(&x, b); err == nil {
			return x.RawVector().Data, nil
		}
	}

	dense := mat.NewDense(n, n, data)
	var lu mat.LU
	lu.Factorize(dense)
	if cond := lu.Cond(); math.IsInf(cond, 1) || cond > 1/pivotEps {
		return nil, ErrSingular
	}
	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, b); err != nil {
		return nil, ErrSingular
	}
	return x.RawVector().Data, nil
}

// symmetrize averages K with its transpose to absorb the last bit of
// floating-point asymmetry before handing the buffer to mat.NewSymDense,
// which requires an exactly symmetric backing array.
func symmetrize(data []float64, n int) []float64 {
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i*n+j] = 0.5 * (data[i*n+j] + data[j*n+i])
		}
	}
	return out
}
