// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import "github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/linalg"

// ExpandPlaneToMixed pads a plane element's (u,v-per-node) stiffness of size
// 2n x 2n into a 3n x 3n matrix with zero rows/columns on every θ DOF, for
// the mixed beam+plane analysis (spec §4.D). Expand8To12 is this function's
// n=4 case, kept separately since the quad assembler calls it directly.
func ExpandPlaneToMixed(k2n linalg.Matrix, n int) linalg.Matrix {
	k3n := linalg.Alloc(3*n, 3*n)
	idx := func(nodeLocal, dof int) int { return nodeLocal*3 + dof } // dof: 0=u,1=v (θ=2 left zero)
	src := func(nodeLocal, dof int) int { return nodeLocal*2 + dof }
	for ni := 0; ni < n; ni++ {
		for di := 0; di < 2; di++ {
			for nj := 0; nj < n; nj++ {
				for dj := 0; dj < 2; dj++ {
					k3n[idx(ni, di)][idx(nj, dj)] = k2n[src(ni, di)][src(nj, dj)]
				}
			}
		}
	}
	return k3n
}
