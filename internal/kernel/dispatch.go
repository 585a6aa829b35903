// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import (
	"context"

	"github.com/gogpu/crt/internal/parallel"
)

// Grid is the size of a dispatch: threadgroup counts and threadgroup size.
type Grid struct {
	GroupsX, GroupsY int
	SizeX, SizeY     int
}

// GridFor covers a width x height image with groupW x groupH threadgroups,
// rounding up so the last row and column of groups may overhang the image.
func GridFor(width, height, groupW, groupH int) Grid {
	return Grid{
		GroupsX: (width + groupW - 1) / groupW,
		GroupsY: (height + groupH - 1) / groupH,
		SizeX:   groupW,
		SizeY:   groupH,
	}
}

// Dispatch runs k for every invocation of grid, one pool work item per
// threadgroup. Invocations beyond the image are still issued; kernels
// return early for them, as the shaders do.
func Dispatch(ctx context.Context, pool *parallel.WorkerPool, grid Grid, k Kernel) error {
	work := make([]func(), 0, grid.GroupsX*grid.GroupsY)
	for gy := range grid.GroupsY {
		for gx := range grid.GroupsX {
			x0, y0 := gx*grid.SizeX, gy*grid.SizeY
			work = append(work, func() {
				for y := y0; y < y0+grid.SizeY; y++ {
					for x := x0; x < x0+grid.SizeX; x++ {
						k(x, y)
					}
				}
			})
		}
	}
	return pool.ExecuteAll(ctx, work)
}
