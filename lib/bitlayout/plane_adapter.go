// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package bitlayout

import (
	"fmt"

	"github.com/xc2cpld/xc2bit/lib/fuseplane"
)

// Plane1D adapts a *fuseplane.Plane1D to the engine's 1-dimensional
// Plane interface.
type Plane1D struct {
	P *fuseplane.Plane1D
}

func (a Plane1D) Get(coord []int) bool {
	return a.P.Get(requireDim(coord, 1)[0])
}

func (a Plane1D) Set(coord []int, v bool) {
	a.P.Set(requireDim(coord, 1)[0], v)
}

// Plane2D adapts a *fuseplane.Plane2D to the engine's 2-dimensional
// Plane interface.
type Plane2D struct {
	P *fuseplane.Plane2D
}

func (a Plane2D) Get(coord []int) bool {
	c := requireDim(coord, 2)
	return a.P.Get(c[0], c[1])
}

func (a Plane2D) Set(coord []int, v bool) {
	c := requireDim(coord, 2)
	a.P.Set(c[0], c[1], v)
}

func requireDim(coord []int, want int) []int {
	if len(coord) != want {
		panic(fmt.Sprintf("bitlayout: expected a %d-dimensional coordinate, got %d", want, len(coord)))
	}
	return coord
}
