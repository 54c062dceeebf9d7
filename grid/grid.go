// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package grid provides 2D <-> 1D cell coordinate indexing and local
neighborhood enumeration for the cell populations in the thalamus model
(TRN, relay, and feedforward input layers).

Cells are laid out row-major: the cell at coordinate (X, Y) in a
population of the given width has linear index Y*width + X. Neighborhood
enumerates the bounded fan-in windows used when training dendrites on
local blocks of cells.
*/
package grid

import (
	"errors"
	"fmt"

	"github.com/emer/emergent/evec"
	"github.com/goki/ki/ints"
)

// ErrInvalidCoordinate is returned when a coordinate falls outside the
// declared bounds of its population.
var ErrInvalidCoordinate = errors.New("coordinate outside population bounds")

// Index returns the linear cell index for given 2D coordinate, for a
// population of given width.
func Index(c evec.Vec2i, width int) int {
	return c.Y*width + c.X
}

// Coord returns the 2D coordinate for given linear cell index, for a
// population of given width.
func Coord(idx, width int) evec.Vec2i {
	return evec.Vec2i{X: idx % width, Y: idx / width}
}

// CheckCoord returns ErrInvalidCoordinate if c is outside the population
// shape (width = shape.X, height = shape.Y), nil otherwise.
func CheckCoord(c, shape evec.Vec2i) error {
	if c.X < 0 || c.X >= shape.X || c.Y < 0 || c.Y >= shape.Y {
		return fmt.Errorf("%w: (%d,%d) not within %dx%d", ErrInvalidCoordinate, c.X, c.Y, shape.X, shape.Y)
	}
	return nil
}

// CheckShape returns an error if shape does not describe a usable 2D
// population (both dimensions must be positive).
func CheckShape(shape evec.Vec2i) error {
	if shape.X <= 0 || shape.Y <= 0 {
		return fmt.Errorf("grid.CheckShape: population shape %dx%d is not positive", shape.X, shape.Y)
	}
	return nil
}

// Neighborhood returns the coordinates within given radius of c, clipped
// to the population shape, in row-major order. radius 1 gives the
// standard 3x3 fan-in window. c itself must be within bounds.
func Neighborhood(c, shape evec.Vec2i, radius int) []evec.Vec2i {
	xmin := ints.MaxInt(c.X-radius, 0)
	xmax := ints.MinInt(c.X+radius, shape.X-1)
	ymin := ints.MaxInt(c.Y-radius, 0)
	ymax := ints.MinInt(c.Y+radius, shape.Y-1)
	nbs := make([]evec.Vec2i, 0, (2*radius+1)*(2*radius+1))
	for y := ymin; y <= ymax; y++ {
		for x := xmin; x <= xmax; x++ {
			nbs = append(nbs, evec.Vec2i{X: x, Y: y})
		}
	}
	return nbs
}

// NeighborhoodIndexes returns the linear cell indexes of the Neighborhood
// window, in the same row-major order.
func NeighborhoodIndexes(c, shape evec.Vec2i, radius int) []int {
	nbs := Neighborhood(c, shape, radius)
	idxs := make([]int, len(nbs))
	for i, nb := range nbs {
		idxs[i] = Index(nb, shape.X)
	}
	return idxs
}
