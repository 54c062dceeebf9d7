// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"errors"
	"testing"

	"github.com/emer/emergent/evec"
)

func TestIndexCoord(t *testing.T) {
	if idx := Index(evec.Vec2i{X: 0, Y: 0}, 32); idx != 0 {
		t.Errorf("index of origin: %d", idx)
	}
	if idx := Index(evec.Vec2i{X: 2, Y: 3}, 32); idx != 98 {
		t.Errorf("index of (2,3) in width 32: %d, want 98", idx)
	}
	if c := Coord(98, 32); c.X != 2 || c.Y != 3 {
		t.Errorf("coord of 98 in width 32: %v, want (2,3)", c)
	}
	// round trip over a full odd-sized grid
	w, h := 7, 5
	for i := 0; i < w*h; i++ {
		if ri := Index(Coord(i, w), w); ri != i {
			t.Errorf("round trip of %d: %d", i, ri)
		}
	}
}

func TestCheckCoord(t *testing.T) {
	shp := evec.Vec2i{X: 16, Y: 8}
	ok := []evec.Vec2i{{X: 0, Y: 0}, {X: 15, Y: 7}, {X: 15, Y: 0}, {X: 0, Y: 7}}
	for _, c := range ok {
		if err := CheckCoord(c, shp); err != nil {
			t.Errorf("%v should be in bounds: %v", c, err)
		}
	}
	bad := []evec.Vec2i{{X: 16, Y: 0}, {X: 0, Y: 8}, {X: -1, Y: 0}, {X: 0, Y: -1}, {X: 16, Y: 8}}
	for _, c := range bad {
		err := CheckCoord(c, shp)
		if err == nil {
			t.Errorf("%v should be out of bounds", c)
		}
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("%v error should wrap ErrInvalidCoordinate: %v", c, err)
		}
	}
	if err := CheckShape(evec.Vec2i{X: 0, Y: 4}); err == nil {
		t.Errorf("zero-width shape should be invalid")
	}
	if err := CheckShape(shp); err != nil {
		t.Errorf("valid shape: %v", err)
	}
}

func TestNeighborhood(t *testing.T) {
	shp := evec.Vec2i{X: 16, Y: 16}

	ctr := Neighborhood(evec.Vec2i{X: 8, Y: 8}, shp, 1)
	if len(ctr) != 9 {
		t.Errorf("interior radius-1 window: %d cells, want 9", len(ctr))
	}
	// row-major order, inclusive bounds
	if ctr[0].X != 7 || ctr[0].Y != 7 || ctr[8].X != 9 || ctr[8].Y != 9 {
		t.Errorf("window corners: %v .. %v", ctr[0], ctr[8])
	}

	if n := len(Neighborhood(evec.Vec2i{X: 0, Y: 0}, shp, 1)); n != 4 {
		t.Errorf("corner radius-1 window: %d cells, want 4", n)
	}
	if n := len(Neighborhood(evec.Vec2i{X: 15, Y: 15}, shp, 1)); n != 4 {
		t.Errorf("far corner radius-1 window: %d cells, want 4", n)
	}
	if n := len(Neighborhood(evec.Vec2i{X: 8, Y: 0}, shp, 1)); n != 6 {
		t.Errorf("edge radius-1 window: %d cells, want 6", n)
	}
	if n := len(Neighborhood(evec.Vec2i{X: 8, Y: 8}, shp, 0)); n != 1 {
		t.Errorf("radius-0 window: %d cells, want 1", n)
	}
	if n := len(Neighborhood(evec.Vec2i{X: 8, Y: 8}, shp, 2)); n != 25 {
		t.Errorf("interior radius-2 window: %d cells, want 25", n)
	}

	idxs := NeighborhoodIndexes(evec.Vec2i{X: 8, Y: 8}, shp, 1)
	if len(idxs) != len(ctr) {
		t.Fatalf("index window size %d != coord window size %d", len(idxs), len(ctr))
	}
	for i, c := range ctr {
		if idxs[i] != Index(c, shp.X) {
			t.Errorf("index %d: %d != index of %v", i, idxs[i], c)
		}
	}
}
