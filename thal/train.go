// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thal

import (
	"fmt"
	"sort"

	"github.com/emer/emergent/evec"
	"github.com/emer/etable/etensor"
	"github.com/emer/thalamus/grid"
)

// LocEncoder produces sparse binary patterns over a fixed bit space for
// 2D locations, such that nearby locations get overlapping patterns and
// distant locations get disjoint ones (e.g. locenc.Encoder).
type LocEncoder interface {
	// Encode returns the sorted unique active bit indexes for the given
	// location, with overlap falling off to zero at axis distance radius.
	Encode(c evec.Vec2i, radius int) []int
}

// TrainLocations trains the full circuit to recognize every location of
// the TRN grid.  For each location, an L6 pattern encoding that location
// (at the given encode radius) is learned by the TRN cells in a window of
// the given radius around it, yielding a TRN pattern for the location,
// which is in turn learned by the relay cells in the same window, paired
// with the location itself as the feed-forward coordinate.  After
// training, driving the circuit with a location encoding puts the relay
// cells around that location in burst-ready mode.  Assumes the TRN,
// relay, and input layers have the same shape and are aligned.
func TrainLocations(th *Thalamus, enc LocEncoder, window, radius int) error {
	for y := 0; y < th.TRNShape.Y; y++ {
		for x := 0; x < th.TRNShape.X; x++ {
			c := evec.Vec2i{X: x, Y: y}
			l6Pat := enc.Encode(c, radius)
			trnSDR, err := th.LearnL6Pattern(l6Pat, grid.Neighborhood(c, th.TRNShape, window))
			if err != nil {
				return fmt.Errorf("thal.TrainLocations: %v: %w", c, err)
			}
			_, err = th.LearnTRNPatternOnRelayCells(sortedUnique(trnSDR), c, grid.Neighborhood(c, th.RelayShape, window))
			if err != nil {
				return fmt.Errorf("thal.TrainLocations: %v: %w", c, err)
			}
		}
	}
	return nil
}

// TrainLocationsSimple trains only the TRN cells on location encodings,
// one cell per location, leaving the relay stores untouched.  Useful for
// probing TRN recognition in isolation.
func TrainLocationsSimple(th *Thalamus, enc LocEncoder, radius int) error {
	for y := 0; y < th.TRNShape.Y; y++ {
		for x := 0; x < th.TRNShape.X; x++ {
			c := evec.Vec2i{X: x, Y: y}
			_, err := th.LearnL6Pattern(enc.Encode(c, radius), []evec.Vec2i{c})
			if err != nil {
				return fmt.Errorf("thal.TrainLocationsSimple: %v: %w", c, err)
			}
		}
	}
	return nil
}

// Infer runs one full inference cycle: reset, de-inactivate from the L6
// input, then compute relay output for the feed-forward input.
func Infer(th *Thalamus, l6Input []int, ff *etensor.Float32, tonicLevel float32) (*etensor.Float32, error) {
	th.Reset()
	if err := th.DeInactivateCells(l6Input); err != nil {
		return nil, err
	}
	return th.ComputeFeedForwardActivity(ff, tonicLevel)
}

// UnionLocations returns the union of the encodings of all locations
// within Euclidean distance r of c, sampled every step cells, as a sorted
// unique bit index slice.  Such unions drive the circuit with "everywhere
// around here" patterns, e.g. for wide attentional windows.
func UnionLocations(enc LocEncoder, c evec.Vec2i, r, step, radius int) []int {
	if step < 1 {
		step = 1
	}
	bits := map[int]struct{}{}
	for dx := -r; dx <= r; dx += step {
		for dy := -r; dy <= r; dy += step {
			if dx*dx+dy*dy > r*r {
				continue
			}
			for _, b := range enc.Encode(evec.Vec2i{X: c.X + dx, Y: c.Y + dy}, radius) {
				bits[b] = struct{}{}
			}
		}
	}
	out := make([]int, 0, len(bits))
	for b := range bits {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}
