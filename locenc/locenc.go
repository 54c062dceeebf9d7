// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package locenc encodes 2D grid locations as sparse binary patterns with a
grid-cell-module structure, for driving location-tuned learning in the
thalamus model.

The output bit space is divided into NModules disjoint banks, one per
module.  Each module tiles the plane with square buckets of side radius,
at a module-specific phase offset, and activates exactly one bit of its
bank per location: the bit selected by the bucket the location falls in.
Encodings are therefore always NModules bits, sorted and unique.

Overlap between encodings is exact and position-independent: identical
locations share all NModules bits; locations one step apart along one
axis share NModules - NModules/radius bits (when radius divides
NModules); locations radius or more apart along either axis share none.
*/
package locenc

import (
	"math/rand"

	"github.com/emer/emergent/evec"
)

// bucketMult spreads bucket rows within a bank: the in-bank code is
// bx + by*bucketMult, so locations within bucketMult*radius of each other
// on the x axis never collide in a bank.
const bucketMult = 10

// Encoder is a deterministic grid-cell-module location encoder.
// Construct with NewEncoder, or set fields and call Defaults then Init.
type Encoder struct {
	NBits    int   `def:"1024" desc:"total size of the output bit space -- typically the presynaptic input size of the population being driven"`
	NModules int   `def:"12" desc:"number of grid modules -- each contributes one active bit per location; should be a multiple of the encode radius for uniform overlap falloff"`
	Seed     int64 `def:"42" desc:"random seed for the per-module bank rotations"`
	Rots     []int `view:"-" desc:"per-module bank rotations, derived from Seed in Init"`
}

// NewEncoder returns a ready-to-use encoder over an output space of
// nbits bits, with default module count and seed.
func NewEncoder(nbits int) *Encoder {
	enc := &Encoder{}
	enc.Defaults()
	enc.NBits = nbits
	enc.Init()
	return enc
}

func (enc *Encoder) Defaults() {
	enc.NBits = 1024
	enc.NModules = 12
	enc.Seed = 42
}

// Init derives the per-module bank rotations from Seed.  Call after
// changing NModules or Seed.
func (enc *Encoder) Init() {
	rng := rand.New(rand.NewSource(enc.Seed))
	enc.Rots = make([]int, enc.NModules)
	for i := range enc.Rots {
		enc.Rots[i] = rng.Intn(1 << 16)
	}
}

// Encode returns the sorted unique bit indexes active for the given
// location, with overlap falling off to zero at axis distance radius.
// Coordinates may be negative; radius < 1 is treated as 1.
// Returns nil if the encoder is misconfigured (NBits < NModules).
func (enc *Encoder) Encode(c evec.Vec2i, radius int) []int {
	if enc.NModules <= 0 || enc.NBits < enc.NModules || len(enc.Rots) != enc.NModules {
		return nil
	}
	if radius < 1 {
		radius = 1
	}
	bank := enc.NBits / enc.NModules
	bits := make([]int, enc.NModules)
	for i := 0; i < enc.NModules; i++ {
		ox := i % radius
		oy := (i + i/radius) % radius
		bx := floorDiv(c.X+ox, radius)
		by := floorDiv(c.Y+oy, radius)
		code := bx + by*bucketMult + enc.Rots[i]
		bits[i] = i*bank + posMod(code, bank)
	}
	return bits
}

// floorDiv is integer division rounding toward negative infinity, so
// bucket boundaries line up across zero.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// posMod is a modulus always in [0, b).
func posMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
