// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package dend implements a sparse store of dendritic segments and synapses
connecting one population of cells to a presynaptic input space.

Each postsynaptic cell owns zero or more segments (independent dendrites,
created over the course of learning, never merged or removed), and each
segment owns a set of synapses onto presynaptic input indexes, with a
permanence weight.  Segments have stable integer ids assigned in creation
order, so slices indexed by segment id line up across calls.

The store keeps a per-input reverse index alongside the per-segment
synapse lists, so ComputeActivity scales with the number of active inputs
times the average fan-out per input, not with the total segment count.
*/
package dend

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
)

// ErrUnknownSegment is returned when a segment id does not refer to an
// existing segment.
var ErrUnknownSegment = errors.New("unknown segment id")

// Synapse is one connection from a dendritic segment onto a presynaptic
// input index.
type Synapse struct {
	PreIdx int32   `desc:"index of the presynaptic input this synapse connects to"`
	Perm   float32 `desc:"permanence weight in [0,1] -- the thalamus model always grows at 1 (binary connectivity)"`
}

// preSyn is the reverse-index image of a Synapse: for one presynaptic
// input, the segment holding the synapse and its permanence.  Permanence
// is duplicated here so ComputeActivity never touches the forward lists.
type preSyn struct {
	Seg  int32
	Perm float32
}

// Segments is the dendritic segment store for one pair of populations
// (e.g. L6 -> TRN).  All segment and synapse state is held in flat
// per-segment and per-cell slices; segment ids are never reused.
type Segments struct {
	NCells   int         `desc:"number of postsynaptic cells"`
	NInputs  int         `desc:"size of the presynaptic input space"`
	SegCells []int32     `desc:"owning cell index for each segment, in segment-creation order"`
	Syns     [][]Synapse `desc:"synapses for each segment, in synapse-growth order"`
	CellSegs [][]int32   `desc:"segment ids owned by each cell"`
	PreSyns  [][]preSyn  `view:"-" desc:"reverse index: for each presynaptic input, the segments connected to it"`
	SynCnt   int         `desc:"total number of synapses across all segments"`
}

// NewSegments returns a new empty store connecting nInputs presynaptic
// inputs to nCells postsynaptic cells.
func NewSegments(nCells, nInputs int) *Segments {
	sg := &Segments{NCells: nCells, NInputs: nInputs}
	sg.CellSegs = make([][]int32, nCells)
	sg.PreSyns = make([][]preSyn, nInputs)
	return sg
}

// NSegments returns the total number of segments created so far.
func (sg *Segments) NSegments() int {
	return len(sg.SegCells)
}

// NSynapses returns the total number of synapses across all segments.
func (sg *Segments) NSynapses() int {
	return sg.SynCnt
}

// CheckSegment returns ErrUnknownSegment if seg is not an existing
// segment id.
func (sg *Segments) CheckSegment(seg int) error {
	if seg < 0 || seg >= len(sg.SegCells) {
		return fmt.Errorf("%w: %d (have %d segments)", ErrUnknownSegment, seg, len(sg.SegCells))
	}
	return nil
}

// CreateSegments creates one new empty segment on each of the given cell
// indexes, returning the new segment ids in the same order.  A cell index
// appearing twice gets two independent segments (multiple dendrites).
// No segments are created if any cell index is out of range.
func (sg *Segments) CreateSegments(cells []int) ([]int, error) {
	for _, ci := range cells {
		if ci < 0 || ci >= sg.NCells {
			return nil, fmt.Errorf("dend.CreateSegments: cell index %d out of range [0, %d)", ci, sg.NCells)
		}
	}
	segs := make([]int, len(cells))
	for i, ci := range cells {
		si := len(sg.SegCells)
		sg.SegCells = append(sg.SegCells, int32(ci))
		sg.Syns = append(sg.Syns, nil)
		sg.CellSegs[ci] = append(sg.CellSegs[ci], int32(si))
		segs[i] = si
	}
	return segs, nil
}

// GrowSynapses adds a synapse from every segment in segs to every index
// in presyn, with the given permanence.  Growing a synapse that already
// exists on a segment updates its permanence instead of duplicating it,
// so overlap counts always reflect distinct presynaptic inputs.
// No synapses are grown if any segment id or presynaptic index is invalid.
func (sg *Segments) GrowSynapses(segs []int, presyn []int, perm float32) error {
	for _, si := range segs {
		if err := sg.CheckSegment(si); err != nil {
			return fmt.Errorf("dend.GrowSynapses: %w", err)
		}
	}
	for _, pi := range presyn {
		if pi < 0 || pi >= sg.NInputs {
			return fmt.Errorf("dend.GrowSynapses: presynaptic index %d out of range [0, %d)", pi, sg.NInputs)
		}
	}
	for _, si := range segs {
		for _, pi := range presyn {
			sg.growOne(si, pi, perm)
		}
	}
	return nil
}

// growOne grows or updates the single synapse seg -> pre.
func (sg *Segments) growOne(seg, pre int, perm float32) {
	syns := sg.Syns[seg]
	for i := range syns {
		if int(syns[i].PreIdx) == pre {
			syns[i].Perm = perm
			sg.updatePre(seg, pre, perm)
			return
		}
	}
	sg.Syns[seg] = append(syns, Synapse{PreIdx: int32(pre), Perm: perm})
	sg.PreSyns[pre] = append(sg.PreSyns[pre], preSyn{Seg: int32(seg), Perm: perm})
	sg.SynCnt++
}

// updatePre mirrors a permanence update into the reverse index.
func (sg *Segments) updatePre(seg, pre int, perm float32) {
	pss := sg.PreSyns[pre]
	for i := range pss {
		if int(pss[i].Seg) == seg {
			pss[i].Perm = perm
			return
		}
	}
}

// ComputeActivity returns the overlap of every segment with the given set
// of active presynaptic inputs: the number of its synapses whose
// presynaptic index is active and whose permanence is at least
// connectedPerm.  The result has one entry per segment, in
// segment-creation order.  active is treated as a set (callers pass
// unique indexes).  An empty active set yields all zeros.
func (sg *Segments) ComputeActivity(active []int, connectedPerm float32) ([]float32, error) {
	for _, ai := range active {
		if ai < 0 || ai >= sg.NInputs {
			return nil, fmt.Errorf("dend.ComputeActivity: active input index %d out of range [0, %d)", ai, sg.NInputs)
		}
	}
	acts := make([]float32, len(sg.SegCells))
	for _, ai := range active {
		for _, ps := range sg.PreSyns[ai] {
			if ps.Perm >= connectedPerm {
				acts[ps.Seg]++
			}
		}
	}
	return acts, nil
}

// MapSegmentsToCells returns the owning cell index for each given segment
// id, preserving order (including duplicates).
func (sg *Segments) MapSegmentsToCells(segs []int) ([]int, error) {
	cells := make([]int, len(segs))
	for i, si := range segs {
		if err := sg.CheckSegment(si); err != nil {
			return nil, fmt.Errorf("dend.MapSegmentsToCells: %w", err)
		}
		cells[i] = int(sg.SegCells[si])
	}
	return cells, nil
}

// SegmentCounts returns the number of segments owned by each of the given
// cell indexes, 0 for cells with none.
func (sg *Segments) SegmentCounts(cells []int) ([]int, error) {
	cnts := make([]int, len(cells))
	for i, ci := range cells {
		if ci < 0 || ci >= sg.NCells {
			return nil, fmt.Errorf("dend.SegmentCounts: cell index %d out of range [0, %d)", ci, sg.NCells)
		}
		cnts[i] = len(sg.CellSegs[ci])
	}
	return cnts, nil
}

// Synapses returns a copy of the synapses on the given segment, in
// growth order.
func (sg *Segments) Synapses(seg int) ([]Synapse, error) {
	if err := sg.CheckSegment(seg); err != nil {
		return nil, fmt.Errorf("dend.Synapses: %w", err)
	}
	syns := make([]Synapse, len(sg.Syns[seg]))
	copy(syns, sg.Syns[seg])
	return syns, nil
}

// SizeReport returns a string reporting segment and synapse counts,
// fan-out stats, and estimated memory footprint of the store.
func (sg *Segments) SizeReport() string {
	var b strings.Builder
	nseg := len(sg.SegCells)
	maxSyn := 0
	for _, syns := range sg.Syns {
		if len(syns) > maxSyn {
			maxSyn = len(syns)
		}
	}
	avgSyn := float32(0)
	if nseg > 0 {
		avgSyn = float32(sg.SynCnt) / float32(nseg)
	}
	synMem := 2 * sg.SynCnt * int(unsafe.Sizeof(Synapse{})) // forward + reverse
	segMem := nseg*4 + sg.NCells*4
	fmt.Fprintf(&b, "Cells: %d\t Inputs: %d\t Segs: %d\t SegMem: %v\n", sg.NCells, sg.NInputs, nseg, (datasize.ByteSize)(segMem).HumanReadable())
	fmt.Fprintf(&b, "Syns: %d\t AvgPerSeg: %g\t MaxPerSeg: %d\t SynMem: %v\n", sg.SynCnt, avgSyn, maxSyn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}
