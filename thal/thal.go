// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package thal implements a simple discrete-time model of the thalamic relay
circuit, with a 2D TRN (thalamic reticular nucleus) layer gating a 2D relay
cell layer.

L6 cortical feedback projects to the dendrites of TRN cells, and these
connections are learned: each learned pattern occupies its own dendritic
segment (LearnL6Pattern).  TRN cells in turn project to the dendrites of
relay cells, paired 1:1 with a feed-forward recognition branch on the same
dendrite (LearnTRNPatternOnRelayCells).

The output of the thalamus is the activity of each relay cell, in one of
three modes: Silent, Tonic, or Burst.  TRN cells control bursting: if any
dendrite on a TRN cell recognizes the current L6 pattern, it de-inactivates
the T-type Ca2+ channels on the dendrites of the relay cells it projects
to, putting those cells in burst-ready mode (DeInactivateCells).  Relay
cells receiving feed-forward drive then respond with burst or tonic
activity depending on that dendritic state, and cells with no drive remain
silent regardless of it (ComputeFeedForwardActivity).

Usage:

	1. Train TRN and relay cells on a set of L6 patterns using
	   LearnL6Pattern and LearnTRNPatternOnRelayCells (or the
	   location-based TrainLocations helper).
	2. De-inactivate relay cells by sending in an L6 pattern:
	   DeInactivateCells.
	3. Compute relay output for a feed-forward input:
	   ComputeFeedForwardActivity.
	4. Reset.  Goto 2.

All connection state lives in three dend.Segments stores, mutated only by
the learning calls and read-only during inference.  Per-cycle transient
state (overlaps, active segment / cell sets, burst-ready mask) is owned by
the Thalamus and only valid between DeInactivateCells and the next Reset.
A Thalamus is not safe for concurrent use.
*/
package thal

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/emer/emergent/evec"
	"github.com/emer/etable/etensor"
	"github.com/emer/thalamus/dend"
	"github.com/emer/thalamus/grid"
	"github.com/goki/mat32"
)

// ErrDimensionMismatch is returned when a feed-forward input grid does not
// have the configured input shape, or a pattern bit index falls outside
// its configured input space.
var ErrDimensionMismatch = errors.New("input does not match configured dimensions")

// ErrPairingViolated is returned when the paired TRN-branch and FF-branch
// segment ids created by LearnTRNPatternOnRelayCells diverge.  This is an
// internal consistency fault: it can only happen if the two relay stores
// have been mutated out-of-band.
var ErrPairingViolated = errors.New("paired TRN / FF segment ids diverged")

// ConnectedPerm is the permanence threshold for a synapse to count as
// connected during overlap scoring.
const ConnectedPerm = float32(0.5)

// SynPerm is the permanence assigned to all learned synapses.  Connectivity
// is binary: every synapse is grown fully connected.
const SynPerm = float32(1)

// Thalamus is a discrete-time thalamic relay circuit: a TRN cell layer, a
// relay cell layer, and a feed-forward input layer, each a 2D grid, plus
// an unstructured pool of L6 feedback cells.  Set the config fields (or
// call Defaults), then Build, before any learning or inference call.
type Thalamus struct {
	TRNShape     evec.Vec2i `desc:"2D shape of the TRN cell layer"`
	RelayShape   evec.Vec2i `desc:"2D shape of the relay cell layer"`
	InputShape   evec.Vec2i `desc:"2D shape of the feed-forward input layer"`
	L6Cells      int        `def:"1024" desc:"number of L6 cells providing cortical feedback patterns"`
	TRNThresh    int        `def:"10" desc:"dendritic threshold for TRN cells -- min number of active L6 cells on a dendrite for the TRN cell to recognize a pattern there"`
	RelayThresh  int        `def:"10" desc:"dendritic threshold for relay cells -- min number of active TRN cells on a dendrite for it to become de-inactivated"`
	FFThresh     int        `def:"1" desc:"dendritic threshold for feed-forward recognition on relay cells"`
	BurstBonus   float32    `def:"1" desc:"output added to the tonic level for bursting cells, clamped at 1 total"`
	TonicDefault float32    `def:"0.4" desc:"tonic activation level used by ComputeFeedForwardActivity when called with a negative tonicLevel"`
	Seed         int64      `def:"42" desc:"random seed -- gating is fully deterministic so this is reserved for future stochastic segment-pruning policies"`

	TRNConns *dend.Segments `desc:"learned L6 -> TRN connections"`
	RelayTRN *dend.Segments `desc:"TRN recognition branches of relay cell dendrites"`
	RelayFF  *dend.Segments `desc:"feed-forward recognition branches of relay cell dendrites, paired 1:1 with RelayTRN segments"`

	TRNOverlaps     []float32        `inactive:"+" desc:"L6 overlap score per TRN segment from last DeInactivateCells"`
	ActiveTRNSegs   []int            `inactive:"+" desc:"TRN segments at or above TRNThresh, ascending"`
	ActiveTRNCells  []int            `inactive:"+" desc:"TRN cells owning active segments, sorted unique"`
	RelayOverlaps   []float32        `inactive:"+" desc:"active-TRN overlap score per relay TRN-branch segment"`
	ActiveRelaySegs []int            `inactive:"+" desc:"de-inactivated relay dendrite segments, ascending"`
	BurstReadyInds  []int            `inactive:"+" desc:"relay cells with a de-inactivated dendrite, sorted unique"`
	BurstReady      *etensor.Float32 `inactive:"+" desc:"binary burst-ready mask over the relay layer"`
	FFOverlaps      []float32        `inactive:"+" desc:"feed-forward overlap score per relay FF-branch segment from last ComputeFeedForwardActivity"`
	ActiveFFSegs    []int            `inactive:"+" desc:"FF-branch segments at or above FFThresh, ascending"`
	BurstSegs       []int            `inactive:"+" desc:"dendrites both de-inactivated and recognizing the feed-forward input (paired segment ids)"`
	Modes           []RelayModes     `inactive:"+" desc:"output mode per relay cell from last ComputeFeedForwardActivity"`
}

// NewThalamus returns a new Thalamus with default parameters, built and
// ready for learning.
func NewThalamus() *Thalamus {
	th := &Thalamus{}
	th.Defaults()
	th.Build()
	return th
}

func (th *Thalamus) Defaults() {
	th.TRNShape = evec.Vec2i{X: 32, Y: 32}
	th.RelayShape = evec.Vec2i{X: 32, Y: 32}
	th.InputShape = evec.Vec2i{X: 32, Y: 32}
	th.L6Cells = 1024
	th.TRNThresh = 10
	th.RelayThresh = 10
	th.FFThresh = 1
	th.BurstBonus = 1
	th.TonicDefault = 0.4
	th.Seed = 42
}

// Build allocates the three segment stores and the burst-ready mask from
// the config fields, and resets all transient state.  Any learned
// connections are discarded.
func (th *Thalamus) Build() error {
	if err := grid.CheckShape(th.TRNShape); err != nil {
		return fmt.Errorf("thal.Build: TRN shape: %w", err)
	}
	if err := grid.CheckShape(th.RelayShape); err != nil {
		return fmt.Errorf("thal.Build: relay shape: %w", err)
	}
	if err := grid.CheckShape(th.InputShape); err != nil {
		return fmt.Errorf("thal.Build: input shape: %w", err)
	}
	if th.L6Cells <= 0 {
		return fmt.Errorf("thal.Build: L6Cells must be positive, got: %d", th.L6Cells)
	}
	th.TRNConns = dend.NewSegments(th.TRNShape.X*th.TRNShape.Y, th.L6Cells)
	th.RelayTRN = dend.NewSegments(th.RelayShape.X*th.RelayShape.Y, th.TRNShape.X*th.TRNShape.Y)
	th.RelayFF = dend.NewSegments(th.RelayShape.X*th.RelayShape.Y, th.InputShape.X*th.InputShape.Y)
	th.BurstReady = etensor.NewFloat32([]int{th.RelayShape.Y, th.RelayShape.X}, nil, []string{"Y", "X"})
	th.Reset()
	return nil
}

// LearnL6Pattern learns the given L6 pattern on TRN cell dendrites.  Each
// cell in cells grows one new dendritic segment storing the full pattern,
// so a cell listed twice gets two independent dendrites.  Returns the TRN
// cell indices that learned the pattern, in input order.
func (th *Thalamus) LearnL6Pattern(l6Pattern []int, cells []evec.Vec2i) ([]int, error) {
	if err := th.checkBits(l6Pattern, th.L6Cells, "L6"); err != nil {
		return nil, fmt.Errorf("thal.LearnL6Pattern: %w", err)
	}
	cidxs := make([]int, len(cells))
	for i, c := range cells {
		if err := grid.CheckCoord(c, th.TRNShape); err != nil {
			return nil, fmt.Errorf("thal.LearnL6Pattern: TRN cell: %w", err)
		}
		cidxs[i] = th.TRNIndex(c)
	}
	segs, err := th.TRNConns.CreateSegments(cidxs)
	if err != nil {
		return nil, fmt.Errorf("thal.LearnL6Pattern: %w", err)
	}
	if err := th.TRNConns.GrowSynapses(segs, l6Pattern, SynPerm); err != nil {
		return nil, fmt.Errorf("thal.LearnL6Pattern: %w", err)
	}
	return cidxs, nil
}

// LearnTRNPatternOnRelayCells learns the given TRN pattern on relay cell
// dendrites, associating each dendrite with the feed-forward axon at
// ffCoord.  Each cell in cells grows one new dendrite, represented as one
// segment in RelayTRN (synapses onto trnSDR) plus one segment in RelayFF
// (a single synapse onto ffCoord), with identical segment ids on both
// sides.  The TRN branch determines whether the dendrite is de-inactivated
// while the FF branch determines whether it is driven, so the pairing is
// what lets burst events be attributed to a specific dendrite.  Returns
// the relay cell indices that learned the pattern, in input order.
func (th *Thalamus) LearnTRNPatternOnRelayCells(trnSDR []int, ffCoord evec.Vec2i, cells []evec.Vec2i) ([]int, error) {
	if err := th.checkBits(trnSDR, th.TRNShape.X*th.TRNShape.Y, "TRN"); err != nil {
		return nil, fmt.Errorf("thal.LearnTRNPatternOnRelayCells: %w", err)
	}
	if err := grid.CheckCoord(ffCoord, th.InputShape); err != nil {
		return nil, fmt.Errorf("thal.LearnTRNPatternOnRelayCells: ff coord: %w", err)
	}
	cidxs := make([]int, len(cells))
	for i, c := range cells {
		if err := grid.CheckCoord(c, th.RelayShape); err != nil {
			return nil, fmt.Errorf("thal.LearnTRNPatternOnRelayCells: relay cell: %w", err)
		}
		cidxs[i] = th.RelayIndex(c)
	}
	trnSegs, err := th.RelayTRN.CreateSegments(cidxs)
	if err != nil {
		return nil, fmt.Errorf("thal.LearnTRNPatternOnRelayCells: %w", err)
	}
	ffSegs, err := th.RelayFF.CreateSegments(cidxs)
	if err != nil {
		return nil, fmt.Errorf("thal.LearnTRNPatternOnRelayCells: %w", err)
	}
	if len(ffSegs) != len(trnSegs) {
		return nil, fmt.Errorf("thal.LearnTRNPatternOnRelayCells: %w: %d TRN vs %d FF segments", ErrPairingViolated, len(trnSegs), len(ffSegs))
	}
	for i := range trnSegs {
		if trnSegs[i] != ffSegs[i] {
			return nil, fmt.Errorf("thal.LearnTRNPatternOnRelayCells: %w: pair %d: segment %d vs %d", ErrPairingViolated, i, trnSegs[i], ffSegs[i])
		}
	}
	if err := th.RelayTRN.GrowSynapses(trnSegs, trnSDR, SynPerm); err != nil {
		return nil, fmt.Errorf("thal.LearnTRNPatternOnRelayCells: %w", err)
	}
	if err := th.RelayFF.GrowSynapses(ffSegs, []int{th.FFIndex(ffCoord)}, SynPerm); err != nil {
		return nil, fmt.Errorf("thal.LearnTRNPatternOnRelayCells: %w", err)
	}
	return cidxs, nil
}

// DeInactivateCells activates TRN cells according to the given L6 input,
// and these in turn de-inactivate the dendrites of the relay cells they
// project to.  TRN segments with L6 overlap at or above TRNThresh
// determine the active TRN cell set; relay TRN-branch segments with
// overlap against that set at or above RelayThresh are de-inactivated, and
// their cells are marked in the burst-ready mask.  State accumulates until
// Reset: call Reset between independent inference cycles.
func (th *Thalamus) DeInactivateCells(l6Input []int) error {
	if err := th.checkBits(l6Input, th.L6Cells, "L6"); err != nil {
		return fmt.Errorf("thal.DeInactivateCells: %w", err)
	}
	ovs, err := th.TRNConns.ComputeActivity(l6Input, ConnectedPerm)
	if err != nil {
		return fmt.Errorf("thal.DeInactivateCells: %w", err)
	}
	th.TRNOverlaps = ovs
	th.ActiveTRNSegs = nil
	for si, ov := range th.TRNOverlaps {
		if ov >= float32(th.TRNThresh) {
			th.ActiveTRNSegs = append(th.ActiveTRNSegs, si)
		}
	}
	tcells, err := th.TRNConns.MapSegmentsToCells(th.ActiveTRNSegs)
	if err != nil {
		return fmt.Errorf("thal.DeInactivateCells: %w", err)
	}
	th.ActiveTRNCells = sortedUnique(tcells)

	ovs, err = th.RelayTRN.ComputeActivity(th.ActiveTRNCells, ConnectedPerm)
	if err != nil {
		return fmt.Errorf("thal.DeInactivateCells: %w", err)
	}
	th.RelayOverlaps = ovs
	th.ActiveRelaySegs = nil
	for si, ov := range th.RelayOverlaps {
		if ov >= float32(th.RelayThresh) {
			th.ActiveRelaySegs = append(th.ActiveRelaySegs, si)
		}
	}
	rcells, err := th.RelayTRN.MapSegmentsToCells(th.ActiveRelaySegs)
	if err != nil {
		return fmt.Errorf("thal.DeInactivateCells: %w", err)
	}
	th.BurstReadyInds = sortedUnique(rcells)
	for _, ci := range th.BurstReadyInds {
		th.BurstReady.Values[ci] = 1
	}
	return nil
}

// ComputeFeedForwardActivity computes relay cell output for the given
// binary feed-forward input grid, which must have shape InputShape.
// Relay cells whose FF-branch dendrites recognize the active input axons
// respond at tonicLevel, or at tonicLevel + BurstBonus (clamped at 1) if
// burst-ready from a prior DeInactivateCells; all other cells are silent.
// A negative tonicLevel selects TonicDefault.  The per-cell mode
// classification is left in Modes, and the dendrites both de-inactivated
// and FF-driven in BurstSegs.  Returns relay output with shape RelayShape.
func (th *Thalamus) ComputeFeedForwardActivity(ff *etensor.Float32, tonicLevel float32) (*etensor.Float32, error) {
	if tonicLevel < 0 {
		tonicLevel = th.TonicDefault
	}
	if ff.NumDims() != 2 || ff.Dim(0) != th.InputShape.Y || ff.Dim(1) != th.InputShape.X {
		return nil, fmt.Errorf("thal.ComputeFeedForwardActivity: %w: got %v, need [%d, %d]", ErrDimensionMismatch, ff.Shp, th.InputShape.Y, th.InputShape.X)
	}
	var ffActive []int
	for i, v := range ff.Values {
		if v != 0 {
			ffActive = append(ffActive, i)
		}
	}
	ovs, err := th.RelayFF.ComputeActivity(ffActive, ConnectedPerm)
	if err != nil {
		return nil, fmt.Errorf("thal.ComputeFeedForwardActivity: %w", err)
	}
	th.FFOverlaps = ovs
	th.ActiveFFSegs = nil
	for si, ov := range th.FFOverlaps {
		if ov >= float32(th.FFThresh) {
			th.ActiveFFSegs = append(th.ActiveFFSegs, si)
		}
	}
	th.BurstSegs = intersectSorted(th.ActiveRelaySegs, th.ActiveFFSegs)
	fcells, err := th.RelayFF.MapSegmentsToCells(th.ActiveFFSegs)
	if err != nil {
		return nil, fmt.Errorf("thal.ComputeFeedForwardActivity: %w", err)
	}
	th.Modes = make([]RelayModes, th.RelayShape.X*th.RelayShape.Y)
	for _, ci := range fcells {
		if th.BurstReady.Values[ci] != 0 {
			th.Modes[ci] = Burst
		} else {
			th.Modes[ci] = Tonic
		}
	}
	out := etensor.NewFloat32([]int{th.RelayShape.Y, th.RelayShape.X}, nil, []string{"Y", "X"})
	blev := mat32.Min(tonicLevel+th.BurstBonus, 1)
	for ci, md := range th.Modes {
		switch md {
		case Tonic:
			out.Values[ci] = tonicLevel
		case Burst:
			out.Values[ci] = blev
		}
	}
	return out, nil
}

// Reset sets all transient state back to zero: overlaps, active segment
// and cell sets, modes, and the burst-ready mask.  Learned connections are
// preserved.
func (th *Thalamus) Reset() {
	th.TRNOverlaps = nil
	th.ActiveTRNSegs = nil
	th.ActiveTRNCells = nil
	th.RelayOverlaps = nil
	th.ActiveRelaySegs = nil
	th.BurstReadyInds = nil
	th.FFOverlaps = nil
	th.ActiveFFSegs = nil
	th.BurstSegs = nil
	th.Modes = nil
	th.BurstReady.SetZeros()
}

// SetThresholds sets the TRN and relay dendritic thresholds, taking
// effect on the next DeInactivateCells call.
func (th *Thalamus) SetThresholds(trn, relay int) {
	th.TRNThresh = trn
	th.RelayThresh = relay
}

// TRNIndex returns the linear index of the given TRN cell coordinate.
func (th *Thalamus) TRNIndex(c evec.Vec2i) int {
	return grid.Index(c, th.TRNShape.X)
}

// TRNCoord returns the coordinate of the given linear TRN cell index.
func (th *Thalamus) TRNCoord(idx int) evec.Vec2i {
	return grid.Coord(idx, th.TRNShape.X)
}

// RelayIndex returns the linear index of the given relay cell coordinate.
func (th *Thalamus) RelayIndex(c evec.Vec2i) int {
	return grid.Index(c, th.RelayShape.X)
}

// RelayCoord returns the coordinate of the given linear relay cell index.
func (th *Thalamus) RelayCoord(idx int) evec.Vec2i {
	return grid.Coord(idx, th.RelayShape.X)
}

// FFIndex returns the linear index of the given feed-forward input
// coordinate.
func (th *Thalamus) FFIndex(c evec.Vec2i) int {
	return grid.Index(c, th.InputShape.X)
}

// FFCoord returns the coordinate of the given linear feed-forward input
// index.
func (th *Thalamus) FFCoord(idx int) evec.Vec2i {
	return grid.Coord(idx, th.InputShape.X)
}

// SizeReport returns a string with segment, synapse, and memory stats for
// the three connection stores.
func (th *Thalamus) SizeReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%14s:\n%v", "L6 -> TRN", th.TRNConns.SizeReport())
	fmt.Fprintf(&b, "%14s:\n%v", "TRN -> Relay", th.RelayTRN.SizeReport())
	fmt.Fprintf(&b, "%14s:\n%v", "FF -> Relay", th.RelayFF.SizeReport())
	return b.String()
}

// checkBits validates a pattern's bit indexes against the size of the
// space they index into.
func (th *Thalamus) checkBits(bits []int, n int, space string) error {
	for _, b := range bits {
		if b < 0 || b >= n {
			return fmt.Errorf("%w: %s bit %d outside [0, %d)", ErrDimensionMismatch, space, b, n)
		}
	}
	return nil
}

// sortedUnique sorts idxs in place and returns it with duplicates
// collapsed.
func sortedUnique(idxs []int) []int {
	if len(idxs) == 0 {
		return nil
	}
	sort.Ints(idxs)
	out := idxs[:1]
	for _, ix := range idxs[1:] {
		if ix != out[len(out)-1] {
			out = append(out, ix)
		}
	}
	return out
}

// intersectSorted returns the intersection of two ascending-sorted index
// slices.
func intersectSorted(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
