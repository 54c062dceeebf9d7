// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package thalamus implements a discrete-time model of a first-order
thalamic relay circuit, where thalamic reticular nucleus (TRN) cells
learn to recognize layer 6 corticothalamic feedback patterns and gate
the relay cells between silent, tonic, and burst firing modes.

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* thal: the core circuit model: learning methods that store L6 feedback
patterns on TRN dendrites and TRN activity patterns on relay cell
dendrites, the de-inactivation step that primes relay cells for
bursting, and the feed-forward step that produces the gated relay
output.  Also contains training / inference convenience functions for
driving the circuit with location encodings.

* dend: the sparse dendritic segment store underlying all of the
learning: cells own dynamically-created segments, segments hold
weighted synapses onto input axons, and overlap with an active input
set is computed through a presynaptic reverse index.

* locenc: a deterministic grid-cell-module style encoder that maps 2D
coordinates (at a given spatial scale) onto sparse distributed L6-like
bit patterns, with overlap falling off with distance.

* grid: small helpers for 2D sheets of cells: coordinate / index
conversion, bounds checking, and neighborhood enumeration.
*/
package thalamus
