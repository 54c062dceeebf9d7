// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thal

import (
	"github.com/goki/ki/kit"
)

// RelayModes are the possible output modes of a relay cell on a given
// inference cycle.
type RelayModes int

//go:generate stringer -type=RelayModes

var KiT_RelayModes = kit.Enums.AddEnum(RelayModesN, false, nil)

func (ev RelayModes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *RelayModes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Silent = no feed-forward drive on any dendrite -- no output regardless of dendritic state
	Silent RelayModes = iota

	// Tonic = feed-forward drive on a dendrite that is not de-inactivated -- sustained moderate output
	Tonic

	// Burst = feed-forward drive on a burst-ready cell -- amplified output from de-inactivated T-type Ca2+ channels
	Burst

	RelayModesN
)

// ModeFor classifies an output activation value produced at the given
// tonic level.  When the tonic and burst levels coincide (tonicLevel 1)
// the activation alone cannot distinguish them and Tonic is returned.
func ModeFor(act, tonicLevel float32) RelayModes {
	switch {
	case act == 0:
		return Silent
	case act == tonicLevel:
		return Tonic
	default:
		return Burst
	}
}
