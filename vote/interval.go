// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vote

import "github.com/electchain/electra/electra"

// Interval describes the maintenance interval length, by height and time.
// The zero value is not useful; use DefaultInterval unless the network
// overrides the parameters.
type Interval struct {
	Height uint32 // blocks per interval
	Time   uint64 // seconds per interval
}

// DefaultInterval returns the network's maintenance interval parameters.
func DefaultInterval() Interval {
	return Interval{
		Height: electra.IntervalHeight,
		Time:   electra.IntervalTime,
	}
}

// StartHeight returns the height at which the maintenance interval
// containing tipHeight starts.
func (iv Interval) StartHeight(tipHeight uint32) uint32 {
	return tipHeight - tipHeight%iv.Height
}

// StartTime returns the timestamp at which the maintenance interval
// containing tipTime starts.
func (iv Interval) StartTime(tipTime uint64) uint64 {
	return tipTime - tipTime%iv.Time
}

// Contains tells whether a block at the given height belongs to the
// maintenance interval holding the chain tip.
func (iv Interval) Contains(tipHeight, height uint32) bool {
	return height >= iv.StartHeight(tipHeight)
}
