// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package electra

// Constants of network parameters.
const (
	// BlockInterval is the time between two consecutive blocks, in seconds.
	BlockInterval uint64 = 2

	// IntervalHeight is the number of blocks per maintenance interval.
	// One interval per day at BlockInterval seconds per block.
	IntervalHeight uint32 = 12 * 60 * 60

	// IntervalTime is the length of a maintenance interval in seconds.
	IntervalTime uint64 = 24 * 60 * 60

	// NativeAsset is the asset identifier of the native currency.
	// Outputs carrying any other asset never move balances or tallies.
	NativeAsset = "ELEC"
)
