// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package electra

// Amount is a quantity of the native asset in its smallest unit.
// It is signed so that tally and balance deltas compose without special cases,
// but any amount carried by a transaction output must pass ValidAmount.
type Amount int64

const (
	// Coin is the number of smallest units per whole coin.
	Coin Amount = 100_000_000

	// MaxAmount is the upper bound of any single amount and of any
	// running sum of output amounts.
	MaxAmount Amount = 42_000_000 * Coin
)

// ValidAmount tells whether a fits the valid currency range.
func ValidAmount(a Amount) bool {
	return a >= 0 && a <= MaxAmount
}

// SafeAdd adds two amounts. The second return value is false when the
// result leaves the valid currency range.
func SafeAdd(a, b Amount) (Amount, bool) {
	sum := a + b
	if !ValidAmount(sum) {
		return 0, false
	}
	return sum, true
}
