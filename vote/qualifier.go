// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vote decides how much stake a transaction contributes to voting.
package vote

import (
	"github.com/pkg/errors"

	"github.com/electchain/electra/block"
	"github.com/electchain/electra/chain"
	"github.com/electchain/electra/electra"
	"github.com/electchain/electra/tx"
)

var (
	// ErrInvalidBlockRef means the supplied block position is not part of
	// the active chain or is ahead of the chain tip.
	ErrInvalidBlockRef = errors.New("invalid block reference")

	// ErrAmountRange means the accumulated amount left the valid
	// currency range.
	ErrAmountRange = errors.New("amount out of range")
)

// Config tunes the qualifier.
type Config struct {
	// Interval overrides the maintenance interval parameters.
	// Zero height means DefaultInterval.
	Interval Interval

	// LockTimeGate, when set, disqualifies vote transactions whose lock
	// time is not yet satisfied at the evaluated block position.
	LockTimeGate bool
}

// OwnedFunc tells whether an address belongs to the calling wallet.
type OwnedFunc func(electra.Address) bool

// Qualifier computes voting stake contributions against an explicit chain
// handle. It is a pure query; it never writes.
type Qualifier struct {
	chain  *chain.Chain
	config Config
}

// New creates a qualifier bound to the given chain.
func New(c *chain.Chain, config Config) *Qualifier {
	if config.Interval.Height == 0 {
		config.Interval = DefaultInterval()
	}
	return &Qualifier{chain: c, config: config}
}

// Qualify returns the amount of stake trx contributes toward voting when
// evaluated at block position pos.
//
// A position off the active chain or ahead of the tip is an error. A
// transaction that merely doesn't count (wrong type, outside the current
// maintenance interval, immature) yields zero and no error.
//
// When ownedBy is non-nil only outputs it accepts are summed, otherwise all
// outputs count.
func (q *Qualifier) Qualify(pos electra.Bytes32, trx *tx.Transaction, ownedBy OwnedFunc) (electra.Amount, error) {
	if pos.IsZero() {
		return 0, errors.WithMessage(ErrInvalidBlockRef, "empty position")
	}
	onChain, err := q.chain.Contains(pos)
	if err != nil {
		return 0, errors.Wrap(err, "check block reference")
	}
	if !onChain {
		return 0, errors.WithMessagef(ErrInvalidBlockRef, "position %v", pos.AbbrevString())
	}
	// membership implies a non-empty chain, so the best block exists
	tip := q.chain.BestBlock().Header().Number()
	if block.Number(pos) > tip {
		return 0, errors.WithMessagef(ErrInvalidBlockRef, "position %v", pos.AbbrevString())
	}

	if trx.Type() != tx.TypeVote {
		return 0, nil
	}
	if !q.config.Interval.Contains(tip, block.Number(pos)) {
		return 0, nil
	}
	if q.config.LockTimeGate && trx.LockTime() > block.Number(pos) {
		return 0, nil
	}

	var total electra.Amount
	for _, out := range trx.Outputs() {
		if ownedBy != nil && !ownedBy(out.To) {
			continue
		}
		if !electra.ValidAmount(out.Value) {
			return 0, errors.WithMessagef(ErrAmountRange, "output value %d", out.Value)
		}
		sum, ok := electra.SafeAdd(total, out.Value)
		if !ok {
			return 0, errors.WithMessage(ErrAmountRange, "output sum")
		}
		total = sum
	}
	return total, nil
}
