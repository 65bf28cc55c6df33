// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger maintains the delegation state driven by the chain: vote
// tallies, delegation adjacency, balance shadows and asset freeze flags.
//
// State only ever changes through ApplyBlock. Each block commits in a single
// batch write, so a crash mid-block leaves the previous head intact.
package ledger

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/electchain/electra/block"
	"github.com/electchain/electra/electra"
	"github.com/electchain/electra/kv"
	"github.com/electchain/electra/log"
	"github.com/electchain/electra/metrics"
)

var (
	logger = log.WithContext("pkg", "ledger")

	metricTxCount = metrics.LazyLoadCounterVec("ledger_tx_count", []string{"type", "outcome"})
)

// ErrNotLinkable means the block to apply does not extend the current head.
var ErrNotLinkable = errors.New("block does not extend ledger head")

// Ledger is the persistent delegation ledger.
// It is the chain's follower: blocks are fed to it in order and every
// transaction inside adjusts the tables.
// Reads are safe while a block is being applied; ApplyBlock itself is
// single-writer.
type Ledger struct {
	store kv.Store
	head  electra.Bytes32
	rw    sync.RWMutex
}

// New opens the ledger over the given store, restoring the head marker if
// one was committed before.
func New(store kv.Store) (*Ledger, error) {
	l := &Ledger{store: store}

	data, err := store.Get(headKey)
	if err != nil {
		if store.IsNotFound(err) {
			return l, nil
		}
		return nil, errors.Wrap(err, "restore ledger head")
	}
	l.head = electra.BytesToBytes32(data)
	return l, nil
}

// Head returns the id of the last applied block, or a zero value when no
// block was applied yet.
func (l *Ledger) Head() electra.Bytes32 {
	l.rw.RLock()
	defer l.rw.RUnlock()
	return l.head
}

// ApplyBlock folds one block into the ledger. The block must extend the
// current head (or have number zero on an empty ledger), which pins the
// ledger to a finalized single branch.
//
// Transactions violating ledger shape rules are skipped with a warning;
// store failures and context cancellation abort the whole block with the
// head unchanged.
func (l *Ledger) ApplyBlock(ctx context.Context, blk *block.Block) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "apply block")
	}

	header := blk.Header()
	head := l.Head()
	if head.IsZero() {
		if header.Number() != 0 {
			return errors.WithMessagef(ErrNotLinkable, "block %v on empty ledger", header.ID().AbbrevString())
		}
	} else if header.ParentID() != head {
		return errors.WithMessagef(ErrNotLinkable, "block %v, head %v",
			header.ID().AbbrevString(), head.AbbrevString())
	}

	st := newStage(l.store)
	sess := &session{st: st}

	for _, trx := range blk.Transactions() {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "apply block")
		}

		depth := st.push()
		if err := sess.applyTx(trx); err != nil {
			if !isSkippable(err) {
				return errors.WithMessagef(err, "tx %v", trx.ID().AbbrevString())
			}
			st.popTo(depth)
			logger.Warn("skipped transaction",
				"block", header.ID().AbbrevString(),
				"tx", trx.ID().AbbrevString(),
				"err", err)
			metricTxCount().AddWithLabel(1, map[string]string{"type": trx.Type().String(), "outcome": "skipped"})
			continue
		}
		metricTxCount().AddWithLabel(1, map[string]string{"type": trx.Type().String(), "outcome": "applied"})
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "apply block")
	}

	batch := l.store.NewBatch()
	if err := st.commitTo(batch); err != nil {
		return errors.Wrap(err, "stage ledger changes")
	}
	id := header.ID()
	if err := batch.Put(headKey, id.Bytes()); err != nil {
		return errors.Wrap(err, "stage ledger head")
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit ledger block")
	}

	l.rw.Lock()
	l.head = id
	l.rw.Unlock()
	return nil
}
