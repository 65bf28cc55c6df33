// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electchain/electra/block"
	"github.com/electchain/electra/electra"
	"github.com/electchain/electra/kv"
	"github.com/electchain/electra/lvldb"
	"github.com/electchain/electra/tx"
)

var (
	voterV = electra.BytesToAddress([]byte("voter-v"))
	candC1 = electra.BytesToAddress([]byte("cand-c1"))
	candC2 = electra.BytesToAddress([]byte("cand-c2"))
	candC3 = electra.BytesToAddress([]byte("cand-c3"))
)

var testNonce uint64

func coinbaseTx(to electra.Address, amount electra.Amount) *tx.Transaction {
	testNonce++
	return new(tx.Builder).
		Type(tx.TypeValue).
		Coinbase().
		Nonce(testNonce).
		Output(to, amount, electra.NativeAsset).
		Build()
}

func enrollTx(signer electra.Address) *tx.Transaction {
	testNonce++
	return new(tx.Builder).
		Type(tx.TypeEnroll).
		Signer(signer).
		Nonce(testNonce).
		Build()
}

func voteTx(signer, candidate electra.Address) *tx.Transaction {
	testNonce++
	return new(tx.Builder).
		Type(tx.TypeVote).
		Signer(signer).
		Nonce(testNonce).
		Output(candidate, 0, electra.NativeAsset).
		Build()
}

func newTestLedger(t *testing.T) (*Ledger, kv.Store) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	l, err := New(store)
	require.NoError(t, err)
	return l, store
}

// apply builds a block on top of the ledger head out of the given
// transactions and applies it.
func apply(t *testing.T, l *Ledger, txs ...*tx.Transaction) *block.Block {
	builder := new(block.Builder).
		ParentID(l.Head()).
		Timestamp(10000 + uint64(block.Number(l.Head()))*electra.BlockInterval)
	for _, trx := range txs {
		builder.Transaction(trx)
	}
	blk := builder.Build()
	require.NoError(t, l.ApplyBlock(context.Background(), blk))
	return blk
}

// checkAdjacency asserts that the delegation edges read the same from both
// sides for the given addresses.
func checkAdjacency(t *testing.T, l *Ledger, addrs ...electra.Address) {
	for _, voter := range addrs {
		delegates, err := l.DelegatesTo(voter)
		require.NoError(t, err)
		for _, c := range delegates {
			supporters, err := l.SupportedBy(c)
			require.NoError(t, err)
			assert.True(t, containsAddress(supporters, voter),
				"edge %v -> %v missing on the candidate side", voter, c)
		}
	}
	for _, cand := range addrs {
		supporters, err := l.SupportedBy(cand)
		require.NoError(t, err)
		for _, v := range supporters {
			delegates, err := l.DelegatesTo(v)
			require.NoError(t, err)
			assert.True(t, containsAddress(delegates, cand),
				"edge %v -> %v missing on the voter side", v, cand)
		}
	}
}

func tallyOf(t *testing.T, l *Ledger, addr electra.Address) electra.Amount {
	v, err := l.Tally(addr)
	require.NoError(t, err)
	return v
}

func balanceOf(t *testing.T, l *Ledger, addr electra.Address) electra.Amount {
	v, err := l.Balance(addr)
	require.NoError(t, err)
	return v
}

func TestVoteSplitsBalanceEvenly(t *testing.T) {
	l, _ := newTestLedger(t)

	apply(t, l,
		coinbaseTx(voterV, 900),
		enrollTx(candC1), enrollTx(candC2), enrollTx(candC3),
		voteTx(voterV, candC1), voteTx(voterV, candC2), voteTx(voterV, candC3))

	assert.Equal(t, electra.Amount(300), tallyOf(t, l, candC1))
	assert.Equal(t, electra.Amount(300), tallyOf(t, l, candC2))
	assert.Equal(t, electra.Amount(300), tallyOf(t, l, candC3))
	checkAdjacency(t, l, voterV, candC1, candC2, candC3)

	// unvote redistributes the slot over the remaining candidates
	apply(t, l, voteTx(voterV, candC2))

	assert.Equal(t, electra.Amount(450), tallyOf(t, l, candC1))
	assert.Equal(t, electra.Amount(0), tallyOf(t, l, candC2))
	assert.Equal(t, electra.Amount(450), tallyOf(t, l, candC3))

	delegates, err := l.DelegatesTo(voterV)
	require.NoError(t, err)
	assert.Equal(t, []electra.Address{candC1, candC3}, delegates)
	supporters, err := l.SupportedBy(candC2)
	require.NoError(t, err)
	assert.Empty(t, supporters)
	checkAdjacency(t, l, voterV, candC1, candC2, candC3)
}

func TestVoteToggleIdempotence(t *testing.T) {
	l, _ := newTestLedger(t)

	apply(t, l, coinbaseTx(voterV, 900), voteTx(voterV, candC1))
	assert.Equal(t, electra.Amount(900), tallyOf(t, l, candC1))

	// the same vote again is an unvote, restoring the prior tallies
	apply(t, l, voteTx(voterV, candC1))
	assert.Equal(t, electra.Amount(0), tallyOf(t, l, candC1))

	delegates, err := l.DelegatesTo(voterV)
	require.NoError(t, err)
	assert.Empty(t, delegates)
	supporters, err := l.SupportedBy(candC1)
	require.NoError(t, err)
	assert.Empty(t, supporters)

	// a third application counts again, never double
	apply(t, l, voteTx(voterV, candC1))
	assert.Equal(t, electra.Amount(900), tallyOf(t, l, candC1))
	checkAdjacency(t, l, voterV, candC1)
}

func TestVoteRoundsDown(t *testing.T) {
	l, _ := newTestLedger(t)

	apply(t, l,
		coinbaseTx(voterV, 1000),
		voteTx(voterV, candC1), voteTx(voterV, candC2), voteTx(voterV, candC3))

	// 1000/3 floors to 333, one unit of stake stays unassigned
	assert.Equal(t, electra.Amount(333), tallyOf(t, l, candC1))
	assert.Equal(t, electra.Amount(333), tallyOf(t, l, candC2))
	assert.Equal(t, electra.Amount(333), tallyOf(t, l, candC3))
}

func TestEnrollToggle(t *testing.T) {
	l, _ := newTestLedger(t)

	apply(t, l,
		coinbaseTx(voterV, 900),
		enrollTx(candC1), enrollTx(candC2), enrollTx(candC3),
		voteTx(voterV, candC1), voteTx(voterV, candC2), voteTx(voterV, candC3))

	// withdrawal pushes the voter's share onto the remaining candidates
	apply(t, l, enrollTx(candC2))

	state, err := l.Enrollment(candC2)
	require.NoError(t, err)
	assert.Equal(t, Withdrawn, state)
	assert.Equal(t, electra.Amount(0), tallyOf(t, l, candC2))
	assert.Equal(t, electra.Amount(450), tallyOf(t, l, candC1))
	assert.Equal(t, electra.Amount(450), tallyOf(t, l, candC3))

	supporters, err := l.SupportedBy(candC2)
	require.NoError(t, err)
	assert.Empty(t, supporters)
	delegates, err := l.DelegatesTo(voterV)
	require.NoError(t, err)
	assert.Equal(t, []electra.Address{candC1, candC3}, delegates)
	checkAdjacency(t, l, voterV, candC1, candC2, candC3)

	// re-enrollment starts from a clean tally
	apply(t, l, enrollTx(candC2))
	state, err = l.Enrollment(candC2)
	require.NoError(t, err)
	assert.Equal(t, Enrolled, state)
	assert.Equal(t, electra.Amount(0), tallyOf(t, l, candC2))
}

func TestValueTransfer(t *testing.T) {
	l, _ := newTestLedger(t)

	receiver := electra.BytesToAddress([]byte("receiver"))

	apply(t, l,
		coinbaseTx(voterV, 1000),
		voteTx(voterV, candC1), voteTx(voterV, candC2))

	assert.Equal(t, electra.Amount(500), tallyOf(t, l, candC1))

	testNonce++
	transfer := new(tx.Builder).
		Type(tx.TypeValue).
		Signer(voterV).
		Nonce(testNonce).
		Output(receiver, 200, electra.NativeAsset).
		Output(voterV, 800, electra.NativeAsset). // change
		Build()
	apply(t, l, transfer)

	assert.Equal(t, electra.Amount(800), balanceOf(t, l, voterV))
	assert.Equal(t, electra.Amount(200), balanceOf(t, l, receiver))
	// debit and credit both divide by the sender's set size, so a full
	// pass-through leaves the tallies where they were
	assert.Equal(t, electra.Amount(500), tallyOf(t, l, candC1))
	assert.Equal(t, electra.Amount(500), tallyOf(t, l, candC2))
}

func TestValueTransferIgnoresForeignAssets(t *testing.T) {
	l, _ := newTestLedger(t)

	receiver := electra.BytesToAddress([]byte("receiver"))

	apply(t, l, coinbaseTx(voterV, 1000))

	testNonce++
	transfer := new(tx.Builder).
		Type(tx.TypeValue).
		Signer(voterV).
		Nonce(testNonce).
		Output(receiver, 400, "TOKEN").
		Build()
	apply(t, l, transfer)

	assert.Equal(t, electra.Amount(1000), balanceOf(t, l, voterV))
	assert.Equal(t, electra.Amount(0), balanceOf(t, l, receiver))
}

func TestCoinbaseCreditsEnrolledTally(t *testing.T) {
	l, _ := newTestLedger(t)

	apply(t, l, enrollTx(candC1))
	apply(t, l, coinbaseTx(candC1, 50), coinbaseTx(voterV, 50))

	// a reward to an enrolled candidate counts as self-stake
	assert.Equal(t, electra.Amount(50), balanceOf(t, l, candC1))
	assert.Equal(t, electra.Amount(50), tallyOf(t, l, candC1))
	assert.Equal(t, electra.Amount(50), balanceOf(t, l, voterV))
	assert.Equal(t, electra.Amount(0), tallyOf(t, l, voterV))
}

func TestFreezeToggle(t *testing.T) {
	l, _ := newTestLedger(t)

	controller := electra.BytesToAddress([]byte("controller"))
	asset := controller.String()

	freeze := func() *tx.Transaction {
		testNonce++
		return new(tx.Builder).
			Type(tx.TypeFreezeAsset).
			Signer(voterV).
			Nonce(testNonce).
			Output(controller, 0, asset).
			Build()
	}

	frozen, err := l.Frozen(asset)
	require.NoError(t, err)
	assert.False(t, frozen)

	apply(t, l, freeze())
	frozen, err = l.Frozen(asset)
	require.NoError(t, err)
	assert.True(t, frozen)

	apply(t, l, freeze())
	frozen, err = l.Frozen(asset)
	require.NoError(t, err)
	assert.False(t, frozen)
}

func TestMalformedTxSkipped(t *testing.T) {
	l, _ := newTestLedger(t)

	// a vote with no candidate output is skipped, the rest of the block
	// still lands
	testNonce++
	malformed := new(tx.Builder).
		Type(tx.TypeVote).
		Signer(voterV).
		Nonce(testNonce).
		Build()

	blk := apply(t, l, malformed, coinbaseTx(voterV, 77))

	assert.Equal(t, blk.Header().ID(), l.Head())
	assert.Equal(t, electra.Amount(77), balanceOf(t, l, voterV))
	delegates, err := l.DelegatesTo(voterV)
	require.NoError(t, err)
	assert.Empty(t, delegates)
}

func TestHeadLinkage(t *testing.T) {
	l, _ := newTestLedger(t)

	genesis := apply(t, l)
	apply(t, l, coinbaseTx(voterV, 10))

	// a block branching off genesis does not extend the head
	stray := new(block.Builder).
		ParentID(genesis.Header().ID()).
		Timestamp(20000).
		Build()
	err := l.ApplyBlock(context.Background(), stray)
	assert.True(t, errors.Is(err, ErrNotLinkable))

	// a non-genesis block on an empty ledger is rejected too
	fresh, _ := newTestLedger(t)
	err = fresh.ApplyBlock(context.Background(), stray)
	assert.True(t, errors.Is(err, ErrNotLinkable))
}

func TestApplyBlockCancellation(t *testing.T) {
	l, _ := newTestLedger(t)

	genesis := apply(t, l)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	blk := new(block.Builder).
		ParentID(genesis.Header().ID()).
		Timestamp(20000).
		Transaction(coinbaseTx(voterV, 10)).
		Build()
	err := l.ApplyBlock(ctx, blk)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, genesis.Header().ID(), l.Head())
	assert.Equal(t, electra.Amount(0), balanceOf(t, l, voterV))
}

type failBatch struct{ kv.Batch }

func (failBatch) Write() error { return errors.New("disk full") }

type failStore struct{ kv.Store }

func (s failStore) NewBatch() kv.Batch { return failBatch{s.Store.NewBatch()} }

func TestApplyBlockCommitFailure(t *testing.T) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	defer store.Close()

	l, err := New(failStore{store})
	require.NoError(t, err)

	blk := new(block.Builder).
		Timestamp(10000).
		Transaction(coinbaseTx(voterV, 10)).
		Build()
	err = l.ApplyBlock(context.Background(), blk)
	assert.Error(t, err)

	// nothing leaked past the failed batch
	assert.True(t, l.Head().IsZero())
	assert.Equal(t, electra.Amount(0), balanceOf(t, l, voterV))
}

func TestHeadConcurrentWithApply(t *testing.T) {
	l, _ := newTestLedger(t)

	// readers polling the head while blocks land; the race detector
	// flags any unsynchronized head access
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					l.Head()
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		apply(t, l, coinbaseTx(voterV, 1))
	}
	close(done)
	wg.Wait()

	assert.Equal(t, uint32(49), block.Number(l.Head()))
	assert.Equal(t, electra.Amount(50), balanceOf(t, l, voterV))
}

func TestLedgerReopen(t *testing.T) {
	l, store := newTestLedger(t)

	apply(t, l)
	blk := apply(t, l, coinbaseTx(voterV, 123), enrollTx(candC1))

	reopened, err := New(store)
	require.NoError(t, err)
	assert.Equal(t, blk.Header().ID(), reopened.Head())
	assert.Equal(t, electra.Amount(123), balanceOf(t, reopened, voterV))
	state, err := reopened.Enrollment(candC1)
	require.NoError(t, err)
	assert.Equal(t, Enrolled, state)
}

func TestCandidates(t *testing.T) {
	l, _ := newTestLedger(t)

	apply(t, l,
		coinbaseTx(voterV, 600),
		enrollTx(candC1), enrollTx(candC2),
		voteTx(voterV, candC1), voteTx(voterV, candC2))
	// withdrawn candidates drop out of the listing
	apply(t, l, enrollTx(candC2))

	candidates, err := l.Candidates()
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, candC1, candidates[0].Address)
	assert.Equal(t, electra.Amount(600), candidates[0].Tally)
}
