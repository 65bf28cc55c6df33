// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vote_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electchain/electra/block"
	"github.com/electchain/electra/chain"
	"github.com/electchain/electra/electra"
	"github.com/electchain/electra/lvldb"
	"github.com/electchain/electra/tx"
	"github.com/electchain/electra/vote"
)

// newTestChain builds a chain whose tip is at the given height.
func newTestChain(t *testing.T, tipHeight int) *chain.Chain {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c, err := chain.New(db)
	require.NoError(t, err)

	parent := new(block.Builder).Timestamp(1000).Build()
	require.NoError(t, c.WriteGenesis(parent))

	for i := 0; i < tipHeight; i++ {
		next := new(block.Builder).
			ParentID(parent.Header().ID()).
			Timestamp(parent.Header().Timestamp() + electra.BlockInterval).
			Build()
		require.NoError(t, c.AddBlock(next))
		parent = next
	}
	return c
}

func posAt(t *testing.T, c *chain.Chain, height uint32) electra.Bytes32 {
	blk, err := c.GetBlockByNumber(height)
	require.NoError(t, err)
	return blk.Header().ID()
}

func voteTx(values ...electra.Amount) *tx.Transaction {
	builder := new(tx.Builder).
		Type(tx.TypeVote).
		Signer(electra.BytesToAddress([]byte("voter")))
	for i, v := range values {
		builder.Output(electra.BytesToAddress([]byte{byte(i)}), v, electra.NativeAsset)
	}
	return builder.Build()
}

func TestQualifyIntervalFloor(t *testing.T) {
	// interval height 100, tip 250 => floor 200
	c := newTestChain(t, 250)
	q := vote.New(c, vote.Config{Interval: vote.Interval{Height: 100, Time: 1000}})

	trx := voteTx(30, 12)

	amount, err := q.Qualify(posAt(t, c, 199), trx, nil)
	require.NoError(t, err)
	assert.Equal(t, electra.Amount(0), amount)

	amount, err = q.Qualify(posAt(t, c, 200), trx, nil)
	require.NoError(t, err)
	assert.Equal(t, electra.Amount(42), amount)

	amount, err = q.Qualify(posAt(t, c, 250), trx, nil)
	require.NoError(t, err)
	assert.Equal(t, electra.Amount(42), amount)
}

func TestQualifyNonVoteType(t *testing.T) {
	c := newTestChain(t, 10)
	q := vote.New(c, vote.Config{Interval: vote.Interval{Height: 100, Time: 1000}})

	trx := new(tx.Builder).
		Type(tx.TypeValue).
		Signer(electra.BytesToAddress([]byte("s"))).
		Output(electra.BytesToAddress([]byte("r")), 100, electra.NativeAsset).
		Build()

	amount, err := q.Qualify(posAt(t, c, 10), trx, nil)
	require.NoError(t, err)
	assert.Equal(t, electra.Amount(0), amount)
}

func TestQualifyInvalidBlockRef(t *testing.T) {
	c := newTestChain(t, 10)
	q := vote.New(c, vote.Config{})

	// zero position
	_, err := q.Qualify(electra.Bytes32{}, voteTx(1), nil)
	assert.True(t, errors.Is(err, vote.ErrInvalidBlockRef))

	// a block that never joined the chain
	stray := new(block.Builder).
		ParentID(posAt(t, c, 3)).
		Timestamp(777777).
		Build()
	_, err = q.Qualify(stray.Header().ID(), voteTx(1), nil)
	assert.True(t, errors.Is(err, vote.ErrInvalidBlockRef))
}

func TestQualifyEmptyChain(t *testing.T) {
	// no genesis written yet: any position is invalid, not a crash
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	c, err := chain.New(db)
	require.NoError(t, err)

	q := vote.New(c, vote.Config{})

	pos := new(block.Builder).Timestamp(1000).Build().Header().ID()
	_, err = q.Qualify(pos, voteTx(1), nil)
	assert.True(t, errors.Is(err, vote.ErrInvalidBlockRef))
}

func TestQualifyOwnership(t *testing.T) {
	c := newTestChain(t, 10)
	q := vote.New(c, vote.Config{Interval: vote.Interval{Height: 100, Time: 1000}})

	mine := electra.BytesToAddress([]byte{0}) // first output destination
	amount, err := q.Qualify(posAt(t, c, 10), voteTx(30, 12), func(addr electra.Address) bool {
		return addr == mine
	})
	require.NoError(t, err)
	assert.Equal(t, electra.Amount(30), amount)
}

func TestQualifyLockTimeGate(t *testing.T) {
	c := newTestChain(t, 10)

	trx := new(tx.Builder).
		Type(tx.TypeVote).
		Signer(electra.BytesToAddress([]byte("voter"))).
		LockTime(8).
		Output(electra.BytesToAddress([]byte("c")), 5, electra.NativeAsset).
		Build()

	gated := vote.New(c, vote.Config{Interval: vote.Interval{Height: 100, Time: 1000}, LockTimeGate: true})

	// immature at 7, mature from 8 on
	amount, err := gated.Qualify(posAt(t, c, 7), trx, nil)
	require.NoError(t, err)
	assert.Equal(t, electra.Amount(0), amount)

	amount, err = gated.Qualify(posAt(t, c, 8), trx, nil)
	require.NoError(t, err)
	assert.Equal(t, electra.Amount(5), amount)

	// gate disabled
	ungated := vote.New(c, vote.Config{Interval: vote.Interval{Height: 100, Time: 1000}})
	amount, err = ungated.Qualify(posAt(t, c, 7), trx, nil)
	require.NoError(t, err)
	assert.Equal(t, electra.Amount(5), amount)
}

func TestQualifyAmountRange(t *testing.T) {
	c := newTestChain(t, 10)
	q := vote.New(c, vote.Config{Interval: vote.Interval{Height: 100, Time: 1000}})

	_, err := q.Qualify(posAt(t, c, 10), voteTx(electra.MaxAmount, 1), nil)
	assert.True(t, errors.Is(err, vote.ErrAmountRange))
}
