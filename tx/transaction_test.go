// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electchain/electra/electra"
)

func TestTransactionBuild(t *testing.T) {
	voter := electra.BytesToAddress([]byte("voter"))
	candidate := electra.BytesToAddress([]byte("candidate"))

	trx := new(Builder).
		Type(TypeVote).
		Signer(voter).
		Nonce(1).
		Output(candidate, 100*electra.Coin, electra.NativeAsset).
		Build()

	assert.Equal(t, TypeVote, trx.Type())
	assert.Equal(t, voter, trx.Signer())
	assert.False(t, trx.IsCoinbase())
	assert.Equal(t, uint32(0), trx.LockTime())

	outs := trx.Outputs()
	require.Len(t, outs, 1)
	assert.Equal(t, candidate, outs[0].To)
	assert.Equal(t, 100*electra.Coin, outs[0].Value)
	assert.Equal(t, electra.NativeAsset, outs[0].Asset)

	// outputs are copied out
	outs[0].Value = 0
	assert.Equal(t, 100*electra.Coin, trx.Outputs()[0].Value)
}

func TestTransactionID(t *testing.T) {
	build := func(nonce uint64) *Transaction {
		return new(Builder).
			Type(TypeEnroll).
			Signer(electra.BytesToAddress([]byte("a"))).
			Nonce(nonce).
			Build()
	}

	assert.Equal(t, build(1).ID(), build(1).ID())
	assert.NotEqual(t, build(1).ID(), build(2).ID())
	assert.False(t, build(1).ID().IsZero())
}

func TestTransactionRLP(t *testing.T) {
	trx := new(Builder).
		Type(TypeValue).
		Signer(electra.BytesToAddress([]byte("sender"))).
		Output(electra.BytesToAddress([]byte("receiver")), 42, electra.NativeAsset).
		LockTime(7).
		Nonce(9).
		Build()

	data, err := rlp.EncodeToBytes(trx)
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, rlp.DecodeBytes(data, &decoded))

	assert.Equal(t, trx.ID(), decoded.ID())
	assert.Equal(t, trx.Type(), decoded.Type())
	assert.Equal(t, trx.Signer(), decoded.Signer())
	assert.Equal(t, trx.LockTime(), decoded.LockTime())
	assert.Equal(t, trx.Outputs(), decoded.Outputs())
}
