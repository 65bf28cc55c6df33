// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tx defines the typed transaction model.
// Addresses and amounts are plain struct fields; there is no generic
// document representation to traverse.
package tx

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/electchain/electra/electra"
)

// Type tags the ledger semantics of a transaction.
type Type uint8

// Transaction types.
const (
	TypeValue Type = iota
	TypeVote
	TypeEnroll
	TypeFreezeAsset
)

func (t Type) String() string {
	switch t {
	case TypeValue:
		return "value"
	case TypeVote:
		return "vote"
	case TypeEnroll:
		return "enroll"
	case TypeFreezeAsset:
		return "freeze-asset"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Output is a single value destination of a transaction.
type Output struct {
	To    electra.Address
	Value electra.Amount
	Asset string
}

// Transaction is an immutable tx type.
type Transaction struct {
	body body

	cache struct {
		id atomic.Value
	}
}

// body describes details of a tx.
type body struct {
	Type     Type
	Signer   electra.Address
	Coinbase bool
	LockTime uint32
	Nonce    uint64
	Outputs  []output
}

// output is the rlp-friendly form of Output.
type output struct {
	To    electra.Address
	Value uint64
	Asset string
}

// Type returns the transaction type tag.
func (t *Transaction) Type() Type {
	return t.body.Type
}

// Signer returns the address whose outputs fund this transaction.
func (t *Transaction) Signer() electra.Address {
	return t.body.Signer
}

// IsCoinbase tells whether this is the reward issuance of a block.
func (t *Transaction) IsCoinbase() bool {
	return t.body.Coinbase
}

// LockTime returns the block number before which the tx is immature.
// Zero means no lock.
func (t *Transaction) LockTime() uint32 {
	return t.body.LockTime
}

// Nonce returns the tx nonce.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Outputs returns a copy of the output list.
func (t *Transaction) Outputs() []Output {
	outs := make([]Output, 0, len(t.body.Outputs))
	for _, o := range t.body.Outputs {
		outs = append(outs, Output{o.To, electra.Amount(o.Value), o.Asset})
	}
	return outs
}

// ID returns the identifier of this tx.
func (t *Transaction) ID() (id electra.Bytes32) {
	if cached := t.cache.id.Load(); cached != nil {
		return cached.(electra.Bytes32)
	}
	defer func() { t.cache.id.Store(id) }()

	hw := crypto.NewKeccakState()
	rlp.Encode(hw, &t.body)
	hw.Read(id[:])
	return
}

// EncodeRLP implements rlp.Encoder.
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder.
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var b body
	if err := s.Decode(&b); err != nil {
		return err
	}
	*t = Transaction{body: b}
	return nil
}

// Transactions a slice of transactions.
type Transactions []*Transaction

// RootHash computes merkle-less root hash of the tx set.
func (txs Transactions) RootHash() (root electra.Bytes32) {
	hw := crypto.NewKeccakState()
	for _, t := range txs {
		id := t.ID()
		hw.Write(id[:])
	}
	hw.Read(root[:])
	return
}
