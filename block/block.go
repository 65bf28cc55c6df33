// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package block defines the block model.
package block

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/electchain/electra/electra"
	"github.com/electchain/electra/tx"
)

// Block is an immutable block type.
type Block struct {
	header *Header
	txs    tx.Transactions
}

// Compose composes a block with the given header and transactions.
// The caller is in charge of consistency between header.TxsRoot and txs.
func Compose(header *Header, txs tx.Transactions) *Block {
	return &Block{
		header: header,
		txs:    append(tx.Transactions(nil), txs...),
	}
}

// Header returns the block header.
func (b *Block) Header() *Header {
	return b.header
}

// Transactions returns a copy of the transaction list.
func (b *Block) Transactions() tx.Transactions {
	return append(tx.Transactions(nil), b.txs...)
}

// EncodeRLP implements rlp.Encoder.
func (b *Block) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []interface{}{
		b.header,
		b.txs,
	})
}

// DecodeRLP implements rlp.Decoder.
func (b *Block) DecodeRLP(s *rlp.Stream) error {
	payload := struct {
		Header *Header
		Txs    tx.Transactions
	}{}
	if err := s.Decode(&payload); err != nil {
		return err
	}
	*b = Block{
		header: payload.Header,
		txs:    payload.Txs,
	}
	return nil
}

// Builder makes it easy to build a block.
type Builder struct {
	headerBody headerBody
	txs        tx.Transactions
}

// ParentID set parent id.
func (b *Builder) ParentID(id electra.Bytes32) *Builder {
	b.headerBody.ParentID = id
	return b
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(ts uint64) *Builder {
	b.headerBody.Timestamp = ts
	return b
}

// Beneficiary set the reward recipient.
func (b *Builder) Beneficiary(addr electra.Address) *Builder {
	b.headerBody.Beneficiary = addr
	return b
}

// Transaction add a transaction.
func (b *Builder) Transaction(trx *tx.Transaction) *Builder {
	b.txs = append(b.txs, trx)
	return b
}

// Build builds the block, deriving the txs root from the added transactions.
func (b *Builder) Build() *Block {
	header := Header{body: b.headerBody}
	header.body.TxsRoot = b.txs.RootHash()
	return &Block{
		header: &header,
		txs:    b.txs,
	}
}
