// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/electchain/electra/electra"
)

// Builder to make it easy to build a transaction.
type Builder struct {
	body body
}

// Type set the transaction type.
func (b *Builder) Type(t Type) *Builder {
	b.body.Type = t
	return b
}

// Signer set the funding address.
func (b *Builder) Signer(addr electra.Address) *Builder {
	b.body.Signer = addr
	return b
}

// Coinbase mark the tx as block reward issuance.
func (b *Builder) Coinbase() *Builder {
	b.body.Coinbase = true
	return b
}

// LockTime set the maturity block number.
func (b *Builder) LockTime(n uint32) *Builder {
	b.body.LockTime = n
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Output add an output.
func (b *Builder) Output(to electra.Address, value electra.Amount, asset string) *Builder {
	b.body.Outputs = append(b.body.Outputs, output{to, uint64(value), asset})
	return b
}

// Build builds the tx object.
func (b *Builder) Build() *Transaction {
	return &Transaction{body: b.body}
}
