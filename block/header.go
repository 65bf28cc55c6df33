// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/electchain/electra/electra"
)

// Header contains block metadata.
type Header struct {
	body headerBody

	cache struct {
		id atomic.Value
	}
}

// headerBody body of header.
type headerBody struct {
	ParentID    electra.Bytes32
	Timestamp   uint64
	Beneficiary electra.Address
	TxsRoot     electra.Bytes32
}

// ParentID returns id of parent block.
func (h *Header) ParentID() electra.Bytes32 {
	return h.body.ParentID
}

// Number returns sequential number of this block.
func (h *Header) Number() uint32 {
	// inferred from parent block ID
	if (electra.Bytes32{}) == h.body.ParentID {
		return 0
	}
	return Number(h.body.ParentID) + 1
}

// Timestamp returns timestamp of this block, in seconds.
func (h *Header) Timestamp() uint64 {
	return h.body.Timestamp
}

// Beneficiary returns the address of the reward recipient.
func (h *Header) Beneficiary() electra.Address {
	return h.body.Beneficiary
}

// TxsRoot returns hash root of the transaction set.
func (h *Header) TxsRoot() electra.Bytes32 {
	return h.body.TxsRoot
}

// ID computes the identifier of this block.
// The first 4 bytes hold the block number, big endian.
func (h *Header) ID() (id electra.Bytes32) {
	if cached := h.cache.id.Load(); cached != nil {
		return cached.(electra.Bytes32)
	}
	defer func() {
		// overwrite first 4 bytes of block hash to block number.
		binary.BigEndian.PutUint32(id[:], h.Number())
		h.cache.id.Store(id)
	}()

	hw := crypto.NewKeccakState()
	rlp.Encode(hw, &h.body)
	hw.Read(id[:])
	return
}

// EncodeRLP implements rlp.Encoder.
func (h *Header) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &h.body)
}

// DecodeRLP implements rlp.Decoder.
func (h *Header) DecodeRLP(s *rlp.Stream) error {
	var body headerBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*h = Header{body: body}
	return nil
}

func (h *Header) String() string {
	return fmt.Sprintf("Block(%v) #%v", h.ID().AbbrevString(), h.Number())
}

// Number extracts block number from block id.
func Number(blockID electra.Bytes32) uint32 {
	// first 4 bytes are over written by block number (big endian).
	return binary.BigEndian.Uint32(blockID[:])
}
