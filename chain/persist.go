// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/electchain/electra/block"
	"github.com/electchain/electra/electra"
	"github.com/electchain/electra/kv"
)

// logical tables inside the chain's store
var (
	blockBucket  = kv.Bucket("b") // block id -> rlp(block)
	numberBucket = kv.Bucket("n") // block number -> block id
	bestBlockKey = []byte("best") // -> best block id
)

func saveRLP(w kv.Putter, key []byte, val interface{}) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func loadRLP(r kv.Getter, key []byte, val interface{}) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}

func saveBlock(w kv.Putter, blk *block.Block) error {
	id := blk.Header().ID()
	return saveRLP(blockBucket.NewPutter(w), id[:], blk)
}

func loadBlock(r kv.Getter, id electra.Bytes32) (*block.Block, error) {
	var blk block.Block
	if err := loadRLP(blockBucket.NewGetter(r), id[:], &blk); err != nil {
		return nil, err
	}
	return &blk, nil
}

func saveBlockNumberIndex(w kv.Putter, id electra.Bytes32) error {
	var key [4]byte
	binary.BigEndian.PutUint32(key[:], block.Number(id))
	return numberBucket.NewPutter(w).Put(key[:], id[:])
}

func loadBlockID(r kv.Getter, num uint32) (electra.Bytes32, error) {
	var key [4]byte
	binary.BigEndian.PutUint32(key[:], num)
	data, err := numberBucket.NewGetter(r).Get(key[:])
	if err != nil {
		return electra.Bytes32{}, err
	}
	return electra.BytesToBytes32(data), nil
}

func saveBestBlockID(w kv.Putter, id electra.Bytes32) error {
	return w.Put(bestBlockKey, id[:])
}

func loadBestBlockID(r kv.Getter) (electra.Bytes32, error) {
	data, err := r.Get(bestBlockKey)
	if err != nil {
		return electra.Bytes32{}, err
	}
	return electra.BytesToBytes32(data), nil
}
