// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain maintains the active block chain.
// The chain is single-branched: every added block must extend the current
// best block. Fork handling is intentionally absent; blocks are expected to
// be final when they reach this repository.
package chain

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/electchain/electra/block"
	"github.com/electchain/electra/cache"
	"github.com/electchain/electra/electra"
	"github.com/electchain/electra/kv"
	"github.com/electchain/electra/metrics"
)

const blockCacheLimit = 512

var (
	errNotFound = errors.New("not found")

	metricBlockCount = metrics.LazyLoadCounter("chain_block_count")
)

// Chain describes a persistent block chain.
// It's thread-safe.
type Chain struct {
	store     kv.Store
	bestBlock *block.Block
	cached    *cache.LRU
	rw        sync.RWMutex
}

// New create an instance of Chain.
// If the store already holds a chain, the best block is restored from it.
func New(store kv.Store) (*Chain, error) {
	c := &Chain{
		store:  store,
		cached: cache.NewLRU(blockCacheLimit),
	}

	bestID, err := loadBestBlockID(store)
	if err != nil {
		if !store.IsNotFound(err) {
			return nil, errors.Wrap(err, "load best block")
		}
		// empty store, waiting for genesis
		return c, nil
	}
	best, err := loadBlock(store, bestID)
	if err != nil {
		return nil, errors.Wrap(err, "load best block")
	}
	c.bestBlock = best
	return c, nil
}

// WriteGenesis writes in the genesis block.
// It compares the given genesis block with the existing one. If not the same,
// an error is returned.
func (c *Chain) WriteGenesis(genesis *block.Block) error {
	c.rw.Lock()
	defer c.rw.Unlock()

	if genesis.Header().Number() != 0 {
		return errors.New("genesis block number != 0")
	}

	if c.bestBlock != nil {
		stored, err := c.getBlockByNumber(0)
		if err != nil {
			return err
		}
		if stored.Header().ID() != genesis.Header().ID() {
			return errors.New("genesis mismatch")
		}
		return nil
	}

	batch := c.store.NewBatch()
	if err := saveBlock(batch, genesis); err != nil {
		return err
	}
	if err := saveBlockNumberIndex(batch, genesis.Header().ID()); err != nil {
		return err
	}
	if err := saveBestBlockID(batch, genesis.Header().ID()); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	c.bestBlock = genesis
	metricBlockCount().Add(1)
	return nil
}

// AddBlock adds a new block to the chain.
// The new block must extend the current best block.
func (c *Chain) AddBlock(newBlock *block.Block) error {
	c.rw.Lock()
	defer c.rw.Unlock()

	if c.bestBlock == nil {
		return errors.New("genesis not written")
	}
	if newBlock.Header().ParentID() != c.bestBlock.Header().ID() {
		return errors.New("block does not extend the best block")
	}

	batch := c.store.NewBatch()
	if err := saveBlock(batch, newBlock); err != nil {
		return err
	}
	if err := saveBlockNumberIndex(batch, newBlock.Header().ID()); err != nil {
		return err
	}
	if err := saveBestBlockID(batch, newBlock.Header().ID()); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write block")
	}
	c.bestBlock = newBlock
	c.cached.Add(newBlock.Header().ID(), newBlock)
	metricBlockCount().Add(1)
	return nil
}

// BestBlock returns the newest block on the chain.
func (c *Chain) BestBlock() *block.Block {
	c.rw.RLock()
	defer c.rw.RUnlock()
	return c.bestBlock
}

// GetBlock gets a block by its id.
func (c *Chain) GetBlock(id electra.Bytes32) (*block.Block, error) {
	c.rw.RLock()
	defer c.rw.RUnlock()
	return c.getBlock(id)
}

// GetBlockByNumber gets the block on the chain at the given number.
func (c *Chain) GetBlockByNumber(num uint32) (*block.Block, error) {
	c.rw.RLock()
	defer c.rw.RUnlock()
	return c.getBlockByNumber(num)
}

// Contains tells whether the block with the given id is part of the chain.
func (c *Chain) Contains(id electra.Bytes32) (bool, error) {
	c.rw.RLock()
	defer c.rw.RUnlock()

	// the chain is single-branched, so membership reduces to the
	// number index pointing back at the same id
	stored, err := loadBlockID(c.store, block.Number(id))
	if err != nil {
		if c.store.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return stored == id, nil
}

// IsNotFound checks whether the error means block not found.
func (c *Chain) IsNotFound(err error) bool {
	return errors.Cause(err) == errNotFound || c.store.IsNotFound(err)
}

func (c *Chain) getBlock(id electra.Bytes32) (*block.Block, error) {
	blk, err := c.cached.GetOrLoad(id, func(interface{}) (interface{}, error) {
		blk, err := loadBlock(c.store, id)
		if err != nil {
			if c.store.IsNotFound(err) {
				return nil, errNotFound
			}
			return nil, err
		}
		return blk, nil
	})
	if err != nil {
		return nil, err
	}
	return blk.(*block.Block), nil
}

func (c *Chain) getBlockByNumber(num uint32) (*block.Block, error) {
	id, err := loadBlockID(c.store, num)
	if err != nil {
		if c.store.IsNotFound(err) {
			return nil, errNotFound
		}
		return nil, err
	}
	return c.getBlock(id)
}
