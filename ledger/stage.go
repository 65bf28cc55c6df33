// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/electchain/electra/kv"
)

// stage buffers all writes produced while connecting one block.
// Reads see staged values layered over the committed store, so later
// transactions in a block observe the effects of earlier ones before
// anything is committed.
//
// Levels act as savepoints: one level is pushed per transaction, and popping
// reverts a malformed transaction without touching the rest of the block.
type stage struct {
	src    kv.Getter
	levels []map[string][]byte
}

func newStage(src kv.Getter) *stage {
	return &stage{src: src}
}

// push opens a new savepoint. It returns the depth before the push.
func (s *stage) push() int {
	s.levels = append(s.levels, make(map[string][]byte))
	return len(s.levels) - 1
}

// popTo drops every savepoint above depth, reverting their writes.
func (s *stage) popTo(depth int) {
	s.levels = s.levels[:depth]
}

// get returns the staged value for key, falling back to the source store.
// The second return value is false when the key exists nowhere.
func (s *stage) get(key []byte) ([]byte, bool, error) {
	for i := len(s.levels) - 1; i >= 0; i-- {
		if v, ok := s.levels[i][string(key)]; ok {
			return v, true, nil
		}
	}
	v, err := s.src.Get(key)
	if err != nil {
		if s.src.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

// put stages a write at the top savepoint. It panics without a push.
func (s *stage) put(key, val []byte) {
	s.levels[len(s.levels)-1][string(key)] = val
}

// commitTo replays all surviving staged writes into w, oldest level first.
func (s *stage) commitTo(w kv.Putter) error {
	merged := make(map[string][]byte)
	for _, level := range s.levels {
		for k, v := range level {
			merged[k] = v
		}
	}
	for k, v := range merged {
		if err := w.Put([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}
