// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache provides caching helpers.
package cache

import (
	lru "github.com/hashicorp/golang-lru"
)

// LRU extends golang-lru with a loader path.
type LRU struct {
	*lru.Cache
}

// NewLRU create a LRU cache instance.
// It panics if maxSize <= 0.
func NewLRU(maxSize int) *LRU {
	cache, err := lru.New(maxSize)
	if err != nil {
		panic(err)
	}
	return &LRU{cache}
}

// Loader defines loader to load value.
type Loader func(key interface{}) (interface{}, error)

// GetOrLoad first tries to get from cache, and loads on miss.
// Loaded values are added to the cache.
func (l *LRU) GetOrLoad(key interface{}, loader Loader) (interface{}, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := loader(key)
	if err != nil {
		return nil, err
	}
	l.Add(key, v)
	return v, nil
}
