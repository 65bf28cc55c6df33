// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package wallet tracks the set of addresses this node controls.
package wallet

import (
	"bufio"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/electchain/electra/electra"
)

// Wallet is a plain address set. It answers the ownership question the vote
// qualifier asks; keys never enter this process.
type Wallet struct {
	mu    sync.RWMutex
	owned map[electra.Address]struct{}
}

func New(addrs ...electra.Address) *Wallet {
	w := &Wallet{owned: make(map[electra.Address]struct{})}
	for _, a := range addrs {
		w.owned[a] = struct{}{}
	}
	return w
}

// LoadFile reads a wallet file with one hex address per line. Blank lines
// and lines starting with '#' are skipped.
func LoadFile(path string) (*Wallet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open wallet file")
	}
	defer f.Close()

	w := New()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addr, err := electra.ParseAddress(line)
		if err != nil {
			return nil, errors.Wrapf(err, "wallet file %s", path)
		}
		w.Add(*addr)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read wallet file")
	}
	return w, nil
}

func (w *Wallet) Add(addr electra.Address) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.owned[addr] = struct{}{}
}

// Owns satisfies the qualifier's ownership predicate.
func (w *Wallet) Owns(addr electra.Address) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.owned[addr]
	return ok
}

// Addresses returns the owned addresses in stable order.
func (w *Wallet) Addresses() []electra.Address {
	w.mu.RLock()
	defer w.mu.RUnlock()

	addrs := make([]electra.Address, 0, len(w.owned))
	for a := range w.owned {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return strings.Compare(addrs[i].String(), addrs[j].String()) < 0
	})
	return addrs
}
