// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/pkg/errors"

	"github.com/electchain/electra/electra"
	"github.com/electchain/electra/kv"
)

// The read API serves committed state only. Changes staged inside a running
// ApplyBlock are invisible until its batch lands.

func (l *Ledger) Tally(addr electra.Address) (electra.Amount, error) {
	return l.readAmount(addrKey(tallyPrefix, addr))
}

func (l *Ledger) Balance(addr electra.Address) (electra.Amount, error) {
	return l.readAmount(addrKey(balancePrefix, addr))
}

func (l *Ledger) Enrollment(addr electra.Address) (EnrollmentState, error) {
	data, err := l.store.Get(addrKey(enrollmentPrefix, addr))
	if err != nil {
		if l.store.IsNotFound(err) {
			return NotEnrolled, nil
		}
		return NotEnrolled, errors.Wrap(err, "read enrollment")
	}
	if len(data) != 1 {
		return NotEnrolled, nil
	}
	return EnrollmentState(data[0]), nil
}

// DelegatesTo lists the candidates the address currently votes for.
func (l *Ledger) DelegatesTo(addr electra.Address) ([]electra.Address, error) {
	return l.readAddresses(addrKey(delegatesPrefix, addr))
}

// SupportedBy lists the voters currently delegating to the address.
func (l *Ledger) SupportedBy(addr electra.Address) ([]electra.Address, error) {
	return l.readAddresses(addrKey(supportersPrefix, addr))
}

// Frozen reports the freeze flag of an asset. Unknown assets are not frozen.
func (l *Ledger) Frozen(asset string) (bool, error) {
	data, err := l.store.Get(assetKey(asset))
	if err != nil {
		if l.store.IsNotFound(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "read frozen flag")
	}
	return len(data) == 1 && data[0] == '1', nil
}

// Account assembles the full committed view of one address.
func (l *Ledger) Account(addr electra.Address) (*Account, error) {
	acc := &Account{Address: addr}

	var err error
	if acc.Balance, err = l.Balance(addr); err != nil {
		return nil, err
	}
	if acc.Tally, err = l.Tally(addr); err != nil {
		return nil, err
	}
	if acc.Enrollment, err = l.Enrollment(addr); err != nil {
		return nil, err
	}
	if acc.DelegatesTo, err = l.DelegatesTo(addr); err != nil {
		return nil, err
	}
	if acc.SupportedBy, err = l.SupportedBy(addr); err != nil {
		return nil, err
	}
	return acc, nil
}

// Candidates lists every enrolled candidate with its tally, by scanning the
// enrollment table.
func (l *Ledger) Candidates() ([]*Account, error) {
	iter := l.store.NewIterator(kv.Range{
		From: []byte{enrollmentPrefix},
		To:   []byte{enrollmentPrefix + 1},
	})
	defer iter.Release()

	var candidates []*Account
	for iter.Next() {
		key := iter.Key()
		if len(key) != 1+len(electra.Address{}) {
			continue
		}
		val := iter.Value()
		if len(val) != 1 || EnrollmentState(val[0]) != Enrolled {
			continue
		}
		addr := electra.BytesToAddress(key[1:])
		acc, err := l.Account(addr)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, acc)
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "scan candidates")
	}
	return candidates, nil
}

func (l *Ledger) readAmount(key []byte) (electra.Amount, error) {
	data, err := l.store.Get(key)
	if err != nil {
		if l.store.IsNotFound(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "read amount")
	}
	return decodeAmount(data)
}

func (l *Ledger) readAddresses(key []byte) ([]electra.Address, error) {
	data, err := l.store.Get(key)
	if err != nil {
		if l.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read address list")
	}
	return decodeAddresses(data)
}
