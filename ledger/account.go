// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/electchain/electra/electra"
)

// EnrollmentState is the candidacy state of an account.
// Withdrawn is kept distinct from NotEnrolled so that re-enrollment after a
// withdrawal starts from a zero tally instead of inheriting a stale one.
type EnrollmentState byte

// Enrollment states.
const (
	NotEnrolled EnrollmentState = iota
	Enrolled
	Withdrawn
)

func (s EnrollmentState) String() string {
	switch s {
	case NotEnrolled:
		return "not-enrolled"
	case Enrolled:
		return "enrolled"
	case Withdrawn:
		return "withdrawn"
	default:
		return "invalid"
	}
}

// Account is the committed view of one address.
// Records are created lazily on first reference and never deleted, only
// reset, so "zero" stays distinguishable from "unknown".
type Account struct {
	Address     electra.Address
	Balance     electra.Amount
	Tally       electra.Amount
	Enrollment  EnrollmentState
	DelegatesTo []electra.Address
	SupportedBy []electra.Address
}

// one single-byte prefix per logical table
const (
	tallyPrefix      = 'v' // address -> candidate's current vote tally
	delegatesPrefix  = 'V' // address -> candidates this voter delegates to
	supportersPrefix = 'a' // address -> voters delegating to this candidate
	balancePrefix    = 'A' // address -> account balance shadow
	frozenPrefix     = 'F' // asset id -> 0/1 frozen flag
	enrollmentPrefix = 'e' // address -> enrollment state
)

var headKey = []byte("head") // -> last applied block id

func addrKey(prefix byte, addr electra.Address) []byte {
	return append([]byte{prefix}, addr.Bytes()...)
}

func assetKey(asset string) []byte {
	return append([]byte{frozenPrefix}, asset...)
}

// amounts are persisted as decimal strings, address lists as comma-joined
// hex addresses

func encodeAmount(a electra.Amount) []byte {
	return []byte(strconv.FormatInt(int64(a), 10))
}

func decodeAmount(data []byte) (electra.Amount, error) {
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "decode amount")
	}
	return electra.Amount(v), nil
}

func encodeAddresses(addrs []electra.Address) []byte {
	strs := make([]string, 0, len(addrs))
	for _, a := range addrs {
		strs = append(strs, a.String())
	}
	return []byte(strings.Join(strs, ","))
}

func decodeAddresses(data []byte) ([]electra.Address, error) {
	if len(data) == 0 {
		return nil, nil
	}
	parts := strings.Split(string(data), ",")
	addrs := make([]electra.Address, 0, len(parts))
	for _, p := range parts {
		addr, err := electra.ParseAddress(p)
		if err != nil {
			return nil, errors.Wrap(err, "decode address list")
		}
		addrs = append(addrs, *addr)
	}
	return addrs, nil
}

func containsAddress(addrs []electra.Address, addr electra.Address) bool {
	for _, a := range addrs {
		if a == addr {
			return true
		}
	}
	return false
}

func removeAddress(addrs []electra.Address, addr electra.Address) []electra.Address {
	out := addrs[:0]
	for _, a := range addrs {
		if a != addr {
			out = append(out, a)
		}
	}
	return out
}
