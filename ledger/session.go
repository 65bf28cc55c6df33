// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/electchain/electra/electra"
)

// session wraps a stage with typed access to the ledger tables.
// Missing records read as zero values; writes create records lazily.
type session struct {
	st *stage
}

func (s *session) tally(addr electra.Address) (electra.Amount, error) {
	data, ok, err := s.st.get(addrKey(tallyPrefix, addr))
	if err != nil || !ok {
		return 0, err
	}
	return decodeAmount(data)
}

func (s *session) setTally(addr electra.Address, amt electra.Amount) {
	s.st.put(addrKey(tallyPrefix, addr), encodeAmount(amt))
}

func (s *session) addTally(addr electra.Address, delta electra.Amount) error {
	cur, err := s.tally(addr)
	if err != nil {
		return err
	}
	s.setTally(addr, cur+delta)
	return nil
}

func (s *session) balance(addr electra.Address) (electra.Amount, error) {
	data, ok, err := s.st.get(addrKey(balancePrefix, addr))
	if err != nil || !ok {
		return 0, err
	}
	return decodeAmount(data)
}

func (s *session) setBalance(addr electra.Address, amt electra.Amount) {
	s.st.put(addrKey(balancePrefix, addr), encodeAmount(amt))
}

func (s *session) enrollment(addr electra.Address) (EnrollmentState, error) {
	data, ok, err := s.st.get(addrKey(enrollmentPrefix, addr))
	if err != nil || !ok {
		return NotEnrolled, err
	}
	if len(data) != 1 {
		return NotEnrolled, nil
	}
	return EnrollmentState(data[0]), nil
}

func (s *session) setEnrollment(addr electra.Address, state EnrollmentState) {
	s.st.put(addrKey(enrollmentPrefix, addr), []byte{byte(state)})
}

func (s *session) delegates(addr electra.Address) ([]electra.Address, error) {
	data, ok, err := s.st.get(addrKey(delegatesPrefix, addr))
	if err != nil || !ok {
		return nil, err
	}
	return decodeAddresses(data)
}

func (s *session) setDelegates(addr electra.Address, candidates []electra.Address) {
	s.st.put(addrKey(delegatesPrefix, addr), encodeAddresses(candidates))
}

func (s *session) supporters(addr electra.Address) ([]electra.Address, error) {
	data, ok, err := s.st.get(addrKey(supportersPrefix, addr))
	if err != nil || !ok {
		return nil, err
	}
	return decodeAddresses(data)
}

func (s *session) setSupporters(addr electra.Address, voters []electra.Address) {
	s.st.put(addrKey(supportersPrefix, addr), encodeAddresses(voters))
}

func (s *session) frozen(asset string) (bool, error) {
	data, ok, err := s.st.get(assetKey(asset))
	if err != nil || !ok {
		return false, err
	}
	return len(data) == 1 && data[0] == '1', nil
}

func (s *session) setFrozen(asset string, frozen bool) {
	v := byte('0')
	if frozen {
		v = '1'
	}
	s.st.put(assetKey(asset), []byte{v})
}
