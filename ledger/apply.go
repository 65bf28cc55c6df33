// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/pkg/errors"

	"github.com/electchain/electra/electra"
	"github.com/electchain/electra/tx"
)

var (
	// ErrMalformedVoteTx means a vote transaction does not name exactly
	// two distinct addresses (signer and one candidate).
	ErrMalformedVoteTx = errors.New("malformed vote transaction")

	// ErrMalformedValueTx means a value transaction carries an output
	// outside the valid currency range.
	ErrMalformedValueTx = errors.New("malformed value transaction")

	// ErrMalformedFreezeTx means a freeze transaction names no asset.
	ErrMalformedFreezeTx = errors.New("malformed freeze transaction")

	errUnknownTxType = errors.New("unknown transaction type")
)

// isSkippable tells whether a transaction failure is a shape violation to
// skip, as opposed to a store failure that must abort the block.
func isSkippable(err error) bool {
	return errors.Is(err, ErrMalformedVoteTx) ||
		errors.Is(err, ErrMalformedValueTx) ||
		errors.Is(err, ErrMalformedFreezeTx) ||
		errors.Is(err, errUnknownTxType)
}

// share is a voter's per-candidate stake contribution: the balance split
// evenly over n candidates, rounded down. The rounding loss
// balance - n*share stays unassigned on purpose.
func share(balance electra.Amount, n int) electra.Amount {
	if n == 0 {
		return 0
	}
	return balance / electra.Amount(n)
}

func (s *session) applyTx(trx *tx.Transaction) error {
	if trx.IsCoinbase() {
		return s.applyCoinbase(trx)
	}
	switch trx.Type() {
	case tx.TypeEnroll:
		return s.applyEnroll(trx)
	case tx.TypeVote:
		return s.applyVote(trx)
	case tx.TypeValue:
		return s.applyValue(trx)
	case tx.TypeFreezeAsset:
		return s.applyFreeze(trx)
	default:
		return errors.WithMessagef(errUnknownTxType, "type %d", trx.Type())
	}
}

// applyEnroll enrolls the signer as a candidate, or runs a withdrawal when
// the signer is enrolled already.
func (s *session) applyEnroll(trx *tx.Transaction) error {
	addr := trx.Signer()

	state, err := s.enrollment(addr)
	if err != nil {
		return err
	}
	if state != Enrolled {
		// fresh candidacy, also after a withdrawal: the tally starts
		// at zero and never inherits pre-enrollment votes
		s.setEnrollment(addr, Enrolled)
		s.setTally(addr, 0)
		return nil
	}
	return s.unenroll(addr)
}

// unenroll removes the candidate from every supporter's delegation set,
// redistributing each supporter's share across its remaining candidates.
func (s *session) unenroll(addr electra.Address) error {
	voters, err := s.supporters(addr)
	if err != nil {
		return err
	}
	for _, voter := range voters {
		oldSet, err := s.delegates(voter)
		if err != nil {
			return err
		}
		newSet := removeAddress(oldSet, addr)
		if len(newSet) == len(oldSet) {
			// adjacency out of sync would mean a bug elsewhere
			continue
		}
		bal, err := s.balance(voter)
		if err != nil {
			return err
		}
		delta := share(bal, len(newSet)) - share(bal, len(oldSet))
		for _, c := range newSet {
			if err := s.addTally(c, delta); err != nil {
				return err
			}
		}
		s.setDelegates(voter, newSet)
	}

	s.setTally(addr, 0)
	s.setSupporters(addr, nil)
	s.setEnrollment(addr, Withdrawn)
	return nil
}

// applyVote toggles the delegation edge between the signer and the single
// candidate named by the transaction outputs.
func (s *session) applyVote(trx *tx.Transaction) error {
	voter := trx.Signer()

	candidate, err := voteCandidate(trx)
	if err != nil {
		return err
	}

	bal, err := s.balance(voter)
	if err != nil {
		return err
	}
	oldSet, err := s.delegates(voter)
	if err != nil {
		return err
	}

	if !containsAddress(oldSet, candidate) {
		// vote: every previously backed candidate gives up part of its
		// share to make room for the new one
		newSet := append(append([]electra.Address(nil), oldSet...), candidate)
		delta := share(bal, len(newSet)) - share(bal, len(oldSet))
		for _, c := range oldSet {
			if err := s.addTally(c, delta); err != nil {
				return err
			}
		}
		if err := s.addTally(candidate, share(bal, len(newSet))); err != nil {
			return err
		}
		s.setDelegates(voter, newSet)

		supporters, err := s.supporters(candidate)
		if err != nil {
			return err
		}
		if !containsAddress(supporters, voter) {
			s.setSupporters(candidate, append(supporters, voter))
		}
		return nil
	}

	// unvote: the candidate loses the voter's whole share, the remaining
	// set absorbs it
	newSet := removeAddress(append([]electra.Address(nil), oldSet...), candidate)
	delta := share(bal, len(newSet)) - share(bal, len(oldSet))
	for _, c := range newSet {
		if err := s.addTally(c, delta); err != nil {
			return err
		}
	}
	if err := s.addTally(candidate, -share(bal, len(oldSet))); err != nil {
		return err
	}
	s.setDelegates(voter, newSet)

	supporters, err := s.supporters(candidate)
	if err != nil {
		return err
	}
	s.setSupporters(candidate, removeAddress(supporters, voter))
	return nil
}

// voteCandidate resolves the candidate of a vote transaction: the unique
// output destination distinct from the signer. Outputs back to the signer
// are change.
func voteCandidate(trx *tx.Transaction) (electra.Address, error) {
	var candidate electra.Address
	found := false
	for _, out := range trx.Outputs() {
		if out.To == trx.Signer() {
			continue
		}
		if found && out.To != candidate {
			return electra.Address{}, errors.WithMessage(ErrMalformedVoteTx, "multiple candidates")
		}
		candidate = out.To
		found = true
	}
	if !found {
		return electra.Address{}, errors.WithMessage(ErrMalformedVoteTx, "no candidate")
	}
	return candidate, nil
}

// applyValue moves balance from the signer to the receivers and shifts the
// stake backing the signer's candidates accordingly.
//
// Both the debit and the credit side divide by the size of the sender's
// delegation set. Whether the credit side ought to use the receiver's set
// instead is an open product question; the historical behavior is kept.
func (s *session) applyValue(trx *tx.Transaction) error {
	sender := trx.Signer()

	type receipt struct {
		to     electra.Address
		amount electra.Amount
	}
	var (
		receipts []receipt
		total    electra.Amount
	)
	for _, out := range trx.Outputs() {
		if out.To == sender || out.Asset != electra.NativeAsset {
			continue
		}
		if !electra.ValidAmount(out.Value) {
			return errors.WithMessagef(ErrMalformedValueTx, "output value %d", out.Value)
		}
		sum, ok := electra.SafeAdd(total, out.Value)
		if !ok {
			return errors.WithMessage(ErrMalformedValueTx, "output sum")
		}
		total = sum
		receipts = append(receipts, receipt{out.To, out.Value})
	}
	if len(receipts) == 0 {
		return nil
	}

	candidates, err := s.delegates(sender)
	if err != nil {
		return err
	}
	n := len(candidates)

	// outgoing value no longer backs the sender's candidates
	for _, c := range candidates {
		if err := s.addTally(c, -share(total, n)); err != nil {
			return err
		}
	}

	for _, r := range receipts {
		bal, err := s.balance(r.to)
		if err != nil {
			return err
		}
		s.setBalance(r.to, bal+r.amount)

		for _, c := range candidates {
			if err := s.addTally(c, share(r.amount, n)); err != nil {
				return err
			}
		}
	}

	senderBal, err := s.balance(sender)
	if err != nil {
		return err
	}
	s.setBalance(sender, senderBal-total)
	return nil
}

// applyCoinbase credits the block reward. A reward paid to an enrolled
// candidate counts as self-stake, with no delegation indirection.
func (s *session) applyCoinbase(trx *tx.Transaction) error {
	for _, out := range trx.Outputs() {
		if out.Asset != electra.NativeAsset {
			continue
		}
		bal, err := s.balance(out.To)
		if err != nil {
			return err
		}
		s.setBalance(out.To, bal+out.Value)

		state, err := s.enrollment(out.To)
		if err != nil {
			return err
		}
		if state == Enrolled {
			if err := s.addTally(out.To, out.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyFreeze toggles the frozen flag of the asset named by the transaction
// when one of the outputs pays the asset's controller, and otherwise just
// materializes the flag record.
func (s *session) applyFreeze(trx *tx.Transaction) error {
	outs := trx.Outputs()
	if len(outs) == 0 {
		return errors.WithMessage(ErrMalformedFreezeTx, "no outputs")
	}
	asset := outs[0].Asset

	controllerPaid := false
	for _, out := range outs {
		if out.Asset == out.To.String() {
			controllerPaid = true
			break
		}
	}

	frozen, err := s.frozen(asset)
	if err != nil {
		return err
	}
	if controllerPaid {
		frozen = !frozen
	}
	s.setFrozen(asset, frozen)
	return nil
}
