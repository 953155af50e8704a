// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package leonore

import (
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/state"
)

// accountState is the buffered state of one account touched during
// execution. It shadows the corresponding backend account; the backend is
// never mutated.
type accountState struct {
	balance fidelio.Value
	nonce   uint64
	code    fidelio.Code
	// storage holds the slots written during execution; slots not present
	// retain their backend value.
	storage      map[fidelio.Key]fidelio.Word
	resetStorage bool
	deleted      bool
}

func (a *accountState) clone() *accountState {
	clone := *a
	clone.storage = make(map[fidelio.Key]fidelio.Word, len(a.storage))
	for key, value := range a.storage {
		clone.storage[key] = value
	}
	return &clone
}

// substate is the mutable overlay an executor accumulates on top of its
// immutable backend. Accounts are faulted in lazily on first touch.
type substate struct {
	backend  *state.Backend
	accounts map[fidelio.Address]*accountState
	logs     []fidelio.Log
}

func newSubstate(backend *state.Backend) *substate {
	return &substate{
		backend:  backend,
		accounts: map[fidelio.Address]*accountState{},
	}
}

// account faults in the buffered state of the given address, seeding it
// from the backend on first touch.
func (s *substate) account(addr fidelio.Address) *accountState {
	if account, found := s.accounts[addr]; found {
		return account
	}
	account := &accountState{
		storage: map[fidelio.Key]fidelio.Word{},
	}
	if backing, found := s.backend.Account(addr); found {
		account.balance = backing.Balance
		account.nonce = backing.Nonce
		account.code = append(fidelio.Code{}, backing.Code...)
	}
	s.accounts[addr] = account
	return account
}

func (s *substate) balance(addr fidelio.Address) fidelio.Value {
	return s.account(addr).balance
}

func (s *substate) setBalance(addr fidelio.Address, balance fidelio.Value) {
	s.account(addr).balance = balance
}

func (s *substate) nonce(addr fidelio.Address) uint64 {
	return s.account(addr).nonce
}

func (s *substate) setNonce(addr fidelio.Address, nonce uint64) {
	s.account(addr).nonce = nonce
}

func (s *substate) code(addr fidelio.Address) fidelio.Code {
	return s.account(addr).code
}

func (s *substate) setCode(addr fidelio.Address, code fidelio.Code) {
	s.account(addr).code = append(fidelio.Code{}, code...)
}

// snapshot captures the current overlay for later rollback. Snapshots are
// deep copies; the conformance workload runs one transaction per executor,
// keeping them small.
type snapshot struct {
	accounts map[fidelio.Address]*accountState
	numLogs  int
}

func (s *substate) createSnapshot() snapshot {
	accounts := make(map[fidelio.Address]*accountState, len(s.accounts))
	for addr, account := range s.accounts {
		accounts[addr] = account.clone()
	}
	return snapshot{accounts: accounts, numLogs: len(s.logs)}
}

func (s *substate) restoreSnapshot(snapshot snapshot) {
	s.accounts = snapshot.accounts
	s.logs = s.logs[:snapshot.numLogs]
}

// deconstruct converts the accumulated overlay into a state diff and the
// emitted logs.
func (s *substate) deconstruct() (state.Diff, []fidelio.Log) {
	diff := make(state.Diff, len(s.accounts))
	for addr, account := range s.accounts {
		if account.deleted {
			diff[addr] = state.Change{Deleted: true}
			continue
		}
		storage := make(map[fidelio.Key]fidelio.Word, len(account.storage))
		for key, value := range account.storage {
			storage[key] = value
		}
		diff[addr] = state.Change{
			Balance:      account.balance,
			Nonce:        account.nonce,
			Code:         account.code,
			Storage:      storage,
			ResetStorage: account.resetStorage,
		}
	}
	return diff, s.logs
}
