// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package state provides the in-memory world-state backend used by the
// harness. A backend holds the full account state of one test case plus the
// ambient block context, and knows how to commit the account diff produced
// by a transaction execution.
package state

import (
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
)

// Account is the full materialized state of a single account. Accounts only
// exist inside a backend; they are created by state construction, mutated
// through diff application, and discarded at the end of a case.
type Account struct {
	Balance fidelio.Value
	Nonce   uint64
	Code    fidelio.Code
	Storage map[fidelio.Key]fidelio.Word
}

// Clone produces a deep copy sharing no mutable data with the original.
func (a Account) Clone() Account {
	res := Account{
		Balance: a.Balance,
		Nonce:   a.Nonce,
	}
	if a.Code != nil {
		res.Code = append(fidelio.Code{}, a.Code...)
	}
	if a.Storage != nil {
		res.Storage = make(map[fidelio.Key]fidelio.Word, len(a.Storage))
		for key, value := range a.Storage {
			res.Storage[key] = value
		}
	}
	return res
}

// IsEmpty reports whether the account matches the consensus definition of
// an empty account: zero balance, zero nonce, and no code.
func (a Account) IsEmpty() bool {
	return a.Balance == (fidelio.Value{}) && a.Nonce == 0 && len(a.Code) == 0
}

// Vicinity is the ambient block and transaction context visible to an
// execution: gas price, origin, and the block metadata of the environment
// section of a test vector.
type Vicinity struct {
	GasPrice    fidelio.Value
	Origin      fidelio.Address
	ChainID     fidelio.Value
	BlockHashes []fidelio.Hash
	BlockNumber int64
	Coinbase    fidelio.Address
	Timestamp   int64
	Difficulty  fidelio.Value
	GasLimit    fidelio.Gas
}

// Backend is the world state of exactly one (fork, variant) execution. It is
// exclusively owned by the execution driver for the duration of one case and
// must never be shared across cases; NewBackend deep-clones the provided
// pre-state to guarantee this isolation.
type Backend struct {
	vicinity Vicinity
	accounts map[fidelio.Address]Account
	logs     []fidelio.Log
}

// NewBackend creates a fresh backend bound to the given execution context,
// holding a pristine deep copy of the provided pre-state.
func NewBackend(vicinity Vicinity, preState map[fidelio.Address]Account) *Backend {
	accounts := make(map[fidelio.Address]Account, len(preState))
	for addr, account := range preState {
		accounts[addr] = account.Clone()
	}
	return &Backend{
		vicinity: vicinity,
		accounts: accounts,
	}
}

func (b *Backend) Vicinity() Vicinity {
	return b.vicinity
}

// Account retrieves the current state of the given account. The second
// result is false if the account does not exist.
func (b *Backend) Account(addr fidelio.Address) (Account, bool) {
	account, found := b.accounts[addr]
	return account, found
}

// NumAccounts returns the number of existing accounts.
func (b *Backend) NumAccounts() int {
	return len(b.accounts)
}

// Logs returns the log entries committed to this backend so far.
func (b *Backend) Logs() []fidelio.Log {
	return b.logs
}

// Change describes the post-transaction state of one touched account. A nil
// Code leaves the account's code unchanged; ResetStorage discards the
// account's previous storage before the given slots are written; Deleted
// removes the account unconditionally (self-destruct semantics).
type Change struct {
	Balance      fidelio.Value
	Nonce        uint64
	Code         fidelio.Code
	Storage      map[fidelio.Key]fidelio.Word
	ResetStorage bool
	Deleted      bool
}

// Diff is the set of accounts touched by one transaction execution, keyed by
// address. It is produced once by deconstructing an executor and consumed
// immediately by Backend.Apply.
type Diff map[fidelio.Address]Change

// Apply commits the given account diff and log entries to the backend.
//
// Under deleteEmpty, every touched account that ends up with zero balance,
// zero nonce, and no code is pruned, implementing the fork-dependent
// empty-account deletion rule. Accounts flagged as Deleted are removed
// regardless of the policy. Storage writes of the zero word remove the slot.
func (b *Backend) Apply(diff Diff, logs []fidelio.Log, deleteEmpty bool) {
	for addr, change := range diff {
		if change.Deleted {
			delete(b.accounts, addr)
			continue
		}

		account := b.accounts[addr]
		account.Balance = change.Balance
		account.Nonce = change.Nonce
		if change.Code != nil {
			account.Code = append(fidelio.Code{}, change.Code...)
		}

		if change.ResetStorage || account.Storage == nil {
			account.Storage = make(map[fidelio.Key]fidelio.Word, len(change.Storage))
		}
		for key, value := range change.Storage {
			if value == (fidelio.Word{}) {
				delete(account.Storage, key)
			} else {
				account.Storage[key] = value
			}
		}

		if deleteEmpty && account.IsEmpty() {
			delete(b.accounts, addr)
			continue
		}
		b.accounts[addr] = account
	}
	b.logs = append(b.logs, logs...)
}
