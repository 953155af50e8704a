// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

//go:generate mockgen -source engine.go -destination engine_mock.go -package engine

// Package engine defines the service interface of transaction execution
// engines and a registry through which implementations are looked up by
// name. An engine is bound to a single immutable backend; all effects of
// the transactions it runs accumulate in the engine and are harvested as
// a state diff at the end of its lifetime.
package engine

import (
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/precompile"
	"github.com/Fantom-foundation/Fidelio/go/state"
)

// Costs summarizes the fork-dependent gas pricing of transaction setup.
type Costs struct {
	TxBase               fidelio.Gas
	TxCreate             fidelio.Gas
	TxDataZero           fidelio.Gas
	TxDataNonZero        fidelio.Gas
	AccessListAddress    fidelio.Gas
	AccessListStorageKey fidelio.Gas
}

// IstanbulCosts are the transaction setup costs of the Istanbul revision.
func IstanbulCosts() Costs {
	return Costs{
		TxBase:        21_000,
		TxCreate:      53_000,
		TxDataZero:    4,
		TxDataNonZero: 16,
	}
}

// BerlinCosts are the transaction setup costs of the Berlin revision,
// extending Istanbul by typed access-list pricing.
func BerlinCosts() Costs {
	costs := IstanbulCosts()
	costs.AccessListAddress = 2_400
	costs.AccessListStorageKey = 1_900
	return costs
}

// Config carries everything an engine needs to execute transactions: the
// revision to implement, its setup costs, the backend providing the world
// state, and the precompiled contracts active in the revision.
type Config struct {
	Fork        fidelio.Fork
	Costs       Costs
	Backend     *state.Backend
	Precompiles precompile.Registry
}

// Outcome classifies the result of a transaction dispatch.
type Outcome int

const (
	// Success indicates the transaction completed and its effects are
	// committed to the engine's accumulated state.
	Success Outcome = iota
	// Reverted indicates the transaction was executed but rolled back;
	// gas is consumed, other effects are discarded.
	Reverted
	// Failed indicates the transaction could not be executed at all,
	// for instance due to insufficient balance or an invalid nonce.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Reverted:
		return "reverted"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Call describes a transaction targeting an existing account.
type Call struct {
	Sender     fidelio.Address
	Recipient  fidelio.Address
	Value      fidelio.Value
	Input      []byte
	GasLimit   fidelio.Gas
	AccessList []fidelio.AccessTuple
}

// Create describes a contract-creating transaction.
type Create struct {
	Sender     fidelio.Address
	Value      fidelio.Value
	InitCode   []byte
	GasLimit   fidelio.Gas
	AccessList []fidelio.AccessTuple
}

// Receipt is the summary of one executed transaction.
type Receipt struct {
	Outcome Outcome
	Output  []byte
	GasUsed fidelio.Gas
	// CreatedAddress is the address of the deployed contract for
	// successful create transactions, nil otherwise.
	CreatedAddress *fidelio.Address
}

// Executor is the interface through which transactions are run against an
// engine. An executor is not safe for concurrent use.
type Executor interface {
	// TransactCall executes a message call transaction. The error channel
	// is reserved for internal engine failures; semantic failures of the
	// transaction are reported through the receipt's outcome.
	TransactCall(call Call) (Receipt, error)

	// TransactCreate executes a contract creation transaction.
	TransactCreate(create Create) (Receipt, error)

	// Fee converts the given gas price into the total value consumed by
	// all transactions executed so far.
	Fee(gasPrice fidelio.Value) fidelio.Value

	// Withdraw removes the given value from the account's balance, or
	// fails if the balance does not cover it.
	Withdraw(addr fidelio.Address, value fidelio.Value) error

	// Deposit adds the given value to the account's balance.
	Deposit(addr fidelio.Address, value fidelio.Value)

	// Deconstruct terminates the executor and returns the accumulated
	// state changes and emitted logs. The executor must not be used
	// afterwards.
	Deconstruct() (state.Diff, []fidelio.Log)
}
