// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package leonore provides the reference execution engine. It implements
// the transaction protocol around code execution, covering value
// transfers, precompiled contract calls, and empty contract creations.
// Transactions requiring byte-code interpretation are rejected with
// fidelio.ErrNoInterpreter.
package leonore

import (
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Fidelio/go/engine"
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/precompile"
	"github.com/Fantom-foundation/Fidelio/go/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func init() {
	if err := engine.RegisterFactory("leonore", newExecutor); err != nil {
		panic(err)
	}
}

func newExecutor(config engine.Config) (engine.Executor, error) {
	if config.Backend == nil {
		return nil, fmt.Errorf("missing backend")
	}
	return &executor{
		config:   config,
		substate: newSubstate(config.Backend),
	}, nil
}

type executor struct {
	config   engine.Config
	substate *substate
	gasUsed  fidelio.Gas
}

func (e *executor) TransactCall(call engine.Call) (engine.Receipt, error) {
	intrinsicGas := e.intrinsicGas(call.Input, false, call.AccessList)
	if call.GasLimit < intrinsicGas {
		return e.failed(call.GasLimit), nil
	}
	gas := call.GasLimit - intrinsicGas

	e.substate.setNonce(call.Sender, e.substate.nonce(call.Sender)+1)

	snapshot := e.substate.createSnapshot()
	if err := e.transferValue(call.Sender, call.Recipient, call.Value); err != nil {
		e.substate.restoreSnapshot(snapshot)
		return e.failed(call.GasLimit), nil
	}

	if fn, found := e.config.Precompiles[call.Recipient]; found {
		return e.callPrecompile(fn, call, gas, intrinsicGas, snapshot)
	}

	if len(e.substate.code(call.Recipient)) > 0 {
		e.substate.restoreSnapshot(snapshot)
		return e.failed(call.GasLimit), fmt.Errorf(
			"cannot run code at %v: %w", call.Recipient, fidelio.ErrNoInterpreter)
	}

	// Plain value transfer.
	e.gasUsed += intrinsicGas
	return engine.Receipt{Outcome: engine.Success, GasUsed: intrinsicGas}, nil
}

func (e *executor) TransactCreate(create engine.Create) (engine.Receipt, error) {
	intrinsicGas := e.intrinsicGas(create.InitCode, true, create.AccessList)
	if create.GasLimit < intrinsicGas {
		return e.failed(create.GasLimit), nil
	}

	nonce := e.substate.nonce(create.Sender)
	e.substate.setNonce(create.Sender, nonce+1)
	contract := createAddress(create.Sender, nonce)

	snapshot := e.substate.createSnapshot()
	if err := e.transferValue(create.Sender, contract, create.Value); err != nil {
		e.substate.restoreSnapshot(snapshot)
		return e.failed(create.GasLimit), nil
	}

	if len(create.InitCode) > 0 {
		e.substate.restoreSnapshot(snapshot)
		return e.failed(create.GasLimit), fmt.Errorf(
			"cannot run init code for %v: %w", contract, fidelio.ErrNoInterpreter)
	}

	// An empty init code deploys an empty contract.
	e.substate.setNonce(contract, 1)
	e.substate.setCode(contract, fidelio.Code{})

	e.gasUsed += intrinsicGas
	return engine.Receipt{
		Outcome:        engine.Success,
		GasUsed:        intrinsicGas,
		CreatedAddress: &contract,
	}, nil
}

func (e *executor) callPrecompile(
	fn precompile.Fn,
	call engine.Call,
	gas fidelio.Gas,
	intrinsicGas fidelio.Gas,
	snapshot snapshot,
) (engine.Receipt, error) {
	output, err := fn(call.Input, &gas, precompile.CallContext{
		Sender:    call.Sender,
		Recipient: call.Recipient,
		Value:     call.Value,
	}, false)
	if err != nil {
		if !errors.Is(err, fidelio.ErrOutOfGas) {
			e.substate.restoreSnapshot(snapshot)
			return engine.Receipt{}, err
		}
		// An out-of-gas precompile call consumes the full gas limit and
		// leaves no trace in the state.
		e.substate.restoreSnapshot(snapshot)
		return e.failed(call.GasLimit), nil
	}
	gasUsed := intrinsicGas + output.GasUsed
	e.gasUsed += gasUsed
	return engine.Receipt{
		Outcome: engine.Success,
		Output:  output.Output,
		GasUsed: gasUsed,
	}, nil
}

func (e *executor) Fee(gasPrice fidelio.Value) fidelio.Value {
	return gasPrice.Scale(uint64(e.gasUsed))
}

func (e *executor) Withdraw(addr fidelio.Address, value fidelio.Value) error {
	balance := e.substate.balance(addr)
	if balance.Cmp(value) < 0 {
		return fmt.Errorf("insufficient balance of %v: %v < %v", addr, balance, value)
	}
	e.substate.setBalance(addr, fidelio.Sub(balance, value))
	return nil
}

func (e *executor) Deposit(addr fidelio.Address, value fidelio.Value) {
	e.substate.setBalance(addr, fidelio.Add(e.substate.balance(addr), value))
}

func (e *executor) Deconstruct() (state.Diff, []fidelio.Log) {
	return e.substate.deconstruct()
}

func (e *executor) transferValue(from, to fidelio.Address, value fidelio.Value) error {
	balance := e.substate.balance(from)
	if balance.Cmp(value) < 0 {
		return fmt.Errorf("insufficient balance: %v < %v", balance, value)
	}
	e.substate.setBalance(from, fidelio.Sub(balance, value))
	e.substate.setBalance(to, fidelio.Add(e.substate.balance(to), value))
	return nil
}

// failed reports a transaction that consumed its full gas limit without
// taking effect.
func (e *executor) failed(gasLimit fidelio.Gas) engine.Receipt {
	e.gasUsed += gasLimit
	return engine.Receipt{Outcome: engine.Failed, GasUsed: gasLimit}
}

func (e *executor) intrinsicGas(
	input []byte,
	isCreate bool,
	accessList []fidelio.AccessTuple,
) fidelio.Gas {
	costs := e.config.Costs
	gas := costs.TxBase
	if isCreate {
		gas = costs.TxCreate
	}
	for _, b := range input {
		if b == 0 {
			gas += costs.TxDataZero
		} else {
			gas += costs.TxDataNonZero
		}
	}
	for _, tuple := range accessList {
		gas += costs.AccessListAddress
		gas += costs.AccessListStorageKey * fidelio.Gas(len(tuple.Keys))
	}
	return gas
}

func createAddress(sender fidelio.Address, nonce uint64) fidelio.Address {
	return fidelio.Address(crypto.CreateAddress(common.Address(sender), nonce))
}
