// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package runner drives the execution of test vectors: per fork and
// variant it builds a fresh backend, runs the transaction through a
// configurable engine, settles fees, commits the resulting diff, and
// verifies the committed state against the vector's expected hash.
package runner

import (
	"fmt"
	"io"
	"sort"

	"github.com/Fantom-foundation/Fidelio/go/engine"
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/precompile"
	"github.com/Fantom-foundation/Fidelio/go/state"
	"github.com/Fantom-foundation/Fidelio/go/vector"
)

// forkConfig bundles the fork-dependent execution parameters: the
// transaction setup costs and the empty-account deletion policy.
type forkConfig struct {
	costs       engine.Costs
	deleteEmpty bool
}

// supportedForks is the closed set of forks this harness can execute.
// Forks not listed here are skipped with a notice, not failed, so suites
// can be adopted incrementally as fork support grows.
var supportedForks = map[fidelio.Fork]forkConfig{
	fidelio.Istanbul: {costs: engine.IstanbulCosts(), deleteEmpty: true},
	fidelio.Berlin:   {costs: engine.BerlinCosts(), deleteEmpty: true},
}

// Run executes all fork/variant combinations of the given test vector on
// the named engine, reporting progress to the given writer. The first
// failing case terminates the run with an error naming the case.
func Run(engineName, testName string, test *vector.Test, out io.Writer) error {
	forkNames := make([]string, 0, len(test.Post))
	for forkName := range test.Post {
		forkNames = append(forkNames, forkName)
	}
	sort.Strings(forkNames)

	for _, forkName := range forkNames {
		fork, known := fidelio.ParseFork(forkName)
		if !known {
			fmt.Fprintf(out, "Skip fork %s\n", forkName)
			continue
		}
		if _, supported := supportedForks[fork]; !supported {
			fmt.Fprintf(out, "Skip fork %s\n", fork)
			continue
		}
		for i, post := range test.Post[forkName] {
			fmt.Fprintf(out, "Running %s:%s:%d ... ", testName, fork, i)
			if err := runCase(engineName, test, fork, post); err != nil {
				return fmt.Errorf("%s:%s:%d: %w", testName, fork, i, err)
			}
			fmt.Fprintf(out, "passed\n")
		}
	}
	return nil
}

// runCase executes one (fork, variant) combination on a dedicated worker
// goroutine, joined synchronously. The execution path can recurse deeply
// on nested calls; a dedicated goroutine gives each case an independent,
// on-demand growing stack.
func runCase(engineName string, test *vector.Test, fork fidelio.Fork, post vector.PostState) error {
	done := make(chan error, 1)
	go func() {
		done <- executeCase(engineName, test, fork, post)
	}()
	return <-done
}

// executeCase performs the actual verification of one case.
func executeCase(engineName string, test *vector.Test, fork fidelio.Fork, post vector.PostState) error {
	config, supported := supportedForks[fork]
	if !supported {
		panic(fmt.Sprintf("running unsupported fork %v", fork))
	}

	variant, err := test.Select(post)
	if err != nil {
		return err
	}

	vicinity, err := test.Vicinity()
	if err != nil {
		return err
	}
	sender := vicinity.Origin

	// Each case gets its own backend cloned from the vector's pre-state;
	// nothing leaks between variants.
	backend := state.NewBackend(vicinity, test.PreState())

	precompiles, found := precompile.ForFork(fork)
	if !found {
		panic(fmt.Sprintf("no precompile registry for supported fork %v", fork))
	}

	executor, err := engine.New(engineName, engine.Config{
		Fork:        fork,
		Costs:       config.costs,
		Backend:     backend,
		Precompiles: precompiles,
	})
	if err != nil {
		return err
	}

	totalFee := vicinity.GasPrice.Scale(uint64(variant.GasLimit))
	if err := executor.Withdraw(sender, totalFee); err != nil {
		return fmt.Errorf("upfront fee withdrawal failed: %w", err)
	}

	// The outcome of the dispatch is intentionally not asserted; some
	// vectors are expected to revert or fail, and their verdict is fully
	// encoded in the committed post-state.
	if variant.Recipient != nil {
		executor.TransactCall(engine.Call{
			Sender:     sender,
			Recipient:  *variant.Recipient,
			Value:      variant.Value,
			Input:      variant.Data,
			GasLimit:   variant.GasLimit,
			AccessList: variant.AccessList,
		})
	} else {
		executor.TransactCreate(engine.Create{
			Sender:     sender,
			Value:      variant.Value,
			InitCode:   variant.Data,
			GasLimit:   variant.GasLimit,
			AccessList: variant.AccessList,
		})
	}

	// Fees settle unconditionally: the consumed part goes to the
	// coinbase, the rest back to the sender.
	fee := executor.Fee(vicinity.GasPrice)
	executor.Deposit(vicinity.Coinbase, fee)
	executor.Deposit(sender, fidelio.Sub(totalFee, fee))

	diff, logs := executor.Deconstruct()
	backend.Apply(diff, logs, config.deleteEmpty)

	if got, want := backend.Hash(), post.Hash; got != want {
		return fmt.Errorf("state hash mismatch: got %v, want %v", got, want)
	}
	return nil
}
