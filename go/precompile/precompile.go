// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package precompile adapts the statically configured builtins into the
// uniform call signature execution engines expect, and selects the set of
// adapted precompiles applicable to a fork.
package precompile

import (
	"fmt"
	"math"
	"sync"

	"github.com/Fantom-foundation/Fidelio/go/builtin"
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
)

// CallContext carries the call-site parameters of a precompile invocation.
// The builtins modeled here are pure functions of their input; the context
// is passed through for interface compatibility only.
type CallContext struct {
	Sender    fidelio.Address
	Recipient fidelio.Address
	Value     fidelio.Value
}

// Output is the result of a successful precompile call. Precompiles always
// end in a stopped (non-reverting) state and never emit logs.
type Output struct {
	Output  []byte
	GasUsed fidelio.Gas
}

// Fn is the uniform precompile call signature. A nil gasLimit disables the
// up-front cost check. Failures are engine-level call errors: an
// out-of-gas condition is reported as fidelio.ErrOutOfGas, everything else
// is an opaque execution failure.
type Fn func(input []byte, gasLimit *fidelio.Gas, ctx CallContext, static bool) (Output, error)

// Registry maps the fixed precompile addresses of one fork to adapted
// callables. Registries are immutable after construction and shared
// process-wide; concurrent reads are safe.
type Registry map[fidelio.Address]Fn

var (
	istanbulRegistry = sync.OnceValue(func() Registry { return mustBuild(fidelio.Istanbul) })
	berlinRegistry   = sync.OnceValue(func() Registry { return mustBuild(fidelio.Berlin) })
)

// ForFork resolves the precompile registry of the given fork. The second
// result is false for forks without precompile support, signaling the
// caller to skip the fork entirely rather than fail.
func ForFork(fork fidelio.Fork) (Registry, bool) {
	switch fork {
	case fidelio.Istanbul:
		return istanbulRegistry(), true
	case fidelio.Berlin:
		return berlinRegistry(), true
	default:
		return nil, false
	}
}

func mustBuild(fork fidelio.Fork) Registry {
	builtins, found := builtin.ForFork(fork)
	if !found {
		panic(fmt.Sprintf("no builtin configuration for fork %v", fork))
	}
	registry := make(Registry, len(builtins))
	for addr, b := range builtins {
		registry[addr] = adapt(b)
	}
	return registry
}

// adapt wraps one builtin into the engine call signature. The cost check
// short-circuits before execution, so an under-gassed call has no side
// effects and produces no output.
func adapt(b *builtin.Builtin) Fn {
	return func(input []byte, gasLimit *fidelio.Gas, _ CallContext, _ bool) (Output, error) {
		cost := b.Cost(input)
		if !cost.IsUint64() || cost.Uint64() > math.MaxInt64 {
			return Output{}, fidelio.ErrOutOfGas
		}
		gasCost := fidelio.Gas(cost.Uint64())
		if gasLimit != nil && gasCost > *gasLimit {
			return Output{}, fidelio.ErrOutOfGas
		}

		output, err := b.Execute(input)
		if err != nil {
			return Output{}, fmt.Errorf("builtin %s failed: %w", b.Name(), err)
		}
		return Output{
			Output:  output,
			GasUsed: gasCost,
		}, nil
	}
}
