// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package builtin loads the fork-specific descriptions of precompiled
// contracts from external configuration resources and materializes them
// into addressable registries.
//
// A descriptor pairs a declarative cost model, evaluated entirely from the
// call input, with an execution behavior selected by name. The behaviors
// themselves are the native implementations shipped with go-ethereum; their
// correctness is an external contract this package does not validate.
package builtin

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
)

// Builtin is one fixed-address precompiled contract: a pure function of the
// input bytes with a descriptor-driven cost model. Builtins hold no state
// and may be shared freely once constructed.
type Builtin struct {
	name     string
	pricer   pricer
	contract vm.PrecompiledContract
}

// Name returns the behavior name of the builtin, e.g. "ecrecover".
func (b *Builtin) Name() string {
	return b.name
}

// Cost computes the gas cost of running the builtin on the given input.
// Cost models depend on input size and content only; there is no metering
// loop and no block-height dependence in this harness.
func (b *Builtin) Cost(input []byte) *big.Int {
	return b.pricer.cost(input)
}

// Execute runs the builtin on the given input. A non-nil error indicates a
// failed call; builtins never mutate state and never emit logs.
func (b *Builtin) Execute(input []byte) ([]byte, error) {
	return b.contract.Run(input)
}

// Registry maps the fixed precompile addresses of one fork to their
// builtins. Registries are read-only after construction.
type Registry map[fidelio.Address]*Builtin

// Load reads a builtin configuration resource: a JSON object keyed by
// 20-byte hex addresses, each holding a descriptor with a behavior name and
// exactly one pricing model. Descriptors are checked structurally only.
func Load(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read builtin configuration: %w", err)
	}
	var descriptors map[string]descriptor
	if err := json.Unmarshal(data, &descriptors); err != nil {
		return nil, fmt.Errorf("failed to parse builtin configuration %s: %w", path, err)
	}

	registry := make(Registry, len(descriptors))
	for key, desc := range descriptors {
		addr, err := parseAddress(key)
		if err != nil {
			return nil, fmt.Errorf("invalid builtin address %q in %s: %w", key, path, err)
		}
		builtin, err := newBuiltin(desc)
		if err != nil {
			return nil, fmt.Errorf("invalid builtin %q in %s: %w", key, path, err)
		}
		registry[addr] = builtin
	}
	return registry, nil
}

// MustLoad is Load for process-lifetime registries. A missing or malformed
// resource indicates a broken test environment, not a test failure, and
// terminates the process.
func MustLoad(path string) Registry {
	registry, err := Load(path)
	if err != nil {
		panic(err)
	}
	return registry
}

type descriptor struct {
	Name    string      `json:"name"`
	Pricing pricingDesc `json:"pricing"`
}

func newBuiltin(desc descriptor) (*Builtin, error) {
	contract, found := behaviorByName[desc.Name]
	if !found {
		return nil, fmt.Errorf("unknown builtin behavior: %q", desc.Name)
	}
	pricer, err := desc.Pricing.pricer()
	if err != nil {
		return nil, err
	}
	return &Builtin{
		name:     desc.Name,
		pricer:   pricer,
		contract: contract,
	}, nil
}

// behaviorByName binds descriptor names to native implementations. The
// Berlin table is used as the source for all forks; execution behavior of
// the first nine precompiles is identical across the supported forks, only
// their pricing differs, and pricing is owned by the descriptors.
var behaviorByName = map[string]vm.PrecompiledContract{
	"ecrecover":         behaviorAt(1),
	"sha256":            behaviorAt(2),
	"ripemd160":         behaviorAt(3),
	"identity":          behaviorAt(4),
	"modexp":            behaviorAt(5),
	"alt_bn128_add":     behaviorAt(6),
	"alt_bn128_mul":     behaviorAt(7),
	"alt_bn128_pairing": behaviorAt(8),
	"blake2_f":          behaviorAt(9),
}

func behaviorAt(index byte) vm.PrecompiledContract {
	contract, found := vm.PrecompiledContractsBerlin[common.BytesToAddress([]byte{index})]
	if !found {
		panic(fmt.Sprintf("no native precompile at address %d", index))
	}
	return contract
}

func parseAddress(key string) (fidelio.Address, error) {
	var addr fidelio.Address
	data, err := hex.DecodeString(strings.TrimPrefix(key, "0x"))
	if err != nil {
		return addr, err
	}
	if len(data) != len(addr) {
		return addr, fmt.Errorf("wanted %d bytes, got %d", len(addr), len(data))
	}
	copy(addr[:], data)
	return addr, nil
}
