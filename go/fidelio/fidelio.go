// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package fidelio provides the domain types shared by all components of the
// conformance-test harness: addresses, storage words, currency values, gas,
// and the hard-fork enumeration. The types are deliberately plain fixed-size
// arrays so that they can be used as map keys and compared byte-wise.
package fidelio

// Address represents the 160-bit (20 bytes) address of an account.
type Address [20]byte

// Key represents the 256-bit (32 bytes) key of a storage slot.
type Key [32]byte

// Word represents an arbitrary 256-bit (32 byte) word of storage.
type Word [32]byte

// Value represents an amount of chain currency, typically wei, as a
// big-endian 256-bit integer.
type Value [32]byte

// Hash represents the 256-bit (32 bytes) hash of code, a block, a topic
// or similar sequence of cryptographic summary information.
type Hash [32]byte

// Code represents the byte-code of a contract.
type Code []byte

// Data represents the input or output of contract invocations.
type Data []byte

// Gas represents the type used to represent gas values.
type Gas int64

// Log is the type summarizing a log message emitted as a side effect of a
// contract execution.
type Log struct {
	Address Address
	Topics  []Hash
	Data    Data
}

// AccessTuple lists a range of accounts and storage slots expected to be
// accessed by a transaction. Those are intended as hints for the actual
// access pattern; neither completeness nor correctness can be assumed.
type AccessTuple struct {
	Address Address
	Keys    []Key
}

// IsPrecompiledAddress reports whether the given address falls into the
// range conventionally reserved for precompiled contracts.
func IsPrecompiledAddress(addr Address) bool {
	for i := 0; i < 19; i++ {
		if addr[i] != 0 {
			return false
		}
	}
	return 1 <= addr[19] && addr[19] <= 9
}

// AddressFromUint64 places the given number into the low-order bytes of an
// address, the conventional encoding of precompile addresses.
func AddressFromUint64(index uint64) (result Address) {
	val := NewValue(index)
	copy(result[:], val[12:32])
	return result
}
