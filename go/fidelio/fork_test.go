// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fidelio

import (
	"encoding/json"
	"testing"
)

func TestFork_ParseIsInverseOfPrint(t *testing.T) {
	for _, fork := range AllForks() {
		parsed, found := ParseFork(fork.String())
		if !found {
			t.Fatalf("failed to parse fork name %q", fork.String())
		}
		if parsed != fork {
			t.Errorf("parsing changed fork, wanted %v, got %v", fork, parsed)
		}
	}
}

func TestFork_ParseRejectsUnknownNames(t *testing.T) {
	for _, name := range []string{"", "istanbul", "Constantinople", "Berlin "} {
		if _, found := ParseFork(name); found {
			t.Errorf("expected parsing of %q to fail, but it did not", name)
		}
	}
}

func TestFork_UnknownForkHasGenericName(t *testing.T) {
	if want, got := "Fork(99)", Fork(99).String(); want != got {
		t.Errorf("unexpected name for unknown fork, wanted %v, got %v", want, got)
	}
}

func TestFork_JSON_Encoding(t *testing.T) {
	for _, fork := range AllForks() {
		encoded, err := json.Marshal(fork)
		if err != nil {
			t.Fatalf("failed to encode into JSON: %v", err)
		}
		var restored Fork
		if err := json.Unmarshal(encoded, &restored); err != nil {
			t.Fatalf("failed to restore fork: %v", err)
		}
		if fork != restored {
			t.Errorf("unexpected restored value, wanted %v, got %v", fork, restored)
		}
	}
}

func TestFork_JSON_InvalidValueEncodingFails(t *testing.T) {
	if _, err := json.Marshal(Fork(99)); err == nil {
		t.Errorf("expected encoding of unknown fork to fail, but it did not")
	}
	var fork Fork
	if err := json.Unmarshal([]byte("\"Constantinople\""), &fork); err == nil {
		t.Errorf("expected decoding of unknown fork to fail, but it did not")
	}
}

func TestIsPrecompiledAddress_CoversTheReservedRange(t *testing.T) {
	for i := uint64(1); i <= 9; i++ {
		if !IsPrecompiledAddress(AddressFromUint64(i)) {
			t.Errorf("address %d should be a precompile address", i)
		}
	}
	for _, addr := range []Address{
		{},
		AddressFromUint64(10),
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
	} {
		if IsPrecompiledAddress(addr) {
			t.Errorf("address %v should not be a precompile address", addr)
		}
	}
}

func TestAddressFromUint64_PlacesValueInLowOrderBytes(t *testing.T) {
	if want, got := (Address{19: 0x05}), AddressFromUint64(5); want != got {
		t.Errorf("unexpected address, wanted %v, got %v", want, got)
	}
	if want, got := (Address{18: 0x01, 19: 0x00}), AddressFromUint64(256); want != got {
		t.Errorf("unexpected address, wanted %v, got %v", want, got)
	}
}
