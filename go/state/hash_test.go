// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

import (
	"testing"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/ethereum/go-ethereum/core/types"
	"pgregory.net/rand"
)

func TestBackend_HashOfEmptyStateIsTheEmptyRoot(t *testing.T) {
	backend := NewBackend(Vicinity{}, nil)
	if want, got := fidelio.Hash(types.EmptyRootHash), backend.Hash(); want != got {
		t.Errorf("unexpected empty state root, wanted %v, got %v", want, got)
	}
}

func TestBackend_HashIsSensitiveToEveryAccountField(t *testing.T) {
	base := map[fidelio.Address]Account{
		{1}: {
			Balance: fidelio.NewValue(100),
			Nonce:   1,
			Code:    fidelio.Code{0x60, 0x00},
			Storage: map[fidelio.Key]fidelio.Word{{1}: {2}},
		},
	}

	reference := NewBackend(Vicinity{}, base).Hash()

	modifications := map[string]func(*Account){
		"balance": func(a *Account) { a.Balance = fidelio.NewValue(101) },
		"nonce":   func(a *Account) { a.Nonce = 2 },
		"code":    func(a *Account) { a.Code = fidelio.Code{0x60, 0x01} },
		"storage": func(a *Account) { a.Storage[fidelio.Key{1}] = fidelio.Word{3} },
	}

	for name, modify := range modifications {
		t.Run(name, func(t *testing.T) {
			account := base[fidelio.Address{1}].Clone()
			modify(&account)
			modified := NewBackend(Vicinity{}, map[fidelio.Address]Account{{1}: account}).Hash()
			if modified == reference {
				t.Errorf("modifying the account's %s did not change the state root", name)
			}
		})
	}
}

func TestBackend_HashIgnoresZeroStorageSlots(t *testing.T) {
	withZeroSlot := NewBackend(Vicinity{}, map[fidelio.Address]Account{
		{1}: {Nonce: 1, Storage: map[fidelio.Key]fidelio.Word{{1}: {}}},
	}).Hash()
	withoutSlot := NewBackend(Vicinity{}, map[fidelio.Address]Account{
		{1}: {Nonce: 1},
	}).Hash()

	if withZeroSlot != withoutSlot {
		t.Errorf("zero-valued storage slot changed the state root")
	}
}

func TestBackend_HashIsDeterministic(t *testing.T) {
	rnd := rand.New(12345)
	preState := map[fidelio.Address]Account{}
	for i := 0; i < 50; i++ {
		addr := fidelio.Address{}
		rnd.Read(addr[:])
		account := Account{
			Balance: fidelio.NewValue(rnd.Uint64()),
			Nonce:   rnd.Uint64(),
			Storage: map[fidelio.Key]fidelio.Word{},
		}
		for j := 0; j < 5; j++ {
			key := fidelio.Key{}
			value := fidelio.Word{}
			rnd.Read(key[:])
			rnd.Read(value[:])
			account.Storage[key] = value
		}
		preState[addr] = account
	}

	first := NewBackend(Vicinity{}, preState).Hash()
	for i := 0; i < 10; i++ {
		if got := NewBackend(Vicinity{}, preState).Hash(); got != first {
			t.Fatalf("state root changed across runs, wanted %v, got %v", first, got)
		}
	}
}
