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
)

func TestAccount_CloneSharesNoMutableData(t *testing.T) {
	original := Account{
		Balance: fidelio.NewValue(42),
		Nonce:   3,
		Code:    fidelio.Code{1, 2, 3},
		Storage: map[fidelio.Key]fidelio.Word{{1}: {2}},
	}

	clone := original.Clone()
	clone.Code[0] = 9
	clone.Storage[fidelio.Key{1}] = fidelio.Word{9}

	if original.Code[0] != 1 {
		t.Errorf("mutating the clone's code changed the original")
	}
	if original.Storage[fidelio.Key{1}] != (fidelio.Word{2}) {
		t.Errorf("mutating the clone's storage changed the original")
	}
}

func TestAccount_IsEmpty(t *testing.T) {
	tests := map[string]struct {
		account Account
		want    bool
	}{
		"zero account":      {Account{}, true},
		"storage only":      {Account{Storage: map[fidelio.Key]fidelio.Word{{1}: {2}}}, true},
		"with balance":      {Account{Balance: fidelio.NewValue(1)}, false},
		"with nonce":        {Account{Nonce: 1}, false},
		"with code":         {Account{Code: fidelio.Code{0x00}}, false},
		"nil code variants": {Account{Code: fidelio.Code{}}, true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := test.account.IsEmpty(); got != test.want {
				t.Errorf("unexpected emptiness of %v, wanted %t, got %t", test.account, test.want, got)
			}
		})
	}
}

func TestBackend_ConstructionClonesThePreState(t *testing.T) {
	addr := fidelio.Address{1}
	preState := map[fidelio.Address]Account{
		addr: {
			Balance: fidelio.NewValue(100),
			Storage: map[fidelio.Key]fidelio.Word{{1}: {2}},
		},
	}

	backend := NewBackend(Vicinity{}, preState)
	preState[addr].Storage[fidelio.Key{1}] = fidelio.Word{9}

	account, found := backend.Account(addr)
	if !found {
		t.Fatalf("account not present in backend")
	}
	if account.Storage[fidelio.Key{1}] != (fidelio.Word{2}) {
		t.Errorf("mutating the pre-state changed the backend")
	}
}

func TestBackend_ApplyCommitsChanges(t *testing.T) {
	addr := fidelio.Address{1}
	backend := NewBackend(Vicinity{}, map[fidelio.Address]Account{
		addr: {Balance: fidelio.NewValue(100), Nonce: 1},
	})

	backend.Apply(Diff{
		addr: Change{
			Balance: fidelio.NewValue(50),
			Nonce:   2,
			Code:    fidelio.Code{0x60},
			Storage: map[fidelio.Key]fidelio.Word{{1}: {2}},
		},
	}, nil, true)

	account, found := backend.Account(addr)
	if !found {
		t.Fatalf("account not present after apply")
	}
	if want, got := fidelio.NewValue(50), account.Balance; want != got {
		t.Errorf("unexpected balance, wanted %v, got %v", want, got)
	}
	if want, got := uint64(2), account.Nonce; want != got {
		t.Errorf("unexpected nonce, wanted %v, got %v", want, got)
	}
	if len(account.Code) != 1 || account.Code[0] != 0x60 {
		t.Errorf("unexpected code: %x", account.Code)
	}
	if account.Storage[fidelio.Key{1}] != (fidelio.Word{2}) {
		t.Errorf("unexpected storage content: %v", account.Storage)
	}
}

func TestBackend_ApplyDeletesFlaggedAccounts(t *testing.T) {
	addr := fidelio.Address{1}
	backend := NewBackend(Vicinity{}, map[fidelio.Address]Account{
		addr: {Balance: fidelio.NewValue(100)},
	})

	backend.Apply(Diff{addr: Change{Deleted: true}}, nil, false)

	if _, found := backend.Account(addr); found {
		t.Errorf("deleted account still present")
	}
}

func TestBackend_ApplyPrunesEmptyTouchedAccounts(t *testing.T) {
	touched := fidelio.Address{1}
	untouched := fidelio.Address{2}
	backend := NewBackend(Vicinity{}, map[fidelio.Address]Account{
		touched:   {Balance: fidelio.NewValue(10)},
		untouched: {},
	})

	// The touched account drops to zero and is pruned; the untouched
	// empty account stays since it is not part of the diff.
	backend.Apply(Diff{touched: Change{Balance: fidelio.NewValue(0)}}, nil, true)

	if _, found := backend.Account(touched); found {
		t.Errorf("empty touched account was not pruned")
	}
	if _, found := backend.Account(untouched); !found {
		t.Errorf("untouched account was pruned")
	}
}

func TestBackend_ApplyKeepsEmptyAccountsWithoutDeletionPolicy(t *testing.T) {
	addr := fidelio.Address{1}
	backend := NewBackend(Vicinity{}, map[fidelio.Address]Account{
		addr: {Balance: fidelio.NewValue(10)},
	})

	backend.Apply(Diff{addr: Change{Balance: fidelio.NewValue(0)}}, nil, false)

	if _, found := backend.Account(addr); !found {
		t.Errorf("account was pruned although the deletion policy is off")
	}
}

func TestBackend_ApplyZeroStorageWriteDeletesTheSlot(t *testing.T) {
	addr := fidelio.Address{1}
	backend := NewBackend(Vicinity{}, map[fidelio.Address]Account{
		addr: {
			Nonce:   1,
			Storage: map[fidelio.Key]fidelio.Word{{1}: {2}, {3}: {4}},
		},
	})

	backend.Apply(Diff{
		addr: Change{
			Nonce:   1,
			Storage: map[fidelio.Key]fidelio.Word{{1}: {}},
		},
	}, nil, true)

	account, _ := backend.Account(addr)
	if _, found := account.Storage[fidelio.Key{1}]; found {
		t.Errorf("zero-word storage write did not delete the slot")
	}
	if account.Storage[fidelio.Key{3}] != (fidelio.Word{4}) {
		t.Errorf("unrelated slot was changed")
	}
}

func TestBackend_ApplyResetStorageDiscardsOldSlots(t *testing.T) {
	addr := fidelio.Address{1}
	backend := NewBackend(Vicinity{}, map[fidelio.Address]Account{
		addr: {
			Nonce:   1,
			Storage: map[fidelio.Key]fidelio.Word{{1}: {2}},
		},
	})

	backend.Apply(Diff{
		addr: Change{
			Nonce:        1,
			Storage:      map[fidelio.Key]fidelio.Word{{3}: {4}},
			ResetStorage: true,
		},
	}, nil, true)

	account, _ := backend.Account(addr)
	if _, found := account.Storage[fidelio.Key{1}]; found {
		t.Errorf("storage reset did not discard the old slot")
	}
	if account.Storage[fidelio.Key{3}] != (fidelio.Word{4}) {
		t.Errorf("new slot missing after storage reset")
	}
}

func TestBackend_ApplyAccumulatesLogs(t *testing.T) {
	backend := NewBackend(Vicinity{}, nil)

	backend.Apply(nil, []fidelio.Log{{Address: fidelio.Address{1}}}, false)
	backend.Apply(nil, []fidelio.Log{{Address: fidelio.Address{2}}}, false)

	if want, got := 2, len(backend.Logs()); want != got {
		t.Errorf("unexpected number of logs, wanted %d, got %d", want, got)
	}
}

func TestBackend_ApplyEmptyDiffIsANoOp(t *testing.T) {
	addr := fidelio.Address{1}
	backend := NewBackend(Vicinity{}, map[fidelio.Address]Account{
		addr: {Balance: fidelio.NewValue(10)},
	})
	before := backend.Hash()

	backend.Apply(Diff{}, nil, true)

	if after := backend.Hash(); before != after {
		t.Errorf("empty diff changed the state hash from %v to %v", before, after)
	}
}
