// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package vector

import (
	"fmt"
	"math/big"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/state"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// PreState materializes the vector's declarative pre-state into backend
// accounts. The result is freshly allocated on every call; callers own it.
func (t *Test) PreState() map[fidelio.Address]state.Account {
	accounts := make(map[fidelio.Address]state.Account, len(t.Pre))
	for addr, desc := range t.Pre {
		account := state.Account{
			Balance: valueFromBig((*big.Int)(desc.Balance)),
			Nonce:   uint64(desc.Nonce),
			Code:    append(fidelio.Code{}, desc.Code...),
			Storage: make(map[fidelio.Key]fidelio.Word, len(desc.Storage)),
		}
		for key, value := range desc.Storage {
			if value == (storageWord{}) {
				continue
			}
			account.Storage[fidelio.Key(key)] = fidelio.Word(value)
		}
		accounts[addr] = account
	}
	return accounts
}

// Sender derives the transaction sender by importing the vector's secret
// key material and deriving the canonical address from the resulting
// public key. A vector without a usable sender cannot be executed.
func (t *Test) Sender() (fidelio.Address, error) {
	if len(t.Tx.SecretKey) == 0 {
		return fidelio.Address{}, fmt.Errorf("test vector carries no secret key")
	}
	key, err := crypto.ToECDSA(t.Tx.SecretKey)
	if err != nil {
		return fidelio.Address{}, fmt.Errorf("malformed secret key: %w", err)
	}
	return fidelio.Address(crypto.PubkeyToAddress(key.PublicKey)), nil
}

// Vicinity derives the ambient execution context of the vector: the gas
// price and origin of the transaction, the environment block metadata
// taken verbatim, an empty block-hash history, and chain id 1. The context
// is invariant across fork and index selection, so it is computed once per
// vector rather than per variant.
func (t *Test) Vicinity() (state.Vicinity, error) {
	origin, err := t.Sender()
	if err != nil {
		return state.Vicinity{}, err
	}
	return state.Vicinity{
		GasPrice:    valueFromBig((*big.Int)(t.Tx.GasPrice)),
		Origin:      origin,
		ChainID:     fidelio.NewValue(1),
		BlockHashes: []fidelio.Hash{},
		BlockNumber: int64(t.Env.Number),
		Coinbase:    t.Env.Coinbase,
		Timestamp:   int64(t.Env.Timestamp),
		Difficulty:  valueFromBig((*big.Int)(t.Env.Difficulty)),
		GasLimit:    fidelio.Gas(t.Env.GasLimit),
	}, nil
}

// TxVariant is one concrete transaction, resolved from the template's
// indexed alternatives. A nil Recipient requests a contract creation.
type TxVariant struct {
	Data       []byte
	GasLimit   fidelio.Gas
	Value      fidelio.Value
	Recipient  *fidelio.Address
	AccessList []fidelio.AccessTuple
	Nonce      uint64
}

// Select resolves the concrete transaction fields named by the post-state
// entry's selector indexes. Out-of-range selectors indicate a malformed
// vector.
func (t *Test) Select(post PostState) (TxVariant, error) {
	idx := post.Indexes
	if idx.Data < 0 || idx.Data >= len(t.Tx.Data) {
		return TxVariant{}, fmt.Errorf("data index %d out of range", idx.Data)
	}
	if idx.Gas < 0 || idx.Gas >= len(t.Tx.GasLimit) {
		return TxVariant{}, fmt.Errorf("gas index %d out of range", idx.Gas)
	}
	if idx.Value < 0 || idx.Value >= len(t.Tx.Value) {
		return TxVariant{}, fmt.Errorf("value index %d out of range", idx.Value)
	}

	variant := TxVariant{
		Data:     append([]byte{}, t.Tx.Data[idx.Data]...),
		GasLimit: fidelio.Gas(t.Tx.GasLimit[idx.Gas]),
		Value:    valueFromBig((*big.Int)(t.Tx.Value[idx.Value])),
		Nonce:    uint64(t.Tx.Nonce),
	}

	if t.Tx.To != "" {
		recipient := fidelio.Address{}
		if err := recipient.UnmarshalText([]byte(t.Tx.To)); err != nil {
			return TxVariant{}, fmt.Errorf("malformed recipient: %w", err)
		}
		variant.Recipient = &recipient
	}

	// Access lists are indexed by the data selector, mirroring the
	// layout of the source suites.
	if idx.Data < len(t.Tx.AccessLists) {
		if list := t.Tx.AccessLists[idx.Data]; list != nil {
			for _, tuple := range *list {
				keys := make([]fidelio.Key, len(tuple.StorageKeys))
				for i, key := range tuple.StorageKeys {
					keys[i] = fidelio.Key(key)
				}
				variant.AccessList = append(variant.AccessList, fidelio.AccessTuple{
					Address: fidelio.Address(tuple.Address),
					Keys:    keys,
				})
			}
		}
	}
	return variant, nil
}

func valueFromBig(value *big.Int) fidelio.Value {
	if value == nil {
		return fidelio.Value{}
	}
	converted, overflow := uint256.FromBig(value)
	if overflow {
		// 256-bit JSON codecs cannot produce larger numbers.
		panic(fmt.Sprintf("value out of range: %v", value))
	}
	return fidelio.ValueFromUint256(converted)
}
