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
	"sort"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// Hash computes the canonical Ethereum state root of the backend's full
// account state: a secure Merkle-Patricia trie mapping keccak(address) to
// the RLP encoding of (nonce, balance, storageRoot, codeHash).
//
// The result is compared bit-exact against the committed hash of a test
// vector; there is no tolerance for alternative encodings.
func (b *Backend) Hash() fidelio.Hash {
	entries := make([]trieEntry, 0, len(b.accounts))
	for addr, account := range b.accounts {
		encoded, err := rlp.EncodeToBytes(&types.StateAccount{
			Nonce:    account.Nonce,
			Balance:  new(uint256.Int).SetBytes(account.Balance[:]),
			Root:     storageRoot(account.Storage),
			CodeHash: codeHash(account.Code).Bytes(),
		})
		if err != nil {
			// All fields are fixed-shape; encoding cannot fail.
			panic(err)
		}
		entries = append(entries, trieEntry{keccak(addr[:]), encoded})
	}
	root := trieRoot(entries)
	return fidelio.Hash(root)
}

type trieEntry struct {
	key   common.Hash
	value []byte
}

// trieRoot folds the given entries into a stack trie. Stack tries require
// keys in ascending order, so the entries are sorted in place first.
func trieRoot(entries []trieEntry) common.Hash {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key.Cmp(entries[j].key) < 0
	})
	tr := trie.NewStackTrie(nil)
	for _, entry := range entries {
		if err := tr.Update(entry.key[:], entry.value); err != nil {
			panic(err)
		}
	}
	return tr.Hash()
}

func storageRoot(storage map[fidelio.Key]fidelio.Word) common.Hash {
	if len(storage) == 0 {
		return types.EmptyRootHash
	}
	entries := make([]trieEntry, 0, len(storage))
	for key, value := range storage {
		if value == (fidelio.Word{}) {
			continue
		}
		encoded, err := rlp.EncodeToBytes(common.TrimLeftZeroes(value[:]))
		if err != nil {
			panic(err)
		}
		entries = append(entries, trieEntry{keccak(key[:]), encoded})
	}
	if len(entries) == 0 {
		return types.EmptyRootHash
	}
	return trieRoot(entries)
}

// codeHashes memoizes keccak over contract code; test suites reuse the same
// few contracts across hundreds of cases.
var codeHashes, _ = lru.New[string, common.Hash](1024)

func codeHash(code fidelio.Code) common.Hash {
	if len(code) == 0 {
		return types.EmptyCodeHash
	}
	if hash, found := codeHashes.Get(string(code)); found {
		return hash
	}
	hash := keccak(code)
	codeHashes.Add(string(code), hash)
	return hash
}

func keccak(data []byte) common.Hash {
	res := common.Hash{}
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	hasher.Sum(res[0:0])
	return res
}
