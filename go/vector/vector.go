// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package vector provides the data model of state-transition test vectors:
// a declarative pre-transaction world state, a transaction template with
// indexed alternatives, block environment metadata, and per-fork expected
// post-states committed as state-root hashes.
//
// Vectors are immutable once loaded; all mutation during a test run happens
// on backends derived from them.
package vector

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
)

// Test is one state-transition test vector, named after the JSON test
// format of the Ethereum execution-spec conformance suites.
type Test struct {
	Env  Env                         `json:"env"`
	Pre  map[fidelio.Address]Account `json:"pre"`
	Tx   Transaction                 `json:"transaction"`
	Post map[string][]PostState      `json:"post"`
}

// Env is the block environment shared by all variants of a vector.
type Env struct {
	Coinbase   fidelio.Address       `json:"currentCoinbase"`
	Difficulty *math.HexOrDecimal256 `json:"currentDifficulty"`
	GasLimit   math.HexOrDecimal64   `json:"currentGasLimit"`
	Number     math.HexOrDecimal64   `json:"currentNumber"`
	Timestamp  math.HexOrDecimal64   `json:"currentTimestamp"`
}

// Account is the declarative description of one pre-state account.
type Account struct {
	Balance *math.HexOrDecimal256       `json:"balance"`
	Nonce   math.HexOrDecimal64         `json:"nonce"`
	Code    hexutil.Bytes               `json:"code"`
	Storage map[storageWord]storageWord `json:"storage"`
}

// Transaction is the transaction template of a vector. Data, gas limit and
// value are lists of alternatives; a post-state entry selects one of each
// by index. The sender is not given directly but as secret key material.
type Transaction struct {
	GasPrice    *math.HexOrDecimal256   `json:"gasPrice"`
	Nonce       math.HexOrDecimal64     `json:"nonce"`
	To          string                  `json:"to"`
	Data        []hexutil.Bytes         `json:"data"`
	GasLimit    []math.HexOrDecimal64   `json:"gasLimit"`
	Value       []*math.HexOrDecimal256 `json:"value"`
	AccessLists []*types.AccessList     `json:"accessLists,omitempty"`
	SecretKey   hexutil.Bytes           `json:"secretKey"`
}

// PostState is one expected outcome: the selector indexes resolving the
// concrete transaction fields, and the committed state-root hash of the
// world state after executing it.
type PostState struct {
	Hash    fidelio.Hash `json:"hash"`
	Indexes Indexes      `json:"indexes"`
}

// Indexes selects one alternative from each of the transaction template's
// indexed field lists.
type Indexes struct {
	Data  int `json:"data"`
	Gas   int `json:"gas"`
	Value int `json:"value"`
}

// storageWord is a 256-bit word that accepts the abbreviated hex forms
// used in the storage sections of test vectors (e.g. "0x01").
type storageWord fidelio.Word

func (w storageWord) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("0x%x", w[:])), nil
}

func (w *storageWord) UnmarshalText(data []byte) error {
	s := strings.TrimPrefix(string(data), "0x")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid storage word %q: %w", string(data), err)
	}
	if len(decoded) > len(w) {
		return fmt.Errorf("storage word %q exceeds 32 bytes", string(data))
	}
	*w = storageWord{}
	copy(w[len(w)-len(decoded):], decoded)
	return nil
}

// LoadFile reads one JSON resource holding a mapping from test names to
// vectors.
func LoadFile(path string) (map[string]*Test, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test vector file: %w", err)
	}
	tests := map[string]*Test{}
	if err := json.Unmarshal(data, &tests); err != nil {
		return nil, fmt.Errorf("failed to parse test vector file %s: %w", path, err)
	}
	return tests, nil
}

// LoadDir collects the vectors of every *.json file in the given directory
// tree. Name collisions between files are resolved by qualifying the test
// name with the relative file path.
func LoadDir(dir string) (map[string]*Test, error) {
	tests := map[string]*Test{}
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		loaded, err := LoadFile(path)
		if err != nil {
			return err
		}
		for name, test := range loaded {
			if _, clash := tests[name]; clash {
				name = fmt.Sprintf("%s/%s", strings.TrimSuffix(info.Name(), ".json"), name)
			}
			tests[name] = test
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tests, nil
}
