// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package builtin

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// pricer is the cost model of one builtin, evaluated on the raw call input.
// Costs are arbitrary-precision; callers cap them against the representable
// gas range.
type pricer interface {
	cost(input []byte) *big.Int
}

// pricingDesc is the JSON surface of a cost model. Exactly one of the
// fields must be set.
type pricingDesc struct {
	Linear          *linearPricing  `json:"linear,omitempty"`
	ModExp          *modExpPricing  `json:"modexp,omitempty"`
	ModExp2565      *modExpPricing  `json:"modexp2565,omitempty"`
	AltBn128Const   *constPricing   `json:"alt_bn128_const,omitempty"`
	AltBn128Pairing *pairingPricing `json:"alt_bn128_pairing,omitempty"`
	Blake2F         *blake2FPricing `json:"blake2_f,omitempty"`
}

func (d pricingDesc) pricer() (pricer, error) {
	res := []pricer{}
	if d.Linear != nil {
		res = append(res, d.Linear)
	}
	if d.ModExp != nil {
		d.ModExp.eip2565 = false
		res = append(res, d.ModExp)
	}
	if d.ModExp2565 != nil {
		d.ModExp2565.eip2565 = true
		res = append(res, d.ModExp2565)
	}
	if d.AltBn128Const != nil {
		res = append(res, d.AltBn128Const)
	}
	if d.AltBn128Pairing != nil {
		res = append(res, d.AltBn128Pairing)
	}
	if d.Blake2F != nil {
		res = append(res, d.Blake2F)
	}
	if len(res) != 1 {
		return nil, fmt.Errorf("descriptor must define exactly one pricing model, got %d", len(res))
	}
	return res[0], nil
}

// linearPricing charges a base fee plus a per-32-byte-word fee on the
// input length.
type linearPricing struct {
	Base uint64 `json:"base"`
	Word uint64 `json:"word"`
}

func (p *linearPricing) cost(input []byte) *big.Int {
	words := (uint64(len(input)) + 31) / 32
	cost := new(big.Int).SetUint64(words)
	cost.Mul(cost, new(big.Int).SetUint64(p.Word))
	return cost.Add(cost, new(big.Int).SetUint64(p.Base))
}

// constPricing charges a flat fee independent of the input.
type constPricing struct {
	Price uint64 `json:"price"`
}

func (p *constPricing) cost([]byte) *big.Int {
	return new(big.Int).SetUint64(p.Price)
}

// pairingPricing charges a base fee plus a fee per 192-byte point pair.
type pairingPricing struct {
	Base uint64 `json:"base"`
	Pair uint64 `json:"pair"`
}

func (p *pairingPricing) cost(input []byte) *big.Int {
	pairs := uint64(len(input)) / 192
	cost := new(big.Int).SetUint64(pairs)
	cost.Mul(cost, new(big.Int).SetUint64(p.Pair))
	return cost.Add(cost, new(big.Int).SetUint64(p.Base))
}

// blake2FPricing charges per compression round; the round count is the
// big-endian 32-bit prefix of the input.
type blake2FPricing struct {
	GasPerRound uint64 `json:"gas_per_round"`
}

func (p *blake2FPricing) cost(input []byte) *big.Int {
	if len(input) < 4 {
		return new(big.Int)
	}
	rounds := uint64(binary.BigEndian.Uint32(input[:4]))
	return new(big.Int).SetUint64(rounds * p.GasPerRound)
}

// modExpPricing implements the modular-exponentiation cost formulas of
// EIP-198 and, with the eip2565 flag set, their EIP-2565 revision. The
// operand lengths are attacker-controlled, so all arithmetic stays in
// big.Int and overlong results are simply reported as-is; callers treat
// anything beyond the gas range as out-of-gas.
type modExpPricing struct {
	Divisor uint64 `json:"divisor"`
	eip2565 bool
}

func (p *modExpPricing) cost(input []byte) *big.Int {
	baseLen := new(big.Int).SetBytes(rightPadded(input, 0, 32))
	expLen := new(big.Int).SetBytes(rightPadded(input, 32, 32))
	modLen := new(big.Int).SetBytes(rightPadded(input, 64, 32))
	if len(input) > 96 {
		input = input[96:]
	} else {
		input = input[:0]
	}

	// The adjusted exponent length weighs the highest set bit of the
	// (leading 32 bytes of the) exponent.
	var expHead *big.Int
	if big.NewInt(int64(len(input))).Cmp(baseLen) <= 0 {
		expHead = new(big.Int)
	} else {
		offset := baseLen.Uint64()
		if expLen.Cmp(big.NewInt(32)) > 0 {
			expHead = new(big.Int).SetBytes(rightPadded(input, offset, 32))
		} else {
			expHead = new(big.Int).SetBytes(rightPadded(input, offset, expLen.Uint64()))
		}
	}
	msb := 0
	if bitlen := expHead.BitLen(); bitlen > 0 {
		msb = bitlen - 1
	}
	adjExpLen := new(big.Int)
	if expLen.Cmp(big.NewInt(32)) > 0 {
		adjExpLen.Sub(expLen, big.NewInt(32))
		adjExpLen.Mul(big.NewInt(8), adjExpLen)
	}
	adjExpLen.Add(adjExpLen, big.NewInt(int64(msb)))
	if adjExpLen.Sign() == 0 {
		adjExpLen.SetInt64(1)
	}

	gas := new(big.Int)
	if modLen.Cmp(baseLen) < 0 {
		gas.Set(baseLen)
	} else {
		gas.Set(modLen)
	}

	if p.eip2565 {
		// ceil(x/8)^2 * adjExpLen / divisor, floored at 200
		gas.Add(gas, big.NewInt(7))
		gas.Rsh(gas, 3)
		gas.Mul(gas, gas)
		gas.Mul(gas, adjExpLen)
		gas.Div(gas, new(big.Int).SetUint64(p.Divisor))
		if gas.Cmp(big.NewInt(200)) < 0 {
			gas.SetInt64(200)
		}
		return gas
	}

	gas = multComplexity(gas)
	gas.Mul(gas, adjExpLen)
	return gas.Div(gas, new(big.Int).SetUint64(p.Divisor))
}

// multComplexity implements the piecewise multiplication-complexity
// approximation defined by EIP-198:
//
//	x <= 64:   x ** 2
//	x <= 1024: x ** 2 // 4 + 96 * x - 3072
//	else:      x ** 2 // 16 + 480 * x - 199680
func multComplexity(x *big.Int) *big.Int {
	switch {
	case x.Cmp(big.NewInt(64)) <= 0:
		return x.Mul(x, x)
	case x.Cmp(big.NewInt(1024)) <= 0:
		return new(big.Int).Add(
			new(big.Int).Div(new(big.Int).Mul(x, x), big.NewInt(4)),
			new(big.Int).Sub(new(big.Int).Mul(big.NewInt(96), x), big.NewInt(3072)),
		)
	default:
		return new(big.Int).Add(
			new(big.Int).Div(new(big.Int).Mul(x, x), big.NewInt(16)),
			new(big.Int).Sub(new(big.Int).Mul(big.NewInt(480), x), big.NewInt(199680)),
		)
	}
}

// rightPadded extracts size bytes at the given offset, zero-padding past
// the end of the input.
func rightPadded(input []byte, offset, size uint64) []byte {
	res := make([]byte, size)
	if offset < uint64(len(input)) {
		copy(res, input[offset:])
	}
	return res
}
