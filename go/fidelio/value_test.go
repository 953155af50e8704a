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
	"math"
	"testing"

	"github.com/holiman/uint256"
)

func TestAddress_JSON_Encoding(t *testing.T) {
	tests := []struct {
		address Address
		json    string
	}{
		{Address{}, "\"0x0000000000000000000000000000000000000000\""},
		{Address{1}, "\"0x0100000000000000000000000000000000000000\""},
		{Address{0xAB}, "\"0xab00000000000000000000000000000000000000\""},
		{
			Address{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19},
			"\"0x000102030405060708090a0b0c0d0e0f10111213\"",
		},
	}

	for _, test := range tests {
		encoded, err := json.Marshal(test.address)
		if err != nil {
			t.Fatalf("failed to encode into JSON: %v", err)
		}

		if want, got := test.json, string(encoded); want != got {
			t.Errorf("unexpected JSON encoding, wanted %v, got %v", want, got)
		}

		var restored Address
		if err := json.Unmarshal(encoded, &restored); err != nil {
			t.Fatalf("failed to restore address: %v", err)
		}
		if test.address != restored {
			t.Errorf("unexpected restored value, wanted %v, got %v", test.address, restored)
		}
	}
}

func TestAddress_JSON_InvalidValueDecodingFails(t *testing.T) {
	tests := map[string]string{
		"empty":             "\"\"",
		"no hex prefix":     "\"0000000000000000000000000000000000000000\"",
		"too short":         "\"0x00000000000000000000000000000000000000\"",
		"too long":          "\"0x000000000000000000000000000000000000000000\"",
		"invalid hex":       "\"0x0g00000000000000000000000000000000000000\"",
		"not a JSON string": "0x000102030405060708090a0b0c0d0e0f10111213",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			var address Address
			if err := json.Unmarshal([]byte(data), &address); err == nil {
				t.Errorf("expected decoding of %v to fail, but it did not", data)
			}
		})
	}
}

func TestValue_NewValue(t *testing.T) {
	tests := []struct {
		args []uint64
		want Value
	}{
		{nil, Value{}},
		{[]uint64{1}, Value{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}},
		{[]uint64{1, 2}, Value{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 2}},
	}

	for _, test := range tests {
		if got := NewValue(test.args...); got != test.want {
			t.Errorf("unexpected value, wanted %v, got %v", test.want, got)
		}
	}
}

func TestValue_Comparison(t *testing.T) {
	values := []Value{
		NewValue(0),
		NewValue(1),
		NewValue(2),
		NewValue(math.MaxUint64),
		NewValue(1, 0),
		NewValue(1, 1),
	}

	for i, a := range values {
		for j, b := range values {
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got := a.Cmp(b); got != want {
				t.Errorf("unexpected comparison of %v and %v, wanted %d, got %d", a, b, want, got)
			}
		}
	}
}

func TestValue_Arithmetic(t *testing.T) {
	tests := []struct {
		a, b, sum Value
	}{
		{NewValue(0), NewValue(0), NewValue(0)},
		{NewValue(1), NewValue(2), NewValue(3)},
		{NewValue(math.MaxUint64), NewValue(1), NewValue(1, 0)},
		{NewValue(math.MaxUint64, math.MaxUint64), NewValue(1), NewValue(1, 0, 0)},
	}

	for _, test := range tests {
		if got := Add(test.a, test.b); got != test.sum {
			t.Errorf("unexpected sum of %v and %v, wanted %v, got %v", test.a, test.b, test.sum, got)
		}
		if got := Sub(test.sum, test.b); got != test.a {
			t.Errorf("unexpected difference of %v and %v, wanted %v, got %v", test.sum, test.b, test.a, got)
		}
	}
}

func TestValue_Scale(t *testing.T) {
	tests := []struct {
		value  Value
		factor uint64
		want   Value
	}{
		{NewValue(0), 12, NewValue(0)},
		{NewValue(1), 21_000, NewValue(21_000)},
		{NewValue(10), 21_000, NewValue(210_000)},
		{NewValue(math.MaxUint64), 2, NewValue(1, math.MaxUint64-1)},
	}

	for _, test := range tests {
		if got := test.value.Scale(test.factor); got != test.want {
			t.Errorf("unexpected scaled value of %v * %d, wanted %v, got %v",
				test.value, test.factor, test.want, got)
		}
	}
}

func TestValue_Uint256Conversion(t *testing.T) {
	tests := []*uint256.Int{
		uint256.NewInt(0),
		uint256.NewInt(1),
		uint256.NewInt(math.MaxUint64),
		new(uint256.Int).Lsh(uint256.NewInt(1), 128),
	}

	for _, test := range tests {
		if got := ValueFromUint256(test).ToUint256(); got.Cmp(test) != 0 {
			t.Errorf("conversion changed value, wanted %v, got %v", test, got)
		}
	}
}
