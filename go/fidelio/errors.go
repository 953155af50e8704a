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

import "errors"

// The closed set of engine-level call failures surfaced by precompile
// adapters and executors. Everything outside this list is wrapped and
// treated as an opaque execution failure.
var (
	// ErrOutOfGas is reported when the up-front cost of an operation
	// exceeds the gas made available for it.
	ErrOutOfGas = errors.New("out of gas")

	// ErrNoInterpreter is reported by executors that were asked to run
	// byte code without an interpreter being configured.
	ErrNoInterpreter = errors.New("no interpreter configured")
)
