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
	"sync"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
)

// The per-fork configuration resources, resolved relative to the process
// working directory by convention.
const (
	istanbulResource = "./res/istanbul_builtins.json"
	berlinResource   = "./res/berlin_builtins.json"
)

// The registries are memoized pure functions of the fork: loaded at most
// once for the process lifetime, immutable afterwards, and therefore safe
// for concurrent readers without further locking.
var (
	istanbulRegistry = sync.OnceValue(func() Registry { return MustLoad(istanbulResource) })
	berlinRegistry   = sync.OnceValue(func() Registry { return MustLoad(berlinResource) })
)

// ForFork resolves the builtin registry of the given fork. The second
// result is false for forks without a builtin configuration; callers are
// expected to skip such forks rather than fail.
func ForFork(fork fidelio.Fork) (Registry, bool) {
	switch fork {
	case fidelio.Istanbul:
		return istanbulRegistry(), true
	case fidelio.Berlin:
		return berlinRegistry(), true
	default:
		return nil, false
	}
}
