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
	"fmt"
)

// Fork is an enumeration of EVM specification revisions (aka. hard forks)
// as they appear in state-transition test vectors. The harness recognizes
// the full list but only executes a narrow, extensible subset of them;
// consult the runner's fork configuration for the supported set.
type Fork int

const (
	Istanbul Fork = iota
	Berlin
	London
	Paris
	Shanghai
	Cancun
	numForks int = iota
)

var forkNames = map[Fork]string{
	Istanbul: "Istanbul",
	Berlin:   "Berlin",
	London:   "London",
	Paris:    "Paris",
	Shanghai: "Shanghai",
	Cancun:   "Cancun",
}

func (f Fork) String() string {
	if name, found := forkNames[f]; found {
		return name
	}
	return fmt.Sprintf("Fork(%d)", f)
}

// AllForks lists every fork known to the harness, in chronological order.
func AllForks() []Fork {
	res := make([]Fork, 0, numForks)
	for i := 0; i < numForks; i++ {
		res = append(res, Fork(i))
	}
	return res
}

// ParseFork maps a fork name, as used in the post-state section of test
// vectors, to its enumeration value. The second result is false for names
// not known to the harness.
func ParseFork(name string) (Fork, bool) {
	for fork, forkName := range forkNames {
		if name == forkName {
			return fork, true
		}
	}
	return 0, false
}

func (f Fork) MarshalJSON() ([]byte, error) {
	if _, found := forkNames[f]; !found {
		return nil, fmt.Errorf("cannot marshal unknown fork %d", int(f))
	}
	return json.Marshal(f.String())
}

func (f *Fork) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	fork, found := ParseFork(name)
	if !found {
		return fmt.Errorf("unknown fork: %s", name)
	}
	*f = fork
	return nil
}
