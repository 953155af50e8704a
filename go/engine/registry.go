// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package engine

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// This file provides a registry for Executor implementations.
//
// Implementations register a factory under a name as part of their package
// init code. By importing the implementation package, the implementation
// becomes available through this central registry.

// Factory is the type of a function creating a new Executor bound to the
// given configuration.
type Factory func(config Config) (Executor, error)

// New performs a lookup for the given name (case-insensitive) in the
// registry and creates a new Executor using the given configuration. An
// error is returned if no factory was registered under the given name.
func New(name string, config Config) (Executor, error) {
	factory := GetFactory(name)
	if factory == nil {
		return nil, fmt.Errorf("engine not found: %s", name)
	}
	return factory(config)
}

// GetFactory performs a lookup for the given name (case-insensitive) in
// the registry. The result is nil if no factory was registered under the
// given name.
func GetFactory(name string) Factory {
	registryLock.Lock()
	defer registryLock.Unlock()
	return registry[strings.ToLower(name)]
}

// GetAllRegisteredFactories obtains all registered implementations.
func GetAllRegisteredFactories() map[string]Factory {
	registryLock.Lock()
	defer registryLock.Unlock()
	return maps.Clone(registry)
}

// RegisterFactory registers a new Executor implementation to be exported
// for general use in the binary. The name is not case-sensitive, and an
// error is returned if a factory was bound to the same name before, or the
// factory is nil. This function is mainly intended to be used by package
// initialization code.
func RegisterFactory(name string, factory Factory) error {
	key := strings.ToLower(name)
	if factory == nil {
		return fmt.Errorf("invalid initialization: cannot register nil-factory using `%s`", key)
	}
	registryLock.Lock()
	defer registryLock.Unlock()
	if _, found := registry[key]; found {
		return fmt.Errorf("invalid initialization: multiple factories registered for `%s`", key)
	}
	registry[key] = factory
	return nil
}

// registry is a global registry for Executor factories of different
// implementations and configurations.
var registry = map[string]Factory{}

// registryLock to protect access to the registry.
var registryLock sync.Mutex
