package evo

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrSelectorExists   = errors.New("selector already registered")
	ErrSelectorNotFound = errors.New("selector not found")
)

// SelectorParams carries the tunables a selector factory may read.
type SelectorParams struct {
	TournamentSize int
}

type SelectorFactory func(params SelectorParams) Selector

var selectorRegistry = struct {
	mu sync.RWMutex
	m  map[string]SelectorFactory
}{
	m: make(map[string]SelectorFactory),
}

func init() {
	mustRegisterBuiltinSelectors()
}

func mustRegisterBuiltinSelectors() {
	if err := RegisterSelector(RouletteSelector{}.Name(), func(SelectorParams) Selector {
		return RouletteSelector{}
	}); err != nil {
		panic(err)
	}
	if err := RegisterSelector(TournamentSelector{}.Name(), func(p SelectorParams) Selector {
		return TournamentSelector{Size: p.TournamentSize}
	}); err != nil {
		panic(err)
	}
}

// RegisterSelector makes a selection strategy resolvable by name.
func RegisterSelector(name string, factory SelectorFactory) error {
	if name == "" {
		return errors.New("selector name is required")
	}
	if factory == nil {
		return errors.New("selector factory is required")
	}

	selectorRegistry.mu.Lock()
	defer selectorRegistry.mu.Unlock()

	if _, exists := selectorRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrSelectorExists, name)
	}
	selectorRegistry.m[name] = factory
	return nil
}

// ResolveSelector builds the named selector. An empty name means roulette.
func ResolveSelector(name string, params SelectorParams) (Selector, error) {
	if name == "" {
		name = RouletteSelector{}.Name()
	}
	selectorRegistry.mu.RLock()
	factory, ok := selectorRegistry.m[name]
	selectorRegistry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSelectorNotFound, name)
	}
	return factory(params), nil
}

func ListSelectors() []string {
	selectorRegistry.mu.RLock()
	defer selectorRegistry.mu.RUnlock()

	names := make([]string, 0, len(selectorRegistry.m))
	for name := range selectorRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resetSelectorRegistryForTests() {
	selectorRegistry.mu.Lock()
	selectorRegistry.m = make(map[string]SelectorFactory)
	selectorRegistry.mu.Unlock()
	mustRegisterBuiltinSelectors()
}
