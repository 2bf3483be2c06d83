// Package registry keeps the named physics engines available to the game.
// Engines register themselves in init() functions, so the CLI can pick one
// by name without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-skater/internal/physics"
)

// EngineInfo describes a registered engine.
type EngineInfo struct {
	Name        string
	Description string
}

// Factory builds a new, empty world.
type Factory func(s physics.Settings) physics.World

type entry struct {
	factory     Factory
	description string
}

var (
	engines = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds an engine factory to the registry.
// Panics if an engine with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := engines[name]; exists {
		panic(fmt.Sprintf("registry: engine %q already registered", name))
	}
	engines[name] = entry{factory: f, description: description}
}

// List returns all registered engines sorted by name.
func List() []EngineInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]EngineInfo, 0, len(engines))
	for name, e := range engines {
		result = append(result, EngineInfo{Name: name, Description: e.description})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Create builds a world with the named engine.
func Create(name string, s physics.Settings) (physics.World, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown physics engine %q", name)
	}
	return e.factory(s), nil
}

// Exists checks if an engine with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := engines[name]
	return ok
}
