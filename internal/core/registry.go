package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]TableDefinition)
	registryMu sync.RWMutex
)

// Register adds a table definition to the registry.
// Panics if the key is taken or if two columns would match the same header
// after case folding and NFC normalization.
func Register(def TableDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Info.Key))
	}

	seen := make(map[string]string, len(def.FieldSpecs))
	for _, spec := range def.FieldSpecs {
		key := HeaderKey(spec.Name)
		if prev, dup := seen[key]; dup {
			panic(fmt.Sprintf("table %s: columns %q and %q share header key %q", def.Info.Key, prev, spec.Name, key))
		}
		seen[key] = spec.Name
	}

	if len(def.Info.Columns) == 0 && len(def.FieldSpecs) > 0 {
		def.Info.Columns = make([]string, len(def.FieldSpecs))
		for i, spec := range def.FieldSpecs {
			def.Info.Columns[i] = spec.Name
		}
	}

	registry[def.Info.Key] = def
}

// Get returns a table definition by key.
func Get(key string) (TableDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// Lookup is like Get but reports a missing definition as an error.
func Lookup(key string) (TableDefinition, error) {
	def, ok := Get(key)
	if !ok {
		return TableDefinition{}, fmt.Errorf("unknown table: %s", key)
	}
	return def, nil
}

// All returns all registered table definitions sorted by key.
func All() []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered tables.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]TableDefinition)
}
