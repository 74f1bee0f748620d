// Package settings implements the process-wide store of bounded integer
// tunables. Values are validated at set time against declared bounds;
// out-of-range values are rejected, never clamped.
package settings

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pgcall/pgcall/pkg/pgcall"
)

// Spec declares a bounded integer setting.
type Spec struct {
	// Name is the unique setting name.
	Name string

	// Default is the initial value. Must satisfy Min <= Default <= Max.
	Default int

	// Min is the lowest accepted value (inclusive).
	Min int

	// Max is the highest accepted value (inclusive).
	Max int
}

// Setting is a snapshot of one defined setting and its current value.
type Setting struct {
	Spec
	Value int
}

// Store holds process-wide bounded integer settings.
//
// Thread-Safety: safe for concurrent use. Updates are whole-value
// replacements under a write lock; readers observe either the old or the
// new value, never a torn one. The invariant Min <= value <= Max holds at
// all times for every defined setting.
type Store struct {
	mu     sync.RWMutex
	specs  map[string]Spec
	values map[string]int
}

// NewStore creates an empty settings store.
func NewStore() *Store {
	return &Store{
		specs:  make(map[string]Spec),
		values: make(map[string]int),
	}
}

// NewDefaultStore creates a store with the built-in settings defined.
func NewDefaultStore() *Store {
	s := NewStore()

	builtins := []Spec{
		{Name: pgcall.SettingRepeat, Default: pgcall.DefaultRepeat, Min: pgcall.MinRepeat, Max: pgcall.MaxRepeat},
	}
	for _, spec := range builtins {
		if err := s.Define(spec); err != nil {
			// Built-in specs are static; a failure here is a programmer error.
			panic(fmt.Sprintf("settings: defining built-in %q: %v", spec.Name, err))
		}
	}

	return s
}

// Define registers a setting with its bounds and sets it to the default.
// Definition happens at startup, before any call runs.
func (s *Store) Define(spec Spec) error {
	if spec.Name == "" {
		return fmt.Errorf("setting name is required: %w", pgcall.ErrInvalidConfig)
	}
	if spec.Min > spec.Max {
		return fmt.Errorf("setting %q has inverted bounds [%d, %d]: %w",
			spec.Name, spec.Min, spec.Max, pgcall.ErrInvalidConfig)
	}
	if spec.Default < spec.Min || spec.Default > spec.Max {
		return fmt.Errorf("setting %q default %d outside bounds [%d, %d]: %w",
			spec.Name, spec.Default, spec.Min, spec.Max, pgcall.ErrOutOfRange)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.specs[spec.Name]; exists {
		return fmt.Errorf("setting %q already defined: %w", spec.Name, pgcall.ErrInvalidConfig)
	}

	s.specs[spec.Name] = spec
	s.values[spec.Name] = spec.Default
	return nil
}

// Get returns the current value of a defined setting.
func (s *Store) Get(name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[name]
	if !ok {
		return 0, fmt.Errorf("setting %q: %w", name, pgcall.ErrUnknownSetting)
	}
	return value, nil
}

// Set replaces the value of a defined setting. A value outside the declared
// bounds is rejected with ErrOutOfRange and the stored value is unchanged.
func (s *Store) Set(name string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	spec, ok := s.specs[name]
	if !ok {
		return fmt.Errorf("setting %q: %w", name, pgcall.ErrUnknownSetting)
	}
	if value < spec.Min || value > spec.Max {
		return fmt.Errorf("setting %q value %d outside bounds [%d, %d]: %w",
			name, value, spec.Min, spec.Max, pgcall.ErrOutOfRange)
	}

	s.values[name] = value
	return nil
}

// Lookup returns a snapshot of one setting.
func (s *Store) Lookup(name string) (Setting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spec, ok := s.specs[name]
	if !ok {
		return Setting{}, false
	}
	return Setting{Spec: spec, Value: s.values[name]}, true
}

// List returns snapshots of all defined settings, sorted by name.
func (s *Store) List() []Setting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.specs))
	for name := range s.specs {
		names = append(names, name)
	}
	sort.Strings(names)

	settings := make([]Setting, 0, len(names))
	for _, name := range names {
		settings = append(settings, Setting{Spec: s.specs[name], Value: s.values[name]})
	}
	return settings
}

// Apply sets multiple values, failing on the first rejected one.
// Used for per-invocation overrides; nothing before the failing entry is
// rolled back, matching single-value Set semantics.
func (s *Store) Apply(overrides map[string]int) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := s.Set(name, overrides[name]); err != nil {
			return err
		}
	}
	return nil
}
