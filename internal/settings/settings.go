// Package settings is a small persisted key/value store for terminal
// preferences. Values set explicitly take precedence over autodetected
// values, which take precedence over built-in defaults.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	TerminalLocation = "terminal-location"

	autodetectSuffix = "-autodetect"
)

// Defaults are returned when a key has neither an explicit nor an
// autodetected value.
var Defaults = map[string]string{
	TerminalLocation: "library",
}

// Store holds settings in memory and writes them to a YAML file on every
// change. An empty path keeps them in memory only.
type Store struct {
	path      string
	values    map[string]string
	callbacks map[string]map[int]func(string)
	nextID    int
	mu        sync.RWMutex
}

// Open reads settings from path. A missing or unreadable file yields empty
// settings.
func Open(path string) *Store {
	s := &Store{
		path:      path,
		values:    make(map[string]string),
		callbacks: make(map[string]map[int]func(string)),
	}
	if path == "" {
		return s
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Failed to read settings, using defaults", "path", path, "err", err)
		}
		return s
	}
	if err := yaml.Unmarshal(data, &s.values); err != nil || s.values == nil {
		slog.Warn("Failed to parse settings, using defaults", "path", path, "err", err)
		s.values = make(map[string]string)
	}
	return s
}

// Get returns the explicit value, the autodetected value or the default,
// in that order.
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(key)
}

func (s *Store) get(key string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	if v, ok := s.values[key+autodetectSuffix]; ok {
		return v
	}
	return Defaults[key]
}

// All returns every stored value, including autodetected ones, keyed by
// their stored name.
func (s *Store) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Keys returns every key that has a value or a default, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	for k := range Defaults {
		seen[k] = true
	}
	for k := range s.values {
		seen[strings.TrimSuffix(k, autodetectSuffix)] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) Set(key, value string) error {
	return s.update(key, func(values map[string]string) {
		values[key] = value
	})
}

// SetAutodetect records a detected value. It only shows through Get when no
// explicit value is set.
func (s *Store) SetAutodetect(key, value string) error {
	return s.update(key, func(values map[string]string) {
		values[key+autodetectSuffix] = value
	})
}

// Reset removes both the explicit and the autodetected value.
func (s *Store) Reset(key string) error {
	return s.update(key, func(values map[string]string) {
		delete(values, key)
		delete(values, key+autodetectSuffix)
	})
}

// Bind registers fn to be called with the effective value of key after each
// change. The returned function removes the binding.
func (s *Store) Bind(key string, fn func(string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.callbacks[key] == nil {
		s.callbacks[key] = make(map[int]func(string))
	}
	id := s.nextID
	s.nextID++
	s.callbacks[key][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.callbacks[key], id)
	}
}

// update applies fn to a copy of the values. The copy replaces the stored
// values, and subscribers are notified, only once it has been written.
func (s *Store) update(key string, fn func(map[string]string)) error {
	s.mu.Lock()
	values := make(map[string]string, len(s.values)+1)
	for k, v := range s.values {
		values[k] = v
	}
	fn(values)
	if err := s.save(values); err != nil {
		s.mu.Unlock()
		return err
	}
	s.values = values

	value := s.get(key)
	ids := make([]int, 0, len(s.callbacks[key]))
	for id := range s.callbacks[key] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	callbacks := make([]func(string), len(ids))
	for i, id := range ids {
		callbacks[i] = s.callbacks[key][id]
	}
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb(value)
	}
	return nil
}

func (s *Store) save(values map[string]string) error {
	if s.path == "" {
		return nil
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
