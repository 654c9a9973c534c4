// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

const (
	// KeyZipCode holds the last saved zip code
	KeyZipCode = "zip_code"
	// KeyEnglishMode is true while imperial units are shown
	KeyEnglishMode = "english_mode"
)

// Store is a small persisted key-value store backed by a TOML file. Every write is flushed to disk.
type Store struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// Open loads the store from path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	store := &Store{path: path, values: make(map[string]any)}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	if err = toml.Unmarshal(data, &store.values); err != nil {
		return nil, fmt.Errorf("failed to parse preferences file %q: %w", path, err)
	}
	return store, nil
}

// GetString returns the string stored under key, or an empty string
func (s *Store) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, _ := s.values[key].(string)
	return val
}

func (s *Store) SetString(key, value string) error {
	return s.set(key, value)
}

// GetBool returns the bool stored under key. ok is false if the key is unset or not a bool.
func (s *Store) GetBool(key string) (value, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok = s.values[key].(bool)
	return value, ok
}

func (s *Store) SetBool(key string, value bool) error {
	return s.set(key, value)
}

func (s *Store) set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.values[key]
	s.values[key] = value
	if err := s.flush(); err != nil {
		if existed {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

// flush writes the values to a temporary file next to the target and renames it into place
func (s *Store) flush() error {
	buf := bytes.NewBuffer(nil)
	if err := toml.NewEncoder(buf).Encode(s.values); err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temporary preferences file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
