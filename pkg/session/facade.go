package session

import (
	"encoding/json"
	"errors"
	"math"
	"slices"
)

// Has reports whether key is set. A nil value counts as unset.
func (s *Session) Has(key string) bool {
	if key == FingerprintKey {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key] != nil
}

// Get returns the value stored under key, or def when it is absent.
func (s *Session) Get(key string, def any) any {
	if key == FingerprintKey {
		return def
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if v := s.data[key]; v != nil {
		return v
	}
	return def
}

// Set stores value under key. It returns ErrSessionNotActive unless the
// session is Active and ErrReservedKey for FingerprintKey.
// Values must be JSON serializable; others are rejected with ErrEncode.
func (s *Session) Set(key string, value any) error {
	if key == FingerprintKey {
		return ErrReservedKey
	}
	if _, err := json.Marshal(value); err != nil {
		return errors.Join(ErrEncode, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.lifecycle.Is(StateActive) {
		return ErrSessionNotActive
	}
	s.data[key] = value
	return nil
}

// Delete removes key. Missing keys and inactive sessions are ignored.
func (s *Session) Delete(key string) {
	if key == FingerprintKey {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.lifecycle.Is(StateActive) {
		return
	}
	delete(s.data, key)
}

// Flash returns the value under key and removes it in one step.
// It returns def when the key is absent or nil.
func (s *Session) Flash(key string, def any) any {
	if key == FingerprintKey {
		return def
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if ok && s.lifecycle.Is(StateActive) {
		delete(s.data, key)
	}
	if v == nil {
		return def
	}
	return v
}

// Keys returns the keys Has reports as set, in sorted order.
func (s *Session) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k, v := range s.data {
		if k != FingerprintKey && v != nil {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// GetString returns the string stored under key, or def.
func (s *Session) GetString(key, def string) string {
	if v, ok := s.Get(key, nil).(string); ok {
		return v
	}
	return def
}

// GetBool returns the bool stored under key, or def.
func (s *Session) GetBool(key string, def bool) bool {
	if v, ok := s.Get(key, nil).(bool); ok {
		return v
	}
	return def
}

// GetInt returns the integer stored under key, or def. Numbers decoded from
// the store as float64 are accepted when they hold a whole value.
func (s *Session) GetInt(key string, def int) int {
	switch v := s.Get(key, nil).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		if v == math.Trunc(v) {
			return int(v)
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return def
}
