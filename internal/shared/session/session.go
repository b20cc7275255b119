package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotFound  = errors.New("session not found")
	ErrNoSession = errors.New("no session on request")
)

// Session is the server side state behind one session cookie. Values are
// kept as raw JSON so each journey decodes into its own type.
type Session struct {
	ID       string
	values   map[string]json.RawMessage
	modified bool
	isNew    bool
}

// New creates an empty session that has never been persisted
func New(id string) *Session {
	return &Session{
		ID:     id,
		values: make(map[string]json.RawMessage),
		isNew:  true,
	}
}

// Get decodes the value stored under key into dest. The boolean is false
// when nothing is stored under the key.
func (s *Session) Get(key string, dest interface{}) (bool, error) {
	raw, ok := s.values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode session value %q: %w", key, err)
	}
	return true, nil
}

// Set stores value under key
func (s *Session) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session value %q: %w", key, err)
	}
	s.values[key] = raw
	s.modified = true
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.modified = true
	}
}

// Has reports whether a value is stored under key
func (s *Session) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the stored keys in sorted order
func (s *Session) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Modified reports whether the session changed since it was loaded
func (s *Session) Modified() bool {
	return s.modified
}

// IsNew reports whether the session was created on this request
func (s *Session) IsNew() bool {
	return s.isNew
}

func (s *Session) encode() ([]byte, error) {
	return json.Marshal(s.values)
}

func decode(id string, data []byte) (*Session, error) {
	values := make(map[string]json.RawMessage)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", id, err)
		}
	}
	return &Session{ID: id, values: values}, nil
}

func (s *Session) markSaved() {
	s.modified = false
	s.isNew = false
}
