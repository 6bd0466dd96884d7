// Package message holds the user-editable banner message shown on the clock page.
package message

import "sync"

// DefaultMessage is shown until someone edits it on the settings page.
const DefaultMessage = "Hello from the server!"

// Store is a concurrency-safe holder for a single text message.
type Store struct {
	mu  sync.RWMutex
	msg string
}

// NewStore creates a [Store] holding initial.
func NewStore(initial string) *Store {
	return &Store{msg: initial}
}

// Get returns the current message.
func (s *Store) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.msg
}

// Set replaces the current message. An empty message is allowed.
func (s *Store) Set(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}
