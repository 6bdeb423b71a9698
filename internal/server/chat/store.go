// Package chat implements the stub server's exchange store and the /chat
// endpoints of the Onimo contract.
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	chatmodel "github.com/alamin17ui/onimo-chat-auth-core/internal/model/chat"
)

// Store keeps each user's exchanges in memory, oldest first internally.
type Store struct {
	mu     sync.RWMutex
	byUser map[string][]chatmodel.Exchange
}

// NewStore creates an empty exchange store.
func NewStore() *Store {
	return &Store{byUser: make(map[string][]chatmodel.Exchange)}
}

// Append records a completed exchange for the user.
func (s *Store) Append(userID, message, answer string) chatmodel.Exchange {
	exchange := chatmodel.Exchange{
		ID:        uuid.NewString(),
		Message:   message,
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.byUser[userID] = append(s.byUser[userID], exchange)
	s.mu.Unlock()

	return exchange
}

// List returns the user's exchanges newest first, the order the real
// service serves them in.
func (s *Store) List(userID string) []chatmodel.Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.byUser[userID]
	out := make([]chatmodel.Exchange, len(stored))
	for i, ex := range stored {
		out[len(stored)-1-i] = ex
	}
	return out
}
