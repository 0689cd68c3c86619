package otp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agrochain-api/internal/domain"
)

// TTL is the fixed lifetime of a pending code. It is not configurable per
// issuance.
const TTL = 5 * time.Minute

// PendingCode is a one-time code awaiting verification for an identity key.
// Signup and login share the same slot per key: issuing for either purpose
// overwrites whatever was pending.
type PendingCode struct {
	Key       string `dynamodbav:"email"`
	Code      string `dynamodbav:"code"`
	ExpiresAt int64  `dynamodbav:"expires_at"` // Unix seconds, doubles as DynamoDB TTL
}

// Expired reports whether the code is past its lifetime at the given instant.
func (p *PendingCode) Expired(now time.Time) bool {
	return now.Unix() > p.ExpiresAt
}

// Store holds at most one live code per key. Mutations must be atomic with
// respect to each other per key; issuing twice is last-writer-wins. Expired
// entries are only removed when a verification attempt discovers them — there
// is no background sweeper.
type Store interface {
	// Issue generates a fresh code and stores it under key, overwriting any
	// pending code. The previous code for that key becomes invalid.
	Issue(ctx context.Context, key string) (*PendingCode, error)
	// Peek returns the pending code without mutating state. Absent entries
	// return an error wrapping domain.ErrNotFound.
	Peek(ctx context.Context, key string) (*PendingCode, error)
	// Consume atomically removes and returns the pending code.
	Consume(ctx context.Context, key string) (*PendingCode, error)
	// Delete removes the entry if present. Used on expiry detection.
	Delete(ctx context.Context, key string) error
}

// MemoryStore is the single-process Store backing: a mutex-guarded map.
// Growth is bounded by the number of distinct keys ever issued a code, since
// each key holds at most one entry.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*PendingCode

	// injectable for tests
	generate func() (string, error)
	now      func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:  make(map[string]*PendingCode),
		generate: Generate,
		now:      time.Now,
	}
}

func (s *MemoryStore) Issue(_ context.Context, key string) (*PendingCode, error) {
	code, err := s.generate()
	if err != nil {
		return nil, err
	}
	pc := &PendingCode{
		Key:       key,
		Code:      code,
		ExpiresAt: s.now().Add(TTL).Unix(),
	}
	s.mu.Lock()
	s.entries[key] = pc
	s.mu.Unlock()
	return pc, nil
}

func (s *MemoryStore) Peek(_ context.Context, key string) (*PendingCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pc, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("no pending code for %s: %w", key, domain.ErrNotFound)
	}
	cp := *pc
	return &cp, nil
}

func (s *MemoryStore) Consume(_ context.Context, key string) (*PendingCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pc, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("no pending code for %s: %w", key, domain.ErrNotFound)
	}
	delete(s.entries, key)
	return pc, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}
