package room

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps rooms as serialized records in memory. It exists for
// tests and mirrors the persistence contract: every load decodes a fresh
// copy from the stored bytes.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]byte
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]byte),
	}
}

// Create stores a new room record
func (s *MemoryStore) Create(_ context.Context, r *Room) error {
	return s.put(r)
}

// Save overwrites the room record
func (s *MemoryStore) Save(_ context.Context, r *Room) error {
	return s.put(r)
}

func (s *MemoryStore) put(r *Room) error {
	record, err := json.Marshal(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = record

	return nil
}

// Get loads a room by id
func (s *MemoryStore) Get(_ context.Context, id string) (*Room, error) {
	s.mu.Lock()
	record, ok := s.records[id]
	s.mu.Unlock()

	if !ok {
		return nil, ErrRoomNotFound
	}

	return decodeRoom(record)
}

// FindRunning loads the chat's room that has not ended
func (s *MemoryStore) FindRunning(_ context.Context, chatID string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		r, err := decodeRoom(record)
		if err != nil {
			return nil, err
		}

		if r.ChatID == chatID && r.Status != StatusEnded {
			return r, nil
		}
	}

	return nil, ErrRoomNotFound
}

func decodeRoom(record []byte) (*Room, error) {
	var r Room
	if err := json.Unmarshal(record, &r); err != nil {
		return nil, err
	}

	return &r, nil
}

// MemoryLocker is an in-process Locker for tests
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewMemoryLocker returns an empty in-memory locker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		held: make(map[string]bool),
	}
}

// Acquire takes the chat's lock or returns ErrLocked
func (l *MemoryLocker) Acquire(_ context.Context, chatID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[chatID] {
		return ErrLocked
	}

	l.held[chatID] = true
	return nil
}

// Release frees the chat's lock
func (l *MemoryLocker) Release(_ context.Context, chatID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.held, chatID)
	return nil
}
