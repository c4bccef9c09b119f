package room

import (
	"context"
	"errors"
)

// Store errors
var (
	ErrRoomNotFound = errors.New("room not found")
	ErrLocked       = errors.New("the room is busy handling another action")
)

// Store persists rooms as opaque structured records. A Save followed by a
// load must reproduce an identical room, nested hands included.
type Store interface {
	Create(ctx context.Context, r *Room) error
	Save(ctx context.Context, r *Room) error
	Get(ctx context.Context, id string) (*Room, error)
	// FindRunning returns the chat's room that has not ended, or
	// ErrRoomNotFound
	FindRunning(ctx context.Context, chatID string) (*Room, error)
}

// Locker serializes mutations per chat. Acquire returns ErrLocked while
// another action holds the key; Release must be called after the room is
// persisted or the mutation failed.
type Locker interface {
	Acquire(ctx context.Context, chatID string) error
	Release(ctx context.Context, chatID string) error
}
