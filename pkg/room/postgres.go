package room

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/coder/quartz"
)

// PostgresStore persists rooms in a rooms table with the full room state as
// a JSON record
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a Store backed by the database
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the room
func (s *PostgresStore) Create(ctx context.Context, r *Room) error {
	state, err := json.Marshal(r)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO rooms (id, chat_id, status, state, created, updated)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err = s.db.ExecContext(ctx, query, r.ID, r.ChatID, string(r.Status), state, r.CreatedAt, r.UpdatedAt)
	return err
}

// Save overwrites the room record
func (s *PostgresStore) Save(ctx context.Context, r *Room) error {
	state, err := json.Marshal(r)
	if err != nil {
		return err
	}

	const query = `
UPDATE rooms
SET status = $2, state = $3, updated = $4
WHERE id = $1
`
	result, err := s.db.ExecContext(ctx, query, r.ID, string(r.Status), state, r.UpdatedAt)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRoomNotFound
	}

	return nil
}

// Get loads a room by id
func (s *PostgresStore) Get(ctx context.Context, id string) (*Room, error) {
	const query = `
SELECT state
FROM rooms
WHERE id = $1
`
	return scanRoom(s.db.QueryRowContext(ctx, query, id))
}

// FindRunning loads the chat's most recent room that has not ended
func (s *PostgresStore) FindRunning(ctx context.Context, chatID string) (*Room, error) {
	const query = `
SELECT state
FROM rooms
WHERE chat_id = $1 AND status != $2
ORDER BY created DESC
LIMIT 1
`
	return scanRoom(s.db.QueryRowContext(ctx, query, chatID, string(StatusEnded)))
}

func scanRoom(row *sql.Row) (*Room, error) {
	var state []byte
	if err := row.Scan(&state); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRoomNotFound
		}

		return nil, err
	}

	return decodeRoom(state)
}

// lockTTL is how long a lock record is honored before a stuck holder can be
// taken over
const lockTTL = 30 * time.Second

// PostgresLocker serializes room mutations through a lock record per chat
type PostgresLocker struct {
	db    *sql.DB
	clock quartz.Clock
}

// NewPostgresLocker returns a Locker backed by the database
func NewPostgresLocker(db *sql.DB) *PostgresLocker {
	return &PostgresLocker{
		db:    db,
		clock: quartz.NewReal(),
	}
}

// Acquire takes the chat's lock record. A held lock past its expiry is taken
// over rather than honored forever.
func (l *PostgresLocker) Acquire(ctx context.Context, chatID string) error {
	now := l.clock.Now()

	const query = `
INSERT INTO room_locks (chat_id, locked_until)
VALUES ($1, $2)
ON CONFLICT (chat_id) DO UPDATE
SET locked_until = EXCLUDED.locked_until
WHERE room_locks.locked_until < $3
`
	result, err := l.db.ExecContext(ctx, query, chatID, now.Add(lockTTL), now)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrLocked
	}

	return nil
}

// Release frees the chat's lock record
func (l *PostgresLocker) Release(ctx context.Context, chatID string) error {
	const query = `
DELETE FROM room_locks
WHERE chat_id = $1
`
	_, err := l.db.ExecContext(ctx, query, chatID)
	return err
}
