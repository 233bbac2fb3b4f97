package domain

import "time"

// UserID is the opaque identity of a user. The upstream user collection
// allocates ids from an unsigned 64-bit space.
type UserID uint64

// ChatMessage is one direct message between two users. Immutable once
// persisted; conversation order is SentAt ascending, insertion order on ties.
type ChatMessage struct {
	ID     int64     `db:"id"`
	FromID UserID    `db:"from_id"`
	ToID   UserID    `db:"to_id"`
	Body   string    `db:"message"`
	SentAt time.Time `db:"timestamp"`
}
