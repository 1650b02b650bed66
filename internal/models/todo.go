package models

import (
	"time"

	"github.com/google/uuid"
)

// TodoDB represents a todo record in the database. Every todo belongs to
// exactly one user; all queries filter on user_id.
type TodoDB struct {
	TodoID      uuid.UUID `json:"id" db:"todo_id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Todo mutation actions published to Kafka.
const (
	TodoActionCreated = "created"
	TodoActionUpdated = "updated"
	TodoActionToggled = "completion_toggled"
	TodoActionDeleted = "deleted"
)

// TodoEvent is the payload published to Kafka after a successful todo
// mutation.
type TodoEvent struct {
	EventID   string `json:"event_id"`
	Action    string `json:"action"`
	TodoID    string `json:"todo_id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Timestamp int64  `json:"timestamp"`
}
