package repositories

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sgnatenko/todo-chat-api/internal/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email VARCHAR(254) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS todos (
	todo_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	title VARCHAR(255) NOT NULL,
	description TEXT,
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_todos_user_created ON todos (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS conversations (
	conversation_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	title VARCHAR(255),
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS messages (
	message_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	conversation_id UUID NOT NULL REFERENCES conversations(conversation_id) ON DELETE CASCADE,
	role VARCHAR(16) NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tool_calls (
	tool_call_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	conversation_id UUID NOT NULL REFERENCES conversations(conversation_id) ON DELETE CASCADE,
	tool_name VARCHAR(64) NOT NULL,
	arguments JSONB NOT NULL DEFAULT '{}'::JSONB,
	result JSONB NOT NULL DEFAULT '{}'::JSONB,
	created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates all required tables if they do not exist yet.
// Called once at startup.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		logger.Log.Errorw("failed to ensure schema", "error", err)
		return err
	}
	logger.Log.Info("database schema ensured")
	return nil
}

// compactQuery collapses a multi-line SQL statement into a single line for
// logging.
func compactQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
