package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/models"
)

// MessageReadRepository reads conversation turns, oldest first, so the chat
// service can rebuild the model context on every request.
type MessageReadRepository struct {
	db *sqlx.DB
}

func NewMessageReadRepository(db *sqlx.DB) *MessageReadRepository {
	return &MessageReadRepository{db: db}
}

func (r *MessageReadRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.MessageDB, error) {
	const query = `
		SELECT message_id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`

	messages := make([]models.MessageDB, 0)
	err := r.db.SelectContext(ctx, &messages, query, conversationID)

	logger.Log.Debugw("query executed",
		"query", compactQuery(query),
		"args", []any{conversationID},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return messages, nil
}

// MessageWriteRepository appends messages and tool call audit records.
// Records are never updated or deleted.
type MessageWriteRepository struct {
	db *sqlx.DB
}

func NewMessageWriteRepository(db *sqlx.DB) *MessageWriteRepository {
	return &MessageWriteRepository{db: db}
}

// SaveMessage appends one turn to the conversation.
func (r *MessageWriteRepository) SaveMessage(ctx context.Context, conversationID uuid.UUID, role, content string) (*models.MessageDB, error) {
	const query = `
		INSERT INTO messages (conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING message_id, conversation_id, role, content, created_at
	`

	var msg models.MessageDB
	err := r.db.GetContext(ctx, &msg, query, conversationID, role, content)

	logger.Log.Debugw("query executed",
		"query", compactQuery(query),
		"args", []any{conversationID, role},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &msg, nil
}

// SaveToolCall appends an audit record of one tool execution.
func (r *MessageWriteRepository) SaveToolCall(ctx context.Context, conversationID uuid.UUID, toolName string, arguments, result map[string]any) error {
	const query = `
		INSERT INTO tool_calls (conversation_id, tool_name, arguments, result, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

	argsJSON, err := json.Marshal(arguments)
	if err != nil {
		return err
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, conversationID, toolName, argsJSON, resultJSON)

	logger.Log.Debugw("query executed",
		"query", compactQuery(query),
		"args", []any{conversationID, toolName},
		"error", err,
	)

	return err
}
