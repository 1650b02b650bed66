package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/models"
)

// ConversationReadRepository provides read access to the conversations
// table. Every query filters on user_id.
type ConversationReadRepository struct {
	db *sqlx.DB
}

func NewConversationReadRepository(db *sqlx.DB) *ConversationReadRepository {
	return &ConversationReadRepository{db: db}
}

// GetByID returns the conversation owned by userID, or nil when it does not
// exist or is owned by someone else.
func (r *ConversationReadRepository) GetByID(ctx context.Context, userID, conversationID uuid.UUID) (*models.ConversationDB, error) {
	const query = `
		SELECT conversation_id, user_id, title, created_at, updated_at
		FROM conversations
		WHERE conversation_id = $1 AND user_id = $2
	`

	var conv models.ConversationDB
	err := r.db.GetContext(ctx, &conv, query, conversationID, userID)

	logger.Log.Debugw("query executed",
		"query", compactQuery(query),
		"args", []any{conversationID, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &conv, nil
}

// List returns the user's conversations ordered by most recently updated.
func (r *ConversationReadRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ConversationDB, error) {
	const query = `
		SELECT conversation_id, user_id, title, created_at, updated_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`

	conversations := make([]models.ConversationDB, 0)
	err := r.db.SelectContext(ctx, &conversations, query, userID, limit, offset)

	logger.Log.Debugw("query executed",
		"query", compactQuery(query),
		"args", []any{userID, limit, offset},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return conversations, nil
}

// CountByUserID returns the total number of conversations the user owns.
func (r *ConversationReadRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	const query = `
		SELECT COUNT(*) FROM conversations WHERE user_id = $1
	`

	var total int64
	err := r.db.GetContext(ctx, &total, query, userID)

	logger.Log.Debugw("query executed",
		"query", compactQuery(query),
		"args", []any{userID},
		"error", err,
	)

	if err != nil {
		return 0, err
	}

	return total, nil
}

// ConversationWriteRepository provides write access to the conversations
// table.
type ConversationWriteRepository struct {
	db *sqlx.DB
}

func NewConversationWriteRepository(db *sqlx.DB) *ConversationWriteRepository {
	return &ConversationWriteRepository{db: db}
}

// Save creates a new conversation for the user.
func (r *ConversationWriteRepository) Save(ctx context.Context, userID uuid.UUID, title *string) (*models.ConversationDB, error) {
	const query = `
		INSERT INTO conversations (user_id, title, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING conversation_id, user_id, title, created_at, updated_at
	`

	var conv models.ConversationDB
	err := r.db.GetContext(ctx, &conv, query, userID, title)

	logger.Log.Debugw("query executed",
		"query", compactQuery(query),
		"args", []any{userID, title},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &conv, nil
}

// Touch refreshes the conversation's updated_at so that listing by recency
// reflects the latest turn.
func (r *ConversationWriteRepository) Touch(ctx context.Context, conversationID uuid.UUID) error {
	const query = `
		UPDATE conversations SET updated_at = NOW() WHERE conversation_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, conversationID)

	logger.Log.Debugw("query executed",
		"query", compactQuery(query),
		"args", []any{conversationID},
		"error", err,
	)

	return err
}
