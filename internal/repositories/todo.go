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

// TodoReadRepository provides read access to the todos table. Every query
// filters on user_id; there is no access path that returns another user's
// todo.
type TodoReadRepository struct {
	db *sqlx.DB
}

func NewTodoReadRepository(db *sqlx.DB) *TodoReadRepository {
	return &TodoReadRepository{db: db}
}

// GetByID returns the todo with the given id owned by userID, or nil when
// it does not exist or is owned by someone else.
func (r *TodoReadRepository) GetByID(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error) {
	const query = `
		SELECT todo_id, user_id, title, description, completed, created_at, updated_at
		FROM todos
		WHERE todo_id = $1 AND user_id = $2
	`

	var todo models.TodoDB
	err := r.db.GetContext(ctx, &todo, query, todoID, userID)

	logger.Log.Debugw("query executed",
		"query", compactQuery(query),
		"args", []any{todoID, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &todo, nil
}

// List returns the user's todos ordered by creation time descending,
// optionally filtered by completion status. An empty slice is returned when
// nothing matches.
func (r *TodoReadRepository) List(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.TodoDB, error) {
	const query = `
		SELECT todo_id, user_id, title, description, completed, created_at, updated_at
		FROM todos
		WHERE user_id = $1
		  AND ($2::BOOLEAN IS NULL OR completed = $2)
		ORDER BY created_at DESC
	`

	todos := make([]models.TodoDB, 0)
	err := r.db.SelectContext(ctx, &todos, query, userID, completed)

	logger.Log.Debugw("query executed",
		"query", compactQuery(query),
		"args", []any{userID, completed},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return todos, nil
}

// TodoWriteRepository provides write access to the todos table. All
// mutations are owner-filtered in SQL.
type TodoWriteRepository struct {
	db *sqlx.DB
}

func NewTodoWriteRepository(db *sqlx.DB) *TodoWriteRepository {
	return &TodoWriteRepository{db: db}
}

// Save inserts a new todo for the user and returns the created record.
func (r *TodoWriteRepository) Save(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.TodoDB, error) {
	const query = `
		INSERT INTO todos (user_id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW())
		RETURNING todo_id, user_id, title, description, completed, created_at, updated_at
	`

	var todo models.TodoDB
	err := r.db.GetContext(ctx, &todo, query, userID, title, description)

	logger.Log.Debugw("query executed",
		"query", compactQuery(query),
		"args", []any{userID, title},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &todo, nil
}

// Update applies a partial update: nil fields keep their current value.
// Returns nil when the todo does not exist or is owned by someone else.
func (r *TodoWriteRepository) Update(ctx context.Context, userID, todoID uuid.UUID, title, description *string, completed *bool) (*models.TodoDB, error) {
	const query = `
		UPDATE todos
		SET title = COALESCE($3, title),
		    description = COALESCE($4, description),
		    completed = COALESCE($5, completed),
		    updated_at = NOW()
		WHERE todo_id = $1 AND user_id = $2
		RETURNING todo_id, user_id, title, description, completed, created_at, updated_at
	`

	var todo models.TodoDB
	err := r.db.GetContext(ctx, &todo, query, todoID, userID, title, description, completed)

	logger.Log.Debugw("query executed",
		"query", compactQuery(query),
		"args", []any{todoID, userID, title, completed},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &todo, nil
}

// ToggleComplete flips the completed flag and refreshes updated_at.
// Returns nil when the todo does not exist or is owned by someone else.
func (r *TodoWriteRepository) ToggleComplete(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error) {
	const query = `
		UPDATE todos
		SET completed = NOT completed,
		    updated_at = NOW()
		WHERE todo_id = $1 AND user_id = $2
		RETURNING todo_id, user_id, title, description, completed, created_at, updated_at
	`

	var todo models.TodoDB
	err := r.db.GetContext(ctx, &todo, query, todoID, userID)

	logger.Log.Debugw("query executed",
		"query", compactQuery(query),
		"args", []any{todoID, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &todo, nil
}

// Delete removes the todo and reports whether a row was actually deleted.
func (r *TodoWriteRepository) Delete(ctx context.Context, userID, todoID uuid.UUID) (bool, error) {
	const query = `
		DELETE FROM todos
		WHERE todo_id = $1 AND user_id = $2
	`

	res, err := r.db.ExecContext(ctx, query, todoID, userID)

	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Debugw("query executed",
		"query", compactQuery(query),
		"args", []any{todoID, userID},
		"rows_affected", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
