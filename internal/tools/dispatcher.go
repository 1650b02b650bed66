package tools

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/sgnatenko/todo-chat-api/internal/facades"
	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/models"
	"github.com/sgnatenko/todo-chat-api/internal/services"
)

// TodoOps is the slice of the todo service the dispatcher needs.
type TodoOps interface {
	Create(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.TodoDB, error)
	List(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.TodoDB, error)
	Get(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error)
	Update(ctx context.Context, userID, todoID uuid.UUID, title, description *string, completed *bool) (*models.TodoDB, error)
	Delete(ctx context.Context, userID, todoID uuid.UUID) error
}

// Dispatcher executes tool calls against the todo service.
type Dispatcher struct {
	todos TodoOps
}

func NewDispatcher(todos TodoOps) *Dispatcher {
	return &Dispatcher{todos: todos}
}

// Definitions exposes the tool schemas for the completion request.
func (d *Dispatcher) Definitions() []facades.Tool {
	return Definitions()
}

// Argument shapes per tool. The owner is never read from arguments; the
// authenticated user id passed to Dispatch is used on every call.

type createTodoArgs struct {
	Title       string  `mapstructure:"title"`
	Description *string `mapstructure:"description"`
}

type listTodosArgs struct {
	Completed *bool `mapstructure:"completed"`
}

type updateTodoArgs struct {
	TodoID      string  `mapstructure:"todo_id"`
	Title       *string `mapstructure:"title"`
	Description *string `mapstructure:"description"`
	Completed   *bool   `mapstructure:"completed"`
}

type todoIDArgs struct {
	TodoID string `mapstructure:"todo_id"`
}

// Dispatch runs one tool call for the authenticated user. Failures are
// returned as {"success": false, "error": ...} values, never as errors: the
// caller needs a result the model can reason over.
func (d *Dispatcher) Dispatch(ctx context.Context, userID uuid.UUID, name string, args map[string]any) map[string]any {
	logger.Log.Infow("dispatching tool call", "tool", name, "user_id", userID)

	switch name {
	case ToolCreateTodo:
		return d.createTodo(ctx, userID, args)
	case ToolListTodos:
		return d.listTodos(ctx, userID, args)
	case ToolUpdateTodo:
		return d.updateTodo(ctx, userID, args)
	case ToolDeleteTodo:
		return d.deleteTodo(ctx, userID, args)
	case ToolGetTodo:
		return d.getTodo(ctx, userID, args)
	default:
		return failure("unknown tool: " + name)
	}
}

func (d *Dispatcher) createTodo(ctx context.Context, userID uuid.UUID, args map[string]any) map[string]any {
	var in createTodoArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return failure("invalid arguments for create_todo")
	}

	todo, err := d.todos.Create(ctx, userID, in.Title, in.Description)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTitle) {
			return failure(err.Error())
		}
		return failure("failed to create todo")
	}

	return map[string]any{
		"success":     true,
		"todo_id":     todo.TodoID.String(),
		"title":       todo.Title,
		"description": todo.Description,
		"completed":   todo.Completed,
	}
}

func (d *Dispatcher) listTodos(ctx context.Context, userID uuid.UUID, args map[string]any) map[string]any {
	var in listTodosArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return failure("invalid arguments for list_todos")
	}

	todos, err := d.todos.List(ctx, userID, in.Completed)
	if err != nil {
		return failure("failed to list todos")
	}

	items := make([]map[string]any, 0, len(todos))
	for _, todo := range todos {
		items = append(items, map[string]any{
			"id":          todo.TodoID.String(),
			"title":       todo.Title,
			"description": todo.Description,
			"completed":   todo.Completed,
			"created_at":  todo.CreatedAt.Format(time.RFC3339),
		})
	}

	return map[string]any{
		"success": true,
		"todos":   items,
		"count":   len(items),
	}
}

func (d *Dispatcher) updateTodo(ctx context.Context, userID uuid.UUID, args map[string]any) map[string]any {
	var in updateTodoArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return failure("invalid arguments for update_todo")
	}

	todoID, err := uuid.Parse(in.TodoID)
	if err != nil {
		return failure("invalid todo ID format")
	}

	todo, err := d.todos.Update(ctx, userID, todoID, in.Title, in.Description, in.Completed)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTodoNotFound):
			return failure("Todo not found or you don't have permission to update it")
		case errors.Is(err, services.ErrInvalidTitle):
			return failure(err.Error())
		default:
			return failure("failed to update todo")
		}
	}

	return map[string]any{
		"success":     true,
		"todo_id":     todo.TodoID.String(),
		"title":       todo.Title,
		"description": todo.Description,
		"completed":   todo.Completed,
	}
}

func (d *Dispatcher) deleteTodo(ctx context.Context, userID uuid.UUID, args map[string]any) map[string]any {
	var in todoIDArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return failure("invalid arguments for delete_todo")
	}

	todoID, err := uuid.Parse(in.TodoID)
	if err != nil {
		return failure("invalid todo ID format")
	}

	if err := d.todos.Delete(ctx, userID, todoID); err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			return failure("Todo not found or you don't have permission to delete it")
		}
		return failure("failed to delete todo")
	}

	return map[string]any{
		"success": true,
		"message": "Todo deleted successfully",
	}
}

func (d *Dispatcher) getTodo(ctx context.Context, userID uuid.UUID, args map[string]any) map[string]any {
	var in todoIDArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return failure("invalid arguments for get_todo")
	}

	todoID, err := uuid.Parse(in.TodoID)
	if err != nil {
		return failure("invalid todo ID format")
	}

	todo, err := d.todos.Get(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			return failure("Todo not found or you don't have permission to view it")
		}
		return failure("failed to get todo")
	}

	return map[string]any{
		"success": true,
		"todo": map[string]any{
			"id":          todo.TodoID.String(),
			"title":       todo.Title,
			"description": todo.Description,
			"completed":   todo.Completed,
			"created_at":  todo.CreatedAt.Format(time.RFC3339),
			"updated_at":  todo.UpdatedAt.Format(time.RFC3339),
		},
	}
}

func failure(message string) map[string]any {
	return map[string]any{
		"success": false,
		"error":   message,
	}
}
