package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/middlewares"
	"github.com/sgnatenko/todo-chat-api/internal/models"
	"github.com/sgnatenko/todo-chat-api/internal/services"
)

// TodoCreator defines the interface that the todo service must implement.
type TodoCreator interface {
	Create(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.TodoDB, error)
}

// TodoCreateRequest represents the JSON body for creating a todo
// swagger:model TodoCreateRequest
type TodoCreateRequest struct {
	// Title, 1-255 characters
	// required: true
	// example: Buy milk
	Title string `json:"title"`

	// Optional description
	Description *string `json:"description"`
}

// NewCreateTodoHandler returns an HTTP handler for creating a todo.
// @Summary Create a todo
// @Description Creates a new todo for the authenticated user. Completed defaults to false.
// @Tags todos
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Param todoCreateRequest body handlers.TodoCreateRequest true "Todo creation request"
// @Success 201 {object} models.SuccessResponse "Todo created"
// @Failure 400 {object} models.ErrorResponse "Validation error"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Not the resource owner"
// @Router /api/users/{user_id}/todos [post]
// @Security BearerAuth
func NewCreateTodoHandler(svc TodoCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.CurrentUser(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid or expired token")
			return
		}

		var req TodoCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, models.CodeInvalidInput, "Invalid request body")
			return
		}

		todo, err := svc.Create(r.Context(), user.UserID, req.Title, req.Description)
		if err != nil {
			if errors.Is(err, services.ErrInvalidTitle) {
				writeError(w, http.StatusBadRequest, models.CodeInvalidInput, err.Error())
				return
			}
			logger.Log.Errorw("failed to create todo", "error", err)
			writeInternalError(w)
			return
		}

		writeSuccess(w, http.StatusCreated, todo, "Todo created successfully")
	}
}
