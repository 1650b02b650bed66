package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/middlewares"
	"github.com/sgnatenko/todo-chat-api/internal/models"
	"github.com/sgnatenko/todo-chat-api/internal/services"
)

// TodoUpdater defines the interface that the todo service must implement.
type TodoUpdater interface {
	Update(ctx context.Context, userID, todoID uuid.UUID, title, description *string, completed *bool) (*models.TodoDB, error)
}

// TodoUpdateRequest represents the JSON body for a partial todo update.
// Omitted fields keep their current value.
// swagger:model TodoUpdateRequest
type TodoUpdateRequest struct {
	// New title, 1-255 characters
	Title *string `json:"title"`

	// New description
	Description *string `json:"description"`
}

// NewUpdateTodoHandler returns an HTTP handler for updating a todo.
// @Summary Update a todo
// @Description Partially updates one of the authenticated user's todos. Omitted fields are left unchanged.
// @Tags todos
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Param id path string true "Todo ID"
// @Param todoUpdateRequest body handlers.TodoUpdateRequest true "Todo update request"
// @Success 200 {object} models.SuccessResponse "Todo updated"
// @Failure 400 {object} models.ErrorResponse "Validation error"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Not the resource owner"
// @Failure 404 {object} models.ErrorResponse "Todo not found"
// @Router /api/users/{user_id}/todos/{id} [put]
// @Security BearerAuth
func NewUpdateTodoHandler(svc TodoUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.CurrentUser(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid or expired token")
			return
		}

		todoID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, models.CodeInvalidInput, "Invalid todo ID format")
			return
		}

		var req TodoUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, models.CodeInvalidInput, "Invalid request body")
			return
		}

		todo, err := svc.Update(r.Context(), user.UserID, todoID, req.Title, req.Description, nil)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTodoNotFound):
				writeError(w, http.StatusNotFound, models.CodeNotFound, "Todo not found")
			case errors.Is(err, services.ErrInvalidTitle):
				writeError(w, http.StatusBadRequest, models.CodeInvalidInput, err.Error())
			default:
				logger.Log.Errorw("failed to update todo", "error", err)
				writeInternalError(w)
			}
			return
		}

		writeSuccess(w, http.StatusOK, todo, "Todo updated successfully")
	}
}
