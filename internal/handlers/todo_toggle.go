package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/middlewares"
	"github.com/sgnatenko/todo-chat-api/internal/models"
	"github.com/sgnatenko/todo-chat-api/internal/services"
)

// TodoToggler defines the interface that the todo service must implement.
type TodoToggler interface {
	ToggleComplete(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error)
}

// NewToggleTodoHandler returns an HTTP handler that flips a todo's
// completion status.
// @Summary Toggle todo completion
// @Description Flips the completed flag of one of the authenticated user's todos.
// @Tags todos
// @Produce json
// @Param user_id path string true "User ID"
// @Param id path string true "Todo ID"
// @Success 200 {object} models.SuccessResponse "Todo updated"
// @Failure 400 {object} models.ErrorResponse "Invalid todo ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Not the resource owner"
// @Failure 404 {object} models.ErrorResponse "Todo not found"
// @Router /api/users/{user_id}/todos/{id}/complete [patch]
// @Security BearerAuth
func NewToggleTodoHandler(svc TodoToggler) http.HandlerFunc {
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

		todo, err := svc.ToggleComplete(r.Context(), user.UserID, todoID)
		if err != nil {
			if errors.Is(err, services.ErrTodoNotFound) {
				writeError(w, http.StatusNotFound, models.CodeNotFound, "Todo not found")
				return
			}
			logger.Log.Errorw("failed to toggle todo", "error", err)
			writeInternalError(w)
			return
		}

		writeSuccess(w, http.StatusOK, todo, "Todo completion status updated")
	}
}
