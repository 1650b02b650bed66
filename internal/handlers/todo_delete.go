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

// TodoDeleter defines the interface that the todo service must implement.
type TodoDeleter interface {
	Delete(ctx context.Context, userID, todoID uuid.UUID) error
}

// NewDeleteTodoHandler returns an HTTP handler for deleting a todo.
// @Summary Delete a todo
// @Description Permanently deletes one of the authenticated user's todos.
// @Tags todos
// @Produce json
// @Param user_id path string true "User ID"
// @Param id path string true "Todo ID"
// @Success 200 {object} models.SuccessResponse "Todo deleted"
// @Failure 400 {object} models.ErrorResponse "Invalid todo ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Not the resource owner"
// @Failure 404 {object} models.ErrorResponse "Todo not found"
// @Router /api/users/{user_id}/todos/{id} [delete]
// @Security BearerAuth
func NewDeleteTodoHandler(svc TodoDeleter) http.HandlerFunc {
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

		if err := svc.Delete(r.Context(), user.UserID, todoID); err != nil {
			if errors.Is(err, services.ErrTodoNotFound) {
				writeError(w, http.StatusNotFound, models.CodeNotFound, "Todo not found")
				return
			}
			logger.Log.Errorw("failed to delete todo", "error", err)
			writeInternalError(w)
			return
		}

		writeSuccess(w, http.StatusOK, nil, "Todo deleted successfully")
	}
}
