package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/middlewares"
	"github.com/sgnatenko/todo-chat-api/internal/models"
)

// TodoLister defines the interface that the todo service must implement.
type TodoLister interface {
	List(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.TodoDB, error)
}

// NewListTodosHandler returns an HTTP handler for listing the user's todos.
// @Summary List todos
// @Description Lists the authenticated user's todos, newest first. Supports an optional ?completed= filter.
// @Tags todos
// @Produce json
// @Param user_id path string true "User ID"
// @Param completed query boolean false "Filter by completion status"
// @Success 200 {object} models.SuccessResponse "Todos retrieved"
// @Failure 400 {object} models.ErrorResponse "Invalid filter value"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Not the resource owner"
// @Router /api/users/{user_id}/todos [get]
// @Security BearerAuth
func NewListTodosHandler(svc TodoLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.CurrentUser(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid or expired token")
			return
		}

		var completed *bool
		if raw := r.URL.Query().Get("completed"); raw != "" {
			value, err := strconv.ParseBool(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, models.CodeInvalidInput, "Completed filter must be a boolean")
				return
			}
			completed = &value
		}

		todos, err := svc.List(r.Context(), user.UserID, completed)
		if err != nil {
			logger.Log.Errorw("failed to list todos", "error", err)
			writeInternalError(w)
			return
		}

		writeSuccess(w, http.StatusOK, todos, "Todos retrieved successfully")
	}
}
