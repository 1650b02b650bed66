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

// ConversationLister defines the interface that the chat service must implement.
type ConversationLister interface {
	ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ConversationDB, int64, error)
}

// ConversationListData is the payload of a conversation listing.
// swagger:model ConversationListData
type ConversationListData struct {
	Conversations []models.ConversationDB `json:"conversations"`
	Total         int64                   `json:"total"`
}

// NewListConversationsHandler returns an HTTP handler that pages through
// the user's conversations, most recently updated first.
// @Summary List conversations
// @Description Lists the authenticated user's conversations ordered by last activity.
// @Tags chat
// @Produce json
// @Param user_id path string true "User ID"
// @Param limit query integer false "Page size, 1-100 (default 20)"
// @Param offset query integer false "Number of conversations to skip (default 0)"
// @Success 200 {object} models.SuccessResponse "Conversations retrieved"
// @Failure 400 {object} models.ErrorResponse "Invalid pagination parameters"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Not the resource owner"
// @Router /api/users/{user_id}/conversations [get]
// @Security BearerAuth
func NewListConversationsHandler(svc ConversationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.CurrentUser(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid or expired token")
			return
		}

		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil || value < 1 || value > 100 {
				writeError(w, http.StatusBadRequest, models.CodeInvalidInput, "Limit must be an integer between 1 and 100")
				return
			}
			limit = value
		}

		offset := 0
		if raw := r.URL.Query().Get("offset"); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil || value < 0 {
				writeError(w, http.StatusBadRequest, models.CodeInvalidInput, "Offset must be a non-negative integer")
				return
			}
			offset = value
		}

		conversations, total, err := svc.ListConversations(r.Context(), user.UserID, limit, offset)
		if err != nil {
			logger.Log.Errorw("failed to list conversations", "error", err)
			writeInternalError(w)
			return
		}

		data := ConversationListData{Conversations: conversations, Total: total}
		writeSuccess(w, http.StatusOK, data, "Conversations retrieved successfully")
	}
}
