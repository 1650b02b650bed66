package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/middlewares"
	"github.com/sgnatenko/todo-chat-api/internal/models"
	"github.com/sgnatenko/todo-chat-api/internal/services"
)

// ChatProcessor defines the interface that the chat service must implement.
type ChatProcessor interface {
	ProcessMessage(ctx context.Context, userID uuid.UUID, message string, conversationID *uuid.UUID) (*models.ChatResult, error)
}

// ChatRequest represents the JSON body for a chat message.
// swagger:model ChatRequest
type ChatRequest struct {
	// Message text, 1-2000 characters
	Message string `json:"message"`

	// Conversation to continue; omit to start a new one
	ConversationID *string `json:"conversation_id"`
}

// NewChatHandler returns an HTTP handler that routes a chat message
// through the assistant and its todo tools.
// @Summary Send a chat message
// @Description Sends a message to the assistant. The assistant may invoke todo tools on the user's behalf; any tool calls made are echoed back alongside the reply.
// @Tags chat
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Param chatRequest body handlers.ChatRequest true "Chat request"
// @Success 200 {object} models.SuccessResponse "Message processed"
// @Failure 400 {object} models.ErrorResponse "Validation error"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Not the resource owner"
// @Failure 404 {object} models.ErrorResponse "Conversation not found"
// @Router /api/users/{user_id}/chat [post]
// @Security BearerAuth
func NewChatHandler(svc ChatProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.CurrentUser(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid or expired token")
			return
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, models.CodeInvalidInput, "Invalid request body")
			return
		}

		length := utf8.RuneCountInString(req.Message)
		if length == 0 || length > 2000 {
			writeError(w, http.StatusBadRequest, models.CodeInvalidInput, "Message must be between 1 and 2000 characters")
			return
		}

		var conversationID *uuid.UUID
		if req.ConversationID != nil {
			id, err := uuid.Parse(*req.ConversationID)
			if err != nil {
				writeError(w, http.StatusBadRequest, models.CodeInvalidInput, "Invalid conversation ID format")
				return
			}
			conversationID = &id
		}

		result, err := svc.ProcessMessage(r.Context(), user.UserID, req.Message, conversationID)
		if err != nil {
			if errors.Is(err, services.ErrConversationNotFound) {
				writeError(w, http.StatusNotFound, models.CodeNotFound, "Conversation not found")
				return
			}
			logger.Log.Errorw("failed to process chat message", "error", err)
			writeInternalError(w)
			return
		}

		writeSuccess(w, http.StatusOK, result, "Message processed successfully")
	}
}
