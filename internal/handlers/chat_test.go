package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sgnatenko/todo-chat-api/internal/models"
	"github.com/sgnatenko/todo-chat-api/internal/services"
)

func TestChatHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), Email: "alice@example.com"}
	convID := uuid.New()

	result := &models.ChatResult{
		ConversationID: convID,
		Response:       "Added milk to your list.",
		ToolCalls: []models.ToolCallSummary{
			{Tool: "create_todo", Arguments: map[string]any{"title": "Buy milk"}, Result: map[string]any{"success": true}},
		},
	}

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockChatProcessor)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "new conversation",
			body: `{"message":"add milk to my list"}`,
			mockSetup: func(m *MockChatProcessor) {
				m.EXPECT().
					ProcessMessage(gomock.Any(), user.UserID, "add milk to my list", (*uuid.UUID)(nil)).
					Return(result, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "existing conversation",
			body: `{"message":"thanks","conversation_id":"` + convID.String() + `"}`,
			mockSetup: func(m *MockChatProcessor) {
				m.EXPECT().
					ProcessMessage(gomock.Any(), user.UserID, "thanks", &convID).
					Return(result, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "invalid JSON",
			body:         `{invalid`,
			mockSetup:    func(m *MockChatProcessor) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  models.CodeInvalidInput,
		},
		{
			name:         "empty message",
			body:         `{"message":""}`,
			mockSetup:    func(m *MockChatProcessor) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  models.CodeInvalidInput,
		},
		{
			name:         "message too long",
			body:         `{"message":"` + strings.Repeat("a", 2001) + `"}`,
			mockSetup:    func(m *MockChatProcessor) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  models.CodeInvalidInput,
		},
		{
			name:         "malformed conversation id",
			body:         `{"message":"hi","conversation_id":"not-a-uuid"}`,
			mockSetup:    func(m *MockChatProcessor) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  models.CodeInvalidInput,
		},
		{
			name: "conversation not found",
			body: `{"message":"hi","conversation_id":"` + convID.String() + `"}`,
			mockSetup: func(m *MockChatProcessor) {
				m.EXPECT().
					ProcessMessage(gomock.Any(), user.UserID, "hi", &convID).
					Return(nil, services.ErrConversationNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedErr:  models.CodeNotFound,
		},
		{
			name: "internal error",
			body: `{"message":"hi"}`,
			mockSetup: func(m *MockChatProcessor) {
				m.EXPECT().
					ProcessMessage(gomock.Any(), user.UserID, "hi", (*uuid.UUID)(nil)).
					Return(nil, errors.New("model unavailable"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  models.CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockChatProcessor(ctrl)
			tt.mockSetup(mockSvc)

			handler := NewChatHandler(mockSvc)

			req := newAuthedRequest(http.MethodPost, "/api/users/"+user.UserID.String()+"/chat",
				bytes.NewBufferString(tt.body), user, map[string]string{"user_id": user.UserID.String()})
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)

			if tt.expectedErr != "" {
				var resp models.ErrorResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedErr, resp.Error.Code)
				return
			}

			var resp struct {
				Success bool `json:"success"`
				Data    struct {
					ConversationID string                   `json:"conversation_id"`
					Response       string                   `json:"response"`
					ToolCalls      []models.ToolCallSummary `json:"tool_calls"`
				} `json:"data"`
			}
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.True(t, resp.Success)
			assert.Equal(t, convID.String(), resp.Data.ConversationID)
			assert.Equal(t, result.Response, resp.Data.Response)
			assert.Len(t, resp.Data.ToolCalls, 1)
		})
	}
}

func TestChatHandler_MessageLengthCountsRunes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), Email: "alice@example.com"}

	// 2000 multibyte runes: over the byte limit but within the rune limit.
	message := strings.Repeat("я", 2000)

	mockSvc := NewMockChatProcessor(ctrl)
	mockSvc.EXPECT().
		ProcessMessage(gomock.Any(), user.UserID, message, (*uuid.UUID)(nil)).
		Return(&models.ChatResult{ConversationID: uuid.New(), Response: "ok"}, nil)

	handler := NewChatHandler(mockSvc)

	body, _ := json.Marshal(map[string]string{"message": message})
	req := newAuthedRequest(http.MethodPost, "/api/users/"+user.UserID.String()+"/chat",
		bytes.NewBuffer(body), user, map[string]string{"user_id": user.UserID.String()})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
