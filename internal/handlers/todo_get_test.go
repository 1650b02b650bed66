package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sgnatenko/todo-chat-api/internal/models"
	"github.com/sgnatenko/todo-chat-api/internal/services"
)

func TestGetTodoHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), Email: "alice@example.com"}
	todoID := uuid.New()

	tests := []struct {
		name         string
		todoID       string
		mockSetup    func(m *MockTodoGetter)
		expectedCode int
		expectedErr  string
	}{
		{
			name:   "success",
			todoID: todoID.String(),
			mockSetup: func(m *MockTodoGetter) {
				m.EXPECT().
					Get(gomock.Any(), user.UserID, todoID).
					Return(&models.TodoDB{TodoID: todoID, UserID: user.UserID, Title: "Buy milk"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "malformed todo id",
			todoID:       "not-a-uuid",
			mockSetup:    func(m *MockTodoGetter) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  models.CodeInvalidInput,
		},
		{
			name:   "not found",
			todoID: todoID.String(),
			mockSetup: func(m *MockTodoGetter) {
				m.EXPECT().
					Get(gomock.Any(), user.UserID, todoID).
					Return(nil, services.ErrTodoNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedErr:  models.CodeNotFound,
		},
		{
			name:   "internal error",
			todoID: todoID.String(),
			mockSetup: func(m *MockTodoGetter) {
				m.EXPECT().
					Get(gomock.Any(), user.UserID, todoID).
					Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  models.CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockTodoGetter(ctrl)
			tt.mockSetup(mockSvc)

			handler := NewGetTodoHandler(mockSvc)

			req := newAuthedRequest(http.MethodGet, "/api/users/"+user.UserID.String()+"/todos/"+tt.todoID,
				nil, user, map[string]string{"user_id": user.UserID.String(), "id": tt.todoID})
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)

			if tt.expectedErr != "" {
				var resp models.ErrorResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedErr, resp.Error.Code)
			}
		})
	}
}
