package handlers

import (
	"bytes"
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

func TestSigninHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), Email: "alice@example.com"}

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockSigniner)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "success",
			body: `{"email":"alice@example.com","password":"Passw0rd1"}`,
			mockSetup: func(m *MockSigniner) {
				m.EXPECT().
					Login(gomock.Any(), "alice@example.com", "Passw0rd1").
					Return("token123", user, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "invalid JSON",
			body:         `{invalid`,
			mockSetup:    func(m *MockSigniner) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  models.CodeInvalidInput,
		},
		{
			name: "invalid credentials",
			body: `{"email":"alice@example.com","password":"wrong"}`,
			mockSetup: func(m *MockSigniner) {
				m.EXPECT().
					Login(gomock.Any(), "alice@example.com", "wrong").
					Return("", nil, services.ErrInvalidCredentials)
			},
			expectedCode: http.StatusUnauthorized,
			expectedErr:  models.CodeInvalidCredentials,
		},
		{
			name: "too many attempts",
			body: `{"email":"alice@example.com","password":"Passw0rd1"}`,
			mockSetup: func(m *MockSigniner) {
				m.EXPECT().
					Login(gomock.Any(), "alice@example.com", "Passw0rd1").
					Return("", nil, services.ErrTooManyLoginAttempts)
			},
			expectedCode: http.StatusTooManyRequests,
			expectedErr:  models.CodeTooManyAttempts,
		},
		{
			name: "internal error",
			body: `{"email":"alice@example.com","password":"Passw0rd1"}`,
			mockSetup: func(m *MockSigniner) {
				m.EXPECT().
					Login(gomock.Any(), "alice@example.com", "Passw0rd1").
					Return("", nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  models.CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockSigniner(ctrl)
			tt.mockSetup(mockSvc)

			handler := NewSigninHandler(mockSvc)

			req := httptest.NewRequest(http.MethodPost, "/api/signin", bytes.NewBufferString(tt.body))
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
				Success bool      `json:"success"`
				Data    TokenData `json:"data"`
			}
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.True(t, resp.Success)
			assert.Equal(t, "token123", resp.Data.AccessToken)
			assert.Equal(t, "bearer", resp.Data.TokenType)
			assert.Equal(t, user.Email, resp.Data.User.Email)
		})
	}
}
