package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/models"
	"github.com/sgnatenko/todo-chat-api/internal/services"
)

// Signiner defines the interface that the signin service must implement.
type Signiner interface {
	Login(ctx context.Context, email, password string) (string, *models.UserDB, error)
}

// SigninRequest represents the JSON body for user signin
// swagger:model SigninRequest
type SigninRequest struct {
	// Email
	// required: true
	// example: alice@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: Passw0rd1
	Password string `json:"password"`
}

// TokenData is the payload returned on successful signin
// swagger:model TokenData
type TokenData struct {
	// JWT access token
	AccessToken string `json:"access_token"`

	// Token type, always "bearer"
	TokenType string `json:"token_type"`

	// Authenticated user
	User *models.UserDB `json:"user"`
}

// NewSigninHandler returns an HTTP handler for user signin.
// @Summary User signin
// @Description Authenticate user and return a JWT access token
// @Tags auth
// @Accept json
// @Produce json
// @Param signinRequest body handlers.SigninRequest true "Signin request"
// @Success 200 {object} models.SuccessResponse "Access token returned"
// @Failure 401 {object} models.ErrorResponse "Invalid email or password"
// @Failure 429 {object} models.ErrorResponse "Too many failed attempts"
// @Router /api/signin [post]
func NewSigninHandler(svc Signiner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SigninRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, models.CodeInvalidInput, "Invalid request body")
			return
		}

		token, user, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCredentials):
				writeError(w, http.StatusUnauthorized, models.CodeInvalidCredentials, "Invalid email or password")
			case errors.Is(err, services.ErrTooManyLoginAttempts):
				writeError(w, http.StatusTooManyRequests, models.CodeTooManyAttempts, "Too many failed login attempts, try again later")
			default:
				logger.Log.Errorw("signin failed", "error", err)
				writeInternalError(w)
			}
			return
		}

		writeSuccess(w, http.StatusOK, TokenData{
			AccessToken: token,
			TokenType:   "bearer",
			User:        user,
		}, "Signed in successfully")
	}
}
