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

// Signuper defines the interface that the signup service must implement.
type Signuper interface {
	Register(ctx context.Context, email, password string) (*models.UserDB, error)
}

// SignupRequest represents the JSON body for user signup
// swagger:model SignupRequest
type SignupRequest struct {
	// Email
	// required: true
	// example: alice@example.com
	Email string `json:"email"`

	// Password, 8-128 characters with upper, lower and digit
	// required: true
	// example: Passw0rd1
	Password string `json:"password"`
}

// NewSignupHandler returns an HTTP handler for user signup.
// @Summary Register a new user
// @Description Creates a new user account. Validates email format and password strength before storing a hashed password.
// @Tags auth
// @Accept json
// @Produce json
// @Param signupRequest body handlers.SignupRequest true "User signup request"
// @Success 201 {object} models.SuccessResponse "User successfully registered"
// @Failure 400 {object} models.ErrorResponse "Validation error or email already exists"
// @Router /api/signup [post]
func NewSignupHandler(svc Signuper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, models.CodeInvalidInput, "Invalid request body")
			return
		}

		user, err := svc.Register(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidEmail), errors.Is(err, services.ErrWeakPassword):
				writeError(w, http.StatusBadRequest, models.CodeInvalidInput, err.Error())
			case errors.Is(err, services.ErrEmailAlreadyExists):
				writeError(w, http.StatusBadRequest, models.CodeEmailExists, "Email already registered")
			default:
				logger.Log.Errorw("signup failed", "error", err)
				writeInternalError(w)
			}
			return
		}

		writeSuccess(w, http.StatusCreated, user, "User registered successfully")
	}
}
