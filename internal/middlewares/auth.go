package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/sgnatenko/todo-chat-api/internal/jwt"
	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/models"
)

// Tokener defines the minimal token interface needed by the middleware.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// UserGetter loads the user identified by the token subject.
type UserGetter interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// contextKey is an unexported type for keys in context.
type contextKey struct{}

var currentUserKey = contextKey{}

// CurrentUser returns the authenticated user stored in the context, or nil
// when the request did not pass the auth middleware.
func CurrentUser(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(currentUserKey).(*models.UserDB)
	return user
}

// WithCurrentUser returns a context carrying the authenticated user.
func WithCurrentUser(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// AuthMiddleware verifies the bearer token and loads the corresponding
// user into the request context. A token whose subject no longer exists is
// rejected exactly like a bad token.
func AuthMiddleware(tokener Tokener, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Infow("authorization failed", "error", err)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			claims, err := tokener.GetClaims(ctx, tokenString)
			if err != nil {
				logger.Log.Infow("authorization failed", "error", err)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			user, err := users.GetByID(ctx, claims.UserID)
			if err != nil {
				logger.Log.Errorw("failed to load user for token", "error", err)
				writeInternalError(w)
				return
			}
			if user == nil {
				logger.Log.Infow("token subject does not exist", "user_id", claims.UserID)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCurrentUser(ctx, user)))
		})
	}
}

// OptionalAuthMiddleware loads the user into the context when a valid
// bearer token is present and lets the request through without one
// otherwise. Missing, invalid and expired credentials are not errors
// here; routes that require a user sit behind AuthMiddleware instead.
func OptionalAuthMiddleware(tokener Tokener, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokener.GetClaims(ctx, tokenString)
			if err != nil {
				logger.Log.Debugw("ignoring invalid credentials", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByID(ctx, claims.UserID)
			if err != nil || user == nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCurrentUser(ctx, user)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    models.CodeUnauthorized,
			Message: message,
		},
	})
}

func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    models.CodeInternalError,
			Message: "Internal server error",
		},
	})
}
