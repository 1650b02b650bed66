package middlewares

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/models"
)

// RequireOwner rejects requests whose path user_id does not match the
// authenticated user. The message never reveals whether the path user
// exists. Storage queries additionally filter by owner, so this check is
// the outer of two layers; keep both.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())
		if user == nil {
			writeUnauthorized(w, "Invalid or expired token")
			return
		}

		pathUserID, err := uuid.Parse(chi.URLParam(r, "user_id"))
		if err != nil {
			writeOwnerError(w, http.StatusBadRequest, models.CodeInvalidInput, "Invalid user ID format")
			return
		}

		if pathUserID != user.UserID {
			logger.Log.Infow("ownership check failed", "path_user_id", pathUserID, "user_id", user.UserID)
			writeOwnerError(w, http.StatusForbidden, models.CodeForbidden, "You don't have permission to access this resource")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeOwnerError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
