package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sgnatenko/todo-chat-api/internal/models"
)

// writeSuccess writes the uniform success envelope.
func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.SuccessResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// writeError writes the uniform error envelope. The code is one of the
// stable codes from the models package; internal error text never ends up
// here.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeInternalError writes a 500 with a fixed message.
func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, models.CodeInternalError, "Internal server error")
}
