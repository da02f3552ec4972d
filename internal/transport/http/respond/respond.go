package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gmarket/export-svc/pkg/apperror"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// Error writes err as {"error": message} with the status the error carries.
// Errors without a status map to 500.
func Error(w http.ResponseWriter, err error) {
	JSON(w, apperror.Status(err), map[string]string{"error": err.Error()})
}
