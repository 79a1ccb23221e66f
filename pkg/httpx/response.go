package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status. Content-Type and nosniff headers are
// set first. Encoding failures are discarded; the status line has already
// been written by then, so there is nothing useful left to tell the client.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes the project's uniform {"error": message} body.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// NoContent writes an empty 204 response. Used by operations that settle
// state without a body, such as revoking a transfer code.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
