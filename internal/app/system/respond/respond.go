// Package respond writes JSON responses in the shape every route uses.
package respond

import (
	"encoding/json"
	"net/http"
)

// MessageBody is the error and status body: {"message": "..."}.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes {"message": msg} with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, MessageBody{Message: msg})
}

// NotFound writes a 404 message.
func NotFound(w http.ResponseWriter, msg string) {
	Message(w, http.StatusNotFound, msg)
}

// BadRequest writes a 400 message.
func BadRequest(w http.ResponseWriter, msg string) {
	Message(w, http.StatusBadRequest, msg)
}
