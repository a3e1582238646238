package utils

import (
	"encoding/json"
	"net/http"
	"time"
)

type M map[string]interface{}

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// SendResponse wraps data in the standard envelope.
func SendResponse(w http.ResponseWriter, status int, data interface{}, message string) {
	RespondWithJSON(w, status, Envelope{
		Success:   status < 400,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func SendError(w http.ResponseWriter, status int, message string) {
	SendResponse(w, status, nil, message)
}
