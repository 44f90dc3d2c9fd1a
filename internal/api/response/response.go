// Package response provides standardized API response types.
package response

import (
	"encoding/json"
	"net/http"
)

// Response represents a standard API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Error represents an API error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Success sends a successful JSON response.
func Success(w http.ResponseWriter, status int, data interface{}) {
	response := Response{
		Success: true,
		Data:    data,
	}
	sendJSON(w, status, response)
}

// SendError sends an error JSON response.
func SendError(w http.ResponseWriter, status int, code, message string) {
	response := Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Status:  status,
		},
	}
	sendJSON(w, status, response)
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
