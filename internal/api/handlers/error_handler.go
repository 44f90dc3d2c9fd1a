// Package handlers provides HTTP handlers for API endpoints.
package handlers

import (
	"log"
	"net/http"

	"github.com/asgard/webauthnd/internal/api/response"
	"github.com/asgard/webauthnd/internal/api/validation"
	"github.com/asgard/webauthnd/internal/utils"
)

// handleError processes errors and sends appropriate HTTP responses.
func handleError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*utils.APIError); ok {
		response.SendError(w, apiErr.Status, apiErr.Code, apiErr.Message)
		return
	}

	if valErr, ok := err.(*validation.ValidationError); ok {
		response.SendError(w, http.StatusBadRequest, "VALIDATION_ERROR", valErr.Message)
		return
	}

	// Log unexpected errors
	log.Printf("Unexpected error: %v", err)
	response.SendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}
