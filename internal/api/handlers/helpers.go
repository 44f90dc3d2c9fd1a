package handlers

import (
	"encoding/json"
	"net/http"
)

// jsonResponse writes v as a JSON body with the given status.
func jsonResponse(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// jsonError writes {"message": message} with the given status. Ceremony
// endpoints report errors this way (e.g. {"message":"bad origin"}),
// distinct from the wrapped envelope
// response.SendError uses elsewhere.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"message": message})
}
