package post

import (
	"encoding/json"
	"log"
	"net/http"

	"piazza/internal/core/posts"
)

// maxBodySize bounds request bodies. Posts are short-form text; 64KB is
// generous headroom.
const maxBodySize = 64 * 1024

// Handler serves all post, engagement, and topic endpoints
type Handler struct {
	service posts.Service
}

// NewHandler creates a post handler over the given service
func NewHandler(service posts.Service) *Handler {
	return &Handler{service: service}
}

// decode parses a JSON request body into dst with the size cap applied
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// confirmation is the body for mutation endpoints that return no entity
type confirmation struct {
	Message string `json:"message"`
}
