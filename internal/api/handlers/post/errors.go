package post

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"piazza/internal/core/posts"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResponse{
		Error:   errorType,
		Message: message,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// handleServiceError maps core errors to HTTP responses. Business outcomes
// become 4xx with display-ready messages; anything unrecognized is a storage
// or collaborator failure, logged and returned as an opaque 500.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, posts.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "NotFound", "Post not found")

	case errors.Is(err, posts.ErrPostExpired):
		writeError(w, http.StatusBadRequest, "PostExpired",
			"This post has expired and no longer accepts engagement")

	case errors.Is(err, posts.ErrSelfAction):
		writeError(w, http.StatusForbidden, "SelfAction",
			"You may not like your own post")

	case errors.Is(err, posts.ErrNotAuthor):
		writeError(w, http.StatusForbidden, "Forbidden",
			"Only the author may delete this post")

	case posts.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	default:
		log.Printf("Unexpected error in post handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
