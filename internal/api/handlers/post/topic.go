package post

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"piazza/internal/core/posts"
)

// mostActiveResponse wraps the most-active result so "no active posts" is an
// explicit null marker rather than an error.
type mostActiveResponse struct {
	MostActive *posts.Post `json:"mostActive"`
}

// HandleTopicPosts handles GET /api/topics/{topic}/posts
func (h *Handler) HandleTopicPosts(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListByTopic(r.Context(), chi.URLParam(r, "topic"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(list))
}

// HandleMostActive handles GET /api/topics/{topic}/most-active
func (h *Handler) HandleMostActive(w http.ResponseWriter, r *http.Request) {
	top, err := h.service.MostActiveInTopic(r.Context(), chi.URLParam(r, "topic"))
	if errors.Is(err, posts.ErrNoActivePosts) {
		writeJSON(w, http.StatusOK, mostActiveResponse{MostActive: nil})
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mostActiveResponse{MostActive: top})
}

// HandleTopicExpired handles GET /api/topics/{topic}/expired
func (h *Handler) HandleTopicExpired(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ExpiredInTopic(r.Context(), chi.URLParam(r, "topic"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(list))
}
