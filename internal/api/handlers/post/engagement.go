package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"piazza/internal/api/middleware"
)

type commentRequest struct {
	Text string `json:"text"`
}

// HandleLike handles POST /api/posts/{postID}/like
func (h *Handler) HandleLike(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Like(r.Context(), chi.URLParam(r, "postID"), middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"likes": count})
}

// HandleDislike handles POST /api/posts/{postID}/dislike
func (h *Handler) HandleDislike(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Dislike(r.Context(), chi.URLParam(r, "postID"), middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"dislikes": count})
}

// HandleComment handles POST /api/posts/{postID}/comments
func (h *Handler) HandleComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	comment, err := h.service.AddComment(r.Context(), chi.URLParam(r, "postID"), middleware.GetUserID(r), req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// HandleRetweet handles PUT /api/posts/{postID}/retweet
func (h *Handler) HandleRetweet(w http.ResponseWriter, r *http.Request) {
	err := h.service.Retweet(r.Context(), chi.URLParam(r, "postID"), middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, confirmation{Message: "Post retweeted"})
}

// HandleRemoveRetweet handles DELETE /api/posts/{postID}/retweet
func (h *Handler) HandleRemoveRetweet(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveRetweet(r.Context(), chi.URLParam(r, "postID"), middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, confirmation{Message: "Retweet removed"})
}

// HandleBookmark handles PUT /api/posts/{postID}/bookmark
func (h *Handler) HandleBookmark(w http.ResponseWriter, r *http.Request) {
	err := h.service.Bookmark(r.Context(), chi.URLParam(r, "postID"), middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, confirmation{Message: "Post bookmarked"})
}

// HandleRemoveBookmark handles DELETE /api/posts/{postID}/bookmark
func (h *Handler) HandleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveBookmark(r.Context(), chi.URLParam(r, "postID"), middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, confirmation{Message: "Bookmark removed"})
}

// HandleListBookmarks handles GET /api/bookmarks
func (h *Handler) HandleListBookmarks(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListBookmarks(r.Context(), middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(list))
}
