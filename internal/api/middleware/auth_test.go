package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	userID string
	err    error
}

func (s stubVerifier) Verify(token string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.userID, nil
}

func authedRequest(t *testing.T, mw *AuthMiddleware, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var seenUserID string
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seenUserID
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	mw := NewAuthMiddleware(stubVerifier{userID: "u1"})

	rec, _ := authedRequest(t, mw, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "AuthRequired")
}

func TestRequireAuth_BadScheme(t *testing.T) {
	mw := NewAuthMiddleware(stubVerifier{userID: "u1"})

	rec, _ := authedRequest(t, mw, "Basic dXNlcjpwYXNz")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	mw := NewAuthMiddleware(stubVerifier{err: errors.New("bad signature")})

	rec, _ := authedRequest(t, mw, "Bearer whatever")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
}

func TestRequireAuth_ValidToken(t *testing.T) {
	mw := NewAuthMiddleware(stubVerifier{userID: "user-42"})

	rec, seenUserID := authedRequest(t, mw, "Bearer good-token")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", seenUserID)
}

func TestGetUserID_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetUserID(req))
}
