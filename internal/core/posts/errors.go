package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for post operations. These are expected business outcomes:
// handlers map them to 4xx responses and they are never logged as system errors.
var (
	// ErrPostNotFound is returned when no post exists for the given id
	ErrPostNotFound = errors.New("post not found")

	// ErrPostExpired is returned when an engagement action targets an
	// Expired post. Expired posts accept no new likes, dislikes, or comments.
	ErrPostExpired = errors.New("post has expired")

	// ErrSelfAction is returned when a user tries to like their own post
	ErrSelfAction = errors.New("users may not like their own post")

	// ErrNotAuthor is returned when a delete is requested by someone other
	// than the post's author
	ErrNotAuthor = errors.New("only the author may delete this post")

	// ErrNoActivePosts is returned by most-active selection when the topic
	// has no Live posts at all
	ErrNoActivePosts = errors.New("no active posts in topic")
)

// ValidationError represents a malformed-input error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
