package service

import (
	"errors"
	"fmt"
	"strings"
)

// Domain error kinds surfaced to handlers. Store-level failures are mapped
// into these before they leave a service; callers never see raw gorm or
// mongo errors.
var (
	// ErrInvalidQuery rejects empty or whitespace-only search queries
	// before any store or embedding call is made.
	ErrInvalidQuery = errors.New("search query must not be empty")

	// ErrSearchUnavailable indicates the embedding service or vector index
	// failed; the resolver never degrades to a silent empty result.
	ErrSearchUnavailable = errors.New("search is currently unavailable")

	ErrStudentNotFound = errors.New("student not found")
	ErrCourseNotFound  = errors.New("course not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrCapacityExceeded = errors.New("course is full")
	ErrAlreadyEnrolled  = errors.New("student is already enrolled in this course")
	ErrNotEnrolled      = errors.New("student is not enrolled in this course")
)

// PrerequisitesNotMetError reports exactly which required courses the
// student has not completed, so callers can render actionable feedback.
type PrerequisitesNotMetError struct {
	Missing []string
}

func (e *PrerequisitesNotMetError) Error() string {
	return fmt.Sprintf("prerequisites not met, missing courses: %s", strings.Join(e.Missing, ", "))
}
