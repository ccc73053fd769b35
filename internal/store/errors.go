package store

import "errors"

// Error kinds shared by every backend. Backends translate their native
// driver failures into these so callers never branch on gorm or mongo
// errors directly; anything not listed here is wrapped and surfaced as a
// plain store error, never swallowed.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrCapacityExceeded indicates a seat reservation lost the race or the
	// course was already full.
	ErrCapacityExceeded = errors.New("course capacity exceeded")

	// ErrAlreadyEnrolled indicates an active enrollment already exists for
	// the (student, course) pair.
	ErrAlreadyEnrolled = errors.New("student already enrolled")

	// ErrNotEnrolled indicates no active enrollment exists for the pair.
	ErrNotEnrolled = errors.New("student not enrolled")
)
