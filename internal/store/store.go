package store

import (
	"context"

	"github.com/campuscore/catalog-api/internal/models"
)

// Store is the storage port every backend satisfies. The search resolver
// and enrollment engine are written against this interface only; whether
// records live in the relational or the document store is invisible to them.
type Store interface {
	// FindCourseByCode looks up a course by its code, case-insensitively.
	FindCourseByCode(ctx context.Context, code string) (models.Course, error)

	// FindCoursesByCodes hydrates the given courses preserving the input
	// order. Callers re-align relevance scores against this order, so the
	// implementation must not reorder; unknown codes are skipped.
	FindCoursesByCodes(ctx context.Context, codes []string) ([]models.Course, error)

	// ListCourses returns the full catalog with instructor display names
	// and prerequisite summaries hydrated.
	ListCourses(ctx context.Context) ([]models.Course, error)

	// ListCourseCodes returns every course code, the universe for fuzzy
	// code matching.
	ListCourseCodes(ctx context.Context) ([]string, error)

	FindUserByID(ctx context.Context, id uint) (models.User, error)
	FindStudent(ctx context.Context, userID uint) (models.User, error)
	FindInstructor(ctx context.Context, userID uint) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// FindCompletedCourseCodes returns the set of courses the student has
	// completed, used for the prerequisite gate.
	FindCompletedCourseCodes(ctx context.Context, studentID uint) (map[string]struct{}, error)

	// FindRequiredCourseCodes returns the prerequisite set of a course.
	FindRequiredCourseCodes(ctx context.Context, courseCode string) (map[string]struct{}, error)

	FindActiveEnrollment(ctx context.Context, studentID uint, courseCode string) (models.Enrollment, error)
	ListStudentEnrollments(ctx context.Context, studentID uint) ([]models.Enrollment, error)

	// CreateEnrollment inserts the enrollment row and increments the course
	// counter as one atomic step. A full course surfaces
	// ErrCapacityExceeded and leaves no partial state behind.
	CreateEnrollment(ctx context.Context, studentID uint, courseCode string) error

	// DeleteEnrollment retires the active row and decrements the counter,
	// clamped so it never goes below zero.
	DeleteEnrollment(ctx context.Context, studentID uint, courseCode string) error

	// IncrementEnrollment bumps the seat counter, failing with
	// ErrCapacityExceeded when the course is already full.
	IncrementEnrollment(ctx context.Context, courseCode string) error

	// DecrementEnrollment lowers the seat counter, clamped at zero.
	DecrementEnrollment(ctx context.Context, courseCode string) error

	// Name identifies the backend ("sql" or "mongo").
	Name() string
}
