package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/campuscore/catalog-api/internal/models"
)

// Selector is the process-wide backend switch. It satisfies Store by
// delegating every call to the currently active backend, so services hold
// a single injected Store and never consult shared package state.
// Switching is an explicit administrative action, takes effect for all
// subsequent calls, and does not migrate data between backends.
type Selector struct {
	mu       sync.RWMutex
	active   Store
	backends map[string]Store
	logger   zerolog.Logger
}

// NewSelector builds a selector over the named backends, activating the
// one named by initial.
func NewSelector(backends map[string]Store, initial string, logger zerolog.Logger) (*Selector, error) {
	active, ok := backends[initial]
	if !ok {
		return nil, fmt.Errorf("unknown storage backend %q", initial)
	}
	return &Selector{
		active:   active,
		backends: backends,
		logger:   logger.With().Str("component", "store_selector").Logger(),
	}, nil
}

// Use activates the named backend for all subsequent calls.
func (s *Selector) Use(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	backend, ok := s.backends[name]
	if !ok {
		return fmt.Errorf("unknown storage backend %q", name)
	}
	s.active = backend
	s.logger.Info().Str("backend", name).Msg("switched active storage backend")
	return nil
}

func (s *Selector) current() Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Name reports the active backend's name.
func (s *Selector) Name() string { return s.current().Name() }

func (s *Selector) FindCourseByCode(ctx context.Context, code string) (models.Course, error) {
	return s.current().FindCourseByCode(ctx, code)
}

func (s *Selector) FindCoursesByCodes(ctx context.Context, codes []string) ([]models.Course, error) {
	return s.current().FindCoursesByCodes(ctx, codes)
}

func (s *Selector) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.current().ListCourses(ctx)
}

func (s *Selector) ListCourseCodes(ctx context.Context) ([]string, error) {
	return s.current().ListCourseCodes(ctx)
}

func (s *Selector) FindUserByID(ctx context.Context, id uint) (models.User, error) {
	return s.current().FindUserByID(ctx, id)
}

func (s *Selector) FindStudent(ctx context.Context, userID uint) (models.User, error) {
	return s.current().FindStudent(ctx, userID)
}

func (s *Selector) FindInstructor(ctx context.Context, userID uint) (models.User, error) {
	return s.current().FindInstructor(ctx, userID)
}

func (s *Selector) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.current().ListUsers(ctx)
}

func (s *Selector) FindCompletedCourseCodes(ctx context.Context, studentID uint) (map[string]struct{}, error) {
	return s.current().FindCompletedCourseCodes(ctx, studentID)
}

func (s *Selector) FindRequiredCourseCodes(ctx context.Context, courseCode string) (map[string]struct{}, error) {
	return s.current().FindRequiredCourseCodes(ctx, courseCode)
}

func (s *Selector) FindActiveEnrollment(ctx context.Context, studentID uint, courseCode string) (models.Enrollment, error) {
	return s.current().FindActiveEnrollment(ctx, studentID, courseCode)
}

func (s *Selector) ListStudentEnrollments(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	return s.current().ListStudentEnrollments(ctx, studentID)
}

func (s *Selector) CreateEnrollment(ctx context.Context, studentID uint, courseCode string) error {
	return s.current().CreateEnrollment(ctx, studentID, courseCode)
}

func (s *Selector) DeleteEnrollment(ctx context.Context, studentID uint, courseCode string) error {
	return s.current().DeleteEnrollment(ctx, studentID, courseCode)
}

func (s *Selector) IncrementEnrollment(ctx context.Context, courseCode string) error {
	return s.current().IncrementEnrollment(ctx, courseCode)
}

func (s *Selector) DecrementEnrollment(ctx context.Context, courseCode string) error {
	return s.current().DecrementEnrollment(ctx, courseCode)
}
