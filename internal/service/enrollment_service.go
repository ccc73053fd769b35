package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campuscore/catalog-api/internal/dto"
	"github.com/campuscore/catalog-api/internal/events"
	"github.com/campuscore/catalog-api/internal/observability"
	"github.com/campuscore/catalog-api/internal/store"
)

// EnrollmentService is the transactional enrollment engine. It owns the
// capacity and prerequisite invariants and is the only writer of the
// course seat counter.
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID uint, courseCode string) (dto.EnrollmentConfirmation, error)
	Drop(ctx context.Context, studentID uint, courseCode string) (dto.EnrollmentConfirmation, error)
}

type enrollmentService struct {
	store     store.Store
	redis     *redis.Client
	publisher *events.Publisher
	logger    zerolog.Logger
}

// NewEnrollmentService constructs the enrollment engine. The redis client
// and publisher are optional; when present, committed writes invalidate
// the catalog listing cache and emit an enrollment event.
func NewEnrollmentService(st store.Store, redisClient *redis.Client, publisher *events.Publisher, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		store:     st,
		redis:     redisClient,
		publisher: publisher,
		logger:    logger.With().Str("component", "enrollment_service").Logger(),
	}
}

// Enroll validates every precondition with storage-port reads, then
// commits the row insert and counter increment as one atomic backend
// write. A validation failure never reaches the store's write path.
func (s *enrollmentService) Enroll(ctx context.Context, studentID uint, courseCode string) (dto.EnrollmentConfirmation, error) {
	student, err := s.store.FindStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dto.EnrollmentConfirmation{}, s.reject("enroll", ErrStudentNotFound)
		}
		return dto.EnrollmentConfirmation{}, fmt.Errorf("load student: %w", err)
	}

	course, err := s.store.FindCourseByCode(ctx, courseCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dto.EnrollmentConfirmation{}, s.reject("enroll", ErrCourseNotFound)
		}
		return dto.EnrollmentConfirmation{}, fmt.Errorf("load course: %w", err)
	}

	// Advisory pre-check; the authoritative guard sits inside the
	// backend's atomic write below.
	if course.CurrentEnrollment >= course.MaxCapacity {
		return dto.EnrollmentConfirmation{}, s.reject("enroll", ErrCapacityExceeded)
	}

	missing, err := s.missingPrerequisites(ctx, studentID, course.Code)
	if err != nil {
		return dto.EnrollmentConfirmation{}, err
	}
	if len(missing) > 0 {
		return dto.EnrollmentConfirmation{}, s.reject("enroll", &PrerequisitesNotMetError{Missing: missing})
	}

	if _, err := s.store.FindActiveEnrollment(ctx, studentID, course.Code); err == nil {
		return dto.EnrollmentConfirmation{}, s.reject("enroll", ErrAlreadyEnrolled)
	} else if !errors.Is(err, store.ErrNotFound) {
		return dto.EnrollmentConfirmation{}, fmt.Errorf("check active enrollment: %w", err)
	}

	if err := s.store.CreateEnrollment(ctx, studentID, course.Code); err != nil {
		switch {
		case errors.Is(err, store.ErrCapacityExceeded):
			return dto.EnrollmentConfirmation{}, s.reject("enroll", ErrCapacityExceeded)
		case errors.Is(err, store.ErrAlreadyEnrolled):
			return dto.EnrollmentConfirmation{}, s.reject("enroll", ErrAlreadyEnrolled)
		case errors.Is(err, store.ErrNotFound):
			return dto.EnrollmentConfirmation{}, s.reject("enroll", ErrCourseNotFound)
		default:
			return dto.EnrollmentConfirmation{}, fmt.Errorf("commit enrollment: %w", err)
		}
	}

	s.afterWrite(ctx, events.TypeEnrolled, studentID, course.Code)
	observability.EnrollmentOutcomes().WithLabelValues("enroll", "success").Inc()

	return dto.EnrollmentConfirmation{
		StudentID:  studentID,
		CourseCode: course.Code,
		Message:    fmt.Sprintf("Successfully enrolled %s in %s - %s.", student.DisplayName(), course.Code, course.Name),
	}, nil
}

// Drop retires the active enrollment and releases the seat, with the
// counter clamped at zero by the backend.
func (s *enrollmentService) Drop(ctx context.Context, studentID uint, courseCode string) (dto.EnrollmentConfirmation, error) {
	course, err := s.store.FindCourseByCode(ctx, courseCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dto.EnrollmentConfirmation{}, s.reject("drop", ErrCourseNotFound)
		}
		return dto.EnrollmentConfirmation{}, fmt.Errorf("load course: %w", err)
	}

	if err := s.store.DeleteEnrollment(ctx, studentID, course.Code); err != nil {
		if errors.Is(err, store.ErrNotEnrolled) {
			return dto.EnrollmentConfirmation{}, s.reject("drop", ErrNotEnrolled)
		}
		return dto.EnrollmentConfirmation{}, fmt.Errorf("commit drop: %w", err)
	}

	s.afterWrite(ctx, events.TypeDropped, studentID, course.Code)
	observability.EnrollmentOutcomes().WithLabelValues("drop", "success").Inc()

	return dto.EnrollmentConfirmation{
		StudentID:  studentID,
		CourseCode: course.Code,
		Message:    fmt.Sprintf("Successfully dropped %s - %s.", course.Code, course.Name),
	}, nil
}

// missingPrerequisites returns required − completed, sorted for stable
// error messages.
func (s *enrollmentService) missingPrerequisites(ctx context.Context, studentID uint, courseCode string) ([]string, error) {
	required, err := s.store.FindRequiredCourseCodes(ctx, courseCode)
	if err != nil {
		return nil, fmt.Errorf("load prerequisites: %w", err)
	}
	if len(required) == 0 {
		return nil, nil
	}

	completed, err := s.store.FindCompletedCourseCodes(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load completed courses: %w", err)
	}

	missing := make([]string, 0, len(required))
	for code := range required {
		if _, ok := completed[code]; !ok {
			missing = append(missing, code)
		}
	}
	sort.Strings(missing)
	return missing, nil
}

func (s *enrollmentService) reject(operation string, err error) error {
	observability.EnrollmentOutcomes().WithLabelValues(operation, "rejected").Inc()
	return err
}

// afterWrite performs the best-effort side effects of a committed write:
// catalog cache invalidation and event publication.
func (s *enrollmentService) afterWrite(ctx context.Context, eventType string, studentID uint, courseCode string) {
	if s.redis != nil {
		if err := s.redis.Del(ctx, catalogCacheKey).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("invalidate catalog cache")
		}
	}
	s.publisher.EnrollmentChanged(events.EnrollmentEvent{
		Type:       eventType,
		StudentID:  studentID,
		CourseCode: courseCode,
		Backend:    s.store.Name(),
	})
}
