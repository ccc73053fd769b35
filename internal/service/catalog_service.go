package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campuscore/catalog-api/internal/dto"
	"github.com/campuscore/catalog-api/internal/store"
)

// catalogCacheKey holds the cached course listing; enrollment writes
// invalidate it so seat counts never go stale beyond one write.
const catalogCacheKey = "catalog:courses"

// CatalogService serves read-only course and enrollment views.
type CatalogService interface {
	ListCourses(ctx context.Context) ([]dto.CourseResponse, error)
	GetCourse(ctx context.Context, code string) (dto.CourseResponse, error)
	StudentEnrollments(ctx context.Context, studentID uint) ([]dto.EnrollmentResponse, error)
}

type catalogService struct {
	store  store.Store
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCatalogService constructs the catalog read service. The redis client
// is optional; without it every listing goes straight to the store.
func NewCatalogService(st store.Store, redisClient *redis.Client, ttl time.Duration, logger zerolog.Logger) CatalogService {
	return &catalogService{
		store:  st,
		redis:  redisClient,
		ttl:    ttl,
		logger: logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *catalogService) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, catalogCacheKey).Bytes()
		if err == nil {
			var responses []dto.CourseResponse
			if unmarshalErr := json.Unmarshal(cached, &responses); unmarshalErr == nil {
				return responses, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("catalog cache read failed")
		}
	}

	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	responses := dto.NewCourseResponseSlice(courses)

	if s.redis != nil {
		if payload, marshalErr := json.Marshal(responses); marshalErr == nil {
			if err := s.redis.Set(ctx, catalogCacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("catalog cache write failed")
			}
		}
	}
	return responses, nil
}

func (s *catalogService) GetCourse(ctx context.Context, code string) (dto.CourseResponse, error) {
	course, err := s.store.FindCourseByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, fmt.Errorf("get course: %w", err)
	}
	return dto.NewCourseResponse(course), nil
}

func (s *catalogService) StudentEnrollments(ctx context.Context, studentID uint) ([]dto.EnrollmentResponse, error) {
	if _, err := s.store.FindStudent(ctx, studentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("load student: %w", err)
	}

	enrollments, err := s.store.ListStudentEnrollments(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return dto.NewEnrollmentResponseSlice(enrollments), nil
}
