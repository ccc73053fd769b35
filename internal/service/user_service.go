package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campuscore/catalog-api/internal/dto"
	"github.com/campuscore/catalog-api/internal/store"
)

// UserService serves read-only user and profile lookups. Admin CRUD
// screens live outside this service; it only reads.
type UserService interface {
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	GetStudent(ctx context.Context, userID uint) (dto.StudentDetailResponse, error)
	GetInstructor(ctx context.Context, userID uint) (dto.InstructorDetailResponse, error)
}

type userService struct {
	store  store.Store
	logger zerolog.Logger
}

// NewUserService constructs the user read service.
func NewUserService(st store.Store, logger zerolog.Logger) UserService {
	return &userService{
		store:  st,
		logger: logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return dto.NewUserResponseSlice(users), nil
}

func (s *userService) GetStudent(ctx context.Context, userID uint) (dto.StudentDetailResponse, error) {
	user, err := s.store.FindStudent(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dto.StudentDetailResponse{}, ErrStudentNotFound
		}
		return dto.StudentDetailResponse{}, fmt.Errorf("get student: %w", err)
	}
	return dto.NewStudentDetailResponse(user), nil
}

func (s *userService) GetInstructor(ctx context.Context, userID uint) (dto.InstructorDetailResponse, error) {
	user, err := s.store.FindInstructor(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dto.InstructorDetailResponse{}, ErrUserNotFound
		}
		return dto.InstructorDetailResponse{}, fmt.Errorf("get instructor: %w", err)
	}
	return dto.NewInstructorDetailResponse(user), nil
}
