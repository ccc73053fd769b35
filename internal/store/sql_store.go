package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/campuscore/catalog-api/internal/models"
)

// SQLStore implements the storage port against the normalized relational
// schema. Enrollment writes run inside a single transaction with a
// compare-and-swap counter update, so the committed counter can never
// exceed capacity even under concurrent enrolls.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore constructs the relational backend.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Name identifies the backend.
func (s *SQLStore) Name() string { return "sql" }

func (s *SQLStore) FindCourseByCode(ctx context.Context, code string) (models.Course, error) {
	var course models.Course
	err := s.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, fmt.Errorf("course %s: %w", code, ErrNotFound)
		}
		return models.Course{}, fmt.Errorf("find course: %w", err)
	}
	if err := s.hydrateCourses(ctx, []*models.Course{&course}); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (s *SQLStore) FindCoursesByCodes(ctx context.Context, codes []string) ([]models.Course, error) {
	if len(codes) == 0 {
		return []models.Course{}, nil
	}

	upper := make([]string, len(codes))
	for i, code := range codes {
		upper[i] = strings.ToUpper(code)
	}

	var fetched []models.Course
	if err := s.db.WithContext(ctx).Where("UPPER(code) IN ?", upper).Find(&fetched).Error; err != nil {
		return nil, fmt.Errorf("find courses by codes: %w", err)
	}

	byCode := make(map[string]models.Course, len(fetched))
	for _, course := range fetched {
		byCode[strings.ToUpper(course.Code)] = course
	}

	// Re-emit in input order so callers can align relevance scores.
	ordered := make([]models.Course, 0, len(codes))
	for _, code := range upper {
		if course, ok := byCode[code]; ok {
			ordered = append(ordered, course)
		}
	}

	refs := make([]*models.Course, len(ordered))
	for i := range ordered {
		refs[i] = &ordered[i]
	}
	if err := s.hydrateCourses(ctx, refs); err != nil {
		return nil, err
	}
	return ordered, nil
}

func (s *SQLStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := s.db.WithContext(ctx).Order("code").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	refs := make([]*models.Course, len(courses))
	for i := range courses {
		refs[i] = &courses[i]
	}
	if err := s.hydrateCourses(ctx, refs); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *SQLStore) ListCourseCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := s.db.WithContext(ctx).Model(&models.Course{}).Order("code").Pluck("code", &codes).Error; err != nil {
		return nil, fmt.Errorf("list course codes: %w", err)
	}
	return codes, nil
}

// hydrateCourses fills instructor display names and prerequisite summaries
// for the given courses with two batched lookups.
func (s *SQLStore) hydrateCourses(ctx context.Context, courses []*models.Course) error {
	if len(courses) == 0 {
		return nil
	}

	instructorIDs := make([]uint, 0, len(courses))
	codes := make([]string, 0, len(courses))
	for _, course := range courses {
		codes = append(codes, course.Code)
		if course.InstructorID != nil {
			instructorIDs = append(instructorIDs, *course.InstructorID)
		}
	}

	names := make(map[uint]string)
	if len(instructorIDs) > 0 {
		var users []models.User
		if err := s.db.WithContext(ctx).Where("id IN ?", instructorIDs).Find(&users).Error; err != nil {
			return fmt.Errorf("hydrate instructors: %w", err)
		}
		for _, user := range users {
			names[user.ID] = user.DisplayName()
		}
	}

	var edges []models.Prerequisite
	if err := s.db.WithContext(ctx).Where("course_code IN ?", codes).Find(&edges).Error; err != nil {
		return fmt.Errorf("hydrate prerequisites: %w", err)
	}
	prereqs := make(map[string][]string)
	for _, edge := range edges {
		prereqs[edge.CourseCode] = append(prereqs[edge.CourseCode], edge.RequiresCode)
	}

	for _, course := range courses {
		course.InstructorName = "TBA"
		if course.InstructorID != nil {
			if name, ok := names[*course.InstructorID]; ok {
				course.InstructorName = name
			}
		}
		course.PrereqCodes = prereqs[course.Code]
		if course.PrereqCodes == nil {
			course.PrereqCodes = []string{}
		}
	}
	return nil
}

func (s *SQLStore) FindUserByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Student").
		Preload("Instructor").
		First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *SQLStore) FindStudent(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if user.Student == nil {
		return models.User{}, fmt.Errorf("student %d: %w", userID, ErrNotFound)
	}
	return user, nil
}

func (s *SQLStore) FindInstructor(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if user.Instructor == nil {
		return models.User{}, fmt.Errorf("instructor %d: %w", userID, ErrNotFound)
	}
	return user, nil
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Preload("Student").
		Preload("Instructor").
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *SQLStore) FindCompletedCourseCodes(ctx context.Context, studentID uint) (map[string]struct{}, error) {
	var codes []string
	err := s.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND status = ?", studentID, models.EnrollmentStatusCompleted).
		Pluck("course_code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("find completed courses: %w", err)
	}
	return codeSet(codes), nil
}

func (s *SQLStore) FindRequiredCourseCodes(ctx context.Context, courseCode string) (map[string]struct{}, error) {
	var codes []string
	err := s.db.WithContext(ctx).
		Model(&models.Prerequisite{}).
		Where("course_code = ?", courseCode).
		Pluck("requires_code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("find required courses: %w", err)
	}
	return codeSet(codes), nil
}

func (s *SQLStore) FindActiveEnrollment(ctx context.Context, studentID uint, courseCode string) (models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND course_code = ? AND status IN ?",
			studentID, courseCode,
			[]string{models.EnrollmentStatusEnrolled, models.EnrollmentStatusWaitlisted}).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Enrollment{}, ErrNotFound
		}
		return models.Enrollment{}, fmt.Errorf("find active enrollment: %w", err)
	}
	return enrollment, nil
}

func (s *SQLStore) ListStudentEnrollments(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("enrolled_at").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// CreateEnrollment inserts the row and bumps the counter in one
// transaction. The counter update carries the capacity guard in its WHERE
// clause, so two racing enrolls for the last seat cannot both commit.
func (s *SQLStore) CreateEnrollment(ctx context.Context, studentID uint, courseCode string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		enrollment := models.Enrollment{
			StudentID:  studentID,
			CourseCode: courseCode,
			Status:     models.EnrollmentStatusEnrolled,
			EnrolledAt: time.Now().UTC(),
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyEnrolled
			}
			return fmt.Errorf("create enrollment: %w", err)
		}

		result := tx.Model(&models.Course{}).
			Where("code = ? AND current_enrollment < max_capacity", courseCode).
			UpdateColumn("current_enrollment", gorm.Expr("current_enrollment + 1"))
		if result.Error != nil {
			return fmt.Errorf("increment enrollment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Rolls back the row insert as well.
			if err := s.courseExists(tx, courseCode); err != nil {
				return err
			}
			return ErrCapacityExceeded
		}
		return nil
	})
}

// DeleteEnrollment removes the active row and decrements the counter,
// clamped at zero to tolerate pre-existing undercount drift.
func (s *SQLStore) DeleteEnrollment(ctx context.Context, studentID uint, courseCode string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("student_id = ? AND course_code = ? AND status = ?",
			studentID, courseCode, models.EnrollmentStatusEnrolled).
			Delete(&models.Enrollment{})
		if result.Error != nil {
			return fmt.Errorf("delete enrollment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotEnrolled
		}

		update := tx.Model(&models.Course{}).
			Where("code = ? AND current_enrollment > 0", courseCode).
			UpdateColumn("current_enrollment", gorm.Expr("current_enrollment - 1"))
		if update.Error != nil {
			return fmt.Errorf("decrement enrollment: %w", update.Error)
		}
		// Zero rows means the counter was already at 0; leave it clamped.
		return nil
	})
}

func (s *SQLStore) IncrementEnrollment(ctx context.Context, courseCode string) error {
	result := s.db.WithContext(ctx).Model(&models.Course{}).
		Where("code = ? AND current_enrollment < max_capacity", courseCode).
		UpdateColumn("current_enrollment", gorm.Expr("current_enrollment + 1"))
	if result.Error != nil {
		return fmt.Errorf("increment enrollment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if err := s.courseExists(s.db.WithContext(ctx), courseCode); err != nil {
			return err
		}
		return ErrCapacityExceeded
	}
	return nil
}

func (s *SQLStore) DecrementEnrollment(ctx context.Context, courseCode string) error {
	result := s.db.WithContext(ctx).Model(&models.Course{}).
		Where("code = ? AND current_enrollment > 0", courseCode).
		UpdateColumn("current_enrollment", gorm.Expr("current_enrollment - 1"))
	if result.Error != nil {
		return fmt.Errorf("decrement enrollment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return s.courseExists(s.db.WithContext(ctx), courseCode)
	}
	return nil
}

func (s *SQLStore) courseExists(tx *gorm.DB, courseCode string) error {
	var count int64
	if err := tx.Model(&models.Course{}).Where("code = ?", courseCode).Count(&count).Error; err != nil {
		return fmt.Errorf("check course: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("course %s: %w", courseCode, ErrNotFound)
	}
	return nil
}

func codeSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}
