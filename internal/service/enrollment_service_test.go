package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campuscore/catalog-api/internal/events"
	"github.com/campuscore/catalog-api/internal/models"
	"github.com/campuscore/catalog-api/internal/store"
)

func seedTestStudent(t *testing.T, db *gorm.DB, id uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{
		ID:        id,
		Email:     fmt.Sprintf("student%d@example.com", id),
		FirstName: "Student",
		LastName:  fmt.Sprintf("%d", id),
		Role:      models.RoleStudent,
		IsActive:  true,
		Student:   &models.StudentProfile{Major: "CS", EnrollmentYear: 2024},
	}).Error)
}

func currentEnrollment(t *testing.T, db *gorm.DB, code string) int {
	t.Helper()
	var course models.Course
	require.NoError(t, db.First(&course, "code = ?", code).Error)
	return course.CurrentEnrollment
}

func newTestEnrollmentService(st store.Store) EnrollmentService {
	publisher := events.NewPublisher(nil, "", zerolog.Nop())
	return NewEnrollmentService(st, nil, publisher, zerolog.Nop())
}

func TestEnrollSuccess(t *testing.T) {
	st, db := setupServiceDB(t)
	seedTestStudent(t, db, 1)
	seedTestCourse(t, db, "CS101", 30)

	svc := newTestEnrollmentService(st)

	confirmation, err := svc.Enroll(context.Background(), 1, "CS101")
	require.NoError(t, err)
	require.Equal(t, uint(1), confirmation.StudentID)
	require.Equal(t, "CS101", confirmation.CourseCode)
	require.Contains(t, confirmation.Message, "Successfully enrolled Student 1 in CS101")
	require.Equal(t, 1, currentEnrollment(t, db, "CS101"))
}

func TestEnrollUnknownStudent(t *testing.T) {
	st, db := setupServiceDB(t)
	seedTestCourse(t, db, "CS101", 30)

	svc := newTestEnrollmentService(st)

	_, err := svc.Enroll(context.Background(), 99, "CS101")
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestEnrollUnknownCourse(t *testing.T) {
	st, db := setupServiceDB(t)
	seedTestStudent(t, db, 1)

	svc := newTestEnrollmentService(st)

	_, err := svc.Enroll(context.Background(), 1, "NOPE999")
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestEnrollPrerequisiteGate(t *testing.T) {
	st, db := setupServiceDB(t)
	seedTestStudent(t, db, 1)
	seedTestCourse(t, db, "CS205", 30)
	seedTestCourse(t, db, "CS400", 30)
	require.NoError(t, db.Create(&models.Prerequisite{CourseCode: "CS400", RequiresCode: "CS205"}).Error)

	svc := newTestEnrollmentService(st)

	_, err := svc.Enroll(context.Background(), 1, "CS400")
	var prereqErr *PrerequisitesNotMetError
	require.ErrorAs(t, err, &prereqErr)
	require.Equal(t, []string{"CS205"}, prereqErr.Missing)

	// The rejection must not have written anything.
	require.Equal(t, 0, currentEnrollment(t, db, "CS400"))
	var count int64
	require.NoError(t, db.Model(&models.Enrollment{}).Where("student_id = ?", 1).Count(&count).Error)
	require.Zero(t, count)

	// Completing the prerequisite opens the gate.
	require.NoError(t, db.Create(&models.Enrollment{
		StudentID: 1, CourseCode: "CS205", Status: models.EnrollmentStatusCompleted,
	}).Error)

	_, err = svc.Enroll(context.Background(), 1, "CS400")
	require.NoError(t, err)
	require.Equal(t, 1, currentEnrollment(t, db, "CS400"))
}

func TestEnrollCapacityExceeded(t *testing.T) {
	st, db := setupServiceDB(t)
	seedTestStudent(t, db, 1)
	seedTestStudent(t, db, 2)
	seedTestCourse(t, db, "CS101", 1)

	svc := newTestEnrollmentService(st)

	_, err := svc.Enroll(context.Background(), 1, "CS101")
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), 2, "CS101")
	require.ErrorIs(t, err, ErrCapacityExceeded)
	require.Equal(t, 1, currentEnrollment(t, db, "CS101"))
}

func TestEnrollDuplicateRejected(t *testing.T) {
	st, db := setupServiceDB(t)
	seedTestStudent(t, db, 1)
	seedTestCourse(t, db, "CS101", 30)

	svc := newTestEnrollmentService(st)

	_, err := svc.Enroll(context.Background(), 1, "CS101")
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), 1, "CS101")
	require.ErrorIs(t, err, ErrAlreadyEnrolled)
	require.Equal(t, 1, currentEnrollment(t, db, "CS101"), "duplicate must not consume a second seat")
}

func TestDropReleasesSeat(t *testing.T) {
	st, db := setupServiceDB(t)
	seedTestStudent(t, db, 1)
	seedTestCourse(t, db, "CS101", 30)

	svc := newTestEnrollmentService(st)

	_, err := svc.Enroll(context.Background(), 1, "CS101")
	require.NoError(t, err)

	confirmation, err := svc.Drop(context.Background(), 1, "CS101")
	require.NoError(t, err)
	require.Contains(t, confirmation.Message, "Successfully dropped CS101")
	require.Equal(t, 0, currentEnrollment(t, db, "CS101"))

	_, err = svc.Drop(context.Background(), 1, "CS101")
	require.ErrorIs(t, err, ErrNotEnrolled)
}

func TestDropClampsCounterAtZero(t *testing.T) {
	st, db := setupServiceDB(t)
	seedTestStudent(t, db, 1)
	seedTestCourse(t, db, "CS101", 30)

	// Active row with an already drifted counter.
	require.NoError(t, db.Create(&models.Enrollment{
		StudentID: 1, CourseCode: "CS101", Status: models.EnrollmentStatusEnrolled,
	}).Error)

	svc := newTestEnrollmentService(st)

	_, err := svc.Drop(context.Background(), 1, "CS101")
	require.NoError(t, err)
	require.Equal(t, 0, currentEnrollment(t, db, "CS101"))
}

func TestConcurrentEnrollsNeverOversubscribe(t *testing.T) {
	st, db := setupServiceDB(t)
	seedTestCourse(t, db, "CS101", 1)
	const students = 5
	for id := uint(1); id <= students; id++ {
		seedTestStudent(t, db, id)
	}

	// Serialize connections so concurrent transactions queue instead of
	// tripping sqlite's writer lock; the capacity guard still decides.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	svc := newTestEnrollmentService(st)

	var wg sync.WaitGroup
	results := make(chan error, students)
	for id := uint(1); id <= students; id++ {
		wg.Add(1)
		go func(studentID uint) {
			defer wg.Done()
			_, err := svc.Enroll(context.Background(), studentID, "CS101")
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	var successes, rejections int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, ErrCapacityExceeded)
		rejections++
	}
	require.Equal(t, 1, successes, "exactly one student wins the last seat")
	require.Equal(t, students-1, rejections)
	require.Equal(t, 1, currentEnrollment(t, db, "CS101"))
}

func TestDropUnknownCourse(t *testing.T) {
	st, _ := setupServiceDB(t)
	svc := newTestEnrollmentService(st)

	_, err := svc.Drop(context.Background(), 1, "NOPE999")
	require.ErrorIs(t, err, ErrCourseNotFound)
}
