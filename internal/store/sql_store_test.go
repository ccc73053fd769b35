package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campuscore/catalog-api/internal/models"
)

func setupSQLStore(t *testing.T) (*SQLStore, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.StudentProfile{}, &models.InstructorProfile{},
		&models.Course{}, &models.Prerequisite{}, &models.Enrollment{},
	))
	return NewSQLStore(db), db
}

func seedCourse(t *testing.T, db *gorm.DB, code string, capacity, enrolled int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Course{
		Code:              code,
		Name:              "Course " + code,
		MaxCapacity:       capacity,
		CurrentEnrollment: enrolled,
	}).Error)
}

func seedStudent(t *testing.T, db *gorm.DB, id uint) {
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

func courseCounter(t *testing.T, db *gorm.DB, code string) int {
	t.Helper()
	var course models.Course
	require.NoError(t, db.First(&course, "code = ?", code).Error)
	return course.CurrentEnrollment
}

func TestFindCourseByCodeCaseInsensitive(t *testing.T) {
	store, db := setupSQLStore(t)
	ctx := context.Background()
	seedCourse(t, db, "INF2002", 30, 0)

	course, err := store.FindCourseByCode(ctx, "inf2002")
	require.NoError(t, err)
	require.Equal(t, "INF2002", course.Code)

	_, err = store.FindCourseByCode(ctx, "NOPE999")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindCoursesByCodesPreservesInputOrder(t *testing.T) {
	store, db := setupSQLStore(t)
	ctx := context.Background()
	seedCourse(t, db, "C1", 10, 0)
	seedCourse(t, db, "C2", 10, 0)
	seedCourse(t, db, "C3", 10, 0)

	courses, err := store.FindCoursesByCodes(ctx, []string{"C3", "C1", "C2"})
	require.NoError(t, err)
	require.Len(t, courses, 3)
	require.Equal(t, "C3", courses[0].Code)
	require.Equal(t, "C1", courses[1].Code)
	require.Equal(t, "C2", courses[2].Code)
}

func TestFindCoursesByCodesSkipsUnknown(t *testing.T) {
	store, db := setupSQLStore(t)
	ctx := context.Background()
	seedCourse(t, db, "C1", 10, 0)

	courses, err := store.FindCoursesByCodes(ctx, []string{"MISSING", "C1"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "C1", courses[0].Code)
}

func TestHydrationFillsInstructorAndPrerequisites(t *testing.T) {
	store, db := setupSQLStore(t)
	ctx := context.Background()

	instructorID := uint(7)
	require.NoError(t, db.Create(&models.User{
		ID:         instructorID,
		Email:      "wells@example.com",
		FirstName:  "Dana",
		LastName:   "Wells",
		Role:       models.RoleInstructor,
		IsActive:   true,
		Instructor: &models.InstructorProfile{DepartmentCode: "INF"},
	}).Error)

	require.NoError(t, db.Create(&models.Course{
		Code: "INF2002", Name: "HCI", MaxCapacity: 30, InstructorID: &instructorID,
	}).Error)
	seedCourse(t, db, "INF1001", 30, 0)
	require.NoError(t, db.Create(&models.Prerequisite{CourseCode: "INF2002", RequiresCode: "INF1001"}).Error)

	course, err := store.FindCourseByCode(ctx, "INF2002")
	require.NoError(t, err)
	require.Equal(t, "Dana Wells", course.InstructorName)
	require.Equal(t, []string{"INF1001"}, course.PrereqCodes)

	plain, err := store.FindCourseByCode(ctx, "INF1001")
	require.NoError(t, err)
	require.Equal(t, "TBA", plain.InstructorName)
	require.Empty(t, plain.PrereqCodes)
}

func TestCreateEnrollmentIncrementsCounter(t *testing.T) {
	store, db := setupSQLStore(t)
	ctx := context.Background()
	seedCourse(t, db, "CS101", 2, 0)
	seedStudent(t, db, 1)

	require.NoError(t, store.CreateEnrollment(ctx, 1, "CS101"))
	require.Equal(t, 1, courseCounter(t, db, "CS101"))

	enrollment, err := store.FindActiveEnrollment(ctx, 1, "CS101")
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusEnrolled, enrollment.Status)
}

func TestCreateEnrollmentRejectsWhenFull(t *testing.T) {
	store, db := setupSQLStore(t)
	ctx := context.Background()
	seedCourse(t, db, "CS101", 1, 0)

	require.NoError(t, store.CreateEnrollment(ctx, 1, "CS101"))
	err := store.CreateEnrollment(ctx, 2, "CS101")
	require.ErrorIs(t, err, ErrCapacityExceeded)

	// The rejected enrollment must leave no partial state behind.
	require.Equal(t, 1, courseCounter(t, db, "CS101"))
	_, err = store.FindActiveEnrollment(ctx, 2, "CS101")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateEnrollmentRejectsDuplicate(t *testing.T) {
	store, db := setupSQLStore(t)
	ctx := context.Background()
	seedCourse(t, db, "CS101", 5, 0)

	require.NoError(t, store.CreateEnrollment(ctx, 1, "CS101"))
	err := store.CreateEnrollment(ctx, 1, "CS101")
	require.ErrorIs(t, err, ErrAlreadyEnrolled)
	require.Equal(t, 1, courseCounter(t, db, "CS101"), "counter must not double count")
}

func TestCreateEnrollmentUnknownCourse(t *testing.T) {
	store, _ := setupSQLStore(t)
	err := store.CreateEnrollment(context.Background(), 1, "NOPE999")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteEnrollmentReleasesSeat(t *testing.T) {
	store, db := setupSQLStore(t)
	ctx := context.Background()
	seedCourse(t, db, "CS101", 5, 0)

	require.NoError(t, store.CreateEnrollment(ctx, 1, "CS101"))
	require.NoError(t, store.DeleteEnrollment(ctx, 1, "CS101"))
	require.Equal(t, 0, courseCounter(t, db, "CS101"))

	err := store.DeleteEnrollment(ctx, 1, "CS101")
	require.ErrorIs(t, err, ErrNotEnrolled)
}

func TestDeleteEnrollmentClampsCounterAtZero(t *testing.T) {
	store, db := setupSQLStore(t)
	ctx := context.Background()

	// Counter already drifted to zero despite an active row.
	seedCourse(t, db, "CS101", 5, 0)
	require.NoError(t, db.Create(&models.Enrollment{
		StudentID: 1, CourseCode: "CS101", Status: models.EnrollmentStatusEnrolled,
	}).Error)

	require.NoError(t, store.DeleteEnrollment(ctx, 1, "CS101"))
	require.Equal(t, 0, courseCounter(t, db, "CS101"))
}

func TestIncrementAndDecrementGuards(t *testing.T) {
	store, db := setupSQLStore(t)
	ctx := context.Background()
	seedCourse(t, db, "CS101", 1, 0)

	require.NoError(t, store.IncrementEnrollment(ctx, "CS101"))
	require.ErrorIs(t, store.IncrementEnrollment(ctx, "CS101"), ErrCapacityExceeded)
	require.ErrorIs(t, store.IncrementEnrollment(ctx, "NOPE999"), ErrNotFound)

	require.NoError(t, store.DecrementEnrollment(ctx, "CS101"))
	require.NoError(t, store.DecrementEnrollment(ctx, "CS101"), "decrement at zero is a clamped no-op")
	require.Equal(t, 0, courseCounter(t, db, "CS101"))
	require.ErrorIs(t, store.DecrementEnrollment(ctx, "NOPE999"), ErrNotFound)
}

func TestCompletedAndRequiredCourseCodes(t *testing.T) {
	store, db := setupSQLStore(t)
	ctx := context.Background()
	seedCourse(t, db, "CS205", 30, 0)
	seedCourse(t, db, "CS400", 30, 0)
	require.NoError(t, db.Create(&models.Prerequisite{CourseCode: "CS400", RequiresCode: "CS205"}).Error)
	require.NoError(t, db.Create(&models.Enrollment{
		StudentID: 1, CourseCode: "CS205", Status: models.EnrollmentStatusCompleted,
	}).Error)
	require.NoError(t, db.Create(&models.Enrollment{
		StudentID: 1, CourseCode: "CS400", Status: models.EnrollmentStatusEnrolled,
	}).Error)

	required, err := store.FindRequiredCourseCodes(ctx, "CS400")
	require.NoError(t, err)
	require.Contains(t, required, "CS205")
	require.Len(t, required, 1)

	completed, err := store.FindCompletedCourseCodes(ctx, 1)
	require.NoError(t, err)
	require.Contains(t, completed, "CS205")
	require.NotContains(t, completed, "CS400", "active enrollments are not completions")
}

func TestFindStudentRequiresProfile(t *testing.T) {
	store, db := setupSQLStore(t)
	ctx := context.Background()
	seedStudent(t, db, 1)
	require.NoError(t, db.Create(&models.User{
		ID: 2, Email: "plain@example.com", FirstName: "No", LastName: "Profile", Role: models.RoleAdmin,
	}).Error)

	student, err := store.FindStudent(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, student.Student)

	_, err = store.FindStudent(ctx, 2)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindStudent(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
}
