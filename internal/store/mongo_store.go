package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuscore/catalog-api/internal/models"
)

const (
	coursesCollection     = "courses"
	usersCollection       = "users"
	enrollmentsCollection = "enrollments"
)

// MongoStore implements the storage port against denormalised course
// documents that also carry the search embeddings. It has no multi-row
// transactions here, so enrollment writes rely on the atomic conditional
// $inc on the counter field plus a compensating delete when the guard
// fails. It additionally implements search.VectorIndex.
type MongoStore struct {
	db              *mongo.Database
	vectorIndexName string
}

// MongoConfig carries the knobs the document backend needs.
type MongoConfig struct {
	Database        string
	VectorIndexName string
}

// NewMongoStore constructs the document backend and ensures its indexes.
func NewMongoStore(ctx context.Context, client *mongo.Client, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo database name must not be empty")
	}
	if cfg.VectorIndexName == "" {
		cfg.VectorIndexName = "vector_search"
	}

	s := &MongoStore{
		db:              client.Database(cfg.Database),
		vectorIndexName: cfg.VectorIndexName,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Name identifies the backend.
func (s *MongoStore) Name() string { return "mongo" }

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(enrollmentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "course_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure enrollment index: %w", err)
	}

	_, err = s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure user index: %w", err)
	}

	_, err = s.db.Collection(coursesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "course_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure course index: %w", err)
	}
	return nil
}

type userDocument struct {
	UserID         uint     `bson:"user_id"`
	UniversityID   *string  `bson:"university_id,omitempty"`
	Email          string   `bson:"email"`
	FirstName      string   `bson:"first_name"`
	LastName       string   `bson:"last_name"`
	Role           string   `bson:"role"`
	IsActive       bool     `bson:"is_active"`
	Major          string   `bson:"major,omitempty"`
	EnrollmentYear int      `bson:"enrollment_year,omitempty"`
	Standing       string   `bson:"standing,omitempty"`
	GPA            *float64 `bson:"gpa,omitempty"`
	DepartmentCode string   `bson:"dept,omitempty"`
	Title          string   `bson:"title,omitempty"`
	Office         string   `bson:"office,omitempty"`
}

func (d userDocument) toUser() models.User {
	user := models.User{
		ID:           d.UserID,
		UniversityID: d.UniversityID,
		Email:        d.Email,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Role:         d.Role,
		IsActive:     d.IsActive,
	}
	switch d.Role {
	case models.RoleStudent:
		user.Student = &models.StudentProfile{
			UserID:         d.UserID,
			Major:          d.Major,
			EnrollmentYear: d.EnrollmentYear,
			Standing:       d.Standing,
			GPA:            d.GPA,
		}
	case models.RoleInstructor:
		user.Instructor = &models.InstructorProfile{
			UserID:         d.UserID,
			DepartmentCode: d.DepartmentCode,
			Title:          d.Title,
			Office:         d.Office,
		}
	}
	return user
}

type enrollmentDocument struct {
	StudentID  uint      `bson:"student_id"`
	CourseCode string    `bson:"course_id"`
	Status     string    `bson:"status"`
	FinalGrade *string   `bson:"final_grade,omitempty"`
	EnrolledAt time.Time `bson:"enrolled_at"`
}

func (d enrollmentDocument) toEnrollment() models.Enrollment {
	return models.Enrollment{
		StudentID:  d.StudentID,
		CourseCode: d.CourseCode,
		Status:     d.Status,
		FinalGrade: d.FinalGrade,
		EnrolledAt: d.EnrolledAt,
	}
}

func docToCourse(doc models.SearchDocument) models.Course {
	return models.Course{
		Code:              doc.CourseCode,
		Name:              doc.Name,
		Description:       doc.Description,
		Credits:           doc.Credits,
		AcademicTerm:      doc.AcademicTerm,
		MaxCapacity:       doc.MaxCapacity,
		CurrentEnrollment: doc.CurrentEnrollment,
		TargetMajorsRaw:   strings.Join(doc.TargetMajors, ","),
		InstructorName:    doc.InstructorName,
		PrereqCodes:       append([]string{}, doc.Prerequisites...),
	}
}

func (s *MongoStore) FindCourseByCode(ctx context.Context, code string) (models.Course, error) {
	pattern := fmt.Sprintf("^%s$", regexp.QuoteMeta(strings.TrimSpace(code)))
	var doc models.SearchDocument
	err := s.db.Collection(coursesCollection).
		FindOne(ctx, bson.M{"course_id": bson.M{"$regex": pattern, "$options": "i"}}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Course{}, fmt.Errorf("course %s: %w", code, ErrNotFound)
		}
		return models.Course{}, fmt.Errorf("find course: %w", err)
	}
	return docToCourse(doc), nil
}

func (s *MongoStore) FindCoursesByCodes(ctx context.Context, codes []string) ([]models.Course, error) {
	if len(codes) == 0 {
		return []models.Course{}, nil
	}

	upper := make([]string, len(codes))
	for i, code := range codes {
		upper[i] = strings.ToUpper(code)
	}

	cursor, err := s.db.Collection(coursesCollection).Find(ctx, bson.M{"course_id": bson.M{"$in": upper}})
	if err != nil {
		return nil, fmt.Errorf("find courses by codes: %w", err)
	}
	var docs []models.SearchDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}

	byCode := make(map[string]models.Course, len(docs))
	for _, doc := range docs {
		byCode[strings.ToUpper(doc.CourseCode)] = docToCourse(doc)
	}

	// Mongo returns matches in storage order; re-emit in input order so
	// callers can align relevance scores.
	ordered := make([]models.Course, 0, len(codes))
	for _, code := range upper {
		if course, ok := byCode[code]; ok {
			ordered = append(ordered, course)
		}
	}
	return ordered, nil
}

func (s *MongoStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	cursor, err := s.db.Collection(coursesCollection).
		Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "course_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	var docs []models.SearchDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}

	courses := make([]models.Course, len(docs))
	for i, doc := range docs {
		courses[i] = docToCourse(doc)
	}
	return courses, nil
}

func (s *MongoStore) ListCourseCodes(ctx context.Context) ([]string, error) {
	cursor, err := s.db.Collection(coursesCollection).Find(ctx, bson.M{},
		options.Find().
			SetProjection(bson.M{"course_id": 1}).
			SetSort(bson.D{{Key: "course_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list course codes: %w", err)
	}
	var docs []struct {
		CourseCode string `bson:"course_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode course codes: %w", err)
	}
	codes := make([]string, len(docs))
	for i, doc := range docs {
		codes[i] = doc.CourseCode
	}
	return codes, nil
}

func (s *MongoStore) FindUserByID(ctx context.Context, id uint) (models.User, error) {
	var doc userDocument
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"user_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return doc.toUser(), nil
}

func (s *MongoStore) FindStudent(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if user.Student == nil {
		return models.User{}, fmt.Errorf("student %d: %w", userID, ErrNotFound)
	}
	return user, nil
}

func (s *MongoStore) FindInstructor(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if user.Instructor == nil {
		return models.User{}, fmt.Errorf("instructor %d: %w", userID, ErrNotFound)
	}
	return user, nil
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := s.db.Collection(usersCollection).
		Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "user_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]models.User, len(docs))
	for i, doc := range docs {
		users[i] = doc.toUser()
	}
	return users, nil
}

func (s *MongoStore) FindCompletedCourseCodes(ctx context.Context, studentID uint) (map[string]struct{}, error) {
	cursor, err := s.db.Collection(enrollmentsCollection).Find(ctx, bson.M{
		"student_id": studentID,
		"status":     models.EnrollmentStatusCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("find completed courses: %w", err)
	}
	var docs []enrollmentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode enrollments: %w", err)
	}
	set := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		set[doc.CourseCode] = struct{}{}
	}
	return set, nil
}

func (s *MongoStore) FindRequiredCourseCodes(ctx context.Context, courseCode string) (map[string]struct{}, error) {
	var doc models.SearchDocument
	err := s.db.Collection(coursesCollection).FindOne(ctx, bson.M{"course_id": courseCode}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("course %s: %w", courseCode, ErrNotFound)
		}
		return nil, fmt.Errorf("find required courses: %w", err)
	}
	set := make(map[string]struct{}, len(doc.Prerequisites))
	for _, code := range doc.Prerequisites {
		set[code] = struct{}{}
	}
	return set, nil
}

func (s *MongoStore) FindActiveEnrollment(ctx context.Context, studentID uint, courseCode string) (models.Enrollment, error) {
	var doc enrollmentDocument
	err := s.db.Collection(enrollmentsCollection).FindOne(ctx, bson.M{
		"student_id": studentID,
		"course_id":  courseCode,
		"status": bson.M{"$in": []string{
			models.EnrollmentStatusEnrolled,
			models.EnrollmentStatusWaitlisted,
		}},
	}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Enrollment{}, ErrNotFound
		}
		return models.Enrollment{}, fmt.Errorf("find active enrollment: %w", err)
	}
	return doc.toEnrollment(), nil
}

func (s *MongoStore) ListStudentEnrollments(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	cursor, err := s.db.Collection(enrollmentsCollection).Find(ctx,
		bson.M{"student_id": studentID},
		options.Find().SetSort(bson.D{{Key: "enrolled_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	var docs []enrollmentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode enrollments: %w", err)
	}
	enrollments := make([]models.Enrollment, len(docs))
	for i, doc := range docs {
		enrollments[i] = doc.toEnrollment()
	}
	return enrollments, nil
}

// CreateEnrollment inserts the enrollment document, then claims a seat
// with a guarded $inc. When the guard does not match (course gone or
// already full) the inserted document is removed again so no state where
// one write happened and the other didn't survives the call.
func (s *MongoStore) CreateEnrollment(ctx context.Context, studentID uint, courseCode string) error {
	doc := enrollmentDocument{
		StudentID:  studentID,
		CourseCode: courseCode,
		Status:     models.EnrollmentStatusEnrolled,
		EnrolledAt: time.Now().UTC(),
	}
	if _, err := s.db.Collection(enrollmentsCollection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyEnrolled
		}
		return fmt.Errorf("create enrollment: %w", err)
	}

	if err := s.IncrementEnrollment(ctx, courseCode); err != nil {
		// Compensate: take the enrollment document back out.
		if _, delErr := s.db.Collection(enrollmentsCollection).DeleteOne(ctx, bson.M{
			"student_id": studentID,
			"course_id":  courseCode,
		}); delErr != nil {
			return fmt.Errorf("compensate enrollment after %v: %w", err, delErr)
		}
		return err
	}
	return nil
}

// DeleteEnrollment removes the active enrollment and releases the seat,
// clamped so the counter never drops below zero.
func (s *MongoStore) DeleteEnrollment(ctx context.Context, studentID uint, courseCode string) error {
	result, err := s.db.Collection(enrollmentsCollection).DeleteOne(ctx, bson.M{
		"student_id": studentID,
		"course_id":  courseCode,
		"status":     models.EnrollmentStatusEnrolled,
	})
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotEnrolled
	}
	return s.DecrementEnrollment(ctx, courseCode)
}

// IncrementEnrollment claims a seat atomically; the capacity guard lives
// inside the update filter so racing increments cannot overshoot.
func (s *MongoStore) IncrementEnrollment(ctx context.Context, courseCode string) error {
	result, err := s.db.Collection(coursesCollection).UpdateOne(ctx,
		bson.M{
			"course_id": courseCode,
			"$expr":     bson.M{"$lt": bson.A{"$current_enrollment", "$max_capacity"}},
		},
		bson.M{"$inc": bson.M{"current_enrollment": 1}})
	if err != nil {
		return fmt.Errorf("increment enrollment: %w", err)
	}
	if result.MatchedCount == 0 {
		count, countErr := s.db.Collection(coursesCollection).CountDocuments(ctx, bson.M{"course_id": courseCode})
		if countErr != nil {
			return fmt.Errorf("check course: %w", countErr)
		}
		if count == 0 {
			return fmt.Errorf("course %s: %w", courseCode, ErrNotFound)
		}
		return ErrCapacityExceeded
	}
	return nil
}

// DecrementEnrollment releases a seat; a counter already at zero is left
// untouched rather than driven negative.
func (s *MongoStore) DecrementEnrollment(ctx context.Context, courseCode string) error {
	result, err := s.db.Collection(coursesCollection).UpdateOne(ctx,
		bson.M{
			"course_id":          courseCode,
			"current_enrollment": bson.M{"$gt": 0},
		},
		bson.M{"$inc": bson.M{"current_enrollment": -1}})
	if err != nil {
		return fmt.Errorf("decrement enrollment: %w", err)
	}
	if result.MatchedCount == 0 {
		count, countErr := s.db.Collection(coursesCollection).CountDocuments(ctx, bson.M{"course_id": courseCode})
		if countErr != nil {
			return fmt.Errorf("check course: %w", countErr)
		}
		if count == 0 {
			return fmt.Errorf("course %s: %w", courseCode, ErrNotFound)
		}
	}
	return nil
}

// UpsertSearchDocuments replaces the search projections for the given
// courses, keyed by course code. Used by the index rebuild.
func (s *MongoStore) UpsertSearchDocuments(ctx context.Context, docs []models.SearchDocument) error {
	collection := s.db.Collection(coursesCollection)
	for _, doc := range docs {
		_, err := collection.ReplaceOne(ctx,
			bson.M{"course_id": doc.CourseCode},
			doc,
			options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("upsert search document %s: %w", doc.CourseCode, err)
		}
	}
	return nil
}

// UpsertUser stores a user document, keyed by user id. Used by seeding.
func (s *MongoStore) UpsertUser(ctx context.Context, user models.User) error {
	doc := userDocument{
		UserID:       user.ID,
		UniversityID: user.UniversityID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Role:         user.Role,
		IsActive:     user.IsActive,
	}
	if user.Student != nil {
		doc.Major = user.Student.Major
		doc.EnrollmentYear = user.Student.EnrollmentYear
		doc.Standing = user.Student.Standing
		doc.GPA = user.Student.GPA
	}
	if user.Instructor != nil {
		doc.DepartmentCode = user.Instructor.DepartmentCode
		doc.Title = user.Instructor.Title
		doc.Office = user.Instructor.Office
	}
	_, err := s.db.Collection(usersCollection).ReplaceOne(ctx,
		bson.M{"user_id": user.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", user.ID, err)
	}
	return nil
}
