package dto

import "github.com/campuscore/catalog-api/internal/models"

// CourseResponse is the catalog view of a course with hydrated instructor
// name, prerequisite summary and remaining seats.
type CourseResponse struct {
	CourseID          string   `json:"course_id"`
	CourseName        string   `json:"course_name"`
	Description       string   `json:"description"`
	Prerequisites     []string `json:"prerequisites"`
	Credits           int      `json:"credits"`
	AcademicTerm      string   `json:"academic_term"`
	MaxCapacity       int      `json:"max_capacity"`
	CurrentEnrollment int      `json:"current_enrollment"`
	SlotsLeft         int      `json:"slots_left"`
	InstructorName    string   `json:"instructor_name"`
	TargetMajors      []string `json:"target_majors"`
}

// NewCourseResponse maps a hydrated course into its API shape.
func NewCourseResponse(course models.Course) CourseResponse {
	prereqs := course.PrereqCodes
	if prereqs == nil {
		prereqs = []string{}
	}
	instructor := course.InstructorName
	if instructor == "" {
		instructor = "TBA"
	}
	return CourseResponse{
		CourseID:          course.Code,
		CourseName:        course.Name,
		Description:       course.Description,
		Prerequisites:     prereqs,
		Credits:           course.Credits,
		AcademicTerm:      course.AcademicTerm,
		MaxCapacity:       course.MaxCapacity,
		CurrentEnrollment: course.CurrentEnrollment,
		SlotsLeft:         course.SlotsLeft(),
		InstructorName:    instructor,
		TargetMajors:      course.TargetMajors(),
	}
}

// NewCourseResponseSlice maps a course list preserving order.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, len(courses))
	for i, course := range courses {
		responses[i] = NewCourseResponse(course)
	}
	return responses
}
