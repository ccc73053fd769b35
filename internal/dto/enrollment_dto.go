package dto

import "github.com/campuscore/catalog-api/internal/models"

// EnrollmentRequest is the payload for enroll and drop operations.
type EnrollmentRequest struct {
	StudentID  uint   `json:"student_id" validate:"required"`
	CourseCode string `json:"course_id" validate:"required,alphanum,max=16"`
}

// EnrollmentConfirmation is returned on a successful enroll or drop.
type EnrollmentConfirmation struct {
	StudentID  uint   `json:"student_id"`
	CourseCode string `json:"course_id"`
	Message    string `json:"message"`
}

// EnrollmentResponse is a student's enrollment record.
type EnrollmentResponse struct {
	CourseCode string  `json:"course_id"`
	Status     string  `json:"status"`
	FinalGrade *string `json:"final_grade,omitempty"`
	EnrolledAt string  `json:"enrolled_at"`
}

// NewEnrollmentResponseSlice maps enrollment records preserving order.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, len(enrollments))
	for i, enrollment := range enrollments {
		responses[i] = EnrollmentResponse{
			CourseCode: enrollment.CourseCode,
			Status:     enrollment.Status,
			FinalGrade: enrollment.FinalGrade,
			EnrolledAt: enrollment.EnrolledAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return responses
}
