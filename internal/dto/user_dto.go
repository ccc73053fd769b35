package dto

import "github.com/campuscore/catalog-api/internal/models"

// UserResponse is the listing view of a user account.
type UserResponse struct {
	ID           uint    `json:"id"`
	UniversityID *string `json:"university_id,omitempty"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	IsActive     bool    `json:"is_active"`
}

// StudentDetailResponse is the student-profile view of a user.
type StudentDetailResponse struct {
	UserResponse
	Major          string   `json:"major"`
	EnrollmentYear int      `json:"enrollment_year"`
	Standing       string   `json:"standing"`
	GPA            *float64 `json:"gpa,omitempty"`
}

// InstructorDetailResponse is the instructor-profile view of a user.
type InstructorDetailResponse struct {
	UserResponse
	DepartmentCode string `json:"department_code"`
	Title          string `json:"title"`
	Office         string `json:"office"`
}

// NewUserResponse maps a user into its listing shape.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		UniversityID: user.UniversityID,
		Name:         user.DisplayName(),
		Email:        user.Email,
		Role:         user.Role,
		IsActive:     user.IsActive,
	}
}

// NewUserResponseSlice maps a user list preserving order.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = NewUserResponse(user)
	}
	return responses
}

// NewStudentDetailResponse maps a user with a student profile.
func NewStudentDetailResponse(user models.User) StudentDetailResponse {
	detail := StudentDetailResponse{UserResponse: NewUserResponse(user)}
	if user.Student != nil {
		detail.Major = user.Student.Major
		detail.EnrollmentYear = user.Student.EnrollmentYear
		detail.Standing = user.Student.Standing
		detail.GPA = user.Student.GPA
	}
	return detail
}

// NewInstructorDetailResponse maps a user with an instructor profile.
func NewInstructorDetailResponse(user models.User) InstructorDetailResponse {
	detail := InstructorDetailResponse{UserResponse: NewUserResponse(user)}
	if user.Instructor != nil {
		detail.DepartmentCode = user.Instructor.DepartmentCode
		detail.Title = user.Instructor.Title
		detail.Office = user.Instructor.Office
	}
	return detail
}
