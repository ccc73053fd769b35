package models

import "time"

// Role labels what a user account is for. The tag alone grants nothing; the
// presence of the matching profile record is the actual capability signal.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// User is the shared identity record. Student and Instructor details are
// composed as optional has-one profiles rather than subtypes.
type User struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	UniversityID *string            `gorm:"size:32;uniqueIndex" json:"university_id,omitempty"`
	Email        string             `gorm:"size:160;uniqueIndex;not null" json:"email"`
	FirstName    string             `gorm:"size:100;not null" json:"first_name"`
	LastName     string             `gorm:"size:100;not null" json:"last_name"`
	Role         string             `gorm:"size:16;not null;index" json:"role"`
	IsActive     bool               `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time          `json:"created_at"`
	Student      *StudentProfile    `gorm:"foreignKey:UserID" json:"student,omitempty"`
	Instructor   *InstructorProfile `gorm:"foreignKey:UserID" json:"instructor,omitempty"`
}

// DisplayName renders the user's full name for catalog listings.
func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// StudentProfile carries academic details for users with the student role.
type StudentProfile struct {
	UserID         uint     `gorm:"primaryKey" json:"user_id"`
	Major          string   `gorm:"size:100" json:"major"`
	EnrollmentYear int      `json:"enrollment_year"`
	Standing       string   `gorm:"size:32" json:"standing"`
	GPA            *float64 `json:"gpa,omitempty"`
}

// InstructorProfile carries teaching details for users with the instructor role.
type InstructorProfile struct {
	UserID         uint   `gorm:"primaryKey" json:"user_id"`
	DepartmentCode string `gorm:"size:16" json:"department_code"`
	Title          string `gorm:"size:64" json:"title"`
	Office         string `gorm:"size:64" json:"office"`
}
