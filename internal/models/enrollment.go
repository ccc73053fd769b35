package models

import "time"

// Enrollment statuses. Enrolled and Waitlisted count as active for the
// duplicate-enrollment check; Completed feeds the prerequisite check.
const (
	EnrollmentStatusEnrolled   = "Enrolled"
	EnrollmentStatusWaitlisted = "Waitlisted"
	EnrollmentStatusCompleted  = "Completed"
	EnrollmentStatusDropped    = "Dropped"
)

// Enrollment links a student to a course they are taking or have taken.
// Rows are created and retired exclusively by the enrollment engine.
type Enrollment struct {
	StudentID  uint      `gorm:"primaryKey" json:"student_id"`
	CourseCode string    `gorm:"primaryKey;size:16" json:"course_id"`
	Status     string    `gorm:"size:16;not null;index" json:"status"`
	FinalGrade *string   `gorm:"size:4" json:"final_grade,omitempty"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// IsActive reports whether the enrollment blocks a second one for the pair.
func (e Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusEnrolled || e.Status == EnrollmentStatusWaitlisted
}
