package models

import (
	"strings"
	"time"
)

// Course is a catalog offering keyed by its short alphanumeric code
// (e.g. "INF2002"). CurrentEnrollment is owned exclusively by the
// enrollment engine; 0 <= CurrentEnrollment <= MaxCapacity is enforced
// there, not by a database constraint.
type Course struct {
	Code              string    `gorm:"primaryKey;size:16" json:"course_id"`
	Name              string    `gorm:"size:150;not null" json:"course_name"`
	Description       string    `gorm:"type:text" json:"description"`
	Credits           int       `json:"credits"`
	AcademicTerm      string    `gorm:"size:32;index" json:"academic_term"`
	MaxCapacity       int       `gorm:"not null" json:"max_capacity"`
	CurrentEnrollment int       `gorm:"not null;default:0" json:"current_enrollment"`
	InstructorID      *uint     `gorm:"index" json:"instructor_id,omitempty"`
	TargetMajorsRaw   string    `gorm:"column:target_majors;size:250" json:"-"`
	CreatedAt         time.Time `json:"created_at"`

	// Hydrated by the storage layer, not persisted.
	InstructorName string   `gorm:"-" json:"instructor_name"`
	PrereqCodes    []string `gorm:"-" json:"prerequisites"`
}

// SlotsLeft reports remaining seats, never negative.
func (c Course) SlotsLeft() int {
	left := c.MaxCapacity - c.CurrentEnrollment
	if left < 0 {
		return 0
	}
	return left
}

// TargetMajors splits the stored comma-separated list; a course with no
// explicit targets is open to all majors.
func (c Course) TargetMajors() []string {
	return SplitMajors(c.TargetMajorsRaw)
}

// SplitMajors parses "A,B" into ["A","B"], defaulting to ["All"] when the
// raw value is empty. Computed at ingestion time, never at query time.
func SplitMajors(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{"All"}
	}
	parts := strings.Split(raw, ",")
	majors := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			majors = append(majors, trimmed)
		}
	}
	if len(majors) == 0 {
		return []string{"All"}
	}
	return majors
}

// CourseLevel derives the numeric level from the first digit of the code:
// "INF2002" -> 2000. Codes without digits default to level 1000.
func CourseLevel(code string) int {
	for _, r := range code {
		if r >= '0' && r <= '9' {
			return int(r-'0') * 1000
		}
	}
	return 1000
}

// Prerequisite is a directed requirement edge: CourseCode cannot be taken
// before RequiresCode is completed. Self-loops are rejected at write time;
// the graph is not validated for cycles.
type Prerequisite struct {
	CourseCode   string `gorm:"primaryKey;size:16" json:"course_id"`
	RequiresCode string `gorm:"primaryKey;size:16" json:"requires_course_id"`
}
