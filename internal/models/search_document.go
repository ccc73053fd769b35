package models

import "fmt"

// SearchDocument is the denormalised projection of a Course stored in the
// document backend for the semantic-vector strategy. It carries a
// precomputed embedding plus flattened instructor and major data, and a
// capacity snapshot that may lag the relational store. It is never the
// system of record for capacity or prerequisites.
type SearchDocument struct {
	CourseCode        string    `bson:"course_id" json:"course_id"`
	Name              string    `bson:"course_name" json:"course_name"`
	Description       string    `bson:"description" json:"description"`
	Embedding         []float32 `bson:"embedding" json:"-"`
	Credits           int       `bson:"credits" json:"credits"`
	AcademicTerm      string    `bson:"academic_term" json:"academic_term"`
	CourseLevel       int       `bson:"course_level" json:"course_level"`
	InstructorName    string    `bson:"instructor_name" json:"instructor_name"`
	TargetMajors      []string  `bson:"target_majors" json:"target_majors"`
	Prerequisites     []string  `bson:"prerequisites" json:"prerequisites"`
	MaxCapacity       int       `bson:"max_capacity" json:"max_capacity"`
	CurrentEnrollment int       `bson:"current_enrollment" json:"current_enrollment"`
}

// NewSearchDocument projects a hydrated course into its search form. The
// derived fields (level, majors) are fixed here, at ingestion time.
func NewSearchDocument(course Course, embedding []float32) SearchDocument {
	instructor := course.InstructorName
	if instructor == "" {
		instructor = "TBA"
	}
	prereqs := course.PrereqCodes
	if prereqs == nil {
		prereqs = []string{}
	}
	return SearchDocument{
		CourseCode:        course.Code,
		Name:              course.Name,
		Description:       course.Description,
		Embedding:         embedding,
		Credits:           course.Credits,
		AcademicTerm:      course.AcademicTerm,
		CourseLevel:       CourseLevel(course.Code),
		InstructorName:    instructor,
		TargetMajors:      course.TargetMajors(),
		Prerequisites:     prereqs,
		MaxCapacity:       course.MaxCapacity,
		CurrentEnrollment: course.CurrentEnrollment,
	}
}

// EmbeddingText builds the canonical text fed to the embedding model for a
// course. Keeping the format stable keeps re-indexing deterministic.
func EmbeddingText(course Course) string {
	instructor := course.InstructorName
	if instructor == "" {
		instructor = "TBA"
	}
	return fmt.Sprintf("%s %s: %s. Taught by %s. Credits: %d. Term: %s.",
		course.Code, course.Name, course.Description, instructor, course.Credits, course.AcademicTerm)
}
