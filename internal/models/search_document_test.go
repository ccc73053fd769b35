package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbeddingText(t *testing.T) {
	course := Course{
		Code:           "INF2002",
		Name:           "Human-Computer Interaction",
		Description:    "Designing usable interfaces",
		Credits:        3,
		AcademicTerm:   "Fall 2026",
		InstructorName: "Dana Wells",
	}

	require.Equal(t,
		"INF2002 Human-Computer Interaction: Designing usable interfaces. Taught by Dana Wells. Credits: 3. Term: Fall 2026.",
		EmbeddingText(course))
}

func TestEmbeddingTextDefaultsInstructor(t *testing.T) {
	course := Course{Code: "CS101", Name: "Intro", Description: "Basics", Credits: 4, AcademicTerm: "Spring 2026"}
	require.Contains(t, EmbeddingText(course), "Taught by TBA")
}

func TestNewSearchDocumentDerivesFields(t *testing.T) {
	course := Course{
		Code:              "INF2002",
		Name:              "Human-Computer Interaction",
		TargetMajorsRaw:   "CS,DS",
		MaxCapacity:       30,
		CurrentEnrollment: 12,
		PrereqCodes:       []string{"INF1001"},
		InstructorName:    "Dana Wells",
	}

	doc := NewSearchDocument(course, []float32{0.1, 0.2})
	require.Equal(t, 2000, doc.CourseLevel)
	require.Equal(t, []string{"CS", "DS"}, doc.TargetMajors)
	require.Equal(t, []string{"INF1001"}, doc.Prerequisites)
	require.Equal(t, []float32{0.1, 0.2}, doc.Embedding)
}

func TestNewSearchDocumentDefaults(t *testing.T) {
	doc := NewSearchDocument(Course{Code: "CS101"}, nil)
	require.Equal(t, "TBA", doc.InstructorName)
	require.Equal(t, []string{"All"}, doc.TargetMajors)
	require.NotNil(t, doc.Prerequisites)
	require.Empty(t, doc.Prerequisites)
}
