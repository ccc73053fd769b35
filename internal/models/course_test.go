package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCourseLevel(t *testing.T) {
	require.Equal(t, 2000, CourseLevel("INF2002"))
	require.Equal(t, 4000, CourseLevel("CS400"))
	require.Equal(t, 1000, CourseLevel("MATH1001"))
	require.Equal(t, 1000, CourseLevel("NOCODE"), "codes without digits default to 1000")
}

func TestSplitMajors(t *testing.T) {
	require.Equal(t, []string{"CS", "DS"}, SplitMajors("CS,DS"))
	require.Equal(t, []string{"CS", "DS"}, SplitMajors(" CS , DS "))
	require.Equal(t, []string{"All"}, SplitMajors(""))
	require.Equal(t, []string{"All"}, SplitMajors("  "))
	require.Equal(t, []string{"All"}, SplitMajors(",,"))
}

func TestSlotsLeftNeverNegative(t *testing.T) {
	require.Equal(t, 3, Course{MaxCapacity: 10, CurrentEnrollment: 7}.SlotsLeft())
	require.Equal(t, 0, Course{MaxCapacity: 10, CurrentEnrollment: 10}.SlotsLeft())
	require.Equal(t, 0, Course{MaxCapacity: 10, CurrentEnrollment: 12}.SlotsLeft())
}
