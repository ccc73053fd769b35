package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/campuscore/catalog-api/internal/search"
)

func TestBuildVectorSearchPipelineWithoutFilters(t *testing.T) {
	pipeline := buildVectorSearchPipeline("vector_search", []float32{0.1, 0.2}, search.Filters{}, 100, 10)
	require.Len(t, pipeline, 2)

	stage := pipeline[0][0]
	require.Equal(t, "$vectorSearch", stage.Key)

	spec, ok := stage.Value.(bson.D)
	require.True(t, ok)
	fields := spec.Map()
	require.Equal(t, "vector_search", fields["index"])
	require.Equal(t, "embedding", fields["path"])
	require.Equal(t, 100, fields["numCandidates"])
	require.Equal(t, 10, fields["limit"])
	require.NotContains(t, fields, "filter", "no filters means no pre-filter clause")

	require.Equal(t, "$project", pipeline[1][0].Key)
}

func TestBuildVectorSearchPipelineWithFilters(t *testing.T) {
	filters := search.Filters{Term: "Fall 2026", Level: 2000, Instructor: "Dana Wells", Major: "CS"}
	pipeline := buildVectorSearchPipeline("vector_search", []float32{0.1}, filters, 100, 10)

	spec := pipeline[0][0].Value.(bson.D)
	filterValue, ok := spec.Map()["filter"]
	require.True(t, ok)

	compound := filterValue.(bson.D).Map()["compound"].(bson.D)
	conditions := compound.Map()["must"].(bson.A)
	require.Len(t, conditions, 4)

	paths := make([]string, 0, len(conditions))
	for _, condition := range conditions {
		equals := condition.(bson.D).Map()["equals"].(bson.D).Map()
		paths = append(paths, equals["path"].(string))
	}
	require.Equal(t, []string{"academic_term", "course_level", "instructor_name", "target_majors"}, paths)
}

func TestBuildFilterConditionsSkipsZeroValues(t *testing.T) {
	conditions := buildFilterConditions(search.Filters{Term: "Fall 2026"})
	require.Len(t, conditions, 1)

	equals := conditions[0].(bson.D).Map()["equals"].(bson.D).Map()
	require.Equal(t, "academic_term", equals["path"])
	require.Equal(t, "Fall 2026", equals["value"])
}
