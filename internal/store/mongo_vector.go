package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campuscore/catalog-api/internal/search"
)

// Query runs an approximate-nearest-neighbour search over the course
// embeddings via the Atlas $vectorSearch stage, returning course codes and
// similarity scores in descending score order.
func (s *MongoStore) Query(ctx context.Context, vector []float32, filters search.Filters, numCandidates, limit int) ([]search.Hit, error) {
	pipeline := buildVectorSearchPipeline(s.vectorIndexName, vector, filters, numCandidates, limit)

	cursor, err := s.db.Collection(coursesCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	var rows []struct {
		CourseCode string  `bson:"course_id"`
		Score      float64 `bson:"score"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode vector hits: %w", err)
	}

	hits := make([]search.Hit, len(rows))
	for i, row := range rows {
		hits[i] = search.Hit{CourseCode: row.CourseCode, Score: row.Score}
	}
	return hits, nil
}

// buildVectorSearchPipeline assembles the $vectorSearch + $project stages.
// Filters become equality pre-filter conditions ANDed inside a compound
// must clause; the similarity score is surfaced via $meta.
func buildVectorSearchPipeline(indexName string, vector []float32, filters search.Filters, numCandidates, limit int) mongo.Pipeline {
	stage := bson.D{
		{Key: "index", Value: indexName},
		{Key: "path", Value: "embedding"},
		{Key: "queryVector", Value: vector},
		{Key: "numCandidates", Value: numCandidates},
		{Key: "limit", Value: limit},
	}
	if conditions := buildFilterConditions(filters); len(conditions) > 0 {
		stage = append(stage, bson.E{Key: "filter", Value: bson.D{
			{Key: "compound", Value: bson.D{{Key: "must", Value: conditions}}},
		}})
	}

	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: stage}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "course_id", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
}

func buildFilterConditions(filters search.Filters) bson.A {
	conditions := bson.A{}
	if filters.Term != "" {
		conditions = append(conditions, equalsCondition("academic_term", filters.Term))
	}
	if filters.Level != 0 {
		conditions = append(conditions, equalsCondition("course_level", filters.Level))
	}
	if filters.Instructor != "" {
		conditions = append(conditions, equalsCondition("instructor_name", filters.Instructor))
	}
	if filters.Major != "" {
		conditions = append(conditions, equalsCondition("target_majors", filters.Major))
	}
	return conditions
}

func equalsCondition(path string, value interface{}) bson.D {
	return bson.D{{Key: "equals", Value: bson.D{
		{Key: "path", Value: path},
		{Key: "value", Value: value},
	}}}
}
