// Package embedding wraps the external text-embedding service behind the
// search.Embedder port: text in, fixed-length vector out, no side effects.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	embedDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalog",
		Subsystem: "embedding",
		Name:      "request_duration_seconds",
		Help:      "Duration of embedding requests",
	}, []string{"model"})

	embedFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Subsystem: "embedding",
		Name:      "request_failures_total",
		Help:      "Number of failed embedding requests",
	}, []string{"model"})
)

// Config defines configuration options for the OpenAI embedding client.
type Config struct {
	APIKey     string
	Model      string
	Dimensions int
	Logger     zerolog.Logger
}

// OpenAIEmbedder implements search.Embedder against the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	cfg    Config
	tracer trace.Tracer
	logger zerolog.Logger
}

// New builds an embedding client from the provided configuration.
func New(cfg Config) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = string(openai.SmallEmbedding3)
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &OpenAIEmbedder{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/campuscore/catalog-api/pkg/embedding"),
		logger: logger,
	}, nil
}

// Embed converts text into its embedding vector.
func (e *OpenAIEmbedder) Embed(parent context.Context, text string) ([]float32, error) {
	ctx, span := e.tracer.Start(parent, "embedding.embed", trace.WithAttributes(
		attribute.String("model", e.cfg.Model),
	))
	defer span.End()

	request := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.cfg.Model),
	}
	if e.cfg.Dimensions > 0 {
		request.Dimensions = e.cfg.Dimensions
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, request)
	embedDuration.WithLabelValues(e.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		embedFailures.WithLabelValues(e.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("openai embed: %w", err)
	}

	if len(resp.Data) == 0 {
		err := fmt.Errorf("no embedding data returned from openai")
		embedFailures.WithLabelValues(e.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return resp.Data[0].Embedding, nil
}
