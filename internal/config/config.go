package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the catalog API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	DatabaseURL      string
	MongoURI         string
	MongoDatabase    string
	RedisURL         string
	DefaultBackend   string
	VectorIndexName  string
	VectorCandidates int
	VectorLimit      int
	FuzzyCutoff      float64
	CatalogCacheTTL  time.Duration
	NATSUrl          string
	EventSubject     string
	OpenAIAPIKey     string
	EmbeddingModel   string
	EmbeddingDim     int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CATALOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Campus Catalog API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("mongo.database", "catalog")
	v.SetDefault("storage.backend", "sql")
	v.SetDefault("vector.index", "vector_search")
	v.SetDefault("vector.candidates", 100)
	v.SetDefault("vector.limit", 10)
	v.SetDefault("search.fuzzy_cutoff", 0.6)
	v.SetDefault("catalog.cache_ttl", "1m")
	v.SetDefault("events.subject", "catalog.enrollments")
	v.SetDefault("embedding.model", "text-embedding-3-small")

	ttlString := v.GetString("catalog.cache_ttl")
	if ttlString == "" {
		ttlString = "1m"
	}
	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid catalog cache ttl: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		DatabaseURL:      v.GetString("database.url"),
		MongoURI:         v.GetString("mongo.uri"),
		MongoDatabase:    v.GetString("mongo.database"),
		RedisURL:         v.GetString("redis.url"),
		DefaultBackend:   strings.ToLower(v.GetString("storage.backend")),
		VectorIndexName:  v.GetString("vector.index"),
		VectorCandidates: v.GetInt("vector.candidates"),
		VectorLimit:      v.GetInt("vector.limit"),
		FuzzyCutoff:      v.GetFloat64("search.fuzzy_cutoff"),
		CatalogCacheTTL:  ttl,
		NATSUrl:          v.GetString("nats.url"),
		EventSubject:     v.GetString("events.subject"),
		OpenAIAPIKey:     v.GetString("openai_api_key"),
		EmbeddingModel:   v.GetString("embedding.model"),
		EmbeddingDim:     v.GetInt("embedding.dimensions"),
	}

	if cfg.DefaultBackend != "sql" && cfg.DefaultBackend != "mongo" {
		return Config{}, fmt.Errorf("storage backend must be sql or mongo, got %q", cfg.DefaultBackend)
	}

	if cfg.VectorCandidates <= 0 {
		cfg.VectorCandidates = 100
	}
	if cfg.VectorLimit <= 0 {
		cfg.VectorLimit = 10
	}
	if cfg.FuzzyCutoff <= 0 || cfg.FuzzyCutoff > 1 {
		cfg.FuzzyCutoff = 0.6
	}

	return cfg, nil
}
