package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campuscore/catalog-api/internal/config"
	"github.com/campuscore/catalog-api/internal/database"
	"github.com/campuscore/catalog-api/internal/events"
	"github.com/campuscore/catalog-api/internal/handler"
	"github.com/campuscore/catalog-api/internal/middleware"
	"github.com/campuscore/catalog-api/internal/models"
	"github.com/campuscore/catalog-api/internal/router"
	"github.com/campuscore/catalog-api/internal/search"
	"github.com/campuscore/catalog-api/internal/service"
	"github.com/campuscore/catalog-api/internal/store"
	"github.com/campuscore/catalog-api/pkg/embedding"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{}, &models.StudentProfile{}, &models.InstructorProfile{},
		&models.Course{}, &models.Prerequisite{}, &models.Enrollment{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := database.ConnectMongo(startupCtx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	mongoStore, err := store.NewMongoStore(startupCtx, mongoClient, store.MongoConfig{
		Database:        cfg.MongoDatabase,
		VectorIndexName: cfg.VectorIndexName,
	})
	if err != nil {
		log.Fatalf("failed to initialise mongo store: %v", err)
	}

	sqlStore := store.NewSQLStore(db)

	selector, err := store.NewSelector(map[string]store.Store{
		"sql":   sqlStore,
		"mongo": mongoStore,
	}, cfg.DefaultBackend, logger)
	if err != nil {
		log.Fatalf("failed to initialise storage backends: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not set, catalog caching disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSUrl != "" {
		natsConn, err = nats.Connect(cfg.NATSUrl)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not set, enrollment events disabled")
	}
	publisher := events.NewPublisher(natsConn, cfg.EventSubject, logger)

	var embedder search.Embedder
	if cfg.OpenAIAPIKey != "" {
		client, err := embedding.New(embedding.Config{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.EmbeddingModel,
			Dimensions: cfg.EmbeddingDim,
			Logger:     logger,
		})
		if err != nil {
			log.Fatalf("failed to create embedding client: %v", err)
		}
		embedder = client
	} else {
		logger.Warn().Msg("openai api key not set, semantic search and reindexing disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	searchService := service.NewSearchService(selector, mongoStore, embedder, service.SearchConfig{
		FuzzyCutoff:   cfg.FuzzyCutoff,
		NumCandidates: cfg.VectorCandidates,
		ResultLimit:   cfg.VectorLimit,
	}, logger)
	enrollmentService := service.NewEnrollmentService(selector, redisClient, publisher, logger)
	catalogService := service.NewCatalogService(selector, redisClient, cfg.CatalogCacheTTL, logger)
	userService := service.NewUserService(selector, logger)
	var indexService service.IndexService
	if embedder != nil {
		indexService = service.NewIndexService(sqlStore, mongoStore, embedder, logger)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, router.Dependencies{
		Config:     cfg,
		Selector:   selector,
		Search:     handler.NewSearchHandler(searchService, logger),
		Enrollment: handler.NewEnrollmentHandler(enrollmentService, validate, logger),
		Catalog:    handler.NewCatalogHandler(catalogService, logger),
		Users:      handler.NewUserHandler(userService, logger),
		Admin:      handler.NewAdminHandler(selector, indexService, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
