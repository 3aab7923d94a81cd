package bootstrap

import (
	"context"
	"log"

	"ai-medreport-be/internal/config"
	"ai-medreport-be/internal/controller"
	"ai-medreport-be/internal/pkg/logger"
	"ai-medreport-be/internal/repository/implementation"
	"ai-medreport-be/internal/service"
	"ai-medreport-be/pkg/analysis"
	"ai-medreport-be/pkg/analysis/aiclient"
	"ai-medreport-be/pkg/analysis/cache"
	"ai-medreport-be/pkg/analysis/classifier"
	"ai-medreport-be/pkg/analysis/ratelimit"
	"ai-medreport-be/pkg/llm/factory"

	pktNats "ai-medreport-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const reportAnalyzedTopic = "REPORT_ANALYZED"

type Container struct {
	// Controllers
	ReportController controller.IReportController
	HealthController controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	auditLogger := logger.NewIsolatedLogger(cfg.App.EventLogFilePath)

	reportRepo := implementation.NewReportRepository(db)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	var rdb *redis.Client
	if cfg.Cache.Backend == "redis" || cfg.RateLimit.Backend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// 3. Analysis Pipeline
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.APIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	aiClient := aiclient.New(llmProvider, aiclient.Config{
		Policy: aiclient.RetryPolicy{
			MaxAttempts: cfg.Ai.MaxRetries,
			BaseDelay:   cfg.Ai.BaseDelay,
			MaxDelay:    cfg.Ai.MaxDelay,
		},
		AttemptTimeout: cfg.Ai.AttemptTimeout,
		Temperature:    cfg.Ai.Temperature,
		MaxTokens:      cfg.Ai.MaxTokens,
		ProviderRPS:    cfg.Ai.ProviderRPS,
		ProviderBurst:  cfg.Ai.ProviderBurst,
	})

	var cacheStore cache.Store
	if cfg.Cache.Backend == "redis" && rdb != nil {
		cacheStore = cache.NewRedisStore(rdb)
		log.Printf("[INFO] Using Cache Backend: REDIS")
	} else {
		cacheStore = cache.NewMemoryStore(cfg.Cache.TTL, 2*cfg.Cache.TTL)
		log.Printf("[INFO] Using Cache Backend: MEMORY")
	}
	resultCache := cache.New(cacheStore, cfg.Cache.TTL, sysLogger)

	var window ratelimit.Window
	if cfg.RateLimit.Backend == "redis" && rdb != nil {
		window = ratelimit.NewRedisWindow(rdb, cfg.RateLimit.Capacity, cfg.RateLimit.Window)
		log.Printf("[INFO] Using Rate Limit Backend: REDIS")
	} else {
		window = ratelimit.NewMemoryWindow(cfg.RateLimit.Capacity, cfg.RateLimit.Window)
		log.Printf("[INFO] Using Rate Limit Backend: MEMORY")
	}

	cls := classifier.New(classifier.Config{
		AIThreshold:        cfg.Classify.AIThreshold,
		FallbackConfidence: cfg.Classify.FallbackConfidence,
		SpecialtyKeywords:  classifier.DefaultSpecialtyKeywords,
		RiskKeywords:       classifier.DefaultRiskKeywords,
	})

	engine := analysis.NewEngine(analysis.Config{
		ChunkMaxChars:  cfg.Chunking.MaxChars,
		ChunkOverlap:   cfg.Chunking.Overlap,
		ChunkBacktrack: cfg.Chunking.Backtrack,
		Concurrency:    cfg.Ai.Concurrency,
		ClientLimit:    cfg.RateLimit.Capacity,
	}, aiClient, resultCache, cls, window, sysLogger)

	// 4. Services
	publisherService := service.NewPublisherService(reportAnalyzedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		reportAnalyzedTopic,
		reportRepo,
		natsPub,
		auditLogger,
	)

	// Start Service (Worker)
	if natsSub != nil {
		auditListener := service.NewAuditListenerService(natsSub, auditLogger)
		go func() {
			if err := auditListener.Start(); err != nil {
				log.Printf("[WARN] Audit listener failed to subscribe: %v", err)
			}
		}()
	}

	reportService := service.NewReportService(engine, reportRepo, publisherService)

	// 5. Controllers
	reportController := controller.NewReportController(reportService)
	healthController := controller.NewHealthController(db, rdb, cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	return &Container{
		ReportController: reportController,
		HealthController: healthController,
		ConsumerService:  consumerService,
		Logger:           sysLogger,
	}
}
