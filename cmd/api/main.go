package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resumeai-backend/config"
	_ "resumeai-backend/docs" // Important for Swagger
	v1 "resumeai-backend/internal/delivery/http/v1"
	"resumeai-backend/internal/domain"
	"resumeai-backend/internal/repository/memory"
	"resumeai-backend/internal/repository/postgres"
	redisrepo "resumeai-backend/internal/repository/redis"
	"resumeai-backend/internal/usecase"
	"resumeai-backend/pkg/auth"
	"resumeai-backend/pkg/billing"
	"resumeai-backend/pkg/database"
	"resumeai-backend/pkg/document"
	"resumeai-backend/pkg/email"
	"resumeai-backend/pkg/jobsearch"
	"resumeai-backend/pkg/llm"
	"resumeai-backend/pkg/llm/gemini"
	"resumeai-backend/pkg/llm/openai"
	"resumeai-backend/pkg/logger"
	"resumeai-backend/pkg/redis"
	"resumeai-backend/pkg/security"
	"resumeai-backend/pkg/security/antivirus"
	"resumeai-backend/pkg/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

// @title           ResumeAI API
// @version         1.0
// @description     Resume scoring, tailoring, job search and billing endpoints.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.Env)
	secLogger := security.InitSecurityLogger("resumeai-api", cfg.Env)
	defer secLogger.Sync()
	logger.Log.Info("Starting ResumeAI backend", "port", cfg.Port, "env", cfg.Env)

	ctx, stopSweepers := context.WithCancel(context.Background())
	defer stopSweepers()

	// 3. Setup Database (optional: features that need it degrade without it)
	var dbPool *pgxpool.Pool
	if cfg.DBUrl != "" {
		dbPool, err = database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if cfg.RunMigrations {
			if err := database.RunMigrations(ctx, dbPool); err != nil {
				logger.Log.Error("Failed to run migrations", "error", err)
				os.Exit(1)
			}
		}
	}

	// 4. Setup Redis (usage counters, search cache, burst and upload guards)
	if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory counters", "error", err)
	}
	defer redis.Close()

	// 5. Setup Repositories
	var (
		profileRepo domain.ProfileRepository
		resumeRepo  domain.ResumeProfileRepository
		inboxRepo   domain.InboxRepository
	)
	if dbPool != nil {
		profileRepo = postgres.NewProfileRepository(dbPool)
		resumeRepo = postgres.NewResumeProfileRepository(dbPool)
		inboxRepo = postgres.NewInboxRepository(dbPool)
	}
	usageStore, searchCache := buildStores(ctx, cfg, dbPool)

	// 6. Setup external clients
	llmClient := buildLLM(ctx, cfg)
	jobClient := jobsearch.NewClient(cfg.JobSearchAPIURL, cfg.JobSearchAPIKey, cfg.JobSearchAPIHost, cfg.JobSearchTimeout)
	var searcher domain.JobSearcher
	if cfg.JobSearchAPIKey != "" {
		searcher = jobClient
	} else {
		logger.Log.Warn("JOB_SEARCH_API_KEY not configured - job search will be unavailable")
	}

	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - send-email will be unavailable")
	}

	var identity domain.IdentityVerifier
	switch {
	case cfg.SupabaseUrl == "":
		logger.Log.Warn("SUPABASE_URL not configured - every caller resolves as free")
	case cfg.AuthMode == "remote":
		identity = auth.NewRemoteVerifier(cfg.SupabaseUrl, cfg.SupabaseKey, &http.Client{Timeout: 10 * time.Second})
	default:
		identity = auth.NewJWTVerifier(cfg.SupabaseJWTSecret, auth.NewJWKSProvider(auth.SupabaseJWKSURL(cfg.SupabaseUrl)))
	}

	archive := storage.NewResumeArchive(nil, "")
	s3Cfg := storage.Config{
		Provider:        storage.Provider(cfg.S3Provider),
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		Endpoint:        cfg.S3Endpoint,
	}
	if s3Cfg.Configured() {
		s3Client, err := storage.NewS3Client(ctx, s3Cfg)
		if err != nil {
			logger.Log.Warn("Resume archive disabled", "error", err)
		} else {
			archive = storage.NewResumeArchive(s3Client, cfg.S3Bucket)
		}
	}

	var scanner antivirus.Scanner = antivirus.NoOp{}
	var clamd *antivirus.ClamAV
	if cfg.ClamAVAddress != "" {
		clamd = antivirus.NewClamAV(cfg.ClamAVAddress, 30*time.Second)
		scanner = clamd
	}

	// 7. Setup UseCases
	fallbackUsage := memory.NewUsageStore()
	fallbackUsage.StartSweeper(ctx, sweepInterval)
	limiter := usecase.NewRateLimiter(usageStore, fallbackUsage, domain.DefaultQuotas)
	resolver := usecase.NewTierResolver(identity, profileRepo)
	aiUC := usecase.NewAIUsecase(llmClient, limiter, resumeRepo)
	jobUC := usecase.NewJobSearchUsecase(searcher, searchCache, limiter)
	exportUC := usecase.NewExportUsecase(document.NewChromedpRenderer(cfg.ChromePath))
	var gateway billing.Gateway
	if stripeGateway := billing.NewStripeGateway(cfg.StripeSecretKey); stripeGateway != nil {
		gateway = stripeGateway
	}
	billingUC := usecase.NewBillingUsecase(gateway, profileRepo, usecase.BillingConfig{
		PricePro:      cfg.StripePricePro,
		PriceMax:      cfg.StripePriceMax,
		AppURL:        cfg.AppURL,
		WebhookSecret: cfg.StripeWebhookSecret,
	})
	inboxUC := usecase.NewInboxUsecase(profileRepo, inboxRepo, cfg.InboxDomain)
	emailUC := usecase.NewEmailUsecase(emailService)
	var uploadGuard usecase.UploadGuard
	if redis.Client() != nil {
		uploadGuard = security.NewUploadLimiter(redis.Client(), cfg.UploadsPerMinute, cfg.UploadsPerDay)
	}
	uploadUC := usecase.NewUploadUsecase(uploadGuard, scanner, archive)

	pingers := map[string]usecase.Pinger{"redis": nil, "database": nil, "clamav": nil}
	if redis.Client() != nil {
		pingers["redis"] = usecase.PingFunc(redis.HealthCheck)
	}
	if dbPool != nil {
		pingers["database"] = dbPool
	}
	if clamd != nil {
		pingers["clamav"] = clamd
	}
	healthUC := usecase.NewHealthUsecase(pingers)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		Resolver:        resolver,
		AIUC:            aiUC,
		JobUC:           jobUC,
		ExportUC:        exportUC,
		BillingUC:       billingUC,
		InboxUC:         inboxUC,
		EmailUC:         emailUC,
		UploadUC:        uploadUC,
		HealthUC:        healthUC,
		FingerprintSalt: cfg.FingerprintSalt,
		AppURL:          cfg.AppURL,
		Production:      cfg.Env == "production",
		BurstPerMinute:  cfg.BurstPerMinute,
		TrustedProxies:  cfg.TrustedProxies,
		TrustedPlatform: cfg.TrustedPlatform,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stopSweepers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// sweepInterval bounds how long expired in-memory counters and cache entries linger.
const sweepInterval = 10 * time.Minute

// buildStores picks the durable usage counter and search cache. Redis wins when it is
// connected; the search cache can also live in Postgres.
func buildStores(ctx context.Context, cfg *config.Config, db *pgxpool.Pool) (domain.UsageStore, domain.SearchCache) {
	var usage domain.UsageStore
	if client := redis.Client(); client != nil {
		usage = redisrepo.NewUsageStore(client)
	}

	var cache domain.SearchCache
	switch {
	case cfg.CacheBackend == "postgres" && db != nil:
		cache = postgres.NewSearchCache(db)
	case cfg.CacheBackend == "redis" && redis.Client() != nil:
		cache = redisrepo.NewSearchCache(redis.Client())
	default:
		memCache := memory.NewSearchCache()
		memCache.StartSweeper(ctx, sweepInterval)
		cache = memCache
	}
	return usage, cache
}

func buildLLM(ctx context.Context, cfg *config.Config) llm.Client {
	switch cfg.LLMProvider {
	case "openai":
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err != nil {
			logger.Log.Warn("OpenAI client not configured - AI features will be unavailable", "error", err)
			return llm.NotConfigured{}
		}
		return client
	default:
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			logger.Log.Warn("Gemini client not configured - AI features will be unavailable", "error", err)
			return llm.NotConfigured{}
		}
		return client
	}
}
