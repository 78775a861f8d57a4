// Command alerts sends the daily job-alert digest. It is meant to be run by cron.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resumeai-backend/config"
	"resumeai-backend/internal/domain"
	"resumeai-backend/internal/repository/memory"
	"resumeai-backend/internal/repository/postgres"
	redisrepo "resumeai-backend/internal/repository/redis"
	"resumeai-backend/internal/usecase"
	"resumeai-backend/pkg/database"
	"resumeai-backend/pkg/email"
	"resumeai-backend/pkg/jobsearch"
	"resumeai-backend/pkg/logger"
	"resumeai-backend/pkg/redis"
	"resumeai-backend/pkg/security"

	"github.com/spf13/cobra"
)

const app = "alerts"

var (
	dryRun  bool
	timeout time.Duration

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "alerts scans saved job alerts and emails a digest for each due one",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run one digest pass over all active alerts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "search and score but do not send emails or update last sent")
	runCmd.Flags().DurationVar(&timeout, "timeout", 15*time.Minute, "upper bound for the whole pass")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Env)
	secLogger := security.InitSecurityLogger("resumeai-alerts", cfg.Env)
	defer secLogger.Sync()

	if cfg.DBUrl == "" {
		return fmt.Errorf("DATABASE_URL is required: alerts are stored in Postgres")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	// The digest shares the HTTP search cache so alerts reuse results users already paid for.
	var cache domain.SearchCache = memory.NewSearchCache()
	switch cfg.CacheBackend {
	case "postgres":
		cache = postgres.NewSearchCache(db)
	case "redis":
		if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, digest runs without the shared cache", "error", err)
		} else {
			cache = redisrepo.NewSearchCache(redis.Client())
			defer redis.Close()
		}
	}

	var searcher domain.JobSearcher
	if cfg.JobSearchAPIKey != "" {
		searcher = jobsearch.NewClient(cfg.JobSearchAPIURL, cfg.JobSearchAPIKey, cfg.JobSearchAPIHost, cfg.JobSearchTimeout)
	}

	uc := usecase.NewAlertUsecase(
		postgres.NewJobAlertRepository(db),
		searcher,
		cache,
		email.NewEmailService(cfg),
		cfg.AppURL,
	)

	report, err := uc.RunDigest(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("run digest: %w", err)
	}

	out, _ := json.Marshal(report)
	fmt.Println(string(out))
	return nil
}
