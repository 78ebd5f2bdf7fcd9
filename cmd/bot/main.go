package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	dealerbot "github.com/autoplaza/dealerbot"
	"github.com/autoplaza/dealerbot/internal/config"
	"github.com/autoplaza/dealerbot/internal/handler"
	"github.com/autoplaza/dealerbot/internal/middleware"
	"github.com/autoplaza/dealerbot/internal/repository"
	"github.com/autoplaza/dealerbot/internal/service"
	"github.com/autoplaza/dealerbot/internal/usage"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(dealerbot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Usage counters: postgres by default, redis for multi-instance setups
	usageStore, err := newUsageStore(cfg, pool)
	if err != nil {
		slog.Error("failed to create usage store", "error", err)
		os.Exit(1)
	}
	defer usageStore.Close()

	// Initialize repositories
	sessionRepo := repository.NewSessionRepo(pool)
	messageRepo := repository.NewMessageRepo(pool)
	configRepo := repository.NewConfigurationRepo(pool)
	quickRepo := repository.NewQuickResponseRepo(pool)
	inventoryRepo := repository.NewInventoryRepo(pool)
	leadRepo := repository.NewLeadRepo(pool)

	// Initialize services
	metrics := service.LogMetrics{}
	breaker := service.NewCircuitBreaker(config.BreakerThreshold, config.BreakerCooldown)
	llmService := service.NewLLMService(cfg.LLMBackendURL, cfg.LLMBackendKey, config.RequestTimeout, breaker, metrics)
	quotaService := service.NewQuotaService(usageStore, metrics)
	quickService := service.NewQuickResponseService(quickRepo)
	inventoryBuilder := service.NewInventoryContextBuilder(inventoryRepo, config.MaxInventoryItems)
	chatService := service.NewChatService(service.ChatDeps{
		Sessions:  sessionRepo,
		Messages:  messageRepo,
		Configs:   configRepo,
		Quick:     quickService,
		Inventory: inventoryBuilder,
		LLM:       llmService,
		Quota:     quotaService,
		Metrics:   metrics,
	})
	leadService := service.NewLeadService(sessionRepo, leadRepo, messageRepo)

	// Probe the backend once so a misconfigured URL shows up at startup
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if !llmService.Healthy(probeCtx) {
		slog.Warn("llm backend health probe failed; fallback responses will be served until it recovers")
	}
	cancel()

	// Handler pointer for use in default handler closure
	var h *handler.Handler

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil || update.Message == nil {
				return
			}
			h.HandleText(ctx, b, update)
		}),
	}
	if cfg.DropPendingUpdates {
		opts = append(opts, bot.WithInitialOffset(-1))
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:   b,
		Cfg:   cfg,
		Chat:  chatService,
		Leads: leadService,
	})
	h.Register()

	// Start bot
	slog.Info("starting bot", "usage_backend", cfg.UsageBackend, "breaker_threshold", config.BreakerThreshold)
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}

func newUsageStore(cfg *config.Config, pool *pgxpool.Pool) (usage.Store, error) {
	switch usage.StoreType(cfg.UsageBackend) {
	case usage.StoreTypeRedis:
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return usage.NewStore(usage.StoreTypeRedis,
			usage.WithRedisClient(redis.NewClient(opt)),
			usage.WithRedisTTL(config.UsageCounterTTL))
	case usage.StoreTypeMemory:
		return usage.NewStore(usage.StoreTypeMemory)
	default:
		return usage.NewStore(usage.StoreTypePostgres, usage.WithPool(pool))
	}
}
