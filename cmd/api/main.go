package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sharecircle/internal/adapter/cache"
	"sharecircle/internal/adapter/events"
	"sharecircle/internal/adapter/repo"
	"sharecircle/internal/domain"
	"sharecircle/internal/http/handlers"
	"sharecircle/internal/http/httpapi"
	"sharecircle/internal/infra"
	"sharecircle/internal/storage"
	"sharecircle/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		bootLogger := infra.NewLogger("development")
		bootLogger.Fatal().Err(err).Msg("load config")
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if err := infra.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	var itemCache usecase.ItemCache
	if cfg.RedisAddr != "" {
		c, err := cache.NewItemCache(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("connect redis")
		}
		defer c.Close()
		itemCache = c
	}

	var publisher usecase.EventPublisher
	if cfg.NATSURL != "" {
		p, err := events.NewPublisher(cfg.NATSURL)
		if err != nil {
			logger.Fatal().Err(err).Str("url", cfg.NATSURL).Msg("connect nats")
		}
		defer p.Close()
		publisher = p
	}

	var media domain.MediaStore
	uploadDir := ""
	if cfg.MinioEndpoint != "" {
		media, err = storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("connect minio")
		}
	} else {
		fs, err := storage.NewFileStore(cfg.UploadDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("prepare upload dir")
		}
		media = fs
		uploadDir = cfg.UploadDir
	}

	users := repo.NewUserRepository(pool)
	items := repo.NewItemRepository(pool)
	requests := repo.NewRequestRepository(pool)
	questions := repo.NewQuestionRepository(pool)
	logistics := repo.NewLogisticsRepository(pool)
	stats := repo.NewStatsRepository(pool)

	policy := domain.LogisticsPolicy{TerminalStates: cfg.LogisticsTerminalStates}

	app := &handlers.App{
		Accounts:  usecase.NewAccountUsecase(users, logger),
		Catalog:   usecase.NewCatalogUsecase(items, questions, users, media, itemCache, logger),
		Exchange:  usecase.NewExchangeUsecase(items, requests, logistics, itemCache, publisher, policy, logger),
		Stats:     stats,
		Logger:    logger,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		UploadDir: uploadDir,
	}

	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("http server listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown http server")
	}
}
