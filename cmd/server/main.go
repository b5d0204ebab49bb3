package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	natsclient "github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/arqon/playproof/internal/adapter/inbound/httpapi"
	"github.com/arqon/playproof/internal/adapter/outbound/brawlstars"
	natsadapter "github.com/arqon/playproof/internal/adapter/outbound/nats"
	"github.com/arqon/playproof/internal/adapter/outbound/postgres"
	rediscache "github.com/arqon/playproof/internal/adapter/outbound/redis"
	"github.com/arqon/playproof/internal/app/command"
	"github.com/arqon/playproof/internal/app/query"
	"github.com/arqon/playproof/internal/app/service"
	"github.com/arqon/playproof/internal/config"
	"github.com/arqon/playproof/internal/domain/model"
	"github.com/arqon/playproof/internal/port/outbound/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting playproof service", "address", cfg.Server.Address())

	// Run migrations before opening the pool.
	if err := postgres.Migrate(cfg.Database.ConnectionString(), cfg.Database.MigrationsPath, logger); err != nil {
		return err
	}

	pool, err := connectPostgres(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	redisClient, err := connectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	natsConn, err := connectNATS(cfg.NATS, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}
	defer natsConn.Close()

	// Outbound adapters
	sessionRepo := postgres.NewSessionRepository(pool)
	authenticationRepo := postgres.NewAuthenticationRepository(pool)
	tokenBlacklist := rediscache.NewTokenBlacklist(redisClient)
	eventPublisher := natsadapter.NewEventPublisher(natsConn, cfg.NATS.SubjectPrefix)
	gameData := brawlstars.NewClient(brawlstars.Config{
		BaseURL: cfg.GameData.BaseURL,
		APIKey:  cfg.GameData.APIKey,
		Timeout: cfg.GameData.Timeout,
	})

	// Services
	tokenService, err := service.NewTokenService(service.TokenConfig{
		Issuer:               cfg.Token.Issuer,
		Audience:             cfg.Token.Audience,
		AccessTokenDuration:  cfg.Token.AccessTokenDuration,
		RefreshTokenDuration: cfg.Token.RefreshTokenDuration,
		SigningKey:           []byte(cfg.Token.SigningKey),
	})
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}
	taskGenerator := service.NewRandomTaskGenerator()

	sessionConfig := model.SessionConfig{
		SessionDuration: cfg.Challenge.SessionDuration,
		MaxAttempts:     cfg.Challenge.AttemptsPerSession,
	}
	sessionLimit := repository.SessionLimit{
		Window:    cfg.Challenge.SessionWindow,
		Threshold: cfg.Challenge.SessionThreshold,
	}

	// Use-case handlers
	authenticateHandler := command.NewAuthenticateHandler(
		gameData,
		sessionRepo,
		taskGenerator,
		tokenService,
		eventPublisher,
		logger,
		sessionConfig,
		sessionLimit,
	)
	completeHandler := command.NewCompleteAuthenticationHandler(
		sessionRepo,
		authenticationRepo,
		gameData,
		tokenService,
		eventPublisher,
		logger,
		cfg.Token.RefreshTokenDuration,
	)
	terminateHandler := command.NewTerminateAuthenticationHandler(
		authenticationRepo,
		tokenService,
		tokenBlacklist,
		eventPublisher,
		logger,
	)
	verifyHandler := query.NewVerifyAccessTokenHandler(
		tokenService,
		tokenBlacklist,
		logger,
	)

	// Expired rows do not serve any request; the reaper keeps the tables
	// from accumulating them.
	go runReaper(ctx, cfg.Challenge.ReaperInterval, sessionRepo, authenticationRepo, logger)

	authHandler := httpapi.NewAuthHandler(
		authenticateHandler,
		completeHandler,
		terminateHandler,
		verifyHandler,
		logger,
	)

	ready := map[string]httpapi.HealthChecker{
		"postgres": func(ctx context.Context) error { return pool.Ping(ctx) },
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		"nats": func(ctx context.Context) error {
			if !natsConn.IsConnected() {
				return fmt.Errorf("nats disconnected")
			}
			return nil
		},
	}

	server := httpapi.NewServer(httpapi.ServerConfig{
		Addr:           cfg.Server.Address(),
		RequestTimeout: cfg.Server.RequestTimeout,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	}, authHandler, ready, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("playproof service started", "address", cfg.Server.Address())

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}

		logger.Info("playproof service stopped gracefully")
		return nil
	}
}

// runReaper periodically deletes expired sessions and authentications.
func runReaper(
	ctx context.Context,
	interval time.Duration,
	sessions repository.SessionRepository,
	authentications repository.AuthenticationRepository,
	logger *slog.Logger,
) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().UTC()
			reaped, err := sessions.DeleteExpired(ctx, cutoff)
			if err != nil {
				logger.Error("session reaper failed", "error", err)
			} else if reaped > 0 {
				logger.Info("reaped expired sessions", "count", reaped)
			}
			reaped, err = authentications.DeleteExpired(ctx, cutoff)
			if err != nil {
				logger.Error("authentication reaper failed", "error", err)
			} else if reaped > 0 {
				logger.Info("reaped expired authentications", "count", reaped)
			}
		case <-ctx.Done():
			return
		}
	}
}

func connectPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("connected to postgres",
		"host", cfg.Host,
		"database", cfg.Database,
	)

	return pool, nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Address(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("connected to redis", "address", cfg.Address())

	return client, nil
}

func connectNATS(cfg config.NATSConfig, logger *slog.Logger) (*natsclient.Conn, error) {
	opts := []natsclient.Option{
		natsclient.MaxReconnects(cfg.MaxReconnects),
		natsclient.ReconnectWait(cfg.ReconnectWait),
		natsclient.DisconnectErrHandler(func(nc *natsclient.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		natsclient.ReconnectHandler(func(nc *natsclient.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	}

	conn, err := natsclient.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	logger.Info("connected to nats", "url", conn.ConnectedUrl())

	return conn, nil
}
