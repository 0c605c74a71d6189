package main

// @title           Creator Bridge API
// @version         1.0
// @description     Links creators' TikTok accounts and syncs creator statistics from the partner API.

// @contact.name   Custodia Labs
// @contact.url    https://github.com/custodia-labs/creator-bridge/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/custodia-labs/creator-bridge/internal/adapters/driven/auth"
	"github.com/custodia-labs/creator-bridge/internal/adapters/driven/connectors/tiktok"
	"github.com/custodia-labs/creator-bridge/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/creator-bridge/internal/adapters/driven/redis"
	"github.com/custodia-labs/creator-bridge/internal/adapters/driving/http"
	"github.com/custodia-labs/creator-bridge/internal/config"
	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/creator-bridge/internal/core/services"
	"github.com/custodia-labs/creator-bridge/internal/logger"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// Command line mode overrides RUN_MODE
	args := os.Args[1:]
	if len(args) > 0 {
		cfg.RunMode = args[0]
		args = args[1:]
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogOutput})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, args, log); err != nil {
		log.Error("exiting", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, args []string, log *zap.Logger) error {
	log.Info("creator-bridge starting", zap.String("version", version), zap.String("mode", cfg.RunMode))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ===== Initialize PostgreSQL =====
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	log.Info("postgres connected and schema initialized")

	// ===== Initialize Redis (optional) =====
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redisadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		log.Info("redis connected")
	}

	// ===== Driven adapters =====
	var (
		sessionStore driven.SessionStore
		lock         driven.DistributedLock
		redisPinger  http.Pinger
	)
	if redisClient != nil {
		sessionStore = redisadapter.NewSessionStore(redisClient)
		redisLock := redisadapter.NewLock(redisClient)
		lock = redisLock
		redisPinger = redisLock
	} else {
		sessionStore = postgres.NewSessionStore(db)
		lock = postgres.NewAdvisoryLock(db)
	}

	cipher, err := postgres.NewTokenCipherFromSecret(cfg.TokenEncryptionKey)
	if err != nil {
		return fmt.Errorf("token cipher: %w", err)
	}

	authService := services.NewAuthService(sessionStore, auth.NewAdapter(cfg.JWTSecret))
	accountStore := postgres.NewLinkedAccountStore(db, cipher)
	creatorStore := postgres.NewCreatorStore(db)

	syncService := services.NewCreatorSyncService(services.CreatorSyncServiceConfig{
		Source: tiktok.NewCreatorClient(tiktok.PartnerConfig{
			BaseURL:     cfg.PartnerAPIURL,
			AccessToken: cfg.PartnerAccessToken,
			AccountID:   cfg.PartnerAccountID,
			Timeout:     cfg.PartnerHTTPTimeout,
		}, log),
		Store:          creatorStore,
		Lock:           lock,
		LockTTL:        cfg.SyncLockTTL,
		DefaultHandles: cfg.SyncDefaultHandles,
		Logger:         log,
	})

	switch cfg.RunMode {
	case config.ModeSync:
		handle := ""
		if len(args) > 0 {
			handle = args[0]
		}
		return runSync(ctx, syncService.Sync, handle, log)

	case config.ModeSession:
		return runSession(ctx, authService.IssueSession, args)

	case config.ModeAPI:
		if !cfg.TikTokConfigured() {
			log.Warn("tiktok login kit is not configured; account linking will fail with server_configuration")
		}
		oauthService := services.NewOAuthService(services.OAuthServiceConfig{
			Provider: tiktok.NewOAuthClient(tiktok.OAuthConfig{
				ClientKey:    cfg.TikTokClientKey,
				ClientSecret: cfg.TikTokClientSecret,
				RedirectURI:  cfg.TikTokRedirectURI,
				Scopes:       cfg.TikTokScopes,
				AuthURL:      cfg.TikTokAuthURL,
				TokenURL:     cfg.TikTokTokenURL,
				UserInfoURL:  cfg.TikTokUserInfoURL,
				Timeout:      cfg.OAuthHTTPTimeout,
			}, log),
			AccountStore: accountStore,
			Logger:       log,
		})

		serverCfg := http.DefaultConfig()
		serverCfg.Port = cfg.Port
		serverCfg.Version = version
		serverCfg.CookieSecure = cfg.CookieSecure
		serverCfg.Logger = log
		serverCfg.Redirects = http.RedirectConfig{
			AppBaseURL:  cfg.AppBaseURL,
			SuccessPath: cfg.OAuthSuccessPath,
			ErrorPath:   cfg.OAuthErrorPath,
		}

		server := http.NewServer(serverCfg, http.Services{
			Auth:     authService,
			OAuth:    oauthService,
			Sync:     syncService,
			Accounts: services.NewLinkedAccountService(accountStore),
		}, db, redisPinger)
		return server.Start(ctx)

	default:
		return fmt.Errorf("unknown mode %q (expected api, sync or session)", cfg.RunMode)
	}
}

// runSync runs one batch and prints the result as JSON.
func runSync(ctx context.Context, sync func(context.Context, string) (*domain.SyncResult, error), handle string, log *zap.Logger) error {
	result, err := sync(ctx, handle)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	log.Info("sync finished",
		zap.Int("synced", result.Synced),
		zap.Int("errors", result.ErrorCount),
		zap.Float64("duration_seconds", result.Duration))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// runSession mints a session token: session <user-id> [role] [email].
func runSession(ctx context.Context, issue func(context.Context, string, string, domain.Role) (string, error), args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: creator-bridge session <user-id> [role] [email]")
	}
	role := domain.RoleCreator
	if len(args) > 1 {
		role = domain.Role(args[1])
	}
	email := ""
	if len(args) > 2 {
		email = args[2]
	}

	token, err := issue(ctx, args[0], email, role)
	if err != nil {
		return fmt.Errorf("issue session: %w", err)
	}
	fmt.Println(token)
	return nil
}
