package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/linkveo/internal/cache"
	"github.com/MrSnakeDoc/linkveo/internal/config"
	"github.com/MrSnakeDoc/linkveo/internal/core"
	"github.com/MrSnakeDoc/linkveo/internal/credstore"
	"github.com/MrSnakeDoc/linkveo/internal/httpserver"
	"github.com/MrSnakeDoc/linkveo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkveo/internal/logger"
	"github.com/MrSnakeDoc/linkveo/internal/redis"
	"github.com/MrSnakeDoc/linkveo/internal/remote"
	"github.com/MrSnakeDoc/linkveo/internal/session"
	"github.com/MrSnakeDoc/linkveo/internal/version"
)

// App owns the credential store and the core built on top of it.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	store  *credstore.Store
	core   *core.Core
}

// New opens the configured credential backend, builds the core and restores
// the stored session.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	backend, err := OpenBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	store := credstore.New(backend, log)

	auth := remote.NewClient(cfg.AuthURL, cfg.RequestTimeout, log)
	links := remote.NewClient(cfg.LinksURL, cfg.RequestTimeout, log)

	c := core.New(
		session.NewManager(remote.NewAuthService(auth), store, log),
		cache.New(remote.NewResourceService(links), log),
		log,
	)

	s := c.Restore(ctx)
	if s.Authenticated {
		log.Info("session restored", logger.String("email", s.User.Email))
	} else {
		log.Debug("no stored session")
	}

	return &App{cfg: cfg, logger: log, store: store, core: c}, nil
}

// OpenBackend returns the credential backend selected by
// LINKVEO_CREDENTIAL_BACKEND.
func OpenBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (credstore.Backend, error) {
	switch cfg.CredentialBackend {
	case config.BackendFile:
		log.Debug("using file credential backend", logger.String("path", cfg.CredentialFile))
		return credstore.NewFileBackend(cfg.CredentialFile), nil

	case config.BackendSQLite:
		log.Debug("using sqlite credential backend", logger.String("path", cfg.CredentialDB))
		b, err := credstore.OpenSQLite(cfg.CredentialDB)
		if err != nil {
			return nil, fmt.Errorf("open sqlite credential store: %w", err)
		}
		return b, nil

	case config.BackendRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("connect redis credential store: %w", err)
		}
		return credstore.NewRedisBackend(client, cfg.RedisKeyPrefix), nil

	default:
		return nil, fmt.Errorf("unknown credential backend %q", cfg.CredentialBackend)
	}
}

func (a *App) Core() *core.Core { return a.core }

// Close releases the credential backend.
func (a *App) Close() error { return a.store.Close() }

// Run serves the local API until SIGINT/SIGTERM, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting linkveo %s on %s", version.Version, a.cfg.ListenAddr)
	a.logger.Infof("linkveo %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := deps.Deps{
		Logger:            a.logger,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		AllowedHosts:      a.cfg.AllowedHosts,
		AllowedCIDRS:      a.cfg.AllowedCIDRS,
		TrustProxy:        a.cfg.TrustProxy,
		Core:              a.core,
		Ready:             a.store.Ping,
		LoginPath:         a.cfg.LoginPath,
		LoginBurst:        a.cfg.LoginBurst,
		LoginRefillPerMin: a.cfg.LoginRefillPerMin,
	}
	server := httpserver.New(a.cfg, a.logger, d)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ linkveo stopped cleanly")
	return nil
}
