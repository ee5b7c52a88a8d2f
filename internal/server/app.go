// Package server wires configuration, storage, the notification pipeline and
// the HTTP and gRPC front ends into a runnable application.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/talentbridge/internal/logging"
	"github.com/dmitrijs2005/talentbridge/internal/server/auth"
	"github.com/dmitrijs2005/talentbridge/internal/server/config"
	"github.com/dmitrijs2005/talentbridge/internal/server/httpapi"
	"github.com/dmitrijs2005/talentbridge/internal/server/notify"
	"github.com/dmitrijs2005/talentbridge/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/talentbridge/internal/server/secrets"
	"github.com/dmitrijs2005/talentbridge/internal/server/services"
	"github.com/dmitrijs2005/talentbridge/internal/server/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/talentbridge/internal/server/grpc"
)

const (
	memoryQueueSize = 1024
	shutdownTimeout = 10 * time.Second
)

// notificationQueue is both ends of the outbound mail queue.
type notificationQueue interface {
	notify.Dispatcher
	notify.Source
}

type App struct {
	config *config.Config
	logger logging.Logger

	db    *sql.DB
	redis redis.UniversalClient

	users  *services.UserService
	queue  notificationQueue
	sender notify.Sender

	httpServer *http.Server
	grpcServer *gs.GRPCServer
}

var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	store, queue, err := app.buildEphemeral(ctx)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.queue = queue
	app.sender = buildSender(c, logger)

	uploader, err := buildUploader(ctx, c, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	issuer := auth.NewIssuer([]byte(c.SecretKey), c.SessionTokenValidityDuration, c.TokenIssuer)
	app.users = services.NewUserService(services.NewIdentityStore(db, rm), store, queue, uploader, issuer, c, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	api := httpapi.NewServer(app.users, httpapi.CookieConfig{
		Name:   c.SessionCookieName,
		Secure: c.SecureCookies,
		TTL:    c.SessionTokenValidityDuration,
	}, reg, logger)

	app.httpServer = &http.Server{
		Addr:              c.EndpointAddrHTTP,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	app.grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, app.users)

	return app, nil
}

// buildEphemeral returns the OTP store and notification queue, Redis backed
// when an address is configured and in-process otherwise.
func (app *App) buildEphemeral(ctx context.Context) (secrets.Store, notificationQueue, error) {
	c := app.config
	if c.RedisAddr == "" {
		app.logger.Warn(ctx, "no redis address configured, using in-memory secret store and queue")
		return secrets.NewMemoryStore(), notify.NewMemoryQueue(memoryQueueSize), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", c.RedisAddr, err)
	}
	app.redis = client

	return secrets.NewRedisStore(client), notify.NewRedisQueue(client, c.NotificationQueue), nil
}

func buildSender(c *config.Config, logger logging.Logger) notify.Sender {
	if c.SMTPHost == "" {
		return notify.NewLogSender(logger)
	}
	return notify.NewSMTPSender(notify.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUser,
		Password: c.SMTPPassword,
		From:     c.SMTPFrom,
	})
}

func buildUploader(ctx context.Context, c *config.Config, logger logging.Logger) (storage.Uploader, error) {
	if c.S3Bucket == "" {
		logger.Info(ctx, "no bucket configured, profile pictures disabled")
		return storage.Disabled{}, nil
	}
	u, err := storage.NewS3Uploader(ctx, storage.S3Config{
		RootUser:      c.S3RootUser,
		RootPassword:  c.S3RootPassword,
		Bucket:        c.S3Bucket,
		Region:        c.S3Region,
		BaseEndpoint:  c.S3BaseEndpoint,
		PublicBaseURL: c.S3PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 init: %w", err)
	}
	return u, nil
}

func (app *App) serveHTTP(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = app.httpServer.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run serves until SIGINT/SIGTERM or the first component failure.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.serveHTTP(ctx) })
	g.Go(func() error { return app.grpcServer.Run(ctx) })
	g.Go(func() error {
		return notify.NewWorker(app.queue, app.sender, app.logger).Run(ctx, app.config.NotificationWorkers)
	})

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}

func (app *App) Close() error {
	var errs []error
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	return errors.Join(errs...)
}
