package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bookly/internal/audit"
	auditrepo "bookly/internal/audit/repository"
	bookrepo "bookly/internal/book/repository"
	bookservice "bookly/internal/book/service"
	"bookly/internal/config"
	"bookly/internal/db"
	"bookly/internal/mail"
	"bookly/internal/revocation"
	reviewrepo "bookly/internal/review/repository"
	reviewservice "bookly/internal/review/service"
	"bookly/internal/security"
	"bookly/internal/server"
	"bookly/internal/server/middleware"
	"bookly/internal/telemetry/otel"
	userrepo "bookly/internal/user/repository"
	userservice "bookly/internal/user/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "bookly")
	if err != nil {
		log.Error("otel", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Warn("otel shutdown", "err", err)
		}
	}()

	if cfg.DatabaseURL == "" {
		log.Error("config", "err", "DATABASE_URL must be set")
		os.Exit(1)
	}
	sqlDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("database", "err", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	redisClient, err := revocation.Connect(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis", "err", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	denylist := revocation.NewRedisStore(redisClient)

	var sender mail.Sender
	if cfg.PostmarkServerToken != "" {
		sender, err = mail.NewPostmarkSender(cfg.PostmarkServerToken, cfg.PostmarkAccountToken, cfg.MailFrom)
		if err != nil {
			log.Error("postmark", "err", err)
			os.Exit(1)
		}
	} else {
		log.Warn("no POSTMARK_SERVER_TOKEN set, mail is logged instead of sent")
		sender = mail.DevSender{Log: log}
	}

	auditRepo := auditrepo.NewPostgresRepository(sqlDB)
	auditLog := audit.NewLogger(auditRepo, middleware.GetClientIP, log)

	hasher := security.NewHasher(cfg.BcryptCost)
	codec := security.NewTokenCodec([]byte(cfg.JWTSecret), cfg.AccessTTL())

	users := userrepo.NewPostgresRepository(sqlDB)
	books := bookrepo.NewPostgresRepository(sqlDB)
	reviews := reviewrepo.NewPostgresRepository(sqlDB)

	bookSvc := bookservice.NewBookService(books, reviews)
	reviewSvc := reviewservice.NewReviewService(reviews, books)
	authSvc := userservice.NewAuthService(
		users, hasher, codec, denylist, sender, auditLog, log,
		cfg.AccessTTL(), cfg.RefreshTTL(), cfg.ActionMaxAge(), cfg.Domain,
	)

	handler := server.NewHandler(server.Deps{
		Auth:           authSvc,
		Books:          bookSvc,
		Reviews:        reviewSvc,
		AuditRepo:      auditRepo,
		Codec:          codec,
		Denylist:       denylist,
		DBPinger:       sqlDB,
		DenylistPinger: denylist,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("serve", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
	log.Info("http server stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
