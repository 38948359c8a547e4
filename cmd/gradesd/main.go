package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	api "github.com/mind-engage/mindengage-grades/internal/api/http"
	"github.com/mind-engage/mindengage-grades/internal/auth"
	"github.com/mind-engage/mindengage-grades/internal/config"
	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/db"
	"github.com/mind-engage/mindengage-grades/internal/storage"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg := config.FromEnv()
	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	if keys := cfg.InsecureDefaults(); cfg.Mode == config.ModeOnline && len(keys) > 0 {
		logger.Warn("insecure defaults in online mode", "keys", keys)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var (
		store course.Store
		dbh   *sqlx.DB
	)
	if cfg.DBDriver == "memory" {
		store = course.NewMemoryStore()
	} else {
		driver, err := db.ParseDriver(cfg.DBDriver)
		if err != nil {
			log.Fatalf("db driver: %v", err)
		}
		dbh, err = db.Open(openCtx, driver, cfg.DBDSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		defer dbh.Close()
		store = course.NewSQLStore(dbh)
	}

	// --- Blobs ---
	bs, err := storage.Open(openCtx, cfg)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	deps := api.Deps{
		Store: store,
		Blobs: bs,
		Auth:  auth.NewAuthService(cfg.AuthHMACSecret),
		Login: auth.LoginOptions{
			AdminUser:       cfg.AdminUser,
			AdminPassHash:   cfg.AdminPassHash,
			EnableLocalAuth: cfg.EnableLocalAuth,
		},
		Logger:         logger,
		AllowedOrigins: origins,
	}
	if dbh != nil {
		deps.DB = dbh
	}

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", cfg.DBDriver, "blob", cfg.BlobDriver)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
