package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	categoryrepo "github.com/marketbay/service-account-go/internal/category/repo"
	"github.com/marketbay/service-account-go/internal/config"
	"github.com/marketbay/service-account-go/internal/router"
	"github.com/marketbay/service-account-go/internal/session"
	userrepo "github.com/marketbay/service-account-go/internal/user/repo"
	"github.com/marketbay/service-account-go/pkg/database"
	"github.com/marketbay/service-account-go/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-account-go")

	// config: a missing JWT secret is fatal, signup/login must not run without one
	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("config: %v", err)
	}

	// token issuer
	issuer, err := session.NewIssuer(cfg.JWTSecret)
	if err != nil {
		sugar.Fatalf("session issuer: %v", err)
	}

	// init db
	dbCfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(dbCfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	// wrap with sqlx for convenience in repos/services
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")
	defer sqlxDB.Close()

	// ensure tables exist
	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer initCancel()
	if err := userrepo.NewUserRepo(sqlxDB).EnsureTable(initCtx); err != nil {
		sugar.Fatalf("ensure users table: %v", err)
	}
	if err := categoryrepo.NewRepo(sqlDB).EnsureTable(initCtx); err != nil {
		sugar.Fatalf("ensure categories table: %v", err)
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// mount http server
	handler := router.RegisterRoutes(sugar, sqlxDB, cfg, issuer)
	srv := &http.Server{
		Addr:    net.JoinHostPort("0.0.0.0", cfg.Port),
		Handler: handler,
	}

	sugar.Infow("service is running; press Ctrl+C to stop", "port", cfg.Port, "env", cfg.Env)

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// ping db once more
	if err := sqlDB.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}

	// shutdown http server
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
