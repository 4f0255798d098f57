package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"rigoplace.org/internal/auth"
	"rigoplace.org/internal/httpapi"
	"rigoplace.org/internal/obs"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	// The signing secret is loaded once and never rotated in-process;
	// rotating it invalidates every outstanding token.
	secret := strings.TrimSpace(os.Getenv("RIGOPLACE_AUTH_SECRET"))
	if secret == "" {
		log.Fatal("RIGOPLACE_AUTH_SECRET is required")
	}
	codec, err := auth.NewCodec([]byte(secret))
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	var (
		db    *sql.DB
		store auth.Store
	)
	if dsn := os.Getenv("RIGOPLACE_PG_DSN"); dsn != "" {
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		store = auth.NewPGStore(db)
	} else {
		log.Print("RIGOPLACE_PG_DSN not set, using in-memory credential store")
		store = auth.NewMemoryStore()
	}

	svc, err := auth.NewService(store, codec)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}

	api := httpapi.New(svc, httpapi.ReadyProbe{DB: db}, version)

	addr := os.Getenv("RIGOPLACE_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.RateLimit(api.Handler(), 20, 10),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting rigoplace-identity %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
