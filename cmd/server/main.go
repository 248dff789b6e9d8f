package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rr-restro/pos/internal/config"
	"github.com/rr-restro/pos/internal/events"
	"github.com/rr-restro/pos/internal/insight"
	"github.com/rr-restro/pos/internal/router"
	"github.com/rr-restro/pos/internal/service"
	"github.com/rr-restro/pos/internal/store"
	"github.com/rr-restro/pos/internal/ws"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to open store: %v", err)
	}
	defer closeStore()

	hub := ws.NewHub()
	go hub.Run()

	publishers := events.Multi{events.NewHubPublisher(hub)}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Printf("WARN: events broker unavailable, continuing without it: %v", err)
		} else {
			defer amqpPub.Close()
			publishers = append(publishers, amqpPub)
			log.Printf("Publishing events to exchange %s", cfg.AMQPExchange)
		}
	}

	svc := service.New(st,
		service.WithPublisher(publishers),
		service.WithLocation(cfg.Location()),
	)
	if err := svc.Load(ctx); err != nil {
		log.Fatalf("Unable to load state: %v", err)
	}

	var gen insight.Generator
	if cfg.GeminiAPIKey != "" {
		g, err := insight.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("WARN: AI insight disabled: %v", err)
		} else {
			gen = g
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router.New(cfg, svc, hub, insight.NewAnalyst(gen)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Printf("Received %s, shutting down", sig)
	case err := <-errCh:
		log.Fatalf("Server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: shutdown: %v", err)
	}
}

// openStore picks Postgres when DATABASE_URL is set and the data directory
// otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		fs, err := store.NewFile(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using data directory %s", cfg.DataDir)
		return fs, func() {}, nil
	}

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	pg := store.NewPostgres(pool)
	if err := pg.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	log.Println("Connected to database")
	return pg, pool.Close, nil
}
