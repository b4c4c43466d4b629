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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/grishakov/retail-platform/internal/config"
	"github.com/grishakov/retail-platform/internal/db"
	"github.com/grishakov/retail-platform/internal/events"
	"github.com/grishakov/retail-platform/internal/httpserver"
	"github.com/grishakov/retail-platform/internal/logging"
	"github.com/grishakov/retail-platform/internal/mailer"
	"github.com/grishakov/retail-platform/internal/repo"
	"github.com/grishakov/retail-platform/internal/search"
	"github.com/grishakov/retail-platform/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	var producer events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
	}

	var indexer search.Indexer = search.NoopIndexer{}
	var searchHandler *httpserver.SearchHandler
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		indexer = &search.ESIndexer{ES: esClient, Index: search.ProductIndex}
		searchHandler = &httpserver.SearchHandler{ES: esClient, Index: search.ProductIndex}
	}

	dispatcher := mailer.NewDispatcher(&mailer.SMTPSender{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		From: cfg.SMTPFrom,
	}, logger)

	r := &repo.GormRepo{DB: database}
	otpSvc := service.NewOTPService(r)
	authSvc := &service.AuthService{
		Repo:      r,
		OTP:       otpSvc,
		Pending:   service.NewPendingStore(),
		Mail:      dispatcher,
		JWTSecret: cfg.JWTSecret,
	}
	catalogSvc := &service.CatalogService{Repo: r, Indexer: indexer, Producer: producer}
	cartSvc := &service.CartService{Repo: r}
	checkoutSvc := &service.CheckoutService{Repo: r, Producer: producer, Mail: dispatcher}
	shopSvc := &service.ShopService{Repo: r}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(logging.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:             database,
		JWTSecret:      cfg.JWTSecret,
		AuthHandler:    &httpserver.AuthHandler{Svc: authSvc},
		CartHandler:    &httpserver.CartHandler{Svc: cartSvc},
		OrderHandler:   &httpserver.OrderHandler{Svc: checkoutSvc},
		CatalogHandler: &httpserver.CatalogHandler{Svc: catalogSvc},
		ShopHandler:    &httpserver.ShopHandler{Svc: shopSvc},
		SearchHandler:  searchHandler,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
