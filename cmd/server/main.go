package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/akshaydalvi/medikart/internal/config"
	"github.com/akshaydalvi/medikart/internal/es"
	"github.com/akshaydalvi/medikart/internal/handlers"
	"github.com/akshaydalvi/medikart/internal/logging"
	authmw "github.com/akshaydalvi/medikart/internal/middleware/auth"
	loggingmw "github.com/akshaydalvi/medikart/internal/middleware/logging"
	"github.com/akshaydalvi/medikart/internal/mykafka"
	"github.com/akshaydalvi/medikart/internal/service/search"
	"github.com/akshaydalvi/medikart/internal/session"
	httpserver "github.com/akshaydalvi/medikart/internal/transport/http"
	"github.com/akshaydalvi/medikart/internal/validation"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	if err := config.SeedAdmin(db, configuration); err != nil {
		log.Fatalf("admin seed error: %v", err)
	}

	brokers := []string{configuration.KAFKA_ADDRESS}
	topics := []string{"user_events", "order_events", "product_events"}
	prod, err := mykafka.NewProducer(brokers, topics)
	if err != nil {
		log.Fatal(err)
	}

	var productIndex *search.Index
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		productIndex = &search.Index{ES: esClient, Name: "products"}
	} else {
		slog.Warn("ES_URL not set, product search disabled")
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Validator = validation.New()

	sessions := &session.Store{DB: db}

	deps := httpserver.Deps{
		DB:       db,
		Auth:     &handlers.AuthHandler{DB: db, Sessions: sessions, Producer: prod},
		Orders:   &handlers.OrderHandler{DB: db, Producer: prod},
		Products: &handlers.ProductHandler{DB: db, Producer: prod, Search: productIndex},
		Feedback: &handlers.FeedbackHandler{DB: db},
		Users:    &handlers.UserAdminHandler{DB: db},
		Search:   &handlers.SearchHandler{Index: productIndex},
		MW:       &authmw.Middleware{Sessions: sessions},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
