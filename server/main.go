package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"showtix/api/routes"
	"showtix/internal/notifications"
	"showtix/internal/shared/config"
	"showtix/internal/shared/database"
	"showtix/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Running without a .env file is fine in containers.
		logger.GetDefault().Info("no .env file found, using environment")
	}

	cfg := config.Load()
	log := logger.New()
	logger.SetDefault(log)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.WithError(err).Error("failed to initialize databases")
		os.Exit(1)
	}
	defer db.Close()

	var producer *notifications.Producer
	var consumer *notifications.Consumer
	if cfg.Kafka.Enabled {
		producer, err = notifications.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic, log)
		if err != nil {
			log.WithError(err).Error("failed to connect kafka producer")
			os.Exit(1)
		}
		defer producer.Close()

		dispatcher := notifications.NewDispatcher(nil, log)
		consumer, err = notifications.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.NotificationTopic, dispatcher, log)
		if err != nil {
			log.WithError(err).Error("failed to connect kafka consumer")
			os.Exit(1)
		}
	}

	app := routes.Setup(cfg, db, producer, log)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Sweeper.Start(rootCtx)
	if consumer != nil {
		go consumer.Run(rootCtx)
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        app.Router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting",
			"addr", srv.Addr,
			"mode", cfg.GinMode,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server failed")
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	app.Sweeper.Stop()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.WithError(err).Error("kafka consumer close failed")
		}
	}
	log.Info("server stopped")
}
