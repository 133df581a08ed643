package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/unclebandit/jobseeker-backend/internal/config"
	"github.com/unclebandit/jobseeker-backend/internal/db"
	"github.com/unclebandit/jobseeker-backend/internal/handler"
	"github.com/unclebandit/jobseeker-backend/internal/logger"
	"github.com/unclebandit/jobseeker-backend/internal/queue"
	"github.com/unclebandit/jobseeker-backend/internal/repository"
	"github.com/unclebandit/jobseeker-backend/internal/service"
)

// The worker consumes tracking events from RabbitMQ and converges the
// history ledger on the tracking ledger.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required for the worker")
	}

	conn, err := db.Connect(context.Background(), cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	q, err := queue.NewAMQPQueue(cfg.AMQPURL, log.Named("amqp"))
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer q.Close()

	if err := consume(q, &repository.EmailRepository{DB: conn}, log); err != nil {
		log.Fatal("Failed to register consumer", zap.Error(err))
	}

	go func() {
		health := &handler.Health{Ping: func(ctx context.Context) error { return conn.PingContext(ctx) }}
		addr := ":" + cfg.Port
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, health); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info("Shutting down worker")
}

func consume(q queue.Queue, ledgers service.LedgerSyncer, log *zap.Logger) error {
	w := service.NewWorker(ledgers, log.Named("ledger-sync"))
	if err := w.Start(q); err != nil {
		return err
	}
	log.Info("Worker running, waiting for events", zap.String("topic", queue.TopicEmailEvents))
	return nil
}
