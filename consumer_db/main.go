package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xor-shift/montecarlo/common"
	"github.com/xor-shift/montecarlo/config"
	"github.com/xor-shift/montecarlo/store"
)

// resultInserter is the part of the store the consumer needs.
type resultInserter interface {
	InsertResult(ctx context.Context, r common.Result) (int64, error)
}

func insertCallback(s resultInserter, timeout time.Duration) func(common.Result) error {
	return func(r common.Result) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		_, err := s.InsertResult(ctx, r)
		return err
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("loading config failed: %s", err)
	}

	logger := cfg.Logger()

	db, err := store.Open(cfg)
	if err != nil {
		logger.Fatalf("%s", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(ctx)
	cancel()
	if err != nil {
		logger.Fatalf("%s", err)
	}

	consumer, err := common.NewAMQPConsumer(
		cfg.AMQPURL,
		"consumer_db_queue",
		"consumer_db_consumer",
		logger,
		insertCallback(db, 10*time.Second))
	if err != nil {
		logger.Fatalf("creating the amqp consumer failed: %s", err)
	}
	defer consumer.Close()

	if err = consumer.Start(); err != nil {
		logger.Fatalf("starting the amqp consumer failed: %s", err)
	}

	logger.Infof("storing results to %s/%s", cfg.DBAddress, cfg.DBName)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	<-signals

	logger.Infof("shutting down")

	if err = consumer.Stop(); err != nil {
		logger.Errorf("stopping the amqp consumer failed: %s", err)
	}

	consumer.Wait()
}
