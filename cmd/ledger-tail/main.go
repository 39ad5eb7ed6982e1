// Command ledger-tail prints the ledger events published by the API.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/config"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/logger"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

func main() {
	configDir := flag.String("config", "./config", "directory holding config.yml")
	fromStart := flag.Bool("from-start", false, "read the topic from the oldest offset")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		bootLog := logger.New("info", logger.OutputJSON)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.NewWithWriter(os.Stderr, cfg.Log.Level, logger.OutputType(cfg.Log.Output))

	saramaCfg := sarama.NewConfig()
	saramaCfg.Consumer.Return.Errors = true
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	if *fromStart {
		saramaCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	}

	group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID, saramaCfg)
	if err != nil {
		log.Fatal().Err(err).Strs("brokers", cfg.Kafka.Brokers).Msg("failed to create consumer group")
	}
	defer group.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		for err := range group.Errors() {
			log.Error().Err(err).Msg("consumer error")
		}
	}()

	handler := &eventPrinter{out: os.Stdout, log: log}
	log.Info().Str("topic", cfg.Kafka.Topic).Str("group_id", cfg.Kafka.GroupID).Msg("consuming ledger events, Ctrl+C to exit")
	consumeLoop(ctx, group, []string{cfg.Kafka.Topic}, handler, log, retryDelay)
	log.Info().Msg("signal received, shutting down")
}

const retryDelay = 2 * time.Second

type consumer interface {
	Consume(ctx context.Context, topics []string, handler sarama.ConsumerGroupHandler) error
}

// consumeLoop calls Consume until ctx is done or the group is closed,
// pausing for delay after a failed session.
func consumeLoop(ctx context.Context, group consumer, topics []string, handler sarama.ConsumerGroupHandler, log zerolog.Logger, delay time.Duration) {
	for {
		// Consume returns on every rebalance and must be called again.
		if err := group.Consume(ctx, topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			log.Error().Err(err).Dur("retry_in", delay).Msg("consume")
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}
