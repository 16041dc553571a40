// Package ingestion consumes traffic mission announcements from Kafka
// and registers each one with the deconfliction engine. Grounded on the
// teacher pack's Kafka adapter (boyang-li-geospatial-mapping-demo's
// modules/ingestion/config and producer packages) — same ConfigMap shape,
// adapted from a producer
// to a consumer since this side of the system is receiving traffic, not
// publishing detections.
package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/aerodeck/deconflict/pkg/deconflict"
	"github.com/aerodeck/deconflict/pkg/log"
	"github.com/aerodeck/deconflict/pkg/mission"
)

// Config holds the Kafka connection settings for the traffic-mission feed.
type Config struct {
	BootstrapServers string
	Topic            string
	GroupID          string
}

// Consumer reads traffic mission JSON messages and registers each into
// the engine. Malformed or invalid messages are logged and skipped —
// per spec §7, registration failures never abort the stream.
type Consumer struct {
	cfg      Config
	engine   *deconflict.Engine
	lg       *log.Logger
	consumer *kafka.Consumer
}

// New builds a Consumer and subscribes it to cfg.Topic.
func New(cfg Config, engine *deconflict.Engine, lg *log.Logger) (*Consumer, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.BootstrapServers,
		"group.id":           cfg.GroupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": true,
	})
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	if err := c.Subscribe(cfg.Topic, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", cfg.Topic, err)
	}
	return &Consumer{cfg: cfg, engine: engine, lg: lg, consumer: c}, nil
}

// Run polls for messages until ctx is cancelled, registering each valid
// traffic mission with the engine.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev := c.consumer.Poll(1000)
		if ev == nil {
			continue
		}

		switch msg := ev.(type) {
		case *kafka.Message:
			c.handleMessage(msg)
		case kafka.Error:
			c.lg.Errorf("kafka consumer error: %v", msg)
			if msg.IsFatal() {
				return fmt.Errorf("fatal kafka error: %w", msg)
			}
		}
	}
}

func (c *Consumer) handleMessage(msg *kafka.Message) {
	m, err := mission.Unmarshal(msg.Value)
	if err != nil {
		c.lg.Warn("dropping malformed traffic mission", "error", err, "offset", msg.TopicPartition.Offset)
		return
	}
	if err := c.engine.RegisterMission(m); err != nil {
		c.lg.Warn("failed to register traffic mission", "drone_id", m.DroneID, "error", err)
		return
	}
	c.lg.Debug("registered traffic mission from kafka", "drone_id", m.DroneID, "received_at", time.Now())
}

// Close releases the underlying Kafka client.
func (c *Consumer) Close() { c.consumer.Close() }
