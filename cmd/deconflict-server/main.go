// Command deconflict-server runs the HTTP API in front of the
// deconfliction engine, optionally consuming traffic missions from
// Kafka in the background. Grounded on the teacher pack's server
// entry-point shape (jengzang-records-backend-go's cmd/server/main.go):
// load config, init supporting stores, build the router, run.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aerodeck/deconflict/internal/api"
	"github.com/aerodeck/deconflict/internal/audit"
	"github.com/aerodeck/deconflict/internal/config"
	"github.com/aerodeck/deconflict/internal/ingestion"
	"github.com/aerodeck/deconflict/pkg/deconflict"
	"github.com/aerodeck/deconflict/pkg/log"
)

func main() {
	cfg := config.Load()
	lg := log.New(true, cfg.LogLevel, cfg.LogDir)

	engine, err := deconflict.NewEngine(cfg.Engine)
	if err != nil {
		lg.Errorf("invalid engine configuration: %v", err)
		os.Exit(1)
	}

	store, err := audit.Open(cfg.AuditPath)
	if err != nil {
		lg.Errorf("failed to open audit store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.KafkaBootstrapServers != "" {
		consumer, err := ingestion.New(ingestion.Config{
			BootstrapServers: cfg.KafkaBootstrapServers,
			Topic:            cfg.KafkaTopic,
			GroupID:          cfg.KafkaGroupID,
		}, engine, lg)
		if err != nil {
			lg.Errorf("failed to start kafka ingestion, continuing without it: %v", err)
		} else {
			defer consumer.Close()
			go func() {
				if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
					lg.Errorf("kafka ingestion stopped: %v", err)
				}
			}()
		}
	}

	server := api.New(engine, store, lg)
	router := server.Router(cfg.JWTSecret)

	lg.Info("deconflict-server starting", "addr", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		lg.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}
