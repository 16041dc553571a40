// Package config loads the server's environment-driven configuration:
// HTTP port, JWT signing secret, audit database path, Kafka connection
// settings, and the deconfliction engine's tunables. Grounded on the
// teacher pack's env-var-with-defaults pattern (jengzang-records-backend-go's
// internal/config/config.go), loaded via github.com/joho/godotenv so a
// local .env file works the same as real environment variables.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aerodeck/deconflict/pkg/deconflict"
)

// Config holds every environment-driven setting the server needs.
type Config struct {
	HTTPAddr  string
	JWTSecret string
	AuditPath string
	LogDir    string
	LogLevel  string

	KafkaBootstrapServers string
	KafkaTopic            string
	KafkaGroupID          string

	Engine deconflict.Config
}

// Load reads .env (if present, ignored if missing) then the process
// environment, falling back to defaults for anything unset.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:  getEnv("DECONFLICT_HTTP_ADDR", ":8080"),
		JWTSecret: getEnv("DECONFLICT_JWT_SECRET", "change-me-in-production"),
		AuditPath: getEnv("DECONFLICT_AUDIT_DB", "./deconflict-audit.db"),
		LogDir:    getEnv("DECONFLICT_LOG_DIR", ""),
		LogLevel:  getEnv("DECONFLICT_LOG_LEVEL", "info"),

		KafkaBootstrapServers: getEnv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092"),
		KafkaTopic:            getEnv("KAFKA_TOPIC", "traffic-missions"),
		KafkaGroupID:          getEnv("KAFKA_GROUP_ID", "deconflict-ingestion"),

		Engine: deconflict.DefaultConfig(),
	}

	cfg.Engine.BaseSafetyBuffer = getEnvFloat("DECONFLICT_BASE_SAFETY_BUFFER", cfg.Engine.BaseSafetyBuffer)
	cfg.Engine.ReactionTime = getEnvFloat("DECONFLICT_REACTION_TIME", cfg.Engine.ReactionTime)
	cfg.Engine.MaxAccel = getEnvFloat("DECONFLICT_MAX_ACCEL", cfg.Engine.MaxAccel)
	cfg.Engine.GPSUncertainty = getEnvFloat("DECONFLICT_GPS_UNCERTAINTY", cfg.Engine.GPSUncertainty)
	cfg.Engine.CoarseBuffer = getEnvFloat("DECONFLICT_COARSE_BUFFER", cfg.Engine.CoarseBuffer)
	cfg.Engine.CoarseStep = getEnvFloat("DECONFLICT_COARSE_STEP", cfg.Engine.CoarseStep)
	cfg.Engine.GridCellSize = getEnvFloat("DECONFLICT_GRID_CELL_SIZE", cfg.Engine.GridCellSize)
	cfg.Engine.GridTimeStep = getEnvFloat("DECONFLICT_GRID_TIME_STEP", cfg.Engine.GridTimeStep)
	cfg.Engine.Parallel = getEnvBool("DECONFLICT_PARALLEL", cfg.Engine.Parallel)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
