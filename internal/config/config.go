package config

import "os"

const (
	DefaultPort       = "8080"
	DefaultKafkaTopic = "reservation-events"
)

// Config carries the service configuration, read from the environment.
// DatabaseURL and KafkaBroker are optional: without a database the
// service runs on the in-memory store with sample flights, and without
// a broker lifecycle events are discarded.
type Config struct {
	Port        string
	DatabaseURL string
	KafkaBroker string
	KafkaTopic  string
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:        getEnv("API_PORT", DefaultPort),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		KafkaTopic:  getEnv("KAFKA_TOPIC", DefaultKafkaTopic),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
