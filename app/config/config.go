package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server HTTPServerConfig `json:"server"`
	Mongo  MongoConfig
}

type HTTPServerConfig struct {
	Host         string        `json:"host" default:"0.0.0.0"`
	Port         int           `json:"port" default:"8000"`
	ReadTimeout  time.Duration `json:"read_timeout" default:"30s"`
	WriteTimeout time.Duration `json:"write_timeout" default:"30s"`
}

type MongoConfig struct {
	URI      string `json:"uri" required:"true"`
	Database string `json:"database" required:"true"`
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Server: HTTPServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("PORT", 8000),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Mongo: MongoConfig{
			URI:      getEnv("DATABASE_URL", "mongodb://localhost:27017"),
			Database: getEnv("DATABASE_NAME", "aibuilder"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
