package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the optional file-based configuration. Environment
// variables override file values.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	JWT struct {
		Secret string `yaml:"secret"`
	} `yaml:"jwt"`
	NATS struct {
		URL string `yaml:"url"`
	} `yaml:"nats"`
	Outbox struct {
		NotifyChannel string `yaml:"notify_channel"`
	} `yaml:"outbox"`
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// resolveConfig merges file values with environment overrides.
func resolveConfig() *Config {
	config := &Config{}
	if path := getEnv("CONFIG_PATH", ""); path != "" {
		loaded, err := loadConfig(path)
		if err == nil {
			config = loaded
		}
	}

	config.Server.Port = getEnv("PORT", defaultString(config.Server.Port, "8080"))
	config.JWT.Secret = getEnv("JWT_SECRET", defaultString(config.JWT.Secret, ""))
	config.NATS.URL = getEnv("NATS_URL", defaultString(config.NATS.URL, "nats://localhost:4222"))
	config.Outbox.NotifyChannel = getEnv("OUTBOX_CHANNEL", defaultString(config.Outbox.NotifyChannel, "game_outbox_events"))
	return config
}

func defaultString(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
