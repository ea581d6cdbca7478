// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const defaultDBPassword = "changeme"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host            string        `envconfig:"APP_HOST" default:"0.0.0.0"`
	Port            string        `envconfig:"APP_PORT" default:"8080"`
	Env             string        `envconfig:"APP_ENV" default:"development"` // "development", "production", "testing"
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	// PostgreSQL connection. DatabaseURL wins over the individual parts.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"POSTGRES_HOST" default:"localhost"`
	DBPort      string `envconfig:"POSTGRES_PORT" default:"5432"`
	DBUser      string `envconfig:"POSTGRES_USER" default:"shopcatalog"`
	DBPassword  string `envconfig:"POSTGRES_PASSWORD" default:"changeme"`
	DBName      string `envconfig:"POSTGRES_DB" default:"shopcatalog"`
}

// Load reads an optional .env file and then the process environment,
// applying development defaults. Returns an error if critical values are
// missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		if cfg.DBPassword == "" || cfg.DBPassword == defaultDBPassword {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return &cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Level returns the parsed logrus level, falling back to info.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
