// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Compiled language file formats.
const (
	FileFormatPHP  = "php"
	FileFormatJSON = "json"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver   string `env:"OCMS_DB_DRIVER" envDefault:"sqlite"`
	DBPath     string `env:"OCMS_DB_PATH" envDefault:"./data/ocms.db"`
	DBDSN      string `env:"OCMS_DB_DSN"` // MySQL DSN, required when OCMS_DB_DRIVER=mysql
	InstallDir string `env:"OCMS_INSTALL_DIR" envDefault:"./wcf"`
	ServerHost string `env:"OCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"OCMS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"OCMS_ENV" envDefault:"development"`
	LogLevel   string `env:"OCMS_LOG_LEVEL" envDefault:"info"`

	// Bearer token guarding /admin; empty disables the check in development
	AdminToken string `env:"OCMS_ADMIN_TOKEN"`

	// Admin API rate limit per client IP; 0 disables it
	AdminRateLimit float64 `env:"OCMS_ADMIN_RATE_LIMIT" envDefault:"10"`
	AdminRateBurst int     `env:"OCMS_ADMIN_RATE_BURST" envDefault:"20"`

	// Cron expression for rebuilding every compiled language file; empty disables it
	RebuildSchedule string `env:"OCMS_REBUILD_SCHEDULE"`

	// Request timeout in seconds
	RequestTimeout int `env:"OCMS_REQUEST_TIMEOUT" envDefault:"30"`

	// Package that owns items created through the admin UI.
	PackageID int64 `env:"OCMS_PACKAGE_ID" envDefault:"1"`

	// Compiled language file format: php or json
	LanguageFileFormat string `env:"OCMS_LANGUAGE_FILE_FORMAT" envDefault:"php"`

	// Cache configuration
	RedisURL      string `env:"OCMS_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix   string `env:"OCMS_CACHE_PREFIX" envDefault:"ocms:"`   // Redis key prefix
	CacheTTL      int    `env:"OCMS_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	RedisFallback bool   `env:"OCMS_REDIS_FALLBACK" envDefault:"false"` // Use the memory cache when Redis is unreachable

	// Seeding configuration
	DoSeed bool `env:"OCMS_DO_SEED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// RequestTimeoutDuration returns the request timeout as a duration.
func (c Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// DBSource returns the path or DSN passed to the database driver.
func (c Config) DBSource() string {
	if c.DBDriver == "mysql" {
		return c.DBDSN
	}
	return c.DBPath
}

// LanguageDir is the directory holding compiled language files.
func (c Config) LanguageDir() string {
	return filepath.Join(c.InstallDir, "language")
}

// TemplateDirs are the directories holding compiled templates.
func (c Config) TemplateDirs() []string {
	return []string{
		filepath.Join(c.InstallDir, "templates", "compiled"),
		filepath.Join(c.InstallDir, "acp", "templates", "compiled"),
	}
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.DBDriver {
	case "sqlite":
	case "mysql":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("OCMS_DB_DSN is required when OCMS_DB_DRIVER=mysql")
		}
	default:
		return nil, fmt.Errorf("OCMS_DB_DRIVER must be sqlite or mysql, got %q", cfg.DBDriver)
	}

	switch cfg.LanguageFileFormat {
	case FileFormatPHP, FileFormatJSON:
	default:
		return nil, fmt.Errorf("OCMS_LANGUAGE_FILE_FORMAT must be php or json, got %q", cfg.LanguageFileFormat)
	}

	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("OCMS_CACHE_TTL must be positive, got %d", cfg.CacheTTL)
	}

	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("OCMS_REQUEST_TIMEOUT must be positive, got %d", cfg.RequestTimeout)
	}

	if cfg.AdminToken == "" && !cfg.IsDevelopment() {
		return nil, fmt.Errorf("OCMS_ADMIN_TOKEN is required outside development")
	}

	return cfg, nil
}
