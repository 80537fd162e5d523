// Package config assembles the daemon configuration from an optional
// YAML file plus environment variables. Environment always wins over
// the file so container overrides stay simple.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr    string        `yaml:"http_addr"`
	CatalogDir  string        `yaml:"catalog_dir"`
	Watch       bool          `yaml:"watch"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
	SweepEvery  time.Duration `yaml:"sweep_every"`
	CORSOrigins []string      `yaml:"cors_origins"`
	ReportTitle string        `yaml:"report_title"`
	Dev         bool          `yaml:"dev"`
}

// FromEnv builds the config. When EVALBOARD_CONFIG names a YAML file
// it seeds the defaults; EVALBOARD_* variables override per field.
func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:    ":8080",
		CatalogDir:  "./questions",
		Watch:       true,
		SessionTTL:  24 * time.Hour,
		SweepEvery:  5 * time.Minute,
		CORSOrigins: []string{"http://localhost:3000"},
		ReportTitle: "",
		Dev:         false,
	}
	if path := os.Getenv("EVALBOARD_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.HTTPAddr = envOr("EVALBOARD_HTTP_ADDR", cfg.HTTPAddr)
	cfg.CatalogDir = envOr("EVALBOARD_QUESTIONS_DIR", cfg.CatalogDir)
	cfg.Watch = envBool("EVALBOARD_WATCH", cfg.Watch)
	cfg.SessionTTL = envDuration("EVALBOARD_SESSION_TTL", cfg.SessionTTL)
	cfg.SweepEvery = envDuration("EVALBOARD_SWEEP_EVERY", cfg.SweepEvery)
	cfg.CORSOrigins = csvOr("EVALBOARD_CORS_ORIGINS", cfg.CORSOrigins)
	cfg.ReportTitle = envOr("EVALBOARD_REPORT_TITLE", cfg.ReportTitle)
	cfg.Dev = envBool("EVALBOARD_DEV", cfg.Dev)
	return cfg, nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func csvOr(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
