package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every server environment variable.
const EnvPrefix = "LAB"

// Server holds dashboard server settings, sourced from LAB_* variables.
type Server struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	OutputDir       string        `envconfig:"OUTPUT_DIR"`
	PostgresDSN     string        `envconfig:"POSTGRES_DSN"`
	ClickhouseDSN   string        `envconfig:"CLICKHOUSE_DSN"`
	CampaignFile    string        `envconfig:"CAMPAIGN_FILE"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoadServer loads envFile into the environment when it exists, without
// overriding variables already set, then parses LAB_* variables.
func LoadServer(envFile string) (*Server, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Server
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("%w: %s_HTTP_ADDR is empty", ErrInvalidConfig, EnvPrefix)
	}
	return &cfg, nil
}

// Env returns the parsed deployment environment.
func (s *Server) Env() Environment {
	return ParseEnvironment(s.Environment)
}
