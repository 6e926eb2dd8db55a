// Package config loads service configuration from an optional YAML file,
// environment variables (FLASHDECK_ prefix), and command-line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "FLASHDECK_"

// Config holds everything the service needs to start.
type Config struct {
	Addr       string        `koanf:"addr" validate:"required"`
	DBPath     string        `koanf:"db" validate:"required"`
	JWTSecret  string        `koanf:"jwt_secret" validate:"required,min=16"`
	TokenTTL   time.Duration `koanf:"token_ttl" validate:"required"`
	BcryptCost int           `koanf:"bcrypt_cost" validate:"min=4,max=31"`
	LogLevel   string        `koanf:"log_level" validate:"required,oneof=debug info warn error"`
	Seed       bool          `koanf:"seed"`
}

// Load parses flags and merges the configuration layers. args is the command
// line without the program name.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("flashdeck", pflag.ContinueOnError)
	fs.String("config", "", "path to an optional YAML config file")
	fs.String("addr", ":8080", "HTTP listen address")
	fs.String("db", "flashdeck.db", "path to the SQLite database file")
	fs.String("jwt_secret", "", "secret used to sign bearer tokens")
	fs.Duration("token_ttl", 24*time.Hour, "bearer token lifetime")
	fs.Int("bcrypt_cost", 12, "bcrypt cost for password hashing")
	fs.String("log_level", "info", "log level: debug, info, warn or error")
	fs.Bool("seed", false, "insert demo data and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path, _ := fs.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
