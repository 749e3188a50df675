package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string `env:"DW_HTTP_ADDR" envDefault:":3000"`

	LogLevel  string `env:"DW_LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"DW_LOG_PRETTY"`

	// BarrierTimeout bounds how long a battle or leveling barrier may wait
	// for a silent participant. Zero disables the sweeper.
	BarrierTimeout time.Duration `env:"DW_BARRIER_TIMEOUT" envDefault:"0s"`
	SweepInterval  time.Duration `env:"DW_SWEEP_INTERVAL" envDefault:"5s"`

	// SendBuffer is the per-connection outbound queue length.
	SendBuffer int `env:"DW_SEND_BUFFER" envDefault:"64"`
	// Seed fixes the battle and quiz randomness; zero seeds from the clock.
	Seed int64 `env:"DW_SEED" envDefault:"0"`

	OTelEndpoint    string        `env:"DW_OTEL_ENDPOINT"`
	ShutdownTimeout time.Duration `env:"DW_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load reads an optional .env file and then the DW_* environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the DW_* environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SendBuffer < 1 {
		return Config{}, fmt.Errorf("DW_SEND_BUFFER must be positive, got %d", cfg.SendBuffer)
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Second
	}
	return cfg, nil
}
