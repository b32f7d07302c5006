package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/samalone/trmnl-tides/pkg/noaa"
	"github.com/samalone/trmnl-tides/pkg/tides"
)

// Config is read from TIDES_* environment variables.
type Config struct {
	Host   string `default:"0.0.0.0"`
	Port   string `default:"8080"`
	Prefix string `default:"/"`

	NOAAURL     string        `envconfig:"NOAA_URL" default:"https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"`
	HTTPTimeout time.Duration `split_words:"true" default:"10s"`

	// ReportTimeout bounds one /tides request, both NOAA calls included.
	ReportTimeout time.Duration `split_words:"true" default:"12s"`

	BreakerFailures uint32        `split_words:"true" default:"5"`
	BreakerTimeout  time.Duration `split_words:"true" default:"30s"`

	DefaultStation string `split_words:"true" default:"8453767"`
	DefaultTZ      string `envconfig:"DEFAULT_TZ" default:"America/New_York"`

	ZoneCacheSize int           `split_words:"true" default:"64"`
	ZoneCacheTTL  time.Duration `envconfig:"ZONE_CACHE_TTL" default:"24h"`

	// ENV and LOG_LEVEL are shared with the rest of the deployment and are
	// read without the prefix.
	Environment string `ignored:"true"`
	LogLevel    string `ignored:"true"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("tides", &cfg); err != nil {
		return nil, err
	}
	cfg.Environment = getEnvOrDefault("ENV", "production")
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	return &cfg, nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// WriteTimeout leaves room after ReportTimeout for the error or report to be
// written back.
func (c *Config) WriteTimeout() time.Duration {
	return c.ReportTimeout + 5*time.Second
}

// NOAAOptions configures the upstream client.
func (c *Config) NOAAOptions() noaa.Options {
	return noaa.Options{
		BaseURL:         c.NOAAURL,
		Timeout:         c.HTTPTimeout,
		BreakerFailures: c.BreakerFailures,
		BreakerTimeout:  c.BreakerTimeout,
	}
}

// ApplyDefaults copies the configured station and zone defaults and the
// report timeout onto svc.
func (c *Config) ApplyDefaults(svc *tides.Service) {
	svc.DefaultStation = c.DefaultStation
	svc.DefaultTimeZone = c.DefaultTZ
	svc.Timeout = c.ReportTimeout
}

// InitializeLogging sets up the global logger.
func (c *Config) InitializeLogging() {
	c.initializeLogging(os.Stdout)
}

func (c *Config) initializeLogging(out io.Writer) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(out).With().Timestamp().Logger()
	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out})
	}
	log.Logger = logger
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
