package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"

	"github.com/flourish/flourish-prn/internal/platform/datefmt"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBSchema       string   `mapstructure:"DB_SCHEMA"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	AuthIssuer     string   `mapstructure:"AUTH_ISSUER"`
	AuthAudience   string   `mapstructure:"AUTH_AUDIENCE"`
	AuthSigningKey string   `mapstructure:"AUTH_SIGNING_KEY"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	BodyLimit      string   `mapstructure:"BODY_LIMIT"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	// AMQPURL enables death report events; empty disables publishing.
	AMQPURL   string `mapstructure:"AMQP_URL"`
	AMQPQueue string `mapstructure:"AMQP_QUEUE"`

	// StudyOpenDatetime is the RFC3339 moment the protocol opened; no
	// report may be dated before it.
	StudyOpenDatetime string `mapstructure:"STUDY_OPEN_DATETIME"`
	// ShortDateFormat is a PHP-style pattern such as "d/m/Y".
	ShortDateFormat string `mapstructure:"SHORT_DATE_FORMAT"`
	TimeZone        string `mapstructure:"TIME_ZONE"`

	studyOpen time.Time
	location  *time.Location
}

var keys = []string{
	"PORT", "ENV", "DATABASE_URL", "DB_SCHEMA", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"AUTH_ISSUER", "AUTH_AUDIENCE", "AUTH_SIGNING_KEY", "CORS_ORIGINS", "BODY_LIMIT",
	"STUDY_OPEN_DATETIME", "SHORT_DATE_FORMAT", "TIME_ZONE",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "AMQP_URL", "AMQP_QUEUE",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_SCHEMA", "prn")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("BODY_LIMIT", "256K")
	v.SetDefault("SHORT_DATE_FORMAT", datefmt.DefaultShortDate)
	v.SetDefault("TIME_ZONE", "Africa/Gaborone")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("AMQP_QUEUE", "prn.death_reports")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// A missing .env is fine; the environment alone may configure us.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.StudyOpenDatetime != "" {
		t, err := time.Parse(time.RFC3339, cfg.StudyOpenDatetime)
		if err != nil {
			return nil, fmt.Errorf("STUDY_OPEN_DATETIME must be RFC3339: %w", err)
		}
		cfg.studyOpen = t
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("TIME_ZONE %q: %w", cfg.TimeZone, err)
	}
	cfg.location = loc

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// StudyOpen is the parsed STUDY_OPEN_DATETIME.
func (c *Config) StudyOpen() time.Time {
	return c.studyOpen
}

// Location is the display timezone, UTC when TIME_ZONE was never loaded.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Validate refuses configurations the server must not start with: no
// study open date, or a non-development environment without a token key.
func (c *Config) Validate() error {
	if c.studyOpen.IsZero() {
		return fmt.Errorf("STUDY_OPEN_DATETIME is required")
	}
	if !c.IsDev() && len(c.AuthSigningKey) < 32 {
		return fmt.Errorf("AUTH_SIGNING_KEY must be at least 32 bytes when ENV=%q", c.Env)
	}
	return nil
}
