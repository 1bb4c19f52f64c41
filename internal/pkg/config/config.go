package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Search    SearchConfig    `mapstructure:"search"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int    `mapstructure:"port"`
	ReadTimeout    int    `mapstructure:"read_timeout"`
	WriteTimeout   int    `mapstructure:"write_timeout"`
	RequestTimeout int    `mapstructure:"request_timeout"`
	CORSOrigins    string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// DSN builds a postgres:// connection string. Credentials are escaped.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
	// RetentionHours bounds how long search events stay in the stream.
	RetentionHours int    `mapstructure:"retention_hours"`
	Durable        string `mapstructure:"durable"`
}

// Retention returns the stream retention as a duration.
func (n NATSConfig) Retention() time.Duration {
	return time.Duration(n.RetentionHours) * time.Hour
}

type ValkeyConfig struct {
	Addr      string `mapstructure:"addr"`
	Enabled   bool   `mapstructure:"enabled"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type TelemetryConfig struct {
	ServiceName string  `mapstructure:"service_name"`
	TempoAddr   string  `mapstructure:"tempo_addr"`
	Enabled     bool    `mapstructure:"enabled"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// SearchConfig tunes the proximity search. MaxRadiusMeters 0 leaves the
// radius unbounded.
type SearchConfig struct {
	DefaultRadiusMeters int     `mapstructure:"default_radius_meters"`
	MaxRadiusMeters     int     `mapstructure:"max_radius_meters"`
	BoxMargin           float64 `mapstructure:"box_margin"`
	ParallelThreshold   int     `mapstructure:"parallel_threshold"`
	StoreTimeoutSeconds int     `mapstructure:"store_timeout_seconds"`
}

// StoreTimeout returns the candidate query bound.
func (s SearchConfig) StoreTimeout() time.Duration {
	return time.Duration(s.StoreTimeoutSeconds) * time.Second
}

type RateLimitConfig struct {
	Max           int `mapstructure:"max"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

// Window returns the limiter window.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: CCTVLOCATOR_DATABASE_HOST → database.host
	v.SetEnvPrefix("CCTVLOCATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.request_timeout", 15)
	v.SetDefault("server.cors_origins", "http://localhost:3000, http://localhost:5173")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "cctv")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "cctvlocator")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 50)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", true)
	v.SetDefault("nats.retention_hours", 168)
	v.SetDefault("nats.durable", "search-auditor")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.enabled", true)
	v.SetDefault("valkey.key_prefix", "cctvlocator:limiter:")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("search.default_radius_meters", 500)
	v.SetDefault("search.max_radius_meters", 0)
	v.SetDefault("search.box_margin", 0.01)
	v.SetDefault("search.parallel_threshold", 2048)
	v.SetDefault("search.store_timeout_seconds", 10)
	v.SetDefault("rate_limit.max", 120)
	v.SetDefault("rate_limit.window_seconds", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "server.request_timeout must be positive")
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats is enabled")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey is enabled")
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Sprintf("telemetry.sample_ratio must be within [0, 1], got %v", c.Telemetry.SampleRatio))
	}
	if c.Search.DefaultRadiusMeters <= 0 {
		errs = append(errs, "search.default_radius_meters must be positive")
	}
	switch {
	case c.Search.MaxRadiusMeters < 0:
		errs = append(errs, "search.max_radius_meters must not be negative (0 disables the cap)")
	case c.Search.MaxRadiusMeters > 0 && c.Search.MaxRadiusMeters < c.Search.DefaultRadiusMeters:
		errs = append(errs, fmt.Sprintf("search.max_radius_meters (%d) must be >= search.default_radius_meters (%d)",
			c.Search.MaxRadiusMeters, c.Search.DefaultRadiusMeters))
	}
	if c.Search.BoxMargin < 0 {
		errs = append(errs, "search.box_margin must not be negative")
	}
	if c.Search.ParallelThreshold < 0 {
		errs = append(errs, "search.parallel_threshold must not be negative")
	}
	if c.Search.StoreTimeoutSeconds <= 0 {
		errs = append(errs, "search.store_timeout_seconds must be positive")
	}
	if c.RateLimit.Max < 0 {
		errs = append(errs, "rate_limit.max must not be negative")
	}
	if c.RateLimit.Max > 0 && c.RateLimit.WindowSeconds <= 0 {
		errs = append(errs, "rate_limit.window_seconds must be positive when rate limiting is on")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
