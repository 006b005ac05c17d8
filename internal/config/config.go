package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	IoT       IoTConfig       `yaml:"iot"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	CORSOrigin  string `yaml:"cors_origin"`
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Name           string        `yaml:"name"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	SSL            bool          `yaml:"ssl"`
	MaxConns       int           `yaml:"max_conns"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// IoTConfig configures the LED/sensor backend. Driver is "postgres" (shares
// the database section) or "sqlite" (file at SQLitePath).
type IoTConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
}

// IoT storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        3000,
			CORSOrigin:  "*",
			Environment: "production",
		},
		Database: DatabaseConfig{
			Port:           5432,
			MaxConns:       20,
			IdleTimeout:    30 * time.Second,
			ConnectTimeout: 2 * time.Second,
		},
		Tailscale: TailscaleConfig{
			Hostname: "zenalyze",
			StateDir: "tsnet-state",
		},
		IoT: IoTConfig{
			Host:       "0.0.0.0",
			Port:       5000,
			CORSOrigin: "http://localhost:4200",
			Driver:     DriverPostgres,
			SQLitePath: "zenalyze-iot.db",
		},
	}
}

// sslMode maps the SSL flag to a libpq sslmode. SSL connections do not verify
// the server certificate.
func (d DatabaseConfig) sslMode() string {
	if d.SSL {
		return "require"
	}
	return "disable"
}

func (d DatabaseConfig) url(extra url.Values) string {
	q := url.Values{}
	q.Set("sslmode", d.sslMode())
	if d.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(d.ConnectTimeout.Seconds())))
	}
	for k, v := range extra {
		q[k] = v
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// DSN returns a PostgreSQL connection string understood by lib/pq and golang-migrate.
func (d DatabaseConfig) DSN() string {
	return d.url(nil)
}

// PoolDSN returns DSN plus the pgxpool sizing parameters.
func (d DatabaseConfig) PoolDSN() string {
	extra := url.Values{}
	if d.MaxConns > 0 {
		extra.Set("pool_max_conns", strconv.Itoa(d.MaxConns))
	}
	if d.IdleTimeout > 0 {
		extra.Set("pool_max_conn_idle_time", d.IdleTimeout.String())
	}
	return d.url(extra)
}

// WithSSL returns a copy of d with SSL forced on or off.
func (d DatabaseConfig) WithSSL(ssl bool) DatabaseConfig {
	d.SSL = ssl
	return d
}

// MaskedPassword returns one asterisk per password character, for printing.
func (d DatabaseConfig) MaskedPassword() string {
	return strings.Repeat("*", utf8.RuneCountInString(d.Password))
}

// Validate checks the fields needed to open a PostgreSQL connection.
func (d DatabaseConfig) Validate() error {
	if d.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if d.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if d.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if d.User == "" {
		return fmt.Errorf("database.user is required")
	}
	return nil
}

// Development reports whether the server runs in development mode.
func (c *Config) Development() bool {
	return c.Server.Environment == "development"
}

// Load builds the config from defaults, an optional YAML file, and environment
// variables, in that order of precedence (last wins). An empty path skips the file.
//
// Environment variables keep the names used by existing deployments:
//
//	PORT, CORS_ORIGIN, NODE_ENV,
//	DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_SSL
//
// plus ZENALYZE_SERVER_HOST, ZENALYZE_TAILSCALE_ENABLED, ZENALYZE_TAILSCALE_HOSTNAME,
// ZENALYZE_IOT_PORT, ZENALYZE_IOT_DRIVER and ZENALYZE_IOT_SQLITE_PATH.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ZENALYZE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		cfg.Server.CORSOrigin = v
		cfg.IoT.CORSOrigin = v
	}
	if v := os.Getenv("NODE_ENV"); v != "" {
		cfg.Server.Environment = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_SSL"); v != "" {
		cfg.Database.SSL = v == "true"
	}
	if v := os.Getenv("ZENALYZE_TAILSCALE_ENABLED"); v != "" {
		cfg.Tailscale.Enabled = v == "true"
	}
	if v := os.Getenv("ZENALYZE_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("ZENALYZE_IOT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.IoT.Port = port
		}
	}
	if v := os.Getenv("ZENALYZE_IOT_DRIVER"); v != "" {
		cfg.IoT.Driver = v
	}
	if v := os.Getenv("ZENALYZE_IOT_SQLITE_PATH"); v != "" {
		cfg.IoT.SQLitePath = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	switch c.IoT.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if c.IoT.SQLitePath == "" {
			return fmt.Errorf("iot.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("iot.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.IoT.Driver)
	}
	return nil
}
