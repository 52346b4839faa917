package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/meltforce/liftlog/internal/session"
	"github.com/meltforce/liftlog/internal/storage"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
	Session   SessionConfig   `yaml:"session"`
	Health    HealthConfig    `yaml:"health"`
	Seed      SeedConfig      `yaml:"seed"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig selects the store. SQLite uses Path; PostgreSQL uses the
// host fields.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// AuthConfig holds the API key for mutating routes. Empty disables auth.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
	Stdout bool   `yaml:"stdout"`
}

// SessionConfig controls how "previous session" is resolved.
type SessionConfig struct {
	Policy   string        `yaml:"policy"`
	Window   time.Duration `yaml:"window"`
	Location string        `yaml:"location"`
}

type HealthConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Endpoint string        `yaml:"endpoint"`
	Token    string        `yaml:"token"`
	Timeout  time.Duration `yaml:"timeout"`
}

type SeedConfig struct {
	File      string `yaml:"file"`
	OnStartup bool   `yaml:"on_startup"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// Default returns the configuration used for anything the file leaves out.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Host: "127.0.0.1", Port: 8080},
		Database: DatabaseConfig{Driver: string(storage.SQLite), Path: "data/liftlog.db"},
		Logging:  LoggingConfig{Level: "info", Format: "text", Stdout: true},
		Session:  SessionConfig{Policy: session.SameCalendarDay.String(), Window: session.DefaultWindow},
		Health:   HealthConfig{Timeout: 30 * time.Second},
		Seed:     SeedConfig{OnStartup: true},
		Tailscale: TailscaleConfig{
			Hostname: "liftlog",
			StateDir: "data/tsnet",
		},
	}
}

// DSN returns the connection string for the configured driver: a file path
// for SQLite, a URL for PostgreSQL.
func (d DatabaseConfig) DSN() string {
	if driver, _ := storage.ParseDriver(d.Driver); driver == storage.SQLite {
		return d.Path
	}
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// TimeLocation resolves the configured IANA zone. Empty means local time.
func (s SessionConfig) TimeLocation() (*time.Location, error) {
	if s.Location == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Location)
}

// Options builds resolver options from the session section.
func (s SessionConfig) Options() (session.Options, error) {
	policy, err := session.ParsePolicy(s.Policy)
	if err != nil {
		return session.Options{}, err
	}
	loc, err := s.TimeLocation()
	if err != nil {
		return session.Options{}, fmt.Errorf("session.location: %w", err)
	}
	return session.Options{Policy: policy, Window: s.Window, Location: loc}, nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix LIFTLOG_ and underscore-separated paths:
//
//	LIFTLOG_SERVER_HOST, LIFTLOG_SERVER_PORT,
//	LIFTLOG_DB_DRIVER, LIFTLOG_DB_PATH,
//	LIFTLOG_DB_HOST, LIFTLOG_DB_PORT, LIFTLOG_DB_NAME,
//	LIFTLOG_DB_USER, LIFTLOG_DB_PASSWORD, LIFTLOG_DB_SSLMODE,
//	LIFTLOG_AUTH_API_KEY, LIFTLOG_LOG_LEVEL, LIFTLOG_LOG_FILE,
//	LIFTLOG_SESSION_POLICY, LIFTLOG_SESSION_WINDOW, LIFTLOG_SESSION_LOCATION,
//	LIFTLOG_HEALTH_ENABLED, LIFTLOG_HEALTH_ENDPOINT, LIFTLOG_HEALTH_TOKEN,
//	LIFTLOG_SEED_FILE, LIFTLOG_TAILSCALE_ENABLED
//
// A missing file is not an error; defaults and env vars still apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString("LIFTLOG_SERVER_HOST", &cfg.Server.Host)
	setInt("LIFTLOG_SERVER_PORT", &cfg.Server.Port)
	setString("LIFTLOG_DB_DRIVER", &cfg.Database.Driver)
	setString("LIFTLOG_DB_PATH", &cfg.Database.Path)
	setString("LIFTLOG_DB_HOST", &cfg.Database.Host)
	setInt("LIFTLOG_DB_PORT", &cfg.Database.Port)
	setString("LIFTLOG_DB_NAME", &cfg.Database.Name)
	setString("LIFTLOG_DB_USER", &cfg.Database.User)
	setString("LIFTLOG_DB_PASSWORD", &cfg.Database.Password)
	setString("LIFTLOG_DB_SSLMODE", &cfg.Database.SSLMode)
	setString("LIFTLOG_AUTH_API_KEY", &cfg.Auth.APIKey)
	setString("LIFTLOG_LOG_LEVEL", &cfg.Logging.Level)
	setString("LIFTLOG_LOG_FILE", &cfg.Logging.File)
	setString("LIFTLOG_SESSION_POLICY", &cfg.Session.Policy)
	if v := os.Getenv("LIFTLOG_SESSION_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Session.Window = d
		}
	}
	setString("LIFTLOG_SESSION_LOCATION", &cfg.Session.Location)
	setBool("LIFTLOG_HEALTH_ENABLED", &cfg.Health.Enabled)
	setString("LIFTLOG_HEALTH_ENDPOINT", &cfg.Health.Endpoint)
	setString("LIFTLOG_HEALTH_TOKEN", &cfg.Health.Token)
	setString("LIFTLOG_SEED_FILE", &cfg.Seed.File)
	setBool("LIFTLOG_TAILSCALE_ENABLED", &cfg.Tailscale.Enabled)
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}

	driver, err := storage.ParseDriver(c.Database.Driver)
	if err != nil {
		return fmt.Errorf("database.driver: %w", err)
	}
	switch driver {
	case storage.SQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case storage.Postgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	}

	if _, err := c.Session.Options(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if c.Session.Window < 0 {
		return fmt.Errorf("session.window must not be negative")
	}

	if c.Health.Enabled && c.Health.Endpoint == "" {
		return fmt.Errorf("health.endpoint is required when health export is enabled")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
