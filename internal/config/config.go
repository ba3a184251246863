package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix     = "DEALER_"
	ConfigPathEnv = "DEALER_CONFIG"
	DefaultPath   = "config.yaml"
)

type Config struct {
	Server   Server   `koanf:"server"`
	Database Database `koanf:"database"`
	Logging  Logging  `koanf:"logging"`
	Auth     Auth     `koanf:"auth"`

	// Timezone decides which calendar day "today" is for date rules.
	Timezone string `koanf:"timezone"`
	// EnumsDir overrides the built-in reference catalogs when set.
	EnumsDir string `koanf:"enums_dir"`
}

type Server struct {
	Port            string        `koanf:"port"`
	Mode            string        `koanf:"mode"` // gin mode: debug | release | test
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type Database struct {
	Driver          string        `koanf:"driver"` // sqlite | postgres
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	SlowQuery       time.Duration `koanf:"slow_query"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type Logging struct {
	Level     string `koanf:"level"`
	Format    string `koanf:"format"` // json | text
	File      string `koanf:"file"`   // empty = stderr
	MaxSizeMB int    `koanf:"max_size_mb"`
}

type Auth struct {
	Enabled       bool          `koanf:"enabled"`
	Secret        string        `koanf:"secret"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
	AdminUsername string        `koanf:"admin_username"`
	AdminPassword string        `koanf:"admin_password"`
	AdminEmail    string        `koanf:"admin_email"`
}

func def() Config {
	return Config{
		Server: Server{Port: "8080", Mode: "release", ShutdownTimeout: 10 * time.Second},
		Database: Database{
			Driver:          "sqlite",
			DSN:             "dealer.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			SlowQuery:       200 * time.Millisecond,
			AutoMigrate:     true,
		},
		Logging: Logging{Level: "info", Format: "json", MaxSizeMB: 50},
		Auth: Auth{
			Enabled:       true,
			TokenTTL:      8 * time.Hour,
			AdminUsername: "admin",
			AdminEmail:    "admin@localhost.localdomain",
		},
		Timezone: "America/Sao_Paulo",
	}
}

// sections are the top-level keys; env names split on the first "_" after one of them.
var sections = []string{"server", "database", "logging", "auth"}

// envKey maps DEALER_DATABASE_MAX_OPEN_CONNS to database.max_open_conns.
func envKey(key string) string {
	if key == ConfigPathEnv {
		return ""
	}
	k := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	for _, s := range sections {
		if strings.HasPrefix(k, s+"_") {
			return s + "." + strings.TrimPrefix(k, s+"_")
		}
	}
	return k
}

// flag name -> config path
var flagPaths = map[string]string{
	"port":         "server.port",
	"mode":         "server.mode",
	"db-driver":    "database.driver",
	"db-dsn":       "database.dsn",
	"auto-migrate": "database.auto_migrate",
	"log-level":    "logging.level",
	"log-format":   "logging.format",
	"log-file":     "logging.file",
	"auth":         "auth.enabled",
	"enums":        "enums_dir",
	"timezone":     "timezone",
}

// Load layers defaults, the YAML file, DEALER_* variables and command-line
// flags, in that order. args excludes the program name.
func Load(args []string) (*Config, error) {
	d := def()
	fs := flag.NewFlagSet("dealer", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config YAML (default $DEALER_CONFIG or ./config.yaml)")
	fs.String("port", d.Server.Port, "HTTP port")
	fs.String("mode", d.Server.Mode, "gin mode (debug/release/test)")
	fs.String("db-driver", d.Database.Driver, "Database driver (sqlite/postgres)")
	fs.String("db-dsn", d.Database.DSN, "Database DSN")
	fs.Bool("auto-migrate", d.Database.AutoMigrate, "Create/extend tables on start")
	fs.String("log-level", d.Logging.Level, "Log level (debug/info/warn/error)")
	fs.String("log-format", d.Logging.Format, "Log format (json/text)")
	fs.String("log-file", d.Logging.File, "Log file (empty = stderr)")
	fs.Bool("auth", d.Auth.Enabled, "Require bearer tokens on entity routes")
	fs.String("enums", d.EnumsDir, "Directory with reference catalogs (empty = built-in)")
	fs.String("timezone", d.Timezone, "IANA timezone for calendar-day rules")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(d, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	path, explicit := *configPath, *configPath != ""
	if !explicit {
		if p, ok := os.LookupEnv(ConfigPathEnv); ok && p != "" {
			path, explicit = p, true
		} else {
			path = DefaultPath
		}
	}
	if st, err := os.Stat(path); err == nil && !st.IsDir() {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: not found", path)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var ferr error
	fs.Visit(func(f *flag.Flag) {
		p, ok := flagPaths[f.Name]
		if !ok || ferr != nil {
			return
		}
		ferr = k.Set(p, f.Value.String())
	})
	if ferr != nil {
		return nil, fmt.Errorf("apply flags: %w", ferr)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	normalize(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func normalize(c *Config) {
	c.Server.Port = strings.TrimSpace(c.Server.Port)
	c.Server.Mode = strings.ToLower(strings.TrimSpace(c.Server.Mode))
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.Database.DSN = strings.TrimSpace(c.Database.DSN)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.EnumsDir = strings.TrimSpace(c.EnumsDir)
	c.Timezone = strings.TrimSpace(c.Timezone)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is empty"))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode %q: want debug, release or test", c.Server.Mode))
	}
	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver %q: want sqlite or postgres", c.Database.Driver))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is unknown", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q: want json or text", c.Logging.Format))
	}
	if c.Auth.Enabled {
		if c.Auth.Secret == "" {
			errs = append(errs, errors.New("auth.secret is required when auth is enabled"))
		}
		if c.Auth.TokenTTL <= 0 {
			errs = append(errs, errors.New("auth.token_ttl must be positive"))
		}
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("timezone %q: %w", c.Timezone, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Location resolves Timezone; empty means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c *Config) Addr() string {
	if strings.HasPrefix(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}
