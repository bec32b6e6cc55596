// Package config loads server settings from a YAML file, DUGOUT_* environment
// variables and command-line flags, in that order of precedence (flags win).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when --config is not given. A missing default file is not an error.
const DefaultFile = "dugout.yaml"

// Store backends.
const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Identity providers.
const (
	ProviderLine = "line"
	ProviderDev  = "dev"
)

// Config is the full server configuration, one section per YAML key.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	App      AppConfig      `yaml:"app"`
	Store    StoreConfig    `yaml:"store"`
	Identity IdentityConfig `yaml:"identity"`
	Log      LogConfig      `yaml:"log"`
	Notify   NotifyConfig   `yaml:"notify"`
}

// ServerConfig controls the HTTP listener and its middleware.
// RequestTimeout bounds each handler; SlowRequestMs marks requests for the perf log.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	Env            string        `yaml:"env"`
	StaticDir      string        `yaml:"static_dir"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CSRFKey        string        `yaml:"csrf_key"`
	TrustedOrigins []string      `yaml:"trusted_origins"`
	RateLimit      int           `yaml:"rate_limit"`
	SlowRequestMs  int           `yaml:"slow_request_ms"`
}

// AppConfig holds team-facing behaviour: LIFF app, admins, timezone and page sizes.
type AppConfig struct {
	LiffAppID       string   `yaml:"liff_app_id"`
	AdminIDs        []string `yaml:"admin_ids"`
	Timezone        string   `yaml:"timezone"`
	MemoPageSize    int      `yaml:"memo_page_size"`
	UpcomingVisible int      `yaml:"upcoming_visible"`
}

// StoreConfig selects the persistence backend. Only the fields of the chosen
// Backend are read.
type StoreConfig struct {
	Backend              string        `yaml:"backend"`
	SQLitePath           string        `yaml:"sqlite_path"`
	FirestoreProject     string        `yaml:"firestore_project"`
	FirestoreCredentials string        `yaml:"firestore_credentials"`
	SlowOpThreshold      time.Duration `yaml:"slow_op_threshold"`
}

// IdentityConfig selects how login credentials are verified.
// ChannelID and ChannelSecret are required for ProviderLine.
type IdentityConfig struct {
	Provider      string `yaml:"provider"`
	ChannelID     string `yaml:"channel_id"`
	ChannelSecret string `yaml:"channel_secret"`
}

// LogConfig configures the slog handler and file rotation.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// NotifyConfig enables admin email notices when ResendKey is set.
type NotifyConfig struct {
	ResendKey string   `yaml:"resend_key"`
	From      string   `yaml:"from"`
	To        []string `yaml:"to"`
}

// Default returns the settings used before any file, environment or flag is applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			Env:            "development",
			StaticDir:      "static",
			RequestTimeout: 10 * time.Second,
			RateLimit:      10,
			SlowRequestMs:  500,
		},
		App: AppConfig{
			Timezone:        "Asia/Tokyo",
			MemoPageSize:    10,
			UpcomingVisible: 3,
		},
		Store: StoreConfig{
			Backend:    BackendSQLite,
			SQLitePath: "dugout.db",
		},
		Identity: IdentityConfig{Provider: ProviderLine},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
	}
}

// Load parses args (without the program name) and builds the configuration.
// PRE: args holds command-line arguments only
// POST: the returned Config has passed Validate
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("dugout", pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to the YAML config file (default "+DefaultFile+")")
	addr := flags.String("addr", "", "listen address, e.g. :8080")
	env := flags.String("env", "", "environment name (development, production)")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	c := Default()
	if err := c.readFile(*configFile); err != nil {
		return nil, err
	}
	c.applyEnv(os.Getenv)
	if *addr != "" {
		c.Server.Addr = *addr
	}
	if *env != "" {
		c.Server.Env = *env
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) readFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	envString(getenv, &c.Server.Addr, "DUGOUT_ADDR")
	envString(getenv, &c.Server.Env, "DUGOUT_ENV")
	envString(getenv, &c.Server.StaticDir, "DUGOUT_STATIC_DIR")
	envString(getenv, &c.Server.CSRFKey, "DUGOUT_CSRF_KEY")
	envList(getenv, &c.Server.TrustedOrigins, "DUGOUT_TRUSTED_ORIGINS")
	envInt(getenv, &c.Server.RateLimit, "DUGOUT_RATE_LIMIT")
	envDuration(getenv, &c.Server.RequestTimeout, "DUGOUT_REQUEST_TIMEOUT")

	envString(getenv, &c.App.LiffAppID, "DUGOUT_LIFF_APP_ID")
	envList(getenv, &c.App.AdminIDs, "DUGOUT_ADMIN_IDS")
	envString(getenv, &c.App.Timezone, "DUGOUT_TIMEZONE")

	envString(getenv, &c.Store.Backend, "DUGOUT_STORE_BACKEND")
	envString(getenv, &c.Store.SQLitePath, "DUGOUT_SQLITE_PATH")
	envString(getenv, &c.Store.FirestoreProject, "DUGOUT_FIRESTORE_PROJECT")
	envString(getenv, &c.Store.FirestoreCredentials, "DUGOUT_FIRESTORE_CREDENTIALS")

	envString(getenv, &c.Identity.Provider, "DUGOUT_IDENTITY_PROVIDER")
	envString(getenv, &c.Identity.ChannelID, "DUGOUT_LINE_CHANNEL_ID")
	envString(getenv, &c.Identity.ChannelSecret, "DUGOUT_LINE_CHANNEL_SECRET")

	envString(getenv, &c.Log.Level, "DUGOUT_LOG_LEVEL")
	envString(getenv, &c.Log.File, "DUGOUT_LOG_FILE")

	envString(getenv, &c.Notify.ResendKey, "DUGOUT_RESEND_KEY")
	envString(getenv, &c.Notify.From, "DUGOUT_NOTIFY_FROM")
	envList(getenv, &c.Notify.To, "DUGOUT_NOTIFY_TO")
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			return errors.New("store.sqlite_path is required for the sqlite backend")
		}
	case BackendFirestore:
		if strings.TrimSpace(c.Store.FirestoreProject) == "" {
			return errors.New("store.firestore_project is required for the firestore backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want %s or %s)", c.Store.Backend, BackendSQLite, BackendFirestore)
	}

	switch c.Identity.Provider {
	case ProviderLine:
		if c.Identity.ChannelID == "" || c.Identity.ChannelSecret == "" {
			return errors.New("identity.channel_id and identity.channel_secret are required for the line provider")
		}
	case ProviderDev:
		if c.Production() {
			return errors.New("the dev identity provider cannot be used in production")
		}
	default:
		return fmt.Errorf("unknown identity provider %q (want %s or %s)", c.Identity.Provider, ProviderLine, ProviderDev)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if c.App.MemoPageSize <= 0 {
		return errors.New("app.memo_page_size must be positive")
	}
	if c.App.UpcomingVisible <= 0 {
		return errors.New("app.upcoming_visible must be positive")
	}
	return nil
}

// Production reports whether the server runs in the production environment.
func (c *Config) Production() bool {
	return c.Server.Env == "production"
}

// Location resolves App.Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("app.timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

func envString(getenv func(string) string, dst *string, key string) {
	if v := getenv(key); v != "" {
		*dst = v
	}
}

func envInt(getenv func(string) string, dst *int, key string) {
	if v := getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envDuration(getenv func(string) string, dst *time.Duration, key string) {
	if v := getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

// envList splits a comma-separated value, dropping blanks.
func envList(getenv func(string) string, dst *[]string, key string) {
	v := getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
