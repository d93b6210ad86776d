package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vango-dev/sortable/internal/errors"
	"github.com/vango-dev/sortable/pkg/sortable"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "sortable.json"

	// TOMLFileName is the name of the TOML configuration file.
	TOMLFileName = "sortable.toml"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultRefreshDelay is the default auto-refresh delay.
	DefaultRefreshDelay = "15s"

	// DefaultPersistTimeout bounds one persistence POST.
	DefaultPersistTimeout = "10s"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "sortable"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverS3     = "s3"
)

// Config represents the complete configuration file.
type Config struct {
	// Name is the deployment name, used in logs.
	Name string `json:"name,omitempty" toml:"name"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty" toml:"server"`

	// Store contains order store configuration.
	Store StoreConfig `json:"store,omitempty" toml:"store"`

	// Persist contains the reorder POST target.
	Persist PersistConfig `json:"persist,omitempty" toml:"persist"`

	// Refresh contains auto-refresh configuration.
	Refresh RefreshConfig `json:"refresh,omitempty" toml:"refresh"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty" toml:"metrics"`

	// Sortable contains the selectors drag sessions are built with.
	Sortable sortable.Config `json:"sortable,omitempty" toml:"sortable"`

	// Seed lists entries to create for sortable types that have none.
	Seed map[string][]SeedEntry `json:"seed,omitempty" toml:"seed"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty" toml:"host"`
	Port int    `json:"port,omitempty" toml:"port"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "5s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" toml:"shutdown_timeout"`
}

// StoreConfig contains order store settings.
type StoreConfig struct {
	// Driver is one of memory, sqlite, redis, s3.
	Driver string `json:"driver,omitempty" toml:"driver"`

	// Path is the SQLite database file.
	Path string `json:"path,omitempty" toml:"path"`

	// Addr, Password and DB configure Redis.
	Addr     string `json:"addr,omitempty" toml:"addr"`
	Password string `json:"password,omitempty" toml:"password"`
	DB       int    `json:"db,omitempty" toml:"db"`

	// Bucket, Region and Endpoint configure S3.
	Bucket   string `json:"bucket,omitempty" toml:"bucket"`
	Region   string `json:"region,omitempty" toml:"region"`
	Endpoint string `json:"endpoint,omitempty" toml:"endpoint"`

	// Prefix namespaces Redis keys and S3 object keys.
	Prefix string `json:"prefix,omitempty" toml:"prefix"`
}

// PersistConfig contains settings for POSTing sorted orders.
type PersistConfig struct {
	// Endpoint is the base URL of the reorder API. Empty means this server.
	Endpoint string `json:"endpoint,omitempty" toml:"endpoint"`

	// Timeout bounds one POST (e.g., "10s").
	Timeout string `json:"timeout,omitempty" toml:"timeout"`
}

// RefreshConfig contains auto-refresh settings.
type RefreshConfig struct {
	// Delay is the idle time before a session is told to reload (e.g., "15s").
	Delay string `json:"delay,omitempty" toml:"delay"`

	// Disabled turns auto-refresh off.
	Disabled bool `json:"disabled,omitempty" toml:"disabled"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" toml:"enabled"`
	Namespace string `json:"namespace,omitempty" toml:"namespace"`
	Subsystem string `json:"subsystem,omitempty" toml:"subsystem"`
	Path      string `json:"path,omitempty" toml:"path"`

	// Labels are constant labels added to every series.
	Labels map[string]string `json:"labels,omitempty" toml:"labels"`

	// Buckets override the request duration histogram buckets (seconds).
	Buckets []float64 `json:"buckets,omitempty" toml:"buckets"`
}

// SeedEntry is one initial entry of a sortable type.
type SeedEntry struct {
	ID   int    `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{
		Name:     "sortable",
		Sortable: sortable.TableConfig(),
		Metrics:  MetricsConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for sortable.json, then sortable.toml.
func Load(dir string) (*Config, error) {
	jsonPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(jsonPath); err == nil {
		return LoadFile(jsonPath)
	}
	tomlPath := filepath.Join(dir, TOMLFileName)
	if _, err := os.Stat(tomlPath); err == nil {
		return LoadFile(tomlPath)
	}
	return nil, errors.New("E100").
		WithDetail("No " + ConfigFileName + " or " + TOMLFileName + " found in " + dir).
		WithSuggestion("Create " + ConfigFileName + " or pass --config")
}

// LoadFile reads configuration from the specified file path. Files ending
// in .toml are decoded as TOML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := &Config{
		Name:     "sortable",
		Sortable: sortable.TableConfig(),
		Metrics:  MetricsConfig{Enabled: true},
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, errors.New("E101").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid TOML")
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "5s"
	}

	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}
	if c.Store.Path == "" {
		c.Store.Path = "sortable.db"
	}
	if c.Store.Addr == "" {
		c.Store.Addr = "localhost:6379"
	}
	if c.Store.Prefix == "" {
		c.Store.Prefix = "sortable/"
	}
	if c.Store.Region == "" {
		c.Store.Region = "us-east-1"
	}

	if c.Persist.Timeout == "" {
		c.Persist.Timeout = DefaultPersistTimeout
	}

	if c.Refresh.Delay == "" {
		c.Refresh.Delay = DefaultRefreshDelay
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	if c.Sortable.IDAttr == "" {
		c.Sortable.IDAttr = sortable.DefaultIDAttr
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E102").
			WithDetail("server.port must be between 0 and 65535")
	}

	switch c.Store.Driver {
	case DriverMemory, DriverSQLite, DriverRedis:
	case DriverS3:
		if c.Store.Bucket == "" {
			return errors.New("E102").
				WithDetail("store.bucket is required for the s3 driver")
		}
	default:
		return errors.New("E102").
			WithDetailf("store.driver %q is not one of memory, sqlite, redis, s3", c.Store.Driver)
	}

	for name, value := range map[string]string{
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
		"persist.timeout":        c.Persist.Timeout,
		"refresh.delay":          c.Refresh.Delay,
	} {
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return errors.New("E102").
				WithDetailf("%s %q is not a positive duration", name, value)
		}
	}

	for i := 1; i < len(c.Metrics.Buckets); i++ {
		if c.Metrics.Buckets[i] <= c.Metrics.Buckets[i-1] {
			return errors.New("E102").
				WithDetailf("metrics.buckets must be strictly increasing, got %v", c.Metrics.Buckets)
		}
	}

	for typ, entries := range c.Seed {
		seen := make(map[int]bool, len(entries))
		for _, e := range entries {
			if seen[e.ID] {
				return errors.New("E102").
					WithDetailf("seed %q lists id %d twice", typ, e.ID)
			}
			seen[e.ID] = true
		}
	}
	return nil
}

// Address returns the address string for the server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// PersistEndpoint returns the base URL sorted orders are POSTed to.
func (c *Config) PersistEndpoint() string {
	if c.Persist.Endpoint != "" {
		return strings.TrimRight(c.Persist.Endpoint, "/")
	}
	return c.URL()
}

// RefreshDelay returns the parsed refresh delay, or 0 when disabled.
func (c *Config) RefreshDelay() time.Duration {
	if c.Refresh.Disabled {
		return 0
	}
	return parseDuration(c.Refresh.Delay, DefaultRefreshDelay)
}

// PersistTimeout returns the parsed persistence timeout.
func (c *Config) PersistTimeout() time.Duration {
	return parseDuration(c.Persist.Timeout, DefaultPersistTimeout)
}

// ShutdownTimeout returns the parsed graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, "5s")
}

func parseDuration(value, fallback string) time.Duration {
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}
