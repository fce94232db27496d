package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported search cluster drivers.
const (
	DriverElasticsearch = "elasticsearch"
	DriverOpenSearch    = "opensearch"
)

//go:embed default.yaml
var defaultTemplate []byte

// Config holds the triage API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	Search  SearchConfig  `yaml:"search"`
	Query   QueryConfig   `yaml:"query"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SearchConfig holds search cluster connection settings.
type SearchConfig struct {
	Driver           string `yaml:"driver"` // elasticsearch, opensearch (default: elasticsearch)
	URL              string `yaml:"url"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	IndexPattern     string `yaml:"index_pattern"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// QueryConfig holds request defaults and limits.
type QueryConfig struct {
	DefaultDays int `yaml:"default_days"`
	MaxSize     int `yaml:"max_size"` // 0 = unlimited
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// Without a file for env the embedded template is used, so environment variables alone suffice.
func Load(env string) (Config, error) {
	data, err := readConfig(env)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse expands ${VAR} references in data and decodes, defaults and validates the result.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.Driver == "" {
		c.Search.Driver = DriverElasticsearch
	}
	if c.Search.URL == "" {
		c.Search.URL = "http://elasticsearch:9200"
	}
	if c.Search.IndexPattern == "" {
		c.Search.IndexPattern = "cs1_logs-*"
	}
	if c.Search.ReadinessTimeout <= 0 {
		c.Search.ReadinessTimeout = 10
	}
	if c.Query.DefaultDays == 0 {
		c.Query.DefaultDays = 7
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Auth.APIKey == "" {
		return errors.New("auth.api_key is required (set API_KEY)")
	}
	switch c.Search.Driver {
	case DriverElasticsearch, DriverOpenSearch:
		// ok
	default:
		return fmt.Errorf("search.driver must be %q or %q, got %q",
			DriverElasticsearch, DriverOpenSearch, c.Search.Driver)
	}
	if c.Search.URL == "" {
		return errors.New("search.url is required")
	}
	if c.Search.IndexPattern == "" {
		return errors.New("search.index_pattern is required")
	}
	if c.Query.DefaultDays <= 0 {
		return fmt.Errorf("query.default_days must be positive, got %d", c.Query.DefaultDays)
	}
	if c.Query.MaxSize < 0 {
		return fmt.Errorf("query.max_size must not be negative, got %d", c.Query.MaxSize)
	}
	return nil
}

// SearchAddrs returns the cluster addresses; search.url may list several separated by commas.
func (c *Config) SearchAddrs() []string {
	var addrs []string
	for _, a := range strings.Split(c.Search.URL, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	return addrs
}

func readConfig(env string) ([]byte, error) {
	path, ok := findConfigPath(env)
	if !ok {
		return defaultTemplate, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return data, nil
}

// findConfigPath locates the config file for env.
func findConfigPath(env string) (string, bool) {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path, true
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path, true
	}

	return "", false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
