package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/academy/pkg"

	"github.com/BurntSushi/toml"
)

const (
	MessagePolicyMerged   = "merged"
	MessagePolicyDetailed = "detailed"

	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres (account store)
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresUser   string `toml:"postgres_user"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresSSL    string `toml:"postgres_ssl_mode"`
	RunMigrations  bool   `toml:"run_migrations"`

	// redis (session slots, submit guard)
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// login flow
	SessionBackend     string        `toml:"session_backend"`
	LoginMessagePolicy string        `toml:"login_message_policy"`
	LookupTimeout      time.Duration `toml:"lookup_timeout"`
	SubmitGuardTTL     time.Duration `toml:"submit_guard_ttl"`
	// bcrypt cost stored hashes are created with
	PasswordHashCost int `toml:"password_hash_cost"`

	// cors
	AllowedOrigins []string `toml:"allowed_origins"`

	// client cookie
	ClientCookieSecure bool `toml:"client_cookie_secure"`
	ClientCookieMaxAge int  `toml:"client_cookie_max_age"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	return cfg, nil
}

func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.PostgresHost == "" {
		c.PostgresHost = "localhost"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.PostgresDBName == "" {
		c.PostgresDBName = "academy"
	}
	if c.PostgresSSL == "" {
		c.PostgresSSL = "disable"
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.SessionBackend == "" {
		c.SessionBackend = SessionBackendRedis
	}
	if c.LoginMessagePolicy == "" {
		c.LoginMessagePolicy = MessagePolicyMerged
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = 5 * time.Second
	}
	if c.SubmitGuardTTL <= 0 {
		c.SubmitGuardTTL = 2 * c.LookupTimeout
	}
	if c.PasswordHashCost == 0 {
		c.PasswordHashCost = pkg.DefaultPasswordHashCost
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:8080"}
	}
	if c.ClientCookieMaxAge == 0 {
		c.ClientCookieMaxAge = 365 * 24 * 60 * 60
	}
}

func (c *Config) Validate() error {
	switch c.SessionBackend {
	case SessionBackendRedis, SessionBackendMemory:
	default:
		return fmt.Errorf("unknown session backend: %s", c.SessionBackend)
	}

	switch c.LoginMessagePolicy {
	case MessagePolicyMerged, MessagePolicyDetailed:
	default:
		return fmt.Errorf("unknown login message policy: %s", c.LoginMessagePolicy)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	return nil
}

// PostgresURL builds the connection URL for the account store; password may be empty.
func (c *Config) PostgresURL(password string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.User(c.PostgresUser),
		Host:     net.JoinHostPort(c.PostgresHost, c.PostgresPort),
		Path:     "/" + c.PostgresDBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.PostgresSSL),
	}
	if password != "" {
		u.User = url.UserPassword(c.PostgresUser, password)
	}
	return u.String()
}
