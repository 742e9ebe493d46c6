// Package config provides configuration loading, validation, and defaults for
// the Domainscope server.
package config

import (
	"encoding/base64"
	"fmt"
	"net"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration. It is built once at startup and
// passed explicitly to every constructor that needs it.
type Config struct {
	Log        LogConfig        `yaml:"log"        json:"log"`
	Server     ServerConfig     `yaml:"server"     json:"server"`
	Database   DatabaseConfig   `yaml:"database"   json:"database"`
	Moz        MozConfig        `yaml:"moz"        json:"moz"`
	SimilarWeb SimilarWebConfig `yaml:"similarweb" json:"similarweb"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"  json:"level"  env:"LOG_LEVEL"  validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" json:"format" env:"LOG_FORMAT" validate:"omitempty,oneof=text json"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	ListenAddress       string `yaml:"listen_address"        json:"listen_address"        env:"LISTEN_ADDRESS" validate:"required"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"  json:"read_timeout_seconds"  validate:"omitempty,min=1"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds" json:"write_timeout_seconds" validate:"min=0"`

	// RateLimitRequests caps requests per client per window. Zero, the
	// default, disables the limiter.
	RateLimitRequests      int `yaml:"rate_limit_requests"       json:"rate_limit_requests"       env:"RATE_LIMIT_REQUESTS"       validate:"min=0"`
	RateLimitWindowSeconds int `yaml:"rate_limit_window_seconds" json:"rate_limit_window_seconds" env:"RATE_LIMIT_WINDOW_SECONDS" validate:"min=1"`

	// TrustProxyHeaders keys rate limiting on X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that sets those headers.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers" json:"trust_proxy_headers" env:"TRUST_PROXY_HEADERS"`
}

// ReadTimeout returns the server read timeout as a time.Duration.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout as a time.Duration.
// Zero, the default, leaves batch responses without a deadline.
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// RateLimitWindow returns the rate limit window as a time.Duration.
func (c ServerConfig) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

// DatabaseConfig holds PostgreSQL connection settings.
// URL, when set, takes precedence over the discrete fields.
type DatabaseConfig struct {
	URL          string `yaml:"url"            json:"url"            env:"DATABASE_URL"`
	Host         string `yaml:"host"           json:"host"           env:"DB_HOST"           validate:"required_without=URL"`
	Port         int    `yaml:"port"           json:"port"           env:"DB_PORT"           validate:"omitempty,min=1,max=65535"`
	User         string `yaml:"user"           json:"user"           env:"DB_USER"`
	Password     string `yaml:"password"       json:"password"       env:"DB_PASSWORD"`
	Name         string `yaml:"name"           json:"name"           env:"DB_NAME"           validate:"required_without=URL"`
	SSLMode      string `yaml:"sslmode"        json:"sslmode"        env:"DB_SSLMODE"        validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns int    `yaml:"max_open_conns" json:"max_open_conns" env:"DB_MAX_OPEN_CONNS" validate:"omitempty,min=1"`
	MaxIdleConns int    `yaml:"max_idle_conns" json:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" validate:"omitempty,min=0"`
}

// DSN returns the lib/pq connection string for this configuration.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	return u.String()
}

// MozConfig holds the RapidAPI credentials for the DA/PA endpoint.
type MozConfig struct {
	BaseURL        string `yaml:"base_url"        json:"base_url"        validate:"required,url"`
	Host           string `yaml:"host"            json:"host"            env:"RAPIDAPI_HOST"`
	Key            string `yaml:"key"             json:"key"             env:"RAPIDAPI_KEY"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds" validate:"omitempty,min=0"`
}

// Timeout returns the per-request timeout; zero means no timeout.
func (c MozConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SimilarWebConfig holds the RapidAPI credentials for the traffic endpoint.
// Key falls back to the Moz key when unset, since both APIs are usually
// reached through the same RapidAPI account.
type SimilarWebConfig struct {
	BaseURL        string `yaml:"base_url"        json:"base_url"        validate:"required,url"`
	Host           string `yaml:"host"            json:"host"            env:"SIMILARWEB_API_HOST"`
	Key            string `yaml:"key"             json:"key"             env:"SIMILARWEB_API_KEY"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds" validate:"omitempty,min=1"`
}

// Timeout returns the per-request timeout.
func (c SimilarWebConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load builds a Config from defaults, an optional YAML file and the
// environment, then validates it. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if cfg.SimilarWeb.Key == "" {
		cfg.SimilarWeb.Key = cfg.Moz.Key
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Redacted returns a copy of the configuration with secrets masked, suitable
// for logging.
func (c Config) Redacted() Config {
	c.Database.Password = redactString(c.Database.Password)
	c.Moz.Key = redactString(c.Moz.Key)
	c.SimilarWeb.Key = redactString(c.SimilarWeb.Key)
	if c.Database.URL != "" {
		if u, err := url.Parse(c.Database.URL); err == nil {
			c.Database.URL = u.Redacted()
		} else {
			c.Database.URL = redactString(c.Database.URL)
		}
	}
	return c
}

// applyEnvOverrides walks the config struct and overwrites fields that have
// an "env" tag if the corresponding environment variable is set.
func applyEnvOverrides(cfg *Config) error {
	return applyEnvOverridesOnValue(reflect.ValueOf(cfg))
}

func applyEnvOverridesOnValue(v reflect.Value) error {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if fieldVal.Kind() == reflect.Struct {
			if err := applyEnvOverridesOnValue(fieldVal.Addr()); err != nil {
				return err
			}
			continue
		}

		envKey := field.Tag.Get("env")
		if envKey == "" {
			continue
		}

		envVal, ok, err := lookupEnv(envKey)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		if err := setFieldFromString(fieldVal, envVal); err != nil {
			return fmt.Errorf("invalid value for %s: %w", envKey, err)
		}
	}
	return nil
}

// lookupEnv retrieves an environment variable that may be base64 encoded.
// Values prefixed with "base64:" are decoded, which keeps credentials with
// awkward characters out of shell quoting trouble.
func lookupEnv(key string) (string, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false, nil
	}

	if strings.HasPrefix(value, "base64:") {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, "base64:"))
		if err != nil {
			return "", false, fmt.Errorf("invalid base64 encoding for %s: %w", key, err)
		}
		return string(decoded), true, nil
	}

	return value, true, nil
}

// setFieldFromString sets a reflect.Value from a string for the field kinds
// used in Config.
func setFieldFromString(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		field.SetBool(b)
	}
	return nil
}

// redactString replaces a secret string with "****" if non-empty.
func redactString(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}
