// Package config wraps Viper for shopfind's layered configuration: built-in
// defaults, an optional config file, then SHOPFIND_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides; "server.port" is read
// from SHOPFIND_SERVER_PORT.
const EnvPrefix = "SHOPFIND"

// Config is read-only access to a configuration subtree.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetFloat64(key string) float64
	GetDuration(key string) time.Duration
	IsSet(key string) bool
	Sub(key string) Config
	Unmarshal(target any) error
}

// Compile-time interface guard.
var _ Config = (*ViperConfig)(nil)

// ViperConfig implements Config on a *viper.Viper.
type ViperConfig struct {
	v *viper.Viper
}

// New wraps v. A nil v behaves as an empty configuration.
func New(v *viper.Viper) *ViperConfig {
	if v == nil {
		v = viper.New()
	}
	return &ViperConfig{v: v}
}

func (c *ViperConfig) GetString(key string) string          { return c.v.GetString(key) }
func (c *ViperConfig) GetInt(key string) int                { return c.v.GetInt(key) }
func (c *ViperConfig) GetBool(key string) bool              { return c.v.GetBool(key) }
func (c *ViperConfig) GetFloat64(key string) float64        { return c.v.GetFloat64(key) }
func (c *ViperConfig) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }
func (c *ViperConfig) IsSet(key string) bool                { return c.v.IsSet(key) }

// Sub returns the subtree at key, or an empty Config when it does not exist.
// Each leaf is resolved on the parent first, so defaults, file values and
// environment overrides all carry into the subtree.
func (c *ViperConfig) Sub(key string) Config {
	prefix := strings.ToLower(key) + "."
	sub := viper.New()
	for _, k := range c.v.AllKeys() {
		if strings.HasPrefix(k, prefix) {
			sub.Set(strings.TrimPrefix(k, prefix), c.v.Get(k))
		}
	}
	return New(sub)
}

// Unmarshal decodes the whole tree into target using mapstructure tags.
func (c *ViperConfig) Unmarshal(target any) error {
	return c.v.Unmarshal(target)
}

// Settings is the typed view of the service configuration.
type Settings struct {
	Server ServerSettings `mapstructure:"server"`
	Source SourceSettings `mapstructure:"source"`
	Search SearchSettings `mapstructure:"search"`
	Sink   SinkSettings   `mapstructure:"sink"`
	DB     DBSettings     `mapstructure:"db"`
}

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Host      string  `mapstructure:"host"`
	Port      int     `mapstructure:"port"`
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

// Addr returns host:port.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Source kinds.
const (
	SourceEmbedded = "embedded"
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourceSQLite   = "sqlite"
)

// SourceSettings selects where the catalog is fetched from.
type SourceSettings struct {
	Kind    string        `mapstructure:"kind"`
	URL     string        `mapstructure:"url"`
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SearchSettings tunes the fuzzy matcher.
type SearchSettings struct {
	Threshold float64 `mapstructure:"threshold"`
	Distance  int     `mapstructure:"distance"`
}

// Sink kinds.
const (
	SinkLog  = "log"
	SinkMQTT = "mqtt"
	SinkNone = "none"
)

// SinkSettings selects where product selections are forwarded.
type SinkSettings struct {
	Kind     string        `mapstructure:"kind"`
	Broker   string        `mapstructure:"broker"`
	Topic    string        `mapstructure:"topic"`
	ClientID string        `mapstructure:"client_id"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DBSettings locates the SQLite catalog database.
type DBSettings struct {
	Path string `mapstructure:"path"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("source.kind", SourceEmbedded)
	v.SetDefault("source.url", "")
	v.SetDefault("source.path", "")
	v.SetDefault("source.timeout", "10s")
	v.SetDefault("search.threshold", 0.4)
	v.SetDefault("search.distance", 100)
	v.SetDefault("sink.kind", SinkLog)
	v.SetDefault("sink.broker", "")
	v.SetDefault("sink.topic", "shopfind/selection")
	v.SetDefault("sink.client_id", "shopfind")
	v.SetDefault("sink.timeout", "5s")
	v.SetDefault("db.path", "shopfind.db")
}

// Load builds a Viper instance from defaults, the optional file at path and
// the environment. It returns the validated Settings together with the raw
// tree, from which components read their own subtrees.
func Load(path string) (*Settings, Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := New(v)
	var s Settings
	if err := cfg.Unmarshal(&s); err != nil {
		return nil, nil, fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	return &s, cfg, nil
}

// Validate checks cross-field requirements.
func (s *Settings) Validate() error {
	var errs []error

	switch s.Source.Kind {
	case SourceEmbedded, SourceSQLite:
	case SourceHTTP:
		if s.Source.URL == "" {
			errs = append(errs, errors.New("source.url is required for the http source"))
		}
	case SourceFile:
		if s.Source.Path == "" {
			errs = append(errs, errors.New("source.path is required for the file source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source.kind %q", s.Source.Kind))
	}

	switch s.Sink.Kind {
	case SinkLog, SinkNone:
	case SinkMQTT:
		if s.Sink.Broker == "" {
			errs = append(errs, errors.New("sink.broker is required for the mqtt sink"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown sink.kind %q", s.Sink.Kind))
	}

	if s.Search.Threshold < 0 || s.Search.Threshold > 1 {
		errs = append(errs, fmt.Errorf("search.threshold %v outside [0,1]", s.Search.Threshold))
	}
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", s.Server.Port))
	}
	return errors.Join(errs...)
}
