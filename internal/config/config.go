package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/grecp/internal/logging"
	"github.com/danmuck/grecp/internal/protocol/gre"
	"github.com/danmuck/grecp/internal/protocol/grecp"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes environment overrides, e.g. GRECP_STRICT=true.
const EnvPrefix = "GRECP"

type Config struct {
	Protocols       []string `toml:"protocols" split_words:"true"`
	PayloadOnly     bool     `toml:"payload_only" split_words:"true"`
	Strict          bool     `toml:"strict" split_words:"true"`
	MaxPayloadBytes int      `toml:"max_payload_bytes" split_words:"true"`
	LogLevel        string   `toml:"log_level" split_words:"true"`
	MetricsTextfile string   `toml:"metrics_textfile" split_words:"true"`
	ListenAddr      string   `toml:"listen_addr" split_words:"true"`
	CorsOrigins     []string `toml:"cors_origins" split_words:"true"`
}

type fileConfig struct {
	Protocols       []string `toml:"protocols"`
	PayloadOnly     bool     `toml:"payload_only"`
	Strict          bool     `toml:"strict"`
	MaxPayloadBytes int      `toml:"max_payload_bytes"`
	LogLevel        string   `toml:"log_level"`
	MetricsTextfile string   `toml:"metrics_textfile"`
	ListenAddr      string   `toml:"listen_addr"`
	CorsOrigins     []string `toml:"cors_origins"`
}

func DefaultConfig() Config {
	return Config{
		Protocols:       []string{"any"},
		MaxPayloadBytes: gre.DefaultLimits().MaxPayloadBytes,
		LogLevel:        "info",
		ListenAddr:      "127.0.0.1:9480",
	}
}

// Load layers the TOML file at path (if any) and GRECP_* environment
// variables over DefaultConfig, then validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config env overrides: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load grecp config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load grecp config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("protocols") {
		cfg.Protocols = normalizeNames(raw.Protocols)
	}
	if meta.IsDefined("payload_only") {
		cfg.PayloadOnly = raw.PayloadOnly
	}
	if meta.IsDefined("strict") {
		cfg.Strict = raw.Strict
	}
	if meta.IsDefined("max_payload_bytes") {
		cfg.MaxPayloadBytes = raw.MaxPayloadBytes
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("metrics_textfile") {
		cfg.MetricsTextfile = strings.TrimSpace(raw.MetricsTextfile)
	}
	if meta.IsDefined("listen_addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeNames(raw.CorsOrigins)
	}
	return nil
}

func Validate(cfg Config) error {
	if _, err := grecp.ParseBinding(cfg.Protocols); err != nil {
		return fmt.Errorf("config protocols invalid: %w", err)
	}
	if cfg.MaxPayloadBytes <= 0 || cfg.MaxPayloadBytes > 0xFFFF {
		return fmt.Errorf("config max_payload_bytes out of range: %d", cfg.MaxPayloadBytes)
	}
	if cfg.LogLevel != "" {
		if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
			return fmt.Errorf("config log_level unknown: %q", cfg.LogLevel)
		}
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return fmt.Errorf("config missing listen_addr")
	}
	for i, origin := range cfg.CorsOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("config cors_origins[%d] must be an http(s) origin: %q", i, origin)
		}
	}
	return nil
}

// Binding resolves the configured protocol names.
func (c Config) Binding() (grecp.Binding, error) {
	return grecp.ParseBinding(c.Protocols)
}

func (c Config) Limits() gre.Limits {
	return gre.Limits{MaxPayloadBytes: c.MaxPayloadBytes}
}

func normalizeNames(in []string) []string {
	var out []string
	for _, name := range in {
		v := strings.TrimSpace(name)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
