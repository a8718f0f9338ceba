package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/zwalletctl/internal/codec"
	"github.com/danmuck/zwalletctl/internal/logging"
	"github.com/danmuck/zwalletctl/internal/sapling"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment override, e.g. ZWALLETCTL_NETWORK.
const EnvPrefix = "zwalletctl"

type Config struct {
	Network        sapling.Network
	DefaultFrom    string
	DefaultTo      string
	MaxSequenceLen uint64
	StrictHDIndex  bool
	LogLevel       string
}

type fileConfig struct {
	Network        string `toml:"network"`
	DefaultFrom    string `toml:"default_from"`
	DefaultTo      string `toml:"default_to"`
	MaxSequenceLen uint64 `toml:"max_sequence_len"`
	StrictHDIndex  bool   `toml:"strict_hd_index"`
	LogLevel       string `toml:"log_level"`
}

type envConfig struct {
	Network        string `envconfig:"NETWORK"`
	DefaultFrom    string `envconfig:"DEFAULT_FROM"`
	DefaultTo      string `envconfig:"DEFAULT_TO"`
	MaxSequenceLen uint64 `envconfig:"MAX_SEQUENCE_LEN"`
	StrictHDIndex  bool   `envconfig:"STRICT_HD_INDEX"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
}

func Default() Config {
	return Config{
		Network:        sapling.Mainnet,
		DefaultFrom:    "zwl",
		DefaultTo:      "portable",
		MaxSequenceLen: codec.MaxCompactSize,
		LogLevel:       "info",
	}
}

// Load starts from Default, applies the TOML file at path when path is non-empty, then
// ZWALLETCTL_* environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := applyFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(path string, cfg *Config) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("config parse failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("network") {
		n, err := sapling.ParseNetwork(raw.Network)
		if err != nil {
			return fmt.Errorf("parse network: %w", err)
		}
		cfg.Network = n
	}
	if meta.IsDefined("default_from") {
		cfg.DefaultFrom = strings.TrimSpace(raw.DefaultFrom)
	}
	if meta.IsDefined("default_to") {
		cfg.DefaultTo = strings.TrimSpace(raw.DefaultTo)
	}
	if meta.IsDefined("max_sequence_len") {
		cfg.MaxSequenceLen = raw.MaxSequenceLen
	}
	if meta.IsDefined("strict_hd_index") {
		cfg.StrictHDIndex = raw.StrictHDIndex
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	return nil
}

// applyEnv only touches fields whose variable is set.
func applyEnv(cfg *Config) error {
	env := envConfig{
		Network:        string(cfg.Network),
		DefaultFrom:    cfg.DefaultFrom,
		DefaultTo:      cfg.DefaultTo,
		MaxSequenceLen: cfg.MaxSequenceLen,
		StrictHDIndex:  cfg.StrictHDIndex,
		LogLevel:       cfg.LogLevel,
	}
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("config env overrides: %w", err)
	}
	n, err := sapling.ParseNetwork(env.Network)
	if err != nil {
		return fmt.Errorf("parse %s_NETWORK: %w", strings.ToUpper(EnvPrefix), err)
	}
	cfg.Network = n
	cfg.DefaultFrom = strings.TrimSpace(env.DefaultFrom)
	cfg.DefaultTo = strings.TrimSpace(env.DefaultTo)
	cfg.MaxSequenceLen = env.MaxSequenceLen
	cfg.StrictHDIndex = env.StrictHDIndex
	cfg.LogLevel = strings.TrimSpace(env.LogLevel)
	return nil
}

func Validate(cfg Config) error {
	if _, err := sapling.ParseNetwork(string(cfg.Network)); err != nil || cfg.Network == "" {
		return fmt.Errorf("config invalid network %q", cfg.Network)
	}
	if cfg.DefaultFrom == "" {
		return fmt.Errorf("config missing default_from")
	}
	if cfg.DefaultTo == "" {
		return fmt.Errorf("config missing default_to")
	}
	if cfg.MaxSequenceLen == 0 || cfg.MaxSequenceLen > codec.MaxCompactSize {
		return fmt.Errorf("config max_sequence_len must be in 1..%d, got %d", codec.MaxCompactSize, cfg.MaxSequenceLen)
	}
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("config invalid log_level %q", cfg.LogLevel)
	}
	return nil
}

// Limits converts the decode limits for codec readers.
func (c Config) Limits() codec.Limits {
	return codec.Limits{MaxSequenceLen: c.MaxSequenceLen}
}
