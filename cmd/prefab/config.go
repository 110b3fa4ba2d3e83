package main

import (
	"io"
	"os"
	"time"

	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Config is read from PREFAB_* environment variables; flags override it.
type Config struct {
	AssetRoot   string `config:"PREFAB_ASSET_ROOT"`
	RedisAddr   string `config:"PREFAB_REDIS_ADDR"`
	RedisPrefix string `config:"PREFAB_REDIS_PREFIX"`
	LogLevel    string `config:"PREFAB_LOG_LEVEL"`
	Workers     int    `config:"PREFAB_WORKERS"`
	Debug       bool   `config:"PREFAB_DEBUG"`
}

func defaultConfig() Config {
	return Config{
		AssetRoot:   ".",
		RedisPrefix: "prefab:asset:",
		LogLevel:    "info",
		Workers:     4,
	}
}

// loadConfig reads the environment on top of the defaults.
func loadConfig() (Config, error) {
	cfg := defaultConfig()
	if err := jlconfig.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "load config from environment")
	}
	return cfg, nil
}

func addConfigFlags(cmd *cobra.Command) {
	d := defaultConfig()
	f := cmd.PersistentFlags()
	f.String("assets", d.AssetRoot, "asset root directory (env PREFAB_ASSET_ROOT)")
	f.String("redis", "", "read assets from this redis address instead (env PREFAB_REDIS_ADDR)")
	f.String("redis-prefix", d.RedisPrefix, "redis key prefix (env PREFAB_REDIS_PREFIX)")
	f.String("log-level", d.LogLevel, "log level (env PREFAB_LOG_LEVEL)")
	f.Int("workers", d.Workers, "asset loader workers (env PREFAB_WORKERS)")
	f.Bool("debug", false, "warn about deep or wide trees while spawning (env PREFAB_DEBUG)")
	f.Duration("timeout", 30*time.Second, "asset load timeout")
}

// applyFlags overrides cfg with the flags set on cmd.
func applyFlags(cmd *cobra.Command, cfg *Config) error {
	f := cmd.Flags()
	var err error
	if f.Changed("assets") {
		cfg.AssetRoot, err = f.GetString("assets")
	}
	if err == nil && f.Changed("redis") {
		cfg.RedisAddr, err = f.GetString("redis")
	}
	if err == nil && f.Changed("redis-prefix") {
		cfg.RedisPrefix, err = f.GetString("redis-prefix")
	}
	if err == nil && f.Changed("log-level") {
		cfg.LogLevel, err = f.GetString("log-level")
	}
	if err == nil && f.Changed("workers") {
		cfg.Workers, err = f.GetInt("workers")
	}
	if err == nil && f.Changed("debug") {
		cfg.Debug, err = f.GetBool("debug")
	}
	return eris.Wrap(err, "read flags")
}

// resolveConfig returns the configuration for cmd.
func resolveConfig(cmd *cobra.Command) (Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, err
	}
	err = applyFlags(cmd, &cfg)
	return cfg, err
}

func newLogger(cfg Config, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), eris.Wrapf(err, "log level %q", cfg.LogLevel)
	}
	if out == nil {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
