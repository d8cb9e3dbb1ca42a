package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// storage: "redis" or "memory"
	KVBackend string `toml:"kv_backend"`
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// domain
	Timezone            string   `toml:"timezone"`
	WorkoutPlanPath     string   `toml:"workout_plan_path"`
	ChamberTick         Duration `toml:"chamber_tick"`
	ChamberMaxSession   Duration `toml:"chamber_max_session"`
	ChamberSweepEvery   Duration `toml:"chamber_sweep_every"`
	GhostRegisterPerMin int      `toml:"ghost_register_per_min"`
	DefaultTheme        string   `toml:"default_theme"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

// Duration reads strings like "2.5s" or "30m" from TOML
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration [%s]: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing in %s", env, path)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid [%s] config: %w", env, err)
	}
	return cfg, nil
}

// applyEnvOverrides lets deployments change a few settings without a new config file
func applyEnvOverrides(cfg *Config) {
	cfg.Host = getEnv("REPCHECK_HOST", cfg.Host)
	cfg.Port = getIntEnv("REPCHECK_PORT", cfg.Port)
	cfg.LogLevel = getEnv("REPCHECK_LOG_LEVEL", cfg.LogLevel)
	cfg.KVBackend = getEnv("REPCHECK_KV_BACKEND", cfg.KVBackend)
	cfg.RedisHost = getEnv("REPCHECK_REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REPCHECK_REDIS_PORT", cfg.RedisPort)
	cfg.Timezone = getEnv("REPCHECK_TIMEZONE", cfg.Timezone)
	cfg.WorkoutPlanPath = getEnv("REPCHECK_WORKOUT_PLAN_PATH", cfg.WorkoutPlanPath)
	cfg.ChamberTick.Duration = getDurationEnv("REPCHECK_CHAMBER_TICK", cfg.ChamberTick.Duration)
}

func applyDefaults(cfg *Config) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 9000
	}
	if cfg.KVBackend == "" {
		cfg.KVBackend = "redis"
	}
	if cfg.GhostRegisterPerMin <= 0 {
		cfg.GhostRegisterPerMin = 10
	}
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = "light"
	}
	if cfg.ChamberSweepEvery.Duration <= 0 {
		cfg.ChamberSweepEvery.Duration = time.Minute
	}
}

func (c *Config) Validate() error {
	switch c.KVBackend {
	case "redis":
		if c.RedisHost == "" || c.RedisPort == "" {
			return fmt.Errorf("redis_host and redis_port needed with kv_backend redis")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown kv_backend [%s]", c.KVBackend)
	}

	switch c.DefaultTheme {
	case "light", "dark":
	default:
		return fmt.Errorf("unknown default_theme [%s]", c.DefaultTheme)
	}

	if c.ChamberTick.Duration < 0 || c.ChamberMaxSession.Duration < 0 {
		return fmt.Errorf("chamber durations must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
