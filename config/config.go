// Package config loads service configuration the way the teacher's
// reinforcement.FromYaml loads training parameters: Viper reads an optional
// YAML file, generalized here with AutomaticEnv so every field can also be
// set from the environment variables spec.md §6 names.
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full set of environment-tunable knobs spec.md §6 names.
type Config struct {
	Port     string
	MongoURI string
	Database string
	RedisURI string

	CacheTTLCurrent    time.Duration
	CacheTTLGeneration time.Duration
	CacheTTLFinal      time.Duration

	LogLevel           string
	MaxAttemptsCeiling int

	cacheTTLCurrentSecs int
	cacheTTLGenSecs     int
	cacheTTLFinalSecs   int
}

// defaults mirror spec.md §6: CURRENT=3600s, GENERATION=86400s, FINAL=604800s,
// maxAttempts ceiling 100000.
func defaults() *Config {
	return &Config{
		Port:                "8080",
		Database:            "gameoflife",
		LogLevel:            "info",
		MaxAttemptsCeiling:  100000,
		cacheTTLCurrentSecs: 3600,
		cacheTTLGenSecs:     86400,
		cacheTTLFinalSecs:   604800,
	}
}

// Load reads configuration from the YAML file at path (if it exists) and
// then from the environment, with environment variables taking precedence.
// A missing file is not an error: the teacher's FromYaml is strict about
// this because training config is mandatory, but service config here always
// has usable defaults, so only read errors other than "file not found"
// propagate.
func Load(path string) (*Config, error) {
	vp := viper.New()
	applyDefaults(vp, defaults())

	if path != "" {
		vp.SetConfigFile(path)
		vp.SetConfigType("yaml")
		vp.AddConfigPath(filepath.Dir(path))
		if err := vp.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()
	bindEnv(vp)

	cfg := defaults()
	cfg.Port = vp.GetString("port")
	cfg.MongoURI = vp.GetString("mongoUri")
	cfg.Database = vp.GetString("database")
	cfg.RedisURI = vp.GetString("redisAddr")
	cfg.LogLevel = vp.GetString("logLevel")
	cfg.MaxAttemptsCeiling = vp.GetInt("maxAttemptsCeiling")
	cfg.cacheTTLCurrentSecs = vp.GetInt("cacheTtlCurrent")
	cfg.cacheTTLGenSecs = vp.GetInt("cacheTtlGeneration")
	cfg.cacheTTLFinalSecs = vp.GetInt("cacheTtlFinal")

	cfg.CacheTTLCurrent = time.Duration(cfg.cacheTTLCurrentSecs) * time.Second
	cfg.CacheTTLGeneration = time.Duration(cfg.cacheTTLGenSecs) * time.Second
	cfg.CacheTTLFinal = time.Duration(cfg.cacheTTLFinalSecs) * time.Second

	return cfg, nil
}

func applyDefaults(vp *viper.Viper, d *Config) {
	vp.SetDefault("port", d.Port)
	vp.SetDefault("database", d.Database)
	vp.SetDefault("logLevel", d.LogLevel)
	vp.SetDefault("maxAttemptsCeiling", d.MaxAttemptsCeiling)
	vp.SetDefault("cacheTtlCurrent", d.cacheTTLCurrentSecs)
	vp.SetDefault("cacheTtlGeneration", d.cacheTTLGenSecs)
	vp.SetDefault("cacheTtlFinal", d.cacheTTLFinalSecs)
}

// bindEnv binds spec.md §6's literal environment variable names, which
// don't all follow Viper's automatic UPPER_SNAKE(dotted key) convention.
func bindEnv(vp *viper.Viper) {
	_ = vp.BindEnv("port", "PORT")
	_ = vp.BindEnv("mongoUri", "MONGO_URI")
	_ = vp.BindEnv("redisAddr", "REDIS_ADDR")
	_ = vp.BindEnv("logLevel", "LOG_LEVEL")
	_ = vp.BindEnv("maxAttemptsCeiling", "MAX_ATTEMPTS_CEILING")
	_ = vp.BindEnv("cacheTtlCurrent", "CACHE_TTL_CURRENT")
	_ = vp.BindEnv("cacheTtlGeneration", "CACHE_TTL_GENERATION")
	_ = vp.BindEnv("cacheTtlFinal", "CACHE_TTL_FINAL")
}
