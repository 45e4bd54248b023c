// Package config loads session settings for ocisql from OCI_* environment
// variables, .env files and an optional ocisql.yaml.
package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"gorm.io/oci"
	"gorm.io/oci/logger"
	"gorm.io/oci/pool"
)

// EnvPrefix prefixes the environment variable of every key, log.level is read from OCI_LOG_LEVEL
const EnvPrefix = "OCI"

const (
	keyDescriptor     = "descriptor"
	keyLogLevel       = "log.level"
	keyLogFormat      = "log.format"
	keyLogSlow        = "log.slow_threshold"
	keyStmtCacheSize  = "stmt_cache.size"
	keyStmtCacheTTL   = "stmt_cache.ttl"
	keyInlineLOB      = "inline_lob_threshold"
	keyTimeZone       = "time_zone"
	keyCallTimeout    = "call_timeout"
	keyInitStatements = "init_statements"
	keyPoolMaxOpen    = "pool.max_open"
	keyPoolMaxIdle    = "pool.max_idle"
)

var keys = []string{
	keyDescriptor, keyLogLevel, keyLogFormat, keyLogSlow, keyStmtCacheSize, keyStmtCacheTTL,
	keyInlineLOB, keyTimeZone, keyCallTimeout, keyInitStatements, keyPoolMaxOpen, keyPoolMaxIdle,
}

// Config is the loaded configuration
type Config struct {
	Descriptor string

	LogLevel      logger.LogLevel
	LogFormat     string
	SlowThreshold time.Duration

	StmtCacheSize      int
	StmtCacheTTL       time.Duration
	InlineLOBThreshold int
	TimeZone           *time.Location
	CallTimeout        time.Duration
	InitStatements     []string

	PoolMaxOpen int
	PoolMaxIdle int
}

// Options says where Load looks
type Options struct {
	// ConfigFile is read instead of ocisql.yaml in the working directory; it must exist
	ConfigFile string
	// EnvFiles are read in order, later files win; missing files are skipped.
	// Defaults to .env and .env.local
	EnvFiles []string
}

// Load merges, from lowest to highest priority, defaults, the config file,
// the env files and the process environment
func Load(opts Options) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keyLogFormat, "text")
	v.SetDefault(keyLogSlow, 200*time.Millisecond)
	v.SetDefault(keyTimeZone, "UTC")
	v.SetDefault(keyPoolMaxIdle, 2)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("ocisql")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	if err := loadEnvFiles(v, opts.EnvFiles); err != nil {
		return nil, err
	}
	return decode(v)
}

// EnvName returns the environment variable read for key
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// loadEnvFiles applies env file values the process environment does not set
func loadEnvFiles(v *viper.Viper, files []string) error {
	if files == nil {
		files = []string{".env", ".env.local"}
	}

	values := map[string]string{}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		read, err := godotenv.Read(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		for name, value := range read {
			values[name] = value
		}
	}

	for _, key := range keys {
		name := EnvName(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if value, ok := values[name]; ok {
			v.Set(key, value)
		}
	}
	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	level, ok := logger.ParseLevel(v.GetString(keyLogLevel))
	if !ok {
		return nil, fmt.Errorf("invalid %s %q", keyLogLevel, v.GetString(keyLogLevel))
	}
	loc, err := time.LoadLocation(v.GetString(keyTimeZone))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyTimeZone, err)
	}

	config := &Config{
		Descriptor:         v.GetString(keyDescriptor),
		LogLevel:           level,
		LogFormat:          strings.ToLower(v.GetString(keyLogFormat)),
		SlowThreshold:      v.GetDuration(keyLogSlow),
		StmtCacheSize:      v.GetInt(keyStmtCacheSize),
		StmtCacheTTL:       v.GetDuration(keyStmtCacheTTL),
		InlineLOBThreshold: v.GetInt(keyInlineLOB),
		TimeZone:           loc,
		CallTimeout:        v.GetDuration(keyCallTimeout),
		PoolMaxOpen:        v.GetInt(keyPoolMaxOpen),
		PoolMaxIdle:        v.GetInt(keyPoolMaxIdle),
	}

	// statements contain spaces, so a single string is split on ; only
	if raw, ok := v.Get(keyInitStatements).(string); ok {
		for _, statement := range strings.Split(raw, ";") {
			if statement = strings.TrimSpace(statement); statement != "" {
				config.InitStatements = append(config.InitStatements, statement)
			}
		}
	} else {
		config.InitStatements = v.GetStringSlice(keyInitStatements)
	}

	if config.StmtCacheSize < 0 || config.InlineLOBThreshold < 0 || config.PoolMaxOpen < 0 {
		return nil, errors.New("stmt_cache.size, inline_lob_threshold and pool.max_open must not be negative")
	}
	return config, nil
}

// Logger builds the logger named by LogFormat: text, zap, zerolog, logrus or slog
func (c *Config) Logger() (logger.Interface, error) {
	loggerConfig := logger.Config{
		SlowThreshold:     c.SlowThreshold,
		LogLevel:          c.LogLevel,
		IgnoreNoDataError: true,
	}

	switch c.LogFormat {
	case "", "text":
		loggerConfig.Colorful = true
		return logger.New(log.New(os.Stderr, "\r\n", log.LstdFlags), loggerConfig), nil
	case "zap":
		return logger.NewZapLoggerWithConfig(loggerConfig)
	case "zerolog":
		return logger.NewZerologConsoleLogger(loggerConfig), nil
	case "logrus":
		l := logrus.New()
		l.SetOutput(os.Stderr)
		return logger.NewLogrusLogger(l, loggerConfig), nil
	case "slog":
		return logger.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)), loggerConfig), nil
	}
	return nil, fmt.Errorf("unknown %s %q", keyLogFormat, c.LogFormat)
}

// SessionOptions turns the config into session options
func (c *Config) SessionOptions() ([]oci.ConfigOption, error) {
	l, err := c.Logger()
	if err != nil {
		return nil, err
	}

	opts := []oci.ConfigOption{
		oci.WithLogger(l),
		oci.WithStmtCache(c.StmtCacheSize, c.StmtCacheTTL),
		oci.WithInlineLOBThreshold(c.InlineLOBThreshold),
		oci.WithTimeZone(c.TimeZone),
		oci.WithCallTimeout(c.CallTimeout),
	}
	if len(c.InitStatements) > 0 {
		opts = append(opts, oci.WithInitStatements(c.InitStatements...))
	}
	return opts, nil
}

// PoolConfig returns the pool bounds
func (c *Config) PoolConfig(l logger.Interface) pool.Config {
	return pool.Config{MaxOpen: c.PoolMaxOpen, MaxIdle: c.PoolMaxIdle, Logger: l}
}
