package oci

import (
	"database/sql/driver"
	"time"

	"gorm.io/oci/errtranslator"
	"gorm.io/oci/logger"
)

// Config session config
type Config struct {
	// Logger traces every statement the session sends
	Logger logger.Interface

	// StmtCacheSize bounds the prepared statement cache, 0 keeps every statement
	StmtCacheSize int
	// StmtCacheTTL closes cached statements unused for this long, 0 never expires them
	StmtCacheTTL time.Duration

	// InlineLOBThreshold lowers the size in bytes above which text and binary
	// values are bound as LOBs; 0 keeps the Oracle column limits
	InlineLOBThreshold int
	// TimeZone naive temporal values are read and written in, UTC by default
	TimeZone *time.Location

	// CallTimeout bounds every call sent to the server, 0 for no limit
	CallTimeout time.Duration

	// Connector replaces the godror connector built from the descriptor
	Connector driver.Connector
	// Translator classifies native errors
	Translator errtranslator.ErrTranslator
	// InitStatements run once after connecting, e.g. ALTER SESSION
	InitStatements []string

	// NowFunc the function to be used when measuring elapsed time
	NowFunc func() time.Time
}

func newConfig(opts []ConfigOption) *Config {
	config := &Config{}
	for _, opt := range opts {
		if opt != nil {
			opt(config)
		}
	}

	if config.Logger == nil {
		config.Logger = logger.Default
	}
	if config.TimeZone == nil {
		config.TimeZone = time.UTC
	}
	if config.Translator == nil {
		config.Translator = &errtranslator.OracleErrTranslator{}
	}
	if config.NowFunc == nil {
		config.NowFunc = time.Now
	}
	return config
}
