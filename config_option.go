package oci

import (
	"database/sql/driver"
	"time"

	"gorm.io/oci/errtranslator"
	"gorm.io/oci/logger"
)

// ConfigOption use functional option for session Config.
type ConfigOption func(c *Config)

// WithConfig copies every field of config.
func WithConfig(config Config) ConfigOption {
	return func(c *Config) {
		*c = config
		c.InitStatements = append([]string(nil), config.InitStatements...)
	}
}

// WithLogger set logger.
func WithLogger(logger logger.Interface) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithStmtCache bounds the prepared statement cache.
func WithStmtCache(size int, ttl time.Duration) ConfigOption {
	return func(c *Config) {
		c.StmtCacheSize = size
		c.StmtCacheTTL = ttl
	}
}

// WithInlineLOBThreshold set the size above which values are bound as LOBs.
func WithInlineLOBThreshold(size int) ConfigOption {
	return func(c *Config) {
		c.InlineLOBThreshold = size
	}
}

// WithTimeZone set the session time zone.
func WithTimeZone(loc *time.Location) ConfigOption {
	return func(c *Config) {
		c.TimeZone = loc
	}
}

// WithCallTimeout set the per call timeout.
func WithCallTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.CallTimeout = timeout
	}
}

// WithConnector set connector.
func WithConnector(connector driver.Connector) ConfigOption {
	return func(c *Config) {
		c.Connector = connector
	}
}

// WithTranslator set error translator.
func WithTranslator(translator errtranslator.ErrTranslator) ConfigOption {
	return func(c *Config) {
		c.Translator = translator
	}
}

// WithInitStatements run statements right after connecting.
func WithInitStatements(statements ...string) ConfigOption {
	return func(c *Config) {
		c.InitStatements = append(c.InitStatements, statements...)
	}
}

// WithNowFunc set now func.
func WithNowFunc(fn func() time.Time) ConfigOption {
	return func(c *Config) {
		c.NowFunc = fn
	}
}
