package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gorm.io/oci/utils"
)

// LogrusLogger implements Interface using logrus
type LogrusLogger struct {
	Logger            *logrus.Logger
	LogLevel          LogLevel
	SlowThreshold     time.Duration
	Parameterized     bool
	IgnoreNoDataError bool
}

// NewLogrusLogger creates a new logger using logrus
func NewLogrusLogger(logger *logrus.Logger, config Config) Interface {
	return &LogrusLogger{
		Logger:            logger,
		LogLevel:          config.LogLevel,
		SlowThreshold:     config.SlowThreshold,
		Parameterized:     config.ParameterizedQueries,
		IgnoreNoDataError: config.IgnoreNoDataError,
	}
}

// LogMode sets the log level
func (l *LogrusLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *LogrusLogger) entry(ctx context.Context, fields logrus.Fields) *logrus.Entry {
	fields["file"] = utils.FileWithLineNum()
	if id := SessionID(ctx); id != "" {
		fields["session"] = id
	}
	entry := l.Logger.WithFields(fields)
	if ctx != nil {
		entry = entry.WithContext(ctx)
	}
	return entry
}

// Info logs info messages
func (l *LogrusLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.entry(ctx, logrus.Fields{}).Infof(msg, data...)
	}
}

// Warn logs warning messages
func (l *LogrusLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.entry(ctx, logrus.Fields{}).Warnf(msg, data...)
	}
}

// Error logs error messages
func (l *LogrusLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.entry(ctx, logrus.Fields{}).Errorf(msg, data...)
	}
}

// Trace logs one statement round trip
func (l *LogrusLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.LogLevel <= Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := !ignored(err, l.IgnoreNoDataError)
	slow := l.SlowThreshold != 0 && elapsed > l.SlowThreshold
	if !failed && !slow && l.LogLevel < Info {
		return
	}

	sql, rows := fc()
	fields := logrus.Fields{
		"duration": fmt.Sprintf("%.3fms", float64(elapsed.Nanoseconds())/1e6),
		"sql":      sql,
	}
	if rows != -1 {
		fields["rows"] = rows
	}

	switch {
	case failed:
		fields["error"] = err.Error()
		l.entry(ctx, fields).Error("SQL executed")
	case slow:
		fields["slow_threshold"] = l.SlowThreshold.String()
		l.entry(ctx, fields).Warn("SLOW SQL executed")
	default:
		l.entry(ctx, fields).Info("SQL executed")
	}
}

// ParamsFilter filters SQL parameters
func (l *LogrusLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.Parameterized {
		return sql, nil
	}
	return sql, params
}
