package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"gorm.io/oci/utils"
)

// ZerologLogger implements Interface using zerolog
type ZerologLogger struct {
	Logger            zerolog.Logger
	LogLevel          LogLevel
	SlowThreshold     time.Duration
	Parameterized     bool
	IgnoreNoDataError bool
}

// NewZerologLogger creates a new logger using zerolog
func NewZerologLogger(logger zerolog.Logger, config Config) Interface {
	return &ZerologLogger{
		Logger:            logger,
		LogLevel:          config.LogLevel,
		SlowThreshold:     config.SlowThreshold,
		Parameterized:     config.ParameterizedQueries,
		IgnoreNoDataError: config.IgnoreNoDataError,
	}
}

// NewZerologConsoleLogger writes human readable lines to stdout
func NewZerologConsoleLogger(config Config) Interface {
	consoleWriter := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stdout
		w.TimeFormat = time.RFC3339
	})
	logger := zerolog.New(consoleWriter).
		Level(ZerologLevel(config.LogLevel)).
		With().
		Timestamp().
		Logger()

	return NewZerologLogger(logger, config)
}

// LogMode sets the log level
func (l *ZerologLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *ZerologLogger) send(ctx context.Context, event *zerolog.Event, msg string) {
	event = event.Str("file", utils.FileWithLineNum())
	if id := SessionID(ctx); id != "" {
		event = event.Str("session", id)
	}
	if ctx != nil {
		event = event.Ctx(ctx)
	}
	event.Msg(msg)
}

// Info logs info messages
func (l *ZerologLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.send(ctx, l.Logger.Info(), fmt.Sprintf(msg, data...))
	}
}

// Warn logs warning messages
func (l *ZerologLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.send(ctx, l.Logger.Warn(), fmt.Sprintf(msg, data...))
	}
}

// Error logs error messages
func (l *ZerologLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.send(ctx, l.Logger.Error(), fmt.Sprintf(msg, data...))
	}
}

// Trace logs one statement round trip
func (l *ZerologLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.LogLevel <= Silent {
		return
	}

	elapsed := time.Since(begin)

	var event *zerolog.Event
	switch {
	case !ignored(err, l.IgnoreNoDataError):
		event = l.Logger.Error().Err(err)
	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold:
		event = l.Logger.Warn().Str("slow_threshold", l.SlowThreshold.String())
	case l.LogLevel >= Info:
		event = l.Logger.Info()
	default:
		return
	}

	sql, rows := fc()
	event = event.
		Str("duration", fmt.Sprintf("%.3fms", float64(elapsed.Nanoseconds())/1e6)).
		Str("sql", sql)
	if rows != -1 {
		event = event.Int64("rows", rows)
	}

	l.send(ctx, event, "SQL executed")
}

// ParamsFilter filters SQL parameters
func (l *ZerologLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.Parameterized {
		return sql, nil
	}
	return sql, params
}

// ZerologLevel converts LogLevel to zerolog.Level
func ZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case Silent:
		return zerolog.Disabled
	case Error:
		return zerolog.ErrorLevel
	case Warn:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
