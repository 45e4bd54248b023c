package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/oci/utils"
)

type slogLogger struct {
	Logger            *slog.Logger
	LogLevel          LogLevel
	SlowThreshold     time.Duration
	Parameterized     bool
	IgnoreNoDataError bool
}

// NewSlogLogger creates a new logger using log/slog
func NewSlogLogger(logger *slog.Logger, config Config) Interface {
	return &slogLogger{
		Logger:            logger,
		LogLevel:          config.LogLevel,
		SlowThreshold:     config.SlowThreshold,
		Parameterized:     config.ParameterizedQueries,
		IgnoreNoDataError: config.IgnoreNoDataError,
	}
}

func (l *slogLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *slogLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.log(ctx, slog.LevelInfo, fmt.Sprintf(msg, data...))
	}
}

func (l *slogLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.log(ctx, slog.LevelWarn, fmt.Sprintf(msg, data...))
	}
}

func (l *slogLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.log(ctx, slog.LevelError, fmt.Sprintf(msg, data...))
	}
}

func (l *slogLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.LogLevel <= Silent {
		return
	}

	elapsed := time.Since(begin)
	var level slog.Level
	switch {
	case !ignored(err, l.IgnoreNoDataError):
		level = slog.LevelError
	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold:
		level = slog.LevelWarn
	case l.LogLevel >= Info:
		level = slog.LevelInfo
	default:
		return
	}

	sql, rows := fc()
	fields := []slog.Attr{
		slog.String("duration", fmt.Sprintf("%.3fms", float64(elapsed.Nanoseconds())/1e6)),
		slog.String("sql", sql),
	}
	if rows != -1 {
		fields = append(fields, slog.Int64("rows", rows))
	}
	if level == slog.LevelError {
		fields = append(fields, slog.String("error", err.Error()))
	}

	l.log(ctx, level, "SQL executed", slog.Attr{Key: "trace", Value: slog.GroupValue(fields...)})
}

func (l *slogLogger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}

	if !l.Logger.Enabled(ctx, level) {
		return
	}

	r := slog.NewRecord(time.Now(), level, msg, utils.CallerFrame().PC)
	if id := SessionID(ctx); id != "" {
		r.AddAttrs(slog.String("session", id))
	}
	r.Add(args...)
	_ = l.Logger.Handler().Handle(ctx, r)
}

// ParamsFilter filter params
func (l *slogLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.Parameterized {
		return sql, nil
	}
	return sql, params
}
