package logger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gorm.io/oci/utils"
)

// ZapLogger implements Interface using zap
type ZapLogger struct {
	Logger            *zap.Logger
	LogLevel          LogLevel
	SlowThreshold     time.Duration
	Parameterized     bool
	IgnoreNoDataError bool
}

// NewZapLogger creates a new logger using zap
func NewZapLogger(logger *zap.Logger, config Config) Interface {
	return &ZapLogger{
		Logger:            logger,
		LogLevel:          config.LogLevel,
		SlowThreshold:     config.SlowThreshold,
		Parameterized:     config.ParameterizedQueries,
		IgnoreNoDataError: config.IgnoreNoDataError,
	}
}

// NewZapLoggerWithConfig builds the zap logger from zapConfig, or from the
// production config at the level of config
func NewZapLoggerWithConfig(config Config, zapConfig ...zap.Config) (Interface, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(ZapLevel(config.LogLevel))
	if len(zapConfig) > 0 {
		zapCfg = zapConfig[0]
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(logger, config), nil
}

// LogMode sets the log level
func (l *ZapLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *ZapLogger) fields(ctx context.Context, fields ...zap.Field) []zap.Field {
	fields = append(fields, zap.String("file", utils.FileWithLineNum()))
	if id := SessionID(ctx); id != "" {
		fields = append(fields, zap.String("session", id))
	}
	return fields
}

// Info logs info messages
func (l *ZapLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.Logger.Info(fmt.Sprintf(msg, data...), l.fields(ctx)...)
	}
}

// Warn logs warning messages
func (l *ZapLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.Logger.Warn(fmt.Sprintf(msg, data...), l.fields(ctx)...)
	}
}

// Error logs error messages
func (l *ZapLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.Logger.Error(fmt.Sprintf(msg, data...), l.fields(ctx)...)
	}
}

// Trace logs one statement round trip
func (l *ZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
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
	fields := l.fields(ctx,
		zap.String("duration", fmt.Sprintf("%.3fms", float64(elapsed.Nanoseconds())/1e6)),
		zap.String("sql", sql),
	)
	if rows != -1 {
		fields = append(fields, zap.Int64("rows", rows))
	}

	switch {
	case failed:
		fields = append(fields, zap.Error(err))
		l.Logger.Error("SQL executed", fields...)
	case slow:
		fields = append(fields, zap.String("slow_threshold", l.SlowThreshold.String()))
		l.Logger.Warn("SLOW SQL executed", fields...)
	default:
		l.Logger.Info("SQL executed", fields...)
	}
}

// ParamsFilter filters SQL parameters
func (l *ZapLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.Parameterized {
		return sql, nil
	}
	return sql, params
}

// With returns a logger adding fields to every line
func (l *ZapLogger) With(fields ...zap.Field) *ZapLogger {
	newLogger := *l
	newLogger.Logger = l.Logger.With(fields...)
	return &newLogger
}

// ZapLevel converts LogLevel to zapcore.Level
func ZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case Silent:
		return zapcore.DPanicLevel
	case Error:
		return zapcore.ErrorLevel
	case Warn:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
