package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/oci/errtranslator"
	"gorm.io/oci/utils"
)

// Colors
const (
	Reset       = "\033[0m"
	Red         = "\033[31m"
	Green       = "\033[32m"
	Yellow      = "\033[33m"
	Blue        = "\033[34m"
	Magenta     = "\033[35m"
	Cyan        = "\033[36m"
	White       = "\033[37m"
	BlueBold    = "\033[34;1m"
	MagentaBold = "\033[35;1m"
	RedBold     = "\033[31;1m"
	YellowBold  = "\033[33;1m"
)

// LogLevel log level
type LogLevel int

const (
	// Silent silent log level
	Silent LogLevel = iota + 1
	// Error error log level
	Error
	// Warn warn log level
	Warn
	// Info info log level
	Info
)

// ErrNoData is the error IgnoreNoDataError keeps out of traces
var ErrNoData = errtranslator.ErrNoData

// Writer log writer interface
type Writer interface {
	Printf(string, ...interface{})
}

// Config logger config
type Config struct {
	SlowThreshold        time.Duration
	Colorful             bool
	IgnoreNoDataError    bool
	ParameterizedQueries bool
	LogLevel             LogLevel
}

// Interface logger interface
type Interface interface {
	LogMode(LogLevel) Interface
	Info(context.Context, string, ...interface{})
	Warn(context.Context, string, ...interface{})
	Error(context.Context, string, ...interface{})
	Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error)
	ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{})
}

var (
	// Discard logger will print nothing
	Discard = New(log.New(io.Discard, "", log.LstdFlags), Config{})
	// Default default logger, its level follows OCI_LOG_LEVEL
	Default = New(log.New(os.Stdout, "\r\n", log.LstdFlags), Config{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      levelFromEnv(Warn),
		Colorful:      true,
	})
)

func levelFromEnv(fallback LogLevel) LogLevel {
	if level, ok := ParseLevel(os.Getenv("OCI_LOG_LEVEL")); ok {
		return level
	}
	return fallback
}

// ParseLevel parses silent, error, warn or info
func ParseLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return Silent, true
	case "error":
		return Error, true
	case "warn", "warning":
		return Warn, true
	case "info":
		return Info, true
	}
	return 0, false
}

type sessionKey struct{}

// WithSession tags ctx with a session id every adapter adds to its lines
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionID returns the session id carried by ctx
func SessionID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

func ignored(err error, ignoreNoData bool) bool {
	return err == nil || (ignoreNoData && errors.Is(err, ErrNoData))
}

// New initialize logger
func New(writer Writer, config Config) Interface {
	var (
		infoStr      = "%s\n[info] "
		warnStr      = "%s\n[warn] "
		errStr       = "%s\n[error] "
		traceStr     = "%s %s\n[%.3fms] [rows:%v] %s"
		traceWarnStr = "%s %s %s\n[%.3fms] [rows:%v] %s"
		traceErrStr  = "%s %s %s\n[%.3fms] [rows:%v] %s"
	)

	if config.Colorful {
		infoStr = Green + "%s\n" + Reset + Green + "[info] " + Reset
		warnStr = BlueBold + "%s\n" + Reset + Magenta + "[warn] " + Reset
		errStr = Magenta + "%s\n" + Reset + Red + "[error] " + Reset
		traceStr = Green + "%s " + Cyan + "%s\n" + Reset + Yellow + "[%.3fms] " + BlueBold + "[rows:%v]" + Reset + " %s"
		traceWarnStr = Green + "%s " + Cyan + "%s " + Yellow + "%s\n" + Reset + RedBold + "[%.3fms] " + Yellow + "[rows:%v]" + Magenta + " %s" + Reset
		traceErrStr = RedBold + "%s " + Cyan + "%s " + MagentaBold + "%s\n" + Reset + Yellow + "[%.3fms] " + BlueBold + "[rows:%v]" + Reset + " %s"
	}

	return &logger{
		Writer:       writer,
		Config:       config,
		infoStr:      infoStr,
		warnStr:      warnStr,
		errStr:       errStr,
		traceStr:     traceStr,
		traceWarnStr: traceWarnStr,
		traceErrStr:  traceErrStr,
	}
}

type logger struct {
	Writer
	Config
	infoStr, warnStr, errStr            string
	traceStr, traceErrStr, traceWarnStr string
}

// LogMode log mode
func (l *logger) LogMode(level LogLevel) Interface {
	newlogger := *l
	newlogger.LogLevel = level
	return &newlogger
}

// Info print info
func (l *logger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.Printf(l.infoStr+msg, append([]interface{}{utils.FileWithLineNum()}, data...)...)
	}
}

// Warn print warn messages
func (l *logger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.Printf(l.warnStr+msg, append([]interface{}{utils.FileWithLineNum()}, data...)...)
	}
}

// Error print error messages
func (l *logger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.Printf(l.errStr+msg, append([]interface{}{utils.FileWithLineNum()}, data...)...)
	}
}

// Trace print sql message
func (l *logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= Silent {
		return
	}

	elapsed := time.Since(begin)
	session := SessionID(ctx)
	if session != "" {
		session = "[" + session + "]"
	}
	rowsOf := func(rows int64) interface{} {
		if rows == -1 {
			return "-"
		}
		return rows
	}

	switch {
	case !ignored(err, l.IgnoreNoDataError) && l.LogLevel >= Error:
		sql, rows := fc()
		l.Printf(l.traceErrStr, utils.FileWithLineNum(), session, err, float64(elapsed.Nanoseconds())/1e6, rowsOf(rows), sql)
	case elapsed > l.SlowThreshold && l.SlowThreshold != 0 && l.LogLevel >= Warn:
		sql, rows := fc()
		slowLog := fmt.Sprintf("SLOW SQL >= %v", l.SlowThreshold)
		l.Printf(l.traceWarnStr, utils.FileWithLineNum(), session, slowLog, float64(elapsed.Nanoseconds())/1e6, rowsOf(rows), sql)
	case l.LogLevel == Info:
		sql, rows := fc()
		l.Printf(l.traceStr, utils.FileWithLineNum(), session, float64(elapsed.Nanoseconds())/1e6, rowsOf(rows), sql)
	}
}

// ParamsFilter drops the bind values from traces of parameterized loggers
func (l *logger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.Config.ParameterizedQueries {
		return sql, nil
	}
	return sql, params
}
