package logger

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf), Config{LogLevel: Info, SlowThreshold: 50 * time.Millisecond})
	ctx := WithSession(context.Background(), "sess-2")

	logger.Info(ctx, "opened %s", "orcl")
	assert.Contains(t, buf.String(), `"message":"opened orcl"`)
	assert.Contains(t, buf.String(), `"session":"sess-2"`)

	buf.Reset()
	logger.Trace(ctx, time.Now(), func() (string, int64) { return "DELETE FROM t", 3 }, nil)
	assert.Contains(t, buf.String(), `"sql":"DELETE FROM t"`)
	assert.Contains(t, buf.String(), `"rows":3`)
	assert.Contains(t, buf.String(), `"level":"info"`)

	buf.Reset()
	logger.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 1 FROM DUAL", -1 }, nil)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "slow_threshold")

	buf.Reset()
	logger.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT x FROM DUAL", 0 }, assert.AnError)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), assert.AnError.Error())

	buf.Reset()
	logger.LogMode(Warn).Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1 FROM DUAL", 1 }, nil)
	logger.LogMode(Warn).Info(ctx, "hidden")
	assert.Empty(t, buf.String())
}

func TestZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, ZerologLevel(Silent))
	assert.Equal(t, zerolog.ErrorLevel, ZerologLevel(Error))
	assert.Equal(t, zerolog.WarnLevel, ZerologLevel(Warn))
	assert.Equal(t, zerolog.InfoLevel, ZerologLevel(Info))
	assert.NotNil(t, NewZerologConsoleLogger(Config{LogLevel: Silent}))
}
