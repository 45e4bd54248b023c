package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileWithLineNum(t *testing.T) {
	line := FileWithLineNum()
	assert.True(t, strings.Contains(line, "utils_test.go:"), line)
}

func TestCallerFrame(t *testing.T) {
	frame := CallerFrame()
	assert.True(t, strings.HasSuffix(frame.File, "utils_test.go"), frame.File)
	assert.NotZero(t, frame.PC)
}
