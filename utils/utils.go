// Package utils locates the caller outside this module for log lines.
package utils

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

var moduleSourceDir string

func init() {
	_, file, _, _ := runtime.Caller(0)
	moduleSourceDir = sourceDir(file)
}

// sourceDir is the module root for a checkout, or the gorm.io directory of
// the module cache
func sourceDir(file string) string {
	dir := filepath.Dir(filepath.Dir(file))

	s := filepath.Dir(dir)
	if filepath.Base(s) != "gorm.io" {
		s = dir
	}
	return filepath.ToSlash(s) + "/"
}

func external(file string) bool {
	return !strings.HasPrefix(file, moduleSourceDir) || strings.HasSuffix(file, "_test.go")
}

// FileWithLineNum returns file:line of the first caller outside the module
func FileWithLineNum() string {
	frame := CallerFrame()
	if frame.File == "" {
		return ""
	}
	return frame.File + ":" + strconv.FormatInt(int64(frame.Line), 10)
}

// CallerFrame returns the first stack frame outside the module
func CallerFrame() runtime.Frame {
	pcs := [16]uintptr{}
	// skip runtime.Callers and CallerFrame
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.File != "" && external(frame.File) {
			return frame
		}
		if !more {
			return runtime.Frame{}
		}
	}
}
