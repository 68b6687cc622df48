// Package debug provides trace logging for pipeline internals. Output is
// off by default; set TRIAGE_DEBUG=1 for stderr tracing, or configure a
// rotating log file to keep a persistent trail of automated runs.
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.Mutex
	logger  *log.Logger
	rotator *lumberjack.Logger
)

func init() {
	rebuild()
}

func enabled() bool {
	return os.Getenv("TRIAGE_DEBUG") != ""
}

func rebuild() {
	var writers []io.Writer
	if enabled() {
		writers = append(writers, os.Stderr)
	}
	if rotator != nil {
		writers = append(writers, rotator)
	}
	if len(writers) == 0 {
		logger = nil
		return
	}
	logger = log.New(io.MultiWriter(writers...), "", log.LstdFlags|log.LUTC)
}

// SetLogFile routes debug output to a size-rotated file in addition to any
// stderr tracing. An empty path disables the file sink.
func SetLogFile(path string) {
	mu.Lock()
	defer mu.Unlock()
	if path == "" {
		rotator = nil
	} else {
		rotator = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
		}
	}
	rebuild()
}

// Logf writes a formatted trace line to the active sinks. A no-op when
// neither stderr tracing nor a log file is configured.
func Logf(format string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l == nil {
		return
	}
	l.Output(2, fmt.Sprintf(format, args...))
}
