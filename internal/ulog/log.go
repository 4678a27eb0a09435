// Package ulog is a small, mutex-guarded logging facility used across the
// scanner, hash engine, parser, graph builder and manifest packages. It
// exists because none of those packages should depend on the CLI's
// --verbose flag directly; they log through here, and the CLI decides
// where output goes.
package ulog

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnableVerbose can be set at build time via
// -ldflags "-X .../internal/ulog.EnableVerbose=true".
var EnableVerbose = "false"

var (
	mu     sync.Mutex
	output io.Writer
)

// SetOutput directs log output to w. Pass nil to silence it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Verbose reports whether logging is currently enabled.
func Verbose() bool {
	if EnableVerbose == "true" {
		return true
	}
	return os.Getenv("UE5CACHE_VERBOSE") == "1"
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

func logf(component, format string, args ...interface{}) {
	if !Verbose() {
		return
	}
	w := writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[%s] "+format+"\n", append([]interface{}{component}, args...)...)
}

// Scan logs a scanner-component message.
func Scan(format string, args ...interface{}) { logf("scan", format, args...) }

// Hash logs a hash-engine message.
func Hash(format string, args ...interface{}) { logf("hash", format, args...) }

// Parse logs a package-parser message.
func Parse(format string, args ...interface{}) { logf("parse", format, args...) }

// Graph logs a dependency-graph message.
func Graph(format string, args ...interface{}) { logf("graph", format, args...) }

// Cache logs a manifest message.
func Cache(format string, args ...interface{}) { logf("cache", format, args...) }

// Warn logs a warning regardless of component, always under the "warn" tag.
func Warn(format string, args ...interface{}) { logf("warn", format, args...) }
