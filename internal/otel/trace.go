package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled turns on per-key UI events. Set from MPKIO_TRACE at init.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("MPKIO_TRACE") != "")
}

// TraceEnabled reports whether MPKIO_TRACE is set.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// setTraceEnabled is for tests.
func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
