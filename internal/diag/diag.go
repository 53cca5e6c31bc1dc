// Package diag is the engine's diagnostics sink: an injectable, optional
// zap logger. Nothing in piecetree depends on diag being configured — the
// default is a no-op logger, matching the fact that a single-writer,
// no-I/O library has almost nothing worth narrating on its own. A host
// application embedding the engine can call SetLogger to get structured
// records of search-cache invalidation and, more importantly, the context
// around any invariant panic.
package diag

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Field is a structured logging field, re-exported so callers in this
// module don't need to import zap directly.
type Field = zap.Field

// Int builds an integer Field.
func Int(key string, value int) Field {
	return zap.Int(key, value)
}

// String builds a string Field.
func String(key string, value string) Field {
	return zap.String(key, value)
}

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// SetLogger installs l as the engine-wide diagnostics sink. Passing nil
// restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// L returns the currently installed logger. Never nil.
func L() *zap.Logger {
	return current.Load()
}
