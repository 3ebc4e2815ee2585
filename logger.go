package treeview

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	SetLogger(nil)
}

// SetLogger routes the log output of treeview and its host packages to l.
// Nothing is logged until it is called; nil turns logging off again.
//
// Debug covers ignored input (untracked contacts, modified wheels, deferred
// initialization, session traffic). Info covers lifecycle: the viewport
// initializing, servers listening, sessions opening. Warn is for host
// failures the program survives, such as a failed websocket write.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger { return logger.Load() }
