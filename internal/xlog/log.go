// Package xlog is the process-scope structured logger, mirroring the
// teacher's DebugSettings.LayoutTrace-gated fmt.Println trace lines
// (core/layout.go) but backed by go.uber.org/zap instead of ad-hoc prints,
// per SPEC_FULL.md's ambient-stack logging section.
package xlog

import "go.uber.org/zap"

// Settings is the process-scope registry of debug toggles, named after the
// teacher's DebugSettings (core package) and reserved at init per spec §9's
// "module-level state" note.
var Settings = struct {
	LayoutTrace bool
	ScrollTrace bool
}{}

var base = mustNewLogger()

func mustNewLogger() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	return l.Sugar()
}

// L returns the shared sugared logger.
func L() *zap.SugaredLogger { return base }

// LayoutTrace logs a layout trace line only when Settings.LayoutTrace is on,
// mirroring `if DebugSettings.LayoutTrace { fmt.Println(...) }` call sites
// throughout core/layout.go.
func LayoutTrace(msg string, kv ...any) {
	if Settings.LayoutTrace {
		base.Debugw(msg, kv...)
	}
}

func ScrollTrace(msg string, kv ...any) {
	if Settings.ScrollTrace {
		base.Debugw(msg, kv...)
	}
}

// SetLogger replaces the shared logger, e.g. for tests that want to capture
// or silence output.
func SetLogger(l *zap.Logger) { base = l.Sugar() }
