// Package clog provides the thin, tag-prefixed logging helpers used across
// the call control core. It wraps the standard library "log" package —
// every component logs through a Logger carrying its own tag, written as
// a "tag: " prefix on each line.
package clog

import (
	"log"
	"os"
)

// Logger writes tag-prefixed lines to the standard logger. The zero value
// is not usable; construct with New.
type Logger struct {
	tag    string
	stdlog *log.Logger
}

// New returns a Logger that prefixes every line with "tag: ".
func New(tag string) *Logger {
	return &Logger{tag: tag, stdlog: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *Logger) Printf(format string, args ...any) {
	l.stdlog.Printf(l.tag+": "+format, args...)
}

func (l *Logger) Println(args ...any) {
	all := make([]any, 0, len(args)+1)
	all = append(all, l.tag+":")
	all = append(all, args...)
	l.stdlog.Println(all...)
}
