package logger

import (
	"io"
	"log"
	"os"
)

const (
	INFO int = iota
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level int
	out   *log.Logger
}

func NewLogger(level int) *defaultLogger {
	return New(level, os.Stderr)
}

func New(level int, out io.Writer) *defaultLogger {
	return &defaultLogger{level: level, out: log.New(out, "", log.LstdFlags)}
}

func (l *defaultLogger) logf(level int, tag, msg string, a ...any) {
	if l.level <= level {
		l.out.Printf(tag+" "+msg, a...)
	}
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.logf(INFO, "INFO", msg, a...)
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.logf(WARNING, "WARN", msg, a...)
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.logf(ERROR, "ERROR", msg, a...)
}
