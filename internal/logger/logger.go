package logger

import (
	"fmt"
	"io"
	"log"
)

type Logger struct {
	l    *log.Logger
	name string
}

func New(l *log.Logger) *Logger {
	return &Logger{l: l}
}

// Discard is used by tests.
func Discard() *Logger {
	return New(log.New(io.Discard, "", 0))
}

// Named returns a logger that prefixes every line with the component name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l, name: name}
}

func (l *Logger) Infof(format string, v ...any) {
	l.print("Info", format, v...)
}

func (l *Logger) Errorf(format string, v ...any) {
	l.print("Error", format, v...)
}

func (l *Logger) print(level, format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	if l.name != "" {
		l.l.Printf("[%s] %s: %s\n", level, l.name, msg)
		return
	}
	l.l.Printf("[%s]: %s\n", level, msg)
}
