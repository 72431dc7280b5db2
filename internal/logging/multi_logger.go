package logging

import "github.com/vvka-141/csvload/pkg/csvload"

// MultiLogger forwards every message to each wrapped logger in order.
type MultiLogger struct {
	loggers []csvload.Logger
}

// NewMultiLogger creates a MultiLogger. Nil loggers are ignored.
func NewMultiLogger(loggers ...csvload.Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) Verbose(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Verbose(format, args...)
	}
}

func (m *MultiLogger) Info(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Info(format, args...)
	}
}

func (m *MultiLogger) Warn(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Warn(format, args...)
	}
}

func (m *MultiLogger) Error(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Error(format, args...)
	}
}

var (
	_ csvload.Logger = (*MultiLogger)(nil)
	_ csvload.Logger = (*ConsoleLogger)(nil)
	_ csvload.Logger = (*FileLogger)(nil)
	_ csvload.Logger = (*NullLogger)(nil)
)
