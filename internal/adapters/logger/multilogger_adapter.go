package logger_adapter

import (
	"fmt"

	"github.com/firs-iln/gkh-bot/internal/core/port"
)

// MultiloggerAdapter рассылает каждое событие всем вложенным логгерам
type MultiloggerAdapter struct {
	loggers []port.LoggerPort
}

func NewMultiloggerAdapter(loggers ...port.LoggerPort) (*MultiloggerAdapter, error) {
	if len(loggers) == 0 {
		return nil, fmt.Errorf("multilogger requires at least one logger")
	}
	return &MultiloggerAdapter{loggers: loggers}, nil
}

func (m *MultiloggerAdapter) Debug(msg string, fields port.Fields) {
	for _, l := range m.loggers {
		l.Debug(msg, fields)
	}
}

func (m *MultiloggerAdapter) Info(msg string, fields port.Fields) {
	for _, l := range m.loggers {
		l.Info(msg, fields)
	}
}

func (m *MultiloggerAdapter) Warn(msg string, fields port.Fields) {
	for _, l := range m.loggers {
		l.Warn(msg, fields)
	}
}

func (m *MultiloggerAdapter) Error(msg string, err error, fields port.Fields) {
	for _, l := range m.loggers {
		l.Error(msg, err, fields)
	}
}

func (m *MultiloggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	wrapped := make([]port.LoggerPort, len(m.loggers))
	for i, l := range m.loggers {
		wrapped[i] = l.WithFields(fields)
	}
	return &MultiloggerAdapter{loggers: wrapped}
}
