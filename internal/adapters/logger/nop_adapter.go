package logger_adapter

import (
	"github.com/firs-iln/gkh-bot/internal/core/port"
)

// NopAdapter молча отбрасывает все записи. Используется в тестах
// и как подложка, когда ни один бэкенд логирования не настроен
type NopAdapter struct{}

func NewNopAdapter() *NopAdapter { return &NopAdapter{} }

func (a *NopAdapter) Debug(string, port.Fields)        {}
func (a *NopAdapter) Info(string, port.Fields)         {}
func (a *NopAdapter) Warn(string, port.Fields)         {}
func (a *NopAdapter) Error(string, error, port.Fields) {}

func (a *NopAdapter) WithFields(port.Fields) port.LoggerPort { return a }
